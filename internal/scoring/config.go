// Package scoring computes the composite reputation score for a wallet
// from its stored transaction and token transfer history.
package scoring

import (
	"fmt"
	"strings"

	"github.com/bmorros-uoc/wallet-scoring-system/internal/domain"
)

// Normalization constants for the indicator curves.
const (
	// DefaultActivityTxCap is the transaction count that saturates the
	// activity term.
	DefaultActivityTxCap = 5000.0

	// DefaultActivityVolumeCap is the native volume (display units) that
	// saturates the volume term.
	DefaultActivityVolumeCap = 10000.0

	// DefaultLongevityRefDays maps ~2 years of history to a score near 100.
	DefaultLongevityRefDays = 730.0

	// DefaultDiversityThreshold is the unique recipient count that maps
	// to a diversity score of 100.
	DefaultDiversityThreshold = 25.0

	// DefaultGeneralRiskLambda is the exponential decay constant for
	// general risk incidents. One incident drops the score to ~40.7.
	DefaultGeneralRiskLambda = 0.9

	// DefaultAssetRiskLambda is the softer decay constant for asset risk
	// incidents.
	DefaultAssetRiskLambda = 0.6
)

// AddressSet is a lookup set of canonical lowercase addresses.
type AddressSet map[string]struct{}

// NewAddressSet builds a set, lowercasing each entry.
func NewAddressSet(addrs ...string) AddressSet {
	set := make(AddressSet, len(addrs))
	for _, a := range addrs {
		set[strings.ToLower(a)] = struct{}{}
	}
	return set
}

// Contains reports whether the set holds the address.
func (s AddressSet) Contains(addr string) bool {
	_, ok := s[addr]
	return ok
}

// Config carries the weight table, risk address lists, and normalization
// constants for the indicator engine. Risk lists are injected data, not
// compiled constants, so they can be updated without a rebuild.
type Config struct {
	// Weights maps indicator name to its integer weight. Must cover all
	// five indicators and sum to 100.
	Weights map[string]int

	// KnownScamAddresses feed the general risk indicator: each
	// transaction to one of these counts as an incident.
	KnownScamAddresses AddressSet

	// MixerAddresses feed the asset risk indicator: each transaction to
	// one of these counts as an incident.
	MixerAddresses AddressSet

	// PrivacyTokenContracts feed the asset risk indicator: each token
	// transfer involving one of these contracts counts as an incident.
	PrivacyTokenContracts AddressSet

	ActivityTxCap      float64
	ActivityVolumeCap  float64
	LongevityRefDays   float64
	DiversityThreshold float64
	GeneralRiskLambda  float64
	AssetRiskLambda    float64
}

// DefaultConfig returns the standard scoring configuration.
func DefaultConfig() Config {
	return Config{
		Weights: map[string]int{
			domain.IndicatorActivity:    25,
			domain.IndicatorLongevity:   20,
			domain.IndicatorDiversity:   25,
			domain.IndicatorGeneralRisk: 25,
			domain.IndicatorAssetRisk:   5,
		},
		KnownScamAddresses: NewAddressSet(
			"0xdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef",
			"0x1234567812345678123456781234567812345678",
		),
		MixerAddresses: NewAddressSet(
			"0x1111111111111111111111111111111111111111",
			"0x2222222222222222222222222222222222222222",
		),
		PrivacyTokenContracts: NewAddressSet(
			"0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
			"0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
		),
		ActivityTxCap:      DefaultActivityTxCap,
		ActivityVolumeCap:  DefaultActivityVolumeCap,
		LongevityRefDays:   DefaultLongevityRefDays,
		DiversityThreshold: DefaultDiversityThreshold,
		GeneralRiskLambda:  DefaultGeneralRiskLambda,
		AssetRiskLambda:    DefaultAssetRiskLambda,
	}
}

// Validate checks the configuration once at startup.
func (c Config) Validate() error {
	sum := 0
	for _, name := range domain.IndicatorOrder {
		w, ok := c.Weights[name]
		if !ok {
			return fmt.Errorf("missing weight for indicator %s", name)
		}
		if w < 0 {
			return fmt.Errorf("negative weight for indicator %s", name)
		}
		sum += w
	}
	if sum != 100 {
		return fmt.Errorf("indicator weights must sum to 100, got %d", sum)
	}

	if c.ActivityTxCap <= 0 || c.ActivityVolumeCap <= 0 {
		return fmt.Errorf("activity caps must be positive")
	}
	if c.LongevityRefDays <= 0 {
		return fmt.Errorf("longevity reference days must be positive")
	}
	if c.DiversityThreshold <= 0 {
		return fmt.Errorf("diversity threshold must be positive")
	}
	if c.GeneralRiskLambda <= 0 || c.AssetRiskLambda <= 0 {
		return fmt.Errorf("risk decay constants must be positive")
	}
	return nil
}
