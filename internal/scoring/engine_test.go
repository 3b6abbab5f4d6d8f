package scoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmorros-uoc/wallet-scoring-system/internal/domain"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/reputation"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/storage/memory"
)

const engineTestWallet = "0xdadb0d80178819f2319190d340ce9a924f783711"

// fixedLabels is a LabelProvider serving a fixed label table.
type fixedLabels struct {
	labels map[string]*reputation.LabelInfo
}

func (p *fixedLabels) LookupLabel(_ context.Context, address string) (*reputation.LabelInfo, error) {
	return p.labels[address], nil
}

func (p *fixedLabels) Configured() bool { return p.labels != nil }
func (p *fixedLabels) Source() string   { return reputation.SourceEtherscanNametag }

// newTestEngine builds an engine over in-memory stores with a pinned clock.
func newTestEngine(t *testing.T, labels map[string]*reputation.LabelInfo, now time.Time) (*Engine, *memory.TransactionStore, *memory.TokenTransferStore) {
	t.Helper()

	txStore := memory.NewTransactionStore()
	transferStore := memory.NewTokenTransferStore()
	records := NewRecordSource(txStore, transferStore, nil)
	scanner := reputation.NewScanner(&fixedLabels{labels: labels}, reputation.WithLookupDelay(0))

	engine, err := NewEngine(records, scanner, DefaultConfig(), WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	return engine, txStore, transferStore
}

func TestEngine_InvalidAddress(t *testing.T) {
	engine, _, _ := newTestEngine(t, nil, time.Now().UTC())

	_, err := engine.Score(context.Background(), "0xNOTANADDRESS")
	assert.ErrorIs(t, err, domain.ErrInvalidAddressFormat)
}

func TestEngine_NoTransactionData(t *testing.T) {
	engine, _, _ := newTestEngine(t, nil, time.Now().UTC())

	result, err := engine.Score(context.Background(), engineTestWallet)
	assert.ErrorIs(t, err, ErrNoTransactionData)
	assert.Nil(t, result)
}

func TestEngine_TokenTransfersAloneAreInsufficient(t *testing.T) {
	engine, _, transferStore := newTestEngine(t, nil, time.Now().UTC())

	err := transferStore.ReplaceForWallet(context.Background(), engineTestWallet, []*domain.TokenTransferRecord{
		{Hash: "0xt1", Timestamp: 1700000000, ContractAddress: "0xcccccccccccccccccccccccccccccccccccccccc"},
	})
	require.NoError(t, err)

	_, err = engine.Score(context.Background(), engineTestWallet)
	assert.ErrorIs(t, err, ErrNoTransactionData)
}

func TestEngine_SingleTransactionScenario(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	engine, txStore, _ := newTestEngine(t, nil, now)

	first := now.AddDate(0, 0, -365)
	err := txStore.ReplaceForWallet(context.Background(), engineTestWallet, []*domain.TransactionRecord{
		{
			Hash:      "0xa1",
			Timestamp: first.Unix(),
			From:      engineTestWallet,
			To:        "0x3333333333333333333333333333333333333333",
			Value:     "1000000000000000000",
		},
	})
	require.NoError(t, err)

	result, err := engine.Score(context.Background(), engineTestWallet)
	require.NoError(t, err)

	assert.Equal(t, engineTestWallet, result.Address)
	assert.Equal(t, 7.83, result.Indicators[domain.IndicatorActivity])
	assert.Equal(t, 89.51, result.Indicators[domain.IndicatorLongevity])
	assert.Equal(t, 4.0, result.Indicators[domain.IndicatorDiversity])
	assert.Equal(t, 100.0, result.Indicators[domain.IndicatorGeneralRisk])
	assert.Equal(t, 100.0, result.Indicators[domain.IndicatorAssetRisk])

	// Weighted composite: (7.83×25 + 89.51×20 + 4×25 + 100×25 + 100×5) / 100.
	assert.Equal(t, 50.86, result.FinalScore)
	assert.Equal(t, domain.ProfileInactive, result.Profile)
	assert.Equal(t, reputation.SourceNotConfigured, result.Diagnostics.LabelSource)
}

func TestEngine_ScamCounterpartyFeedsGeneralRisk(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	flagged := "0x4444444444444444444444444444444444444444"

	engine, txStore, _ := newTestEngine(t, map[string]*reputation.LabelInfo{
		flagged: {Labels: []string{"Fake_Phishing999"}},
	}, now)

	err := txStore.ReplaceForWallet(context.Background(), engineTestWallet, []*domain.TransactionRecord{
		{Hash: "0xa1", Timestamp: now.AddDate(0, 0, -100).Unix(), To: flagged, Value: "0"},
	})
	require.NoError(t, err)

	result, err := engine.Score(context.Background(), engineTestWallet)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Diagnostics.ScamCounterpartyCount)
	assert.Equal(t, []string{flagged}, result.Diagnostics.ScamAddressSample)
	assert.Equal(t, reputation.SourceEtherscanNametag, result.Diagnostics.LabelSource)
	assert.Equal(t, 40.66, result.Indicators[domain.IndicatorGeneralRisk])
}

func TestEngine_MixedCaseAddressNormalized(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	engine, txStore, _ := newTestEngine(t, nil, now)

	err := txStore.ReplaceForWallet(context.Background(), engineTestWallet, []*domain.TransactionRecord{
		{Hash: "0xa1", Timestamp: now.AddDate(0, 0, -10).Unix(), Value: "0"},
	})
	require.NoError(t, err)

	result, err := engine.Score(context.Background(), "0xDadB0d80178819F2319190D340ce9A924f783711")
	require.NoError(t, err)
	assert.Equal(t, engineTestWallet, result.Address)
}

func TestEngine_RejectsInvalidWeights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights[domain.IndicatorActivity] = 30 // sum is now 105

	records := NewRecordSource(memory.NewTransactionStore(), memory.NewTokenTransferStore(), nil)
	scanner := reputation.NewScanner(&fixedLabels{})

	_, err := NewEngine(records, scanner, cfg)
	assert.Error(t, err)
}

func TestClassifyProfile_Boundaries(t *testing.T) {
	tests := []struct {
		score   float64
		profile string
	}{
		{100.0, domain.ProfilePowerUser},
		{85.0, domain.ProfilePowerUser},
		{84.99, domain.ProfileStableUser},
		{60.0, domain.ProfileStableUser},
		{59.99, domain.ProfileInactive},
		{30.0, domain.ProfileInactive},
		{29.99, domain.ProfileLowTrust},
		{0.0, domain.ProfileLowTrust},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.profile, classifyProfile(tt.score), "score %.2f", tt.score)
	}
}

func TestEngine_FailSoftStoreErrorStillTerminal(t *testing.T) {
	// A failing transaction store degrades to empty, which is the
	// terminal no-data case: the two-tier policy never invents a score.
	records := NewRecordSource(failingTxStore{}, memory.NewTokenTransferStore(), nil)
	scanner := reputation.NewScanner(&fixedLabels{}, reputation.WithLookupDelay(0))

	engine, err := NewEngine(records, scanner, DefaultConfig())
	require.NoError(t, err)

	_, err = engine.Score(context.Background(), engineTestWallet)
	assert.ErrorIs(t, err, ErrNoTransactionData)
}

// failingTxStore always errors on read.
type failingTxStore struct{}

func (failingTxStore) ReplaceForWallet(context.Context, string, []*domain.TransactionRecord) error {
	return errors.New("store down")
}

func (failingTxStore) GetByWallet(context.Context, string) ([]*domain.TransactionRecord, error) {
	return nil, errors.New("store down")
}
