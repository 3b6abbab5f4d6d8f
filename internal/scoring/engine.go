package scoring

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/bmorros-uoc/wallet-scoring-system/internal/domain"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/observability"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/reputation"
)

// ErrNoTransactionData is returned when the store yields no transactions
// for the wallet. Activity, longevity, and diversity are undefined without
// a transaction baseline, so no partial score is computed.
var ErrNoTransactionData = errors.New("no transaction data for address")

// Profile classification thresholds, inclusive lower bounds.
const (
	powerUserThreshold  = 85.0
	stableUserThreshold = 60.0
	inactiveThreshold   = 30.0
)

// Engine computes composite scores. It is stateless between invocations:
// every Score call operates on its own freshly loaded copy of the data, so
// concurrent calls need no synchronization.
type Engine struct {
	records *RecordSource
	scanner *reputation.Scanner
	cfg     Config
	logger  *log.Logger
	now     func() time.Time
}

// EngineOption configures Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *log.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock overrides the time source used for longevity math (tests).
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates a scoring engine. The configuration is validated once
// here rather than on every request.
func NewEngine(records *RecordSource, scanner *reputation.Scanner, cfg Config, opts ...EngineOption) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring config: %w", err)
	}

	e := &Engine{
		records: records,
		scanner: scanner,
		cfg:     cfg,
		logger:  log.New(os.Stdout, "[scoring] ", log.LstdFlags),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Score computes the composite reputation score for an address.
// Terminal failures are ErrInvalidAddressFormat and ErrNoTransactionData;
// everything else degrades to conservative defaults visible only in the
// diagnostics block.
func (e *Engine) Score(ctx context.Context, address string) (*domain.ScoreResult, error) {
	start := e.now()

	addr, err := domain.NormalizeAddress(address)
	if err != nil {
		observability.RecordScoreComputed("invalid_address", 0, time.Since(start).Seconds())
		return nil, err
	}

	txs := e.records.LoadTransactions(ctx, addr)
	if len(txs) == 0 {
		observability.RecordScoreComputed("no_data", 0, time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: %s", ErrNoTransactionData, addr)
	}

	transfers := e.records.LoadTokenTransfers(ctx, addr)

	scan := e.scanner.Scan(ctx, txs)

	indicators := domain.IndicatorSet{
		domain.IndicatorActivity:    activityScore(txs, e.cfg),
		domain.IndicatorLongevity:   longevityScore(txs, e.now(), e.cfg),
		domain.IndicatorDiversity:   diversityScore(txs, e.cfg),
		domain.IndicatorGeneralRisk: generalRiskScore(txs, scan.ScamCount, e.cfg),
		domain.IndicatorAssetRisk:   assetRiskScore(txs, transfers, e.cfg),
	}

	final := e.aggregate(indicators)

	result := &domain.ScoreResult{
		Address:    addr,
		FinalScore: final,
		Profile:    classifyProfile(final),
		Indicators: indicators,
		Weights:    e.weightsCopy(),
		Diagnostics: domain.Diagnostics{
			ScamCounterpartyCount: scan.ScamCount,
			ScamAddressSample:     scan.Sample,
			LabelSource:           scan.Source,
		},
	}

	observability.RecordScoreComputed("ok", final, time.Since(start).Seconds())
	return result, nil
}

// aggregate combines the indicators into the weighted composite. With
// weights summing to 100 the result is a convex combination, so it stays
// in [0,100] whenever every indicator does.
func (e *Engine) aggregate(indicators domain.IndicatorSet) float64 {
	sum := 0.0
	for name, weight := range e.cfg.Weights {
		sum += indicators[name] * float64(weight)
	}
	return round2(sum / 100.0)
}

// weightsCopy returns the weight table for the result object. Copied so
// callers cannot mutate engine configuration.
func (e *Engine) weightsCopy() map[string]int {
	w := make(map[string]int, len(e.cfg.Weights))
	for k, v := range e.cfg.Weights {
		w[k] = v
	}
	return w
}

// classifyProfile maps the composite score to a qualitative label,
// evaluated top-down with inclusive lower bounds.
func classifyProfile(finalScore float64) string {
	switch {
	case finalScore >= powerUserThreshold:
		return domain.ProfilePowerUser
	case finalScore >= stableUserThreshold:
		return domain.ProfileStableUser
	case finalScore >= inactiveThreshold:
		return domain.ProfileInactive
	default:
		return domain.ProfileLowTrust
	}
}
