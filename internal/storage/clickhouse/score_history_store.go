package clickhouse

import (
	"context"
	"fmt"

	"github.com/bmorros-uoc/wallet-scoring-system/internal/domain"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/storage"
)

// ScoreHistoryStore implements storage.ScoreHistoryStore using ClickHouse.
// Each computed score is appended as one row, giving a queryable history of
// how a wallet's reputation evolves between scoring runs.
type ScoreHistoryStore struct {
	conn *Conn
}

// NewScoreHistoryStore creates a new ScoreHistoryStore.
func NewScoreHistoryStore(conn *Conn) *ScoreHistoryStore {
	return &ScoreHistoryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ScoreHistoryStore = (*ScoreHistoryStore)(nil)

// InsertResult appends one computed score snapshot.
func (s *ScoreHistoryStore) InsertResult(ctx context.Context, result *domain.ScoreResult, computedAt int64) error {
	if result == nil {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO score_history (
			wallet, computed_at, final_score, profile,
			activity_score, longevity_score, diversity_score,
			general_risk_score, asset_risk_score,
			scam_counterparty_count, label_source
		)
	`

	batch, err := s.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	err = batch.Append(
		result.Address,
		uint64(computedAt),
		result.FinalScore,
		result.Profile,
		result.Indicators[domain.IndicatorActivity],
		result.Indicators[domain.IndicatorLongevity],
		result.Indicators[domain.IndicatorDiversity],
		result.Indicators[domain.IndicatorGeneralRisk],
		result.Indicators[domain.IndicatorAssetRisk],
		uint32(result.Diagnostics.ScamCounterpartyCount),
		result.Diagnostics.LabelSource,
	)
	if err != nil {
		return fmt.Errorf("append to batch: %w", err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}
