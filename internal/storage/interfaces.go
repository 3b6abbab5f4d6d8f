package storage

import (
	"context"

	"github.com/bmorros-uoc/wallet-scoring-system/internal/domain"
)

// TransactionStore provides access to wallet_transactions storage.
// Rows are keyed by the wallet address they were ingested for.
type TransactionStore interface {
	// ReplaceForWallet atomically replaces all stored transactions for a
	// wallet with the given set. An empty set clears the wallet's rows.
	ReplaceForWallet(ctx context.Context, wallet string, txs []*domain.TransactionRecord) error

	// GetByWallet retrieves all transactions for a wallet, ordered by
	// timestamp ASC. Returns an empty slice when the wallet is unknown.
	GetByWallet(ctx context.Context, wallet string) ([]*domain.TransactionRecord, error)
}

// TokenTransferStore provides access to wallet_token_transfers storage.
type TokenTransferStore interface {
	// ReplaceForWallet atomically replaces all stored token transfers for
	// a wallet with the given set.
	ReplaceForWallet(ctx context.Context, wallet string, transfers []*domain.TokenTransferRecord) error

	// GetByWallet retrieves all token transfers for a wallet, ordered by
	// timestamp ASC. Returns an empty slice when the wallet is unknown.
	GetByWallet(ctx context.Context, wallet string) ([]*domain.TokenTransferRecord, error)
}

// ScoreHistoryStore archives computed score results for later analysis.
// Archiving is best-effort: callers treat failures as non-fatal.
type ScoreHistoryStore interface {
	// InsertResult appends one computed score snapshot.
	InsertResult(ctx context.Context, result *domain.ScoreResult, computedAt int64) error
}
