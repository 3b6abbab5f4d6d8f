package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bmorros-uoc/wallet-scoring-system/internal/domain"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/storage"
)

// TransactionStore implements storage.TransactionStore using PostgreSQL.
type TransactionStore struct {
	pool *Pool
}

// NewTransactionStore creates a new TransactionStore.
func NewTransactionStore(pool *Pool) *TransactionStore {
	return &TransactionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TransactionStore = (*TransactionStore)(nil)

// ReplaceForWallet atomically replaces all stored transactions for a wallet.
// Delete plus re-insert runs in one transaction so readers never observe a
// partially ingested history.
func (s *TransactionStore) ReplaceForWallet(ctx context.Context, wallet string, txs []*domain.TransactionRecord) error {
	if wallet == "" {
		return storage.ErrInvalidInput
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM wallet_transactions WHERE wallet = $1`, wallet); err != nil {
		return fmt.Errorf("delete wallet transactions: %w", err)
	}

	query := `
		INSERT INTO wallet_transactions (
			wallet, tx_hash, timestamp, from_address, to_address, value
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	for _, rec := range txs {
		if rec == nil {
			return storage.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, query,
			wallet,
			rec.Hash,
			rec.Timestamp,
			rec.From,
			rec.To,
			rec.Value,
		)
		if err != nil {
			return fmt.Errorf("insert wallet transaction: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByWallet retrieves all transactions for a wallet, ordered by timestamp ASC.
func (s *TransactionStore) GetByWallet(ctx context.Context, wallet string) ([]*domain.TransactionRecord, error) {
	query := `
		SELECT tx_hash, timestamp, from_address, to_address, value
		FROM wallet_transactions
		WHERE wallet = $1
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, wallet)
	if err != nil {
		return nil, fmt.Errorf("get transactions by wallet: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// scanTransactions scans rows into transaction records.
func scanTransactions(rows pgx.Rows) ([]*domain.TransactionRecord, error) {
	result := make([]*domain.TransactionRecord, 0)
	for rows.Next() {
		rec := &domain.TransactionRecord{}
		if err := rows.Scan(&rec.Hash, &rec.Timestamp, &rec.From, &rec.To, &rec.Value); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return result, nil
}
