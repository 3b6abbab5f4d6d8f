package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bmorros-uoc/wallet-scoring-system/internal/domain"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/storage"
)

// TokenTransferStore implements storage.TokenTransferStore using PostgreSQL.
type TokenTransferStore struct {
	pool *Pool
}

// NewTokenTransferStore creates a new TokenTransferStore.
func NewTokenTransferStore(pool *Pool) *TokenTransferStore {
	return &TokenTransferStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TokenTransferStore = (*TokenTransferStore)(nil)

// ReplaceForWallet atomically replaces all stored token transfers for a wallet.
func (s *TokenTransferStore) ReplaceForWallet(ctx context.Context, wallet string, transfers []*domain.TokenTransferRecord) error {
	if wallet == "" {
		return storage.ErrInvalidInput
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM wallet_token_transfers WHERE wallet = $1`, wallet); err != nil {
		return fmt.Errorf("delete wallet token transfers: %w", err)
	}

	query := `
		INSERT INTO wallet_token_transfers (
			wallet, tx_hash, timestamp, contract_address, token_symbol
		) VALUES ($1, $2, $3, $4, $5)
	`

	for _, rec := range transfers {
		if rec == nil {
			return storage.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, query,
			wallet,
			rec.Hash,
			rec.Timestamp,
			rec.ContractAddress,
			rec.TokenSymbol,
		)
		if err != nil {
			return fmt.Errorf("insert wallet token transfer: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByWallet retrieves all token transfers for a wallet, ordered by timestamp ASC.
func (s *TokenTransferStore) GetByWallet(ctx context.Context, wallet string) ([]*domain.TokenTransferRecord, error) {
	query := `
		SELECT tx_hash, timestamp, contract_address, token_symbol
		FROM wallet_token_transfers
		WHERE wallet = $1
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, wallet)
	if err != nil {
		return nil, fmt.Errorf("get token transfers by wallet: %w", err)
	}
	defer rows.Close()

	return scanTokenTransfers(rows)
}

// scanTokenTransfers scans rows into token transfer records.
func scanTokenTransfers(rows pgx.Rows) ([]*domain.TokenTransferRecord, error) {
	result := make([]*domain.TokenTransferRecord, 0)
	for rows.Next() {
		rec := &domain.TokenTransferRecord{}
		if err := rows.Scan(&rec.Hash, &rec.Timestamp, &rec.ContractAddress, &rec.TokenSymbol); err != nil {
			return nil, fmt.Errorf("scan token transfer: %w", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate token transfers: %w", err)
	}
	return result, nil
}
