package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/bmorros-uoc/wallet-scoring-system/internal/domain"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/storage"
)

// TokenTransferStore is an in-memory implementation of storage.TokenTransferStore.
type TokenTransferStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.TokenTransferRecord // keyed by wallet address
}

// NewTokenTransferStore creates a new in-memory token transfer store.
func NewTokenTransferStore() *TokenTransferStore {
	return &TokenTransferStore{
		data: make(map[string][]*domain.TokenTransferRecord),
	}
}

// Compile-time interface check.
var _ storage.TokenTransferStore = (*TokenTransferStore)(nil)

// ReplaceForWallet atomically replaces all stored token transfers for a wallet.
func (s *TokenTransferStore) ReplaceForWallet(_ context.Context, wallet string, transfers []*domain.TokenTransferRecord) error {
	if wallet == "" {
		return storage.ErrInvalidInput
	}

	copied := make([]*domain.TokenTransferRecord, 0, len(transfers))
	for _, tr := range transfers {
		if tr == nil {
			return storage.ErrInvalidInput
		}
		c := *tr
		copied = append(copied, &c)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[wallet] = copied
	return nil
}

// GetByWallet retrieves all token transfers for a wallet, ordered by timestamp ASC.
func (s *TokenTransferStore) GetByWallet(_ context.Context, wallet string) ([]*domain.TokenTransferRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.data[wallet]
	result := make([]*domain.TokenTransferRecord, 0, len(stored))
	for _, tr := range stored {
		c := *tr
		result = append(result, &c)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp < result[j].Timestamp
	})
	return result, nil
}
