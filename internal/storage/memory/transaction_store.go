package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/bmorros-uoc/wallet-scoring-system/internal/domain"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/storage"
)

// TransactionStore is an in-memory implementation of storage.TransactionStore.
type TransactionStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.TransactionRecord // keyed by wallet address
}

// NewTransactionStore creates a new in-memory transaction store.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{
		data: make(map[string][]*domain.TransactionRecord),
	}
}

// Compile-time interface check.
var _ storage.TransactionStore = (*TransactionStore)(nil)

// ReplaceForWallet atomically replaces all stored transactions for a wallet.
func (s *TransactionStore) ReplaceForWallet(_ context.Context, wallet string, txs []*domain.TransactionRecord) error {
	if wallet == "" {
		return storage.ErrInvalidInput
	}

	copied := make([]*domain.TransactionRecord, 0, len(txs))
	for _, tx := range txs {
		if tx == nil {
			return storage.ErrInvalidInput
		}
		c := *tx
		copied = append(copied, &c)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[wallet] = copied
	return nil
}

// GetByWallet retrieves all transactions for a wallet, ordered by timestamp ASC.
func (s *TransactionStore) GetByWallet(_ context.Context, wallet string) ([]*domain.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.data[wallet]
	result := make([]*domain.TransactionRecord, 0, len(stored))
	for _, tx := range stored {
		c := *tx
		result = append(result, &c)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp < result[j].Timestamp
	})
	return result, nil
}
