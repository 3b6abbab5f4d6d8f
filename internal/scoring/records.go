package scoring

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/bmorros-uoc/wallet-scoring-system/internal/domain"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/observability"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/storage"
)

// RecordSource adapts the storage layer for the indicator engine. Reads
// fail soft: a store error degrades to an empty result so a scoring pass
// runs with degraded indicators instead of aborting. Records are
// sanitized field-by-field on load.
type RecordSource struct {
	txStore       storage.TransactionStore
	transferStore storage.TokenTransferStore
	logger        *log.Logger
}

// NewRecordSource creates a record source over the given stores.
func NewRecordSource(txStore storage.TransactionStore, transferStore storage.TokenTransferStore, logger *log.Logger) *RecordSource {
	if logger == nil {
		logger = log.New(os.Stdout, "[records] ", log.LstdFlags)
	}
	return &RecordSource{
		txStore:       txStore,
		transferStore: transferStore,
		logger:        logger,
	}
}

// LoadTransactions reads the wallet's transactions. Never returns an
// error: failures are logged and degrade to an empty slice.
func (r *RecordSource) LoadTransactions(ctx context.Context, wallet string) []*domain.TransactionRecord {
	txs, err := r.txStore.GetByWallet(ctx, wallet)
	if err != nil {
		observability.RecordStoreReadError("transactions")
		r.logger.Printf("transaction read failed for %s, degrading to empty: %v", wallet, err)
		return nil
	}

	sane := make([]*domain.TransactionRecord, 0, len(txs))
	for _, tx := range txs {
		if tx == nil || tx.Timestamp <= 0 {
			// A record without a usable timestamp cannot feed longevity
			// math; treat it as missing.
			continue
		}
		tx.From = strings.ToLower(tx.From)
		tx.To = strings.ToLower(tx.To)
		if strings.HasPrefix(tx.Value, "-") {
			// Negative amounts cannot occur on chain; coerce to 0 so the
			// volume sum stays non-negative.
			tx.Value = "0"
		}
		sane = append(sane, tx)
	}
	return sane
}

// LoadTokenTransfers reads the wallet's token transfers with the same
// fail-soft contract as LoadTransactions.
func (r *RecordSource) LoadTokenTransfers(ctx context.Context, wallet string) []*domain.TokenTransferRecord {
	transfers, err := r.transferStore.GetByWallet(ctx, wallet)
	if err != nil {
		observability.RecordStoreReadError("token_transfers")
		r.logger.Printf("token transfer read failed for %s, degrading to empty: %v", wallet, err)
		return nil
	}

	sane := make([]*domain.TokenTransferRecord, 0, len(transfers))
	for _, tr := range transfers {
		if tr == nil || tr.Timestamp <= 0 {
			continue
		}
		tr.ContractAddress = strings.ToLower(tr.ContractAddress)
		sane = append(sane, tr)
	}
	return sane
}
