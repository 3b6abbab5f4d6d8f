package ingestion

import (
	"context"
	"fmt"
	"log"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/bmorros-uoc/wallet-scoring-system/internal/domain"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/observability"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/storage"
)

// HistorySource fetches a wallet's on-chain history from an explorer API.
type HistorySource interface {
	NormalTransactions(ctx context.Context, address string) ([]*domain.TransactionRecord, error)
	TokenTransfers(ctx context.Context, address string) ([]*domain.TokenTransferRecord, error)
}

// Runner fetches a wallet's transaction history and replaces the stored
// snapshot with the fresh one.
type Runner struct {
	source        HistorySource
	txStore       storage.TransactionStore
	transferStore storage.TokenTransferStore
	logger        *log.Logger
}

// RunnerOptions contains configuration for creating a Runner.
type RunnerOptions struct {
	Source        HistorySource
	TxStore       storage.TransactionStore
	TransferStore storage.TokenTransferStore
	Logger        *log.Logger
}

// NewRunner creates a new ingestion runner.
func NewRunner(opts RunnerOptions) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stdout, "[ingest] ", log.LstdFlags)
	}

	return &Runner{
		source:        opts.Source,
		txStore:       opts.TxStore,
		transferStore: opts.TransferStore,
		logger:        logger,
	}
}

// Result summarizes one ingestion run.
type Result struct {
	Address        string
	Transactions   int
	TokenTransfers int
}

// Ingest fetches normal transactions and token transfers for the address
// and atomically replaces the stored snapshot for that wallet. Both fetches
// run concurrently; any failure aborts the run without touching storage.
func (r *Runner) Ingest(ctx context.Context, address string) (*Result, error) {
	addr, err := domain.NormalizeAddress(address)
	if err != nil {
		observability.RecordIngestRun("invalid_address", 0, 0)
		return nil, err
	}

	var (
		txs       []*domain.TransactionRecord
		transfers []*domain.TokenTransferRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = r.source.NormalTransactions(gctx, addr)
		if err != nil {
			return fmt.Errorf("fetching transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		transfers, err = r.source.TokenTransfers(gctx, addr)
		if err != nil {
			return fmt.Errorf("fetching token transfers: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		observability.RecordIngestRun("fetch_error", 0, 0)
		return nil, err
	}

	if err := r.txStore.ReplaceForWallet(ctx, addr, txs); err != nil {
		observability.RecordIngestRun("store_error", 0, 0)
		return nil, fmt.Errorf("storing transactions: %w", err)
	}
	if err := r.transferStore.ReplaceForWallet(ctx, addr, transfers); err != nil {
		observability.RecordIngestRun("store_error", 0, 0)
		return nil, fmt.Errorf("storing token transfers: %w", err)
	}

	observability.RecordIngestRun("ok", len(txs), len(transfers))
	r.logger.Printf("Ingested %s: %d transactions, %d token transfers", addr, len(txs), len(transfers))

	return &Result{
		Address:        addr,
		Transactions:   len(txs),
		TokenTransfers: len(transfers),
	}, nil
}
