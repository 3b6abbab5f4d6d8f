// Package main fetches a wallet's transaction and token transfer history
// from Etherscan and persists it, replacing any previous snapshot.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/bmorros-uoc/wallet-scoring-system/internal/etherscan"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/ingestion"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/storage/migrations"
	pgstore "github.com/bmorros-uoc/wallet-scoring-system/internal/storage/postgres"
)

func main() {
	address := flag.String("address", "", "Wallet address to ingest (required)")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	etherscanKey := flag.String("etherscan-api-key", os.Getenv("ETHERSCAN_API_KEY"), "Etherscan API key")
	timeout := flag.Duration("timeout", 2*time.Minute, "Overall run timeout")

	flag.Parse()

	logger := log.New(os.Stdout, "[ingest] ", log.LstdFlags)

	if *address == "" {
		logger.Fatal("--address is required")
	}
	if *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required")
	}

	client := etherscan.NewClient(*etherscanKey)
	if !client.Configured() {
		logger.Fatal("--etherscan-api-key is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := pgstore.NewPool(ctx, *postgresDSN)
	if err != nil {
		logger.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	runner := ingestion.NewRunner(ingestion.RunnerOptions{
		Source:        client,
		TxStore:       pgstore.NewTransactionStore(pool),
		TransferStore: pgstore.NewTokenTransferStore(pool),
		Logger:        logger,
	})

	res, err := runner.Ingest(ctx, *address)
	if err != nil {
		logger.Fatalf("Ingestion failed: %v", err)
	}

	logger.Printf("Done: %s (%d transactions, %d token transfers)", res.Address, res.Transactions, res.TokenTransfers)
}
