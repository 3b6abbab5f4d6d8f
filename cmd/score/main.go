// Package main scores a wallet from persisted history and prints the
// result as JSON, a Markdown score card, or CSV indicator rows.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/bmorros-uoc/wallet-scoring-system/internal/domain"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/etherscan"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/reporting"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/reputation"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/scoring"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/storage/migrations"
	pgstore "github.com/bmorros-uoc/wallet-scoring-system/internal/storage/postgres"
)

func main() {
	address := flag.String("address", "", "Wallet address to score (required)")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	etherscanKey := flag.String("etherscan-api-key", os.Getenv("ETHERSCAN_API_KEY"), "Etherscan API key (optional, enables label lookups)")
	format := flag.String("format", "json", "Output format: json, markdown, csv")
	timeout := flag.Duration("timeout", 2*time.Minute, "Overall run timeout")

	flag.Parse()

	logger := log.New(os.Stderr, "[score] ", log.LstdFlags)

	if *address == "" {
		logger.Fatal("--address is required")
	}
	if *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required")
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

	client := etherscan.NewClient(*etherscanKey)
	records := scoring.NewRecordSource(pgstore.NewTransactionStore(pool), pgstore.NewTokenTransferStore(pool), nil)
	scanner := reputation.NewScanner(reputation.NewEtherscanProvider(client))

	engine, err := scoring.NewEngine(records, scanner, scoring.DefaultConfig())
	if err != nil {
		logger.Fatalf("Failed to create scoring engine: %v", err)
	}

	result, err := engine.Score(ctx, *address)
	if err != nil {
		logger.Fatalf("Scoring failed: %v", err)
	}

	if err := render(os.Stdout, result, *format); err != nil {
		logger.Fatalf("Render failed: %v", err)
	}
}

func render(w *os.File, result *domain.ScoreResult, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "markdown":
		_, err := fmt.Fprint(w, reporting.RenderMarkdown(result, time.Now()))
		return err
	case "csv":
		_, err := fmt.Fprint(w, reporting.RenderCSV([]*domain.ScoreResult{result}))
		return err
	default:
		return fmt.Errorf("unknown format %q (want json, markdown or csv)", format)
	}
}
