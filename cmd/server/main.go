// Package main provides the unified wallet scoring API server:
// - GET /wallet/{address}/score computes (or serves a cached) score
// - ?refresh=true re-ingests the wallet's history from Etherscan first
// - /health and /metrics for operations
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bmorros-uoc/wallet-scoring-system/internal/api"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/etherscan"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/ingestion"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/reputation"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/scoring"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/storage"
	chstore "github.com/bmorros-uoc/wallet-scoring-system/internal/storage/clickhouse"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/storage/memory"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/storage/migrations"
	pgstore "github.com/bmorros-uoc/wallet-scoring-system/internal/storage/postgres"
)

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	listenAddr := flag.String("listen-addr", envOr("LISTEN_ADDR", ":8080"), "HTTP listen address")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string (optional score archive)")
	redisAddr := flag.String("redis-addr", os.Getenv("REDIS_ADDR"), "Redis address (optional score cache)")
	etherscanKey := flag.String("etherscan-api-key", os.Getenv("ETHERSCAN_API_KEY"), "Etherscan API key")
	cacheTTL := flag.Duration("cache-ttl", 5*time.Minute, "Score cache TTL")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")

	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if !*useMemory && *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	ctx := context.Background()

	// Stores
	var (
		txStore       storage.TransactionStore
		transferStore storage.TokenTransferStore
		cleanup       func()
	)
	if *useMemory {
		txStore = memory.NewTransactionStore()
		transferStore = memory.NewTokenTransferStore()
		cleanup = func() {}
		logger.Println("Using in-memory storage")
	} else {
		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			logger.Fatalf("Failed to connect to PostgreSQL: %v", err)
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			logger.Fatalf("Failed to run migrations: %v", err)
		}
		txStore = pgstore.NewTransactionStore(pool)
		transferStore = pgstore.NewTokenTransferStore(pool)
		cleanup = pool.Close
		logger.Println("Connected to PostgreSQL")
	}
	defer cleanup()

	// Etherscan client: label lookups and refresh ingestion
	client := etherscan.NewClient(*etherscanKey)
	if !client.Configured() {
		logger.Println("ETHERSCAN_API_KEY not set: label lookups and ?refresh=true disabled")
	}

	// Scoring engine
	records := scoring.NewRecordSource(txStore, transferStore, nil)
	scanner := reputation.NewScanner(reputation.NewEtherscanProvider(client))
	engine, err := scoring.NewEngine(records, scanner, scoring.DefaultConfig())
	if err != nil {
		logger.Fatalf("Failed to create scoring engine: %v", err)
	}

	serverOpts := api.ServerOptions{Engine: engine, Logger: logger}

	if client.Configured() {
		serverOpts.Ingest = ingestion.NewRunner(ingestion.RunnerOptions{
			Source:        client,
			TxStore:       txStore,
			TransferStore: transferStore,
		})
	}

	// Optional Redis score cache
	if *redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: *redisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatalf("Failed to connect to Redis at %s: %v", *redisAddr, err)
		}
		serverOpts.Cache = api.NewScoreCache(rdb, *cacheTTL, nil)
		logger.Printf("Score cache enabled (redis %s, ttl %v)", *redisAddr, *cacheTTL)
	}

	// Optional ClickHouse score archive
	if *clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
		if err != nil {
			logger.Fatalf("Failed to connect to ClickHouse: %v", err)
		}
		defer conn.Close()
		serverOpts.History = chstore.NewScoreHistoryStore(conn)
		logger.Println("Score history archive enabled")
	}

	server := api.NewServer(serverOpts)
	if err := server.Run(*listenAddr); err != nil {
		logger.Fatalf("HTTP server error: %v", err)
	}
}

// envOr returns the env var value or a default when unset.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// loadEnvFile loads KEY=VALUE pairs from a local .env file without
// overriding existing env vars.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
