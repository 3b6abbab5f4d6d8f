package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bmorros-uoc/wallet-scoring-system/internal/domain"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/observability"
)

// DefaultCacheTTL bounds how long a computed score may be served without
// recomputation.
const DefaultCacheTTL = 5 * time.Minute

// ScoreCache stores serialized score results in Redis with a TTL. All
// operations are fail-soft: a cache failure never fails the request.
type ScoreCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *log.Logger
}

// NewScoreCache creates a cache over an existing Redis client.
func NewScoreCache(client *redis.Client, ttl time.Duration, logger *log.Logger) *ScoreCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = log.New(os.Stdout, "[cache] ", log.LstdFlags)
	}
	return &ScoreCache{client: client, ttl: ttl, logger: logger}
}

func cacheKey(address string) string {
	return fmt.Sprintf("wallet_scoring:score:%s", address)
}

// Get returns the cached score for a canonical address, or nil on miss.
func (c *ScoreCache) Get(ctx context.Context, address string) *domain.ScoreResult {
	raw, err := c.client.Get(ctx, cacheKey(address)).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.RecordCacheRequest("miss")
		return nil
	}
	if err != nil {
		observability.RecordCacheRequest("error")
		c.logger.Printf("Cache read failed for %s: %v", address, err)
		return nil
	}

	var result domain.ScoreResult
	if err := json.Unmarshal(raw, &result); err != nil {
		observability.RecordCacheRequest("error")
		c.logger.Printf("Cache entry for %s is corrupt, dropping: %v", address, err)
		c.client.Del(ctx, cacheKey(address))
		return nil
	}

	observability.RecordCacheRequest("hit")
	return &result
}

// Set stores a computed score with the configured TTL.
func (c *ScoreCache) Set(ctx context.Context, result *domain.ScoreResult) {
	raw, err := json.Marshal(result)
	if err != nil {
		c.logger.Printf("Cache encode failed for %s: %v", result.Address, err)
		return
	}
	if err := c.client.Set(ctx, cacheKey(result.Address), raw, c.ttl).Err(); err != nil {
		observability.RecordCacheRequest("error")
		c.logger.Printf("Cache write failed for %s: %v", result.Address, err)
	}
}

// Invalidate removes the cached score for an address. Used after a refresh
// re-ingests the wallet's history.
func (c *ScoreCache) Invalidate(ctx context.Context, address string) {
	if err := c.client.Del(ctx, cacheKey(address)).Err(); err != nil {
		c.logger.Printf("Cache invalidate failed for %s: %v", address, err)
	}
}
