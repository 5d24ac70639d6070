// Package simcache is a Redis cache-aside layer for mortgage simulations.
// Simulation is deterministic, so results are keyed by a hash of the input.
package simcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"investr-engine/internal/common/logger"
	"investr-engine/internal/common/metrics"
	"investr-engine/internal/models"
)

const keyPrefix = "mortgage:sim:"

// DefaultTTL applies when no positive TTL is configured.
const DefaultTTL = time.Hour

// Cache never fails a simulation: Redis errors are logged and treated as a miss.
// A Cache with a nil client is a valid no-op.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func New(client *redis.Client, ttl time.Duration, log logger.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{client: client, ttl: ttl, logger: log}
}

// Key returns the cache key for in.
func Key(in models.LoanInput) string {
	// struct field order makes the encoding canonical
	data, _ := json.Marshal(in)
	sum := sha256.Sum256(data)
	return keyPrefix + hex.EncodeToString(sum[:])
}

// Get returns the cached result for in, if any.
func (c *Cache) Get(ctx context.Context, in models.LoanInput) (*models.MortgageSimulationResult, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	key := Key(in)
	val, err := c.client.Get(ctx, key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		metrics.SimulationCache.WithLabelValues("miss").Inc()
		return nil, false
	case err != nil:
		metrics.SimulationCache.WithLabelValues("error").Inc()
		c.logger.Warn("Simulation cache read failed", map[string]interface{}{"key": key, "error": err})
		return nil, false
	}

	var res models.MortgageSimulationResult
	if err := json.Unmarshal([]byte(val), &res); err != nil {
		metrics.SimulationCache.WithLabelValues("error").Inc()
		c.logger.Warn("Discarding corrupt simulation cache entry", map[string]interface{}{"key": key, "error": err})
		return nil, false
	}

	metrics.SimulationCache.WithLabelValues("hit").Inc()
	return &res, true
}

// Put stores res for in.
func (c *Cache) Put(ctx context.Context, in models.LoanInput, res *models.MortgageSimulationResult) {
	if c == nil || c.client == nil || res == nil {
		return
	}

	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	key := Key(in)
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("Simulation cache write failed", map[string]interface{}{"key": key, "error": err})
	}
}

// ComputeFunc produces a simulation on a cache miss.
type ComputeFunc func(ctx context.Context, in models.LoanInput) (*models.MortgageSimulationResult, error)

// GetOrCompute returns the cached result for in, or computes and stores it.
// The bool reports a cache hit. Compute errors are returned as-is and nothing
// is stored.
func (c *Cache) GetOrCompute(ctx context.Context, in models.LoanInput, compute ComputeFunc) (*models.MortgageSimulationResult, bool, error) {
	if res, ok := c.Get(ctx, in); ok {
		return res, true, nil
	}

	res, err := compute(ctx, in)
	if err != nil {
		return nil, false, err
	}
	c.Put(ctx, in, res)
	return res, false, nil
}
