// Package cache provides a Redis-backed cache for amortization plan responses.
// The calculator endpoint is pure on its inputs, so identical terms always
// produce identical plans and can be served from cache.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/PGohila/LMS/internal/amortization"
)

const planKeyPrefix = "lms:calculator:plan:"

// PlanCache caches computed amortization plans keyed by a digest of the terms.
type PlanCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPlanCache connects to Redis using a URL such as redis://localhost:6379/0.
// It returns nil when url is empty so callers can treat the cache as optional.
func NewPlanCache(url string, ttl time.Duration) (*PlanCache, error) {
	if url == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	return &PlanCache{
		client: redis.NewClient(opts),
		ttl:    ttl,
	}, nil
}

// Key derives a deterministic cache key from the calculation terms.
func (c *PlanCache) Key(terms amortization.Terms) string {
	payload, _ := json.Marshal(terms)
	sum := sha256.Sum256(payload)
	return planKeyPrefix + hex.EncodeToString(sum[:])
}

// Get returns the cached plan for the key, or nil on a miss.
func (c *PlanCache) Get(ctx context.Context, key string) (*amortization.PlanResponse, error) {
	if c == nil {
		return nil, nil
	}

	raw, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var plan amortization.PlanResponse
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Set stores the plan under the key with the configured TTL.
func (c *PlanCache) Set(ctx context.Context, key string, plan *amortization.PlanResponse) error {
	if c == nil {
		return nil
	}

	raw, err := json.Marshal(plan)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

// Close releases the underlying Redis connection.
func (c *PlanCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
