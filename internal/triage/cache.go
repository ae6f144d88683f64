package triage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores triage results keyed by a hash of the symptom text so
// repeated lookups of identical symptoms skip the AI call.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache wraps a redis client. A nil client yields a nil cache, which
// every method treats as a miss.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Cache{client: client, ttl: ttl}
}

func cacheKey(symptoms string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(symptoms))))
	return "triage:analysis:" + hex.EncodeToString(sum[:])
}

// Get returns the cached result for the symptoms, or nil on a miss.
func (c *Cache) Get(ctx context.Context, symptoms string) (*Result, error) {
	if c == nil {
		return nil, nil
	}

	raw, err := c.client.Get(ctx, cacheKey(symptoms)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("triage: cache get: %w", err)
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("triage: cache decode: %w", err)
	}
	return &result, nil
}

// Set stores the result under the symptom hash with the configured TTL.
func (c *Cache) Set(ctx context.Context, symptoms string, result *Result) error {
	if c == nil || result == nil {
		return nil
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("triage: cache encode: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(symptoms), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("triage: cache set: %w", err)
	}
	return nil
}
