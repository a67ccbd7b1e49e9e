// Package cache provides an optional Redis-backed cache for the full
// placement dataset. A nil *DatasetCache is valid and disables caching, so
// callers never need to branch on whether Redis is configured.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tanmay/placementdesk/internal/app/models"
)

// ErrCacheMiss is returned when the dataset snapshot is not cached.
var ErrCacheMiss = errors.New("cache miss")

const datasetKey = "placements:all"

// DatasetCache caches the fetch-all result as one JSON snapshot with a TTL.
type DatasetCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDatasetCache connects to Redis and verifies the connection.
func NewDatasetCache(ctx context.Context, addr, password string, db int, ttl time.Duration) (*DatasetCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &DatasetCache{client: client, ttl: ttl}, nil
}

// Get returns the cached dataset snapshot, or ErrCacheMiss.
func (c *DatasetCache) Get(ctx context.Context) ([]models.PlacementRecord, error) {
	if c == nil {
		return nil, ErrCacheMiss
	}

	payload, err := c.client.Get(ctx, datasetKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read dataset cache: %w", err)
	}

	var records []models.PlacementRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("failed to decode cached dataset: %w", err)
	}
	return records, nil
}

// Set stores the dataset snapshot with the configured TTL.
func (c *DatasetCache) Set(ctx context.Context, records []models.PlacementRecord) error {
	if c == nil {
		return nil
	}

	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode dataset for cache: %w", err)
	}
	return c.client.Set(ctx, datasetKey, payload, c.ttl).Err()
}

// Invalidate drops the cached snapshot. Called after any write to the store.
func (c *DatasetCache) Invalidate(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Del(ctx, datasetKey).Err()
}

// Close releases the Redis connection.
func (c *DatasetCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
