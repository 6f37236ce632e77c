package storage

import (
	"context"
	"fmt"
	"time"

	"NavTrace/internal/config"
	"NavTrace/internal/frame"
	"NavTrace/internal/model"

	"github.com/redis/go-redis/v9"
)

// LatestStore caches the most recent dump frame per instance in Redis so
// the API can serve "what is the receiver sending right now" without
// touching ClickHouse. Entries expire after the configured TTL so a dead
// probe does not serve stale data forever.
type LatestStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLatestStore connects to Redis and verifies the connection.
func NewLatestStore(cfg config.RedisConfig) (*LatestStore, error) {
	ttl := 5 * time.Minute
	if cfg.TTL != "" {
		parsed, err := time.ParseDuration(cfg.TTL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis ttl: %w", err)
		}
		ttl = parsed
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.Addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &LatestStore{client: client, ttl: ttl}, nil
}

func latestKey(instance uint8) string {
	return fmt.Sprintf("navtrace:latest:%d", instance)
}

// Set stores a frame as the latest for its instance.
func (s *LatestStore) Set(ctx context.Context, f *model.DumpFrame) error {
	return s.client.Set(ctx, latestKey(f.Instance), frame.Encode(f), s.ttl).Err()
}

// Get returns the latest frame for an instance, or nil if none is cached.
func (s *LatestStore) Get(ctx context.Context, instance uint8) (*model.DumpFrame, error) {
	data, err := s.client.Get(ctx, latestKey(instance)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return frame.Decode(data)
}

// Close releases the Redis connection.
func (s *LatestStore) Close() error {
	return s.client.Close()
}
