package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"quantumbetlab/web/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// SnapshotKey is where the latest published board is mirrored
const SnapshotKey = "quantumbetlab:board:latest"

// Config holds Redis connection settings
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// RedisCache mirrors the latest pick board so a restarted process can serve
// it before its first refresh completes
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis and verifies the connection
func NewRedisCache(cfg Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	c := &RedisCache{client: client}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		client.Close()
		return nil, err
	}

	log.Info().
		Str("addr", client.Options().Addr).
		Int("db", cfg.DB).
		Msg("Successfully connected to Redis")

	return c, nil
}

// Ping checks the Redis connection
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// SaveSnapshot stores the board under SnapshotKey; ttl <= 0 keeps it forever
func (c *RedisCache) SaveSnapshot(ctx context.Context, snap *models.Snapshot, ttl time.Duration) error {
	if snap == nil {
		return fmt.Errorf("snapshot cannot be nil")
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if ttl < 0 {
		ttl = 0
	}
	if err := c.client.Set(ctx, SnapshotKey, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to mirror snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the mirrored board, or nil if there is none
func (c *RedisCache) LoadSnapshot(ctx context.Context) (*models.Snapshot, error) {
	raw, err := c.client.Get(ctx, SnapshotKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read mirrored snapshot: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal mirrored snapshot: %w", err)
	}
	if snap.Picks == nil {
		snap.Picks = []models.Pick{}
	}
	return &snap, nil
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}
