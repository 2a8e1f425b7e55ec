//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"quantumbetlab/web/internal/config"
	"quantumbetlab/web/internal/models"
	"quantumbetlab/web/internal/picks"
	"quantumbetlab/web/internal/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run with: go test -v -tags=integration ./internal/cache/...

func setupTestCache(t *testing.T) *RedisCache {
	t.Helper()

	c, err := NewRedisCache(Config{Host: "localhost", Port: "6379", DB: 15})
	require.NoError(t, err, "Failed to connect to test Redis")

	require.NoError(t, c.client.Del(context.Background(), SnapshotKey).Err())
	t.Cleanup(func() { c.Close() })
	return c
}

func TestRedisCache_LoadMissing(t *testing.T) {
	c := setupTestCache(t)

	snap, err := c.LoadSnapshot(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestRedisCache_RoundTrip(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	want := models.NewSnapshot([]models.Pick{
		{Sport: models.Soccer, Match: "Arsenal vs Chelsea", Market: "Goals UNDER 2.5", Prob: 55, Edge: 8, Score: 0.044},
	}, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	want.MatchesScanned = 4

	require.NoError(t, c.SaveSnapshot(ctx, want, time.Minute))

	got, err := c.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Picks, got.Picks)
	assert.Equal(t, 4, got.MatchesScanned)
	assert.True(t, want.RefreshedAt.Equal(got.RefreshedAt))

	ttl, err := c.client.TTL(ctx, SnapshotKey).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestRedisCache_SaveNil(t *testing.T) {
	c := setupTestCache(t)
	assert.Error(t, c.SaveSnapshot(context.Background(), nil, time.Minute))
}

func TestRedisCache_SeedsBoard(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	saved := models.NewSnapshot([]models.Pick{
		{Sport: models.Basketball, Match: "Lakers vs Celtics", Market: "X - Rebounds OVER 8.5", Prob: 70, Edge: 10, Score: 0.07},
	}, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, c.SaveSnapshot(ctx, saved, time.Minute))

	board := picks.NewBoard()
	sched := scheduler.NewScheduler(&config.Config{}, nil, board)

	seeded, err := sched.Seed(ctx, c)
	require.NoError(t, err)
	require.NotNil(t, seeded)
	assert.Equal(t, saved.ID, seeded.ID)

	require.NotNil(t, board.Load())
	assert.Equal(t, saved.Picks, board.Picks())
}

func TestRedisCache_SeedsNothingWhenEmpty(t *testing.T) {
	c := setupTestCache(t)

	board := picks.NewBoard()
	sched := scheduler.NewScheduler(&config.Config{}, nil, board)

	seeded, err := sched.Seed(context.Background(), c)
	require.NoError(t, err)
	assert.Nil(t, seeded)
	assert.Nil(t, board.Load())
}
