package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/notshop-backend/internal/models"
)

func TestRedis_SetGetInvalidate(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	c := NewRedis(client, time.Minute)
	ctx := context.Background()
	sellerID := uuid.New()

	_, ok, err := c.Get(ctx, sellerID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, sellerID, models.ReputationSummary{ReviewCount: 3, AverageRating: 8}))

	got, ok, err := c.Get(ctx, sellerID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, got.ReviewCount)
	assert.Equal(t, 8.0, got.AverageRating)

	require.NoError(t, c.Invalidate(ctx, sellerID))
	_, ok, err = c.Get(ctx, sellerID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedis_Expires(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	c := NewRedis(client, time.Minute)
	ctx := context.Background()
	sellerID := uuid.New()

	require.NoError(t, c.Set(ctx, sellerID, models.ReputationSummary{ReviewCount: 1, AverageRating: 10}))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, sellerID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedis_ServerDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	_, _, err := NewRedis(client, time.Minute).Get(context.Background(), uuid.New())
	assert.Error(t, err)
}

func TestMemory_TTL(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewMemory(ctx, time.Minute)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	sellerID := uuid.New()
	require.NoError(t, m.Set(ctx, sellerID, models.ReputationSummary{ReviewCount: 2, AverageRating: 9.5}))

	got, ok, err := m.Get(ctx, sellerID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 9.5, got.AverageRating)

	now = now.Add(2 * time.Minute)
	_, ok, _ = m.Get(ctx, sellerID)
	assert.False(t, ok)
}

func TestMemory_Invalidate(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewMemory(ctx, time.Minute)
	sellerID := uuid.New()
	require.NoError(t, m.Set(ctx, sellerID, models.ReputationSummary{ReviewCount: 1, AverageRating: 7}))
	require.NoError(t, m.Invalidate(ctx, sellerID))

	_, ok, err := m.Get(ctx, sellerID)
	require.NoError(t, err)
	assert.False(t, ok)
}
