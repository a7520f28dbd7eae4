package ratelimit_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-manager/internal/adapters/ratelimit"
	"pet-manager/internal/domain/auth"
)

var (
	_ auth.Limiter = (*ratelimit.Memory)(nil)
	_ auth.Limiter = (*ratelimit.Redis)(nil)
)

func TestMemory_WindowResetsOnEveryHit(t *testing.T) {
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := ratelimit.NewMemory(ratelimit.WithClock(func() time.Time { return clock }))
	ctx := context.Background()
	key := "ana@example.com|10.0.0.1"

	for i := 1; i <= 4; i++ {
		n, err := m.Hit(ctx, key, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
		clock = clock.Add(30 * time.Second)
	}

	// 2 minutos desde el primer hit, pero solo 30s desde el último: sigue vivo.
	blocked, err := m.TooManyAttempts(ctx, key, 5)
	require.NoError(t, err)
	assert.False(t, blocked)

	_, err = m.Hit(ctx, key, time.Minute)
	require.NoError(t, err)
	blocked, err = m.TooManyAttempts(ctx, key, 5)
	require.NoError(t, err)
	assert.True(t, blocked)

	wait, err := m.AvailableIn(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, wait)

	clock = clock.Add(time.Minute)
	blocked, err = m.TooManyAttempts(ctx, key, 5)
	require.NoError(t, err)
	assert.False(t, blocked)

	wait, err = m.AvailableIn(ctx, key)
	require.NoError(t, err)
	assert.Zero(t, wait)
}

func TestMemory_ClearAndIsolation(t *testing.T) {
	m := ratelimit.NewMemory()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := m.Hit(ctx, "a|1.1.1.1", time.Minute)
		require.NoError(t, err)
	}

	blocked, _ := m.TooManyAttempts(ctx, "a|2.2.2.2", 5)
	assert.False(t, blocked)
	blocked, _ = m.TooManyAttempts(ctx, "b|1.1.1.1", 5)
	assert.False(t, blocked)

	require.NoError(t, m.Clear(ctx, "a|1.1.1.1"))
	blocked, _ = m.TooManyAttempts(ctx, "a|1.1.1.1", 5)
	assert.False(t, blocked)
}

func TestMemory_Cleanup(t *testing.T) {
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := ratelimit.NewMemory(ratelimit.WithClock(func() time.Time { return clock }))
	ctx := context.Background()

	_, _ = m.Hit(ctx, "old", time.Second)
	_, _ = m.Hit(ctx, "fresh", time.Hour)
	clock = clock.Add(time.Minute)
	m.Cleanup()

	n, _ := m.Hit(ctx, "fresh", time.Hour)
	assert.Equal(t, 2, n)
	n, _ = m.Hit(ctx, "old", time.Hour)
	assert.Equal(t, 1, n)
}

func TestRedis_Limiter(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	l := ratelimit.NewRedis(rdb, ratelimit.WithPrefix("test_login:"+uuid.NewString()))
	ctx := context.Background()
	key := "ana@example.com|10.0.0.1"

	for i := 1; i <= 5; i++ {
		n, err := l.Hit(ctx, key, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	blocked, err := l.TooManyAttempts(ctx, key, 5)
	require.NoError(t, err)
	assert.True(t, blocked)

	wait, err := l.AvailableIn(ctx, key)
	require.NoError(t, err)
	assert.Greater(t, wait, 50*time.Second)
	assert.LessOrEqual(t, wait, time.Minute)

	require.NoError(t, l.Clear(ctx, key))
	blocked, err = l.TooManyAttempts(ctx, key, 5)
	require.NoError(t, err)
	assert.False(t, blocked)

	wait, err = l.AvailableIn(ctx, key)
	require.NoError(t, err)
	assert.Zero(t, wait)
}
