package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	c, err := NewRedisCache(WithRedisHost(mr.Host()), WithRedisPort(port), WithRedisPrefix("test"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t)

	require.NoError(t, c.Set(ctx, "scan:last", report{PassID: "p1", Impulses: 2}, 0))
	assert.True(t, mr.Exists("test:scan:last"))

	var got report
	require.NoError(t, c.Get(ctx, "scan:last", &got))
	assert.Equal(t, report{PassID: "p1", Impulses: 2}, got)

	require.NoError(t, c.Delete(ctx, "scan:last"))
	assert.ErrorIs(t, c.Get(ctx, "scan:last", &got), ErrCacheMiss)
}

func TestRedisCacheLock(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t)

	ok, err := c.TryLock(ctx, "scan:pass", "a", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	val, err := mr.Get("test:scan:pass")
	require.NoError(t, err)
	assert.Equal(t, "a", val)

	ok, err = c.TryLock(ctx, "scan:pass", "b", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Unlock(ctx, "scan:pass", "b"), "foreign token is ignored")
	assert.True(t, mr.Exists("test:scan:pass"))

	require.NoError(t, c.Unlock(ctx, "scan:pass", "a"))
	assert.False(t, mr.Exists("test:scan:pass"))
}

func TestRedisCacheUnlockKeepsNewerHolder(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t)

	ok, err := c.TryLock(ctx, "scan:pass", "old", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Minute)

	ok, err = c.TryLock(ctx, "scan:pass", "new", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	// the expired holder finishes late
	require.NoError(t, c.Unlock(ctx, "scan:pass", "old"))

	ok, err = c.TryLock(ctx, "scan:pass", "third", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "newer holder must keep the lock")
}
