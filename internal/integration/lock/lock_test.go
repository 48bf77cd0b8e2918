package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return server, client
}

func TestRedisLock_ExclusiveUntilReleased(t *testing.T) {
	ctx := context.Background()
	_, client := newRedis(t)
	first := NewRedisLock(client, "", 30*time.Second)
	second := NewRedisLock(client, "", 30*time.Second)

	release, ok, err := first.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = second.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	release()

	release2, ok, err := second.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	release2()
}

func TestRedisLock_LeaseExpires(t *testing.T) {
	ctx := context.Background()
	server, client := newRedis(t)
	l := NewRedisLock(client, "test-lock", time.Second)

	_, ok, err := l.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, server.Exists("test-lock"))

	server.FastForward(2 * time.Second)

	release, ok, err := l.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	release()
}

func TestRedisLock_StaleReleaseKeepsNewHolder(t *testing.T) {
	ctx := context.Background()
	server, client := newRedis(t)
	l := NewRedisLock(client, "test-lock", time.Second)

	staleRelease, ok, err := l.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	server.FastForward(2 * time.Second)
	_, ok, err = l.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	staleRelease()
	assert.True(t, server.Exists("test-lock"))
}

func TestRedisLock_ConnectionError(t *testing.T) {
	server, client := newRedis(t)
	server.Close()

	_, ok, err := NewRedisLock(client, "", time.Second).Acquire(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestLocalLock(t *testing.T) {
	ctx := context.Background()
	l := NewLocalLock()

	release, ok, err := l.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, _ = l.Acquire(ctx)
	assert.False(t, ok)

	release()
	release()

	release, ok, _ = l.Acquire(ctx)
	assert.True(t, ok)
	release()
}
