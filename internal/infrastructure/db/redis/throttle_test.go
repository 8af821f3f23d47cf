package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestMailThrottle_AllowsOncePerWindow(t *testing.T) {
	mr, client := newTestClient(t)
	throttle := NewMailThrottle(client, time.Minute)
	ctx := context.Background()

	ok, err := throttle.Allow(ctx, "confirmation:alice")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = throttle.Allow(ctx, "confirmation:alice")
	require.NoError(t, err)
	assert.False(t, ok, "second mail inside the window must be throttled")

	ok, err = throttle.Allow(ctx, "confirmation:bob")
	require.NoError(t, err)
	assert.True(t, ok, "keys are throttled independently")

	mr.FastForward(time.Minute + time.Second)

	ok, err = throttle.Allow(ctx, "confirmation:alice")
	require.NoError(t, err)
	assert.True(t, ok, "window expired")
}

func TestMailThrottle_ZeroWindowDisables(t *testing.T) {
	_, client := newTestClient(t)
	throttle := NewMailThrottle(client, 0)

	for i := 0; i < 3; i++ {
		ok, err := throttle.Allow(context.Background(), "k")
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestMailThrottle_ServerDown(t *testing.T) {
	mr, client := newTestClient(t)
	throttle := NewMailThrottle(client, time.Minute)
	mr.Close()

	_, err := throttle.Allow(context.Background(), "k")
	assert.Error(t, err)
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := Connect(context.Background(), Config{Addr: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	addr := mr.Addr()
	mr.Close()
	_, err = Connect(context.Background(), Config{Addr: addr, Timeout: 200 * time.Millisecond})
	assert.Error(t, err)
}

func TestConfigOptions(t *testing.T) {
	opts := Config{Addr: "cache:6379"}.options()
	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, defaultPoolSize, opts.PoolSize)
	assert.Equal(t, defaultTimeout, opts.ReadTimeout)
	assert.Equal(t, defaultTimeout, opts.DialTimeout)

	opts = Config{Addr: "cache:6379", Password: "pw", DB: 3, PoolSize: 4, Timeout: 300 * time.Millisecond}.options()
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 3, opts.DB)
	assert.Equal(t, 4, opts.PoolSize)
	assert.Equal(t, 300*time.Millisecond, opts.WriteTimeout)
	assert.Equal(t, 300*time.Millisecond, opts.PoolTimeout)
}

func TestConnect_SelectsDatabase(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := Connect(context.Background(), Config{Addr: mr.Addr(), DB: 2})
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	mr.Select(2)
	assert.True(t, mr.Exists("k"))
}
