package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	client := NewClientFromRDB(rdb, "development", zap.NewNop())
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func TestGetSet(t *testing.T) {
	mr, client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "k1", "v1", time.Minute))

	val, err := client.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "v1", val)

	mr.FastForward(2 * time.Minute)
	_, err = client.Get(ctx, "k1")
	require.Error(t, err)
	assert.True(t, IsNil(err))
}

func TestGet_Miss(t *testing.T) {
	_, client := newTestClient(t)

	_, err := client.Get(context.Background(), "absent")
	require.Error(t, err)
	assert.True(t, IsNil(err))
}

func TestSetNX(t *testing.T) {
	_, client := newTestClient(t)
	ctx := context.Background()

	ok, err := client.SetNX(ctx, "once", "first", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.SetNX(ctx, "once", "second", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	val, err := client.Get(ctx, "once")
	require.NoError(t, err)
	assert.Equal(t, "first", val)
}

func TestIncrExpire(t *testing.T) {
	mr, client := newTestClient(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		n, err := client.Incr(ctx, "counter")
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	require.NoError(t, client.Expire(ctx, "counter", time.Minute))
	ttl, err := client.TTL(ctx, "counter")
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	mr.FastForward(2 * time.Minute)
	n, err := client.Exists(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestDelete(t *testing.T) {
	_, client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "a", "1", 0))
	require.NoError(t, client.Set(ctx, "b", "2", 0))

	require.NoError(t, client.Delete(ctx, "a", "b"))

	n, err := client.Exists(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestHealth(t *testing.T) {
	mr, client := newTestClient(t)

	require.NoError(t, client.Health(context.Background()))

	mr.Close()
	assert.Error(t, client.Health(context.Background()))
}

func TestKeyBuilderPrefix(t *testing.T) {
	tests := []struct {
		environment string
		wantPrefix  string
	}{
		{environment: "development", wantPrefix: "staging"},
		{environment: "staging", wantPrefix: "staging"},
		{environment: "production", wantPrefix: "prod"},
		{environment: "", wantPrefix: "prod"},
	}

	for _, tt := range tests {
		kb := NewKeyBuilder(tt.environment)
		assert.Equal(t, tt.wantPrefix, kb.GetPrefix(), tt.environment)
	}
}

func TestKeyBuilderKeys(t *testing.T) {
	kb := NewKeyBuilder("development")

	assert.Equal(t, "staging:catalog:article:art-1", kb.KeyArticleByID("art-1"))
	assert.Equal(t, "staging:catalog:author:0xabc", kb.KeyAuthorByWallet("0xabc"))
	assert.Equal(t, "staging:analytics:ratelimit:deadbeef", kb.KeyPageviewRateLimit("deadbeef"))
	assert.Equal(t, "staging:analytics:trending:10", kb.KeyTrending(10))
	assert.Equal(t, "staging:analytics:platform:2024-01-15", kb.KeyPlatformToday("2024-01-15"))
}

func TestPrefixForLog(t *testing.T) {
	assert.Equal(t, "prod:analytics:ratelimit:*", prefixForLog("prod:analytics:ratelimit:a1b2c3"))
	assert.Equal(t, "prod:catalog", prefixForLog("prod:catalog"))
}
