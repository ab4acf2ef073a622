package cache

import (
	"context"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCache(t *testing.T) (*CacheService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	svc, err := NewCacheService(CacheConfig{Host: mr.Host(), Port: port}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc, mr
}

func TestNewCacheServiceConnectionFailed(t *testing.T) {
	svc, err := NewCacheService(CacheConfig{Host: "127.0.0.1", Port: 1}, zap.NewNop())
	assert.Error(t, err)
	assert.Nil(t, svc)
}

func TestRunScriptReturnsIntegers(t *testing.T) {
	svc, _ := newTestCache(t)
	script := redis.NewScript(`redis.call('SET', KEYS[1], ARGV[1]) return {tonumber(ARGV[1]), 7}`)

	values, err := svc.RunScript(context.Background(), script, []string{"k"}, 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 7}, values)
}

func TestDel(t *testing.T) {
	svc, mr := newTestCache(t)
	require.NoError(t, mr.Set("rl:a", "1"))
	require.NoError(t, mr.Set("other", "1"))

	require.NoError(t, svc.Del(context.Background(), "rl:a"))
	assert.False(t, mr.Exists("rl:a"))
	assert.True(t, mr.Exists("other"))
}

func TestPing(t *testing.T) {
	svc, mr := newTestCache(t)
	require.NoError(t, svc.Ping(context.Background()))

	mr.Close()
	assert.Error(t, svc.Ping(context.Background()))
}
