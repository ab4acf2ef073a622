package ratelimit

import (
	"context"
	"errors"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/kptbarbarossa/validationly-sub003/internal/domain"
	"github.com/kptbarbarossa/validationly-sub003/internal/service/cache"
	"github.com/kptbarbarossa/validationly-sub003/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testWindow = 15 * time.Minute

func newMemoryLimiter(limit int) (*Limiter, *util.ManualClock) {
	clock := util.NewManualClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	limiter := NewLimiter(NewMemoryStore(), Config{MaxRequests: limit, Window: testWindow}, zap.NewNop(), WithClock(clock.Now))
	return limiter, clock
}

func TestWindowAdmitsCeilingThenRejects(t *testing.T) {
	const limit = 50
	limiter, _ := newMemoryLimiter(limit)
	ctx := context.Background()

	for i := 1; i <= limit; i++ {
		decision := limiter.CheckAndConsume(ctx, "1.2.3.4")
		require.True(t, decision.Allowed, "request %d", i)
		assert.Equal(t, limit-i, decision.Remaining)
	}

	decision := limiter.CheckAndConsume(ctx, "1.2.3.4")
	assert.False(t, decision.Allowed)
	assert.Equal(t, 0, decision.Remaining)
}

func TestWindowResetsAfterElapsed(t *testing.T) {
	limiter, clock := newMemoryLimiter(2)
	ctx := context.Background()

	assert.True(t, limiter.CheckAndConsume(ctx, "client").Allowed)
	assert.True(t, limiter.CheckAndConsume(ctx, "client").Allowed)
	assert.False(t, limiter.CheckAndConsume(ctx, "client").Allowed)

	clock.Advance(testWindow - time.Second)
	assert.False(t, limiter.CheckAndConsume(ctx, "client").Allowed)

	clock.Advance(2 * time.Second)
	decision := limiter.CheckAndConsume(ctx, "client")
	assert.True(t, decision.Allowed)
	assert.Equal(t, 1, decision.Remaining)
	assert.Equal(t, clock.Now().Add(testWindow).UnixMilli(), decision.ResetAt.UnixMilli())
}

func TestClientsAreIsolated(t *testing.T) {
	limiter, _ := newMemoryLimiter(1)
	ctx := context.Background()

	assert.True(t, limiter.CheckAndConsume(ctx, "a").Allowed)
	assert.False(t, limiter.CheckAndConsume(ctx, "a").Allowed)
	assert.True(t, limiter.CheckAndConsume(ctx, "b").Allowed)

	require.NoError(t, limiter.Reset(ctx, "a"))
	assert.True(t, limiter.CheckAndConsume(ctx, "a").Allowed)
}

func TestRejectedRequestDoesNotMutateRecord(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	ctx := context.Background()

	_, _, _ = store.Hit(ctx, "k", 1, testWindow, now)
	first, allowed, err := store.Hit(ctx, "k", 1, testWindow, now)
	require.NoError(t, err)
	assert.False(t, allowed)

	second, _, _ := store.Hit(ctx, "k", 1, testWindow, now)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, second.Count)
}

func TestMemoryStoreConcurrentHits(t *testing.T) {
	const limit = 40
	limiter, _ := newMemoryLimiter(limit)
	ctx := context.Background()

	var admitted atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.CheckAndConsume(ctx, "shared").Allowed {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(limit), admitted.Load())
}

func TestMemoryStorePrune(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	ctx := context.Background()

	_, _, _ = store.Hit(ctx, "old", 5, time.Minute, now.Add(-2*time.Minute))
	_, _, _ = store.Hit(ctx, "fresh", 5, time.Minute, now)

	assert.Equal(t, 1, store.Prune(now))
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStorePrunerDropsExpiredRecords(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())

	for i := 0; i < 100; i++ {
		_, _, _ = store.Hit(ctx, "spoofed-"+strconv.Itoa(i), 5, time.Millisecond, time.Now().Add(-time.Second))
	}
	_, _, _ = store.Hit(ctx, "live", 5, time.Hour, time.Now())
	require.Equal(t, 101, store.Len())

	done := make(chan struct{})
	go func() {
		defer close(done)
		store.RunPruner(ctx, 5*time.Millisecond, zap.NewNop())
	}()

	assert.Eventually(t, func() bool { return store.Len() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pruner did not stop after cancel")
	}
}

type failingStore struct{}

func (failingStore) Hit(context.Context, string, int, time.Duration, time.Time) (domain.RateLimitRecord, bool, error) {
	return domain.RateLimitRecord{}, false, errors.New("connection refused")
}

func (failingStore) Reset(context.Context, string) error { return nil }

func (failingStore) Name() string { return "failing" }

func TestStoreErrorAdmits(t *testing.T) {
	limiter := NewLimiter(failingStore{}, Config{MaxRequests: 3, Window: testWindow}, zap.NewNop())

	decision := limiter.CheckAndConsume(context.Background(), "client")
	assert.True(t, decision.Allowed)
	assert.Equal(t, "failing", limiter.Backend())
}

func TestRedisStoreWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	cacheSvc, err := cache.NewCacheService(cache.CacheConfig{Host: mr.Host(), Port: port}, zap.NewNop())
	require.NoError(t, err)
	defer cacheSvc.Close()

	store := NewRedisStore(cacheSvc, "rl:")
	limiter := NewLimiter(store, Config{MaxRequests: 3, Window: testWindow}, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.CheckAndConsume(ctx, "9.9.9.9").Allowed)
	}
	decision := limiter.CheckAndConsume(ctx, "9.9.9.9")
	assert.False(t, decision.Allowed)

	value, err := mr.Get("rl:9.9.9.9")
	require.NoError(t, err)
	assert.Equal(t, "3", value)
	assert.True(t, mr.TTL("rl:9.9.9.9") > 0)

	mr.FastForward(testWindow + time.Second)
	assert.True(t, limiter.CheckAndConsume(ctx, "9.9.9.9").Allowed)

	require.NoError(t, limiter.Reset(ctx, "9.9.9.9"))
	assert.False(t, mr.Exists("rl:9.9.9.9"))
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/validate", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	req.Header.Set("X-Real-IP", "10.0.0.2")
	assert.Equal(t, "203.0.113.7", ClientKey(req))

	req = httptest.NewRequest("POST", "/api/validate", nil)
	req.Header.Set("X-Real-IP", "10.0.0.2")
	assert.Equal(t, "10.0.0.2", ClientKey(req))

	req = httptest.NewRequest("POST", "/api/validate", nil)
	assert.Equal(t, "unknown", ClientKey(req))
}
