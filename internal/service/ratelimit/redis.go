package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/kptbarbarossa/validationly-sub003/internal/domain"
	"github.com/redis/go-redis/v9"
)

// hitScript returns {count, pttl, allowed}. A rejected request leaves the counter untouched.
var hitScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if not current then
  redis.call('SET', KEYS[1], 1, 'PX', ARGV[2])
  return {1, tonumber(ARGV[2]), 1}
end
local count = tonumber(current)
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[2])
  ttl = tonumber(ARGV[2])
end
if count < tonumber(ARGV[1]) then
  count = redis.call('INCR', KEYS[1])
  return {count, ttl, 1}
end
return {count, ttl, 0}
`)

// ScriptRunner is the subset of the cache service the Redis store needs.
type ScriptRunner interface {
	RunScript(ctx context.Context, script *redis.Script, keys []string, args ...any) ([]int64, error)
	Del(ctx context.Context, key string) error
}

// RedisStore shares windows across replicas. Expiry is handled by Redis, so the clock
// passed to Hit only positions the reported reset time.
type RedisStore struct {
	cache  ScriptRunner
	prefix string
}

func NewRedisStore(cache ScriptRunner, prefix string) *RedisStore {
	return &RedisStore{cache: cache, prefix: prefix}
}

func (s *RedisStore) Name() string {
	return "redis"
}

func (s *RedisStore) key(clientKey string) string {
	return s.prefix + clientKey
}

func (s *RedisStore) Hit(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (domain.RateLimitRecord, bool, error) {
	values, err := s.cache.RunScript(ctx, hitScript, []string{s.key(key)}, limit, window.Milliseconds())
	if err != nil {
		return domain.RateLimitRecord{}, false, err
	}
	if len(values) != 3 {
		return domain.RateLimitRecord{}, false, fmt.Errorf("unexpected rate limit script reply: %v", values)
	}

	record := domain.RateLimitRecord{
		ClientKey:            key,
		Count:                int(values[0]),
		WindowResetAtEpochMs: now.UnixMilli() + values[1],
	}
	return record, values[2] == 1, nil
}

func (s *RedisStore) Reset(ctx context.Context, key string) error {
	return s.cache.Del(ctx, s.key(key))
}
