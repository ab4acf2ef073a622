package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/kptbarbarossa/validationly-sub003/internal/domain"
	"go.uber.org/zap"
)

// MemoryStore keeps records in process memory. It does not survive restarts and is not
// shared between replicas; use RedisStore for that.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*domain.RateLimitRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*domain.RateLimitRecord),
	}
}

func (s *MemoryStore) Name() string {
	return "memory"
}

func (s *MemoryStore) Hit(_ context.Context, key string, limit int, window time.Duration, now time.Time) (domain.RateLimitRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nowMs := now.UnixMilli()
	record, ok := s.records[key]
	if !ok || nowMs >= record.WindowResetAtEpochMs {
		record = &domain.RateLimitRecord{
			ClientKey:            key,
			Count:                1,
			WindowResetAtEpochMs: now.Add(window).UnixMilli(),
		}
		s.records[key] = record
		return *record, true, nil
	}

	if record.Count < limit {
		record.Count++
		return *record, true, nil
	}

	return *record, false, nil
}

func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, key)
	return nil
}

// Prune removes records whose window has elapsed and returns how many were dropped.
func (s *MemoryStore) Prune(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	nowMs := now.UnixMilli()
	removed := 0
	for key, record := range s.records {
		if nowMs >= record.WindowResetAtEpochMs {
			delete(s.records, key)
			removed++
		}
	}
	return removed
}

// RunPruner prunes expired records every interval until ctx is done. Without it the
// map keeps one record per client key ever seen.
func (s *MemoryStore) RunPruner(ctx context.Context, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if removed := s.Prune(now); removed > 0 {
				logger.Debug("Pruned expired rate limit records",
					zap.Int("removed", removed),
					zap.Int("remaining", s.Len()),
				)
			}
		}
	}
}

// Len is the number of tracked clients.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}
