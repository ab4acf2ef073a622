package ratelimit

import (
	"context"
	"time"

	"github.com/kptbarbarossa/validationly-sub003/internal/domain"
	"github.com/kptbarbarossa/validationly-sub003/internal/util"
	"go.uber.org/zap"
)

// Store performs the read-check-then-increment for one client key atomically.
type Store interface {
	// Hit consumes one request slot for key at now. It reports the record after the
	// operation and whether the request is admitted.
	Hit(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (domain.RateLimitRecord, bool, error)
	Reset(ctx context.Context, key string) error
	Name() string
}

type Config struct {
	MaxRequests int
	Window      time.Duration
}

// Limiter is the admission gate in front of every validation request.
type Limiter struct {
	store  Store
	limit  int
	window time.Duration
	now    util.Clock
	logger *zap.Logger
}

type Option func(*Limiter)

func WithClock(clock util.Clock) Option {
	return func(l *Limiter) {
		l.now = clock
	}
}

func NewLimiter(store Store, cfg Config, logger *zap.Logger, opts ...Option) *Limiter {
	l := &Limiter{
		store:  store,
		limit:  cfg.MaxRequests,
		window: cfg.Window,
		now:    util.SystemClock,
		logger: logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CheckAndConsume never fails. A store error admits the request and is logged.
func (l *Limiter) CheckAndConsume(ctx context.Context, clientKey string) domain.RateLimitDecision {
	now := l.now()
	record, allowed, err := l.store.Hit(ctx, clientKey, l.limit, l.window, now)
	if err != nil {
		l.logger.Warn("Rate limit store unavailable, admitting request",
			zap.String("store", l.store.Name()),
			zap.String("client", clientKey),
			zap.Error(err),
		)
		return domain.RateLimitDecision{
			Allowed:   true,
			Limit:     l.limit,
			Remaining: l.limit - 1,
			ResetAt:   now.Add(l.window),
		}
	}

	remaining := l.limit - record.Count
	if remaining < 0 {
		remaining = 0
	}

	if !allowed {
		l.logger.Info("Rate limit exceeded",
			zap.String("client", clientKey),
			zap.Int("count", record.Count),
			zap.Int("limit", l.limit),
		)
	}

	return domain.RateLimitDecision{
		Allowed:   allowed,
		Limit:     l.limit,
		Remaining: remaining,
		ResetAt:   record.ResetAt(),
	}
}

func (l *Limiter) Reset(ctx context.Context, clientKey string) error {
	return l.store.Reset(ctx, clientKey)
}

func (l *Limiter) Backend() string {
	return l.store.Name()
}
