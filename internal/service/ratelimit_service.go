package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/dojo-api/pkg/errors"
)

const loginLimitPrefix = "ratelimit:login:"

type rateLimitStore interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}

// LoginLimiter caps login attempts per client within a fixed window. A nil store or
// a non-positive limit disables limiting.
type LoginLimiter struct {
	store   rateLimitStore
	limit   int
	window  time.Duration
	logger  *zap.Logger
	metrics *MetricsService
}

// NewLoginLimiter constructs a LoginLimiter.
func NewLoginLimiter(store rateLimitStore, limit int, window time.Duration, logger *zap.Logger, metrics *MetricsService) *LoginLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if window <= 0 {
		window = time.Minute
	}
	return &LoginLimiter{store: store, limit: limit, window: window, logger: logger, metrics: metrics}
}

// Allow counts an attempt for client and fails with 429 once the limit is exceeded.
// Store failures let the attempt through.
func (l *LoginLimiter) Allow(ctx context.Context, client string) error {
	if l == nil || l.store == nil || l.limit <= 0 {
		return nil
	}
	count, err := l.store.Hit(ctx, loginLimitPrefix+client, l.window)
	if err != nil {
		l.logger.Warn("login rate limit unavailable", zap.String("client", client), zap.Error(err))
		return nil
	}
	if count > int64(l.limit) {
		l.metrics.RecordLogin("limited")
		return appErrors.Clone(appErrors.ErrRateLimited, "too many login attempts, try again later")
	}
	return nil
}

// Reset clears the attempt counter of client after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, client string) {
	if l == nil || l.store == nil {
		return
	}
	if err := l.store.Reset(ctx, loginLimitPrefix+client); err != nil {
		l.logger.Warn("failed to reset login rate limit", zap.String("client", client), zap.Error(err))
	}
}
