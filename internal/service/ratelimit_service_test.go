package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/dojo-api/pkg/errors"
)

type memoryRateStore struct {
	counts map[string]int64
	err    error
}

func (m *memoryRateStore) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	if m.counts == nil {
		m.counts = make(map[string]int64)
	}
	m.counts[key]++
	return m.counts[key], nil
}

func (m *memoryRateStore) Reset(ctx context.Context, key string) error {
	delete(m.counts, key)
	return nil
}

func TestLoginLimiterBlocksAfterLimit(t *testing.T) {
	limiter := NewLoginLimiter(&memoryRateStore{}, 2, time.Minute, nil, nil)
	ctx := context.Background()

	require.NoError(t, limiter.Allow(ctx, "10.0.0.1"))
	require.NoError(t, limiter.Allow(ctx, "10.0.0.1"))
	err := limiter.Allow(ctx, "10.0.0.1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrRateLimited.Status, appErrors.FromError(err).Status)

	require.NoError(t, limiter.Allow(ctx, "10.0.0.2"))

	limiter.Reset(ctx, "10.0.0.1")
	assert.NoError(t, limiter.Allow(ctx, "10.0.0.1"))
}

func TestLoginLimiterFailsOpen(t *testing.T) {
	limiter := NewLoginLimiter(&memoryRateStore{err: errors.New("redis down")}, 1, time.Minute, nil, nil)
	assert.NoError(t, limiter.Allow(context.Background(), "10.0.0.1"))

	var disabled *LoginLimiter
	assert.NoError(t, disabled.Allow(context.Background(), "10.0.0.1"))
}
