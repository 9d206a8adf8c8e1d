package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCacheServiceNilReceiverIsDisabled(t *testing.T) {
	var svc *CacheService
	assert.False(t, svc.Enabled())

	hit, err := svc.Get(context.Background(), "k", &struct{}{})
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, svc.Set(context.Background(), "k", "v", time.Minute))
	require.NoError(t, svc.Invalidate(context.Background(), "k*"))
}

func TestCacheServiceDisabledFlagSkipsRepo(t *testing.T) {
	repo := newInMemoryCacheRepo()
	svc := NewCacheService(repo, nil, 0, zap.NewNop(), false)

	require.NoError(t, svc.Set(context.Background(), "k", "v", time.Minute))
	assert.Empty(t, repo.values, "disabled cache must never touch the repository")

	hit, err := svc.Get(context.Background(), "k", &struct{}{})
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCacheServiceSetThenGetRoundTrips(t *testing.T) {
	repo := newInMemoryCacheRepo()
	svc := NewCacheService(repo, nil, time.Minute, zap.NewNop(), true)

	require.NoError(t, svc.Set(context.Background(), "k", map[string]string{"a": "b"}, 0))

	var dest map[string]string
	hit, err := svc.Get(context.Background(), "k", &dest)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "b", dest["a"])
}

func TestCacheServiceGetMissReturnsFalseNotError(t *testing.T) {
	repo := newInMemoryCacheRepo()
	svc := NewCacheService(repo, nil, 0, zap.NewNop(), true)

	hit, err := svc.Get(context.Background(), "missing", &struct{}{})
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCacheServiceInvalidateClearsRepo(t *testing.T) {
	repo := newInMemoryCacheRepo()
	svc := NewCacheService(repo, nil, 0, zap.NewNop(), true)
	require.NoError(t, svc.Set(context.Background(), "k", "v", 0))

	require.NoError(t, svc.Invalidate(context.Background(), "*"))
	assert.Empty(t, repo.values)
}
