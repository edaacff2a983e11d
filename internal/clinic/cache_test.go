package clinic

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*ProfileCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewProfileCache(client, time.Minute), mr
}

func TestProfileCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	p := &Profile{ClinicID: 42, Username: "lifeline-kigali", ClinicName: "Lifeline Kigali"}
	require.NoError(t, cache.Set(ctx, p))

	got, err := cache.Get(ctx, "lifeline-kigali")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 42, got.ClinicID)
	assert.Equal(t, "Lifeline Kigali", got.ClinicName)
}

func TestProfileCacheMiss(t *testing.T) {
	cache, _ := newTestCache(t)

	got, err := cache.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProfileCacheExpiry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, &Profile{Username: "expiring"}))
	mr.FastForward(2 * time.Minute)

	got, err := cache.Get(ctx, "expiring")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProfileCacheInvalidate(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, &Profile{Username: "gone"}))
	require.NoError(t, cache.Invalidate(ctx, "gone"))

	got, err := cache.Get(ctx, "gone")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNilCacheIsNoOp(t *testing.T) {
	var cache *ProfileCache
	ctx := context.Background()

	got, err := cache.Get(ctx, "anything")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, cache.Set(ctx, &Profile{Username: "x"}))
	assert.NoError(t, cache.Invalidate(ctx, "x"))
}
