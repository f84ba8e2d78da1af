package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})

	return mr, rdb
}

func TestCachedBackendHitSkipsBackend(t *testing.T) {
	mr, rdb := newTestRedis(t)
	metrics := NewMetrics(prometheus.NewRegistry())
	backend := &stubBackend{replies: []stubReply{{text: `{"Fit Score": 75}`}}}
	cached := NewCachedBackend(backend, rdb, time.Hour, metrics)

	req := GenerationRequest{Model: "m", System: "s", Prompt: "p", Temperature: 0}

	first, err := cached.Generate(context.Background(), req)
	require.NoError(t, err)
	second, err := cached.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), backend.calls.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("miss")))

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], responseCachePrefix))
	assert.Greater(t, mr.TTL(keys[0]), time.Duration(0))
}

func TestCachedBackendBypassesNonZeroTemperature(t *testing.T) {
	mr, rdb := newTestRedis(t)
	backend := &stubBackend{replies: []stubReply{{text: "questions"}}}
	cached := NewCachedBackend(backend, rdb, time.Hour, nil)

	req := GenerationRequest{Prompt: "p", Temperature: 0.7}
	_, _ = cached.Generate(context.Background(), req)
	_, _ = cached.Generate(context.Background(), req)

	assert.Equal(t, int32(2), backend.calls.Load())
	assert.Empty(t, mr.Keys())
}

func TestCachedBackendDoesNotCacheErrors(t *testing.T) {
	mr, rdb := newTestRedis(t)
	backend := &stubBackend{replies: []stubReply{{err: errors.New("503")}}}
	cached := NewCachedBackend(backend, rdb, time.Hour, nil)

	_, err := cached.Generate(context.Background(), GenerationRequest{Prompt: "p"})

	assert.Error(t, err)
	assert.Empty(t, mr.Keys())
}

func TestCachedBackendRedisDown(t *testing.T) {
	mr, rdb := newTestRedis(t)
	mr.Close()

	backend := &stubBackend{replies: []stubReply{{text: "ok"}}}
	cached := NewCachedBackend(backend, rdb, time.Hour, nil)

	text, err := cached.Generate(context.Background(), GenerationRequest{Prompt: "p"})

	require.NoError(t, err)
	assert.Equal(t, "ok", text)
}

func TestResponseCacheKeyDistinguishesInputs(t *testing.T) {
	base := GenerationRequest{Model: "m", System: "s", Prompt: "p"}
	other := base
	other.Prompt = "q"
	split := GenerationRequest{Model: "m", System: "sp", Prompt: ""}

	assert.Equal(t, responseCacheKey(base), responseCacheKey(base))
	assert.NotEqual(t, responseCacheKey(base), responseCacheKey(other))
	assert.NotEqual(t, responseCacheKey(base), responseCacheKey(split))
}
