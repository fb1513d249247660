package redis

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/your-org/commerce-analytics/internal/domain/analytics"
	"github.com/your-org/commerce-analytics/internal/infrastructure/database/memory"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return NewClient(rdb), mr
}

func TestReportCache(t *testing.T) {
	client, mr := newTestClient(t)
	cache := NewReportCache(client, "test:")
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, cache.Set(ctx, "report", []byte(`{"ok":true}`), time.Minute))
	require.True(t, mr.Exists("test:report"))

	data, ok, err := cache.Get(ctx, "report")
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"ok":true}`, string(data))

	mr.FastForward(2 * time.Minute)
	_, ok, err = cache.Get(ctx, "report")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestServiceReportKeys(t *testing.T) {
	client, mr := newTestClient(t)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc := analytics.NewService(memory.NewStore(), analytics.DefaultOptions(), logger)
	svc.UseCache(NewReportCache(client, ReportCachePrefix), time.Minute)

	_, err := svc.GenerateReport(context.Background(), nil, nil)
	require.NoError(t, err)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	require.True(t, strings.HasPrefix(keys[0], "analytics:report:"), keys[0])
	require.NotContains(t, keys[0], "analytics:reportanalytics")
}

func TestReportCacheUnavailable(t *testing.T) {
	client, mr := newTestClient(t)
	cache := NewReportCache(client, "")
	mr.Close()

	_, _, err := cache.Get(context.Background(), "report")
	require.Error(t, err)
}

func TestRateLimiter(t *testing.T) {
	client, mr := newTestClient(t)
	limiter := NewRateLimiter(client, 2, time.Minute)
	ctx := context.Background()

	first, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	require.True(t, first.Allowed)
	require.Equal(t, 1, first.Remaining)

	second, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	require.True(t, second.Allowed)
	require.Zero(t, second.Remaining)

	third, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	require.False(t, third.Allowed)

	other, err := limiter.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	require.True(t, other.Allowed)

	mr.FastForward(time.Minute + time.Second)
	again, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	require.True(t, again.Allowed)
}

func TestHealth(t *testing.T) {
	client, _ := newTestClient(t)
	require.NoError(t, client.Health(context.Background()))
}
