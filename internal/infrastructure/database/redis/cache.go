// internal/infrastructure/database/redis/cache.go
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/your-org/commerce-analytics/internal/domain/analytics"
)

// ReportCachePrefix namespaces the service's report keys
const ReportCachePrefix = "analytics:"

// ReportCache keeps serialized analytics reports in Redis
type ReportCache struct {
	client *Client
	prefix string
}

var _ analytics.ReportCache = (*ReportCache)(nil)

// NewReportCache creates a report cache namespaced under prefix
func NewReportCache(client *Client, prefix string) *ReportCache {
	return &ReportCache{client: client, prefix: prefix}
}

// Get returns the cached bytes for key. A miss is not an error.
func (c *ReportCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Redis.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached report: %w", err)
	}
	return data, true, nil
}

// Set stores data under key for ttl
func (c *ReportCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.client.Redis.Set(ctx, c.prefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache report: %w", err)
	}
	return nil
}
