package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hiredeck/hiredeck/internal/metrics"
	"github.com/redis/go-redis/v9"
)

const DefaultCacheTTL = 60 * time.Second

// Cache keeps assembled reports in Redis for a short TTL so dashboard
// polling doesn't recompute the same window over and over. A nil Cache
// (or nil client) disables caching entirely.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl}
}

// ReportKey builds a cache key from everything that changes a report's
// content.
func ReportKey(report, period string, owner uuid.UUID) string {
	return fmt.Sprintf("report:%s:%s:%s", report, period, owner)
}

// Get unmarshals a cached report into v. A miss, a decode failure or a
// Redis error all just mean "recompute".
func (c *Cache) Get(ctx context.Context, key string, v any) bool {
	if c == nil || c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		metrics.ReportCacheTotal.WithLabelValues("miss").Inc()
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		metrics.ReportCacheTotal.WithLabelValues("miss").Inc()
		return false
	}
	metrics.ReportCacheTotal.WithLabelValues("hit").Inc()
	return true
}

// Set stores a report best-effort; a Redis failure never fails the
// request that computed the report.
func (c *Cache) Set(ctx context.Context, key string, v any) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, key, raw, c.ttl).Err()
}

// Bypass records a caller-requested cache skip (?fresh=1).
func (c *Cache) Bypass() {
	metrics.ReportCacheTotal.WithLabelValues("bypass").Inc()
}
