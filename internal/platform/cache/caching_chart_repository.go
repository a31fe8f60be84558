// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_history/internal/feature/historical/domain/entity"
	"stock_history/internal/feature/historical/usecase"
)

// CachingChartRepository decorates a ChartRepository with Redis caching of
// raw upstream payloads. Cached payloads are validated again on every call,
// so only the network round trip is saved. Payloads whose columns do not
// line up are neither stored nor served.
type CachingChartRepository struct {
	inner     usecase.ChartRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.ChartRepository = (*CachingChartRepository)(nil)

// NewCachingChartRepository decorates a ChartRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "chart".
func NewCachingChartRepository(rdb *redis.Client, ttl time.Duration, inner usecase.ChartRepository, namespace string) *CachingChartRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "chart"
	}
	return &CachingChartRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// GetChart returns the cached payload when present, otherwise asks the
// inner repository and stores its answer.
func (c *CachingChartRepository) GetChart(ctx context.Context, symbol string, params entity.QueryParams) (entity.RawPayload, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.GetChart(ctx, symbol, params)
	}

	key := c.cacheKey(symbol, params)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.RawPayload
		if err := json.Unmarshal(b, &out); err == nil && wellFormed(out, symbol) {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the upstream
	out, err := c.inner.GetChart(ctx, symbol, params)
	if err != nil {
		return entity.RawPayload{}, err
	}

	// 3) Store in cache (best effort); malformed payloads are never stored
	if !wellFormed(out, symbol) {
		return out, nil
	}
	if b, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			slog.Warn("failed to cache chart payload", "key", key, "error", err)
		}
	}

	return out, nil
}

// Invalidate removes every cached payload for symbol.
func (c *CachingChartRepository) Invalidate(ctx context.Context, symbol string) error {
	if c.rdb == nil {
		return nil
	}
	return c.deleteByPattern(ctx, c.cacheKeyPrefix(symbol)+"*")
}

// cacheKey generates a cache key for a specific query.
func (c *CachingChartRepository) cacheKey(symbol string, params entity.QueryParams) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s%d:%d:%s", c.cacheKeyPrefix(symbol), params.Period1, params.Period2, safe(params.Interval))

	keys := make([]string, 0, len(params.Extra))
	for k := range params.Extra {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, ":%s=%s", safe(k), safe(params.Extra[k]))
	}
	return b.String()
}

// cacheKeyPrefix generates a prefix for invalidating related cache entries.
func (c *CachingChartRepository) cacheKeyPrefix(symbol string) string {
	return fmt.Sprintf("%s:%s:", c.namespace, safe(symbol))
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingChartRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// wellFormed reports whether every column of p matches its timestamps.
func wellFormed(p entity.RawPayload, symbol string) bool {
	_, err := usecase.Classify(p, symbol)
	return err == nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
