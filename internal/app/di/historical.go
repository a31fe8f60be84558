// Package di provides dependency injection factories for creating application components.
package di

import (
	"log/slog"

	"github.com/redis/go-redis/v9"

	"stock_history/internal/feature/historical/adapters/fixture"
	"stock_history/internal/feature/historical/adapters/yahoo"
	"stock_history/internal/feature/historical/usecase"
	"stock_history/internal/platform/cache"
	"stock_history/internal/platform/config"
	platformhttp "stock_history/internal/platform/http"
	"stock_history/internal/shared/ratelimiter"
)

// NewChartRepository returns the chart transport selected by cfg: saved
// fixtures when fixture.dir is set, the Yahoo API otherwise. A non-nil rdb
// wraps the transport with the Redis cache.
func NewChartRepository(cfg *config.Config, rdb *redis.Client) usecase.ChartRepository {
	var repo usecase.ChartRepository
	if cfg.Fixture.Dir != "" {
		var opts []fixture.Option
		if cfg.Fixture.File != "" {
			opts = append(opts, fixture.WithFile(cfg.Fixture.File))
		}
		slog.Info("using fixture chart transport", "dir", cfg.Fixture.Dir)
		repo = fixture.NewRepository(cfg.Fixture.Dir, opts...)
	} else {
		ycfg := yahoo.Config{
			BaseURL:   cfg.Yahoo.BaseURL,
			UserAgent: cfg.Yahoo.UserAgent,
			Timeout:   cfg.Yahoo.Timeout,
		}
		repo = yahoo.NewChartClient(ycfg, platformhttp.NewHTTPClient(ycfg.Timeout))
	}

	if rdb == nil {
		return repo
	}
	return cache.NewCachingChartRepository(rdb, cfg.Redis.TTL, repo, cfg.Redis.Namespace)
}

// NewHistoricalUsecase wires the usecase on top of NewChartRepository.
func NewHistoricalUsecase(cfg *config.Config, rdb *redis.Client, logger *slog.Logger) *usecase.HistoricalUsecase {
	return usecase.NewHistoricalUsecase(NewChartRepository(cfg, rdb), usecase.WithLogger(logger))
}

// NewRateLimiter returns the limiter pacing ingest requests, or nil when
// ingest.rate_limit is 0.
func NewRateLimiter(cfg *config.Config) ratelimiter.RateLimiterInterface {
	if cfg.Ingest.RateLimit <= 0 {
		return nil
	}
	return ratelimiter.NewRateLimiter(cfg.Ingest.RateLimit, cfg.Ingest.RateWindow)
}
