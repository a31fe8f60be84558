package usecase

import (
	"context"
	"log/slog"

	"stock_history/internal/feature/historical/domain/entity"
	"stock_history/internal/shared/ratelimiter"
)

// HistoricalFetcher returns a validated series for one symbol.
type HistoricalFetcher interface {
	Historical(ctx context.Context, symbol string, opts entity.Options) (entity.Series, error)
}

// BarStore persists validated series.
type BarStore interface {
	UpsertBatch(ctx context.Context, symbol, interval string, series entity.Series) error
}

// IngestResult is the outcome for one symbol.
type IngestResult struct {
	Symbol string
	Bars   int
	Err    error
}

// IngestReport collects the outcome of an IngestAll run.
type IngestReport struct {
	Results []IngestResult
}

// Failed returns the results that ended in an error.
func (r IngestReport) Failed() []IngestResult {
	var out []IngestResult
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// IngestUsecase fetches historical series and persists them.
type IngestUsecase struct {
	historical  HistoricalFetcher
	store       BarStore
	rateLimiter ratelimiter.RateLimiterInterface
	logger      *slog.Logger
}

// IngestOption configures an IngestUsecase.
type IngestOption func(*IngestUsecase)

// WithIngestLogger overrides the logger used for per-symbol outcomes.
func WithIngestLogger(logger *slog.Logger) IngestOption {
	return func(iu *IngestUsecase) {
		if logger != nil {
			iu.logger = logger
		}
	}
}

// NewIngestUsecase creates a new IngestUsecase.
func NewIngestUsecase(historical HistoricalFetcher, store BarStore, rateLimiter ratelimiter.RateLimiterInterface, opts ...IngestOption) *IngestUsecase {
	iu := &IngestUsecase{
		historical:  historical,
		store:       store,
		rateLimiter: rateLimiter,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(iu)
	}
	return iu
}

// ingestOne fetches the series for symbol and upserts it.
func (iu *IngestUsecase) ingestOne(ctx context.Context, symbol string, opts entity.Options) (int, error) {
	series, err := iu.historical.Historical(ctx, symbol, opts)
	if err != nil {
		return 0, err
	}
	if err := iu.store.UpsertBatch(ctx, symbol, opts.Interval, series); err != nil {
		return 0, err
	}
	return len(series), nil
}

// IngestAll ingests every symbol one after another, waiting on the rate
// limiter before each request. A failing symbol is logged and skipped.
// It stops early only when ctx is done.
func (iu *IngestUsecase) IngestAll(ctx context.Context, symbols []string, opts entity.Options) IngestReport {
	report := IngestReport{Results: make([]IngestResult, 0, len(symbols))}
	for _, s := range symbols {
		if iu.rateLimiter != nil {
			if err := iu.rateLimiter.Wait(ctx); err != nil {
				report.Results = append(report.Results, IngestResult{Symbol: s, Err: err})
				return report
			}
		}
		n, err := iu.ingestOne(ctx, s, opts)
		if err != nil {
			iu.logger.Error("failed to ingest data", "symbol", s, "interval", opts.Interval, "error", err)
		} else {
			iu.logger.Info("ingested historical bars", "symbol", s, "interval", opts.Interval, "bars", n)
		}
		report.Results = append(report.Results, IngestResult{Symbol: s, Bars: n, Err: err})
	}
	return report
}
