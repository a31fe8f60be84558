package usecase

import (
	"context"
	"log/slog"
	"time"

	"stock_history/internal/feature/historical/domain/entity"
)

// ChartRepository fetches the raw chart payload for a symbol.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
//
//go:generate mockgen -package=usecase_test -destination=mock_chart_repository_test.go -source=historical_usecase.go ChartRepository
type ChartRepository interface {
	GetChart(ctx context.Context, symbol string, params entity.QueryParams) (entity.RawPayload, error)
}

// Stage names one step of a historical query.
type Stage string

const (
	StageBuildQuery    Stage = "build_query"
	StageAwaitUpstream Stage = "await_upstream"
	StageValidate      Stage = "validate"
	StageAssemble      Stage = "assemble"
)

// HistoricalUsecase composes the query builder, the chart transport and the
// validation pipeline. It holds no per-call state and is safe for
// concurrent use.
type HistoricalUsecase struct {
	chart  ChartRepository
	clock  Clock
	logger *slog.Logger
}

// Option configures a HistoricalUsecase.
type Option func(*HistoricalUsecase)

// WithClock overrides the source of "now" used to default period2.
func WithClock(clock Clock) Option {
	return func(u *HistoricalUsecase) {
		if clock != nil {
			u.clock = clock
		}
	}
}

// WithLogger overrides the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(u *HistoricalUsecase) {
		if logger != nil {
			u.logger = logger
		}
	}
}

// NewHistoricalUsecase creates a HistoricalUsecase backed by chart.
func NewHistoricalUsecase(chart ChartRepository, opts ...Option) *HistoricalUsecase {
	u := &HistoricalUsecase{
		chart:  chart,
		clock:  time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Historical returns the validated bar series for symbol. Every failure is
// terminal for the call; transport errors are returned unchanged.
func (u *HistoricalUsecase) Historical(ctx context.Context, symbol string, opts entity.Options) (entity.Series, error) {
	params, err := BuildQuery(symbol, opts, u.clock)
	if err != nil {
		return nil, u.fail(StageBuildQuery, symbol, err)
	}
	u.logger.Debug("historical query built", "symbol", symbol,
		"period1", params.Period1, "period2", params.Period2, "interval", params.Interval)

	payload, err := u.chart.GetChart(ctx, symbol, params)
	if err != nil {
		return nil, u.fail(StageAwaitUpstream, symbol, err)
	}

	rows, err := Classify(payload, symbol)
	if err != nil {
		return nil, u.fail(StageValidate, symbol, err)
	}

	series, err := Assemble(rows)
	if err != nil {
		return nil, u.fail(StageAssemble, symbol, err)
	}
	u.logger.Debug("historical series assembled", "symbol", symbol,
		"rows", len(rows), "bars", len(series))
	return series, nil
}

func (u *HistoricalUsecase) fail(stage Stage, symbol string, err error) error {
	u.logger.Warn("historical query failed", "stage", string(stage), "symbol", symbol, "error", err)
	return err
}
