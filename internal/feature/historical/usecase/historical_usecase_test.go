package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"stock_history/internal/feature/historical/domain"
	"stock_history/internal/feature/historical/domain/entity"
	"stock_history/internal/feature/historical/usecase"
)

func newUsecase(t *testing.T) (*usecase.HistoricalUsecase, *MockChartRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := NewMockChartRepository(ctrl)
	uc := usecase.NewHistoricalUsecase(repo,
		usecase.WithClock(fixedClock),
		usecase.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
	)
	return uc, repo
}

func TestHistorical_Success(t *testing.T) {
	t.Parallel()

	uc, repo := newUsecase(t)
	want := entity.QueryParams{
		Period1:  1577836800,
		Period2:  1578009600,
		Interval: "1d",
		Extra:    map[string]string{},
	}
	repo.EXPECT().
		GetChart(gomock.Any(), "TSLA", want).
		Return(tslaPayload(), nil).
		Times(1)

	series, err := uc.Historical(context.Background(), "TSLA", entity.Options{
		Period1:  entity.CalendarDate("2020-01-01"),
		Period2:  entity.EpochSeconds(1578009600),
		Interval: "1d",
	})

	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, 86.052, series[0].Close)
	assert.Equal(t, int64(88892500), series[1].Volume)
}

func TestHistorical_EqualPeriodsNeverCallsTransport(t *testing.T) {
	t.Parallel()

	uc, repo := newUsecase(t)
	repo.EXPECT().GetChart(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := uc.Historical(context.Background(), "TSLA", entity.Options{
		Period1: entity.CalendarDate("2022-02-22"),
		Period2: entity.CalendarDate("2022-02-22"),
	})

	require.Error(t, err)
	assert.Regexp(t, "cannot share the same value", err.Error())
}

func TestHistorical_Period1AtNowNeverCallsTransport(t *testing.T) {
	t.Parallel()

	uc, repo := newUsecase(t)
	repo.EXPECT().GetChart(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	series, err := uc.Historical(context.Background(), "TSLA", entity.Options{
		Period1: entity.EpochSeconds(fixedNow.Unix()),
	})

	require.ErrorIs(t, err, domain.ErrEqualPeriods)
	assert.Nil(t, series)
}

func TestHistorical_BuildFailuresNeverCallTransport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		symbol   string
		opts     entity.Options
		sentinel error
	}{
		{"missing symbol", "", entity.Options{Period1: entity.EpochSeconds(1)}, domain.ErrMissingParameter},
		{"missing period1", "TSLA", entity.Options{}, domain.ErrMissingParameter},
		{"bad date", "TSLA", entity.Options{Period1: entity.CalendarDate("soon")}, domain.ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc, repo := newUsecase(t)
			repo.EXPECT().GetChart(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

			_, err := uc.Historical(context.Background(), tt.symbol, tt.opts)
			require.ErrorIs(t, err, tt.sentinel)
			assert.True(t, domain.IsCallerError(err))
		})
	}
}

func TestHistorical_TransportErrorPassesThrough(t *testing.T) {
	t.Parallel()

	uc, repo := newUsecase(t)
	upstream := errors.New("connection reset by peer")
	repo.EXPECT().GetChart(gomock.Any(), "TSLA", gomock.Any()).Return(entity.RawPayload{}, upstream)

	series, err := uc.Historical(context.Background(), "TSLA", entity.Options{Period1: entity.EpochSeconds(1)})

	assert.Nil(t, series)
	assert.Same(t, upstream, err)
}

func TestHistorical_ContextIsForwarded(t *testing.T) {
	t.Parallel()

	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")

	uc, repo := newUsecase(t)
	repo.EXPECT().GetChart(gomock.Any(), "TSLA", gomock.Any()).
		DoAndReturn(func(got context.Context, _ string, _ entity.QueryParams) (entity.RawPayload, error) {
			assert.Equal(t, "req-1", got.Value(ctxKey{}))
			return tslaPayload(), nil
		})

	_, err := uc.Historical(ctx, "TSLA", entity.Options{Period1: entity.EpochSeconds(1)})
	require.NoError(t, err)
}

func TestHistorical_DataErrors(t *testing.T) {
	t.Parallel()

	schema := tslaPayload()
	schema.AdjClose = nil

	partial := tslaPayload()
	partial.Close[1] = null.Float{}

	disorder := tslaPayload()
	disorder.Timestamps = []int64{1577975400, 1577889000}

	tests := []struct {
		name     string
		payload  entity.RawPayload
		sentinel error
	}{
		{"schema", schema, domain.ErrSchemaMismatch},
		{"partial", partial, domain.ErrPartialNull},
		{"order", disorder, domain.ErrOutOfOrder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc, repo := newUsecase(t)
			repo.EXPECT().GetChart(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.payload, nil)

			series, err := uc.Historical(context.Background(), "TSLA", entity.Options{Period1: entity.EpochSeconds(1)})
			assert.Nil(t, series)
			require.ErrorIs(t, err, tt.sentinel)
			assert.True(t, domain.IsDataError(err))
		})
	}
}

func TestHistorical_Period2DefaultsToClock(t *testing.T) {
	t.Parallel()

	uc, repo := newUsecase(t)
	repo.EXPECT().GetChart(gomock.Any(), "TSLA", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, p entity.QueryParams) (entity.RawPayload, error) {
			assert.Equal(t, fixedNow.Unix(), p.Period2)
			return entity.RawPayload{}, nil
		})

	series, err := uc.Historical(context.Background(), "TSLA", entity.Options{Period1: entity.CalendarDate("2020-01-01")})
	require.NoError(t, err)
	assert.Empty(t, series)
}
