package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_history/internal/feature/historical/domain"
	"stock_history/internal/feature/historical/domain/entity"
)

// stubChartRepository counts calls and returns a fixed answer.
type stubChartRepository struct {
	payload entity.RawPayload
	err     error
	calls   int
}

func (s *stubChartRepository) GetChart(context.Context, string, entity.QueryParams) (entity.RawPayload, error) {
	s.calls++
	return s.payload, s.err
}

func samplePayload() entity.RawPayload {
	return entity.RawPayload{
		Timestamps: []int64{1577889000, 1577975400},
		Open:       []null.Float{null.FloatFrom(84.9), null.FloatFrom(88.1)},
		High:       []null.Float{null.FloatFrom(86.1393), null.FloatFrom(90.8)},
		Low:        []null.Float{null.FloatFrom(84.342), null.FloatFrom(87.3842)},
		Close:      []null.Float{null.FloatFrom(86.052), {}},
		AdjClose:   []null.Float{null.FloatFrom(86.052), null.FloatFrom(88.602)},
		Volume:     []null.Int{null.IntFrom(47660500), null.IntFrom(88892500)},
	}
}

var sampleParams = entity.QueryParams{Period1: 1577836800, Period2: 1578009600, Interval: "1d"}

const sampleKey = "chart:TSLA:1577836800:1578009600:1d"

func TestNewCachingChartRepository_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		ttl               time.Duration
		namespace         string
		expectedTTL       time.Duration
		expectedNamespace string
	}{
		{"default values when zero/empty", 0, "", 5 * time.Minute, "chart"},
		{"negative ttl uses default", -time.Minute, "", 5 * time.Minute, "chart"},
		{"custom values preserved", 10 * time.Minute, "yahoo", 10 * time.Minute, "yahoo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := NewCachingChartRepository(nil, tt.ttl, &stubChartRepository{}, tt.namespace)
			assert.Equal(t, tt.expectedTTL, repo.ttl)
			assert.Equal(t, tt.expectedNamespace, repo.namespace)
		})
	}
}

func TestCacheKey(t *testing.T) {
	t.Parallel()

	repo := NewCachingChartRepository(nil, 0, &stubChartRepository{}, "")

	assert.Equal(t, sampleKey, repo.cacheKey("TSLA", sampleParams))

	withExtra := sampleParams
	withExtra.Extra = map[string]string{"includePrePost": "false", "events": "div"}
	assert.Equal(t, sampleKey+":events=div:includePrePost=false", repo.cacheKey("TSLA", withExtra))

	assert.Equal(t, "chart:BRK_B:1:2:", repo.cacheKey("BRK B", entity.QueryParams{Period1: 1, Period2: 2}))
	assert.Equal(t, "chart:a_b:1:2:1d", repo.cacheKey("a:b", entity.QueryParams{Period1: 1, Period2: 2, Interval: "1d"}))
}

func TestGetChart_NilRedisBypassesCache(t *testing.T) {
	t.Parallel()

	inner := &stubChartRepository{payload: samplePayload()}
	repo := NewCachingChartRepository(nil, 0, inner, "")

	got, err := repo.GetChart(context.Background(), "TSLA", sampleParams)
	require.NoError(t, err)
	assert.Equal(t, samplePayload(), got)
	assert.Equal(t, 1, inner.calls)
}

func TestGetChart_CacheHit(t *testing.T) {
	t.Parallel()

	db, mock := redismock.NewClientMock()
	cached, err := json.Marshal(samplePayload())
	require.NoError(t, err)
	mock.ExpectGet(sampleKey).SetVal(string(cached))

	inner := &stubChartRepository{}
	repo := NewCachingChartRepository(db, time.Minute, inner, "")

	got, err := repo.GetChart(context.Background(), "TSLA", sampleParams)

	require.NoError(t, err)
	assert.Equal(t, samplePayload(), got)
	assert.False(t, got.Close[1].Valid, "nulls survive the cache")
	assert.Zero(t, inner.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetChart_CacheMissStores(t *testing.T) {
	t.Parallel()

	db, mock := redismock.NewClientMock()
	payload := samplePayload()
	encoded, err := json.Marshal(payload)
	require.NoError(t, err)

	mock.ExpectGet(sampleKey).RedisNil()
	mock.ExpectSet(sampleKey, encoded, time.Minute).SetVal("OK")

	inner := &stubChartRepository{payload: payload}
	repo := NewCachingChartRepository(db, time.Minute, inner, "")

	got, err := repo.GetChart(context.Background(), "TSLA", sampleParams)

	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, 1, inner.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetChart_CorruptedEntryIsDeleted(t *testing.T) {
	t.Parallel()

	db, mock := redismock.NewClientMock()
	payload := samplePayload()
	encoded, err := json.Marshal(payload)
	require.NoError(t, err)

	mock.ExpectGet(sampleKey).SetVal("{not json")
	mock.ExpectDel(sampleKey).SetVal(1)
	mock.ExpectSet(sampleKey, encoded, time.Minute).SetVal("OK")

	inner := &stubChartRepository{payload: payload}
	repo := NewCachingChartRepository(db, time.Minute, inner, "")

	_, err = repo.GetChart(context.Background(), "TSLA", sampleParams)

	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetChart_MisalignedEntryIsDeleted(t *testing.T) {
	t.Parallel()

	db, mock := redismock.NewClientMock()
	broken := samplePayload()
	broken.Volume = broken.Volume[:1]
	cached, err := json.Marshal(broken)
	require.NoError(t, err)

	payload := samplePayload()
	encoded, err := json.Marshal(payload)
	require.NoError(t, err)

	mock.ExpectGet(sampleKey).SetVal(string(cached))
	mock.ExpectDel(sampleKey).SetVal(1)
	mock.ExpectSet(sampleKey, encoded, time.Minute).SetVal("OK")

	inner := &stubChartRepository{payload: payload}
	repo := NewCachingChartRepository(db, time.Minute, inner, "")

	got, err := repo.GetChart(context.Background(), "TSLA", sampleParams)

	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, 1, inner.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetChart_MisalignedPayloadIsNotStored(t *testing.T) {
	t.Parallel()

	db, mock := redismock.NewClientMock()
	broken := samplePayload()
	broken.AdjClose = nil

	mock.ExpectGet(sampleKey).RedisNil()

	repo := NewCachingChartRepository(db, time.Minute, &stubChartRepository{payload: broken}, "")

	got, err := repo.GetChart(context.Background(), "TSLA", sampleParams)

	require.NoError(t, err)
	assert.Equal(t, broken, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetChart_SetFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	db, mock := redismock.NewClientMock()
	payload := samplePayload()
	encoded, err := json.Marshal(payload)
	require.NoError(t, err)

	mock.ExpectGet(sampleKey).RedisNil()
	mock.ExpectSet(sampleKey, encoded, time.Minute).SetErr(errors.New("READONLY"))

	repo := NewCachingChartRepository(db, time.Minute, &stubChartRepository{payload: payload}, "")

	got, err := repo.GetChart(context.Background(), "TSLA", sampleParams)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestGetChart_InnerErrorIsNotCached(t *testing.T) {
	t.Parallel()

	db, mock := redismock.NewClientMock()
	mock.ExpectGet(sampleKey).RedisNil()

	inner := &stubChartRepository{err: domain.ErrUpstreamRateLimited}
	repo := NewCachingChartRepository(db, time.Minute, inner, "")

	_, err := repo.GetChart(context.Background(), "TSLA", sampleParams)

	require.ErrorIs(t, err, domain.ErrUpstreamRateLimited)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidate(t *testing.T) {
	t.Parallel()

	db, mock := redismock.NewClientMock()
	mock.ExpectScan(0, "chart:TSLA:*", 200).SetVal([]string{sampleKey, "chart:TSLA:1:2:1wk"}, 7)
	mock.ExpectDel(sampleKey, "chart:TSLA:1:2:1wk").SetVal(2)
	mock.ExpectScan(7, "chart:TSLA:*", 200).SetVal([]string{}, 0)

	repo := NewCachingChartRepository(db, 0, &stubChartRepository{}, "")

	require.NoError(t, repo.Invalidate(context.Background(), "TSLA"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidate_ScanError(t *testing.T) {
	t.Parallel()

	db, mock := redismock.NewClientMock()
	mock.ExpectScan(0, "chart:TSLA:*", 200).SetErr(errors.New("connection lost"))

	repo := NewCachingChartRepository(db, 0, &stubChartRepository{}, "")

	assert.EqualError(t, repo.Invalidate(context.Background(), "TSLA"), "connection lost")
}

func TestInvalidate_NilRedis(t *testing.T) {
	t.Parallel()

	repo := NewCachingChartRepository(nil, 0, &stubChartRepository{}, "")
	assert.NoError(t, repo.Invalidate(context.Background(), "TSLA"))
}
