// Package adapters provides persistence for validated historical bars.
package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stock_history/internal/feature/historical/domain/entity"
	"stock_history/internal/feature/historical/usecase"
)

type barGorm struct {
	db *gorm.DB
}

var _ usecase.BarStore = (*barGorm)(nil)

// NewBarRepository returns a gorm-backed bar store.
func NewBarRepository(db *gorm.DB) *barGorm {
	return &barGorm{db: db}
}

// BarModel is the table row for one bar.
type BarModel struct {
	ID       uint      `gorm:"primaryKey"`
	Symbol   string    `gorm:"size:32;not null;uniqueIndex:bar_sym_int_time,priority:1"`
	Interval string    `gorm:"size:16;not null;uniqueIndex:bar_sym_int_time,priority:2"`
	Time     time.Time `gorm:"not null;uniqueIndex:bar_sym_int_time,priority:3"`

	Open     float64 `gorm:"not null"`
	High     float64 `gorm:"not null"`
	Low      float64 `gorm:"not null"`
	Close    float64 `gorm:"not null"`
	AdjClose float64 `gorm:"not null"`
	Volume   int64   `gorm:"not null;default:0"`
}

func (BarModel) TableName() string {
	return "historical_bars"
}

func toModel(symbol, interval string, b entity.Bar) BarModel {
	return BarModel{
		Symbol:   symbol,
		Interval: interval,
		Time:     time.Unix(b.Timestamp, 0).UTC(),
		Open:     b.Open,
		High:     b.High,
		Low:      b.Low,
		Close:    b.Close,
		AdjClose: b.AdjClose,
		Volume:   b.Volume,
	}
}

func toEntity(m BarModel) entity.Bar {
	ts := m.Time.Unix()
	return entity.Bar{
		Time:      time.Unix(ts, 0).UTC(),
		Timestamp: ts,
		Open:      m.Open,
		High:      m.High,
		Low:       m.Low,
		Close:     m.Close,
		AdjClose:  m.AdjClose,
		Volume:    m.Volume,
	}
}

// UpsertBatch inserts the series, updating prices of bars that already exist.
func (r *barGorm) UpsertBatch(ctx context.Context, symbol, interval string, series entity.Series) error {
	if len(series) == 0 {
		return nil
	}
	ms := make([]BarModel, 0, len(series))
	for _, b := range series {
		ms = append(ms, toModel(symbol, interval, b))
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "interval"}, {Name: "time"}},
		DoUpdates: clause.AssignmentColumns([]string{"open", "high", "low", "close", "adj_close", "volume"}),
	}).Create(&ms).Error
}

// Find returns stored bars with from <= time < to in ascending order.
// A zero bound is open-ended.
func (r *barGorm) Find(ctx context.Context, symbol, interval string, from, to time.Time) (entity.Series, error) {
	var rows []BarModel
	q := r.db.WithContext(ctx).
		Where(map[string]any{"symbol": symbol, "interval": interval})
	if !from.IsZero() {
		q = q.Where("time >= ?", from.UTC())
	}
	if !to.IsZero() {
		q = q.Where("time < ?", to.UTC())
	}
	if err := q.Order("time ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(entity.Series, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}
