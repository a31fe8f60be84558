package usecase

import (
	"time"

	"stock_history/internal/feature/historical/domain"
	"stock_history/internal/feature/historical/domain/entity"
)

// Assemble turns classified rows into a series. Empty rows are dropped,
// any partial row fails the whole call, and complete rows must already be
// strictly ascending by timestamp. The kind of each row is taken from its
// fields, so a missing or wrong Kind label cannot let a null value through.
func Assemble(rows []entity.ClassifiedRow) (entity.Series, error) {
	out := make(entity.Series, 0, len(rows))
	var (
		prev    int64
		hasPrev bool
	)
	for _, r := range rows {
		switch r.Bar.Kind() {
		case entity.RowEmpty:
			continue
		case entity.RowPartial:
			return nil, &domain.PartialNullError{
				Index:     r.Bar.Index,
				Timestamp: r.Bar.Timestamp,
				Null:      r.Bar.NullFields(),
				Present:   r.Bar.PresentFields(),
			}
		case entity.RowComplete:
		}

		b := r.Bar
		if hasPrev && b.Timestamp <= prev {
			return nil, &domain.OrderError{Index: b.Index, Previous: prev, Current: b.Timestamp}
		}
		prev, hasPrev = b.Timestamp, true

		out = append(out, entity.Bar{
			Time:      time.Unix(b.Timestamp, 0).UTC(),
			Timestamp: b.Timestamp,
			Open:      b.Open.Float64,
			High:      b.High.Float64,
			Low:       b.Low.Float64,
			Close:     b.Close.Float64,
			AdjClose:  b.AdjClose.Float64,
			Volume:    b.Volume.Int64,
		})
	}
	return out, nil
}
