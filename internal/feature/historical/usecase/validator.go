package usecase

import (
	"stock_history/internal/feature/historical/domain"
	"stock_history/internal/feature/historical/domain/entity"
)

// Classify checks the payload's structure and classifies every row as
// complete, empty or partial. It neither mutates the payload nor logs.
func Classify(payload entity.RawPayload, symbol string) ([]entity.ClassifiedRow, error) {
	n := payload.Len()
	columns := []struct {
		name string
		len  int
	}{
		{entity.FieldOpen, len(payload.Open)},
		{entity.FieldHigh, len(payload.High)},
		{entity.FieldLow, len(payload.Low)},
		{entity.FieldClose, len(payload.Close)},
		{entity.FieldAdjClose, len(payload.AdjClose)},
		{entity.FieldVolume, len(payload.Volume)},
	}
	for _, c := range columns {
		if c.len != n {
			return nil, &domain.SchemaError{Symbol: symbol, Field: c.name, Want: n, Got: c.len}
		}
	}

	rows := make([]entity.ClassifiedRow, 0, n)
	for i, ts := range payload.Timestamps {
		bar := entity.RawBar{
			Index:     i,
			Timestamp: ts,
			Open:      payload.Open[i],
			High:      payload.High[i],
			Low:       payload.Low[i],
			Close:     payload.Close[i],
			AdjClose:  payload.AdjClose[i],
			Volume:    payload.Volume[i],
		}
		rows = append(rows, entity.ClassifiedRow{Bar: bar, Kind: bar.Kind()})
	}
	return rows, nil
}
