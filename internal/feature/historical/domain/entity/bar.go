package entity

import (
	"time"

	"github.com/guregu/null/v6"
)

// Field names as reported in diagnostics.
const (
	FieldOpen     = "open"
	FieldHigh     = "high"
	FieldLow      = "low"
	FieldClose    = "close"
	FieldAdjClose = "adjclose"
	FieldVolume   = "volume"
)

// RawPayload is the upstream tabular response: one timestamp column and one
// column per price/volume field, all expected to share the same length.
type RawPayload struct {
	Timestamps []int64
	Open       []null.Float
	High       []null.Float
	Low        []null.Float
	Close      []null.Float
	AdjClose   []null.Float
	Volume     []null.Int
}

// Len returns the number of rows announced by the timestamp column.
func (p RawPayload) Len() int { return len(p.Timestamps) }

// RawBar is the reconstruction of one payload row. Any field may be null.
type RawBar struct {
	Index     int
	Timestamp int64
	Open      null.Float
	High      null.Float
	Low       null.Float
	Close     null.Float
	AdjClose  null.Float
	Volume    null.Int
}

type fieldState struct {
	name  string
	valid bool
}

// fields returns the validity of every field in diagnostic order.
func (b RawBar) fields() []fieldState {
	return []fieldState{
		{FieldOpen, b.Open.Valid},
		{FieldHigh, b.High.Valid},
		{FieldLow, b.Low.Valid},
		{FieldClose, b.Close.Valid},
		{FieldAdjClose, b.AdjClose.Valid},
		{FieldVolume, b.Volume.Valid},
	}
}

// NullFields lists the names of the fields that are null.
func (b RawBar) NullFields() []string {
	var out []string
	for _, f := range b.fields() {
		if !f.valid {
			out = append(out, f.name)
		}
	}
	return out
}

// PresentFields lists the names of the fields that hold a value.
func (b RawBar) PresentFields() []string {
	var out []string
	for _, f := range b.fields() {
		if f.valid {
			out = append(out, f.name)
		}
	}
	return out
}

// Kind classifies the bar by how many of its fields are null.
func (b RawBar) Kind() RowKind {
	switch n := len(b.NullFields()); n {
	case 0:
		return RowComplete
	case len(b.fields()):
		return RowEmpty
	default:
		return RowPartial
	}
}

// RowKind is the three-way null classification of a RawBar.
type RowKind int

const (
	// RowComplete has every field present.
	RowComplete RowKind = iota + 1
	// RowEmpty has every field null, as reported for non-trading periods.
	RowEmpty
	// RowPartial has some but not all fields null.
	RowPartial
)

func (k RowKind) String() string {
	switch k {
	case RowComplete:
		return "complete"
	case RowEmpty:
		return "empty"
	case RowPartial:
		return "partial"
	default:
		return "unknown"
	}
}

// ClassifiedRow pairs a RawBar with its classification.
type ClassifiedRow struct {
	Bar  RawBar
	Kind RowKind
}

// Bar is a fully populated OHLCV bar.
type Bar struct {
	Time      time.Time `json:"time"`      // UTC time of Timestamp
	Timestamp int64     `json:"timestamp"` // epoch seconds
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	AdjClose  float64   `json:"adjClose"`
	Volume    int64     `json:"volume"`
}

// Series is a strictly ascending sequence of bars.
type Series []Bar
