// Package usecase implements the historical price pipeline: query
// normalization, payload validation and series assembly.
package usecase

import (
	"maps"
	"strings"
	"time"

	"stock_history/internal/feature/historical/domain"
	"stock_history/internal/feature/historical/domain/entity"
)

// Clock returns the current time. It is read once per query.
type Clock func() time.Time

// calendarLayouts are the calendar date formats accepted for DateLike values.
// Layouts without a zone are interpreted as UTC.
var calendarLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// NormalizeDate converts d to epoch seconds. An absent value resolves to
// now floored to whole seconds. name is used in error messages.
func NormalizeDate(name string, d entity.DateLike, now time.Time) (int64, error) {
	switch {
	case d.IsEpoch():
		return d.Epoch(), nil
	case d.IsCalendar():
		s := strings.TrimSpace(d.Calendar())
		for _, layout := range calendarLayouts {
			if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
				return t.Unix(), nil
			}
		}
		return 0, &domain.InvalidDateError{Name: name, Value: d.Calendar()}
	default:
		return now.Unix(), nil
	}
}

// NormalizeRange normalizes both bounds. period1 is required; period2
// defaults to now. Equal bounds are rejected after normalization.
func NormalizeRange(period1, period2 entity.DateLike, now time.Time) (entity.DateRange, error) {
	if period1.IsAbsent() {
		return entity.DateRange{}, &domain.MissingParameterError{Name: "period1"}
	}
	p1, err := NormalizeDate("period1", period1, now)
	if err != nil {
		return entity.DateRange{}, err
	}
	p2, err := NormalizeDate("period2", period2, now)
	if err != nil {
		return entity.DateRange{}, err
	}
	if p1 == p2 {
		return entity.DateRange{}, &domain.RangeError{Period1: p1, Period2: p2}
	}
	return entity.DateRange{Period1: p1, Period2: p2}, nil
}

// BuildQuery translates caller options into the parameters handed to the
// chart transport. It performs no I/O. A nil clock uses time.Now.
func BuildQuery(symbol string, opts entity.Options, clock Clock) (entity.QueryParams, error) {
	if strings.TrimSpace(symbol) == "" {
		return entity.QueryParams{}, &domain.MissingParameterError{Name: "symbol"}
	}
	if clock == nil {
		clock = time.Now
	}

	r, err := NormalizeRange(opts.Period1, opts.Period2, clock())
	if err != nil {
		return entity.QueryParams{}, err
	}

	extra := map[string]string{}
	maps.Copy(extra, opts.Extra)

	return entity.QueryParams{
		Period1:  r.Period1,
		Period2:  r.Period2,
		Interval: opts.Interval,
		Extra:    extra,
	}, nil
}
