// Package entity defines the domain models for the historical feature.
package entity

import (
	"strconv"
	"strings"
)

// dateKind tags which variant a DateLike holds.
type dateKind int

const (
	dateAbsent dateKind = iota
	dateCalendar
	dateEpoch
)

// DateLike is a caller-supplied date bound: a calendar date string,
// epoch seconds, or nothing at all. The zero value is Absent.
type DateLike struct {
	kind     dateKind
	calendar string
	epoch    int64
}

// CalendarDate wraps a calendar date string such as "2020-01-01".
func CalendarDate(s string) DateLike {
	return DateLike{kind: dateCalendar, calendar: s}
}

// EpochSeconds wraps a Unix timestamp in seconds.
func EpochSeconds(n int64) DateLike {
	return DateLike{kind: dateEpoch, epoch: n}
}

// Absent returns a DateLike holding no value.
func Absent() DateLike {
	return DateLike{}
}

// ParseDateLike classifies a loosely typed string input.
// An empty string is Absent, a signed or unsigned run of digits is
// EpochSeconds, anything else is treated as a CalendarDate.
func ParseDateLike(s string) DateLike {
	s = strings.TrimSpace(s)
	if s == "" {
		return Absent()
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return EpochSeconds(n)
	}
	return CalendarDate(s)
}

// IsAbsent reports whether no value was supplied.
func (d DateLike) IsAbsent() bool { return d.kind == dateAbsent }

// IsCalendar reports whether d holds a calendar date string.
func (d DateLike) IsCalendar() bool { return d.kind == dateCalendar }

// IsEpoch reports whether d holds epoch seconds.
func (d DateLike) IsEpoch() bool { return d.kind == dateEpoch }

// Calendar returns the calendar string; empty unless IsCalendar.
func (d DateLike) Calendar() string { return d.calendar }

// Epoch returns the epoch seconds; zero unless IsEpoch.
func (d DateLike) Epoch() int64 { return d.epoch }

func (d DateLike) String() string {
	switch d.kind {
	case dateCalendar:
		return d.calendar
	case dateEpoch:
		return strconv.FormatInt(d.epoch, 10)
	default:
		return "<absent>"
	}
}
