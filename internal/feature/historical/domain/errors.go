// Package domain defines domain-level errors for the historical feature.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Every typed error below unwraps to one of them, so callers
// can match with errors.Is or extract details with errors.As.
var (
	// ErrMissingParameter indicates that a required option was not supplied.
	ErrMissingParameter = errors.New("missing required parameter")

	// ErrEqualPeriods indicates that period1 and period2 normalized to the same instant.
	ErrEqualPeriods = errors.New("period1 and period2 cannot share the same value")

	// ErrInvalidDate indicates a calendar date string that could not be parsed.
	ErrInvalidDate = errors.New("invalid date")

	// ErrSchemaMismatch indicates that the upstream payload columns differ in length.
	ErrSchemaMismatch = errors.New("upstream schema mismatch")

	// ErrPartialNull indicates a row with SOME (but not all) null values.
	ErrPartialNull = errors.New("row has SOME (but not all) null values")

	// ErrOutOfOrder indicates upstream rows that are not strictly ascending.
	ErrOutOfOrder = errors.New("rows are not in ascending order")
)

// Transport errors produced by the chart adapters. The usecase passes them
// through unchanged.
var (
	ErrUpstream             = errors.New("upstream request failed")
	ErrSymbolNotFound       = errors.New("symbol not found")
	ErrUpstreamUnauthorized = errors.New("upstream unauthorized")
	ErrUpstreamRateLimited  = errors.New("upstream rate limited")
	ErrFixtureNotFound      = errors.New("fixture not found")
)

// MissingParameterError reports an absent required option.
type MissingParameterError struct {
	Name string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("missing required parameter: %s", e.Name)
}

func (e *MissingParameterError) Unwrap() error { return ErrMissingParameter }

// RangeError reports period bounds that normalized to the same value.
type RangeError struct {
	Period1 int64
	Period2 int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("period1 and period2 cannot share the same value (%d)", e.Period1)
}

func (e *RangeError) Unwrap() error { return ErrEqualPeriods }

// InvalidDateError reports an unparseable calendar date.
type InvalidDateError struct {
	Name  string
	Value string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date for %s: %q", e.Name, e.Value)
}

func (e *InvalidDateError) Unwrap() error { return ErrInvalidDate }

// SchemaError reports a field column whose length differs from the
// timestamp column.
type SchemaError struct {
	Symbol string
	Field  string
	Want   int
	Got    int
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("upstream schema mismatch for %s: field %q has %d values, expected %d (one per timestamp)",
		e.Symbol, e.Field, e.Got, e.Want)
}

func (e *SchemaError) Unwrap() error { return ErrSchemaMismatch }

// PartialNullError reports a row where some but not all fields are null.
type PartialNullError struct {
	Index     int
	Timestamp int64
	Null      []string
	Present   []string
}

func (e *PartialNullError) Error() string {
	return fmt.Sprintf("row %d (timestamp %d) has SOME (but not all) null values: null=[%s] present=[%s]",
		e.Index, e.Timestamp, strings.Join(e.Null, ","), strings.Join(e.Present, ","))
}

func (e *PartialNullError) Unwrap() error { return ErrPartialNull }

// OrderError reports a row whose timestamp does not follow its predecessor.
type OrderError struct {
	Index    int
	Previous int64
	Current  int64
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("row %d (timestamp %d) does not follow previous timestamp %d", e.Index, e.Current, e.Previous)
}

func (e *OrderError) Unwrap() error { return ErrOutOfOrder }

// IsCallerError reports whether err stems from invalid caller input.
// Such errors are safe to show to the end user verbatim.
func IsCallerError(err error) bool {
	return errors.Is(err, ErrMissingParameter) ||
		errors.Is(err, ErrEqualPeriods) ||
		errors.Is(err, ErrInvalidDate)
}

// IsDataError reports whether err stems from an invalid upstream payload.
func IsDataError(err error) bool {
	return errors.Is(err, ErrSchemaMismatch) ||
		errors.Is(err, ErrPartialNull) ||
		errors.Is(err, ErrOutOfOrder)
}
