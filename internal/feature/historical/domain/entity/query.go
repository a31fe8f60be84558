package entity

import (
	"net/url"
	"strconv"
)

// DateRange is a normalized pair of epoch-second bounds. Period1 and
// Period2 never hold the same value.
type DateRange struct {
	Period1 int64
	Period2 int64
}

// Options are the caller-supplied parameters of a historical query.
type Options struct {
	Period1  DateLike // required
	Period2  DateLike // defaults to now
	Interval string   // e.g. "1d", "1wk", "1mo"; passed through untouched
	// Extra holds options this package does not interpret. They are
	// forwarded to the upstream service verbatim.
	Extra map[string]string
}

// QueryParams is the exact parameter set handed to the chart transport.
type QueryParams struct {
	Period1  int64
	Period2  int64
	Interval string
	Extra    map[string]string
}

// Range returns the normalized date range of the query.
func (p QueryParams) Range() DateRange {
	return DateRange{Period1: p.Period1, Period2: p.Period2}
}

// Values renders the parameters as URL query values.
func (p QueryParams) Values() url.Values {
	q := url.Values{}
	for k, v := range p.Extra {
		q.Set(k, v)
	}
	q.Set("period1", strconv.FormatInt(p.Period1, 10))
	q.Set("period2", strconv.FormatInt(p.Period2, 10))
	if p.Interval != "" {
		q.Set("interval", p.Interval)
	}
	return q
}
