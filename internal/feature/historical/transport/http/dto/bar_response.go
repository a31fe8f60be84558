// Package dto defines the JSON shapes served by the historical HTTP API.
package dto

// BarResponse is one bar of a historical series.
type BarResponse struct {
	Date      string  `json:"date"`      // UTC calendar date
	Timestamp int64   `json:"timestamp"` // epoch seconds
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	AdjClose  float64 `json:"adjClose"`
	Volume    int64   `json:"volume"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}
