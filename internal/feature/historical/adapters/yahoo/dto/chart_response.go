// Package dto defines data transfer objects for the Yahoo Finance chart API responses.
package dto

import "github.com/guregu/null/v6"

// ChartResponse represents the JSON response from the v8 chart endpoint.
type ChartResponse struct {
	Chart struct {
		Result []ChartResult `json:"result"`
		Error  *ChartError   `json:"error"`
	} `json:"chart"`
}

// ChartError is the error object the API embeds in failed responses.
type ChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// ChartResult holds the parallel columns for one symbol.
type ChartResult struct {
	Meta struct {
		Symbol          string `json:"symbol"`
		Currency        string `json:"currency"`
		DataGranularity string `json:"dataGranularity"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []null.Float `json:"open"`
			High   []null.Float `json:"high"`
			Low    []null.Float `json:"low"`
			Close  []null.Float `json:"close"`
			Volume []null.Int   `json:"volume"`
		} `json:"quote"`
		AdjClose []struct {
			AdjClose []null.Float `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}
