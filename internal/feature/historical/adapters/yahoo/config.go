// Package yahoo provides a client for the Yahoo Finance chart API.
package yahoo

import "time"

const (
	// DefaultBaseURL is the public chart API host.
	DefaultBaseURL = "https://query1.finance.yahoo.com"
	// DefaultUserAgent is sent when the caller leaves UserAgent empty; the
	// API rejects requests without one.
	DefaultUserAgent = "Mozilla/5.0"
)

// Config holds configuration for the chart API client.
type Config struct {
	BaseURL   string        // Base URL for the API (e.g., "https://query1.finance.yahoo.com")
	UserAgent string        // User-Agent header
	Timeout   time.Duration // HTTP request timeout
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: DefaultUserAgent,
		Timeout:   10 * time.Second,
	}
}
