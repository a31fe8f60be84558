package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"stock_history/internal/feature/historical/adapters/yahoo/dto"
	"stock_history/internal/feature/historical/domain"
	"stock_history/internal/feature/historical/domain/entity"
	"stock_history/internal/feature/historical/usecase"
)

// maxErrorBody caps how much of a failed response is read for diagnostics.
const maxErrorBody = 64 << 10

// HTTPClient describes an HTTP client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ChartClient is the ChartRepository implementation backed by the chart API.
type ChartClient struct {
	cfg    Config
	client HTTPClient
}

// ChartClient must satisfy the usecase's transport interface.
var _ usecase.ChartRepository = (*ChartClient)(nil)

// NewChartClient creates a ChartClient. Empty config fields fall back to DefaultConfig.
func NewChartClient(cfg Config, client HTTPClient) *ChartClient {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &ChartClient{cfg: cfg, client: client}
}

// GetChart performs exactly one request for symbol and decodes the payload.
func (c *ChartClient) GetChart(ctx context.Context, symbol string, params entity.QueryParams) (entity.RawPayload, error) {
	q := params.Values()
	if q.Get("events") == "" {
		q.Set("events", "history")
	}
	if q.Get("includeAdjustedClose") == "" {
		q.Set("includeAdjustedClose", "true")
	}

	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s",
		strings.TrimRight(c.cfg.BaseURL, "/"), url.PathEscape(symbol), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return entity.RawPayload{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return entity.RawPayload{}, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return entity.RawPayload{}, statusError(symbol, res.StatusCode, body)
	}

	payload, err := DecodeChart(res.Body)
	if err != nil {
		return entity.RawPayload{}, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}
	return payload, nil
}

// statusError maps an HTTP failure to a transport error.
func statusError(symbol string, status int, body []byte) error {
	desc := gjson.GetBytes(body, "chart.error.description").String()
	if desc == "" {
		desc = http.StatusText(status)
	}

	var kind error
	switch status {
	case http.StatusNotFound:
		kind = domain.ErrSymbolNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = domain.ErrUpstreamUnauthorized
	case http.StatusTooManyRequests:
		kind = domain.ErrUpstreamRateLimited
	default:
		kind = domain.ErrUpstream
	}
	return fmt.Errorf("yahoo chart %s: %w: http %d: %s", symbol, kind, status, desc)
}

// DecodeChart decodes a chart API document into a RawPayload. Missing
// columns decode as empty so that validation can report them.
func DecodeChart(r io.Reader) (entity.RawPayload, error) {
	var body dto.ChartResponse
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return entity.RawPayload{}, fmt.Errorf("decoding chart response: %w", err)
	}
	if e := body.Chart.Error; e != nil {
		kind := domain.ErrUpstream
		if e.Code == "Not Found" {
			kind = domain.ErrSymbolNotFound
		}
		return entity.RawPayload{}, fmt.Errorf("%w: %s: %s", kind, e.Code, e.Description)
	}
	if len(body.Chart.Result) == 0 {
		return entity.RawPayload{}, fmt.Errorf("%w: empty chart result", domain.ErrSymbolNotFound)
	}

	res := body.Chart.Result[0]
	payload := entity.RawPayload{Timestamps: res.Timestamp}
	if len(res.Indicators.Quote) > 0 {
		quote := res.Indicators.Quote[0]
		payload.Open = quote.Open
		payload.High = quote.High
		payload.Low = quote.Low
		payload.Close = quote.Close
		payload.Volume = quote.Volume
	}
	if len(res.Indicators.AdjClose) > 0 {
		payload.AdjClose = res.Indicators.AdjClose[0].AdjClose
	}
	return payload, nil
}
