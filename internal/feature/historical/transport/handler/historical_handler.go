// Package handler provides the HTTP handlers of the historical feature.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_history/internal/feature/historical/domain"
	"stock_history/internal/feature/historical/domain/entity"
	"stock_history/internal/feature/historical/transport/http/dto"
)

// HistoricalUsecase is the use case the handler depends on.
// Following Go convention: interfaces are defined by the consumer (handler).
type HistoricalUsecase interface {
	Historical(ctx context.Context, symbol string, opts entity.Options) (entity.Series, error)
}

// reservedParams are the query keys mapped to named options.
var reservedParams = map[string]struct{}{
	"period1":  {},
	"period2":  {},
	"interval": {},
}

// HistoricalHandler serves historical bar series.
type HistoricalHandler struct {
	uc HistoricalUsecase
}

// NewHistoricalHandler creates a HistoricalHandler backed by uc.
func NewHistoricalHandler(uc HistoricalUsecase) *HistoricalHandler {
	return &HistoricalHandler{uc: uc}
}

// GetHistoricalHandler returns the bar series for a symbol as JSON.
//
// Example:
// GET /historical/EURGBP=X?period1=2019-09-06&period2=1570665600&interval=1d
//
// Query keys other than period1, period2 and interval are forwarded upstream.
func (h *HistoricalHandler) GetHistoricalHandler(c *gin.Context) {
	symbol := c.Param("symbol")
	opts := entity.Options{
		Period1:  entity.ParseDateLike(c.Query("period1")),
		Period2:  entity.ParseDateLike(c.Query("period2")),
		Interval: c.Query("interval"),
	}
	for k, vs := range c.Request.URL.Query() {
		if _, ok := reservedParams[k]; ok || len(vs) == 0 {
			continue
		}
		if opts.Extra == nil {
			opts.Extra = map[string]string{}
		}
		opts.Extra[k] = vs[0]
	}

	series, err := h.uc.Historical(c.Request.Context(), symbol, opts)
	if err != nil {
		status, kind := classifyError(err)
		c.JSON(status, dto.ErrorResponse{Error: err.Error(), Kind: kind})
		return
	}

	c.JSON(http.StatusOK, toResponse(series))
}

func toResponse(series entity.Series) []dto.BarResponse {
	out := make([]dto.BarResponse, 0, len(series))
	for _, b := range series {
		out = append(out, dto.BarResponse{
			Date:      b.Time.UTC().Format("2006-01-02"),
			Timestamp: b.Timestamp,
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			AdjClose:  b.AdjClose,
			Volume:    b.Volume,
		})
	}
	return out
}

// classifyError maps an error to an HTTP status and a stable kind label.
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrMissingParameter):
		return http.StatusBadRequest, "missing_parameter"
	case errors.Is(err, domain.ErrEqualPeriods):
		return http.StatusBadRequest, "range"
	case errors.Is(err, domain.ErrInvalidDate):
		return http.StatusBadRequest, "invalid_date"
	case errors.Is(err, domain.ErrSchemaMismatch):
		return http.StatusBadGateway, "schema"
	case errors.Is(err, domain.ErrPartialNull):
		return http.StatusBadGateway, "partial_null"
	case errors.Is(err, domain.ErrOutOfOrder):
		return http.StatusBadGateway, "order"
	case errors.Is(err, domain.ErrSymbolNotFound), errors.Is(err, domain.ErrFixtureNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrUpstreamRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, domain.ErrUpstreamUnauthorized):
		return http.StatusBadGateway, "upstream_unauthorized"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	default:
		return http.StatusBadGateway, "upstream"
	}
}
