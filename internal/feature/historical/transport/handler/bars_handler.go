package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stock_history/internal/feature/historical/domain/entity"
	"stock_history/internal/feature/historical/transport/http/dto"
)

// BarFinder reads persisted bars.
type BarFinder interface {
	Find(ctx context.Context, symbol, interval string, from, to time.Time) (entity.Series, error)
}

// CacheInvalidator drops cached upstream payloads of a symbol.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, symbol string) error
}

// BarsHandler serves bars from the store and cache maintenance.
type BarsHandler struct {
	store BarFinder
	cache CacheInvalidator
}

// NewBarsHandler creates a BarsHandler. cache may be nil.
func NewBarsHandler(store BarFinder, cache CacheInvalidator) *BarsHandler {
	return &BarsHandler{store: store, cache: cache}
}

// GetStoredBars returns ingested bars of a symbol.
//
// Example:
// GET /bars/TSLA?interval=1d&from=2020-01-01&to=2020-02-01
func (h *BarsHandler) GetStoredBars(c *gin.Context) {
	symbol := c.Param("symbol")
	interval := c.DefaultQuery("interval", "1d")

	from, err := parseBound(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid from: " + err.Error(), Kind: "invalid_date"})
		return
	}
	to, err := parseBound(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid to: " + err.Error(), Kind: "invalid_date"})
		return
	}

	series, err := h.store.Find(c.Request.Context(), symbol, interval, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error(), Kind: "store"})
		return
	}
	c.JSON(http.StatusOK, toResponse(series))
}

// InvalidateCache drops cached payloads of a symbol.
func (h *BarsHandler) InvalidateCache(c *gin.Context) {
	if h.cache == nil {
		c.Status(http.StatusNoContent)
		return
	}
	if err := h.cache.Invalidate(c.Request.Context(), c.Param("symbol")); err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error(), Kind: "cache"})
		return
	}
	c.Status(http.StatusNoContent)
}

// parseBound parses an optional YYYY-MM-DD bound; empty means open-ended.
func parseBound(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation("2006-01-02", s, time.UTC)
}
