// Package router assembles the gin engine of the API.
package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	historicalhandler "stock_history/internal/feature/historical/transport/handler"
	platformhandler "stock_history/internal/platform/http/handler"
	jwtmw "stock_history/internal/platform/jwt"
	"stock_history/internal/platform/middleware"
)

// Options carries the optional pieces of the router.
type Options struct {
	// JWTSecret guards the API routes when non-empty.
	JWTSecret string
	Logger    *slog.Logger
	Checks    []platformhandler.Check
}

func NewRouter(historical *historicalhandler.HistoricalHandler, bars *historicalhandler.BarsHandler, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog(opts.Logger))

	// no auth
	r.GET("/healthz", platformhandler.Health)
	r.HEAD("/healthz", platformhandler.Health)
	r.GET("/readyz", platformhandler.Ready(opts.Checks...))

	api := r.Group("/")
	if opts.JWTSecret != "" {
		api.Use(jwtmw.AuthRequired(opts.JWTSecret))
	}
	{
		api.GET("/historical/:symbol", historical.GetHistoricalHandler)
		if bars != nil {
			api.GET("/bars/:symbol", bars.GetStoredBars)
			api.DELETE("/cache/:symbol", bars.InvalidateCache)
		}
	}

	return r
}
