// Package handler provides HTTP handlers for platform-level endpoints.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// readyTimeout bounds all dependency checks of one readiness probe.
const readyTimeout = 2 * time.Second

// Health handles the /healthz liveness endpoint.
func Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// Check is one named dependency probe, e.g. a Redis or database ping.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

// Ready returns a /readyz handler running every check. It answers 503 with
// the failing checks when any probe errors.
func Ready(checks ...Check) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")

		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for _, ch := range checks {
			if err := ch.Probe(ctx); err != nil {
				status = http.StatusServiceUnavailable
				results[ch.Name] = err.Error()
				continue
			}
			results[ch.Name] = "ok"
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "unavailable"
		}
		c.JSON(status, gin.H{"status": overall, "checks": results})
	}
}
