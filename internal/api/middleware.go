// internal/api/middleware.go
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apperrors "investr-engine/internal/common/errors"
	"investr-engine/internal/common/logger"
	"investr-engine/internal/common/metrics"
)

// LoggerMiddleware logs one line per request and records HTTP metrics.
func LoggerMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())

		fields := map[string]interface{}{
			"method":    c.Request.Method,
			"path":      path,
			"status":    status,
			"duration":  duration,
			"client_ip": c.ClientIP(),
		}
		switch {
		case status >= http.StatusInternalServerError:
			log.Error("HTTP request failed", fields)
		case path == "/health" || path == "/ready" || path == "/metrics":
			log.Debug("HTTP request", fields)
		default:
			log.Info("HTTP request", fields)
		}
	}
}

// RateLimitMiddleware rejects requests beyond a shared token bucket. A
// non-positive rps disables limiting.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst <= 0 {
		burst = int(rps)
		if burst < 1 {
			burst = 1
		}
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			abortWithError(c, apperrors.NewRateLimitedError())
			return
		}
		c.Next()
	}
}
