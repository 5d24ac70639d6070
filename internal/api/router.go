// Package api exposes the decision engine over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"investr-engine/internal/common/config"
	"investr-engine/internal/common/logger"
	"investr-engine/internal/investment/simcache"
)

type Options struct {
	RateLimitRPS   float64
	RateLimitBurst int
	// Cache may be nil.
	Cache  *simcache.Cache
	Checks map[string]ReadinessCheck
}

// NewRouter wires the API routes and middleware.
func NewRouter(service Service, opts Options, log logger.Logger) *gin.Engine {
	l := log.WithFields(map[string]interface{}{"component": "api"})
	h := &handlers{
		service: service,
		cache:   opts.Cache,
		checks:  opts.Checks,
		logger:  l,
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(l))

	router.GET("/health", h.health)
	router.GET("/ready", h.ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v := router.Group("/api")
	v.Use(RateLimitMiddleware(opts.RateLimitRPS, opts.RateLimitBurst))
	v.POST("/recommend", h.recommend)
	v.POST("/simulate", h.simulate)

	return router
}

// NewServer builds the HTTP server for handler using the API timeouts.
func NewServer(cfg config.APIConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Millisecond,
		IdleTimeout:  60 * time.Second,
	}
}
