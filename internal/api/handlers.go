// internal/api/handlers.go
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "investr-engine/internal/common/errors"
	"investr-engine/internal/common/logger"
	"investr-engine/internal/investment/engine"
	"investr-engine/internal/investment/simcache"
	"investr-engine/internal/models"
)

// Service is the decision engine behind the HTTP entry points.
type Service interface {
	Recommend(ctx context.Context, in models.RawPropertyInput) (*models.RecommendationResponse, error)
	Simulate(ctx context.Context, in models.LoanInput) (*models.MortgageSimulationResult, error)
}

// ReadinessCheck reports whether a dependency is reachable.
type ReadinessCheck func(ctx context.Context) error

// SimulationResponse is the simulate body plus whether it came from cache.
type SimulationResponse struct {
	models.MortgageSimulationResult
	Cached bool `json:"cached"`
}

type handlers struct {
	service Service
	cache   *simcache.Cache
	checks  map[string]ReadinessCheck
	logger  logger.Logger
}

func (h *handlers) recommend(c *gin.Context) {
	body, ok := bindBody(c)
	if !ok {
		return
	}

	in, err := engine.DecodePropertyInput(body)
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp, err := h.service.Recommend(c.Request.Context(), in)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handlers) simulate(c *gin.Context) {
	body, ok := bindBody(c)
	if !ok {
		return
	}

	in, err := engine.DecodeLoanInput(body)
	if err != nil {
		abortWithError(c, err)
		return
	}

	res, cached, err := h.cache.GetOrCompute(c.Request.Context(), in, h.service.Simulate)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, SimulationResponse{MortgageSimulationResult: *res, Cached: cached})
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (h *handlers) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.Warn("Readiness check failed", map[string]interface{}{"check": name, "error": err})
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not_ready"
	}
	c.JSON(status, gin.H{
		"status": state,
		"checks": results,
		"time":   time.Now().Format(time.RFC3339),
	})
}

func bindBody(c *gin.Context) (map[string]interface{}, bool) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		abortWithError(c, apperrors.NewInvalidInputError("request body must be a JSON object: "+err.Error()))
		return nil, false
	}
	return body, true
}
