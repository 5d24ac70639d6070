// internal/workers/investment/simulate-mortgage/handler.go
package simulatemortgage

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"

	apperrors "investr-engine/internal/common/errors"
	"investr-engine/internal/common/logger"
	"investr-engine/internal/common/metrics"
	"investr-engine/internal/common/validation"
	"investr-engine/internal/investment/engine"
	"investr-engine/internal/investment/simcache"
	"investr-engine/internal/models"
)

const (
	TaskType = "simulate-mortgage"
)

type Simulator interface {
	Simulate(ctx context.Context, in models.LoanInput) (*models.MortgageSimulationResult, error)
}

type Handler struct {
	config       *Config
	simulator    Simulator
	cache        *simcache.Cache
	schema       *validation.Schema
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

// NewHandler builds the worker. A nil redis client disables caching.
func NewHandler(config *Config, simulator Simulator, redisClient *redis.Client, schema *validation.Schema, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		simulator:    simulator,
		cache:        simcache.New(redisClient, config.CacheTTL, l),
		schema:       schema,
		errorHandler: apperrors.NewErrorHandler(l),
		logger:       l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})
	timer := metrics.StartJob(TaskType)

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	vars, err := validation.DecodeVariables(job.Variables)
	if err != nil {
		timer.Fail(string(apperrors.ErrCodeInvalidInput))
		h.errorHandler.HandleJobError(ctx, client, job, apperrors.NewInvalidInputError(err.Error()))
		return
	}

	output, err := h.execute(ctx, vars)
	if err != nil {
		timer.Fail(string(apperrors.Normalize(err).Code))
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	timer.Complete()
	h.completeJob(ctx, client, job, output)
}

func (h *Handler) execute(ctx context.Context, vars map[string]interface{}) (*Output, error) {
	if h.schema != nil {
		result, err := h.schema.Validate(vars)
		if err != nil {
			return nil, apperrors.NewInvalidInputError(err.Error())
		}
		if !result.Valid {
			return nil, apperrors.NewInvalidInputError(result.Summary())
		}
	}

	input, err := engine.DecodeLoanInput(vars)
	if err != nil {
		return nil, err
	}

	res, cached, err := h.cache.GetOrCompute(ctx, input, h.simulator.Simulate)
	if err != nil {
		return nil, err
	}
	if cached {
		h.logger.Debug("simulation served from cache", map[string]interface{}{"key": simcache.Key(input)})
		return &Output{MortgageSimulationResult: *res, Cached: true}, nil
	}

	h.logger.Info("simulation computed", map[string]interface{}{
		"years":     input.Years,
		"roi":       res.ROI,
		"netProfit": res.NetProfit,
	})
	return &Output{MortgageSimulationResult: *res}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, vars map[string]interface{}) (*Output, error) {
	return h.execute(ctx, vars)
}
