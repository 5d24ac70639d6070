// internal/workers/investment/recommend-property/handler.go
package recommendproperty

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "investr-engine/internal/common/errors"
	"investr-engine/internal/common/logger"
	"investr-engine/internal/common/metrics"
	"investr-engine/internal/common/validation"
	"investr-engine/internal/investment/engine"
	"investr-engine/internal/models"
)

const (
	TaskType = "recommend-property"
)

type Recommender interface {
	Recommend(ctx context.Context, in models.RawPropertyInput) (*models.RecommendationResponse, error)
}

type Handler struct {
	config       *Config
	recommender  Recommender
	schema       *validation.Schema
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

// NewHandler builds the worker. schema may be nil to skip registry validation.
func NewHandler(config *Config, recommender Recommender, schema *validation.Schema, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		recommender:  recommender,
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

func (h *Handler) execute(ctx context.Context, vars map[string]interface{}) (*models.RecommendationResponse, error) {
	if h.schema != nil {
		result, err := h.schema.Validate(vars)
		if err != nil {
			return nil, apperrors.NewInvalidInputError(err.Error())
		}
		if !result.Valid {
			return nil, apperrors.NewInvalidInputError(result.Summary())
		}
	}

	input, err := engine.DecodePropertyInput(vars)
	if err != nil {
		return nil, err
	}

	resp, err := h.recommender.Recommend(ctx, input)
	if err != nil {
		return nil, err
	}

	h.logger.Info("recommendation produced", map[string]interface{}{
		"recommendationId": resp.RecommendationID,
		"recommendation":   resp.Recommendation,
		"confidence":       resp.Confidence,
		"region":           resp.Region,
	})
	return resp, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *models.RecommendationResponse) {
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
		return
	}
	h.logger.Info("job completed successfully", map[string]interface{}{
		"jobKey": job.Key,
	})
}

func (h *Handler) Execute(ctx context.Context, vars map[string]interface{}) (*models.RecommendationResponse, error) {
	return h.execute(ctx, vars)
}
