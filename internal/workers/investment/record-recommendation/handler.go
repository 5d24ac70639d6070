// internal/workers/investment/record-recommendation/handler.go
package recordrecommendation

import (
	"context"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "investr-engine/internal/common/errors"
	"investr-engine/internal/common/logger"
	"investr-engine/internal/common/metrics"
	"investr-engine/internal/common/validation"
	"investr-engine/internal/models"
)

const (
	TaskType = "record-recommendation"
)

type Recorder interface {
	Record(ctx context.Context, rec models.RecommendationRecord) (models.RecommendationRecord, error)
}

type Handler struct {
	config       *Config
	recorder     Recorder
	schema       *validation.Schema
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, recorder Recorder, schema *validation.Schema, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		recorder:     recorder,
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

	input := inputFromVariables(vars)
	if input.RecommendationID == "" {
		return nil, apperrors.NewInvalidFieldError("recommendationId", "is required")
	}

	rec, err := h.recorder.Record(ctx, input.record())
	if err != nil {
		return nil, err
	}

	h.logger.Info("recommendation recorded", map[string]interface{}{
		"recommendationId": rec.RecommendationID,
		"recommendation":   rec.Recommendation,
	})

	return &Output{
		Recorded:   true,
		RecordedAt: rec.RecordedAt.UTC().Format(time.RFC3339),
	}, nil
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
