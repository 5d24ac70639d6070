// Package engine composes the feature builder, classifier adapter, projector,
// explanation generator and mortgage simulator behind the two entry points
// exposed to workers and the HTTP API.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"investr-engine/internal/common/logger"
	"investr-engine/internal/common/metrics"
	"investr-engine/internal/common/observability"
	"investr-engine/internal/investment/explanation"
	"investr-engine/internal/investment/features"
	"investr-engine/internal/investment/mortgage"
	"investr-engine/internal/investment/projection"
	"investr-engine/internal/investment/sampling"
	"investr-engine/internal/models"
)

// Predictor is the classifier surface the engine needs. *model.Adapter
// satisfies it.
type Predictor interface {
	FeatureNames() []string
	Predict(v *features.Vector) (models.RecommendationResult, error)
}

// Engine is safe for concurrent use. The Predictor is shared read-only.
type Engine struct {
	builder   *features.Builder
	predictor Predictor
	projector *projection.Projector
	simulator *mortgage.Simulator
	obs       *observability.Observability
	logger    logger.Logger
	newID     func() string
}

type Option func(*Engine)

// WithObservability records OpenTelemetry metrics for each call.
func WithObservability(obs *observability.Observability) Option {
	return func(e *Engine) { e.obs = obs }
}

// WithIDGenerator replaces the uuid generator used for recommendation ids.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

// New builds an engine. src drives both the rent yield and growth draws; nil
// uses the process-wide generator.
func New(predictor Predictor, src sampling.Source, log logger.Logger, opts ...Option) *Engine {
	if src == nil {
		src = sampling.Default()
	}
	e := &Engine{
		builder:   features.NewBuilder(features.V1, predictor.FeatureNames(), src),
		predictor: predictor,
		projector: projection.NewProjector(src),
		simulator: mortgage.NewSimulator(),
		logger:    log.WithFields(map[string]interface{}{"component": "engine"}),
		newID:     func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recommend classifies a property and projects its returns. Growth and rent
// are sampled, so repeated calls with the same input differ numerically.
func (e *Engine) Recommend(ctx context.Context, in models.RawPropertyInput) (*models.RecommendationResponse, error) {
	vec, derived, err := e.builder.Build(in)
	if err != nil {
		return nil, err
	}

	rec, err := e.predictor.Predict(vec)
	if err != nil {
		e.logger.Error("Model inference failed", map[string]interface{}{"error": err})
		return nil, err
	}

	proj := e.projector.Project(in.Price, derived.RentToPriceRatio, derived.Region)

	// charts and text are decided on the figures the caller sees
	growthPct := round(proj.GrowthRate*100, 2)
	benchmarkGrowth := round(proj.BenchmarkGrowth, 2)
	roi := round(proj.ROI, 2)

	expl := explanation.Explain(explanation.Input{
		Label:           rec.Label,
		GrowthRate:      growthPct,
		BenchmarkGrowth: benchmarkGrowth,
		ROI:             roi,
		BenchmarkROI:    proj.BenchmarkROI,
		GrowthThreshold: proj.GrowthThreshold,
	})

	resp := &models.RecommendationResponse{
		RecommendationID:    e.newID(),
		Recommendation:      rec.Label,
		Confidence:          rec.Confidence,
		ROI:                 roi,
		GrowthRate:          growthPct,
		EstimatedRent:       round(derived.EstimatedRent, 2),
		PriceProjection:     proj.PriceProjection,
		BenchmarkProjection: proj.BenchmarkProjection,
		BenchmarkGrowth:     benchmarkGrowth,
		BenchmarkROI:        proj.BenchmarkROI,
		GrowthThreshold:     proj.GrowthThreshold,
		ShowGrowthChart:     expl.ShowGrowthChart,
		ShowROIChart:        expl.ShowROIChart,
		Explanation:         expl.Text,
		Region:              derived.Region,
		ModelVersion:        rec.ModelVersion,
	}

	metrics.RecommendationsTotal.WithLabelValues(rec.Label).Inc()
	e.obs.RecordRecommendation(ctx, rec.Label, rec.Confidence)

	e.logger.Debug("Recommendation produced", map[string]interface{}{
		"recommendationId": resp.RecommendationID,
		"recommendation":   resp.Recommendation,
		"confidence":       resp.Confidence,
		"region":           resp.Region,
		"roi":              resp.ROI,
	})

	return resp, nil
}

// Simulate runs the mortgage simulator. It is deterministic.
func (e *Engine) Simulate(ctx context.Context, in models.LoanInput) (*models.MortgageSimulationResult, error) {
	start := time.Now()

	res, err := e.simulator.Simulate(in)
	if err != nil {
		metrics.SimulationsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	metrics.SimulationsTotal.WithLabelValues("ok").Inc()
	e.obs.RecordSimulation(ctx, time.Since(start))
	return &res, nil
}

func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
