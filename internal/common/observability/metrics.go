package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability owns the OpenTelemetry meter provider. A zero value is a
// usable no-op so callers never need nil checks.
type Observability struct {
	meterProvider       *metric.MeterProvider
	jobCounter          otelmetric.Int64Counter
	jobDuration         otelmetric.Float64Histogram
	recommendations     otelmetric.Int64Counter
	confidence          otelmetric.Float64Histogram
	simulationDurations otelmetric.Float64Histogram
}

// New registers a prometheus-backed meter provider globally.
func New(serviceName string) (*Observability, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return &Observability{}, err
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	return newWithProvider(provider, serviceName), nil
}

func newWithProvider(provider *metric.MeterProvider, serviceName string) *Observability {
	meter := provider.Meter(serviceName)

	jobCounter, _ := meter.Int64Counter(
		"jobs.processed",
		otelmetric.WithDescription("Number of jobs processed"),
	)
	jobDuration, _ := meter.Float64Histogram(
		"jobs.duration",
		otelmetric.WithDescription("Job processing duration"),
		otelmetric.WithUnit("ms"),
	)
	recommendations, _ := meter.Int64Counter(
		"recommendations.processed",
		otelmetric.WithDescription("Recommendations produced by label"),
	)
	confidence, _ := meter.Float64Histogram(
		"recommendation.confidence",
		otelmetric.WithDescription("Classifier confidence of produced recommendations"),
		otelmetric.WithUnit("%"),
	)
	simulationDurations, _ := meter.Float64Histogram(
		"simulations.duration",
		otelmetric.WithDescription("Mortgage simulation duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:       provider,
		jobCounter:          jobCounter,
		jobDuration:         jobDuration,
		recommendations:     recommendations,
		confidence:          confidence,
		simulationDurations: simulationDurations,
	}
}

func (o *Observability) RecordJobProcessed(ctx context.Context, taskType, status string) {
	if o == nil || o.jobCounter == nil {
		return
	}
	o.jobCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
		attribute.String("status", status),
	))
}

func (o *Observability) RecordJobDuration(ctx context.Context, taskType string, duration time.Duration) {
	if o == nil || o.jobDuration == nil {
		return
	}
	o.jobDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
	))
}

// RecordRecommendation counts a produced label and its confidence.
func (o *Observability) RecordRecommendation(ctx context.Context, label string, confidence float64) {
	if o == nil || o.recommendations == nil {
		return
	}
	attrs := otelmetric.WithAttributes(attribute.String("label", label))
	o.recommendations.Add(ctx, 1, attrs)
	o.confidence.Record(ctx, confidence, attrs)
}

// RecordSimulation records the time spent computing a simulation. Cache hits
// are counted by investment_simulation_cache_total instead.
func (o *Observability) RecordSimulation(ctx context.Context, duration time.Duration) {
	if o == nil || o.simulationDurations == nil {
		return
	}
	o.simulationDurations.Record(ctx, float64(duration.Microseconds())/1000)
}

func (o *Observability) Shutdown() {
	if o == nil || o.meterProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = o.meterProvider.Shutdown(ctx)
}
