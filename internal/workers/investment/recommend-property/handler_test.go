// internal/workers/investment/recommend-property/handler_test.go
package recommendproperty

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investr-engine/internal/common/config"
	apperrors "investr-engine/internal/common/errors"
	"investr-engine/internal/common/logger"
	"investr-engine/internal/common/validation"
	"investr-engine/internal/investment/engine"
	"investr-engine/internal/investment/features"
	"investr-engine/internal/investment/model"
	"investr-engine/internal/investment/sampling"
	"investr-engine/internal/models"
	"investr-engine/pkg/registry"
)

// ==========================
// Test Helper Functions
// ==========================

const (
	artifactPath = "../../../../configs/model/recommendation_model.json"
	registryPath = "../../../../configs/activity-registry.json"
)

func createTestConfig() *Config {
	return LoadConfig(config.WorkerConfig{Timeout: 5000})
}

func loadSchema(t *testing.T) *validation.Schema {
	reg, err := registry.LoadRegistry(registryPath)
	require.NoError(t, err)
	schema, err := reg.InputValidator(TaskType)
	require.NoError(t, err)
	return schema
}

func newEngine(t *testing.T, src sampling.Source) *engine.Engine {
	adapter, err := model.Load(artifactPath, features.V1, logger.NewNoOpLogger())
	require.NoError(t, err)
	return engine.New(adapter, src, logger.NewNoOpLogger())
}

func createTestInput() map[string]interface{} {
	return map[string]interface{}{
		"title":         "2 bed flat for sale, Bow, London E3",
		"price":         300000.0,
		"bedrooms":      2.0,
		"bathrooms":     1.0,
		"sizeSqFeetMax": 600.0,
		"property_type": "Flat",
	}
}

type stubRecommender struct {
	err  error
	seen models.RawPropertyInput
}

func (s *stubRecommender) Recommend(ctx context.Context, in models.RawPropertyInput) (*models.RecommendationResponse, error) {
	s.seen = in
	if s.err != nil {
		return nil, s.err
	}
	return &models.RecommendationResponse{RecommendationID: "rec-1", Recommendation: models.LabelBuy, Confidence: 75}, nil
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	tests := []struct {
		name      string
		source    sampling.Source
		wantLabel string
	}{
		{"high yield buys", sampling.Fixed(0.99), models.LabelBuy},
		{"low yield avoids", sampling.Fixed(0), models.LabelAvoid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(createTestConfig(), newEngine(t, tt.source), loadSchema(t), logger.NewTestLogger(t))

			out, err := h.Execute(context.Background(), createTestInput())
			require.NoError(t, err)

			assert.Equal(t, tt.wantLabel, out.Recommendation)
			assert.GreaterOrEqual(t, out.Confidence, 50.0)
			assert.LessOrEqual(t, out.Confidence, 100.0)
			assert.Equal(t, models.RegionEast, out.Region)
			assert.Len(t, out.PriceProjection, 6)
			assert.NotEqual(t, out.ShowGrowthChart, out.ShowROIChart)
			assert.NotEmpty(t, out.Explanation)
			assert.NotEmpty(t, out.RecommendationID)
		})
	}
}

func TestHandler_Execute_NumericStrings(t *testing.T) {
	rec := &stubRecommender{}
	h := NewHandler(createTestConfig(), rec, loadSchema(t), logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), map[string]interface{}{
		"price":    "450000",
		"bedrooms": "3",
		"region":   "west",
	})
	require.NoError(t, err)

	assert.Equal(t, 450000.0, rec.seen.Price)
	assert.Equal(t, 3, rec.seen.Bedrooms)
	assert.Equal(t, 1, rec.seen.Bathrooms)
	assert.Equal(t, 600.0, rec.seen.SizeSqFeetMax)
	assert.Equal(t, "west", rec.seen.Region)
}

// ==========================
// Validation Tests
// ==========================

func TestHandler_Execute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		input map[string]interface{}
	}{
		{"missing price", map[string]interface{}{"bedrooms": 2}},
		{"price wrong type", map[string]interface{}{"price": []interface{}{1}}},
		{"price not numeric", map[string]interface{}{"price": "call for price"}},
		{"zero bedrooms", map[string]interface{}{"price": 250000, "bedrooms": 0}},
		{"zero floor area", map[string]interface{}{"price": 250000, "sizeSqFeetMax": "0"}},
	}

	h := NewHandler(createTestConfig(), newEngine(t, sampling.Fixed(0.5)), loadSchema(t), logger.NewTestLogger(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := h.Execute(context.Background(), tt.input)
			assert.Nil(t, out)
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidInput), err.Error())
		})
	}
}

func TestHandler_Execute_RecommenderFailure(t *testing.T) {
	rec := &stubRecommender{err: apperrors.NewModelInferenceFailedError(errors.New("nan"))}
	h := NewHandler(createTestConfig(), rec, nil, logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), createTestInput())
	require.Error(t, err)

	bpmn := apperrors.ConvertToBPMNError(apperrors.Normalize(err))
	assert.Equal(t, "MODEL_INFERENCE_FAILED", bpmn.Code)
	assert.Equal(t, 0, bpmn.Retries)
}

func TestLoadConfig(t *testing.T) {
	assert.Equal(t, 5*time.Second, createTestConfig().Timeout)
	assert.Equal(t, 10*time.Second, LoadConfig(config.WorkerConfig{}).Timeout)
}

// ==========================
// Benchmark Tests
// ==========================

func BenchmarkHandler_Execute(b *testing.B) {
	adapter, err := model.Load(artifactPath, features.V1, logger.NewNoOpLogger())
	if err != nil {
		b.Fatal(err)
	}
	h := NewHandler(createTestConfig(), engine.New(adapter, sampling.NewSeeded(1), logger.NewNoOpLogger()), nil, logger.NewNoOpLogger())
	input := createTestInput()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = h.Execute(context.Background(), input)
	}
}
