// internal/investment/model/logistic.go
package model

import (
	"fmt"
	"math"

	"investr-engine/internal/models"
)

// Classifier is a trained binary classifier over named features.
type Classifier interface {
	// FeatureNames is the exact order the classifier expects its input in.
	FeatureNames() []string
	// PredictProba returns P(Buy) for x.
	PredictProba(x []float64) (float64, error)
	Version() string
}

// LogisticModel is a standardised logistic regression. It is immutable after
// construction and safe to share between goroutines.
type LogisticModel struct {
	version      string
	features     []string
	mean         []float64
	scale        []float64
	coefficients []float64
	intercept    float64
	buyIndex     int
}

// NewLogisticModel builds a model from a validated artifact.
func NewLogisticModel(a *Artifact) *LogisticModel {
	buy := 1
	if a.Classes[0] == models.LabelBuy {
		buy = 0
	}
	return &LogisticModel{
		version:      a.ModelVersion,
		features:     append([]string(nil), a.Features...),
		mean:         append([]float64(nil), a.Scaler.Mean...),
		scale:        append([]float64(nil), a.Scaler.Scale...),
		coefficients: append([]float64(nil), a.Coefficients...),
		intercept:    a.Intercept,
		buyIndex:     buy,
	}
}

func (m *LogisticModel) FeatureNames() []string { return append([]string(nil), m.features...) }

func (m *LogisticModel) Version() string { return m.version }

func (m *LogisticModel) PredictProba(x []float64) (float64, error) {
	if len(x) != len(m.features) {
		return 0, fmt.Errorf("expected %d features, got %d", len(m.features), len(x))
	}

	z := m.intercept
	for i, v := range x {
		z += m.coefficients[i] * (v - m.mean[i]) / m.scale[i]
	}
	if math.IsNaN(z) {
		return 0, fmt.Errorf("non-finite decision value")
	}

	// the positive class of the fitted model is classes[1]
	p := 1 / (1 + math.Exp(-z))
	if m.buyIndex == 0 {
		p = 1 - p
	}
	return p, nil
}
