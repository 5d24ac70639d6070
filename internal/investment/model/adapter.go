// internal/investment/model/adapter.go
package model

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	apperrors "investr-engine/internal/common/errors"
	"investr-engine/internal/common/logger"
	"investr-engine/internal/investment/features"
	"investr-engine/internal/models"
)

// Adapter presents feature vectors to a Classifier in its trained order and
// turns the probability into a labelled result.
type Adapter struct {
	clf       Classifier
	names     []string
	threshold float64
}

// NewAdapter wraps clf. A threshold outside (0,1) falls back to DefaultThreshold.
func NewAdapter(clf Classifier, threshold float64) *Adapter {
	if threshold <= 0 || threshold >= 1 {
		threshold = DefaultThreshold
	}
	return &Adapter{clf: clf, names: clf.FeatureNames(), threshold: threshold}
}

// Load reads the artifact at path, checks it against schema and returns an
// adapter over the resulting logistic model.
func Load(path string, schema features.Schema, log logger.Logger) (*Adapter, error) {
	a, err := LoadArtifact(path)
	if err != nil {
		return nil, err
	}

	unknown, err := schema.CheckArtifact(a.FeatureSchema, a.Features)
	if err != nil {
		return nil, err
	}
	if len(unknown) > 0 {
		log.Warn("Model expects features the builder does not produce; they will be zero", map[string]interface{}{
			"features":     unknown,
			"modelVersion": a.ModelVersion,
		})
	}

	log.Info("Recommendation model loaded", map[string]interface{}{
		"path":          path,
		"modelVersion":  a.ModelVersion,
		"featureSchema": a.FeatureSchema,
		"features":      len(a.Features),
		"threshold":     a.Threshold,
	})

	return NewAdapter(NewLogisticModel(a), a.Threshold), nil
}

// FeatureNames returns the classifier's expected feature order.
func (a *Adapter) FeatureNames() []string { return append([]string(nil), a.names...) }

func (a *Adapter) Version() string { return a.clf.Version() }

// Predict runs inference for v. Slots the classifier expects but v lacks are
// zero-filled. Confidence is the probability of the returned label, in
// percent, rounded to one decimal place.
func (a *Adapter) Predict(v *features.Vector) (models.RecommendationResult, error) {
	x := v.Ordered(a.names)

	pBuy, err := a.clf.PredictProba(x)
	if err != nil {
		return models.RecommendationResult{}, apperrors.NewModelInferenceFailedError(err)
	}
	if math.IsNaN(pBuy) || pBuy < 0 || pBuy > 1 {
		return models.RecommendationResult{}, apperrors.NewModelInferenceFailedError(
			fmt.Errorf("probability %v outside [0,1]", pBuy))
	}

	label, p := models.LabelAvoid, 1-pBuy
	if pBuy >= a.threshold {
		label, p = models.LabelBuy, pBuy
	}

	return models.RecommendationResult{
		Label:        label,
		Confidence:   decimal.NewFromFloat(p * 100).Round(1).InexactFloat64(),
		ModelVersion: a.clf.Version(),
	}, nil
}
