// Package model loads the trained recommendation classifier and adapts it to
// the feature vectors produced by the features package.
package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	apperrors "investr-engine/internal/common/errors"
	"investr-engine/internal/common/validation"
)

// artifactSchema describes the on-disk logistic regression artifact.
var artifactSchema = validation.MustCompile(`{
  "type": "object",
  "required": ["model_version", "feature_schema", "features", "scaler", "coefficients", "intercept", "classes"],
  "properties": {
    "model_version":  {"type": "string", "minLength": 1},
    "feature_schema": {"type": "string", "minLength": 1},
    "features": {
      "type": "array",
      "minItems": 1,
      "items": {"type": "string", "minLength": 1}
    },
    "scaler": {
      "type": "object",
      "required": ["mean", "scale"],
      "properties": {
        "mean":  {"type": "array", "items": {"type": "number"}},
        "scale": {"type": "array", "items": {"type": "number"}}
      }
    },
    "coefficients": {"type": "array", "items": {"type": "number"}},
    "intercept":    {"type": "number"},
    "threshold":    {"type": "number", "exclusiveMinimum": 0, "exclusiveMaximum": 1},
    "classes": {
      "type": "array",
      "minItems": 2,
      "maxItems": 2,
      "items": {"type": "string", "enum": ["Avoid", "Buy"]}
    },
    "trained_at": {"type": "string"}
  }
}`)

// DefaultThreshold is used when the artifact does not carry one.
const DefaultThreshold = 0.5

// Scaler holds the standardisation parameters applied before the linear term.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Artifact is the persisted form of the trained classifier.
type Artifact struct {
	ModelVersion  string    `json:"model_version"`
	FeatureSchema string    `json:"feature_schema"`
	Features      []string  `json:"features"`
	Scaler        Scaler    `json:"scaler"`
	Coefficients  []float64 `json:"coefficients"`
	Intercept     float64   `json:"intercept"`
	Threshold     float64   `json:"threshold"`
	Classes       []string  `json:"classes"`
	TrainedAt     string    `json:"trained_at,omitempty"`
}

// LoadArtifact reads and validates the artifact at path.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewModelArtifactInvalidError(path, err.Error())
	}
	return ParseArtifact(path, data)
}

// ParseArtifact validates data against the artifact schema and decodes it.
// path is only used for error reporting.
func ParseArtifact(path string, data []byte) (*Artifact, error) {
	result, err := artifactSchema.ValidateJSON(data)
	if err != nil {
		return nil, apperrors.NewModelArtifactInvalidError(path, err.Error())
	}
	if !result.Valid {
		return nil, apperrors.NewModelArtifactInvalidError(path, result.Summary())
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, apperrors.NewModelArtifactInvalidError(path, err.Error())
	}
	if err := a.check(); err != nil {
		return nil, apperrors.NewModelArtifactInvalidError(path, err.Error())
	}
	if a.Threshold == 0 {
		a.Threshold = DefaultThreshold
	}
	return &a, nil
}

func (a *Artifact) check() error {
	n := len(a.Features)
	if len(a.Coefficients) != n {
		return fmt.Errorf("%d coefficients for %d features", len(a.Coefficients), n)
	}
	if len(a.Scaler.Mean) != n || len(a.Scaler.Scale) != n {
		return fmt.Errorf("scaler has %d means and %d scales for %d features",
			len(a.Scaler.Mean), len(a.Scaler.Scale), n)
	}
	for i, s := range a.Scaler.Scale {
		if s == 0 || math.IsNaN(s) {
			return fmt.Errorf("scale for %s must be non-zero", a.Features[i])
		}
	}
	if a.Classes[0] == a.Classes[1] {
		return fmt.Errorf("classes must be distinct, got %v", a.Classes)
	}
	return nil
}
