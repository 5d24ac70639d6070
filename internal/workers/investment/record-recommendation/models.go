// internal/workers/investment/record-recommendation/models.go
package recordrecommendation

import (
	"github.com/spf13/cast"

	"investr-engine/internal/models"
)

type Input struct {
	RecommendationID string  `json:"recommendationId"`
	PropertyTitle    string  `json:"propertyTitle"`
	Price            float64 `json:"price"`
	Region           string  `json:"region"`
	Recommendation   string  `json:"recommendation"`
	Confidence       float64 `json:"confidence"`
	ROI              float64 `json:"roi"`
	GrowthRate       float64 `json:"growthRate"`
	ModelVersion     string  `json:"modelVersion"`
}

type Output struct {
	Recorded   bool   `json:"recorded"`
	RecordedAt string `json:"recordedAt"` // RFC 3339
}

// inputFromVariables reads already schema-checked process variables.
func inputFromVariables(vars map[string]interface{}) Input {
	return Input{
		RecommendationID: cast.ToString(vars["recommendationId"]),
		PropertyTitle:    cast.ToString(vars["propertyTitle"]),
		Price:            cast.ToFloat64(vars["price"]),
		Region:           cast.ToString(vars["region"]),
		Recommendation:   cast.ToString(vars["recommendation"]),
		Confidence:       cast.ToFloat64(vars["confidence"]),
		ROI:              cast.ToFloat64(vars["roi"]),
		GrowthRate:       cast.ToFloat64(vars["growthRate"]),
		ModelVersion:     cast.ToString(vars["modelVersion"]),
	}
}

func (in Input) record() models.RecommendationRecord {
	return models.RecommendationRecord{
		RecommendationID: in.RecommendationID,
		PropertyTitle:    in.PropertyTitle,
		Price:            in.Price,
		Region:           in.Region,
		Recommendation:   in.Recommendation,
		Confidence:       in.Confidence,
		ROI:              in.ROI,
		GrowthRate:       in.GrowthRate,
		ModelVersion:     in.ModelVersion,
	}
}
