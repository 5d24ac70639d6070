// Package projection samples an annual growth rate and projects property
// value and ROI over a five year horizon.
package projection

import (
	"math"

	"investr-engine/internal/investment/region"
	"investr-engine/internal/investment/sampling"
	"investr-engine/internal/models"
)

const (
	// GrowthMin and GrowthMax bound the sampled annual growth rate.
	GrowthMin = 0.02
	GrowthMax = 0.06

	// BenchmarkROI is the fixed ROI bar, in percent.
	BenchmarkROI = 7.5
	// GrowthThreshold is the growth bar cited in explanations, in percent.
	GrowthThreshold = 4.5

	// Horizon is the number of projected years after year 0.
	Horizon = 5
)

// Projector draws one growth rate per call from its Source.
type Projector struct {
	src sampling.Source
}

// NewProjector returns a Projector. A nil src uses sampling.Default.
func NewProjector(src sampling.Source) *Projector {
	if src == nil {
		src = sampling.Default()
	}
	return &Projector{src: src}
}

// Project samples growth and computes roi = rentToPriceRatio + growth*100 along
// with the price and regional benchmark trajectories for years 0..Horizon.
func (p *Projector) Project(price, rentToPriceRatio float64, r string) models.ProjectionResult {
	growth := sampling.Uniform(p.src, GrowthMin, GrowthMax)
	benchmark := region.ProfileFor(r).BenchmarkRate

	return models.ProjectionResult{
		GrowthRate:          growth,
		ROI:                 rentToPriceRatio + growth*100,
		PriceProjection:     Trajectory(price, growth),
		BenchmarkProjection: Trajectory(price, benchmark),
		BenchmarkGrowth:     benchmark * 100,
		BenchmarkROI:        BenchmarkROI,
		GrowthThreshold:     GrowthThreshold,
	}
}

// Trajectory returns round(price*(1+rate)^i) for i in 0..Horizon.
func Trajectory(price, rate float64) []float64 {
	out := make([]float64, Horizon+1)
	for i := range out {
		out[i] = math.Round(price * math.Pow(1+rate, float64(i)))
	}
	return out
}
