// Package explanation chooses which chart to show for a recommendation and
// writes the sentence justifying it.
package explanation

import (
	"fmt"

	"investr-engine/internal/models"
)

// GrowthAligned is the text used whenever the growth chart is shown.
const GrowthAligned = "The recommendation aligns with the projected growth trend."

// Fallback covers ROI exactly at the benchmark when the growth chart is not shown.
const Fallback = "The recommendation reflects a mix of growth and ROI factors."

// Input carries the figures an explanation may cite. All rates are percent.
type Input struct {
	Label           string
	GrowthRate      float64
	BenchmarkGrowth float64
	ROI             float64
	BenchmarkROI    float64
	GrowthThreshold float64
}

// Explain is total over its inputs: it always returns non-empty text and
// exactly one chart flag set.
func Explain(in Input) models.Explanation {
	buy := in.Label == models.LabelBuy
	growthChart := (buy && in.GrowthRate >= in.BenchmarkGrowth) ||
		(!buy && in.GrowthRate < in.BenchmarkGrowth)

	out := models.Explanation{ShowGrowthChart: growthChart, ShowROIChart: !growthChart}
	if growthChart {
		out.Text = GrowthAligned
		return out
	}

	switch {
	case buy && in.ROI > in.BenchmarkROI:
		out.Text = fmt.Sprintf("Although the projected growth of %.2f%% is below the regional average of %.2f%%, "+
			"the ROI of %.2f%% exceeds the %.1f%% benchmark, which justifies a Buy.",
			in.GrowthRate, in.BenchmarkGrowth, in.ROI, in.BenchmarkROI)
	case !buy && in.ROI < in.BenchmarkROI:
		out.Text = fmt.Sprintf("Growth of %.2f%% is strong against the %.2f%% average, "+
			"but the ROI of %.2f%% falls below the %.1f%% benchmark, so the investment is not worthwhile.",
			in.GrowthRate, in.BenchmarkGrowth, in.ROI, in.BenchmarkROI)
	case !buy && in.ROI > in.BenchmarkROI:
		out.Text = fmt.Sprintf("The ROI of %.2f%% beats the %.1f%% benchmark, but growth of %.2f%% is under "+
			"the %.1f%% threshold. Avoid unless other factors are favourable.",
			in.ROI, in.BenchmarkROI, in.GrowthRate, in.GrowthThreshold)
	case buy && in.ROI < in.BenchmarkROI:
		out.Text = fmt.Sprintf("Growth of %.2f%% exceeds expectations against the %.2f%% average, "+
			"which justifies a Buy despite an ROI of %.2f%% near or below the %.1f%% benchmark.",
			in.GrowthRate, in.BenchmarkGrowth, in.ROI, in.BenchmarkROI)
	default:
		out.Text = Fallback
	}
	return out
}
