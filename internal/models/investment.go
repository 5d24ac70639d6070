package models

import "time"

// Property type categories understood by the feature schema.
const (
	PropertyTypeDetached     = "Detached"
	PropertyTypeFlat         = "Flat"
	PropertyTypeHouse        = "House"
	PropertyTypeSemiDetached = "Semi_Detached"
	PropertyTypeTerraced     = "Terraced"
	PropertyTypeOther        = "Other"
)

// Coarse regions.
const (
	RegionCentral = "Central"
	RegionEast    = "East"
	RegionNorth   = "North"
	RegionSouth   = "South"
	RegionWest    = "West"
	RegionOther   = "Other"
)

// Recommendation labels.
const (
	LabelBuy   = "Buy"
	LabelAvoid = "Avoid"
)

// RawPropertyInput is a validated recommend request. Region may be empty,
// in which case it is derived from Title.
type RawPropertyInput struct {
	Title         string  `json:"title,omitempty"`
	Price         float64 `json:"price"`
	Bedrooms      int     `json:"bedrooms"`
	Bathrooms     int     `json:"bathrooms"`
	SizeSqFeetMax float64 `json:"sizeSqFeetMax"`
	PropertyType  string  `json:"property_type"`
	Region        string  `json:"region,omitempty"`
}

// RecommendationResult is the adapter's verdict. Confidence is the
// probability of Label, in percent.
type RecommendationResult struct {
	Label        string  `json:"recommendation"`
	Confidence   float64 `json:"confidence"`
	ModelVersion string  `json:"model_version"`
}

// ProjectionResult carries the sampled growth and both value trajectories.
// GrowthRate is a fraction; BenchmarkGrowth, ROI and the thresholds are percent.
type ProjectionResult struct {
	GrowthRate          float64   `json:"growth_rate"`
	ROI                 float64   `json:"roi"`
	PriceProjection     []float64 `json:"price_projection"`
	BenchmarkProjection []float64 `json:"benchmark_projection"`
	BenchmarkGrowth     float64   `json:"benchmark_growth"`
	BenchmarkROI        float64   `json:"benchmark_roi"`
	GrowthThreshold     float64   `json:"growth_threshold"`
}

// Explanation is the rationale plus exactly one chart flag set.
type Explanation struct {
	Text            string `json:"explanation"`
	ShowGrowthChart bool   `json:"show_growth_chart"`
	ShowROIChart    bool   `json:"show_roi_chart"`
}

// RecommendationResponse is the aggregated output of the recommend entry point.
type RecommendationResponse struct {
	RecommendationID    string    `json:"recommendation_id"`
	Recommendation      string    `json:"recommendation"`
	Confidence          float64   `json:"confidence"`
	ROI                 float64   `json:"roi"`
	GrowthRate          float64   `json:"growth_rate"`
	EstimatedRent       float64   `json:"estimated_rent"`
	PriceProjection     []float64 `json:"price_projection"`
	BenchmarkProjection []float64 `json:"benchmark_projection"`
	BenchmarkGrowth     float64   `json:"benchmark_growth"`
	BenchmarkROI        float64   `json:"benchmark_roi"`
	GrowthThreshold     float64   `json:"growth_threshold"`
	ShowGrowthChart     bool      `json:"show_growth_chart"`
	ShowROIChart        bool      `json:"show_roi_chart"`
	Explanation         string    `json:"explanation"`
	Region              string    `json:"region"`
	ModelVersion        string    `json:"model_version"`
}

// LoanInput is a validated simulate request.
type LoanInput struct {
	PropertyPrice    float64 `json:"property_price"`
	DownPayment      float64 `json:"down_payment"`
	MortgageRate     float64 `json:"mortgage_rate"`
	RentalIncome     float64 `json:"rental_income"`
	AppreciationRate float64 `json:"appreciation_rate"`
	Years            int     `json:"years"`
}

// MortgageSimulationResult holds the simulator outputs rounded to 2 dp.
type MortgageSimulationResult struct {
	MonthlyPayment    float64 `json:"monthly_payment"`
	FutureValue       float64 `json:"future_value"`
	TotalRentIncome   float64 `json:"total_rent_income"`
	TotalMortgagePaid float64 `json:"total_mortgage_paid"`
	NetProfit         float64 `json:"net_profit"`
	ROI               float64 `json:"roi"`
	AnnualCashflow    float64 `json:"annual_cashflow"`
}

// RecommendationRecord is one row of recommendation history.
type RecommendationRecord struct {
	RecommendationID string    `json:"recommendation_id"`
	PropertyTitle    string    `json:"property_title"`
	Price            float64   `json:"price"`
	Region           string    `json:"region"`
	Recommendation   string    `json:"recommendation"`
	Confidence       float64   `json:"confidence"`
	ROI              float64   `json:"roi"`
	GrowthRate       float64   `json:"growth_rate"`
	ModelVersion     string    `json:"model_version"`
	RecordedAt       time.Time `json:"recorded_at"`
}
