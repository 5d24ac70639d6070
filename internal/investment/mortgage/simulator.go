// Package mortgage simulates a buy-to-let purchase financed by a repayment
// mortgage. It is deterministic: identical inputs give identical results.
package mortgage

import (
	"math"

	"github.com/shopspring/decimal"

	apperrors "investr-engine/internal/common/errors"
	"investr-engine/internal/models"
)

// Simulator is stateless and safe for concurrent use.
type Simulator struct{}

func NewSimulator() *Simulator { return &Simulator{} }

// Validate rejects inputs the cashflow formulas are undefined for.
func Validate(in models.LoanInput) error {
	for field, v := range map[string]float64{
		"property_price":    in.PropertyPrice,
		"down_payment":      in.DownPayment,
		"mortgage_rate":     in.MortgageRate,
		"rental_income":     in.RentalIncome,
		"appreciation_rate": in.AppreciationRate,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return apperrors.NewInvalidFieldError(field, "must be a finite number")
		}
	}

	switch {
	case in.PropertyPrice <= 0:
		return apperrors.NewInvalidFieldError("property_price", "must be greater than 0")
	case in.DownPayment <= 0:
		return apperrors.NewInvalidFieldError("down_payment", "must be greater than 0")
	case in.DownPayment > in.PropertyPrice:
		return apperrors.NewInvalidFieldError("down_payment", "must not exceed property_price")
	case in.MortgageRate < 0:
		return apperrors.NewInvalidFieldError("mortgage_rate", "must not be negative")
	case in.RentalIncome < 0:
		return apperrors.NewInvalidFieldError("rental_income", "must not be negative")
	case in.AppreciationRate <= -100:
		return apperrors.NewInvalidFieldError("appreciation_rate", "must be greater than -100")
	case in.Years <= 0:
		return apperrors.NewInvalidFieldError("years", "must be a positive integer")
	}
	return nil
}

// MonthlyPayment is the level repayment for loan over months at the annual
// percentage rate. A zero rate amortises linearly.
func MonthlyPayment(loan, annualRate float64, months int) float64 {
	if loan == 0 {
		return 0
	}
	r := annualRate / 100 / 12
	if r == 0 {
		return loan / float64(months)
	}
	return r * loan / (1 - math.Pow(1+r, -float64(months)))
}

// Simulate computes the cashflow summary for in. Every output is rounded to
// two decimal places after the full-precision computation.
func (s *Simulator) Simulate(in models.LoanInput) (models.MortgageSimulationResult, error) {
	if err := Validate(in); err != nil {
		return models.MortgageSimulationResult{}, err
	}

	months := in.Years * 12
	loan := in.PropertyPrice - in.DownPayment
	payment := MonthlyPayment(loan, in.MortgageRate, months)

	futureValue := in.PropertyPrice * math.Pow(1+in.AppreciationRate/100, float64(in.Years))
	rentIncome := in.RentalIncome * 12 * float64(in.Years)
	mortgagePaid := payment * float64(months)
	netProfit := (futureValue - in.PropertyPrice) + rentIncome - mortgagePaid

	return models.MortgageSimulationResult{
		MonthlyPayment:    round2(payment),
		FutureValue:       round2(futureValue),
		TotalRentIncome:   round2(rentIncome),
		TotalMortgagePaid: round2(mortgagePaid),
		NetProfit:         round2(netProfit),
		ROI:               round2(netProfit / in.DownPayment * 100),
		AnnualCashflow:    round2(in.RentalIncome*12 - payment*12),
	}, nil
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
