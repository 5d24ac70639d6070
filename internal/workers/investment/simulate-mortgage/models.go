// internal/workers/investment/simulate-mortgage/models.go
package simulatemortgage

import "investr-engine/internal/models"

// Output is the simulation result plus whether it was served from cache.
type Output struct {
	models.MortgageSimulationResult
	Cached bool `json:"cached"`
}
