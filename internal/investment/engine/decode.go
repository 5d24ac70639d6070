// internal/investment/engine/decode.go
package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"

	apperrors "investr-engine/internal/common/errors"
	"investr-engine/internal/models"
)

// Defaults applied to optional recommend fields.
const (
	DefaultBedrooms      = 1
	DefaultBathrooms     = 1
	DefaultSizeSqFeetMax = 600
)

// maxCount bounds integer fields before conversion.
const maxCount = math.MaxInt32

// DecodePropertyInput converts loosely typed request fields into a
// RawPropertyInput. Numbers may arrive as JSON numbers or numeric strings.
// price is required; the remaining numeric fields fall back to defaults.
func DecodePropertyInput(vars map[string]interface{}) (models.RawPropertyInput, error) {
	var in models.RawPropertyInput
	var err error

	if in.Price, err = requiredNumber(vars, "price"); err != nil {
		return in, err
	}
	if in.Bedrooms, err = optionalInt(vars, "bedrooms", DefaultBedrooms); err != nil {
		return in, err
	}
	if in.Bathrooms, err = optionalInt(vars, "bathrooms", DefaultBathrooms); err != nil {
		return in, err
	}
	if in.Bathrooms < 0 {
		return in, apperrors.NewInvalidFieldError("bathrooms", "must not be negative")
	}
	if in.SizeSqFeetMax, err = optionalNumber(vars, "sizeSqFeetMax", DefaultSizeSqFeetMax); err != nil {
		return in, err
	}

	in.Title = stringField(vars, "title")
	in.PropertyType = stringField(vars, "property_type")
	if in.PropertyType == "" {
		in.PropertyType = models.PropertyTypeOther
	}
	in.Region = stringField(vars, "region")

	return in, nil
}

// DecodeLoanInput converts loosely typed request fields into a LoanInput.
// Every field is required.
func DecodeLoanInput(vars map[string]interface{}) (models.LoanInput, error) {
	var in models.LoanInput
	var err error

	floats := []struct {
		key string
		dst *float64
	}{
		{"property_price", &in.PropertyPrice},
		{"down_payment", &in.DownPayment},
		{"mortgage_rate", &in.MortgageRate},
		{"rental_income", &in.RentalIncome},
		{"appreciation_rate", &in.AppreciationRate},
	}
	for _, f := range floats {
		if *f.dst, err = requiredNumber(vars, f.key); err != nil {
			return in, err
		}
	}

	years, err := requiredNumber(vars, "years")
	if err != nil {
		return in, err
	}
	if in.Years, err = toInt("years", years); err != nil {
		return in, err
	}

	return in, nil
}

func requiredNumber(vars map[string]interface{}, key string) (float64, error) {
	raw, ok := vars[key]
	if !ok || raw == nil || raw == "" {
		return 0, apperrors.NewInvalidFieldError(key, "is required")
	}
	return toNumber(key, raw)
}

func optionalNumber(vars map[string]interface{}, key string, def float64) (float64, error) {
	raw, ok := vars[key]
	if !ok || raw == nil || raw == "" {
		return def, nil
	}
	return toNumber(key, raw)
}

func optionalInt(vars map[string]interface{}, key string, def int) (int, error) {
	v, err := optionalNumber(vars, key, float64(def))
	if err != nil {
		return 0, err
	}
	return toInt(key, v)
}

func toInt(key string, v float64) (int, error) {
	if v != math.Trunc(v) {
		return 0, apperrors.NewInvalidFieldError(key, "must be a whole number")
	}
	if v > maxCount || v < -maxCount {
		return 0, apperrors.NewInvalidFieldError(key, "is out of range")
	}
	return int(v), nil
}

func toNumber(key string, raw interface{}) (float64, error) {
	if _, isBool := raw.(bool); isBool {
		return 0, apperrors.NewInvalidFieldError(key, "must be numeric")
	}
	if s, isString := raw.(string); isString {
		raw = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	}

	v, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, apperrors.NewInvalidFieldError(key, fmt.Sprintf("must be numeric, got %v", raw))
	}
	return v, nil
}

func stringField(vars map[string]interface{}, key string) string {
	s, _ := vars[key].(string)
	return strings.TrimSpace(s)
}
