// Package features turns a property into the ordered numeric vector the
// recommendation classifier was trained on.
package features

import (
	"fmt"
	"sort"
	"strings"

	apperrors "investr-engine/internal/common/errors"
	"investr-engine/internal/investment/region"
	"investr-engine/internal/models"
)

// Slot names for the numeric features.
const (
	Price            = "price"
	Bedrooms         = "bedrooms"
	Bathrooms        = "bathrooms"
	SizeSqFeetMax    = "sizeSqFeetMax"
	PricePerBedroom  = "price_per_bedroom"
	PricePerSqft     = "price_per_sqft"
	EstimatedRent    = "estimated_rent"
	RentToPriceRatio = "rent_to_price_ratio"
	BedroomsPer100k  = "bedrooms_per_100k"
	RegionScore      = "region_score"

	PropertyTypePrefix = "propertyType_"
	RegionPrefix       = "region_"
)

// Schema is the versioned contract between the builder and a trained artifact.
// Changing any list here requires a new Version and a retrained model.
type Schema struct {
	Version       string
	Numeric       []string
	PropertyTypes []string
	Regions       []string
}

// V1 is the schema the bundled model artifact was trained against.
var V1 = Schema{
	Version: "v1",
	Numeric: []string{
		Price, Bedrooms, Bathrooms, SizeSqFeetMax,
		PricePerBedroom, PricePerSqft, EstimatedRent,
		RentToPriceRatio, BedroomsPer100k, RegionScore,
	},
	PropertyTypes: []string{
		models.PropertyTypeDetached,
		models.PropertyTypeFlat,
		models.PropertyTypeHouse,
		models.PropertyTypeOther,
		models.PropertyTypeSemiDetached,
		models.PropertyTypeTerraced,
	},
	Regions: region.All,
}

// Names returns every slot the builder produces, numeric first, then the
// property type one-hot block, then the region one-hot block.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s.Numeric)+len(s.PropertyTypes)+len(s.Regions))
	names = append(names, s.Numeric...)
	names = append(names, s.CategorySlots()...)
	return names
}

// CategorySlots returns the one-hot slot names.
func (s Schema) CategorySlots() []string {
	slots := make([]string, 0, len(s.PropertyTypes)+len(s.Regions))
	for _, pt := range s.PropertyTypes {
		slots = append(slots, PropertyTypePrefix+pt)
	}
	for _, r := range s.Regions {
		slots = append(slots, RegionPrefix+r)
	}
	return slots
}

// CheckArtifact verifies that a trained artifact's feature list is compatible.
// Categorical slots must match exactly in both directions; numeric names the
// schema does not produce are tolerated and returned so callers can warn
// (they are always fed 0).
func (s Schema) CheckArtifact(version string, names []string) ([]string, error) {
	if version != s.Version {
		return nil, apperrors.NewFeatureSchemaMismatchError(
			fmt.Sprintf("artifact schema %q, builder schema %q", version, s.Version))
	}

	known := map[string]bool{}
	for _, n := range s.Names() {
		known[n] = true
	}

	seen := map[string]bool{}
	var unknownNumeric, problems []string
	for _, n := range names {
		if seen[n] {
			problems = append(problems, "duplicate feature "+n)
			continue
		}
		seen[n] = true

		if known[n] {
			continue
		}
		if strings.HasPrefix(n, PropertyTypePrefix) || strings.HasPrefix(n, RegionPrefix) {
			problems = append(problems, "unknown category slot "+n)
			continue
		}
		unknownNumeric = append(unknownNumeric, n)
	}

	for _, slot := range s.CategorySlots() {
		if !seen[slot] {
			problems = append(problems, "missing category slot "+slot)
		}
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return nil, apperrors.NewFeatureSchemaMismatchError(strings.Join(problems, "; "))
	}
	return unknownNumeric, nil
}

// NormalizePropertyType canonicalises a caller-supplied type name: matching
// is case-insensitive and treats '-' and ' ' as '_'. Unknown types map to Other.
func (s Schema) NormalizePropertyType(name string) string {
	candidate := strings.NewReplacer("-", "_", " ", "_").Replace(strings.TrimSpace(name))
	for _, pt := range s.PropertyTypes {
		if strings.EqualFold(candidate, pt) {
			return pt
		}
	}
	return models.PropertyTypeOther
}
