// internal/investment/features/builder.go
package features

import (
	apperrors "investr-engine/internal/common/errors"
	"investr-engine/internal/investment/region"
	"investr-engine/internal/investment/sampling"
	"investr-engine/internal/models"
)

// Monthly rent yield bounds as a fraction of price.
const (
	RentYieldMin = 0.0035
	RentYieldMax = 0.0065
)

// Derived holds the intermediate metrics computed for one property.
type Derived struct {
	Region           string
	PropertyType     string
	PricePerBedroom  float64
	PricePerSqft     float64
	EstimatedRent    float64
	RentToPriceRatio float64
	BedroomsPer100k  float64
	RegionScore      float64
}

// Builder derives feature vectors. It is safe for concurrent use as long as
// its Source is.
type Builder struct {
	schema   Schema
	expected []string
	src      sampling.Source
}

// NewBuilder returns a Builder emitting vectors over expected, the classifier's
// feature names. A nil expected uses the schema's own slot list.
func NewBuilder(schema Schema, expected []string, src sampling.Source) *Builder {
	if len(expected) == 0 {
		expected = schema.Names()
	}
	if src == nil {
		src = sampling.Default()
	}
	return &Builder{
		schema:   schema,
		expected: append([]string(nil), expected...),
		src:      src,
	}
}

// Schema returns the builder's schema.
func (b *Builder) Schema() Schema { return b.schema }

// Build computes the derived metrics and one-hot encodings for input. Price,
// bedrooms and floor area must be positive; bathrooms must not be negative.
func (b *Builder) Build(input models.RawPropertyInput) (*Vector, Derived, error) {
	if input.Price <= 0 {
		return nil, Derived{}, apperrors.NewInvalidFieldError("price", "must be greater than 0")
	}
	if input.Bedrooms <= 0 {
		return nil, Derived{}, apperrors.NewInvalidFieldError("bedrooms", "must be greater than 0")
	}
	if input.Bathrooms < 0 {
		return nil, Derived{}, apperrors.NewInvalidFieldError("bathrooms", "must not be negative")
	}
	if input.SizeSqFeetMax <= 0 {
		return nil, Derived{}, apperrors.NewInvalidFieldError("sizeSqFeetMax", "must be greater than 0")
	}

	d := b.derive(input)

	values := map[string]float64{
		Price:            input.Price,
		Bedrooms:         float64(input.Bedrooms),
		Bathrooms:        float64(input.Bathrooms),
		SizeSqFeetMax:    input.SizeSqFeetMax,
		PricePerBedroom:  d.PricePerBedroom,
		PricePerSqft:     d.PricePerSqft,
		EstimatedRent:    d.EstimatedRent,
		RentToPriceRatio: d.RentToPriceRatio,
		BedroomsPer100k:  d.BedroomsPer100k,
		RegionScore:      d.RegionScore,
	}
	for _, pt := range b.schema.PropertyTypes {
		values[PropertyTypePrefix+pt] = oneHot(pt == d.PropertyType)
	}
	for _, r := range b.schema.Regions {
		values[RegionPrefix+r] = oneHot(r == d.Region)
	}

	return NewVector(b.expected, values), d, nil
}

func (b *Builder) derive(input models.RawPropertyInput) Derived {
	resolved := region.Resolve(input.Region, input.Title)
	rent := input.Price * sampling.Uniform(b.src, RentYieldMin, RentYieldMax)

	return Derived{
		Region:           resolved,
		PropertyType:     b.schema.NormalizePropertyType(input.PropertyType),
		PricePerBedroom:  input.Price / float64(input.Bedrooms),
		PricePerSqft:     input.Price / input.SizeSqFeetMax,
		EstimatedRent:    rent,
		RentToPriceRatio: rent * 12 / input.Price * 100,
		BedroomsPer100k:  float64(input.Bedrooms) / (input.Price / 100000),
		RegionScore:      region.ProfileFor(resolved).Score,
	}
}

func oneHot(set bool) float64 {
	if set {
		return 1
	}
	return 0
}
