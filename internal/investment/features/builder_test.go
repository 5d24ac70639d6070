package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "investr-engine/internal/common/errors"
	"investr-engine/internal/investment/sampling"
	"investr-engine/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func exampleInput() models.RawPropertyInput {
	return models.RawPropertyInput{
		Title:         "2 bed flat, Bow, London E3",
		Price:         300000,
		Bedrooms:      2,
		Bathrooms:     1,
		SizeSqFeetMax: 600,
		PropertyType:  "Flat",
		Region:        "East",
	}
}

func sumPrefix(v *Vector, prefix string) float64 {
	total := 0.0
	for _, n := range v.Names() {
		if len(n) > len(prefix) && n[:len(prefix)] == prefix {
			val, _ := v.Get(n)
			total += val
		}
	}
	return total
}

// ==========================
// Core Functionality Tests
// ==========================

func TestBuilder_Build_Example(t *testing.T) {
	b := NewBuilder(V1, nil, sampling.Fixed(0.5))

	vec, d, err := b.Build(exampleInput())
	require.NoError(t, err)

	assert.Equal(t, len(V1.Names()), vec.Len())

	get := func(name string) float64 {
		v, ok := vec.Get(name)
		require.True(t, ok, name)
		return v
	}

	assert.Equal(t, 300000.0, get(Price))
	assert.Equal(t, 2.0, get(Bedrooms))
	assert.Equal(t, 1.0, get(Bathrooms))
	assert.Equal(t, 600.0, get(SizeSqFeetMax))
	assert.Equal(t, 150000.0, get(PricePerBedroom))
	assert.Equal(t, 500.0, get(PricePerSqft))
	assert.InDelta(t, 0.6667, get(BedroomsPer100k), 1e-4) // 2 / (300000/100000)

	// yield = 0.0035 + 0.003*0.5 = 0.005
	assert.InDelta(t, 1500.0, get(EstimatedRent), 1e-9)
	assert.InDelta(t, 6.0, get(RentToPriceRatio), 1e-9) // 1500*12/300000*100
	assert.Equal(t, 0.5, get(RegionScore))

	assert.Equal(t, 1.0, get("propertyType_Flat"))
	assert.Equal(t, 1.0, sumPrefix(vec, PropertyTypePrefix))
	assert.Equal(t, 1.0, get("region_East"))
	assert.Equal(t, 1.0, sumPrefix(vec, RegionPrefix))

	assert.Equal(t, models.RegionEast, d.Region)
	assert.Equal(t, models.PropertyTypeFlat, d.PropertyType)
}

func TestBuilder_OneHotForEveryCategory(t *testing.T) {
	b := NewBuilder(V1, nil, sampling.Fixed(0))

	for _, pt := range V1.PropertyTypes {
		for _, r := range V1.Regions {
			in := exampleInput()
			in.PropertyType = pt
			in.Region = r

			vec, _, err := b.Build(in)
			require.NoError(t, err)

			for _, other := range V1.PropertyTypes {
				v, _ := vec.Get(PropertyTypePrefix + other)
				assert.Equal(t, oneHot(other == pt), v, "%s/%s", pt, other)
			}
			for _, other := range V1.Regions {
				v, _ := vec.Get(RegionPrefix + other)
				assert.Equal(t, oneHot(other == r), v, "%s/%s", r, other)
			}
		}
	}
}

func TestBuilder_RegionFromTitle(t *testing.T) {
	b := NewBuilder(V1, nil, sampling.Fixed(0))

	in := exampleInput()
	in.Region = ""
	in.Title = "Flat, Islington, London N1"

	vec, d, err := b.Build(in)
	require.NoError(t, err)
	assert.Equal(t, models.RegionNorth, d.Region)

	v, _ := vec.Get("region_North")
	assert.Equal(t, 1.0, v)
}

func TestBuilder_NormalizesPropertyType(t *testing.T) {
	b := NewBuilder(V1, nil, sampling.Fixed(0))

	tests := map[string]string{
		"semi-detached": models.PropertyTypeSemiDetached,
		"Semi Detached": models.PropertyTypeSemiDetached,
		"TERRACED":      models.PropertyTypeTerraced,
		"bungalow":      models.PropertyTypeOther,
		"":              models.PropertyTypeOther,
	}
	for raw, want := range tests {
		in := exampleInput()
		in.PropertyType = raw
		_, d, err := b.Build(in)
		require.NoError(t, err)
		assert.Equal(t, want, d.PropertyType, raw)
	}
}

func TestBuilder_ExpectedNamesFilledWithZero(t *testing.T) {
	expected := append([]string{"expected_growth_rate"}, V1.Names()...)
	b := NewBuilder(V1, expected, sampling.Fixed(0.5))

	vec, _, err := b.Build(exampleInput())
	require.NoError(t, err)

	assert.Equal(t, expected, vec.Names())
	v, ok := vec.Get("expected_growth_rate")
	assert.True(t, ok)
	assert.Equal(t, 0.0, v)
}

func TestBuilder_ZeroBathroomsAllowed(t *testing.T) {
	b := NewBuilder(V1, nil, sampling.Fixed(0))

	in := exampleInput()
	in.Bathrooms = 0

	vec, _, err := b.Build(in)
	require.NoError(t, err)
	v, _ := vec.Get(Bathrooms)
	assert.Equal(t, 0.0, v)
}

func TestBuilder_RentWithinYieldBounds(t *testing.T) {
	b := NewBuilder(V1, nil, sampling.NewSeeded(99))
	for i := 0; i < 200; i++ {
		_, d, err := b.Build(exampleInput())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, d.EstimatedRent, 300000*RentYieldMin)
		assert.Less(t, d.EstimatedRent, 300000*RentYieldMax)
	}
}

// ==========================
// Edge Cases
// ==========================

func TestBuilder_RejectsZeroDenominators(t *testing.T) {
	b := NewBuilder(V1, nil, sampling.Fixed(0))

	tests := []struct {
		name   string
		mutate func(*models.RawPropertyInput)
		field  string
	}{
		{"zero price", func(in *models.RawPropertyInput) { in.Price = 0 }, "price"},
		{"negative price", func(in *models.RawPropertyInput) { in.Price = -1 }, "price"},
		{"zero bedrooms", func(in *models.RawPropertyInput) { in.Bedrooms = 0 }, "bedrooms"},
		{"zero floor area", func(in *models.RawPropertyInput) { in.SizeSqFeetMax = 0 }, "sizeSqFeetMax"},
		{"negative bathrooms", func(in *models.RawPropertyInput) { in.Bathrooms = -4 }, "bathrooms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := exampleInput()
			tt.mutate(&in)

			vec, _, err := b.Build(in)
			assert.Nil(t, vec)
			require.Error(t, err)

			stdErr, ok := apperrors.AsStandard(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.ErrCodeInvalidInput, stdErr.Code)
			assert.Equal(t, tt.field, stdErr.Metadata["field"])
		})
	}
}

// ==========================
// Benchmark Tests
// ==========================

func BenchmarkBuilder_Build(b *testing.B) {
	builder := NewBuilder(V1, nil, sampling.NewSeeded(1))
	in := exampleInput()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = builder.Build(in)
	}
}
