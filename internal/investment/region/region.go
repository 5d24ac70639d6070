// Package region maps free-text property locations to coarse regions and
// holds the fixed per-region constants used by the feature builder and projector.
package region

import (
	"regexp"
	"strings"

	"investr-engine/internal/models"
)

// postcodePattern matches an outward-code-like token: 1-2 uppercase letters,
// 1-2 digits and an optional trailing letter.
var postcodePattern = regexp.MustCompile(`\b([A-Z]{1,2})\d{1,2}[A-Z]?\b`)

// prefixRegions maps postcode letter prefixes to regions.
var prefixRegions = map[string]string{
	"N":  models.RegionNorth,
	"NW": models.RegionNorth,
	"E":  models.RegionEast,
	"S":  models.RegionSouth,
	"SE": models.RegionSouth,
	"SW": models.RegionSouth,
	"W":  models.RegionWest,
	"WC": models.RegionCentral,
	"EC": models.RegionCentral,
}

// Profile holds the fixed constants for one region.
type Profile struct {
	// Score is the desirability constant fed to the classifier, in [0,1].
	Score float64
	// BenchmarkRate is the annual benchmark growth as a fraction.
	BenchmarkRate float64
}

var profiles = map[string]Profile{
	models.RegionCentral: {Score: 1.0, BenchmarkRate: 0.035},
	models.RegionWest:    {Score: 0.8, BenchmarkRate: 0.030},
	models.RegionSouth:   {Score: 0.7, BenchmarkRate: 0.035},
	models.RegionNorth:   {Score: 0.6, BenchmarkRate: 0.030},
	models.RegionEast:    {Score: 0.5, BenchmarkRate: 0.040},
	models.RegionOther:   {Score: 0.3, BenchmarkRate: 0.035},
}

// All lists the regions in feature-slot order.
var All = []string{
	models.RegionCentral,
	models.RegionEast,
	models.RegionNorth,
	models.RegionOther,
	models.RegionSouth,
	models.RegionWest,
}

// Classify extracts the trailing postcode token from the last comma-delimited
// segment of text and maps its prefix to a region. Anything unmatched is Other.
func Classify(text string) string {
	segments := strings.Split(text, ",")
	last := strings.TrimSpace(segments[len(segments)-1])
	if last == "" {
		return models.RegionOther
	}

	matches := postcodePattern.FindAllStringSubmatch(last, -1)
	if len(matches) == 0 {
		return models.RegionOther
	}

	prefix := matches[len(matches)-1][1]
	if r, ok := prefixRegions[prefix]; ok {
		return r
	}
	return models.RegionOther
}

// Normalize canonicalises a caller-supplied region name. Unknown names map to Other.
func Normalize(name string) string {
	for _, r := range All {
		if strings.EqualFold(strings.TrimSpace(name), r) {
			return r
		}
	}
	return models.RegionOther
}

// Resolve returns the normalized explicit region when given, otherwise the
// region classified from title.
func Resolve(explicit, title string) string {
	if strings.TrimSpace(explicit) != "" {
		return Normalize(explicit)
	}
	return Classify(title)
}

// ProfileFor returns the constants for r, falling back to Other.
func ProfileFor(r string) Profile {
	if p, ok := profiles[r]; ok {
		return p
	}
	return profiles[models.RegionOther]
}
