package locations

import (
	"strings"

	"github.com/samber/lo"
)

// BaseCityName strips a trailing region/country suffix, so "New York, NY"
// and "Sydney, Australia" both resolve to their base city name.
func BaseCityName(city string) string {
	if idx := strings.Index(city, ","); idx >= 0 {
		city = city[:idx]
	}
	return strings.TrimSpace(city)
}

// Expand widens a city into its ordered locality list, core first. Cities
// missing from the table degrade to exact-match behavior: the input comes
// back as a single-element list, unmodified.
func Expand(city string) []string {
	area, ok := greaterAreas[strings.ToLower(BaseCityName(city))]
	if !ok {
		return []string{city}
	}

	localities := make([]string, 0, len(area.Core)+len(area.Fringe))
	localities = append(localities, area.Core...)
	localities = append(localities, area.Fringe...)
	return localities
}

// Weight classifies a job's locations against the searched city: 1.0 when any
// location is the city itself or one of its core localities, FringeWeight when
// the job sits only in fringe localities, 1.0 for everything else (including
// unknown cities).
func Weight(city string, jobLocations []string) float64 {
	base := strings.ToLower(BaseCityName(city))
	area, ok := greaterAreas[base]
	if !ok {
		return 1.0
	}

	fringeOnly := false
	for _, location := range jobLocations {
		name := strings.ToLower(BaseCityName(location))
		if name == base || containsFold(area.Core, name) {
			return 1.0
		}
		if containsFold(area.Fringe, name) {
			fringeOnly = true
		}
	}

	if fringeOnly {
		return FringeWeight
	}
	return 1.0
}

func containsFold(localities []string, name string) bool {
	return lo.ContainsBy(localities, func(locality string) bool {
		return strings.EqualFold(locality, name)
	})
}
