// Package filter implements the pure predicate that selects records for a view.
package filter

import (
	"errors"
	"fmt"

	"github.com/stats19/collision-explorer/internal/core/model"
	"github.com/stats19/collision-explorer/internal/dataset"
)

// ErrInvalidFilter marks specs rejected at the boundary before any work runs.
var ErrInvalidFilter = errors.New("invalid filter spec")

// Validate rejects specs a well-behaved client cannot produce. Category
// values absent from the dataset are not errors; they simply match nothing.
func Validate(spec model.FilterSpec) error {
	if _, err := model.ParseMode(string(spec.Mode)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	if spec.YearMin > spec.YearMax {
		return fmt.Errorf("%w: year range %d..%d has min > max", ErrInvalidFilter, spec.YearMin, spec.YearMax)
	}
	return nil
}

// Apply returns the ordered subsequence of ds matching every constraint in
// spec. It is deterministic and has no side effects; records keep their
// dataset order. A record with a null year never matches.
func Apply(ds *dataset.Dataset, spec model.FilterSpec) []model.Record {
	sevs := make(map[model.Severity]struct{}, len(spec.Severities))
	for _, s := range spec.Severities {
		sevs[s] = struct{}{}
	}
	weathers := toSet(spec.Weathers)
	lightings := toSet(spec.Lightings)
	roads := toSet(spec.RoadTypes)

	var out []model.Record
	for _, r := range ds.Records() {
		if _, ok := sevs[r.Severity]; !ok {
			continue
		}
		if r.Year == nil || *r.Year < spec.YearMin || *r.Year > spec.YearMax {
			continue
		}
		if _, ok := weathers[r.Weather]; !ok {
			continue
		}
		if _, ok := lightings[r.Lighting]; !ok {
			continue
		}
		if _, ok := roads[r.RoadType]; !ok {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Summarize computes the display summary for a filtered subset.
func Summarize(subset []model.Record) model.Summary {
	s := model.Summary{Total: len(subset)}
	for _, r := range subset {
		if r.Severity == model.SeverityFatal {
			s.Fatal++
		}
	}
	if s.Total > 0 {
		s.FatalityRate = float64(s.Fatal) / float64(s.Total) * 100
	}
	return s
}

// Coordinates projects a subset down to the lat/lon pairs the map builder needs.
func Coordinates(subset []model.Record) []model.Coordinate {
	out := make([]model.Coordinate, 0, len(subset))
	for _, r := range subset {
		out = append(out, model.Coordinate{Lat: r.Latitude, Lon: r.Longitude})
	}
	return out
}

func toSet(vals []string) map[string]struct{} {
	m := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		m[v] = struct{}{}
	}
	return m
}
