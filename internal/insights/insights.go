// Package insights computes the static explanatory aggregates shown next to
// the map: how fatality risk shifts across years, weather, lighting, and
// road type. Computed once at startup over the full dataset.
package insights

import (
	"sort"
	"strconv"

	"github.com/stats19/collision-explorer/internal/core/model"
	"github.com/stats19/collision-explorer/internal/dataset"
)

type Breakdown struct {
	Label        string  `json:"label"`
	Total        int     `json:"total"`
	Fatal        int     `json:"fatal"`
	FatalityRate float64 `json:"fatality_rate"` // percent
}

type Report struct {
	Years    []Breakdown `json:"years"`
	Weather  []Breakdown `json:"weather"`
	Lighting []Breakdown `json:"lighting"`
	RoadType []Breakdown `json:"road_type"`
}

func Compute(ds *dataset.Dataset) Report {
	years := map[string]*Breakdown{}
	weather := map[string]*Breakdown{}
	lighting := map[string]*Breakdown{}
	road := map[string]*Breakdown{}

	for _, r := range ds.Records() {
		if r.Year != nil {
			tally(years, strconv.Itoa(*r.Year), r.Severity)
		}
		tally(weather, r.Weather, r.Severity)
		tally(lighting, r.Lighting, r.Severity)
		tally(road, r.RoadType, r.Severity)
	}

	return Report{
		Years:    finish(years),
		Weather:  finish(weather),
		Lighting: finish(lighting),
		RoadType: finish(road),
	}
}

func tally(m map[string]*Breakdown, label string, sev model.Severity) {
	b := m[label]
	if b == nil {
		b = &Breakdown{Label: label}
		m[label] = b
	}
	b.Total++
	if sev == model.SeverityFatal {
		b.Fatal++
	}
}

func finish(m map[string]*Breakdown) []Breakdown {
	out := make([]Breakdown, 0, len(m))
	for _, b := range m {
		if b.Total > 0 {
			b.FatalityRate = float64(b.Fatal) / float64(b.Total) * 100
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}
