// Package dataset loads collision records into an immutable in-memory table.
package dataset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/stats19/collision-explorer/internal/core/model"
)

// Dataset is an ordered, read-only sequence of records. It is loaded once
// at startup and shared by every session without locking.
type Dataset struct {
	records []model.Record
	dropped int
	domains Domains
}

// Domains holds the distinct values present in the dataset, used for
// default filter specs and for UI option lists.
type Domains struct {
	Severities []model.Severity `json:"severities"`
	YearMin    int              `json:"year_min"`
	YearMax    int              `json:"year_max"`
	Weathers   []string         `json:"weathers"`
	Lightings  []string         `json:"lightings"`
	RoadTypes  []string         `json:"road_types"`
}

func (d *Dataset) Records() []model.Record { return d.records }

func (d *Dataset) Len() int { return len(d.records) }

// Dropped reports how many source rows were discarded for missing or
// malformed coordinates.
func (d *Dataset) Dropped() int { return d.dropped }

func (d *Dataset) Domains() Domains { return d.domains }

// DefaultSpec selects everything: all category values, the full year range.
func (d Domains) DefaultSpec(mode model.Mode) model.FilterSpec {
	return model.FilterSpec{
		Mode:       mode,
		Severities: append([]model.Severity(nil), d.Severities...),
		YearMin:    d.YearMin,
		YearMax:    d.YearMax,
		Weathers:   append([]string(nil), d.Weathers...),
		Lightings:  append([]string(nil), d.Lightings...),
		RoadTypes:  append([]string(nil), d.RoadTypes...),
	}
}

func newDataset(records []model.Record, dropped int) (*Dataset, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no usable records after load (%d rows dropped)", dropped)
	}
	return &Dataset{
		records: records,
		dropped: dropped,
		domains: computeDomains(records),
	}, nil
}

func computeDomains(records []model.Record) Domains {
	sevs := map[model.Severity]struct{}{}
	weathers := map[string]struct{}{}
	lightings := map[string]struct{}{}
	roads := map[string]struct{}{}

	var yearMin, yearMax int
	haveYear := false
	for _, r := range records {
		sevs[r.Severity] = struct{}{}
		weathers[r.Weather] = struct{}{}
		lightings[r.Lighting] = struct{}{}
		roads[r.RoadType] = struct{}{}
		if r.Year != nil {
			y := *r.Year
			if !haveYear {
				yearMin, yearMax = y, y
				haveYear = true
				continue
			}
			if y < yearMin {
				yearMin = y
			}
			if y > yearMax {
				yearMax = y
			}
		}
	}

	out := Domains{YearMin: yearMin, YearMax: yearMax}
	for s := range sevs {
		out.Severities = append(out.Severities, s)
	}
	sort.Slice(out.Severities, func(i, j int) bool { return out.Severities[i] < out.Severities[j] })
	out.Weathers = sortedKeys(weathers)
	out.Lightings = sortedKeys(lightings)
	out.RoadTypes = sortedKeys(roads)
	return out
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// severity column accepts the STATS19 integer coding or the spelled-out
// label; anything else fails the load.
func parseSeverity(raw string) (model.Severity, error) {
	switch strings.TrimSpace(raw) {
	case "1", string(model.SeverityFatal):
		return model.SeverityFatal, nil
	case "2", string(model.SeveritySerious):
		return model.SeveritySerious, nil
	case "3", string(model.SeveritySlight):
		return model.SeveritySlight, nil
	default:
		return "", fmt.Errorf("unrecognized collision_severity %q", raw)
	}
}
