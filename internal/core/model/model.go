// Package model defines core domain types shared across the service.
package model

import "fmt"

type Severity string

const (
	SeverityFatal   Severity = "Fatal"
	SeveritySerious Severity = "Serious"
	SeveritySlight  Severity = "Slight"
)

// Display mode for the rendered map.
type Mode string

const (
	ModeCluster Mode = "Cluster"
	ModeHeatmap Mode = "Heatmap"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeCluster, ModeHeatmap:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown map mode %q (must be Cluster or Heatmap)", s)
	}
}

// Record is one collision event. Rows without usable coordinates never
// make it into a Record; Year stays nil when the source had no year.
type Record struct {
	Latitude  float64
	Longitude float64
	Severity  Severity
	Year      *int
	Weather   string
	Lighting  string
	RoadType  string
}

type Coordinate struct {
	Lat float64
	Lon float64
}

// FilterSpec is the complete set of user-chosen constraints defining one
// view. It is a value object: a new spec replaces the old one wholesale on
// each user action. Category slices are treated as sets; their order does
// not affect which records match or the derived signature.
type FilterSpec struct {
	Mode       Mode
	Severities []Severity
	YearMin    int
	YearMax    int
	Weathers   []string
	Lightings  []string
	RoadTypes  []string
}

// Bounds is the axis-aligned box around a set of coordinates.
type Bounds struct {
	MinLat, MinLon float64
	MaxLat, MaxLon float64
}

// Center of the box; where the rendered map initially looks.
func (b Bounds) Center() Coordinate {
	return Coordinate{Lat: (b.MinLat + b.MaxLat) / 2, Lon: (b.MinLon + b.MaxLon) / 2}
}

// MapArtifact is the renderable map produced from a coordinate list and a
// display mode. The display layer receives it unmodified; nothing in the
// core inspects Body beyond handing it out.
type MapArtifact struct {
	Mode        Mode
	Points      int
	Bounds      Bounds
	ContentType string
	Body        []byte
}

// Summary describes one filtered view for display.
type Summary struct {
	Total        int
	Fatal        int
	FatalityRate float64 // percent
}

// FatalityRateString formats the rate to two decimal places, e.g. "50.00%".
func (s Summary) FatalityRateString() string {
	return fmt.Sprintf("%.2f%%", s.FatalityRate)
}
