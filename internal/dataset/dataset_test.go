package dataset

import (
	"strings"
	"testing"

	"github.com/stats19/collision-explorer/internal/core/model"
)

const sampleCSV = `latitude,longitude,collision_severity,collision_year,weather_conditions,light_conditions,road_type
51.5,-0.1,1,2019, Fine ,Daylight,Single carriageway
53.4,-2.9,3,2020,Raining,Darkness,Dual carriageway
,-1.0,2,2018,Fine,Daylight,Roundabout
55.9,-3.2,Serious,,Snowing,Daylight,Single carriageway
`

func TestReadCSV_Load(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ds.Len() != 3 {
		t.Fatalf("records=%d want 3", ds.Len())
	}
	if ds.Dropped() != 1 {
		t.Fatalf("dropped=%d want 1 (missing latitude)", ds.Dropped())
	}

	recs := ds.Records()
	if recs[0].Severity != model.SeverityFatal {
		t.Fatalf("severity %q: integer coding not mapped", recs[0].Severity)
	}
	if recs[0].Weather != "Fine" {
		t.Fatalf("weather %q: whitespace not trimmed", recs[0].Weather)
	}
	if recs[0].Year == nil || *recs[0].Year != 2019 {
		t.Fatalf("year=%v want 2019", recs[0].Year)
	}
	if recs[2].Year != nil {
		t.Fatalf("empty year must stay null, got %d", *recs[2].Year)
	}
	if recs[2].Severity != model.SeveritySerious {
		t.Fatalf("spelled-out severity not accepted: %q", recs[2].Severity)
	}
}

func TestReadCSV_RejectsBadCoercions(t *testing.T) {
	cases := []struct {
		name string
		csv  string
	}{
		{
			name: "unknown severity code",
			csv: "latitude,longitude,collision_severity,collision_year,weather_conditions,light_conditions,road_type\n" +
				"51.5,-0.1,9,2019,Fine,Daylight,Single carriageway\n",
		},
		{
			name: "non-numeric year",
			csv: "latitude,longitude,collision_severity,collision_year,weather_conditions,light_conditions,road_type\n" +
				"51.5,-0.1,1,soon,Fine,Daylight,Single carriageway\n",
		},
		{
			name: "missing column",
			csv:  "latitude,longitude,collision_severity\n51.5,-0.1,1\n",
		},
		{
			name: "all rows unusable",
			csv: "latitude,longitude,collision_severity,collision_year,weather_conditions,light_conditions,road_type\n" +
				",,1,2019,Fine,Daylight,Single carriageway\n",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tc.csv)); err == nil {
				t.Fatal("expected load error")
			}
		})
	}
}

func TestReadCSV_FloatYearExport(t *testing.T) {
	csv := "latitude,longitude,collision_severity,collision_year,weather_conditions,light_conditions,road_type\n" +
		"51.5,-0.1,1,2019.0,Fine,Daylight,Single carriageway\n"
	ds, err := ReadCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if y := ds.Records()[0].Year; y == nil || *y != 2019 {
		t.Fatalf("year=%v want 2019", y)
	}
}

func TestDomains(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	d := ds.Domains()

	if d.YearMin != 2019 || d.YearMax != 2020 {
		t.Fatalf("year range %d..%d want 2019..2020", d.YearMin, d.YearMax)
	}
	wantWeathers := []string{"Fine", "Raining", "Snowing"}
	if len(d.Weathers) != len(wantWeathers) {
		t.Fatalf("weathers=%v want %v", d.Weathers, wantWeathers)
	}
	for i, w := range wantWeathers {
		if d.Weathers[i] != w {
			t.Fatalf("weathers=%v want sorted %v", d.Weathers, wantWeathers)
		}
	}
	if len(d.Severities) != 3 {
		t.Fatalf("severities=%v want all three", d.Severities)
	}
}

func TestDefaultSpec_SelectsEverything(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	spec := ds.Domains().DefaultSpec(model.ModeCluster)
	if spec.Mode != model.ModeCluster {
		t.Fatalf("mode=%q", spec.Mode)
	}
	if len(spec.Severities) != 3 || len(spec.Weathers) != 3 {
		t.Fatalf("default spec must cover the full domains: %+v", spec)
	}
	if spec.YearMin != 2019 || spec.YearMax != 2020 {
		t.Fatalf("default years %d..%d", spec.YearMin, spec.YearMax)
	}

	// mutating the default spec must not leak into the domains
	spec.Weathers[0] = "mutated"
	if ds.Domains().Weathers[0] == "mutated" {
		t.Fatal("DefaultSpec shares slices with Domains")
	}
}
