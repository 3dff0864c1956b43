package filter

import (
	"errors"
	"strings"
	"testing"

	"github.com/stats19/collision-explorer/internal/core/model"
	"github.com/stats19/collision-explorer/internal/dataset"
)

const twoRecordCSV = `latitude,longitude,collision_severity,collision_year,weather_conditions,light_conditions,road_type
51.5,-0.1,Fatal,2019,Fine,Daylight,Single carriageway
53.4,-2.9,Slight,2020,Raining,Darkness,Dual carriageway
`

func loadTwo(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.ReadCSV(strings.NewReader(twoRecordCSV))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return ds
}

func allSpec(mode model.Mode) model.FilterSpec {
	return model.FilterSpec{
		Mode:       mode,
		Severities: []model.Severity{model.SeverityFatal, model.SeveritySlight},
		YearMin:    2019,
		YearMax:    2020,
		Weathers:   []string{"Fine", "Raining"},
		Lightings:  []string{"Daylight", "Darkness"},
		RoadTypes:  []string{"Single carriageway", "Dual carriageway"},
	}
}

func TestApply_FullSelection(t *testing.T) {
	ds := loadTwo(t)
	subset := Apply(ds, allSpec(model.ModeCluster))
	if len(subset) != 2 {
		t.Fatalf("subset=%d want 2", len(subset))
	}

	s := Summarize(subset)
	if s.Total != 2 || s.Fatal != 1 {
		t.Fatalf("summary=%+v want total=2 fatal=1", s)
	}
	if got := s.FatalityRateString(); got != "50.00%" {
		t.Fatalf("rate=%q want 50.00%%", got)
	}
}

func TestApply_NarrowedToFatal(t *testing.T) {
	ds := loadTwo(t)
	spec := allSpec(model.ModeCluster)
	spec.Severities = []model.Severity{model.SeverityFatal}

	subset := Apply(ds, spec)
	if len(subset) != 1 {
		t.Fatalf("subset=%d want 1", len(subset))
	}
	if subset[0].Year == nil || *subset[0].Year != 2019 {
		t.Fatalf("wrong record matched: %+v", subset[0])
	}
	if got := Summarize(subset).FatalityRateString(); got != "100.00%" {
		t.Fatalf("rate=%q want 100.00%%", got)
	}
}

func TestApply_EachClauseExcludes(t *testing.T) {
	ds := loadTwo(t)

	cases := []struct {
		name   string
		mutate func(*model.FilterSpec)
		want   int
	}{
		{"year range excludes all", func(s *model.FilterSpec) { s.YearMin, s.YearMax = 2021, 2021 }, 0},
		{"weather excludes one", func(s *model.FilterSpec) { s.Weathers = []string{"Fine"} }, 1},
		{"lighting excludes one", func(s *model.FilterSpec) { s.Lightings = []string{"Darkness"} }, 1},
		{"road type excludes one", func(s *model.FilterSpec) { s.RoadTypes = []string{"Dual carriageway"} }, 1},
		{"empty severities exclude all", func(s *model.FilterSpec) { s.Severities = nil }, 0},
		{"unknown value matches nothing", func(s *model.FilterSpec) { s.Weathers = []string{"Hail"} }, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := allSpec(model.ModeCluster)
			tc.mutate(&spec)
			if got := len(Apply(ds, spec)); got != tc.want {
				t.Fatalf("subset=%d want %d", got, tc.want)
			}
		})
	}
}

func TestApply_NullYearExcluded(t *testing.T) {
	csv := twoRecordCSV + "55.9,-3.2,Serious,,Fine,Daylight,Single carriageway\n"
	ds, err := dataset.ReadCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	spec := allSpec(model.ModeCluster)
	spec.Severities = append(spec.Severities, model.SeveritySerious)
	for _, r := range Apply(ds, spec) {
		if r.Year == nil {
			t.Fatal("record with null year must not match any year range")
		}
	}
}

func TestApply_Deterministic(t *testing.T) {
	ds := loadTwo(t)
	spec := allSpec(model.ModeHeatmap)

	a := Apply(ds, spec)
	b := Apply(ds, spec)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("row %d differs across identical calls", i)
		}
	}
	// dataset order preserved
	if a[0].Latitude != 51.5 || a[1].Latitude != 53.4 {
		t.Fatalf("order not preserved: %+v", a)
	}
}

func TestValidate(t *testing.T) {
	ok := allSpec(model.ModeCluster)
	if err := Validate(ok); err != nil {
		t.Fatalf("valid spec rejected: %v", err)
	}

	bad := allSpec(model.ModeCluster)
	bad.YearMin, bad.YearMax = 2021, 2019
	err := Validate(bad)
	if !errors.Is(err, ErrInvalidFilter) {
		t.Fatalf("err=%v want ErrInvalidFilter", err)
	}

	badMode := allSpec(model.ModeCluster)
	badMode.Mode = "Satellite"
	if err := Validate(badMode); !errors.Is(err, ErrInvalidFilter) {
		t.Fatalf("err=%v want ErrInvalidFilter", err)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.Total != 0 || s.Fatal != 0 || s.FatalityRate != 0 {
		t.Fatalf("summary of empty subset=%+v", s)
	}
}
