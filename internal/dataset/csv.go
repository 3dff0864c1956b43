package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/stats19/collision-explorer/internal/core/model"
)

// Column names follow the STATS19 export.
const (
	colLatitude  = "latitude"
	colLongitude = "longitude"
	colSeverity  = "collision_severity"
	colYear      = "collision_year"
	colWeather   = "weather_conditions"
	colLighting  = "light_conditions"
	colRoadType  = "road_type"
)

// LoadCSV reads the collision table from a CSV file. Rows missing
// coordinates are dropped silently; any other coercion failure aborts the
// load.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()
	ds, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ds, nil
}

func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var records []model.Record
	dropped := 0
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++

		lat, okLat := parseCoord(row[idx[colLatitude]])
		lon, okLon := parseCoord(row[idx[colLongitude]])
		if !okLat || !okLon {
			dropped++
			continue
		}

		sev, err := parseSeverity(row[idx[colSeverity]])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		year, err := parseYear(row[idx[colYear]])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		records = append(records, model.Record{
			Latitude:  lat,
			Longitude: lon,
			Severity:  sev,
			Year:      year,
			Weather:   strings.TrimSpace(row[idx[colWeather]]),
			Lighting:  strings.TrimSpace(row[idx[colLighting]]),
			RoadType:  strings.TrimSpace(row[idx[colRoadType]]),
		})
	}
	return newDataset(records, dropped)
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.ToLower(h))] = i
	}
	for _, want := range []string{
		colLatitude, colLongitude, colSeverity, colYear, colWeather, colLighting, colRoadType,
	} {
		if _, ok := idx[want]; !ok {
			return nil, fmt.Errorf("missing required column %q", want)
		}
	}
	return idx, nil
}

func parseCoord(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "null") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// empty year stays null; a non-empty value that is not an integer is a
// malformed source and fails the load.
func parseYear(raw string) (*int, error) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "null") {
		return nil, nil
	}
	// tolerate "2019.0" style exports
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int(f)) {
		y := int(f)
		return &y, nil
	}
	return nil, fmt.Errorf("unparseable collision_year %q", raw)
}
