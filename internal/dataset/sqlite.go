package dataset

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/stats19/collision-explorer/internal/core/model"
)

var validTable = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// LoadSQLite reads the collision table from a SQLite database file.
// The pure-Go driver keeps the binary free of cgo.
func LoadSQLite(path, table string) (*Dataset, error) {
	if table == "" {
		table = "collisions"
	}
	if !validTable.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	defer func() { _ = db.Close() }()

	q := fmt.Sprintf(
		`SELECT latitude, longitude, collision_severity, collision_year,
		        weather_conditions, light_conditions, road_type
		 FROM %s ORDER BY rowid`, table)

	rows, err := db.Query(q)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.Record
	dropped := 0
	line := 0
	for rows.Next() {
		line++
		var (
			lat, lon sql.NullFloat64
			sevRaw   sql.NullString
			year     sql.NullInt64
			weather  sql.NullString
			lighting sql.NullString
			roadType sql.NullString
		)
		if err := rows.Scan(&lat, &lon, &sevRaw, &year, &weather, &lighting, &roadType); err != nil {
			return nil, fmt.Errorf("row %d: scan: %w", line, err)
		}
		if !lat.Valid || !lon.Valid {
			dropped++
			continue
		}
		sev, err := parseSeverity(sevRaw.String)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		var yearPtr *int
		if year.Valid {
			y := int(year.Int64)
			yearPtr = &y
		}
		records = append(records, model.Record{
			Latitude:  lat.Float64,
			Longitude: lon.Float64,
			Severity:  sev,
			Year:      yearPtr,
			Weather:   strings.TrimSpace(weather.String),
			Lighting:  strings.TrimSpace(lighting.String),
			RoadType:  strings.TrimSpace(roadType.String),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}
	return newDataset(records, dropped)
}
