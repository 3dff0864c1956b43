// Package mapbuilder renders filtered coordinates into a self-contained map page.
package mapbuilder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	h3 "github.com/uber/h3-go/v4"

	"github.com/stats19/collision-explorer/internal/core/model"
)

type Config struct {
	// H3 resolution used to aggregate points in cluster mode.
	ClusterRes int
	// Heatmap plugin tuning.
	HeatRadius int
	HeatBlur   int
}

type Builder struct {
	cfg Config
}

func New(cfg Config) (*Builder, error) {
	if cfg.ClusterRes < 0 || cfg.ClusterRes > 15 {
		return nil, fmt.Errorf("invalid cluster resolution %d (must be 0..15)", cfg.ClusterRes)
	}
	if cfg.HeatRadius <= 0 {
		cfg.HeatRadius = 8
	}
	if cfg.HeatBlur <= 0 {
		cfg.HeatBlur = 12
	}
	return &Builder{cfg: cfg}, nil
}

// cluster is one aggregated marker: the centroid of the member points and
// how many collisions fell into the cell.
type cluster struct {
	cell  string
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Count int     `json:"count"`
}

// Build produces the artifact for coords in the given mode. Same inputs,
// same bytes: clusters come out sorted by cell, heat points in input order.
func (b *Builder) Build(coords []model.Coordinate, mode model.Mode) (*model.MapArtifact, error) {
	if len(coords) == 0 {
		return nil, errors.New("no coordinates to render")
	}
	if _, err := model.ParseMode(string(mode)); err != nil {
		return nil, err
	}

	bounds := boundsOf(coords)

	var payload []byte
	var err error
	switch mode {
	case model.ModeCluster:
		clusters, cerr := b.aggregate(coords)
		if cerr != nil {
			return nil, cerr
		}
		payload, err = json.Marshal(clusters)
	case model.ModeHeatmap:
		payload, err = json.Marshal(heatPoints(coords))
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", mode, err)
	}

	var buf bytes.Buffer
	if rerr := pageTmpl.Execute(&buf, pageData(mode, bounds, payload, b.cfg)); rerr != nil {
		return nil, fmt.Errorf("render map page: %w", rerr)
	}

	return &model.MapArtifact{
		Mode:        mode,
		Points:      len(coords),
		Bounds:      bounds,
		ContentType: "text/html; charset=utf-8",
		Body:        buf.Bytes(),
	}, nil
}

// aggregate buckets points into H3 cells and averages member positions for
// the marker location.
func (b *Builder) aggregate(coords []model.Coordinate) ([]cluster, error) {
	byCell := make(map[string]*cluster)
	for _, c := range coords {
		cell, err := h3.LatLngToCell(h3.LatLng{Lat: c.Lat, Lng: c.Lon}, b.cfg.ClusterRes)
		if err != nil {
			return nil, fmt.Errorf("h3 cell for (%f,%f): %w", c.Lat, c.Lon, err)
		}
		id := cell.String()
		cl := byCell[id]
		if cl == nil {
			cl = &cluster{cell: id}
			byCell[id] = cl
		}
		cl.Lat += c.Lat
		cl.Lon += c.Lon
		cl.Count++
	}

	out := make([]cluster, 0, len(byCell))
	for _, cl := range byCell {
		cl.Lat /= float64(cl.Count)
		cl.Lon /= float64(cl.Count)
		out = append(out, *cl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].cell < out[j].cell })
	return out, nil
}

func heatPoints(coords []model.Coordinate) [][]float64 {
	out := make([][]float64, 0, len(coords))
	for _, c := range coords {
		out = append(out, []float64{c.Lat, c.Lon})
	}
	return out
}

func boundsOf(coords []model.Coordinate) model.Bounds {
	b := model.Bounds{
		MinLat: coords[0].Lat, MaxLat: coords[0].Lat,
		MinLon: coords[0].Lon, MaxLon: coords[0].Lon,
	}
	for _, c := range coords[1:] {
		if c.Lat < b.MinLat {
			b.MinLat = c.Lat
		}
		if c.Lat > b.MaxLat {
			b.MaxLat = c.Lat
		}
		if c.Lon < b.MinLon {
			b.MinLon = c.Lon
		}
		if c.Lon > b.MaxLon {
			b.MaxLon = c.Lon
		}
	}
	return b
}
