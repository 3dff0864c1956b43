package viewcache

import (
	"errors"
	"fmt"
	"time"

	"github.com/stats19/collision-explorer/internal/core/model"
	"github.com/stats19/collision-explorer/internal/core/observability"
	"github.com/stats19/collision-explorer/internal/dataset"
	"github.com/stats19/collision-explorer/internal/filter"
)

// ErrEmptyResult reports that a spec matched zero records. The cache keeps
// its previous state so the prior view stays renderable.
var ErrEmptyResult = errors.New("no records match the selected filters")

// Builder turns coordinates plus a display mode into a renderable artifact.
// It must be deterministic for identical inputs or reuse is unsound.
type Builder interface {
	Build(coords []model.Coordinate, mode model.Mode) (*model.MapArtifact, error)
}

// Cache memoizes exactly one view: the last filtered subset and the artifact
// built from it, keyed by the spec's signature. It is not an LRU; an
// interactive session only ever needs the current view, and the point is to
// skip rebuilding clusters or heatmaps when the selection did not change.
//
// Not safe for concurrent use; the owning session controller serializes
// access.
type Cache struct {
	ds      *dataset.Dataset
	builder Builder

	populated bool
	sig       SignatureKey
	subset    []model.Record
	artifact  *model.MapArtifact
}

// Result is what one resolve produced or reused.
type Result struct {
	Subset     []model.Record
	Artifact   *model.MapArtifact
	Recomputed bool
}

func New(ds *dataset.Dataset, b Builder) *Cache {
	return &Cache{ds: ds, builder: b}
}

// Resolve returns the view for spec, reusing the stored subset and artifact
// when the signature matches. On a miss it filters, builds, and replaces the
// stored entry. An empty subset surfaces ErrEmptyResult and leaves any
// populated entry intact, as does a builder fault.
func (c *Cache) Resolve(spec model.FilterSpec) (Result, error) {
	sig := Signature(spec)
	if c.populated && sig == c.sig {
		observability.IncViewCacheHit()
		return Result{Subset: c.subset, Artifact: c.artifact}, nil
	}
	observability.IncViewCacheMiss()

	subset := filter.Apply(c.ds, spec)
	if len(subset) == 0 {
		observability.IncViewCacheEmpty()
		return Result{}, ErrEmptyResult
	}

	start := time.Now()
	artifact, err := c.builder.Build(filter.Coordinates(subset), spec.Mode)
	observability.ObserveMapBuild(string(spec.Mode), time.Since(start).Seconds())
	if err != nil {
		return Result{}, fmt.Errorf("build map artifact: %w", err)
	}

	c.populated = true
	c.sig = sig
	c.subset = subset
	c.artifact = artifact
	return Result{Subset: subset, Artifact: artifact, Recomputed: true}, nil
}

// Invalidate drops the stored entry so the next Resolve always recomputes,
// even if the incoming signature coincides with the stored one.
func (c *Cache) Invalidate() {
	c.populated = false
	c.sig = ""
	c.subset = nil
	c.artifact = nil
}

func (c *Cache) Populated() bool { return c.populated }

// Artifact returns the stored artifact without touching cache state.
func (c *Cache) Artifact() (*model.MapArtifact, bool) {
	if !c.populated {
		return nil, false
	}
	return c.artifact, true
}
