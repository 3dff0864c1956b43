// Package session owns per-user interaction state: the current filter spec
// and the view cache bound to it.
package session

import (
	"sync"

	"github.com/stats19/collision-explorer/internal/core/model"
	"github.com/stats19/collision-explorer/internal/dataset"
	"github.com/stats19/collision-explorer/internal/filter"
	"github.com/stats19/collision-explorer/internal/viewcache"
)

// Controller processes one user action at a time. Apply replaces the
// current spec wholesale; Reset restores the defaults and forces a
// recompute; View behaves as an implicit apply of the defaults on first
// display. Each action calls resolve exactly once.
type Controller struct {
	mu sync.Mutex

	id          string
	defaults    model.FilterSpec
	current     model.FilterSpec
	cache       *viewcache.Cache
	initialized bool
}

// Outcome is what a discrete user action produced.
type Outcome struct {
	Spec       model.FilterSpec
	Summary    model.Summary
	Artifact   *model.MapArtifact
	Recomputed bool
}

func NewController(id string, ds *dataset.Dataset, builder viewcache.Builder, defaults model.FilterSpec) *Controller {
	return &Controller{
		id:       id,
		defaults: defaults,
		current:  defaults,
		cache:    viewcache.New(ds, builder),
	}
}

func (c *Controller) ID() string { return c.id }

// Apply replaces the current spec with the submitted one and resolves it.
// Validation happens before the spec is accepted; an invalid submission
// leaves the controller untouched.
func (c *Controller) Apply(spec model.FilterSpec) (Outcome, error) {
	if err := filter.Validate(spec); err != nil {
		return Outcome{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = spec
	c.initialized = true
	return c.resolveLocked()
}

// Reset restores the default spec, invalidates the cache, and resolves.
// Resolving after invalidation recomputes even when the defaults' signature
// matches what was stored.
func (c *Controller) Reset() (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = c.defaults
	c.initialized = true
	c.cache.Invalidate()
	return c.resolveLocked()
}

// View resolves the current spec, acting as an implicit apply of the
// defaults when no action has happened yet. Repeated calls with no
// intervening apply reuse the cached artifact.
func (c *Controller) View() (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		c.current = c.defaults
		c.initialized = true
	}
	return c.resolveLocked()
}

// Current returns the spec the session is showing.
func (c *Controller) Current() model.FilterSpec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Artifact returns the last successfully built artifact, if any, without
// triggering a resolve.
func (c *Controller) Artifact() (*model.MapArtifact, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Artifact()
}

func (c *Controller) resolveLocked() (Outcome, error) {
	res, err := c.cache.Resolve(c.current)
	if err != nil {
		// EmptyResult and builder faults leave the prior view in place.
		return Outcome{Spec: c.current}, err
	}
	return Outcome{
		Spec:       c.current,
		Summary:    filter.Summarize(res.Subset),
		Artifact:   res.Artifact,
		Recomputed: res.Recomputed,
	}, nil
}
