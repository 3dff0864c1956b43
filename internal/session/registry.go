package session

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/stats19/collision-explorer/internal/core/model"
	"github.com/stats19/collision-explorer/internal/core/observability"
	"github.com/stats19/collision-explorer/internal/dataset"
	"github.com/stats19/collision-explorer/internal/viewcache"
)

// Registry hands out one controller per session ID. Capacity is bounded;
// the least recently used session is evicted once it fills, which just
// means that session's next request starts from defaults again.
type Registry struct {
	mu       sync.Mutex
	sessions *lru.Cache[string, *Controller]

	ds       *dataset.Dataset
	builder  viewcache.Builder
	defaults model.FilterSpec
}

func NewRegistry(capacity int, ds *dataset.Dataset, builder viewcache.Builder, defaults model.FilterSpec) (*Registry, error) {
	if capacity <= 0 {
		capacity = 1024
	}
	c, err := lru.NewWithEvict(capacity, func(string, *Controller) {
		observability.DecSessionsActive()
	})
	if err != nil {
		return nil, fmt.Errorf("session lru: %w", err)
	}
	return &Registry{sessions: c, ds: ds, builder: builder, defaults: defaults}, nil
}

// Get returns the controller for id, minting a fresh one on first sight.
func (r *Registry) Get(id string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.sessions.Get(id); ok {
		return c
	}
	c := NewController(id, r.ds, r.builder, r.defaults)
	r.sessions.Add(id, c)
	observability.IncSessionsActive()
	return c
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions.Len()
}
