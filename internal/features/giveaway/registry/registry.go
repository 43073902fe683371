// Package registry holds the live giveaway records. It is the single source
// of truth for every pending-expiry giveaway; records are removed the moment
// a giveaway closes.
package registry

import (
	"errors"
	"sync"

	"giveaway-bot/internal/features/giveaway/models"
)

// ErrNotFound is returned by Update when the record is gone, which is a
// legitimate outcome for any handler that suspended before mutating.
var ErrNotFound = errors.New("registry: giveaway not found")

// Registry is the injectable store of active giveaway records. Get returns a
// snapshot; all mutation goes through Update so a handler always operates on
// the current record, never on a copy it held across a suspension.
type Registry interface {
	Get(id string) (*models.Giveaway, bool)
	Set(g *models.Giveaway)
	Update(id string, fn func(g *models.Giveaway) error) error
	Delete(id string) (*models.Giveaway, bool)
	List() []*models.Giveaway
	Len() int
}

type memoryRegistry struct {
	mu        sync.RWMutex
	giveaways map[string]*models.Giveaway
}

// NewMemory returns the in-memory Registry used in production. State does not
// survive a restart; only closed giveaways are archived elsewhere.
func NewMemory() Registry {
	return &memoryRegistry{giveaways: make(map[string]*models.Giveaway)}
}

func (r *memoryRegistry) Get(id string) (*models.Giveaway, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.giveaways[id]
	if !ok {
		return nil, false
	}
	return g.Clone(), true
}

func (r *memoryRegistry) Set(g *models.Giveaway) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Insertion overwrites: at most one record per announcement id.
	r.giveaways[g.ID] = g.Clone()
}

func (r *memoryRegistry) Update(id string, fn func(g *models.Giveaway) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.giveaways[id]
	if !ok {
		return ErrNotFound
	}
	return fn(g)
}

func (r *memoryRegistry) Delete(id string) (*models.Giveaway, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.giveaways[id]
	if !ok {
		return nil, false
	}
	delete(r.giveaways, id)
	return g, true
}

func (r *memoryRegistry) List() []*models.Giveaway {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Giveaway, 0, len(r.giveaways))
	for _, g := range r.giveaways {
		out = append(out, g.Clone())
	}
	return out
}

func (r *memoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.giveaways)
}
