package persona

import (
	"errors"
	"sync"
)

// ErrIDRequired is returned when a persona is registered without an identifier.
var ErrIDRequired = errors.New("persona id is required")

// Store exposes persona retrieval for HTTP handlers and the router.
type Store interface {
	List() []Persona
	FindByID(id string) (Persona, bool)
}

// Registry holds the persona roster. Registration is idempotent by id
// (last write wins, whole-entry replacement) and List preserves first
// registration order so candidate tie-breaks stay deterministic.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Persona
	order   []string
}

// NewRegistry returns a Registry preloaded with the supplied personas.
func NewRegistry(items []Persona) *Registry {
	r := &Registry{entries: make(map[string]Persona, len(items))}
	for _, item := range items {
		_ = r.Register(item)
	}
	return r
}

// Register adds or replaces a persona entry atomically.
func (r *Registry) Register(p Persona) error {
	if p.ID == "" {
		return ErrIDRequired
	}
	if p.Backend == "" {
		p.Backend = BackendStatic
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[p.ID]; !ok {
		r.order = append(r.order, p.ID)
	}
	r.entries[p.ID] = p
	return nil
}

// List returns the personas in first-registration order.
func (r *Registry) List() []Persona {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Persona, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.entries[id])
	}
	return out
}

// FindByID looks up a persona by identifier.
func (r *Registry) FindByID(id string) (Persona, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.entries[id]
	return p, ok
}

// Len reports the number of registered personas.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
