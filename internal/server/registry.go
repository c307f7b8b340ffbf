package server

import (
	"slices"
	"sync"

	"github.com/five82/marquee/internal/observe"
)

const duplicateAPIKeyMessage = "Api Key already exists!"

// Registry owns every configured server record, keyed by id.
type Registry struct {
	mu      sync.RWMutex
	servers map[int]Server
	order   []int

	observers observe.Set
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		servers: make(map[int]Server),
	}
}

// Add validates s and stores it, returning its id.
//
// A record carrying an id replaces whatever is stored under that id (creating
// it when absent) without checking apiKey uniqueness, so edit flows can save a
// server unchanged. A record without an id gets a fresh id and must not reuse
// a registered apiKey.
func (r *Registry) Add(s Server) (int, error) {
	if err := Validate(s); err != nil {
		return 0, err
	}

	r.mu.Lock()
	var id int
	if s.ID != nil {
		id = *s.ID
		if _, ok := r.servers[id]; !ok {
			r.order = append(r.order, id)
		}
		r.servers[id] = s.clone()
	} else {
		for _, existing := range r.servers {
			if existing.APIKey == s.APIKey {
				r.mu.Unlock()
				return 0, &DuplicateKeyError{Field: "apiKey", Message: duplicateAPIKeyMessage}
			}
		}
		id = r.newIDLocked()
		r.servers[id] = s.WithID(id)
		r.order = append(r.order, id)
	}
	r.mu.Unlock()

	r.observers.Notify()
	return id, nil
}

// Remove deletes the server with the given id. Unknown ids are ignored.
func (r *Registry) Remove(id int) {
	r.mu.Lock()
	if _, ok := r.servers[id]; !ok {
		r.mu.Unlock()
		return
	}
	delete(r.servers, id)
	r.order = slices.DeleteFunc(r.order, func(v int) bool { return v == id })
	r.mu.Unlock()

	r.observers.Notify()
}

// Get returns the server with the given id.
func (r *Registry) Get(id int) (Server, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.servers[id]
	if !ok {
		return Server{}, &NotFoundError{ID: id}
	}
	return s.clone(), nil
}

// HasServer reports whether at least one server is registered.
func (r *Registry) HasServer() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.servers) != 0
}

// List returns every server in insertion order.
func (r *Registry) List() []Server {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Server, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.servers[id].clone())
	}
	return out
}

// IDs returns the registered ids in insertion order.
func (r *Registry) IDs() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Restore replaces the registry contents with previously persisted records.
// Records without an id are skipped.
func (r *Registry) Restore(records []Server) {
	r.mu.Lock()
	r.servers = make(map[int]Server, len(records))
	r.order = make([]int, 0, len(records))
	for _, s := range records {
		if s.ID == nil {
			continue
		}
		if _, dup := r.servers[*s.ID]; !dup {
			r.order = append(r.order, *s.ID)
		}
		r.servers[*s.ID] = s.clone()
	}
	r.mu.Unlock()

	r.observers.Notify()
}

// Subscribe registers fn to run after every mutation. The returned function
// removes the subscription.
func (r *Registry) Subscribe(fn func()) (cancel func()) {
	return r.observers.Subscribe(fn)
}

// newIDLocked must be called with mu held.
func (r *Registry) newIDLocked() int {
	if len(r.servers) == 0 {
		return 0
	}
	maxID := 0
	first := true
	for id := range r.servers {
		if first || id > maxID {
			maxID = id
			first = false
		}
	}
	return maxID + 1
}
