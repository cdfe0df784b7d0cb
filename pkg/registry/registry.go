// Package registry provides a concurrency-safe map from identifiers to
// servable values. It is the only structure mutated after the server starts
// accepting requests, so every operation takes the registry lock.
package registry

import (
	"maps"
	"sync"
)

// Registry maps unique identifiers to values of type V.
// A Register that returns happens-before any Lookup that observes it.
type Registry[V any] struct {
	mu    sync.RWMutex
	items map[string]V
}

// New returns an empty registry.
func New[V any]() *Registry[V] {
	return &Registry[V]{items: make(map[string]V)}
}

// Register stores v under id unless the id is already taken.
// It returns the stored value and whether it was already present, so callers
// get the original value back for repeated registrations of the same id.
func (r *Registry[V]) Register(id string, v V) (V, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.items[id]; ok {
		return existing, true
	}
	r.items[id] = v
	return v, false
}

// Lookup returns the value registered under id.
func (r *Registry[V]) Lookup(id string) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.items[id]
	return v, ok
}

// All returns a snapshot copy; later registrations do not affect it.
func (r *Registry[V]) All() map[string]V {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return maps.Clone(r.items)
}

// Len returns the number of registered values.
func (r *Registry[V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items)
}

// Clear drops every entry. Entries are not individually removable; Clear is
// meant for tearing down the owner.
func (r *Registry[V]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.items)
}
