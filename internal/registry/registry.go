// Package registry provides a thread-safe provider registry keyed by
// service type and optional name.
package registry

import (
	"fmt"
	"reflect"
	"sync"
)

// Key uniquely identifies a registered service.
type Key struct {
	// Type is the service type the provider produces.
	Type reflect.Type

	// Name distinguishes multiple providers of the same type. Empty
	// for unnamed services.
	Name string
}

func (k Key) String() string {
	if k.Name != "" {
		return fmt.Sprintf("%v[%s]", k.Type, k.Name)
	}
	return fmt.Sprintf("%v", k.Type)
}

// Registry stores providers by key. All operations are safe for
// concurrent use. Insertion order is preserved so callers can dispose
// entries in reverse order of registration.
type Registry struct {
	mu      sync.RWMutex
	entries map[Key]any
	order   []Key
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		entries: make(map[Key]any),
	}
}

// Add registers an entry under the key. Registering the same key twice
// is an error.
func (r *Registry) Add(key Key, entry any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[key]; exists {
		return fmt.Errorf("%s already registered", key)
	}

	r.entries[key] = entry
	r.order = append(r.order, key)
	return nil
}

// Get returns the entry for the key.
func (r *Registry) Get(key Key) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[key]
	return entry, ok
}

// Len reports the number of registered entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Types returns the distinct service types currently registered.
func (r *Registry) Types() []reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[reflect.Type]struct{}, len(r.order))
	types := make([]reflect.Type, 0, len(r.order))
	for _, key := range r.order {
		if _, dup := seen[key.Type]; dup {
			continue
		}
		seen[key.Type] = struct{}{}
		types = append(types, key.Type)
	}

	return types
}

// Drain removes and returns all entries in reverse registration order.
// The registry is empty afterwards.
func (r *Registry) Drain() []any {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]any, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		if entry, ok := r.entries[r.order[i]]; ok {
			entries = append(entries, entry)
		}
	}

	r.entries = make(map[Key]any)
	r.order = nil
	return entries
}
