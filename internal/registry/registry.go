// Package registry maps configuration identifiers to factories.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrNotRegistered = errors.New("identifier is not registered")
	ErrDuplicate     = errors.New("identifier is already registered")
	ErrEmptyName     = errors.New("identifier cannot be empty")
)

type Registry[T any] struct {
	mu      sync.RWMutex
	entries map[string]T
}

func New[T any]() *Registry[T] {
	return &Registry[T]{entries: make(map[string]T)}
}

func (r *Registry[T]) Register(name string, v T) error {
	if name == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	r.entries[name] = v
	return nil
}

// MustRegister is Register for package-level wiring where a clash is a bug.
func (r *Registry[T]) MustRegister(name string, v T) {
	if err := r.Register(name, v); err != nil {
		panic(err)
	}
}

func (r *Registry[T]) Lookup(name string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.entries[name]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s", ErrNotRegistered, name)
	}
	return v, nil
}

func (r *Registry[T]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[name]
	return ok
}

// Names returns the registered identifiers in sorted order.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
