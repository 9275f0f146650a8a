package algorithm

import (
	"fmt"
	"slices"
	"sync"
)

// Registry resolves algorithm names to implementations.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	algos map[Name]Algorithm
}

// NewRegistry creates a registry holding algos. Later entries replace
// earlier ones with the same name.
func NewRegistry(algos ...Algorithm) *Registry {
	r := &Registry{algos: make(map[Name]Algorithm, len(algos))}
	for _, a := range algos {
		r.Register(a)
	}
	return r
}

// DefaultRegistry returns a registry with trial, sieve, atkin and miller.
func DefaultRegistry() *Registry {
	return NewRegistry(Trial{}, Sieve{}, Atkin{}, MillerRabin{})
}

// Register adds or replaces a.
func (r *Registry) Register(a Algorithm) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.algos[normalizeName(string(a.Name()))] = a
}

// Lookup returns the algorithm registered under name, ignoring case.
// Unknown names return an error wrapping ErrUnsupportedAlgorithm.
func (r *Registry) Lookup(name string) (Algorithm, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if a, ok := r.algos[normalizeName(name)]; ok {
		return a, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
}

// Names returns the registered names in ascending order.
func (r *Registry) Names() []Name {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]Name, 0, len(r.algos))
	for n := range r.algos {
		names = append(names, n)
	}
	slices.Sort(names)

	return names
}
