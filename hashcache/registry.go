package hashcache

import (
	"slices"
	"sync"
)

// Registry holds caches by name.
type Registry struct {
	mu     sync.RWMutex
	caches map[string]*Cache
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{caches: make(map[string]*Cache)}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry { return defaultRegistry }

// Define creates a cache in the default registry.
func Define(cfg Config) (*Cache, error) { return defaultRegistry.Define(cfg) }

// Define creates a cache and registers it under cfg.Name. Redefining a name
// replaces the previous cache; holders of the old one keep a working,
// unregistered cache.
func (r *Registry) Define(cfg Config) (*Cache, error) {
	c, err := New(cfg)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.caches[cfg.Name]; exists {
		c.logger.Debug("hash cache redefined")
	}
	r.caches[cfg.Name] = c
	return c, nil
}

// Get returns the cache registered under name.
func (r *Registry) Get(name string) (*Cache, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.caches[name]
	return c, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.caches))
	for name := range r.caches {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ClearAll clears every registered cache.
func (r *Registry) ClearAll() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.caches {
		c.Clear()
	}
}

// Stats returns the statistics of every registered cache, sorted by name.
func (r *Registry) Stats() []Stats {
	names := r.Names()
	out := make([]Stats, 0, len(names))
	for _, name := range names {
		if c, ok := r.Get(name); ok {
			out = append(out, c.Stats())
		}
	}
	return out
}
