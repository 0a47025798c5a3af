package arrayrt

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/arrayrt/array"
	"github.com/hupe1980/arrayrt/hashcache"
	"github.com/hupe1980/arrayrt/widetag"
)

// Runtime ties the array subsystem to a type environment, a cache registry
// and the ambient logger and metrics collector.
//
// Reads and writes through arrays need no coordination with the Runtime.
// Adjust is serialized by the Runtime, so concurrent adjustments of arrays
// that share a displacement chain are safe when they all go through it.
type Runtime struct {
	types    *widetag.MapExpander
	resolver *widetag.Resolver
	caches   *hashcache.Registry

	logger  *Logger
	metrics MetricsCollector

	adjustMu sync.Mutex
}

// New creates a Runtime.
func New(optFns ...Option) *Runtime {
	o := applyOptions(optFns)
	types := widetag.NewMapExpander(o.expander)
	return &Runtime{
		types:    types,
		resolver: widetag.NewResolver(types),
		caches:   o.registry,
		logger:   o.logger,
		metrics:  o.metricsCollector,
	}
}

// Logger returns the runtime logger.
func (rt *Runtime) Logger() *Logger { return rt.logger }

// DefineType makes name an alias for the specifier text, like deftype.
func (rt *Runtime) DefineType(name, specifier string) error {
	f, err := widetag.Parse(specifier)
	if err != nil {
		return translateError(err)
	}
	rt.types.Define(name, f)
	return nil
}

// Resolve parses a type specifier and maps it to the widetag of the
// specialized array that stores it.
func (rt *Runtime) Resolve(specifier string) (widetag.Widetag, error) {
	f, err := widetag.Parse(specifier)
	if err != nil {
		return widetag.Invalid, translateError(err)
	}
	w, _, err := rt.resolver.Resolve(f)
	return w, translateError(err)
}

// UpgradedElementType returns the canonical specifier of the element type
// an array of specifier would actually store.
func (rt *Runtime) UpgradedElementType(specifier string) (string, error) {
	w, err := rt.Resolve(specifier)
	if err != nil {
		return "", err
	}
	return w.Info().Specifier, nil
}

// MakeArray creates an array whose element type is given as specifier text,
// resolved in the runtime's type environment.
func (rt *Runtime) MakeArray(dims []int, elementType string, opts ...array.Option) (*array.Array, error) {
	w, err := rt.Resolve(elementType)
	if err != nil {
		return nil, err
	}
	a, err := array.New(dims, w, opts...)
	return a, translateError(err)
}

// Adjust adjusts a through array.Adjust, serialized against every other
// Adjust on this Runtime. It returns a itself when the adjustment happened
// in place. Displaced arrays invalidated by a shrink are logged and counted.
// Any array.OnInvalidate option is replaced by the runtime's own hook.
func (rt *Runtime) Adjust(ctx context.Context, a *array.Array, dims []int, opts ...array.Option) (*array.Array, error) {
	rt.adjustMu.Lock()
	defer rt.adjustMu.Unlock()

	invalidated := 0
	hook := array.OnInvalidate(func(x *array.Array) {
		invalidated++
		rt.logger.LogInvalidation(ctx, x)
	})

	start := time.Now()
	res, err := array.Adjust(a, dims, append(opts[:len(opts):len(opts)], hook)...)
	err = translateError(err)

	rt.metrics.RecordAdjust(time.Since(start), err)
	if invalidated > 0 {
		rt.metrics.RecordInvalidation(invalidated)
	}
	rt.logger.LogAdjust(ctx, dims, err == nil && res == a, invalidated, err)
	return res, err
}

// DefineCache defines a hash cache in the runtime registry. Lookups and
// evictions are reported to the metrics collector in addition to any hooks
// already in cfg.
func (rt *Runtime) DefineCache(cfg hashcache.Config) (*hashcache.Cache, error) {
	if cfg.Logger == nil {
		cfg.Logger = rt.logger.Logger
	}
	lookup, evict := cfg.Hooks.Lookup, cfg.Hooks.Evict
	cfg.Hooks.Lookup = func(name string, hit bool) {
		rt.metrics.RecordCacheLookup(name, hit)
		if lookup != nil {
			lookup(name, hit)
		}
	}
	cacheLog := rt.logger.WithCache(cfg.Name)
	var evictions atomic.Int64
	cfg.Hooks.Evict = func(name string) {
		rt.metrics.RecordCacheEviction(name)
		cacheLog.LogEviction(context.Background(), evictions.Add(1))
		if evict != nil {
			evict(name)
		}
	}

	c, err := rt.caches.Define(cfg)
	capacity := 0
	if c != nil {
		capacity = c.Capacity()
	}
	rt.logger.LogCacheDefine(context.Background(), cfg.Name, capacity, err)
	return c, translateError(err)
}

// Cache returns the cache defined under name.
func (rt *Runtime) Cache(name string) (*hashcache.Cache, bool) {
	return rt.caches.Get(name)
}

// CacheNames returns the names of all defined caches, sorted.
func (rt *Runtime) CacheNames() []string { return rt.caches.Names() }

// CacheStats returns the statistics of every defined cache.
func (rt *Runtime) CacheStats() []hashcache.Stats { return rt.caches.Stats() }

// ClearCaches empties every defined cache.
func (rt *Runtime) ClearCaches(ctx context.Context) {
	rt.caches.ClearAll()
	rt.logger.LogCacheClear(ctx, len(rt.caches.Names()))
}
