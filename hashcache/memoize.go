package hashcache

import (
	"fmt"
	"slices"
	"strconv"

	"golang.org/x/sync/singleflight"
)

// Func computes the results of a memoized function.
type Func func(args ...any) ([]any, error)

// Memoized wraps a Func with a Cache. Concurrent misses for the same
// arguments run the function once. Errors are returned but never cached.
type Memoized struct {
	cache *Cache
	fn    Func
	group singleflight.Group
}

// Memoize wraps fn with cache.
func Memoize(cache *Cache, fn Func) *Memoized {
	return &Memoized{cache: cache, fn: fn}
}

// Cache returns the backing cache.
func (m *Memoized) Cache() *Cache { return m.cache }

// Call returns cached results for args, computing and entering them on a miss.
func (m *Memoized) Call(args ...any) ([]any, error) {
	if res, ok := m.cache.Lookup(args...); ok {
		return res, nil
	}
	if len(args) != m.cache.NumArgs() {
		return nil, fmt.Errorf("%w: %s takes %d arguments, got %d", ErrArity, m.cache.Name(), m.cache.NumArgs(), len(args))
	}
	h, _, _ := m.cache.probes(args)
	v, err, _ := m.group.Do(strconv.FormatUint(h, 16), func() (any, error) {
		res, err := m.Uncached(args...)
		if err != nil {
			return nil, err
		}
		if err := m.cache.Enter(args, res); err != nil {
			return nil, err
		}
		return &line{args: slices.Clone(args), results: res}, nil
	})
	if err != nil {
		return nil, err
	}
	l := v.(*line)
	if !m.cache.matches(l, args) {
		// A different argument list with the same hash was in flight.
		return m.compute(args)
	}
	return slices.Clone(l.results), nil
}

func (m *Memoized) compute(args []any) ([]any, error) {
	res, err := m.Uncached(args...)
	if err != nil {
		return nil, err
	}
	if err := m.cache.Enter(args, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Uncached calls the wrapped function directly, bypassing the cache.
func (m *Memoized) Uncached(args ...any) ([]any, error) {
	res, err := m.fn(args...)
	if err != nil {
		return nil, err
	}
	if len(res) != m.cache.NumValues() {
		return nil, fmt.Errorf("%w: %s returned %d values, want %d", ErrArity, m.cache.Name(), len(res), m.cache.NumValues())
	}
	return res, nil
}

// Memoize1 wraps a one-argument, one-result function. The cache must be
// defined with one argument and one value.
func Memoize1[A, R any](cache *Cache, fn func(A) (R, error)) func(A) (R, error) {
	m := Memoize(cache, func(args ...any) ([]any, error) {
		r, err := fn(args[0].(A))
		if err != nil {
			return nil, err
		}
		return []any{r}, nil
	})
	return func(a A) (R, error) {
		res, err := m.Call(a)
		if err != nil {
			var zero R
			return zero, err
		}
		return res[0].(R), nil
	}
}
