package hashcache

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slotHash places integer key k (< 32) in slot k for both probes, and key
// 32 in slots 0 and 1.
func slotHash(args []any) uint64 {
	k := uint64(args[0].(int))
	if k < 32 {
		return k | k<<5
	}
	return 1 << 5
}

func newIntCache(t *testing.T, bits uint, hash func([]any) uint64) *Cache {
	t.Helper()
	c, err := New(Config{
		Name:     "ints",
		Args:     []Arg{{Name: "k", Equal: Eq}},
		HashBits: bits,
		Values:   1,
		Hash:     hash,
	})
	require.NoError(t, err)
	return c
}

func TestConfig_Validate(t *testing.T) {
	base := Config{Name: "c", Args: []Arg{{Name: "a", Equal: Eq}}, HashBits: 5, Values: 1, Hash: HashComparable}
	require.NoError(t, base.validate())

	tests := map[string]func(c *Config){
		"empty name":     func(c *Config) { c.Name = "" },
		"no args":        func(c *Config) { c.Args = nil },
		"bits too small": func(c *Config) { c.HashBits = 4 },
		"bits too large": func(c *Config) { c.HashBits = 15 },
		"no values":      func(c *Config) { c.Values = 0 },
		"no hash":        func(c *Config) { c.Hash = nil },
		"no equality":    func(c *Config) { c.Args = []Arg{{Name: "a"}} },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := base
			mutate(&cfg)
			_, err := New(cfg)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestCache_LookupEnter(t *testing.T) {
	c := newIntCache(t, 5, HashComparable)
	assert.Equal(t, 32, c.Capacity())

	_, ok := c.Lookup(1)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "vector is allocated lazily")

	require.NoError(t, c.Enter([]any{1}, []any{"one"}))
	res, ok := c.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, []any{"one"}, res)

	// Entering the same arguments again replaces the line in place.
	require.NoError(t, c.Enter([]any{1}, []any{"uno"}))
	res, ok = c.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, []any{"uno"}, res)
	assert.Equal(t, 1, c.Len())

	_, ok = c.Lookup(1, 2)
	assert.False(t, ok)
	require.ErrorIs(t, c.Enter([]any{1, 2}, []any{"x"}), ErrArity)
	require.ErrorIs(t, c.Enter([]any{1}, []any{"x", "y"}), ErrArity)

	s := c.Stats()
	assert.Equal(t, int64(2), s.Hits)
	assert.Equal(t, int64(2), s.Misses)
	assert.Equal(t, int64(2), s.Inserts)
	assert.Equal(t, int64(0), s.Evictions)
}

func TestCache_EnterDoesNotAliasCallerSlices(t *testing.T) {
	c := newIntCache(t, 5, HashComparable)
	args, res := []any{3}, []any{"three"}
	require.NoError(t, c.Enter(args, res))
	res[0] = "changed"
	got, ok := c.Lookup(3)
	require.True(t, ok)
	assert.Equal(t, "three", got[0])
}

func TestCache_LookupDoesNotExposeLine(t *testing.T) {
	c := newIntCache(t, 5, HashComparable)
	require.NoError(t, c.Enter([]any{1}, []any{"one"}))

	res, ok := c.Lookup(1)
	require.True(t, ok)
	res[0] = "mutated"

	res, ok = c.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, []any{"one"}, res)
}

func TestMemoize_CallDoesNotExposeLine(t *testing.T) {
	c := newIntCache(t, 5, HashComparable)
	m := Memoize(c, func(args ...any) ([]any, error) { return []any{"v"}, nil })

	for range 2 {
		res, err := m.Call(4)
		require.NoError(t, err)
		require.Equal(t, []any{"v"}, res)
		res[0] = "mutated"
	}
	res, ok := c.Lookup(4)
	require.True(t, ok)
	assert.Equal(t, []any{"v"}, res)
}

func TestCache_CapacityIsFixed(t *testing.T) {
	var evicted atomic.Int64
	c, err := New(Config{
		Name:     "ints",
		Args:     []Arg{{Name: "k", Equal: Eq}},
		HashBits: 5,
		Values:   1,
		Hash:     slotHash,
		Hooks:    Hooks{Evict: func(string) { evicted.Add(1) }},
	})
	require.NoError(t, err)

	for k := range 32 {
		require.NoError(t, c.Enter([]any{k}, []any{k * k}))
	}
	assert.Equal(t, 32, c.Len())
	assert.Equal(t, int64(0), c.Stats().Evictions)

	require.NoError(t, c.Enter([]any{32}, []any{32 * 32}))
	assert.Equal(t, 32, c.Len())
	assert.Equal(t, int64(1), c.Stats().Evictions)
	assert.Equal(t, int64(1), evicted.Load())

	res, ok := c.Lookup(32)
	require.True(t, ok)
	assert.Equal(t, []any{1024}, res)

	_, ok0 := c.Lookup(0)
	_, ok1 := c.Lookup(1)
	assert.True(t, ok0 != ok1, "exactly one of the two occupants was evicted")
	for k := 2; k < 32; k++ {
		_, ok := c.Lookup(k)
		assert.True(t, ok, "key %d", k)
	}
}

func TestCache_TwoProbesOnly(t *testing.T) {
	// Every key hashes to slots 0 and 1; a third key always evicts.
	c := newIntCache(t, 5, func(args []any) uint64 { return 1 << 5 })
	for k := range 3 {
		require.NoError(t, c.Enter([]any{k}, []any{k}))
	}
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, int64(1), c.Stats().Evictions)
	occ := c.Occupancy()
	assert.True(t, occ.Contains(0))
	assert.True(t, occ.Contains(1))
}

func TestCache_Clear(t *testing.T) {
	c := newIntCache(t, 6, HashComparable)
	for k := range 10 {
		require.NoError(t, c.Enter([]any{k}, []any{k}))
	}
	require.Positive(t, c.Len())
	c.Clear()
	assert.Equal(t, 0, c.Len())
	for k := range 10 {
		_, ok := c.Lookup(k)
		assert.False(t, ok)
	}
	require.NoError(t, c.Enter([]any{1}, []any{1}))
	assert.Equal(t, 1, c.Len())
}

func TestCache_ConcurrentReadersSeeWholeLines(t *testing.T) {
	c, err := New(Config{
		Name:     "pairs",
		Args:     []Arg{{Name: "a", Equal: Eq}, {Name: "b", Equal: Eq}},
		HashBits: 5,
		Values:   2,
		Hash:     HashComparable,
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	var bad atomic.Int64
	stop := make(chan struct{})
	for w := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; ; i++ {
				select {
				case <-stop:
					return
				default:
				}
				a, b := (i+w)%50, i%7
				if err := c.Enter([]any{a, b}, []any{a, a + b}); err != nil {
					bad.Add(1)
				}
				if i%100 == 0 {
					c.Clear()
				}
			}
		}()
	}
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 20000 {
				a, b := i%50, i%7
				if res, ok := c.Lookup(a, b); ok && (res[0] != a || res[1] != a+b) {
					bad.Add(1)
				}
			}
		}()
	}
	go func() {
		// Writers stop once readers have had their turn.
		for c.hits.Load()+c.misses.Load() < 80000 {
			runtime.Gosched()
		}
		close(stop)
	}()
	wg.Wait()
	assert.Zero(t, bad.Load())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"b", "a"} {
		_, err := r.Define(Config{Name: name, Args: []Arg{{Name: "x", Equal: Eq}}, HashBits: 5, Values: 1, Hash: HashComparable})
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"a", "b"}, r.Names())

	a, ok := r.Get("a")
	require.True(t, ok)
	require.NoError(t, a.Enter([]any{1}, []any{1}))
	r.ClearAll()
	assert.Equal(t, 0, a.Len())

	stats := r.Stats()
	require.Len(t, stats, 2)
	assert.Equal(t, "a", stats[0].Name)

	_, err := r.Define(Config{Name: "bad"})
	require.Error(t, err)
	_, ok = r.Get("bad")
	assert.False(t, ok)
}

func TestMemoize(t *testing.T) {
	c := newIntCache(t, 5, HashComparable)
	var calls atomic.Int64
	m := Memoize(c, func(args ...any) ([]any, error) {
		calls.Add(1)
		n := args[0].(int)
		if n < 0 {
			return nil, errors.New("negative")
		}
		return []any{n * 2}, nil
	})

	for range 3 {
		res, err := m.Call(21)
		require.NoError(t, err)
		assert.Equal(t, []any{42}, res)
	}
	assert.Equal(t, int64(1), calls.Load())

	_, err := m.Call(-1)
	require.Error(t, err)
	_, err = m.Call(-1)
	require.Error(t, err)
	assert.Equal(t, int64(3), calls.Load(), "errors are not cached")

	_, err = m.Call(1, 2)
	require.ErrorIs(t, err, ErrArity)

	bad := Memoize(c, func(args ...any) ([]any, error) { return []any{1, 2}, nil })
	_, err = bad.Call(5)
	require.ErrorIs(t, err, ErrArity)
	assert.Same(t, c, m.Cache())
}

func TestMemoize_CollapsesConcurrentMisses(t *testing.T) {
	c := newIntCache(t, 5, HashComparable)
	var calls atomic.Int64
	release := make(chan struct{})
	m := Memoize(c, func(args ...any) ([]any, error) {
		calls.Add(1)
		<-release
		return []any{fmt.Sprint(args[0])}, nil
	})

	var wg sync.WaitGroup
	results := make([][]any, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = m.Call(7)
		}()
	}
	for calls.Load() == 0 {
		runtime.Gosched()
	}
	close(release)
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, []any{"7"}, r)
	}
	// Late arrivals may miss the flight but hit the cache.
	assert.LessOrEqual(t, calls.Load(), int64(8))
	assert.GreaterOrEqual(t, calls.Load(), int64(1))
}

func TestMemoize1(t *testing.T) {
	c := newIntCache(t, 5, HashComparable)
	var calls int
	square := Memoize1(c, func(n int) (int, error) {
		calls++
		return n * n, nil
	})
	for range 2 {
		v, err := square(9)
		require.NoError(t, err)
		assert.Equal(t, 81, v)
	}
	assert.Equal(t, 1, calls)
}

func TestHashHelpers(t *testing.T) {
	assert.Equal(t, HashComparable([]any{1, "a"}), HashComparable([]any{1, "a"}))
	assert.NotEqual(t, HashComparable([]any{1, "a"}), HashComparable([]any{"a", 1}))
	assert.Equal(t, HashOf("x"), HashOf("x"))
	assert.NotEqual(t, Mix(1, 2), Mix(2, 1))
	assert.True(t, Equal([]int{1}, []int{1}))
	assert.False(t, Eq(1, 2))
}
