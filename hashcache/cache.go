package hashcache

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync/atomic"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/time/rate"
)

const (
	// MinHashBits is the smallest accepted HashBits.
	MinHashBits = 5
	// MaxHashBits is the largest accepted HashBits.
	MaxHashBits = 14
)

var (
	// ErrInvalidConfig is returned by New for unusable configurations.
	ErrInvalidConfig = errors.New("hashcache: invalid config")
	// ErrArity is returned when argument or result counts do not match the cache.
	ErrArity = errors.New("hashcache: wrong number of values")
)

// Arg describes one cache argument.
type Arg struct {
	Name string
	// Equal compares a stored argument (first) with a query argument. It must
	// accept a nil first argument.
	Equal func(stored, query any) bool
}

// Hooks observe cache activity. Nil hooks are skipped.
type Hooks struct {
	Lookup func(name string, hit bool)
	Evict  func(name string)
}

// Config defines a cache.
type Config struct {
	Name string
	Args []Arg
	// HashBits sets the capacity to 1<<HashBits lines.
	HashBits uint
	// Values is the number of results per line.
	Values int
	// Hash maps arguments to an integer with at least 2*HashBits bits of
	// entropy; the two probes use disjoint bit ranges of it.
	Hash   func(args []any) uint64
	Logger *slog.Logger
	Hooks  Hooks
}

func (c Config) validate() error {
	switch {
	case c.Name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidConfig)
	case len(c.Args) == 0:
		return fmt.Errorf("%w: %s: no arguments", ErrInvalidConfig, c.Name)
	case c.HashBits < MinHashBits || c.HashBits > MaxHashBits:
		return fmt.Errorf("%w: %s: hash bits %d not in [%d, %d]", ErrInvalidConfig, c.Name, c.HashBits, MinHashBits, MaxHashBits)
	case c.Values < 1:
		return fmt.Errorf("%w: %s: values must be at least 1", ErrInvalidConfig, c.Name)
	case c.Hash == nil:
		return fmt.Errorf("%w: %s: no hash function", ErrInvalidConfig, c.Name)
	}
	for i, a := range c.Args {
		if a.Equal == nil {
			return fmt.Errorf("%w: %s: argument %d has no equality test", ErrInvalidConfig, c.Name, i)
		}
	}
	return nil
}

// line is one immutable cache entry. It is fully built before it is
// published into a slot and never modified afterwards.
type line struct {
	args    []any
	results []any
}

type vector struct {
	slots []atomic.Pointer[line]
}

// Cache is a fixed-capacity, two-way associative memo table.
//
// Lookup and Enter are safe for concurrent use without locks: lines are
// immutable and a slot is published with a single pointer store. Clear
// swaps the whole slot vector, so a reader holding the old vector finishes
// against consistent, if stale, lines.
type Cache struct {
	cfg    Config
	mask   uint64
	logger *slog.Logger
	vec    atomic.Pointer[vector]

	hits      atomic.Int64
	misses    atomic.Int64
	inserts   atomic.Int64
	evictions atomic.Int64

	evictLog rate.Sometimes
}

// New creates a cache. The slot vector is allocated on first Enter.
func New(cfg Config) (*Cache, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Cache{
		cfg:      cfg,
		mask:     1<<cfg.HashBits - 1,
		logger:   logger.With("cache", cfg.Name),
		evictLog: rate.Sometimes{First: 1, Interval: 10 * time.Second},
	}, nil
}

// Name returns the cache name.
func (c *Cache) Name() string { return c.cfg.Name }

// Capacity returns the number of slots.
func (c *Cache) Capacity() int { return int(c.mask) + 1 }

// NumArgs returns the argument count.
func (c *Cache) NumArgs() int { return len(c.cfg.Args) }

// NumValues returns the result count.
func (c *Cache) NumValues() int { return c.cfg.Values }

func (c *Cache) probes(args []any) (uint64, uint64, uint64) {
	h := c.cfg.Hash(args)
	return h, h & c.mask, (h >> c.cfg.HashBits) & c.mask
}

func (c *Cache) matches(l *line, args []any) bool {
	for i, a := range c.cfg.Args {
		if !a.Equal(l.args[i], args[i]) {
			return false
		}
	}
	return true
}

// Lookup returns a copy of the results stored for args. Only the two probe
// slots are examined. A call with the wrong number of arguments is a miss.
func (c *Cache) Lookup(args ...any) ([]any, bool) {
	res, ok := c.lookup(args)
	if h := c.cfg.Hooks.Lookup; h != nil {
		h(c.cfg.Name, ok)
	}
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return res, ok
}

func (c *Cache) lookup(args []any) ([]any, bool) {
	if len(args) != len(c.cfg.Args) {
		return nil, false
	}
	v := c.vec.Load()
	if v == nil {
		return nil, false
	}
	_, i1, i2 := c.probes(args)
	if l := v.slots[i1].Load(); l != nil && c.matches(l, args) {
		return slices.Clone(l.results), true
	}
	if l := v.slots[i2].Load(); l != nil && c.matches(l, args) {
		return slices.Clone(l.results), true
	}
	return nil, false
}

// Enter stores results for args. The line goes to the first empty probe
// slot, replaces a line with equal arguments, or evicts one of the two
// occupants chosen at random. The cache never grows.
func (c *Cache) Enter(args []any, results []any) error {
	if len(args) != len(c.cfg.Args) {
		return fmt.Errorf("%w: %s takes %d arguments, got %d", ErrArity, c.cfg.Name, len(c.cfg.Args), len(args))
	}
	if len(results) != c.cfg.Values {
		return fmt.Errorf("%w: %s stores %d values, got %d", ErrArity, c.cfg.Name, c.cfg.Values, len(results))
	}
	l := &line{
		args:    append([]any(nil), args...),
		results: append([]any(nil), results...),
	}
	v := c.vector()
	_, i1, i2 := c.probes(args)
	s1, s2 := &v.slots[i1], &v.slots[i2]
	c.inserts.Add(1)

	probes := []*atomic.Pointer[line]{s1, s2}
	for _, s := range probes {
		if old := s.Load(); old != nil && c.matches(old, args) {
			s.Store(l)
			return nil
		}
	}
	for _, s := range probes {
		if s.Load() == nil && s.CompareAndSwap(nil, l) {
			return nil
		}
	}

	victim := s1
	if rand.Uint64()&1 == 1 {
		victim = s2
	}
	victim.Store(l)
	c.evictions.Add(1)
	if h := c.cfg.Hooks.Evict; h != nil {
		h(c.cfg.Name)
	}
	c.evictLog.Do(func() {
		c.logger.Debug("hash cache eviction", "slot1", i1, "slot2", i2, "evictions", c.evictions.Load())
	})
	return nil
}

// vector returns the live slot vector, allocating it on first use.
func (c *Cache) vector() *vector {
	for {
		if v := c.vec.Load(); v != nil {
			return v
		}
		nv := &vector{slots: make([]atomic.Pointer[line], c.Capacity())}
		if c.vec.CompareAndSwap(nil, nv) {
			return nv
		}
	}
}

// Clear drops every line by replacing the slot vector reference.
func (c *Cache) Clear() {
	c.vec.Store(nil)
}

// Len returns the number of occupied slots.
func (c *Cache) Len() int {
	return int(c.Occupancy().GetCardinality())
}

// Occupancy returns the indices of occupied slots.
func (c *Cache) Occupancy() *roaring.Bitmap {
	bm := roaring.New()
	v := c.vec.Load()
	if v == nil {
		return bm
	}
	for i := range v.slots {
		if v.slots[i].Load() != nil {
			bm.Add(uint32(i))
		}
	}
	return bm
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Name      string
	Capacity  int
	Occupied  int
	Hits      int64
	Misses    int64
	Inserts   int64
	Evictions int64
}

// Stats returns the current counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Name:      c.cfg.Name,
		Capacity:  c.Capacity(),
		Occupied:  c.Len(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Inserts:   c.inserts.Load(),
		Evictions: c.evictions.Load(),
	}
}
