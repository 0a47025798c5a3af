package arrayrt

import (
	"sync"
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordAdjust is called after each Adjust. err is nil if successful.
	RecordAdjust(duration time.Duration, err error)

	// RecordInvalidation is called when an adjustment invalidates count
	// displaced arrays.
	RecordInvalidation(count int)

	// RecordCacheLookup is called for every lookup in a runtime cache.
	RecordCacheLookup(name string, hit bool)

	// RecordCacheEviction is called when a runtime cache evicts a line.
	RecordCacheEviction(name string)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAdjust(time.Duration, error) {}
func (NoopMetricsCollector) RecordInvalidation(int)            {}
func (NoopMetricsCollector) RecordCacheLookup(string, bool)    {}
func (NoopMetricsCollector) RecordCacheEviction(string)        {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	AdjustCount      atomic.Int64
	AdjustErrors     atomic.Int64
	AdjustTotalNanos atomic.Int64
	Invalidations    atomic.Int64
	CacheHits        atomic.Int64
	CacheMisses      atomic.Int64
	CacheEvictions   atomic.Int64

	mu      sync.Mutex
	byCache map[string]*CacheCounters
}

// CacheCounters are per-cache counters kept by BasicMetricsCollector.
type CacheCounters struct {
	Hits      int64
	Misses    int64
	Evictions int64
}

// RecordAdjust implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAdjust(duration time.Duration, err error) {
	b.AdjustCount.Add(1)
	b.AdjustTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.AdjustErrors.Add(1)
	}
}

// RecordInvalidation implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInvalidation(count int) {
	b.Invalidations.Add(int64(count))
}

// RecordCacheLookup implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCacheLookup(name string, hit bool) {
	if hit {
		b.CacheHits.Add(1)
	} else {
		b.CacheMisses.Add(1)
	}
	b.update(name, func(c *CacheCounters) {
		if hit {
			c.Hits++
		} else {
			c.Misses++
		}
	})
}

// RecordCacheEviction implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCacheEviction(name string) {
	b.CacheEvictions.Add(1)
	b.update(name, func(c *CacheCounters) { c.Evictions++ })
}

func (b *BasicMetricsCollector) update(name string, fn func(*CacheCounters)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.byCache == nil {
		b.byCache = make(map[string]*CacheCounters)
	}
	c, ok := b.byCache[name]
	if !ok {
		c = &CacheCounters{}
		b.byCache[name] = c
	}
	fn(c)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	s := BasicMetricsStats{
		AdjustCount:    b.AdjustCount.Load(),
		AdjustErrors:   b.AdjustErrors.Load(),
		Invalidations:  b.Invalidations.Load(),
		CacheHits:      b.CacheHits.Load(),
		CacheMisses:    b.CacheMisses.Load(),
		CacheEvictions: b.CacheEvictions.Load(),
	}
	if s.AdjustCount > 0 {
		s.AdjustAvgNanos = b.AdjustTotalNanos.Load() / s.AdjustCount
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.byCache) > 0 {
		s.Caches = make(map[string]CacheCounters, len(b.byCache))
		for name, c := range b.byCache {
			s.Caches[name] = *c
		}
	}
	return s
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	AdjustCount    int64
	AdjustErrors   int64
	AdjustAvgNanos int64
	Invalidations  int64
	CacheHits      int64
	CacheMisses    int64
	CacheEvictions int64
	Caches         map[string]CacheCounters
}
