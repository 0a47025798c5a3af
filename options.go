package arrayrt

import (
	"log/slog"

	"github.com/hupe1980/arrayrt/hashcache"
	"github.com/hupe1980/arrayrt/widetag"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	expander         widetag.Expander
	registry         *hashcache.Registry
}

// Option configures New.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &arrayrt.BasicMetricsCollector{}
//	rt := arrayrt.New(arrayrt.WithMetricsCollector(metrics))
//	// ... use rt ...
//	stats := metrics.GetStats()
//	fmt.Printf("Adjusts: %d, invalidated: %d\n", stats.AdjustCount, stats.Invalidations)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithExpander sets the type expander consulted for specifiers the resolver
// does not know, such as user type aliases defined in a widetag.MapExpander.
// Pass nil for widetag.Builtin.
func WithExpander(e widetag.Expander) Option {
	return func(o *options) {
		o.expander = e
	}
}

// WithRegistry sets the cache registry. The default is a private registry.
func WithRegistry(r *hashcache.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.registry == nil {
		o.registry = hashcache.NewRegistry()
	}
	return o
}
