package floor

import (
	"log/slog"

	"github.com/gogpu/floor/layer"
)

// Option configures a Renderer during creation.
//
// Example:
//
//	r := floor.New(gpu, atlas,
//	    floor.WithDynamic(true),
//	    floor.WithMetrics(metrics),
//	)
type Option func(*options)

// options holds optional configuration for Renderer creation.
type options struct {
	dynamic  bool
	metrics  *Metrics
	registry *layer.Registry
	logger   *slog.Logger
}

// defaultOptions returns the default renderer options.
func defaultOptions() options {
	return options{
		registry: nil, // layer.Default() if nil
	}
}

// WithDynamic enables lazy chunk building. Chunks are built the first time
// they come into view instead of all at once on world load, trading small
// frame spikes for a faster load.
func WithDynamic(dynamic bool) Option {
	return func(o *options) {
		o.dynamic = dynamic
	}
}

// WithMetrics records cache and draw statistics into m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithRegistry sets the cache layer registry. The default is layer.Default().
func WithRegistry(r *layer.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithLogger sets a logger for this renderer only, overriding Logger().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
