package metrics

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dmitrymomot/uploads/pkg/file"
)

// Config configures the upload metrics.
type Config struct {
	// Namespace is the metrics namespace (default: "uploads").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the upload metrics.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		if registry != nil {
			c.Registry = registry
		}
	}
}

// Observer counts upload activity. It satisfies uploads.Observer.
type Observer struct {
	saved      *prometheus.CounterVec
	savedBytes *prometheus.CounterVec
	rejected   *prometheus.CounterVec
	served     *prometheus.CounterVec
}

// NewObserver registers the upload counters and returns an observer
// updating them. Registering twice with the same registry panics.
func NewObserver(opts ...Option) *Observer {
	cfg := Config{
		Namespace: "uploads",
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	factory := promauto.With(cfg.Registry)
	counter := func(name, help string, labels ...string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: cfg.ConstLabels,
		}, labels)
	}

	return &Observer{
		saved:      counter("saved_total", "Total number of files saved", "set"),
		savedBytes: counter("saved_bytes_total", "Total number of bytes saved", "set"),
		rejected:   counter("rejected_total", "Total number of files rejected by the extension policy", "set", "extension"),
		served:     counter("served_total", "Total number of requests answered by the serving endpoint", "set", "status"),
	}
}

// Saved counts a stored file and its size.
func (o *Observer) Saved(_ context.Context, set string, f *file.File) {
	o.saved.WithLabelValues(set).Inc()
	if f != nil && f.Size > 0 {
		o.savedBytes.WithLabelValues(set).Add(float64(f.Size))
	}
}

// Rejected counts a refused file. Files without extension are labelled "none".
func (o *Observer) Rejected(_ context.Context, set, ext string) {
	if ext == "" {
		ext = "none"
	}
	o.rejected.WithLabelValues(set, ext).Inc()
}

// Served counts an endpoint response. Unknown sets are labelled "unknown".
func (o *Observer) Served(_ context.Context, set string, status int) {
	if set == "" {
		set = "unknown"
	}
	o.served.WithLabelValues(set, strconv.Itoa(status)).Inc()
}
