// Package metrics exports store activity as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jpalmerr/statebox"
)

const (
	resultApplied  = "applied"
	resultSkipped  = "skipped"
	resultFailed   = "failed"
	resultQueued   = "queued"
	resultRejected = "rejected"
)

// Config configures the Prometheus observer.
type Config struct {
	// Namespace is the metrics namespace (default: "statebox").
	Namespace string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus observer.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
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
		c.Registry = registry
	}
}

// Observer is a [statebox.Observer] that records mutations and
// notifications.
//
// Metrics collected:
//   - statebox_mutations_total: Counter of mutations by store and result
//     (applied, skipped, failed, queued, rejected)
//   - statebox_notifications_total: Counter of subscriber callbacks by store
type Observer struct {
	mutations     *prometheus.CounterVec
	notifications *prometheus.CounterVec
}

var _ statebox.Observer = (*Observer)(nil)

// New creates an [Observer] and registers its metrics.
//
// Registration panics if the metrics are already registered with the same
// registry, as promauto does.
func New(opts ...Option) *Observer {
	cfg := Config{
		Namespace: "statebox",
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	factory := promauto.With(cfg.Registry)

	return &Observer{
		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "mutations_total",
			Help:        "Total number of store mutations by outcome",
			ConstLabels: cfg.ConstLabels,
		}, []string{"store", "result"}),

		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "notifications_total",
			Help:        "Total number of subscriber callbacks invoked",
			ConstLabels: cfg.ConstLabels,
		}, []string{"store"}),
	}
}

// MutationApplied implements [statebox.Observer].
func (o *Observer) MutationApplied(store string) {
	o.mutations.WithLabelValues(store, resultApplied).Inc()
}

// MutationSkipped implements [statebox.Observer].
func (o *Observer) MutationSkipped(store string) {
	o.mutations.WithLabelValues(store, resultSkipped).Inc()
}

// MutationFailed implements [statebox.Observer].
func (o *Observer) MutationFailed(store string) {
	o.mutations.WithLabelValues(store, resultFailed).Inc()
}

// MutationQueued implements [statebox.Observer].
func (o *Observer) MutationQueued(store string) {
	o.mutations.WithLabelValues(store, resultQueued).Inc()
}

// MutationRejected implements [statebox.Observer].
func (o *Observer) MutationRejected(store string) {
	o.mutations.WithLabelValues(store, resultRejected).Inc()
}

// Notified implements [statebox.Observer].
func (o *Observer) Notified(store string) {
	o.notifications.WithLabelValues(store).Inc()
}
