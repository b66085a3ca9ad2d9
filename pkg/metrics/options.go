package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Manager.
type Option func(*Manager)

// WithNamespace overrides the "nrr" metric prefix.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithSubsystem overrides the "standings" metric subsystem.
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithComputeBuckets sets the millisecond buckets for load and standings
// computation latency. Computations over a season are sub-millisecond to a few
// hundred milliseconds; the defaults cover that range.
func WithComputeBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.computeBuckets = buckets
		}
	}
}

// WithHTTPBuckets sets the millisecond buckets for HTTP request duration.
func WithHTTPBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.httpBuckets = buckets
		}
	}
}

// WithConstLabels attaches constant labels, such as a league or season, to
// every metric.
func WithConstLabels(labels map[string]string) Option {
	return func(m *Manager) {
		if labels != nil {
			m.constLabels = labels
		}
	}
}

// WithRegisterer registers metrics somewhere other than the default registerer.
func WithRegisterer(registry prometheus.Registerer) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}
