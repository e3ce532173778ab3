package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreMutations counts committed store mutations by store and action.
	StoreMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mindfeed_store_mutations_total",
		Help: "Total number of committed store mutations",
	}, []string{"store", "action"})

	// PersistenceWrites counts slot writes by slot and outcome.
	PersistenceWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mindfeed_persistence_writes_total",
		Help: "Total number of persisted slot writes",
	}, []string{"slot", "outcome"})

	// PersistenceLatency records slot load and save latency.
	PersistenceLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mindfeed_persistence_latency_seconds",
		Help:    "Slot load and save latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"slot", "operation"})

	// MigrationRepairs counts persisted entries that were repaired or dropped on load.
	MigrationRepairs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mindfeed_migration_repairs_total",
		Help: "Total number of persisted entries repaired during rehydration",
	}, []string{"slot"})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mindfeed_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DirectoryLatency records simulated directory call latency.
	DirectoryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mindfeed_directory_latency_seconds",
		Help:    "Directory lookup latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "outcome"})

	// SupersededRequests counts directory responses discarded because a newer request was issued.
	SupersededRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mindfeed_superseded_requests_total",
		Help: "Total number of responses dropped by the request sequence guard",
	}, []string{"operation"})

	// StateSubscribers is the gauge of live WebSocket state subscribers.
	StateSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mindfeed_state_subscribers",
		Help: "Number of WebSocket clients subscribed to store changes",
	})
)

// TrackLatency returns a function that records latency when called (e.g. defer).
func TrackLatency(vec *prometheus.HistogramVec, labels ...string) func() {
	start := time.Now()
	return func() {
		vec.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
	}
}
