// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the coffee machine service.
package observability

import "github.com/prometheus/client_golang/prometheus"

// HTTPBuckets defines histogram buckets suited for local request
// handling, from 1ms to 5s. The upper buckets only matter when the
// relational backend is slow.
var HTTPBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

var (
	// RequestsTotal counts all HTTP requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kaffee_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kaffee_request_duration_seconds",
			Help:    "Request duration",
			Buckets: HTTPBuckets,
		},
		[]string{"method"},
	)

	// BrewsTotal counts brew attempts by recipe and outcome.
	BrewsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kaffee_brews_total",
			Help: "Brew attempts",
		},
		[]string{"recipe", "status"},
	)

	// FillsTotal counts fill attempts by container and outcome.
	FillsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kaffee_fills_total",
			Help: "Fill attempts",
		},
		[]string{"container", "status"},
	)

	// ContainerLevel tracks the current level of each container.
	ContainerLevel = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kaffee_container_level",
			Help: "Current container level",
		},
		[]string{"container"},
	)

	// StorageOperationsTotal counts storage loads and saves by outcome.
	StorageOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kaffee_storage_operations_total",
			Help: "Storage operations",
		},
		[]string{"operation", "status"},
	)

	// StorageLatency records storage operation latency in seconds.
	StorageLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kaffee_storage_latency_seconds",
			Help:    "Storage latency",
			Buckets: HTTPBuckets,
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		BrewsTotal,
		FillsTotal,
		ContainerLevel,
		StorageOperationsTotal,
		StorageLatency,
	)
}

// SetContainerLevels updates the container gauges from a snapshot's
// water and coffee levels.
func SetContainerLevels(waterLevel, coffeeLevel int) {
	ContainerLevel.WithLabelValues("water").Set(float64(waterLevel))
	ContainerLevel.WithLabelValues("coffee").Set(float64(coffeeLevel))
}
