// Package metrics defines the Prometheus collectors for the orchestrator.
// All collectors register on the default registry via promauto; Handler
// exposes them for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SchedulerTicks counts completed scheduler ticks per worker.
	SchedulerTicks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "switchyard",
		Subsystem: "scheduler",
		Name:      "ticks_total",
		Help:      "Completed scheduler ticks, labeled by worker.",
	}, []string{"worker"})

	// SchedulerTickErrors counts ticks that reported an error per worker.
	SchedulerTickErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "switchyard",
		Subsystem: "scheduler",
		Name:      "tick_errors_total",
		Help:      "Scheduler ticks that reported an error, labeled by worker.",
	}, []string{"worker"})

	// NodeTransitions counts lifecycle transitions by from/to state.
	NodeTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "switchyard",
		Name:      "node_transitions_total",
		Help:      "Node lifecycle transitions, labeled by from and to state.",
	}, []string{"from", "to"})

	// TelemetrySamples counts generated telemetry samples.
	TelemetrySamples = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "switchyard",
		Name:      "telemetry_samples_total",
		Help:      "Telemetry samples generated and stored.",
	})

	// BottleneckDetections counts bottleneck analyses performed.
	BottleneckDetections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "switchyard",
		Name:      "bottleneck_detections_total",
		Help:      "Bottleneck detection runs.",
	})
)

// Handler returns the scrape handler for the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
