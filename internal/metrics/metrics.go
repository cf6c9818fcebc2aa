// Package metrics exposes the worker's prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// JobsProcessed counts jobs that reached a terminal state, by status.
	JobsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billdates_jobs_processed_total",
		Help: "Jobs driven to a terminal state, labeled done or error.",
	}, []string{"status"})

	// GenerationRuns counts bill-generation engine runs, by outcome.
	GenerationRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billdates_generation_runs_total",
		Help: "Bill-date generation runs, labeled ok or error.",
	}, []string{"outcome"})

	// DatesInserted counts occurrence rows persisted by generation runs.
	DatesInserted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billdates_dates_inserted_total",
		Help: "Bill-date occurrence rows inserted.",
	})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
