package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SlotMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timetable_slot_mutations_total",
			Help: "Total number of slot create/edit/delete operations",
		},
		[]string{"operation"},
	)

	SwapsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timetable_swaps_total",
			Help: "Total number of slot exchange operations",
		},
		[]string{"scope"},
	)

	YearTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timetable_year_transitions_total",
			Help: "Total number of year transition batch runs",
		},
		[]string{"direction"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
