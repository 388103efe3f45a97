package analysis

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for callsTotal.
const (
	outcomeOK       = "ok"
	outcomeRepaired = "repaired"
	outcomeFallback = "fallback"
	outcomeFailed   = "failed"
)

var (
	callsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadaudit_analysis_calls_total",
			Help: "Structured analysis calls by call-site and outcome",
		},
		[]string{"call", "outcome"},
	)

	callDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leadaudit_analysis_duration_seconds",
			Help:    "Duration of structured analysis calls in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"call"},
	)
)
