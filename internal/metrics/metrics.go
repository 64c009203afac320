package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	ActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_requests",
			Help: "Current number of active HTTP requests",
		},
	)

	// Domain Metrics
	DesignSystemActivations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "design_system_activations_total",
			Help: "Successful design system activations",
		},
	)

	NoteMoves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "note_moves_total",
			Help: "Note re-parent attempts by result",
		},
		[]string{"result"},
	)

	FontUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "font_uploads_total",
			Help: "Font uploads by result",
		},
		[]string{"result"},
	)

	ProfilesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "profiles_created_total",
			Help: "Profiles created on first sign-in",
		},
	)
)
