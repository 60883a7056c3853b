package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus collectors shared across the process. Registered on the
// default registry so the server can expose them with promhttp.Handler.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nflpulse",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "nflpulse",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	PipelineRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nflpulse",
		Subsystem: "pipeline",
		Name:      "runs_total",
		Help:      "Finished pipeline runs by final status.",
	}, []string{"status"})

	PipelineStepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "nflpulse",
		Subsystem: "pipeline",
		Name:      "step_duration_seconds",
		Help:      "Execution time of each pipeline step.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300},
	}, []string{"step"})

	FetchRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nflpulse",
		Subsystem: "fetch",
		Name:      "requests_total",
		Help:      "Upstream API requests by table and outcome.",
	}, []string{"table", "outcome"})
)
