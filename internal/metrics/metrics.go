// Package metrics exposes prometheus collectors for projections, solves and
// API requests on a private registry.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/webxl/inflation-planner/internal/domain"
)

const namespace = "planner"

// Outcome label values.
const (
	OutcomeOK        = "ok"
	OutcomeInvalid   = "invalid"
	OutcomeConverged = "converged"
	OutcomeClosest   = "closest"
	OutcomeCanceled  = "canceled"
	OutcomeError     = "error"
)

// Recorder owns the registry and every collector on it.
type Recorder struct {
	registry *prometheus.Registry

	projections        *prometheus.CounterVec
	projectionDuration prometheus.Histogram
	solves             *prometheus.CounterVec
	solveIterations    *prometheus.HistogramVec
	solveDuration      *prometheus.HistogramVec
	requests           *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
}

// New registers all collectors on a fresh registry, plus the Go runtime
// and process collectors.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		projections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "projections_total",
			Help:      "Projections run, by outcome.",
		}, []string{"outcome"}),
		projectionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "projection_duration_seconds",
			Help:      "Wall time of one projection.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}),
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solves_total",
			Help:      "Shortfall solves, by target and outcome.",
		}, []string{"target", "outcome"}),
		solveIterations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_iterations",
			Help:      "Bisection iterations per solve.",
			Buckets:   []float64{5, 10, 20, 30, 40, 50, 75, 100, 250, 500},
		}, []string{"target"}),
		solveDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_duration_seconds",
			Help:      "Wall time of one shortfall solve.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"target"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "API requests, by path and status code.",
		}, []string{"path", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}),
		r.projections,
		r.projectionDuration,
		r.solves,
		r.solveIterations,
		r.solveDuration,
		r.requests,
		r.requestDuration,
	)
	return r
}

// Registry exposes the underlying registry for tests and custom handlers.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ObserveProjection counts one projection and its duration.
func (r *Recorder) ObserveProjection(d time.Duration, err error) {
	if err != nil {
		r.projections.WithLabelValues(OutcomeInvalid).Inc()
		return
	}
	r.projections.WithLabelValues(OutcomeOK).Inc()
	r.projectionDuration.Observe(d.Seconds())
}

// ObserveSolve counts one solve. adj may be nil when err is set.
func (r *Recorder) ObserveSolve(target domain.AdjustmentTarget, adj *domain.Adjustment, d time.Duration, err error) {
	label := string(target)
	r.solves.WithLabelValues(label, solveOutcome(adj, err)).Inc()
	r.solveDuration.WithLabelValues(label).Observe(d.Seconds())
	if adj != nil {
		r.solveIterations.WithLabelValues(label).Observe(float64(adj.Iterations))
	}
}

func solveOutcome(adj *domain.Adjustment, err error) string {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	case err != nil:
		return OutcomeError
	case adj != nil && adj.Converged:
		return OutcomeConverged
	default:
		return OutcomeClosest
	}
}

// ObserveRequest counts one API request.
func (r *Recorder) ObserveRequest(path string, status int, d time.Duration) {
	r.requests.WithLabelValues(path, strconv.Itoa(status)).Inc()
	r.requestDuration.WithLabelValues(path).Observe(d.Seconds())
}
