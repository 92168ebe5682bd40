package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/perdasilva/dutyroster/pkg/solver"
)

// Recorder counts solve attempts and relaxation outcomes in its own registry.
type Recorder struct {
	registry        *prometheus.Registry
	attempts        *prometheus.CounterVec
	attemptDuration prometheus.Histogram
	outcomes        *prometheus.CounterVec
	relaxed         prometheus.Gauge
}

func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()

	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_solve_attempts_total",
		Help: "Total number of solve attempts by status",
	}, []string{"status"})

	attemptDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "roster_solve_duration_seconds",
		Help:    "Duration of solve attempts in seconds",
		Buckets: prometheus.DefBuckets,
	})

	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_runs_total",
		Help: "Total number of relaxation runs by final phase",
	}, []string{"phase"})

	relaxed := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "roster_relaxed_employees",
		Help: "Number of carry-over exclusions relaxed in the last run",
	})

	registry.MustRegister(attempts, attemptDuration, outcomes, relaxed)

	return &Recorder{
		registry:        registry,
		attempts:        attempts,
		attemptDuration: attemptDuration,
		outcomes:        outcomes,
		relaxed:         relaxed,
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) ObserveAttempt(status solver.Status, duration time.Duration) {
	if r == nil {
		return
	}
	r.attempts.WithLabelValues(status.String()).Inc()
	r.attemptDuration.Observe(duration.Seconds())
}

func (r *Recorder) ObserveOutcome(phase string, relaxed int) {
	if r == nil {
		return
	}
	r.outcomes.WithLabelValues(phase).Inc()
	r.relaxed.Set(float64(relaxed))
}

// WriteFile writes the registry in the text exposition format, suitable
// for the node exporter textfile collector.
func (r *Recorder) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
