package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/agbru/montyhall/internal/montyhall"
)

// RunMetrics records simulation progress and outcomes. It satisfies
// orchestration.MetricsRecorder and is safe for concurrent use.
//
// Exported series:
//   - montyhall_trials_total: trials evaluated, updated in worker batches
//   - montyhall_wins_total{strategy}: wins per strategy for completed runs
//   - montyhall_runs_total{status}: runs by outcome (ok|failed)
//   - montyhall_run_duration_seconds: wall-clock duration of runs
//   - montyhall_active_workers: workers currently evaluating trials
type RunMetrics struct {
	registry      *prometheus.Registry
	trials        prometheus.Counter
	wins          *prometheus.CounterVec
	runs          *prometheus.CounterVec
	runDuration   prometheus.Histogram
	activeWorkers prometheus.Gauge
}

// NewRunMetrics registers the run metrics on reg, or on a fresh registry
// from NewRegistry when reg is nil.
func NewRunMetrics(reg *prometheus.Registry) *RunMetrics {
	if reg == nil {
		reg = NewRegistry()
	}
	factory := promauto.With(reg)
	return &RunMetrics{
		registry: reg,
		trials: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "trials_total",
			Help:      "Total number of trials evaluated",
		}),
		wins: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "wins_total",
			Help:      "Total number of wins by strategy",
		}, []string{"strategy"}),
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "runs_total",
			Help:      "Total number of runs by status",
		}, []string{"status"}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of simulation runs in seconds",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		}),
		activeWorkers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "active_workers",
			Help:      "Number of workers currently evaluating trials",
		}),
	}
}

// Registry returns the registry the metrics are registered on.
func (m *RunMetrics) Registry() *prometheus.Registry { return m.registry }

// WorkerStarted increments the active worker gauge.
func (m *RunMetrics) WorkerStarted() { m.activeWorkers.Inc() }

// WorkerStopped decrements the active worker gauge.
func (m *RunMetrics) WorkerStopped() { m.activeWorkers.Dec() }

// TrialsCompleted adds n evaluated trials.
func (m *RunMetrics) TrialsCompleted(n uint64) { m.trials.Add(float64(n)) }

// RunFinished records the outcome of a run. Wins are only added for runs
// that completed.
func (m *RunMetrics) RunFinished(tally montyhall.Tally, _ uint64, elapsed time.Duration, err error) {
	m.runDuration.Observe(elapsed.Seconds())
	if err != nil {
		m.runs.WithLabelValues("failed").Inc()
		return
	}
	m.runs.WithLabelValues("ok").Inc()
	for _, s := range montyhall.Strategies {
		m.wins.WithLabelValues(s.String()).Add(float64(tally.Wins(s)))
	}
}
