package observability

import (
	"context"

	"github.com/aretw0/travspan/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors fed by engine hooks.
type Metrics struct {
	RunsStarted  *prometheus.CounterVec
	RunsFinished *prometheus.CounterVec
	Steps        *prometheus.CounterVec
	FrontierSize *prometheus.GaugeVec
	RunSteps     *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered, which is convenient in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RunsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "travspan",
			Name:      "runs_started_total",
			Help:      "Number of runs started, by algorithm and stopping mode.",
		}, []string{"algorithm", "mode"}),
		RunsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "travspan",
			Name:      "runs_finished_total",
			Help:      "Number of runs that reached DONE, by algorithm and termination reason.",
		}, []string{"algorithm", "reason"}),
		Steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "travspan",
			Name:      "steps_total",
			Help:      "Number of executed micro-steps, by algorithm and step name.",
		}, []string{"algorithm", "step"}),
		FrontierSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "travspan",
			Name:      "frontier_size",
			Help:      "Frontier length after the most recent step.",
		}, []string{"algorithm"}),
		RunSteps: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "travspan",
			Name:      "run_steps",
			Help:      "Steps needed to reach DONE.",
			Buckets:   prometheus.ExponentialBuckets(8, 2, 12),
		}, []string{"algorithm"}),
	}
	if reg != nil {
		reg.MustRegister(m.RunsStarted, m.RunsFinished, m.Steps, m.FrontierSize, m.RunSteps)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStart: func(_ context.Context, e *domain.RunEvent) {
			m.RunsStarted.WithLabelValues(string(e.Config.Algorithm), string(e.Config.Mode)).Inc()
		},
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			alg := string(e.Algorithm)
			m.Steps.WithLabelValues(alg, string(e.Step)).Inc()
			m.FrontierSize.WithLabelValues(alg).Set(float64(e.FrontierSize))
		},
		OnFinish: func(_ context.Context, e *domain.RunEvent) {
			alg := string(e.Config.Algorithm)
			m.RunsFinished.WithLabelValues(alg, reasonLabel(e.Reason)).Inc()
			m.RunSteps.WithLabelValues(alg).Observe(float64(e.Steps))
		},
	}
}

func reasonLabel(r domain.TerminationReason) string {
	if r == domain.ReasonNone {
		return "none"
	}
	return string(r)
}
