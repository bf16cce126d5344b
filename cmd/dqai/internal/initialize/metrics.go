package initialize

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

// Metrics records provisioning step outcomes
type Metrics struct {
	stepTotal    *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec
}

// NewMetrics creates the step collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		stepTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dqai",
				Subsystem: "startup",
				Name:      "step_total",
				Help:      "Total number of provisioning step executions by result",
			},
			[]string{"step", "result"},
		),
		stepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "dqai",
				Subsystem: "startup",
				Name:      "step_duration_seconds",
				Help:      "Duration of provisioning steps in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
			},
			[]string{"step"},
		),
	}

	for _, c := range []prometheus.Collector{m.stepTotal, m.stepDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(r StepResult) {
	if m == nil {
		return
	}
	result := resultSuccess
	if r.Err != nil {
		result = resultFailure
	}
	m.stepTotal.WithLabelValues(r.Name, result).Inc()
	m.stepDuration.WithLabelValues(r.Name).Observe(r.Duration.Seconds())
}
