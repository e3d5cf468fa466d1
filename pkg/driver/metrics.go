package driver

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts command exchanges with the module
type Metrics struct {
	Commands    *prometheus.CounterVec   // labels: command, result=ok|error
	Latency     *prometheus.HistogramVec // labels: command
	Transitions *prometheus.CounterVec   // labels: state
}

// NewMetrics registers and returns driver metrics
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hc12_commands_total",
			Help: "AT command exchanges by command and result.",
		}, []string{"command", "result"}),
		Latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hc12_command_duration_seconds",
			Help:    "Time from writing a command to receiving its reply.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"command"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hc12_state_transitions_total",
			Help: "Driver state transitions by target state.",
		}, []string{"state"}),
	}
	reg.MustRegister(m.Commands, m.Latency, m.Transitions)
	return m
}

func (m *Metrics) observe(command string, started time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Commands.WithLabelValues(command, result).Inc()
	m.Latency.WithLabelValues(command).Observe(time.Since(started).Seconds())
}

func (m *Metrics) transition(state State) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(state.String()).Inc()
}
