package prometheus

import (
	"strconv"

	"github.com/cardkit/debitcard"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "debitcard"

// Ensure that we satisfy the debitcard.Metrics interface
var _ debitcard.Metrics = &Metrics{}

// Metrics is an object for exposing prometheus metrics
type Metrics struct {
	commandCounter  *prometheus.CounterVec
	resultCounter   *prometheus.CounterVec
	conflictCounter *prometheus.CounterVec
}

// NewMetrics instantiate and return an object of Metrics
func NewMetrics() *Metrics {
	return &Metrics{
		// commandCounter is used to expose the 'command_count' metric
		commandCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "command_count",
				Help:      "counter for number of received card commands",
			},
			[]string{"command"},
		),
		// resultCounter is used to expose the 'command_result_count' metric
		resultCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "command_result_count",
				Help:      "counter for handled card commands partitioned by outcome",
			},
			[]string{"command", "success"},
		),
		// conflictCounter is used to expose the 'version_conflict_count' metric
		conflictCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "version_conflict_count",
				Help:      "counter for saves rejected by the optimistic lock",
			},
			[]string{"command"},
		),
	}
}

// RegisterMetrics registers the collectors with the provided registry
func (m *Metrics) RegisterMetrics(registry *prometheus.Registry) error {
	if err := registry.Register(m.commandCounter); err != nil {
		return err
	}

	if err := registry.Register(m.resultCounter); err != nil {
		return err
	}

	return registry.Register(m.conflictCounter)
}

// ReceivedCommand counts received commands
func (m *Metrics) ReceivedCommand(commandName string) {
	m.commandCounter.With(prometheus.Labels{"command": commandName}).Inc()
}

// FinishCommand counts handled commands partitioned by outcome
func (m *Metrics) FinishCommand(commandName string, success bool) {
	m.resultCounter.With(prometheus.Labels{
		"command": commandName,
		"success": strconv.FormatBool(success),
	}).Inc()
}

// VersionConflict counts saves rejected by the optimistic lock
func (m *Metrics) VersionConflict(commandName string) {
	m.conflictCounter.With(prometheus.Labels{"command": commandName}).Inc()
}
