package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WorkflowMetrics records outcomes of workflow hook executions.
type WorkflowMetrics struct {
	hookDuration *prometheus.HistogramVec
	hookOutcome  *prometheus.CounterVec
	invitations  *prometheus.CounterVec
	outboxQueued *prometheus.CounterVec
}

// NewWorkflowMetrics registers the workflow metrics on the provided registerer.
func NewWorkflowMetrics(reg prometheus.Registerer) *WorkflowMetrics {
	if reg == nil {
		return &WorkflowMetrics{}
	}
	hookDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "workflow_hook_duration_seconds",
		Help:    "Duration of workflow hook executions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"hook"})
	hookOutcome := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "workflow_hook_outcomes",
		Help: "Workflow hook executions by strategy, hook and outcome.",
	}, []string{"strategy", "hook", "outcome"})
	invitations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "workflow_invitations_issued",
		Help: "Questionnaire invitations issued by form type.",
	}, []string{"form_type"})
	outboxQueued := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "workflow_outbox_queued",
		Help: "Transaction outbox rows queued by transaction type.",
	}, []string{"type"})
	reg.MustRegister(hookDuration, hookOutcome, invitations, outboxQueued)
	return &WorkflowMetrics{
		hookDuration: hookDuration,
		hookOutcome:  hookOutcome,
		invitations:  invitations,
		outboxQueued: outboxQueued,
	}
}

// ObserveHookDuration records how long the named hook took.
func (m *WorkflowMetrics) ObserveHookDuration(hook string, duration time.Duration) {
	if m == nil || m.hookDuration == nil {
		return
	}
	m.hookDuration.WithLabelValues(normalizeLabel(hook)).Observe(duration.Seconds())
}

// IncHookOutcome counts one hook execution result.
func (m *WorkflowMetrics) IncHookOutcome(strategy, hook, outcome string) {
	if m == nil || m.hookOutcome == nil {
		return
	}
	m.hookOutcome.WithLabelValues(normalizeLabel(strategy), normalizeLabel(hook), normalizeLabel(outcome)).Inc()
}

// IncInvitation counts one issued invitation.
func (m *WorkflowMetrics) IncInvitation(formType string) {
	if m == nil || m.invitations == nil {
		return
	}
	m.invitations.WithLabelValues(normalizeLabel(formType)).Inc()
}

// IncOutboxQueued counts one queued outbox transaction.
func (m *WorkflowMetrics) IncOutboxQueued(txType string) {
	if m == nil || m.outboxQueued == nil {
		return
	}
	m.outboxQueued.WithLabelValues(normalizeLabel(txType)).Inc()
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "unknown"
	}
	return value
}
