package services

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// runnerMetrics holds the counters the workflow runner publishes through the
// global OpenTelemetry meter provider.
type runnerMetrics struct {
	runsStarted   metric.Int64Counter
	runsCompleted metric.Int64Counter
	runsFailed    metric.Int64Counter
	agentsSkipped metric.Int64Counter
}

func newRunnerMetrics() *runnerMetrics {
	meter := otel.Meter("agentflow/services")

	started, _ := meter.Int64Counter("workflow_runs_started_total",
		metric.WithDescription("Workflow runs started"))
	completed, _ := meter.Int64Counter("workflow_runs_completed_total",
		metric.WithDescription("Workflow runs that reached completed"))
	failed, _ := meter.Int64Counter("workflow_runs_failed_total",
		metric.WithDescription("Workflow runs that reached failed"))
	skipped, _ := meter.Int64Counter("workflow_agents_skipped_total",
		metric.WithDescription("Agent nodes skipped by lifecycle gating"))

	return &runnerMetrics{
		runsStarted:   started,
		runsCompleted: completed,
		runsFailed:    failed,
		agentsSkipped: skipped,
	}
}
