package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"agentflow/internal/repository"
	"agentflow/pkg/models"
)

// maxWorkflowAgents is the hard upper bound on nodes per workflow. A larger
// workflow fails outright before any agent executes.
const maxWorkflowAgents = 50

// Logger defines the logging interface compatible with the application logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// WorkflowRunner executes workflow runs: it resolves each agent node,
// applies lifecycle gating, invokes eligible agents against the LLM one at a
// time, and persists a terminal run record. Agents always execute strictly
// sequentially regardless of the workflow's stored execution mode.
type WorkflowRunner struct {
	repo    repository.Repository
	llm     LLMClient
	logger  Logger
	metrics *runnerMetrics
	now     func() time.Time
}

// NewWorkflowRunner creates a new WorkflowRunner. llm may be nil when no
// provider is configured; agents are then skipped with an error log entry
// instead of failing the run.
func NewWorkflowRunner(repo repository.Repository, llm LLMClient, logger Logger) *WorkflowRunner {
	return &WorkflowRunner{
		repo:    repo,
		llm:     llm,
		logger:  logger,
		metrics: newRunnerMetrics(),
		now:     time.Now,
	}
}

// RunWorkflow executes one run of the given workflow. It returns a
// structured result in every case where a run record was created, including
// failed runs; an error is returned only when the invocation was rejected
// before any run state existed (unknown workflow, create failure).
func (r *WorkflowRunner) RunWorkflow(ctx context.Context, workflowID, workspaceID string, trigger models.TriggerType, inputData map[string]any) (*models.RunResult, error) {
	workflow, err := r.repo.GetWorkflow(ctx, workflowID, workspaceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load workflow %s: %w", workflowID, err)
	}

	run := &models.WorkflowRun{
		ID:          uuid.New().String(),
		WorkflowID:  workflow.ID,
		WorkspaceID: workspaceID,
		TriggerType: trigger,
		Status:      models.RunStatusPending,
		InputData:   inputData,
		OutputData:  map[string]models.AgentOutput{},
	}

	// pending -> running happens before any agent executes; the record is
	// written once here and once more at the terminal transition.
	run.Status = models.RunStatusRunning
	run.StartedAt = r.now()
	if err := r.repo.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create run record: %w", err)
	}
	r.metrics.runsStarted.Add(ctx, 1)
	r.logger.Info("workflow run started: run=%s workflow=%s trigger=%s", run.ID, workflow.ID, trigger)

	logs := newLogBuffer()

	if len(workflow.Nodes) > maxWorkflowAgents {
		return r.finishRun(ctx, run, logs, fmt.Errorf("Maximum %d agents per workflow", maxWorkflowAgents)), nil
	}

	runErr := r.executeNodes(ctx, run, workflow, logs)
	return r.finishRun(ctx, run, logs, runErr), nil
}

// executeNodes walks the node list in order. Per-node problems (missing
// agent, ineligible agent, provider failure) are recorded in the log and the
// loop continues; only infrastructure errors and panics become run-fatal.
func (r *WorkflowRunner) executeNodes(ctx context.Context, run *models.WorkflowRun, workflow *models.Workflow, logs *logBuffer) (runErr error) {
	defer func() {
		if p := recover(); p != nil {
			runErr = fmt.Errorf("workflow execution panicked: %v", p)
		}
	}()

	if len(workflow.Nodes) == 0 {
		logs.Append(models.LogEntry{
			Timestamp: r.now(),
			Type:      models.LogTypeInfo,
			Message:   "No agents configured in workflow",
		})
		return nil
	}

	inputPrompt, _ := run.InputData["prompt"].(string)

	for _, node := range workflow.Nodes {
		logs.Append(models.LogEntry{
			Timestamp: r.now(),
			Type:      models.LogTypeStart,
			Agent:     node.Label,
			Message:   "Executing agent",
		})

		agent, err := r.repo.GetAgent(ctx, node.AgentID, run.WorkspaceID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				logs.Append(models.LogEntry{
					Timestamp: r.now(),
					Type:      models.LogTypeWarning,
					Agent:     nodeLabel(node, nil),
					Message:   "Agent not found, skipping",
				})
				continue
			}
			return fmt.Errorf("failed to load agent %s: %w", node.AgentID, err)
		}

		if el := LifecycleOf(agent).Evaluate(r.now()); !el.Eligible {
			logs.Append(models.LogEntry{
				Timestamp: r.now(),
				Type:      models.LogTypeSkipped,
				Agent:     nodeLabel(node, agent),
				Message:   "Agent skipped: " + el.Reason,
			})
			r.metrics.agentsSkipped.Add(ctx, 1)
			continue
		}

		res := r.invokeAgent(ctx, agent, node, inputPrompt)
		logs.Append(res.logs...)
		if res.output != nil {
			run.OutputData[node.AgentID] = *res.output
		}
	}

	return nil
}

// finishRun moves the run to its terminal state exactly once, persists it,
// and builds the caller-facing result. A persistence failure during the
// terminal write downgrades a completed run to failed and triggers one more
// update attempt so the record is never left in running.
func (r *WorkflowRunner) finishRun(ctx context.Context, run *models.WorkflowRun, logs *logBuffer, runErr error) *models.RunResult {
	completedAt := r.now()
	run.CompletedAt = &completedAt
	run.ExecutionLogs = logs.Entries()

	if runErr != nil {
		run.Status = models.RunStatusFailed
		run.ErrorMessage = runErr.Error()
	} else {
		run.Status = models.RunStatusCompleted
	}

	if err := r.repo.UpdateRun(ctx, run); err != nil {
		r.logger.Error("failed to persist terminal run state: run=%s err=%v", run.ID, err)
		if run.Status != models.RunStatusFailed {
			run.Status = models.RunStatusFailed
			run.ErrorMessage = fmt.Sprintf("failed to persist run results: %v", err)
			if err := r.repo.UpdateRun(ctx, run); err != nil {
				r.logger.Error("failed to persist failed run state: run=%s err=%v", run.ID, err)
			}
		}
	}

	if run.Status == models.RunStatusCompleted {
		r.metrics.runsCompleted.Add(ctx, 1)
	} else {
		r.metrics.runsFailed.Add(ctx, 1)
	}
	r.logger.Info("workflow run finished: run=%s status=%s outputs=%d logs=%d",
		run.ID, run.Status, len(run.OutputData), len(run.ExecutionLogs))

	return &models.RunResult{
		RunID:         run.ID,
		Status:        run.Status,
		ExecutionLogs: run.ExecutionLogs,
		OutputData:    run.OutputData,
	}
}
