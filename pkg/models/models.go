// Package models defines the domain models for the agent workflow service
package models

import (
	"time"
)

// TriggerType represents what initiated a workflow run
type TriggerType string

const (
	TriggerTypeManual    TriggerType = "manual"
	TriggerTypeChat      TriggerType = "chat"
	TriggerTypeScheduled TriggerType = "scheduled"
)

// RunStatus represents the lifecycle state of a workflow run
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// LogType classifies a single execution log entry
type LogType string

const (
	LogTypeInfo     LogType = "info"
	LogTypeStart    LogType = "start"
	LogTypeComplete LogType = "complete"
	LogTypeSkipped  LogType = "skipped"
	LogTypeWarning  LogType = "warning"
	LogTypeError    LogType = "error"
)

// AgentProfile represents a configured agent persona that can be invoked
// against an LLM. The lifecycle fields (IsActive, ActiveDays,
// ActiveFrom/ActiveUntil) gate whether the agent executes inside a run.
type AgentProfile struct {
	ID              string        `json:"id"`
	WorkspaceID     string        `json:"workspace_id"`
	Name            string        `json:"name"`
	Persona         string        `json:"persona"`
	RoleDescription string        `json:"role_description,omitempty"`
	Model           string        `json:"model,omitempty"`
	IsActive        bool          `json:"is_active"`
	ActiveDays      []int         `json:"active_days,omitempty"` // 0=Sunday..6=Saturday; empty means every day
	ActiveFrom      string        `json:"active_from,omitempty"` // HH:MM:SS, UTC
	ActiveUntil     string        `json:"active_until,omitempty"`
	ResponseRules   ResponseRules `json:"response_rules,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// LogEntry is one line in a run's execution narrative. Entries are
// append-only and keep execution order.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Type      LogType   `json:"type"`
	Agent     string    `json:"agent,omitempty"`
	Message   string    `json:"message"`
	Preview   string    `json:"preview,omitempty"`
}

// AgentOutput holds the response a single agent produced during a run.
type AgentOutput struct {
	Agent    string `json:"agent"`
	Response string `json:"response"`
}

// WorkflowRun represents one execution attempt of a workflow.
type WorkflowRun struct {
	ID            string                 `json:"id"`
	WorkflowID    string                 `json:"workflow_id"`
	WorkspaceID   string                 `json:"workspace_id"`
	TriggerType   TriggerType            `json:"trigger_type"`
	Status        RunStatus              `json:"status"`
	StartedAt     time.Time              `json:"started_at"`
	CompletedAt   *time.Time             `json:"completed_at,omitempty"`
	InputData     map[string]any         `json:"input_data,omitempty"`
	ExecutionLogs []LogEntry             `json:"execution_logs"`
	OutputData    map[string]AgentOutput `json:"output_data"`
	ErrorMessage  string                 `json:"error_message,omitempty"`
}

// RunResult is what a run invocation returns to its caller. When OutputData
// is empty, ExecutionLogs are the canonical narrative of what happened.
type RunResult struct {
	RunID         string                 `json:"run_id"`
	Status        RunStatus              `json:"status"`
	ExecutionLogs []LogEntry             `json:"execution_logs"`
	OutputData    map[string]AgentOutput `json:"output_data"`
}

// HealthStatus represents service health
type HealthStatus struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ProblemDetails represents RFC 7807 Problem Details
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}
