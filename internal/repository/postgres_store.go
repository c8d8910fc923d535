package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"agentflow/pkg/models"
)

// PostgresStore is a PostgreSQL implementation of the Repository interface.
// Node lists, execution logs, outputs and response rules are stored as JSONB.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// GetWorkspaceByDomain retrieves a workspace by its email domain.
func (s *PostgresStore) GetWorkspaceByDomain(ctx context.Context, domain string) (*models.Workspace, error) {
	var ws models.Workspace
	err := s.db.QueryRow(ctx,
		"SELECT id, name, domain, created_at, updated_at FROM workspaces WHERE domain = $1",
		domain,
	).Scan(&ws.ID, &ws.Name, &ws.Domain, &ws.CreatedAt, &ws.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ws, nil
}

// CreateWorkspace inserts a workspace and fills in its generated ID.
func (s *PostgresStore) CreateWorkspace(ctx context.Context, workspace *models.Workspace) error {
	return s.db.QueryRow(ctx,
		"INSERT INTO workspaces (name, domain) VALUES ($1, $2) RETURNING id, created_at, updated_at",
		workspace.Name, workspace.Domain,
	).Scan(&workspace.ID, &workspace.CreatedAt, &workspace.UpdatedAt)
}

// GetAgent retrieves an agent profile scoped to a workspace.
func (s *PostgresStore) GetAgent(ctx context.Context, id, workspaceID string) (*models.AgentProfile, error) {
	var (
		agent models.AgentProfile
		days  []byte
		rules []byte
	)
	err := s.db.QueryRow(ctx,
		`SELECT id, workspace_id, name, persona, role_description, model, is_active,
		        active_days, active_from, active_until, response_rules, created_at, updated_at
		 FROM agents WHERE id = $1 AND workspace_id = $2`,
		id, workspaceID,
	).Scan(&agent.ID, &agent.WorkspaceID, &agent.Name, &agent.Persona, &agent.RoleDescription,
		&agent.Model, &agent.IsActive, &days, &agent.ActiveFrom, &agent.ActiveUntil,
		&rules, &agent.CreatedAt, &agent.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := unmarshalJSONB(days, &agent.ActiveDays); err != nil {
		return nil, fmt.Errorf("failed to decode active_days for agent %s: %w", id, err)
	}
	if err := unmarshalJSONB(rules, &agent.ResponseRules); err != nil {
		return nil, fmt.Errorf("failed to decode response_rules for agent %s: %w", id, err)
	}
	return &agent, nil
}

// SaveAgent inserts or updates an agent profile.
func (s *PostgresStore) SaveAgent(ctx context.Context, agent *models.AgentProfile) error {
	days, err := json.Marshal(agent.ActiveDays)
	if err != nil {
		return fmt.Errorf("failed to encode active_days: %w", err)
	}
	rules, err := json.Marshal(agent.ResponseRules)
	if err != nil {
		return fmt.Errorf("failed to encode response_rules: %w", err)
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO agents (id, workspace_id, name, persona, role_description, model, is_active,
		                     active_days, active_from, active_until, response_rules)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name, persona = EXCLUDED.persona,
		   role_description = EXCLUDED.role_description, model = EXCLUDED.model,
		   is_active = EXCLUDED.is_active, active_days = EXCLUDED.active_days,
		   active_from = EXCLUDED.active_from, active_until = EXCLUDED.active_until,
		   response_rules = EXCLUDED.response_rules, updated_at = now()`,
		agent.ID, agent.WorkspaceID, agent.Name, agent.Persona, agent.RoleDescription,
		agent.Model, agent.IsActive, days, agent.ActiveFrom, agent.ActiveUntil, rules)
	return err
}

// GetWorkflow retrieves a workflow scoped to a workspace.
func (s *PostgresStore) GetWorkflow(ctx context.Context, id, workspaceID string) (*models.Workflow, error) {
	var (
		wf    models.Workflow
		nodes []byte
	)
	err := s.db.QueryRow(ctx,
		`SELECT id, workspace_id, name, description, nodes, connections, execution_mode, status,
		        created_at, updated_at
		 FROM workflows WHERE id = $1 AND workspace_id = $2`,
		id, workspaceID,
	).Scan(&wf.ID, &wf.WorkspaceID, &wf.Name, &wf.Description, &nodes, &wf.Connections,
		&wf.ExecutionMode, &wf.Status, &wf.CreatedAt, &wf.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := unmarshalJSONB(nodes, &wf.Nodes); err != nil {
		return nil, fmt.Errorf("failed to decode nodes for workflow %s: %w", id, err)
	}
	return &wf, nil
}

// ListWorkflows returns all workflows in a workspace.
func (s *PostgresStore) ListWorkflows(ctx context.Context, workspaceID string) ([]*models.Workflow, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, workspace_id, name, description, nodes, connections, execution_mode, status,
		        created_at, updated_at
		 FROM workflows WHERE workspace_id = $1 ORDER BY created_at`,
		workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workflows []*models.Workflow
	for rows.Next() {
		var (
			wf    models.Workflow
			nodes []byte
		)
		err := rows.Scan(&wf.ID, &wf.WorkspaceID, &wf.Name, &wf.Description, &nodes,
			&wf.Connections, &wf.ExecutionMode, &wf.Status, &wf.CreatedAt, &wf.UpdatedAt)
		if err != nil {
			return nil, err
		}
		if err := unmarshalJSONB(nodes, &wf.Nodes); err != nil {
			return nil, fmt.Errorf("failed to decode nodes for workflow %s: %w", wf.ID, err)
		}
		workflows = append(workflows, &wf)
	}
	return workflows, rows.Err()
}

// SaveWorkflow inserts or updates a workflow.
func (s *PostgresStore) SaveWorkflow(ctx context.Context, workflow *models.Workflow) error {
	nodes, err := json.Marshal(workflow.Nodes)
	if err != nil {
		return fmt.Errorf("failed to encode nodes: %w", err)
	}
	connections := workflow.Connections
	if connections == nil {
		connections = json.RawMessage("[]")
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO workflows (id, workspace_id, name, description, nodes, connections,
		                        execution_mode, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name, description = EXCLUDED.description,
		   nodes = EXCLUDED.nodes, connections = EXCLUDED.connections,
		   execution_mode = EXCLUDED.execution_mode, status = EXCLUDED.status,
		   updated_at = now()`,
		workflow.ID, workflow.WorkspaceID, workflow.Name, workflow.Description,
		nodes, []byte(connections), workflow.ExecutionMode, workflow.Status)
	return err
}

// CreateRun inserts a new workflow run record.
func (s *PostgresStore) CreateRun(ctx context.Context, run *models.WorkflowRun) error {
	input, logs, outputs, err := encodeRunFields(run)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO workflow_runs (id, workflow_id, workspace_id, trigger_type, status,
		                            started_at, completed_at, input_data, execution_logs,
		                            output_data, error_message)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		run.ID, run.WorkflowID, run.WorkspaceID, run.TriggerType, run.Status,
		run.StartedAt, run.CompletedAt, input, logs, outputs, run.ErrorMessage)
	return err
}

// UpdateRun writes a run's terminal state: status, completion timestamp,
// accumulated logs/outputs and error message.
func (s *PostgresStore) UpdateRun(ctx context.Context, run *models.WorkflowRun) error {
	_, logs, outputs, err := encodeRunFields(run)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx,
		`UPDATE workflow_runs SET status = $1, completed_at = $2, execution_logs = $3,
		        output_data = $4, error_message = $5
		 WHERE id = $6`,
		run.Status, run.CompletedAt, logs, outputs, run.ErrorMessage, run.ID)
	return err
}

// GetRun retrieves a workflow run scoped to a workspace.
func (s *PostgresStore) GetRun(ctx context.Context, id, workspaceID string) (*models.WorkflowRun, error) {
	var (
		run     models.WorkflowRun
		input   []byte
		logs    []byte
		outputs []byte
	)
	err := s.db.QueryRow(ctx,
		`SELECT id, workflow_id, workspace_id, trigger_type, status, started_at, completed_at,
		        input_data, execution_logs, output_data, error_message
		 FROM workflow_runs WHERE id = $1 AND workspace_id = $2`,
		id, workspaceID,
	).Scan(&run.ID, &run.WorkflowID, &run.WorkspaceID, &run.TriggerType, &run.Status,
		&run.StartedAt, &run.CompletedAt, &input, &logs, &outputs, &run.ErrorMessage)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := unmarshalJSONB(input, &run.InputData); err != nil {
		return nil, fmt.Errorf("failed to decode input_data for run %s: %w", id, err)
	}
	if err := unmarshalJSONB(logs, &run.ExecutionLogs); err != nil {
		return nil, fmt.Errorf("failed to decode execution_logs for run %s: %w", id, err)
	}
	if err := unmarshalJSONB(outputs, &run.OutputData); err != nil {
		return nil, fmt.Errorf("failed to decode output_data for run %s: %w", id, err)
	}
	return &run, nil
}

func encodeRunFields(run *models.WorkflowRun) (input, logs, outputs []byte, err error) {
	if input, err = json.Marshal(run.InputData); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode input_data: %w", err)
	}
	if logs, err = json.Marshal(run.ExecutionLogs); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode execution_logs: %w", err)
	}
	if outputs, err = json.Marshal(run.OutputData); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode output_data: %w", err)
	}
	return input, logs, outputs, nil
}

func unmarshalJSONB(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
