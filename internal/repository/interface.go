package repository

import (
	"context"
	"errors"

	"agentflow/pkg/models"
)

// ErrNotFound is returned when a record does not exist or is not visible in
// the caller's workspace. The two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("record not found")

// Repository is the persistence boundary for workspaces, agents, workflows
// and runs. The execution engine only ever calls CreateRun once and
// UpdateRun once per run on the happy path.
type Repository interface {
	Ping(ctx context.Context) error

	GetWorkspaceByDomain(ctx context.Context, domain string) (*models.Workspace, error)
	CreateWorkspace(ctx context.Context, workspace *models.Workspace) error

	GetAgent(ctx context.Context, id, workspaceID string) (*models.AgentProfile, error)
	SaveAgent(ctx context.Context, agent *models.AgentProfile) error

	GetWorkflow(ctx context.Context, id, workspaceID string) (*models.Workflow, error)
	ListWorkflows(ctx context.Context, workspaceID string) ([]*models.Workflow, error)
	SaveWorkflow(ctx context.Context, workflow *models.Workflow) error

	CreateRun(ctx context.Context, run *models.WorkflowRun) error
	UpdateRun(ctx context.Context, run *models.WorkflowRun) error
	GetRun(ctx context.Context, id, workspaceID string) (*models.WorkflowRun, error)
}
