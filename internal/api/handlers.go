// Package api contains the HTTP handlers for the agent workflow service
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"agentflow/internal/repository"
	"agentflow/pkg/models"
)

// Runner executes workflow runs. Satisfied by services.WorkflowRunner.
type Runner interface {
	RunWorkflow(ctx context.Context, workflowID, workspaceID string, trigger models.TriggerType, inputData map[string]any) (*models.RunResult, error)
}

// Server holds the dependencies for the API server.
type Server struct {
	Repo   repository.Repository
	Runner Runner
}

// NewServer creates a new Server.
func NewServer(repo repository.Repository, runner Runner) *Server {
	return &Server{Repo: repo, Runner: runner}
}

// RegisterHandlers mounts all API routes on the given group.
func RegisterHandlers(g *echo.Group, s *Server) {
	g.GET("/health", s.HandleHealth)

	g.GET("/workflows", s.ListWorkflows)
	g.PUT("/workflows", s.PutWorkflow)
	g.POST("/workflows/:id/run", s.RunWorkflow)
	g.GET("/runs/:id", s.GetRun)

	g.POST("/rules/check", s.CheckRules)
	g.POST("/rules/validate", s.ValidateResponse)
	g.POST("/rules/sample-template", s.SampleTemplate)
}

// HandleHealth returns service health including database reachability.
func (s *Server) HandleHealth(c echo.Context) error {
	checks := map[string]string{"database": "ok"}
	status := "ok"
	if err := s.Repo.Ping(c.Request().Context()); err != nil {
		checks["database"] = err.Error()
		status = "degraded"
	}
	return c.JSON(http.StatusOK, models.HealthStatus{
		Status:    status,
		Service:   "agentflow",
		Version:   "1.0.0",
		Timestamp: time.Now(),
		Checks:    checks,
	})
}

// workspaceID pulls the workspace injected by the auth middleware.
func workspaceID(c echo.Context) (string, error) {
	id, ok := c.Request().Context().Value("workspace_id").(string)
	if !ok || id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Workspace ID not found in context")
	}
	return id, nil
}
