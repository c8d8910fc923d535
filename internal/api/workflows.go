package api

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"agentflow/internal/repository"
	"agentflow/pkg/models"
)

// uuidPattern is the canonical 8-4-4-4-12 form. uuid.Parse is deliberately
// not used for validation here: it accepts braced, urn: and 32-hex forms
// that the API contract rejects.
var uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

func isUUID(s string) bool {
	return uuidPattern.MatchString(toLowerASCII(s))
}

func toLowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

// ListWorkflows returns a list of all workflows in the caller's workspace
// (GET /api/v1/workflows)
func (s *Server) ListWorkflows(c echo.Context) error {
	wsID, err := workspaceID(c)
	if err != nil {
		return err
	}

	workflows, err := s.Repo.ListWorkflows(c.Request().Context(), wsID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, workflows)
}

// PutWorkflow creates or updates a workflow
// (PUT /api/v1/workflows)
func (s *Server) PutWorkflow(c echo.Context) error {
	wsID, err := workspaceID(c)
	if err != nil {
		return err
	}

	var workflow models.Workflow
	if err := c.Bind(&workflow); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	workflow.WorkspaceID = wsID

	if workflow.ID == "" {
		workflow.ID = uuid.New().String()
	} else if !isUUID(workflow.ID) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid workflow ID")
	}

	if err := s.Repo.SaveWorkflow(c.Request().Context(), &workflow); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save workflow: "+err.Error())
	}

	return c.JSON(http.StatusOK, workflow)
}

// runRequest is the body for a run invocation.
type runRequest struct {
	TriggerType models.TriggerType `json:"trigger_type"`
	InputData   map[string]any     `json:"input_data"`
}

// RunWorkflow executes a workflow run
// (POST /api/v1/workflows/:id/run)
func (s *Server) RunWorkflow(c echo.Context) error {
	wsID, err := workspaceID(c)
	if err != nil {
		return err
	}

	// Malformed IDs are rejected before any side effect.
	workflowID := c.Param("id")
	if !isUUID(workflowID) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid workflow ID")
	}

	var req runRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	switch req.TriggerType {
	case "":
		req.TriggerType = models.TriggerTypeManual
	case models.TriggerTypeManual, models.TriggerTypeChat, models.TriggerTypeScheduled:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid trigger type: "+string(req.TriggerType))
	}

	result, err := s.Runner.RunWorkflow(c.Request().Context(), toLowerASCII(workflowID), wsID, req.TriggerType, req.InputData)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Workflow not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, result)
}

// GetRun returns a stored workflow run
// (GET /api/v1/runs/:id)
func (s *Server) GetRun(c echo.Context) error {
	wsID, err := workspaceID(c)
	if err != nil {
		return err
	}

	runID := c.Param("id")
	if !isUUID(runID) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid run ID")
	}

	run, err := s.Repo.GetRun(c.Request().Context(), toLowerASCII(runID), wsID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Run not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, run)
}
