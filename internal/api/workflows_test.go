package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentflow/internal/repository"
	"agentflow/pkg/models"
)

// stubRepo serves canned data for handler tests.
type stubRepo struct {
	workflows map[string]*models.Workflow
	runs      map[string]*models.WorkflowRun
	saved     []*models.Workflow
	pingErr   error
}

func (s *stubRepo) Ping(context.Context) error { return s.pingErr }
func (s *stubRepo) GetWorkspaceByDomain(context.Context, string) (*models.Workspace, error) {
	return nil, repository.ErrNotFound
}
func (s *stubRepo) CreateWorkspace(context.Context, *models.Workspace) error { return nil }
func (s *stubRepo) GetAgent(context.Context, string, string) (*models.AgentProfile, error) {
	return nil, repository.ErrNotFound
}
func (s *stubRepo) SaveAgent(context.Context, *models.AgentProfile) error { return nil }
func (s *stubRepo) GetWorkflow(_ context.Context, id, _ string) (*models.Workflow, error) {
	if wf, ok := s.workflows[id]; ok {
		return wf, nil
	}
	return nil, repository.ErrNotFound
}
func (s *stubRepo) ListWorkflows(context.Context, string) ([]*models.Workflow, error) {
	var out []*models.Workflow
	for _, wf := range s.workflows {
		out = append(out, wf)
	}
	return out, nil
}
func (s *stubRepo) SaveWorkflow(_ context.Context, wf *models.Workflow) error {
	s.saved = append(s.saved, wf)
	return nil
}
func (s *stubRepo) CreateRun(context.Context, *models.WorkflowRun) error { return nil }
func (s *stubRepo) UpdateRun(context.Context, *models.WorkflowRun) error { return nil }
func (s *stubRepo) GetRun(_ context.Context, id, _ string) (*models.WorkflowRun, error) {
	if run, ok := s.runs[id]; ok {
		return run, nil
	}
	return nil, repository.ErrNotFound
}

// stubRunner records invocations and returns a canned result.
type stubRunner struct {
	calls  int
	lastID string
	result *models.RunResult
	err    error
}

func (s *stubRunner) RunWorkflow(_ context.Context, workflowID, _ string, _ models.TriggerType, _ map[string]any) (*models.RunResult, error) {
	s.calls++
	s.lastID = workflowID
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

const testWorkflowID = "3f2504e0-4f89-41d3-9a0c-0305e82c3301"

func newTestContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	ctx := context.WithValue(req.Context(), "workspace_id", "ws-1")
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRunWorkflow_InvalidUUIDRejectedBeforeSideEffects(t *testing.T) {
	runner := &stubRunner{}
	server := NewServer(&stubRepo{}, runner)
	e := echo.New()

	for _, id := range []string{
		"not-a-uuid",
		"3f2504e04f8941d39a0c0305e82c3301",
		"{3f2504e0-4f89-41d3-9a0c-0305e82c3301}",
		"urn:uuid:3f2504e0-4f89-41d3-9a0c-0305e82c3301",
	} {
		c, _ := newTestContext(e, http.MethodPost, "/workflows/"+id+"/run", "")
		c.SetParamNames("id")
		c.SetParamValues(id)

		err := server.RunWorkflow(c)
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr, "id %q", id)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	}
	assert.Zero(t, runner.calls, "runner must not be invoked for malformed IDs")
}

func TestRunWorkflow_UppercaseUUIDNormalized(t *testing.T) {
	runner := &stubRunner{result: &models.RunResult{RunID: "r1", Status: models.RunStatusCompleted}}
	server := NewServer(&stubRepo{}, runner)
	e := echo.New()

	upper := strings.ToUpper(testWorkflowID)
	c, rec := newTestContext(e, http.MethodPost, "/workflows/"+upper+"/run", "")
	c.SetParamNames("id")
	c.SetParamValues(upper)

	require.NoError(t, server.RunWorkflow(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testWorkflowID, runner.lastID)
}

func TestRunWorkflow_Success(t *testing.T) {
	runner := &stubRunner{result: &models.RunResult{
		RunID:  "run-1",
		Status: models.RunStatusCompleted,
		ExecutionLogs: []models.LogEntry{
			{Type: models.LogTypeStart, Message: "Executing agent"},
		},
		OutputData: map[string]models.AgentOutput{},
	}}
	server := NewServer(&stubRepo{}, runner)
	e := echo.New()

	body := `{"trigger_type":"chat","input_data":{"prompt":"hello"}}`
	c, rec := newTestContext(e, http.MethodPost, "/workflows/"+testWorkflowID+"/run", body)
	c.SetParamNames("id")
	c.SetParamValues(testWorkflowID)

	require.NoError(t, server.RunWorkflow(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var result models.RunResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "run-1", result.RunID)
	assert.Equal(t, models.RunStatusCompleted, result.Status)
}

func TestRunWorkflow_InvalidTrigger(t *testing.T) {
	runner := &stubRunner{}
	server := NewServer(&stubRepo{}, runner)
	e := echo.New()

	c, _ := newTestContext(e, http.MethodPost, "/workflows/"+testWorkflowID+"/run", `{"trigger_type":"webhook"}`)
	c.SetParamNames("id")
	c.SetParamValues(testWorkflowID)

	err := server.RunWorkflow(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	assert.Zero(t, runner.calls)
}

func TestRunWorkflow_UnknownWorkflow(t *testing.T) {
	runner := &stubRunner{err: repository.ErrNotFound}
	server := NewServer(&stubRepo{}, runner)
	e := echo.New()

	c, _ := newTestContext(e, http.MethodPost, "/workflows/"+testWorkflowID+"/run", "")
	c.SetParamNames("id")
	c.SetParamValues(testWorkflowID)

	err := server.RunWorkflow(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestRunWorkflow_MissingWorkspace(t *testing.T) {
	runner := &stubRunner{}
	server := NewServer(&stubRepo{}, runner)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/workflows/"+testWorkflowID+"/run", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(testWorkflowID)

	err := server.RunWorkflow(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	assert.Zero(t, runner.calls)
}

func TestPutWorkflow_AssignsIDAndWorkspace(t *testing.T) {
	repo := &stubRepo{}
	server := NewServer(repo, &stubRunner{})
	e := echo.New()

	body := `{"name":"Pipeline","nodes":[{"agent_id":"` + testWorkflowID + `","label":"Researcher"}]}`
	c, rec := newTestContext(e, http.MethodPut, "/workflows", body)

	require.NoError(t, server.PutWorkflow(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, repo.saved, 1)
	saved := repo.saved[0]
	assert.True(t, isUUID(saved.ID), "a fresh UUID is assigned")
	assert.Equal(t, "ws-1", saved.WorkspaceID)
	require.Len(t, saved.Nodes, 1)
	assert.Equal(t, "Researcher", saved.Nodes[0].Label)
}

func TestPutWorkflow_RejectsMalformedID(t *testing.T) {
	server := NewServer(&stubRepo{}, &stubRunner{})
	e := echo.New()

	c, _ := newTestContext(e, http.MethodPut, "/workflows", `{"id":"nope","name":"Pipeline"}`)
	err := server.PutWorkflow(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestGetRun(t *testing.T) {
	runID := "aaaaaaaa-bbbb-4ccc-8ddd-eeeeeeeeeeee"
	repo := &stubRepo{runs: map[string]*models.WorkflowRun{
		runID: {ID: runID, Status: models.RunStatusCompleted},
	}}
	server := NewServer(repo, &stubRunner{})
	e := echo.New()

	c, rec := newTestContext(e, http.MethodGet, "/runs/"+runID, "")
	c.SetParamNames("id")
	c.SetParamValues(runID)

	require.NoError(t, server.GetRun(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var run models.WorkflowRun
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	assert.Equal(t, runID, run.ID)

	// Unknown but well-formed ID is a 404.
	missing := "aaaaaaaa-bbbb-4ccc-8ddd-000000000000"
	c, _ = newTestContext(e, http.MethodGet, "/runs/"+missing, "")
	c.SetParamNames("id")
	c.SetParamValues(missing)
	err := server.GetRun(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestHandleHealth_Degraded(t *testing.T) {
	repo := &stubRepo{pingErr: assert.AnError}
	server := NewServer(repo, &stubRunner{})
	e := echo.New()

	c, rec := newTestContext(e, http.MethodGet, "/health", "")
	require.NoError(t, server.HandleHealth(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var health models.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "degraded", health.Status)
	assert.NotEqual(t, "ok", health.Checks["database"])
}
