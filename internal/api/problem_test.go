package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentflow/pkg/models"
)

func TestProblemHandler_RendersHTTPError(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = NewProblemHandler()
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "Workflow not found")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), "application/problem+json"))

	var problem models.ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "about:blank", problem.Type)
	assert.Equal(t, http.StatusText(http.StatusNotFound), problem.Title)
	assert.Equal(t, http.StatusNotFound, problem.Status)
	assert.Equal(t, "Workflow not found", problem.Detail)
	assert.Equal(t, "/boom", problem.Instance)
}

func TestProblemHandler_PlainError(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = NewProblemHandler()
	e.GET("/fail", func(c echo.Context) error {
		return assert.AnError
	})

	req := httptest.NewRequest(http.MethodGet, "/fail", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var problem models.ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, http.StatusInternalServerError, problem.Status)
	assert.NotEmpty(t, problem.Detail)
}
