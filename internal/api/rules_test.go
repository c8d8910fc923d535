package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentflow/internal/rules"
)

func TestCheckRules(t *testing.T) {
	server := NewServer(&stubRepo{}, &stubRunner{})
	e := echo.New()

	body := `{"rules":{"step_by_step":true},"template":"Just answer directly."}`
	c, rec := newTestContext(e, http.MethodPost, "/rules/check", body)

	require.NoError(t, server.CheckRules(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var check rules.CompatibilityCheck
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &check))
	assert.False(t, check.IsCompatible)
	assert.Equal(t, 0, check.Score)
	require.Len(t, check.Mismatches, 1)
	assert.Equal(t, "step_by_step", check.Mismatches[0].RuleName)
}

func TestValidateResponse_FailingIncludesCorrectionPrompt(t *testing.T) {
	server := NewServer(&stubRepo{}, &stubRunner{})
	e := echo.New()

	body := `{
		"response": "Nope.",
		"rules": {
			"step_by_step": true,
			"use_bullet_points": true,
			"include_confidence_scores": true,
			"cite_if_possible": true,
			"summarize_at_end": true
		},
		"template": "**Steps**:\n{STEPS}\n"
	}`
	c, rec := newTestContext(e, http.MethodPost, "/rules/validate", body)

	require.NoError(t, server.ValidateResponse(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		rules.ValidationScore
		CorrectionPrompt string `json:"correction_prompt"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Passed)
	assert.NotEmpty(t, resp.CorrectionPrompt)
	assert.Contains(t, resp.CorrectionPrompt, "did not satisfy the required response rules")
}

func TestValidateResponse_PassingOmitsCorrectionPrompt(t *testing.T) {
	server := NewServer(&stubRepo{}, &stubRunner{})
	e := echo.New()

	body := `{
		"response": "Step 1: gather the inputs from the queue. Step 2: analyze each record in detail. Summary: every record was processed without loss.",
		"rules": {"step_by_step": true, "summarize_at_end": true}
	}`
	c, rec := newTestContext(e, http.MethodPost, "/rules/validate", body)

	require.NoError(t, server.ValidateResponse(c))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Equal(t, true, raw["passed"])
	_, hasPrompt := raw["correction_prompt"]
	assert.False(t, hasPrompt)
}

func TestSampleTemplate(t *testing.T) {
	server := NewServer(&stubRepo{}, &stubRunner{})
	e := echo.New()

	body := `{"rules":{"step_by_step":true,"summarize_at_end":true}}`
	c, rec := newTestContext(e, http.MethodPost, "/rules/sample-template", body)

	require.NoError(t, server.SampleTemplate(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["template"], "{STEPS}")
	assert.Contains(t, resp["template"], "{SUMMARY}")
	assert.NotContains(t, resp["template"], "{BULLETS}")
}
