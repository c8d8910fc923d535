package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"agentflow/internal/rules"
	"agentflow/pkg/models"
)

// checkRequest is the body for a rule-compatibility check.
type checkRequest struct {
	Rules    models.ResponseRules `json:"rules"`
	Template string               `json:"template"`
}

// CheckRules checks a rule set against a response template
// (POST /api/v1/rules/check)
func (s *Server) CheckRules(c echo.Context) error {
	var req checkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	return c.JSON(http.StatusOK, rules.Check(req.Rules, req.Template))
}

// validateRequest is the body for response validation.
type validateRequest struct {
	Response string               `json:"response"`
	Rules    models.ResponseRules `json:"rules"`
	Template string               `json:"template"`
}

// validateResponseBody carries the score plus a ready-to-send correction
// prompt when the response did not pass.
type validateResponseBody struct {
	rules.ValidationScore
	CorrectionPrompt string `json:"correction_prompt,omitempty"`
}

// ValidateResponse scores a produced response against rules and template
// (POST /api/v1/rules/validate)
func (s *Server) ValidateResponse(c echo.Context) error {
	var req validateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	score := rules.Validate(req.Response, req.Rules, req.Template)
	body := validateResponseBody{ValidationScore: score}
	if !score.Passed {
		body.CorrectionPrompt = rules.GenerateCorrectionPrompt(score, req.Template)
	}

	return c.JSON(http.StatusOK, body)
}

// sampleTemplateRequest is the body for sample template generation.
type sampleTemplateRequest struct {
	Rules models.ResponseRules `json:"rules"`
}

// SampleTemplate builds a template skeleton from the enabled rules
// (POST /api/v1/rules/sample-template)
func (s *Server) SampleTemplate(c echo.Context) error {
	var req sampleTemplateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"template": rules.GenerateSampleTemplate(req.Rules),
	})
}
