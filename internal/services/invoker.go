package services

import (
	"context"
	"errors"
	"fmt"

	"agentflow/pkg/models"
)

const (
	// defaultPersona is used when an agent has no persona configured.
	defaultPersona = "You are a helpful assistant."
	// maxUserPromptChars is a hard cap on the user prompt sent to the
	// provider. Longer input is truncated silently.
	maxUserPromptChars = 10000
	// previewChars bounds the response preview recorded in the log.
	previewChars = 200
)

// invokeResult is the explicit per-agent outcome of a single LLM invocation.
// Output is nil when the agent produced nothing (provider failure or an
// unconfigured provider); both cases are recoverable and the run continues.
type invokeResult struct {
	logs   []models.LogEntry
	output *models.AgentOutput
}

// invokeAgent executes one agent against the LLM provider. Provider failures
// and a missing provider configuration both degrade to an error log entry
// rather than aborting the run; one broken agent must not take down an
// otherwise-working workflow.
func (r *WorkflowRunner) invokeAgent(ctx context.Context, agent *models.AgentProfile, node models.AgentNode, inputPrompt string) invokeResult {
	label := nodeLabel(node, agent)

	if r.llm == nil {
		return invokeResult{logs: []models.LogEntry{{
			Timestamp: r.now(),
			Type:      models.LogTypeError,
			Agent:     label,
			Message:   "LLM provider not configured, skipping agent",
		}}}
	}

	systemPrompt := agent.Persona
	if systemPrompt == "" {
		systemPrompt = defaultPersona
	}
	if agent.RoleDescription != "" {
		systemPrompt += "\n\nRole: " + agent.RoleDescription
	}

	userPrompt := inputPrompt
	if userPrompt == "" {
		userPrompt = fmt.Sprintf("Execute your role as %s. %s", label, agent.RoleDescription)
	}
	if len(userPrompt) > maxUserPromptChars {
		userPrompt = userPrompt[:maxUserPromptChars]
	}

	text, err := r.llm.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		var provErr *ProviderError
		msg := fmt.Sprintf("Agent failed: %v", err)
		if errors.As(err, &provErr) {
			msg = fmt.Sprintf("Agent failed with status %d: %s", provErr.Status, provErr.Message)
		}
		return invokeResult{logs: []models.LogEntry{{
			Timestamp: r.now(),
			Type:      models.LogTypeError,
			Agent:     label,
			Message:   msg,
		}}}
	}

	preview := text
	if len(preview) > previewChars {
		preview = preview[:previewChars] + "..."
	}

	return invokeResult{
		logs: []models.LogEntry{{
			Timestamp: r.now(),
			Type:      models.LogTypeComplete,
			Agent:     label,
			Message:   "Agent completed",
			Preview:   preview,
		}},
		output: &models.AgentOutput{Agent: label, Response: text},
	}
}

// nodeLabel prefers the canvas label, falling back to the agent name and
// finally the referenced agent ID.
func nodeLabel(node models.AgentNode, agent *models.AgentProfile) string {
	if node.Label != "" {
		return node.Label
	}
	if agent != nil && agent.Name != "" {
		return agent.Name
	}
	return node.AgentID
}
