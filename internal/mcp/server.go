package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"agentflow/internal/rules"
	"agentflow/internal/services"
	"agentflow/pkg/models"
)

// Server exposes the workflow engine and rule engines as MCP tools so agent
// clients can trigger runs and check templates over the MCP protocol.
type Server struct {
	mcpServer *server.MCPServer
	runner    *services.WorkflowRunner
}

func NewServer(runner *services.WorkflowRunner) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"Agent Workflows",
			"1.0.0",
			server.WithToolCapabilities(true),
		),
		runner: runner,
	}

	s.registerTools()
	return s
}

func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"run_workflow",
			mcp.WithDescription("Execute a stored workflow and return its run result"),
			mcp.WithString("workflow_id", mcp.Required(), mcp.Description("UUID of the workflow to run")),
			mcp.WithString("workspace_id", mcp.Required(), mcp.Description("UUID of the owning workspace")),
			mcp.WithString("prompt", mcp.Description("Optional prompt passed to every agent in the workflow")),
		),
		s.handleRunWorkflow,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"check_rule_compatibility",
			mcp.WithDescription("Check a response rule set against a response template"),
			mcp.WithString("rules", mcp.Required(), mcp.Description("Response rules as a JSON object")),
			mcp.WithString("template", mcp.Description("The response template text")),
		),
		s.handleCheckRules,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"validate_response",
			mcp.WithDescription("Score a produced response against rules and template"),
			mcp.WithString("response", mcp.Required(), mcp.Description("The response text to validate")),
			mcp.WithString("rules", mcp.Required(), mcp.Description("Response rules as a JSON object")),
			mcp.WithString("template", mcp.Description("The response template text")),
		),
		s.handleValidateResponse,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"generate_sample_template",
			mcp.WithDescription("Build a response template skeleton from enabled rules"),
			mcp.WithString("rules", mcp.Required(), mcp.Description("Response rules as a JSON object")),
		),
		s.handleSampleTemplate,
	)
}

func (s *Server) handleRunWorkflow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	workflowID, ok := args["workflow_id"].(string)
	if !ok || workflowID == "" {
		return mcp.NewToolResultError("Missing required parameter: workflow_id"), nil
	}
	workspaceID, ok := args["workspace_id"].(string)
	if !ok || workspaceID == "" {
		return mcp.NewToolResultError("Missing required parameter: workspace_id"), nil
	}

	var inputData map[string]any
	if prompt, ok := args["prompt"].(string); ok && prompt != "" {
		inputData = map[string]any{"prompt": prompt}
	}

	result, err := s.runner.RunWorkflow(ctx, workflowID, workspaceID, models.TriggerTypeChat, inputData)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to run workflow: %v", err)), nil
	}

	jsonBytes, _ := json.Marshal(result)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleCheckRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	ruleSet, errResult := decodeRules(args)
	if errResult != nil {
		return errResult, nil
	}
	template, _ := args["template"].(string)

	jsonBytes, _ := json.Marshal(rules.Check(ruleSet, template))
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleValidateResponse(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	response, ok := args["response"].(string)
	if !ok || response == "" {
		return mcp.NewToolResultError("Missing required parameter: response"), nil
	}
	ruleSet, errResult := decodeRules(args)
	if errResult != nil {
		return errResult, nil
	}
	template, _ := args["template"].(string)

	score := rules.Validate(response, ruleSet, template)
	payload := map[string]any{"score": score}
	if !score.Passed {
		payload["correction_prompt"] = rules.GenerateCorrectionPrompt(score, template)
	}

	jsonBytes, _ := json.Marshal(payload)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleSampleTemplate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	ruleSet, errResult := decodeRules(args)
	if errResult != nil {
		return errResult, nil
	}

	return mcp.NewToolResultText(rules.GenerateSampleTemplate(ruleSet)), nil
}

// decodeRules parses the "rules" argument, which arrives as a JSON-encoded
// object string.
func decodeRules(args map[string]interface{}) (models.ResponseRules, *mcp.CallToolResult) {
	raw, ok := args["rules"].(string)
	if !ok || raw == "" {
		return nil, mcp.NewToolResultError("Missing required parameter: rules")
	}
	var ruleSet models.ResponseRules
	if err := json.Unmarshal([]byte(raw), &ruleSet); err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("Invalid rules JSON: %v", err))
	}
	return ruleSet, nil
}

func MountHTTPHandlers(mux *http.ServeMux, mcpServer *server.MCPServer) {
	// Use SSE server for /mcp/sse and /mcp/message endpoints
	sseServer := server.NewSSEServer(mcpServer, server.WithStaticBasePath("/mcp"))

	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		// Direct POST for tool calls
		if r.Method == http.MethodPost {
			sseServer.ServeHTTP(w, r)
			return
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	// SSE endpoints
	mux.HandleFunc("/mcp/sse", sseServer.ServeHTTP)
	mux.HandleFunc("/mcp/message", sseServer.ServeHTTP)
}
