package models

import (
	"encoding/json"
	"time"
)

// AgentNode is one node in a workflow's ordered agent list. It references an
// AgentProfile owned elsewhere; Label is the display name the canvas editor
// assigned to the node.
type AgentNode struct {
	AgentID string `json:"agent_id"`
	Label   string `json:"label"`
}

// Workflow represents a stored chain of agent nodes. Connections and
// ExecutionMode come from the canvas editor and are persisted untouched; the
// execution engine only consumes Nodes, strictly in list order.
type Workflow struct {
	ID            string          `json:"id"`
	WorkspaceID   string          `json:"workspace_id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Nodes         []AgentNode     `json:"nodes"`
	Connections   json.RawMessage `json:"connections,omitempty"`
	ExecutionMode string          `json:"execution_mode,omitempty"`
	Status        string          `json:"status,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
