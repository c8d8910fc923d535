package models

import (
	"time"
)

// Workspace isolates agents, workflows and runs per customer. It is resolved
// from the authenticated user's email domain.
type Workspace struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Domain    string    `json:"domain"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
