package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"agentflow/internal/config"
	"agentflow/internal/logging"
	"agentflow/internal/repository"
	"agentflow/pkg/models"
)

func main() {
	ctx := context.Background()
	logger := logging.NewLogger()

	// Load config
	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to DB
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.SSLMode,
	)
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pool.Close()

	// Apply schema
	if _, err := pool.Exec(ctx, repository.Schema); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}
	logger.Info("Schema applied")

	store := repository.NewPostgresStore(pool)

	// 1. Ensure Workspace Exists
	domain := "localhost"
	workspace, err := store.GetWorkspaceByDomain(ctx, domain)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Fatalf("Failed to look up workspace: %v", err)
		}
		logger.Info("Creating default workspace: domain=%s", domain)
		workspace = &models.Workspace{
			Name:   "Local Dev Workspace",
			Domain: domain,
		}
		if err := store.CreateWorkspace(ctx, workspace); err != nil {
			log.Fatalf("Failed to create workspace: %v", err)
		}
	}
	logger.Info("Workspace ready: id=%s", workspace.ID)

	// 2. Sample Agents
	researcher := &models.AgentProfile{
		ID:              uuid.New().String(),
		WorkspaceID:     workspace.ID,
		Name:            "Researcher",
		Persona:         "You are a meticulous researcher who gathers and verifies facts.",
		RoleDescription: "Collect relevant background information for the given topic.",
		IsActive:        true,
		ResponseRules: models.ResponseRules{
			"cite_if_possible":    true,
			"refuse_if_uncertain": true,
		},
	}
	writer := &models.AgentProfile{
		ID:              uuid.New().String(),
		WorkspaceID:     workspace.ID,
		Name:            "Writer",
		Persona:         "You are a clear technical writer.",
		RoleDescription: "Turn the gathered research into a readable article.",
		IsActive:        true,
		ResponseRules: models.ResponseRules{
			"step_by_step":     true,
			"summarize_at_end": true,
		},
	}
	for _, agent := range []*models.AgentProfile{researcher, writer} {
		if err := store.SaveAgent(ctx, agent); err != nil {
			log.Fatalf("Failed to save agent %s: %v", agent.Name, err)
		}
		logger.Info("Agent seeded: name=%s id=%s", agent.Name, agent.ID)
	}

	// 3. Sample Workflow chaining the agents
	workflow := &models.Workflow{
		ID:          uuid.New().String(),
		WorkspaceID: workspace.ID,
		Name:        "Research and Write",
		Description: "Researches a topic, then writes it up.",
		Nodes: []models.AgentNode{
			{AgentID: researcher.ID, Label: "Researcher"},
			{AgentID: writer.ID, Label: "Writer"},
		},
		ExecutionMode: "sequential",
		Status:        "active",
	}
	if err := store.SaveWorkflow(ctx, workflow); err != nil {
		log.Fatalf("Failed to save workflow: %v", err)
	}
	logger.Info("Workflow seeded: name=%q id=%s", workflow.Name, workflow.ID)
}
