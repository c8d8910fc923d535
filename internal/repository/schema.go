package repository

// Schema is the DDL for all tables this store reads and writes. It is
// idempotent and applied by cmd/seed and the integration tests.
const Schema = `
CREATE EXTENSION IF NOT EXISTS "uuid-ossp";

CREATE TABLE IF NOT EXISTS workspaces (
	id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
	name TEXT NOT NULL,
	domain TEXT NOT NULL UNIQUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS agents (
	id UUID PRIMARY KEY,
	workspace_id UUID NOT NULL REFERENCES workspaces(id),
	name TEXT NOT NULL,
	persona TEXT NOT NULL DEFAULT '',
	role_description TEXT NOT NULL DEFAULT '',
	model TEXT NOT NULL DEFAULT '',
	is_active BOOLEAN NOT NULL DEFAULT true,
	active_days JSONB NOT NULL DEFAULT '[]',
	active_from TEXT NOT NULL DEFAULT '',
	active_until TEXT NOT NULL DEFAULT '',
	response_rules JSONB NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS workflows (
	id UUID PRIMARY KEY,
	workspace_id UUID NOT NULL REFERENCES workspaces(id),
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	nodes JSONB NOT NULL DEFAULT '[]',
	connections JSONB NOT NULL DEFAULT '[]',
	execution_mode TEXT NOT NULL DEFAULT 'sequential',
	status TEXT NOT NULL DEFAULT 'active',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS workflow_runs (
	id UUID PRIMARY KEY,
	workflow_id UUID NOT NULL REFERENCES workflows(id),
	workspace_id UUID NOT NULL REFERENCES workspaces(id),
	trigger_type TEXT NOT NULL,
	status TEXT NOT NULL,
	started_at TIMESTAMPTZ NOT NULL,
	completed_at TIMESTAMPTZ,
	input_data JSONB,
	execution_logs JSONB NOT NULL DEFAULT '[]',
	output_data JSONB NOT NULL DEFAULT '{}',
	error_message TEXT NOT NULL DEFAULT ''
);
`
