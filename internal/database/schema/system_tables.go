// Package schema defines the database schema for development.
//
// DEVELOPMENT USE ONLY
// This file contains the current database schema and is used for development and testing.
// Before deploying to production, these table definitions should be converted to proper migrations.
package schema

// TableDefinitions contains all the SQL statements to create the system database tables.
// Don't put REFERENCES and don't put CHECK constraints in the CREATE TABLE statements
var TableDefinitions = []string{
	`CREATE TABLE IF NOT EXISTS workspaces (
		id VARCHAR(32) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		plan_tier VARCHAR(20) NOT NULL DEFAULT 'free',
		phone_number_id VARCHAR(64) UNIQUE,
		display_phone_number VARCHAR(32),
		waba_id VARCHAR(64),
		phone_status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
		quality_rating VARCHAR(10) NOT NULL DEFAULT 'UNKNOWN',
		messaging_tier VARCHAR(20) NOT NULL DEFAULT 'TIER_NOT_SET',
		account_status VARCHAR(20) NOT NULL DEFAULT 'ACTIVE',
		account_decision VARCHAR(20),
		billing_status VARCHAR(20) NOT NULL DEFAULT 'active',
		messages_today INTEGER NOT NULL DEFAULT 0,
		messages_this_month INTEGER NOT NULL DEFAULT 0,
		template_submissions_today INTEGER NOT NULL DEFAULT 0,
		usage_day VARCHAR(10),
		usage_month VARCHAR(7),
		settings JSONB NOT NULL DEFAULT '{"timezone": "UTC"}',
		bsp JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS api_keys (
		id UUID PRIMARY KEY,
		workspace_id VARCHAR(32),
		name VARCHAR(255) NOT NULL,
		prefix VARCHAR(16) NOT NULL,
		hash VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL,
		last_used_at TIMESTAMP,
		revoked_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS webhook_logs (
		id UUID PRIMARY KEY,
		delivery_id VARCHAR(128),
		workspace_id VARCHAR(32),
		phone_number_id VARCHAR(64),
		event_type VARCHAR(40) NOT NULL,
		processed BOOLEAN NOT NULL DEFAULT FALSE,
		verified BOOLEAN NOT NULL DEFAULT FALSE,
		bsp_routed BOOLEAN NOT NULL DEFAULT FALSE,
		security_flag VARCHAR(30),
		error TEXT,
		payload JSONB,
		created_at TIMESTAMP NOT NULL,
		expires_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS webhook_jobs (
		id UUID PRIMARY KEY,
		delivery_id VARCHAR(128),
		webhook_log_id UUID,
		body BYTEA NOT NULL,
		signature_header VARCHAR(255),
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		attempts INTEGER NOT NULL DEFAULT 0,
		last_error TEXT,
		next_attempt_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id UUID PRIMARY KEY,
		workspace_id VARCHAR(32) NOT NULL,
		type VARCHAR(50) NOT NULL,
		status VARCHAR(20) NOT NULL,
		progress FLOAT NOT NULL DEFAULT 0,
		state JSONB,
		error_message TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		last_run_at TIMESTAMP,
		completed_at TIMESTAMP,
		next_run_after TIMESTAMP,
		timeout_after TIMESTAMP,
		max_runtime INTEGER NOT NULL DEFAULT 300,
		max_retries INTEGER NOT NULL DEFAULT 3,
		retry_count INTEGER NOT NULL DEFAULT 0,
		retry_interval INTEGER NOT NULL DEFAULT 300,
		campaign_id VARCHAR(36)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_webhook_logs_delivery_event ON webhook_logs (delivery_id, event_type) WHERE delivery_id IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS idx_webhook_logs_workspace_id ON webhook_logs (workspace_id)`,
	`CREATE INDEX IF NOT EXISTS idx_webhook_logs_expires_at ON webhook_logs (expires_at)`,
	`CREATE INDEX IF NOT EXISTS idx_webhook_jobs_status_next_attempt ON webhook_jobs (status, next_attempt_at)`,
	`CREATE INDEX IF NOT EXISTS idx_api_keys_prefix ON api_keys (prefix)`,
	`CREATE INDEX IF NOT EXISTS idx_api_keys_workspace_id ON api_keys (workspace_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_workspace_id ON tasks (workspace_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks (status)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_type ON tasks (type)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_next_run_after ON tasks (next_run_after)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks (created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_campaign_id ON tasks (campaign_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_tasks_workspace_campaign_id ON tasks (workspace_id, campaign_id) WHERE campaign_id IS NOT NULL`,
}

// TableNames returns a list of all system table names in creation order
var TableNames = []string{
	"workspaces",
	"api_keys",
	"webhook_logs",
	"webhook_jobs",
	"tasks",
}
