// Package schema defines the database schema for development.
//
// DEVELOPMENT USE ONLY
// This file contains the current database schema and is used for development and testing.
// Before deploying to production, these table definitions should be converted to proper migrations.
package schema

// WorkspaceTableDefinitions contains all the SQL statements to create the
// per-workspace database tables.
// Don't put REFERENCES and don't put CHECK constraints in the CREATE TABLE statements
var WorkspaceTableDefinitions = []string{
	`CREATE TABLE IF NOT EXISTS contacts (
		id UUID PRIMARY KEY,
		phone VARCHAR(32) UNIQUE NOT NULL,
		name VARCHAR(255),
		opt_in JSONB NOT NULL DEFAULT '{}',
		tags JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS conversations (
		id UUID PRIMARY KEY,
		contact_id UUID UNIQUE NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'open',
		type VARCHAR(20) NOT NULL DEFAULT 'service',
		started_at TIMESTAMP NOT NULL,
		last_activity_at TIMESTAMP NOT NULL,
		last_customer_message_at TIMESTAMP,
		last_message_preview VARCHAR(120),
		last_message_type VARCHAR(20),
		unread_counts INTEGER NOT NULL DEFAULT 0,
		assigned_to VARCHAR(64),
		sla_deadline TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id UUID PRIMARY KEY,
		conversation_id UUID NOT NULL,
		contact_id UUID NOT NULL,
		direction VARCHAR(10) NOT NULL,
		type VARCHAR(20) NOT NULL,
		body TEXT,
		status VARCHAR(20) NOT NULL,
		provider_message_id VARCHAR(128),
		template JSONB,
		media JSONB,
		meta JSONB,
		campaign_id UUID,
		failure_reason TEXT,
		status_history JSONB NOT NULL DEFAULT '[]',
		queued_at TIMESTAMP,
		sent_at TIMESTAMP,
		delivered_at TIMESTAMP,
		read_at TIMESTAMP,
		failed_at TIMESTAMP,
		received_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS templates (
		id UUID PRIMARY KEY,
		workspace_id VARCHAR(32) NOT NULL,
		name VARCHAR(255) NOT NULL,
		language VARCHAR(10) NOT NULL,
		category VARCHAR(20) NOT NULL,
		components JSONB NOT NULL DEFAULT '[]',
		status VARCHAR(30) NOT NULL DEFAULT 'draft',
		provider_template_id VARCHAR(64),
		provider_name VARCHAR(255),
		rejection_reason TEXT,
		rejection_category VARCHAR(30),
		rejection_help TEXT,
		history JSONB NOT NULL DEFAULT '[]',
		last_webhook_event_id VARCHAR(128),
		last_webhook_event VARCHAR(40),
		last_webhook_update TIMESTAMP,
		original_template_id UUID,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS campaigns (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		template_id UUID NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'draft',
		pause_reason TEXT,
		total_recipients INTEGER NOT NULL DEFAULT 0,
		sent_count INTEGER NOT NULL DEFAULT 0,
		failed_count INTEGER NOT NULL DEFAULT 0,
		started_at TIMESTAMP,
		paused_at TIMESTAMP,
		completed_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS campaign_batches (
		id UUID PRIMARY KEY,
		campaign_id UUID NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		sequence INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS campaign_messages (
		id UUID PRIMARY KEY,
		campaign_id UUID NOT NULL,
		batch_id UUID NOT NULL,
		contact_id UUID NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		attempts INTEGER NOT NULL DEFAULT 0,
		max_attempts INTEGER NOT NULL DEFAULT 3,
		last_error TEXT,
		provider_message_id VARCHAR(128),
		sent_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS usage_ledger (
		id UUID PRIMARY KEY,
		kind VARCHAR(30) NOT NULL,
		message_id UUID,
		template_id UUID,
		campaign_id UUID,
		category VARCHAR(20),
		quantity BIGINT NOT NULL DEFAULT 1,
		billing_day VARCHAR(10) NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS auto_replies (
		id UUID PRIMARY KEY,
		keyword VARCHAR(255) NOT NULL,
		match_type VARCHAR(20) NOT NULL,
		response TEXT NOT NULL,
		template_id UUID NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		priority INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS auto_reply_logs (
		id UUID PRIMARY KEY,
		auto_reply_id UUID NOT NULL,
		contact_id UUID NOT NULL,
		message_id UUID,
		created_at TIMESTAMP NOT NULL,
		expires_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS faqs (
		id UUID PRIMARY KEY,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		match_count BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS contact_timeline (
		id UUID PRIMARY KEY,
		contact_id UUID NOT NULL,
		operation VARCHAR(20) NOT NULL,
		entity_type VARCHAR(30) NOT NULL,
		entity_id VARCHAR(64),
		changes JSONB,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS kill_switch_events (
		id UUID PRIMARY KEY,
		reason VARCHAR(40) NOT NULL,
		detail TEXT,
		paused_campaign_ids JSONB NOT NULL DEFAULT '[]',
		paused_batch_count INTEGER NOT NULL DEFAULT 0,
		triggered_by VARCHAR(64) NOT NULL,
		created_at TIMESTAMP NOT NULL,
		expires_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS webhook_subscriptions (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		url VARCHAR(2048) NOT NULL,
		secret VARCHAR(255) NOT NULL,
		event_types JSONB NOT NULL DEFAULT '[]',
		enabled BOOLEAN NOT NULL DEFAULT TRUE,
		description TEXT,
		last_delivery_at TIMESTAMP,
		success_count BIGINT NOT NULL DEFAULT 0,
		failure_count BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS webhook_deliveries (
		id UUID PRIMARY KEY,
		subscription_id UUID NOT NULL,
		event_type VARCHAR(40) NOT NULL,
		payload JSONB NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		attempts INTEGER NOT NULL DEFAULT 0,
		max_attempts INTEGER NOT NULL DEFAULT 3,
		next_attempt_at TIMESTAMP NOT NULL,
		last_attempt_at TIMESTAMP,
		delivered_at TIMESTAMP,
		last_response_status INTEGER,
		last_response_body TEXT,
		last_error TEXT,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_messages_provider_message_id ON messages (provider_message_id) WHERE provider_message_id IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS idx_messages_conversation_created ON messages (conversation_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_contact_id ON messages (contact_id)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_campaign_id ON messages (campaign_id)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_status ON messages (status)`,
	`CREATE INDEX IF NOT EXISTS idx_conversations_last_activity ON conversations (last_activity_at DESC)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_templates_name_language ON templates (name, language)`,
	`CREATE INDEX IF NOT EXISTS idx_templates_provider_name ON templates (provider_name)`,
	`CREATE INDEX IF NOT EXISTS idx_campaign_batches_campaign ON campaign_batches (campaign_id, sequence)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_campaign_messages_recipient ON campaign_messages (campaign_id, contact_id)`,
	`CREATE INDEX IF NOT EXISTS idx_campaign_messages_batch_status ON campaign_messages (batch_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_usage_ledger_billing_day ON usage_ledger (billing_day)`,
	`CREATE INDEX IF NOT EXISTS idx_auto_reply_logs_rule_contact ON auto_reply_logs (auto_reply_id, contact_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_contact_timeline_contact ON contact_timeline (contact_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_kill_switch_events_created ON kill_switch_events (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_webhook_deliveries_pending ON webhook_deliveries (status, next_attempt_at)`,
	`CREATE INDEX IF NOT EXISTS idx_webhook_deliveries_subscription ON webhook_deliveries (subscription_id, created_at DESC)`,
}

// WorkspaceTableNames returns a list of all workspace table names in creation order
var WorkspaceTableNames = []string{
	"contacts",
	"conversations",
	"messages",
	"templates",
	"campaigns",
	"campaign_batches",
	"campaign_messages",
	"usage_ledger",
	"auto_replies",
	"auto_reply_logs",
	"faqs",
	"contact_timeline",
	"kill_switch_events",
	"webhook_subscriptions",
	"webhook_deliveries",
}
