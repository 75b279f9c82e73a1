package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableDefinitions(t *testing.T) {
	t.Run("All statements are non-empty", func(t *testing.T) {
		for i, statement := range TableDefinitions {
			assert.NotEmpty(t, strings.TrimSpace(statement), "Statement at index %d should not be empty", i)
		}
	})

	t.Run("Statements are idempotent", func(t *testing.T) {
		for i, statement := range TableDefinitions {
			assert.Contains(t, strings.ToUpper(statement), "IF NOT EXISTS",
				"Statement %d should be safe to run on an initialized database", i)
		}
	})

	t.Run("Every system table has a CREATE TABLE statement", func(t *testing.T) {
		all := strings.Join(TableDefinitions, " ")
		for _, tableName := range TableNames {
			assert.Contains(t, all, "CREATE TABLE IF NOT EXISTS "+tableName,
				"TableDefinitions should create table: %s", tableName)
		}
	})

	t.Run("Webhook delivery idempotency index is unique and partial", func(t *testing.T) {
		all := strings.Join(TableDefinitions, " ")
		assert.Contains(t, all, "CREATE UNIQUE INDEX IF NOT EXISTS idx_webhook_logs_delivery_event")
		assert.Contains(t, all, "WHERE delivery_id IS NOT NULL")
	})

	t.Run("One task per workspace and campaign", func(t *testing.T) {
		all := strings.Join(TableDefinitions, " ")
		assert.Contains(t, all, "CREATE UNIQUE INDEX IF NOT EXISTS idx_tasks_workspace_campaign_id")
	})

	t.Run("Phone number ids route to exactly one workspace", func(t *testing.T) {
		var workspaces string
		for _, statement := range TableDefinitions {
			if strings.Contains(statement, "CREATE TABLE IF NOT EXISTS workspaces") {
				workspaces = statement
			}
		}
		assert.NotEmpty(t, workspaces, "workspaces table definition should exist")
		assert.Contains(t, workspaces, "phone_number_id VARCHAR(64) UNIQUE")
	})
}

func TestWorkspaceTableDefinitions(t *testing.T) {
	t.Run("Every workspace table has a CREATE TABLE statement", func(t *testing.T) {
		all := strings.Join(WorkspaceTableDefinitions, " ")
		for _, tableName := range WorkspaceTableNames {
			assert.Contains(t, all, "CREATE TABLE IF NOT EXISTS "+tableName,
				"WorkspaceTableDefinitions should create table: %s", tableName)
		}
	})

	t.Run("Uniqueness constraints the repositories rely on", func(t *testing.T) {
		all := strings.Join(WorkspaceTableDefinitions, " ")
		assert.Contains(t, all, "phone VARCHAR(32) UNIQUE", "contacts must be unique per phone")
		assert.Contains(t, all, "contact_id UUID UNIQUE", "one conversation per contact")
		assert.Contains(t, all, "idx_messages_provider_message_id", "inbound ingest dedupes on provider message id")
		assert.Contains(t, all, "idx_templates_name_language", "templates are unique per (name, language)")
		assert.Contains(t, all, "idx_campaign_messages_recipient", "campaign recipients are exactly-once")
	})

	t.Run("No duplicate table names", func(t *testing.T) {
		seen := make(map[string]bool)
		for _, tableName := range WorkspaceTableNames {
			assert.False(t, seen[tableName], "Table name %s should not be duplicated", tableName)
			seen[tableName] = true
		}
	})

	t.Run("Table names follow naming convention", func(t *testing.T) {
		for _, tableName := range append(append([]string{}, TableNames...), WorkspaceTableNames...) {
			assert.Equal(t, strings.ToLower(tableName), tableName, "Table name %s should be lowercase", tableName)
			assert.NotContains(t, tableName, " ", "Table name %s should not contain spaces", tableName)
			assert.NotContains(t, tableName, "-", "Table name %s should not contain hyphens", tableName)
		}
	})
}
