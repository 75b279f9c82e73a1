package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Waypost/waypost/config"
	"github.com/Waypost/waypost/internal/database"
	"github.com/Waypost/waypost/internal/domain"
)

const workspaceSelectFields = `id, name, plan_tier, phone_number_id, display_phone_number, waba_id,
		phone_status, quality_rating, messaging_tier, account_status, account_decision, billing_status,
		messages_today, messages_this_month, template_submissions_today, usage_day, usage_month,
		settings, bsp, created_at, updated_at`

type workspaceRepository struct {
	systemDB *sql.DB
	dbConfig *config.DatabaseConfig

	// Connection pool for workspace databases
	connections sync.Map
}

// NewWorkspaceRepository creates a new PostgreSQL workspace repository
func NewWorkspaceRepository(systemDB *sql.DB, dbConfig *config.DatabaseConfig) domain.WorkspaceRepository {
	return &workspaceRepository{
		systemDB: systemDB,
		dbConfig: dbConfig,
	}
}

// checkWorkspaceIDExists checks if a workspace with the given ID already exists
func (r *workspaceRepository) checkWorkspaceIDExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM workspaces WHERE id = $1)`
	err := r.systemDB.QueryRowContext(ctx, query, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check workspace ID existence: %w", err)
	}
	return exists, nil
}

func (r *workspaceRepository) marshalJSONColumns(workspace *domain.Workspace) (settings, bsp []byte, err error) {
	settings, err = json.Marshal(workspace.Settings)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal settings: %w", err)
	}
	bsp, err = json.Marshal(workspace.BSP)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal bsp state: %w", err)
	}
	return settings, bsp, nil
}

func (r *workspaceRepository) Create(ctx context.Context, workspace *domain.Workspace) error {
	if workspace.ID == "" {
		return fmt.Errorf("workspace ID is required")
	}

	if err := workspace.Validate(); err != nil {
		return err
	}

	exists, err := r.checkWorkspaceIDExists(ctx, workspace.ID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("workspace with ID %s already exists", workspace.ID)
	}

	now := time.Now().UTC()
	workspace.CreatedAt = now
	workspace.UpdatedAt = now

	settings, bsp, err := r.marshalJSONColumns(workspace)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO workspaces (id, name, plan_tier, phone_number_id, display_phone_number, waba_id,
			phone_status, quality_rating, messaging_tier, account_status, account_decision, billing_status,
			messages_today, messages_this_month, template_submissions_today, usage_day, usage_month,
			settings, bsp, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`
	_, err = r.systemDB.ExecContext(ctx, query,
		workspace.ID,
		workspace.Name,
		workspace.PlanTier,
		nullString(workspace.PhoneNumberID),
		nullString(workspace.DisplayPhoneNumber),
		nullString(workspace.WABAID),
		workspace.PhoneStatus,
		workspace.QualityRating,
		workspace.MessagingTier,
		workspace.AccountStatus,
		nullString(string(workspace.AccountDecision)),
		workspace.BillingStatus,
		workspace.MessagesToday,
		workspace.MessagesThisMonth,
		workspace.TemplateSubmissionsToday,
		nullString(workspace.UsageDay),
		nullString(workspace.UsageMonth),
		settings,
		bsp,
		workspace.CreatedAt,
		workspace.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}

	// Create the workspace database
	return r.CreateDatabase(ctx, workspace.ID)
}

func (r *workspaceRepository) GetByID(ctx context.Context, id string) (*domain.Workspace, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM workspaces
		WHERE id = $1
	`, workspaceSelectFields)
	workspace, err := domain.ScanWorkspace(r.systemDB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrWorkspaceNotFound{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	return workspace, nil
}

func (r *workspaceRepository) GetByPhoneNumberID(ctx context.Context, phoneNumberID string) (*domain.Workspace, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM workspaces
		WHERE phone_number_id = $1
	`, workspaceSelectFields)
	workspace, err := domain.ScanWorkspace(r.systemDB.QueryRowContext(ctx, query, phoneNumberID))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrWorkspaceNotFound{ID: phoneNumberID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace by phone number id: %w", err)
	}
	return workspace, nil
}

func (r *workspaceRepository) List(ctx context.Context) ([]*domain.Workspace, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM workspaces
		ORDER BY created_at DESC
	`, workspaceSelectFields)
	rows, err := r.systemDB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	defer rows.Close()

	var workspaces []*domain.Workspace
	for rows.Next() {
		workspace, err := domain.ScanWorkspace(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workspace: %w", err)
		}
		workspaces = append(workspaces, workspace)
	}
	return workspaces, rows.Err()
}

func (r *workspaceRepository) Update(ctx context.Context, workspace *domain.Workspace) error {
	workspace.UpdatedAt = time.Now().UTC()

	if err := workspace.Validate(); err != nil {
		return err
	}

	settings, bsp, err := r.marshalJSONColumns(workspace)
	if err != nil {
		return err
	}

	query := `
		UPDATE workspaces
		SET name = $1, plan_tier = $2, phone_number_id = $3, display_phone_number = $4, waba_id = $5,
			phone_status = $6, quality_rating = $7, messaging_tier = $8, account_status = $9,
			account_decision = $10, billing_status = $11, messages_today = $12, messages_this_month = $13,
			template_submissions_today = $14, usage_day = $15, usage_month = $16,
			settings = $17, bsp = $18, updated_at = $19
		WHERE id = $20
	`
	result, err := r.systemDB.ExecContext(ctx, query,
		workspace.Name,
		workspace.PlanTier,
		nullString(workspace.PhoneNumberID),
		nullString(workspace.DisplayPhoneNumber),
		nullString(workspace.WABAID),
		workspace.PhoneStatus,
		workspace.QualityRating,
		workspace.MessagingTier,
		workspace.AccountStatus,
		nullString(string(workspace.AccountDecision)),
		workspace.BillingStatus,
		workspace.MessagesToday,
		workspace.MessagesThisMonth,
		workspace.TemplateSubmissionsToday,
		nullString(workspace.UsageDay),
		nullString(workspace.UsageMonth),
		settings,
		bsp,
		workspace.UpdatedAt,
		workspace.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update workspace: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrWorkspaceNotFound{ID: workspace.ID}
	}
	return nil
}

func (r *workspaceRepository) Delete(ctx context.Context, id string) error {
	// Delete the workspace database first
	if err := r.DeleteDatabase(ctx, id); err != nil {
		return err
	}

	query := `DELETE FROM workspaces WHERE id = $1`
	result, err := r.systemDB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrWorkspaceNotFound{ID: id}
	}
	return nil
}

func (r *workspaceRepository) AssignPhone(ctx context.Context, workspaceID, phoneNumberID, displayPhoneNumber, wabaID string) error {
	// Check the number is not held elsewhere before taking it.
	var holder string
	err := r.systemDB.QueryRowContext(ctx,
		`SELECT id FROM workspaces WHERE phone_number_id = $1 AND id != $2`,
		phoneNumberID, workspaceID,
	).Scan(&holder)
	if err == nil {
		return &domain.ErrPhoneNumberTaken{PhoneNumberID: phoneNumberID, WorkspaceID: holder}
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("failed to check phone number ownership: %w", err)
	}

	query := `
		UPDATE workspaces
		SET phone_number_id = $1, display_phone_number = $2, waba_id = $3,
			phone_status = $4, updated_at = $5
		WHERE id = $6
	`
	result, err := r.systemDB.ExecContext(ctx, query,
		phoneNumberID,
		displayPhoneNumber,
		wabaID,
		domain.PhoneStatusConnected,
		time.Now().UTC(),
		workspaceID,
	)
	if err != nil {
		// The unique index on phone_number_id closes the race the
		// pre-check leaves open.
		if strings.Contains(err.Error(), "unique") || strings.Contains(err.Error(), "duplicate") {
			return &domain.ErrPhoneNumberTaken{PhoneNumberID: phoneNumberID}
		}
		return fmt.Errorf("failed to assign phone number: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrWorkspaceNotFound{ID: workspaceID}
	}
	return nil
}

func (r *workspaceRepository) IncrementMessageUsage(ctx context.Context, workspaceID string, now time.Time) error {
	day := domain.UsageDayKey(now)
	month := domain.UsageMonthKey(now)

	// A stale anchor means a UTC boundary passed: the counter restarts at 1
	// for the new period instead of incrementing.
	query := `
		UPDATE workspaces
		SET messages_today = CASE WHEN usage_day = $1 THEN messages_today + 1 ELSE 1 END,
			template_submissions_today = CASE WHEN usage_day = $1 THEN template_submissions_today ELSE 0 END,
			messages_this_month = CASE WHEN usage_month = $2 THEN messages_this_month + 1 ELSE 1 END,
			usage_day = $1,
			usage_month = $2,
			updated_at = $3
		WHERE id = $4
	`
	result, err := r.systemDB.ExecContext(ctx, query, day, month, now.UTC(), workspaceID)
	if err != nil {
		return fmt.Errorf("failed to increment message usage: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrWorkspaceNotFound{ID: workspaceID}
	}
	return nil
}

func (r *workspaceRepository) IncrementTemplateSubmissions(ctx context.Context, workspaceID string, now time.Time) error {
	day := domain.UsageDayKey(now)

	query := `
		UPDATE workspaces
		SET template_submissions_today = CASE WHEN usage_day = $1 THEN template_submissions_today + 1 ELSE 1 END,
			messages_today = CASE WHEN usage_day = $1 THEN messages_today ELSE 0 END,
			usage_day = $1,
			updated_at = $2
		WHERE id = $3
	`
	result, err := r.systemDB.ExecContext(ctx, query, day, now.UTC(), workspaceID)
	if err != nil {
		return fmt.Errorf("failed to increment template submissions: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrWorkspaceNotFound{ID: workspaceID}
	}
	return nil
}

func (r *workspaceRepository) GetConnection(ctx context.Context, workspaceID string) (*sql.DB, error) {
	// Check if we already have a connection
	if conn, ok := r.connections.Load(workspaceID); ok {
		db := conn.(*sql.DB)
		// Test the connection
		if err := db.PingContext(ctx); err == nil {
			return db, nil
		}
		// If ping fails, remove the connection and create a new one
		r.connections.Delete(workspaceID)
	}

	// Create a new connection
	db, err := database.ConnectToWorkspace(r.dbConfig, workspaceID)
	if err != nil {
		return nil, err
	}

	// Store the connection
	r.connections.Store(workspaceID, db)
	return db, nil
}

func (r *workspaceRepository) GetSystemConnection(ctx context.Context) (*sql.DB, error) {
	if r.systemDB == nil {
		return nil, fmt.Errorf("system database connection is not initialized")
	}
	return r.systemDB, nil
}

func (r *workspaceRepository) CreateDatabase(ctx context.Context, workspaceID string) error {
	if err := database.EnsureWorkspaceDatabaseExists(r.dbConfig, workspaceID); err != nil {
		return fmt.Errorf("failed to create and initialize workspace database: %w", err)
	}
	return nil
}

func (r *workspaceRepository) DeleteDatabase(ctx context.Context, workspaceID string) error {
	// Remove the connection from the pool if it exists
	if conn, ok := r.connections.LoadAndDelete(workspaceID); ok {
		conn.(*sql.DB).Close()
	}

	// Replace hyphens with underscores for PostgreSQL compatibility
	safeID := strings.ReplaceAll(workspaceID, "-", "_")
	dbName := fmt.Sprintf("%s_ws_%s", r.dbConfig.Prefix, safeID)

	// Drop the database
	_, err := r.systemDB.ExecContext(ctx, fmt.Sprintf("DROP DATABASE IF EXISTS %s", dbName))
	if err != nil {
		return fmt.Errorf("failed to delete workspace database: %w", err)
	}

	return nil
}

func (r *workspaceRepository) WithWorkspaceTransaction(ctx context.Context, workspaceID string, fn func(*sql.Tx) error) error {
	db, err := r.GetConnection(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// nullString maps an empty string to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
