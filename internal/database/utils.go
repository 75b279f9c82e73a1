package database

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Waypost/waypost/config"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// GetConnectionPoolSettings picks pool sizes for the current environment.
// Tests run many short-lived pools, so they get small ones.
func GetConnectionPoolSettings() (maxOpen, maxIdle int, maxLifetime time.Duration) {
	if os.Getenv("ENVIRONMENT") == "test" || os.Getenv("INTEGRATION_TESTS") == "true" {
		return 10, 5, 2 * time.Minute
	}
	return 25, 25, 20 * time.Minute
}

func buildDSN(cfg *config.DatabaseConfig, dbName string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, dbName, cfg.SSLMode)
}

// GetSystemDSN returns the DSN for the system database.
func GetSystemDSN(cfg *config.DatabaseConfig) string {
	return buildDSN(cfg, cfg.DBName)
}

// GetPostgresDSN returns a DSN for the server's default postgres database,
// used when creating other databases.
func GetPostgresDSN(cfg *config.DatabaseConfig) string {
	return buildDSN(cfg, "postgres")
}

// workspaceDBName derives the per-workspace database name. Hyphens in
// workspace ids become underscores to stay a valid Postgres identifier.
func workspaceDBName(cfg *config.DatabaseConfig, workspaceID string) string {
	return fmt.Sprintf("%s_ws_%s", cfg.Prefix, strings.ReplaceAll(workspaceID, "-", "_"))
}

// GetWorkspaceDSN returns the DSN for a workspace database.
func GetWorkspaceDSN(cfg *config.DatabaseConfig, workspaceID string) string {
	return buildDSN(cfg, workspaceDBName(cfg, workspaceID))
}

// ConnectToWorkspace opens a pooled connection to a workspace database,
// creating and initializing the database first when needed.
func ConnectToWorkspace(cfg *config.DatabaseConfig, workspaceID string) (*sql.DB, error) {
	if err := EnsureWorkspaceDatabaseExists(cfg, workspaceID); err != nil {
		return nil, fmt.Errorf("failed to ensure workspace database exists: %w", err)
	}

	db, err := sql.Open("postgres", GetWorkspaceDSN(cfg, workspaceID))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to workspace database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping workspace database: %w", err)
	}

	maxOpen, maxIdle, maxLifetime := GetConnectionPoolSettings()
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(maxLifetime)
	db.SetConnMaxIdleTime(maxLifetime / 2)

	return db, nil
}

// createDatabaseIfMissing checks pg_database and issues CREATE DATABASE when
// the name is absent. The identifier has its quotes doubled before being
// interpolated.
func createDatabaseIfMissing(db *sql.DB, dbName string) (created bool, err error) {
	var exists bool
	err = db.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", dbName).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check if database exists: %w", err)
	}
	if exists {
		return false, nil
	}

	_, err = db.Exec("CREATE DATABASE " + strings.ReplaceAll(dbName, `"`, `""`))
	if err != nil {
		return false, err
	}
	return true, nil
}

// EnsureWorkspaceDatabaseExists creates and initializes the workspace
// database when it does not exist yet.
func EnsureWorkspaceDatabaseExists(cfg *config.DatabaseConfig, workspaceID string) error {
	db, err := sql.Open("postgres", GetPostgresDSN(cfg))
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL server: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping PostgreSQL server: %w", err)
	}

	created, err := createDatabaseIfMissing(db, workspaceDBName(cfg, workspaceID))
	if err != nil {
		return fmt.Errorf("failed to create workspace database: %w", err)
	}
	if !created {
		return nil
	}

	// Fresh database, run the schema.
	wsDB, err := sql.Open("postgres", GetWorkspaceDSN(cfg, workspaceID))
	if err != nil {
		return fmt.Errorf("failed to connect to new workspace database: %w", err)
	}
	defer wsDB.Close()
	if err := wsDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping new workspace database: %w", err)
	}
	if err := InitializeWorkspaceDatabase(wsDB); err != nil {
		return fmt.Errorf("failed to initialize workspace database schema: %w", err)
	}
	return nil
}

// EnsureSystemDatabaseExists creates the system database when it does not
// exist. Schema setup happens later against the system connection itself.
func EnsureSystemDatabaseExists(dsn string, dbName string) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL server: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping PostgreSQL server: %w", err)
	}

	if _, err := createDatabaseIfMissing(db, dbName); err != nil {
		return fmt.Errorf("failed to create system database: %w", err)
	}
	return nil
}
