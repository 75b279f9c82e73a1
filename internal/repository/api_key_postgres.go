package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Waypost/waypost/internal/domain"
)

const apiKeySelectFields = `id, workspace_id, name, prefix, hash, role, last_used_at, revoked_at, created_at`

type apiKeyRepository struct {
	systemDB *sql.DB
}

// NewAPIKeyRepository creates an API key repository on the system database.
func NewAPIKeyRepository(systemDB *sql.DB) domain.APIKeyRepository {
	return &apiKeyRepository{systemDB: systemDB}
}

func scanAPIKey(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.APIKey, error) {
	var key domain.APIKey
	var workspaceID sql.NullString
	var lastUsedAt, revokedAt sql.NullTime
	if err := scanner.Scan(
		&key.ID,
		&workspaceID,
		&key.Name,
		&key.Prefix,
		&key.Hash,
		&key.Role,
		&lastUsedAt,
		&revokedAt,
		&key.CreatedAt,
	); err != nil {
		return nil, err
	}
	key.WorkspaceID = workspaceID.String
	if lastUsedAt.Valid {
		key.LastUsedAt = &lastUsedAt.Time
	}
	if revokedAt.Valid {
		key.RevokedAt = &revokedAt.Time
	}
	return &key, nil
}

func (r *apiKeyRepository) Create(ctx context.Context, key *domain.APIKey) error {
	if key.CreatedAt.IsZero() {
		key.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO api_keys (id, workspace_id, name, prefix, hash, role, last_used_at, revoked_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.systemDB.ExecContext(ctx, query,
		key.ID,
		nullString(key.WorkspaceID),
		key.Name,
		key.Prefix,
		key.Hash,
		key.Role,
		nullTimePtr(key.LastUsedAt),
		nullTimePtr(key.RevokedAt),
		key.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create api key: %w", err)
	}
	return nil
}

// GetByPrefix returns every key sharing a prefix. Prefixes are not unique;
// the caller compares hashes to find the matching credential.
func (r *apiKeyRepository) GetByPrefix(ctx context.Context, prefix string) ([]*domain.APIKey, error) {
	query := fmt.Sprintf(`SELECT %s FROM api_keys WHERE prefix = $1 AND revoked_at IS NULL`, apiKeySelectFields)
	rows, err := r.systemDB.QueryContext(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to get api keys by prefix: %w", err)
	}
	defer rows.Close()

	var keys []*domain.APIKey
	for rows.Next() {
		key, err := scanAPIKey(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan api key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (r *apiKeyRepository) GetByID(ctx context.Context, id string) (*domain.APIKey, error) {
	query := fmt.Sprintf(`SELECT %s FROM api_keys WHERE id = $1`, apiKeySelectFields)
	key, err := scanAPIKey(r.systemDB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrNotFound{Entity: "api key", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get api key: %w", err)
	}
	return key, nil
}

func (r *apiKeyRepository) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	_, err := r.systemDB.ExecContext(ctx, `UPDATE api_keys SET last_used_at = $1 WHERE id = $2`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to touch api key: %w", err)
	}
	return nil
}

func (r *apiKeyRepository) Revoke(ctx context.Context, id string, at time.Time) error {
	result, err := r.systemDB.ExecContext(ctx,
		`UPDATE api_keys SET revoked_at = $1 WHERE id = $2 AND revoked_at IS NULL`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to revoke api key: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrNotFound{Entity: "api key", ID: id}
	}
	return nil
}

func (r *apiKeyRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]*domain.APIKey, error) {
	query := fmt.Sprintf(`SELECT %s FROM api_keys WHERE workspace_id = $1 ORDER BY created_at DESC`, apiKeySelectFields)
	rows, err := r.systemDB.QueryContext(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list api keys: %w", err)
	}
	defer rows.Close()

	var keys []*domain.APIKey
	for rows.Next() {
		key, err := scanAPIKey(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan api key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
