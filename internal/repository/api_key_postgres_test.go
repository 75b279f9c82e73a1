package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Waypost/waypost/internal/domain"
)

func newAPIKeyRepo(t *testing.T) (domain.APIKeyRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAPIKeyRepository(db), mock
}

func apiKeyColumns() []string {
	return []string{"id", "workspace_id", "name", "prefix", "hash", "role", "last_used_at", "revoked_at", "created_at"}
}

func TestAPIKeyCreateStampsCreatedAt(t *testing.T) {
	repo, mock := newAPIKeyRepo(t)

	key := &domain.APIKey{
		ID:          "key-1",
		WorkspaceID: "ws1",
		Name:        "ci pipeline",
		Prefix:      "wp_abc12",
		Hash:        "$2a$14$hash",
		Role:        domain.RoleWorkspace,
	}

	mock.ExpectExec(`INSERT INTO api_keys`).
		WithArgs("key-1", "ws1", "ci pipeline", "wp_abc12", "$2a$14$hash",
			string(domain.RoleWorkspace), nil, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), key))

	assert.False(t, key.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAPIKeyGetByPrefixSkipsRevoked(t *testing.T) {
	repo, mock := newAPIKeyRepo(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows(apiKeyColumns()).
		AddRow("key-1", "ws1", "ci pipeline", "wp_abc12", "hash-1", string(domain.RoleWorkspace), nil, nil, now).
		AddRow("key-2", "ws2", "staging", "wp_abc12", "hash-2", string(domain.RoleAdmin), now, nil, now)

	mock.ExpectQuery(`SELECT .+ FROM api_keys WHERE prefix = \$1 AND revoked_at IS NULL`).
		WithArgs("wp_abc12").
		WillReturnRows(rows)

	keys, err := repo.GetByPrefix(context.Background(), "wp_abc12")
	require.NoError(t, err)

	require.Len(t, keys, 2)
	assert.Equal(t, "ws1", keys[0].WorkspaceID)
	assert.Nil(t, keys[0].LastUsedAt)
	require.NotNil(t, keys[1].LastUsedAt)
	assert.Equal(t, domain.RoleAdmin, keys[1].Role)
}

func TestAPIKeyGetByID(t *testing.T) {
	repo, mock := newAPIKeyRepo(t)

	now := time.Now().UTC()
	revoked := now.Add(-time.Hour)
	mock.ExpectQuery(`SELECT .+ FROM api_keys WHERE id = \$1`).
		WithArgs("key-1").
		WillReturnRows(sqlmock.NewRows(apiKeyColumns()).
			AddRow("key-1", "ws1", "ci pipeline", "wp_abc12", "hash-1", string(domain.RoleWorkspace), nil, revoked, now))

	key, err := repo.GetByID(context.Background(), "key-1")
	require.NoError(t, err)

	assert.Equal(t, "key-1", key.ID)
	require.NotNil(t, key.RevokedAt)
	assert.False(t, key.IsActive())
}

func TestAPIKeyGetByIDNotFound(t *testing.T) {
	repo, mock := newAPIKeyRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM api_keys WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(apiKeyColumns()))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.IsType(t, &domain.ErrNotFound{}, err)
}

func TestAPIKeyRevoke(t *testing.T) {
	repo, mock := newAPIKeyRepo(t)

	mock.ExpectExec(`UPDATE api_keys SET revoked_at = \$1 WHERE id = \$2 AND revoked_at IS NULL`).
		WithArgs(sqlmock.AnyArg(), "key-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Revoke(context.Background(), "key-1", time.Now()))
}

func TestAPIKeyRevokeAlreadyRevoked(t *testing.T) {
	repo, mock := newAPIKeyRepo(t)

	mock.ExpectExec(`UPDATE api_keys SET revoked_at = \$1`).
		WithArgs(sqlmock.AnyArg(), "key-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Revoke(context.Background(), "key-1", time.Now())
	assert.IsType(t, &domain.ErrNotFound{}, err)
}

func TestAPIKeyListByWorkspace(t *testing.T) {
	repo, mock := newAPIKeyRepo(t)

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT .+ FROM api_keys WHERE workspace_id = \$1 ORDER BY created_at DESC`).
		WithArgs("ws1").
		WillReturnRows(sqlmock.NewRows(apiKeyColumns()).
			AddRow("key-2", "ws1", "staging", "wp_def34", "hash-2", string(domain.RoleWorkspace), nil, nil, now).
			AddRow("key-1", "ws1", "ci pipeline", "wp_abc12", "hash-1", string(domain.RoleWorkspace), nil, nil, now.Add(-time.Hour)))

	keys, err := repo.ListByWorkspace(context.Background(), "ws1")
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.Equal(t, "key-2", keys[0].ID)
}
