package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Waypost/waypost/config"
	"github.com/Waypost/waypost/internal/domain"
)

func newWorkspaceRepo(t *testing.T) (domain.WorkspaceRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewWorkspaceRepository(db, &config.DatabaseConfig{Prefix: "waypost"}), mock
}

func workspaceColumns() []string {
	return []string{
		"id", "name", "plan_tier", "phone_number_id", "display_phone_number", "waba_id",
		"phone_status", "quality_rating", "messaging_tier", "account_status", "account_decision",
		"billing_status", "messages_today", "messages_this_month", "template_submissions_today",
		"usage_day", "usage_month", "settings", "bsp", "created_at", "updated_at",
	}
}

func workspaceRow(rows *sqlmock.Rows, id string, now time.Time) *sqlmock.Rows {
	return rows.AddRow(
		id, "Acme", string(domain.PlanPremium), "phone-1", "+91 99001 12233", "waba-1",
		string(domain.PhoneStatusConnected), string(domain.QualityGreen), string(domain.Tier1K),
		string(domain.AccountStatusActive), nil, string(domain.BillingActive),
		12, 340, 1, "2026-08-25", "2026-08",
		[]byte(`{"owner_email":"owner@acme.test"}`), []byte(`{"connected":true}`), now, now,
	)
}

func TestWorkspaceGetByID(t *testing.T) {
	repo, mock := newWorkspaceRepo(t)
	now := time.Now().UTC().Truncate(time.Millisecond)

	mock.ExpectQuery(`SELECT .+ FROM workspaces\s+WHERE id = \$1`).
		WithArgs("ws1").
		WillReturnRows(workspaceRow(sqlmock.NewRows(workspaceColumns()), "ws1", now))

	ws, err := repo.GetByID(context.Background(), "ws1")
	require.NoError(t, err)

	assert.Equal(t, "ws1", ws.ID)
	assert.Equal(t, "Acme", ws.Name)
	assert.Equal(t, domain.PhoneStatusConnected, ws.PhoneStatus)
	assert.Equal(t, "owner@acme.test", ws.Settings.OwnerEmail)
	assert.Equal(t, 12, ws.MessagesToday)
}

func TestWorkspaceGetByIDNotFound(t *testing.T) {
	repo, mock := newWorkspaceRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM workspaces\s+WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(workspaceColumns()))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.IsType(t, &domain.ErrWorkspaceNotFound{}, err)
}

func TestWorkspaceGetByPhoneNumberID(t *testing.T) {
	repo, mock := newWorkspaceRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT .+ FROM workspaces\s+WHERE phone_number_id = \$1`).
		WithArgs("phone-1").
		WillReturnRows(workspaceRow(sqlmock.NewRows(workspaceColumns()), "ws1", now))

	ws, err := repo.GetByPhoneNumberID(context.Background(), "phone-1")
	require.NoError(t, err)
	assert.Equal(t, "ws1", ws.ID)
}

func TestWorkspaceList(t *testing.T) {
	repo, mock := newWorkspaceRepo(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(workspaceColumns())
	workspaceRow(rows, "ws1", now)
	workspaceRow(rows, "ws2", now)

	mock.ExpectQuery(`SELECT .+ FROM workspaces\s+ORDER BY created_at DESC`).
		WillReturnRows(rows)

	workspaces, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, workspaces, 2)
	assert.Equal(t, "ws2", workspaces[1].ID)
}

func TestWorkspaceUpdateNotFound(t *testing.T) {
	repo, mock := newWorkspaceRepo(t)

	ws := &domain.Workspace{
		ID:            "missing",
		Name:          "Acme",
		PlanTier:      domain.PlanFree,
		PhoneStatus:   domain.PhoneStatusPending,
		BillingStatus: domain.BillingActive,
	}

	mock.ExpectExec(`UPDATE workspaces`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), ws)
	assert.IsType(t, &domain.ErrWorkspaceNotFound{}, err)
}

func TestWorkspaceAssignPhone(t *testing.T) {
	repo, mock := newWorkspaceRepo(t)

	mock.ExpectQuery(`SELECT id FROM workspaces WHERE phone_number_id = \$1 AND id != \$2`).
		WithArgs("phone-1", "ws1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(`UPDATE workspaces\s+SET phone_number_id = \$1`).
		WithArgs("phone-1", "+91 99001 12233", "waba-1",
			string(domain.PhoneStatusConnected), sqlmock.AnyArg(), "ws1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.AssignPhone(context.Background(), "ws1", "phone-1", "+91 99001 12233", "waba-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkspaceAssignPhoneTakenByAnotherWorkspace(t *testing.T) {
	repo, mock := newWorkspaceRepo(t)

	mock.ExpectQuery(`SELECT id FROM workspaces WHERE phone_number_id = \$1 AND id != \$2`).
		WithArgs("phone-1", "ws2").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ws1"))

	err := repo.AssignPhone(context.Background(), "ws2", "phone-1", "", "waba-2")
	require.Error(t, err)
	taken, ok := err.(*domain.ErrPhoneNumberTaken)
	require.True(t, ok)
	assert.Equal(t, "ws1", taken.WorkspaceID)
}

func TestWorkspaceIncrementMessageUsage(t *testing.T) {
	repo, mock := newWorkspaceRepo(t)
	now := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE workspaces\s+SET messages_today = CASE`).
		WithArgs("2026-08-25", "2026-08", now, "ws1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.IncrementMessageUsage(context.Background(), "ws1", now))
}

func TestWorkspaceIncrementTemplateSubmissions(t *testing.T) {
	repo, mock := newWorkspaceRepo(t)
	now := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE workspaces\s+SET template_submissions_today = CASE`).
		WithArgs("2026-08-25", now, "ws1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.IncrementTemplateSubmissions(context.Background(), "ws1", now))
}
