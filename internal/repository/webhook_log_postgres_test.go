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

func newWebhookLogRepo(t *testing.T) (domain.WebhookLogRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewWebhookLogRepository(db), mock
}

func webhookLogRows(logs ...*domain.WebhookLog) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "delivery_id", "workspace_id", "phone_number_id", "event_type",
		"processed", "verified", "bsp_routed", "security_flag", "error",
		"payload", "created_at", "expires_at",
	})
	for _, l := range logs {
		rows.AddRow(l.ID, l.DeliveryID, l.WorkspaceID, l.PhoneNumberID, string(l.EventType),
			l.Processed, l.Verified, l.BSPRouted, l.SecurityFlag, l.Error,
			[]byte(l.Payload), l.CreatedAt, l.ExpiresAt)
	}
	return rows
}

func TestWebhookLogCreateStampsRetention(t *testing.T) {
	repo, mock := newWebhookLogRepo(t)

	log := &domain.WebhookLog{
		ID:            "log-1",
		DeliveryID:    "dlv-1",
		PhoneNumberID: "phone-1",
		EventType:     domain.WebhookEventMessage,
		Verified:      true,
		Payload:       []byte(`{"object":"whatsapp_business_account"}`),
	}

	mock.ExpectExec(`INSERT INTO webhook_logs`).
		WithArgs("log-1", "dlv-1", nil, "phone-1", string(domain.WebhookEventMessage),
			false, true, false, nil, nil, []byte(log.Payload),
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), log))

	assert.False(t, log.CreatedAt.IsZero())
	assert.Equal(t, log.CreatedAt.Add(domain.WebhookLogRetention), log.ExpiresAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookLogMarkProcessed(t *testing.T) {
	repo, mock := newWebhookLogRepo(t)

	mock.ExpectExec(`UPDATE webhook_logs SET processed = true`).
		WithArgs("boom", "log-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkProcessed(context.Background(), "log-1", "boom"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookLogMarkProcessedUnknownID(t *testing.T) {
	repo, mock := newWebhookLogRepo(t)

	mock.ExpectExec(`UPDATE webhook_logs SET processed = true`).
		WithArgs(nil, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkProcessed(context.Background(), "missing", "")
	assert.IsType(t, &domain.ErrNotFound{}, err)
}

func TestWebhookLogSetRouting(t *testing.T) {
	repo, mock := newWebhookLogRepo(t)

	mock.ExpectExec(`UPDATE webhook_logs SET workspace_id = \$1, bsp_routed = \$2`).
		WithArgs("ws1", true, "log-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetRouting(context.Background(), "log-1", "ws1", true))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookLogHasProcessed(t *testing.T) {
	repo, mock := newWebhookLogRepo(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("dlv-1", string(domain.WebhookEventMessage)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	processed, err := repo.HasProcessed(context.Background(), "dlv-1", domain.WebhookEventMessage)
	require.NoError(t, err)
	assert.True(t, processed)
}

func TestWebhookLogGetByID(t *testing.T) {
	repo, mock := newWebhookLogRepo(t)

	now := time.Now().UTC().Truncate(time.Millisecond)
	stored := &domain.WebhookLog{
		ID:            "log-1",
		DeliveryID:    "dlv-1",
		WorkspaceID:   "ws1",
		PhoneNumberID: "phone-1",
		EventType:     domain.WebhookEventStatus,
		Processed:     true,
		Verified:      true,
		BSPRouted:     true,
		Payload:       []byte(`{}`),
		CreatedAt:     now,
		ExpiresAt:     now.Add(domain.WebhookLogRetention),
	}

	mock.ExpectQuery(`SELECT .+ FROM webhook_logs WHERE id = \$1`).
		WithArgs("log-1").
		WillReturnRows(webhookLogRows(stored))

	got, err := repo.GetByID(context.Background(), "log-1")
	require.NoError(t, err)
	assert.Equal(t, stored.ID, got.ID)
	assert.Equal(t, stored.EventType, got.EventType)
	assert.True(t, got.BSPRouted)
}

func TestWebhookLogGetByIDNotFound(t *testing.T) {
	repo, mock := newWebhookLogRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM webhook_logs WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(webhookLogRows())

	_, err := repo.GetByID(context.Background(), "missing")
	assert.IsType(t, &domain.ErrNotFound{}, err)
}

func TestWebhookLogListPaginates(t *testing.T) {
	repo, mock := newWebhookLogRepo(t)

	now := time.Now().UTC()
	logs := make([]*domain.WebhookLog, 3)
	for i := range logs {
		logs[i] = &domain.WebhookLog{
			ID:        "log-" + string(rune('a'+i)),
			EventType: domain.WebhookEventMessage,
			CreatedAt: now.Add(-time.Duration(i) * time.Minute),
			ExpiresAt: now.Add(domain.WebhookLogRetention),
		}
	}

	// Limit 2 asks the database for 3 rows to detect a next page.
	mock.ExpectQuery(`SELECT .+ FROM webhook_logs`).
		WillReturnRows(webhookLogRows(logs...))

	result, err := repo.List(context.Background(), domain.WebhookLogListParams{Limit: 2})
	require.NoError(t, err)

	assert.Len(t, result.Logs, 2)
	assert.True(t, result.HasMore)
	assert.NotEmpty(t, result.NextCursor)
}

func TestWebhookLogListFilters(t *testing.T) {
	repo, mock := newWebhookLogRepo(t)

	processed := true
	mock.ExpectQuery(`SELECT .+ FROM webhook_logs WHERE workspace_id = \$1 AND event_type = \$2 AND processed = \$3`).
		WithArgs("ws1", string(domain.WebhookEventStatus), true).
		WillReturnRows(webhookLogRows())

	result, err := repo.List(context.Background(), domain.WebhookLogListParams{
		WorkspaceID: "ws1",
		EventType:   domain.WebhookEventStatus,
		Processed:   &processed,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Logs)
	assert.False(t, result.HasMore)
}

func TestWebhookLogDeleteExpired(t *testing.T) {
	repo, mock := newWebhookLogRepo(t)

	mock.ExpectExec(`DELETE FROM webhook_logs WHERE expires_at < \$1`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 7))

	deleted, err := repo.DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), deleted)
}
