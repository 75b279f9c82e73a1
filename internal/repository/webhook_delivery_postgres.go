package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Waypost/waypost/internal/domain"
)

// maxStoredResponseBody caps the endpoint response we keep per attempt.
const maxStoredResponseBody = 1024

const webhookDeliveryColumns = `id, subscription_id, event_type, payload, status,
		attempts, max_attempts, next_attempt_at, last_attempt_at,
		delivered_at, last_response_status, last_response_body, last_error, created_at`

type webhookDeliveryRepository struct {
	workspaceRepo domain.WorkspaceRepository
}

// NewWebhookDeliveryRepository creates a PostgreSQL-backed webhook delivery
// repository. Deliveries live in the workspace database of their subscription.
func NewWebhookDeliveryRepository(workspaceRepo domain.WorkspaceRepository) domain.WebhookDeliveryRepository {
	return &webhookDeliveryRepository{workspaceRepo: workspaceRepo}
}

func (r *webhookDeliveryRepository) conn(ctx context.Context, workspaceID string) (*sql.DB, error) {
	db, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace connection: %w", err)
	}
	return db, nil
}

// Create inserts a delivery, scheduling its first attempt immediately.
func (r *webhookDeliveryRepository) Create(ctx context.Context, workspaceID string, delivery *domain.WebhookDelivery) error {
	db, err := r.conn(ctx, workspaceID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	delivery.CreatedAt = now
	delivery.NextAttemptAt = now

	payloadJSON, err := json.Marshal(delivery.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO webhook_deliveries (
			id, subscription_id, event_type, payload, status,
			attempts, max_attempts, next_attempt_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		delivery.ID, delivery.SubscriptionID, delivery.EventType, payloadJSON,
		delivery.Status, delivery.Attempts, delivery.MaxAttempts,
		delivery.NextAttemptAt, delivery.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create webhook delivery: %w", err)
	}
	return nil
}

// GetPendingForWorkspace returns deliveries whose next attempt is due, oldest
// schedule first. Exhausted deliveries are excluded.
func (r *webhookDeliveryRepository) GetPendingForWorkspace(ctx context.Context, workspaceID string, limit int) ([]*domain.WebhookDelivery, error) {
	db, err := r.conn(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + webhookDeliveryColumns + `
		FROM webhook_deliveries
		WHERE status IN ('pending', 'failed')
			AND attempts < max_attempts
			AND next_attempt_at <= NOW()
		ORDER BY next_attempt_at ASC
		LIMIT $1`

	return r.queryDeliveries(ctx, db, query, limit)
}

// ListBySubscription pages through a subscription's deliveries, newest first,
// and returns the total count alongside the page.
func (r *webhookDeliveryRepository) ListBySubscription(ctx context.Context, workspaceID, subscriptionID string, limit, offset int) ([]*domain.WebhookDelivery, int, error) {
	db, err := r.conn(ctx, workspaceID)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM webhook_deliveries WHERE subscription_id = $1`,
		subscriptionID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count deliveries: %w", err)
	}

	query := `SELECT ` + webhookDeliveryColumns + `
		FROM webhook_deliveries
		WHERE subscription_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	deliveries, err := r.queryDeliveries(ctx, db, query, subscriptionID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return deliveries, total, nil
}

// UpdateStatus records the outcome of an attempt without changing the schedule.
func (r *webhookDeliveryRepository) UpdateStatus(ctx context.Context, workspaceID, id string, status string, attempts int, responseStatus *int, responseBody, lastError *string) error {
	db, err := r.conn(ctx, workspaceID)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		UPDATE webhook_deliveries
		SET status = $2, attempts = $3, last_attempt_at = $4,
			last_response_status = $5, last_response_body = $6, last_error = $7
		WHERE id = $1`,
		id, status, attempts, time.Now().UTC(), responseStatus, responseBody, lastError)
	if err != nil {
		return fmt.Errorf("failed to update delivery status: %w", err)
	}
	return nil
}

// MarkDelivered stamps a successful attempt and freezes the delivery.
func (r *webhookDeliveryRepository) MarkDelivered(ctx context.Context, workspaceID, id string, responseStatus int, responseBody string) error {
	db, err := r.conn(ctx, workspaceID)
	if err != nil {
		return err
	}

	if len(responseBody) > maxStoredResponseBody {
		responseBody = responseBody[:maxStoredResponseBody]
	}

	_, err = db.ExecContext(ctx, `
		UPDATE webhook_deliveries
		SET status = 'delivered', delivered_at = $2, last_attempt_at = $2,
			attempts = attempts + 1, last_response_status = $3, last_response_body = $4
		WHERE id = $1`,
		id, time.Now().UTC(), responseStatus, responseBody)
	if err != nil {
		return fmt.Errorf("failed to mark delivery as delivered: %w", err)
	}
	return nil
}

// ScheduleRetry records a failed attempt and moves next_attempt_at forward.
func (r *webhookDeliveryRepository) ScheduleRetry(ctx context.Context, workspaceID, id string, nextAttempt time.Time, attempts int, responseStatus *int, responseBody, lastError *string) error {
	db, err := r.conn(ctx, workspaceID)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		UPDATE webhook_deliveries
		SET status = 'failed', attempts = $2, next_attempt_at = $3, last_attempt_at = $4,
			last_response_status = $5, last_response_body = $6, last_error = $7
		WHERE id = $1`,
		id, attempts, nextAttempt, time.Now().UTC(),
		responseStatus, truncateBody(responseBody), lastError)
	if err != nil {
		return fmt.Errorf("failed to schedule retry: %w", err)
	}
	return nil
}

// MarkFailed records the final attempt of a delivery that ran out of retries.
// The status stays 'failed'; exclusion from the pending scan comes from the
// attempts budget.
func (r *webhookDeliveryRepository) MarkFailed(ctx context.Context, workspaceID, id string, attempts int, lastError string, responseStatus *int, responseBody *string) error {
	db, err := r.conn(ctx, workspaceID)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		UPDATE webhook_deliveries
		SET status = 'failed', attempts = $2, last_attempt_at = $3,
			last_response_status = $4, last_response_body = $5, last_error = $6
		WHERE id = $1`,
		id, attempts, time.Now().UTC(), responseStatus, truncateBody(responseBody), lastError)
	if err != nil {
		return fmt.Errorf("failed to mark delivery as failed: %w", err)
	}
	return nil
}

func (r *webhookDeliveryRepository) queryDeliveries(ctx context.Context, db *sql.DB, query string, args ...interface{}) ([]*domain.WebhookDelivery, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query deliveries: %w", err)
	}
	defer rows.Close()

	var deliveries []*domain.WebhookDelivery
	for rows.Next() {
		delivery, err := scanWebhookDelivery(rows)
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, delivery)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deliveries: %w", err)
	}
	return deliveries, nil
}

func truncateBody(body *string) *string {
	if body == nil || len(*body) <= maxStoredResponseBody {
		return body
	}
	truncated := (*body)[:maxStoredResponseBody]
	return &truncated
}

func scanWebhookDelivery(rows *sql.Rows) (*domain.WebhookDelivery, error) {
	var (
		delivery           domain.WebhookDelivery
		payloadJSON        []byte
		lastAttemptAt      sql.NullTime
		deliveredAt        sql.NullTime
		lastResponseStatus sql.NullInt32
		lastResponseBody   sql.NullString
		lastError          sql.NullString
	)

	err := rows.Scan(
		&delivery.ID,
		&delivery.SubscriptionID,
		&delivery.EventType,
		&payloadJSON,
		&delivery.Status,
		&delivery.Attempts,
		&delivery.MaxAttempts,
		&delivery.NextAttemptAt,
		&lastAttemptAt,
		&deliveredAt,
		&lastResponseStatus,
		&lastResponseBody,
		&lastError,
		&delivery.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan webhook delivery: %w", err)
	}

	if err := json.Unmarshal(payloadJSON, &delivery.Payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	if lastAttemptAt.Valid {
		delivery.LastAttemptAt = &lastAttemptAt.Time
	}
	if deliveredAt.Valid {
		delivery.DeliveredAt = &deliveredAt.Time
	}
	if lastResponseStatus.Valid {
		status := int(lastResponseStatus.Int32)
		delivery.LastResponseStatus = &status
	}
	if lastResponseBody.Valid {
		delivery.LastResponseBody = &lastResponseBody.String
	}
	if lastError.Valid {
		delivery.LastError = &lastError.String
	}
	return &delivery, nil
}
