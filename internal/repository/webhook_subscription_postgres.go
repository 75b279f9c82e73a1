package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Waypost/waypost/internal/domain"
)

// webhookSubscriptionRepository implements domain.WebhookSubscriptionRepository for PostgreSQL
type webhookSubscriptionRepository struct {
	workspaceRepo domain.WorkspaceRepository
}

// NewWebhookSubscriptionRepository creates a new PostgreSQL webhook subscription repository
func NewWebhookSubscriptionRepository(workspaceRepo domain.WorkspaceRepository) domain.WebhookSubscriptionRepository {
	return &webhookSubscriptionRepository{
		workspaceRepo: workspaceRepo,
	}
}

const webhookSubscriptionSelectFields = `id, name, url, secret, event_types, enabled, description,
		last_delivery_at, success_count, failure_count, created_at, updated_at`

// Create creates a new webhook subscription
func (r *webhookSubscriptionRepository) Create(ctx context.Context, workspaceID string, sub *domain.WebhookSubscription) error {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}

	now := time.Now().UTC()
	sub.CreatedAt = now
	sub.UpdatedAt = now

	eventTypesJSON, err := json.Marshal(sub.EventTypes)
	if err != nil {
		return fmt.Errorf("failed to marshal event types: %w", err)
	}

	query := `
		INSERT INTO webhook_subscriptions (
			id, name, url, secret, event_types, enabled, description,
			success_count, failure_count, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
	`

	_, err = workspaceDB.ExecContext(ctx, query,
		sub.ID,
		sub.Name,
		sub.URL,
		sub.Secret,
		eventTypesJSON,
		sub.Enabled,
		nullString(sub.Description),
		sub.SuccessCount,
		sub.FailureCount,
		sub.CreatedAt,
		sub.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create webhook subscription: %w", err)
	}

	return nil
}

// GetByID retrieves a webhook subscription by ID
func (r *webhookSubscriptionRepository) GetByID(ctx context.Context, workspaceID, id string) (*domain.WebhookSubscription, error) {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM webhook_subscriptions WHERE id = $1`, webhookSubscriptionSelectFields)

	sub, err := scanWebhookSubscription(workspaceDB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrNotFound{Entity: "webhook subscription", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get webhook subscription: %w", err)
	}
	return sub, nil
}

// List retrieves all webhook subscriptions for a workspace
func (r *webhookSubscriptionRepository) List(ctx context.Context, workspaceID string) ([]*domain.WebhookSubscription, error) {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM webhook_subscriptions ORDER BY created_at DESC`, webhookSubscriptionSelectFields)

	rows, err := workspaceDB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list webhook subscriptions: %w", err)
	}
	defer rows.Close()

	var subscriptions []*domain.WebhookSubscription
	for rows.Next() {
		sub, err := scanWebhookSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan webhook subscription: %w", err)
		}
		subscriptions = append(subscriptions, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating webhook subscriptions: %w", err)
	}

	return subscriptions, nil
}

// Update updates an existing webhook subscription
func (r *webhookSubscriptionRepository) Update(ctx context.Context, workspaceID string, sub *domain.WebhookSubscription) error {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}

	sub.UpdatedAt = time.Now().UTC()

	eventTypesJSON, err := json.Marshal(sub.EventTypes)
	if err != nil {
		return fmt.Errorf("failed to marshal event types: %w", err)
	}

	query := `
		UPDATE webhook_subscriptions
		SET name = $2, url = $3, secret = $4, event_types = $5,
			enabled = $6, description = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := workspaceDB.ExecContext(ctx, query,
		sub.ID,
		sub.Name,
		sub.URL,
		sub.Secret,
		eventTypesJSON,
		sub.Enabled,
		nullString(sub.Description),
		sub.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update webhook subscription: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return &domain.ErrNotFound{Entity: "webhook subscription", ID: sub.ID}
	}

	return nil
}

// Delete deletes a webhook subscription
func (r *webhookSubscriptionRepository) Delete(ctx context.Context, workspaceID, id string) error {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}

	result, err := workspaceDB.ExecContext(ctx, `DELETE FROM webhook_subscriptions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete webhook subscription: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return &domain.ErrNotFound{Entity: "webhook subscription", ID: id}
	}

	return nil
}

// IncrementStats bumps the delivery success or failure counter
func (r *webhookSubscriptionRepository) IncrementStats(ctx context.Context, workspaceID, id string, success bool) error {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}

	column := "failure_count"
	if success {
		column = "success_count"
	}
	query := fmt.Sprintf(`UPDATE webhook_subscriptions SET %s = %s + 1 WHERE id = $1`, column, column)

	_, err = workspaceDB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to increment subscription stats: %w", err)
	}
	return nil
}

// UpdateLastDeliveryAt updates the last delivery timestamp
func (r *webhookSubscriptionRepository) UpdateLastDeliveryAt(ctx context.Context, workspaceID, id string, deliveredAt time.Time) error {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}

	query := `UPDATE webhook_subscriptions SET last_delivery_at = $2 WHERE id = $1`

	_, err = workspaceDB.ExecContext(ctx, query, id, deliveredAt)
	if err != nil {
		return fmt.Errorf("failed to update last delivery timestamp: %w", err)
	}

	return nil
}

// scanWebhookSubscription scans a row into a WebhookSubscription
func scanWebhookSubscription(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.WebhookSubscription, error) {
	var sub domain.WebhookSubscription
	var eventTypesJSON []byte
	var description sql.NullString
	var lastDeliveryAt sql.NullTime

	err := scanner.Scan(
		&sub.ID,
		&sub.Name,
		&sub.URL,
		&sub.Secret,
		&eventTypesJSON,
		&sub.Enabled,
		&description,
		&lastDeliveryAt,
		&sub.SuccessCount,
		&sub.FailureCount,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	sub.Description = description.String
	if lastDeliveryAt.Valid {
		sub.LastDeliveryAt = &lastDeliveryAt.Time
	}
	if len(eventTypesJSON) > 0 {
		if err := json.Unmarshal(eventTypesJSON, &sub.EventTypes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event types: %w", err)
		}
	}

	return &sub, nil
}
