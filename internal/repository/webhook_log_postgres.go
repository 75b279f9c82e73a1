package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/Waypost/waypost/internal/domain"
)

const webhookLogSelectFields = `id, delivery_id, workspace_id, phone_number_id, event_type,
		processed, verified, bsp_routed, security_flag, error, payload, created_at, expires_at`

type webhookLogRepository struct {
	systemDB *sql.DB
}

// NewWebhookLogRepository creates a new webhook log repository on the system
// database.
func NewWebhookLogRepository(systemDB *sql.DB) domain.WebhookLogRepository {
	return &webhookLogRepository{systemDB: systemDB}
}

func scanWebhookLog(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.WebhookLog, error) {
	var l domain.WebhookLog
	var deliveryID, workspaceID, phoneNumberID, securityFlag, logErr sql.NullString
	var payload []byte
	if err := scanner.Scan(
		&l.ID,
		&deliveryID,
		&workspaceID,
		&phoneNumberID,
		&l.EventType,
		&l.Processed,
		&l.Verified,
		&l.BSPRouted,
		&securityFlag,
		&logErr,
		&payload,
		&l.CreatedAt,
		&l.ExpiresAt,
	); err != nil {
		return nil, err
	}
	l.DeliveryID = deliveryID.String
	l.WorkspaceID = workspaceID.String
	l.PhoneNumberID = phoneNumberID.String
	l.SecurityFlag = securityFlag.String
	l.Error = logErr.String
	l.Payload = payload
	return &l, nil
}

func (r *webhookLogRepository) Create(ctx context.Context, log *domain.WebhookLog) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	if log.ExpiresAt.IsZero() {
		log.ExpiresAt = log.CreatedAt.Add(domain.WebhookLogRetention)
	}

	query := `
		INSERT INTO webhook_logs (id, delivery_id, workspace_id, phone_number_id, event_type,
			processed, verified, bsp_routed, security_flag, error, payload, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.systemDB.ExecContext(ctx, query,
		log.ID,
		nullString(log.DeliveryID),
		nullString(log.WorkspaceID),
		nullString(log.PhoneNumberID),
		log.EventType,
		log.Processed,
		log.Verified,
		log.BSPRouted,
		nullString(log.SecurityFlag),
		nullString(log.Error),
		[]byte(log.Payload),
		log.CreatedAt,
		log.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create webhook log: %w", err)
	}
	return nil
}

func (r *webhookLogRepository) MarkProcessed(ctx context.Context, id string, processErr string) error {
	query := `UPDATE webhook_logs SET processed = true, error = $1 WHERE id = $2`
	result, err := r.systemDB.ExecContext(ctx, query, nullString(processErr), id)
	if err != nil {
		return fmt.Errorf("failed to mark webhook log processed: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrNotFound{Entity: "webhook log", ID: id}
	}
	return nil
}

func (r *webhookLogRepository) SetRouting(ctx context.Context, id, workspaceID string, routed bool) error {
	query := `UPDATE webhook_logs SET workspace_id = $1, bsp_routed = $2 WHERE id = $3`
	result, err := r.systemDB.ExecContext(ctx, query, nullString(workspaceID), routed, id)
	if err != nil {
		return fmt.Errorf("failed to set webhook log routing: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrNotFound{Entity: "webhook log", ID: id}
	}
	return nil
}

func (r *webhookLogRepository) HasProcessed(ctx context.Context, deliveryID string, eventType domain.WebhookEventType) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS(
			SELECT 1 FROM webhook_logs
			WHERE delivery_id = $1 AND event_type = $2 AND processed = true
		)
	`
	if err := r.systemDB.QueryRowContext(ctx, query, deliveryID, eventType).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check processed webhook log: %w", err)
	}
	return exists, nil
}

func (r *webhookLogRepository) GetByID(ctx context.Context, id string) (*domain.WebhookLog, error) {
	query := fmt.Sprintf(`SELECT %s FROM webhook_logs WHERE id = $1`, webhookLogSelectFields)
	log, err := scanWebhookLog(r.systemDB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrNotFound{Entity: "webhook log", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get webhook log: %w", err)
	}
	return log, nil
}

func (r *webhookLogRepository) List(ctx context.Context, params domain.WebhookLogListParams) (*domain.WebhookLogListResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(webhookLogSelectFields).
		From("webhook_logs")

	if params.WorkspaceID != "" {
		builder = builder.Where(sq.Eq{"workspace_id": params.WorkspaceID})
	}
	if params.EventType != "" {
		builder = builder.Where(sq.Eq{"event_type": params.EventType})
	}
	if params.Processed != nil {
		builder = builder.Where(sq.Eq{"processed": *params.Processed})
	}

	if params.Cursor != "" {
		decoded, err := decodeCursor(params.Cursor)
		if err != nil {
			return nil, fmt.Errorf("invalid cursor: %w", err)
		}
		parts := strings.SplitN(decoded, "|", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid cursor format")
		}
		cursorTime, err := time.Parse(time.RFC3339Nano, parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid cursor timestamp: %w", err)
		}
		builder = builder.Where(
			sq.Or{
				sq.Lt{"created_at": cursorTime},
				sq.And{sq.Eq{"created_at": cursorTime}, sq.Lt{"id": parts[1]}},
			},
		)
	}

	builder = builder.OrderBy("created_at DESC", "id DESC").Limit(uint64(params.Limit + 1))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.systemDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list webhook logs: %w", err)
	}
	defer rows.Close()

	var logs []*domain.WebhookLog
	for rows.Next() {
		log, err := scanWebhookLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan webhook log: %w", err)
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating webhook log rows: %w", err)
	}

	result := &domain.WebhookLogListResult{Logs: logs}
	if len(logs) > params.Limit {
		last := logs[params.Limit-1]
		result.NextCursor = encodeCursor(last.CreatedAt, last.ID)
		result.HasMore = true
		result.Logs = logs[:params.Limit]
	}
	return result, nil
}

func (r *webhookLogRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.systemDB.ExecContext(ctx, `DELETE FROM webhook_logs WHERE expires_at < $1`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired webhook logs: %w", err)
	}
	return result.RowsAffected()
}
