package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/Waypost/waypost/internal/domain"
)

const messageSelectFields = `id, conversation_id, contact_id, direction, type, body, status,
		provider_message_id, template, media, meta, campaign_id, failure_reason, status_history,
		queued_at, sent_at, delivered_at, read_at, failed_at, received_at, created_at, updated_at`

// MessageRepository implements domain.MessageRepository against the
// per-workspace databases.
type MessageRepository struct {
	workspaceRepo domain.WorkspaceRepository
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(workspaceRepo domain.WorkspaceRepository) *MessageRepository {
	return &MessageRepository{
		workspaceRepo: workspaceRepo,
	}
}

type messageRow struct {
	Body              sql.NullString
	ProviderMessageID sql.NullString
	Template          []byte
	Media             []byte
	Meta              []byte
	CampaignID        sql.NullString
	FailureReason     sql.NullString
	StatusHistory     []byte
}

func messageInsertArgs(message *domain.Message) (*messageRow, error) {
	row := &messageRow{
		Body:              nullString(message.Body),
		ProviderMessageID: nullString(message.ProviderMessageID),
		CampaignID:        nullString(message.CampaignID),
		FailureReason:     nullString(message.FailureReason),
	}
	var err error
	if message.Template != nil {
		if row.Template, err = json.Marshal(message.Template); err != nil {
			return nil, fmt.Errorf("failed to marshal template descriptor: %w", err)
		}
	}
	if message.Media != nil {
		if row.Media, err = json.Marshal(message.Media); err != nil {
			return nil, fmt.Errorf("failed to marshal media ref: %w", err)
		}
	}
	if message.Meta != nil {
		if row.Meta, err = json.Marshal(message.Meta); err != nil {
			return nil, fmt.Errorf("failed to marshal message meta: %w", err)
		}
	}
	if len(message.StatusHistory) > 0 {
		if row.StatusHistory, err = json.Marshal(message.StatusHistory); err != nil {
			return nil, fmt.Errorf("failed to marshal status history: %w", err)
		}
	}
	return row, nil
}

func nullTimePtr(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

const messageInsertQuery = `
	INSERT INTO messages (id, conversation_id, contact_id, direction, type, body, status,
		provider_message_id, template, media, meta, campaign_id, failure_reason, status_history,
		queued_at, sent_at, delivered_at, read_at, failed_at, received_at, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
`

func (r *MessageRepository) Create(ctx context.Context, workspaceID string, message *domain.Message) error {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}
	return r.create(ctx, workspaceDB, message)
}

func (r *MessageRepository) CreateTx(ctx context.Context, tx *sql.Tx, message *domain.Message) error {
	return r.create(ctx, tx, message)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (r *MessageRepository) create(ctx context.Context, db execer, message *domain.Message) error {
	now := time.Now().UTC()
	if message.CreatedAt.IsZero() {
		message.CreatedAt = now
	}
	message.UpdatedAt = now

	row, err := messageInsertArgs(message)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, messageInsertQuery,
		message.ID,
		message.ConversationID,
		message.ContactID,
		message.Direction,
		message.Type,
		row.Body,
		message.Status,
		row.ProviderMessageID,
		row.Template,
		row.Media,
		row.Meta,
		row.CampaignID,
		row.FailureReason,
		row.StatusHistory,
		nullTimePtr(message.QueuedAt),
		nullTimePtr(message.SentAt),
		nullTimePtr(message.DeliveredAt),
		nullTimePtr(message.ReadAt),
		nullTimePtr(message.FailedAt),
		nullTimePtr(message.ReceivedAt),
		message.CreatedAt,
		message.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *MessageRepository) GetByID(ctx context.Context, workspaceID, id string) (*domain.Message, error) {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM messages WHERE id = $1`, messageSelectFields)
	message, err := domain.ScanMessage(workspaceDB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrMessageNotFound{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return message, nil
}

func (r *MessageRepository) GetByProviderMessageID(ctx context.Context, workspaceID, providerMessageID string) (*domain.Message, error) {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM messages WHERE provider_message_id = $1`, messageSelectFields)
	message, err := domain.ScanMessage(workspaceDB.QueryRowContext(ctx, query, providerMessageID))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrMessageNotFound{ID: providerMessageID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message by provider message id: %w", err)
	}
	return message, nil
}

func (r *MessageRepository) Update(ctx context.Context, workspaceID string, message *domain.Message) error {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}

	message.UpdatedAt = time.Now().UTC()
	row, err := messageInsertArgs(message)
	if err != nil {
		return err
	}

	query := `
		UPDATE messages
		SET status = $1, provider_message_id = $2, failure_reason = $3, status_history = $4,
			queued_at = $5, sent_at = $6, delivered_at = $7, read_at = $8, failed_at = $9,
			received_at = $10, meta = $11, updated_at = $12
		WHERE id = $13
	`
	result, err := workspaceDB.ExecContext(ctx, query,
		message.Status,
		row.ProviderMessageID,
		row.FailureReason,
		row.StatusHistory,
		nullTimePtr(message.QueuedAt),
		nullTimePtr(message.SentAt),
		nullTimePtr(message.DeliveredAt),
		nullTimePtr(message.ReadAt),
		nullTimePtr(message.FailedAt),
		nullTimePtr(message.ReceivedAt),
		row.Meta,
		message.UpdatedAt,
		message.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update message: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrMessageNotFound{ID: message.ID}
	}
	return nil
}

func (r *MessageRepository) List(ctx context.Context, workspaceID string, params domain.MessageListParams) (*domain.MessageListResult, error) {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(messageSelectFields).
		From("messages")

	if params.ConversationID != "" {
		builder = builder.Where(sq.Eq{"conversation_id": params.ConversationID})
	}
	if params.ContactID != "" {
		builder = builder.Where(sq.Eq{"contact_id": params.ContactID})
	}
	if params.CampaignID != "" {
		builder = builder.Where(sq.Eq{"campaign_id": params.CampaignID})
	}
	if params.Direction != "" {
		builder = builder.Where(sq.Eq{"direction": params.Direction})
	}
	if params.Status != "" {
		builder = builder.Where(sq.Eq{"status": params.Status})
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

	// Fetch one extra to determine if there's a next page
	builder = builder.OrderBy("created_at DESC", "id DESC").Limit(uint64(params.Limit + 1))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := workspaceDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		message, err := domain.ScanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}

	result := &domain.MessageListResult{Messages: messages}
	if len(messages) > params.Limit {
		last := messages[params.Limit-1]
		result.NextCursor = encodeCursor(last.CreatedAt, last.ID)
		result.HasMore = true
		result.Messages = messages[:params.Limit]
	}
	return result, nil
}
