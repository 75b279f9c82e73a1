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

const conversationSelectFields = `id, contact_id, status, type, started_at, last_activity_at,
		last_customer_message_at, last_message_preview, last_message_type, unread_counts,
		assigned_to, sla_deadline, created_at, updated_at`

// ConversationRepository implements domain.ConversationRepository against the
// per-workspace databases.
type ConversationRepository struct {
	workspaceRepo domain.WorkspaceRepository
}

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(workspaceRepo domain.WorkspaceRepository) *ConversationRepository {
	return &ConversationRepository{
		workspaceRepo: workspaceRepo,
	}
}

func (r *ConversationRepository) UpsertForContact(ctx context.Context, workspaceID string, conversation *domain.Conversation) (bool, error) {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return false, fmt.Errorf("failed to get workspace connection: %w", err)
	}
	return r.upsertForContact(ctx, workspaceDB, conversation)
}

func (r *ConversationRepository) UpsertForContactTx(ctx context.Context, tx *sql.Tx, conversation *domain.Conversation) (bool, error) {
	return r.upsertForContact(ctx, tx, conversation)
}

// upsertForContact inserts the conversation if the contact has none yet; on
// conflict the existing row is loaded back for the caller to mutate and
// update. One conversation per contact is a storage invariant.
func (r *ConversationRepository) upsertForContact(ctx context.Context, db queryRower, conversation *domain.Conversation) (bool, error) {
	now := time.Now().UTC()
	if conversation.CreatedAt.IsZero() {
		conversation.CreatedAt = now
	}
	conversation.UpdatedAt = now

	var unreadCounts []byte
	var err error
	if len(conversation.UnreadCounts) > 0 {
		unreadCounts, err = json.Marshal(conversation.UnreadCounts)
		if err != nil {
			return false, fmt.Errorf("failed to marshal unread counts: %w", err)
		}
	}

	insertQuery := `
		INSERT INTO conversations (id, contact_id, status, type, started_at, last_activity_at,
			last_customer_message_at, last_message_preview, last_message_type, unread_counts,
			assigned_to, sla_deadline, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (contact_id) DO NOTHING
	`
	result, err := db.ExecContext(ctx, insertQuery,
		conversation.ID,
		conversation.ContactID,
		conversation.Status,
		conversation.Type,
		conversation.StartedAt,
		conversation.LastActivityAt,
		nullTimePtr(conversation.LastCustomerMessageAt),
		nullString(conversation.LastMessagePreview),
		nullString(conversation.LastMessageType),
		unreadCounts,
		nullString(conversation.AssignedTo),
		nullTimePtr(conversation.SLADeadline),
		conversation.CreatedAt,
		conversation.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to upsert conversation: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows > 0 {
		return true, nil
	}

	selectQuery := fmt.Sprintf(`SELECT %s FROM conversations WHERE contact_id = $1`, conversationSelectFields)
	existing, err := domain.ScanConversation(db.QueryRowContext(ctx, selectQuery, conversation.ContactID))
	if err != nil {
		return false, fmt.Errorf("failed to load existing conversation: %w", err)
	}
	*conversation = *existing
	return false, nil
}

func (r *ConversationRepository) GetByID(ctx context.Context, workspaceID, id string) (*domain.Conversation, error) {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM conversations WHERE id = $1`, conversationSelectFields)
	conversation, err := domain.ScanConversation(workspaceDB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrConversationNotFound{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return conversation, nil
}

func (r *ConversationRepository) GetByContactID(ctx context.Context, workspaceID, contactID string) (*domain.Conversation, error) {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM conversations WHERE contact_id = $1`, conversationSelectFields)
	conversation, err := domain.ScanConversation(workspaceDB.QueryRowContext(ctx, query, contactID))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrConversationNotFound{ID: contactID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation by contact id: %w", err)
	}
	return conversation, nil
}

func (r *ConversationRepository) Update(ctx context.Context, workspaceID string, conversation *domain.Conversation) error {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}

	conversation.UpdatedAt = time.Now().UTC()

	var unreadCounts []byte
	if len(conversation.UnreadCounts) > 0 {
		unreadCounts, err = json.Marshal(conversation.UnreadCounts)
		if err != nil {
			return fmt.Errorf("failed to marshal unread counts: %w", err)
		}
	}

	query := `
		UPDATE conversations
		SET status = $1, type = $2, started_at = $3, last_activity_at = $4,
			last_customer_message_at = $5, last_message_preview = $6, last_message_type = $7,
			unread_counts = $8, assigned_to = $9, sla_deadline = $10, updated_at = $11
		WHERE id = $12
	`
	result, err := workspaceDB.ExecContext(ctx, query,
		conversation.Status,
		conversation.Type,
		conversation.StartedAt,
		conversation.LastActivityAt,
		nullTimePtr(conversation.LastCustomerMessageAt),
		nullString(conversation.LastMessagePreview),
		nullString(conversation.LastMessageType),
		unreadCounts,
		nullString(conversation.AssignedTo),
		nullTimePtr(conversation.SLADeadline),
		conversation.UpdatedAt,
		conversation.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update conversation: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrConversationNotFound{ID: conversation.ID}
	}
	return nil
}

func (r *ConversationRepository) List(ctx context.Context, workspaceID string, params domain.ConversationListParams) (*domain.ConversationListResult, error) {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(conversationSelectFields).
		From("conversations")

	if params.Status != "" {
		builder = builder.Where(sq.Eq{"status": params.Status})
	}
	if params.AssignedTo != "" {
		builder = builder.Where(sq.Eq{"assigned_to": params.AssignedTo})
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
				sq.Lt{"last_activity_at": cursorTime},
				sq.And{sq.Eq{"last_activity_at": cursorTime}, sq.Lt{"id": parts[1]}},
			},
		)
	}

	builder = builder.OrderBy("last_activity_at DESC", "id DESC").Limit(uint64(params.Limit + 1))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := workspaceDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	var conversations []*domain.Conversation
	for rows.Next() {
		conversation, err := domain.ScanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, conversation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversation rows: %w", err)
	}

	result := &domain.ConversationListResult{Conversations: conversations}
	if len(conversations) > params.Limit {
		last := conversations[params.Limit-1]
		result.NextCursor = encodeCursor(last.LastActivityAt, last.ID)
		result.HasMore = true
		result.Conversations = conversations[:params.Limit]
	}
	return result, nil
}
