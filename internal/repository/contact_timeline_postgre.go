package repository

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/Waypost/waypost/internal/domain"
	"github.com/google/uuid"
)

// ContactTimelineRepository implements domain.ContactTimelineRepository
type ContactTimelineRepository struct {
	workspaceRepo domain.WorkspaceRepository
}

// NewContactTimelineRepository creates a new contact timeline repository
func NewContactTimelineRepository(workspaceRepo domain.WorkspaceRepository) *ContactTimelineRepository {
	return &ContactTimelineRepository{
		workspaceRepo: workspaceRepo,
	}
}

// Create appends a timeline entry for a contact
func (r *ContactTimelineRepository) Create(ctx context.Context, workspaceID string, entry *domain.ContactTimelineEntry) error {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}
	return r.create(ctx, workspaceDB, entry)
}

// CreateTx appends a timeline entry within an existing transaction
func (r *ContactTimelineRepository) CreateTx(ctx context.Context, tx *sql.Tx, entry *domain.ContactTimelineEntry) error {
	return r.create(ctx, tx, entry)
}

func (r *ContactTimelineRepository) create(ctx context.Context, db execer, entry *domain.ContactTimelineEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	var changesJSON []byte
	if len(entry.Changes) > 0 {
		var err error
		changesJSON, err = json.Marshal(entry.Changes)
		if err != nil {
			return fmt.Errorf("failed to marshal timeline changes: %w", err)
		}
	}

	var entityID sql.NullString
	if entry.EntityID != nil {
		entityID = sql.NullString{String: *entry.EntityID, Valid: true}
	}

	query := `
		INSERT INTO contact_timeline (id, contact_id, operation, entity_type, entity_id, changes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := db.ExecContext(ctx, query,
		entry.ID,
		entry.ContactID,
		entry.Operation,
		entry.EntityType,
		entityID,
		changesJSON,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create timeline entry: %w", err)
	}
	return nil
}

// List retrieves timeline entries for a contact with cursor-based pagination
func (r *ContactTimelineRepository) List(ctx context.Context, workspaceID string, contactID string, limit int, cursor *string) ([]*domain.ContactTimelineEntry, *string, error) {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	query := `
		SELECT id, contact_id, operation, entity_type, entity_id, changes, created_at
		FROM contact_timeline
		WHERE contact_id = $1
	`

	args := []interface{}{contactID}
	argIndex := 2

	if cursor != nil && *cursor != "" {
		decodedCursor, err := decodeCursor(*cursor)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid cursor: %w", err)
		}

		// Cursor format: "timestamp|id"
		parts := strings.Split(decodedCursor, "|")
		if len(parts) != 2 {
			return nil, nil, fmt.Errorf("invalid cursor format")
		}

		cursorTime, err := time.Parse(time.RFC3339Nano, parts[0])
		if err != nil {
			return nil, nil, fmt.Errorf("invalid cursor timestamp: %w", err)
		}
		cursorID := parts[1]

		query += fmt.Sprintf(" AND (created_at < $%d OR (created_at = $%d AND id < $%d))", argIndex, argIndex+1, argIndex+2)
		args = append(args, cursorTime, cursorTime, cursorID)
		argIndex += 3
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", argIndex)
	args = append(args, limit+1) // Fetch one extra to determine if there's a next page

	rows, err := workspaceDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query timeline: %w", err)
	}
	defer rows.Close()

	var entries []*domain.ContactTimelineEntry
	for rows.Next() {
		entry := &domain.ContactTimelineEntry{}
		var entityID sql.NullString
		var changesJSON []byte

		err := rows.Scan(
			&entry.ID,
			&entry.ContactID,
			&entry.Operation,
			&entry.EntityType,
			&entityID,
			&changesJSON,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan timeline entry: %w", err)
		}

		if entityID.Valid {
			entry.EntityID = &entityID.String
		}
		if changesJSON != nil {
			changes := make(map[string]interface{})
			if err := parseJSON(changesJSON, &changes); err != nil {
				return nil, nil, fmt.Errorf("failed to parse changes JSON: %w", err)
			}
			entry.Changes = changes
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating timeline rows: %w", err)
	}

	var nextCursor *string
	if len(entries) > limit {
		lastEntry := entries[limit-1]
		cursorStr := encodeCursor(lastEntry.CreatedAt, lastEntry.ID)
		nextCursor = &cursorStr
		entries = entries[:limit]
	}

	return entries, nextCursor, nil
}

// encodeCursor creates a cursor string from timestamp and ID
func encodeCursor(timestamp time.Time, id string) string {
	cursorData := fmt.Sprintf("%s|%s", timestamp.Format(time.RFC3339Nano), id)
	return base64.StdEncoding.EncodeToString([]byte(cursorData))
}

// decodeCursor decodes a cursor string
func decodeCursor(cursor string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// parseJSON is a helper function to parse JSONB data
func parseJSON(data []byte, v interface{}) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// DeleteForContact deletes all timeline entries for a contact
func (r *ContactTimelineRepository) DeleteForContact(ctx context.Context, workspaceID string, contactID string) error {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}

	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Delete("contact_timeline").
		Where(sq.Eq{"contact_id": contactID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	_, err = workspaceDB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete timeline entries: %w", err)
	}

	return nil
}
