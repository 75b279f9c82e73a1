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

const contactSelectFields = `id, phone, name, opt_in, tags, created_at, updated_at`

// ContactRepository implements domain.ContactRepository against the
// per-workspace databases.
type ContactRepository struct {
	workspaceRepo domain.WorkspaceRepository
}

// NewContactRepository creates a new contact repository
func NewContactRepository(workspaceRepo domain.WorkspaceRepository) *ContactRepository {
	return &ContactRepository{
		workspaceRepo: workspaceRepo,
	}
}

func contactJSONColumns(contact *domain.Contact) (optIn, tags []byte, err error) {
	optIn, err = json.Marshal(contact.OptIn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal opt-in state: %w", err)
	}
	if len(contact.Tags) > 0 {
		tags, err = json.Marshal(contact.Tags)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal tags: %w", err)
		}
	}
	return optIn, tags, nil
}

type queryRower interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (r *ContactRepository) Upsert(ctx context.Context, workspaceID string, contact *domain.Contact) (bool, error) {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return false, fmt.Errorf("failed to get workspace connection: %w", err)
	}
	return r.upsert(ctx, workspaceDB, contact)
}

func (r *ContactRepository) UpsertTx(ctx context.Context, tx *sql.Tx, contact *domain.Contact) (bool, error) {
	return r.upsert(ctx, tx, contact)
}

// upsert inserts the contact if the phone is unseen; on conflict the existing
// row wins and is loaded back. The insert-then-select pair makes concurrent
// first messages from the same phone converge on one row.
func (r *ContactRepository) upsert(ctx context.Context, db queryRower, contact *domain.Contact) (bool, error) {
	now := time.Now().UTC()
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = now
	}
	contact.UpdatedAt = now

	optIn, tags, err := contactJSONColumns(contact)
	if err != nil {
		return false, err
	}

	insertQuery := `
		INSERT INTO contacts (id, phone, name, opt_in, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (phone) DO NOTHING
	`
	result, err := db.ExecContext(ctx, insertQuery,
		contact.ID,
		contact.Phone,
		contact.Name,
		optIn,
		tags,
		contact.CreatedAt,
		contact.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to upsert contact: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows > 0 {
		return true, nil
	}

	// Conflict path: load the existing row into the caller's struct.
	selectQuery := fmt.Sprintf(`SELECT %s FROM contacts WHERE phone = $1`, contactSelectFields)
	existing, err := domain.ScanContact(db.QueryRowContext(ctx, selectQuery, contact.Phone))
	if err != nil {
		return false, fmt.Errorf("failed to load existing contact: %w", err)
	}
	*contact = *existing
	return false, nil
}

func (r *ContactRepository) GetByID(ctx context.Context, workspaceID, id string) (*domain.Contact, error) {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM contacts WHERE id = $1`, contactSelectFields)
	contact, err := domain.ScanContact(workspaceDB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrNotFound{Entity: "contact", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return contact, nil
}

func (r *ContactRepository) GetByPhone(ctx context.Context, workspaceID, phone string) (*domain.Contact, error) {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM contacts WHERE phone = $1`, contactSelectFields)
	contact, err := domain.ScanContact(workspaceDB.QueryRowContext(ctx, query, phone))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrNotFound{Entity: "contact", ID: phone}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact by phone: %w", err)
	}
	return contact, nil
}

func (r *ContactRepository) UpdateOptIn(ctx context.Context, workspaceID, contactID string, optIn domain.OptInState) error {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}

	optInJSON, err := json.Marshal(optIn)
	if err != nil {
		return fmt.Errorf("failed to marshal opt-in state: %w", err)
	}

	query := `UPDATE contacts SET opt_in = $1, updated_at = $2 WHERE id = $3`
	result, err := workspaceDB.ExecContext(ctx, query, optInJSON, time.Now().UTC(), contactID)
	if err != nil {
		return fmt.Errorf("failed to update opt-in state: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrNotFound{Entity: "contact", ID: contactID}
	}
	return nil
}

func (r *ContactRepository) List(ctx context.Context, workspaceID string, params domain.ContactListParams) (*domain.ContactListResult, error) {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(contactSelectFields).
		From("contacts")

	if params.Search != "" {
		like := "%" + params.Search + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"phone": like},
			sq.ILike{"name": like},
		})
	}
	if params.OptedOut != nil {
		if *params.OptedOut {
			builder = builder.Where(sq.Expr(`opt_in->>'status' = 'opted_out'`))
		} else {
			builder = builder.Where(sq.Expr(`opt_in->>'status' IS DISTINCT FROM 'opted_out'`))
		}
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

	rows, err := workspaceDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*domain.Contact
	for rows.Next() {
		contact, err := domain.ScanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contact rows: %w", err)
	}

	result := &domain.ContactListResult{Contacts: contacts}
	if len(contacts) > params.Limit {
		last := contacts[params.Limit-1]
		result.NextCursor = encodeCursor(last.CreatedAt, last.ID)
		result.HasMore = true
		result.Contacts = contacts[:params.Limit]
	}
	return result, nil
}
