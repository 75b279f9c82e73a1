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

const templateSelectFields = `id, workspace_id, name, language, category, components, status,
		provider_template_id, provider_name, rejection_reason, rejection_category, rejection_help,
		history, last_webhook_event_id, last_webhook_event, last_webhook_update,
		original_template_id, active, created_at, updated_at`

type templateRepository struct {
	workspaceRepo domain.WorkspaceRepository
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(workspaceRepo domain.WorkspaceRepository) domain.TemplateRepository {
	return &templateRepository{
		workspaceRepo: workspaceRepo,
	}
}

func templateJSONColumns(template *domain.Template) (components, history []byte, err error) {
	components, err = json.Marshal(template.Components)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal components: %w", err)
	}
	if len(template.History) > 0 {
		history, err = json.Marshal(template.History)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal approval history: %w", err)
		}
	}
	return components, history, nil
}

func (r *templateRepository) Create(ctx context.Context, workspaceID string, template *domain.Template) error {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}

	now := time.Now().UTC()
	template.CreatedAt = now
	template.UpdatedAt = now

	components, history, err := templateJSONColumns(template)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO templates (id, workspace_id, name, language, category, components, status,
			provider_template_id, provider_name, rejection_reason, rejection_category, rejection_help,
			history, last_webhook_event_id, last_webhook_event, last_webhook_update,
			original_template_id, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`
	_, err = workspaceDB.ExecContext(ctx, query,
		template.ID,
		template.WorkspaceID,
		template.Name,
		template.Language,
		template.Category,
		components,
		template.Status,
		nullString(template.ProviderTemplateID),
		nullString(template.ProviderName),
		nullString(template.RejectionReason),
		nullString(string(template.RejectionCategory)),
		nullString(template.RejectionHelp),
		history,
		nullString(template.LastWebhookEventID),
		nullString(template.LastWebhookEvent),
		nullTimePtr(template.LastWebhookUpdate),
		nullString(template.OriginalTemplateID),
		template.Active,
		template.CreatedAt,
		template.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}
	return nil
}

func (r *templateRepository) getOne(ctx context.Context, workspaceID, where, arg string) (*domain.Template, error) {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM templates WHERE %s = $1`, templateSelectFields, where)
	template, err := domain.ScanTemplate(workspaceDB.QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrTemplateNotFound{ID: arg}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return template, nil
}

func (r *templateRepository) GetByID(ctx context.Context, workspaceID, id string) (*domain.Template, error) {
	return r.getOne(ctx, workspaceID, "id", id)
}

func (r *templateRepository) GetByName(ctx context.Context, workspaceID, name, language string) (*domain.Template, error) {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	// An empty language matches the most recent active version in any
	// language.
	query := fmt.Sprintf(`
		SELECT %s FROM templates
		WHERE name = $1 AND ($2 = '' OR language = $2) AND active = true
		ORDER BY created_at DESC
		LIMIT 1
	`, templateSelectFields)
	template, err := domain.ScanTemplate(workspaceDB.QueryRowContext(ctx, query, name, language))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrTemplateNotFound{ID: name}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template by name: %w", err)
	}
	return template, nil
}

func (r *templateRepository) GetByProviderTemplateID(ctx context.Context, workspaceID, providerTemplateID string) (*domain.Template, error) {
	return r.getOne(ctx, workspaceID, "provider_template_id", providerTemplateID)
}

func (r *templateRepository) GetByProviderName(ctx context.Context, workspaceID, providerName string) (*domain.Template, error) {
	return r.getOne(ctx, workspaceID, "provider_name", providerName)
}

func (r *templateRepository) Update(ctx context.Context, workspaceID string, template *domain.Template) error {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}

	template.UpdatedAt = time.Now().UTC()

	components, history, err := templateJSONColumns(template)
	if err != nil {
		return err
	}

	query := `
		UPDATE templates
		SET name = $1, language = $2, category = $3, components = $4, status = $5,
			provider_template_id = $6, provider_name = $7, rejection_reason = $8,
			rejection_category = $9, rejection_help = $10, history = $11,
			last_webhook_event_id = $12, last_webhook_event = $13, last_webhook_update = $14,
			original_template_id = $15, active = $16, updated_at = $17
		WHERE id = $18
	`
	result, err := workspaceDB.ExecContext(ctx, query,
		template.Name,
		template.Language,
		template.Category,
		components,
		template.Status,
		nullString(template.ProviderTemplateID),
		nullString(template.ProviderName),
		nullString(template.RejectionReason),
		nullString(string(template.RejectionCategory)),
		nullString(template.RejectionHelp),
		history,
		nullString(template.LastWebhookEventID),
		nullString(template.LastWebhookEvent),
		nullTimePtr(template.LastWebhookUpdate),
		nullString(template.OriginalTemplateID),
		template.Active,
		template.UpdatedAt,
		template.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrTemplateNotFound{ID: template.ID}
	}
	return nil
}

func (r *templateRepository) List(ctx context.Context, workspaceID string, params domain.TemplateListParams) (*domain.TemplateListResult, error) {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(templateSelectFields).
		From("templates").
		Where(sq.Eq{"active": true})

	if params.Status != "" {
		builder = builder.Where(sq.Eq{"status": params.Status})
	}
	if params.Category != "" {
		builder = builder.Where(sq.Eq{"category": params.Category})
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
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var templates []*domain.Template
	for rows.Next() {
		template, err := domain.ScanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, template)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating template rows: %w", err)
	}

	result := &domain.TemplateListResult{Templates: templates}
	if len(templates) > params.Limit {
		last := templates[params.Limit-1]
		result.NextCursor = encodeCursor(last.CreatedAt, last.ID)
		result.HasMore = true
		result.Templates = templates[:params.Limit]
	}
	return result, nil
}
