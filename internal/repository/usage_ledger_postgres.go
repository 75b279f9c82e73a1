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

const usageSelectFields = `id, kind, message_id, template_id, campaign_id, category, quantity,
		billing_day, created_at`

type usageLedgerRepository struct {
	workspaceRepo domain.WorkspaceRepository
}

// NewUsageLedgerRepository creates a new usage ledger repository
func NewUsageLedgerRepository(workspaceRepo domain.WorkspaceRepository) domain.UsageLedgerRepository {
	return &usageLedgerRepository{
		workspaceRepo: workspaceRepo,
	}
}

const usageInsertQuery = `
	INSERT INTO usage_ledger (id, kind, message_id, template_id, campaign_id, category, quantity,
		billing_day, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

func (r *usageLedgerRepository) Append(ctx context.Context, workspaceID string, entry *domain.UsageEntry) error {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}
	return r.append(ctx, workspaceDB, entry)
}

func (r *usageLedgerRepository) AppendTx(ctx context.Context, tx *sql.Tx, entry *domain.UsageEntry) error {
	return r.append(ctx, tx, entry)
}

func (r *usageLedgerRepository) append(ctx context.Context, db execer, entry *domain.UsageEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.BillingDay == "" {
		entry.BillingDay = entry.CreatedAt.UTC().Format("2006-01-02")
	}

	_, err := db.ExecContext(ctx, usageInsertQuery,
		entry.ID,
		entry.Kind,
		nullString(entry.MessageID),
		nullString(entry.TemplateID),
		nullString(entry.CampaignID),
		nullString(entry.Category),
		entry.Quantity,
		entry.BillingDay,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append usage entry: %w", err)
	}
	return nil
}

func scanUsageEntry(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.UsageEntry, error) {
	var e domain.UsageEntry
	var messageID, templateID, campaignID, category sql.NullString
	if err := scanner.Scan(
		&e.ID,
		&e.Kind,
		&messageID,
		&templateID,
		&campaignID,
		&category,
		&e.Quantity,
		&e.BillingDay,
		&e.CreatedAt,
	); err != nil {
		return nil, err
	}
	e.MessageID = messageID.String
	e.TemplateID = templateID.String
	e.CampaignID = campaignID.String
	e.Category = category.String
	return &e, nil
}

func (r *usageLedgerRepository) List(ctx context.Context, workspaceID string, params domain.UsageListParams) (*domain.UsageListResult, error) {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(usageSelectFields).
		From("usage_ledger")

	if params.Kind != "" {
		builder = builder.Where(sq.Eq{"kind": params.Kind})
	}
	if params.Day != "" {
		builder = builder.Where(sq.Eq{"billing_day": params.Day})
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
		return nil, fmt.Errorf("failed to list usage entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.UsageEntry
	for rows.Next() {
		entry, err := scanUsageEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan usage entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating usage rows: %w", err)
	}

	result := &domain.UsageListResult{Entries: entries}
	if len(entries) > params.Limit {
		last := entries[params.Limit-1]
		result.NextCursor = encodeCursor(last.CreatedAt, last.ID)
		result.HasMore = true
		result.Entries = entries[:params.Limit]
	}
	return result, nil
}

func (r *usageLedgerRepository) SummarizeDay(ctx context.Context, workspaceID, day string) (*domain.UsageSummary, error) {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	summary := &domain.UsageSummary{Day: day, ByCategory: map[string]int64{}}

	query := `
		SELECT
			COALESCE(SUM(quantity) FILTER (WHERE kind = 'message_sent'), 0),
			COALESCE(SUM(quantity) FILTER (WHERE kind = 'template_submission'), 0)
		FROM usage_ledger
		WHERE billing_day = $1
	`
	if err := workspaceDB.QueryRowContext(ctx, query, day).Scan(&summary.MessagesSent, &summary.Templates); err != nil {
		return nil, fmt.Errorf("failed to summarize usage day: %w", err)
	}

	categoryQuery := `
		SELECT category, SUM(quantity)
		FROM usage_ledger
		WHERE billing_day = $1 AND kind = 'message_sent' AND category IS NOT NULL
		GROUP BY category
	`
	rows, err := workspaceDB.QueryContext(ctx, categoryQuery, day)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize usage categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category string
		var count int64
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan usage category: %w", err)
		}
		summary.ByCategory[category] = count
	}
	return summary, rows.Err()
}
