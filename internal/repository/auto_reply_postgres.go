package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Waypost/waypost/internal/domain"
)

type autoReplyRepository struct {
	workspaceRepo domain.WorkspaceRepository
}

// NewAutoReplyRepository creates a new auto-reply repository
func NewAutoReplyRepository(workspaceRepo domain.WorkspaceRepository) domain.AutoReplyRepository {
	return &autoReplyRepository{
		workspaceRepo: workspaceRepo,
	}
}

func (r *autoReplyRepository) CreateRule(ctx context.Context, workspaceID string, rule *domain.AutoReply) error {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}

	if err := rule.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	query := `
		INSERT INTO auto_replies (id, keyword, match_type, response, template_id, active, priority, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = workspaceDB.ExecContext(ctx, query,
		rule.ID, rule.Keyword, rule.MatchType, rule.Response, rule.TemplateID, rule.Active, rule.Priority,
		rule.CreatedAt, rule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create auto-reply rule: %w", err)
	}
	return nil
}

func (r *autoReplyRepository) UpdateRule(ctx context.Context, workspaceID string, rule *domain.AutoReply) error {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}

	if err := rule.Validate(); err != nil {
		return err
	}
	rule.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE auto_replies
		SET keyword = $1, match_type = $2, response = $3, template_id = $4, active = $5, priority = $6, updated_at = $7
		WHERE id = $8
	`
	result, err := workspaceDB.ExecContext(ctx, query,
		rule.Keyword, rule.MatchType, rule.Response, rule.TemplateID, rule.Active, rule.Priority, rule.UpdatedAt, rule.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update auto-reply rule: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrNotFound{Entity: "auto-reply rule", ID: rule.ID}
	}
	return nil
}

func (r *autoReplyRepository) DeleteRule(ctx context.Context, workspaceID, id string) error {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}

	result, err := workspaceDB.ExecContext(ctx, `DELETE FROM auto_replies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete auto-reply rule: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrNotFound{Entity: "auto-reply rule", ID: id}
	}
	return nil
}

func (r *autoReplyRepository) ListRules(ctx context.Context, workspaceID string) ([]*domain.AutoReply, error) {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	query := `
		SELECT id, keyword, match_type, response, template_id, active, priority, created_at, updated_at
		FROM auto_replies
		ORDER BY priority DESC, created_at
	`
	rows, err := workspaceDB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list auto-reply rules: %w", err)
	}
	defer rows.Close()

	var rules []*domain.AutoReply
	for rows.Next() {
		var rule domain.AutoReply
		if err := rows.Scan(&rule.ID, &rule.Keyword, &rule.MatchType, &rule.Response,
			&rule.TemplateID, &rule.Active, &rule.Priority, &rule.CreatedAt, &rule.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan auto-reply rule: %w", err)
		}
		rules = append(rules, &rule)
	}
	return rules, rows.Err()
}

func (r *autoReplyRepository) RecentlyReplied(ctx context.Context, workspaceID, autoReplyID, contactID string, window time.Duration) (bool, error) {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return false, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	var exists bool
	query := `
		SELECT EXISTS(
			SELECT 1 FROM auto_reply_logs
			WHERE auto_reply_id = $1 AND contact_id = $2 AND created_at > $3
		)
	`
	cutoff := time.Now().UTC().Add(-window)
	if err := workspaceDB.QueryRowContext(ctx, query, autoReplyID, contactID, cutoff).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check auto-reply recency: %w", err)
	}
	return exists, nil
}

func (r *autoReplyRepository) LogReply(ctx context.Context, workspaceID string, entry *domain.AutoReplyLog) error {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.ExpiresAt.IsZero() {
		entry.ExpiresAt = entry.CreatedAt.Add(domain.AutoReplyLogRetention)
	}

	query := `
		INSERT INTO auto_reply_logs (id, auto_reply_id, contact_id, message_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = workspaceDB.ExecContext(ctx, query,
		entry.ID, entry.AutoReplyID, entry.ContactID, nullString(entry.MessageID),
		entry.CreatedAt, entry.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to log auto-reply: %w", err)
	}
	return nil
}

func (r *autoReplyRepository) DeleteExpiredLogs(ctx context.Context, workspaceID string) (int64, error) {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return 0, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	result, err := workspaceDB.ExecContext(ctx, `DELETE FROM auto_reply_logs WHERE expires_at < $1`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired auto-reply logs: %w", err)
	}
	return result.RowsAffected()
}

func (r *autoReplyRepository) CreateFAQ(ctx context.Context, workspaceID string, faq *domain.FAQ) error {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}

	now := time.Now().UTC()
	faq.CreatedAt = now
	faq.UpdatedAt = now

	query := `
		INSERT INTO faqs (id, question, answer, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = workspaceDB.ExecContext(ctx, query,
		faq.ID, faq.Question, faq.Answer, faq.Active, faq.CreatedAt, faq.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create faq: %w", err)
	}
	return nil
}

func (r *autoReplyRepository) UpdateFAQ(ctx context.Context, workspaceID string, faq *domain.FAQ) error {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}

	faq.UpdatedAt = time.Now().UTC()

	query := `UPDATE faqs SET question = $1, answer = $2, active = $3, updated_at = $4 WHERE id = $5`
	result, err := workspaceDB.ExecContext(ctx, query,
		faq.Question, faq.Answer, faq.Active, faq.UpdatedAt, faq.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update faq: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrNotFound{Entity: "faq", ID: faq.ID}
	}
	return nil
}

func (r *autoReplyRepository) DeleteFAQ(ctx context.Context, workspaceID, id string) error {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}

	result, err := workspaceDB.ExecContext(ctx, `DELETE FROM faqs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete faq: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrNotFound{Entity: "faq", ID: id}
	}
	return nil
}

func (r *autoReplyRepository) ListFAQs(ctx context.Context, workspaceID string) ([]*domain.FAQ, error) {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	query := `
		SELECT id, question, answer, active, match_count, created_at, updated_at
		FROM faqs
		ORDER BY created_at
	`
	rows, err := workspaceDB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list faqs: %w", err)
	}
	defer rows.Close()

	var faqs []*domain.FAQ
	for rows.Next() {
		var faq domain.FAQ
		if err := rows.Scan(&faq.ID, &faq.Question, &faq.Answer, &faq.Active,
			&faq.MatchCount, &faq.CreatedAt, &faq.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan faq: %w", err)
		}
		faqs = append(faqs, &faq)
	}
	return faqs, rows.Err()
}

func (r *autoReplyRepository) IncrementFAQMatch(ctx context.Context, workspaceID, id string) error {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}

	result, err := workspaceDB.ExecContext(ctx,
		`UPDATE faqs SET match_count = match_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment faq match count: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrNotFound{Entity: "faq", ID: id}
	}
	return nil
}
