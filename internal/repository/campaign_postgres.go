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

const campaignSelectFields = `id, name, template_id, status, pause_reason, total_recipients,
		sent_count, failed_count, started_at, paused_at, completed_at, created_at, updated_at`

const campaignMessageSelectFields = `id, campaign_id, batch_id, contact_id, status, attempts,
		max_attempts, last_error, provider_message_id, sent_at, created_at, updated_at`

type campaignRepository struct {
	workspaceRepo domain.WorkspaceRepository
}

// NewCampaignRepository creates a new campaign repository
func NewCampaignRepository(workspaceRepo domain.WorkspaceRepository) domain.CampaignRepository {
	return &campaignRepository{
		workspaceRepo: workspaceRepo,
	}
}

func scanCampaign(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.Campaign, error) {
	var c domain.Campaign
	var pauseReason sql.NullString
	var startedAt, pausedAt, completedAt sql.NullTime
	if err := scanner.Scan(
		&c.ID,
		&c.Name,
		&c.TemplateID,
		&c.Status,
		&pauseReason,
		&c.TotalRecipients,
		&c.SentCount,
		&c.FailedCount,
		&startedAt,
		&pausedAt,
		&completedAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	c.PauseReason = pauseReason.String
	for _, pair := range []struct {
		src sql.NullTime
		dst **time.Time
	}{
		{startedAt, &c.StartedAt},
		{pausedAt, &c.PausedAt},
		{completedAt, &c.CompletedAt},
	} {
		if pair.src.Valid {
			t := pair.src.Time
			*pair.dst = &t
		}
	}
	return &c, nil
}

func scanCampaignMessage(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.CampaignMessage, error) {
	var m domain.CampaignMessage
	var batchID, lastError, providerMessageID sql.NullString
	var sentAt sql.NullTime
	if err := scanner.Scan(
		&m.ID,
		&m.CampaignID,
		&batchID,
		&m.ContactID,
		&m.Status,
		&m.Attempts,
		&m.MaxAttempts,
		&lastError,
		&providerMessageID,
		&sentAt,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	m.BatchID = batchID.String
	m.LastError = lastError.String
	m.ProviderMessageID = providerMessageID.String
	if sentAt.Valid {
		t := sentAt.Time
		m.SentAt = &t
	}
	return &m, nil
}

func (r *campaignRepository) Create(ctx context.Context, workspaceID string, campaign *domain.Campaign) error {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}

	now := time.Now().UTC()
	campaign.CreatedAt = now
	campaign.UpdatedAt = now

	query := `
		INSERT INTO campaigns (id, name, template_id, status, pause_reason, total_recipients,
			sent_count, failed_count, started_at, paused_at, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = workspaceDB.ExecContext(ctx, query,
		campaign.ID,
		campaign.Name,
		campaign.TemplateID,
		campaign.Status,
		nullString(campaign.PauseReason),
		campaign.TotalRecipients,
		campaign.SentCount,
		campaign.FailedCount,
		nullTimePtr(campaign.StartedAt),
		nullTimePtr(campaign.PausedAt),
		nullTimePtr(campaign.CompletedAt),
		campaign.CreatedAt,
		campaign.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}
	return nil
}

func (r *campaignRepository) GetByID(ctx context.Context, workspaceID, id string) (*domain.Campaign, error) {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM campaigns WHERE id = $1`, campaignSelectFields)
	campaign, err := scanCampaign(workspaceDB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrCampaignNotFound{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return campaign, nil
}

func (r *campaignRepository) Update(ctx context.Context, workspaceID string, campaign *domain.Campaign) error {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}

	campaign.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE campaigns
		SET name = $1, template_id = $2, status = $3, pause_reason = $4, total_recipients = $5,
			sent_count = $6, failed_count = $7, started_at = $8, paused_at = $9,
			completed_at = $10, updated_at = $11
		WHERE id = $12
	`
	result, err := workspaceDB.ExecContext(ctx, query,
		campaign.Name,
		campaign.TemplateID,
		campaign.Status,
		nullString(campaign.PauseReason),
		campaign.TotalRecipients,
		campaign.SentCount,
		campaign.FailedCount,
		nullTimePtr(campaign.StartedAt),
		nullTimePtr(campaign.PausedAt),
		nullTimePtr(campaign.CompletedAt),
		campaign.UpdatedAt,
		campaign.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update campaign: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrCampaignNotFound{ID: campaign.ID}
	}
	return nil
}

func (r *campaignRepository) List(ctx context.Context, workspaceID string, params domain.CampaignListParams) (*domain.CampaignListResult, error) {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(campaignSelectFields).
		From("campaigns")

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

	builder = builder.OrderBy("created_at DESC", "id DESC").Limit(uint64(params.Limit + 1))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := workspaceDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []*domain.Campaign
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, campaign)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating campaign rows: %w", err)
	}

	result := &domain.CampaignListResult{Campaigns: campaigns}
	if len(campaigns) > params.Limit {
		last := campaigns[params.Limit-1]
		result.NextCursor = encodeCursor(last.CreatedAt, last.ID)
		result.HasMore = true
		result.Campaigns = campaigns[:params.Limit]
	}
	return result, nil
}

func (r *campaignRepository) ListByStatus(ctx context.Context, workspaceID string, status domain.CampaignStatus) ([]*domain.Campaign, error) {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM campaigns WHERE status = $1 ORDER BY created_at`, campaignSelectFields)
	rows, err := workspaceDB.QueryContext(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns by status: %w", err)
	}
	defer rows.Close()

	var campaigns []*domain.Campaign
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, campaign)
	}
	return campaigns, rows.Err()
}

func (r *campaignRepository) CreateBatch(ctx context.Context, workspaceID string, batch *domain.CampaignBatch) error {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}

	now := time.Now().UTC()
	batch.CreatedAt = now
	batch.UpdatedAt = now

	query := `
		INSERT INTO campaign_batches (id, campaign_id, status, sequence, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = workspaceDB.ExecContext(ctx, query,
		batch.ID, batch.CampaignID, batch.Status, batch.Sequence, batch.CreatedAt, batch.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create campaign batch: %w", err)
	}
	return nil
}

func (r *campaignRepository) PauseBatches(ctx context.Context, workspaceID, campaignID string) (int64, error) {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return 0, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	query := `
		UPDATE campaign_batches
		SET status = $1, updated_at = $2
		WHERE campaign_id = $3 AND status IN ($4, $5)
	`
	result, err := workspaceDB.ExecContext(ctx, query,
		domain.BatchPaused,
		time.Now().UTC(),
		campaignID,
		domain.BatchPending,
		domain.BatchQueued,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to pause campaign batches: %w", err)
	}
	return result.RowsAffected()
}

func (r *campaignRepository) ListBatches(ctx context.Context, workspaceID, campaignID string) ([]*domain.CampaignBatch, error) {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	query := `
		SELECT id, campaign_id, status, sequence, created_at, updated_at
		FROM campaign_batches
		WHERE campaign_id = $1
		ORDER BY sequence
	`
	rows, err := workspaceDB.QueryContext(ctx, query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaign batches: %w", err)
	}
	defer rows.Close()

	var batches []*domain.CampaignBatch
	for rows.Next() {
		var b domain.CampaignBatch
		if err := rows.Scan(&b.ID, &b.CampaignID, &b.Status, &b.Sequence, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan campaign batch: %w", err)
		}
		batches = append(batches, &b)
	}
	return batches, rows.Err()
}

func (r *campaignRepository) UpdateBatch(ctx context.Context, workspaceID string, batch *domain.CampaignBatch) error {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}

	batch.UpdatedAt = time.Now().UTC()

	query := `UPDATE campaign_batches SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := workspaceDB.ExecContext(ctx, query, batch.Status, batch.UpdatedAt, batch.ID)
	if err != nil {
		return fmt.Errorf("failed to update campaign batch: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrNotFound{Entity: "campaign batch", ID: batch.ID}
	}
	return nil
}

func (r *campaignRepository) CreateMessage(ctx context.Context, workspaceID string, message *domain.CampaignMessage) (bool, error) {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return false, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	now := time.Now().UTC()
	if message.CreatedAt.IsZero() {
		message.CreatedAt = now
	}
	message.UpdatedAt = now
	if message.MaxAttempts == 0 {
		message.MaxAttempts = domain.CampaignMessageMaxAttempts
	}

	// The unique (campaign_id, contact_id) index makes the insert a no-op
	// when the recipient already has a record.
	query := `
		INSERT INTO campaign_messages (id, campaign_id, batch_id, contact_id, status, attempts,
			max_attempts, last_error, provider_message_id, sent_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (campaign_id, contact_id) DO NOTHING
	`
	result, err := workspaceDB.ExecContext(ctx, query,
		message.ID,
		message.CampaignID,
		nullString(message.BatchID),
		message.ContactID,
		message.Status,
		message.Attempts,
		message.MaxAttempts,
		nullString(message.LastError),
		nullString(message.ProviderMessageID),
		nullTimePtr(message.SentAt),
		message.CreatedAt,
		message.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create campaign message: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows > 0, nil
}

func (r *campaignRepository) GetMessage(ctx context.Context, workspaceID, campaignID, contactID string) (*domain.CampaignMessage, error) {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM campaign_messages
		WHERE campaign_id = $1 AND contact_id = $2
	`, campaignMessageSelectFields)
	message, err := scanCampaignMessage(workspaceDB.QueryRowContext(ctx, query, campaignID, contactID))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrNotFound{Entity: "campaign message", ID: contactID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign message: %w", err)
	}
	return message, nil
}

func (r *campaignRepository) GetMessageByProviderMessageID(ctx context.Context, workspaceID, providerMessageID string) (*domain.CampaignMessage, error) {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM campaign_messages
		WHERE provider_message_id = $1
	`, campaignMessageSelectFields)
	message, err := scanCampaignMessage(workspaceDB.QueryRowContext(ctx, query, providerMessageID))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrNotFound{Entity: "campaign message", ID: providerMessageID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign message by provider message id: %w", err)
	}
	return message, nil
}

func (r *campaignRepository) UpdateMessage(ctx context.Context, workspaceID string, message *domain.CampaignMessage) error {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}

	message.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE campaign_messages
		SET status = $1, attempts = $2, last_error = $3, provider_message_id = $4,
			sent_at = $5, batch_id = $6, updated_at = $7
		WHERE id = $8
	`
	result, err := workspaceDB.ExecContext(ctx, query,
		message.Status,
		message.Attempts,
		nullString(message.LastError),
		nullString(message.ProviderMessageID),
		nullTimePtr(message.SentAt),
		nullString(message.BatchID),
		message.UpdatedAt,
		message.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update campaign message: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrNotFound{Entity: "campaign message", ID: message.ID}
	}
	return nil
}

func (r *campaignRepository) ListPendingMessages(ctx context.Context, workspaceID, campaignID string, limit int) ([]*domain.CampaignMessage, error) {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM campaign_messages
		WHERE campaign_id = $1 AND status = $2
		ORDER BY created_at, id
		LIMIT $3
	`, campaignMessageSelectFields)
	rows, err := workspaceDB.QueryContext(ctx, query, campaignID, domain.CampaignMessagePending, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending campaign messages: %w", err)
	}
	defer rows.Close()

	var messages []*domain.CampaignMessage
	for rows.Next() {
		message, err := scanCampaignMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign message: %w", err)
		}
		messages = append(messages, message)
	}
	return messages, rows.Err()
}

func (r *campaignRepository) CountMessages(ctx context.Context, workspaceID, campaignID string) (pending, sent, failed int, err error) {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'sent'),
			COUNT(*) FILTER (WHERE status = 'failed')
		FROM campaign_messages
		WHERE campaign_id = $1
	`
	if err := workspaceDB.QueryRowContext(ctx, query, campaignID).Scan(&pending, &sent, &failed); err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count campaign messages: %w", err)
	}
	return pending, sent, failed, nil
}
