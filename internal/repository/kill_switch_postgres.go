package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Waypost/waypost/internal/domain"
)

type killSwitchRepository struct {
	workspaceRepo domain.WorkspaceRepository
}

// NewKillSwitchRepository creates a new kill-switch event repository
func NewKillSwitchRepository(workspaceRepo domain.WorkspaceRepository) domain.KillSwitchRepository {
	return &killSwitchRepository{
		workspaceRepo: workspaceRepo,
	}
}

func (r *killSwitchRepository) Create(ctx context.Context, workspaceID string, event *domain.KillSwitchEvent) error {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to get workspace connection: %w", err)
	}

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if event.ExpiresAt.IsZero() {
		event.ExpiresAt = event.CreatedAt.Add(domain.KillSwitchEventRetention)
	}

	var pausedIDs []byte
	if len(event.PausedCampaignIDs) > 0 {
		pausedIDs, err = json.Marshal(event.PausedCampaignIDs)
		if err != nil {
			return fmt.Errorf("failed to marshal paused campaign ids: %w", err)
		}
	}

	query := `
		INSERT INTO kill_switch_events (id, reason, detail, paused_campaign_ids, paused_batch_count,
			triggered_by, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = workspaceDB.ExecContext(ctx, query,
		event.ID,
		event.Reason,
		nullString(event.Detail),
		pausedIDs,
		event.PausedBatchCount,
		nullString(event.TriggeredBy),
		event.CreatedAt,
		event.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create kill-switch event: %w", err)
	}
	return nil
}

func (r *killSwitchRepository) List(ctx context.Context, workspaceID string, limit int) ([]*domain.KillSwitchEvent, error) {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := `
		SELECT id, reason, detail, paused_campaign_ids, paused_batch_count, triggered_by, created_at, expires_at
		FROM kill_switch_events
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := workspaceDB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list kill-switch events: %w", err)
	}
	defer rows.Close()

	var events []*domain.KillSwitchEvent
	for rows.Next() {
		var event domain.KillSwitchEvent
		var detail, triggeredBy sql.NullString
		var pausedIDs []byte
		if err := rows.Scan(&event.ID, &event.Reason, &detail, &pausedIDs, &event.PausedBatchCount,
			&triggeredBy, &event.CreatedAt, &event.ExpiresAt); err != nil {
			return nil, fmt.Errorf("failed to scan kill-switch event: %w", err)
		}
		event.Detail = detail.String
		event.TriggeredBy = triggeredBy.String
		if len(pausedIDs) > 0 {
			if err := json.Unmarshal(pausedIDs, &event.PausedCampaignIDs); err != nil {
				return nil, fmt.Errorf("failed to unmarshal paused campaign ids: %w", err)
			}
		}
		events = append(events, &event)
	}
	return events, rows.Err()
}

func (r *killSwitchRepository) DeleteExpired(ctx context.Context, workspaceID string) (int64, error) {
	workspaceDB, err := r.workspaceRepo.GetConnection(ctx, workspaceID)
	if err != nil {
		return 0, fmt.Errorf("failed to get workspace connection: %w", err)
	}

	result, err := workspaceDB.ExecContext(ctx, `DELETE FROM kill_switch_events WHERE expires_at < $1`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired kill-switch events: %w", err)
	}
	return result.RowsAffected()
}
