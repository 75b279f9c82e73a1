package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Waypost/waypost/internal/domain"
)

type webhookJobRepository struct {
	systemDB *sql.DB
}

// NewWebhookJobRepository creates the persistent webhook job queue on the
// system database.
func NewWebhookJobRepository(systemDB *sql.DB) domain.WebhookJobRepository {
	return &webhookJobRepository{systemDB: systemDB}
}

func (r *webhookJobRepository) Enqueue(ctx context.Context, job *domain.WebhookJob) error {
	now := time.Now().UTC()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now
	if job.Status == "" {
		job.Status = domain.WebhookJobPending
	}
	if job.NextAttemptAt.IsZero() {
		job.NextAttemptAt = now
	}

	query := `
		INSERT INTO webhook_jobs (id, delivery_id, webhook_log_id, body, signature_header,
			status, attempts, last_error, next_attempt_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.systemDB.ExecContext(ctx, query,
		job.ID,
		nullString(job.DeliveryID),
		nullString(job.WebhookLogID),
		job.Body,
		nullString(job.SignatureHeader),
		job.Status,
		job.Attempts,
		nullString(job.LastError),
		job.NextAttemptAt,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue webhook job: %w", err)
	}
	return nil
}

func (r *webhookJobRepository) ClaimBatch(ctx context.Context, limit int) ([]*domain.WebhookJob, error) {
	if limit <= 0 {
		limit = 20
	}

	// The subquery locks due pending rows with SKIP LOCKED so concurrent
	// workers claim disjoint batches.
	query := `
		UPDATE webhook_jobs
		SET status = 'processing', attempts = attempts + 1, updated_at = $1
		WHERE id IN (
			SELECT id FROM webhook_jobs
			WHERE status = 'pending' AND next_attempt_at <= $1
			ORDER BY next_attempt_at, created_at
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, delivery_id, webhook_log_id, body, signature_header,
			status, attempts, last_error, next_attempt_at, created_at, updated_at
	`
	rows, err := r.systemDB.QueryContext(ctx, query, time.Now().UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to claim webhook jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*domain.WebhookJob
	for rows.Next() {
		var job domain.WebhookJob
		var deliveryID, webhookLogID, signatureHeader, lastError sql.NullString
		if err := rows.Scan(
			&job.ID,
			&deliveryID,
			&webhookLogID,
			&job.Body,
			&signatureHeader,
			&job.Status,
			&job.Attempts,
			&lastError,
			&job.NextAttemptAt,
			&job.CreatedAt,
			&job.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan webhook job: %w", err)
		}
		job.DeliveryID = deliveryID.String
		job.WebhookLogID = webhookLogID.String
		job.SignatureHeader = signatureHeader.String
		job.LastError = lastError.String
		jobs = append(jobs, &job)
	}
	return jobs, rows.Err()
}

func (r *webhookJobRepository) Complete(ctx context.Context, id string) error {
	query := `UPDATE webhook_jobs SET status = 'completed', last_error = NULL, updated_at = $1 WHERE id = $2`
	result, err := r.systemDB.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to complete webhook job: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrNotFound{Entity: "webhook job", ID: id}
	}
	return nil
}

func (r *webhookJobRepository) Fail(ctx context.Context, id string, jobErr string, retryable bool) error {
	var attempts int
	row := r.systemDB.QueryRowContext(ctx, `SELECT attempts FROM webhook_jobs WHERE id = $1`, id)
	if err := row.Scan(&attempts); err != nil {
		if err == sql.ErrNoRows {
			return &domain.ErrNotFound{Entity: "webhook job", ID: id}
		}
		return fmt.Errorf("failed to read webhook job attempts: %w", err)
	}

	now := time.Now().UTC()
	if !retryable || attempts >= domain.WebhookJobMaxAttempts {
		query := `UPDATE webhook_jobs SET status = 'failed', last_error = $1, updated_at = $2 WHERE id = $3`
		if _, err := r.systemDB.ExecContext(ctx, query, jobErr, now, id); err != nil {
			return fmt.Errorf("failed to park webhook job: %w", err)
		}
		return nil
	}

	nextAttempt := now.Add(domain.RetryBackoff(attempts))
	query := `
		UPDATE webhook_jobs
		SET status = 'pending', last_error = $1, next_attempt_at = $2, updated_at = $3
		WHERE id = $4
	`
	if _, err := r.systemDB.ExecContext(ctx, query, jobErr, nextAttempt, now, id); err != nil {
		return fmt.Errorf("failed to reschedule webhook job: %w", err)
	}
	return nil
}

func (r *webhookJobRepository) DeleteCompleted(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	result, err := r.systemDB.ExecContext(ctx,
		`DELETE FROM webhook_jobs WHERE status = 'completed' AND updated_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete completed webhook jobs: %w", err)
	}
	return result.RowsAffected()
}
