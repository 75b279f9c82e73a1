package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination mocks/mock_webhook_job_repository.go -package mocks github.com/Waypost/waypost/internal/domain WebhookJobRepository

// WebhookJobStatus is the queue state of an admitted webhook delivery.
type WebhookJobStatus string

const (
	WebhookJobPending    WebhookJobStatus = "pending"
	WebhookJobProcessing WebhookJobStatus = "processing"
	WebhookJobCompleted  WebhookJobStatus = "completed"
	WebhookJobFailed     WebhookJobStatus = "failed"
)

// WebhookJobMaxAttempts bounds retries of a webhook job before it is parked
// as failed.
const WebhookJobMaxAttempts = 5

// WebhookJob is one admitted webhook delivery awaiting dispatch. The body is
// the raw provider bytes; the signature header rides along so a worker can
// re-verify if it ever needs to.
type WebhookJob struct {
	ID              string           `json:"id"`
	DeliveryID      string           `json:"delivery_id,omitempty"`
	WebhookLogID    string           `json:"webhook_log_id,omitempty"`
	Body            []byte           `json:"body"`
	SignatureHeader string           `json:"signature_header,omitempty"`
	Status          WebhookJobStatus `json:"status"`
	Attempts        int              `json:"attempts"`
	LastError       string           `json:"last_error,omitempty"`
	NextAttemptAt   time.Time        `json:"next_attempt_at"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// RetryBackoff returns the delay before attempt n (1-based) is retried:
// exponential, 30s base, capped at 15 minutes.
func RetryBackoff(attempt int) time.Duration {
	d := 30 * time.Second
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= 15*time.Minute {
			return 15 * time.Minute
		}
	}
	return d
}

// WebhookJobRepository is the persistent queue between ingress and the
// dispatcher. Claiming uses FOR UPDATE SKIP LOCKED so concurrent workers
// never double-process a job.
type WebhookJobRepository interface {
	Enqueue(ctx context.Context, job *WebhookJob) error
	// ClaimBatch atomically moves up to limit due pending jobs to
	// processing and returns them.
	ClaimBatch(ctx context.Context, limit int) ([]*WebhookJob, error)
	// Complete marks a job done.
	Complete(ctx context.Context, id string) error
	// Fail records an attempt failure. Retryable jobs under the attempt
	// budget go back to pending with a backoff; everything else is parked
	// as failed.
	Fail(ctx context.Context, id string, jobErr string, retryable bool) error
	// DeleteCompleted removes completed jobs older than the given age.
	DeleteCompleted(ctx context.Context, olderThan time.Duration) (int64, error)
}
