package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/pkg/logger"
	"golang.org/x/sync/semaphore"
)

// DispatcherConfig holds configuration for the webhook dispatcher.
type DispatcherConfig struct {
	WorkerCount  int           // Concurrent jobs in flight (default: 5)
	PollInterval time.Duration // How often to poll the queue (default: 1s)
	BatchSize    int           // Jobs claimed per poll (default: 50)

	CircuitBreaker CircuitBreakerConfig
}

// DefaultDispatcherConfig returns sensible defaults
func DefaultDispatcherConfig() *DispatcherConfig {
	return &DispatcherConfig{
		WorkerCount:    5,
		PollInterval:   time.Second,
		BatchSize:      50,
		CircuitBreaker: DefaultCircuitBreakerConfig(),
	}
}

// Dispatcher drains the admitted webhook queue. Each claimed job is
// classified, routed to its workspace and handed to the handler for its
// event type. Handler failures feed the job's retry budget; a run of
// consecutive failures opens the circuit and pauses claiming.
type Dispatcher struct {
	jobRepo       domain.WebhookJobRepository
	logRepo       domain.WebhookLogRepository
	router        domain.TenantRouterInterface
	ingestor      domain.MessageIngestorInterface
	statusApplier domain.StatusApplierInterface
	templateSvc   domain.TemplateServiceInterface
	reactor       domain.AccountReactorInterface
	breaker       *CircuitBreaker
	config        *DispatcherConfig
	logger        logger.Logger

	// Control
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	mu      sync.RWMutex
}

// NewDispatcher creates a new webhook dispatcher
func NewDispatcher(
	jobRepo domain.WebhookJobRepository,
	logRepo domain.WebhookLogRepository,
	router domain.TenantRouterInterface,
	ingestor domain.MessageIngestorInterface,
	statusApplier domain.StatusApplierInterface,
	templateSvc domain.TemplateServiceInterface,
	reactor domain.AccountReactorInterface,
	config *DispatcherConfig,
	log logger.Logger,
) *Dispatcher {
	if config == nil {
		config = DefaultDispatcherConfig()
	}
	if config.WorkerCount <= 0 {
		config.WorkerCount = 5
	}
	if config.PollInterval <= 0 {
		config.PollInterval = time.Second
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 50
	}

	return &Dispatcher{
		jobRepo:       jobRepo,
		logRepo:       logRepo,
		router:        router,
		ingestor:      ingestor,
		statusApplier: statusApplier,
		templateSvc:   templateSvc,
		reactor:       reactor,
		breaker:       NewCircuitBreaker(config.CircuitBreaker),
		config:        config,
		logger:        log,
	}
}

// Start begins draining the webhook queue.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return nil
	}
	d.ctx, d.cancel = context.WithCancel(ctx)
	d.running = true
	d.mu.Unlock()

	d.logger.WithFields(map[string]interface{}{
		"worker_count":  d.config.WorkerCount,
		"poll_interval": d.config.PollInterval.String(),
		"batch_size":    d.config.BatchSize,
	}).Info("Starting webhook dispatcher")

	d.wg.Add(1)
	go d.processLoop()
	return nil
}

// Stop gracefully stops the dispatcher, waiting for in-flight jobs.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	d.cancel()
	d.mu.Unlock()

	d.logger.Info("Stopping webhook dispatcher...")
	d.wg.Wait()
	d.logger.Info("Webhook dispatcher stopped")
}

// IsRunning returns whether the dispatcher is currently running
func (d *Dispatcher) IsRunning() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.running
}

// processLoop polls the queue until the dispatcher stops.
func (d *Dispatcher) processLoop() {
	defer d.wg.Done()

	ticker := time.NewTicker(d.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.ctx.Done():
			return
		case <-ticker.C:
			d.processBatch()
		}
	}
}

// processBatch claims due jobs and fans them out to the worker pool.
func (d *Dispatcher) processBatch() {
	if d.breaker.IsOpen() {
		d.logger.Debug("Dispatch circuit open, skipping poll")
		return
	}

	jobs, err := d.jobRepo.ClaimBatch(d.ctx, d.config.BatchSize)
	if err != nil {
		d.logger.Error(fmt.Sprintf("Failed to claim webhook jobs: %v", err))
		return
	}
	if len(jobs) == 0 {
		return
	}

	sem := semaphore.NewWeighted(int64(d.config.WorkerCount))
	var batchWg sync.WaitGroup
	for _, job := range jobs {
		if err := sem.Acquire(d.ctx, 1); err != nil {
			return
		}
		batchWg.Add(1)
		go func(j *domain.WebhookJob) {
			defer batchWg.Done()
			defer sem.Release(1)
			d.processJob(j)
		}(job)
	}
	batchWg.Wait()
}

// processJob runs every change of one delivery and settles the job.
func (d *Dispatcher) processJob(job *domain.WebhookJob) {
	changes := classifyBody(job.Body)

	var firstErr error
	for _, change := range changes {
		if err := d.handleChange(d.ctx, job, change); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if firstErr != nil {
		d.breaker.RecordFailure()
		retryable := domain.IsRetryableSendError(firstErr)
		d.logger.WithFields(map[string]interface{}{
			"job_id":      job.ID,
			"delivery_id": job.DeliveryID,
			"attempts":    job.Attempts + 1,
			"retryable":   retryable,
			"error":       firstErr.Error(),
		}).Warn("Webhook job failed")

		if err := d.jobRepo.Fail(d.ctx, job.ID, firstErr.Error(), retryable); err != nil {
			d.logger.Error(fmt.Sprintf("Failed to settle failed webhook job: %v", err))
		}
		if !retryable || job.Attempts+1 >= domain.WebhookJobMaxAttempts {
			if err := d.logRepo.MarkProcessed(d.ctx, job.WebhookLogID, firstErr.Error()); err != nil {
				d.logger.Error(fmt.Sprintf("Failed to mark webhook log processed: %v", err))
			}
		}
		return
	}

	d.breaker.RecordSuccess()
	if err := d.logRepo.MarkProcessed(d.ctx, job.WebhookLogID, ""); err != nil {
		d.logger.Error(fmt.Sprintf("Failed to mark webhook log processed: %v", err))
	}
	if err := d.jobRepo.Complete(d.ctx, job.ID); err != nil {
		d.logger.Error(fmt.Sprintf("Failed to complete webhook job: %v", err))
	}
}

// handleChange routes one classified change to its handler. An unrouted
// change is recorded and dropped rather than retried: redelivery will not
// make an unknown phone number id routable.
func (d *Dispatcher) handleChange(ctx context.Context, job *domain.WebhookJob, change *classifiedChange) error {
	switch change.EventType {
	case domain.WebhookEventUnknown, domain.WebhookEventAdUpdate:
		d.logger.WithFields(map[string]interface{}{
			"delivery_id": job.DeliveryID,
			"event_type":  string(change.EventType),
		}).Debug("Ignoring unhandled webhook change")
		return nil
	}

	processed, err := d.logRepo.HasProcessed(ctx, job.DeliveryID, change.EventType)
	if err != nil {
		d.logger.WithField("delivery_id", job.DeliveryID).Warn(fmt.Sprintf("Idempotency check failed, processing anyway: %v", err))
	} else if processed {
		d.logger.WithFields(map[string]interface{}{
			"delivery_id": job.DeliveryID,
			"event_type":  string(change.EventType),
		}).Debug("Skipping already processed webhook change")
		return nil
	}

	// Template lifecycle events carry no phone number id; the template
	// handler resolves the workspace from the namespaced template name.
	if change.EventType == domain.WebhookEventTemplateStatus {
		return d.templateSvc.ApplyStatusWebhook(ctx, change.TemplateUpdate)
	}

	workspace, err := d.resolveWorkspace(ctx, job, change)
	if err != nil || workspace == nil {
		return err
	}

	switch change.EventType {
	case domain.WebhookEventMessage:
		for _, msg := range change.Messages {
			if err := d.ingestor.IngestInbound(ctx, workspace, msg); err != nil {
				return err
			}
		}
	case domain.WebhookEventStatus:
		for _, status := range change.Statuses {
			if err := d.statusApplier.ApplyInboundStatus(ctx, workspace, status); err != nil {
				return err
			}
		}
	case domain.WebhookEventAccountUpdate:
		return d.reactor.ApplyAccountUpdate(ctx, workspace, change.AccountUpdate)
	case domain.WebhookEventCapabilityUpdate:
		return d.reactor.ApplyCapabilityUpdate(ctx, workspace, change.CapabilityUpdate)
	}
	return nil
}

// resolveWorkspace maps the change's phone number id to a workspace. A nil
// workspace with nil error means the change is unroutable and was recorded
// as such.
func (d *Dispatcher) resolveWorkspace(ctx context.Context, job *domain.WebhookJob, change *classifiedChange) (*domain.Workspace, error) {
	if change.PhoneNumberID == "" {
		d.markUnrouted(ctx, job, change, "missing phone number id")
		return nil, nil
	}

	workspace, err := d.router.GetWorkspaceByPhoneID(ctx, change.PhoneNumberID)
	if err != nil {
		var notFound *domain.ErrWorkspaceNotFound
		if errors.As(err, &notFound) {
			d.markUnrouted(ctx, job, change, "no workspace for phone number id")
			return nil, nil
		}
		return nil, err
	}

	if err := d.logRepo.SetRouting(ctx, job.WebhookLogID, workspace.ID, true); err != nil {
		d.logger.WithField("log_id", job.WebhookLogID).Warn("Failed to record webhook routing")
	}
	return workspace, nil
}

func (d *Dispatcher) markUnrouted(ctx context.Context, job *domain.WebhookJob, change *classifiedChange, reason string) {
	d.logger.WithFields(map[string]interface{}{
		"delivery_id":     job.DeliveryID,
		"event_type":      string(change.EventType),
		"phone_number_id": change.PhoneNumberID,
	}).Warn(fmt.Sprintf("Unrouted webhook change: %s", reason))

	if err := d.logRepo.SetRouting(ctx, job.WebhookLogID, "", false); err != nil {
		d.logger.WithField("log_id", job.WebhookLogID).Warn("Failed to record unrouted webhook")
	}
}
