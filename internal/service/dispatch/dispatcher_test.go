package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/internal/domain/mocks"
	"github.com/Waypost/waypost/pkg/logger"
)

type dispatcherFixture struct {
	jobRepo       *mocks.MockWebhookJobRepository
	logRepo       *mocks.MockWebhookLogRepository
	router        *mocks.MockTenantRouterInterface
	ingestor      *mocks.MockMessageIngestorInterface
	statusApplier *mocks.MockStatusApplierInterface
	templateSvc   *mocks.MockTemplateServiceInterface
	reactor       *mocks.MockAccountReactorInterface
	dispatcher    *Dispatcher
}

func newDispatcherFixture(t *testing.T) *dispatcherFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &dispatcherFixture{
		jobRepo:       mocks.NewMockWebhookJobRepository(ctrl),
		logRepo:       mocks.NewMockWebhookLogRepository(ctrl),
		router:        mocks.NewMockTenantRouterInterface(ctrl),
		ingestor:      mocks.NewMockMessageIngestorInterface(ctrl),
		statusApplier: mocks.NewMockStatusApplierInterface(ctrl),
		templateSvc:   mocks.NewMockTemplateServiceInterface(ctrl),
		reactor:       mocks.NewMockAccountReactorInterface(ctrl),
	}
	f.dispatcher = NewDispatcher(
		f.jobRepo, f.logRepo, f.router, f.ingestor, f.statusApplier, f.templateSvc, f.reactor,
		&DispatcherConfig{WorkerCount: 2, PollInterval: 5 * time.Millisecond, BatchSize: 10},
		logger.NewTestLogger(t),
	)
	return f
}

// claimOnce hands the given job to the first poll and nothing afterwards.
func (f *dispatcherFixture) claimOnce(job *domain.WebhookJob) {
	f.jobRepo.EXPECT().ClaimBatch(gomock.Any(), 10).Return([]*domain.WebhookJob{job}, nil).Times(1)
	f.jobRepo.EXPECT().ClaimBatch(gomock.Any(), 10).Return(nil, nil).AnyTimes()
}

// runUntil starts the dispatcher and blocks until done fires.
func (f *dispatcherFixture) runUntil(t *testing.T, done <-chan struct{}) {
	t.Helper()

	require.NoError(t, f.dispatcher.Start(context.Background()))
	defer f.dispatcher.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher did not settle the job in time")
	}
}

func messageJob() *domain.WebhookJob {
	return &domain.WebhookJob{
		ID:           "job-1",
		DeliveryID:   "delivery-1",
		WebhookLogID: "log-1",
		Body:         []byte(textMessageBody),
		Status:       domain.WebhookJobProcessing,
	}
}

func TestDispatcherProcessesMessageJob(t *testing.T) {
	f := newDispatcherFixture(t)
	workspace := &domain.Workspace{ID: "ws1", PhoneNumberID: "phone-1"}

	f.claimOnce(messageJob())
	f.logRepo.EXPECT().HasProcessed(gomock.Any(), "delivery-1", domain.WebhookEventMessage).Return(false, nil)
	f.router.EXPECT().GetWorkspaceByPhoneID(gomock.Any(), "phone-1").Return(workspace, nil)
	f.logRepo.EXPECT().SetRouting(gomock.Any(), "log-1", "ws1", true).Return(nil)
	f.ingestor.EXPECT().IngestInbound(gomock.Any(), workspace, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *domain.Workspace, msg *domain.InboundMessage) error {
			assert.Equal(t, "wamid.text1", msg.ProviderMessageID)
			return nil
		})
	f.logRepo.EXPECT().MarkProcessed(gomock.Any(), "log-1", "").Return(nil)

	done := make(chan struct{})
	f.jobRepo.EXPECT().Complete(gomock.Any(), "job-1").DoAndReturn(
		func(context.Context, string) error {
			close(done)
			return nil
		})

	f.runUntil(t, done)
	assert.Equal(t, 0, f.dispatcher.breaker.Failures())
}

func TestDispatcherRetryableFailure(t *testing.T) {
	f := newDispatcherFixture(t)
	workspace := &domain.Workspace{ID: "ws1", PhoneNumberID: "phone-1"}

	f.claimOnce(messageJob())
	f.logRepo.EXPECT().HasProcessed(gomock.Any(), "delivery-1", domain.WebhookEventMessage).Return(false, nil)
	f.router.EXPECT().GetWorkspaceByPhoneID(gomock.Any(), "phone-1").Return(workspace, nil)
	f.logRepo.EXPECT().SetRouting(gomock.Any(), "log-1", "ws1", true).Return(nil)
	f.ingestor.EXPECT().IngestInbound(gomock.Any(), workspace, gomock.Any()).
		Return(errors.New("database is down"))

	// Unclassified errors count as transient: the job goes back to the
	// queue and the log stays unprocessed.
	done := make(chan struct{})
	f.jobRepo.EXPECT().Fail(gomock.Any(), "job-1", gomock.Any(), true).DoAndReturn(
		func(context.Context, string, string, bool) error {
			close(done)
			return nil
		})

	f.runUntil(t, done)
	assert.Equal(t, 1, f.dispatcher.breaker.Failures())
}

func TestDispatcherTerminalFailureSettlesLog(t *testing.T) {
	f := newDispatcherFixture(t)
	workspace := &domain.Workspace{ID: "ws1", PhoneNumberID: "phone-1"}

	f.claimOnce(messageJob())
	f.logRepo.EXPECT().HasProcessed(gomock.Any(), "delivery-1", domain.WebhookEventMessage).Return(false, nil)
	f.router.EXPECT().GetWorkspaceByPhoneID(gomock.Any(), "phone-1").Return(workspace, nil)
	f.logRepo.EXPECT().SetRouting(gomock.Any(), "log-1", "ws1", true).Return(nil)
	f.ingestor.EXPECT().IngestInbound(gomock.Any(), workspace, gomock.Any()).
		Return(domain.NewSendError(domain.ErrKindInvalidRecipient, "sender is not a phone number"))

	f.jobRepo.EXPECT().Fail(gomock.Any(), "job-1", gomock.Any(), false).Return(nil)

	done := make(chan struct{})
	f.logRepo.EXPECT().MarkProcessed(gomock.Any(), "log-1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, processErr string) error {
			assert.Contains(t, processErr, "INVALID_RECIPIENT")
			close(done)
			return nil
		})

	f.runUntil(t, done)
}

func TestDispatcherExhaustedRetriesSettleLog(t *testing.T) {
	f := newDispatcherFixture(t)
	workspace := &domain.Workspace{ID: "ws1", PhoneNumberID: "phone-1"}

	job := messageJob()
	job.Attempts = domain.WebhookJobMaxAttempts - 1

	f.claimOnce(job)
	f.logRepo.EXPECT().HasProcessed(gomock.Any(), "delivery-1", domain.WebhookEventMessage).Return(false, nil)
	f.router.EXPECT().GetWorkspaceByPhoneID(gomock.Any(), "phone-1").Return(workspace, nil)
	f.logRepo.EXPECT().SetRouting(gomock.Any(), "log-1", "ws1", true).Return(nil)
	f.ingestor.EXPECT().IngestInbound(gomock.Any(), workspace, gomock.Any()).
		Return(&domain.SendError{Kind: domain.ErrKindMetaAPIError, Code: 503, Message: "upstream unavailable"})

	// Retryable, but the attempt budget is spent.
	f.jobRepo.EXPECT().Fail(gomock.Any(), "job-1", gomock.Any(), true).Return(nil)

	done := make(chan struct{})
	f.logRepo.EXPECT().MarkProcessed(gomock.Any(), "log-1", gomock.Any()).DoAndReturn(
		func(context.Context, string, string) error {
			close(done)
			return nil
		})

	f.runUntil(t, done)
}

func TestDispatcherUnroutedChangeCompletes(t *testing.T) {
	f := newDispatcherFixture(t)

	f.claimOnce(messageJob())
	f.logRepo.EXPECT().HasProcessed(gomock.Any(), "delivery-1", domain.WebhookEventMessage).Return(false, nil)
	f.router.EXPECT().GetWorkspaceByPhoneID(gomock.Any(), "phone-1").
		Return(nil, &domain.ErrWorkspaceNotFound{ID: "phone-1"})
	f.logRepo.EXPECT().SetRouting(gomock.Any(), "log-1", "", false).Return(nil)
	f.logRepo.EXPECT().MarkProcessed(gomock.Any(), "log-1", "").Return(nil)

	done := make(chan struct{})
	f.jobRepo.EXPECT().Complete(gomock.Any(), "job-1").DoAndReturn(
		func(context.Context, string) error {
			close(done)
			return nil
		})

	f.runUntil(t, done)
}

func TestDispatcherSkipsAlreadyProcessedChange(t *testing.T) {
	f := newDispatcherFixture(t)

	f.claimOnce(messageJob())
	f.logRepo.EXPECT().HasProcessed(gomock.Any(), "delivery-1", domain.WebhookEventMessage).Return(true, nil)
	f.logRepo.EXPECT().MarkProcessed(gomock.Any(), "log-1", "").Return(nil)

	done := make(chan struct{})
	f.jobRepo.EXPECT().Complete(gomock.Any(), "job-1").DoAndReturn(
		func(context.Context, string) error {
			close(done)
			return nil
		})

	f.runUntil(t, done)
}

func TestDispatcherRoutesTemplateStatusToTemplateService(t *testing.T) {
	f := newDispatcherFixture(t)

	job := messageJob()
	job.Body = []byte(`{"entry":[{"changes":[{
		"field": "message_template_status_update",
		"value": {"event": "REJECTED", "message_template_name": "ws1--promo", "reason": "ABUSIVE_CONTENT"}
	}]}]}`)

	f.claimOnce(job)
	f.logRepo.EXPECT().HasProcessed(gomock.Any(), "delivery-1", domain.WebhookEventTemplateStatus).Return(false, nil)
	f.templateSvc.EXPECT().ApplyStatusWebhook(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, update *domain.TemplateStatusUpdate) error {
			assert.Equal(t, "REJECTED", update.Event)
			assert.Equal(t, "ws1--promo", update.ProviderName)
			return nil
		})
	f.logRepo.EXPECT().MarkProcessed(gomock.Any(), "log-1", "").Return(nil)

	done := make(chan struct{})
	f.jobRepo.EXPECT().Complete(gomock.Any(), "job-1").DoAndReturn(
		func(context.Context, string) error {
			close(done)
			return nil
		})

	f.runUntil(t, done)
}

func TestDispatcherRoutesAccountUpdateToReactor(t *testing.T) {
	f := newDispatcherFixture(t)
	workspace := &domain.Workspace{ID: "ws1", PhoneNumberID: "phone-1"}

	job := messageJob()
	job.Body = []byte(`{"entry":[{"changes":[{
		"field": "account_update",
		"value": {"phone_number_id": "phone-1", "event": "ACCOUNT_VIOLATION", "account_status": "BANNED"}
	}]}]}`)

	f.claimOnce(job)
	f.logRepo.EXPECT().HasProcessed(gomock.Any(), "delivery-1", domain.WebhookEventAccountUpdate).Return(false, nil)
	f.router.EXPECT().GetWorkspaceByPhoneID(gomock.Any(), "phone-1").Return(workspace, nil)
	f.logRepo.EXPECT().SetRouting(gomock.Any(), "log-1", "ws1", true).Return(nil)
	f.reactor.EXPECT().ApplyAccountUpdate(gomock.Any(), workspace, gomock.Any()).Return(nil)
	f.logRepo.EXPECT().MarkProcessed(gomock.Any(), "log-1", "").Return(nil)

	done := make(chan struct{})
	f.jobRepo.EXPECT().Complete(gomock.Any(), "job-1").DoAndReturn(
		func(context.Context, string) error {
			close(done)
			return nil
		})

	f.runUntil(t, done)
}

func TestDispatcherIgnoresAdUpdates(t *testing.T) {
	f := newDispatcherFixture(t)

	job := messageJob()
	job.Body = []byte(`{"entry":[{"changes":[{"field": "ad_review", "value": {}}]}]}`)

	f.claimOnce(job)
	f.logRepo.EXPECT().MarkProcessed(gomock.Any(), "log-1", "").Return(nil)

	done := make(chan struct{})
	f.jobRepo.EXPECT().Complete(gomock.Any(), "job-1").DoAndReturn(
		func(context.Context, string) error {
			close(done)
			return nil
		})

	f.runUntil(t, done)
}

func TestDispatcherPausesWhileCircuitOpen(t *testing.T) {
	f := newDispatcherFixture(t)

	// No ClaimBatch expectation: an open circuit must skip polling entirely.
	for i := 0; i < DefaultCircuitBreakerConfig().Threshold; i++ {
		f.dispatcher.breaker.RecordFailure()
	}
	require.True(t, f.dispatcher.breaker.IsOpen())

	require.NoError(t, f.dispatcher.Start(context.Background()))
	time.Sleep(50 * time.Millisecond)
	f.dispatcher.Stop()
}

func TestDispatcherStartStopLifecycle(t *testing.T) {
	f := newDispatcherFixture(t)
	f.jobRepo.EXPECT().ClaimBatch(gomock.Any(), 10).Return(nil, nil).AnyTimes()

	assert.False(t, f.dispatcher.IsRunning())
	require.NoError(t, f.dispatcher.Start(context.Background()))
	assert.True(t, f.dispatcher.IsRunning())

	// Starting twice is a no-op.
	require.NoError(t, f.dispatcher.Start(context.Background()))

	f.dispatcher.Stop()
	assert.False(t, f.dispatcher.IsRunning())

	// Stopping twice is safe.
	f.dispatcher.Stop()
}
