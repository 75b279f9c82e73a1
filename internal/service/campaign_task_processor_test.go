package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/internal/domain/mocks"
	"github.com/Waypost/waypost/pkg/logger"
)

type campaignRunFixture struct {
	workspaceRepo *mocks.MockWorkspaceRepository
	campaignRepo  *mocks.MockCampaignRepository
	templateRepo  *mocks.MockTemplateRepository
	contactRepo   *mocks.MockContactRepository
	messageSvc    *mocks.MockMessageServiceInterface
	killSwitch    *mocks.MockKillSwitchServiceInterface
	eventBus      *mocks.MockEventBus
	processor     *CampaignTaskProcessor
}

func setupCampaignRunner(t *testing.T) *campaignRunFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &campaignRunFixture{
		workspaceRepo: mocks.NewMockWorkspaceRepository(ctrl),
		campaignRepo:  mocks.NewMockCampaignRepository(ctrl),
		templateRepo:  mocks.NewMockTemplateRepository(ctrl),
		contactRepo:   mocks.NewMockContactRepository(ctrl),
		messageSvc:    mocks.NewMockMessageServiceInterface(ctrl),
		killSwitch:    mocks.NewMockKillSwitchServiceInterface(ctrl),
		eventBus:      mocks.NewMockEventBus(ctrl),
	}
	f.processor = NewCampaignTaskProcessor(
		f.workspaceRepo, f.campaignRepo, f.templateRepo, f.contactRepo,
		f.messageSvc, f.killSwitch, f.eventBus, logger.NewTestLogger(t),
	)
	return f
}

func runningCampaign() *domain.Campaign {
	return &domain.Campaign{
		ID:              "camp-1",
		Name:            "August launch",
		TemplateID:      "tpl-1",
		Status:          domain.CampaignRunning,
		TotalRecipients: 2,
	}
}

func runCampaignTask() *domain.Task {
	campaignID := "camp-1"
	return &domain.Task{
		ID:          "task-1",
		WorkspaceID: "ws1",
		Type:        domain.TaskTypeRunCampaign,
		CampaignID:  &campaignID,
	}
}

func pendingRecipient(id, contactID string) *domain.CampaignMessage {
	return &domain.CampaignMessage{
		ID:         id,
		CampaignID: "camp-1",
		ContactID:  contactID,
		Status:     domain.CampaignMessagePending,
	}
}

// expectSafeRun wires the campaign, workspace, safety and template lookups a
// running slice performs before touching recipients.
func (f *campaignRunFixture) expectSafeRun(campaign *domain.Campaign) {
	ws := safeWorkspace()
	f.campaignRepo.EXPECT().GetByID(gomock.Any(), "ws1", "camp-1").Return(campaign, nil)
	f.workspaceRepo.EXPECT().GetByID(gomock.Any(), "ws1").Return(ws, nil)
	f.killSwitch.EXPECT().IsWorkspaceSafeForCampaigns(gomock.Any(), ws).Return(safeReport(), nil)
	f.templateRepo.EXPECT().GetByID(gomock.Any(), "ws1", "tpl-1").Return(approvedTemplate(), nil)
}

func TestCampaignProcessorCanProcess(t *testing.T) {
	f := setupCampaignRunner(t)

	assert.True(t, f.processor.CanProcess(domain.TaskTypeRunCampaign))
	assert.False(t, f.processor.CanProcess(domain.TaskTypeHealthSync))
}

func TestCampaignRunSendsAndCompletes(t *testing.T) {
	f := setupCampaignRunner(t)
	task := runCampaignTask()
	task.State = &domain.TaskState{
		RunCampaign: &domain.RunCampaignState{CampaignID: "camp-1", TotalRecipients: 2},
	}
	campaign := runningCampaign()
	f.expectSafeRun(campaign)

	recipients := []*domain.CampaignMessage{
		pendingRecipient("cm-1", "contact-1"),
		pendingRecipient("cm-2", "contact-2"),
	}
	gomock.InOrder(
		f.campaignRepo.EXPECT().
			ListPendingMessages(gomock.Any(), "ws1", "camp-1", campaignSendBatchSize).
			Return(recipients, nil),
		f.campaignRepo.EXPECT().
			ListPendingMessages(gomock.Any(), "ws1", "camp-1", campaignSendBatchSize).
			Return(nil, nil),
	)

	contact := optedInContact()
	f.contactRepo.EXPECT().GetByID(gomock.Any(), "ws1", gomock.Any()).Return(contact, nil).Times(2)
	f.messageSvc.EXPECT().
		SendTemplate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, req *domain.SendTemplateRequest) (*domain.SendTemplateResult, error) {
			assert.Equal(t, "camp-1", req.CampaignID)
			assert.Equal(t, []string{"#1042"}, req.Variables.Body)
			return &domain.SendTemplateResult{ProviderMessageID: "wamid.out"}, nil
		}).Times(2)
	f.campaignRepo.EXPECT().
		UpdateMessage(gomock.Any(), "ws1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, m *domain.CampaignMessage) error {
			assert.Equal(t, domain.CampaignMessageSent, m.Status)
			assert.Equal(t, "wamid.out", m.ProviderMessageID)
			require.NotNil(t, m.SentAt)
			return nil
		}).Times(2)

	// Counter mirror after the slice, then the completion write.
	f.campaignRepo.EXPECT().Update(gomock.Any(), "ws1", campaign).Return(nil).Times(2)
	f.campaignRepo.EXPECT().ListBatches(gomock.Any(), "ws1", "camp-1").Return(nil, nil)
	f.eventBus.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, event domain.EventPayload) {
			assert.Equal(t, domain.EventCampaignCompleted, event.Type)
			assert.Equal(t, "camp-1", event.EntityID)
			assert.Equal(t, 2, event.Data["sent"])
		})

	completed, err := f.processor.Process(context.Background(), task, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, completed)

	assert.Equal(t, domain.CampaignCompleted, campaign.Status)
	require.NotNil(t, campaign.CompletedAt)
	assert.Equal(t, 2, campaign.SentCount)
	assert.Equal(t, 2, task.State.RunCampaign.SentCount)
	assert.Equal(t, float64(100), task.State.Progress)
}

func TestCampaignRunEndsWhenNotRunning(t *testing.T) {
	f := setupCampaignRunner(t)
	task := runCampaignTask()
	campaign := runningCampaign()
	campaign.Status = domain.CampaignCancelled

	f.campaignRepo.EXPECT().GetByID(gomock.Any(), "ws1", "camp-1").Return(campaign, nil)

	completed, err := f.processor.Process(context.Background(), task, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, completed)
}

func TestCampaignRunPausesWhenWorkspaceUnsafe(t *testing.T) {
	f := setupCampaignRunner(t)
	task := runCampaignTask()
	campaign := runningCampaign()
	ws := safeWorkspace()

	f.campaignRepo.EXPECT().GetByID(gomock.Any(), "ws1", "camp-1").Return(campaign, nil)
	f.workspaceRepo.EXPECT().GetByID(gomock.Any(), "ws1").Return(ws, nil)
	f.killSwitch.EXPECT().
		IsWorkspaceSafeForCampaigns(gomock.Any(), ws).
		Return(&domain.SafetyReport{
			Safe:   false,
			Checks: []domain.SafetyCheck{{Name: "quality_rating", Passed: false, Detail: "quality rating is RED"}},
		}, nil)

	f.campaignRepo.EXPECT().
		Update(gomock.Any(), "ws1", campaign).
		DoAndReturn(func(_ context.Context, _ string, c *domain.Campaign) error {
			assert.Equal(t, domain.CampaignPaused, c.Status)
			assert.Equal(t, "quality rating is RED", c.PauseReason)
			return nil
		})
	f.campaignRepo.EXPECT().PauseBatches(gomock.Any(), "ws1", "camp-1").Return(int64(1), nil)
	f.eventBus.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, event domain.EventPayload) {
			assert.Equal(t, domain.EventCampaignPaused, event.Type)
		})

	completed, err := f.processor.Process(context.Background(), task, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, completed)
}

func TestCampaignRunSkipsOptedOutContact(t *testing.T) {
	f := setupCampaignRunner(t)
	task := runCampaignTask()
	campaign := runningCampaign()
	f.expectSafeRun(campaign)

	optedOut := optedInContact()
	optedOut.OptIn.Status = false

	gomock.InOrder(
		f.campaignRepo.EXPECT().
			ListPendingMessages(gomock.Any(), "ws1", "camp-1", campaignSendBatchSize).
			Return([]*domain.CampaignMessage{pendingRecipient("cm-1", "contact-1")}, nil),
		f.campaignRepo.EXPECT().
			ListPendingMessages(gomock.Any(), "ws1", "camp-1", campaignSendBatchSize).
			Return(nil, nil),
	)
	f.contactRepo.EXPECT().GetByID(gomock.Any(), "ws1", "contact-1").Return(optedOut, nil)
	f.campaignRepo.EXPECT().
		UpdateMessage(gomock.Any(), "ws1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, m *domain.CampaignMessage) error {
			assert.Equal(t, domain.CampaignMessageSkipped, m.Status)
			assert.Equal(t, "contact opted out", m.LastError)
			return nil
		})
	f.campaignRepo.EXPECT().Update(gomock.Any(), "ws1", campaign).Return(nil).Times(2)
	f.campaignRepo.EXPECT().ListBatches(gomock.Any(), "ws1", "camp-1").Return(nil, nil)
	f.eventBus.EXPECT().Publish(gomock.Any(), gomock.Any())

	completed, err := f.processor.Process(context.Background(), task, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, completed)
	assert.Equal(t, 1, task.State.RunCampaign.SkippedCount)
}

func TestCampaignRunStallsOnTokenExpiry(t *testing.T) {
	f := setupCampaignRunner(t)
	task := runCampaignTask()
	campaign := runningCampaign()
	f.expectSafeRun(campaign)

	recipient := pendingRecipient("cm-1", "contact-1")
	f.campaignRepo.EXPECT().
		ListPendingMessages(gomock.Any(), "ws1", "camp-1", campaignSendBatchSize).
		Return([]*domain.CampaignMessage{recipient}, nil)
	f.contactRepo.EXPECT().GetByID(gomock.Any(), "ws1", "contact-1").Return(optedInContact(), nil)
	f.messageSvc.EXPECT().
		SendTemplate(gomock.Any(), gomock.Any()).
		Return(nil, domain.NewSendError(domain.ErrKindTokenExpired, "system token expired"))

	// The recipient stays pending and untouched for the eventual resume.
	f.campaignRepo.EXPECT().Update(gomock.Any(), "ws1", campaign).Return(nil)

	completed, err := f.processor.Process(context.Background(), task, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, completed)
	assert.Equal(t, domain.CampaignMessagePending, recipient.Status)
	assert.Equal(t, 0, recipient.Attempts)
}

func TestCampaignRunStallsOnRateLimit(t *testing.T) {
	f := setupCampaignRunner(t)
	task := runCampaignTask()
	campaign := runningCampaign()
	f.expectSafeRun(campaign)

	f.campaignRepo.EXPECT().
		ListPendingMessages(gomock.Any(), "ws1", "camp-1", campaignSendBatchSize).
		Return([]*domain.CampaignMessage{pendingRecipient("cm-1", "contact-1")}, nil)
	f.contactRepo.EXPECT().GetByID(gomock.Any(), "ws1", "contact-1").Return(optedInContact(), nil)
	f.messageSvc.EXPECT().
		SendTemplate(gomock.Any(), gomock.Any()).
		Return(nil, domain.NewLimitError(domain.ErrKindDailyLimitExceeded, 3600, "daily budget exhausted"))
	f.campaignRepo.EXPECT().Update(gomock.Any(), "ws1", campaign).Return(nil)

	completed, err := f.processor.Process(context.Background(), task, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, completed)
}

func TestCampaignRunRetryableFailureStaysPending(t *testing.T) {
	f := setupCampaignRunner(t)
	task := runCampaignTask()
	campaign := runningCampaign()
	f.expectSafeRun(campaign)

	recipient := pendingRecipient("cm-1", "contact-1")
	gomock.InOrder(
		f.campaignRepo.EXPECT().
			ListPendingMessages(gomock.Any(), "ws1", "camp-1", campaignSendBatchSize).
			Return([]*domain.CampaignMessage{recipient}, nil),
		f.campaignRepo.EXPECT().
			ListPendingMessages(gomock.Any(), "ws1", "camp-1", campaignSendBatchSize).
			Return(nil, nil),
	)
	f.contactRepo.EXPECT().GetByID(gomock.Any(), "ws1", "contact-1").Return(optedInContact(), nil)
	f.messageSvc.EXPECT().
		SendTemplate(gomock.Any(), gomock.Any()).
		Return(nil, &domain.SendError{Kind: domain.ErrKindMetaAPIError, Code: 500, Message: "upstream unavailable"})
	f.campaignRepo.EXPECT().
		UpdateMessage(gomock.Any(), "ws1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, m *domain.CampaignMessage) error {
			assert.Equal(t, domain.CampaignMessagePending, m.Status)
			assert.Equal(t, 1, m.Attempts)
			assert.Contains(t, m.LastError, "upstream unavailable")
			return nil
		})
	f.campaignRepo.EXPECT().Update(gomock.Any(), "ws1", campaign).Return(nil).Times(2)
	f.campaignRepo.EXPECT().ListBatches(gomock.Any(), "ws1", "camp-1").Return(nil, nil)
	f.eventBus.EXPECT().Publish(gomock.Any(), gomock.Any())

	completed, err := f.processor.Process(context.Background(), task, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, completed)
}

func TestCampaignRunPermanentFailureMarksFailed(t *testing.T) {
	f := setupCampaignRunner(t)
	task := runCampaignTask()
	campaign := runningCampaign()
	f.expectSafeRun(campaign)

	gomock.InOrder(
		f.campaignRepo.EXPECT().
			ListPendingMessages(gomock.Any(), "ws1", "camp-1", campaignSendBatchSize).
			Return([]*domain.CampaignMessage{pendingRecipient("cm-1", "contact-1")}, nil),
		f.campaignRepo.EXPECT().
			ListPendingMessages(gomock.Any(), "ws1", "camp-1", campaignSendBatchSize).
			Return(nil, nil),
	)
	f.contactRepo.EXPECT().GetByID(gomock.Any(), "ws1", "contact-1").Return(optedInContact(), nil)
	f.messageSvc.EXPECT().
		SendTemplate(gomock.Any(), gomock.Any()).
		Return(nil, domain.NewSendError(domain.ErrKindInvalidRecipient, "number too short"))
	f.campaignRepo.EXPECT().
		UpdateMessage(gomock.Any(), "ws1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, m *domain.CampaignMessage) error {
			assert.Equal(t, domain.CampaignMessageFailed, m.Status)
			return nil
		})
	f.campaignRepo.EXPECT().Update(gomock.Any(), "ws1", campaign).Return(nil).Times(2)
	f.campaignRepo.EXPECT().ListBatches(gomock.Any(), "ws1", "camp-1").Return(nil, nil)
	f.eventBus.EXPECT().Publish(gomock.Any(), gomock.Any())

	completed, err := f.processor.Process(context.Background(), task, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, completed)
	assert.Equal(t, 1, task.State.RunCampaign.FailedCount)
	assert.Equal(t, 1, campaign.FailedCount)
}

func TestCampaignRunYieldsNearDeadline(t *testing.T) {
	f := setupCampaignRunner(t)
	task := runCampaignTask()
	campaign := runningCampaign()
	f.expectSafeRun(campaign)

	// The slice parks before claiming a batch when the deadline is inside the
	// margin.
	f.campaignRepo.EXPECT().Update(gomock.Any(), "ws1", campaign).Return(nil)

	completed, err := f.processor.Process(context.Background(), task, time.Now().Add(time.Second))
	require.NoError(t, err)
	assert.False(t, completed)
}

func TestCampaignRunMissingCampaignID(t *testing.T) {
	f := setupCampaignRunner(t)
	task := runCampaignTask()
	task.CampaignID = nil

	_, err := f.processor.Process(context.Background(), task, time.Now().Add(time.Minute))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no campaign id")
}
