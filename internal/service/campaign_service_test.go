package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/internal/domain/mocks"
	"github.com/Waypost/waypost/pkg/logger"
)

type campaignFixture struct {
	svc           *CampaignService
	workspaceRepo *mocks.MockWorkspaceRepository
	campaignRepo  *mocks.MockCampaignRepository
	templateRepo  *mocks.MockTemplateRepository
	taskRepo      *mocks.MockTaskRepository
	taskService   *mocks.MockTaskService
	killSwitch    *mocks.MockKillSwitchServiceInterface
	eventBus      *mocks.MockEventBus
}

func newCampaignFixture(t *testing.T) *campaignFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &campaignFixture{
		workspaceRepo: mocks.NewMockWorkspaceRepository(ctrl),
		campaignRepo:  mocks.NewMockCampaignRepository(ctrl),
		templateRepo:  mocks.NewMockTemplateRepository(ctrl),
		taskRepo:      mocks.NewMockTaskRepository(ctrl),
		taskService:   mocks.NewMockTaskService(ctrl),
		killSwitch:    mocks.NewMockKillSwitchServiceInterface(ctrl),
		eventBus:      mocks.NewMockEventBus(ctrl),
	}
	f.svc = NewCampaignService(
		f.workspaceRepo, f.campaignRepo, f.templateRepo, f.taskRepo,
		f.taskService, f.killSwitch, f.eventBus, logger.NewTestLogger(t),
	)
	return f
}

func safeReport() *domain.SafetyReport {
	return &domain.SafetyReport{Safe: true}
}

func draftCampaign() *domain.Campaign {
	return &domain.Campaign{
		ID:              "camp-1",
		Name:            "August launch",
		TemplateID:      "tpl-1",
		Status:          domain.CampaignDraft,
		TotalRecipients: 3,
	}
}

func TestCreateCampaignDedupesRecipients(t *testing.T) {
	f := newCampaignFixture(t)

	f.templateRepo.EXPECT().GetByID(gomock.Any(), "ws1", "tpl-1").Return(approvedTemplate(), nil)

	var created *domain.Campaign
	f.campaignRepo.EXPECT().Create(gomock.Any(), "ws1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, c *domain.Campaign) error {
			created = c
			return nil
		})
	f.campaignRepo.EXPECT().CreateBatch(gomock.Any(), "ws1", gomock.Any()).Return(nil)

	var contactIDs []string
	f.campaignRepo.EXPECT().CreateMessage(gomock.Any(), "ws1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, m *domain.CampaignMessage) (bool, error) {
			contactIDs = append(contactIDs, m.ContactID)
			assert.Equal(t, domain.CampaignMessagePending, m.Status)
			assert.Equal(t, domain.CampaignMessageMaxAttempts, m.MaxAttempts)
			return true, nil
		}).Times(2)

	campaign, err := f.svc.CreateCampaign(context.Background(), &domain.CreateCampaignRequest{
		WorkspaceID: "ws1",
		Name:        "August launch",
		TemplateID:  "tpl-1",
		ContactIDs:  []string{"contact-1", "contact-2", "contact-1", ""},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.CampaignDraft, campaign.Status)
	assert.Equal(t, 2, created.TotalRecipients)
	assert.Equal(t, []string{"contact-1", "contact-2"}, contactIDs)
}

func TestCreateCampaignSplitsBatches(t *testing.T) {
	f := newCampaignFixture(t)

	ids := make([]string, 0, campaignBatchSize+1)
	for i := 0; i < campaignBatchSize+1; i++ {
		ids = append(ids, fmt.Sprintf("contact-%d", i))
	}

	f.templateRepo.EXPECT().GetByID(gomock.Any(), "ws1", "tpl-1").Return(approvedTemplate(), nil)
	f.campaignRepo.EXPECT().Create(gomock.Any(), "ws1", gomock.Any()).Return(nil)

	var sequences []int
	f.campaignRepo.EXPECT().CreateBatch(gomock.Any(), "ws1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, b *domain.CampaignBatch) error {
			sequences = append(sequences, b.Sequence)
			return nil
		}).Times(2)
	f.campaignRepo.EXPECT().CreateMessage(gomock.Any(), "ws1", gomock.Any()).
		Return(true, nil).Times(campaignBatchSize + 1)

	_, err := f.svc.CreateCampaign(context.Background(), &domain.CreateCampaignRequest{
		WorkspaceID: "ws1",
		Name:        "big blast",
		TemplateID:  "tpl-1",
		ContactIDs:  ids,
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, sequences)
}

func TestCreateCampaignUnknownTemplate(t *testing.T) {
	f := newCampaignFixture(t)

	f.templateRepo.EXPECT().GetByID(gomock.Any(), "ws1", "tpl-1").
		Return(nil, &domain.ErrTemplateNotFound{ID: "tpl-1"})

	_, err := f.svc.CreateCampaign(context.Background(), &domain.CreateCampaignRequest{
		WorkspaceID: "ws1",
		Name:        "August launch",
		TemplateID:  "tpl-1",
		ContactIDs:  []string{"contact-1"},
	})
	assert.Error(t, err)
}

func TestStartCampaignSchedulesRunnerTask(t *testing.T) {
	f := newCampaignFixture(t)
	ws := safeWorkspace()
	campaign := draftCampaign()

	f.campaignRepo.EXPECT().GetByID(gomock.Any(), "ws1", "camp-1").Return(campaign, nil)
	f.workspaceRepo.EXPECT().GetByID(gomock.Any(), "ws1").Return(ws, nil)
	f.killSwitch.EXPECT().IsWorkspaceSafeForCampaigns(gomock.Any(), ws).Return(safeReport(), nil)
	f.taskRepo.EXPECT().GetTaskByCampaignID(gomock.Any(), "ws1", "camp-1").
		Return(nil, &domain.ErrNotFound{Entity: "task", ID: "camp-1"})

	f.taskService.EXPECT().CreateTask(gomock.Any(), "ws1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, task *domain.Task) error {
			assert.Equal(t, domain.TaskTypeRunCampaign, task.Type)
			assert.Equal(t, domain.TaskStatusPending, task.Status)
			require.NotNil(t, task.CampaignID)
			assert.Equal(t, "camp-1", *task.CampaignID)
			require.NotNil(t, task.State.RunCampaign)
			assert.Equal(t, 3, task.State.RunCampaign.TotalRecipients)
			return nil
		})
	f.campaignRepo.EXPECT().Update(gomock.Any(), "ws1", campaign).Return(nil)
	f.eventBus.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(
		func(_ context.Context, payload domain.EventPayload) {
			assert.Equal(t, domain.EventCampaignScheduled, payload.Type)
		})

	started, err := f.svc.StartCampaign(context.Background(), "ws1", "camp-1")
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignRunning, started.Status)
	assert.NotNil(t, started.StartedAt)
}

func TestStartCampaignResumeReusesParkedTask(t *testing.T) {
	f := newCampaignFixture(t)
	ws := safeWorkspace()
	startedAt := time.Now().UTC().Add(-time.Hour)
	pausedAt := time.Now().UTC().Add(-time.Minute)
	campaign := draftCampaign()
	campaign.Status = domain.CampaignPaused
	campaign.PauseReason = "QUALITY_RED"
	campaign.PausedAt = &pausedAt
	campaign.StartedAt = &startedAt

	parked := &domain.Task{ID: "task-9", Status: domain.TaskStatusPaused}

	f.campaignRepo.EXPECT().GetByID(gomock.Any(), "ws1", "camp-1").Return(campaign, nil)
	f.workspaceRepo.EXPECT().GetByID(gomock.Any(), "ws1").Return(ws, nil)
	f.killSwitch.EXPECT().IsWorkspaceSafeForCampaigns(gomock.Any(), ws).Return(safeReport(), nil)
	f.taskRepo.EXPECT().GetTaskByCampaignID(gomock.Any(), "ws1", "camp-1").Return(parked, nil)
	f.taskRepo.EXPECT().Update(gomock.Any(), "ws1", parked).DoAndReturn(
		func(_ context.Context, _ string, task *domain.Task) error {
			assert.Equal(t, domain.TaskStatusPending, task.Status)
			assert.NotNil(t, task.NextRunAfter)
			return nil
		})
	f.campaignRepo.EXPECT().Update(gomock.Any(), "ws1", campaign).Return(nil)
	f.eventBus.EXPECT().Publish(gomock.Any(), gomock.Any())

	resumed, err := f.svc.StartCampaign(context.Background(), "ws1", "camp-1")
	require.NoError(t, err)

	assert.Equal(t, domain.CampaignRunning, resumed.Status)
	assert.Empty(t, resumed.PauseReason)
	assert.Nil(t, resumed.PausedAt)
	assert.Equal(t, &startedAt, resumed.StartedAt)
}

func TestStartCampaignBlockedByUnsafeWorkspace(t *testing.T) {
	f := newCampaignFixture(t)
	ws := safeWorkspace()

	f.campaignRepo.EXPECT().GetByID(gomock.Any(), "ws1", "camp-1").Return(draftCampaign(), nil)
	f.workspaceRepo.EXPECT().GetByID(gomock.Any(), "ws1").Return(ws, nil)
	f.killSwitch.EXPECT().IsWorkspaceSafeForCampaigns(gomock.Any(), ws).Return(&domain.SafetyReport{
		Safe:   false,
		Checks: []domain.SafetyCheck{{Name: "quality_rating", Passed: false, Detail: "quality rating is RED"}},
	}, nil)

	_, err := f.svc.StartCampaign(context.Background(), "ws1", "camp-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quality_rating")
}

func TestStartCampaignRejectsCompleted(t *testing.T) {
	f := newCampaignFixture(t)
	campaign := draftCampaign()
	campaign.Status = domain.CampaignCompleted

	f.campaignRepo.EXPECT().GetByID(gomock.Any(), "ws1", "camp-1").Return(campaign, nil)

	_, err := f.svc.StartCampaign(context.Background(), "ws1", "camp-1")
	assert.Error(t, err)
}

func TestPauseCampaign(t *testing.T) {
	f := newCampaignFixture(t)
	campaign := draftCampaign()
	campaign.Status = domain.CampaignRunning

	task := &domain.Task{ID: "task-9", Progress: 0.5, State: &domain.TaskState{}}

	f.campaignRepo.EXPECT().GetByID(gomock.Any(), "ws1", "camp-1").Return(campaign, nil)
	f.campaignRepo.EXPECT().Update(gomock.Any(), "ws1", campaign).Return(nil)
	f.campaignRepo.EXPECT().PauseBatches(gomock.Any(), "ws1", "camp-1").Return(int64(2), nil)
	f.taskRepo.EXPECT().GetTaskByCampaignID(gomock.Any(), "ws1", "camp-1").Return(task, nil)
	f.taskRepo.EXPECT().MarkAsPaused(gomock.Any(), "ws1", "task-9", gomock.Any(), 0.5, task.State).Return(nil)
	f.eventBus.EXPECT().Publish(gomock.Any(), gomock.Any()).Do(
		func(_ context.Context, payload domain.EventPayload) {
			assert.Equal(t, domain.EventCampaignPaused, payload.Type)
			assert.Equal(t, "operator request", payload.Data["reason"])
		})

	paused, err := f.svc.PauseCampaign(context.Background(), "ws1", "camp-1", "operator request")
	require.NoError(t, err)

	assert.Equal(t, domain.CampaignPaused, paused.Status)
	assert.Equal(t, "operator request", paused.PauseReason)
	assert.NotNil(t, paused.PausedAt)
}

func TestPauseCampaignRejectsNonRunning(t *testing.T) {
	f := newCampaignFixture(t)

	f.campaignRepo.EXPECT().GetByID(gomock.Any(), "ws1", "camp-1").Return(draftCampaign(), nil)

	_, err := f.svc.PauseCampaign(context.Background(), "ws1", "camp-1", "operator request")
	assert.Error(t, err)
}

func TestApplyStatusRollupFailureAfterSend(t *testing.T) {
	f := newCampaignFixture(t)
	recipient := &domain.CampaignMessage{
		ID:                "cm-1",
		CampaignID:        "camp-1",
		ContactID:         "contact-1",
		Status:            domain.CampaignMessageSent,
		ProviderMessageID: "wamid.1",
	}
	campaign := draftCampaign()
	campaign.SentCount = 2
	campaign.FailedCount = 0

	f.campaignRepo.EXPECT().GetMessageByProviderMessageID(gomock.Any(), "ws1", "wamid.1").Return(recipient, nil)
	f.campaignRepo.EXPECT().UpdateMessage(gomock.Any(), "ws1", recipient).Return(nil)
	f.campaignRepo.EXPECT().GetByID(gomock.Any(), "ws1", "camp-1").Return(campaign, nil)
	f.campaignRepo.EXPECT().Update(gomock.Any(), "ws1", campaign).Return(nil)

	err := f.svc.ApplyStatusRollup(context.Background(), "ws1", "camp-1", "wamid.1",
		domain.MessageStatusFailed, "provider error 131049")
	require.NoError(t, err)

	assert.Equal(t, domain.CampaignMessageFailed, recipient.Status)
	assert.Equal(t, "provider error 131049", recipient.LastError)
	assert.Equal(t, 1, campaign.SentCount)
	assert.Equal(t, 1, campaign.FailedCount)
}

func TestApplyStatusRollupIgnoresNonFailures(t *testing.T) {
	f := newCampaignFixture(t)

	err := f.svc.ApplyStatusRollup(context.Background(), "ws1", "camp-1", "wamid.1",
		domain.MessageStatusDelivered, "")
	assert.NoError(t, err)
}

func TestApplyStatusRollupUnknownRecipientDropped(t *testing.T) {
	f := newCampaignFixture(t)

	f.campaignRepo.EXPECT().GetMessageByProviderMessageID(gomock.Any(), "ws1", "wamid.unknown").
		Return(nil, &domain.ErrNotFound{Entity: "campaign message", ID: "wamid.unknown"})

	err := f.svc.ApplyStatusRollup(context.Background(), "ws1", "camp-1", "wamid.unknown",
		domain.MessageStatusFailed, "provider error")
	assert.NoError(t, err)
}

func TestApplyStatusRollupAlreadyFailedIsIdempotent(t *testing.T) {
	f := newCampaignFixture(t)
	recipient := &domain.CampaignMessage{
		ID:         "cm-1",
		CampaignID: "camp-1",
		Status:     domain.CampaignMessageFailed,
	}

	f.campaignRepo.EXPECT().GetMessageByProviderMessageID(gomock.Any(), "ws1", "wamid.1").Return(recipient, nil)

	err := f.svc.ApplyStatusRollup(context.Background(), "ws1", "camp-1", "wamid.1",
		domain.MessageStatusFailed, "provider error")
	assert.NoError(t, err)
}
