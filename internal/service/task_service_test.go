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

type taskFixture struct {
	repo      *mocks.MockTaskRepository
	processor *mocks.MockTaskProcessor
	svc       *TaskService
}

func setupTaskService(t *testing.T) *taskFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &taskFixture{
		repo:      mocks.NewMockTaskRepository(ctrl),
		processor: mocks.NewMockTaskProcessor(ctrl),
	}
	f.svc = NewTaskService(f.repo, logger.NewTestLogger(t))
	return f
}

// registerCampaignProcessor registers the mock for the campaign task type only.
func (f *taskFixture) registerCampaignProcessor() {
	f.processor.EXPECT().CanProcess(domain.TaskTypeRunCampaign).Return(true)
	f.processor.EXPECT().CanProcess(domain.TaskTypeHealthSync).Return(false)
	f.svc.RegisterProcessor(f.processor)
}

func campaignTask() *domain.Task {
	return &domain.Task{
		ID:            "task-1",
		WorkspaceID:   "ws1",
		Type:          domain.TaskTypeRunCampaign,
		Status:        domain.TaskStatusPending,
		MaxRuntime:    50,
		MaxRetries:    3,
		RetryInterval: 60,
	}
}

func TestCreateTaskAppliesDefaults(t *testing.T) {
	f := setupTaskService(t)

	f.repo.EXPECT().
		Create(gomock.Any(), "ws1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, task *domain.Task) error {
			assert.Equal(t, defaultMaxTaskRuntime, task.MaxRuntime)
			assert.Equal(t, 3, task.MaxRetries)
			assert.Equal(t, 60, task.RetryInterval)
			return nil
		})

	err := f.svc.CreateTask(context.Background(), "ws1", &domain.Task{
		ID:          "task-1",
		WorkspaceID: "ws1",
		Type:        domain.TaskTypeRunCampaign,
	})
	assert.NoError(t, err)
}

func TestGetProcessorUnknownType(t *testing.T) {
	f := setupTaskService(t)

	_, err := f.svc.GetProcessor("mystery")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no processor registered")
}

func TestExecuteTaskCompletes(t *testing.T) {
	f := setupTaskService(t)
	f.registerCampaignProcessor()
	task := campaignTask()

	f.repo.EXPECT().Get(gomock.Any(), "ws1", "task-1").Return(task, nil)
	f.repo.EXPECT().MarkAsRunning(gomock.Any(), "ws1", "task-1", gomock.Any()).Return(nil)
	f.processor.EXPECT().Process(gomock.Any(), task, gomock.Any()).Return(true, nil)
	f.repo.EXPECT().MarkAsCompleted(gomock.Any(), "ws1", "task-1").Return(nil)

	err := f.svc.ExecuteTask(context.Background(), "ws1", "task-1", time.Now().Add(50*time.Second))
	assert.NoError(t, err)
}

func TestExecuteTaskIncompleteParksForNextTick(t *testing.T) {
	f := setupTaskService(t)
	f.registerCampaignProcessor()
	task := campaignTask()
	task.State = &domain.TaskState{Progress: 0.4}

	f.repo.EXPECT().Get(gomock.Any(), "ws1", "task-1").Return(task, nil)
	f.repo.EXPECT().MarkAsRunning(gomock.Any(), "ws1", "task-1", gomock.Any()).Return(nil)
	f.processor.EXPECT().Process(gomock.Any(), task, gomock.Any()).Return(false, nil)
	f.repo.EXPECT().
		MarkAsPaused(gomock.Any(), "ws1", "task-1", gomock.Any(), 0.4, task.State).
		DoAndReturn(func(_ context.Context, _, _ string, nextRun time.Time, _ float64, _ *domain.TaskState) error {
			assert.WithinDuration(t, time.Now().Add(time.Minute), nextRun, 5*time.Second)
			return nil
		})

	err := f.svc.ExecuteTask(context.Background(), "ws1", "task-1", time.Now().Add(50*time.Second))
	assert.NoError(t, err)
}

func TestExecuteTaskFailureWithinRetryBudgetParks(t *testing.T) {
	f := setupTaskService(t)
	f.registerCampaignProcessor()
	task := campaignTask()
	task.RetryCount = 1

	f.repo.EXPECT().Get(gomock.Any(), "ws1", "task-1").Return(task, nil)
	f.repo.EXPECT().MarkAsRunning(gomock.Any(), "ws1", "task-1", gomock.Any()).Return(nil)
	f.processor.EXPECT().Process(gomock.Any(), task, gomock.Any()).Return(false, assert.AnError)
	f.repo.EXPECT().
		MarkAsPaused(gomock.Any(), "ws1", "task-1", gomock.Any(), task.Progress, task.State).
		Return(nil)

	// A parked retry is not an execution error.
	err := f.svc.ExecuteTask(context.Background(), "ws1", "task-1", time.Now().Add(50*time.Second))
	assert.NoError(t, err)
}

func TestExecuteTaskRetriesExhaustedFails(t *testing.T) {
	f := setupTaskService(t)
	f.registerCampaignProcessor()
	task := campaignTask()
	task.RetryCount = 3

	f.repo.EXPECT().Get(gomock.Any(), "ws1", "task-1").Return(task, nil)
	f.repo.EXPECT().MarkAsRunning(gomock.Any(), "ws1", "task-1", gomock.Any()).Return(nil)
	f.processor.EXPECT().Process(gomock.Any(), task, gomock.Any()).Return(false, assert.AnError)
	f.repo.EXPECT().MarkAsFailed(gomock.Any(), "ws1", "task-1", assert.AnError.Error()).Return(nil)

	err := f.svc.ExecuteTask(context.Background(), "ws1", "task-1", time.Now().Add(50*time.Second))
	assert.Error(t, err)
}

func TestExecuteTaskNoProcessor(t *testing.T) {
	f := setupTaskService(t)
	task := campaignTask()

	f.repo.EXPECT().Get(gomock.Any(), "ws1", "task-1").Return(task, nil)

	err := f.svc.ExecuteTask(context.Background(), "ws1", "task-1", time.Now().Add(50*time.Second))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no processor registered")
}

func TestExecutePendingTasksDrainsBatch(t *testing.T) {
	f := setupTaskService(t)
	f.registerCampaignProcessor()

	first := campaignTask()
	second := campaignTask()
	second.ID = "task-2"

	f.repo.EXPECT().GetNextBatch(gomock.Any(), 10).Return([]*domain.Task{first, second}, nil)
	f.repo.EXPECT().Get(gomock.Any(), "ws1", "task-1").Return(first, nil)
	f.repo.EXPECT().Get(gomock.Any(), "ws1", "task-2").Return(second, nil)
	f.repo.EXPECT().MarkAsRunning(gomock.Any(), "ws1", gomock.Any(), gomock.Any()).Return(nil).Times(2)
	f.processor.EXPECT().Process(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil).Times(2)
	f.repo.EXPECT().MarkAsCompleted(gomock.Any(), "ws1", gomock.Any()).Return(nil).Times(2)

	require.NoError(t, f.svc.ExecutePendingTasks(context.Background(), 0))

	lastRun, err := f.svc.GetLastCronRun(context.Background())
	require.NoError(t, err)
	require.NotNil(t, lastRun)
	assert.WithinDuration(t, time.Now(), *lastRun, 5*time.Second)
}

func TestExecutePendingTasksEmptyBatch(t *testing.T) {
	f := setupTaskService(t)

	f.repo.EXPECT().GetNextBatch(gomock.Any(), 5).Return(nil, nil)

	assert.NoError(t, f.svc.ExecutePendingTasks(context.Background(), 5))
}

func TestCampaignScheduledEventRunsTaskImmediately(t *testing.T) {
	f := setupTaskService(t)
	f.registerCampaignProcessor()
	task := campaignTask()

	bus := domain.NewInMemoryEventBus()
	f.svc.SubscribeToCampaignEvents(bus)

	f.repo.EXPECT().GetTaskByCampaignID(gomock.Any(), "ws1", "camp-1").Return(task, nil)
	f.repo.EXPECT().Get(gomock.Any(), "ws1", "task-1").Return(task, nil)
	f.repo.EXPECT().MarkAsRunning(gomock.Any(), "ws1", "task-1", gomock.Any()).Return(nil)
	f.processor.EXPECT().Process(gomock.Any(), task, gomock.Any()).Return(true, nil)

	done := make(chan struct{})
	f.repo.EXPECT().
		MarkAsCompleted(gomock.Any(), "ws1", "task-1").
		DoAndReturn(func(_ context.Context, _, _ string) error {
			close(done)
			return nil
		})

	bus.Publish(context.Background(), domain.EventPayload{
		Type:        domain.EventCampaignScheduled,
		WorkspaceID: "ws1",
		EntityID:    "camp-1",
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("campaign task never ran")
	}
}
