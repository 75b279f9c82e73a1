package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/pkg/logger"
)

// Maximum time a task can run before timing out
const defaultMaxTaskRuntime = 55 // 55 seconds

// TaskService manages background task execution and state. Tasks run in
// resumable slices: a processor that returns incomplete is parked with its
// state and picked up on the next cron tick.
type TaskService struct {
	repo       domain.TaskRepository
	logger     logger.Logger
	processors map[string]domain.TaskProcessor
	lock       sync.RWMutex

	lastCronRun   *time.Time
	lastCronMutex sync.RWMutex
}

// NewTaskService creates a new task service instance
func NewTaskService(repo domain.TaskRepository, log logger.Logger) *TaskService {
	return &TaskService{
		repo:       repo,
		logger:     log,
		processors: make(map[string]domain.TaskProcessor),
	}
}

// getTaskTypes returns all supported task types
func getTaskTypes() []string {
	return []string{
		domain.TaskTypeRunCampaign,
		domain.TaskTypeHealthSync,
	}
}

// RegisterProcessor registers a task processor for the task types it handles
func (s *TaskService) RegisterProcessor(processor domain.TaskProcessor) {
	s.lock.Lock()
	defer s.lock.Unlock()

	for _, taskType := range getTaskTypes() {
		if processor.CanProcess(taskType) {
			s.processors[taskType] = processor
			s.logger.WithField("task_type", taskType).Info("Registered task processor")
		}
	}
}

// GetProcessor returns the processor for a given task type
func (s *TaskService) GetProcessor(taskType string) (domain.TaskProcessor, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	processor, ok := s.processors[taskType]
	if !ok {
		return nil, fmt.Errorf("no processor registered for task type: %s", taskType)
	}
	return processor, nil
}

// CreateTask creates a new task
func (s *TaskService) CreateTask(ctx context.Context, workspace string, task *domain.Task) error {
	if task.MaxRuntime <= 0 {
		task.MaxRuntime = defaultMaxTaskRuntime
	}
	if task.MaxRetries <= 0 {
		task.MaxRetries = 3
	}
	if task.RetryInterval <= 0 {
		task.RetryInterval = 60
	}
	return s.repo.Create(ctx, workspace, task)
}

// GetTask retrieves a task by ID
func (s *TaskService) GetTask(ctx context.Context, workspace, id string) (*domain.Task, error) {
	return s.repo.Get(ctx, workspace, id)
}

// ListTasks lists tasks based on filter criteria
func (s *TaskService) ListTasks(ctx context.Context, workspace string, filter domain.TaskFilter) (*domain.TaskListResponse, error) {
	tasks, totalCount, err := s.repo.List(ctx, workspace, filter)
	if err != nil {
		return nil, err
	}
	return &domain.TaskListResponse{
		Tasks:      tasks,
		TotalCount: totalCount,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
		HasMore:    (filter.Offset + len(tasks)) < totalCount,
	}, nil
}

// DeleteTask removes a task
func (s *TaskService) DeleteTask(ctx context.Context, workspace, id string) error {
	return s.repo.Delete(ctx, workspace, id)
}

// ExecutePendingTasks claims and executes a batch of due tasks. It is the
// cron entrypoint.
func (s *TaskService) ExecutePendingTasks(ctx context.Context, maxTasks int) error {
	if maxTasks <= 0 {
		maxTasks = 10
	}

	now := time.Now().UTC()
	s.lastCronMutex.Lock()
	s.lastCronRun = &now
	s.lastCronMutex.Unlock()

	tasks, err := s.repo.GetNextBatch(ctx, maxTasks)
	if err != nil {
		return fmt.Errorf("failed to get next batch of tasks: %w", err)
	}
	if len(tasks) == 0 {
		return nil
	}
	s.logger.WithField("task_count", len(tasks)).Info("Retrieved batch of tasks to process")

	var wg sync.WaitGroup
	for _, task := range tasks {
		wg.Add(1)
		timeoutAt := time.Now().Add(time.Duration(task.MaxRuntime) * time.Second)

		go func(t *domain.Task) {
			defer wg.Done()
			taskCtx, cancel := context.WithDeadline(ctx, timeoutAt)
			defer cancel()

			if err := s.ExecuteTask(taskCtx, t.WorkspaceID, t.ID, timeoutAt); err != nil {
				s.logger.WithFields(map[string]interface{}{
					"task_id":      t.ID,
					"workspace_id": t.WorkspaceID,
					"error":        err.Error(),
				}).Error("Failed to execute task")
			}
		}(task)
	}
	wg.Wait()
	return nil
}

// ExecuteTask runs one slice of a task. The processor decides whether the
// task completed; an incomplete task is parked with its state for the next
// tick, a failed one retries until its retry budget runs out.
func (s *TaskService) ExecuteTask(ctx context.Context, workspace, taskID string, timeoutAt time.Time) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	task, err := s.repo.Get(ctx, workspace, taskID)
	if err != nil {
		return fmt.Errorf("failed to get task: %w", err)
	}

	processor, err := s.GetProcessor(task.Type)
	if err != nil {
		return fmt.Errorf("failed to get processor: %w", err)
	}

	if err := s.repo.MarkAsRunning(ctx, workspace, taskID, timeoutAt); err != nil {
		return fmt.Errorf("failed to mark task as running: %w", err)
	}

	startTime := time.Now()
	completed, procErr := processor.Process(ctx, task, timeoutAt)
	elapsed := time.Since(startTime)

	progress := task.Progress
	if task.State != nil && task.State.Progress > 0 {
		progress = task.State.Progress
	}

	if procErr != nil {
		s.logger.WithFields(map[string]interface{}{
			"task_id":      taskID,
			"elapsed_time": elapsed.String(),
			"error":        procErr.Error(),
		}).Error("Task processing failed")

		if task.RetryCount < task.MaxRetries {
			nextRun := time.Now().UTC().Add(time.Duration(task.RetryInterval) * time.Second)
			if err := s.repo.MarkAsPaused(ctx, workspace, taskID, nextRun, progress, task.State); err != nil {
				return fmt.Errorf("failed to park task for retry: %w", err)
			}
			return nil
		}
		if err := s.repo.MarkAsFailed(ctx, workspace, taskID, procErr.Error()); err != nil {
			return fmt.Errorf("failed to mark task as failed: %w", err)
		}
		return fmt.Errorf("task processing error: %w", procErr)
	}

	if completed {
		if err := s.repo.MarkAsCompleted(ctx, workspace, taskID); err != nil {
			return fmt.Errorf("failed to mark task as completed: %w", err)
		}
		s.logger.WithField("task_id", taskID).Info("Task completed successfully")
		return nil
	}

	// Out of time with work left; resume on the next tick.
	nextRun := time.Now().UTC().Add(time.Minute)
	if task.NextRunAfter != nil && task.NextRunAfter.After(nextRun) {
		nextRun = *task.NextRunAfter
	}
	if err := s.repo.MarkAsPaused(ctx, workspace, taskID, nextRun, progress, task.State); err != nil {
		return fmt.Errorf("failed to mark task as paused: %w", err)
	}
	s.logger.WithField("task_id", taskID).Info("Task paused and will continue in next run")
	return nil
}

// GetLastCronRun reports when pending tasks were last drained, for the ops
// status endpoint.
func (s *TaskService) GetLastCronRun(ctx context.Context) (*time.Time, error) {
	s.lastCronMutex.RLock()
	defer s.lastCronMutex.RUnlock()
	return s.lastCronRun, nil
}

// SubscribeToCampaignEvents runs a scheduled campaign's task as soon as the
// campaign starts instead of waiting for the next cron tick.
func (s *TaskService) SubscribeToCampaignEvents(eventBus domain.EventBus) {
	eventBus.Subscribe(domain.EventCampaignScheduled, func(ctx context.Context, payload domain.EventPayload) {
		task, err := s.repo.GetTaskByCampaignID(ctx, payload.WorkspaceID, payload.EntityID)
		if err != nil {
			s.logger.WithField("campaign_id", payload.EntityID).Warn("No task found for scheduled campaign")
			return
		}
		timeoutAt := time.Now().Add(time.Duration(task.MaxRuntime) * time.Second)
		execCtx, cancel := context.WithDeadline(context.Background(), timeoutAt)
		defer cancel()

		if err := s.ExecuteTask(execCtx, payload.WorkspaceID, task.ID, timeoutAt); err != nil {
			s.logger.WithFields(map[string]interface{}{
				"task_id":     task.ID,
				"campaign_id": payload.EntityID,
				"error":       err.Error(),
			}).Error("Failed to execute campaign task")
		}
	})
}
