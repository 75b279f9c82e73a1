package domain

import (
	"bytes"
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

//go:generate mockgen -destination mocks/mock_task_service.go -package mocks github.com/Waypost/waypost/internal/domain TaskService
//go:generate mockgen -destination mocks/mock_task_repository.go -package mocks github.com/Waypost/waypost/internal/domain TaskRepository
//go:generate mockgen -destination mocks/mock_task_processor.go -package mocks github.com/Waypost/waypost/internal/domain TaskProcessor

// TaskStatus is the lifecycle state of a background task. Paused tasks hit
// their runtime budget mid-flight and resume from saved state.
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
	TaskStatusPaused    TaskStatus = "paused"
)

// Well-known task types.
const (
	TaskTypeRunCampaign = "run_campaign"
	TaskTypeHealthSync  = "health_sync"
)

// TaskState is the resumable state of a task. Exactly one of the per-type
// sub-states is populated, matching the task's type.
type TaskState struct {
	Progress float64 `json:"progress,omitempty"`
	Message  string  `json:"message,omitempty"`

	RunCampaign *RunCampaignState `json:"run_campaign,omitempty"`
	HealthSync  *HealthSyncState  `json:"health_sync,omitempty"`
}

func (s TaskState) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *TaskState) Scan(value interface{}) error {
	if value == nil {
		*s = TaskState{}
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("expected []byte, got %T", value)
	}

	cloned := bytes.Clone(b)
	return json.Unmarshal(cloned, &s)
}

// RunCampaignState contains state specific to campaign execution tasks. The
// offset lets a paused run resume where it left off.
type RunCampaignState struct {
	CampaignID      string `json:"campaign_id"`
	TotalRecipients int    `json:"total_recipients"`
	SentCount       int    `json:"sent_count"`
	FailedCount     int    `json:"failed_count"`
	SkippedCount    int    `json:"skipped_count"`
	RecipientOffset int64  `json:"recipient_offset"`
}

// HealthSyncState contains state specific to provider health sync tasks.
type HealthSyncState struct {
	LastSyncedWorkspaceID string `json:"last_synced_workspace_id,omitempty"`
	SyncedCount           int    `json:"synced_count"`
	TrippedCount          int    `json:"tripped_count"`
}

// Task is a unit of background work executed in runtime-bounded slices.
type Task struct {
	ID            string     `json:"id"`
	WorkspaceID   string     `json:"workspace_id"`
	Type          string     `json:"type"`
	Status        TaskStatus `json:"status"`
	Progress      float64    `json:"progress"`
	State         *TaskState `json:"state,omitempty"`
	ErrorMessage  string     `json:"error_message,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	LastRunAt     *time.Time `json:"last_run_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	NextRunAfter  *time.Time `json:"next_run_after,omitempty"`
	TimeoutAfter  *time.Time `json:"timeout_after,omitempty"`
	MaxRuntime    int        `json:"max_runtime"` // seconds
	MaxRetries    int        `json:"max_retries"`
	RetryCount    int        `json:"retry_count"`
	RetryInterval int        `json:"retry_interval"`        // seconds
	CampaignID    *string    `json:"campaign_id,omitempty"` // set for run_campaign tasks
}

type TaskService interface {
	RegisterProcessor(processor TaskProcessor)
	GetProcessor(taskType string) (TaskProcessor, error)
	CreateTask(ctx context.Context, workspace string, task *Task) error
	GetTask(ctx context.Context, workspace, id string) (*Task, error)
	ListTasks(ctx context.Context, workspace string, filter TaskFilter) (*TaskListResponse, error)
	DeleteTask(ctx context.Context, workspace, id string) error
	ExecutePendingTasks(ctx context.Context, maxTasks int) error
	ExecuteTask(ctx context.Context, workspace, taskID string, timeoutAt time.Time) error
	GetLastCronRun(ctx context.Context) (*time.Time, error)
	SubscribeToCampaignEvents(eventBus EventBus)
}

// TaskRepository persists tasks. The Tx variants run against a caller-owned
// transaction so a row lock taken by GetTx can be held across updates.
type TaskRepository interface {
	WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error

	Create(ctx context.Context, workspace string, task *Task) error
	CreateTx(ctx context.Context, tx *sql.Tx, workspace string, task *Task) error

	Get(ctx context.Context, workspace, id string) (*Task, error)
	GetTx(ctx context.Context, tx *sql.Tx, workspace, id string) (*Task, error)

	GetTaskByCampaignID(ctx context.Context, workspace, campaignID string) (*Task, error)
	GetTaskByCampaignIDTx(ctx context.Context, tx *sql.Tx, workspace, campaignID string) (*Task, error)

	Update(ctx context.Context, workspace string, task *Task) error
	UpdateTx(ctx context.Context, tx *sql.Tx, workspace string, task *Task) error

	Delete(ctx context.Context, workspace, id string) error
	DeleteAll(ctx context.Context, workspace string) error

	List(ctx context.Context, workspace string, filter TaskFilter) ([]*Task, int, error)

	// GetNextBatch claims runnable tasks across all workspaces.
	GetNextBatch(ctx context.Context, limit int) ([]*Task, error)

	MarkAsRunning(ctx context.Context, workspace, id string, timeoutAfter time.Time) error
	MarkAsRunningTx(ctx context.Context, tx *sql.Tx, workspace, id string, timeoutAfter time.Time) error

	SaveState(ctx context.Context, workspace, id string, progress float64, state *TaskState) error
	SaveStateTx(ctx context.Context, tx *sql.Tx, workspace, id string, progress float64, state *TaskState) error

	MarkAsCompleted(ctx context.Context, workspace, id string) error
	MarkAsCompletedTx(ctx context.Context, tx *sql.Tx, workspace, id string) error

	MarkAsFailed(ctx context.Context, workspace, id string, errorMsg string) error
	MarkAsFailedTx(ctx context.Context, tx *sql.Tx, workspace, id string, errorMsg string) error

	MarkAsPaused(ctx context.Context, workspace, id string, nextRunAfter time.Time, progress float64, state *TaskState) error
	MarkAsPausedTx(ctx context.Context, tx *sql.Tx, workspace, id string, nextRunAfter time.Time, progress float64, state *TaskState) error
}

// TaskFilter narrows task listings.
type TaskFilter struct {
	Status        []TaskStatus
	Type          []string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Limit         int
	Offset        int
}

// TaskProcessor executes tasks of the types it recognizes.
type TaskProcessor interface {
	// Process runs or continues a task until done or until timeoutAt nears.
	// completed=false with a nil error means the task should run again later.
	Process(ctx context.Context, task *Task, timeoutAt time.Time) (completed bool, err error)

	CanProcess(taskType string) bool
}

// TaskExecutor picks up runnable tasks and drives them through processors.
type TaskExecutor interface {
	ExecutePendingTasks(ctx context.Context, maxTasks int) error
	ExecuteTask(ctx context.Context, workspaceID, taskID string, timeoutAt time.Time) error
	RegisterProcessor(processor TaskProcessor)
}

// CreateTaskRequest is the payload for creating a task.
type CreateTaskRequest struct {
	WorkspaceID   string     `json:"workspace_id"`
	Type          string     `json:"type"`
	State         *TaskState `json:"state,omitempty"`
	MaxRuntime    int        `json:"max_runtime"`
	MaxRetries    int        `json:"max_retries"`
	RetryInterval int        `json:"retry_interval"`
	NextRunAfter  *time.Time `json:"next_run_after,omitempty"`
}

// Validate checks the request and returns the task to create, with runtime
// and retry defaults filled in.
func (r *CreateTaskRequest) Validate() (*Task, error) {
	if r.WorkspaceID == "" {
		return nil, fmt.Errorf("workspace_id is required")
	}
	if r.Type == "" {
		return nil, fmt.Errorf("task type is required")
	}

	task := &Task{
		WorkspaceID:   r.WorkspaceID,
		Type:          r.Type,
		Status:        TaskStatusPending,
		State:         r.State,
		MaxRuntime:    r.MaxRuntime,
		MaxRetries:    r.MaxRetries,
		RetryInterval: r.RetryInterval,
		NextRunAfter:  r.NextRunAfter,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}

	if task.MaxRuntime <= 0 {
		task.MaxRuntime = 50
	}
	if task.MaxRetries <= 0 {
		task.MaxRetries = 3
	}
	if task.RetryInterval <= 0 {
		task.RetryInterval = 300
	}

	return task, nil
}

// TaskListResponse is a page of tasks.
type TaskListResponse struct {
	Tasks      []*Task `json:"tasks"`
	TotalCount int     `json:"total_count"`
	Limit      int     `json:"limit"`
	Offset     int     `json:"offset"`
	HasMore    bool    `json:"has_more"`
}

// GetTaskRequest identifies a single task.
type GetTaskRequest struct {
	WorkspaceID string `json:"workspace_id"`
	ID          string `json:"id"`
}

func (r *GetTaskRequest) FromURLParams(values url.Values) (err error) {
	r.WorkspaceID, r.ID, err = parseWorkspaceAndID(values)
	return err
}

// DeleteTaskRequest identifies a task to delete.
type DeleteTaskRequest struct {
	WorkspaceID string `json:"workspace_id"`
	ID          string `json:"id"`
}

func (r *DeleteTaskRequest) FromURLParams(values url.Values) (err error) {
	r.WorkspaceID, r.ID, err = parseWorkspaceAndID(values)
	return err
}

func parseWorkspaceAndID(values url.Values) (workspaceID, id string, err error) {
	workspaceID = values.Get("workspace_id")
	if workspaceID == "" {
		return "", "", fmt.Errorf("workspace_id is required")
	}
	id = values.Get("id")
	if id == "" {
		return "", "", fmt.Errorf("id is required")
	}
	return workspaceID, id, nil
}

// ListTasksRequest carries the query parameters of a task listing.
type ListTasksRequest struct {
	WorkspaceID   string   `json:"workspace_id"`
	Status        []string `json:"status,omitempty"`
	Type          []string `json:"type,omitempty"`
	CreatedAfter  string   `json:"created_after,omitempty"`
	CreatedBefore string   `json:"created_before,omitempty"`
	Limit         int      `json:"limit,omitempty"`
	Offset        int      `json:"offset,omitempty"`
}

func (r *ListTasksRequest) FromURLParams(values url.Values) error {
	r.WorkspaceID = values.Get("workspace_id")
	if r.WorkspaceID == "" {
		return fmt.Errorf("workspace_id is required")
	}

	if statusParam := values.Get("status"); statusParam != "" {
		r.Status = splitAndTrim(statusParam)
	}
	if typeParam := values.Get("type"); typeParam != "" {
		r.Type = splitAndTrim(typeParam)
	}

	r.CreatedAfter = values.Get("created_after")
	r.CreatedBefore = values.Get("created_before")

	if limitStr := values.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return fmt.Errorf("invalid limit parameter: %w", err)
		}
		r.Limit = limit
	}
	if offsetStr := values.Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return fmt.Errorf("invalid offset parameter: %w", err)
		}
		r.Offset = offset
	}

	return nil
}

// ToFilter converts the request to a TaskFilter. Unparseable date filters
// are ignored rather than rejected.
func (r *ListTasksRequest) ToFilter() TaskFilter {
	filter := TaskFilter{
		Limit:  r.Limit,
		Offset: r.Offset,
		Type:   r.Type,
	}
	if filter.Limit <= 0 {
		filter.Limit = 100
	}

	if len(r.Status) > 0 {
		filter.Status = make([]TaskStatus, len(r.Status))
		for i, s := range r.Status {
			filter.Status[i] = TaskStatus(s)
		}
	}

	if r.CreatedAfter != "" {
		if t, err := time.Parse(time.RFC3339, r.CreatedAfter); err == nil {
			filter.CreatedAfter = &t
		}
	}
	if r.CreatedBefore != "" {
		if t, err := time.Parse(time.RFC3339, r.CreatedBefore); err == nil {
			filter.CreatedBefore = &t
		}
	}

	return filter
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}

	parts := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

// ExecutePendingTasksRequest triggers a cron-style pass over pending tasks.
type ExecutePendingTasksRequest struct {
	MaxTasks int `json:"max_tasks,omitempty"`
}

func (r *ExecutePendingTasksRequest) FromURLParams(values url.Values) error {
	r.MaxTasks = 10
	if maxTasksStr := values.Get("max_tasks"); maxTasksStr != "" {
		maxTasks, err := strconv.Atoi(maxTasksStr)
		if err != nil {
			return fmt.Errorf("invalid max_tasks parameter: %w", err)
		}
		r.MaxTasks = maxTasks
	}
	return nil
}

// ExecuteTaskRequest targets one task for immediate execution.
type ExecuteTaskRequest struct {
	WorkspaceID string `json:"workspace_id"`
	ID          string `json:"id"`
}

func (r *ExecuteTaskRequest) Validate() error {
	if r.WorkspaceID == "" {
		return fmt.Errorf("workspace_id is required")
	}
	if r.ID == "" {
		return fmt.Errorf("task id is required")
	}
	return nil
}
