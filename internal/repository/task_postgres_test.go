package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Waypost/waypost/internal/domain"
)

func newTaskRepo(t *testing.T) (domain.TaskRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	return NewTaskRepository(db), mock
}

func taskColumns() []string {
	return []string{
		"id", "workspace_id", "type", "status", "progress", "state",
		"error_message", "created_at", "updated_at", "last_run_at",
		"completed_at", "next_run_after", "timeout_after",
		"max_runtime", "max_retries", "retry_count", "retry_interval",
		"campaign_id",
	}
}

func taskRow(retryCount int) *sqlmock.Rows {
	now := time.Now().UTC()
	state := []byte(`{"progress":40,"run_campaign":{"campaign_id":"camp-1","total_recipients":3}}`)
	return sqlmock.NewRows(taskColumns()).AddRow(
		"task-1", "ws1", domain.TaskTypeRunCampaign, string(domain.TaskStatusPending),
		40.0, state, "", now, now, nil, nil, nil, nil,
		50, 3, retryCount, 60, "camp-1",
	)
}

func TestTaskCreateInsertsInsideTransaction(t *testing.T) {
	repo, mock := newTaskRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO tasks`).
		WithArgs(
			"task-1", "ws1", domain.TaskTypeRunCampaign, domain.TaskStatusPending,
			0.0, sqlmock.AnyArg(), "", sqlmock.AnyArg(), sqlmock.AnyArg(),
			nil, nil, nil, nil, 50, 3, 0, 60, sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	campaignID := "camp-1"
	err := repo.Create(context.Background(), "ws1", &domain.Task{
		ID:            "task-1",
		WorkspaceID:   "ws1",
		Type:          domain.TaskTypeRunCampaign,
		MaxRuntime:    50,
		MaxRetries:    3,
		RetryInterval: 60,
		CampaignID:    &campaignID,
	})
	assert.NoError(t, err)
}

func TestTaskGetLocksRowAndRestoresState(t *testing.T) {
	repo, mock := newTaskRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM tasks\s+WHERE id = \$1 AND workspace_id = \$2\s+FOR UPDATE`).
		WithArgs("task-1", "ws1").
		WillReturnRows(taskRow(0))
	mock.ExpectCommit()

	task, err := repo.Get(context.Background(), "ws1", "task-1")
	require.NoError(t, err)

	assert.Equal(t, "task-1", task.ID)
	require.NotNil(t, task.State)
	assert.Equal(t, 40.0, task.State.Progress)
	require.NotNil(t, task.State.RunCampaign)
	assert.Equal(t, "camp-1", task.State.RunCampaign.CampaignID)
	require.NotNil(t, task.CampaignID)
	assert.Equal(t, "camp-1", *task.CampaignID)
	assert.Nil(t, task.NextRunAfter)
}

func TestTaskGetNotFound(t *testing.T) {
	repo, mock := newTaskRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM tasks\s+WHERE id = \$1 AND workspace_id = \$2`).
		WithArgs("missing", "ws1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Get(context.Background(), "ws1", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestTaskMarkAsRunningStampsTimeout(t *testing.T) {
	repo, mock := newTaskRepo(t)
	timeoutAt := time.Now().UTC().Add(50 * time.Second)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE tasks SET status = \$1, updated_at = \$2, last_run_at = \$3, timeout_after = \$4`).
		WithArgs(string(domain.TaskStatusRunning), sqlmock.AnyArg(), sqlmock.AnyArg(), timeoutAt, "task-1", "ws1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.MarkAsRunning(context.Background(), "ws1", "task-1", timeoutAt))
}

func TestTaskMarkAsCompletedClearsTimeout(t *testing.T) {
	repo, mock := newTaskRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE tasks SET status = \$1, progress = \$2`).
		WithArgs(string(domain.TaskStatusCompleted), 100, sqlmock.AnyArg(), sqlmock.AnyArg(), nil, "task-1", "ws1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.MarkAsCompleted(context.Background(), "ws1", "task-1"))
}

func TestTaskMarkAsFailedWithRetryBudgetReschedules(t *testing.T) {
	repo, mock := newTaskRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM tasks\s+WHERE id = \$1 AND workspace_id = \$2\s+FOR UPDATE`).
		WithArgs("task-1", "ws1").
		WillReturnRows(taskRow(1))
	mock.ExpectExec(`UPDATE tasks SET status = \$1, error_message = \$2, updated_at = \$3, retry_count = retry_count \+ 1, next_run_after = \$4`).
		WithArgs(string(domain.TaskStatusPending), "provider unavailable", sqlmock.AnyArg(), sqlmock.AnyArg(), nil, "task-1", "ws1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.MarkAsFailed(context.Background(), "ws1", "task-1", "provider unavailable"))
}

func TestTaskMarkAsFailedRetriesExhausted(t *testing.T) {
	repo, mock := newTaskRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM tasks\s+WHERE id = \$1 AND workspace_id = \$2\s+FOR UPDATE`).
		WithArgs("task-1", "ws1").
		WillReturnRows(taskRow(3))
	mock.ExpectExec(`UPDATE tasks SET status = \$1, error_message = \$2`).
		WithArgs(string(domain.TaskStatusFailed), "provider unavailable", sqlmock.AnyArg(), nil, nil, "task-1", "ws1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.MarkAsFailed(context.Background(), "ws1", "task-1", "provider unavailable"))
}

func TestTaskMarkAsPausedSavesStateAndSchedule(t *testing.T) {
	repo, mock := newTaskRepo(t)
	nextRun := time.Now().UTC().Add(time.Minute)
	state := &domain.TaskState{
		Progress:    40,
		RunCampaign: &domain.RunCampaignState{CampaignID: "camp-1"},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE tasks SET status = \$1, progress = \$2, state = \$3, updated_at = \$4, next_run_after = \$5, timeout_after = \$6, retry_count = retry_count \+ 1`).
		WithArgs(string(domain.TaskStatusPaused), 40.0, sqlmock.AnyArg(), sqlmock.AnyArg(), nextRun, nil, "task-1", "ws1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.MarkAsPaused(context.Background(), "ws1", "task-1", nextRun, 40, state))
}

func TestTaskMarkAsRunningNotFound(t *testing.T) {
	repo, mock := newTaskRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE tasks SET status = \$1`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "missing", "ws1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.MarkAsRunning(context.Background(), "ws1", "missing", time.Now().Add(time.Minute))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestTaskGetNextBatchSkipsLockedRows(t *testing.T) {
	repo, mock := newTaskRepo(t)

	mock.ExpectQuery(`FROM tasks WHERE \(.+\) ORDER BY next_run_after NULLS FIRST, created_at LIMIT 10 FOR UPDATE SKIP LOCKED`).
		WillReturnRows(taskRow(0))

	tasks, err := repo.GetNextBatch(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "task-1", tasks[0].ID)
}

func TestTaskGetByCampaignID(t *testing.T) {
	repo, mock := newTaskRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`WHERE workspace_id = \$1 AND campaign_id = \$2\s+AND type = 'run_campaign'`).
		WithArgs("ws1", "camp-1").
		WillReturnRows(taskRow(0))
	mock.ExpectCommit()

	task, err := repo.GetTaskByCampaignID(context.Background(), "ws1", "camp-1")
	require.NoError(t, err)
	assert.Equal(t, "task-1", task.ID)
}
