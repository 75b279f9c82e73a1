package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/Waypost/waypost/internal/domain"
	"github.com/google/uuid"
)

// taskColumnsSQL is the column list shared by every task SELECT.
const taskColumnsSQL = `id, workspace_id, type, status, progress, state,
			error_message, created_at, updated_at, last_run_at,
			completed_at, next_run_after, timeout_after,
			max_runtime, max_retries, retry_count, retry_interval,
			campaign_id`

var taskColumnList = []string{
	"id", "workspace_id", "type", "status", "progress", "state",
	"error_message", "created_at", "updated_at", "last_run_at",
	"completed_at", "next_run_after", "timeout_after",
	"max_runtime", "max_retries", "retry_count", "retry_interval",
	"campaign_id",
}

// TaskRepository stores tasks in the system database.
//
// Workers coordinate through row-level locks: a task is read FOR UPDATE (or
// claimed via FOR UPDATE SKIP LOCKED in GetNextBatch), mutated, and released
// when the surrounding transaction commits. The Tx variants exist so a caller
// can hold the lock across several of these operations.
type TaskRepository struct {
	systemDB *sql.DB
}

// NewTaskRepository creates a task repository on the system database.
func NewTaskRepository(db *sql.DB) domain.TaskRepository {
	return &TaskRepository{systemDB: db}
}

// WithTransaction runs fn inside a transaction, rolling back on error.
func (r *TaskRepository) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.systemDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Create adds a new task.
func (r *TaskRepository) Create(ctx context.Context, workspace string, task *domain.Task) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		return r.CreateTx(ctx, tx, workspace, task)
	})
}

// CreateTx adds a new task within a transaction, filling in the id, the
// timestamps and the default status.
func (r *TaskRepository) CreateTx(ctx context.Context, tx *sql.Tx, workspace string, task *domain.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	if task.Status == "" {
		task.Status = domain.TaskStatusPending
	}

	stateJSON, err := json.Marshal(task.State)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	normalizeTaskTimes(task)

	query := `
		INSERT INTO tasks (
			id, workspace_id, type, status, progress, state,
			error_message, created_at, updated_at, last_run_at,
			completed_at, next_run_after, timeout_after,
			max_runtime, max_retries, retry_count, retry_interval,
			campaign_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
		)
	`

	_, err = tx.ExecContext(ctx, query,
		task.ID, workspace, task.Type, task.Status, task.Progress, stateJSON,
		task.ErrorMessage, task.CreatedAt, task.UpdatedAt, task.LastRunAt,
		task.CompletedAt, task.NextRunAfter, task.TimeoutAfter,
		task.MaxRuntime, task.MaxRetries, task.RetryCount, task.RetryInterval,
		task.CampaignID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// Get retrieves a task by ID.
func (r *TaskRepository) Get(ctx context.Context, workspace, id string) (*domain.Task, error) {
	var task *domain.Task
	var err error

	err = r.WithTransaction(ctx, func(tx *sql.Tx) error {
		task, err = r.GetTx(ctx, tx, workspace, id)
		return err
	})

	return task, err
}

// GetTx retrieves a task by ID within a transaction, locking its row.
func (r *TaskRepository) GetTx(ctx context.Context, tx *sql.Tx, workspace, id string) (*domain.Task, error) {
	query := `
		SELECT ` + taskColumnsSQL + `
		FROM tasks
		WHERE id = $1 AND workspace_id = $2
		FOR UPDATE
	`

	task, err := scanTask(tx.QueryRowContext(ctx, query, id, workspace))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task not found")
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// Update rewrites every mutable column of an existing task.
func (r *TaskRepository) Update(ctx context.Context, workspace string, task *domain.Task) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		return r.UpdateTx(ctx, tx, workspace, task)
	})
}

// UpdateTx rewrites an existing task within a transaction.
func (r *TaskRepository) UpdateTx(ctx context.Context, tx *sql.Tx, workspace string, task *domain.Task) error {
	task.UpdatedAt = time.Now().UTC()

	stateJSON, err := json.Marshal(task.State)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	query := `
		UPDATE tasks
		SET
			type = $3,
			status = $4,
			progress = $5,
			state = $6,
			error_message = $7,
			updated_at = $8,
			last_run_at = $9,
			completed_at = $10,
			next_run_after = $11,
			timeout_after = $12,
			max_runtime = $13,
			max_retries = $14,
			retry_count = $15,
			retry_interval = $16,
			campaign_id = $17
		WHERE id = $1 AND workspace_id = $2
	`

	result, err := tx.ExecContext(ctx, query,
		task.ID, workspace, task.Type, task.Status, task.Progress, stateJSON,
		task.ErrorMessage, task.UpdatedAt, task.LastRunAt, task.CompletedAt,
		task.NextRunAfter, task.TimeoutAfter, task.MaxRuntime, task.MaxRetries,
		task.RetryCount, task.RetryInterval, task.CampaignID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	return requireTaskFound(result)
}

// Delete removes a task.
func (r *TaskRepository) Delete(ctx context.Context, workspace, id string) error {
	result, err := r.systemDB.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND workspace_id = $2`, id, workspace)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return requireTaskFound(result)
}

// List retrieves a page of tasks matching the filter, newest first, along
// with the total match count.
func (r *TaskRepository) List(ctx context.Context, workspace string, filter domain.TaskFilter) ([]*domain.Task, int, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	countQuery := applyTaskFilter(psql.Select("COUNT(*)").
		From("tasks").
		Where(sq.Eq{"workspace_id": workspace}), filter)

	countSQL, countArgs, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var totalCount int
	err = r.systemDB.QueryRowContext(ctx, countSQL, countArgs...).Scan(&totalCount)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	dataQuery := applyTaskFilter(psql.Select(taskColumnList...).
		From("tasks").
		Where(sq.Eq{"workspace_id": workspace}), filter).
		OrderBy("created_at DESC").
		Limit(uint64(filter.Limit))

	if filter.Offset > 0 {
		dataQuery = dataQuery.Offset(uint64(filter.Offset))
	}

	dataSQL, dataArgs, err := dataQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build tasks query: %w", err)
	}

	rows, err := r.systemDB.QueryContext(ctx, dataSQL, dataArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks, err := collectTasks(rows)
	if err != nil {
		return nil, 0, err
	}
	return tasks, totalCount, nil
}

func applyTaskFilter(b sq.SelectBuilder, filter domain.TaskFilter) sq.SelectBuilder {
	if len(filter.Status) > 0 {
		statusStrings := make([]string, len(filter.Status))
		for i, s := range filter.Status {
			statusStrings[i] = string(s)
		}
		b = b.Where(sq.Eq{"status": statusStrings})
	}
	if len(filter.Type) > 0 {
		b = b.Where(sq.Eq{"type": filter.Type})
	}
	if filter.CreatedAfter != nil {
		b = b.Where(sq.GtOrEq{"created_at": filter.CreatedAfter})
	}
	if filter.CreatedBefore != nil {
		b = b.Where(sq.LtOrEq{"created_at": filter.CreatedBefore})
	}
	return b
}

// GetNextBatch claims up to limit runnable tasks: pending tasks whose
// next_run_after has passed (or is unset), paused tasks due to resume, and
// running tasks whose timeout has expired. SKIP LOCKED keeps concurrent
// workers from claiming the same rows.
func (r *TaskRepository) GetNextBatch(ctx context.Context, limit int) ([]*domain.Task, error) {
	now := time.Now()
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	query := psql.Select(taskColumnList...).
		From("tasks").
		Where(sq.Or{
			sq.And{
				sq.Eq{"status": string(domain.TaskStatusPending)},
				sq.Or{
					sq.Eq{"next_run_after": nil},
					sq.LtOrEq{"next_run_after": now},
				},
			},
			sq.And{
				sq.Eq{"status": string(domain.TaskStatusPaused)},
				sq.LtOrEq{"next_run_after": now},
			},
			sq.And{
				sq.Eq{"status": string(domain.TaskStatusRunning)},
				sq.LtOrEq{"timeout_after": now},
			},
		}).
		OrderBy("next_run_after NULLS FIRST, created_at").
		Limit(uint64(limit)).
		Suffix("FOR UPDATE SKIP LOCKED")

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build next batch query: %w", err)
	}

	rows, err := r.systemDB.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get next batch of tasks: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

// SaveState checkpoints a running task's progress and state.
func (r *TaskRepository) SaveState(ctx context.Context, workspace, id string, progress float64, state *domain.TaskState) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		return r.SaveStateTx(ctx, tx, workspace, id, progress, state)
	})
}

// SaveStateTx checkpoints a running task within a transaction. The status
// guard makes this a no-op once the task has left the running state.
func (r *TaskRepository) SaveStateTx(ctx context.Context, tx *sql.Tx, workspace, id string, progress float64, state *domain.TaskState) error {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query := psql.Update("tasks").
		Set("progress", progress).
		Set("state", stateJSON).
		Set("updated_at", time.Now().UTC()).
		Where(sq.And{
			sq.Eq{
				"id":           id,
				"workspace_id": workspace,
				"status":       domain.TaskStatusRunning,
			},
		})

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
		return fmt.Errorf("failed to save task state: %w", err)
	}
	return nil
}

// MarkAsRunning transitions a task to running and arms its timeout.
func (r *TaskRepository) MarkAsRunning(ctx context.Context, workspace, id string, timeoutAfter time.Time) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		return r.MarkAsRunningTx(ctx, tx, workspace, id, timeoutAfter)
	})
}

// MarkAsRunningTx transitions a task to running within a transaction.
func (r *TaskRepository) MarkAsRunningTx(ctx context.Context, tx *sql.Tx, workspace, id string, timeoutAfter time.Time) error {
	now := time.Now().UTC()
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	query := psql.Update("tasks").
		Set("status", domain.TaskStatusRunning).
		Set("updated_at", now).
		Set("last_run_at", now).
		Set("timeout_after", timeoutAfter).
		Where(sq.Eq{
			"id":           id,
			"workspace_id": workspace,
		})

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	result, err := tx.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		return fmt.Errorf("failed to mark task as running: %w", err)
	}
	return requireTaskFound(result)
}

// MarkAsCompleted finishes a task, pinning progress to 100 and disarming the
// timeout.
func (r *TaskRepository) MarkAsCompleted(ctx context.Context, workspace, id string) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		return r.MarkAsCompletedTx(ctx, tx, workspace, id)
	})
}

// MarkAsCompletedTx finishes a task within a transaction.
func (r *TaskRepository) MarkAsCompletedTx(ctx context.Context, tx *sql.Tx, workspace, id string) error {
	now := time.Now().UTC()
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	query := psql.Update("tasks").
		Set("status", domain.TaskStatusCompleted).
		Set("progress", 100).
		Set("updated_at", now).
		Set("completed_at", now).
		Set("timeout_after", nil).
		Where(sq.Eq{
			"id":           id,
			"workspace_id": workspace,
		})

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	result, err := tx.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		return fmt.Errorf("failed to mark task as completed: %w", err)
	}
	return requireTaskFound(result)
}

// MarkAsFailed records a failure. While the retry budget lasts the task goes
// back to pending with next_run_after pushed out by the retry interval;
// otherwise it lands in failed for good.
func (r *TaskRepository) MarkAsFailed(ctx context.Context, workspace, id string, errorMsg string) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		return r.MarkAsFailedTx(ctx, tx, workspace, id, errorMsg)
	})
}

// MarkAsFailedTx records a failure within a transaction.
func (r *TaskRepository) MarkAsFailedTx(ctx context.Context, tx *sql.Tx, workspace, id string, errorMsg string) error {
	// The retry decision needs the current counters, read under the row lock.
	task, err := r.GetTx(ctx, tx, workspace, id)
	if err != nil {
		return fmt.Errorf("failed to get task for retry check: %w", err)
	}

	now := time.Now().UTC()
	newStatus := domain.TaskStatusFailed
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	var nextRunAfter *time.Time
	if task.RetryCount < task.MaxRetries {
		retryTime := now.Add(time.Duration(task.RetryInterval) * time.Second)
		nextRunAfter = &retryTime
		newStatus = domain.TaskStatusPending
	}

	query := psql.Update("tasks").
		Set("status", newStatus).
		Set("error_message", errorMsg).
		Set("updated_at", now).
		Set("retry_count", sq.Expr("retry_count + 1")).
		Set("next_run_after", nextRunAfter).
		Set("timeout_after", nil).
		Where(sq.Eq{
			"id":           id,
			"workspace_id": workspace,
		})

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	result, err := tx.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		return fmt.Errorf("failed to mark task as failed: %w", err)
	}
	return requireTaskFound(result)
}

// MarkAsPaused parks a task until nextRunAfter, persisting the progress and
// state it should resume from. Pausing consumes one retry.
func (r *TaskRepository) MarkAsPaused(ctx context.Context, workspace, id string, nextRunAfter time.Time, progress float64, state *domain.TaskState) error {
	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		return r.MarkAsPausedTx(ctx, tx, workspace, id, nextRunAfter, progress, state)
	})
}

// MarkAsPausedTx parks a task within a transaction.
func (r *TaskRepository) MarkAsPausedTx(ctx context.Context, tx *sql.Tx, workspace, id string, nextRunAfter time.Time, progress float64, state *domain.TaskState) error {
	now := time.Now().UTC()

	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	query := psql.Update("tasks").
		Set("status", domain.TaskStatusPaused).
		Set("progress", progress).
		Set("state", stateJSON).
		Set("updated_at", now).
		Set("next_run_after", nextRunAfter).
		Set("timeout_after", nil).
		Set("retry_count", sq.Expr("retry_count + 1")).
		Where(sq.Eq{
			"id":           id,
			"workspace_id": workspace,
		})

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	result, err := tx.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		return fmt.Errorf("failed to mark task as paused: %w", err)
	}
	return requireTaskFound(result)
}

// GetTaskByCampaignID retrieves the run task tied to a campaign.
func (r *TaskRepository) GetTaskByCampaignID(ctx context.Context, workspace, campaignID string) (*domain.Task, error) {
	var task *domain.Task
	var err error

	err = r.WithTransaction(ctx, func(tx *sql.Tx) error {
		task, err = r.GetTaskByCampaignIDTx(ctx, tx, workspace, campaignID)
		return err
	})

	return task, err
}

// GetTaskByCampaignIDTx retrieves a campaign's run task within a transaction,
// locking its row.
func (r *TaskRepository) GetTaskByCampaignIDTx(ctx context.Context, tx *sql.Tx, workspace, campaignID string) (*domain.Task, error) {
	query := `
		SELECT ` + taskColumnsSQL + `
		FROM tasks
		WHERE workspace_id = $1 AND campaign_id = $2
		AND type = 'run_campaign'
		LIMIT 1
		FOR UPDATE
	`

	task, err := scanTask(tx.QueryRowContext(ctx, query, workspace, campaignID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task not found for campaign ID %s", campaignID)
		}
		return nil, fmt.Errorf("failed to get task by campaign ID: %w", err)
	}
	return task, nil
}

// DeleteAll removes every task of a workspace.
func (r *TaskRepository) DeleteAll(ctx context.Context, workspace string) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	query := psql.Delete("tasks").
		Where(sq.Eq{"workspace_id": workspace})

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	if _, err := r.systemDB.ExecContext(ctx, sqlQuery, args...); err != nil {
		return fmt.Errorf("failed to delete tasks: %w", err)
	}
	return nil
}

func normalizeTaskTimes(task *domain.Task) {
	for _, t := range []**time.Time{&task.NextRunAfter, &task.TimeoutAfter, &task.LastRunAt, &task.CompletedAt} {
		if *t != nil {
			utc := (**t).UTC()
			*t = &utc
		}
	}
}

func requireTaskFound(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("task not found")
	}
	return nil
}

func scanTask(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.Task, error) {
	var task domain.Task
	var stateJSON []byte
	var lastRunAt, completedAt, nextRunAfter, timeoutAfter sql.NullTime
	var campaignID sql.NullString

	err := scanner.Scan(
		&task.ID,
		&task.WorkspaceID,
		&task.Type,
		&task.Status,
		&task.Progress,
		&stateJSON,
		&task.ErrorMessage,
		&task.CreatedAt,
		&task.UpdatedAt,
		&lastRunAt,
		&completedAt,
		&nextRunAfter,
		&timeoutAfter,
		&task.MaxRuntime,
		&task.MaxRetries,
		&task.RetryCount,
		&task.RetryInterval,
		&campaignID,
	)
	if err != nil {
		return nil, err
	}

	if lastRunAt.Valid {
		task.LastRunAt = &lastRunAt.Time
	}
	if completedAt.Valid {
		task.CompletedAt = &completedAt.Time
	}
	if nextRunAfter.Valid {
		task.NextRunAfter = &nextRunAfter.Time
	}
	if timeoutAfter.Valid {
		task.TimeoutAfter = &timeoutAfter.Time
	}
	if campaignID.Valid {
		task.CampaignID = &campaignID.String
	}

	if stateJSON != nil {
		task.State = &domain.TaskState{}
		if err := json.Unmarshal(stateJSON, task.State); err != nil {
			return nil, fmt.Errorf("failed to unmarshal state: %w", err)
		}
	}

	return &task, nil
}

func collectTasks(rows *sql.Rows) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}
	return tasks, nil
}
