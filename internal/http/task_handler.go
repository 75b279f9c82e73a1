package http

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/internal/http/middleware"
	"github.com/Waypost/waypost/pkg/logger"
	"github.com/Waypost/waypost/pkg/tracing"
)

// TaskHandler handles HTTP requests related to background tasks
type TaskHandler struct {
	taskService domain.TaskService
	authService domain.AuthService
	logger      logger.Logger
	tracer      tracing.Tracer
	cronSecret  string
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(
	taskService domain.TaskService,
	authService domain.AuthService,
	logger logger.Logger,
	cronSecret string,
) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		authService: authService,
		logger:      logger,
		tracer:      tracing.GetTracer(),
		cronSecret:  cronSecret,
	}
}

// RegisterRoutes registers the task-related routes
func (h *TaskHandler) RegisterRoutes(mux *http.ServeMux) {
	authMiddleware := middleware.NewAuthMiddleware(h.authService)
	requireAuth := authMiddleware.RequireAuth

	mux.Handle("/api/tasks.create", requireAuth(http.HandlerFunc(h.CreateTask)))
	mux.Handle("/api/tasks.list", requireAuth(http.HandlerFunc(h.ListTasks)))
	mux.Handle("/api/tasks.get", requireAuth(http.HandlerFunc(h.GetTask)))
	mux.Handle("/api/tasks.delete", requireAuth(http.HandlerFunc(h.DeleteTask)))
	mux.Handle("/api/tasks.execute", requireAuth(http.HandlerFunc(h.ExecuteTask)))
	// Cron routes are public; the shared secret is the credential so external
	// schedulers can trigger them without a workspace key.
	mux.Handle("/api/cron", http.HandlerFunc(h.ExecutePendingTasks))
	mux.Handle("/api/cron.status", http.HandlerFunc(h.GetCronStatus))
}

// checkCronSecret compares the caller-supplied secret against the configured
// one. An empty configured secret disables the check.
func (h *TaskHandler) checkCronSecret(r *http.Request) bool {
	if h.cronSecret == "" {
		return true
	}
	provided := r.Header.Get("X-Cron-Secret")
	if provided == "" {
		provided = r.URL.Query().Get("secret")
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(h.cronSecret)) == 1
}

// CreateTask handles creation of a new task
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "TaskHandler.CreateTask")
	defer func() {
		if span != nil {
			h.tracer.EndSpan(span, nil)
		}
	}()
	// codecov:ignore:end

	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var createRequest domain.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&createRequest); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	task, err := createRequest.Validate()
	if err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.authService.AuthenticateForWorkspace(ctx, createRequest.WorkspaceID); err != nil {
		WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.taskService.CreateTask(ctx, createRequest.WorkspaceID, task); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to create task")
		WriteJSONError(w, "Failed to create task", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"task": task,
	})
}

// GetTask handles retrieval of a task by ID
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "TaskHandler.GetTask")
	defer func() {
		if span != nil {
			h.tracer.EndSpan(span, nil)
		}
	}()
	// codecov:ignore:end

	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var getRequest domain.GetTaskRequest
	if err := getRequest.FromURLParams(r.URL.Query()); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.authService.AuthenticateForWorkspace(ctx, getRequest.WorkspaceID); err != nil {
		WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	task, err := h.taskService.GetTask(ctx, getRequest.WorkspaceID, getRequest.ID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			WriteJSONError(w, "Task not found", http.StatusNotFound)
		} else {
			h.logger.WithField("error", err.Error()).Error("Failed to get task")
			WriteJSONError(w, "Failed to get task", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"task": task,
	})
}

// ListTasks handles listing tasks with optional filtering
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "TaskHandler.ListTasks")
	defer func() {
		if span != nil {
			h.tracer.EndSpan(span, nil)
		}
	}()
	// codecov:ignore:end

	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var listRequest domain.ListTasksRequest
	if err := listRequest.FromURLParams(r.URL.Query()); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.authService.AuthenticateForWorkspace(ctx, listRequest.WorkspaceID); err != nil {
		WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	response, err := h.taskService.ListTasks(ctx, listRequest.WorkspaceID, listRequest.ToFilter())
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to list tasks")
		WriteJSONError(w, "Failed to list tasks", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// DeleteTask handles deletion of a task
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "TaskHandler.DeleteTask")
	defer func() {
		if span != nil {
			h.tracer.EndSpan(span, nil)
		}
	}()
	// codecov:ignore:end

	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var deleteRequest domain.DeleteTaskRequest
	if err := deleteRequest.FromURLParams(r.URL.Query()); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.authService.AuthenticateForWorkspace(ctx, deleteRequest.WorkspaceID); err != nil {
		WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.taskService.DeleteTask(ctx, deleteRequest.WorkspaceID, deleteRequest.ID); err != nil {
		if strings.Contains(err.Error(), "not found") {
			WriteJSONError(w, "Task not found", http.StatusNotFound)
		} else {
			h.logger.WithField("error", err.Error()).Error("Failed to delete task")
			WriteJSONError(w, "Failed to delete task", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

// ExecutePendingTasks handles the cron-triggered task execution
func (h *TaskHandler) ExecutePendingTasks(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "TaskHandler.ExecutePendingTasks")
	defer func() {
		if span != nil {
			h.tracer.EndSpan(span, nil)
		}
	}()
	// codecov:ignore:end

	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !h.checkCronSecret(r) {
		WriteJSONError(w, "Invalid cron secret", http.StatusForbidden)
		return
	}

	startTime := time.Now()

	var executeRequest domain.ExecutePendingTasksRequest
	if err := executeRequest.FromURLParams(r.URL.Query()); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.taskService.ExecutePendingTasks(ctx, executeRequest.MaxTasks); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to execute tasks")
		WriteJSONError(w, "Failed to execute tasks", http.StatusInternalServerError)
		return
	}

	elapsed := time.Since(startTime)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"message":   "Task execution initiated",
		"max_tasks": executeRequest.MaxTasks,
		"elapsed":   elapsed.String(),
	})
}

// ExecuteTask handles execution of a single task
func (h *TaskHandler) ExecuteTask(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "TaskHandler.ExecuteTask")
	defer func() {
		if span != nil {
			h.tracer.EndSpan(span, nil)
		}
	}()
	// codecov:ignore:end

	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var executeRequest domain.ExecuteTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&executeRequest); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := executeRequest.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.authService.AuthenticateForWorkspace(ctx, executeRequest.WorkspaceID); err != nil {
		WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	// The task's own MaxRuntime bounds this run.
	task, err := h.taskService.GetTask(ctx, executeRequest.WorkspaceID, executeRequest.ID)
	if err != nil {
		WriteJSONError(w, err.Error(), http.StatusNotFound)
		return
	}

	timeoutAt := time.Now().Add(time.Duration(task.MaxRuntime) * time.Second)

	if err := h.taskService.ExecuteTask(ctx, executeRequest.WorkspaceID, executeRequest.ID, timeoutAt); err != nil {
		switch e := err.(type) {
		case *domain.ErrNotFound:
			WriteJSONError(w, e.Error(), http.StatusNotFound)
		case *domain.ErrTaskExecution:
			h.logger.WithFields(map[string]interface{}{
				"task_id":      executeRequest.ID,
				"workspace_id": executeRequest.WorkspaceID,
				"reason":       e.Reason,
				"error":        err.Error(),
			}).Error("Task execution failed")

			if e.Reason == "no processor registered for task type" {
				WriteJSONError(w, "Unsupported task type", http.StatusBadRequest)
			} else {
				WriteJSONError(w, "Task execution failed: "+e.Reason, http.StatusInternalServerError)
			}
		case *domain.ErrTaskTimeout:
			WriteJSONError(w, e.Error(), http.StatusGatewayTimeout)
		default:
			h.logger.WithFields(map[string]interface{}{
				"task_id":      executeRequest.ID,
				"workspace_id": executeRequest.WorkspaceID,
				"error":        err.Error(),
			}).Error("Failed to execute task")
			WriteJSONError(w, "Failed to execute task", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Task execution initiated",
	})
}

// GetCronStatus returns the last recorded cron run
func (h *TaskHandler) GetCronStatus(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "TaskHandler.GetCronStatus")
	defer func() {
		if span != nil {
			h.tracer.EndSpan(span, nil)
		}
	}()
	// codecov:ignore:end

	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !h.checkCronSecret(r) {
		WriteJSONError(w, "Invalid cron secret", http.StatusForbidden)
		return
	}

	lastRun, err := h.taskService.GetLastCronRun(ctx)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to get last cron run")
		WriteJSONError(w, "Failed to get cron status", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"success": true,
	}

	if lastRun != nil {
		timeSince := time.Since(*lastRun)
		response["last_run"] = lastRun.Format(time.RFC3339)
		response["time_since_last_run"] = timeSince.String()
		response["time_since_last_run_seconds"] = int64(timeSince.Seconds())
	} else {
		response["last_run"] = nil
		response["message"] = "No cron run recorded yet"
	}

	writeJSON(w, http.StatusOK, response)
}
