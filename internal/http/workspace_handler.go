package http

import (
	"encoding/json"
	"net/http"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/internal/http/middleware"
	"github.com/Waypost/waypost/pkg/logger"
	"github.com/Waypost/waypost/pkg/tracing"
)

// WorkspaceHandler handles HTTP requests for tenant workspaces. Creation,
// phone assignment and deletion are platform operations and require the
// admin role; reads are workspace-scoped.
type WorkspaceHandler struct {
	service       domain.WorkspaceServiceInterface
	killSwitchSvc domain.KillSwitchServiceInterface
	rateLimitSvc  domain.RateLimitServiceInterface
	authService   domain.AuthService
	logger        logger.Logger
	tracer        tracing.Tracer
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(
	service domain.WorkspaceServiceInterface,
	killSwitchSvc domain.KillSwitchServiceInterface,
	rateLimitSvc domain.RateLimitServiceInterface,
	authService domain.AuthService,
	logger logger.Logger,
) *WorkspaceHandler {
	return &WorkspaceHandler{
		service:       service,
		killSwitchSvc: killSwitchSvc,
		rateLimitSvc:  rateLimitSvc,
		authService:   authService,
		logger:        logger,
		tracer:        tracing.GetTracer(),
	}
}

// RegisterRoutes registers the workspace HTTP endpoints
func (h *WorkspaceHandler) RegisterRoutes(mux *http.ServeMux) {
	authMiddleware := middleware.NewAuthMiddleware(h.authService)
	requireAuth := authMiddleware.RequireAuth
	requireAdmin := authMiddleware.RequireAdmin

	mux.Handle("/api/workspaces.get", requireAuth(http.HandlerFunc(h.handleGet)))
	mux.Handle("/api/workspaces.limits", requireAuth(http.HandlerFunc(h.handleLimits)))
	mux.Handle("/api/workspaces.safety", requireAuth(http.HandlerFunc(h.handleSafety)))
	mux.Handle("/api/workspaces.create", requireAdmin(http.HandlerFunc(h.handleCreate)))
	mux.Handle("/api/workspaces.list", requireAdmin(http.HandlerFunc(h.handleList)))
	mux.Handle("/api/workspaces.assignPhone", requireAdmin(http.HandlerFunc(h.handleAssignPhone)))
	mux.Handle("/api/workspaces.delete", requireAdmin(http.HandlerFunc(h.handleDelete)))
}

func (h *WorkspaceHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "WorkspaceHandler.handleGet")
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

	workspaceID := r.URL.Query().Get("id")
	if workspaceID == "" {
		WriteJSONError(w, "Missing workspace ID", http.StatusBadRequest)
		return
	}
	if _, err := h.authService.AuthenticateForWorkspace(ctx, workspaceID); err != nil {
		WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	workspace, err := h.service.GetWorkspace(ctx, workspaceID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"workspace": workspace})
}

// handleLimits reports the remaining send and submission budgets.
func (h *WorkspaceHandler) handleLimits(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "WorkspaceHandler.handleLimits")
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

	workspaceID := r.URL.Query().Get("workspace_id")
	if workspaceID == "" {
		WriteJSONError(w, "Missing workspace ID", http.StatusBadRequest)
		return
	}
	if _, err := h.authService.AuthenticateForWorkspace(ctx, workspaceID); err != nil {
		WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	workspace, err := h.service.GetWorkspace(ctx, workspaceID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"limits":  workspace.EffectiveLimits(),
		"budgets": h.rateLimitSvc.Budgets(ctx, workspace),
	})
}

// handleSafety runs every campaign safety check for the workspace.
func (h *WorkspaceHandler) handleSafety(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "WorkspaceHandler.handleSafety")
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

	workspaceID := r.URL.Query().Get("workspace_id")
	if workspaceID == "" {
		WriteJSONError(w, "Missing workspace ID", http.StatusBadRequest)
		return
	}
	if _, err := h.authService.AuthenticateForWorkspace(ctx, workspaceID); err != nil {
		WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	workspace, err := h.service.GetWorkspace(ctx, workspaceID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	report, err := h.killSwitchSvc.IsWorkspaceSafeForCampaigns(ctx, workspace)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to build safety report")
		WriteJSONError(w, "Failed to build safety report", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (h *WorkspaceHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "WorkspaceHandler.handleCreate")
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

	var req domain.CreateWorkspaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	workspace, err := h.service.CreateWorkspace(ctx, &req)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to create workspace")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"workspace": workspace})
}

func (h *WorkspaceHandler) handleList(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "WorkspaceHandler.handleList")
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

	workspaces, err := h.service.ListWorkspaces(ctx)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to list workspaces")
		WriteJSONError(w, "Failed to list workspaces", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"workspaces": workspaces})
}

func (h *WorkspaceHandler) handleAssignPhone(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "WorkspaceHandler.handleAssignPhone")
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

	var req domain.AssignPhoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	workspace, err := h.service.AssignPhoneNumber(ctx, &req)
	if err != nil {
		h.logger.WithField("error", err.Error()).Warn("Phone assignment failed")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"workspace": workspace})
}

type deleteWorkspaceRequest struct {
	ID string `json:"id"`
}

func (h *WorkspaceHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "WorkspaceHandler.handleDelete")
	defer func() {
		if span != nil {
			h.tracer.EndSpan(span, nil)
		}
	}()
	// codecov:ignore:end

	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req deleteWorkspaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		WriteJSONError(w, "Missing workspace ID", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteWorkspace(ctx, req.ID); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to delete workspace")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
