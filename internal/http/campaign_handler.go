package http

import (
	"encoding/json"
	"net/http"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/internal/http/middleware"
	"github.com/Waypost/waypost/pkg/logger"
	"github.com/Waypost/waypost/pkg/tracing"
)

// CampaignHandler handles HTTP requests for bulk campaigns
type CampaignHandler struct {
	service     domain.CampaignServiceInterface
	authService domain.AuthService
	logger      logger.Logger
	tracer      tracing.Tracer
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(
	service domain.CampaignServiceInterface,
	authService domain.AuthService,
	logger logger.Logger,
) *CampaignHandler {
	return &CampaignHandler{
		service:     service,
		authService: authService,
		logger:      logger,
		tracer:      tracing.GetTracer(),
	}
}

// RegisterRoutes registers the campaign HTTP endpoints
func (h *CampaignHandler) RegisterRoutes(mux *http.ServeMux) {
	authMiddleware := middleware.NewAuthMiddleware(h.authService)
	requireAuth := authMiddleware.RequireAuth

	mux.Handle("/api/campaigns.create", requireAuth(http.HandlerFunc(h.handleCreate)))
	mux.Handle("/api/campaigns.start", requireAuth(http.HandlerFunc(h.handleStart)))
	mux.Handle("/api/campaigns.pause", requireAuth(http.HandlerFunc(h.handlePause)))
	mux.Handle("/api/campaigns.list", requireAuth(http.HandlerFunc(h.handleList)))
	mux.Handle("/api/campaigns.get", requireAuth(http.HandlerFunc(h.handleGet)))
}

func (h *CampaignHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "CampaignHandler.handleCreate")
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

	var req domain.CreateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, err := h.authService.AuthenticateForWorkspace(ctx, req.WorkspaceID); err != nil {
		WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	campaign, err := h.service.CreateCampaign(ctx, &req)
	if err != nil {
		h.logger.WithField("error", err.Error()).Warn("Campaign creation failed")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"campaign": campaign})
}

type campaignActionRequest struct {
	WorkspaceID string `json:"workspace_id"`
	CampaignID  string `json:"campaign_id"`
	Reason      string `json:"reason,omitempty"`
}

func (r *campaignActionRequest) validate() error {
	if r.WorkspaceID == "" {
		return domain.NewValidationError("workspace_id is required")
	}
	if r.CampaignID == "" {
		return domain.NewValidationError("campaign_id is required")
	}
	return nil
}

// handleStart runs the safety gate and schedules the campaign runner
func (h *CampaignHandler) handleStart(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "CampaignHandler.handleStart")
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

	var req campaignActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, err := h.authService.AuthenticateForWorkspace(ctx, req.WorkspaceID); err != nil {
		WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	campaign, err := h.service.StartCampaign(ctx, req.WorkspaceID, req.CampaignID)
	if err != nil {
		h.logger.WithField("error", err.Error()).Warn("Campaign start rejected")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"campaign": campaign})
}

func (h *CampaignHandler) handlePause(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "CampaignHandler.handlePause")
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

	var req campaignActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, err := h.authService.AuthenticateForWorkspace(ctx, req.WorkspaceID); err != nil {
		WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	reason := req.Reason
	if reason == "" {
		reason = "paused by operator"
	}
	campaign, err := h.service.PauseCampaign(ctx, req.WorkspaceID, req.CampaignID, reason)
	if err != nil {
		h.logger.WithField("error", err.Error()).Warn("Campaign pause failed")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"campaign": campaign})
}

func (h *CampaignHandler) handleList(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "CampaignHandler.handleList")
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

	var params domain.CampaignListParams
	if err := params.FromQuery(r.URL.Query()); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.ListCampaigns(ctx, workspaceID, params)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to list campaigns")
		WriteJSONError(w, "Failed to list campaigns", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *CampaignHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "CampaignHandler.handleGet")
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
	campaignID := r.URL.Query().Get("id")
	if workspaceID == "" || campaignID == "" {
		WriteJSONError(w, "workspace_id and id are required", http.StatusBadRequest)
		return
	}
	if _, err := h.authService.AuthenticateForWorkspace(ctx, workspaceID); err != nil {
		WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	campaign, err := h.service.GetCampaign(ctx, workspaceID, campaignID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"campaign": campaign})
}
