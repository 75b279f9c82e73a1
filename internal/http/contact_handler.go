package http

import (
	"encoding/json"
	"net/http"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/internal/http/middleware"
	"github.com/Waypost/waypost/pkg/logger"
	"github.com/Waypost/waypost/pkg/tracing"
)

// ContactHandler handles HTTP requests for contacts
type ContactHandler struct {
	service     domain.ContactServiceInterface
	authService domain.AuthService
	logger      logger.Logger
	tracer      tracing.Tracer
}

// NewContactHandler creates a new contact handler
func NewContactHandler(
	service domain.ContactServiceInterface,
	authService domain.AuthService,
	logger logger.Logger,
) *ContactHandler {
	return &ContactHandler{
		service:     service,
		authService: authService,
		logger:      logger,
		tracer:      tracing.GetTracer(),
	}
}

// RegisterRoutes registers the contact HTTP endpoints
func (h *ContactHandler) RegisterRoutes(mux *http.ServeMux) {
	authMiddleware := middleware.NewAuthMiddleware(h.authService)
	requireAuth := authMiddleware.RequireAuth

	mux.Handle("/api/contacts.list", requireAuth(http.HandlerFunc(h.handleList)))
	mux.Handle("/api/contacts.setOptState", requireAuth(http.HandlerFunc(h.handleSetOptState)))
}

func (h *ContactHandler) handleList(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "ContactHandler.handleList")
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

	var params domain.ContactListParams
	if err := params.FromQuery(r.URL.Query()); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.List(ctx, workspaceID, params)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to list contacts")
		WriteJSONError(w, "Failed to list contacts", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type setOptStateRequest struct {
	WorkspaceID string `json:"workspace_id"`
	ContactID   string `json:"contact_id"`
	OptedIn     bool   `json:"opted_in"`
}

// handleSetOptState records an explicit consent transition from an operator.
func (h *ContactHandler) handleSetOptState(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "ContactHandler.handleSetOptState")
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

	var req setOptStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.WorkspaceID == "" || req.ContactID == "" {
		WriteJSONError(w, "workspace_id and contact_id are required", http.StatusBadRequest)
		return
	}
	if _, err := h.authService.AuthenticateForWorkspace(ctx, req.WorkspaceID); err != nil {
		WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.service.SetOptState(ctx, req.WorkspaceID, req.ContactID, req.OptedIn, domain.OptInViaAPI); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to set opt state")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
