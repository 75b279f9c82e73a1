package http

import (
	"encoding/json"
	"net/http"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/internal/http/middleware"
	"github.com/Waypost/waypost/pkg/logger"
	"github.com/Waypost/waypost/pkg/tracing"
)

// KillSwitchHandler exposes the admin kill-switch controls. Every route
// requires the admin role; a tripped switch affects all tenants, so there is
// no workspace-scoped variant.
type KillSwitchHandler struct {
	service     domain.KillSwitchServiceInterface
	authService domain.AuthService
	logger      logger.Logger
	tracer      tracing.Tracer
}

// NewKillSwitchHandler creates a new kill-switch handler
func NewKillSwitchHandler(
	service domain.KillSwitchServiceInterface,
	authService domain.AuthService,
	logger logger.Logger,
) *KillSwitchHandler {
	return &KillSwitchHandler{
		service:     service,
		authService: authService,
		logger:      logger,
		tracer:      tracing.GetTracer(),
	}
}

// RegisterRoutes registers the admin kill-switch HTTP endpoints
func (h *KillSwitchHandler) RegisterRoutes(mux *http.ServeMux) {
	authMiddleware := middleware.NewAuthMiddleware(h.authService)
	requireAdmin := authMiddleware.RequireAdmin

	mux.Handle("/api/admin/killswitch.activate", requireAdmin(http.HandlerFunc(h.handleActivate)))
	mux.Handle("/api/admin/killswitch.deactivate", requireAdmin(http.HandlerFunc(h.handleDeactivate)))
	mux.Handle("/api/admin/killswitch.status", requireAdmin(http.HandlerFunc(h.handleStatus)))
}

type activateKillSwitchRequest struct {
	// WorkspaceID trips one workspace; empty engages the global switch only.
	WorkspaceID string `json:"workspace_id,omitempty"`
	Detail      string `json:"detail,omitempty"`
}

func (h *KillSwitchHandler) handleActivate(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "KillSwitchHandler.handleActivate")
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

	var req activateKillSwitchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	triggeredBy := "admin"
	if claims, err := h.authService.AuthenticateFromContext(ctx); err == nil && claims.APIKeyID != "" {
		triggeredBy = claims.APIKeyID
	}

	if req.WorkspaceID != "" {
		event, err := h.service.Trip(ctx, req.WorkspaceID, domain.KillAdminTriggered, req.Detail, triggeredBy)
		if err != nil {
			h.logger.WithField("error", err.Error()).Error("Failed to trip kill switch")
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"event": event})
		return
	}

	if err := h.service.EngageGlobal(ctx, domain.KillAdminTriggered, req.Detail, triggeredBy); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to engage global kill switch")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"engaged": true})
}

func (h *KillSwitchHandler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "KillSwitchHandler.handleDeactivate")
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

	if err := h.service.ClearGlobal(ctx); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to clear global kill switch")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"engaged": false})
}

func (h *KillSwitchHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "KillSwitchHandler.handleStatus")
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

	state, err := h.service.GlobalState(ctx)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to read global kill switch")
		WriteJSONError(w, "Failed to read kill switch state", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, state)
}
