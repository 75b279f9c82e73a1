package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/internal/http/middleware"
	"github.com/Waypost/waypost/pkg/logger"
	"github.com/Waypost/waypost/pkg/tracing"
)

// MessageHandler handles HTTP requests for outbound sends and message history
type MessageHandler struct {
	service     domain.MessageServiceInterface
	authService domain.AuthService
	logger      logger.Logger
	tracer      tracing.Tracer
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(
	service domain.MessageServiceInterface,
	authService domain.AuthService,
	logger logger.Logger,
) *MessageHandler {
	return &MessageHandler{
		service:     service,
		authService: authService,
		logger:      logger,
		tracer:      tracing.GetTracer(),
	}
}

// RegisterRoutes registers the message HTTP endpoints
func (h *MessageHandler) RegisterRoutes(mux *http.ServeMux) {
	authMiddleware := middleware.NewAuthMiddleware(h.authService)
	requireAuth := authMiddleware.RequireAuth

	// Register RPC-style endpoints with dot notation
	mux.Handle("/api/messages.sendTemplate", requireAuth(http.HandlerFunc(h.handleSendTemplate)))
	mux.Handle("/api/messages.sendBulk", requireAuth(http.HandlerFunc(h.handleSendBulk)))
	mux.Handle("/api/messages.list", requireAuth(http.HandlerFunc(h.handleList)))
}

// handleSendTemplate sends one approved template message
func (h *MessageHandler) handleSendTemplate(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "MessageHandler.handleSendTemplate")
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

	var req domain.SendTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, err := h.withWorkspaceAuth(ctx, w, req.WorkspaceID)
	if err != nil {
		return
	}

	result, err := h.service.SendTemplate(ctx, &req)
	if err != nil {
		h.logger.WithField("error", err.Error()).Warn("Template send rejected")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleSendBulk sends one template to up to 1000 recipients
func (h *MessageHandler) handleSendBulk(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "MessageHandler.handleSendBulk")
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

	var req domain.SendBulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, err := h.withWorkspaceAuth(ctx, w, req.WorkspaceID)
	if err != nil {
		return
	}

	result, err := h.service.SendBulk(ctx, &req)
	if err != nil {
		h.logger.WithField("error", err.Error()).Warn("Bulk send rejected")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleList lists messages with pagination and filtering
func (h *MessageHandler) handleList(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "MessageHandler.handleList")
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

	ctx, err := h.withWorkspaceAuth(ctx, w, workspaceID)
	if err != nil {
		return
	}

	var params domain.MessageListParams
	if err := params.FromQuery(r.URL.Query()); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.List(ctx, workspaceID, params)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to list messages")
		WriteJSONError(w, "Failed to list messages", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// withWorkspaceAuth checks the request claims grant access to the workspace
// and writes the 401 itself on failure.
func (h *MessageHandler) withWorkspaceAuth(ctx context.Context, w http.ResponseWriter, workspaceID string) (context.Context, error) {
	if _, err := h.authService.AuthenticateForWorkspace(ctx, workspaceID); err != nil {
		WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return ctx, err
	}
	return ctx, nil
}
