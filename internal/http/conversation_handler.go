package http

import (
	"net/http"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/internal/http/middleware"
	"github.com/Waypost/waypost/pkg/logger"
	"github.com/Waypost/waypost/pkg/tracing"
)

// ConversationHandler handles HTTP requests for conversations
type ConversationHandler struct {
	service     domain.ConversationServiceInterface
	authService domain.AuthService
	logger      logger.Logger
	tracer      tracing.Tracer
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(
	service domain.ConversationServiceInterface,
	authService domain.AuthService,
	logger logger.Logger,
) *ConversationHandler {
	return &ConversationHandler{
		service:     service,
		authService: authService,
		logger:      logger,
		tracer:      tracing.GetTracer(),
	}
}

// RegisterRoutes registers the conversation HTTP endpoints
func (h *ConversationHandler) RegisterRoutes(mux *http.ServeMux) {
	authMiddleware := middleware.NewAuthMiddleware(h.authService)
	requireAuth := authMiddleware.RequireAuth

	mux.Handle("/api/conversations.list", requireAuth(http.HandlerFunc(h.handleList)))
	mux.Handle("/api/conversations.get", requireAuth(http.HandlerFunc(h.handleGet)))
}

func (h *ConversationHandler) handleList(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "ConversationHandler.handleList")
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

	var params domain.ConversationListParams
	if err := params.FromQuery(r.URL.Query()); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.List(ctx, workspaceID, params)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to list conversations")
		WriteJSONError(w, "Failed to list conversations", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *ConversationHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "ConversationHandler.handleGet")
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
	conversationID := r.URL.Query().Get("id")
	if workspaceID == "" || conversationID == "" {
		WriteJSONError(w, "workspace_id and id are required", http.StatusBadRequest)
		return
	}
	if _, err := h.authService.AuthenticateForWorkspace(ctx, workspaceID); err != nil {
		WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conversation, err := h.service.GetByID(ctx, workspaceID, conversationID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"conversation": conversation})
}
