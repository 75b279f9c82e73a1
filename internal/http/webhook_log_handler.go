package http

import (
	"net/http"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/internal/http/middleware"
	"github.com/Waypost/waypost/pkg/logger"
	"github.com/Waypost/waypost/pkg/tracing"
)

// WebhookLogHandler exposes the webhook audit trail to operators. A
// workspace-scoped caller only sees its own routed deliveries; listing
// across workspaces needs the admin role.
type WebhookLogHandler struct {
	logRepo     domain.WebhookLogRepository
	authService domain.AuthService
	logger      logger.Logger
	tracer      tracing.Tracer
}

// NewWebhookLogHandler creates a new webhook log handler
func NewWebhookLogHandler(
	logRepo domain.WebhookLogRepository,
	authService domain.AuthService,
	logger logger.Logger,
) *WebhookLogHandler {
	return &WebhookLogHandler{
		logRepo:     logRepo,
		authService: authService,
		logger:      logger,
		tracer:      tracing.GetTracer(),
	}
}

// RegisterRoutes registers the webhook log HTTP endpoints
func (h *WebhookLogHandler) RegisterRoutes(mux *http.ServeMux) {
	authMiddleware := middleware.NewAuthMiddleware(h.authService)
	requireAuth := authMiddleware.RequireAuth

	mux.Handle("/api/webhookLogs.list", requireAuth(http.HandlerFunc(h.handleList)))
}

func (h *WebhookLogHandler) handleList(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "WebhookLogHandler.handleList")
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

	var params domain.WebhookLogListParams
	if err := params.FromQuery(r.URL.Query()); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if params.WorkspaceID == "" {
		claims, err := h.authService.AuthenticateFromContext(ctx)
		if err != nil || !claims.IsAdmin() {
			WriteJSONError(w, "Admin access required to list across workspaces", http.StatusForbidden)
			return
		}
	} else if _, err := h.authService.AuthenticateForWorkspace(ctx, params.WorkspaceID); err != nil {
		WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	result, err := h.logRepo.List(ctx, params)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to list webhook logs")
		WriteJSONError(w, "Failed to list webhook logs", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
