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

// WebhookSubscriptionServiceInterface is the slice of the subscription
// service the handler needs.
type WebhookSubscriptionServiceInterface interface {
	Create(ctx context.Context, workspaceID string, sub *domain.WebhookSubscription) (*domain.WebhookSubscription, error)
	Get(ctx context.Context, workspaceID, id string) (*domain.WebhookSubscription, error)
	List(ctx context.Context, workspaceID string) ([]*domain.WebhookSubscription, error)
	Delete(ctx context.Context, workspaceID, id string) error
	RotateSecret(ctx context.Context, workspaceID, id string) (string, error)
	SendTest(ctx context.Context, workspaceID, subscriptionID, eventType string) (*domain.WebhookDelivery, error)
}

// WebhookSubscriptionHandler handles HTTP requests for tenant-registered
// webhook endpoints
type WebhookSubscriptionHandler struct {
	service     WebhookSubscriptionServiceInterface
	authService domain.AuthService
	logger      logger.Logger
	tracer      tracing.Tracer
}

// NewWebhookSubscriptionHandler creates a new webhook subscription handler
func NewWebhookSubscriptionHandler(
	service WebhookSubscriptionServiceInterface,
	authService domain.AuthService,
	logger logger.Logger,
) *WebhookSubscriptionHandler {
	return &WebhookSubscriptionHandler{
		service:     service,
		authService: authService,
		logger:      logger,
		tracer:      tracing.GetTracer(),
	}
}

// RegisterRoutes registers the webhook endpoint HTTP routes
func (h *WebhookSubscriptionHandler) RegisterRoutes(mux *http.ServeMux) {
	authMiddleware := middleware.NewAuthMiddleware(h.authService)
	requireAuth := authMiddleware.RequireAuth

	mux.Handle("/api/webhookEndpoints.create", requireAuth(http.HandlerFunc(h.handleCreate)))
	mux.Handle("/api/webhookEndpoints.list", requireAuth(http.HandlerFunc(h.handleList)))
	mux.Handle("/api/webhookEndpoints.delete", requireAuth(http.HandlerFunc(h.handleDelete)))
	mux.Handle("/api/webhookEndpoints.rotateSecret", requireAuth(http.HandlerFunc(h.handleRotateSecret)))
	mux.Handle("/api/webhookEndpoints.test", requireAuth(http.HandlerFunc(h.handleSendTest)))
}

type createWebhookEndpointRequest struct {
	WorkspaceID string   `json:"workspace_id"`
	Name        string   `json:"name"`
	URL         string   `json:"url"`
	EventTypes  []string `json:"event_types"`
	Description string   `json:"description,omitempty"`
}

// handleCreate registers an endpoint. The signing secret is returned exactly
// once in the response and stored hashed on our side of the fence.
func (h *WebhookSubscriptionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "WebhookSubscriptionHandler.handleCreate")
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

	var req createWebhookEndpointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.WorkspaceID == "" || req.URL == "" {
		WriteJSONError(w, "workspace_id and url are required", http.StatusBadRequest)
		return
	}
	if _, err := h.authService.AuthenticateForWorkspace(ctx, req.WorkspaceID); err != nil {
		WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	sub, err := h.service.Create(ctx, req.WorkspaceID, &domain.WebhookSubscription{
		Name:        req.Name,
		URL:         req.URL,
		EventTypes:  req.EventTypes,
		Enabled:     true,
		Description: req.Description,
	})
	if err != nil {
		h.logger.WithField("error", err.Error()).Warn("Webhook endpoint creation failed")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"endpoint": sub})
}

func (h *WebhookSubscriptionHandler) handleList(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "WebhookSubscriptionHandler.handleList")
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

	subs, err := h.service.List(ctx, workspaceID)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to list webhook endpoints")
		WriteJSONError(w, "Failed to list webhook endpoints", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"endpoints": subs})
}

type webhookEndpointActionRequest struct {
	WorkspaceID string `json:"workspace_id"`
	ID          string `json:"id"`
	EventType   string `json:"event_type,omitempty"`
}

func (r *webhookEndpointActionRequest) validate() error {
	if r.WorkspaceID == "" {
		return domain.NewValidationError("workspace_id is required")
	}
	if r.ID == "" {
		return domain.NewValidationError("id is required")
	}
	return nil
}

func (h *WebhookSubscriptionHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "WebhookSubscriptionHandler.handleDelete")
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

	req, ok := h.decodeAction(w, r, ctx)
	if !ok {
		return
	}

	if err := h.service.Delete(ctx, req.WorkspaceID, req.ID); err != nil {
		h.logger.WithField("error", err.Error()).Warn("Webhook endpoint deletion failed")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *WebhookSubscriptionHandler) handleRotateSecret(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "WebhookSubscriptionHandler.handleRotateSecret")
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

	req, ok := h.decodeAction(w, r, ctx)
	if !ok {
		return
	}

	secret, err := h.service.RotateSecret(ctx, req.WorkspaceID, req.ID)
	if err != nil {
		h.logger.WithField("error", err.Error()).Warn("Webhook secret rotation failed")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"secret": secret})
}

func (h *WebhookSubscriptionHandler) handleSendTest(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "WebhookSubscriptionHandler.handleSendTest")
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

	req, ok := h.decodeAction(w, r, ctx)
	if !ok {
		return
	}

	delivery, err := h.service.SendTest(ctx, req.WorkspaceID, req.ID, req.EventType)
	if err != nil {
		h.logger.WithField("error", err.Error()).Warn("Webhook test delivery failed")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"delivery": delivery})
}

// decodeAction parses and authorizes the shared action request shape. It
// writes the error response itself when it returns false.
func (h *WebhookSubscriptionHandler) decodeAction(w http.ResponseWriter, r *http.Request, ctx context.Context) (*webhookEndpointActionRequest, bool) {
	var req webhookEndpointActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return nil, false
	}
	if err := req.validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	if _, err := h.authService.AuthenticateForWorkspace(ctx, req.WorkspaceID); err != nil {
		WriteJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}
	return &req, true
}
