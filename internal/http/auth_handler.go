package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/internal/http/middleware"
	"github.com/Waypost/waypost/pkg/logger"
	"github.com/Waypost/waypost/pkg/tracing"
)

// tokenTTL bounds the life of an exchanged bearer token. Callers holding an
// API key can always mint a fresh one.
const tokenTTL = time.Hour

// AuthHandler exchanges API keys for short-lived bearer tokens and manages
// workspace credentials
type AuthHandler struct {
	authService domain.AuthService
	logger      logger.Logger
	tracer      tracing.Tracer
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService domain.AuthService, logger logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
		tracer:      tracing.GetTracer(),
	}
}

// RegisterRoutes registers the auth HTTP endpoints
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux) {
	authMiddleware := middleware.NewAuthMiddleware(h.authService)
	requireAdmin := authMiddleware.RequireAdmin

	// Token exchange is public: the API key in the request body is the
	// credential.
	mux.Handle("/api/auth.token", http.HandlerFunc(h.handleToken))

	mux.Handle("/api/apiKeys.create", requireAdmin(http.HandlerFunc(h.handleCreateAPIKey)))
	mux.Handle("/api/apiKeys.list", requireAdmin(http.HandlerFunc(h.handleListAPIKeys)))
	mux.Handle("/api/apiKeys.revoke", requireAdmin(http.HandlerFunc(h.handleRevokeAPIKey)))
}

type tokenRequest struct {
	APIKey string `json:"api_key"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// handleToken exchanges a raw API key for a signed bearer token carrying the
// key's claims.
func (h *AuthHandler) handleToken(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "AuthHandler.handleToken")
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

	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.APIKey == "" {
		WriteJSONError(w, "api_key is required", http.StatusBadRequest)
		return
	}

	claims, err := h.authService.VerifyAPIKey(ctx, req.APIKey)
	if err != nil {
		WriteJSONError(w, "Invalid API key", http.StatusUnauthorized)
		return
	}

	expiresAt := time.Now().UTC().Add(tokenTTL)
	token, err := h.authService.GenerateToken(claims, expiresAt)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to mint token")
		WriteJSONError(w, "Failed to mint token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token, ExpiresAt: expiresAt})
}

type createAPIKeyRequest struct {
	WorkspaceID string `json:"workspace_id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
}

func (h *AuthHandler) handleCreateAPIKey(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "AuthHandler.handleCreateAPIKey")
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

	var req createAPIKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		WriteJSONError(w, "name is required", http.StatusBadRequest)
		return
	}
	if req.Role == "" {
		req.Role = domain.RoleWorkspace
	}
	if req.Role == domain.RoleWorkspace && req.WorkspaceID == "" {
		WriteJSONError(w, "workspace_id is required for workspace keys", http.StatusBadRequest)
		return
	}

	key, rawSecret, err := h.authService.CreateAPIKey(ctx, req.WorkspaceID, req.Name, req.Role)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to create API key")
		writeServiceError(w, err)
		return
	}

	// The raw secret appears in this response and nowhere else.
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"api_key": key,
		"secret":  rawSecret,
	})
}

func (h *AuthHandler) handleListAPIKeys(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "AuthHandler.handleListAPIKeys")
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
	keys, err := h.authService.ListAPIKeys(ctx, workspaceID)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to list API keys")
		WriteJSONError(w, "Failed to list API keys", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"api_keys": keys})
}

type revokeAPIKeyRequest struct {
	WorkspaceID string `json:"workspace_id"`
	ID          string `json:"id"`
}

func (h *AuthHandler) handleRevokeAPIKey(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "AuthHandler.handleRevokeAPIKey")
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

	var req revokeAPIKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		WriteJSONError(w, "id is required", http.StatusBadRequest)
		return
	}

	if err := h.authService.RevokeAPIKey(ctx, req.WorkspaceID, req.ID); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to revoke API key")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
