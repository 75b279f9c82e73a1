package http

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/Waypost/waypost/pkg/logger"
)

// RootHandler serves the unauthenticated service endpoints: a liveness probe
// and a readiness probe that exercises the system database.
type RootHandler struct {
	systemDB *sql.DB
	logger   logger.Logger
	version  string
	started  time.Time
}

// NewRootHandler creates a new root handler
func NewRootHandler(systemDB *sql.DB, logger logger.Logger, version string) *RootHandler {
	return &RootHandler{
		systemDB: systemDB,
		logger:   logger,
		version:  version,
		started:  time.Now().UTC(),
	}
}

// RegisterRoutes registers the service status endpoints
func (h *RootHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/", http.HandlerFunc(h.handleRoot))
	mux.Handle("/health", http.HandlerFunc(h.handleHealth))
	mux.Handle("/ready", http.HandlerFunc(h.handleReady))
}

func (h *RootHandler) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		WriteJSONError(w, "Not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service": "waypost",
		"version": h.version,
	})
}

func (h *RootHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.started).String(),
	})
}

// handleReady reports 503 until the system database answers a ping, so load
// balancers hold traffic during startup and database failover.
func (h *RootHandler) handleReady(w http.ResponseWriter, r *http.Request) {
	if h.systemDB == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "starting"})
		return
	}

	if err := h.systemDB.PingContext(r.Context()); err != nil {
		h.logger.WithField("error", err.Error()).Warn("Readiness probe failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
