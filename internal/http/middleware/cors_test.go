package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func doCORSRequest(t *testing.T, method string) *httptest.ResponseRecorder {
	t.Helper()

	handler := CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(method, "/api/messages.list", nil))
	return rec
}

func assertCORSHeaders(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, corsAllowedHeaders, rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSMiddlewareDefaultOrigin(t *testing.T) {
	t.Setenv("CORS_ALLOW_ORIGIN", "")

	rec := doCORSRequest(t, http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assertCORSHeaders(t, rec)
}

func TestCORSMiddlewareConfiguredOrigin(t *testing.T) {
	t.Setenv("CORS_ALLOW_ORIGIN", "https://console.example.com")

	rec := doCORSRequest(t, http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://console.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assertCORSHeaders(t, rec)
}

func TestCORSMiddlewarePreflightShortCircuits(t *testing.T) {
	t.Setenv("CORS_ALLOW_ORIGIN", "")

	var nextCalled bool
	handler := CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/messages.send", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, nextCalled)
	assertCORSHeaders(t, rec)
}
