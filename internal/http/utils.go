package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Waypost/waypost/internal/domain"
)

// WriteJSONError writes a JSON error response with the given message and status code.
// It sets the Content-Type header to application/json and automatically formats
// the response as {"error": "message"}.
func WriteJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// writeJSON writes a JSON response with the given status code and data.
// It sets the Content-Type header to application/json.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps a pipeline error onto an HTTP response. Structured
// send errors keep their kind in the body so API callers can branch on it;
// limit kinds additionally carry a Retry-After header.
func writeServiceError(w http.ResponseWriter, err error) {
	if se, ok := domain.AsSendError(err); ok {
		status := statusForSendError(se)
		if se.RetryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(se.RetryAfter))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": se})
		return
	}

	var notFound *domain.ErrNotFound
	var wsNotFound *domain.ErrWorkspaceNotFound
	var phoneTaken *domain.ErrPhoneNumberTaken
	var unauthorized *domain.ErrUnauthorized
	var validation domain.ValidationError
	switch {
	case errors.As(err, &notFound), errors.As(err, &wsNotFound):
		WriteJSONError(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &phoneTaken):
		WriteJSONError(w, err.Error(), http.StatusConflict)
	case errors.As(err, &unauthorized):
		WriteJSONError(w, err.Error(), http.StatusUnauthorized)
	case errors.As(err, &validation):
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
	default:
		WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func statusForSendError(se *domain.SendError) int {
	switch se.Kind {
	case domain.ErrKindRateLimitExceeded, domain.ErrKindDailyLimitExceeded,
		domain.ErrKindMonthlyLimitExceeded, domain.ErrKindTemplateLimitExceeded:
		return http.StatusTooManyRequests
	case domain.ErrKindTemplateNotFound:
		return http.StatusNotFound
	case domain.ErrKindOptedOut, domain.ErrKindBillingTrialBlock, domain.ErrKindBillingPastDue,
		domain.ErrKindBillingSuspended, domain.ErrKindPhoneBanned, domain.ErrKindPhoneDisconnected,
		domain.ErrKindPhoneRateLimited, domain.ErrKindTemplateOwnershipMismatch:
		return http.StatusForbidden
	case domain.ErrKindMissingSignature, domain.ErrKindInvalidSignature, domain.ErrKindReplay:
		return http.StatusForbidden
	case domain.ErrKindMetaAPIError, domain.ErrKindTokenExpired:
		return http.StatusBadGateway
	case domain.ErrKindConfigError, domain.ErrKindWorkspaceNotConfigured, domain.ErrKindPhoneNotConfigured:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
