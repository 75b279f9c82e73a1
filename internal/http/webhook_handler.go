package http

import (
	"io"
	"net/http"
	"time"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/pkg/logger"
	"github.com/Waypost/waypost/pkg/tracing"
)

// maxWebhookBodyBytes caps inbound provider payloads. Real deliveries are a
// few KB; anything larger is hostile.
const maxWebhookBodyBytes = 1 << 20

// WebhookHandler exposes the provider-facing webhook endpoint: the GET
// subscription handshake and the POST delivery path. Everything behind it is
// asynchronous; this handler only admits and acknowledges.
type WebhookHandler struct {
	ingress domain.WebhookIngressServiceInterface
	logger  logger.Logger
	tracer  tracing.Tracer
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(ingress domain.WebhookIngressServiceInterface, logger logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		ingress: ingress,
		logger:  logger,
		tracer:  tracing.GetTracer(),
	}
}

// RegisterRoutes registers the webhook endpoint. It is public: the provider
// authenticates with the signature header, not with API credentials.
func (h *WebhookHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/webhooks/bsp", http.HandlerFunc(h.handleWebhook))
}

func (h *WebhookHandler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleVerify(w, r)
	case http.MethodPost:
		h.handleDelivery(w, r)
	default:
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleVerify answers the subscription handshake by echoing the challenge.
func (h *WebhookHandler) handleVerify(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	challenge, err := h.ingress.VerifySubscription(
		query.Get("hub.mode"),
		query.Get("hub.verify_token"),
		query.Get("hub.challenge"),
	)
	if err != nil {
		WriteJSONError(w, "Forbidden", http.StatusForbidden)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(challenge))
}

// handleDelivery admits one delivery and acknowledges. Admission failures
// map to 403/500; everything past admission is asynchronous and can never
// fail the provider's request.
func (h *WebhookHandler) handleDelivery(w http.ResponseWriter, r *http.Request) {
	// codecov:ignore:start
	ctx, span := h.tracer.StartSpan(r.Context(), "WebhookHandler.handleDelivery")
	defer func() {
		if span != nil {
			h.tracer.EndSpan(span, nil)
		}
	}()
	// codecov:ignore:end

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodyBytes+1))
	if err != nil {
		WriteJSONError(w, "Failed to read body", http.StatusBadRequest)
		return
	}
	if len(body) > maxWebhookBodyBytes {
		WriteJSONError(w, "Payload too large", http.StatusRequestEntityTooLarge)
		return
	}

	signatureHeader := r.Header.Get("X-Hub-Signature-256")
	deliveryIDHeader := r.Header.Get("X-Delivery-Id")
	log, err := h.ingress.Admit(ctx, body, signatureHeader, deliveryIDHeader, time.Now().UTC())
	if err != nil {
		if se, ok := domain.AsSendError(err); ok {
			switch se.Kind {
			case domain.ErrKindMissingSignature, domain.ErrKindInvalidSignature, domain.ErrKindReplay:
				WriteJSONError(w, "Forbidden", http.StatusForbidden)
				return
			case domain.ErrKindConfigError:
				WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
				return
			}
		}
		// Never make the provider retry for a local fault past admission.
		h.logger.WithField("error", err.Error()).Error("Webhook delivery failed after admission")
	}
	if log != nil {
		w.Header().Set("X-Delivery-Id", log.DeliveryID)
	}
	w.WriteHeader(http.StatusOK)
}
