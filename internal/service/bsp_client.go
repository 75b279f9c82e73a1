package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Waypost/waypost/config"
	"github.com/Waypost/waypost/internal/domain"
	"github.com/Waypost/waypost/pkg/logger"
	"github.com/Waypost/waypost/pkg/tracing"
	"github.com/tidwall/gjson"
)

// providerHTTPTimeout bounds every provider call.
const providerHTTPTimeout = 10 * time.Second

// BSPClient implements domain.ProviderClient against the provider's Graph
// API. One central system token serves every workspace; per-tenant tokens do
// not exist.
type BSPClient struct {
	baseURL     string
	apiVersion  string
	systemToken string
	httpClient  *http.Client
	logger      logger.Logger
}

// NewBSPClient creates a provider client from the BSP configuration.
func NewBSPClient(cfg *config.BSPConfig, log logger.Logger) *BSPClient {
	client := tracing.WrapHTTPClient(&http.Client{Timeout: providerHTTPTimeout})
	return &BSPClient{
		baseURL:     cfg.APIBaseURL,
		apiVersion:  cfg.APIVersion,
		systemToken: cfg.SystemToken,
		httpClient:  client,
		logger:      log,
	}
}

func (c *BSPClient) endpoint(parts ...string) string {
	u := c.baseURL + "/" + c.apiVersion
	for _, p := range parts {
		u += "/" + p
	}
	return u
}

// do executes an authenticated request and returns the response body. Non-2xx
// responses are mapped onto the send error taxonomy.
func (c *BSPClient) do(ctx context.Context, method, rawURL string, body interface{}) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal provider request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.systemToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.mapError(resp.StatusCode, respBody)
	}
	return respBody, nil
}

// mapError converts a provider error response into a SendError. A 401 or the
// provider's code 190 means the system token is no longer valid.
func (c *BSPClient) mapError(statusCode int, body []byte) *domain.SendError {
	message := gjson.GetBytes(body, "error.message").String()
	if message == "" {
		message = http.StatusText(statusCode)
	}
	providerCode := int(gjson.GetBytes(body, "error.code").Int())
	subcode := int(gjson.GetBytes(body, "error.error_subcode").Int())

	if statusCode == http.StatusUnauthorized || providerCode == 190 {
		se := domain.NewSendError(domain.ErrKindTokenExpired, "system token rejected: %s", message)
		se.Code = providerCode
		return se
	}

	se := &domain.SendError{
		Kind:    domain.ErrKindMetaAPIError,
		Message: message,
		Code:    statusCode,
		Details: map[string]interface{}{
			"provider_code": providerCode,
		},
	}
	if subcode != 0 {
		se.Details["provider_subcode"] = subcode
	}
	return se
}

// SendTemplateMessage posts the payload to the phone number's messages edge.
func (c *BSPClient) SendTemplateMessage(ctx context.Context, phoneNumberID string, payload *domain.ProviderMessagePayload) (string, error) {
	body, err := c.do(ctx, http.MethodPost, c.endpoint(phoneNumberID, "messages"), payload)
	if err != nil {
		return "", err
	}
	id := gjson.GetBytes(body, "messages.0.id").String()
	if id == "" {
		return "", domain.NewSendError(domain.ErrKindMetaAPIError, "provider accepted the send but returned no message id")
	}
	return id, nil
}

// SendTextMessage posts a free-form text message inside the service window.
func (c *BSPClient) SendTextMessage(ctx context.Context, phoneNumberID, to, text string) (string, error) {
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "text",
		"text":              map[string]string{"body": text},
	}
	body, err := c.do(ctx, http.MethodPost, c.endpoint(phoneNumberID, "messages"), payload)
	if err != nil {
		return "", err
	}
	id := gjson.GetBytes(body, "messages.0.id").String()
	if id == "" {
		return "", domain.NewSendError(domain.ErrKindMetaAPIError, "provider accepted the send but returned no message id")
	}
	return id, nil
}

// SubmitTemplate creates a template on the parent WABA.
func (c *BSPClient) SubmitTemplate(ctx context.Context, wabaID string, submission *domain.ProviderTemplateSubmission) (string, error) {
	body, err := c.do(ctx, http.MethodPost, c.endpoint(wabaID, "message_templates"), submission)
	if err != nil {
		return "", err
	}
	id := gjson.GetBytes(body, "id").String()
	if id == "" {
		return "", domain.NewSendError(domain.ErrKindMetaAPIError, "provider accepted the template but returned no id")
	}
	return id, nil
}

// DeleteTemplate removes a template from the parent WABA by namespaced name.
func (c *BSPClient) DeleteTemplate(ctx context.Context, wabaID, providerName string) error {
	rawURL := c.endpoint(wabaID, "message_templates") + "?name=" + url.QueryEscape(providerName)
	_, err := c.do(ctx, http.MethodDelete, rawURL, nil)
	return err
}

// ListTemplates returns all templates of the parent WABA; callers filter by
// tenant prefix.
func (c *BSPClient) ListTemplates(ctx context.Context, wabaID string) ([]*domain.ProviderTemplateInfo, error) {
	rawURL := c.endpoint(wabaID, "message_templates") + "?limit=200"
	var templates []*domain.ProviderTemplateInfo
	for rawURL != "" {
		body, err := c.do(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		var page struct {
			Data   []*domain.ProviderTemplateInfo `json:"data"`
			Paging struct {
				Next string `json:"next"`
			} `json:"paging"`
		}
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("failed to decode template list: %w", err)
		}
		templates = append(templates, page.Data...)
		rawURL = page.Paging.Next
	}
	return templates, nil
}

// GetMediaInfo resolves a media id to a short-lived download URL.
func (c *BSPClient) GetMediaInfo(ctx context.Context, mediaID string) (*domain.ProviderMediaInfo, error) {
	body, err := c.do(ctx, http.MethodGet, c.endpoint(mediaID), nil)
	if err != nil {
		return nil, err
	}
	var info domain.ProviderMediaInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to decode media info: %w", err)
	}
	return &info, nil
}

// DownloadMedia fetches the bytes behind a resolved media URL. The URL is
// short-lived and already carries its own query credentials, but the system
// token is still required.
func (c *BSPClient) DownloadMedia(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build media request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.systemToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("media download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, c.mapError(resp.StatusCode, body)
	}
	return io.ReadAll(resp.Body)
}

// GetPhoneInfo pulls the current phone health snapshot.
func (c *BSPClient) GetPhoneInfo(ctx context.Context, phoneNumberID string) (*domain.ProviderPhoneInfo, error) {
	rawURL := c.endpoint(phoneNumberID) + "?fields=display_phone_number,status,quality_rating,messaging_limit_tier"
	body, err := c.do(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	var info domain.ProviderPhoneInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to decode phone info: %w", err)
	}
	return &info, nil
}

// GetAccountInfo pulls the parent WABA health snapshot.
func (c *BSPClient) GetAccountInfo(ctx context.Context, wabaID string) (*domain.ProviderAccountInfo, error) {
	rawURL := c.endpoint(wabaID) + "?fields=status,account_review_status"
	body, err := c.do(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	var info domain.ProviderAccountInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to decode account info: %w", err)
	}
	return &info, nil
}
