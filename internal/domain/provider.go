package domain

import (
	"context"
	"fmt"
)

//go:generate mockgen -destination mocks/mock_provider_client.go -package mocks github.com/Waypost/waypost/internal/domain ProviderClient

// ProviderComponent is one entry of the components array of an outbound
// template message, in provider wire format.
type ProviderComponent struct {
	Type       string              `json:"type"`
	SubType    string              `json:"sub_type,omitempty"`
	Index      string              `json:"index,omitempty"`
	Parameters []ProviderParameter `json:"parameters,omitempty"`
}

// ProviderParameter is one parameter of a component.
type ProviderParameter struct {
	Type       string              `json:"type"`
	Text       string              `json:"text,omitempty"`
	CouponCode string              `json:"coupon_code,omitempty"`
	Image      *ProviderMediaLink  `json:"image,omitempty"`
	Video      *ProviderMediaLink  `json:"video,omitempty"`
	Document   *ProviderMediaLink  `json:"document,omitempty"`
}

// ProviderMediaLink carries a media header link.
type ProviderMediaLink struct {
	Link string `json:"link"`
}

// ProviderTemplatePayload is the template object of an outbound send.
type ProviderTemplatePayload struct {
	Name       string              `json:"name"`
	Language   map[string]string   `json:"language"`
	Components []ProviderComponent `json:"components,omitempty"`
}

// ProviderMessagePayload is the body POSTed to
// /<version>/<phone_number_id>/messages for a template send.
type ProviderMessagePayload struct {
	MessagingProduct string                   `json:"messaging_product"`
	To               string                   `json:"to"`
	Type             string                   `json:"type"`
	Template         *ProviderTemplatePayload `json:"template,omitempty"`
}

// ValidateVariables checks the supplied variable values against the arity of
// the template components. Counts must match exactly; empty values among the
// required positions are rejected separately so the caller can tell the two
// failure modes apart.
func ValidateVariables(components *TemplateComponents, vars *TemplateVariables) *SendError {
	headerWant := components.HeaderSlots()
	if len(vars.Header) != headerWant {
		return &SendError{
			Kind:    ErrKindVariableCountMismatch,
			Message: fmt.Sprintf("header expects %d variable(s), got %d", headerWant, len(vars.Header)),
			Details: map[string]interface{}{"component": "header", "expected": headerWant, "got": len(vars.Header)},
		}
	}
	bodyWant := components.BodySlots()
	if len(vars.Body) != bodyWant {
		return &SendError{
			Kind:    ErrKindVariableCountMismatch,
			Message: fmt.Sprintf("body expects %d variable(s), got %d", bodyWant, len(vars.Body)),
			Details: map[string]interface{}{"component": "body", "expected": bodyWant, "got": len(vars.Body)},
		}
	}
	buttonWant := components.ButtonSlots()
	if len(vars.Buttons) != buttonWant {
		return &SendError{
			Kind:    ErrKindVariableCountMismatch,
			Message: fmt.Sprintf("buttons expect %d variable(s), got %d", buttonWant, len(vars.Buttons)),
			Details: map[string]interface{}{"component": "buttons", "expected": buttonWant, "got": len(vars.Buttons)},
		}
	}

	var missing []string
	for i, v := range vars.Header {
		if v == "" {
			missing = append(missing, fmt.Sprintf("header[%d]", i+1))
		}
	}
	for i, v := range vars.Body {
		if v == "" {
			missing = append(missing, fmt.Sprintf("body[%d]", i+1))
		}
	}
	for i, v := range vars.Buttons {
		if v == "" {
			missing = append(missing, fmt.Sprintf("buttons[%d]", i+1))
		}
	}
	if components.HasMediaHeader() && vars.HeaderMedia == "" {
		missing = append(missing, "header_media")
	}
	if len(missing) > 0 {
		return &SendError{
			Kind:    ErrKindMissingRequiredVariables,
			Message: fmt.Sprintf("missing values for: %v", missing),
			Details: map[string]interface{}{"missing": missing},
		}
	}
	return nil
}

// BuildTemplatePayload assembles the provider message payload for a validated
// send. Components appear in the order header, body, buttons; the components
// array is omitted entirely when every component is static.
func BuildTemplatePayload(template *Template, to string, vars *TemplateVariables) *ProviderMessagePayload {
	components := []ProviderComponent{}
	c := &template.Components

	if c.HeaderType == HeaderText && c.HeaderSlots() > 0 {
		params := make([]ProviderParameter, 0, len(vars.Header))
		for _, v := range vars.Header {
			params = append(params, ProviderParameter{Type: "text", Text: v})
		}
		components = append(components, ProviderComponent{Type: "header", Parameters: params})
	} else if c.HasMediaHeader() && vars.HeaderMedia != "" {
		param := ProviderParameter{Type: string(c.HeaderType)}
		link := &ProviderMediaLink{Link: vars.HeaderMedia}
		switch c.HeaderType {
		case HeaderImage:
			param.Image = link
		case HeaderVideo:
			param.Video = link
		case HeaderDocument:
			param.Document = link
		}
		components = append(components, ProviderComponent{Type: "header", Parameters: []ProviderParameter{param}})
	}

	if c.BodySlots() > 0 {
		params := make([]ProviderParameter, 0, len(vars.Body))
		for _, v := range vars.Body {
			params = append(params, ProviderParameter{Type: "text", Text: v})
		}
		components = append(components, ProviderComponent{Type: "body", Parameters: params})
	}

	buttonValue := 0
	for i := range c.Buttons {
		b := &c.Buttons[i]
		slots := b.DynamicSlots()
		if slots == 0 {
			continue
		}
		switch b.Type {
		case ButtonURL:
			components = append(components, ProviderComponent{
				Type:    "button",
				SubType: "url",
				Index:   fmt.Sprintf("%d", i),
				Parameters: []ProviderParameter{
					{Type: "text", Text: vars.Buttons[buttonValue]},
				},
			})
		case ButtonCopyCode:
			components = append(components, ProviderComponent{
				Type:    "button",
				SubType: "copy_code",
				Index:   fmt.Sprintf("%d", i),
				Parameters: []ProviderParameter{
					{Type: "coupon_code", CouponCode: vars.Buttons[buttonValue]},
				},
			})
		}
		buttonValue += slots
	}

	payload := &ProviderMessagePayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "template",
		Template: &ProviderTemplatePayload{
			Name:     template.ProviderName,
			Language: map[string]string{"code": template.Language},
		},
	}
	if len(components) > 0 {
		payload.Template.Components = components
	}
	return payload
}

// ProviderTemplateSubmission is the body of a template creation call on the
// parent WABA. Name carries the tenant prefix.
type ProviderTemplateSubmission struct {
	Name       string                   `json:"name"`
	Language   string                   `json:"language"`
	Category   TemplateCategory         `json:"category"`
	Components []map[string]interface{} `json:"components"`
}

// ProviderTemplateInfo is one template as reported by the provider when
// listing the parent WABA's templates.
type ProviderTemplateInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language"`
	Status   string `json:"status"`
	Category string `json:"category"`
}

// ProviderMediaInfo is the resolved download location of an inbound media id.
type ProviderMediaInfo struct {
	URL      string `json:"url"`
	MimeType string `json:"mime_type"`
	SHA256   string `json:"sha256"`
	FileSize int64  `json:"file_size"`
}

// ProviderPhoneInfo is the health snapshot of a phone number pulled during
// periodic sync.
type ProviderPhoneInfo struct {
	PhoneNumberID      string `json:"id"`
	DisplayPhoneNumber string `json:"display_phone_number"`
	Status             string `json:"status"`
	QualityRating      string `json:"quality_rating"`
	MessagingTier      string `json:"messaging_limit_tier"`
}

// ProviderAccountInfo is the parent WABA health snapshot pulled during
// periodic sync.
type ProviderAccountInfo struct {
	AccountStatus  string `json:"status"`
	DecisionStatus string `json:"account_review_status"`
}

// ProviderClient is the single upstream surface. Every call authenticates
// with the central BSP system token; per-tenant tokens do not exist.
type ProviderClient interface {
	// SendTemplateMessage posts the payload to the phone number's messages
	// edge and returns the provider message id.
	SendTemplateMessage(ctx context.Context, phoneNumberID string, payload *ProviderMessagePayload) (string, error)

	// SendTextMessage posts a free-form text message, permitted inside the
	// 24-hour service window. Auto-replies and FAQ answers use it.
	SendTextMessage(ctx context.Context, phoneNumberID, to, body string) (string, error)

	// SubmitTemplate creates a template on the parent WABA and returns the
	// provider template id.
	SubmitTemplate(ctx context.Context, wabaID string, submission *ProviderTemplateSubmission) (string, error)

	// DeleteTemplate removes a template from the parent WABA by its
	// namespaced name.
	DeleteTemplate(ctx context.Context, wabaID, providerName string) error

	// ListTemplates returns all templates of the parent WABA; callers filter
	// by tenant prefix.
	ListTemplates(ctx context.Context, wabaID string) ([]*ProviderTemplateInfo, error)

	// GetMediaInfo resolves a media id to a short-lived download URL.
	GetMediaInfo(ctx context.Context, mediaID string) (*ProviderMediaInfo, error)

	// DownloadMedia fetches the bytes behind a resolved media URL.
	DownloadMedia(ctx context.Context, url string) ([]byte, error)

	// GetPhoneInfo pulls the current phone health snapshot.
	GetPhoneInfo(ctx context.Context, phoneNumberID string) (*ProviderPhoneInfo, error)

	// GetAccountInfo pulls the parent WABA health snapshot.
	GetAccountInfo(ctx context.Context, wabaID string) (*ProviderAccountInfo, error)
}
