package dispatch

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/Waypost/waypost/internal/domain"
	"github.com/tidwall/gjson"
)

// classifiedChange is one change object of a webhook entry, parsed into the
// domain struct its handler expects. Exactly one payload field is set,
// matching EventType.
type classifiedChange struct {
	EventType     domain.WebhookEventType
	PhoneNumberID string

	Messages         []*domain.InboundMessage
	Statuses         []*domain.InboundStatus
	TemplateUpdate   *domain.TemplateStatusUpdate
	AccountUpdate    *domain.AccountUpdate
	CapabilityUpdate *domain.CapabilityUpdate
}

// classifyBody walks every entry and change of a raw webhook delivery. A
// "messages" field carrying both messages and statuses yields two changes so
// each keeps its own idempotency key.
func classifyBody(body []byte) []*classifiedChange {
	var out []*classifiedChange
	gjson.GetBytes(body, "entry").ForEach(func(_, entry gjson.Result) bool {
		entry.Get("changes").ForEach(func(_, change gjson.Result) bool {
			out = append(out, classifyChange(change)...)
			return true
		})
		return true
	})
	return out
}

func classifyChange(change gjson.Result) []*classifiedChange {
	value := change.Get("value")
	phoneNumberID := value.Get("metadata.phone_number_id").String()

	switch change.Get("field").String() {
	case "messages":
		var out []*classifiedChange
		if messages := parseInboundMessages(value); len(messages) > 0 {
			out = append(out, &classifiedChange{
				EventType:     domain.WebhookEventMessage,
				PhoneNumberID: phoneNumberID,
				Messages:      messages,
			})
		}
		if statuses := parseInboundStatuses(value); len(statuses) > 0 {
			out = append(out, &classifiedChange{
				EventType:     domain.WebhookEventStatus,
				PhoneNumberID: phoneNumberID,
				Statuses:      statuses,
			})
		}
		if len(out) == 0 {
			out = append(out, &classifiedChange{EventType: domain.WebhookEventUnknown, PhoneNumberID: phoneNumberID})
		}
		return out

	case "message_template_status_update":
		update := &domain.TemplateStatusUpdate{}
		if err := json.Unmarshal([]byte(value.Raw), update); err != nil || update.Event == "" {
			return []*classifiedChange{{EventType: domain.WebhookEventUnknown}}
		}
		return []*classifiedChange{{
			EventType:      domain.WebhookEventTemplateStatus,
			TemplateUpdate: update,
		}}

	case "account_update":
		update := &domain.AccountUpdate{}
		if err := json.Unmarshal([]byte(value.Raw), update); err != nil {
			return []*classifiedChange{{EventType: domain.WebhookEventUnknown}}
		}
		if update.PhoneNumberID == "" {
			update.PhoneNumberID = phoneNumberID
		}
		return []*classifiedChange{{
			EventType:     domain.WebhookEventAccountUpdate,
			PhoneNumberID: update.PhoneNumberID,
			AccountUpdate: update,
		}}

	case "business_capability_update":
		update := &domain.CapabilityUpdate{}
		if err := json.Unmarshal([]byte(value.Raw), update); err != nil || update.Capability == "" {
			return []*classifiedChange{{EventType: domain.WebhookEventUnknown}}
		}
		return []*classifiedChange{{
			EventType:        domain.WebhookEventCapabilityUpdate,
			PhoneNumberID:    phoneNumberID,
			CapabilityUpdate: update,
		}}

	case domain.AdUpdateReview, domain.AdUpdateStatus, domain.AdUpdateAccountDisabled:
		return []*classifiedChange{{EventType: domain.WebhookEventAdUpdate, PhoneNumberID: phoneNumberID}}

	default:
		return []*classifiedChange{{EventType: domain.WebhookEventUnknown, PhoneNumberID: phoneNumberID}}
	}
}

func parseInboundMessages(value gjson.Result) []*domain.InboundMessage {
	profiles := map[string]string{}
	value.Get("contacts").ForEach(func(_, contact gjson.Result) bool {
		profiles[contact.Get("wa_id").String()] = contact.Get("profile.name").String()
		return true
	})

	var out []*domain.InboundMessage
	value.Get("messages").ForEach(func(_, raw gjson.Result) bool {
		msg := &domain.InboundMessage{
			ProviderMessageID: raw.Get("id").String(),
			From:              raw.Get("from").String(),
			Type:              domain.MessageType(raw.Get("type").String()),
			Timestamp:         parseUnixTimestamp(raw.Get("timestamp").String()),
			Raw:               []byte(raw.Raw),
		}
		msg.ProfileName = profiles[msg.From]

		switch msg.Type {
		case domain.MessageTypeText:
			msg.Body = raw.Get("text.body").String()
		case domain.MessageTypeImage, domain.MessageTypeVideo, domain.MessageTypeDocument,
			domain.MessageTypeAudio, domain.MessageTypeVoice, domain.MessageTypeSticker:
			block := raw.Get(string(msg.Type))
			msg.Media = &domain.InboundMedia{
				ProviderMediaID: block.Get("id").String(),
				MimeType:        block.Get("mime_type").String(),
				SHA256:          block.Get("sha256").String(),
				Caption:         block.Get("caption").String(),
				Filename:        block.Get("filename").String(),
			}
			msg.Body = msg.Media.Caption
		case "button":
			msg.Type = domain.MessageTypeText
			msg.Body = raw.Get("button.text").String()
		case "interactive":
			msg.Type = domain.MessageTypeText
			msg.Body = raw.Get("interactive.button_reply.title").String()
			if msg.Body == "" {
				msg.Body = raw.Get("interactive.list_reply.title").String()
			}
		}

		if msg.ProviderMessageID != "" && msg.From != "" {
			out = append(out, msg)
		}
		return true
	})
	return out
}

func parseInboundStatuses(value gjson.Result) []*domain.InboundStatus {
	var out []*domain.InboundStatus
	value.Get("statuses").ForEach(func(_, raw gjson.Result) bool {
		status := &domain.InboundStatus{
			ProviderMessageID: raw.Get("id").String(),
			RecipientID:       raw.Get("recipient_id").String(),
			Status:            domain.MessageStatus(raw.Get("status").String()),
			Timestamp:         parseUnixTimestamp(raw.Get("timestamp").String()),
		}
		if errs := raw.Get("errors"); errs.Exists() {
			first := errs.Get("0")
			status.ErrorCode = int(first.Get("code").Int())
			status.ErrorMessage = first.Get("message").String()
			if status.ErrorMessage == "" {
				status.ErrorMessage = first.Get("title").String()
			}
		}
		if status.ProviderMessageID != "" && status.Status != "" {
			out = append(out, status)
		}
		return true
	})
	return out
}

// parseUnixTimestamp reads the provider's second-resolution epoch strings,
// falling back to now for absent or malformed values.
func parseUnixTimestamp(raw string) time.Time {
	if raw == "" {
		return time.Now().UTC()
	}
	seconds, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || seconds <= 0 {
		return time.Now().UTC()
	}
	return time.Unix(seconds, 0).UTC()
}
