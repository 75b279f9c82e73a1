package domain

import (
	"bytes"
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

//go:generate mockgen -destination mocks/mock_contact_repository.go -package mocks github.com/Waypost/waypost/internal/domain ContactRepository
//go:generate mockgen -destination mocks/mock_contact_service.go -package mocks github.com/Waypost/waypost/internal/domain ContactServiceInterface

// Opt-in transition sources.
const (
	OptInViaInboundMessage = "inbound_message"
	OptInViaKeyword        = "keyword"
	OptInViaAPI            = "api"
	OptInViaImport         = "import"
)

var optOutKeywords = map[string]bool{
	"STOP":        true,
	"STOPALL":     true,
	"UNSUBSCRIBE": true,
	"CANCEL":      true,
	"END":         true,
	"QUIT":        true,
}

var optInKeywords = map[string]bool{
	"START":     true,
	"UNSTOP":    true,
	"SUBSCRIBE": true,
}

// IsOptOutKeyword reports whether an inbound body is an opt-out command.
func IsOptOutKeyword(body string) bool {
	return optOutKeywords[strings.ToUpper(strings.TrimSpace(body))]
}

// IsOptInKeyword reports whether an inbound body is an opt-in command.
func IsOptInKeyword(body string) bool {
	return optInKeywords[strings.ToUpper(strings.TrimSpace(body))]
}

// NormalizePhone strips everything but digits, maps a single leading zero to
// the given country code and rejects results shorter than 10 digits.
func NormalizePhone(raw, defaultCountryCode string) (string, error) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	phone := digits.String()
	if strings.HasPrefix(phone, "0") && defaultCountryCode != "" {
		phone = defaultCountryCode + strings.TrimLeft(phone, "0")
	}
	if len(phone) < 10 {
		return "", NewSendError(ErrKindInvalidRecipient, "phone number %q has fewer than 10 digits", raw)
	}
	return phone, nil
}

// OptInState tracks the consent of a contact, stored as JSONB.
type OptInState struct {
	Status bool       `json:"status"`
	Via    string     `json:"via,omitempty"`
	At     *time.Time `json:"at,omitempty"`
}

// Value implements the driver.Valuer interface for database serialization
func (o OptInState) Value() (driver.Value, error) {
	return json.Marshal(o)
}

// Scan implements the sql.Scanner interface for database deserialization
func (o *OptInState) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	v, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("type assertion to []byte failed")
	}

	cloned := bytes.Clone(v)
	return json.Unmarshal(cloned, o)
}

// Tags is a string list stored as JSONB.
type Tags []string

// Value implements the driver.Valuer interface for database serialization
func (t Tags) Value() (driver.Value, error) {
	if len(t) == 0 {
		return nil, nil
	}
	return json.Marshal(t)
}

// Scan implements the sql.Scanner interface for database deserialization
func (t *Tags) Scan(value interface{}) error {
	if value == nil {
		*t = nil
		return nil
	}

	v, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("type assertion to []byte failed")
	}

	cloned := bytes.Clone(v)
	return json.Unmarshal(cloned, t)
}

// Contact is one messaging recipient of a workspace. Phone is unique per
// workspace and normalized to digits only.
type Contact struct {
	ID        string     `json:"id"`
	Phone     string     `json:"phone"`
	Name      string     `json:"name"`
	OptIn     OptInState `json:"opt_in"`
	Tags      Tags       `json:"tags,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// IsOptedOut reports whether the contact refused outbound messages.
func (c *Contact) IsOptedOut() bool {
	return !c.OptIn.Status
}

// ErrContactNotFound is returned when a contact is not found
type ErrContactNotFound struct {
	ID string
}

func (e *ErrContactNotFound) Error() string {
	return fmt.Sprintf("contact with ID %s not found", e.ID)
}

// For database scanning
type dbContact struct {
	ID        string
	Phone     string
	Name      string
	OptIn     []byte
	Tags      []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScanContact scans a contact from the database
func ScanContact(scanner interface {
	Scan(dest ...interface{}) error
}) (*Contact, error) {
	var dbc dbContact
	if err := scanner.Scan(
		&dbc.ID,
		&dbc.Phone,
		&dbc.Name,
		&dbc.OptIn,
		&dbc.Tags,
		&dbc.CreatedAt,
		&dbc.UpdatedAt,
	); err != nil {
		return nil, err
	}

	c := &Contact{
		ID:        dbc.ID,
		Phone:     dbc.Phone,
		Name:      dbc.Name,
		CreatedAt: dbc.CreatedAt,
		UpdatedAt: dbc.UpdatedAt,
	}
	if len(dbc.OptIn) > 0 {
		if err := json.Unmarshal(dbc.OptIn, &c.OptIn); err != nil {
			return nil, fmt.Errorf("failed to unmarshal opt-in state: %w", err)
		}
	}
	if len(dbc.Tags) > 0 {
		if err := json.Unmarshal(dbc.Tags, &c.Tags); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
		}
	}
	return c, nil
}

// ContactListParams filters contact listings.
type ContactListParams struct {
	Cursor   string `json:"cursor,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Search   string `json:"search,omitempty"`
	OptedOut *bool  `json:"opted_out,omitempty"`
}

// FromQuery creates ContactListParams from HTTP query parameters
func (p *ContactListParams) FromQuery(query url.Values) error {
	p.Cursor = query.Get("cursor")
	p.Search = query.Get("search")
	if optedOut := query.Get("opted_out"); optedOut != "" {
		b, err := strconv.ParseBool(optedOut)
		if err != nil {
			return fmt.Errorf("invalid opted_out value: %s", optedOut)
		}
		p.OptedOut = &b
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return fmt.Errorf("invalid limit value: %s", limitStr)
		}
		p.Limit = limit
	}
	return p.Validate()
}

func (p *ContactListParams) Validate() error {
	if p.Limit < 0 {
		return fmt.Errorf("limit cannot be negative")
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Limit == 0 {
		p.Limit = 20
	}
	return nil
}

// ContactListResult contains a page of contacts.
type ContactListResult struct {
	Contacts   []*Contact `json:"contacts"`
	NextCursor string     `json:"next_cursor,omitempty"`
	HasMore    bool       `json:"has_more"`
}

// ContactRepository operates on the per-workspace database.
type ContactRepository interface {
	// Upsert finds-or-creates by phone atomically and reports whether the
	// contact was created.
	Upsert(ctx context.Context, workspaceID string, contact *Contact) (created bool, err error)
	UpsertTx(ctx context.Context, tx *sql.Tx, contact *Contact) (created bool, err error)
	GetByID(ctx context.Context, workspaceID, id string) (*Contact, error)
	GetByPhone(ctx context.Context, workspaceID, phone string) (*Contact, error)
	UpdateOptIn(ctx context.Context, workspaceID, contactID string, optIn OptInState) error
	List(ctx context.Context, workspaceID string, params ContactListParams) (*ContactListResult, error)
}

// ContactServiceInterface exposes contact operations to other services and
// the HTTP layer.
type ContactServiceInterface interface {
	// UpsertInbound returns the contact for an inbound phone, creating it
	// opted-in when first seen.
	UpsertInbound(ctx context.Context, workspaceID, phone, name string) (contact *Contact, created bool, err error)
	GetByID(ctx context.Context, workspaceID, id string) (*Contact, error)
	GetByPhone(ctx context.Context, workspaceID, phone string) (*Contact, error)
	// SetOptState records an explicit opt-in or opt-out transition with its
	// source and writes the audit timeline entry.
	SetOptState(ctx context.Context, workspaceID, contactID string, optedIn bool, via string) error
	// IsOptedOut checks consent by contact id or normalized phone.
	IsOptedOut(ctx context.Context, workspaceID, contactID, phone string) (bool, error)
	List(ctx context.Context, workspaceID string, params ContactListParams) (*ContactListResult, error)
}
