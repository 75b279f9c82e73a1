package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

//go:generate mockgen -destination mocks/mock_auto_reply_repository.go -package mocks github.com/Waypost/waypost/internal/domain AutoReplyRepository

// AutoReplyMatchType selects how a rule matches inbound text.
type AutoReplyMatchType string

const (
	MatchExact      AutoReplyMatchType = "exact"
	MatchStartsWith AutoReplyMatchType = "starts_with"
	MatchContains   AutoReplyMatchType = "contains"
)

// AutoReplyWindow suppresses repeats of the same rule to the same contact.
const AutoReplyWindow = 24 * time.Hour

// AutoReplyLogRetention is how long fired-reply records are kept.
const AutoReplyLogRetention = 30 * 24 * time.Hour

// FAQMinOverlap is the token-overlap ratio an FAQ must reach to answer an
// inbound question.
const FAQMinOverlap = 0.6

// AutoReply is one keyword rule. Matching is case-insensitive on trimmed
// inbound text. The bound template is the rule's compliance anchor: the rule
// stays silent while that template is not approved.
type AutoReply struct {
	ID         string             `json:"id"`
	Keyword    string             `json:"keyword"`
	MatchType  AutoReplyMatchType `json:"match_type"`
	Response   string             `json:"response"`
	TemplateID string             `json:"template_id"`
	Active     bool               `json:"active"`
	Priority   int                `json:"priority"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

func (r *AutoReply) Validate() error {
	if strings.TrimSpace(r.Keyword) == "" {
		return fmt.Errorf("keyword is required")
	}
	if strings.TrimSpace(r.Response) == "" {
		return fmt.Errorf("response is required")
	}
	if strings.TrimSpace(r.TemplateID) == "" {
		return fmt.Errorf("template_id is required")
	}
	switch r.MatchType {
	case MatchExact, MatchStartsWith, MatchContains:
	default:
		return fmt.Errorf("invalid match_type: %s", r.MatchType)
	}
	return nil
}

// Matches reports whether the rule fires for the inbound text.
func (r *AutoReply) Matches(text string) bool {
	if !r.Active {
		return false
	}
	body := strings.ToLower(strings.TrimSpace(text))
	keyword := strings.ToLower(strings.TrimSpace(r.Keyword))
	if body == "" || keyword == "" {
		return false
	}
	switch r.MatchType {
	case MatchExact:
		return body == keyword
	case MatchStartsWith:
		return strings.HasPrefix(body, keyword)
	case MatchContains:
		return strings.Contains(body, keyword)
	}
	return false
}

// AutoReplyLog records one fired rule; its (contact, rule) recency backs the
// repeat-suppression window.
type AutoReplyLog struct {
	ID          string    `json:"id"`
	AutoReplyID string    `json:"auto_reply_id"`
	ContactID   string    `json:"contact_id"`
	MessageID   string    `json:"message_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// FAQ answers free-text questions by token overlap when no keyword rule
// fires. MatchCount tracks how often the entry answered.
type FAQ struct {
	ID         string    `json:"id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Active     bool      `json:"active"`
	MatchCount int64     `json:"match_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// contentTokens lowercases and keeps tokens longer than two runes, dropping
// the short glue words that would inflate overlap.
func contentTokens(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,!?;:\"'()")
		if len([]rune(f)) > 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// OverlapScore is the fraction of the FAQ question's content tokens present
// in the inbound text.
func (f *FAQ) OverlapScore(text string) float64 {
	question := contentTokens(f.Question)
	if len(question) == 0 {
		return 0
	}
	inbound := make(map[string]bool, len(question))
	for _, t := range contentTokens(text) {
		inbound[t] = true
	}
	matched := 0
	for _, t := range question {
		if inbound[t] {
			matched++
		}
	}
	return float64(matched) / float64(len(question))
}

// BestFAQMatch returns the highest-scoring active FAQ at or above
// FAQMinOverlap, or nil when none qualifies.
func BestFAQMatch(faqs []*FAQ, text string) *FAQ {
	var best *FAQ
	var bestScore float64
	for _, f := range faqs {
		if !f.Active {
			continue
		}
		score := f.OverlapScore(text)
		if score >= FAQMinOverlap && score > bestScore {
			best = f
			bestScore = score
		}
	}
	return best
}

// MatchAutoReply returns the first active rule that fires, in priority order
// (highest first, then oldest).
func MatchAutoReply(rules []*AutoReply, text string) *AutoReply {
	var best *AutoReply
	for _, r := range rules {
		if !r.Matches(text) {
			continue
		}
		if best == nil || r.Priority > best.Priority ||
			(r.Priority == best.Priority && r.CreatedAt.Before(best.CreatedAt)) {
			best = r
		}
	}
	return best
}

// AutoReplyRepository operates on the per-workspace database.
type AutoReplyRepository interface {
	CreateRule(ctx context.Context, workspaceID string, rule *AutoReply) error
	UpdateRule(ctx context.Context, workspaceID string, rule *AutoReply) error
	DeleteRule(ctx context.Context, workspaceID, id string) error
	ListRules(ctx context.Context, workspaceID string) ([]*AutoReply, error)

	// RecentlyReplied reports whether the rule fired for the contact inside
	// the suppression window.
	RecentlyReplied(ctx context.Context, workspaceID, autoReplyID, contactID string, window time.Duration) (bool, error)
	LogReply(ctx context.Context, workspaceID string, entry *AutoReplyLog) error
	DeleteExpiredLogs(ctx context.Context, workspaceID string) (int64, error)

	CreateFAQ(ctx context.Context, workspaceID string, faq *FAQ) error
	UpdateFAQ(ctx context.Context, workspaceID string, faq *FAQ) error
	DeleteFAQ(ctx context.Context, workspaceID, id string) error
	ListFAQs(ctx context.Context, workspaceID string) ([]*FAQ, error)

	// IncrementFAQMatch bumps the match counter of one FAQ entry.
	IncrementFAQMatch(ctx context.Context, workspaceID, id string) error
}
