package domain

import (
	"context"
	"fmt"
)

//go:generate mockgen -destination mocks/mock_rate_limit_service.go -package mocks github.com/Waypost/waypost/internal/domain RateLimitServiceInterface

// PlanTier determines the default limits of a workspace.
type PlanTier string

const (
	PlanFree       PlanTier = "free"
	PlanBasic      PlanTier = "basic"
	PlanPremium    PlanTier = "premium"
	PlanEnterprise PlanTier = "enterprise"
)

// IsValid reports whether the tier is one of the known plans.
func (t PlanTier) IsValid() bool {
	switch t {
	case PlanFree, PlanBasic, PlanPremium, PlanEnterprise:
		return true
	}
	return false
}

// PlanLimits holds the five limits enforced per workspace.
type PlanLimits struct {
	MessagesPerSecond int `json:"messages_per_second"`
	MessagesPerDay    int `json:"messages_per_day"`
	MessagesPerMonth  int `json:"messages_per_month"`
	TemplatesPerDay   int `json:"templates_per_day"`
	APICallsPerMinute int `json:"api_calls_per_minute"`
}

var planLimits = map[PlanTier]PlanLimits{
	PlanFree:       {MessagesPerSecond: 1, MessagesPerDay: 100, MessagesPerMonth: 1_000, TemplatesPerDay: 3, APICallsPerMinute: 100},
	PlanBasic:      {MessagesPerSecond: 10, MessagesPerDay: 1_000, MessagesPerMonth: 25_000, TemplatesPerDay: 10, APICallsPerMinute: 500},
	PlanPremium:    {MessagesPerSecond: 50, MessagesPerDay: 10_000, MessagesPerMonth: 250_000, TemplatesPerDay: 50, APICallsPerMinute: 2_000},
	PlanEnterprise: {MessagesPerSecond: 200, MessagesPerDay: 100_000, MessagesPerMonth: 2_500_000, TemplatesPerDay: 200, APICallsPerMinute: 10_000},
}

// Limits returns the default limits for the plan; unknown tiers get the free
// plan limits.
func (t PlanTier) Limits() PlanLimits {
	if limits, ok := planLimits[t]; ok {
		return limits
	}
	return planLimits[PlanFree]
}

// RateLimitOverrides replaces individual plan limits for one workspace; zero
// fields keep the plan default.
type RateLimitOverrides struct {
	MessagesPerSecond int `json:"messages_per_second,omitempty"`
	MessagesPerDay    int `json:"messages_per_day,omitempty"`
	MessagesPerMonth  int `json:"messages_per_month,omitempty"`
	TemplatesPerDay   int `json:"templates_per_day,omitempty"`
	APICallsPerMinute int `json:"api_calls_per_minute,omitempty"`
}

func (o *RateLimitOverrides) Validate() error {
	if o.MessagesPerSecond < 0 || o.MessagesPerDay < 0 || o.MessagesPerMonth < 0 ||
		o.TemplatesPerDay < 0 || o.APICallsPerMinute < 0 {
		return fmt.Errorf("rate limit overrides cannot be negative")
	}
	return nil
}

// Apply overlays the non-zero overrides on the plan defaults.
func (o *RateLimitOverrides) Apply(limits PlanLimits) PlanLimits {
	if o.MessagesPerSecond > 0 {
		limits.MessagesPerSecond = o.MessagesPerSecond
	}
	if o.MessagesPerDay > 0 {
		limits.MessagesPerDay = o.MessagesPerDay
	}
	if o.MessagesPerMonth > 0 {
		limits.MessagesPerMonth = o.MessagesPerMonth
	}
	if o.TemplatesPerDay > 0 {
		limits.TemplatesPerDay = o.TemplatesPerDay
	}
	if o.APICallsPerMinute > 0 {
		limits.APICallsPerMinute = o.APICallsPerMinute
	}
	return limits
}

// RemainingBudgets is attached to every send response, successful or not, so
// callers can pace themselves without probing.
type RemainingBudgets struct {
	PerSecond       int `json:"per_second"`
	Day             int `json:"day"`
	Month           int `json:"month"`
	TemplatesPerDay int `json:"templates_per_day"`
	APIPerMinute    int `json:"api_per_minute"`
}

// RateLimitServiceInterface enforces the per-workspace limits.
type RateLimitServiceInterface interface {
	// CheckMessageSend consumes one message slot across the burst, daily
	// and monthly limits, or returns a limit error with retry-after set.
	CheckMessageSend(ctx context.Context, workspace *Workspace) (*RemainingBudgets, error)
	// CheckTemplateSubmission consumes one template submission slot.
	CheckTemplateSubmission(ctx context.Context, workspace *Workspace) (*RemainingBudgets, error)
	// CheckAPIRequest consumes one API request slot for the workspace.
	CheckAPIRequest(ctx context.Context, workspace *Workspace) (*RemainingBudgets, error)
	// Budgets reports the remaining budgets without consuming anything.
	Budgets(ctx context.Context, workspace *Workspace) *RemainingBudgets
}
