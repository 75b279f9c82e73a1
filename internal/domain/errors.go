package domain

import (
	"errors"
	"fmt"
)

// SendErrorKind classifies every failure the gateway can surface to a caller
// or record on a webhook log.
type SendErrorKind string

const (
	// Admission errors, terminal to the webhook request
	ErrKindMissingSignature SendErrorKind = "MISSING_SIGNATURE"
	ErrKindInvalidSignature SendErrorKind = "INVALID_SIGNATURE"
	ErrKindReplay           SendErrorKind = "REPLAY"
	ErrKindConfigError      SendErrorKind = "CONFIG_ERROR"

	// Routing errors, recorded on the log and never fatal
	ErrKindUnroutedEvent SendErrorKind = "UNROUTED_EVENT"

	// Outbound validation errors
	ErrKindTemplateNotFound          SendErrorKind = "TEMPLATE_NOT_FOUND"
	ErrKindTemplateNotApproved       SendErrorKind = "TEMPLATE_NOT_APPROVED"
	ErrKindTemplateOwnershipMismatch SendErrorKind = "TEMPLATE_OWNERSHIP_MISMATCH"
	ErrKindVariableCountMismatch     SendErrorKind = "VARIABLE_COUNT_MISMATCH"
	ErrKindMissingRequiredVariables  SendErrorKind = "MISSING_REQUIRED_VARIABLES"
	ErrKindInvalidRecipient          SendErrorKind = "INVALID_RECIPIENT"

	// Policy errors
	ErrKindOptedOut          SendErrorKind = "OPTED_OUT"
	ErrKindBillingTrialBlock SendErrorKind = "BILLING_TRIAL_NO_SEND"
	ErrKindBillingPastDue    SendErrorKind = "BILLING_PAST_DUE"
	ErrKindBillingSuspended  SendErrorKind = "BILLING_SUSPENDED"
	ErrKindPhoneBanned       SendErrorKind = "PHONE_BANNED"
	ErrKindPhoneDisconnected SendErrorKind = "PHONE_DISCONNECTED"
	ErrKindPhoneRateLimited  SendErrorKind = "PHONE_RATE_LIMITED"

	// Limit errors
	ErrKindRateLimitExceeded     SendErrorKind = "RATE_LIMIT_EXCEEDED"
	ErrKindDailyLimitExceeded    SendErrorKind = "DAILY_LIMIT_EXCEEDED"
	ErrKindMonthlyLimitExceeded  SendErrorKind = "MONTHLY_LIMIT_EXCEEDED"
	ErrKindTemplateLimitExceeded SendErrorKind = "TEMPLATE_LIMIT_EXCEEDED"

	// Upstream errors
	ErrKindTokenExpired SendErrorKind = "TOKEN_EXPIRED"
	ErrKindMetaAPIError SendErrorKind = "META_API_ERROR"

	// Internal errors, surfaced to the caller but never to the provider
	ErrKindWorkspaceNotConfigured SendErrorKind = "WORKSPACE_NOT_CONFIGURED"
	ErrKindPhoneNotConfigured     SendErrorKind = "PHONE_NOT_CONFIGURED"
)

// SendError is the structured error returned by the outbound pipeline and the
// webhook admission path. Kind drives retry semantics: validation, policy and
// ownership failures are terminal; upstream 5xx and transient infrastructure
// failures are retryable.
type SendError struct {
	Kind    SendErrorKind `json:"kind"`
	Message string        `json:"message"`
	// RetryAfter is in seconds; zero means not retryable on a schedule.
	RetryAfter int `json:"retry_after,omitempty"`
	// Code carries the provider error code when the failure came from upstream.
	Code    int                    `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *SendError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s (code %d): %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewSendError creates a terminal send error of the given kind.
func NewSendError(kind SendErrorKind, format string, args ...interface{}) *SendError {
	return &SendError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewLimitError creates a limit error carrying the seconds until retry.
func NewLimitError(kind SendErrorKind, retryAfter int, format string, args ...interface{}) *SendError {
	return &SendError{Kind: kind, Message: fmt.Sprintf(format, args...), RetryAfter: retryAfter}
}

// AsSendError unwraps err into a *SendError when one is in the chain.
func AsSendError(err error) (*SendError, bool) {
	var se *SendError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsErrorKind reports whether err carries the given kind.
func IsErrorKind(err error, kind SendErrorKind) bool {
	se, ok := AsSendError(err)
	return ok && se.Kind == kind
}

// IsRetryableSendError reports whether a failed send job should be retried.
// Only upstream transport problems qualify; everything the caller can fix is
// terminal.
func IsRetryableSendError(err error) bool {
	se, ok := AsSendError(err)
	if !ok {
		// Unclassified errors are treated as transient infrastructure faults.
		return true
	}
	switch se.Kind {
	case ErrKindMetaAPIError:
		// Provider 5xx responses are worth retrying, 4xx are not.
		return se.Code >= 500
	default:
		return false
	}
}

// ErrNotFound is the generic missing-entity error used by repositories.
type ErrNotFound struct {
	Entity string
	ID     string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found with ID: %s", e.Entity, e.ID)
}

// Task-specific errors
type ErrTaskExecution struct {
	TaskID string
	Reason string
	Err    error
}

func (e *ErrTaskExecution) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task execution failed [%s]: %s - %v", e.TaskID, e.Reason, e.Err)
	}
	return fmt.Sprintf("task execution failed [%s]: %s", e.TaskID, e.Reason)
}

func (e *ErrTaskExecution) Unwrap() error {
	return e.Err
}

type ErrTaskTimeout struct {
	TaskID     string
	MaxRuntime int
}

func (e *ErrTaskTimeout) Error() string {
	return fmt.Sprintf("task timed out [%s] after %d seconds", e.TaskID, e.MaxRuntime)
}

// ValidationError represents an error that occurs due to invalid input or parameters
type ValidationError struct {
	Message string
}

// Error implements the error interface
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a new validation error with the given message
func NewValidationError(message string) error {
	return ValidationError{
		Message: message,
	}
}

// ErrUnauthorized is returned when a caller is not allowed to perform an action
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	return e.Message
}
