package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique, machine-readable error identifier.
type ErrorCode string

const (
	// Admission
	ErrCodeNotFound                 ErrorCode = "NOT_FOUND"
	ErrCodeForbidden                ErrorCode = "FORBIDDEN"
	ErrCodeNotConfirmed             ErrorCode = "NOT_CONFIRMED"
	ErrCodeNoScheduledTime          ErrorCode = "NO_SCHEDULED_TIME"
	ErrCodeTooEarly                 ErrorCode = "TOO_EARLY"
	ErrCodeTooLate                  ErrorCode = "TOO_LATE"
	ErrCodeCandidateConsentRequired ErrorCode = "CANDIDATE_CONSENT_REQUIRED"
	ErrCodeSessionGone              ErrorCode = "SESSION_GONE"

	// Transport
	ErrCodeRegionUnavailable ErrorCode = "REGION_UNAVAILABLE"
	ErrCodeUpstreamFailure   ErrorCode = "UPSTREAM_FAILURE"

	// Validation
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"

	// Rate limiting
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"

	// Internal
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	ErrCodeDatabase ErrorCode = "DATABASE_ERROR"
)

// AppError is a structured error that can be returned to clients.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// WithCause attaches the underlying error for observability.
func (e *AppError) WithCause(err error) *AppError {
	e.cause = err
	return e
}

// WithDetails attaches structured detail for client-side messaging.
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func Wrap(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Common error constructors

func NotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

func Forbidden(message string) *AppError {
	return New(ErrCodeForbidden, message)
}

func NotConfirmed() *AppError {
	return New(ErrCodeNotConfirmed, "Session has not been confirmed by the candidate")
}

func NoScheduledTime() *AppError {
	return New(ErrCodeNoScheduledTime, "Session has no scheduled time")
}

// TooEarly rejects a join before the admission window opens.
func TooEarly(minutesUntilOpen int, windowOpensAt string) *AppError {
	return New(ErrCodeTooEarly, "Session has not opened yet").WithDetails(map[string]any{
		"minutesUntilOpen": minutesUntilOpen,
		"windowOpensAt":    windowOpensAt,
	})
}

func TooLate() *AppError {
	return New(ErrCodeTooLate, "The join window for this session has closed")
}

func CandidateConsentRequired() *AppError {
	return New(ErrCodeCandidateConsentRequired, "Recording consent is required before joining")
}

// SessionGone rejects joins on terminal sessions with a status-specific message.
func SessionGone(status string) *AppError {
	var message string
	switch status {
	case "completed":
		message = "This session has already been completed"
	case "cancelled":
		message = "This session was cancelled"
	case "missed":
		message = "This session was marked as missed"
	default:
		message = "This session is no longer available"
	}
	return New(ErrCodeSessionGone, message).WithDetails(map[string]string{"status": status})
}

func RegionUnavailable(cause error) *AppError {
	return Wrap(ErrCodeRegionUnavailable, "No healthy transport region available", cause)
}

func Upstream(service string, cause error) *AppError {
	return Wrap(ErrCodeUpstreamFailure, fmt.Sprintf("Upstream call failed: %s", service), cause)
}

func ValidationError(message string) *AppError {
	return New(ErrCodeValidation, message)
}

func RateLimitExceeded() *AppError {
	return New(ErrCodeRateLimitExceeded, "Rate limit exceeded")
}

func Internal(message string) *AppError {
	return New(ErrCodeInternal, message)
}

func Database(cause error) *AppError {
	return Wrap(ErrCodeDatabase, "Database error", cause)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetCode returns the error code, or ErrCodeInternal for untyped errors.
func GetCode(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}
