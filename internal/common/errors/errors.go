package errors

import (
	"fmt"
	"time"
)

// ErrorCode classifies application errors.
type ErrorCode string

const (
	ErrCodeInternal   ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"
	ErrCodeForbidden  ErrorCode = "FORBIDDEN"
	ErrCodeTimeout    ErrorCode = "TIMEOUT"

	ErrCodeGiveawayNotFound ErrorCode = "GIVEAWAY_NOT_FOUND"
	ErrCodeGiveawayEnded    ErrorCode = "GIVEAWAY_ENDED"
	ErrCodeAlreadyJoined    ErrorCode = "ALREADY_JOINED"
	ErrCodeIneligibleRole   ErrorCode = "INELIGIBLE_ROLE"
	ErrCodeInvalidWinners   ErrorCode = "INVALID_WINNERS_COUNT"
	ErrCodeInvalidDuration  ErrorCode = "INVALID_DURATION"

	ErrCodePlatformAPI ErrorCode = "PLATFORM_API_ERROR"
	ErrCodeCacheError  ErrorCode = "CACHE_ERROR"
)

// AppError is the typed error carried across the HTTP boundary.
type AppError struct {
	Code      ErrorCode         `json:"code"`
	Message   string            `json:"message"`
	Context   map[string]string `json:"context,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Cause     error             `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) IsNotFound() bool {
	return e.Code == ErrCodeNotFound || e.Code == ErrCodeGiveawayNotFound
}

func (e *AppError) IsValidation() bool {
	return e.Code == ErrCodeValidation ||
		e.Code == ErrCodeInvalidWinners ||
		e.Code == ErrCodeInvalidDuration
}

func (e *AppError) IsInternal() bool {
	return e.Code == ErrCodeInternal ||
		e.Code == ErrCodeCacheError ||
		e.Code == ErrCodePlatformAPI
}

// WithContext attaches a key/value pair to the error.
func (e *AppError) WithContext(key, value string) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// New creates a new application error.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Wrap wraps an existing error.
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// NewGiveawayNotFoundError reports an unknown or already finished giveaway.
func NewGiveawayNotFoundError(giveawayID string) *AppError {
	return New(ErrCodeGiveawayNotFound, fmt.Sprintf("Giveaway not found: %s", giveawayID)).
		WithContext("giveaway_id", giveawayID)
}

// NewValidationError reports a rejected user input.
func NewValidationError(field, reason string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("Validation failed for field '%s': %s", field, reason)).
		WithContext("field", field).
		WithContext("reason", reason)
}

// NewForbiddenError reports a failed admin/initiator check.
func NewForbiddenError(reason string) *AppError {
	return New(ErrCodeForbidden, fmt.Sprintf("Forbidden: %s", reason)).
		WithContext("reason", reason)
}

// NewPlatformError reports a failed chat-platform call.
func NewPlatformError(operation string, err error) *AppError {
	return Wrap(err, ErrCodePlatformAPI, fmt.Sprintf("Platform operation failed: %s", operation)).
		WithContext("operation", operation)
}

// NewCacheError reports a failed archive/cache operation.
func NewCacheError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeCacheError, fmt.Sprintf("Cache operation failed: %s", operation)).
		WithContext("operation", operation)
}

// AsAppError casts err to *AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if err != nil {
		appErr, _ = err.(*AppError)
	}
	return appErr, appErr != nil
}
