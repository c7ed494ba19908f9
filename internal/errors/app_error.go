package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes for the simulator's failure taxonomy. Startup codes are
// fatal; the per-user and per-event codes are logged and elided so the
// output stream stays valid NDJSON.
const (
	CodeConfigInvalid            = "CONFIG_INVALID"
	CodeFacilityGenerationFailed = "FACILITY_GENERATION_FAILED"
	CodeUserGenerationFailed     = "USER_GENERATION_FAILED"
	CodeBehaviorEngineError      = "BEHAVIOR_ENGINE_ERROR"
	CodeEventSerializationError  = "EVENT_SERIALIZATION_ERROR"
	CodeTargetRoomUnknown        = "TARGET_ROOM_UNKNOWN"
)

// AppError represents a domain-specific error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewValidationError(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func NewDomainError(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// HasCode reports whether err wraps an *AppError carrying the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
