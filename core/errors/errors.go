package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies an application error category
type ErrorCode string

const (
	ErrInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrInvalidRequestData ErrorCode = "INVALID_REQUEST_DATA"
	ErrValidation         ErrorCode = "VALIDATION_ERROR"
	ErrNetwork            ErrorCode = "NETWORK_ERROR"
	ErrNotFound           ErrorCode = "NOT_FOUND"
	ErrAlreadyExists      ErrorCode = "ALREADY_EXISTS"
	ErrCreateFailed       ErrorCode = "CREATE_FAILED"
	ErrGetFailed          ErrorCode = "GET_FAILED"
	ErrUpdateFailed       ErrorCode = "UPDATE_FAILED"
	ErrDeleteFailed       ErrorCode = "DELETE_FAILED"
	ErrInternalServer     ErrorCode = "INTERNAL_SERVER_ERROR"
)

// AppError is the application error type carried between layers
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewValidationError reports malformed input. Never retried, surfaced
// immediately to the caller.
func NewValidationError(message string) *AppError {
	return NewAppError(ErrValidation, message, nil)
}

// NewNetworkError reports an unreachable or timed-out remote. Triggers the
// offline fallback path instead of surfacing as a fatal error.
func NewNetworkError(message string, err error) *AppError {
	return NewAppError(ErrNetwork, message, err)
}

// NewConflictError reports a violated uniqueness constraint
func NewConflictError(message string) *AppError {
	return NewAppError(ErrAlreadyExists, message, nil)
}

// NewNotFoundError reports an absent record or scope
func NewNotFoundError(message string) *AppError {
	return NewAppError(ErrNotFound, message, nil)
}

// AsAppError extracts an *AppError from an error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func hasCode(err error, code ErrorCode) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

func IsValidation(err error) bool { return hasCode(err, ErrValidation) }

func IsNetwork(err error) bool { return hasCode(err, ErrNetwork) }

func IsNotFound(err error) bool { return hasCode(err, ErrNotFound) }

func IsConflict(err error) bool { return hasCode(err, ErrAlreadyExists) }
