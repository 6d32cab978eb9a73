package tools

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/afossey/message-schema-plugin/internal/binding"
)

// Error codes for MCP tool responses.
const (
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeNotReady     = "NOT_READY"
	ErrCodeInternal     = "INTERNAL"
)

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// ErrNotFound creates a not found error.
func ErrNotFound(resource, id string) error {
	return &CodedError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string) error {
	return &CodedError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}

// WrapError converts an infrastructure failure to a coded error.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var coded *CodedError
	if errors.As(err, &coded) {
		return err
	}

	code := ErrCodeInternal
	if errors.Is(err, binding.ErrNotReady) {
		code = ErrCodeNotReady
	}
	slog.Warn("tool operation failed",
		slog.String("op", op),
		slog.String("code", code),
		slog.String("error", err.Error()),
	)
	return &CodedError{Code: code, Message: op + " failed", Cause: err}
}
