package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrValidation   = errors.New("validation failed")
	// ErrUnreadablePDF covers missing, corrupted, encrypted and non-PDF files.
	ErrUnreadablePDF = errors.New("unreadable pdf")
)

// Error codes carried by AppError.
const (
	CodeConfig     = "CONFIG_ERROR"
	CodeInput      = "INPUT_ERROR"
	CodeExport     = "EXPORT_ERROR"
	CodeUnreadable = "UNREADABLE_PDF"
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// UnreadablePDF wraps cause so that errors.Is(err, ErrUnreadablePDF) holds.
func UnreadablePDF(path string, cause error) error {
	if cause == nil {
		return NewAppError(CodeUnreadable, path, ErrUnreadablePDF)
	}
	return NewAppError(CodeUnreadable, path, fmt.Errorf("%w: %v", ErrUnreadablePDF, cause))
}

// IsUnreadablePDF reports whether err is a per-file read failure.
func IsUnreadablePDF(err error) bool {
	return errors.Is(err, ErrUnreadablePDF)
}

// Reason returns the innermost human readable message of err.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Cause != nil {
		return appErr.Cause.Error()
	}
	return err.Error()
}
