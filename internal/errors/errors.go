package errors

import "fmt"

// ErrorCode represents a FutureLetter error code.
type ErrorCode string

const (
	ErrInvalidRequest    ErrorCode = "INVALID_REQUEST"    // 400
	ErrNotFound          ErrorCode = "NOT_FOUND"          // 404
	ErrConflict          ErrorCode = "CONFLICT"           // 409
	ErrLetterTooLarge    ErrorCode = "LETTER_TOO_LARGE"   // 413
	ErrInputInsufficient ErrorCode = "INPUT_INSUFFICIENT" // 422
	ErrGatewayFailure    ErrorCode = "GATEWAY_FAILURE"    // 502
	ErrInternal          ErrorCode = "INTERNAL"           // 500
	ErrFileNotFound      ErrorCode = "FILE_NOT_FOUND"     // 404
	ErrCancelled         ErrorCode = "CANCELLED"          // 499
)

// LetterError represents a structured error with code, status, and details.
type LetterError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *LetterError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *LetterError {
	return &LetterError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a letter or milestone cannot be found.
func NewNotFound(identifier string) *LetterError {
	return &LetterError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewConflict creates a 409 error for general conflicts.
func NewConflict(msg string) *LetterError {
	return &LetterError{
		Code:    ErrConflict,
		Status:  409,
		Message: msg,
	}
}

// NewLetterTooLarge creates a 413 error when letter content exceeds the size limit.
func NewLetterTooLarge(max, actual int) *LetterError {
	return &LetterError{
		Code:    ErrLetterTooLarge,
		Status:  413,
		Message: fmt.Sprintf("letter content exceeds maximum size: %d chars (max %d)", actual, max),
		Details: map[string]any{"max_chars": max, "actual_chars": actual},
	}
}

// NewInputInsufficient creates a 422 error when a draft does not qualify for
// enhancement. The goal field is the minimal-input gate.
func NewInputInsufficient() *LetterError {
	return &LetterError{
		Code:    ErrInputInsufficient,
		Status:  422,
		Message: "add a goal before requesting enhancement; title and content alone do not qualify",
	}
}

// NewGatewayFailure creates a 502 error for enhancement service failures.
// All gateway rejections are treated uniformly; retry is user-initiated.
func NewGatewayFailure(err error) *LetterError {
	msg := "enhancement service failed"
	if err != nil {
		msg = fmt.Sprintf("enhancement service failed: %v", err)
	}
	return &LetterError{
		Code:    ErrGatewayFailure,
		Status:  502,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *LetterError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &LetterError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// NewFileNotFound creates a 404 error for a missing import/export file.
func NewFileNotFound(path string) *LetterError {
	return &LetterError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewCancelled creates a 499 error for an operation cut short by its context.
func NewCancelled(operation string) *LetterError {
	return &LetterError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("operation cancelled: %s", operation),
	}
}

// Is checks if an error is a LetterError with the given code.
func Is(err error, code ErrorCode) bool {
	if lErr, ok := err.(*LetterError); ok {
		return lErr.Code == code
	}
	return false
}
