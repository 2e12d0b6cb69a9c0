package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeValidation indicates malformed or inconsistent input rejected at
	// the command boundary (bad name, bad schedule, duplicate, unresolved reference)
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConflict indicates a command that conflicts with current state
	// (sync already running, rollback without history, deleting a referenced role)
	ErrorTypeConflict ErrorType = "conflict"
	// ErrorTypePolicyDenied indicates a command blocked by RBAC or a sync window
	ErrorTypePolicyDenied ErrorType = "policy_denied"
	// ErrorTypeNotFound indicates a referenced entity does not exist
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeRuntime indicates an accepted operation that failed during
	// execution (hook failure, apply failure, cancellation)
	ErrorTypeRuntime ErrorType = "runtime"
	// ErrorTypeInternal indicates an internal error
	ErrorTypeInternal ErrorType = "internal"
)

// AppError represents a structured engine error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of the same type
func (e *AppError) Is(target error) bool {
	var appErr *AppError
	if errors.As(target, &appErr) {
		return e.Type == appErr.Type
	}
	return false
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details map[string]interface{}) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Details: details,
	}
}

// NewConflictError creates a new conflict error
func NewConflictError(message string, details map[string]interface{}) *AppError {
	return &AppError{
		Type:    ErrorTypeConflict,
		Message: message,
		Details: details,
	}
}

// NewPolicyDeniedError creates a new policy-denied error naming the blocking
// policy or window in details
func NewPolicyDeniedError(message string, details map[string]interface{}) *AppError {
	return &AppError{
		Type:    ErrorTypePolicyDenied,
		Message: message,
		Details: details,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, details map[string]interface{}) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
		Details: details,
	}
}

// NewRuntimeError creates a new runtime failure error
func NewRuntimeError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeRuntime,
		Message: message,
		Cause:   cause,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Cause:   cause,
	}
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeValidation
	}
	return false
}

// IsConflictError checks if the error is a conflict error
func IsConflictError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeConflict
	}
	return false
}

// IsPolicyDeniedError checks if the error is a policy-denied error
func IsPolicyDeniedError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypePolicyDenied
	}
	return false
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeNotFound
	}
	return false
}

// IsRuntimeError checks if the error is a runtime failure
func IsRuntimeError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeRuntime
	}
	return false
}

// GetErrorDetails extracts details from an AppError
func GetErrorDetails(err error) map[string]interface{} {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Details
	}
	return nil
}

// ValidationResult is the verdict of a multi-check validation. Errors make the
// result invalid; warnings do not.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// OK returns a passing validation result
func OK() *ValidationResult {
	return &ValidationResult{Valid: true}
}

// AddError appends an error and marks the result invalid
func (r *ValidationResult) AddError(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// AddWarning appends a warning without affecting validity
func (r *ValidationResult) AddWarning(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Err converts an invalid result into a single validation error, or nil
func (r *ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	msg := "validation failed"
	if len(r.Errors) > 0 {
		msg = r.Errors[0]
	}
	return NewValidationError(msg, map[string]interface{}{"errors": r.Errors})
}
