// Package errors provides structured error types for wazuh-restore
// with error codes, categories, and remediation guidance
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error codes for wazuh-restore
// Format: WAZRESTORE-<CATEGORY><NUMBER>
// Categories: C=Config, E=Environment, D=Data, P=Policy, B=Bug
const (
	// Configuration errors (user fix)
	ErrCodeInvalidConfig ErrorCode = "WAZRESTORE-C001"
	ErrCodeInvalidPath   ErrorCode = "WAZRESTORE-C002"
	ErrCodeInvalidOption ErrorCode = "WAZRESTORE-C003"

	// Environment errors (infrastructure fix)
	ErrCodeNotRoot       ErrorCode = "WAZRESTORE-E001"
	ErrCodeBackupMissing ErrorCode = "WAZRESTORE-E002"
	ErrCodeToolMissing   ErrorCode = "WAZRESTORE-E003"
	ErrCodeLockHeld      ErrorCode = "WAZRESTORE-E004"
	ErrCodeCommandFailed ErrorCode = "WAZRESTORE-E005"
	ErrCodeServiceDown   ErrorCode = "WAZRESTORE-E006"

	// Data errors (investigate the backup set)
	ErrCodeIntegrityFailure ErrorCode = "WAZRESTORE-D001"
	ErrCodeBadManifest      ErrorCode = "WAZRESTORE-D002"
	ErrCodeExtractFailed    ErrorCode = "WAZRESTORE-D003"

	// Policy errors (defect in the cleanup allow-list wiring)
	ErrCodePolicyViolation ErrorCode = "WAZRESTORE-P001"

	// Internal errors (report to maintainers)
	ErrCodeInvalidState ErrorCode = "WAZRESTORE-B001"
)

// Category represents error categories
type Category string

const (
	CategoryConfig      Category = "configuration"
	CategoryEnvironment Category = "environment"
	CategoryData        Category = "data"
	CategoryPolicy      Category = "policy"
	CategoryInternal    Category = "internal"
)

// RestoreError is a structured error with code, category, and remediation
type RestoreError struct {
	Code        ErrorCode
	Category    Category
	Message     string
	Details     string
	Remediation string
	Cause       error
}

// Error implements error interface
func (e *RestoreError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Details != "" {
		msg += fmt.Sprintf("\n\nDetails:\n  %s", e.Details)
	}
	if e.Remediation != "" {
		msg += fmt.Sprintf("\n\nTo fix:\n  %s", e.Remediation)
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *RestoreError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for error comparison
func (e *RestoreError) Is(target error) bool {
	if t, ok := target.(*RestoreError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetails adds details to an error
func (e *RestoreError) WithDetails(details string) *RestoreError {
	e.Details = details
	return e
}

// WithCause adds an underlying cause
func (e *RestoreError) WithCause(cause error) *RestoreError {
	e.Cause = cause
	return e
}

// NewConfigError creates a configuration error
func NewConfigError(code ErrorCode, message string, remediation string) *RestoreError {
	return &RestoreError{
		Code:        code,
		Category:    CategoryConfig,
		Message:     message,
		Remediation: remediation,
	}
}

// NewEnvError creates an environment error
func NewEnvError(code ErrorCode, message string, remediation string) *RestoreError {
	return &RestoreError{
		Code:        code,
		Category:    CategoryEnvironment,
		Message:     message,
		Remediation: remediation,
	}
}

// NewDataError creates a data error
func NewDataError(code ErrorCode, message string, remediation string) *RestoreError {
	return &RestoreError{
		Code:        code,
		Category:    CategoryData,
		Message:     message,
		Remediation: remediation,
	}
}

// NewInternalError creates an internal error (bugs)
func NewInternalError(code ErrorCode, message string, cause error) *RestoreError {
	return &RestoreError{
		Code:     code,
		Category: CategoryInternal,
		Message:  message,
		Cause:    cause,
	}
}

// Common error constructors for the orchestrator's fatal classes

// PolicyViolation reports a cleanup target outside the allow-list. This is
// always a defect in the component wiring, never an operator mistake.
func PolicyViolation(target string, allowed []string) *RestoreError {
	return &RestoreError{
		Code:     ErrCodePolicyViolation,
		Category: CategoryPolicy,
		Message:  "refusing to clean directory outside the allow-list",
		Details:  fmt.Sprintf("Target: %s\nAllowed: %v", target, allowed),
		Remediation: "No files were deleted. The cleanup allow-list is compiled in; " +
			"if this target is legitimate it must be added there.",
	}
}

// IntegrityFailure reports checksum verification failure for the backup set
func IntegrityFailure(sourceDir string, cause error) *RestoreError {
	return &RestoreError{
		Code:     ErrCodeIntegrityFailure,
		Category: CategoryData,
		Message:  "backup integrity verification failed",
		Details:  fmt.Sprintf("Backup dir: %s\nError: %v", sourceDir, cause),
		Remediation: "The backup set does not match its checksum manifest. " +
			"Re-copy the backup from its source or pick an older backup set.",
		Cause: cause,
	}
}

// IsPolicyViolation reports whether err is (or wraps) a policy violation
func IsPolicyViolation(err error) bool {
	return errors.Is(err, &RestoreError{Code: ErrCodePolicyViolation})
}

// IsIntegrityFailure reports whether err is (or wraps) an integrity failure
func IsIntegrityFailure(err error) bool {
	return errors.Is(err, &RestoreError{Code: ErrCodeIntegrityFailure})
}
