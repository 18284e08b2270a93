package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestRestoreError_Error(t *testing.T) {
	err := NewDataError(ErrCodeExtractFailed, "extraction failed", "re-run after checking disk space").
		WithDetails("archive: wazuh_manager_config.tar.gz")

	msg := err.Error()
	if !strings.Contains(msg, "WAZRESTORE-D003") {
		t.Errorf("Error message missing code: %s", msg)
	}
	if !strings.Contains(msg, "extraction failed") {
		t.Errorf("Error message missing message: %s", msg)
	}
	if !strings.Contains(msg, "archive: wazuh_manager_config.tar.gz") {
		t.Errorf("Error message missing details: %s", msg)
	}
	if !strings.Contains(msg, "To fix:") {
		t.Errorf("Error message missing remediation: %s", msg)
	}
}

func TestRestoreError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewInternalError(ErrCodeInvalidState, "wrapped", cause)

	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to find the cause")
	}
}

func TestPolicyViolation(t *testing.T) {
	err := PolicyViolation("/etc", []string{"/var/lib/wazuh-indexer"})

	if !IsPolicyViolation(err) {
		t.Error("Expected IsPolicyViolation to be true")
	}
	if IsIntegrityFailure(err) {
		t.Error("Policy violation must not match integrity failure")
	}
	if !strings.Contains(err.Error(), "/etc") {
		t.Errorf("Expected target in message: %s", err.Error())
	}
}

func TestIntegrityFailure_Wrapped(t *testing.T) {
	inner := IntegrityFailure("/backups/latest", errors.New("checksum mismatch"))
	wrapped := fmt.Errorf("verify step: %w", inner)

	if !IsIntegrityFailure(wrapped) {
		t.Error("Expected IsIntegrityFailure through wrapping")
	}
	if !IsIntegrityFailure(inner) {
		t.Error("Expected IsIntegrityFailure on the bare error")
	}
}

func TestIs_ComparesByCode(t *testing.T) {
	a := NewEnvError(ErrCodeLockHeld, "lock held", "")
	b := NewEnvError(ErrCodeLockHeld, "different text", "")
	if !errors.Is(a, b) {
		t.Error("Errors with the same code should match")
	}

	c := NewEnvError(ErrCodeNotRoot, "not root", "")
	if errors.Is(a, c) {
		t.Error("Errors with different codes should not match")
	}
}
