// Package exitcode maps run outcomes to process exit codes.
// Codes follow BSD sysexits.h conventions where a more specific
// code than 1 exists for the failure class.
package exitcode

import (
	stderrors "errors"

	"github.com/enes-ismaili/wazuh-restore/internal/errors"
)

const (
	// Success - operation completed successfully (includes user-declined abort)
	Success = 0

	// General - general fatal error (fallback)
	General = 1

	// UsageError - command line usage error
	UsageError = 2

	// DataError - backup data failed integrity verification
	DataError = 65

	// NoInput - backup source directory did not exist or was not readable
	NoInput = 66

	// Unavailable - required external tool unavailable
	Unavailable = 69

	// OSError - operating system error (file I/O, lock file)
	OSError = 71

	// NoPerm - permission denied (not running as root)
	NoPerm = 77

	// Config - configuration error
	Config = 78

	// Cancelled - operation cancelled by operator (Ctrl+C)
	Cancelled = 130
)

// FromError returns the exit code for a fatal error. nil maps to Success.
func FromError(err error) int {
	if err == nil {
		return Success
	}

	var re *errors.RestoreError
	if stderrors.As(err, &re) {
		switch re.Code {
		case errors.ErrCodeNotRoot:
			return NoPerm
		case errors.ErrCodeBackupMissing:
			return NoInput
		case errors.ErrCodeToolMissing, errors.ErrCodeServiceDown:
			return Unavailable
		case errors.ErrCodeLockHeld:
			return OSError
		case errors.ErrCodeIntegrityFailure, errors.ErrCodeBadManifest:
			return DataError
		case errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidOption:
			return Config
		}
	}

	return General
}
