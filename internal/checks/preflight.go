// Package checks runs the preflight gate before any destructive action
package checks

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/disk"

	"github.com/enes-ismaili/wazuh-restore/internal/config"
	"github.com/enes-ismaili/wazuh-restore/internal/errors"
	"github.com/enes-ismaili/wazuh-restore/internal/logger"
	"github.com/enes-ismaili/wazuh-restore/internal/tools"
)

// PreflightCheck represents a single preflight check result
type PreflightCheck struct {
	Name    string
	Status  CheckStatus
	Message string
}

// CheckStatus represents the status of a preflight check
type CheckStatus int

const (
	StatusPassed CheckStatus = iota
	StatusWarning
	StatusFailed
	StatusSkipped
)

func (s CheckStatus) String() string {
	switch s {
	case StatusPassed:
		return "PASSED"
	case StatusWarning:
		return "WARNING"
	case StatusFailed:
		return "FAILED"
	case StatusSkipped:
		return "SKIPPED"
	default:
		return "UNKNOWN"
	}
}

// PreflightResult contains all preflight check results
type PreflightResult struct {
	Checks       []PreflightCheck
	FailureCount int
	WarningCount int
}

// minFreeBytes is the free-space floor below which a destination root
// draws a warning. Extraction sizes are unknown before gunzip, so this
// stays advisory.
const minFreeBytes = 1 << 30

// PreflightChecker performs environment checks before a restore
type PreflightChecker struct {
	cfg *config.Config
	log logger.Logger

	validator *tools.Validator

	// seams for tests
	euid      func() int
	diskUsage func(path string) (*disk.UsageStat, error)
}

// NewPreflightChecker creates a preflight checker
func NewPreflightChecker(cfg *config.Config, log logger.Logger) *PreflightChecker {
	return &PreflightChecker{
		cfg:       cfg,
		log:       log,
		validator: tools.NewValidator(log),
		euid:      os.Geteuid,
		diskUsage: disk.Usage,
	}
}

// Run gates the restore. A fatal error means no confirmation is shown
// and nothing else happens; warnings are advisory.
func (p *PreflightChecker) Run(ctx context.Context, destRoots []string) (*PreflightResult, error) {
	result := &PreflightResult{}

	add := func(c PreflightCheck) {
		result.Checks = append(result.Checks, c)
		switch c.Status {
		case StatusFailed:
			result.FailureCount++
			p.log.Error("Preflight check failed", "check", c.Name, "message", c.Message)
		case StatusWarning:
			result.WarningCount++
			p.log.Warn("Preflight warning", "check", c.Name, "message", c.Message)
		default:
			p.log.Debug("Preflight check", "check", c.Name, "status", c.Status.String())
		}
	}

	// Elevated privilege: extraction writes system trees and chowns them
	root := PreflightCheck{Name: "root privilege"}
	if p.euid() == 0 {
		root.Status = StatusPassed
	} else {
		root.Status = StatusFailed
		root.Message = "restore must run as root"
	}
	add(root)
	if root.Status == StatusFailed {
		return result, errors.NewEnvError(errors.ErrCodeNotRoot,
			"restore must run as root", "re-run with sudo")
	}

	// Backup source directory
	src := PreflightCheck{Name: "backup source"}
	info, err := os.Stat(p.cfg.BackupDir)
	switch {
	case err != nil:
		src.Status = StatusFailed
		src.Message = fmt.Sprintf("backup directory not accessible: %v", err)
	case !info.IsDir():
		src.Status = StatusFailed
		src.Message = "backup path is not a directory"
	default:
		src.Status = StatusPassed
	}
	add(src)
	if src.Status == StatusFailed {
		return result, errors.NewEnvError(errors.ErrCodeBackupMissing,
			"backup source directory not found", "check the backup path argument").
			WithDetails("Path: " + p.cfg.BackupDir)
	}

	// Required external tools
	statuses, toolErr := p.validator.Validate(tools.Restore())
	for _, st := range statuses {
		check := PreflightCheck{Name: st.Name + " available"}
		if st.Available {
			check.Status = StatusPassed
		} else {
			check.Status = StatusFailed
			check.Message = st.Name + " not found in PATH"
		}
		add(check)
	}
	if toolErr != nil {
		return result, errors.NewEnvError(errors.ErrCodeToolMissing,
			toolErr.Error(), "this tool requires a systemd host")
	}

	// Free space on destination roots, advisory only
	seen := make(map[string]bool)
	for _, dest := range destRoots {
		if seen[dest] {
			continue
		}
		seen[dest] = true

		check := PreflightCheck{Name: "free space on " + dest}
		usage, err := p.diskUsage(dest)
		switch {
		case err != nil:
			check.Status = StatusSkipped
			check.Message = fmt.Sprintf("cannot stat filesystem: %v", err)
		case usage.Free < minFreeBytes:
			check.Status = StatusWarning
			check.Message = fmt.Sprintf("only %s free", humanize.Bytes(usage.Free))
		default:
			check.Status = StatusPassed
		}
		add(check)
	}

	return result, nil
}
