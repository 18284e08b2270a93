// Package system executes external actions on behalf of the restore
// sequence. Every call site declares its failure policy explicitly:
// Fatal results must stop the whole run, Warn results are logged and
// the run continues.
package system

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/enes-ismaili/wazuh-restore/internal/config"
	"github.com/enes-ismaili/wazuh-restore/internal/errors"
	"github.com/enes-ismaili/wazuh-restore/internal/logger"
)

// Policy classifies what a non-zero result means at a call site
type Policy int

const (
	// Fatal - failure aborts the entire run
	Fatal Policy = iota
	// Warn - failure is logged and the run continues
	Warn
)

func (p Policy) String() string {
	if p == Warn {
		return "warn"
	}
	return "fatal"
}

// Status is the outcome class of a single action
type Status int

const (
	StatusOK Status = iota
	StatusDryRun
	StatusFailed
	StatusWarned
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusDryRun:
		return "dry-run"
	case StatusFailed:
		return "failed"
	case StatusWarned:
		return "warned"
	default:
		return "unknown"
	}
}

// ActionResult records the outcome of one action for the run log and
// the final outcome summary
type ActionResult struct {
	Desc    string
	Command string
	Status  Status
	Output  string
	Policy  Policy
	Err     error
}

// Runner executes commands and in-process actions with dry-run support
type Runner struct {
	cfg *config.Config
	log logger.Logger

	// exec is swappable for tests; defaults to real process execution
	exec func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewRunner creates a command runner
func NewRunner(cfg *config.Config, log logger.Logger) *Runner {
	return &Runner{
		cfg: cfg,
		log: log,
		exec: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).CombinedOutput()
		},
	}
}

// SetExec replaces process execution (tests stub at this boundary)
func (r *Runner) SetExec(fn func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	r.exec = fn
}

// Command runs an external command under the given policy. In dry-run
// mode the command line is logged and reported as StatusDryRun without
// any side effect.
func (r *Runner) Command(ctx context.Context, policy Policy, desc, name string, args ...string) ActionResult {
	cmdline := name
	if len(args) > 0 {
		cmdline += " " + strings.Join(args, " ")
	}
	res := ActionResult{Desc: desc, Command: cmdline, Policy: policy}

	if r.cfg.DryRun {
		r.log.Info("[DRY-RUN] would run: "+cmdline, "action", desc)
		res.Status = StatusDryRun
		return res
	}

	r.log.Debug("Running command", "action", desc, "command", cmdline)

	out, err := r.exec(ctx, name, args...)
	res.Output = strings.TrimSpace(string(out))
	if err == nil {
		res.Status = StatusOK
		return res
	}

	return r.failed(res, err)
}

// Do runs an in-process action under the same dry-run and policy
// semantics as Command. Used for native steps (extraction, cleanup)
// that do not shell out.
func (r *Runner) Do(ctx context.Context, policy Policy, desc string, fn func(ctx context.Context) error) ActionResult {
	res := ActionResult{Desc: desc, Command: desc, Policy: policy}

	if r.cfg.DryRun {
		r.log.Info("[DRY-RUN] would run: "+desc, "action", desc)
		res.Status = StatusDryRun
		return res
	}

	if err := fn(ctx); err != nil {
		return r.failed(res, err)
	}

	res.Status = StatusOK
	return res
}

// failed classifies a non-zero result per the call-site policy
func (r *Runner) failed(res ActionResult, err error) ActionResult {
	res.Err = err
	if res.Policy == Warn {
		res.Status = StatusWarned
		r.log.Warn("Action failed (continuing)", "action", res.Desc, "error", err, "output", res.Output)
		return res
	}

	res.Status = StatusFailed
	r.log.Error("Action failed", "action", res.Desc, "error", err, "output", res.Output)
	res.Err = errors.NewEnvError(errors.ErrCodeCommandFailed,
		fmt.Sprintf("%s failed", res.Desc), "check the run log for the command output").
		WithDetails(fmt.Sprintf("Command: %s\nError: %v", res.Command, err)).
		WithCause(err)
	return res
}

// Fatal reports whether the result must abort the run
func (res ActionResult) Fatal() bool {
	return res.Status == StatusFailed && res.Policy == Fatal
}
