// Package orchestrator sequences a full restore run: prechecks,
// confirmation, integrity verification, the three component restores,
// and the post-restore health checks.
//
// Everything runs on a single logical thread in a fixed order. The
// components share the host's init system and data directories, so
// nothing here is concurrent on purpose. There are no transactional
// semantics: a fatal failure mid-extraction can leave an already-cleaned
// data directory empty, and re-running after fixing the cause is the
// documented recovery path.
package orchestrator

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/enes-ismaili/wazuh-restore/internal/checks"
	"github.com/enes-ismaili/wazuh-restore/internal/config"
	"github.com/enes-ismaili/wazuh-restore/internal/health"
	"github.com/enes-ismaili/wazuh-restore/internal/integrity"
	"github.com/enes-ismaili/wazuh-restore/internal/logger"
	"github.com/enes-ismaili/wazuh-restore/internal/restore"
	"github.com/enes-ismaili/wazuh-restore/internal/safeclean"
	"github.com/enes-ismaili/wazuh-restore/internal/service"
	"github.com/enes-ismaili/wazuh-restore/internal/system"
)

// ConfirmToken is the only input that lets an unforced restore proceed
const ConfirmToken = "yes"

// Orchestrator drives one restore run end to end
type Orchestrator struct {
	cfg *config.Config
	log logger.Logger

	runner     *system.Runner
	svc        *service.Manager
	restorer   *restore.Restorer
	verifier   *integrity.Verifier
	checker    *health.Checker
	components []restore.ComponentSpec

	preflight func(ctx context.Context, destRoots []string) (*checks.PreflightResult, error)

	in  io.Reader
	out io.Writer
}

// New wires an orchestrator over the real host
func New(cfg *config.Config, log logger.Logger) *Orchestrator {
	runner := system.NewRunner(cfg, log)
	pf := checks.NewPreflightChecker(cfg, log)

	return &Orchestrator{
		cfg:        cfg,
		log:        log,
		runner:     runner,
		svc:        service.NewManager(runner),
		restorer:   restore.NewRestorer(cfg, log, runner, safeclean.New(log)),
		verifier:   integrity.New(log),
		checker:    health.NewChecker(cfg, log, runner),
		components: restore.Components(),
		preflight:  pf.Run,
		in:         os.Stdin,
		out:        os.Stdout,
	}
}

// Runner exposes the shared command runner (tests stub its exec)
func (o *Orchestrator) Runner() *system.Runner {
	return o.runner
}

// SetRestorer replaces the component restorer
func (o *Orchestrator) SetRestorer(r *restore.Restorer) {
	o.restorer = r
}

// SetComponents replaces the fixed component table
func (o *Orchestrator) SetComponents(specs []restore.ComponentSpec) {
	o.components = specs
}

// SetPreflight replaces the preflight gate
func (o *Orchestrator) SetPreflight(fn func(ctx context.Context, destRoots []string) (*checks.PreflightResult, error)) {
	o.preflight = fn
}

// SetPrompt redirects the confirmation prompt (tests script stdin)
func (o *Orchestrator) SetPrompt(in io.Reader, out io.Writer) {
	o.in = in
	o.out = out
}

// Run executes the full sequence. A nil error with outcome.Declined set
// means the operator answered no: that is a clean exit, not a failure.
// A non-nil error is fatal and maps to a non-zero exit code.
func (o *Orchestrator) Run(ctx context.Context) (*restore.Outcome, error) {
	out := restore.NewOutcome(o.cfg.DryRun)

	if o.cfg.DryRun {
		o.log.Info("Dry-run mode: no service, file or ownership changes will be made")
	}

	if _, err := o.preflight(ctx, o.destRoots()); err != nil {
		return out, err
	}

	if !o.confirmed(ctx) {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		out.Declined = true
		return out, nil
	}

	if o.cfg.DryRun {
		// Plan preview only: verification is logged, never executed, and
		// never blocks the preview
		o.log.Info("[DRY-RUN] would verify backup integrity", "dir", o.cfg.BackupDir)
		out.VerifySkipped = true
	} else {
		verified, err := o.verifier.Verify(ctx, o.cfg.BackupDir)
		if err != nil {
			return out, err
		}
		out.Verified = verified
		out.ManifestMissing = !verified
	}

	for _, spec := range o.components {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if err := o.restorer.Restore(ctx, spec, out); err != nil {
			return out, err
		}
	}

	// Config archives land under /etc; pick up any unit file changes
	// before asking systemd about service state
	out.RecordAction(o.svc.DaemonReload(ctx, system.Warn))

	res := o.checker.Check(ctx, o.cfg.SkipHealth)
	out.HealthSkipped = res.Skipped
	out.HealthChecked = !res.Skipped
	out.HealthAllActive = res.AllActive

	return out, nil
}

// confirmed gates the destructive run on an interactive prompt. Forced
// and dry-run invocations skip it. The read happens in a goroutine so
// an interrupt while waiting aborts immediately instead of leaving the
// process wedged on stdin; nothing has been changed yet at this point.
func (o *Orchestrator) confirmed(ctx context.Context) bool {
	if o.cfg.Force || o.cfg.DryRun {
		return true
	}

	fmt.Fprintf(o.out, "\nThis will overwrite Wazuh configuration and data on this host from:\n  %s\n\n", o.cfg.BackupDir)
	fmt.Fprintf(o.out, "Type %q to continue: ", ConfirmToken)

	answers := make(chan string, 1)
	go func() {
		scanner := bufio.NewScanner(o.in)
		if !scanner.Scan() {
			answers <- ""
			return
		}
		answers <- strings.TrimSpace(scanner.Text())
	}()

	select {
	case <-ctx.Done():
		o.log.Warn("Interrupted while waiting for confirmation, aborting")
		return false
	case answer := <-answers:
		if answer != ConfirmToken {
			o.log.Info("Restore not confirmed, aborting", "answer", answer)
			return false
		}
		return true
	}
}

// destRoots collects the unique extraction destinations for the
// preflight free-space check
func (o *Orchestrator) destRoots() []string {
	seen := make(map[string]bool)
	var roots []string
	for _, spec := range o.components {
		for _, task := range spec.Tasks {
			if !seen[task.Dest] {
				seen[task.Dest] = true
				roots = append(roots, task.Dest)
			}
		}
	}
	return roots
}
