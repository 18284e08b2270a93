package restore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/enes-ismaili/wazuh-restore/internal/config"
	"github.com/enes-ismaili/wazuh-restore/internal/fs"
	"github.com/enes-ismaili/wazuh-restore/internal/logger"
	"github.com/enes-ismaili/wazuh-restore/internal/safeclean"
	"github.com/enes-ismaili/wazuh-restore/internal/service"
	"github.com/enes-ismaili/wazuh-restore/internal/system"
)

// Restorer drives the shared stop/clean/extract/chown/start sequence
// for one component at a time
type Restorer struct {
	cfg     *config.Config
	log     logger.Logger
	runner  *system.Runner
	svc     *service.Manager
	cleaner *safeclean.Cleaner

	// extract is swappable for tests; defaults to native tar.gz extraction
	extract func(ctx context.Context, archive, dest string) (int, error)
}

// NewRestorer creates a component restorer
func NewRestorer(cfg *config.Config, log logger.Logger, runner *system.Runner, cleaner *safeclean.Cleaner) *Restorer {
	return &Restorer{
		cfg:     cfg,
		log:     log,
		runner:  runner,
		svc:     service.NewManager(runner),
		cleaner: cleaner,
		extract: fs.ExtractTarGz,
	}
}

// SetExtract replaces archive extraction (tests stub at this boundary)
func (r *Restorer) SetExtract(fn func(ctx context.Context, archive, dest string) (int, error)) {
	r.extract = fn
}

// Restore runs the sequence for one component. A fatal step returns its
// error and the caller must terminate the run; warned steps are recorded
// in the outcome and the sequence advances. No step is retried.
//
// Stop, ownership and start failures are warned: the restore should make
// maximal progress even when a unit's init integration is unusual on
// this host. Cleanup and extraction of a present archive are fatal: a
// half-extracted data directory must not be silently committed. A
// missing archive only means this backup set did not include that piece.
func (r *Restorer) Restore(ctx context.Context, spec ComponentSpec, out *Outcome) error {
	op := r.log.StartOperation(spec.Name)
	op.Update("starting restore", "unit", spec.Unit)

	warned := false
	record := func(res system.ActionResult) {
		out.RecordAction(res)
		if res.Status == system.StatusWarned {
			warned = true
		}
	}

	record(r.svc.Stop(ctx, spec.Unit, system.Warn))

	restored := 0
	for _, task := range spec.Tasks {
		archivePath := filepath.Join(r.cfg.BackupDir, task.Archive)

		stat, err := os.Stat(archivePath)
		if err != nil {
			r.log.Warn("Archive missing, skipping", "component", spec.Name, "archive", task.Archive)
			out.AddWarning(fmt.Errorf("%s: archive %s not in backup set", spec.Name, task.Archive))
			warned = true
			continue
		}

		if task.CleanFirst && spec.CleanupTarget != "" {
			res := r.runner.Do(ctx, system.Fatal, "empty "+spec.CleanupTarget, func(ctx context.Context) error {
				return r.cleaner.Clean(spec.CleanupTarget)
			})
			record(res)
			if res.Fatal() {
				out.SetComponent(spec.Name, StateFailed)
				op.Fail("cleanup failed", "target", spec.CleanupTarget)
				return res.Err
			}
		}

		desc := fmt.Sprintf("extract %s to %s", task.Archive, task.Dest)
		r.log.Info("Restoring archive", "component", spec.Name,
			"archive", task.Archive, "size", humanize.Bytes(uint64(stat.Size())))

		res := r.runner.Do(ctx, system.Fatal, desc, func(ctx context.Context) error {
			n, err := r.extract(ctx, archivePath, task.Dest)
			if err != nil {
				return err
			}
			r.log.Debug("Archive extracted", "archive", task.Archive, "entries", n)
			return nil
		})
		record(res)
		if res.Fatal() {
			out.SetComponent(spec.Name, StateFailed)
			op.Fail("extraction failed", "archive", task.Archive)
			return res.Err
		}
		restored++
	}

	for _, path := range spec.OwnerPaths {
		record(r.runner.Command(ctx, system.Warn, "fix ownership of "+path,
			"chown", "-R", spec.Owner, path))
	}

	record(r.svc.Start(ctx, spec.Unit, system.Warn))

	state := StateSucceeded
	switch {
	case restored == 0:
		state = StateSkipped
	case warned:
		state = StatePartial
	}
	out.SetComponent(spec.Name, state)

	op.Complete("restore finished", "archives", restored, "state", state.String())
	return nil
}
