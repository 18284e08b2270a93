package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/enes-ismaili/wazuh-restore/internal/logger"
	"github.com/enes-ismaili/wazuh-restore/internal/orchestrator"
	"github.com/enes-ismaili/wazuh-restore/internal/runlock"
)

var (
	restoreForce       bool
	restoreDryRun      bool
	restoreSkipHealth  bool
	restoreNoPortProbe bool
)

var restoreCmd = &cobra.Command{
	Use:   "restore [backup-directory]",
	Short: "Stop Wazuh services, restore the backup archives, and restart",
	Long: `Restore all three Wazuh components from the archives in the given
backup directory.

The run is sequential and deliberate: indexer first, then dashboard,
then manager. For each component the service is stopped, its data
directory is emptied (only well-known Wazuh data directories are ever
touched), the archives are extracted over the filesystem root, ownership
is restored and the service is started again.

Archives missing from the backup set are skipped with a warning, so a
partial backup restores whatever it contains. If the directory holds a
backup_checksums.sha256 manifest, every listed archive is verified
before any service is touched; a mismatch aborts the run.

The restore asks for confirmation before doing anything destructive.
Answer with the exact word "yes", or pass --force for unattended runs.

Examples:
  # Preview what a restore would do
  wazuh-restore restore /backups/wazuh-2026-08-30 --dry-run

  # Interactive restore
  wazuh-restore restore /backups/wazuh-2026-08-30

  # Unattended restore, skip the post-restore health checks
  wazuh-restore restore /backups/wazuh-2026-08-30 --force --skip-health`,
	Args: backupDirArg,
	RunE: runRestore,
}

func init() {
	rootCmd.AddCommand(restoreCmd)

	// The same flags register on the root command so the shorthand
	// `wazuh-restore <backup-dir>` accepts them too
	for _, flags := range []*pflag.FlagSet{restoreCmd.Flags(), rootCmd.Flags()} {
		flags.BoolVar(&restoreForce, "force", false, "Skip the interactive confirmation prompt")
		flags.BoolVar(&restoreDryRun, "dry-run", false, "Log every intended action without executing anything")
		flags.BoolVar(&restoreSkipHealth, "skip-health", false, "Skip the post-restore health checks")
		flags.BoolVar(&restoreNoPortProbe, "no-port-probe", false, "Do not probe the indexer port during health checks")
	}
}

func runRestore(cmd *cobra.Command, args []string) error {
	cfg.BackupDir = args[0]
	cfg.Force = restoreForce
	cfg.DryRun = restoreDryRun
	cfg.SkipHealth = restoreSkipHealth
	if restoreNoPortProbe {
		cfg.PortProbe = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	runLog := log

	// A real run keeps a plain-text transcript on disk and holds the
	// host-wide lock. A dry run leaves no trace at all.
	if !cfg.DryRun {
		level := cfg.LogLevel
		if cfg.Debug {
			level = "debug"
		}
		sessionLog, session, err := logger.NewSession(level, cfg.LogFormat, cfg.LogDir)
		if err != nil {
			log.Warn("Session log unavailable, continuing with console output only", "error", err)
		} else {
			defer session.Close()
			runLog = sessionLog
			runLog.Info("Session log opened", "path", session.Path())
		}

		lock, err := runlock.Acquire(cfg.LockFile, runLog)
		if err != nil {
			return err
		}
		defer lock.Release()
	}

	orch := orchestrator.New(cfg, runLog)
	out, err := orch.Run(cmd.Context())
	out.Summary(runLog)
	if err != nil {
		return err
	}

	if out.Declined {
		logger.Info("Restore aborted, nothing was changed")
		return nil
	}
	if cfg.DryRun {
		logger.Success("Dry run complete, no changes were made")
		return nil
	}
	if out.WarningCount() > 0 {
		logger.Warning("Restore finished with %d warning(s), review the log", out.WarningCount())
		return nil
	}
	logger.Success("Restore complete")
	return nil
}
