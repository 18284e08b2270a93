package cmd

import (
	"context"
	stderrors "errors"

	"github.com/spf13/cobra"

	"github.com/enes-ismaili/wazuh-restore/internal/config"
	"github.com/enes-ismaili/wazuh-restore/internal/logger"
)

var (
	cfg *config.Config
	log logger.Logger
)

// Persistent flags shared by all commands
var (
	flagNoColor bool
	flagDebug   bool
)

var rootCmd = &cobra.Command{
	Use:   "wazuh-restore",
	Short: "Restore a single-node Wazuh deployment from a backup archive set",
	Long: `wazuh-restore brings a single-host Wazuh deployment (indexer,
dashboard, manager) back to the state captured in a backup directory.

The backup directory holds gzip-compressed tarballs produced on the same
host, plus an optional backup_checksums.sha256 manifest. The restore
stops each service, empties its data directory, extracts the archives,
restores ownership and restarts the service, then verifies the services
came back up.

Restoring overwrites live configuration and data. Run with --dry-run
first to preview every action without touching the host.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.ArbitraryArgs,
	// A bare backup directory is shorthand for the restore subcommand
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		if err := backupDirArg(cmd, args); err != nil {
			return err
		}
		return runRestore(cmd, args)
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagNoColor {
			cfg.NoColor = true
			logger.DisableColors()
		}
		if flagDebug {
			cfg.Debug = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})
}

// UsageError marks command line misuse so the caller can exit with the
// conventional code 2 instead of a generic failure.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

// IsUsage reports whether err came from bad command line input
func IsUsage(err error) bool {
	var ue *UsageError
	return stderrors.As(err, &ue)
}

// backupDirArg validates the single positional backup-directory argument
func backupDirArg(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return &UsageError{Err: err}
	}
	return nil
}

// Execute runs the root command with the given configuration and logger
func Execute(ctx context.Context, c *config.Config, l logger.Logger) error {
	cfg = c
	log = l
	rootCmd.Version = c.Version
	return rootCmd.ExecuteContext(ctx)
}
