// wazuh-restore — single-host restore orchestrator for Wazuh.
// Stops the services, restores the backup archives, restarts, and
// checks the deployment came back up.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/enes-ismaili/wazuh-restore/cmd"
	"github.com/enes-ismaili/wazuh-restore/internal/config"
	"github.com/enes-ismaili/wazuh-restore/internal/exitcode"
	"github.com/enes-ismaili/wazuh-restore/internal/logger"
)

// Build information (set by ldflags)
var (
	version   = "1.0.0"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize configuration
	cfg := config.New()

	// Set version information
	cfg.Version = version
	cfg.BuildTime = buildTime
	cfg.GitCommit = gitCommit

	// Initialize logger — promote to debug level when requested via env
	logLevel := cfg.LogLevel
	if cfg.Debug && logLevel != "debug" {
		logLevel = "debug"
	}
	log := logger.New(logLevel, cfg.LogFormat)

	// Execute command
	if err := cmd.Execute(ctx, cfg, log); err != nil {
		switch {
		case cmd.IsUsage(err):
			logger.Error("%v", err)
			logger.Dim("Run 'wazuh-restore --help' for usage")
			os.Exit(exitcode.UsageError)
		case errors.Is(err, context.Canceled) || ctx.Err() != nil:
			log.Warn("Interrupted, restore may be incomplete")
			os.Exit(exitcode.Cancelled)
		default:
			log.Error("Restore failed", "error", err)
			os.Exit(exitcode.FromError(err))
		}
	}
}
