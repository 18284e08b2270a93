package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/enes-ismaili/wazuh-restore/internal/errors"
	"github.com/enes-ismaili/wazuh-restore/internal/health"
	"github.com/enes-ismaili/wazuh-restore/internal/logger"
	"github.com/enes-ismaili/wazuh-restore/internal/system"
)

var healthNoPortProbe bool

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the Wazuh services are running",
	Long: `Ask the init system about each Wazuh unit and probe the indexer
port. The same checks run automatically at the end of a restore; this
command runs them standalone.

Exit codes for automation:
  0  = all services active
  69 = one or more services not active

Examples:
  wazuh-restore health
  wazuh-restore health --no-port-probe`,
	RunE: runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)

	healthCmd.Flags().BoolVar(&healthNoPortProbe, "no-port-probe", false, "Do not probe the indexer port")
}

func runHealth(cmd *cobra.Command, args []string) error {
	if healthNoPortProbe {
		cfg.PortProbe = false
	}

	runner := system.NewRunner(cfg, log)
	checker := health.NewChecker(cfg, log, runner)
	res := checker.Check(cmd.Context(), false)

	logger.Header("Wazuh service health")
	for _, svc := range res.Services {
		state := "active"
		if !svc.Active {
			state = "not active"
		}
		logger.StatusLine(svc.Unit, state)
	}
	if res.PortProbed {
		state := "not listening"
		if res.PortListening {
			state = "listening"
		}
		logger.StatusLine(fmt.Sprintf("indexer port %d", health.IndexerPort), state)
	}

	if !res.AllActive {
		return errors.NewEnvError(errors.ErrCodeServiceDown,
			"one or more Wazuh services are not active",
			"Inspect the unit with 'systemctl status <unit>' and 'journalctl -u <unit>'")
	}
	logger.Success("All Wazuh services are active")
	return nil
}
