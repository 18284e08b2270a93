// Package service controls the managed systemd units through the
// command runner, so stop/start honor dry-run and per-call policies.
package service

import (
	"context"

	"github.com/enes-ismaili/wazuh-restore/internal/system"
)

// Units of the three managed components, in restore order
const (
	UnitIndexer   = "wazuh-indexer"
	UnitDashboard = "wazuh-dashboard"
	UnitManager   = "wazuh-manager"
)

// Units returns the managed unit names in restore order
func Units() []string {
	return []string{UnitIndexer, UnitDashboard, UnitManager}
}

// Manager wraps systemctl invocations
type Manager struct {
	runner *system.Runner
}

// NewManager creates a service manager on top of the runner
func NewManager(runner *system.Runner) *Manager {
	return &Manager{runner: runner}
}

// Stop stops a unit. Policy is chosen by the caller: during restore a
// stop failure is warned because the unit may already be stopped.
func (m *Manager) Stop(ctx context.Context, unit string, policy system.Policy) system.ActionResult {
	return m.runner.Command(ctx, policy, "stop "+unit, "systemctl", "stop", unit)
}

// Start starts a unit
func (m *Manager) Start(ctx context.Context, unit string, policy system.Policy) system.ActionResult {
	return m.runner.Command(ctx, policy, "start "+unit, "systemctl", "start", unit)
}

// DaemonReload reloads systemd unit definitions after config extraction
func (m *Manager) DaemonReload(ctx context.Context, policy system.Policy) system.ActionResult {
	return m.runner.Command(ctx, policy, "reload systemd units", "systemctl", "daemon-reload")
}

// IsActive reports whether a unit is in active state. systemctl is-active
// exits non-zero for every state except active, so the runner result maps
// directly. Always queried under Warn: state probes never abort the run.
func (m *Manager) IsActive(ctx context.Context, unit string) (bool, system.ActionResult) {
	res := m.runner.Command(ctx, system.Warn, "query "+unit+" state", "systemctl", "is-active", "--quiet", unit)
	return res.Status == system.StatusOK || res.Status == system.StatusDryRun, res
}
