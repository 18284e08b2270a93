package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/enes-ismaili/wazuh-restore/internal/config"
	"github.com/enes-ismaili/wazuh-restore/internal/logger"
	"github.com/enes-ismaili/wazuh-restore/internal/system"
)

func TestUnits_RestoreOrder(t *testing.T) {
	units := Units()
	want := []string{"wazuh-indexer", "wazuh-dashboard", "wazuh-manager"}
	if len(units) != len(want) {
		t.Fatalf("Expected %d units, got %d", len(want), len(units))
	}
	for i, u := range want {
		if units[i] != u {
			t.Errorf("Unit %d: expected %s, got %s", i, u, units[i])
		}
	}
}

func TestManager_CommandLines(t *testing.T) {
	var commands []string
	runner := system.NewRunner(&config.Config{}, logger.NewNullLogger())
	runner.SetExec(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		commands = append(commands, name+" "+strings.Join(args, " "))
		return nil, nil
	})

	m := NewManager(runner)
	ctx := context.Background()

	m.Stop(ctx, UnitIndexer, system.Warn)
	m.Start(ctx, UnitManager, system.Warn)
	m.DaemonReload(ctx, system.Warn)
	m.IsActive(ctx, UnitDashboard)

	want := []string{
		"systemctl stop wazuh-indexer",
		"systemctl start wazuh-manager",
		"systemctl daemon-reload",
		"systemctl is-active --quiet wazuh-dashboard",
	}
	if len(commands) != len(want) {
		t.Fatalf("Expected %d commands, got %d: %v", len(want), len(commands), commands)
	}
	for i, w := range want {
		if commands[i] != w {
			t.Errorf("Command %d: expected %q, got %q", i, w, commands[i])
		}
	}
}

func TestIsActive(t *testing.T) {
	runner := system.NewRunner(&config.Config{}, logger.NewNullLogger())
	m := NewManager(runner)
	ctx := context.Background()

	runner.SetExec(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, nil
	})
	if active, _ := m.IsActive(ctx, UnitIndexer); !active {
		t.Error("Expected active for zero exit")
	}

	runner.SetExec(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, fmt.Errorf("exit status 3")
	})
	active, res := m.IsActive(ctx, UnitIndexer)
	if active {
		t.Error("Expected inactive for non-zero exit")
	}
	if res.Fatal() {
		t.Error("State probe must never be fatal")
	}
}

func TestIsActive_DryRun(t *testing.T) {
	runner := system.NewRunner(&config.Config{DryRun: true}, logger.NewNullLogger())
	m := NewManager(runner)

	// Dry-run never executes the probe and must not report inactive
	if active, res := m.IsActive(context.Background(), UnitManager); !active || res.Status != system.StatusDryRun {
		t.Errorf("Dry-run probe: active=%v status=%v", active, res.Status)
	}
}
