package safeclean

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"github.com/enes-ismaili/wazuh-restore/internal/errors"
	"github.com/enes-ismaili/wazuh-restore/internal/logger"
)

func TestPermitted(t *testing.T) {
	allowed := []string{"/var/lib/wazuh-indexer", "/var/ossec/queue"}

	tests := []struct {
		target string
		want   bool
	}{
		{"/var/lib/wazuh-indexer", true},
		{"/var/lib/wazuh-indexer/nodes", true},
		{"/var/lib/wazuh-indexer/nodes/0", true},
		{"/var/lib/wazuh-indexerX", false},
		{"/var/lib/wazuh-indexe", false},
		{"/var/ossec/queue", true},
		{"/var/ossec/queue/db", true},
		{"/var/ossec", false},
		{"/var/ossec/etc", false},
		{"/etc", false},
		{"/", false},
		{"/var/lib/wazuh-indexer/../wazuh-dashboard", false},
	}

	for _, tt := range tests {
		if got := Permitted(tt.target, allowed); got != tt.want {
			t.Errorf("Permitted(%q) = %v, want %v", tt.target, got, tt.want)
		}
	}
}

func TestClean_OutsideAllowList(t *testing.T) {
	memFs := afero.NewMemMapFs()
	if err := memFs.MkdirAll("/etc/wazuh", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(memFs, "/etc/wazuh/keep.conf", []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := NewWithFs(memFs, logger.NewNullLogger(), []string{"/var/lib/wazuh-indexer"})
	err := c.Clean("/etc/wazuh")

	if err == nil {
		t.Fatal("Expected policy violation, got nil")
	}
	if !errors.IsPolicyViolation(err) {
		t.Errorf("Expected PolicyViolation, got %v", err)
	}

	// Nothing may be deleted on a policy violation
	if exists, _ := afero.Exists(memFs, "/etc/wazuh/keep.conf"); !exists {
		t.Error("Policy violation still deleted files")
	}
}

func TestClean_PrefixLookalike(t *testing.T) {
	memFs := afero.NewMemMapFs()
	if err := memFs.MkdirAll("/var/lib/wazuh-indexerX", 0o755); err != nil {
		t.Fatal(err)
	}

	c := NewWithFs(memFs, logger.NewNullLogger(), []string{"/var/lib/wazuh-indexer"})
	if err := c.Clean("/var/lib/wazuh-indexerX"); !errors.IsPolicyViolation(err) {
		t.Errorf("Lookalike prefix must be rejected, got %v", err)
	}
}

func TestClean_EmptiesButKeepsDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "data")

	if err := os.MkdirAll(filepath.Join(target, "nodes", "0"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(target, "state.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(target, "state.json"), filepath.Join(target, "link")); err != nil {
		t.Fatal(err)
	}

	before, err := os.Stat(target)
	if err != nil {
		t.Fatal(err)
	}

	c := NewWithFs(afero.NewOsFs(), logger.NewNullLogger(), []string{target})
	if err := c.Clean(target); err != nil {
		t.Fatalf("Clean failed: %v", err)
	}

	entries, err := os.ReadDir(target)
	if err != nil {
		t.Fatalf("Target directory was removed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty directory, found %d entries", len(entries))
	}

	after, err := os.Stat(target)
	if err != nil {
		t.Fatal(err)
	}
	if !os.SameFile(before, after) {
		t.Error("Target directory identity changed")
	}
}

func TestClean_MissingTargetIsNoop(t *testing.T) {
	tmpDir := t.TempDir()
	missing := filepath.Join(tmpDir, "never-created")

	c := NewWithFs(afero.NewOsFs(), logger.NewNullLogger(), []string{missing})
	if err := c.Clean(missing); err != nil {
		t.Errorf("Missing target must be a warning no-op, got %v", err)
	}
}

func TestClean_DescendantOfAllowedEntry(t *testing.T) {
	tmpDir := t.TempDir()
	child := filepath.Join(tmpDir, "queue", "db")
	if err := os.MkdirAll(child, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(child, "agents.db"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := NewWithFs(afero.NewOsFs(), logger.NewNullLogger(), []string{tmpDir})
	if err := c.Clean(child); err != nil {
		t.Fatalf("Descendant of allowed entry must be cleanable: %v", err)
	}

	entries, _ := os.ReadDir(child)
	if len(entries) != 0 {
		t.Error("Descendant directory was not emptied")
	}
}

func TestClean_TargetIsFile(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := NewWithFs(afero.NewOsFs(), logger.NewNullLogger(), []string{tmpDir})
	if err := c.Clean(file); err == nil {
		t.Error("Cleaning a regular file must fail")
	}
}
