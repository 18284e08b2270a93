package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNew_Levels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus"} {
		log := New(level, "text")
		if log == nil {
			t.Fatalf("New(%q) returned nil", level)
		}
		// Must not panic at any level
		log.Debug("debug message", "k", "v")
		log.Info("info message")
		log.Warn("warn message")
		log.Error("error message")
	}
}

func TestFieldsFromArgs(t *testing.T) {
	fields := fieldsFromArgs("key", "value", "count", 3)
	if fields["key"] != "value" {
		t.Errorf("Expected key=value, got %v", fields["key"])
	}
	if fields["count"] != 3 {
		t.Errorf("Expected count=3, got %v", fields["count"])
	}

	if fieldsFromArgs() != nil {
		t.Error("Expected nil fields for no args")
	}

	// Odd trailing arg gets a positional key rather than being dropped
	fields = fieldsFromArgs("dangling")
	if len(fields) != 1 {
		t.Errorf("Expected 1 field for dangling arg, got %d", len(fields))
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30.0s"},
		{90 * time.Second, "1m 30s"},
		{3725 * time.Second, "1h 2m 5s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, tt.want, got)
		}
	}
}

func TestNewSession_WritesFile(t *testing.T) {
	dir := t.TempDir()

	log, sess, err := NewSession("info", "text", dir)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	log.Info("restore starting", "backup", "/backups/latest")
	log.Warn("archive missing", "archive", "wazuh_indexer_data.tar.gz")

	if err := sess.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(sess.Path())
	if err != nil {
		t.Fatalf("Cannot read run log: %v", err)
	}
	content := string(data)

	if !strings.Contains(content, "restore starting") {
		t.Error("Run log missing info entry")
	}
	if !strings.Contains(content, "archive missing") {
		t.Error("Run log missing warn entry")
	}
	if strings.Contains(content, "\x1b[") {
		t.Error("Run log contains ANSI escapes")
	}
	if filepath.Dir(sess.Path()) != dir {
		t.Errorf("Run log created outside log dir: %s", sess.Path())
	}
}

func TestSession_FieldOrderIsStable(t *testing.T) {
	dir := t.TempDir()

	log, sess, err := NewSession("info", "text", dir)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	log.Info("restoring archive",
		"unit", "wazuh-indexer",
		"archive", "wazuh_indexer_data.tar.gz",
		"component", "indexer")

	if err := sess.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(sess.Path())
	if err != nil {
		t.Fatalf("Cannot read run log: %v", err)
	}
	content := string(data)

	// Fields are sorted by key, same as the console formatter
	archive := strings.Index(content, "archive=")
	component := strings.Index(content, "component=")
	unit := strings.Index(content, "unit=")
	if archive < 0 || component < 0 || unit < 0 {
		t.Fatalf("Run log missing fields: %q", content)
	}
	if !(archive < component && component < unit) {
		t.Errorf("Fields not in sorted key order: %q", content)
	}
}

func TestSession_CloseTwice(t *testing.T) {
	dir := t.TempDir()
	_, sess, err := NewSession("info", "text", dir)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	if err := sess.Close(); err != nil {
		t.Fatalf("First close failed: %v", err)
	}
	if err := sess.Close(); err != nil {
		t.Fatalf("Second close should be a no-op: %v", err)
	}
}

func TestNullLogger(t *testing.T) {
	log := NewNullLogger()
	log.Info("ignored")
	log.WithField("k", "v").Warn("ignored")
	op := log.StartOperation("test")
	op.Update("ignored")
	op.Complete("ignored")
	op.Fail("ignored")
}
