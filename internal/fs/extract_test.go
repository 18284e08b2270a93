package fs

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"
)

// writeTarGz builds a small tar.gz archive for extraction tests
func writeTarGz(t *testing.T, path string, entries map[string]string) {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	for name, content := range entries {
		hdr := &tar.Header{
			Name: name,
			Mode: 0o644,
			Size: int64(len(content)),
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("WriteHeader: %v", err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	if err := tw.Close(); err != nil {
		t.Fatalf("tar close: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestExtractTarGz(t *testing.T) {
	tmpDir := t.TempDir()
	archive := filepath.Join(tmpDir, "test.tar.gz")
	dest := filepath.Join(tmpDir, "out")

	writeTarGz(t, archive, map[string]string{
		"etc/wazuh-indexer/opensearch.yml": "cluster.name: wazuh",
		"etc/wazuh-indexer/jvm.options":    "-Xms1g",
	})

	count, err := ExtractTarGz(context.Background(), archive, dest)
	if err != nil {
		t.Fatalf("ExtractTarGz failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 entries extracted, got %d", count)
	}

	data, err := os.ReadFile(filepath.Join(dest, "etc/wazuh-indexer/opensearch.yml"))
	if err != nil {
		t.Fatalf("Extracted file missing: %v", err)
	}
	if string(data) != "cluster.name: wazuh" {
		t.Errorf("Extracted content mismatch: %q", data)
	}
}

func TestExtractTarGz_PathTraversal(t *testing.T) {
	tmpDir := t.TempDir()
	archive := filepath.Join(tmpDir, "evil.tar.gz")
	dest := filepath.Join(tmpDir, "out")

	writeTarGz(t, archive, map[string]string{
		"../../escape.txt": "outside",
	})

	if _, err := ExtractTarGz(context.Background(), archive, dest); err == nil {
		t.Fatal("Expected path traversal error, got nil")
	}

	if _, err := os.Stat(filepath.Join(tmpDir, "escape.txt")); !os.IsNotExist(err) {
		t.Error("Traversal file was written outside destination")
	}
}

func TestExtractTarGz_MissingArchive(t *testing.T) {
	if _, err := ExtractTarGz(context.Background(), "/nonexistent/a.tar.gz", t.TempDir()); err == nil {
		t.Fatal("Expected error for missing archive")
	}
}

func TestExtractTarGz_NotGzip(t *testing.T) {
	tmpDir := t.TempDir()
	bogus := filepath.Join(tmpDir, "bogus.tar.gz")
	if err := os.WriteFile(bogus, []byte("plain text, not gzip"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := ExtractTarGz(context.Background(), bogus, tmpDir); err == nil {
		t.Fatal("Expected error for non-gzip input")
	}
}

func TestExtractTarGz_Cancelled(t *testing.T) {
	tmpDir := t.TempDir()
	archive := filepath.Join(tmpDir, "test.tar.gz")
	writeTarGz(t, archive, map[string]string{"a.txt": "a"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := ExtractTarGz(ctx, archive, filepath.Join(tmpDir, "out")); err == nil {
		t.Fatal("Expected context cancellation error")
	}
}

func TestWithinDir(t *testing.T) {
	tests := []struct {
		path, dest string
		want       bool
	}{
		{"/var/lib/wazuh-indexer/nodes", "/var/lib/wazuh-indexer", true},
		{"/var/lib/wazuh-indexerX", "/var/lib/wazuh-indexer", false},
		{"/var/lib/wazuh-indexer", "/var/lib/wazuh-indexer", true},
		{"/etc/passwd", "/", true},
		{"/outside", "/inside", false},
	}
	for _, tt := range tests {
		if got := withinDir(tt.path, tt.dest); got != tt.want {
			t.Errorf("withinDir(%q, %q) = %v, want %v", tt.path, tt.dest, got, tt.want)
		}
	}
}
