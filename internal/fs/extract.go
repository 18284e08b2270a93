// Package fs provides native tar.gz extraction using pgzip
package fs

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/klauspost/pgzip"
)

// ExtractTarGz extracts a tar.gz archive using parallel gzip decompression.
// Entry modes and ownership are restored from the archive headers: the
// archives carry previously-captured system trees, so the bits in the tar
// are authoritative (ownership restore is best-effort and only attempted
// when running as root; the per-component chown pass covers the rest).
func ExtractTarGz(ctx context.Context, archivePath, destDir string) (int, error) {
	file, err := os.Open(archivePath)
	if err != nil {
		return 0, fmt.Errorf("cannot open archive: %w", err)
	}
	defer file.Close()

	// Parallel gzip reader, one block lane per core
	gzReader, err := pgzip.NewReaderN(file, 1<<20, runtime.NumCPU())
	if err != nil {
		return 0, fmt.Errorf("cannot create gzip reader: %w", err)
	}
	defer gzReader.Close()

	tarReader := tar.NewReader(gzReader)
	canChown := os.Geteuid() == 0

	var filesCount int
	for {
		select {
		case <-ctx.Done():
			return filesCount, ctx.Err()
		default:
		}

		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return filesCount, fmt.Errorf("error reading tar: %w", err)
		}

		// Security: prevent path traversal
		targetPath := filepath.Join(destDir, header.Name)
		if !withinDir(targetPath, destDir) {
			return filesCount, fmt.Errorf("path traversal detected: %s", header.Name)
		}

		mode := header.FileInfo().Mode()

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(targetPath, mode.Perm()); err != nil {
				return filesCount, fmt.Errorf("cannot create directory %s: %w", targetPath, err)
			}

		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
				return filesCount, fmt.Errorf("cannot create parent directory: %w", err)
			}

			outFile, err := os.OpenFile(targetPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
			if err != nil {
				return filesCount, fmt.Errorf("cannot create file %s: %w", targetPath, err)
			}

			_, err = io.Copy(outFile, tarReader)
			closeErr := outFile.Close()
			if err != nil {
				return filesCount, fmt.Errorf("error writing %s: %w", targetPath, err)
			}
			if closeErr != nil {
				return filesCount, fmt.Errorf("error closing %s: %w", targetPath, closeErr)
			}

		case tar.TypeSymlink:
			// Validate the link target stays inside destDir, skip otherwise
			linkTarget := header.Linkname
			absTarget := linkTarget
			if !filepath.IsAbs(linkTarget) {
				absTarget = filepath.Join(filepath.Dir(targetPath), linkTarget)
			}
			if !withinDir(absTarget, destDir) {
				continue
			}
			os.Remove(targetPath)
			if err := os.Symlink(linkTarget, targetPath); err != nil {
				continue
			}

		default:
			// Skip other types (devices, fifos, etc.)
			continue
		}

		if canChown && header.Typeflag != tar.TypeSymlink {
			// Best effort: the uid/gid in the archive may not exist yet on
			// a fresh install; the FixOwnership step repairs that case.
			_ = os.Chown(targetPath, header.Uid, header.Gid)
		}

		filesCount++
	}

	return filesCount, nil
}

// withinDir reports whether path is destDir or lexically inside it
func withinDir(path, destDir string) bool {
	cleanDest := filepath.Clean(destDir)
	cleanPath := filepath.Clean(path)
	if cleanPath == cleanDest {
		return true
	}
	if cleanDest == string(os.PathSeparator) {
		return strings.HasPrefix(cleanPath, cleanDest)
	}
	return strings.HasPrefix(cleanPath, cleanDest+string(os.PathSeparator))
}
