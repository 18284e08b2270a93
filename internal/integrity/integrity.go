// Package integrity verifies a backup set against its checksum manifest
// before any destructive action runs.
package integrity

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"

	"github.com/enes-ismaili/wazuh-restore/internal/errors"
	"github.com/enes-ismaili/wazuh-restore/internal/logger"
)

// ManifestName is the fixed manifest file name inside the backup directory.
// Lines are sha256sum format: "<hex-digest>  <relative-filename>".
const ManifestName = "backup_checksums.sha256"

// Entry is one manifest line
type Entry struct {
	Digest string
	Name   string
}

// Verifier recomputes and compares manifest checksums
type Verifier struct {
	fs  afero.Fs
	log logger.Logger
}

// New creates a verifier over the real filesystem
func New(log logger.Logger) *Verifier {
	return NewWithFs(afero.NewOsFs(), log)
}

// NewWithFs creates a verifier over an arbitrary filesystem
func NewWithFs(fs afero.Fs, log logger.Logger) *Verifier {
	return &Verifier{fs: fs, log: log}
}

// Verify checks every file listed in the backup directory's manifest.
// A missing manifest succeeds with a warning and verified=false: the
// capture side treats the manifest as optional, and blocking restore on
// its absence would trade availability for a guarantee the backup never
// promised. Any mismatch or listed-but-missing file is an
// IntegrityFailure.
func (v *Verifier) Verify(ctx context.Context, sourceDir string) (bool, error) {
	manifestPath := filepath.Join(sourceDir, ManifestName)

	entries, err := v.readManifest(manifestPath)
	if os.IsNotExist(err) {
		v.log.Warn("No checksum manifest found, integrity unverified", "path", manifestPath)
		return false, nil
	}
	if err != nil {
		return false, errors.NewDataError(errors.ErrCodeBadManifest,
			"cannot read checksum manifest", "regenerate the manifest on the capture side").
			WithCause(err)
	}

	v.log.Info("Verifying backup integrity", "manifest", manifestPath, "files", len(entries))

	var merr *multierror.Error
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		default:
		}

		path := filepath.Join(sourceDir, entry.Name)
		digest, err := v.fileDigest(ctx, path)
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", entry.Name, err))
			continue
		}
		if !strings.EqualFold(digest, entry.Digest) {
			merr = multierror.Append(merr, fmt.Errorf("%s: checksum mismatch", entry.Name))
			continue
		}
		v.log.Debug("Checksum OK", "file", entry.Name)
	}

	if err := merr.ErrorOrNil(); err != nil {
		return false, errors.IntegrityFailure(sourceDir, err)
	}

	v.log.Info("Backup integrity verified", "files", len(entries))
	return true, nil
}

// readManifest parses sha256sum-format lines. Blank lines and comments
// are skipped; a '*' binary-mode marker before the name is tolerated.
func (v *Verifier) readManifest(path string) ([]Entry, error) {
	file, err := v.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("malformed manifest line %d: %q", lineNo, line)
		}

		digest := fields[0]
		if len(digest) != sha256.Size*2 {
			return nil, fmt.Errorf("malformed digest on manifest line %d", lineNo)
		}
		if _, err := hex.DecodeString(digest); err != nil {
			return nil, fmt.Errorf("malformed digest on manifest line %d: %w", lineNo, err)
		}

		name := strings.TrimPrefix(strings.Join(fields[1:], " "), "*")
		if filepath.IsAbs(name) || strings.Contains(name, "..") {
			return nil, fmt.Errorf("manifest line %d escapes the backup directory: %q", lineNo, name)
		}

		entries = append(entries, Entry{Digest: digest, Name: name})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// fileDigest computes the sha256 of a file in chunks with context checks
func (v *Verifier) fileDigest(ctx context.Context, path string) (string, error) {
	file, err := v.fs.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	buf := make([]byte, 256*1024)
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		n, err := file.Read(buf)
		if n > 0 {
			hash.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}
