// Package safeclean empties directories ahead of archive extraction.
//
// Deletion is gated on a compiled-in allow-list: a target must be one of
// the allowed directories, or a path-separator-bounded descendant of one,
// or nothing is removed and the run aborts. The descendant check is
// purely lexical; symlinks are not resolved, so a symlink inside an
// allowed directory that points elsewhere still passes the gate. That is
// a known limitation, accepted because the allow-list entries are fixed
// system paths owned by the packages being restored.
package safeclean

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/enes-ismaili/wazuh-restore/internal/errors"
	"github.com/enes-ismaili/wazuh-restore/internal/logger"
)

// AllowedTargets are the only directories this tool is permitted to empty
var AllowedTargets = []string{
	"/var/lib/wazuh-indexer",
	"/var/lib/wazuh-dashboard",
	"/var/ossec/queue",
}

// Cleaner removes the contents of allow-listed directories
type Cleaner struct {
	fs      afero.Fs
	log     logger.Logger
	allowed []string
}

// New creates a cleaner over the real filesystem with the fixed allow-list
func New(log logger.Logger) *Cleaner {
	return NewWithFs(afero.NewOsFs(), log, AllowedTargets)
}

// NewWithFs creates a cleaner over an arbitrary filesystem and allow-list
// (tests use an in-memory filesystem and temp-dir allow-lists)
func NewWithFs(fs afero.Fs, log logger.Logger, allowed []string) *Cleaner {
	return &Cleaner{fs: fs, log: log, allowed: allowed}
}

// Clean removes every direct child of path but never path itself.
// A missing path is a warning, not an error: absence of prior data is a
// valid state to restore into. A path outside the allow-list is a fatal
// policy violation and nothing is removed.
func (c *Cleaner) Clean(path string) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("cannot resolve cleanup target: %w", err)
	}

	if !Permitted(target, c.allowed) {
		return errors.PolicyViolation(target, c.allowed)
	}

	info, err := c.fs.Stat(target)
	if os.IsNotExist(err) {
		c.log.Warn("Cleanup target does not exist, skipping", "path", target)
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot stat cleanup target: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cleanup target is not a directory: %s", target)
	}

	entries, err := afero.ReadDir(c.fs, target)
	if err != nil {
		return fmt.Errorf("cannot read cleanup target: %w", err)
	}

	for _, entry := range entries {
		child := filepath.Join(target, entry.Name())
		if err := c.fs.RemoveAll(child); err != nil {
			return fmt.Errorf("cannot remove %s: %w", child, err)
		}
	}

	c.log.Info("Emptied directory", "path", target, "removed", len(entries))
	return nil
}

// Permitted reports whether target equals, or is a separator-bounded
// descendant of, an allow-list entry. Both sides are normalized to
// absolute cleaned form so /var/ossecX never matches /var/ossec.
func Permitted(target string, allowed []string) bool {
	cleanTarget := filepath.Clean(target)
	for _, dir := range allowed {
		cleanDir := filepath.Clean(dir)
		if cleanTarget == cleanDir {
			return true
		}
		if strings.HasPrefix(cleanTarget, cleanDir+string(os.PathSeparator)) {
			return true
		}
	}
	return false
}
