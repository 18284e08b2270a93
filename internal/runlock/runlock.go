// Package runlock keeps two restore runs from interleaving on one host.
// The lock is a pidfile created with O_EXCL; a lock whose recorded pid is
// no longer alive is considered stale and taken over.
package runlock

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/enes-ismaili/wazuh-restore/internal/errors"
	"github.com/enes-ismaili/wazuh-restore/internal/logger"
)

// Lock is a held run lock
type Lock struct {
	path string
	log  logger.Logger
}

// Acquire takes the run lock or fails with ErrCodeLockHeld if another
// live process holds it
func Acquire(path string, log logger.Logger) (*Lock, error) {
	for attempt := 0; attempt < 2; attempt++ {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			fmt.Fprintf(file, "%d\n", os.Getpid())
			if cerr := file.Close(); cerr != nil {
				os.Remove(path)
				return nil, cerr
			}
			return &Lock{path: path, log: log}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("cannot create lock file: %w", err)
		}

		pid, readErr := readPid(path)
		if readErr == nil && pidAlive(pid) {
			return nil, errors.NewEnvError(errors.ErrCodeLockHeld,
				"another restore is already running",
				"wait for it to finish, or remove the lock file if it is stale").
				WithDetails(fmt.Sprintf("Lock: %s\nPid: %d", path, pid))
		}

		// Stale or unreadable lock: take it over once
		log.Warn("Removing stale run lock", "path", path, "pid", pid)
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			return nil, fmt.Errorf("cannot remove stale lock: %w", rmErr)
		}
	}

	return nil, errors.NewEnvError(errors.ErrCodeLockHeld,
		"another restore is already running", "retry in a moment")
}

// Release removes the lock file. Safe to call on all exit paths.
func (l *Lock) Release() {
	if l == nil {
		return
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		l.log.Warn("Cannot remove run lock", "path", l.path, "error", err)
	}
}

// Path returns the lock file location
func (l *Lock) Path() string {
	return l.path
}

func readPid(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

// pidAlive probes the pid with signal 0
func pidAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}
