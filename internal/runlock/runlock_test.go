package runlock

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/enes-ismaili/wazuh-restore/internal/errors"
	"github.com/enes-ismaili/wazuh-restore/internal/logger"
)

func TestAcquireRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restore.lock")

	lock, err := Acquire(path, logger.NewNullLogger())
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if lock.Path() != path {
		t.Errorf("Unexpected lock path %s", lock.Path())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Lock file missing: %v", err)
	}
	if want := fmt.Sprintf("%d\n", os.Getpid()); string(data) != want {
		t.Errorf("Lock content %q, want %q", data, want)
	}

	lock.Release()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Release did not remove the lock file")
	}

	// Release again is a no-op
	lock.Release()
}

func TestAcquire_HeldByLiveProcess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restore.lock")

	// Our own pid is alive, so the lock reads as held
	if err := os.WriteFile(path, []byte(fmt.Sprintf("%d\n", os.Getpid())), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Acquire(path, logger.NewNullLogger())
	if err == nil {
		t.Fatal("Expected lock-held error")
	}
	var re *errors.RestoreError
	if !stderrors.As(err, &re) || re.Code != errors.ErrCodeLockHeld {
		t.Errorf("Expected ErrCodeLockHeld, got %v", err)
	}
}

func TestAcquire_StaleTakeover(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restore.lock")

	// Use an unlikely-to-exist pid far beyond pid_max defaults
	if err := os.WriteFile(path, []byte("999999999\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	lock, err := Acquire(path, logger.NewNullLogger())
	if err != nil {
		t.Fatalf("Expected stale lock takeover, got %v", err)
	}
	defer lock.Release()
}

func TestAcquire_GarbageLockFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restore.lock")
	if err := os.WriteFile(path, []byte("not a pid"), 0o644); err != nil {
		t.Fatal(err)
	}

	lock, err := Acquire(path, logger.NewNullLogger())
	if err != nil {
		t.Fatalf("Unreadable lock must be taken over, got %v", err)
	}
	defer lock.Release()
}

func TestRelease_NilLock(t *testing.T) {
	var lock *Lock
	lock.Release() // must not panic
}
