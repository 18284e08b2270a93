package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Session is a timestamped append-only run log. Every entry emitted through
// the session logger is mirrored into the file without color escapes, so the
// file stays grep-able after the run.
type Session struct {
	path string

	mu     sync.Mutex
	file   *os.File
	closed bool
}

// NewSession creates a logger that writes to stdout and tees every entry
// into a new run log under dir. The caller must Close the session on every
// exit path.
func NewSession(level, format, dir string) (Logger, *Session, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
	}

	name := fmt.Sprintf("wazuh-restore-%s.log", time.Now().Format("20060102-150405"))
	path := filepath.Join(dir, name)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open run log: %w", err)
	}

	sess := &Session{path: path, file: file}

	log := newLogger(level, format, os.Stdout)
	if l, ok := log.(*logger); ok {
		l.logrus.AddHook(&fileHook{session: sess})
	}

	return log, sess, nil
}

// Path returns the run log file path
func (s *Session) Path() string {
	return s.path
}

// Write appends raw bytes to the run log. Used to capture combined command
// output alongside the structured entries.
func (s *Session) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return len(p), nil
	}
	return s.file.Write(p)
}

// Close flushes and closes the run log. Safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.file.Sync(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

// fileHook mirrors log entries into the session file in plain text
type fileHook struct {
	session *Session
}

func (h *fileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *fileHook) Fire(entry *logrus.Entry) error {
	line := fmt.Sprintf("%s %s %s", entry.Time.Format("2006-01-02T15:04:05"),
		plainLevel(entry.Level), entry.Message)
	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		line += fmt.Sprintf(" %s=%v", k, entry.Data[k])
	}
	_, err := h.session.Write([]byte(line + "\n"))
	return err
}

func plainLevel(level logrus.Level) string {
	switch level {
	case logrus.DebugLevel:
		return "DEBUG"
	case logrus.WarnLevel:
		return "WARN "
	case logrus.ErrorLevel:
		return "ERROR"
	default:
		return "INFO "
	}
}
