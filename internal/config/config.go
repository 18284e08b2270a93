package config

import (
	"os"
	"path/filepath"
)

// Config holds all configuration options
type Config struct {
	// Version information
	Version   string
	BuildTime string
	GitCommit string

	// Restore options
	BackupDir  string // source directory with archives + optional manifest
	Force      bool   // skip the interactive confirmation prompt
	DryRun     bool   // log intended actions without executing them
	SkipHealth bool   // skip post-restore health checks
	PortProbe  bool   // probe the indexer port during health checks

	// Logging
	LogDir    string
	LogLevel  string
	LogFormat string
	NoColor   bool
	Debug     bool

	// Run lock
	LockFile string
}

// New creates a configuration with defaults and environment overrides
func New() *Config {
	cfg := &Config{
		LogDir:    getEnvOrDefault("WAZUH_RESTORE_LOG_DIR", "/var/log/wazuh-restore"),
		LogLevel:  getEnvOrDefault("WAZUH_RESTORE_LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("WAZUH_RESTORE_LOG_FORMAT", "text"),
		LockFile:  getEnvOrDefault("WAZUH_RESTORE_LOCK_FILE", "/var/run/wazuh-restore.lock"),
		PortProbe: true,
	}
	return cfg
}

// Validate normalizes and checks configuration after flag parsing.
// The backup directory itself is verified by the preflight checks; here we
// only make the path absolute so every later comparison and log line agrees.
func (c *Config) Validate() error {
	if c.BackupDir != "" {
		abs, err := filepath.Abs(c.BackupDir)
		if err != nil {
			return err
		}
		c.BackupDir = abs
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
