package cmd

import (
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/enes-ismaili/wazuh-restore/internal/integrity"
	"github.com/enes-ismaili/wazuh-restore/internal/restore"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [backup-directory]",
	Short: "Verify a backup directory without touching the host",
	Long: `Check a backup directory before committing to a restore.

Lists which of the expected Wazuh archives are present, and when the
directory carries a backup_checksums.sha256 manifest, recomputes the
SHA-256 digest of every listed file and compares it against the
manifest. Nothing on the host is read or modified outside the backup
directory.

Examples:
  wazuh-restore verify /backups/wazuh-2026-08-30`,
	Args: backupDirArg,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg.BackupDir = args[0]
	if err := cfg.Validate(); err != nil {
		return err
	}

	log.Info("Checking backup set", "dir", cfg.BackupDir)

	present := 0
	for _, name := range restore.ArchiveNames() {
		stat, err := os.Stat(filepath.Join(cfg.BackupDir, name))
		if err != nil {
			log.Warn("Archive not in backup set", "archive", name)
			continue
		}
		log.Info("Archive present", "archive", name, "size", humanize.Bytes(uint64(stat.Size())))
		present++
	}
	if present == 0 {
		log.Warn("No Wazuh archives found in the backup directory")
	}

	verified, err := integrity.New(log).Verify(cmd.Context(), cfg.BackupDir)
	if err != nil {
		return err
	}
	if !verified {
		log.Warn("No checksum manifest found, archive contents were not verified",
			"manifest", integrity.ManifestName)
		return nil
	}
	log.Info("All manifest checksums match")
	return nil
}
