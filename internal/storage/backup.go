// ABOUTME: Database backup by timestamped file copy.
// ABOUTME: Checkpoints the WAL first so the copy is self-contained.
package storage

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Backup copies the database file next to itself with a timestamped
// suffix and returns the backup path.
func (d *DB) Backup() (string, error) {
	// Fold WAL contents into the main file before copying.
	if _, err := d.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return "", fmt.Errorf("checkpoint: %w", err)
	}

	dst := fmt.Sprintf("%s.backup-%s", d.dbPath, time.Now().Format("20060102-150405"))

	src, err := os.Open(d.dbPath)
	if err != nil {
		return "", fmt.Errorf("open database for backup: %w", err)
	}
	defer src.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return "", fmt.Errorf("create backup file: %w", err)
	}

	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("copy database: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close backup file: %w", err)
	}

	return dst, nil
}
