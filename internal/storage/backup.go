package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

const (
	// BackupSuffix is the file extension for backup files
	BackupSuffix = ".bak"
	// MaxBackupCount is the maximum number of backup files to keep
	MaxBackupCount = 3
)

// BackupPath returns the path of backup n for the database at dbPath.
// Lower numbers are more recent: .bak.1 is the newest backup.
func BackupPath(dbPath string, n int) string {
	return fmt.Sprintf("%s%s.%d", dbPath, BackupSuffix, n)
}

// rotateBackups shifts .bak.1 -> .bak.2 -> .bak.3 and drops the oldest.
// Missing files are skipped.
func rotateBackups(dbPath string) error {
	if err := os.Remove(BackupPath(dbPath, MaxBackupCount)); err != nil && !os.IsNotExist(err) {
		return err
	}
	for i := MaxBackupCount - 1; i >= 1; i-- {
		if err := os.Rename(BackupPath(dbPath, i), BackupPath(dbPath, i+1)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Backup writes a consistent snapshot of the database to .bak.1 after
// rotating older backups. It returns the path written.
func (d *DB) Backup(ctx context.Context) (string, error) {
	if err := rotateBackups(d.path); err != nil {
		return "", fmt.Errorf("failed to rotate backups: %w", err)
	}
	dest := BackupPath(d.path, 1)
	if _, err := d.conn.ExecContext(ctx, `VACUUM INTO ?`, dest); err != nil {
		return "", fmt.Errorf("failed to write backup %s: %w", dest, err)
	}
	return dest, nil
}

// BackupInfo describes one backup file.
type BackupInfo struct {
	Number  int       // The backup number (1, 2, or 3)
	Path    string    // The full path to the backup file
	Size    int64     // Size in bytes
	ModTime time.Time // Last modification time
}

// ListBackups returns the existing backups of dbPath, newest first.
func ListBackups(dbPath string) ([]BackupInfo, error) {
	var backups []BackupInfo
	for i := 1; i <= MaxBackupCount; i++ {
		path := BackupPath(dbPath, i)
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		backups = append(backups, BackupInfo{Number: i, Path: path, Size: info.Size(), ModTime: info.ModTime()})
	}
	return backups, nil
}

// RestoreBackup replaces the database file at dbPath with backup n. The
// database must not be open. Stale WAL files are removed so SQLite does not
// replay them over the restored copy.
func RestoreBackup(dbPath string, n int) error {
	if n < 1 || n > MaxBackupCount {
		return fmt.Errorf("invalid backup number %d, must be between 1 and %d", n, MaxBackupCount)
	}
	src := BackupPath(dbPath, n)
	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("backup %d: %w", n, ErrNotFound)
		}
		return err
	}

	if err := copyFile(src, dbPath); err != nil {
		return fmt.Errorf("failed to restore backup %d: %w", n, err)
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(dbPath + suffix); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
