package storage

import (
	"context"
	"errors"
	"testing"
)

func TestBackupRotation(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for i := 0; i < MaxBackupCount+1; i++ {
		path, err := db.Backup(ctx)
		if err != nil {
			t.Fatalf("Backup() #%d error = %v", i+1, err)
		}
		if want := BackupPath(db.Path(), 1); path != want {
			t.Errorf("Backup() path = %s, want %s", path, want)
		}
	}

	backups, err := ListBackups(db.Path())
	if err != nil {
		t.Fatalf("ListBackups() error = %v", err)
	}
	if len(backups) != MaxBackupCount {
		t.Fatalf("ListBackups() = %d backups, want %d", len(backups), MaxBackupCount)
	}
	for i, b := range backups {
		if b.Number != i+1 {
			t.Errorf("backups[%d].Number = %d, want %d", i, b.Number, i+1)
		}
		if b.Size == 0 {
			t.Errorf("backups[%d] is empty", i)
		}
	}
}

func TestRestoreBackup(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	seedTask(t, db, nil)

	if _, err := db.Backup(ctx); err != nil {
		t.Fatalf("Backup() error = %v", err)
	}
	seedTask(t, db, nil)

	path := db.Path()
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := RestoreBackup(path, 1); err != nil {
		t.Fatalf("RestoreBackup() error = %v", err)
	}

	restored, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open() after restore error = %v", err)
	}
	defer func() { _ = restored.Close() }()

	tasks, err := restored.ListTasks(ctx, TaskFilter{})
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if len(tasks) != 1 {
		t.Errorf("restored tasks = %d, want 1", len(tasks))
	}
}

func TestRestoreBackupErrors(t *testing.T) {
	path := t.TempDir() + "/tally.db"
	if err := RestoreBackup(path, 0); err == nil {
		t.Error("RestoreBackup(0) error = nil, want error")
	}
	if err := RestoreBackup(path, 2); !errors.Is(err, ErrNotFound) {
		t.Errorf("RestoreBackup() missing error = %v, want ErrNotFound", err)
	}
}
