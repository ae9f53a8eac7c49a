package database

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"shareit/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupService(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "source.db")
	storagePath := filepath.Join(tempDir, "backups")

	logger := zerolog.Nop()
	src, err := NewDB(dbPath, &logger)
	require.NoError(t, err)
	createTestUser(t, src, "ann")
	require.NoError(t, src.Close())

	cfg := config.BackupConfig{StoragePath: storagePath, RetentionDays: 1}
	s := NewBackupService(dbPath, cfg, &logger)

	var backupPath string
	t.Run("PerformBackup", func(t *testing.T) {
		backupPath, err = s.PerformBackup(context.Background())
		require.NoError(t, err)
		assert.FileExists(t, backupPath)

		copyDB, err := sql.Open("sqlite3", backupPath)
		require.NoError(t, err)
		defer copyDB.Close()
		var count int
		require.NoError(t, copyDB.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("CleanupOldBackups", func(t *testing.T) {
		oldFile := filepath.Join(storagePath, backupPrefix+"old.db")
		require.NoError(t, os.WriteFile(oldFile, []byte("old"), 0o644))
		oldTime := time.Now().AddDate(0, 0, -2)
		require.NoError(t, os.Chtimes(oldFile, oldTime, oldTime))

		foreign := filepath.Join(storagePath, "keep.txt")
		require.NoError(t, os.WriteFile(foreign, []byte("keep"), 0o644))
		require.NoError(t, os.Chtimes(foreign, oldTime, oldTime))

		removed, err := s.CleanupOldBackups()
		require.NoError(t, err)
		assert.Equal(t, 1, removed)
		assert.NoFileExists(t, oldFile)
		assert.FileExists(t, foreign)
		assert.FileExists(t, backupPath)
	})
}

func TestBackupService_NoRetention(t *testing.T) {
	logger := zerolog.Nop()
	s := NewBackupService("any", config.BackupConfig{StoragePath: t.TempDir()}, &logger)

	removed, err := s.CleanupOldBackups()
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestBackupService_MissingStorage(t *testing.T) {
	logger := zerolog.Nop()
	cfg := config.BackupConfig{StoragePath: filepath.Join(t.TempDir(), "missing"), RetentionDays: 3}
	s := NewBackupService("any", cfg, &logger)

	_, err := s.CleanupOldBackups()
	assert.Error(t, err)
}

func TestBackupService_Run(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "source.db")
	storagePath := filepath.Join(tempDir, "backups")

	logger := zerolog.Nop()
	src, err := NewDB(dbPath, &logger)
	require.NoError(t, err)
	require.NoError(t, src.Close())

	require.NoError(t, os.MkdirAll(storagePath, 0o755))
	stale := filepath.Join(storagePath, backupPrefix+"stale.db")
	require.NoError(t, os.WriteFile(stale, []byte("stale"), 0o644))
	oldTime := time.Now().AddDate(0, 0, -10)
	require.NoError(t, os.Chtimes(stale, oldTime, oldTime))

	s := NewBackupService(dbPath, config.BackupConfig{StoragePath: storagePath, RetentionDays: 7}, &logger)
	require.NoError(t, s.Run(context.Background()))

	entries, err := os.ReadDir(storagePath)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotEqual(t, filepath.Base(stale), entries[0].Name())
}
