package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"shareit/internal/config"
	"shareit/internal/database"
	"shareit/internal/logging"
)

// backup takes one snapshot of the configured database and applies retention.
// It is meant for cron or a one-off maintenance job.
func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	base, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}
	logger := logging.Component(base, "backup")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := database.NewBackupService(cfg.Database.Path, cfg.Backup, logger)
	path, err := svc.PerformBackup(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("backup failed")
		return err
	}

	removed, err := svc.CleanupOldBackups()
	if err != nil {
		logger.Warn().Err(err).Msg("backup cleanup failed")
	}
	logger.Info().Str("path", path).Int("removed", removed).Msg("backup finished")
	return nil
}
