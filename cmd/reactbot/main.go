// cmd/reactbot/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"reactbot/internal/config"
	"reactbot/internal/discord"
	"reactbot/internal/logging"
	"reactbot/internal/metrics"
	"reactbot/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "reactbot:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, logCloser, err := logging.New(logging.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	})
	if err != nil {
		return err
	}
	defer logCloser.Close()

	if !cfg.EnvFileLoaded {
		log.Info().Msg("No .env file found, using process environment")
	}
	log.Info().Str("storage", cfg.StoragePath).Msg("Starting reactbot")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.New(cfg.StoragePath, storage.Options{
		BackupCount: cfg.StorageBackups,
		Logger:      log,
	})
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	seeded, err := store.SeedUsers(cfg.BootstrapUserIDs)
	if err != nil {
		return fmt.Errorf("seed command users: %w", err)
	}
	if seeded > 0 {
		log.Info().Int("users", seeded).Msg("Seeded command users from BOOTSTRAP_USER_IDS")
	}
	if len(store.Roster().Users) == 0 {
		log.Warn().Msg("No command users configured; commands are disabled until one is added with rosterctl or BOOTSTRAP_USER_IDS")
	}

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr, log); err != nil {
				log.Error().Err(err).Msg("Metrics listener failed")
			}
		}()
	}

	bot := discord.New(cfg, store, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- bot.Run(ctx)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("Shutting down")
		cancel()
		err = <-errCh
	case err = <-errCh:
		cancel()
	}

	if err != nil {
		log.Error().Err(err).Msg("Discord bot error")
		return err
	}
	log.Info().Msg("Discord bot exited cleanly")
	return nil
}
