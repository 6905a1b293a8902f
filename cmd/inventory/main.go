package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/JonMunkholm/inventory/internal/application"
	"github.com/JonMunkholm/inventory/internal/config"
	"github.com/JonMunkholm/inventory/internal/core"
	"github.com/JonMunkholm/inventory/internal/logging"
	"github.com/JonMunkholm/inventory/internal/store"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		slog.Error("inventory stopped", "error", err)
		fmt.Fprintln(os.Stderr, "inventory:", core.FormatUserError(err))
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if it exists (Overload overwrites existing env vars)
	envErr := godotenv.Overload()

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// Setup structured logging based on config. The terminal belongs to the
	// menu, so logs go to a file unless LOG_FILE is "-".
	logs := logging.Setup(logging.Options{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		File:       cfg.Logging.LogFile(),
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	defer logs.Close()

	if envErr != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}
	slog.Debug("configuration loaded", "config", cfg.String())

	ctx := context.Background()

	// Open the durable store; it is created if absent and never truncated
	s, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}()
	slog.Info("store opened", "driver", cfg.Store.Driver, "path", storePath(cfg.Store))

	service := core.NewService(s, cfg)

	// Seed import: a bad record aborts startup, a missing file only if required
	result, err := service.ImportSeed(ctx, cfg.Seed.Path)
	switch {
	case errors.Is(err, core.ErrSeedMissing) && !cfg.Seed.Required:
		slog.Warn("seed file not found, starting with stored products", "path", cfg.Seed.Path)
	case err != nil:
		return fmt.Errorf("import seed: %w", err)
	default:
		slog.Info("seed imported", "file", result.FileName, "created", result.Created, "updated", result.Updated)
	}

	model := application.NewModel(service, cfg.Store.Driver+" "+storePath(cfg.Store))
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("run session: %w", err)
	}

	slog.Info("session ended")
	return nil
}

// storePath describes the store location without credentials.
func storePath(cfg config.StoreConfig) string {
	if cfg.Driver == config.DriverPostgres {
		return "(postgres)"
	}
	return cfg.Path
}
