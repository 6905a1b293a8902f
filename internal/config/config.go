// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import "time"

// Store drivers accepted by STORE_DRIVER.
const (
	DriverBolt     = "bolt"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Store   StoreConfig
	Seed    SeedConfig
	Backup  BackupConfig
	Logging LoggingConfig
}

// StoreConfig holds durable store settings.
type StoreConfig struct {
	// Driver selects the backend: bolt, sqlite or postgres (default: bolt)
	Driver string `env:"STORE_DRIVER" default:"bolt"`

	// Path is the database file for the bolt and sqlite drivers (default: inventory.db)
	Path string `env:"STORE_PATH" default:"inventory.db"`

	// URL is the PostgreSQL connection string (required for the postgres driver)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of postgres connections (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// OpenTimeout bounds waiting for the bolt file lock or the first postgres connection (default: 5s)
	OpenTimeout time.Duration `env:"STORE_OPEN_TIMEOUT" default:"5s"`

	// OpTimeout bounds a single store operation (default: 10s)
	OpTimeout time.Duration `env:"STORE_OP_TIMEOUT" default:"10s"`
}

// SeedConfig holds startup import settings.
type SeedConfig struct {
	// Path is the CSV seed file imported at startup (default: inventory.csv)
	Path string `env:"SEED_PATH" default:"inventory.csv"`

	// Required makes a missing seed file a startup error (default: false)
	Required bool `env:"SEED_REQUIRED" default:"false"`

	// Timeout is the maximum duration of the seed import (default: 1m)
	Timeout time.Duration `env:"IMPORT_TIMEOUT" default:"1m"`
}

// BackupConfig holds export settings.
type BackupConfig struct {
	// Path is the backup CSV written by the backup command (default: Inventory_Backup.csv)
	Path string `env:"BACKUP_PATH" default:"Inventory_Backup.csv"`

	// Timeout is the maximum duration of a backup (default: 30s)
	Timeout time.Duration `env:"BACKUP_TIMEOUT" default:"30s"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`

	// File is the log file; "-" logs to stderr (default: inventory.log)
	File string `env:"LOG_FILE" default:"inventory.log"`

	// MaxSizeMB rotates the log file after this size (default: 10)
	MaxSizeMB int `env:"LOG_MAX_SIZE_MB" default:"10"`

	// MaxBackups is the number of rotated files kept (default: 3)
	MaxBackups int `env:"LOG_MAX_BACKUPS" default:"3"`
}
