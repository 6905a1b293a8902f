// Package store opens the configured core.Store backend.
package store

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/inventory/internal/config"
	"github.com/JonMunkholm/inventory/internal/core"
	"github.com/JonMunkholm/inventory/internal/store/boltstore"
	"github.com/JonMunkholm/inventory/internal/store/pgstore"
	"github.com/JonMunkholm/inventory/internal/store/sqlitestore"
)

// Open opens the backend named by cfg.Driver. The caller owns the returned
// store and must Close it.
func Open(ctx context.Context, cfg config.StoreConfig) (core.Store, error) {
	var (
		s   core.Store
		err error
	)
	switch cfg.Driver {
	case config.DriverBolt:
		s, err = boltstore.Open(cfg.Path, cfg.OpenTimeout)
	case config.DriverSQLite:
		s, err = sqlitestore.Open(cfg.Path, cfg.OpenTimeout)
	case config.DriverPostgres:
		s, err = pgstore.Open(ctx, cfg.URL, cfg.MaxConns, cfg.OpenTimeout)
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q (supported: bolt, sqlite, postgres)", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
