package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/inventory/internal/config"
	"github.com/JonMunkholm/inventory/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeConfig(t *testing.T, driver string) config.StoreConfig {
	return config.StoreConfig{
		Driver:      driver,
		Path:        filepath.Join(t.TempDir(), "inventory.db"),
		OpenTimeout: time.Second,
		OpTimeout:   time.Second,
	}
}

func TestOpen_Drivers(t *testing.T) {
	for _, driver := range []string{config.DriverBolt, config.DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			s, err := Open(context.Background(), storeConfig(t, driver))
			require.NoError(t, err)
			defer s.Close()

			all, err := s.List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), storeConfig(t, "mysql"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mysql")
}

// TestSeedUpdateBackup runs a whole session against each file backend:
// import the seed, change one product, then back up.
func TestSeedUpdateBackup(t *testing.T) {
	for _, driver := range []string{config.DriverBolt, config.DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			dir := t.TempDir()

			seed := filepath.Join(dir, "inventory.csv")
			require.NoError(t, os.WriteFile(seed, []byte(
				"product_name,product_quantity,product_price,date_updated\n"+
					"Widget A,10,$5.00,01/15/2023\n"), 0o644))

			s, err := Open(ctx, storeConfig(t, driver))
			require.NoError(t, err)
			defer s.Close()

			imported, err := core.NewImporter(s).ImportFile(ctx, seed)
			require.NoError(t, err)
			assert.Equal(t, 1, imported.Created)

			p, err := s.GetByName(ctx, "Widget A")
			require.NoError(t, err)

			later := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
			q, created, err := s.Upsert(ctx, core.ProductInput{Name: "Widget A", Quantity: 3, Price: p.Price, UpdatedAt: later})
			require.NoError(t, err)
			assert.False(t, created)
			assert.Equal(t, p.ID, q.ID)

			backup := filepath.Join(dir, "Inventory_Backup.csv")
			result, err := core.NewExporter(s).WriteBackup(ctx, backup)
			require.NoError(t, err)
			assert.Equal(t, 1, result.Records)

			data, err := os.ReadFile(backup)
			require.NoError(t, err)
			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			require.Len(t, lines, 2)
			assert.Equal(t, "1,Widget A,3,5.00,"+core.FormatTimestamp(later), lines[1])
		})
	}
}
