package core

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/inventory/internal/csv"
	"github.com/JonMunkholm/inventory/internal/logging"
	"github.com/google/uuid"
)

// Exporter dumps the whole store to backup records.
type Exporter struct {
	store Store
}

// NewExporter creates an Exporter reading from store.
func NewExporter(store Store) *Exporter {
	return &Exporter{store: store}
}

// ExportAll returns one backup record per stored product, ordered by id.
func (ex *Exporter) ExportAll(ctx context.Context) ([]BackupRecord, error) {
	products, err := ex.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	records := make([]BackupRecord, len(products))
	for i, p := range products {
		records[i] = BackupRecord{
			ID:          p.ID,
			Name:        p.Name,
			Quantity:    p.Quantity,
			Price:       FormatPrice(p.Price),
			DateUpdated: FormatTimestamp(p.UpdatedAt),
		}
	}
	return records, nil
}

// WriteBackup exports the store and atomically replaces the file at path.
func (ex *Exporter) WriteBackup(ctx context.Context, path string) (BackupResult, error) {
	result := BackupResult{ID: uuid.New().String(), Path: path}
	ctx = logging.WithOperation(ctx, result.ID)
	logger := logging.WithFields(ctx, "path", path)
	start := time.Now()

	records, err := ex.ExportAll(ctx)
	if err != nil {
		logger.Error("backup failed", "error", err)
		return result, err
	}

	if err := csv.WriteFileAtomic(path, records); err != nil {
		logger.Error("backup failed", "error", err)
		return result, fmt.Errorf("write backup: %w", err)
	}

	result.Records = len(records)
	result.Duration = time.Since(start)
	logger.Info("backup complete", "records", result.Records, "duration", result.Duration)
	return result, nil
}
