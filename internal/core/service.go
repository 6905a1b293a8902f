package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/inventory/internal/config"
	"github.com/JonMunkholm/inventory/internal/logging"
)

// Service provides the operations the interactive session drives.
// It owns no state beyond the store handle and settings.
type Service struct {
	store    Store
	importer *Importer
	exporter *Exporter

	backupPath    string
	opTimeout     time.Duration
	importTimeout time.Duration
	backupTimeout time.Duration

	now func() time.Time
}

// NewService creates a new Service over store.
func NewService(store Store, cfg *config.Config) *Service {
	return &Service{
		store:         store,
		importer:      NewImporter(store),
		exporter:      NewExporter(store),
		backupPath:    cfg.Backup.Path,
		opTimeout:     cfg.Store.OpTimeout,
		importTimeout: cfg.Seed.Timeout,
		backupTimeout: cfg.Backup.Timeout,
		now:           Now,
	}
}

// ImportSeed imports the seed file at path.
func (s *Service) ImportSeed(ctx context.Context, path string) (ImportResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.importTimeout)
	defer cancel()

	return s.importer.ImportFile(ctx, path)
}

// ViewProduct returns the product with the given id.
func (s *Service) ViewProduct(ctx context.Context, id int64) (Product, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Product{}, fmt.Errorf("view product: %w", err)
	}
	return p, nil
}

// SaveProduct adds or updates the product called name, stamped with the
// current time. The bool reports whether the product was created.
func (s *Service) SaveProduct(ctx context.Context, name string, quantity, price int64) (Product, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	in := ProductInput{
		Name:      strings.TrimSpace(name),
		Quantity:  quantity,
		Price:     price,
		UpdatedAt: s.now(),
	}

	p, created, err := s.store.Upsert(ctx, in)
	if err != nil {
		return Product{}, false, fmt.Errorf("save product: %w", err)
	}

	logging.FromContext(ctx).Info("product saved", "id", p.ID, "name", p.Name, "created", created)
	return p, created, nil
}

// Products lists every stored product ordered by id.
func (s *Service) Products(ctx context.Context) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	return s.store.List(ctx)
}

// Backup writes the full store to the configured backup file.
func (s *Service) Backup(ctx context.Context) (BackupResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.backupTimeout)
	defer cancel()

	return s.exporter.WriteBackup(ctx, s.backupPath)
}

// BackupPath returns the configured backup file.
func (s *Service) BackupPath() string {
	return s.backupPath
}
