// Package sqlitestore implements core.Store on SQLite through GORM.
package sqlitestore

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/JonMunkholm/inventory/internal/core"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// productRow is the products table. The timestamp field is not named
// UpdatedAt so GORM leaves it as written.
type productRow struct {
	ID       int64     `gorm:"primaryKey;autoIncrement"`
	Name     string    `gorm:"size:255;not null;uniqueIndex"`
	Quantity int64     `gorm:"not null;check:quantity >= 0"`
	Price    int64     `gorm:"not null;check:price >= 0"`
	Stamped  time.Time `gorm:"column:updated_at;not null"`
}

func (productRow) TableName() string { return "products" }

func (r productRow) product() core.Product {
	return core.Product{
		ID:        r.ID,
		Name:      r.Name,
		Quantity:  r.Quantity,
		Price:     r.Price,
		UpdatedAt: r.Stamped.UTC(),
	}
}

// Store is a core.Store backed by a SQLite file.
type Store struct {
	db   *gorm.DB
	path string
}

var _ core.Store = (*Store)(nil)

// Open opens or creates the SQLite database at path and migrates the
// products table. busyTimeout bounds waiting on a lock held by another
// connection.
func Open(path string, busyTimeout time.Duration) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn(path, busyTimeout)), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent), // logging goes through slog
		TranslateError: true,
	})
	if err != nil {
		return nil, core.Persistence("open "+path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, core.Persistence("open "+path, err)
	}
	// One connection serializes writers, so the existence check in Upsert
	// never races another transaction.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&productRow{}); err != nil {
		sqlDB.Close()
		return nil, core.Persistence("migrate", err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database file.
func (s *Store) Path() string {
	return s.path
}

// Create inserts a new product.
func (s *Store) Create(ctx context.Context, in core.ProductInput) (core.Product, error) {
	if err := in.Validate(); err != nil {
		return core.Product{}, err
	}

	var row productRow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := nameExists(tx, in.Name)
		if err != nil {
			return err
		}
		if exists {
			return &core.DuplicateKeyError{Name: in.Name}
		}
		row = newRow(in)
		return tx.Create(&row).Error
	})
	if err != nil {
		return core.Product{}, translate("create", in.Name, err)
	}
	return row.product(), nil
}

// Upsert overwrites the product with the same name or creates it.
func (s *Store) Upsert(ctx context.Context, in core.ProductInput) (core.Product, bool, error) {
	if err := in.Validate(); err != nil {
		return core.Product{}, false, err
	}

	var (
		row     productRow
		created bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := nameExists(tx, in.Name)
		if err != nil {
			return err
		}
		created = !exists

		insert := newRow(in)
		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "price", "updated_at"}),
		}).Create(&insert).Error
		if err != nil {
			return err
		}

		// The insert's id is unreliable after a conflict; read the stored row.
		return tx.Where("name = ?", in.Name).Take(&row).Error
	})
	if err != nil {
		return core.Product{}, false, translate("upsert", in.Name, err)
	}
	return row.product(), created, nil
}

// GetByID returns the product with id.
func (s *Store) GetByID(ctx context.Context, id int64) (core.Product, error) {
	var row productRow
	err := s.db.WithContext(ctx).Take(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return core.Product{}, core.NotFoundByID(id)
	}
	if err != nil {
		return core.Product{}, core.Persistence("get", err)
	}
	return row.product(), nil
}

// GetByName returns the product called name.
func (s *Store) GetByName(ctx context.Context, name string) (core.Product, error) {
	var row productRow
	err := s.db.WithContext(ctx).Where("name = ?", name).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return core.Product{}, core.NotFoundByName(name)
	}
	if err != nil {
		return core.Product{}, core.Persistence("get", err)
	}
	return row.product(), nil
}

// List returns every product ordered by id.
func (s *Store) List(ctx context.Context) ([]core.Product, error) {
	var rows []productRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, core.Persistence("list", err)
	}

	out := make([]core.Product, len(rows))
	for i, r := range rows {
		out[i] = r.product()
	}
	return out, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return core.Persistence("close", err)
	}
	if err := sqlDB.Close(); err != nil {
		return core.Persistence("close", err)
	}
	return nil
}

// dsn builds the SQLite URI for path. The path is percent-escaped so '?' and
// '#' stay part of the file name.
func dsn(path string, busyTimeout time.Duration) string {
	u := url.URL{
		Scheme:   "file",
		Opaque:   (&url.URL{Path: path}).EscapedPath(),
		RawQuery: url.Values{"_busy_timeout": {strconv.FormatInt(busyTimeout.Milliseconds(), 10)}}.Encode(),
	}
	return u.String()
}

func newRow(in core.ProductInput) productRow {
	return productRow{
		Name:     in.Name,
		Quantity: in.Quantity,
		Price:    in.Price,
		Stamped:  in.UpdatedAt.UTC(),
	}
}

func nameExists(tx *gorm.DB, name string) (bool, error) {
	var n int64
	if err := tx.Model(&productRow{}).Where("name = ?", name).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// translate maps GORM errors to core errors.
func translate(op, name string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &core.DuplicateKeyError{Name: name}
	}
	return core.Persistence(op, err)
}
