package core

import (
	"context"
	"strings"
	"time"
)

// Product is a single stored inventory record.
type Product struct {
	ID        int64     // Assigned by the store, strictly increasing, never reused
	Name      string    // Natural key, unique across live records
	Quantity  int64     // Units on hand
	Price     int64     // Minor units (cents)
	UpdatedAt time.Time // Time of the last create or update
}

// ProductInput carries the mutable fields written by Create and Upsert.
type ProductInput struct {
	Name      string
	Quantity  int64
	Price     int64
	UpdatedAt time.Time
}

// Validate checks the input before it reaches a store.
func (in ProductInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return &FormatError{Field: "product_name", Value: in.Name, Reason: "empty name"}
	}
	if in.Quantity < 0 {
		return &FormatError{Field: "product_quantity", Value: itoa(in.Quantity), Reason: "invalid quantity: must be non-negative"}
	}
	if in.Price < 0 {
		return &FormatError{Field: "product_price", Value: itoa(in.Price), Reason: "invalid price: must be non-negative"}
	}
	if in.UpdatedAt.IsZero() {
		return &FormatError{Field: "date_updated", Reason: "invalid date: timestamp is zero"}
	}
	return nil
}

// Apply returns p with the mutable fields of in. ID and Name are kept.
func (p Product) Apply(in ProductInput) Product {
	p.Quantity = in.Quantity
	p.Price = in.Price
	p.UpdatedAt = in.UpdatedAt.UTC()
	return p
}

// Store is the durable keyed collection of products.
//
// Implementations persist every mutation before returning and apply each
// call atomically. Upsert is the only write path used by the importer and
// the interactive session.
type Store interface {
	// Create inserts a new product. Fails with DuplicateKeyError if the
	// name already exists.
	Create(ctx context.Context, in ProductInput) (Product, error)

	// Upsert overwrites quantity, price and updated_at of the product with
	// the same name, or creates it. The bool reports whether it was created.
	Upsert(ctx context.Context, in ProductInput) (Product, bool, error)

	// GetByID fails with NotFoundError when no product has the id.
	GetByID(ctx context.Context, id int64) (Product, error)

	// GetByName fails with NotFoundError when no product has the name.
	GetByName(ctx context.Context, name string) (Product, error)

	// List returns all products ordered by id ascending.
	List(ctx context.Context) ([]Product, error)

	Close() error
}

// RawRecord is one row of the seed file, before decoding.
type RawRecord struct {
	Name        string `csv:"product_name"`
	Quantity    string `csv:"product_quantity"`
	Price       string `csv:"product_price"`
	DateUpdated string `csv:"date_updated"`
}

// SeedColumns are the columns every seed file must carry.
var SeedColumns = []string{"product_name", "product_quantity", "product_price", "date_updated"}

// BackupRecord is one row of the backup file.
type BackupRecord struct {
	ID          int64  `csv:"product_id"`
	Name        string `csv:"product_name"`
	Quantity    int64  `csv:"product_quantity"`
	Price       string `csv:"product_price"`
	DateUpdated string `csv:"date_updated"`
}

// ImportResult contains the final result of an import operation.
type ImportResult struct {
	ID       string
	FileName string
	Applied  int // Created + Updated
	Created  int
	Updated  int
	Duration time.Duration
}

// BackupResult contains the final result of a backup operation.
type BackupResult struct {
	ID       string
	Path     string
	Records  int
	Duration time.Duration
}
