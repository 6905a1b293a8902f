// Package pgstore implements core.Store on PostgreSQL through pgx.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/inventory/internal/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// schema creates the products table on first use. Existing data is kept.
const schema = `
CREATE TABLE IF NOT EXISTS products (
	id         BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	name       TEXT        NOT NULL UNIQUE,
	quantity   BIGINT      NOT NULL CHECK (quantity >= 0),
	price      BIGINT      NOT NULL CHECK (price >= 0),
	updated_at TIMESTAMPTZ NOT NULL
)`

const columns = `id, name, quantity, price, updated_at`

// uniqueViolation is the SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// Store is a core.Store backed by a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

var _ core.Store = (*Store)(nil)

// Open connects to url, verifies the connection within timeout and ensures
// the schema exists.
func Open(ctx context.Context, url string, maxConns int, timeout time.Duration) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, core.Persistence("parse database url", err)
	}
	poolConfig.MaxConns = int32(maxConns)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, core.Persistence("connect", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, core.Persistence("ping", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, core.Persistence("migrate", err)
	}

	return &Store{pool: pool}, nil
}

// Create inserts a new product.
func (s *Store) Create(ctx context.Context, in core.ProductInput) (core.Product, error) {
	if err := in.Validate(); err != nil {
		return core.Product{}, err
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO products (name, quantity, price, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO NOTHING
		RETURNING `+columns,
		in.Name, in.Quantity, in.Price, in.UpdatedAt.UTC())

	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Product{}, &core.DuplicateKeyError{Name: in.Name}
	}
	if err != nil {
		return core.Product{}, translate("create", in.Name, err)
	}
	return p, nil
}

// Upsert overwrites the product with the same name or creates it in a
// single statement. xmax is zero only for a freshly inserted row.
func (s *Store) Upsert(ctx context.Context, in core.ProductInput) (core.Product, bool, error) {
	if err := in.Validate(); err != nil {
		return core.Product{}, false, err
	}

	var (
		p       core.Product
		created bool
	)
	err := s.pool.QueryRow(ctx, `
		INSERT INTO products (name, quantity, price, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE
		SET quantity = EXCLUDED.quantity,
		    price = EXCLUDED.price,
		    updated_at = EXCLUDED.updated_at
		RETURNING `+columns+`, (xmax = 0)`,
		in.Name, in.Quantity, in.Price, in.UpdatedAt.UTC(),
	).Scan(&p.ID, &p.Name, &p.Quantity, &p.Price, &p.UpdatedAt, &created)
	if err != nil {
		return core.Product{}, false, translate("upsert", in.Name, err)
	}

	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, created, nil
}

// GetByID returns the product with id.
func (s *Store) GetByID(ctx context.Context, id int64) (core.Product, error) {
	p, err := scanProduct(s.pool.QueryRow(ctx,
		`SELECT `+columns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Product{}, core.NotFoundByID(id)
	}
	if err != nil {
		return core.Product{}, core.Persistence("get", err)
	}
	return p, nil
}

// GetByName returns the product called name.
func (s *Store) GetByName(ctx context.Context, name string) (core.Product, error) {
	p, err := scanProduct(s.pool.QueryRow(ctx,
		`SELECT `+columns+` FROM products WHERE name = $1`, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Product{}, core.NotFoundByName(name)
	}
	if err != nil {
		return core.Product{}, core.Persistence("get", err)
	}
	return p, nil
}

// List returns every product ordered by id.
func (s *Store) List(ctx context.Context) ([]core.Product, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+columns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, core.Persistence("list", err)
	}

	products, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.Product, error) {
		return scanProduct(row)
	})
	if err != nil {
		return nil, core.Persistence("list", err)
	}
	return products, nil
}

// Close closes the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func scanProduct(row pgx.Row) (core.Product, error) {
	var p core.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Quantity, &p.Price, &p.UpdatedAt); err != nil {
		return core.Product{}, err
	}
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

// translate maps a unique violation to DuplicateKeyError and everything else
// to a persistence failure.
func translate(op, name string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return &core.DuplicateKeyError{Name: name}
	}
	return core.Persistence(op, fmt.Errorf("%s: %w", name, err))
}
