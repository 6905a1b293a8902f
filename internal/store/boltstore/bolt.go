// Package boltstore implements core.Store on a single bbolt file.
//
// Products are kept in two buckets: "products" maps the big-endian id to the
// JSON record, "product_names" maps the name to the id. Ids come from the
// products bucket sequence, so they increase strictly and are never reused.
package boltstore

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/inventory/internal/core"
	jsoniter "github.com/json-iterator/go"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketProducts = []byte("products")
	bucketNames    = []byte("product_names")
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var errDanglingIndex = errors.New("name index points at missing product")

// record is the stored form of a product.
type record struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Quantity  int64     `json:"quantity"`
	Price     int64     `json:"price"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r record) product() core.Product {
	return core.Product{
		ID:        r.ID,
		Name:      r.Name,
		Quantity:  r.Quantity,
		Price:     r.Price,
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

// Store is a core.Store backed by bbolt.
type Store struct {
	db *bolt.DB
}

var _ core.Store = (*Store)(nil)

// Open opens or creates the database file at path. timeout bounds waiting
// for the file lock held by another process.
func Open(path string, timeout time.Duration) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, core.Persistence("open "+path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketProducts, bucketNames} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, core.Persistence("init", err)
	}

	return &Store{db: db}, nil
}

// Path returns the database file.
func (s *Store) Path() string {
	return s.db.Path()
}

// Create inserts a new product.
func (s *Store) Create(ctx context.Context, in core.ProductInput) (core.Product, error) {
	if err := in.Validate(); err != nil {
		return core.Product{}, err
	}
	if err := ctx.Err(); err != nil {
		return core.Product{}, core.Persistence("create", err)
	}

	var out record
	err := s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketNames).Get([]byte(in.Name)) != nil {
			return &core.DuplicateKeyError{Name: in.Name}
		}
		var err error
		out, err = insert(tx, in)
		return err
	})
	if err != nil {
		return core.Product{}, core.Persistence("create", err)
	}
	return out.product(), nil
}

// Upsert overwrites the product with the same name or creates it.
func (s *Store) Upsert(ctx context.Context, in core.ProductInput) (core.Product, bool, error) {
	if err := in.Validate(); err != nil {
		return core.Product{}, false, err
	}
	if err := ctx.Err(); err != nil {
		return core.Product{}, false, core.Persistence("upsert", err)
	}

	var (
		out     record
		created bool
	)
	err := s.db.Update(func(tx *bolt.Tx) error {
		key := tx.Bucket(bucketNames).Get([]byte(in.Name))
		if key == nil {
			var err error
			out, err = insert(tx, in)
			created = err == nil
			return err
		}

		products := tx.Bucket(bucketProducts)
		if err := decode(products.Get(key), &out); err != nil {
			return err
		}
		out.Quantity = in.Quantity
		out.Price = in.Price
		out.UpdatedAt = in.UpdatedAt.UTC()
		return put(products, key, out)
	})
	if err != nil {
		return core.Product{}, false, core.Persistence("upsert", err)
	}
	return out.product(), created, nil
}

// GetByID returns the product with id.
func (s *Store) GetByID(ctx context.Context, id int64) (core.Product, error) {
	if err := ctx.Err(); err != nil {
		return core.Product{}, core.Persistence("get", err)
	}

	var out record
	err := s.db.View(func(tx *bolt.Tx) error {
		if id <= 0 {
			return core.NotFoundByID(id)
		}
		data := tx.Bucket(bucketProducts).Get(itob(id))
		if data == nil {
			return core.NotFoundByID(id)
		}
		return decode(data, &out)
	})
	if err != nil {
		return core.Product{}, core.Persistence("get", err)
	}
	return out.product(), nil
}

// GetByName returns the product called name.
func (s *Store) GetByName(ctx context.Context, name string) (core.Product, error) {
	if err := ctx.Err(); err != nil {
		return core.Product{}, core.Persistence("get", err)
	}

	var out record
	err := s.db.View(func(tx *bolt.Tx) error {
		key := tx.Bucket(bucketNames).Get([]byte(name))
		if key == nil {
			return core.NotFoundByName(name)
		}
		return decode(tx.Bucket(bucketProducts).Get(key), &out)
	})
	if err != nil {
		return core.Product{}, core.Persistence("get", err)
	}
	return out.product(), nil
}

// List returns every product ordered by id. Keys are big-endian, so cursor
// order is id order.
func (s *Store) List(ctx context.Context) ([]core.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.Persistence("list", err)
	}

	var out []core.Product
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketProducts)
		out = make([]core.Product, 0, b.Stats().KeyN)
		return b.ForEach(func(_, v []byte) error {
			var r record
			if err := decode(v, &r); err != nil {
				return err
			}
			out = append(out, r.product())
			return nil
		})
	})
	if err != nil {
		return nil, core.Persistence("list", err)
	}
	return out, nil
}

// Close releases the file lock.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return core.Persistence("close", err)
	}
	return nil
}

func insert(tx *bolt.Tx, in core.ProductInput) (record, error) {
	products := tx.Bucket(bucketProducts)
	seq, err := products.NextSequence()
	if err != nil {
		return record{}, fmt.Errorf("next id: %w", err)
	}

	r := record{
		ID:        int64(seq),
		Name:      in.Name,
		Quantity:  in.Quantity,
		Price:     in.Price,
		UpdatedAt: in.UpdatedAt.UTC(),
	}
	key := itob(r.ID)
	if err := put(products, key, r); err != nil {
		return record{}, err
	}
	if err := tx.Bucket(bucketNames).Put([]byte(r.Name), key); err != nil {
		return record{}, fmt.Errorf("index name: %w", err)
	}
	return r, nil
}

func put(b *bolt.Bucket, key []byte, r record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode product %d: %w", r.ID, err)
	}
	return b.Put(key, data)
}

func decode(data []byte, r *record) error {
	if data == nil {
		return errDanglingIndex
	}
	if err := json.Unmarshal(data, r); err != nil {
		return fmt.Errorf("decode product: %w", err)
	}
	return nil
}

func itob(id int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}
