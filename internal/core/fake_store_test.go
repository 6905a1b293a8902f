package core

import (
	"context"
	"errors"
	"sort"
)

// fakeStore is an in-memory Store for exercising the importer, exporter and
// service without a durable backend.
type fakeStore struct {
	byID   map[int64]Product
	byName map[string]int64
	nextID int64

	upserts  int
	failOn   int // fail the n-th Upsert call (1-based); 0 never fails
	listErr  error
	closeErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{byID: map[int64]Product{}, byName: map[string]int64{}}
}

func (s *fakeStore) Create(ctx context.Context, in ProductInput) (Product, error) {
	if err := in.Validate(); err != nil {
		return Product{}, err
	}
	if _, ok := s.byName[in.Name]; ok {
		return Product{}, &DuplicateKeyError{Name: in.Name}
	}
	s.nextID++
	p := Product{ID: s.nextID, Name: in.Name}.Apply(in)
	s.byID[p.ID] = p
	s.byName[p.Name] = p.ID
	return p, nil
}

func (s *fakeStore) Upsert(ctx context.Context, in ProductInput) (Product, bool, error) {
	s.upserts++
	if s.failOn > 0 && s.upserts == s.failOn {
		return Product{}, false, &PersistenceError{Op: "upsert", Err: errors.New("disk full")}
	}
	if err := in.Validate(); err != nil {
		return Product{}, false, err
	}
	if id, ok := s.byName[in.Name]; ok {
		p := s.byID[id].Apply(in)
		s.byID[id] = p
		return p, false, nil
	}
	p, err := s.Create(ctx, in)
	return p, err == nil, err
}

func (s *fakeStore) GetByID(ctx context.Context, id int64) (Product, error) {
	p, ok := s.byID[id]
	if !ok {
		return Product{}, NotFoundByID(id)
	}
	return p, nil
}

func (s *fakeStore) GetByName(ctx context.Context, name string) (Product, error) {
	id, ok := s.byName[name]
	if !ok {
		return Product{}, NotFoundByName(name)
	}
	return s.byID[id], nil
}

func (s *fakeStore) List(ctx context.Context) ([]Product, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]Product, 0, len(s.byID))
	for _, p := range s.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeStore) Close() error { return s.closeErr }
