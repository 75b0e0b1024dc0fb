// Package catalog implements the admin-side CRUD operations over the file
// store. Every operation re-reads the whole file, applies one mutation, and
// writes the whole file back.
package catalog

import (
	"errors"

	"github.com/fairyhunter13/demo-shop/internal/model"
	"github.com/fairyhunter13/demo-shop/internal/store"
	"github.com/google/uuid"
)

// ErrNotFound is returned when no product has the requested id.
var ErrNotFound = errors.New("product not found")

// Service exposes the admin CRUD operations.
type Service struct {
	st *store.FileStore
}

// NewService constructs a Service over the given store.
func NewService(st *store.FileStore) *Service {
	return &Service{st: st}
}

// List returns the full product sequence from storage.
func (s *Service) List() ([]model.Product, error) {
	return s.st.Load()
}

// Create assigns a fresh id to the given fields, appends the product, and
// persists the catalog. The created record is returned.
func (s *Service) Create(fields model.ProductFields) (model.Product, error) {
	products, err := s.st.Load()
	if err != nil {
		return model.Product{}, err
	}
	p := newProduct(fields)
	products = append(products, p)
	if err := s.st.Save(products); err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// CreateBatch appends one product per entry and persists once. Ids are
// uuids, so entries created within the same instant never collide with each
// other or with existing records.
func (s *Service) CreateBatch(batch []model.ProductFields) ([]model.Product, error) {
	products, err := s.st.Load()
	if err != nil {
		return nil, err
	}
	created := make([]model.Product, 0, len(batch))
	for _, fields := range batch {
		p := newProduct(fields)
		created = append(created, p)
		products = append(products, p)
	}
	if err := s.st.Save(products); err != nil {
		return nil, err
	}
	return created, nil
}

// Update merges the provided fields onto the product with the given id and
// persists the catalog. The id itself is immutable.
func (s *Service) Update(id string, fields model.ProductFields) (model.Product, error) {
	products, err := s.st.Load()
	if err != nil {
		return model.Product{}, err
	}
	idx := -1
	for i := range products {
		if products[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.Product{}, ErrNotFound
	}
	p := products[idx]
	applyFields(&p, fields)
	p.ID = id
	products[idx] = p
	if err := s.st.Save(products); err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// Delete removes the product with the given id and persists the catalog.
func (s *Service) Delete(id string) error {
	products, err := s.st.Load()
	if err != nil {
		return err
	}
	kept := products[:0:0]
	for _, p := range products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(products) {
		return ErrNotFound
	}
	return s.st.Save(kept)
}

func newProduct(fields model.ProductFields) model.Product {
	p := model.Product{ID: uuid.NewString()}
	applyFields(&p, fields)
	return p
}

func applyFields(p *model.Product, f model.ProductFields) {
	if f.Name != nil {
		p.Name = *f.Name
	}
	if f.Price != nil {
		p.Price = f.Price
	}
	if f.Description != nil {
		p.Description = f.Description
	}
	if f.Categories != nil {
		p.Categories = *f.Categories
	}
	if f.InStock != nil {
		p.InStock = *f.InStock
	}
	if f.Rating != nil {
		p.Rating = *f.Rating
	}
	if f.ManufacturerID != nil {
		p.ManufacturerID = *f.ManufacturerID
	}
}
