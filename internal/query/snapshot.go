package query

import (
	"sync"

	"github.com/fairyhunter13/demo-shop/internal/model"
)

// Snapshot is the in-memory mirror of the catalog file shared by the query
// service and the realtime hub. It is replaced wholesale on reload, never
// mutated in place.
type Snapshot struct {
	mu       sync.RWMutex
	products []model.Product
}

// NewSnapshot returns a Snapshot holding the given product list.
func NewSnapshot(products []model.Product) *Snapshot {
	return &Snapshot{products: products}
}

// Replace installs a fresh product list.
func (s *Snapshot) Replace(products []model.Product) {
	s.mu.Lock()
	s.products = products
	s.mu.Unlock()
}

// Products returns a copy of the current list, safe to iterate without
// holding the lock.
func (s *Snapshot) Products() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Len reports the number of products currently held.
func (s *Snapshot) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}
