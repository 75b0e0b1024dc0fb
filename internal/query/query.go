// Package query answers read-only product queries from an in-memory snapshot.
// The snapshot is refreshed by the realtime hub, not re-read per query.
package query

import (
	"sort"

	"github.com/fairyhunter13/demo-shop/internal/model"
)

// Filter is the search configuration. All present predicates are ANDed.
type Filter struct {
	MinPrice   *float64 `json:"minPrice,omitempty"`
	MaxPrice   *float64 `json:"maxPrice,omitempty"`
	Categories []string `json:"categories,omitempty"`
	InStock    *bool    `json:"inStock,omitempty"`
	MinRating  *float64 `json:"minRating,omitempty"`
}

// Page is one page of search results plus the pre-pagination total.
type Page struct {
	Items   []model.Product `json:"items"`
	Total   int             `json:"totalCount"`
	HasMore bool            `json:"hasMore"`
}

// Stats summarizes the current snapshot.
type Stats struct {
	TotalProducts int     `json:"totalProducts"`
	AveragePrice  float64 `json:"averagePrice"`
	CategoryCount int     `json:"categoryCount"`
	InStockCount  int     `json:"inStockCount"`
}

// Service exposes the shop-side read queries.
type Service struct {
	snap *Snapshot
}

// NewService constructs a Service over the given snapshot.
func NewService(snap *Snapshot) *Service {
	return &Service{snap: snap}
}

// Snapshot returns the underlying snapshot.
func (q *Service) Snapshot() *Snapshot { return q.snap }

// All returns every product in the snapshot.
func (q *Service) All() []model.Product { return q.snap.Products() }

// ByID returns the product with the given id, if any.
func (q *Service) ByID(id string) (model.Product, bool) {
	for _, p := range q.snap.Products() {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}

// ByCategory returns every product whose category set contains the category.
func (q *Service) ByCategory(category string) []model.Product {
	out := []model.Product{}
	for _, p := range q.snap.Products() {
		if containsString(p.Categories, category) {
			out = append(out, p)
		}
	}
	return out
}

// Search applies the filter, then paginates with zero-based skip/limit. Total
// and HasMore always describe the full match set regardless of the page
// bounds; a non-positive limit or an out-of-range skip yields an empty page.
func (q *Service) Search(f Filter, skip, limit int) Page {
	matched := []model.Product{}
	for _, p := range q.snap.Products() {
		if matches(p, f) {
			matched = append(matched, p)
		}
	}
	total := len(matched)
	page := Page{Items: []model.Product{}, Total: total, HasMore: skip+limit < total}
	if limit <= 0 || skip >= total {
		return page
	}
	if skip < 0 {
		skip = 0
	}
	end := skip + limit
	if end > total {
		end = total
	}
	page.Items = matched[skip:end]
	return page
}

// Statistics computes the snapshot summary. A product without a price counts
// as 0 in both the sum and the denominator. An empty snapshot yields zeros,
// never a division error.
func (q *Service) Statistics() Stats {
	products := q.snap.Products()
	st := Stats{TotalProducts: len(products)}
	if len(products) == 0 {
		return st
	}
	cats := make(map[string]struct{})
	var sum float64
	for _, p := range products {
		if p.Price != nil {
			sum += *p.Price
		}
		if p.InStock {
			st.InStockCount++
		}
		for _, c := range p.Categories {
			cats[c] = struct{}{}
		}
	}
	st.AveragePrice = sum / float64(len(products))
	st.CategoryCount = len(cats)
	return st
}

// Names returns every product name in snapshot order.
func (q *Service) Names() []string {
	products := q.snap.Products()
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

// Prices returns every product price in snapshot order; a missing price
// is reported as 0.
func (q *Service) Prices() []float64 {
	products := q.snap.Products()
	out := make([]float64, len(products))
	for i, p := range products {
		if p.Price != nil {
			out[i] = *p.Price
		}
	}
	return out
}

// Descriptions returns every product description in snapshot order; a missing
// description is reported as the empty string.
func (q *Service) Descriptions() []string {
	products := q.snap.Products()
	out := make([]string, len(products))
	for i, p := range products {
		if p.Description != nil {
			out[i] = *p.Description
		}
	}
	return out
}

// ManufacturerProducts returns every product referencing the manufacturer.
func (q *Service) ManufacturerProducts(manufacturerID string) []model.Product {
	out := []model.Product{}
	for _, p := range q.snap.Products() {
		if p.ManufacturerID == manufacturerID {
			out = append(out, p)
		}
	}
	return out
}

// Manufacturers returns the static manufacturer list.
func (q *Service) Manufacturers() []model.Manufacturer {
	out := make([]model.Manufacturer, len(manufacturers))
	copy(out, manufacturers)
	return out
}

// ProductReviews returns the static reviews for one product.
func (q *Service) ProductReviews(productID string) []model.Review {
	src := reviewsByProduct[productID]
	out := make([]model.Review, len(src))
	copy(out, src)
	return out
}

// LatestReviews returns the newest reviews across all products, newest first.
// A non-positive limit returns them all.
func (q *Service) LatestReviews(limit int) []model.Review {
	all := []model.Review{}
	for _, rs := range reviewsByProduct {
		all = append(all, rs...)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}

func matches(p model.Product, f Filter) bool {
	if f.MinPrice != nil && (p.Price == nil || *p.Price < *f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && (p.Price == nil || *p.Price > *f.MaxPrice) {
		return false
	}
	if len(f.Categories) > 0 {
		any := false
		for _, c := range f.Categories {
			if containsString(p.Categories, c) {
				any = true
				break
			}
		}
		if !any {
			return false
		}
	}
	if f.InStock != nil && p.InStock != *f.InStock {
		return false
	}
	if f.MinRating != nil && p.Rating < *f.MinRating {
		return false
	}
	return true
}

func containsString(xs []string, want string) bool {
	for _, x := range xs {
		if x == want {
			return true
		}
	}
	return false
}
