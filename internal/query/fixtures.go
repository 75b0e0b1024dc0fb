package query

import (
	"time"

	"github.com/fairyhunter13/demo-shop/internal/model"
)

// Static manufacturer and review data. The catalog file does not persist
// either relation yet; these fixtures stand in for it. The product ids match
// the shipped data/products.json seed.
var manufacturers = []model.Manufacturer{
	{ID: "m-1", Name: "Acme Works", Country: "Germany", Website: "https://acme.example.com"},
	{ID: "m-2", Name: "Nordic Supply", Country: "Sweden", Website: "https://nordic.example.com"},
	{ID: "m-3", Name: "Kappa Goods", Country: "Japan", Website: "https://kappa.example.com"},
}

var reviewsByProduct = map[string][]model.Review{
	"1": {
		{ID: "r-1", Text: "Keeps coffee hot for hours.", Rating: 5, Author: "dana", CreatedAt: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)},
		{ID: "r-2", Text: "Handle feels flimsy.", Rating: 3, Author: "miguel", CreatedAt: time.Date(2025, 4, 2, 18, 5, 0, 0, time.UTC)},
	},
	"2": {
		{ID: "r-3", Text: "Colors pop, prints well.", Rating: 4, Author: "sasha", CreatedAt: time.Date(2025, 5, 21, 12, 0, 0, 0, time.UTC)},
	},
	"3": {
		{ID: "r-4", Text: "Exactly as described.", Rating: 5, Author: "lee", CreatedAt: time.Date(2025, 6, 1, 7, 45, 0, 0, time.UTC)},
		{ID: "r-5", Text: "Shipping took a while.", Rating: 2, Author: "kim", CreatedAt: time.Date(2025, 2, 11, 22, 10, 0, 0, time.UTC)},
	},
}
