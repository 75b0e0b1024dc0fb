// Package gql exposes the shop query surface over GraphQL.
package gql

import (
	"net/http"

	"github.com/fairyhunter13/demo-shop/internal/model"
	"github.com/fairyhunter13/demo-shop/internal/query"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/handler"
)

var reviewType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Review",
	Fields: graphql.Fields{
		"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"text":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"rating":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"author":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
	},
})

var manufacturerType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Manufacturer",
	Fields: graphql.Fields{
		"id":      &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"country": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"website": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":   &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"price": &graphql.Field{
			Type: graphql.Float,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				prod, ok := p.Source.(model.Product)
				if !ok || prod.Price == nil {
					return nil, nil
				}
				return *prod.Price, nil
			},
		},
		"description": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				prod, ok := p.Source.(model.Product)
				if !ok || prod.Description == nil {
					return nil, nil
				}
				return *prod.Description, nil
			},
		},
		"categories":     &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
		"inStock":        &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"rating":         &graphql.Field{Type: graphql.Float},
		"manufacturerId": &graphql.Field{Type: graphql.String},
	},
})

var searchResultType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SearchResult",
	Fields: graphql.Fields{
		"items":      &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(productType)))},
		"totalCount": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"hasMore":    &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
	},
})

var statisticsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Statistics",
	Fields: graphql.Fields{
		"totalProducts": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"averagePrice":  &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		"categoryCount": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"inStockCount":  &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
	},
})

var filterInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "ProductFilter",
	Fields: graphql.InputObjectConfigFieldMap{
		"minPrice":   &graphql.InputObjectFieldConfig{Type: graphql.Float},
		"maxPrice":   &graphql.InputObjectFieldConfig{Type: graphql.Float},
		"categories": &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
		"inStock":    &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
		"minRating":  &graphql.InputObjectFieldConfig{Type: graphql.Float},
	},
})

// NewSchema builds the shop query schema over the given query service.
func NewSchema(q *query.Service) (graphql.Schema, error) {
	root := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(productType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return q.All(), nil
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					if prod, ok := q.ByID(id); ok {
						return prod, nil
					}
					return nil, nil
				},
			},
			"productsByCategory": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(productType))),
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					category, _ := p.Args["category"].(string)
					return q.ByCategory(category), nil
				},
			},
			"productNames": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return q.Names(), nil
				},
			},
			"productPrices": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.Float))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return q.Prices(), nil
				},
			},
			"productDescriptions": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return q.Descriptions(), nil
				},
			},
			"searchProducts": &graphql.Field{
				Type: graphql.NewNonNull(searchResultType),
				Args: graphql.FieldConfigArgument{
					"filter": &graphql.ArgumentConfig{Type: filterInput},
					"skip":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					skip, _ := p.Args["skip"].(int)
					limit, _ := p.Args["limit"].(int)
					return q.Search(filterFromArgs(p.Args["filter"]), skip, limit), nil
				},
			},
			"statistics": &graphql.Field{
				Type: graphql.NewNonNull(statisticsType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return q.Statistics(), nil
				},
			},
			"manufacturers": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(manufacturerType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return q.Manufacturers(), nil
				},
			},
			"manufacturerProducts": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(productType))),
				Args: graphql.FieldConfigArgument{
					"manufacturerId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["manufacturerId"].(string)
					return q.ManufacturerProducts(id), nil
				},
			},
			"productReviews": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(reviewType))),
				Args: graphql.FieldConfigArgument{
					"productId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["productId"].(string)
					return q.ProductReviews(id), nil
				},
			},
			"latestReviews": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(reviewType))),
				Args: graphql.FieldConfigArgument{
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 5},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					limit, _ := p.Args["limit"].(int)
					return q.LatestReviews(limit), nil
				},
			},
		},
	})
	return graphql.NewSchema(graphql.SchemaConfig{Query: root})
}

// NewHandler wires the schema into an HTTP endpoint with GraphiQL enabled.
func NewHandler(q *query.Service) (http.Handler, error) {
	schema, err := NewSchema(q)
	if err != nil {
		return nil, err
	}
	return handler.New(&handler.Config{
		Schema:   &schema,
		Pretty:   true,
		GraphiQL: true,
	}), nil
}

func filterFromArgs(arg interface{}) query.Filter {
	var f query.Filter
	m, ok := arg.(map[string]interface{})
	if !ok {
		return f
	}
	if v, ok := m["minPrice"].(float64); ok {
		f.MinPrice = &v
	}
	if v, ok := m["maxPrice"].(float64); ok {
		f.MaxPrice = &v
	}
	if v, ok := m["inStock"].(bool); ok {
		f.InStock = &v
	}
	if v, ok := m["minRating"].(float64); ok {
		f.MinRating = &v
	}
	if vs, ok := m["categories"].([]interface{}); ok {
		for _, v := range vs {
			if s, ok := v.(string); ok {
				f.Categories = append(f.Categories, s)
			}
		}
	}
	return f
}
