package httpapi

import (
	"expvar"
	"net/http"

	"github.com/fairyhunter13/demo-shop/internal/hub"
	"github.com/rs/cors"
)

// NewAdminRouter registers the admin CRUD routes and returns the handler
// with middleware.
func NewAdminRouter(app *AdminApp) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/products", app.productsHandler)
	mux.HandleFunc("/products/batch", app.batchHandler)
	mux.HandleFunc("/products/", app.productByIDHandler)
	mux.HandleFunc("/healthz", app.healthHandler)
	mux.HandleFunc("/openapi.yaml", app.openapiHandler)
	mux.HandleFunc("/docs", app.docsHandler)
	return wrap(mux)
}

// NewShopRouter registers the shop-facing routes and returns the handler
// with middleware.
func NewShopRouter(app *ShopApp) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/products", app.productsHandler)
	mux.Handle("/graphql", app.GraphQL)
	mux.HandleFunc("/ws", app.wsHandler(hub.RolePlain))
	mux.HandleFunc("/ws/admin", app.wsHandler(hub.RoleAdmin))
	mux.HandleFunc("/healthz", app.healthHandler)
	mux.HandleFunc("/debug/metrics", app.metricsHandler)
	mux.Handle("/debug/vars", expvar.Handler())
	return wrap(mux)
}

func wrap(next http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
	})
	return c.Handler(WithRequestID(WithLogging(next)))
}
