package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/fairyhunter13/demo-shop/internal/catalog"
	"github.com/fairyhunter13/demo-shop/internal/config"
	httpopenapi "github.com/fairyhunter13/demo-shop/internal/http/openapi"
	"github.com/fairyhunter13/demo-shop/internal/model"
	"github.com/fairyhunter13/demo-shop/internal/obs"
)

// AdminApp holds the admin server's handler dependencies.
type AdminApp struct {
	Cfg     config.Config
	Catalog *catalog.Service
	started time.Time
}

// NewAdminApp constructs the admin application.
func NewAdminApp(cfg config.Config, svc *catalog.Service) *AdminApp {
	return &AdminApp{Cfg: cfg, Catalog: svc, started: time.Now()}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// productsHandler serves GET (list) and POST (create) on /products.
func (a *AdminApp) productsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		products, err := a.Catalog.List()
		if err != nil {
			obs.Logger.Error("admin_list_failed", "error", err.Error())
			WriteJSONError(w, http.StatusInternalServerError, "Error reading products", "")
			return
		}
		writeJSON(w, http.StatusOK, products)
	case http.MethodPost:
		var fields model.ProductFields
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
			return
		}
		p, err := a.Catalog.Create(fields)
		if err != nil {
			obs.Logger.Error("admin_create_failed", "error", err.Error())
			WriteJSONError(w, http.StatusInternalServerError, "Error adding product", "")
			return
		}
		obs.Logger.Info("product_created", "product_id", p.ID, "request_id", RequestIDFromContext(r.Context()))
		writeJSON(w, http.StatusCreated, p)
	default:
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
	}
}

// batchHandler serves POST /products/batch.
func (a *AdminApp) batchHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	var batch []model.ProductFields
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	created, err := a.Catalog.CreateBatch(batch)
	if err != nil {
		obs.Logger.Error("admin_batch_failed", "error", err.Error())
		WriteJSONError(w, http.StatusInternalServerError, "Error adding products", "")
		return
	}
	obs.Logger.Info("products_created", "count", len(created), "request_id", RequestIDFromContext(r.Context()))
	writeJSON(w, http.StatusCreated, created)
}

// productByIDHandler serves PUT and DELETE on /products/{id}.
func (a *AdminApp) productByIDHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/products/")
	if id == "" || strings.Contains(id, "/") {
		WriteJSONError(w, http.StatusNotFound, "Product not found", "")
		return
	}
	switch r.Method {
	case http.MethodPut:
		var fields model.ProductFields
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
			return
		}
		p, err := a.Catalog.Update(id, fields)
		if errors.Is(err, catalog.ErrNotFound) {
			WriteJSONError(w, http.StatusNotFound, "Product not found", "")
			return
		}
		if err != nil {
			obs.Logger.Error("admin_update_failed", "product_id", id, "error", err.Error())
			WriteJSONError(w, http.StatusInternalServerError, "Error updating product", "")
			return
		}
		writeJSON(w, http.StatusOK, p)
	case http.MethodDelete:
		err := a.Catalog.Delete(id)
		if errors.Is(err, catalog.ErrNotFound) {
			WriteJSONError(w, http.StatusNotFound, "Product not found", "")
			return
		}
		if err != nil {
			obs.Logger.Error("admin_delete_failed", "product_id", id, "error", err.Error())
			WriteJSONError(w, http.StatusInternalServerError, "Error deleting product", "")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
	default:
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
	}
}

func (a *AdminApp) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *AdminApp) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *AdminApp) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Admin API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}
