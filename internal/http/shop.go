package httpapi

import (
	"net/http"
	"time"

	"github.com/fairyhunter13/demo-shop/internal/config"
	"github.com/fairyhunter13/demo-shop/internal/hub"
	"github.com/fairyhunter13/demo-shop/internal/query"
)

// ShopApp holds the shop server's handler dependencies.
type ShopApp struct {
	Cfg     config.Config
	Query   *query.Service
	Hub     *hub.Hub
	GraphQL http.Handler
	started time.Time
}

// NewShopApp constructs the shop application.
func NewShopApp(cfg config.Config, q *query.Service, h *hub.Hub, gql http.Handler) *ShopApp {
	return &ShopApp{Cfg: cfg, Query: q, Hub: h, GraphQL: gql, started: time.Now()}
}

// productsHandler is the REST fallback serving the current snapshot.
func (a *ShopApp) productsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	writeJSON(w, http.StatusOK, a.Query.All())
}

func (a *ShopApp) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *ShopApp) metricsHandler(w http.ResponseWriter, r *http.Request) {
	stats := a.Hub.Stats()
	m := map[string]any{
		"ws_clients":       stats.Clients,
		"ws_broadcasts":    stats.Broadcasts,
		"snapshot_reloads": stats.Reloads,
		"dropped_payloads": stats.Dropped,
		"snapshot_size":    a.Query.Snapshot().Len(),
		"uptime_sec":       time.Since(a.started).Seconds(),
	}
	writeJSON(w, http.StatusOK, m)
}
