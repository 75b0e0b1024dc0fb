// Package integration exercises the full flow across both servers: an admin
// mutation, the realtime refresh signal, the broadcast to shop clients, and
// the query surfaces observing the new state.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fairyhunter13/demo-shop/internal/catalog"
	"github.com/fairyhunter13/demo-shop/internal/config"
	"github.com/fairyhunter13/demo-shop/internal/gql"
	httpapi "github.com/fairyhunter13/demo-shop/internal/http"
	"github.com/fairyhunter13/demo-shop/internal/hub"
	"github.com/fairyhunter13/demo-shop/internal/model"
	"github.com/fairyhunter13/demo-shop/internal/obs"
	"github.com/fairyhunter13/demo-shop/internal/query"
	"github.com/fairyhunter13/demo-shop/internal/store"
	"github.com/gorilla/websocket"
)

type stack struct {
	admin *httptest.Server
	shop  *httptest.Server
}

func setupStack(t *testing.T) *stack {
	t.Helper()
	obs.InitLogger()
	cfg := config.Load()
	st := store.New(filepath.Join(t.TempDir(), "products.json"))
	if err := st.Save(nil); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	adminApp := httpapi.NewAdminApp(cfg, catalog.NewService(st))
	admin := httptest.NewServer(httpapi.NewAdminRouter(adminApp))

	snap := query.NewSnapshot(nil)
	qs := query.NewService(snap)
	h := hub.New(st, snap)
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	gqlHandler, err := gql.NewHandler(qs)
	if err != nil {
		t.Fatalf("graphql handler: %v", err)
	}
	shopApp := httpapi.NewShopApp(cfg, qs, h, gqlHandler)
	shop := httptest.NewServer(httpapi.NewShopRouter(shopApp))

	t.Cleanup(func() {
		shop.Close()
		admin.Close()
		cancel()
		h.Wait()
	})
	return &stack{admin: admin, shop: shop}
}

func (s *stack) dialWS(t *testing.T, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(s.shop.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", path, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestAdminCreateThenRefreshThenQuery(t *testing.T) {
	s := setupStack(t)
	plain := s.dialWS(t, "/ws")
	adminWS := s.dialWS(t, "/ws/admin")
	waitClients(t, s.shop.URL, 2)

	// 1. admin creates a product over the CRUD API
	body := `{"name":"Fresh Kettle","price":39.9,"categories":["kitchen"],"inStock":true}`
	resp, err := http.Post(s.admin.URL+"/products", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created model.Product
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("created product has no id")
	}

	// 2. the operator's client signals the change over its admin connection
	if err := adminWS.WriteMessage(websocket.TextMessage, []byte(`{"type":"data-changed"}`)); err != nil {
		t.Fatalf("signal: %v", err)
	}

	// 3. the plain connection receives the refreshed list
	_ = plain.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := plain.ReadMessage()
	if err != nil {
		t.Fatalf("read broadcast: %v", err)
	}
	var evt model.DataChanged
	if err := json.Unmarshal(data, &evt); err != nil {
		t.Fatalf("decode broadcast: %v", err)
	}
	if evt.Type != "data-changed" || len(evt.Products) != 1 || evt.Products[0].ID != created.ID {
		t.Fatalf("unexpected broadcast: %+v", evt)
	}

	// 4. GraphQL answers from the refreshed snapshot
	gqlBody := strings.NewReader(`{"query":"{ products { id name } statistics { totalProducts } }"}`)
	gresp, err := http.Post(s.shop.URL+"/graphql", "application/json", gqlBody)
	if err != nil {
		t.Fatal(err)
	}
	defer gresp.Body.Close()
	var out struct {
		Data struct {
			Products []struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"products"`
			Statistics struct {
				TotalProducts int `json:"totalProducts"`
			} `json:"statistics"`
		} `json:"data"`
	}
	if err := json.NewDecoder(gresp.Body).Decode(&out); err != nil {
		t.Fatalf("decode graphql: %v", err)
	}
	if len(out.Data.Products) != 1 || out.Data.Products[0].ID != created.ID {
		t.Fatalf("graphql did not observe the new product: %+v", out)
	}
	if out.Data.Statistics.TotalProducts != 1 {
		t.Fatalf("statistics stale: %+v", out.Data.Statistics)
	}
}

func TestChatAcrossServers(t *testing.T) {
	s := setupStack(t)
	a := s.dialWS(t, "/ws")
	b := s.dialWS(t, "/ws")
	waitClients(t, s.shop.URL, 2)

	if err := a.WriteMessage(websocket.TextMessage, []byte(`{"sender":"amy","text":"anyone here?"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	for _, conn := range []*websocket.Conn{a, b} {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var evt model.ChatMessage
		if err := json.Unmarshal(data, &evt); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if evt.Sender != "amy" || evt.Text != "anyone here?" {
			t.Fatalf("unexpected chat event: %+v", evt)
		}
	}
}

func waitClients(t *testing.T, shopURL string, n float64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(shopURL + "/debug/metrics")
		if err == nil {
			var m map[string]any
			_ = json.NewDecoder(resp.Body).Decode(&m)
			_ = resp.Body.Close()
			if v, ok := m["ws_clients"].(float64); ok && v >= n {
				return
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("clients never connected")
}
