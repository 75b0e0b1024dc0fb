package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fairyhunter13/demo-shop/internal/config"
	"github.com/fairyhunter13/demo-shop/internal/gql"
	"github.com/fairyhunter13/demo-shop/internal/hub"
	"github.com/fairyhunter13/demo-shop/internal/model"
	"github.com/fairyhunter13/demo-shop/internal/obs"
	"github.com/fairyhunter13/demo-shop/internal/query"
	"github.com/fairyhunter13/demo-shop/internal/store"
	"github.com/gorilla/websocket"
)

func setupShop(t *testing.T, seed []model.Product) (*httptest.Server, *store.FileStore) {
	t.Helper()
	obs.InitLogger()
	st := store.New(filepath.Join(t.TempDir(), "products.json"))
	if err := st.Save(seed); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	snap := query.NewSnapshot(seed)
	qs := query.NewService(snap)
	h := hub.New(st, snap)
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	gqlHandler, err := gql.NewHandler(qs)
	if err != nil {
		t.Fatalf("graphql handler: %v", err)
	}
	app := NewShopApp(config.Load(), qs, h, gqlHandler)
	srv := httptest.NewServer(NewShopRouter(app))
	t.Cleanup(func() {
		srv.Close()
		cancel()
		h.Wait()
	})
	return srv, st
}

func dialWS(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", path, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readWS(t *testing.T, conn *websocket.Conn) []byte {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return data
}

func TestShopRESTFallback(t *testing.T) {
	price := 9.5
	srv, _ := setupShop(t, []model.Product{{ID: "1", Name: "Mug", Price: &price}})
	resp, err := http.Get(srv.URL + "/products")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var products []model.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Mug" {
		t.Fatalf("unexpected products: %+v", products)
	}
}

func TestGraphQLEndpoint(t *testing.T) {
	srv, _ := setupShop(t, []model.Product{{ID: "1", Name: "Mug"}})
	body := strings.NewReader(`{"query":"{ products { id name } }"}`)
	resp, err := http.Post(srv.URL+"/graphql", "application/json", body)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var out struct {
		Data struct {
			Products []struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"products"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Data.Products) != 1 || out.Data.Products[0].Name != "Mug" {
		t.Fatalf("unexpected graphql response: %+v", out)
	}
}

func TestWSChatBroadcast(t *testing.T) {
	srv, _ := setupShop(t, nil)
	a := dialWS(t, srv, "/ws")
	b := dialWS(t, srv, "/ws")
	// both registered once the server side processes the upgrades; give the
	// hub a moment before sending
	waitMetrics(t, srv, 2)

	if err := a.WriteMessage(websocket.TextMessage, []byte(`{"sender":"amy","text":"hi"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	rawA := readWS(t, a)
	rawB := readWS(t, b)
	if string(rawA) != string(rawB) {
		t.Fatalf("recipients saw different payloads")
	}
	var evt model.ChatMessage
	if err := json.Unmarshal(rawB, &evt); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if evt.Type != "chat-message" || evt.Sender != "amy" || evt.Text != "hi" {
		t.Fatalf("unexpected event: %+v", evt)
	}
	if _, err := time.Parse(time.RFC3339Nano, evt.ServerTimestamp); err != nil {
		t.Fatalf("bad server timestamp: %v", err)
	}
}

func TestWSAdminRefreshBroadcast(t *testing.T) {
	srv, st := setupShop(t, nil)
	plain := dialWS(t, srv, "/ws")
	admin := dialWS(t, srv, "/ws/admin")
	waitMetrics(t, srv, 2)

	if err := st.Save([]model.Product{{ID: "1", Name: "Fresh"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := admin.WriteMessage(websocket.TextMessage, []byte(`{"type":"data-changed"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}

	var evt model.DataChanged
	if err := json.Unmarshal(readWS(t, plain), &evt); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if evt.Type != "data-changed" || len(evt.Products) != 1 || evt.Products[0].Name != "Fresh" {
		t.Fatalf("unexpected refresh event: %+v", evt)
	}

	// the admin connection must not receive the broadcast
	_ = admin.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	if _, _, err := admin.ReadMessage(); err == nil {
		t.Fatalf("admin connection received a broadcast")
	}

	// the REST fallback now serves the refreshed snapshot
	resp, err := http.Get(srv.URL + "/products")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var products []model.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Fresh" {
		t.Fatalf("snapshot not refreshed: %+v", products)
	}
}

func TestWSMalformedPayloadKeepsConnection(t *testing.T) {
	srv, _ := setupShop(t, nil)
	a := dialWS(t, srv, "/ws")
	waitMetrics(t, srv, 1)

	if err := a.WriteMessage(websocket.TextMessage, []byte("{garbage")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := a.WriteMessage(websocket.TextMessage, []byte(`{"sender":"amy","text":"still here"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	var evt model.ChatMessage
	if err := json.Unmarshal(readWS(t, a), &evt); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if evt.Text != "still here" {
		t.Fatalf("connection did not survive malformed payload: %+v", evt)
	}
}

func TestShopMetrics(t *testing.T) {
	srv, _ := setupShop(t, nil)
	resp, err := http.Get(srv.URL + "/debug/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var m map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"ws_clients", "ws_broadcasts", "snapshot_reloads", "snapshot_size"} {
		if _, ok := m[key]; !ok {
			t.Fatalf("missing metric %s", key)
		}
	}
}

// waitMetrics polls /debug/metrics until the hub reports n connected clients.
func waitMetrics(t *testing.T, srv *httptest.Server, n float64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(srv.URL + "/debug/metrics")
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
	t.Fatalf("hub never reached %v clients", n)
}
