package httpapi

import (
	"net/http"

	"github.com/fairyhunter13/demo-shop/internal/hub"
	"github.com/fairyhunter13/demo-shop/internal/obs"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Demo stack: all origins accepted.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsHandler upgrades the request and runs the connection's read loop. The
// role is fixed here, from the endpoint the client hit, for the lifetime of
// the connection.
func (a *ShopApp) wsHandler(role hub.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			obs.Logger.Error("ws_upgrade_failed", "error", err.Error())
			return
		}
		client := hub.NewClient(role, conn)
		a.Hub.Register(client)
		obs.Logger.Info("ws_client_connected", "client_id", client.ID(), "role", role.String())

		go func() {
			defer func() {
				a.Hub.Unregister(client)
				_ = conn.Close()
				obs.Logger.Info("ws_client_disconnected", "client_id", client.ID())
			}()
			for {
				_, data, err := conn.ReadMessage()
				if err != nil {
					return
				}
				a.Hub.Receive(client, data)
			}
		}()
	}
}
