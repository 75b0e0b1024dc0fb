// Package main boots the shop server: REST fallback, GraphQL endpoint, and
// the realtime websocket hub.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fairyhunter13/demo-shop/internal/config"
	"github.com/fairyhunter13/demo-shop/internal/gql"
	httpapi "github.com/fairyhunter13/demo-shop/internal/http"
	"github.com/fairyhunter13/demo-shop/internal/hub"
	"github.com/fairyhunter13/demo-shop/internal/obs"
	"github.com/fairyhunter13/demo-shop/internal/query"
	"github.com/fairyhunter13/demo-shop/internal/store"
	"github.com/fairyhunter13/demo-shop/internal/watch"
)

func main() {
	cfg := config.Load()
	obs.InitLogger()
	obs.Logger.Info("shop_server_starting", "products_file", cfg.ProductsFile)

	st := store.New(cfg.ProductsFile)
	products, err := st.Load()
	if err != nil {
		// start with an empty snapshot; an admin signal or file-watch event
		// can populate it once the file is fixed
		obs.Logger.Error("initial_load_failed", "error", err.Error())
		products = nil
	}
	snap := query.NewSnapshot(products)
	qs := query.NewService(snap)

	h := hub.New(st, snap)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	if cfg.WatchProducts {
		w := watch.New(st, h.Refresh)
		go func() {
			if err := w.Run(ctx); err != nil {
				obs.Logger.Error("watch_failed", "error", err.Error())
			}
		}()
	}

	gqlHandler, err := gql.NewHandler(qs)
	if err != nil {
		obs.Logger.Error("graphql_schema_error", "error", err.Error())
		os.Exit(1)
	}
	app := httpapi.NewShopApp(cfg, qs, h, gqlHandler)
	mux := httpapi.NewShopRouter(app)

	// no Read/WriteTimeout here: websocket connections are long-lived
	srv := &http.Server{
		Addr:              cfg.ShopHTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.ShopHTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			obs.Logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Info("shutdown_signal", "signal", s.String())

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	cancel()
	h.Wait()
	obs.Logger.Info("shop_server_stopped")
}
