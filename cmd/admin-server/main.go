// Package main boots the admin CRUD server over the product catalog file.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fairyhunter13/demo-shop/internal/catalog"
	"github.com/fairyhunter13/demo-shop/internal/config"
	httpapi "github.com/fairyhunter13/demo-shop/internal/http"
	"github.com/fairyhunter13/demo-shop/internal/obs"
	"github.com/fairyhunter13/demo-shop/internal/store"
)

func main() {
	cfg := config.Load()
	obs.InitLogger()
	obs.Logger.Info("admin_server_starting", "products_file", cfg.ProductsFile)

	st := store.New(cfg.ProductsFile)
	svc := catalog.NewService(st)
	app := httpapi.NewAdminApp(cfg, svc)
	mux := httpapi.NewAdminRouter(app)

	srv := &http.Server{
		Addr:              cfg.AdminHTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.AdminHTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			obs.Logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Info("shutdown_signal", "signal", s.String())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	obs.Logger.Info("admin_server_stopped")
}
