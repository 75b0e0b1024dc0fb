// Package config provides runtime configuration values for both servers.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds configuration knobs for the admin and shop servers.
type Config struct {
	AdminHTTPAddr   string
	ShopHTTPAddr    string
	ProductsFile    string
	ShutdownTimeout time.Duration
	WatchProducts   bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	return time.Duration(sec) * time.Second
}

func boolenv(key string, def bool) bool {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		AdminHTTPAddr:   getenv("ADMIN_HTTP_ADDR", ":3001"),
		ShopHTTPAddr:    getenv("SHOP_HTTP_ADDR", ":5000"),
		ProductsFile:    getenv("PRODUCTS_FILE", "data/products.json"),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 15),
		WatchProducts:   boolenv("WATCH_PRODUCTS", false),
	}
}
