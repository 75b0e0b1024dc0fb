// Package watch refreshes the catalog snapshot when the products file
// changes on disk outside the admin signal path.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fairyhunter13/demo-shop/internal/model"
	"github.com/fairyhunter13/demo-shop/internal/obs"
	"github.com/fairyhunter13/demo-shop/internal/store"
	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the store after the products file is rewritten. Reloads
// are debounced because a single save shows up as several fs events.
type Watcher struct {
	st       *store.FileStore
	onReload func([]model.Product)
	debounce time.Duration
}

// New constructs a Watcher that calls onReload with the fresh product list.
func New(st *store.FileStore, onReload func([]model.Product)) *Watcher {
	return &Watcher{st: st, onReload: onReload, debounce: 200 * time.Millisecond}
}

// Run watches until the context is cancelled. The parent directory is
// watched, not the file itself, so rename-based saves keep being seen.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()
	if err := fw.Add(filepath.Dir(w.st.Path())); err != nil {
		return err
	}
	obs.Logger.Info("watch_started", "file", w.st.Path())

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	target := filepath.Clean(w.st.Path())
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			obs.Logger.Warn("watch_error", "error", err.Error())
		case <-timer.C:
			products, err := w.st.Load()
			if err != nil {
				obs.Logger.Warn("watch_reload_failed", "error", err.Error())
				continue
			}
			obs.Logger.Info("watch_reload", "products", len(products))
			w.onReload(products)
		}
	}
}
