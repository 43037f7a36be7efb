package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/1broseidon/webdesk/internal/config"
)

// ReloadFunc applies a freshly loaded configuration.
type ReloadFunc func(*config.Config) error

// WatcherConfig holds configuration for the config watcher.
type WatcherConfig struct {
	// Path is the root config file. Included files are watched too.
	Path     string
	Debounce time.Duration
	Logger   *slog.Logger
}

// Watcher reloads the configuration when its files change on disk.
type Watcher struct {
	path     string
	debounce time.Duration
	reload   ReloadFunc
	logger   *slog.Logger

	mu    sync.Mutex
	files map[string]struct{}
	dirs  map[string]struct{}

	ready chan struct{}
}

// NewWatcher creates a watcher that calls reload with each valid new config.
func NewWatcher(cfg WatcherConfig, reload ReloadFunc) *Watcher {
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{
		path:     cfg.Path,
		debounce: debounce,
		reload:   reload,
		logger:   logger,
		files:    make(map[string]struct{}),
		dirs:     make(map[string]struct{}),
		ready:    make(chan struct{}),
	}
}

// Ready is closed once the initial watches are in place.
func (w *Watcher) Ready() <-chan struct{} { return w.ready }

// Run watches until the context is cancelled. Editors that replace files
// atomically are handled by watching the containing directories.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	w.refresh(fw, nil)
	close(w.ready)

	w.logger.Info("config watcher started", "path", w.path, "debounce", w.debounce)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("config watcher stopped")
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.watched(ev.Name) || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) {
				continue
			}
			w.logger.Debug("config file changed", "file", ev.Name, "op", ev.Op.String())
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watcher error", "error", err)
		case <-timer.C:
			res := w.reloadOnce()
			w.refresh(fw, res)
		}
	}
}

// ReloadNow loads and applies the configuration immediately.
func (w *Watcher) ReloadNow() error {
	res, err := config.LoadFromPath(w.path)
	if err != nil {
		return err
	}
	return w.reload(res.Config)
}

// reloadOnce performs a single reload pass. Invalid configs are logged and
// leave the running desktop untouched.
func (w *Watcher) reloadOnce() (res *config.LoadResult) {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			w.logger.Error("config reload panic recovered", "error", err)
			res = nil
		}
	}()

	res, err := config.LoadFromPath(w.path)
	if err != nil {
		w.logger.Warn("config reload rejected", "error", err)
		return nil
	}
	if err := w.reload(res.Config); err != nil {
		w.logger.Error("config reload failed", "error", err)
		return res
	}
	w.logger.Info("config reloaded", "panels", len(res.Config.Panels), "files", len(res.Files))
	return res
}

// refresh updates the watched file set from the last successful load,
// adding directories for newly included files.
func (w *Watcher) refresh(fw *fsnotify.Watcher, res *config.LoadResult) {
	files := []string{w.path}
	if res != nil {
		files = append(files, res.Files...)
	} else if loaded, err := config.LoadFromPath(w.path); err == nil {
		files = append(files, loaded.Files...)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			continue
		}
		w.files[abs] = struct{}{}
		dir := filepath.Dir(abs)
		if _, ok := w.dirs[dir]; ok {
			continue
		}
		if err := fw.Add(dir); err != nil {
			w.logger.Warn("failed to watch config directory", "dir", dir, "error", err)
			continue
		}
		w.dirs[dir] = struct{}{}
	}
}

func (w *Watcher) watched(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.files[abs]
	return ok
}
