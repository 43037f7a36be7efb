// Package daemon runs a desktop session in the foreground: the browser host,
// the control socket and the config watcher.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/webdesk/internal/config"
	"github.com/1broseidon/webdesk/internal/desktop"
	"github.com/1broseidon/webdesk/internal/ipc"
	"github.com/1broseidon/webdesk/internal/web"
)

// Options configures Run.
type Options struct {
	Config *config.Config
	// ConfigPath is the file RELOAD and the watcher read. Empty disables
	// both.
	ConfigPath string
	// Listen overrides the configured web address.
	Listen string
	// SocketPath overrides the default control socket path.
	SocketPath string
	Logger     *slog.Logger
	// Started, when set, is called once every listener is up.
	Started func(webAddr, socketPath string)
}

// Run serves a desktop until ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	desk, err := desktop.New(desktop.Options{Config: cfg, Logger: logger})
	if err != nil {
		return fmt.Errorf("failed to build desktop: %w", err)
	}

	var ipcServer *ipc.Server
	if opts.SocketPath != "" {
		ipcServer = ipc.NewServerAt(opts.SocketPath, desk, opts.ConfigPath)
	} else {
		ipcServer, err = ipc.NewServer(desk, opts.ConfigPath)
		if err != nil {
			return err
		}
	}
	if err := ipcServer.Start(); err != nil {
		return err
	}
	defer ipcServer.Stop()

	listen := opts.Listen
	if listen == "" {
		listen = cfg.Web.Listen
	}
	webServer := web.New(web.Options{Addr: listen, Desk: desk, Logger: logger})
	if err := webServer.Start(); err != nil {
		return err
	}

	var wg sync.WaitGroup
	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()
	if opts.ConfigPath != "" && cfg.WatchConfig {
		watcher := NewWatcher(WatcherConfig{Path: opts.ConfigPath, Logger: logger}, desk.Reload)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := watcher.Run(watchCtx); err != nil {
				logger.Error("config watcher failed", "error", err)
			}
		}()
	}

	logger.Info("webdesk started",
		"web", webServer.Addr(),
		"socket", ipcServer.SocketPath(),
		"panels", len(cfg.Panels))
	if opts.Started != nil {
		opts.Started(webServer.Addr(), ipcServer.SocketPath())
	}

	<-ctx.Done()
	logger.Info("shutting down webdesk")

	cancelWatch()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = webServer.Shutdown(shutdownCtx)
	wg.Wait()
	return err
}
