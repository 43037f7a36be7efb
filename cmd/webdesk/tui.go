package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/1broseidon/webdesk/internal/desktop"
	"github.com/1broseidon/webdesk/internal/tui"
	"github.com/1broseidon/webdesk/internal/web"
)

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/webdesk/config.yaml)")
	listen := fs.String("listen", "", "Also serve the same desktop to browsers on this address")

	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stderr, "Usage: webdesk tui [--path PATH] [--listen ADDR]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run the desktop in this terminal. Each cell samples one desktop pixel;")
		fmt.Fprintln(os.Stderr, "drag title bars to move panels and edges to resize them.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  Tab       Focus next panel")
		fmt.Fprintln(os.Stderr, "  x         Close focused panel")
		fmt.Fprintln(os.Stderr, "  o         Open a new panel")
		fmt.Fprintln(os.Stderr, "  l         Pick a panel to focus")
		fmt.Fprintln(os.Stderr, "  r         Restore configured panels")
		fmt.Fprintln(os.Stderr, "  Esc       Cancel drag / close dialog")
		fmt.Fprintln(os.Stderr, "  ?         Toggle help")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C Quit")
		return 0
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	res, _, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config

	// Logs must stay off the alternate screen.
	if cfg.LogFile() == "" {
		cfg.LogLevel = "error"
	}
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer closeLog()

	desk, err := desktop.New(desktop.Options{
		Config:  cfg,
		Metrics: tui.Metrics(cfg.TUI),
		Logger:  logger,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, cancel := signalContext()
	defer cancel()

	if *listen != "" {
		srv := web.New(web.Options{Addr: *listen, Desk: desk, Logger: logger})
		if err := srv.Start(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		defer func() {
			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancelShutdown()
			srv.Shutdown(shutdownCtx)
		}()
	}

	if err := tui.Run(ctx, tui.Options{Desk: desk, Cells: cfg.TUI, Logger: logger}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
