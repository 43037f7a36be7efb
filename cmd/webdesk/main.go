package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/webdesk/internal/config"
	"github.com/1broseidon/webdesk/internal/daemon"
	"github.com/1broseidon/webdesk/internal/ipc"
	"github.com/1broseidon/webdesk/internal/logging"
)

// stdout receives command output; tests swap it.
var stdout io.Writer = os.Stdout

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "serve":
		os.Exit(runServe(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "panels":
		os.Exit(runPanels(os.Args[2:]))
	case "pointer":
		os.Exit(runPointer(os.Args[2:]))
	case "drag":
		os.Exit(runDrag(os.Args[2:]))
	case "close":
		os.Exit(runClose(os.Args[2:]))
	case "focus":
		os.Exit(runFocus(os.Args[2:]))
	case "open":
		os.Exit(runOpen(os.Args[2:]))
	case "reset":
		os.Exit(runReset(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: webdesk <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve               Serve the desktop in the foreground (browser + control socket)")
	fmt.Fprintln(w, "  tui                 Run the desktop in this terminal")
	fmt.Fprintln(w, "  status              Show desktop status")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  panels              List panels")
	fmt.Fprintln(w, "  pointer             Send one pointer event")
	fmt.Fprintln(w, "  drag                Press, move and release in one gesture")
	fmt.Fprintln(w, "  close               Close a panel")
	fmt.Fprintln(w, "  focus               Focus a panel")
	fmt.Fprintln(w, "  open                Open a new panel")
	fmt.Fprintln(w, "  reset               Restore the configured panels")
	fmt.Fprintln(w, "  reload              Re-read the config file")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'webdesk <command> --help' for command-specific options.")
}

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/webdesk/config.yaml)")
	listen := fs.String("listen", "", "Web listen address (default: web.listen from config)")
	socket := fs.String("socket", "", "Control socket path (default: $XDG_RUNTIME_DIR/webdesk.sock)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: webdesk serve [--path PATH] [--listen ADDR] [--socket PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Serve the desktop to browsers and accept control commands until interrupted.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "serve takes no arguments")
		fs.Usage()
		return 2
	}

	res, configPath, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	logger, closeLog, err := newLogger(res.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer closeLog()

	ctx, cancel := signalContext()
	defer cancel()

	err = daemon.Run(ctx, daemon.Options{
		Config:     res.Config,
		ConfigPath: configPath,
		Listen:     *listen,
		SocketPath: *socket,
		Logger:     logger,
		Started: func(webAddr, socketPath string) {
			fmt.Fprintf(os.Stderr, "webdesk serving http://%s (control socket %s)\n", webAddr, socketPath)
		},
	})
	if err != nil {
		logger.Error("webdesk stopped", "error", err)
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: webdesk status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show desktop status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Fprintf(stdout, "desktop:        %dx%d\n", status.Desktop.Width, status.Desktop.Height)
	fmt.Fprintf(stdout, "panels:         %d (%d visible)\n", status.Panels, status.Visible)
	fmt.Fprintf(stdout, "focused:        %s\n", orNone(status.Focused))
	if status.Dragging {
		fmt.Fprintf(stdout, "dragging:       %s (%s)\n", status.DragPanel, status.Affordance)
	} else {
		fmt.Fprintln(stdout, "dragging:       none")
	}
	fmt.Fprintf(stdout, "subscribers:    %d\n", status.Subscribers)
	fmt.Fprintf(stdout, "uptime_seconds: %d\n", status.UptimeSeconds)
	if status.ConfigPath != "" {
		fmt.Fprintf(stdout, "config_path:    %s\n", status.ConfigPath)
	}
	return 0
}

// loadConfig loads path, or the default config file when path is empty, and
// returns the file it read.
func loadConfig(path string) (*config.LoadResult, string, error) {
	if path == "" {
		def, err := config.DefaultConfigPath()
		if err != nil {
			return nil, "", err
		}
		path = def
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, "", err
	}
	return res, path, nil
}

func newLogger(cfg *config.Config) (*slog.Logger, func() error, error) {
	return logging.New(logging.Options{
		Level:     cfg.LogLevel,
		File:      cfg.LogFile(),
		MaxSizeMB: cfg.Logging.MaxSizeMB,
		MaxFiles:  cfg.Logging.MaxFiles,
	})
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	var usage usageError
	if errors.As(err, &usage) {
		return 2
	}
	return 1
}

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }
