// Package tui hosts a desktop in a terminal. Each character cell stands for
// the desktop pixel at its center, and terminal mouse reports become pointer
// events.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/webdesk/internal/config"
	"github.com/1broseidon/webdesk/internal/desktop"
	"github.com/1broseidon/webdesk/internal/panel"
)

// Options configures Run.
type Options struct {
	Desk   *desktop.Desktop
	Cells  config.TUIConfig
	Logger *slog.Logger
}

// Metrics sizes panel hit regions for cell sampling: every title bar keeps
// at least one row below the top handle, and side handles and chrome
// buttons each own at least one column.
func Metrics(cells config.TUIConfig) panel.Metrics {
	return panel.Metrics{
		TitleBarHeight: 2 * cells.CellHeight,
		BodyMargin:     panel.BodyMargin,
		HandleSize:     cells.CellWidth,
		ButtonWidth:    2 * cells.CellWidth,
	}
}

// Run shows the desktop until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	m := newModel(opts.Desk, opts.Cells)
	defer m.unsubscribe()

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	logger.Info("tui started", "cell_width", opts.Cells.CellWidth, "cell_height", opts.Cells.CellHeight)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
