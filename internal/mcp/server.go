package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/webdesk/internal/desktop"
	"github.com/1broseidon/webdesk/internal/ipc"
	"github.com/1broseidon/webdesk/internal/panel"
	"github.com/1broseidon/webdesk/internal/surface"
)

const (
	ServerName    = "webdesk"
	ServerVersion = "0.1.0"

	defaultDragSteps = 8
	maxDragSteps     = 200
)

// Controller is the desktop surface the tools drive. *ipc.Client satisfies
// it for a desktop running in another process.
type Controller interface {
	ListPanels() ([]panel.Snapshot, error)
	Pointer(ev surface.PointerEvent) (*ipc.PointerData, error)
	ClosePanel(id string) error
	FocusPanel(id string) error
	OpenPanel(req desktop.OpenRequest) (panel.Snapshot, error)
}

// Server is the MCP server exposing desktop control tools.
type Server struct {
	mcpServer *mcpsdk.Server
	ctl       Controller
	logger    *slog.Logger
}

// NewServer creates an MCP server backed by ctl.
func NewServer(ctl Controller, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{ctl: ctl, logger: logger}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_panels",
		Description: "List every panel on the desktop in mount order with its geometry, stacking rank, visibility and focus. Ranks are 1 for the focused panel and 0 otherwise.",
	}, s.handleListPanels)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "pointer_event",
		Description: "Inject one low-level pointer event (down, move, up or cancel) at desktop pixel coordinates. A down event reports what was hit. Returns whether a browser would suppress its default action and the resulting panel state.",
	}, s.handlePointerEvent)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "drag_panel",
		Description: "Press at (from_x, from_y), move to (to_x, to_y) in evenly spaced steps, then release. Pressing a title bar moves the panel; pressing an edge or corner resizes it. Returns the press hit and the dragged panel's final geometry.",
	}, s.handleDragPanel)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_panel",
		Description: "Hide a visible panel, as clicking its close button would.",
	}, s.handleClosePanel)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_panel",
		Description: "Raise a visible panel to the top of the stack and focus it.",
	}, s.handleFocusPanel)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_panel",
		Description: "Open a new panel at the next cascade slot, on top and focused. app is one of blank, browser, calculator or editor.",
	}, s.handleOpenPanel)
}

// DesktopController drives an in-process desktop.
type DesktopController struct {
	Desk *desktop.Desktop
}

func (c DesktopController) ListPanels() ([]panel.Snapshot, error) {
	return c.Desk.Snapshot(), nil
}

func (c DesktopController) Pointer(ev surface.PointerEvent) (*ipc.PointerData, error) {
	if _, err := surface.ParseEventType(string(ev.Type)); err != nil {
		return nil, err
	}
	if ev.Source == "" {
		ev.Source = surface.SourceMouse
	}
	res, panels := c.Desk.Dispatch(ev)
	data := &ipc.PointerData{PreventDefault: res.PreventDefault, Panels: panels}
	if ev.Type == surface.EventDown {
		hit := ipc.NewHitInfo(res.Hit)
		data.Hit = &hit
	}
	return data, nil
}

func (c DesktopController) ClosePanel(id string) error { return c.Desk.Close(id) }

func (c DesktopController) FocusPanel(id string) error { return c.Desk.Focus(id) }

func (c DesktopController) OpenPanel(req desktop.OpenRequest) (panel.Snapshot, error) {
	return c.Desk.Open(req)
}
