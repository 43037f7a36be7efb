package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/webdesk/internal/desktop"
	"github.com/1broseidon/webdesk/internal/panel"
	"github.com/1broseidon/webdesk/internal/surface"
)

func (s *Server) handleListPanels(_ context.Context, _ *mcpsdk.CallToolRequest, args ListPanelsInput) (*mcpsdk.CallToolResult, PanelsOutput, error) {
	panels, err := s.ctl.ListPanels()
	if err != nil {
		return nil, PanelsOutput{}, err
	}
	if args.VisibleOnly {
		visible := panels[:0:0]
		for _, p := range panels {
			if p.Visible {
				visible = append(visible, p)
			}
		}
		panels = visible
	}
	return nil, PanelsOutput{Panels: panels}, nil
}

func (s *Server) handlePointerEvent(_ context.Context, _ *mcpsdk.CallToolRequest, args PointerEventInput) (*mcpsdk.CallToolResult, PointerEventOutput, error) {
	typ, err := surface.ParseEventType(args.Type)
	if err != nil {
		return nil, PointerEventOutput{}, err
	}
	ev, err := buildEvent(typ, args.Source, args.X, args.Y)
	if err != nil {
		return nil, PointerEventOutput{}, err
	}

	data, err := s.ctl.Pointer(ev)
	if err != nil {
		return nil, PointerEventOutput{}, err
	}
	return nil, PointerEventOutput{
		PreventDefault: data.PreventDefault,
		Hit:            data.Hit,
		Panels:         data.Panels,
	}, nil
}

func (s *Server) handleDragPanel(_ context.Context, _ *mcpsdk.CallToolRequest, args DragPanelInput) (*mcpsdk.CallToolResult, DragPanelOutput, error) {
	out, err := Drag(s.ctl, args)
	if err != nil {
		return nil, DragPanelOutput{}, err
	}
	s.logger.Debug("drag_panel", "panel", out.Hit.PanelID, "kind", out.Hit.Kind, "dragged", out.Dragged)
	return nil, out, nil
}

// Drag presses at the start point, moves to the end point in evenly spaced
// steps and releases there.
func Drag(ctl Controller, args DragPanelInput) (DragPanelOutput, error) {
	steps := args.Steps
	if steps <= 0 {
		steps = defaultDragSteps
	}
	if steps > maxDragSteps {
		return DragPanelOutput{}, fmt.Errorf("steps must be at most %d", maxDragSteps)
	}

	down, err := ctl.Pointer(surface.Mouse(surface.EventDown, args.FromX, args.FromY))
	if err != nil {
		return DragPanelOutput{}, err
	}
	var out DragPanelOutput
	if down.Hit != nil {
		out.Hit = *down.Hit
	}

	for i := 1; i <= steps; i++ {
		x := args.FromX + (args.ToX-args.FromX)*i/steps
		y := args.FromY + (args.ToY-args.FromY)*i/steps
		move, err := ctl.Pointer(surface.Mouse(surface.EventMove, x, y))
		if err != nil {
			// Leave no drag armed behind a failed move.
			ctl.Pointer(surface.Mouse(surface.EventCancel, x, y))
			return DragPanelOutput{}, err
		}
		if move.PreventDefault {
			out.Dragged = true
		}
	}

	up, err := ctl.Pointer(surface.Mouse(surface.EventUp, args.ToX, args.ToY))
	if err != nil {
		return DragPanelOutput{}, err
	}
	if out.Hit.PanelID != "" {
		if snap, ok := findPanel(up.Panels, out.Hit.PanelID); ok {
			out.Panel = &snap
		}
	}
	return out, nil
}

func (s *Server) handleClosePanel(_ context.Context, _ *mcpsdk.CallToolRequest, args PanelIDInput) (*mcpsdk.CallToolResult, PanelsOutput, error) {
	if args.PanelID == "" {
		return nil, PanelsOutput{}, fmt.Errorf("panel_id is required")
	}
	if err := s.ctl.ClosePanel(args.PanelID); err != nil {
		return nil, PanelsOutput{}, err
	}
	s.logger.Info("panel closed via mcp", "panel", args.PanelID)
	return s.panelsResult()
}

func (s *Server) handleFocusPanel(_ context.Context, _ *mcpsdk.CallToolRequest, args PanelIDInput) (*mcpsdk.CallToolResult, PanelsOutput, error) {
	if args.PanelID == "" {
		return nil, PanelsOutput{}, fmt.Errorf("panel_id is required")
	}
	if err := s.ctl.FocusPanel(args.PanelID); err != nil {
		return nil, PanelsOutput{}, err
	}
	return s.panelsResult()
}

func (s *Server) handleOpenPanel(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenPanelInput) (*mcpsdk.CallToolResult, OpenPanelOutput, error) {
	snap, err := s.ctl.OpenPanel(desktop.OpenRequest{
		Title:     args.Title,
		App:       panel.App(args.App),
		Resizable: args.Resizable,
	})
	if err != nil {
		return nil, OpenPanelOutput{}, err
	}
	s.logger.Info("panel opened via mcp", "panel", snap.ID, "title", snap.Title)
	return nil, OpenPanelOutput{Panel: snap}, nil
}

func (s *Server) panelsResult() (*mcpsdk.CallToolResult, PanelsOutput, error) {
	panels, err := s.ctl.ListPanels()
	if err != nil {
		return nil, PanelsOutput{}, err
	}
	return nil, PanelsOutput{Panels: panels}, nil
}

func buildEvent(typ surface.EventType, source string, x, y int) (surface.PointerEvent, error) {
	switch surface.Source(source) {
	case "", surface.SourceMouse:
		return surface.Mouse(typ, x, y), nil
	case surface.SourceTouch:
		return surface.Touch(typ, x, y), nil
	}
	return surface.PointerEvent{}, fmt.Errorf("unknown pointer source %q (want mouse or touch)", source)
}

func findPanel(panels []panel.Snapshot, id string) (panel.Snapshot, bool) {
	for _, p := range panels {
		if p.ID == id {
			return p, true
		}
	}
	return panel.Snapshot{}, false
}
