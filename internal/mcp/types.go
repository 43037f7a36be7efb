package mcp

import (
	"github.com/1broseidon/webdesk/internal/ipc"
	"github.com/1broseidon/webdesk/internal/panel"
)

// ListPanelsInput is the input for the list_panels tool.
type ListPanelsInput struct {
	VisibleOnly bool `json:"visible_only,omitempty" jsonschema:"When true, omit closed panels (default: false)"`
}

// PanelsOutput carries the desktop panel list.
type PanelsOutput struct {
	Panels []panel.Snapshot `json:"panels"`
}

// PointerEventInput is the input for the pointer_event tool.
type PointerEventInput struct {
	Type   string `json:"type" jsonschema:"required,Event phase: down, move, up or cancel"`
	Source string `json:"source,omitempty" jsonschema:"Input device: mouse or touch (default: mouse)"`
	X      int    `json:"x" jsonschema:"Horizontal desktop pixel coordinate"`
	Y      int    `json:"y" jsonschema:"Vertical desktop pixel coordinate"`
}

// PointerEventOutput is the output for the pointer_event tool.
type PointerEventOutput struct {
	PreventDefault bool             `json:"prevent_default"`
	Hit            *ipc.HitInfo     `json:"hit,omitempty"`
	Panels         []panel.Snapshot `json:"panels"`
}

// DragPanelInput is the input for the drag_panel tool.
type DragPanelInput struct {
	FromX int `json:"from_x" jsonschema:"required,Press x coordinate"`
	FromY int `json:"from_y" jsonschema:"required,Press y coordinate"`
	ToX   int `json:"to_x" jsonschema:"required,Release x coordinate"`
	ToY   int `json:"to_y" jsonschema:"required,Release y coordinate"`
	Steps int `json:"steps,omitempty" jsonschema:"Number of move events between press and release (default: 8, max: 200)"`
}

// DragPanelOutput is the output for the drag_panel tool.
type DragPanelOutput struct {
	Hit     ipc.HitInfo     `json:"hit"`
	Dragged bool            `json:"dragged"`
	Panel   *panel.Snapshot `json:"panel,omitempty"`
}

// PanelIDInput is the input for close_panel and focus_panel.
type PanelIDInput struct {
	PanelID string `json:"panel_id" jsonschema:"required,Panel id as returned by list_panels"`
}

// OpenPanelInput is the input for the open_panel tool.
type OpenPanelInput struct {
	Title     string `json:"title,omitempty" jsonschema:"Title bar text (default: Untitled)"`
	App       string `json:"app,omitempty" jsonschema:"Body content: blank, browser, calculator or editor (default: blank)"`
	Resizable *bool  `json:"resizable,omitempty" jsonschema:"Whether edges and corners resize the panel (default: true)"`
}

// OpenPanelOutput is the output for the open_panel tool.
type OpenPanelOutput struct {
	Panel panel.Snapshot `json:"panel"`
}
