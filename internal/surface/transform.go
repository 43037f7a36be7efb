package surface

import "github.com/1broseidon/webdesk/internal/panel"

// Size is a minimum panel size.
type Size struct {
	Width  int
	Height int
}

// DefaultMinSize is the size floor derived from the title bar and margins.
func DefaultMinSize() Size {
	return Size{Width: panel.MinWidth, Height: panel.MinHeight}
}

// DragState is the in-flight record of an armed pointer drag.
type DragState struct {
	Affordance     panel.Affordance
	PanelID        string
	OriginPointer  Point
	OriginGeometry panel.Rect
}

// Transform computes the geometry for a drag with pointer delta (dx, dy)
// from the origin snapshot. Edges anchored at the right or bottom are floored
// at the minimum size. Edges anchored at the left or top move together with
// their dimension and are left at the origin for the frame when the
// dimension would cross the floor.
func Transform(a panel.Affordance, origin panel.Rect, dx, dy int, limit Size) panel.Rect {
	out := origin

	// Slack before the left/top handles hit the floor.
	xRange := origin.Width - dx - limit.Width
	yRange := origin.Height - dy - limit.Height

	switch a {
	case panel.AffordanceMove:
		out.Left = origin.Left + dx
		out.Top = origin.Top + dy
	case panel.AffordanceResizeRight:
		out.Width = floor(origin.Width+dx, limit.Width)
	case panel.AffordanceResizeBottom:
		out.Height = floor(origin.Height+dy, limit.Height)
	case panel.AffordanceResizeBottomRight:
		out.Width = floor(origin.Width+dx, limit.Width)
		out.Height = floor(origin.Height+dy, limit.Height)
	case panel.AffordanceResizeTopRight:
		out.Top = origin.Top + dy
		out.Width = floor(origin.Width+dx, limit.Width)
		out.Height = floor(origin.Height-dy, limit.Height)
	case panel.AffordanceResizeLeft:
		if xRange >= 0 {
			out.Left = origin.Left + dx
			out.Width = origin.Width - dx
		}
	case panel.AffordanceResizeTop:
		if yRange >= 0 {
			out.Top = origin.Top + dy
			out.Height = origin.Height - dy
		}
	case panel.AffordanceResizeBottomLeft:
		if xRange >= 0 {
			out.Left = origin.Left + dx
		}
		out.Width = floor(origin.Width-dx, limit.Width)
		out.Height = floor(origin.Height+dy, limit.Height)
	case panel.AffordanceResizeTopLeft:
		// Each axis is gated on its own.
		if xRange >= 0 {
			out.Left = origin.Left + dx
			out.Width = origin.Width - dx
		}
		if yRange >= 0 {
			out.Top = origin.Top + dy
			out.Height = origin.Height - dy
		}
	}

	out.Width = floor(out.Width, limit.Width)
	out.Height = floor(out.Height, limit.Height)
	return out
}

func floor(v, limit int) int {
	if v < limit {
		return limit
	}
	return v
}
