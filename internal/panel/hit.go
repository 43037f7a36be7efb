package panel

// Metrics sizes the hit regions laid out inside a panel rectangle.
type Metrics struct {
	TitleBarHeight int
	BodyMargin     int
	HandleSize     int
	ButtonWidth    int
}

// DefaultMetrics returns the metrics used by the browser host.
func DefaultMetrics() Metrics {
	return Metrics{
		TitleBarHeight: TitleBarHeight,
		BodyMargin:     BodyMargin,
		HandleSize:     6,
		ButtonWidth:    24,
	}
}

// HitKind tags the region a point falls on.
type HitKind int

const (
	// HitOther is the empty desktop.
	HitOther HitKind = iota
	HitTitleBar
	HitBody
	HitResize
	HitChrome
	// HitFrame is inside a panel but on no named region.
	HitFrame
)

func (k HitKind) String() string {
	switch k {
	case HitOther:
		return "other"
	case HitTitleBar:
		return "titlebar"
	case HitBody:
		return "body"
	case HitResize:
		return "resize"
	case HitChrome:
		return "chrome"
	case HitFrame:
		return "frame"
	default:
		return "unknown"
	}
}

// ChromeButton identifies a title bar icon.
type ChromeButton int

const (
	ButtonNone ChromeButton = iota
	ButtonMinimize
	ButtonMaximize
	ButtonClose
)

func (b ChromeButton) String() string {
	switch b {
	case ButtonMinimize:
		return "minimize"
	case ButtonMaximize:
		return "maximize"
	case ButtonClose:
		return "close"
	default:
		return "none"
	}
}

// Hit is the classification of a point against the desktop.
type Hit struct {
	Kind       HitKind
	PanelID    string
	Affordance Affordance
	Button     ChromeButton
}

// DragAffordance returns the affordance a press on this hit arms, or
// AffordanceNone when the hit is not drag-eligible.
func (h Hit) DragAffordance() Affordance {
	switch h.Kind {
	case HitTitleBar:
		return AffordanceMove
	case HitResize:
		return h.Affordance
	}
	return AffordanceNone
}

// Focusable reports whether a press on this hit raises and focuses its panel.
func (h Hit) Focusable() bool {
	return h.Kind == HitTitleBar || h.Kind == HitResize || h.Kind == HitBody
}

// Region is a named hit region in desktop coordinates.
type Region struct {
	Hit  Hit
	Rect Rect
}

// Regions lays out the panel's named hit regions in priority order. Hidden
// panels have none; non-resizable panels have no resize handles.
func (p *Panel) Regions() []Region {
	if !p.visible {
		return nil
	}
	g := p.geometry
	m := p.metrics
	var out []Region

	if p.resizable {
		h := m.HandleSize
		handles := map[Affordance]Rect{
			AffordanceResizeTopLeft:     {Top: g.Top, Left: g.Left, Width: h, Height: h},
			AffordanceResizeTopRight:    {Top: g.Top, Left: g.Right() - h, Width: h, Height: h},
			AffordanceResizeBottomLeft:  {Top: g.Bottom() - h, Left: g.Left, Width: h, Height: h},
			AffordanceResizeBottomRight: {Top: g.Bottom() - h, Left: g.Right() - h, Width: h, Height: h},
			AffordanceResizeTop:         {Top: g.Top, Left: g.Left + h, Width: g.Width - 2*h, Height: h},
			AffordanceResizeRight:       {Top: g.Top + h, Left: g.Right() - h, Width: h, Height: g.Height - 2*h},
			AffordanceResizeBottom:      {Top: g.Bottom() - h, Left: g.Left + h, Width: g.Width - 2*h, Height: h},
			AffordanceResizeLeft:        {Top: g.Top + h, Left: g.Left, Width: h, Height: g.Height - 2*h},
		}
		for _, a := range ResizeAffordances() {
			out = append(out, Region{
				Hit:  Hit{Kind: HitResize, PanelID: p.id, Affordance: a},
				Rect: handles[a],
			})
		}
	}

	title := p.TitleBarRect()
	right := title.Right()
	for _, b := range []ChromeButton{ButtonClose, ButtonMaximize, ButtonMinimize} {
		right -= m.ButtonWidth
		out = append(out, Region{
			Hit:  Hit{Kind: HitChrome, PanelID: p.id, Button: b},
			Rect: Rect{Top: title.Top, Left: right, Width: m.ButtonWidth, Height: title.Height},
		})
	}
	out = append(out,
		Region{Hit: Hit{Kind: HitTitleBar, PanelID: p.id}, Rect: title},
		Region{Hit: Hit{Kind: HitBody, PanelID: p.id}, Rect: p.BodyRect()},
	)
	return out
}

// TitleBarRect returns the title bar rectangle.
func (p *Panel) TitleBarRect() Rect {
	g := p.geometry
	return Rect{Top: g.Top, Left: g.Left, Width: g.Width, Height: p.metrics.TitleBarHeight}
}

// BodyRect returns the content rectangle below the title bar.
func (p *Panel) BodyRect() Rect {
	m := p.metrics.BodyMargin
	g := p.geometry
	return Rect{
		Top:    g.Top + p.metrics.TitleBarHeight + m,
		Left:   g.Left + m,
		Width:  g.Width - 2*m,
		Height: g.Height - p.metrics.TitleBarHeight - 3*m,
	}
}

// HitTest classifies (x, y) against this panel alone. It reports false when
// the point is outside the panel or the panel is hidden.
func (p *Panel) HitTest(x, y int) (Hit, bool) {
	if !p.visible || !p.geometry.Contains(x, y) {
		return Hit{}, false
	}
	for _, r := range p.Regions() {
		if r.Rect.Contains(x, y) {
			return r.Hit, true
		}
	}
	return Hit{Kind: HitFrame, PanelID: p.id}, true
}
