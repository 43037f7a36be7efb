// Package surface implements the pointer-interaction engine of the desktop.
//
// A Surface owns every panel's geometry and stacking rank. It receives one
// stream of pointer events for the whole desktop, classifies presses with a
// hit test, raises and focuses panels, and turns drags on a title bar or
// resize handle into geometry updates computed from the press snapshot.
//
// A Surface is not safe for concurrent use; the owner serializes events.
package surface

import (
	"log/slog"
	"sort"

	"github.com/1broseidon/webdesk/internal/panel"
)

// Options configures a Surface.
type Options struct {
	MinSize Size
	// OnChange is called with the new state of every panel whose geometry,
	// rank, focus or visibility changed.
	OnChange func(panel.Snapshot)
	// Hooks receive the chrome button notifications of every panel.
	Hooks  panel.Callbacks
	Logger *slog.Logger
}

// Result tells the host what an event did.
type Result struct {
	// PreventDefault asks the host to suppress its default gesture handling
	// (text selection, scrolling) for this event.
	PreventDefault bool
	Hit            panel.Hit
}

// Surface is the full-desktop interaction container.
type Surface struct {
	panels  []*panel.Panel
	drag    *DragState
	pressed *panel.Hit
	focused string

	minSize  Size
	onChange func(panel.Snapshot)
	hooks    panel.Callbacks
	logger   *slog.Logger
}

// New creates an empty surface.
func New(opts Options) *Surface {
	minSize := opts.MinSize
	if minSize == (Size{}) {
		minSize = DefaultMinSize()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Surface{
		minSize:  minSize,
		onChange: opts.OnChange,
		hooks:    opts.Hooks,
		logger:   logger,
	}
}

// Add mounts a panel on the surface. Later panels stack above earlier ones
// at equal rank. The surface takes over the panel's callbacks.
func (s *Surface) Add(p *panel.Panel) {
	p.SetCallbacks(panel.Callbacks{
		OnFocus:    s.handlePanelFocus,
		OnClose:    s.handlePanelClose,
		OnMinimize: s.hooks.OnMinimize,
		OnMaximize: s.hooks.OnMaximize,
	})
	s.panels = append(s.panels, p)
	s.notify(p)
}

// Panels returns the mounted panels in mount order.
func (s *Surface) Panels() []*panel.Panel {
	out := make([]*panel.Panel, len(s.panels))
	copy(out, s.panels)
	return out
}

// Panel returns the panel with the given id, or nil.
func (s *Surface) Panel(id string) *panel.Panel {
	for _, p := range s.panels {
		if p.ID() == id {
			return p
		}
	}
	return nil
}

// Focused returns the id of the focused panel, or "" when the surface itself
// holds focus.
func (s *Surface) Focused() string { return s.focused }

// Drag returns the armed drag state, if any.
func (s *Surface) Drag() (DragState, bool) {
	if s.drag == nil {
		return DragState{}, false
	}
	return *s.drag, true
}

// Stack returns the visible panels ordered bottom to top.
func (s *Surface) Stack() []*panel.Panel {
	var out []*panel.Panel
	for _, p := range s.panels {
		if p.Visible() {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ZOrder() < out[j].ZOrder()
	})
	return out
}

// HitTest classifies a point against the topmost visible panel under it.
func (s *Surface) HitTest(x, y int) panel.Hit {
	stack := s.Stack()
	for i := len(stack) - 1; i >= 0; i-- {
		if hit, ok := stack[i].HitTest(x, y); ok {
			return hit
		}
	}
	return panel.Hit{Kind: panel.HitOther}
}

// Dispatch routes an event to the handler for its type.
func (s *Surface) Dispatch(ev PointerEvent) Result {
	switch ev.Type {
	case EventDown:
		return s.PointerDown(ev)
	case EventMove:
		return s.PointerMove(ev)
	case EventUp:
		return s.PointerUp(ev)
	case EventCancel:
		s.Cancel()
	}
	return Result{}
}

// PointerDown handles a press. Presses on a title bar or resize handle raise
// the panel and arm a drag; presses on a body only raise it; anything else
// moves focus to the surface. No geometry changes here.
func (s *Surface) PointerDown(ev PointerEvent) Result {
	pt := ev.Position()
	hit := s.HitTest(pt.X, pt.Y)

	s.pressed = nil
	s.drag = nil

	if hit.Focusable() {
		s.RaiseFocus(hit.PanelID)
	} else {
		s.focusSurface()
	}

	if hit.Kind == panel.HitChrome {
		pressed := hit
		s.pressed = &pressed
	}

	if a := hit.DragAffordance(); a != panel.AffordanceNone {
		p := s.Panel(hit.PanelID)
		s.drag = &DragState{
			Affordance:     a,
			PanelID:        hit.PanelID,
			OriginPointer:  pt,
			OriginGeometry: p.Geometry(),
		}
		s.logger.Debug("drag armed", "panel", hit.PanelID, "affordance", a.String(), "x", pt.X, "y", pt.Y)
	}

	return Result{PreventDefault: true, Hit: hit}
}

// PointerMove applies the armed drag, if any, for the event position.
func (s *Surface) PointerMove(ev PointerEvent) Result {
	if s.drag == nil {
		return Result{}
	}
	p := s.Panel(s.drag.PanelID)
	if p == nil || !p.Visible() {
		s.logger.Debug("drag abandoned", "panel", s.drag.PanelID)
		s.drag = nil
		return Result{}
	}

	pt := ev.Position()
	dx := pt.X - s.drag.OriginPointer.X
	dy := pt.Y - s.drag.OriginPointer.Y
	g := Transform(s.drag.Affordance, s.drag.OriginGeometry, dx, dy, s.minSize)
	if g != p.Geometry() {
		p.SetGeometry(g)
		s.notify(p)
	}
	return Result{PreventDefault: true}
}

// PointerUp disarms the drag. Releasing over the chrome button that received
// the press completes a click on it. Calling it with nothing armed is a no-op.
func (s *Surface) PointerUp(ev PointerEvent) Result {
	armed := s.drag != nil
	if armed {
		s.logger.Debug("drag released", "panel", s.drag.PanelID)
	}
	s.drag = nil

	if s.pressed != nil {
		pressed := *s.pressed
		s.pressed = nil
		pt := ev.Position()
		if hit := s.HitTest(pt.X, pt.Y); hit == pressed {
			s.activate(hit)
		}
	}
	return Result{PreventDefault: armed}
}

// Cancel abandons an armed drag and any pending chrome click.
func (s *Surface) Cancel() {
	s.drag = nil
	s.pressed = nil
}

// RaiseFocus puts every visible panel at the baseline rank except the
// target, which gets the top rank, and then gives the target input focus.
// It reports false when the panel does not exist or is hidden.
func (s *Surface) RaiseFocus(id string) bool {
	target := s.Panel(id)
	if target == nil || !target.Visible() {
		return false
	}

	for _, p := range s.panels {
		if !p.Visible() {
			continue
		}
		z := panel.ZBaseline
		if p == target {
			z = panel.ZTop
		}
		if p.ZOrder() != z {
			p.SetZOrder(z)
			if p != target {
				s.notify(p)
			}
		}
	}

	prev := s.focused
	s.focused = id
	if prev != id {
		if old := s.Panel(prev); old != nil {
			old.Blur()
			s.notify(old)
		}
		s.logger.Debug("focus changed", "from", prev, "to", id)
	}
	target.Focus()
	s.notify(target)
	return true
}

// FocusPanel gives a panel input focus by means other than a press, such as
// keyboard navigation. Stacking follows through the panel's focus callback.
func (s *Surface) FocusPanel(id string) bool {
	p := s.Panel(id)
	if p == nil || !p.Visible() {
		return false
	}
	if !p.Focus() {
		return s.RaiseFocus(id)
	}
	return true
}

// FocusNext moves focus to the next visible panel in mount order, wrapping
// around. It returns the newly focused id, or "" when no panel is visible.
func (s *Surface) FocusNext() string {
	var visible []*panel.Panel
	start := -1
	for _, p := range s.panels {
		if !p.Visible() {
			continue
		}
		if p.ID() == s.focused {
			start = len(visible)
		}
		visible = append(visible, p)
	}
	if len(visible) == 0 {
		return ""
	}
	next := visible[(start+1)%len(visible)]
	s.FocusPanel(next.ID())
	return next.ID()
}

func (s *Surface) focusSurface() {
	if s.focused == "" {
		return
	}
	if p := s.Panel(s.focused); p != nil {
		p.Blur()
		s.notify(p)
	}
	s.logger.Debug("focus changed", "from", s.focused, "to", "")
	s.focused = ""
}

func (s *Surface) activate(hit panel.Hit) {
	p := s.Panel(hit.PanelID)
	if p == nil {
		return
	}
	switch hit.Button {
	case panel.ButtonClose:
		p.Close()
	case panel.ButtonMinimize:
		p.Minimize()
	case panel.ButtonMaximize:
		p.Maximize()
	}
}

func (s *Surface) handlePanelFocus(id string) {
	if s.focused == id {
		return
	}
	s.RaiseFocus(id)
}

func (s *Surface) handlePanelClose(id string) {
	if s.drag != nil && s.drag.PanelID == id {
		s.drag = nil
	}
	if s.pressed != nil && s.pressed.PanelID == id {
		s.pressed = nil
	}
	if s.focused == id {
		s.focused = ""
	}
	if p := s.Panel(id); p != nil {
		s.notify(p)
	}
	s.logger.Debug("panel closed", "panel", id)
	if s.hooks.OnClose != nil {
		s.hooks.OnClose(id)
	}
}

func (s *Surface) notify(p *panel.Panel) {
	if s.onChange != nil {
		s.onChange(p.Snapshot())
	}
}
