package surface

import (
	"testing"

	"github.com/1broseidon/webdesk/internal/panel"
)

func newTestSurface(t *testing.T, rects ...panel.Rect) *Surface {
	t.Helper()
	s := New(Options{})
	ids := []string{"a", "b", "c", "d"}
	for i, r := range rects {
		s.Add(panel.New(panel.Options{
			ID:        ids[i],
			Title:     ids[i],
			Geometry:  r,
			Resizable: true,
		}))
	}
	return s
}

func defaultRect() panel.Rect {
	return panel.Rect{Top: 10, Left: 10, Width: 640, Height: 480}
}

func geometry(t *testing.T, s *Surface, id string) panel.Rect {
	t.Helper()
	p := s.Panel(id)
	if p == nil {
		t.Fatalf("panel %q not mounted", id)
	}
	return p.Geometry()
}

func TestMoveByTitleBar(t *testing.T) {
	s := newTestSurface(t, defaultRect())

	res := s.PointerDown(Mouse(EventDown, 20, 20))
	if res.Hit.Kind != panel.HitTitleBar {
		t.Fatalf("press hit = %v, want titlebar", res.Hit.Kind)
	}
	if got := geometry(t, s, "a"); got != defaultRect() {
		t.Fatalf("press changed geometry: %+v", got)
	}

	res = s.PointerMove(Mouse(EventMove, 70, 90))
	if !res.PreventDefault {
		t.Fatalf("armed move must prevent default handling")
	}
	want := panel.Rect{Top: 80, Left: 60, Width: 640, Height: 480}
	if got := geometry(t, s, "a"); got != want {
		t.Fatalf("geometry = %+v, want %+v", got, want)
	}

	s.PointerUp(Mouse(EventUp, 70, 90))
	s.PointerMove(Mouse(EventMove, 500, 500))
	if got := geometry(t, s, "a"); got != want {
		t.Fatalf("move after release changed geometry: %+v", got)
	}
}

func TestRightResizeStopsAtFloor(t *testing.T) {
	s := newTestSurface(t, defaultRect())

	res := s.PointerDown(Mouse(EventDown, 646, 200))
	if res.Hit.Affordance != panel.AffordanceResizeRight {
		t.Fatalf("press hit = %v, want right handle", res.Hit.Affordance)
	}

	s.PointerMove(Mouse(EventMove, 206, 200))
	if got := geometry(t, s, "a").Width; got != panel.MinWidth {
		t.Fatalf("width = %d, want %d", got, panel.MinWidth)
	}

	s.PointerMove(Mouse(EventMove, 0, 200))
	if got := geometry(t, s, "a").Width; got != panel.MinWidth {
		t.Fatalf("width past floor = %d, want %d", got, panel.MinWidth)
	}
}

func TestLeftResizeSuppressedPastFloor(t *testing.T) {
	s := newTestSurface(t, defaultRect())

	res := s.PointerDown(Mouse(EventDown, 10, 200))
	if res.Hit.Affordance != panel.AffordanceResizeLeft {
		t.Fatalf("press hit = %v, want left handle", res.Hit.Affordance)
	}

	s.PointerMove(Mouse(EventMove, 900, 200))
	if got := geometry(t, s, "a"); got != defaultRect() {
		t.Fatalf("geometry = %+v, want unchanged origin", got)
	}

	s.PointerMove(Mouse(EventMove, 110, 200))
	want := panel.Rect{Top: 10, Left: 110, Width: 540, Height: 480}
	if got := geometry(t, s, "a"); got != want {
		t.Fatalf("geometry = %+v, want %+v", got, want)
	}
}

func TestTopLeftGatesAxesIndependently(t *testing.T) {
	s := newTestSurface(t, defaultRect())

	res := s.PointerDown(Mouse(EventDown, 10, 10))
	if res.Hit.Affordance != panel.AffordanceResizeTopLeft {
		t.Fatalf("press hit = %v, want top-left handle", res.Hit.Affordance)
	}

	// x crosses the floor, y does not.
	s.PointerMove(Mouse(EventMove, 900, 60))
	want := panel.Rect{Top: 60, Left: 10, Width: 640, Height: 430}
	if got := geometry(t, s, "a"); got != want {
		t.Fatalf("geometry = %+v, want %+v", got, want)
	}
}

func TestCloseButton(t *testing.T) {
	s := newTestSurface(t, defaultRect())

	res := s.PointerDown(Mouse(EventDown, 640, 30))
	if res.Hit.Kind != panel.HitChrome || res.Hit.Button != panel.ButtonClose {
		t.Fatalf("press hit = %+v, want close button", res.Hit)
	}
	if _, armed := s.Drag(); armed {
		t.Fatalf("chrome press must not arm a drag")
	}
	s.PointerUp(Mouse(EventUp, 640, 30))

	if s.Panel("a").Visible() {
		t.Fatalf("expected panel hidden after close click")
	}

	res = s.PointerDown(Mouse(EventDown, 300, 30))
	if res.Hit.Kind != panel.HitOther {
		t.Fatalf("press over closed panel hit %v, want other", res.Hit.Kind)
	}
	if _, armed := s.Drag(); armed {
		t.Fatalf("press over closed panel must not arm a drag")
	}
	if s.Panel("a").Visible() {
		t.Fatalf("closed panel revived")
	}
}

func TestCloseClickRequiresReleaseOnButton(t *testing.T) {
	s := newTestSurface(t, defaultRect())

	s.PointerDown(Mouse(EventDown, 640, 30))
	s.PointerUp(Mouse(EventUp, 300, 300))
	if !s.Panel("a").Visible() {
		t.Fatalf("release off the button must not close")
	}

	s.PointerDown(Mouse(EventDown, 640, 30))
	s.Cancel()
	s.PointerUp(Mouse(EventUp, 640, 30))
	if !s.Panel("a").Visible() {
		t.Fatalf("cancelled click must not close")
	}
}

func TestCloseUncoversPanelBelow(t *testing.T) {
	s := newTestSurface(t, defaultRect(), defaultRect())

	// b is mounted last and is on top.
	s.PointerDown(Mouse(EventDown, 640, 30))
	s.PointerUp(Mouse(EventUp, 640, 30))
	if s.Panel("b").Visible() {
		t.Fatalf("expected top panel closed")
	}

	res := s.PointerDown(Mouse(EventDown, 300, 30))
	if res.Hit.PanelID != "a" {
		t.Fatalf("press hit panel %q, want a", res.Hit.PanelID)
	}
	drag, armed := s.Drag()
	if !armed || drag.PanelID != "a" {
		t.Fatalf("drag = %+v (armed=%v), want drag on a", drag, armed)
	}
}

func TestPressRaisesAndFocuses(t *testing.T) {
	s := newTestSurface(t,
		panel.Rect{Top: 10, Left: 10, Width: 640, Height: 480},
		panel.Rect{Top: 110, Left: 110, Width: 640, Height: 480},
		panel.Rect{Top: 210, Left: 210, Width: 640, Height: 480},
	)

	presses := []struct {
		x, y int
		id   string
	}{
		{20, 20, "a"},   // title bar of a
		{660, 130, "b"}, // title bar of b
		{800, 600, "c"}, // body of c
		{20, 20, "a"},
		{300, 300, "a"}, // body of a, now on top
	}

	for _, p := range presses {
		res := s.PointerDown(Mouse(EventDown, p.x, p.y))
		s.PointerUp(Mouse(EventUp, p.x, p.y))
		if res.Hit.PanelID != p.id {
			t.Fatalf("press (%d,%d) hit %q, want %q", p.x, p.y, res.Hit.PanelID, p.id)
		}
		assertSingleTop(t, s, p.id)
	}
}

func TestPressOnDesktopBlursWithoutRestacking(t *testing.T) {
	s := newTestSurface(t, defaultRect())

	s.PointerDown(Mouse(EventDown, 300, 300))
	s.PointerUp(Mouse(EventUp, 300, 300))
	if s.Focused() != "a" {
		t.Fatalf("focused = %q, want a", s.Focused())
	}

	res := s.PointerDown(Mouse(EventDown, 1000, 700))
	if res.Hit.Kind != panel.HitOther {
		t.Fatalf("press hit %v, want other", res.Hit.Kind)
	}
	if s.Focused() != "" {
		t.Fatalf("focused = %q, want surface", s.Focused())
	}
	if s.Panel("a").Focused() {
		t.Fatalf("panel still focused")
	}
	if got := s.Panel("a").ZOrder(); got != panel.ZTop {
		t.Fatalf("z order = %d, want unchanged %d", got, panel.ZTop)
	}
	if _, armed := s.Drag(); armed {
		t.Fatalf("desktop press must not arm a drag")
	}
}

func TestBodyPressDoesNotArmDrag(t *testing.T) {
	s := newTestSurface(t, defaultRect())

	s.PointerDown(Mouse(EventDown, 300, 300))
	if _, armed := s.Drag(); armed {
		t.Fatalf("body press must not arm a drag")
	}
	res := s.PointerMove(Mouse(EventMove, 400, 400))
	if res.PreventDefault {
		t.Fatalf("unarmed move must not prevent default handling")
	}
	if got := geometry(t, s, "a"); got != defaultRect() {
		t.Fatalf("geometry changed: %+v", got)
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	s := newTestSurface(t, defaultRect())

	s.PointerUp(Mouse(EventUp, 0, 0))
	s.PointerDown(Mouse(EventDown, 20, 20))
	s.PointerUp(Mouse(EventUp, 20, 20))
	s.PointerUp(Mouse(EventUp, 20, 20))

	if _, armed := s.Drag(); armed {
		t.Fatalf("expected disarmed after release")
	}
	s.PointerMove(Mouse(EventMove, 300, 300))
	if got := geometry(t, s, "a"); got != defaultRect() {
		t.Fatalf("geometry changed after release: %+v", got)
	}
}

func TestSizeFloorHoldsForEveryAffordance(t *testing.T) {
	origin := defaultRect()
	limit := DefaultMinSize()
	deltas := []int{-2000, -640, -441, -440, -1, 0, 1, 440, 2000}

	for _, a := range append(panel.ResizeAffordances(), panel.AffordanceMove) {
		for _, dx := range deltas {
			for _, dy := range deltas {
				g := Transform(a, origin, dx, dy, limit)
				if g.Width < limit.Width || g.Height < limit.Height {
					t.Fatalf("%v (%d,%d): %+v below floor", a, dx, dy, g)
				}
			}
		}
	}
}

func TestTransformIsDeterministic(t *testing.T) {
	s := newTestSurface(t, defaultRect())

	s.PointerDown(Mouse(EventDown, 649, 489))
	s.PointerMove(Mouse(EventMove, 100, 100))
	s.PointerMove(Mouse(EventMove, 900, 900))
	s.PointerMove(Mouse(EventMove, 700, 600))
	jittered := geometry(t, s, "a")
	s.PointerUp(Mouse(EventUp, 700, 600))

	want := Transform(panel.AffordanceResizeBottomRight, defaultRect(), 700-649, 600-489, DefaultMinSize())
	if jittered != want {
		t.Fatalf("geometry = %+v, want %+v", jittered, want)
	}
}

func TestTransformTable(t *testing.T) {
	origin := defaultRect()
	limit := DefaultMinSize()

	tests := []struct {
		name   string
		a      panel.Affordance
		dx, dy int
		want   panel.Rect
	}{
		{"move", panel.AffordanceMove, -10, -10, panel.Rect{Top: 0, Left: 0, Width: 640, Height: 480}},
		{"right", panel.AffordanceResizeRight, 60, 99, panel.Rect{Top: 10, Left: 10, Width: 700, Height: 480}},
		{"bottom", panel.AffordanceResizeBottom, 99, 20, panel.Rect{Top: 10, Left: 10, Width: 640, Height: 500}},
		{"bottom-right", panel.AffordanceResizeBottomRight, 10, -20, panel.Rect{Top: 10, Left: 10, Width: 650, Height: 460}},
		{"left", panel.AffordanceResizeLeft, 40, 99, panel.Rect{Top: 10, Left: 50, Width: 600, Height: 480}},
		{"top", panel.AffordanceResizeTop, 99, 40, panel.Rect{Top: 50, Left: 10, Width: 640, Height: 440}},
		{"top suppressed", panel.AffordanceResizeTop, 0, 442, origin},
		{"top at floor", panel.AffordanceResizeTop, 0, 441, panel.Rect{Top: 451, Left: 10, Width: 640, Height: 39}},
		{"top-left", panel.AffordanceResizeTopLeft, 20, 30, panel.Rect{Top: 40, Left: 30, Width: 620, Height: 450}},
		{"top-right", panel.AffordanceResizeTopRight, 20, 30, panel.Rect{Top: 40, Left: 10, Width: 660, Height: 450}},
		{"bottom-left", panel.AffordanceResizeBottomLeft, 20, 30, panel.Rect{Top: 10, Left: 30, Width: 620, Height: 510}},
		{"bottom-left past floor", panel.AffordanceResizeBottomLeft, 500, 0, panel.Rect{Top: 10, Left: 10, Width: 200, Height: 480}},
		{"none", panel.AffordanceNone, 50, 50, origin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Transform(tt.a, origin, tt.dx, tt.dy, limit); got != tt.want {
				t.Fatalf("Transform = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTouchDrag(t *testing.T) {
	s := newTestSurface(t, defaultRect())

	s.Dispatch(Touch(EventDown, 20, 20))
	s.Dispatch(Touch(EventMove, 70, 90))
	s.Dispatch(PointerEvent{Type: EventUp, Source: SourceTouch})

	want := panel.Rect{Top: 80, Left: 60, Width: 640, Height: 480}
	if got := geometry(t, s, "a"); got != want {
		t.Fatalf("geometry = %+v, want %+v", got, want)
	}
	if _, armed := s.Drag(); armed {
		t.Fatalf("touch end must disarm")
	}
}

func TestTouchUsesFirstPointOnly(t *testing.T) {
	ev := PointerEvent{
		Type:    EventMove,
		Source:  SourceTouch,
		Touches: []Point{{X: 5, Y: 6}, {X: 500, Y: 600}},
	}
	if got := ev.Position(); got != (Point{X: 5, Y: 6}) {
		t.Fatalf("position = %+v, want first touch", got)
	}
}

func TestDragOfHiddenPanelIsAbandoned(t *testing.T) {
	s := newTestSurface(t, defaultRect())

	s.PointerDown(Mouse(EventDown, 20, 20))
	s.Panel("a").Close()
	if _, armed := s.Drag(); armed {
		t.Fatalf("closing the dragged panel must disarm")
	}
	s.PointerMove(Mouse(EventMove, 300, 300))
	if got := geometry(t, s, "a"); got != defaultRect() {
		t.Fatalf("hidden panel moved: %+v", got)
	}
}

func TestFocusNextCyclesVisiblePanels(t *testing.T) {
	s := newTestSurface(t, defaultRect(), defaultRect(), defaultRect())
	s.Panel("b").Close()

	order := []string{s.FocusNext(), s.FocusNext(), s.FocusNext()}
	want := []string{"a", "c", "a"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("focus order = %v, want %v", order, want)
		}
	}
	assertSingleTop(t, s, "a")
}

func TestFocusPanelRaises(t *testing.T) {
	s := newTestSurface(t, defaultRect(), defaultRect())

	if !s.FocusPanel("a") {
		t.Fatalf("expected focus to succeed")
	}
	assertSingleTop(t, s, "a")
	if hit := s.HitTest(300, 300); hit.PanelID != "a" {
		t.Fatalf("topmost panel = %q, want a", hit.PanelID)
	}

	// Focus through the panel itself, as a keyboard host would.
	s.Panel("b").Focus()
	assertSingleTop(t, s, "b")
	if s.Panel("a").Focused() {
		t.Fatalf("previous panel still focused")
	}

	if s.FocusPanel("missing") {
		t.Fatalf("expected focus of unknown panel to fail")
	}
}

func TestOnChangeReportsGeometry(t *testing.T) {
	var last panel.Snapshot
	s := New(Options{OnChange: func(snap panel.Snapshot) { last = snap }})
	s.Add(panel.New(panel.Options{ID: "a", Geometry: defaultRect(), Resizable: true}))

	s.PointerDown(Mouse(EventDown, 20, 20))
	s.PointerMove(Mouse(EventMove, 30, 40))

	if last.ID != "a" || last.Top != 30 || last.Left != 20 {
		t.Fatalf("last change = %+v", last)
	}
}

func assertSingleTop(t *testing.T, s *Surface, want string) {
	t.Helper()
	max := panel.ZBaseline - 1
	var top []string
	for _, p := range s.Stack() {
		switch z := p.ZOrder(); {
		case z > max:
			max = z
			top = []string{p.ID()}
		case z == max:
			top = append(top, p.ID())
		}
	}
	if len(top) != 1 || top[0] != want {
		t.Fatalf("top-ranked panels = %v, want [%s]", top, want)
	}
	focused := 0
	for _, p := range s.Panels() {
		if p.Focused() {
			focused++
			if p.ID() != want {
				t.Fatalf("focused panel = %q, want %q", p.ID(), want)
			}
		}
	}
	if focused != 1 {
		t.Fatalf("focused panels = %d, want 1", focused)
	}
}
