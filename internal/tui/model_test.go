package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/webdesk/internal/config"
	"github.com/1broseidon/webdesk/internal/desktop"
)

func newTestModel(t *testing.T) (model, *desktop.Desktop) {
	t.Helper()
	cfg := config.DefaultConfig()
	desk, err := desktop.New(desktop.Options{Config: cfg, Metrics: Metrics(cfg.TUI)})
	if err != nil {
		t.Fatalf("desktop: %v", err)
	}
	m := newModel(desk, cfg.TUI)
	t.Cleanup(m.unsubscribe)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(model), desk
}

func send(t *testing.T, m model, msgs ...tea.Msg) model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}
	return m
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone}
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestMouseDragMovesPanel(t *testing.T) {
	m, desk := newTestModel(t)

	// Cell (3,1) samples pixel (28,24) inside the browser title bar.
	send(t, m, press(3, 1), motion(8, 3), release(8, 3))

	snap, err := desk.Panel("browser")
	if err != nil {
		t.Fatalf("panel: %v", err)
	}
	if snap.Left != 50 || snap.Top != 42 || !snap.Focused {
		t.Fatalf("browser = %+v", snap)
	}
	if desk.Status().Dragging {
		t.Fatalf("drag still armed after release")
	}
}

func TestMouseDragResizesPanel(t *testing.T) {
	m, desk := newTestModel(t)

	// Column 105 samples x=844, inside the editor right handle.
	send(t, m, press(105, 20), motion(95, 20), release(95, 20))

	snap, _ := desk.Panel("editor")
	if snap.Width != 560 || snap.Left != 210 || snap.Height != 480 {
		t.Fatalf("editor = %+v", snap.Geometry())
	}
}

func TestMouseCloseButton(t *testing.T) {
	m, desk := newTestModel(t)

	// Column 79 samples x=636, the browser close button.
	send(t, m, press(79, 1), release(79, 1))

	snap, _ := desk.Panel("browser")
	if snap.Visible {
		t.Fatalf("browser still visible")
	}
}

func TestMouseIgnoresOtherButtons(t *testing.T) {
	m, desk := newTestModel(t)

	send(t, m, tea.MouseMsg{X: 3, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	if st := desk.Status(); st.Focused != "" || st.Dragging {
		t.Fatalf("right click changed state: %+v", st)
	}
}

func TestKeys(t *testing.T) {
	m, desk := newTestModel(t)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	first := desk.Status().Focused
	if first == "" {
		t.Fatalf("tab did not focus a panel")
	}

	m = send(t, m, keyRune('x'))
	snap, _ := desk.Panel(first)
	if snap.Visible {
		t.Fatalf("x did not close %s", first)
	}
	if st := desk.Status(); st.Visible != 2 {
		t.Fatalf("visible = %d", st.Visible)
	}

	m = send(t, m, keyRune('x'))
	if m.status != "no focused panel" {
		t.Fatalf("status = %q", m.status)
	}

	m = send(t, m, keyRune('r'))
	if st := desk.Status(); st.Visible != 3 {
		t.Fatalf("reset left %d visible", st.Visible)
	}

	_, cmd := m.Update(keyRune('q'))
	if cmd == nil {
		t.Fatalf("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q did not quit")
	}
}

func TestEscCancelsDrag(t *testing.T) {
	m, desk := newTestModel(t)

	m = send(t, m, press(3, 1), tea.KeyMsg{Type: tea.KeyEscape})
	if desk.Status().Dragging {
		t.Fatalf("esc left the drag armed")
	}
	send(t, m, motion(20, 10))
	if snap, _ := desk.Panel("browser"); snap.Left != 10 || snap.Top != 10 {
		t.Fatalf("browser moved after cancel: %+v", snap.Geometry())
	}
}

func TestPickerFocusesPanel(t *testing.T) {
	m, desk := newTestModel(t)

	m = send(t, m, keyRune('l'))
	if !m.picking {
		t.Fatalf("picker not open")
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.picking {
		t.Fatalf("picker still open")
	}
	if st := desk.Status(); st.Focused != "browser" {
		t.Fatalf("focused = %q, want first panel", st.Focused)
	}
}

func TestViewPaintsTitles(t *testing.T) {
	m, _ := newTestModel(t)

	view := m.View()
	for _, title := range []string{"Browser", "Calculator", "Text Editor"} {
		if !strings.Contains(view, title) {
			t.Fatalf("view missing %q", title)
		}
	}
	if !strings.Contains(view, "quit") {
		t.Fatalf("view missing help bar")
	}
}

func TestViewEmptyBeforeSize(t *testing.T) {
	cfg := config.DefaultConfig()
	desk, err := desktop.New(desktop.Options{Config: cfg})
	if err != nil {
		t.Fatalf("desktop: %v", err)
	}
	m := newModel(desk, cfg.TUI)
	defer m.unsubscribe()
	if v := m.View(); v != "" {
		t.Fatalf("view = %q", v)
	}
}

func TestFirstCol(t *testing.T) {
	m := model{cells: config.TUIConfig{CellWidth: 8, CellHeight: 16}}
	tests := []struct {
		px   int
		want int
	}{
		{0, 0},
		{4, 0},
		{5, 1},
		{12, 1},
		{218, 27},
		{-4, -1},
		{-5, -1},
		{-12, -2},
	}
	for _, tt := range tests {
		if got := m.firstCol(tt.px); got != tt.want {
			t.Errorf("firstCol(%d) = %d, want %d", tt.px, got, tt.want)
		}
	}
}
