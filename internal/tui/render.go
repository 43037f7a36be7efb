package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/1broseidon/webdesk/internal/panel"
	"github.com/1broseidon/webdesk/internal/surface"
)

type cellStyle int

const (
	styleDesktop cellStyle = iota
	styleTitle
	styleFocusedTitle
	styleChrome
	styleFocusedChrome
	styleBorder
	styleFocusedBorder
	styleBody
	styleCount
)

var cellStyles = [styleCount]lipgloss.Style{
	styleDesktop:       lipgloss.NewStyle().Background(lipgloss.Color("24")),
	styleTitle:         lipgloss.NewStyle().Background(lipgloss.Color("243")).Foreground(lipgloss.Color("235")),
	styleFocusedTitle:  lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("15")).Bold(true),
	styleChrome:        lipgloss.NewStyle().Background(lipgloss.Color("243")).Foreground(lipgloss.Color("235")),
	styleFocusedChrome: lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("15")),
	styleBorder:        lipgloss.NewStyle().Background(lipgloss.Color("238")).Foreground(lipgloss.Color("250")),
	styleFocusedBorder: lipgloss.NewStyle().Background(lipgloss.Color("238")).Foreground(lipgloss.Color("62")),
	styleBody:          lipgloss.NewStyle().Background(lipgloss.Color("254")).Foreground(lipgloss.Color("235")),
}

var (
	resizeGlyphs = map[panel.Affordance]string{
		panel.AffordanceResizeTop:         "─",
		panel.AffordanceResizeBottom:      "─",
		panel.AffordanceResizeLeft:        "│",
		panel.AffordanceResizeRight:       "│",
		panel.AffordanceResizeTopLeft:     "┌",
		panel.AffordanceResizeTopRight:    "┐",
		panel.AffordanceResizeBottomLeft:  "└",
		panel.AffordanceResizeBottomRight: "┘",
	}
	chromeGlyphs = map[panel.ChromeButton]string{
		panel.ButtonMinimize: "_",
		panel.ButtonMaximize: "□",
		panel.ButtonClose:    "×",
	}
)

// titleCells lays a panel title out one entry per cell; the cell after a
// wide rune holds "".
type titleCells struct {
	start int
	cells []string
}

// renderDesktop paints cols x rows cells from one batch of hit tests.
func (m model) renderDesktop(cols, rows int) string {
	points := make([]surface.Point, 0, cols*rows)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			points = append(points, m.cellCenter(x, y))
		}
	}
	hits := m.desk.HitTest(points)

	focused := make(map[string]bool)
	titles := make(map[string]titleCells)
	for _, snap := range m.desk.Stack() {
		focused[snap.ID] = snap.Focused
		titles[snap.ID] = m.layoutTitle(snap)
	}

	var b strings.Builder
	for y := 0; y < rows; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		m.renderRow(&b, hits[y*cols:(y+1)*cols], focused, titles)
	}
	return b.String()
}

func (m model) renderRow(b *strings.Builder, row []panel.Hit, focused map[string]bool, titles map[string]titleCells) {
	var run strings.Builder
	runStyle := cellStyle(-1)
	flush := func() {
		if run.Len() > 0 {
			b.WriteString(cellStyles[runStyle].Render(run.String()))
			run.Reset()
		}
	}

	wide := false
	for x, h := range row {
		text, style := cellContent(h, x, row, focused[h.PanelID], titles)
		if style != runStyle {
			flush()
			runStyle = style
		}
		switch {
		case text == "" && wide:
			// Covered by the previous wide rune.
		case text == "":
			run.WriteByte(' ')
		default:
			run.WriteString(text)
		}
		wide = text != "" && runewidth.StringWidth(text) == 2
	}
	flush()
}

func cellContent(h panel.Hit, x int, row []panel.Hit, focused bool, titles map[string]titleCells) (string, cellStyle) {
	pick := func(normal, active cellStyle) cellStyle {
		if focused {
			return active
		}
		return normal
	}

	switch h.Kind {
	case panel.HitTitleBar:
		t := titles[h.PanelID]
		if i := x - t.start; i >= 0 && i < len(t.cells) {
			return t.cells[i], pick(styleTitle, styleFocusedTitle)
		}
		return " ", pick(styleTitle, styleFocusedTitle)
	case panel.HitChrome:
		// One glyph at the left edge of each button.
		if x == 0 || row[x-1] != h {
			return chromeGlyphs[h.Button], pick(styleChrome, styleFocusedChrome)
		}
		return " ", pick(styleChrome, styleFocusedChrome)
	case panel.HitResize:
		return resizeGlyphs[h.Affordance], pick(styleBorder, styleFocusedBorder)
	case panel.HitFrame:
		return " ", pick(styleBorder, styleFocusedBorder)
	case panel.HitBody:
		return " ", styleBody
	}
	return " ", styleDesktop
}

// layoutTitle places the title one cell after the left handle and truncates
// it before the chrome buttons.
func (m model) layoutTitle(snap panel.Snapshot) titleCells {
	metrics := m.desk.Metrics()
	start := m.firstCol(snap.Left+metrics.HandleSize) + 1
	end := m.firstCol(snap.Left + snap.Width - 3*metrics.ButtonWidth)
	avail := end - start
	if avail <= 0 {
		return titleCells{start: start}
	}

	title := runewidth.Truncate(snap.Title, avail, "…")
	cells := make([]string, 0, avail)
	for _, r := range title {
		cells = append(cells, string(r))
		if runewidth.RuneWidth(r) == 2 {
			cells = append(cells, "")
		}
	}
	return titleCells{start: start, cells: cells}
}

// firstCol returns the first column whose center is at or right of px.
func (m model) firstCol(px int) int {
	cw := m.cells.CellWidth
	return ceilDiv(px-cw/2, cw)
}

func ceilDiv(a, b int) int {
	if a >= 0 {
		return (a + b - 1) / b
	}
	return -((-a) / b)
}

var (
	helpBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("250")).
			Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// renderHelpBar renders the focused panel, any status message and the
// keybinding help.
func (m model) renderHelpBar() string {
	st := m.desk.Status()
	var parts []string
	if st.Focused != "" {
		if snap, err := m.desk.Panel(st.Focused); err == nil {
			parts = append(parts, "● "+snap.Title)
		}
	}
	if st.Dragging {
		parts = append(parts, st.Affordance)
	}
	if m.status != "" {
		parts = append(parts, statusStyle.Render(m.status))
	}
	parts = append(parts, m.help.View(m.keys))
	return helpBarStyle.Width(m.width).Render(strings.Join(parts, "  "))
}
