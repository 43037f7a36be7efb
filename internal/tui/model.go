package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/webdesk/internal/config"
	"github.com/1broseidon/webdesk/internal/desktop"
	"github.com/1broseidon/webdesk/internal/panel"
	"github.com/1broseidon/webdesk/internal/surface"
)

// panelsMsg carries a desktop change published by any host.
type panelsMsg []panel.Snapshot

// model is the root bubbletea model for the terminal desktop.
type model struct {
	desk  *desktop.Desktop
	cells config.TUIConfig

	updates     <-chan []panel.Snapshot
	unsubscribe func()

	keys keyMap
	help help.Model

	// Panel picker overlay
	picking bool
	picker  list.Model

	// Open panel form
	opening bool
	form    *huh.Form
	fields  *openFields

	status string

	width  int
	height int
}

func newModel(desk *desktop.Desktop, cells config.TUIConfig) model {
	updates, unsubscribe := desk.Subscribe()
	return model{
		desk:        desk,
		cells:       cells,
		updates:     updates,
		unsubscribe: unsubscribe,
		keys:        defaultKeyMap(),
		help:        help.New(),
		picker:      newPicker(),
	}
}

func waitForPanels(ch <-chan []panel.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snaps, ok := <-ch
		if !ok {
			return nil
		}
		return panelsMsg(snaps)
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return waitForPanels(m.updates)
}

// desktopRows returns the rows available to the desktop above the help bar.
func (m model) desktopRows() int {
	return max(m.height-lipgloss.Height(m.renderHelpBar()), 1)
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.picker.SetSize(msg.Width, m.desktopRows())
		return m, nil
	case panelsMsg:
		if m.picking {
			m.picker.SetItems(panelItems(msg))
		}
		return m, waitForPanels(m.updates)
	}

	if m.opening {
		return m.updateOpening(msg)
	}
	if m.picking {
		return m.updatePicking(msg)
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.FocusNext):
			if id := m.desk.FocusNext(); id == "" {
				m.status = "no visible panels"
			} else {
				m.status = ""
			}
		case key.Matches(msg, m.keys.Close):
			m.closeFocused()
		case key.Matches(msg, m.keys.Open):
			m.startOpening()
			return m, m.form.Init()
		case key.Matches(msg, m.keys.Panels):
			m.picking = true
			m.picker.SetItems(panelItems(m.desk.Snapshot()))
		case key.Matches(msg, m.keys.Reset):
			if err := m.desk.Reset(); err != nil {
				m.status = err.Error()
			} else {
				m.status = "desktop reset"
			}
		case key.Matches(msg, m.keys.Cancel):
			m.desk.Cancel()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.picker.SetSize(m.width, m.desktopRows())
		}
	}
	return m, nil
}

// handleMouse turns a terminal mouse report into a pointer event at the
// center pixel of the reported cell. Wheel and non-left buttons are ignored.
func (m *model) handleMouse(msg tea.MouseMsg) {
	var typ surface.EventType
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || msg.Y >= m.desktopRows() {
			return
		}
		typ = surface.EventDown
	case tea.MouseActionMotion:
		typ = surface.EventMove
	case tea.MouseActionRelease:
		typ = surface.EventUp
	default:
		return
	}
	pt := m.cellCenter(msg.X, msg.Y)
	m.desk.Dispatch(surface.Mouse(typ, pt.X, pt.Y))
}

func (m model) cellCenter(col, row int) surface.Point {
	return surface.Point{
		X: col*m.cells.CellWidth + m.cells.CellWidth/2,
		Y: row*m.cells.CellHeight + m.cells.CellHeight/2,
	}
}

func (m *model) closeFocused() {
	id := m.desk.Status().Focused
	if id == "" {
		m.status = "no focused panel"
		return
	}
	if err := m.desk.Close(id); err != nil {
		m.status = err.Error()
		return
	}
	m.status = ""
}

func (m model) updatePicking(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc", "l":
			m.picking = false
			return m, nil
		case "enter":
			if item, ok := m.picker.SelectedItem().(panelItem); ok {
				if err := m.desk.Focus(item.snap.ID); err != nil {
					m.status = err.Error()
				}
			}
			m.picking = false
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m model) updateOpening(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.opening = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.applyOpen()
		m.opening = false
		m.form = nil
		return m, nil
	case huh.StateAborted:
		m.opening = false
		m.form = nil
		return m, nil
	}
	return m, cmd
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	rows := m.desktopRows()
	var content string
	switch {
	case m.opening:
		content = lipgloss.NewStyle().
			Width(m.width).
			Height(rows).
			Padding(1, 2).
			Render(m.form.View())
	case m.picking:
		content = m.picker.View()
	default:
		content = m.renderDesktop(m.width, rows)
	}

	return lipgloss.JoinVertical(lipgloss.Left, content, m.renderHelpBar())
}
