package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/webdesk/internal/panel"
)

// panelItem is a list item representing a visible panel.
type panelItem struct {
	snap panel.Snapshot
}

func (i panelItem) Title() string {
	if i.snap.Focused {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●") + " " + i.snap.Title
	}
	return "  " + i.snap.Title
}

func (i panelItem) Description() string {
	return fmt.Sprintf("%s  %dx%d at %d,%d", i.snap.App, i.snap.Width, i.snap.Height, i.snap.Left, i.snap.Top)
}

func (i panelItem) FilterValue() string { return i.snap.Title }

func newPicker() list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("15")).
		BorderForeground(lipgloss.Color("62"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("250")).
		BorderForeground(lipgloss.Color("62"))

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Panels"
	l.Styles.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)
	return l
}

// panelItems lists visible panels in mount order.
func panelItems(snaps []panel.Snapshot) []list.Item {
	items := make([]list.Item, 0, len(snaps))
	for _, s := range snaps {
		if s.Visible {
			items = append(items, panelItem{snap: s})
		}
	}
	return items
}
