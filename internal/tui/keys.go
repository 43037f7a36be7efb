package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the desktop keybindings.
type keyMap struct {
	FocusNext key.Binding
	Close     key.Binding
	Open      key.Binding
	Panels    key.Binding
	Reset     key.Binding
	Cancel    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		FocusNext: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next panel")),
		Close:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "close focused")),
		Open:      key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open panel")),
		Panels:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "panel list")),
		Reset:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel drag")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.FocusNext, k.Open, k.Close, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.FocusNext, k.Panels, k.Open, k.Close},
		{k.Reset, k.Cancel, k.Help, k.Quit},
	}
}
