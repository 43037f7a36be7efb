package tui

import (
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/1broseidon/webdesk/internal/desktop"
	"github.com/1broseidon/webdesk/internal/panel"
)

// openFields holds the open form values. It lives on the heap so the form
// keeps writing to it across model copies.
type openFields struct {
	title     string
	app       string
	resizable bool
}

func (m *model) startOpening() {
	m.fields = &openFields{app: string(panel.AppBlank), resizable: true}

	apps := []huh.Option[string]{
		huh.NewOption("blank", string(panel.AppBlank)),
		huh.NewOption("browser", string(panel.AppBrowser)),
		huh.NewOption("calculator", string(panel.AppCalculator)),
		huh.NewOption("editor", string(panel.AppEditor)),
	}

	w := m.width - 4
	if w < 40 {
		w = 40
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("Title").
				Description("Text shown in the title bar").
				Value(&m.fields.title),

			huh.NewSelect[string]().
				Key("app").
				Title("App").
				Description("Panel content").
				Options(apps...).
				Value(&m.fields.app),

			huh.NewConfirm().
				Key("resizable").
				Title("Resizable").
				Value(&m.fields.resizable),
		),
	).WithWidth(w).WithShowHelp(true).WithShowErrors(true)

	m.opening = true
}

func (m *model) applyOpen() {
	f := m.fields
	resizable := f.resizable
	snap, err := m.desk.Open(desktop.OpenRequest{
		Title:     strings.TrimSpace(f.title),
		App:       panel.App(f.app),
		Resizable: &resizable,
	})
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = "opened " + snap.Title
}
