package ipc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/webdesk/internal/config"
	"github.com/1broseidon/webdesk/internal/desktop"
	"github.com/1broseidon/webdesk/internal/panel"
	"github.com/1broseidon/webdesk/internal/surface"
)

// startTestServer runs a server on a short socket path; unix socket paths
// are length-limited and t.TempDir can exceed the limit.
func startTestServer(t *testing.T, configPath string) (*Client, *desktop.Desktop) {
	t.Helper()
	dir, err := os.MkdirTemp("", "wd")
	if err != nil {
		t.Fatalf("mkdtemp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	desk, err := desktop.New(desktop.Options{Config: config.DefaultConfig()})
	if err != nil {
		t.Fatalf("desktop: %v", err)
	}
	srv := NewServerAt(filepath.Join(dir, "d.sock"), desk, configPath)
	if err := srv.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return NewClientAt(srv.SocketPath()), desk
}

func TestServer_StatusAndPanels(t *testing.T) {
	client, _ := startTestServer(t, "")

	if err := client.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Panels != 3 || status.Visible != 3 || status.Desktop.Width != 1280 {
		t.Fatalf("status = %+v", status)
	}

	panels, err := client.ListPanels()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(panels) != 3 || panels[0].ID != "browser" {
		t.Fatalf("panels = %+v", panels)
	}
}

func TestServer_PointerDrag(t *testing.T) {
	client, desk := startTestServer(t, "")

	down, err := client.Pointer(surface.Mouse(surface.EventDown, 300, 220))
	if err != nil {
		t.Fatalf("down: %v", err)
	}
	if down.Hit == nil || down.Hit.Kind != "titlebar" || down.Hit.PanelID != "editor" {
		t.Fatalf("down hit = %+v", down.Hit)
	}

	move, err := client.Pointer(surface.Mouse(surface.EventMove, 310, 240))
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if !move.PreventDefault {
		t.Fatalf("expected armed move to prevent default")
	}
	if _, err := client.Pointer(surface.Mouse(surface.EventUp, 310, 240)); err != nil {
		t.Fatalf("up: %v", err)
	}

	snap, err := desk.Panel("editor")
	if err != nil {
		t.Fatalf("panel: %v", err)
	}
	if snap.Top != 230 || snap.Left != 220 {
		t.Fatalf("editor geometry = %+v", snap.Geometry())
	}
}

func TestServer_PointerRejectsUnknownType(t *testing.T) {
	client, _ := startTestServer(t, "")

	_, err := client.Pointer(surface.PointerEvent{Type: "wiggle"})
	if err == nil || !strings.Contains(err.Error(), "unknown pointer event type") {
		t.Fatalf("expected unknown type error, got %v", err)
	}
}

func TestServer_CloseFocusOpenReset(t *testing.T) {
	client, desk := startTestServer(t, "")

	if err := client.ClosePanel("browser"); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := client.ClosePanel("browser"); err == nil || !strings.Contains(err.Error(), desktop.ErrPanelHidden.Error()) {
		t.Fatalf("second close err = %v", err)
	}
	if err := client.FocusPanel("missing"); err == nil || !strings.Contains(err.Error(), desktop.ErrPanelNotFound.Error()) {
		t.Fatalf("focus missing err = %v", err)
	}
	if err := client.FocusPanel("calculator"); err != nil {
		t.Fatalf("focus: %v", err)
	}
	if st := desk.Status(); st.Focused != "calculator" {
		t.Fatalf("focused = %q", st.Focused)
	}

	snap, err := client.OpenPanel(desktop.OpenRequest{Title: "Notes", App: panel.AppEditor})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if snap.Title != "Notes" || !snap.Focused {
		t.Fatalf("opened = %+v", snap)
	}

	panels, err := client.Reset()
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if len(panels) != 3 || !panels[0].Visible {
		t.Fatalf("panels after reset = %+v", panels)
	}
}

func TestServer_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("panels:\n  - title: Solo\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	client, _ := startTestServer(t, path)

	panels, err := client.Reload()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(panels) != 1 || panels[0].ID != "solo" {
		t.Fatalf("panels after reload = %+v", panels)
	}

	if err := os.WriteFile(path, []byte("bogus_key: 1\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := client.Reload(); err == nil {
		t.Fatalf("expected invalid config to fail reload")
	}
}

func TestServer_ReloadWithoutConfigPath(t *testing.T) {
	client, _ := startTestServer(t, "")
	if _, err := client.Reload(); err == nil {
		t.Fatalf("expected error without a config path")
	}
}

func TestClient_NoServer(t *testing.T) {
	client := NewClientAt(filepath.Join(t.TempDir(), "absent.sock"))
	if err := client.Ping(); err == nil {
		t.Fatalf("expected connection error")
	}
}

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest([]byte(`{"command":"CLOSE_PANEL","payload":{"id":"browser"}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if req.Command != CommandClosePanel || !strings.Contains(string(req.Payload), "browser") {
		t.Fatalf("request = %+v", req)
	}
	if _, err := ParseRequest([]byte("not json")); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestNewHitInfo(t *testing.T) {
	info := NewHitInfo(panel.Hit{Kind: panel.HitResize, PanelID: "a", Affordance: panel.AffordanceResizeTopLeft})
	if info.Kind != "resize" || info.Affordance != "resize-top-left" || info.Button != "" {
		t.Fatalf("info = %+v", info)
	}
	info = NewHitInfo(panel.Hit{Kind: panel.HitChrome, PanelID: "a", Button: panel.ButtonClose})
	if info.Button != "close" || info.Affordance != "" {
		t.Fatalf("info = %+v", info)
	}
}
