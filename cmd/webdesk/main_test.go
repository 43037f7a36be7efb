package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/webdesk/internal/config"
	"github.com/1broseidon/webdesk/internal/desktop"
	"github.com/1broseidon/webdesk/internal/ipc"
	"github.com/1broseidon/webdesk/internal/panel"
)

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

// startDesktop serves a default desktop on a short socket path and points
// the CLI client at it.
func startDesktop(t *testing.T) *desktop.Desktop {
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
	socket := filepath.Join(dir, "d.sock")
	srv := ipc.NewServerAt(socket, desk, "")
	if err := srv.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(srv.Stop)
	t.Setenv("WEBDESK_SOCKET", socket)
	return desk
}

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceDefault}, "default"},
		{config.Source{Kind: config.SourceDefault, Name: "defaults"}, "default:defaults"},
		{config.Source{Kind: config.SourceFile}, "file"},
		{config.Source{Kind: config.SourceFile, File: "/c.yaml"}, "file:/c.yaml"},
		{config.Source{Kind: config.SourceFile, File: "/c.yaml", Line: 3, Column: 5}, "file:/c.yaml:3:5"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Errorf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestUsageErrorsExitTwo(t *testing.T) {
	tests := []struct {
		name string
		run  func([]string) int
		args []string
	}{
		{"status extra arg", runStatus, []string{"extra"}},
		{"pointer no args", runPointer, nil},
		{"pointer bad type", runPointer, []string{"sideways", "1", "2"}},
		{"pointer bad coord", runPointer, []string{"down", "x", "2"}},
		{"drag too few", runDrag, []string{"1", "2", "3"}},
		{"drag bad coord", runDrag, []string{"1", "2", "3", "y"}},
		{"close no id", runClose, nil},
		{"focus two ids", runFocus, []string{"a", "b"}},
		{"open no title", runOpen, nil},
		{"reset extra arg", runReset, []string{"now"}},
		{"config no subcommand", runConfig, nil},
		{"config unknown", runConfig, []string{"bogus"}},
		{"config explain no path", runConfig, []string{"explain"}},
		{"mcp no subcommand", runMCP, nil},
		{"serve unknown flag", runServe, []string{"--bogus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := tt.run(tt.args); code != 2 {
				t.Fatalf("exit = %d, want 2", code)
			}
		})
	}
}

func TestHelpExitsZero(t *testing.T) {
	if code := runPanels([]string{"-h"}); code != 0 {
		t.Fatalf("panels -h = %d", code)
	}
	if code := runConfig([]string{"help"}); code != 0 {
		t.Fatalf("config help = %d", code)
	}
}

func TestControlCommands(t *testing.T) {
	desk := startDesktop(t)
	out := captureStdout(t)

	if code := runPanels(nil); code != 0 {
		t.Fatalf("panels exit = %d", code)
	}
	if !strings.Contains(out.String(), "TITLE") || !strings.Contains(out.String(), "Text Editor") {
		t.Fatalf("panels output = %q", out.String())
	}

	out.Reset()
	if code := runDrag([]string{"--steps", "5", "20", "20", "70", "90"}); code != 0 {
		t.Fatalf("drag exit = %d", code)
	}
	if !strings.Contains(out.String(), "dragged: true") {
		t.Fatalf("drag output = %q", out.String())
	}
	snap, _ := desk.Panel("browser")
	if snap.Left != 60 || snap.Top != 80 || !snap.Focused {
		t.Fatalf("browser = %+v", snap)
	}

	if code := runClose([]string{"calculator"}); code != 0 {
		t.Fatalf("close exit = %d", code)
	}
	if code := runClose([]string{"calculator"}); code != 1 {
		t.Fatalf("second close exit = %d, want 1", code)
	}
	if code := runFocus([]string{"missing"}); code != 1 {
		t.Fatalf("focus missing exit = %d, want 1", code)
	}

	out.Reset()
	if code := runOpen([]string{"--app", "editor", "Notes"}); code != 0 {
		t.Fatalf("open exit = %d", code)
	}
	id := strings.TrimSpace(out.String())
	opened, err := desk.Panel(id)
	if err != nil {
		t.Fatalf("opened panel %q: %v", id, err)
	}
	if opened.Title != "Notes" || opened.App != panel.AppEditor || !opened.Focused {
		t.Fatalf("opened = %+v", opened)
	}

	out.Reset()
	if code := runPanels([]string{"--json", "--visible"}); code != 0 {
		t.Fatalf("panels --json exit = %d", code)
	}
	var listed []panel.Snapshot
	if err := json.Unmarshal(out.Bytes(), &listed); err != nil {
		t.Fatalf("decode: %v (%q)", err, out.String())
	}
	if len(listed) != 3 {
		t.Fatalf("visible panels = %d, want 3", len(listed))
	}

	if code := runReset(nil); code != 0 {
		t.Fatalf("reset exit = %d", code)
	}
	if st := desk.Status(); st.Panels != 3 || st.Visible != 3 {
		t.Fatalf("after reset: %+v", st)
	}
}

func TestPointerCommand(t *testing.T) {
	desk := startDesktop(t)
	out := captureStdout(t)

	if code := runPointer([]string{"down", "300", "220"}); code != 0 {
		t.Fatalf("pointer exit = %d", code)
	}
	if !strings.Contains(out.String(), "hit: titlebar editor") {
		t.Fatalf("pointer output = %q", out.String())
	}
	if !desk.Status().Dragging {
		t.Fatalf("press did not arm a drag")
	}
	if code := runPointer([]string{"cancel", "300", "220"}); code != 0 {
		t.Fatalf("cancel exit = %d", code)
	}
	if desk.Status().Dragging {
		t.Fatalf("cancel left the drag armed")
	}
}

func TestCommandsFailWithoutDesktop(t *testing.T) {
	t.Setenv("WEBDESK_SOCKET", filepath.Join(t.TempDir(), "absent.sock"))
	captureStdout(t)

	if code := runStatus(nil); code != 1 {
		t.Fatalf("status exit = %d, want 1", code)
	}
	if code := runReload(nil); code != 1 {
		t.Fatalf("reload exit = %d, want 1", code)
	}
}

func TestConfigCommands(t *testing.T) {
	out := captureStdout(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("desktop:\n  width: 1024\n  height: 768\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if code := runConfig([]string{"validate", "--path", path}); code != 0 {
		t.Fatalf("validate exit = %d", code)
	}
	if !strings.HasPrefix(out.String(), "config: ok") {
		t.Fatalf("validate output = %q", out.String())
	}

	out.Reset()
	if code := runConfig([]string{"explain", "--path", path, "desktop.width"}); code != 0 {
		t.Fatalf("explain exit = %d", code)
	}
	got := out.String()
	if !strings.Contains(got, "source: file:") || !strings.Contains(got, "1024") {
		t.Fatalf("explain output = %q", got)
	}

	out.Reset()
	if code := runConfig([]string{"explain", "--path", path, "web.listen"}); code != 0 {
		t.Fatalf("explain default exit = %d", code)
	}
	if !strings.Contains(out.String(), "source: default") {
		t.Fatalf("explain default output = %q", out.String())
	}

	out.Reset()
	if code := runConfig([]string{"print", "--defaults"}); code != 0 {
		t.Fatalf("print exit = %d", code)
	}
	if !strings.Contains(out.String(), "cell_width: 8") {
		t.Fatalf("print output = %q", out.String())
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("desktop:\n  depth: 3\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if code := runConfig([]string{"validate", "--path", bad}); code != 1 {
		t.Fatalf("validate bad exit = %d, want 1", code)
	}
}
