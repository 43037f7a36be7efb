package web

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/webdesk/internal/config"
	"github.com/1broseidon/webdesk/internal/desktop"
	"github.com/1broseidon/webdesk/internal/ipc"
)

func newTestDesktop(t *testing.T) *desktop.Desktop {
	t.Helper()
	desk, err := desktop.New(desktop.Options{Config: config.DefaultConfig()})
	if err != nil {
		t.Fatalf("desktop: %v", err)
	}
	return desk
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIndexServesPage(t *testing.T) {
	s := New(Options{Desk: newTestDesktop(t)})

	rec := do(t, s.Handler(), http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "/api/stream") {
		t.Fatalf("page does not subscribe to the stream")
	}

	if rec := do(t, s.Handler(), http.MethodGet, "/nope", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown path status = %d", rec.Code)
	}
}

func TestListAndGetPanels(t *testing.T) {
	s := New(Options{Desk: newTestDesktop(t)})
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/api/panels", "")
	var list panelsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list.Panels) != 3 {
		t.Fatalf("got %d panels", len(list.Panels))
	}

	rec = do(t, h, http.MethodGet, "/api/panels/calculator", "")
	var one panelResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &one); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if one.Panel.Top != 110 || one.Panel.Left != 110 {
		t.Fatalf("calculator = %+v", one.Panel)
	}

	if rec := do(t, h, http.MethodGet, "/api/panels/missing", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("missing panel status = %d", rec.Code)
	}
}

func TestEventsDragPanel(t *testing.T) {
	desk := newTestDesktop(t)
	h := New(Options{Desk: desk}).Handler()

	rec := do(t, h, http.MethodPost, "/api/events", `{"type":"down","x":20,"y":20}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("down status = %d body=%s", rec.Code, rec.Body.String())
	}
	var down ipc.PointerData
	if err := json.Unmarshal(rec.Body.Bytes(), &down); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !down.PreventDefault || down.Hit == nil || down.Hit.PanelID != "browser" || down.Hit.Kind != "titlebar" {
		t.Fatalf("down = %+v hit=%+v", down, down.Hit)
	}

	do(t, h, http.MethodPost, "/api/events", `{"type":"move","x":70,"y":90}`)
	do(t, h, http.MethodPost, "/api/events", `{"type":"up","x":70,"y":90}`)

	snap, err := desk.Panel("browser")
	if err != nil {
		t.Fatalf("panel: %v", err)
	}
	if snap.Top != 80 || snap.Left != 60 || !snap.Focused {
		t.Fatalf("browser = %+v", snap)
	}
}

func TestEventsTouchUsesFirstTouch(t *testing.T) {
	desk := newTestDesktop(t)
	h := New(Options{Desk: desk}).Handler()

	do(t, h, http.MethodPost, "/api/events", `{"type":"down","source":"touch","touches":[{"x":300,"y":220},{"x":5,"y":5}]}`)
	do(t, h, http.MethodPost, "/api/events", `{"type":"move","source":"touch","touches":[{"x":310,"y":230}]}`)
	do(t, h, http.MethodPost, "/api/events", `{"type":"up","source":"touch"}`)

	snap, _ := desk.Panel("editor")
	if snap.Top != 220 || snap.Left != 220 {
		t.Fatalf("editor = %+v", snap.Geometry())
	}
}

func TestEventsRejectBadInput(t *testing.T) {
	h := New(Options{Desk: newTestDesktop(t)}).Handler()

	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"not json", "{"},
		{"unknown type", `{"type":"hover","x":1,"y":1}`},
		{"unknown source", `{"type":"down","source":"pen"}`},
		{"unknown field", `{"type":"down","pressure":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := do(t, h, http.MethodPost, "/api/events", tt.body); rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestPanelActions(t *testing.T) {
	desk := newTestDesktop(t)
	h := New(Options{Desk: desk}).Handler()

	if rec := do(t, h, http.MethodDelete, "/api/panels/browser", ""); rec.Code != http.StatusOK {
		t.Fatalf("close status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodDelete, "/api/panels/browser", ""); rec.Code != http.StatusConflict {
		t.Fatalf("second close status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/api/panels/calculator/focus", ""); rec.Code != http.StatusOK {
		t.Fatalf("focus status = %d", rec.Code)
	}
	if st := desk.Status(); st.Focused != "calculator" {
		t.Fatalf("focused = %q", st.Focused)
	}

	rec := do(t, h, http.MethodPost, "/api/panels", `{"title":"Notes","app":"editor"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("open status = %d body=%s", rec.Code, rec.Body.String())
	}
	var opened panelResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &opened); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if opened.Panel.Title != "Notes" || !opened.Panel.Focused {
		t.Fatalf("opened = %+v", opened.Panel)
	}
	if rec := do(t, h, http.MethodPost, "/api/panels", `{"app":"spreadsheet"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad app status = %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/api/reset", "")
	var reset panelsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &reset); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(reset.Panels) != 3 || !reset.Panels[0].Visible {
		t.Fatalf("after reset = %+v", reset.Panels)
	}
}

func TestStatus(t *testing.T) {
	h := New(Options{Desk: newTestDesktop(t)}).Handler()
	rec := do(t, h, http.MethodGet, "/api/status", "")
	var st desktop.Status
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Panels != 3 || st.Dragging {
		t.Fatalf("status = %+v", st)
	}
}

func readEvent(t *testing.T, r *bufio.Reader) panelsResponse {
	t.Helper()
	var event, data string
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "" && data != "":
			if event != "panels" {
				t.Fatalf("event = %q", event)
			}
			var out panelsResponse
			if err := json.Unmarshal([]byte(data), &out); err != nil {
				t.Fatalf("decode event: %v", err)
			}
			return out
		}
	}
}

func TestStreamPublishesChanges(t *testing.T) {
	desk := newTestDesktop(t)
	ts := httptest.NewServer(New(Options{Desk: desk}).Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/stream", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}

	r := bufio.NewReader(resp.Body)
	initial := readEvent(t, r)
	if len(initial.Panels) != 3 {
		t.Fatalf("initial event has %d panels", len(initial.Panels))
	}

	if err := desk.Close("editor"); err != nil {
		t.Fatalf("close: %v", err)
	}
	next := readEvent(t, r)
	for _, p := range next.Panels {
		if p.ID == "editor" && p.Visible {
			t.Fatalf("stream did not report the close")
		}
	}
}

func TestStartAndShutdown(t *testing.T) {
	s := New(Options{Addr: "127.0.0.1:0", Desk: newTestDesktop(t)})
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.Start(); err == nil {
		t.Fatalf("expected second start to fail")
	}

	resp, err := http.Get("http://" + s.Addr() + "/api/panels")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
