package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/1broseidon/webdesk/internal/desktop"
	"github.com/1broseidon/webdesk/internal/ipc"
	"github.com/1broseidon/webdesk/internal/panel"
	"github.com/1broseidon/webdesk/internal/surface"
)

const maxBodyBytes = 64 << 10

type panelsResponse struct {
	Panels []panel.Snapshot `json:"panels"`
}

type panelResponse struct {
	Panel panel.Snapshot `json:"panel"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data, err := assets.ReadFile("assets/index.html")
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.desk.Status())
}

func (s *Server) handleListPanels(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, panelsResponse{Panels: s.desk.Snapshot()})
}

func (s *Server) handleGetPanel(w http.ResponseWriter, r *http.Request) {
	snap, err := s.desk.Panel(r.PathValue("id"))
	if err != nil {
		s.writeDesktopError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, panelResponse{Panel: snap})
}

func (s *Server) handleOpenPanel(w http.ResponseWriter, r *http.Request) {
	var req desktop.OpenRequest
	if err := decodeBody(r, &req, true); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	snap, err := s.desk.Open(req)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, panelResponse{Panel: snap})
}

func (s *Server) handleClosePanel(w http.ResponseWriter, r *http.Request) {
	if err := s.desk.Close(r.PathValue("id")); err != nil {
		s.writeDesktopError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, panelsResponse{Panels: s.desk.Snapshot()})
}

func (s *Server) handleFocusPanel(w http.ResponseWriter, r *http.Request) {
	if err := s.desk.Focus(r.PathValue("id")); err != nil {
		s.writeDesktopError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, panelsResponse{Panels: s.desk.Snapshot()})
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var ev surface.PointerEvent
	if err := decodeBody(r, &ev, false); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if _, err := surface.ParseEventType(string(ev.Type)); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	switch ev.Source {
	case "":
		ev.Source = surface.SourceMouse
	case surface.SourceMouse, surface.SourceTouch:
	default:
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("unknown pointer source %q", ev.Source))
		return
	}

	res, panels := s.desk.Dispatch(ev)
	out := ipc.PointerData{PreventDefault: res.PreventDefault, Panels: panels}
	if ev.Type == surface.EventDown {
		hit := ipc.NewHitInfo(res.Hit)
		out.Hit = &hit
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.desk.Reset(); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, panelsResponse{Panels: s.desk.Snapshot()})
}

// handleStream sends the full panel list as a "panels" event on connect and
// after every change.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	// Streams outlive the server write timeout.
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	ch, cancel := s.desk.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, rc, s.desk.Snapshot()); err != nil {
		return
	}

	ticker := time.NewTicker(s.keepAlive)
	defer ticker.Stop()

	s.logger.Debug("stream opened", "remote", r.RemoteAddr)
	defer s.logger.Debug("stream closed", "remote", r.RemoteAddr)

	for {
		select {
		case <-r.Context().Done():
			return
		case panels, ok := <-ch:
			if !ok {
				return
			}
			if err := writeEvent(w, rc, panels); err != nil {
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, rc *http.ResponseController, panels []panel.Snapshot) error {
	data, err := json.Marshal(panelsResponse{Panels: panels})
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: panels\ndata: %s\n\n", data); err != nil {
		return err
	}
	return rc.Flush()
}

func decodeBody(r *http.Request, out any, allowEmpty bool) error {
	if r.Body == nil || r.ContentLength == 0 {
		if allowEmpty {
			return nil
		}
		return fmt.Errorf("request body required")
	}
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) writeDesktopError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, desktop.ErrPanelNotFound):
		s.writeError(w, http.StatusNotFound, err)
	case errors.Is(err, desktop.ErrPanelHidden):
		s.writeError(w, http.StatusConflict, err)
	default:
		s.writeError(w, http.StatusInternalServerError, err)
	}
}
