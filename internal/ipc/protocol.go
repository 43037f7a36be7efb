package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/webdesk/internal/desktop"
	"github.com/1broseidon/webdesk/internal/panel"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus  CommandType = "GET_STATUS"
	CommandListPanels CommandType = "LIST_PANELS"
	CommandPointer    CommandType = "POINTER"
	CommandClosePanel CommandType = "CLOSE_PANEL"
	CommandFocusPanel CommandType = "FOCUS_PANEL"
	CommandOpenPanel  CommandType = "OPEN_PANEL"
	CommandReset      CommandType = "RESET"
	CommandReload     CommandType = "RELOAD"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	desktop.Status
	UptimeSeconds int64  `json:"uptime_seconds"`
	ConfigPath    string `json:"config_path,omitempty"`
}

// PanelsData represents the data returned by LIST_PANELS and RESET
type PanelsData struct {
	Panels []panel.Snapshot `json:"panels"`
}

// PanelData is the data returned by OPEN_PANEL
type PanelData struct {
	Panel panel.Snapshot `json:"panel"`
}

// PanelIDPayload is the payload for CLOSE_PANEL and FOCUS_PANEL
type PanelIDPayload struct {
	ID string `json:"id"`
}

// HitInfo is the wire form of a hit test result.
type HitInfo struct {
	Kind       string `json:"kind"`
	PanelID    string `json:"panel_id,omitempty"`
	Affordance string `json:"affordance,omitempty"`
	Button     string `json:"button,omitempty"`
}

// NewHitInfo converts a hit test result for the wire.
func NewHitInfo(h panel.Hit) HitInfo {
	info := HitInfo{Kind: h.Kind.String(), PanelID: h.PanelID}
	if h.Affordance != panel.AffordanceNone {
		info.Affordance = h.Affordance.String()
	}
	if h.Button != panel.ButtonNone {
		info.Button = h.Button.String()
	}
	return info
}

// PointerData is the data returned by POINTER
type PointerData struct {
	PreventDefault bool             `json:"prevent_default"`
	Hit            *HitInfo         `json:"hit,omitempty"`
	Panels         []panel.Snapshot `json:"panels"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
