package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/webdesk/internal/desktop"
	"github.com/1broseidon/webdesk/internal/panel"
	"github.com/1broseidon/webdesk/internal/runtimepath"
	"github.com/1broseidon/webdesk/internal/surface"
)

// Client handles IPC communication with a running desktop
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket path
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for an explicit socket path
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to desktop: %w (is `webdesk serve` running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("desktop error: %s", resp.Error)
	}

	return &resp, nil
}

func (c *Client) call(cmd CommandType, payload any, out any) error {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

// GetStatus retrieves desktop status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListPanels returns every panel in mount order
func (c *Client) ListPanels() ([]panel.Snapshot, error) {
	var data PanelsData
	if err := c.call(CommandListPanels, nil, &data); err != nil {
		return nil, err
	}
	return data.Panels, nil
}

// Pointer injects one pointer event
func (c *Client) Pointer(ev surface.PointerEvent) (*PointerData, error) {
	var data PointerData
	if err := c.call(CommandPointer, ev, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ClosePanel hides a panel
func (c *Client) ClosePanel(id string) error {
	return c.call(CommandClosePanel, PanelIDPayload{ID: id}, nil)
}

// FocusPanel raises and focuses a panel
func (c *Client) FocusPanel(id string) error {
	return c.call(CommandFocusPanel, PanelIDPayload{ID: id}, nil)
}

// OpenPanel opens a new panel and returns it
func (c *Client) OpenPanel(req desktop.OpenRequest) (panel.Snapshot, error) {
	var data PanelData
	if err := c.call(CommandOpenPanel, req, &data); err != nil {
		return panel.Snapshot{}, err
	}
	return data.Panel, nil
}

// Reset rebuilds the desktop from its configuration
func (c *Client) Reset() ([]panel.Snapshot, error) {
	var data PanelsData
	if err := c.call(CommandReset, nil, &data); err != nil {
		return nil, err
	}
	return data.Panels, nil
}

// Reload re-reads the config file and rebuilds the desktop
func (c *Client) Reload() ([]panel.Snapshot, error) {
	var data PanelsData
	if err := c.call(CommandReload, nil, &data); err != nil {
		return nil, err
	}
	return data.Panels, nil
}

// Ping checks if the desktop is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
