package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/webdesk/internal/config"
	"github.com/1broseidon/webdesk/internal/desktop"
	"github.com/1broseidon/webdesk/internal/runtimepath"
	"github.com/1broseidon/webdesk/internal/surface"
)

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	configPath   string
	listener     net.Listener
	desk         *desktop.Desktop
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates an IPC server on the default socket path. configPath is
// the file RELOAD reads.
func NewServer(desk *desktop.Desktop, configPath string) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return NewServerAt(socketPath, desk, configPath), nil
}

// NewServerAt creates an IPC server on an explicit socket path.
func NewServerAt(socketPath string, desk *desktop.Desktop, configPath string) *Server {
	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		configPath: configPath,
		desk:       desk,
		startTime:  time.Now(),
	}
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandListPanels:
		return s.handleListPanels()
	case CommandPointer:
		return s.handlePointer(req.Payload)
	case CommandClosePanel:
		return s.handleClosePanel(req.Payload)
	case CommandFocusPanel:
		return s.handleFocusPanel(req.Payload)
	case CommandOpenPanel:
		return s.handleOpenPanel(req.Payload)
	case CommandReset:
		return s.handleReset()
	case CommandReload:
		return s.handleReload()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetStatus() *Response {
	status := StatusData{
		Status:        s.desk.Status(),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		ConfigPath:    s.configPath,
	}
	resp, _ := NewOKResponse(status)
	return resp
}

func (s *Server) handleListPanels() *Response {
	resp, _ := NewOKResponse(PanelsData{Panels: s.desk.Snapshot()})
	return resp
}

func (s *Server) handlePointer(payload json.RawMessage) *Response {
	var ev surface.PointerEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
	}
	if _, err := surface.ParseEventType(string(ev.Type)); err != nil {
		return NewErrorResponse(err.Error())
	}
	if ev.Source == "" {
		ev.Source = surface.SourceMouse
	}

	res, panels := s.desk.Dispatch(ev)
	data := PointerData{PreventDefault: res.PreventDefault, Panels: panels}
	if ev.Type == surface.EventDown {
		hit := NewHitInfo(res.Hit)
		data.Hit = &hit
	}
	resp, _ := NewOKResponse(data)
	return resp
}

func (s *Server) handleClosePanel(payload json.RawMessage) *Response {
	var req PanelIDPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
	}
	if err := s.desk.Close(req.ID); err != nil {
		return NewErrorResponse(err.Error())
	}
	log.Printf("IPC: closed panel %s", req.ID)
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleFocusPanel(payload json.RawMessage) *Response {
	var req PanelIDPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
	}
	if err := s.desk.Focus(req.ID); err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleOpenPanel(payload json.RawMessage) *Response {
	var req desktop.OpenRequest
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
		}
	}
	snap, err := s.desk.Open(req)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, _ := NewOKResponse(PanelData{Panel: snap})
	return resp
}

func (s *Server) handleReset() *Response {
	if err := s.desk.Reset(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reset: %v", err))
	}
	log.Println("IPC: desktop reset")
	resp, _ := NewOKResponse(PanelsData{Panels: s.desk.Snapshot()})
	return resp
}

// handleReload reloads the configuration and rebuilds the desktop
func (s *Server) handleReload() *Response {
	log.Println("IPC: Received RELOAD command")

	if s.configPath == "" {
		return NewErrorResponse("no config file to reload")
	}
	res, err := config.LoadFromPath(s.configPath)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	if err := s.desk.Reload(res.Config); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to rebuild desktop: %v", err))
	}

	log.Println("IPC: Config reloaded successfully")
	resp, _ := NewOKResponse(PanelsData{Panels: s.desk.Snapshot()})
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
