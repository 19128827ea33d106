package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strings"
	"time"

	ds4 "github.com/Chiwilly/pyPS4Controller2.0"
)

// ============================================================================
// IPC Server - Unix Domain Socket Interface
// ============================================================================
// The IPC server lets external clients query the daemon via a Unix domain
// socket. This enables:
//   - Inspection via command-line tools (ds4ctl)
//   - Scripting and automation without a WebSocket client
//
// Protocol: Line-delimited JSON
//   - Client sends: {"op": "state" | "history" | "status"}
//   - Server responds: {"status": "ok", "data": ...}
//     or {"status": "error", "error": "msg"}
// ============================================================================

// IPCRequest is a single client request.
type IPCRequest struct {
	Op string `json:"op"`
}

// IPCResponse represents the response sent back to IPC clients
type IPCResponse struct {
	Status string          `json:"status"`          // "ok" or "error"
	Error  string          `json:"error,omitempty"` // error message if status == "error"
	Data   json.RawMessage `json:"data,omitempty"`  // op-specific payload
}

// ipcStatusData is the payload for the "status" op.
type ipcStatusData struct {
	Connected     bool   `json:"connected"`
	Device        string `json:"device"`
	DeviceName    string `json:"device_name,omitempty"`
	Axes          int    `json:"axes,omitempty"`
	Buttons       int    `json:"buttons,omitempty"`
	DriverVersion string `json:"driver_version,omitempty"`
	UptimeSec     int64  `json:"uptime_sec"`
	HistoryLen    int    `json:"history_len"`
}

// runIPCServer starts the Unix domain socket server.
// It runs until ctx is canceled, at which point it closes the listener and exits.
func runIPCServer(ctx context.Context, socketPath string, ctrl *ds4.Controller, device string, startedAt time.Time, logger *slog.Logger) error {
	// Remove existing socket file if it exists
	if err := os.RemoveAll(socketPath); err != nil {
		return fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", socketPath, err)
	}
	defer listener.Close()
	defer os.Remove(socketPath)

	// Make socket accessible (consider security implications in production)
	if err := os.Chmod(socketPath, 0666); err != nil {
		return fmt.Errorf("chmod socket: %w", err)
	}

	logger.Info("IPC listening", "socket", socketPath)

	// Close the listener on shutdown. This unblocks Accept().
	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			// Exit cleanly on shutdown/close.
			if ctx.Err() != nil {
				logger.Debug("IPC listener closed (shutdown)")
				return nil
			}
			if errors.Is(err, net.ErrClosed) || strings.Contains(err.Error(), "use of closed network connection") {
				logger.Debug("IPC listener closed")
				return nil
			}

			logger.Error("IPC accept error", "error", err)
			continue
		}

		go handleIPCConnection(conn, ctrl, device, startedAt, logger)
	}
}

// handleIPCConnection serves one client until it hangs up. Each request line
// gets exactly one response line.
func handleIPCConnection(conn net.Conn, ctrl *ds4.Controller, device string, startedAt time.Time, logger *slog.Logger) {
	defer conn.Close()

	logger.Debug("IPC connection", "remote_addr", conn.RemoteAddr())

	scanner := bufio.NewScanner(conn)
	encoder := json.NewEncoder(conn)

	for scanner.Scan() {
		line := scanner.Text()
		logger.Debug("IPC received", "line", line)

		var req IPCRequest
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			response := IPCResponse{
				Status: "error",
				Error:  fmt.Sprintf("parse request: %v", err),
			}
			if encErr := encoder.Encode(response); encErr != nil {
				logger.Error("IPC failed to send error response", "error", encErr)
			}
			continue
		}

		response := handleIPCRequest(req, ctrl, device, startedAt)
		if encErr := encoder.Encode(response); encErr != nil {
			logger.Error("IPC failed to send response", "error", encErr)
		}
	}

	logger.Debug("IPC connection closed")
}

func handleIPCRequest(req IPCRequest, ctrl *ds4.Controller, device string, startedAt time.Time) IPCResponse {
	var payload any

	switch strings.ToLower(req.Op) {
	case "state":
		payload = ctrl.Snapshot()

	case "history":
		payload = ctrl.History()

	case "status":
		st := ipcStatusData{
			Connected:  ctrl.Connected(),
			Device:     device,
			UptimeSec:  int64(time.Since(startedAt).Seconds()),
			HistoryLen: len(ctrl.History()),
		}
		if info, ok := ctrl.DeviceInfo(); ok {
			st.DeviceName = info.Name
			st.Axes = info.Axes
			st.Buttons = info.Buttons
			st.DriverVersion = info.DriverVersion
		}
		payload = st

	default:
		return IPCResponse{
			Status: "error",
			Error:  fmt.Sprintf("unknown op %q (want state, history or status)", req.Op),
		}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return IPCResponse{
			Status: "error",
			Error:  fmt.Sprintf("marshal %s: %v", req.Op, err),
		}
	}
	return IPCResponse{Status: "ok", Data: data}
}

// ============================================================================
// IPC Client Utility Functions
// ============================================================================
// These functions can be used to query the daemon from external programs or
// for testing.
// ============================================================================

// SendIPCRequest sends one request to the daemon via IPC and returns the
// decoded response.
func SendIPCRequest(socketPath, op string) (IPCResponse, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return IPCResponse{}, fmt.Errorf("connect to %s: %w", socketPath, err)
	}
	defer conn.Close()

	data, err := json.Marshal(IPCRequest{Op: op})
	if err != nil {
		return IPCResponse{}, fmt.Errorf("marshal request: %w", err)
	}
	if _, err := fmt.Fprintf(conn, "%s\n", data); err != nil {
		return IPCResponse{}, fmt.Errorf("send request: %w", err)
	}

	var resp IPCResponse
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return IPCResponse{}, fmt.Errorf("decode response: %w", err)
	}
	if resp.Status != "ok" {
		return resp, fmt.Errorf("ipc error: %s", resp.Error)
	}
	return resp, nil
}
