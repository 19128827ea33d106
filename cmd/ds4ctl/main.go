package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"os"
)

// ============================================================================
// ds4ctl - Command-line IPC Client
// ============================================================================
// This tool queries the ds4d daemon via its Unix domain socket.
//
// Usage:
//   ds4ctl state
//   ds4ctl history
//   ds4ctl status
//
// Options:
//   -socket PATH    Unix domain socket path (default: /tmp/ds4d.sock)
// ============================================================================

// IPC types (duplicated from main package for standalone binary)
type IPCRequest struct {
	Op string `json:"op"`
}

type IPCResponse struct {
	Status string          `json:"status"`
	Error  string          `json:"error,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

func main() {
	socketPath := "/tmp/ds4d.sock"

	// Parse arguments
	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	// Check for -socket flag
	if args[0] == "-socket" || args[0] == "--socket" {
		if len(args) < 2 {
			fmt.Fprintf(os.Stderr, "error: -socket requires an argument\n")
			os.Exit(1)
		}
		socketPath = args[1]
		args = args[2:]
	}

	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	var op string
	switch args[0] {
	case "state":
		op = "state"

	case "history", "hist":
		op = "history"

	case "status", "info":
		op = "status"

	case "help", "-h", "--help":
		printUsage()
		os.Exit(0)

	default:
		fmt.Fprintf(os.Stderr, "error: unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}

	data, err := sendRequest(socketPath, op)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := printResult(op, data); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func sendRequest(socketPath, op string) (json.RawMessage, error) {
	// Connect to socket
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", socketPath, err)
	}
	defer conn.Close()

	// Send request (line-delimited JSON)
	req, err := json.Marshal(IPCRequest{Op: op})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	if _, err := fmt.Fprintf(conn, "%s\n", req); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	// Read response
	var response IPCResponse
	decoder := json.NewDecoder(conn)
	if err := decoder.Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if response.Status == "error" {
		return nil, fmt.Errorf("daemon error: %s", response.Error)
	}

	return response.Data, nil
}

func printResult(op string, data json.RawMessage) error {
	switch op {
	case "history":
		// One entry per line, oldest first.
		var labels []string
		if err := json.Unmarshal(data, &labels); err != nil {
			return fmt.Errorf("decode history: %w", err)
		}
		for _, label := range labels {
			fmt.Println(label)
		}
		return nil

	default:
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return fmt.Errorf("format %s: %w", op, err)
		}
		fmt.Println(buf.String())
		return nil
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `ds4ctl - Query the ds4d daemon via IPC

Usage:
  ds4ctl [options] <command>

Options:
  -socket PATH    Unix domain socket path (default: /tmp/ds4d.sock)

Commands:
  state           Print the live controller snapshot as JSON
  history, hist   Print the input history, one label per line
  status, info    Print daemon/device status as JSON
  help, -h        Show this help message

Examples:
  ds4ctl state
  ds4ctl history
  ds4ctl -socket /var/run/ds4d.sock status
`)
}
