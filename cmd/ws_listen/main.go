package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

// ws_listen subscribes to a ds4d state websocket and prints state changes as
// they arrive. Handy for eyeballing what the daemon sees without writing a
// client.

func main() {
	wsURL := flag.String("ws", "ws://127.0.0.1:8808/ws/state", "ds4d state websocket URL")
	flag.Parse()

	// Parse websocket URL
	u, err := url.Parse(*wsURL)
	if err != nil {
		log.Fatalf("invalid websocket URL: %v", err)
	}

	// Handle shutdown
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	// Connect to websocket
	d := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}

	log.Printf("connecting to %s...", u.String())
	conn, _, err := d.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer conn.Close()

	log.Printf("connected! (press Ctrl+C to exit)")

	// Mutex to protect concurrent writes to websocket
	var writeMu sync.Mutex

	// Set up ping/pong handlers for connection health
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Start ping ticker to keep connection alive
	pingTicker := time.NewTicker(30 * time.Second)
	defer pingTicker.Stop()

	go func() {
		for range pingTicker.C {
			writeMu.Lock()
			err := conn.WriteMessage(websocket.PingMessage, nil)
			writeMu.Unlock()
			if err != nil {
				log.Printf("ping failed: %v", err)
				return
			}
		}
	}()

	// Track the last seen state for change detection. Only the read loop
	// touches these.
	var (
		lastState     map[string]any
		lastConnected *bool
	)

	// Message reading loop
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			messageType, message, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("websocket error: %v", err)
				}
				return
			}

			switch messageType {
			case websocket.TextMessage:
				if stop := handleFrame(message, &lastState, &lastConnected); stop {
					return
				}
			case websocket.BinaryMessage:
				fmt.Printf("[BINARY] %d bytes\n", len(message))
			}
		}
	}()

	// Wait for shutdown signal or connection close
	select {
	case <-sigc:
		log.Printf("shutting down...")
		// Clean close
		writeMu.Lock()
		err := conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		writeMu.Unlock()
		if err != nil {
			log.Printf("error closing connection: %v", err)
		}
	case <-done:
		log.Printf("connection closed")
	}
}

// stateFrame mirrors the daemon's envelope; State stays a flat map so the
// listener keeps working if the daemon grows new controls.
type stateFrame struct {
	Type string `json:"type"`
	Data struct {
		Connected bool           `json:"connected"`
		State     map[string]any `json:"state"`
	} `json:"data"`
}

// handleFrame processes one text frame. Returns true when the daemon
// announced it is stopping and there is nothing more to read.
func handleFrame(message []byte, lastState *map[string]any, lastConnected **bool) bool {
	var frame stateFrame
	if err := json.Unmarshal(message, &frame); err != nil {
		fmt.Printf("[TEXT] %s\n", string(message))
		return false
	}

	switch frame.Type {
	case "state_init":
		prettyJSON, _ := json.MarshalIndent(frame.Data.State, "", "  ")
		fmt.Printf("[INIT] connected=%v\n%s\n\n", frame.Data.Connected, string(prettyJSON))
		*lastState = frame.Data.State
		c := frame.Data.Connected
		*lastConnected = &c
		return false

	case "state_changed":
		printChanges(frame, lastState, lastConnected)
		return false

	case "controller_stopped":
		printChanges(frame, lastState, lastConnected)
		fmt.Printf("[STOPPED] daemon retired its controller\n")
		return true

	default:
		prettyJSON, _ := json.MarshalIndent(json.RawMessage(message), "", "  ")
		fmt.Printf("[FRAME]\n%s\n\n", string(prettyJSON))
		return false
	}
}

// printChanges diffs the frame against the last seen state and prints only
// what moved.
func printChanges(frame stateFrame, lastState *map[string]any, lastConnected **bool) {
	if *lastConnected == nil || **lastConnected != frame.Data.Connected {
		fmt.Printf("[CONNECTED] %v\n", frame.Data.Connected)
		c := frame.Data.Connected
		*lastConnected = &c
	}

	if frame.Data.State == nil {
		return
	}
	if *lastState == nil {
		prettyJSON, _ := json.MarshalIndent(frame.Data.State, "", "  ")
		fmt.Printf("[STATE]\n%s\n\n", string(prettyJSON))
		*lastState = frame.Data.State
		return
	}

	keys := make([]string, 0, len(frame.Data.State))
	for k := range frame.Data.State {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if (*lastState)[k] != frame.Data.State[k] {
			fmt.Printf("[STATE] %s = %v\n", k, frame.Data.State[k])
		}
	}
	*lastState = frame.Data.State
}
