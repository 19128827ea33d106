package main

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	ds4 "github.com/Chiwilly/pyPS4Controller2.0"
)

// Config is the top-level YAML configuration for the ds4d daemon.
//
// The config file is the primary configuration surface; flags exist for small
// overrides and environments where a file is awkward. Defaults and validation
// are centralized here so the rest of the daemon can assume a well-formed
// config.
type Config struct {
	// Joystick device configuration
	Device DeviceConfig `yaml:"device"`

	// State WebSocket server configuration
	StateWS StateWSConfig `yaml:"state_ws"`

	// IPC configuration (unix socket for ds4ctl and scripts)
	IPC IPCConfig `yaml:"ipc"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

type DeviceConfig struct {
	// Path is the joystick node to attach to.
	Path string `yaml:"path"`

	// Layout is the wire record layout in struct-format notation.
	Layout string `yaml:"layout"`

	// WaitTimeout is the number of liveness attempts at startup, one per
	// WaitIntervalMS.
	WaitTimeout int `yaml:"wait_timeout"`

	WaitIntervalMS int `yaml:"wait_interval_ms"`

	// Debug logs every decoded record.
	Debug bool `yaml:"debug"`
}

type StateWSConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	Path       string `yaml:"path"`

	// SendBuf is the per-client outbound queue size; BroadcastBuf the hub
	// inbound queue size. Zero means the hub defaults.
	SendBuf      int `yaml:"send_buf,omitempty"`
	BroadcastBuf int `yaml:"broadcast_buf,omitempty"`
}

type IPCConfig struct {
	SocketPath string `yaml:"socket_path"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a fully-populated Config. Keep these aligned with
// the CLI defaults in main.go.
func DefaultConfig() Config {
	return Config{
		Device: DeviceConfig{
			Path:           ds4.DefaultDevice,
			Layout:         ds4.DefaultLayoutFormat,
			WaitTimeout:    ds4.DefaultWaitTimeout,
			WaitIntervalMS: 1000,
		},
		StateWS: StateWSConfig{
			ListenAddr: "127.0.0.1:8808",
			Path:       "/ws/state",
		},
		IPC: IPCConfig{
			SocketPath: "/tmp/ds4d.sock",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfigFile reads and parses a YAML config file on top of the
// defaults. Unknown fields are rejected, which catches typos, and trailing
// documents are an error.
func LoadConfigFile(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config path is empty")
	}
	b, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config yaml: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err == nil {
		return Config{}, fmt.Errorf("decode config yaml: unexpected trailing document")
	}

	return cfg, nil
}

// FlagOverrides applies flag values on top of a loaded config. Flags pass
// pointers; a nil pointer means "not set on the command line" and leaves the
// config value alone. main.go decides which flags exist.
type FlagOverrides struct {
	DevicePath     *string
	Layout         *string
	WaitTimeout    *int
	WaitIntervalMS *int
	Debug          *bool

	ListenAddr *string
	WSPath     *string

	IPCSocketPath *string

	LogLevel *string
}

// Apply merges the overrides into cfg. Non-nil pointers are applied even
// when they carry a zero value.
func (o FlagOverrides) Apply(cfg *Config) {
	if cfg == nil {
		return
	}
	if o.DevicePath != nil {
		cfg.Device.Path = *o.DevicePath
	}
	if o.Layout != nil {
		cfg.Device.Layout = *o.Layout
	}
	if o.WaitTimeout != nil {
		cfg.Device.WaitTimeout = *o.WaitTimeout
	}
	if o.WaitIntervalMS != nil {
		cfg.Device.WaitIntervalMS = *o.WaitIntervalMS
	}
	if o.Debug != nil {
		cfg.Device.Debug = *o.Debug
	}

	if o.ListenAddr != nil {
		cfg.StateWS.ListenAddr = *o.ListenAddr
	}
	if o.WSPath != nil {
		cfg.StateWS.Path = *o.WSPath
	}

	if o.IPCSocketPath != nil {
		cfg.IPC.SocketPath = *o.IPCSocketPath
	}

	if o.LogLevel != nil {
		cfg.Logging.Level = *o.LogLevel
	}
}

// Validate checks config invariants and returns a user-friendly error. Call
// after defaults + file + overrides are applied.
func (c *Config) Validate() error {
	if c.Device.Path == "" {
		return errors.New("device.path must not be empty")
	}
	if _, err := ds4.ParseLayout(c.Device.Layout); err != nil {
		return fmt.Errorf("device.layout: %w", err)
	}
	if c.Device.WaitTimeout < 0 {
		return errors.New("device.wait_timeout must be >= 0")
	}
	if c.Device.WaitIntervalMS <= 0 {
		return errors.New("device.wait_interval_ms must be > 0")
	}

	if c.StateWS.ListenAddr == "" {
		return errors.New("state_ws.listen_addr must not be empty")
	}
	if !strings.HasPrefix(c.StateWS.Path, "/") {
		return errors.New("state_ws.path must start with /")
	}
	if c.StateWS.SendBuf < 0 {
		return errors.New("state_ws.send_buf must be >= 0")
	}
	if c.StateWS.BroadcastBuf < 0 {
		return errors.New("state_ws.broadcast_buf must be >= 0")
	}

	if c.IPC.SocketPath == "" {
		return errors.New("ipc.socket_path must not be empty")
	}

	if c.Logging.Level == "" {
		return errors.New("logging.level must not be empty")
	}

	return nil
}

// ToControllerConfig converts the device section into the engine config.
func (c *Config) ToControllerConfig(logger *slog.Logger) ds4.Config {
	return ds4.Config{
		Device:       ExpandPath(c.Device.Path),
		LayoutFormat: c.Device.Layout,
		WaitTimeout:  c.Device.WaitTimeout,
		WaitInterval: time.Duration(c.Device.WaitIntervalMS) * time.Millisecond,
		Debug:        c.Device.Debug,
		Logger:       logger,
	}
}

// ExpandPath expands a leading "~" in a path using $HOME. Handy for config
// values like the IPC socket path.
func ExpandPath(p string) string {
	if p == "" {
		return p
	}
	if p[0] != '~' {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	if len(p) >= 2 && (p[1] == '/' || p[1] == '\\') {
		return filepath.Join(home, p[2:])
	}
	return p
}
