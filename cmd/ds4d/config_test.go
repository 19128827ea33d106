package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	ds4 "github.com/Chiwilly/pyPS4Controller2.0"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ds4d.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Device.Path != ds4.DefaultDevice {
		t.Errorf("device.path = %q, want %q", cfg.Device.Path, ds4.DefaultDevice)
	}
	if cfg.Device.Layout != ds4.DefaultLayoutFormat {
		t.Errorf("device.layout = %q, want %q", cfg.Device.Layout, ds4.DefaultLayoutFormat)
	}
	if cfg.Device.WaitTimeout != ds4.DefaultWaitTimeout {
		t.Errorf("device.wait_timeout = %d, want %d", cfg.Device.WaitTimeout, ds4.DefaultWaitTimeout)
	}
	if cfg.Device.WaitIntervalMS != 1000 {
		t.Errorf("device.wait_interval_ms = %d, want 1000", cfg.Device.WaitIntervalMS)
	}
	if cfg.StateWS.ListenAddr != "127.0.0.1:8808" {
		t.Errorf("state_ws.listen_addr = %q, want 127.0.0.1:8808", cfg.StateWS.ListenAddr)
	}
	if cfg.StateWS.Path != "/ws/state" {
		t.Errorf("state_ws.path = %q, want /ws/state", cfg.StateWS.Path)
	}
	if cfg.IPC.SocketPath != "/tmp/ds4d.sock" {
		t.Errorf("ipc.socket_path = %q, want /tmp/ds4d.sock", cfg.IPC.SocketPath)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("logging.level = %q, want info", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config does not validate: %v", err)
	}
}

func TestLoadConfigFile_PartialOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
device:
  path: /dev/input/js1
  debug: true
logging:
  level: debug
`)

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}

	if cfg.Device.Path != "/dev/input/js1" {
		t.Errorf("device.path = %q, want /dev/input/js1", cfg.Device.Path)
	}
	if !cfg.Device.Debug {
		t.Errorf("device.debug = false, want true")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging.level = %q, want debug", cfg.Logging.Level)
	}

	// Sections the file does not mention keep their defaults.
	if cfg.Device.Layout != ds4.DefaultLayoutFormat {
		t.Errorf("device.layout = %q, want default %q", cfg.Device.Layout, ds4.DefaultLayoutFormat)
	}
	if cfg.StateWS.ListenAddr != "127.0.0.1:8808" {
		t.Errorf("state_ws.listen_addr = %q, want default", cfg.StateWS.ListenAddr)
	}
	if cfg.IPC.SocketPath != "/tmp/ds4d.sock" {
		t.Errorf("ipc.socket_path = %q, want default", cfg.IPC.SocketPath)
	}
}

func TestLoadConfigFile_RejectsUnknownFields(t *testing.T) {
	path := writeConfigFile(t, `
device:
  pathh: /dev/input/js0
`)

	if _, err := LoadConfigFile(path); err == nil {
		t.Fatalf("expected error for unknown field, got nil")
	}
}

func TestLoadConfigFile_RejectsTrailingDocument(t *testing.T) {
	path := writeConfigFile(t, `
logging:
  level: warn
---
logging:
  level: error
`)

	_, err := LoadConfigFile(path)
	if err == nil {
		t.Fatalf("expected error for trailing document, got nil")
	}
	if !strings.Contains(err.Error(), "trailing") {
		t.Fatalf("error = %q, want mention of trailing document", err)
	}
}

func TestLoadConfigFile_MissingFile(t *testing.T) {
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file, got nil")
	}
}

func TestFlagOverrides_Apply(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Device.Debug = true

	device := "/dev/input/js2"
	layout := "<3Bh2b"
	timeout := 0
	debug := false
	listen := "0.0.0.0:9900"
	level := "warn"

	o := FlagOverrides{
		DevicePath:  &device,
		Layout:      &layout,
		WaitTimeout: &timeout,
		Debug:       &debug,
		ListenAddr:  &listen,
		LogLevel:    &level,
	}
	o.Apply(&cfg)

	if cfg.Device.Path != device {
		t.Errorf("device.path = %q, want %q", cfg.Device.Path, device)
	}
	if cfg.Device.Layout != layout {
		t.Errorf("device.layout = %q, want %q", cfg.Device.Layout, layout)
	}
	if cfg.Device.WaitTimeout != 0 {
		t.Errorf("device.wait_timeout = %d, want 0", cfg.Device.WaitTimeout)
	}
	if cfg.Device.Debug {
		t.Errorf("device.debug = true, want false (explicit zero-value override)")
	}
	if cfg.StateWS.ListenAddr != listen {
		t.Errorf("state_ws.listen_addr = %q, want %q", cfg.StateWS.ListenAddr, listen)
	}
	if cfg.Logging.Level != level {
		t.Errorf("logging.level = %q, want %q", cfg.Logging.Level, level)
	}

	// Fields with nil overrides stay put.
	if cfg.Device.WaitIntervalMS != 1000 {
		t.Errorf("device.wait_interval_ms = %d, want untouched 1000", cfg.Device.WaitIntervalMS)
	}
	if cfg.IPC.SocketPath != "/tmp/ds4d.sock" {
		t.Errorf("ipc.socket_path = %q, want untouched default", cfg.IPC.SocketPath)
	}
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty device path", func(c *Config) { c.Device.Path = "" }},
		{"bad layout", func(c *Config) { c.Device.Layout = "3B2" }},
		{"big-endian layout", func(c *Config) { c.Device.Layout = ">3Bh2b" }},
		{"negative wait timeout", func(c *Config) { c.Device.WaitTimeout = -1 }},
		{"zero wait interval", func(c *Config) { c.Device.WaitIntervalMS = 0 }},
		{"empty listen addr", func(c *Config) { c.StateWS.ListenAddr = "" }},
		{"relative ws path", func(c *Config) { c.StateWS.Path = "ws/state" }},
		{"negative send buf", func(c *Config) { c.StateWS.SendBuf = -1 }},
		{"negative broadcast buf", func(c *Config) { c.StateWS.BroadcastBuf = -1 }},
		{"empty socket path", func(c *Config) { c.IPC.SocketPath = "" }},
		{"empty log level", func(c *Config) { c.Logging.Level = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error, got nil")
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	for _, s := range []string{"error", "warn", "warning", "info", "debug", "DEBUG", "Info"} {
		if _, err := parseLogLevel(s); err != nil {
			t.Errorf("parseLogLevel(%q): %v", s, err)
		}
	}
	if _, err := parseLogLevel("verbose"); err == nil {
		t.Errorf("parseLogLevel(verbose): expected error, got nil")
	}
}
