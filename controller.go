package ds4

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

const (
	// DefaultDevice is the first joystick node the kernel registers.
	DefaultDevice = "/dev/input/js0"

	// DefaultWaitTimeout is how many liveness attempts Start makes before
	// giving up, one per DefaultWaitInterval.
	DefaultWaitTimeout = 30

	DefaultWaitInterval = time.Second
)

// Config carries everything a Controller needs. The zero value is usable:
// every field has a default and only deliberate misconfiguration makes New
// fail.
type Config struct {
	// Device is the path of the joystick node to attach to.
	Device string

	// LayoutFormat describes one wire record in struct-format notation,
	// see ParseLayout. Empty means DefaultLayoutFormat.
	LayoutFormat string

	// Fields assigns record fields to their roles. Nil means
	// DefaultFieldMap.
	Fields *FieldMap

	// Mapping classifies decoded records. Nil means DS4Mapping.
	Mapping Mapping

	// WaitTimeout is the number of liveness attempts Start makes, one per
	// WaitInterval. Zero means DefaultWaitTimeout; negative is an error.
	WaitTimeout int

	// WaitInterval is the pause between liveness attempts. Zero means
	// DefaultWaitInterval.
	WaitInterval time.Duration

	// Debug additionally logs every decoded record.
	Debug bool

	// Logger receives engine logs. Nil means slog.Default().
	Logger *slog.Logger
}

// Controller owns one joystick device: it reads the record stream, folds it
// into a State snapshot and exposes that snapshot to any number of readers.
//
// Lifecycle is New, Start, Stop, in that order, each at most once; Stop is
// also safe before Start and repeated. All accessors are safe for
// concurrent use at any point in the lifecycle.
type Controller struct {
	device  string
	layout  *Layout
	fields  FieldMap
	mapping Mapping
	debug   bool
	logger  *slog.Logger

	waitTimeout  int
	waitInterval time.Duration

	mu        sync.RWMutex
	state     State
	history   []string
	connected bool
	info      *DeviceInfo

	startMu sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc
	file    *os.File

	updates chan struct{}
	done    chan struct{}
}

// New validates cfg and returns an idle Controller. No device access
// happens until Start.
func New(cfg Config) (*Controller, error) {
	if cfg.Device == "" {
		cfg.Device = DefaultDevice
	}

	format := cfg.LayoutFormat
	if format == "" {
		format = DefaultLayoutFormat
	}
	layout, err := ParseLayout(format)
	if err != nil {
		return nil, fmt.Errorf("layout %q: %w", format, err)
	}

	fields := DefaultFieldMap
	if cfg.Fields != nil {
		fields = *cfg.Fields
	}
	if err := fields.Validate(layout); err != nil {
		return nil, fmt.Errorf("layout %q: %w", format, err)
	}

	mapping := cfg.Mapping
	if mapping == nil {
		mapping = DS4Mapping{}
	}

	if cfg.WaitTimeout < 0 {
		return nil, fmt.Errorf("wait timeout %d: must not be negative", cfg.WaitTimeout)
	}
	waitTimeout := cfg.WaitTimeout
	if waitTimeout == 0 {
		waitTimeout = DefaultWaitTimeout
	}
	waitInterval := cfg.WaitInterval
	if waitInterval == 0 {
		waitInterval = DefaultWaitInterval
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Controller{
		device:       cfg.Device,
		layout:       layout,
		fields:       fields,
		mapping:      mapping,
		debug:        cfg.Debug,
		logger:       logger,
		waitTimeout:  waitTimeout,
		waitInterval: waitInterval,
		state:        NewState(),
		updates:      make(chan struct{}, 1),
		done:         make(chan struct{}),
	}, nil
}

// Start waits for the device to appear, opens it and launches the read
// pipeline. It blocks for the liveness gate at most, never for records; the
// driver's initial-state burst is processed by the pipeline like any other
// input. ctx bounds the gate only. Once Start returns nil the pipeline runs
// until Stop or a read failure.
func (c *Controller) Start(ctx context.Context) error {
	c.startMu.Lock()
	defer c.startMu.Unlock()
	if c.stopped {
		return ErrStopped
	}
	if c.started {
		return ErrAlreadyStarted
	}

	c.logger.Info("waiting for device", "device", c.device, "attempts", c.waitTimeout)
	if !waitForDevice(ctx, c.device, c.waitTimeout, c.waitInterval) {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fmt.Errorf("%w: %s not present after %d attempts", ErrDeviceUnavailable, c.device, c.waitTimeout)
	}

	f, err := os.Open(c.device)
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}

	if info, err := queryDeviceInfo(f); err == nil {
		c.mu.Lock()
		c.info = info
		c.mu.Unlock()
		c.logger.Info("device identified",
			"name", info.Name, "axes", info.Axes, "buttons", info.Buttons, "driver", info.DriverVersion)
	} else if c.debug {
		c.logger.Debug("device identity unavailable", "device", c.device, "error", err)
	}

	// The pipeline deliberately does not inherit ctx: the caller's context
	// bounds the gate, shutdown afterwards is Stop's job.
	runCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.file = f
	c.started = true
	c.setConnected(true)
	c.logger.Info("device attached", "device", c.device)
	go c.run(runCtx, f)
	return nil
}

// Stop shuts the pipeline down and waits for it to exit. The pending read
// is unblocked by closing the device file. Safe to call repeatedly and
// before Start; afterwards the controller cannot be restarted.
func (c *Controller) Stop() {
	c.startMu.Lock()
	if c.stopped {
		c.startMu.Unlock()
		<-c.done
		return
	}
	c.stopped = true
	started := c.started
	if c.cancel != nil {
		c.cancel()
	}
	if c.file != nil {
		c.file.Close()
	}
	c.startMu.Unlock()

	if started {
		<-c.done
		return
	}
	// The pipeline never ran, so its channels are ours to retire.
	close(c.updates)
	close(c.done)
}

// signal wakes Updates receivers without ever blocking the pipeline. A full
// buffer already promises a wakeup, so further ticks coalesce away.
func (c *Controller) signal() {
	select {
	case c.updates <- struct{}{}:
	default:
	}
}

func (c *Controller) setConnected(v bool) {
	c.mu.Lock()
	c.connected = v
	c.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// StateMap returns the current state as a flat key/value structure.
func (c *Controller) StateMap() map[string]any {
	return c.Snapshot().Map()
}

// History returns a copy of the labels appended so far, oldest first.
func (c *Controller) History() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.history))
	copy(out, c.history)
	return out
}

// Connected reports whether the pipeline is attached to the device.
func (c *Controller) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// DeviceInfo returns the driver's description of the device, if it could
// be queried during Start.
func (c *Controller) DeviceInfo() (DeviceInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.info == nil {
		return DeviceInfo{}, false
	}
	return *c.info, true
}

// Updates returns a channel that receives a tick after records are
// processed. Ticks coalesce: one tick may cover any number of records, so
// receivers re-read the snapshot rather than count. Closed when the
// pipeline exits.
func (c *Controller) Updates() <-chan struct{} {
	return c.updates
}

// Done returns a channel closed when the pipeline has exited, whether by
// Stop, device loss or end of stream.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}
