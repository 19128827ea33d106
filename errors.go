package ds4

import "errors"

// Sentinel errors returned by the Controller lifecycle. Match with errors.Is;
// returned errors may wrap these with device-specific context.
var (
	// ErrDeviceUnavailable means the device path never appeared within the
	// liveness window. Start fails without ever opening the device file.
	ErrDeviceUnavailable = errors.New("device unavailable")

	// ErrAlreadyStarted is returned by Start while the pipeline is running.
	ErrAlreadyStarted = errors.New("controller already started")

	// ErrStopped is returned by Start after Stop. A Controller cannot be
	// restarted; construct a new one to reattach to a device.
	ErrStopped = errors.New("controller stopped")
)
