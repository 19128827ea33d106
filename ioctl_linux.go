//go:build linux

package ds4

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Query codes from linux/joystick.h. The name request folds its buffer
// length into the code, so jsiocgName is valid only for jsNameLen bytes.
const (
	jsiocgVersion = 0x80046a01
	jsiocgAxes    = 0x80016a11
	jsiocgButtons = 0x80016a12

	jsNameLen  = 128
	jsiocgName = 0x80006a13 + (jsNameLen << 16)
)

func jsIoctl(fd uintptr, req uint, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, uintptr(req), uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// queryDeviceInfo asks the joystick driver to describe the open device.
// Fails on files that are not joystick nodes, FIFOs included.
func queryDeviceInfo(f *os.File) (*DeviceInfo, error) {
	var version uint32
	if err := jsIoctl(f.Fd(), jsiocgVersion, unsafe.Pointer(&version)); err != nil {
		return nil, fmt.Errorf("query driver version: %w", err)
	}

	var axes, buttons uint8
	if err := jsIoctl(f.Fd(), jsiocgAxes, unsafe.Pointer(&axes)); err != nil {
		return nil, fmt.Errorf("query axis count: %w", err)
	}
	if err := jsIoctl(f.Fd(), jsiocgButtons, unsafe.Pointer(&buttons)); err != nil {
		return nil, fmt.Errorf("query button count: %w", err)
	}

	var name [jsNameLen]byte
	if err := jsIoctl(f.Fd(), jsiocgName, unsafe.Pointer(&name[0])); err != nil {
		return nil, fmt.Errorf("query device name: %w", err)
	}

	return &DeviceInfo{
		Name:          cString(name[:]),
		Axes:          int(axes),
		Buttons:       int(buttons),
		DriverVersion: fmt.Sprintf("%d.%d.%d", version>>16, (version>>8)&0xff, version&0xff),
	}, nil
}

func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
