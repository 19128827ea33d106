//go:build !linux

package ds4

import (
	"errors"
	"os"
)

func queryDeviceInfo(*os.File) (*DeviceInfo, error) {
	return nil, errors.New("device identity requires the linux joystick interface")
}
