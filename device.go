package ds4

// DeviceInfo describes the attached device as reported by its driver.
// Availability depends on the platform; the engine runs fine without it.
type DeviceInfo struct {
	Name          string
	Axes          int
	Buttons       int
	DriverVersion string
}
