package driver

// DeviceType represents human readable device type. DeviceType
// can be useful to filter the drivers too.
type DeviceType string

const (
	// Camera represents sensor camera devices
	Camera DeviceType = "camera"
	// Simulated represents software-only devices used for tests and demos
	Simulated DeviceType = "simulated"
)
