package camctl

import "github.com/pion/camctl/pkg/driver"

// DeviceInfo identifies one attached (or simulated) camera.
type DeviceInfo struct {
	// DeviceID is the registry ID; pass it as a DeviceID constraint to
	// open this exact device.
	DeviceID   string
	Label      string
	DeviceType driver.DeviceType
	Model      string
	Serial     string
	Sensor     driver.Sensor
}

// EnumerateDevices lists every camera known to the driver registry,
// without opening any of them.
func EnumerateDevices() []DeviceInfo {
	drivers := driver.GetManager().Query()

	out := make([]DeviceInfo, 0, len(drivers))
	for _, d := range drivers {
		info := d.Info()
		out = append(out, DeviceInfo{
			DeviceID:   d.ID(),
			Label:      info.Label,
			DeviceType: info.DeviceType,
			Model:      info.Model,
			Serial:     info.Serial,
			Sensor:     info.Sensor,
		})
	}
	return out
}
