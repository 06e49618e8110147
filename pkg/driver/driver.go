// Package driver abstracts vendor camera SDKs behind a common adapter
// interface and a registry. An adapter owns the vendor handle; the
// registry wraps it with a stable ID and a state machine so callers never
// see a half-opened device.
package driver

import (
	"github.com/pion/camctl/pkg/control"
	"github.com/pion/camctl/pkg/prop"
	"github.com/pion/camctl/pkg/video"
)

// Adapter is what a vendor binding implements. Open acquires the device
// handle, Properties advertises the supported capture modes, Capture
// begins readout with the negotiated property, Stop ends it, and Close
// releases the handle. Adapters don't validate call ordering; the wrapper
// does that for them.
type Adapter interface {
	Open() error
	Close() error
	Properties() []prop.Media
	Capture(p prop.Media) (video.Reader, error)
	Stop() error
}

// Controller is implemented by adapters whose device exposes tunable
// controls. Adapters map their SDK's status codes onto the control
// package's error classes.
type Controller interface {
	Controls() []control.Desc
	Control(id string) (control.Value, error)
	SetControl(id string, v control.Value) error
}

// Driver is a registered, state-tracked adapter.
type Driver interface {
	Adapter
	Controller
	ID() string
	Info() Info
	Status() State
}

// Sensor describes the physical sensor behind a driver: the datasheet
// values a caller needs for capability negotiation.
type Sensor struct {
	// MaxWidth and MaxHeight are the full readout area in unbinned pixels.
	MaxWidth  int
	MaxHeight int
	// Bins lists the supported binning factors, always including 1.
	Bins []int
	// BitDepth is the ADC depth in bits.
	BitDepth int
	Color    bool
	// Cooled reports whether the camera has a thermoelectric cooler.
	Cooled bool
	// PixelSizeUM is the pixel pitch in micrometers, 0 if unknown.
	PixelSizeUM float64
}

// Info holds the identity of a device as reported by its vendor SDK.
type Info struct {
	Label      string
	DeviceType DeviceType
	Model      string
	Serial     string
	Sensor     Sensor
}

// SupportsBin reports whether the sensor advertises the binning factor.
func (s *Sensor) SupportsBin(bin int) bool {
	if bin == 0 || bin == 1 {
		return true
	}
	for _, b := range s.Bins {
		if b == bin {
			return true
		}
	}
	return false
}
