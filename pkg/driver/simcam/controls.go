package simcam

import (
	"fmt"
	"math"
	"time"

	"github.com/pion/camctl/pkg/control"
)

var controlDescs = []control.Desc{
	{
		ID:            control.Exposure,
		Name:          "Exposure",
		Description:   "Exposure time in microseconds",
		Type:          control.TypeInt,
		Min:           32,
		Max:           2_000_000_000,
		Default:       10_000,
		AutoSupported: true,
	},
	{
		ID:            control.Gain,
		Name:          "Gain",
		Description:   "Analog gain, 0.1 dB units",
		Type:          control.TypeInt,
		Min:           0,
		Max:           570,
		Default:       210,
		AutoSupported: true,
	},
	{
		ID:          control.Offset,
		Name:        "Offset",
		Description: "Black level offset in ADU",
		Type:        control.TypeInt,
		Min:         0,
		Max:         80,
		Default:     8,
	},
	{
		ID:          control.CoolerOn,
		Name:        "CoolerOn",
		Description: "Switch the thermoelectric cooler",
		Type:        control.TypeBool,
	},
	{
		ID:          control.TargetTemp,
		Name:        "TargetTemp",
		Description: "Cooler setpoint in degrees Celsius",
		Type:        control.TypeFloat,
		Min:         -40,
		Max:         ambientTemp,
	},
	{
		ID:          control.SensorTemp,
		Name:        "SensorTemp",
		Description: "Current sensor temperature in degrees Celsius",
		Type:        control.TypeFloat,
		Min:         -50,
		Max:         100,
		Default:     ambientTemp,
		ReadOnly:    true,
	},
	{
		ID:          control.Flip,
		Name:        "Flip",
		Description: "Image flip: 0 none, 1 horizontal, 2 vertical, 3 both",
		Type:        control.TypeInt,
		Min:         0,
		Max:         3,
	},
	{
		ID:          control.USBBandwidth,
		Name:        "USBBandwidth",
		Description: "USB transfer budget in percent",
		Type:        control.TypeInt,
		Min:         40,
		Max:         100,
		Default:     80,
	},
}

func (c *Camera) Controls() []control.Desc {
	out := make([]control.Desc, len(controlDescs))
	copy(out, controlDescs)
	return out
}

func lookupDesc(id string) (*control.Desc, error) {
	for i := range controlDescs {
		if controlDescs[i].ID == id {
			return &controlDescs[i], nil
		}
	}
	return nil, fmt.Errorf("%q: %w", id, control.ErrUnknown)
}

func (c *Camera) Control(id string) (control.Value, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id == control.SensorTemp {
		return control.FloatValue(c.advanceCooler()), nil
	}

	v, ok := c.controls[id]
	if !ok {
		return control.Value{}, fmt.Errorf("%q: %w", id, control.ErrUnknown)
	}
	return v, nil
}

func (c *Camera) SetControl(id string, v control.Value) error {
	desc, err := lookupDesc(id)
	if err != nil {
		return err
	}
	if err := desc.Check(v); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// cooler writes re-anchor the temperature model at the current reading
	switch id {
	case control.CoolerOn:
		c.sensorTemp = c.advanceCooler()
		c.coolerOn = v.Bool
	case control.TargetTemp:
		c.sensorTemp = c.advanceCooler()
		c.targetTemp = v.Float
	}

	c.controls[id] = v
	return nil
}

// advanceCooler moves the temperature model forward to now and returns the
// current sensor temperature. Caller must hold c.mu.
func (c *Camera) advanceCooler() float64 {
	now := time.Now()
	dt := now.Sub(c.tempAt)
	c.tempAt = now

	goal := ambientTemp
	if c.coolerOn {
		goal = c.targetTemp
	}

	k := 1 - math.Exp(-float64(dt)/float64(coolerTau))
	c.sensorTemp += (goal - c.sensorTemp) * k
	return c.sensorTemp
}
