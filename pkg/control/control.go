// Package control describes the tunable controls a camera exposes:
// exposure, gain, cooler setpoint and the like. Drivers enumerate their
// controls as read-only descriptors; values are written and read through
// the owning driver.
package control

import (
	"errors"
	"fmt"
)

// Well-known control IDs. Drivers reuse these where the hardware has the
// matching control so callers can address controls portably; vendor
// specific controls use their own IDs.
const (
	Exposure     = "exposure"      // microseconds
	Gain         = "gain"          // vendor units
	Offset       = "offset"        // black level offset, ADU
	CoolerOn     = "cooler-on"     // bool
	TargetTemp   = "target-temp"   // degrees C
	SensorTemp   = "sensor-temp"   // degrees C, read only
	Flip         = "flip"          // 0 none, 1 horizontal, 2 vertical, 3 both
	USBBandwidth = "usb-bandwidth" // percent of bus budget
)

// Type tags the value kind a control accepts.
type Type int

const (
	TypeInt Type = iota + 1
	TypeFloat
	TypeBool
)

func (t Type) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	default:
		return fmt.Sprintf("invalid(%d)", int(t))
	}
}

// Desc describes one control. Min/Max/Default are meaningful for TypeInt
// and TypeFloat only.
type Desc struct {
	ID            string
	Name          string
	Description   string
	Type          Type
	Min, Max      float64
	Default       float64
	AutoSupported bool
	ReadOnly      bool
}

// Validation errors shared by every driver. The vendor example programs
// handled status codes ad hoc at each call site; adapters map their SDK's
// codes onto these instead so callers can branch with errors.Is.
var (
	ErrUnknown    = errors.New("control: unknown control")
	ErrReadOnly   = errors.New("control: control is read only")
	ErrOutOfRange = errors.New("control: value out of range")
	ErrWrongType  = errors.New("control: wrong value type")
)

// Value is the tagged value of a control. Auto asks the device to manage
// the control itself; the numeric part is then a hint.
type Value struct {
	Type  Type
	Int   int64
	Float float64
	Bool  bool
	Auto  bool
}

// IntValue builds a manual int value.
func IntValue(v int64) Value { return Value{Type: TypeInt, Int: v} }

// FloatValue builds a manual float value.
func FloatValue(v float64) Value { return Value{Type: TypeFloat, Float: v} }

// BoolValue builds a bool value.
func BoolValue(v bool) Value { return Value{Type: TypeBool, Bool: v} }

// WithAuto returns a copy of v with the auto flag set.
func (v Value) WithAuto() Value {
	v.Auto = true
	return v
}

func (v Value) String() string {
	auto := ""
	if v.Auto {
		auto = " (auto)"
	}
	switch v.Type {
	case TypeInt:
		return fmt.Sprintf("%d%s", v.Int, auto)
	case TypeFloat:
		return fmt.Sprintf("%g%s", v.Float, auto)
	case TypeBool:
		return fmt.Sprintf("%t%s", v.Bool, auto)
	default:
		return "invalid"
	}
}

// numeric returns the value as float64 for range checks.
func (v Value) numeric() float64 {
	if v.Type == TypeInt {
		return float64(v.Int)
	}
	return v.Float
}

// Check validates v against the descriptor d.
func (d *Desc) Check(v Value) error {
	if d.ReadOnly {
		return fmt.Errorf("%q: %w", d.ID, ErrReadOnly)
	}
	if v.Type != d.Type {
		return fmt.Errorf("%q expects %s, got %s: %w", d.ID, d.Type, v.Type, ErrWrongType)
	}
	if v.Auto && !d.AutoSupported {
		return fmt.Errorf("%q does not support auto: %w", d.ID, ErrOutOfRange)
	}
	if d.Type == TypeBool || v.Auto {
		return nil
	}
	if n := v.numeric(); n < d.Min || n > d.Max {
		return fmt.Errorf("%q: %g outside [%g, %g]: %w", d.ID, n, d.Min, d.Max, ErrOutOfRange)
	}
	return nil
}

// DefaultValue returns the descriptor's default as a Value.
func (d *Desc) DefaultValue() Value {
	switch d.Type {
	case TypeFloat:
		return FloatValue(d.Default)
	case TypeBool:
		return BoolValue(d.Default != 0)
	default:
		return IntValue(int64(d.Default))
	}
}
