package control

import (
	"errors"
	"testing"
)

var exposureDesc = Desc{
	ID:            Exposure,
	Name:          "Exposure",
	Type:          TypeInt,
	Min:           32,
	Max:           2000000000,
	Default:       10000,
	AutoSupported: true,
}

func TestCheckAcceptsInRange(t *testing.T) {
	if err := exposureDesc.Check(IntValue(10000)); err != nil {
		t.Errorf("expected in-range value to pass, got %v", err)
	}
	if err := exposureDesc.Check(IntValue(32)); err != nil {
		t.Errorf("expected min boundary to pass, got %v", err)
	}
}

func TestCheckOutOfRange(t *testing.T) {
	err := exposureDesc.Check(IntValue(10))
	if !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}

func TestCheckWrongType(t *testing.T) {
	err := exposureDesc.Check(FloatValue(100))
	if !errors.Is(err, ErrWrongType) {
		t.Errorf("expected ErrWrongType, got %v", err)
	}
}

func TestCheckReadOnly(t *testing.T) {
	d := Desc{ID: SensorTemp, Type: TypeFloat, ReadOnly: true}
	err := d.Check(FloatValue(0))
	if !errors.Is(err, ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
}

func TestCheckAuto(t *testing.T) {
	if err := exposureDesc.Check(IntValue(0).WithAuto()); err != nil {
		t.Errorf("auto value must skip the range check, got %v", err)
	}

	d := Desc{ID: Gain, Type: TypeInt, Min: 0, Max: 500}
	if err := d.Check(IntValue(0).WithAuto()); err == nil {
		t.Error("expected error for auto on a manual-only control")
	}
}

func TestCheckBoolSkipsRange(t *testing.T) {
	d := Desc{ID: CoolerOn, Type: TypeBool}
	if err := d.Check(BoolValue(true)); err != nil {
		t.Errorf("bool controls have no range, got %v", err)
	}
}

func TestDefaultValue(t *testing.T) {
	if v := exposureDesc.DefaultValue(); v.Type != TypeInt || v.Int != 10000 {
		t.Errorf("expected int 10000, got %s", v)
	}

	d := Desc{ID: CoolerOn, Type: TypeBool, Default: 0}
	if v := d.DefaultValue(); v.Bool {
		t.Errorf("expected false default, got %s", v)
	}
}
