// Package prop describes capture properties and constraint matching on
// them.
package prop

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/pion/camctl/pkg/frame"
)

// Media is a concrete set of capture properties, either advertised by a
// driver or negotiated for a capture session.
type Media struct {
	DeviceID string
	Video
}

// MediaConstraints is the constrained counterpart of Media used by callers
// to describe what they want.
type MediaConstraints struct {
	DeviceID StringConstraint
	VideoConstraints
}

// Video represents sensor readout properties.
type Video struct {
	// Width and Height are the readout size in binned pixels.
	Width, Height int
	// X and Y are the ROI start offset on the (binned) sensor.
	X, Y int
	// Binning combines Binning x Binning sensor pixels into one.
	// Zero means 1 (no binning).
	Binning      int
	FrameFormat  frame.Format
	FrameRate    float32
	ExposureTime time.Duration
	Gain         int
}

// VideoConstraints represents the constrained counterpart of Video.
type VideoConstraints struct {
	Width, Height IntConstraint
	X, Y          IntConstraint
	Binning       IntConstraint
	FrameFormat   FrameFormatConstraint
	FrameRate     FloatConstraint
	ExposureTime  DurationConstraint
	Gain          IntConstraint
}

// Merge merges all the field values from o to p, except zero values.
func (p *Media) Merge(o Media) {
	rp := reflect.ValueOf(p).Elem()
	ro := reflect.ValueOf(o)

	// merge b fields to a recursively
	var merge func(a, b reflect.Value)
	merge = func(a, b reflect.Value) {
		numFields := a.NumField()
		for i := 0; i < numFields; i++ {
			fieldA := a.Field(i)
			fieldB := b.Field(i)

			if fieldA.Kind() == reflect.Struct {
				merge(fieldA, fieldB)
				continue
			}

			if fieldB.IsZero() && fieldB.Kind() != reflect.Bool {
				continue
			}

			fieldA.Set(fieldB)
		}
	}

	merge(rp, ro)
}

// MergeConstraints fills p from the constraints' concrete values, where a
// concrete value exists (Exact and Ideal constraints carry one, OneOf and
// Ranged do not).
func (p *Media) MergeConstraints(o MediaConstraints) {
	setInt := func(dst *int, c IntConstraint) {
		if c == nil {
			return
		}
		if v, ok := c.Value(); ok {
			*dst = v
		}
	}

	if o.DeviceID != nil {
		if v, ok := o.DeviceID.Value(); ok {
			p.DeviceID = v
		}
	}
	setInt(&p.Width, o.Width)
	setInt(&p.Height, o.Height)
	setInt(&p.X, o.X)
	setInt(&p.Y, o.Y)
	setInt(&p.Binning, o.Binning)
	setInt(&p.Gain, o.Gain)
	if o.FrameFormat != nil {
		if v, ok := o.FrameFormat.Value(); ok {
			p.FrameFormat = v
		}
	}
	if o.FrameRate != nil {
		if v, ok := o.FrameRate.Value(); ok {
			p.FrameRate = v
		}
	}
	if o.ExposureTime != nil {
		if v, ok := o.ExposureTime.Value(); ok {
			p.ExposureTime = v
		}
	}
}

// FitnessDistance measures how far the advertised property o is from the
// wanted constraints. The bool result reports whether o satisfies every
// mandatory (Exact/OneOf/Ranged) constraint.
func (p *MediaConstraints) FitnessDistance(o Media) (float64, bool) {
	cmps := comparisons{}
	cmps.add(p.DeviceID, o.DeviceID)
	cmps.add(p.Width, o.Width)
	cmps.add(p.Height, o.Height)
	cmps.add(p.X, o.X)
	cmps.add(p.Y, o.Y)
	cmps.add(p.Binning, o.Binning)
	cmps.add(p.FrameFormat, o.FrameFormat)
	cmps.add(p.FrameRate, o.FrameRate)
	cmps.add(p.ExposureTime, o.ExposureTime)
	cmps.add(p.Gain, o.Gain)
	return cmps.fitnessDistance()
}

type comparison struct {
	constraint interface{}
	actual     interface{}
}

type comparisons []comparison

func (c *comparisons) add(constraint, actual interface{}) {
	if constraint == nil {
		return
	}
	*c = append(*c, comparison{constraint, actual})
}

// fitnessDistance implements the distance part of
// https://w3c.github.io/mediacapture-main/#dfn-fitness-distance
func (c comparisons) fitnessDistance() (float64, bool) {
	var dist float64
	ok := true

	for _, cmp := range c {
		var d float64
		var matched bool

		switch constraint := cmp.constraint.(type) {
		case IntConstraint:
			d, matched = constraint.Compare(cmp.actual.(int))
		case FloatConstraint:
			d, matched = constraint.Compare(cmp.actual.(float32))
		case DurationConstraint:
			d, matched = constraint.Compare(cmp.actual.(time.Duration))
		case FrameFormatConstraint:
			d, matched = constraint.Compare(cmp.actual.(frame.Format))
		case StringConstraint:
			d, matched = constraint.Compare(cmp.actual.(string))
		case BoolConstraint:
			d, matched = constraint.Compare(cmp.actual.(bool))
		default:
			panic(fmt.Sprintf("unsupported constraint type %T", cmp.constraint))
		}

		dist += d
		ok = ok && matched
	}

	return dist, ok
}

// ValidateROI checks the region against the binned sensor bounds and the
// readout alignment rules shared by the supported sensors: the width must
// be a multiple of 8 and the height a multiple of 2.
func (v *Video) ValidateROI(maxWidth, maxHeight int) error {
	binning := v.Binning
	if binning == 0 {
		binning = 1
	}
	bw, bh := maxWidth/binning, maxHeight/binning

	switch {
	case v.Width <= 0 || v.Height <= 0:
		return fmt.Errorf("roi: size %dx%d must be positive", v.Width, v.Height)
	case v.Width%8 != 0:
		return fmt.Errorf("roi: width %d must be a multiple of 8", v.Width)
	case v.Height%2 != 0:
		return fmt.Errorf("roi: height %d must be a multiple of 2", v.Height)
	case v.X < 0 || v.Y < 0:
		return fmt.Errorf("roi: offset (%d,%d) must not be negative", v.X, v.Y)
	case v.X+v.Width > bw || v.Y+v.Height > bh:
		return fmt.Errorf("roi: %dx%d+%d+%d exceeds binned sensor area %dx%d",
			v.Width, v.Height, v.X, v.Y, bw, bh)
	}

	return nil
}

// normalized distance between two numbers, 0 when equal.
func normDist(a, b float64) float64 {
	if a == b {
		return 0
	}
	return math.Abs(a-b) / math.Max(math.Abs(a), math.Abs(b))
}

// used by the String methods below.
func formatNum(v interface{}) string {
	switch n := v.(type) {
	case float32:
		return strconv.FormatFloat(float64(n), 'f', 2, 32)
	default:
		return fmt.Sprint(v)
	}
}
