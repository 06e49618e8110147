package capture

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/pion/camctl/pkg/frame"
	"github.com/pion/camctl/pkg/prop"
)

// ROIProfile is the readout window part of a profile. Zero means full
// sensor.
type ROIProfile struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Profile is a reusable capture recipe, loaded from YAML. Exposure is in
// microseconds, the unit the camera SDKs use.
type Profile struct {
	ExposureUS int64      `yaml:"exposure_us"`
	Gain       int        `yaml:"gain"`
	Binning    int        `yaml:"binning"`
	Format     string     `yaml:"format"`
	ROI        ROIProfile `yaml:"roi"`
	Count      int        `yaml:"count"`
	OutDir     string     `yaml:"out_dir"`
	Export     string     `yaml:"export"`
}

// DefaultProfile is what an empty file resolves to.
var DefaultProfile = Profile{
	ExposureUS: 10_000,
	Binning:    1,
	Format:     string(frame.FormatRaw16),
	Count:      1,
	OutDir:     ".",
}

// Exposure returns the exposure time as a duration.
func (p *Profile) Exposure() time.Duration {
	return time.Duration(p.ExposureUS) * time.Microsecond
}

// LoadProfile reads a YAML profile, applies defaults, and validates it.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read profile")
	}

	p := DefaultProfile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(err, "unmarshal profile")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the fields that don't need a device to check against.
func (p *Profile) Validate() error {
	switch {
	case p.ExposureUS <= 0:
		return errors.New("profile: exposure must be positive")
	case p.Gain < 0:
		return errors.New("profile: gain must not be negative")
	case p.Binning < 1:
		return errors.New("profile: binning must be at least 1")
	case p.Count < 1:
		return errors.New("profile: count must be at least 1")
	}
	if frame.BytesPerPixel(frame.Format(p.Format)) == 0 {
		return errors.Errorf("profile: unknown format %q", p.Format)
	}
	if _, err := ParseExportKind(p.Export); err != nil {
		return errors.Wrap(err, "profile")
	}
	return nil
}

// Constraints translates the profile into open constraints.
func (p *Profile) Constraints() prop.MediaConstraints {
	// format and binning must be supported outright; geometry, exposure
	// and gain are requests the driver realizes at capture time
	c := prop.MediaConstraints{
		VideoConstraints: prop.VideoConstraints{
			Binning:      prop.IntExact(p.Binning),
			FrameFormat:  prop.FrameFormatExact(frame.Format(p.Format)),
			ExposureTime: prop.Duration(p.Exposure()),
		},
	}
	if p.Gain > 0 {
		c.Gain = prop.Int(p.Gain)
	}
	if p.ROI.Width > 0 && p.ROI.Height > 0 {
		c.X = prop.Int(p.ROI.X)
		c.Y = prop.Int(p.ROI.Y)
		c.Width = prop.Int(p.ROI.Width)
		c.Height = prop.Int(p.ROI.Height)
	}
	return c
}
