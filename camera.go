package camctl

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/pion/camctl/pkg/control"
	"github.com/pion/camctl/pkg/driver"
	"github.com/pion/camctl/pkg/frame"
	"github.com/pion/camctl/pkg/prop"
	"github.com/pion/camctl/pkg/video"
)

// Camera is an open session on one driver. It owns the driver until
// Close; the driver wrapper serializes all hardware access, so callers
// never need their own locking around the SDK handle.
type Camera struct {
	mu sync.Mutex

	d         driver.Driver
	selected  prop.Media
	transform video.TransformFunc

	broadcaster *video.Broadcaster
	exposure    *Exposure
}

// CameraOption configures an opening Camera.
type CameraOption func(*Camera)

// WithVideoTransformers inserts transforms between the driver and every
// consumer, e.g. a Throttle.
func WithVideoTransformers(transforms ...video.TransformFunc) CameraOption {
	return func(c *Camera) {
		c.transform = video.Merge(transforms...)
	}
}

func newCamera(d driver.Driver, selected prop.Media, opts ...CameraOption) (*Camera, error) {
	c := &Camera{
		d:        d,
		selected: selected,
	}
	for _, opt := range opts {
		opt(c)
	}

	if d.Status() == driver.StateClosed {
		if err := d.Open(); err != nil {
			return nil, errors.Wrap(err, "open driver")
		}
	}

	// push negotiated control values down to the device
	if selected.Gain != 0 {
		if err := c.trySetControl(control.Gain, control.IntValue(int64(selected.Gain))); err != nil {
			d.Close()
			return nil, err
		}
	}
	if selected.ExposureTime != 0 {
		if err := c.trySetControl(control.Exposure, control.IntValue(selected.ExposureTime.Microseconds())); err != nil {
			d.Close()
			return nil, err
		}
	}

	return c, nil
}

// trySetControl sets a control, tolerating devices that don't have it.
func (c *Camera) trySetControl(id string, v control.Value) error {
	err := c.d.SetControl(id, v)
	if err == nil || errors.Is(err, control.ErrUnknown) {
		return nil
	}
	return errors.Wrapf(err, "set %s", id)
}

// Info returns the identity of the underlying device.
func (c *Camera) Info() DeviceInfo {
	info := c.d.Info()
	return DeviceInfo{
		DeviceID:   c.d.ID(),
		Label:      info.Label,
		DeviceType: info.DeviceType,
		Model:      info.Model,
		Serial:     info.Serial,
		Sensor:     info.Sensor,
	}
}

// Property returns the negotiated capture property.
func (c *Camera) Property() prop.Media {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Controls enumerates the device's control descriptors.
func (c *Camera) Controls() []control.Desc {
	return c.d.Controls()
}

// Control reads the current value of a control.
func (c *Camera) Control(id string) (control.Value, error) {
	v, err := c.d.Control(id)
	return v, errors.Wrapf(err, "get %s", id)
}

// SetControl writes a control value, validated against its descriptor.
func (c *Camera) SetControl(id string, v control.Value) error {
	return errors.Wrapf(c.d.SetControl(id, v), "set %s", id)
}

// SetROI constrains the readout to the given window on the binned sensor.
// The camera must not be capturing.
func (c *Camera) SetROI(x, y, width, height int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.d.Status() == driver.StateRunning {
		return errors.New("roi: camera is capturing")
	}

	next := c.selected
	next.X, next.Y = x, y
	next.Width, next.Height = width, height

	sensor := c.d.Info().Sensor
	if err := next.ValidateROI(sensor.MaxWidth, sensor.MaxHeight); err != nil {
		return err
	}
	c.selected = next
	return nil
}

// ROI returns the current readout window.
func (c *Camera) ROI() (x, y, width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected.X, c.selected.Y, c.selected.Width, c.selected.Height
}

// SetBinning changes the binning factor and resets the ROI to the full
// binned sensor. The camera must not be capturing.
func (c *Camera) SetBinning(bin int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.d.Status() == driver.StateRunning {
		return errors.New("binning: camera is capturing")
	}

	sensor := c.d.Info().Sensor
	if !sensor.SupportsBin(bin) {
		return errors.Errorf("binning: %d not supported (have %v)", bin, sensor.Bins)
	}

	c.selected.Binning = bin
	c.selected.X, c.selected.Y = 0, 0
	c.selected.Width = (sensor.MaxWidth / bin) &^ 7
	c.selected.Height = (sensor.MaxHeight / bin) &^ 1
	return nil
}

// SetFormat changes the frame format for subsequent captures.
func (c *Camera) SetFormat(f frame.Format) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.d.Status() == driver.StateRunning {
		return errors.New("format: camera is capturing")
	}
	if frame.BytesPerPixel(f) == 0 {
		return errors.Errorf("format: %s not supported", f)
	}
	c.selected.FrameFormat = f
	return nil
}

// Snapshot runs a single exposure and returns its frame. It blocks until
// the exposure completes or ctx is done.
func (c *Camera) Snapshot(ctx context.Context) (*frame.Raw, error) {
	exp, err := c.StartExposure(ctx)
	if err != nil {
		return nil, err
	}
	return exp.Frame()
}

// Start begins continuous capture and fans frames out to readers created
// with NewReader. Frames delivered while no reader is waiting are dropped.
func (c *Camera) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.broadcaster != nil {
		return errors.New("stream: already started")
	}

	r, err := c.d.Capture(c.selected)
	if err != nil {
		return errors.Wrap(err, "start capture")
	}
	if c.transform != nil {
		r = c.transform(r)
	}
	c.broadcaster = video.NewBroadcaster(r)
	return nil
}

// NewReader creates a reader from the running stream. If copyFrame is
// true every Read returns a private copy.
func (c *Camera) NewReader(copyFrame bool) (video.Reader, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.broadcaster == nil {
		return nil, errors.New("stream: not started")
	}
	return c.broadcaster.NewReader(copyFrame), nil
}

// Stop ends continuous capture. Readers are unblocked with an error.
func (c *Camera) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopLocked()
}

func (c *Camera) stopLocked() error {
	if c.broadcaster == nil {
		return nil
	}
	b := c.broadcaster
	c.broadcaster = nil

	err := c.d.Stop()
	b.Close()
	return errors.Wrap(err, "stop capture")
}

// Close aborts any capture in flight and releases the driver.
func (c *Camera) Close() error {
	c.mu.Lock()
	exp := c.exposure
	c.mu.Unlock()
	if exp != nil {
		exp.Abort()
		<-exp.Done()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	return errors.Wrap(c.d.Close(), "close driver")
}
