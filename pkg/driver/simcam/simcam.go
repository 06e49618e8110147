// Package simcam provides a simulated sensor camera for tests and demos.
// It behaves like a cooled mono astronomy camera: it honors exposure time,
// gain, ROI and binning, produces RAW8/RAW16/Y8/RGB24 frames, and models a
// thermoelectric cooler converging on its setpoint.
package simcam

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/pion/camctl/pkg/control"
	"github.com/pion/camctl/pkg/driver"
	"github.com/pion/camctl/pkg/frame"
	"github.com/pion/camctl/pkg/prop"
	"github.com/pion/camctl/pkg/video"
)

const (
	sensorWidth  = 1936
	sensorHeight = 1096

	ambientTemp = 20.0
	// cooler time constant; the simulated sensor covers ~63% of the gap to
	// the setpoint per coolerTau.
	coolerTau = 5 * time.Second
)

var supportedBins = []int{1, 2, 4}

// Option configures the simulated camera.
type Option func(*Camera)

// WithSeed fixes the noise generator seed so frames are reproducible.
func WithSeed(seed int64) Option {
	return func(c *Camera) { c.seed = seed }
}

// WithLabel overrides the label the camera registers under.
func WithLabel(label string) Option {
	return func(c *Camera) { c.label = label }
}

// Camera is the simulated adapter. It implements driver.Adapter and
// driver.Controller.
type Camera struct {
	mu sync.Mutex

	seed  int64
	label string

	closed <-chan struct{}
	cancel func()

	controls map[string]control.Value
	seq      uint64

	// cooler model state, advanced lazily on read
	coolerOn   bool
	targetTemp float64
	sensorTemp float64
	tempAt     time.Time
}

// New creates an unregistered simulated camera.
func New(opts ...Option) *Camera {
	c := &Camera{
		seed:  1,
		label: "SimCam",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register creates a simulated camera and registers it with the default
// driver manager.
func Register(opts ...Option) error {
	c := New(opts...)
	return driver.GetManager().Register(c, driver.Info{
		Label:      c.label,
		DeviceType: driver.Simulated,
		Model:      "SimCam 1600MM",
		Serial:     fmt.Sprintf("SIM%08d", c.seed),
		Sensor: driver.Sensor{
			MaxWidth:    sensorWidth,
			MaxHeight:   sensorHeight,
			Bins:        supportedBins,
			BitDepth:    12,
			Color:       false,
			Cooled:      true,
			PixelSizeUM: 3.8,
		},
	})
}

func (c *Camera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	done := make(chan struct{})
	c.closed = done
	var once sync.Once
	c.cancel = func() { once.Do(func() { close(done) }) }

	c.controls = make(map[string]control.Value)
	for _, d := range controlDescs {
		d := d
		c.controls[d.ID] = d.DefaultValue()
	}
	c.coolerOn = false
	c.targetTemp = 0
	c.sensorTemp = ambientTemp
	c.tempAt = time.Now()
	return nil
}

func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	return nil
}

func supportsBin(bin int) bool {
	for _, b := range supportedBins {
		if b == bin {
			return true
		}
	}
	return false
}

func (c *Camera) Properties() []prop.Media {
	formats := []frame.Format{
		frame.FormatRaw16, frame.FormatRaw8, frame.FormatY8, frame.FormatRGB24,
	}
	props := make([]prop.Media, 0, len(supportedBins)*len(formats))
	for _, bin := range supportedBins {
		for _, f := range formats {
			props = append(props, prop.Media{Video: prop.Video{
				Width:       (sensorWidth / bin) &^ 7,
				Height:      (sensorHeight / bin) &^ 1,
				Binning:     bin,
				FrameFormat: f,
			}})
		}
	}
	return props
}

func (c *Camera) Capture(p prop.Media) (video.Reader, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p.Binning == 0 {
		p.Binning = 1
	}
	if !supportsBin(p.Binning) {
		return nil, fmt.Errorf("simcam: unsupported binning %d", p.Binning)
	}
	if p.Width == 0 && p.Height == 0 {
		// full binned sensor, rounded down to the readout alignment
		p.Width = (sensorWidth / p.Binning) &^ 7
		p.Height = (sensorHeight / p.Binning) &^ 1
	}
	if p.FrameFormat == "" {
		p.FrameFormat = frame.FormatRaw16
	}
	if _, ok := frame.Size(p.FrameFormat, p.Width, p.Height); !ok {
		return nil, fmt.Errorf("simcam: unsupported format %s", p.FrameFormat)
	}
	if err := p.ValidateROI(sensorWidth, sensorHeight); err != nil {
		return nil, fmt.Errorf("simcam: %w", err)
	}

	exposure := p.ExposureTime
	if exposure == 0 {
		exposure = time.Duration(c.controls[control.Exposure].Int) * time.Microsecond
	}
	gain := int(c.controls[control.Gain].Int)
	offset := int(c.controls[control.Offset].Int)

	random := rand.New(rand.NewSource(c.seed))
	closed := c.closed

	size, _ := frame.Size(p.FrameFormat, p.Width, p.Height)
	buf := make([]byte, size)

	return video.ReaderFunc(func() (*frame.Raw, func(), error) {
		select {
		case <-closed:
			return nil, func() {}, io.EOF
		case <-time.After(exposure):
		}

		c.mu.Lock()
		c.seq++
		seq := c.seq
		c.mu.Unlock()

		renderFrame(buf, p, seq, gain, offset, random)

		return &frame.Raw{
			Pix:       buf,
			Width:     p.Width,
			Height:    p.Height,
			Format:    p.FrameFormat,
			Seq:       seq,
			Timestamp: time.Now(),
		}, func() {}, nil
	}), nil
}

func (c *Camera) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
	// capturing again needs a fresh cancellation channel
	done := make(chan struct{})
	c.closed = done
	var once sync.Once
	c.cancel = func() { once.Do(func() { close(done) }) }
	return nil
}

// renderFrame fills buf with a diagonal gradient plus shot noise. The
// signal scales with exposure sequence and gain the way a real sensor's
// ADU counts would, clamped at the format's full well.
func renderFrame(buf []byte, p prop.Media, seq uint64, gain, offset int, random *rand.Rand) {
	bpp := frame.BytesPerPixel(p.FrameFormat)
	scale := 1.0 + float64(gain)/100.0

	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			// moving gradient so consecutive frames differ
			base := float64((x+p.X)+(y+p.Y)+int(seq)) * scale
			noise := random.NormFloat64() * math.Sqrt(math.Max(base, 1))
			v := int(base+noise) + offset
			if v < 0 {
				v = 0
			}

			i := (y*p.Width + x) * bpp
			switch p.FrameFormat {
			case frame.FormatRaw16:
				if v > 0xFFFF {
					v = 0xFFFF
				}
				buf[i] = byte(v)
				buf[i+1] = byte(v >> 8)
			case frame.FormatRGB24:
				if v > 0xFF {
					v = 0xFF
				}
				buf[i] = byte(v)
				buf[i+1] = byte(v)
				buf[i+2] = byte(v)
			default: // RAW8, Y8
				if v > 0xFF {
					v = 0xFF
				}
				buf[i] = byte(v)
			}
		}
	}
}
