package uvc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/blackjack/webcam"

	"github.com/pion/camctl/pkg/driver"
	"github.com/pion/camctl/pkg/driver/availability"
	"github.com/pion/camctl/pkg/frame"
	"github.com/pion/camctl/pkg/prop"
	"github.com/pion/camctl/pkg/video"
)

const (
	maxEmptyFrameCount = 5
	// frame wait timeout in seconds, passed to VIDIOC_DQBUF waiting
	frameTimeout = 5
)

var (
	errReadTimeout = errors.New("read timeout")
	errEmptyFrame  = errors.New("empty frame")
)

// fourcc packs a v4l2 pixel format identifier the way videodev2.h does,
// so no cgo is needed for the constants.
func fourcc(a, b, c, d byte) webcam.PixelFormat {
	return webcam.PixelFormat(uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24)
}

var formats = map[webcam.PixelFormat]frame.Format{
	fourcc('G', 'R', 'E', 'Y'): frame.FormatRaw8,
	fourcc('Y', '1', '6', ' '): frame.FormatRaw16,
	fourcc('B', 'G', 'R', '3'): frame.FormatRGB24,
}

var reversedFormats = func() map[frame.Format]webcam.PixelFormat {
	m := make(map[frame.Format]webcam.PixelFormat)
	for k, v := range formats {
		m[v] = k
	}
	return m
}()

// camera implements driver.Adapter on top of v4l2.
// Reference: https://linuxtv.org/downloads/v4l-dvb-apis/uapi/v4l/videodev.html#videodev
type camera struct {
	path   string
	cam    *webcam.Webcam
	mutex  sync.Mutex
	cancel func()
}

func init() {
	searchPath := "/dev/v4l/by-path/"
	devices, err := os.ReadDir(searchPath)
	if err != nil {
		// No v4l device.
		return
	}
	for _, device := range devices {
		label := device.Name()
		if resolved, err := filepath.EvalSymlinks(searchPath + device.Name()); err == nil {
			label += LabelSeparator + filepath.Base(resolved)
		}
		driver.GetManager().Register(&camera{path: searchPath + device.Name()}, driver.Info{
			Label:      label,
			DeviceType: driver.Camera,
		})
	}
}

func (c *camera) Open() error {
	cam, err := webcam.Open(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return availability.ErrNoDevice
		}
		return err
	}

	c.cam = cam
	return nil
}

func (c *camera) Close() error {
	if c.cam == nil {
		return nil
	}

	if c.cancel != nil {
		// Let the reader knows that the caller has closed the camera
		c.cancel()
		// Wait until the reader unref the buffer
		c.mutex.Lock()
		defer c.mutex.Unlock()

		c.cam.StopStreaming()
		c.cancel = nil
	}
	c.cam.Close()
	c.cam = nil
	return nil
}

func (c *camera) Properties() []prop.Media {
	properties := make([]prop.Media, 0)
	for format := range c.cam.GetSupportedFormats() {
		decoded, ok := formats[format]
		if !ok {
			continue
		}
		for _, frameSize := range c.cam.GetSupportedFrameSizes(format) {
			properties = append(properties, prop.Media{
				Video: prop.Video{
					Width:       int(frameSize.MaxWidth),
					Height:      int(frameSize.MaxHeight),
					FrameFormat: decoded,
				},
			})
		}
	}
	return properties
}

func (c *camera) Capture(p prop.Media) (video.Reader, error) {
	pf, ok := reversedFormats[p.FrameFormat]
	if !ok {
		return nil, fmt.Errorf("uvc: unsupported frame format %s", p.FrameFormat)
	}

	_, _, _, err := c.cam.SetImageFormat(pf, uint32(p.Width), uint32(p.Height))
	if err != nil {
		return nil, err
	}

	if err := c.cam.StartStreaming(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	var once sync.Once
	c.cancel = func() { once.Do(func() { close(done) }) }

	expected, _ := frame.Size(p.FrameFormat, p.Width, p.Height)
	var seq uint64

	r := video.ReaderFunc(func() (*frame.Raw, func(), error) {
		// Lock to avoid StopStreaming while a frame buffer is in flight
		c.mutex.Lock()
		defer c.mutex.Unlock()

		for emptyFrames := 0; ; {
			select {
			case <-done:
				return nil, func() {}, io.EOF
			default:
			}

			if err := c.cam.WaitForFrame(frameTimeout); err != nil {
				switch err.(type) {
				case *webcam.Timeout:
					return nil, func() {}, errReadTimeout
				default:
					return nil, func() {}, err
				}
			}

			b, err := c.cam.ReadFrame()
			if err != nil {
				return nil, func() {}, err
			}
			if len(b) < expected {
				emptyFrames++
				if emptyFrames >= maxEmptyFrameCount {
					return nil, func() {}, errEmptyFrame
				}
				continue
			}

			seq++
			return &frame.Raw{
				Pix:    b[:expected],
				Width:  p.Width,
				Height: p.Height,
				Format: p.FrameFormat,
				Seq:    seq,
			}, func() {}, nil
		}
	})

	return r, nil
}

func (c *camera) Stop() error {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	return c.cam.StopStreaming()
}
