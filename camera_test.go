package camctl

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pion/camctl/pkg/control"
	"github.com/pion/camctl/pkg/driver/simcam"
	"github.com/pion/camctl/pkg/frame"
	"github.com/pion/camctl/pkg/prop"
)

// registerSim registers a fresh simulated camera and returns its device ID.
func registerSim(t *testing.T, label string) string {
	t.Helper()
	require.NoError(t, simcam.Register(simcam.WithLabel(label), simcam.WithSeed(7)))

	for _, info := range EnumerateDevices() {
		if info.Label == label {
			return info.DeviceID
		}
	}
	t.Fatalf("registered %q but cannot find it", label)
	return ""
}

func openSim(t *testing.T, label string) *Camera {
	t.Helper()
	id := registerSim(t, label)

	// geometry and exposure are ideals: the sensor advertises full-frame
	// modes and takes any aligned ROI at capture time
	cam, err := OpenCamera(prop.MediaConstraints{
		DeviceID: prop.StringExact(id),
		VideoConstraints: prop.VideoConstraints{
			Width:        prop.Int(640),
			Height:       prop.Int(480),
			FrameFormat:  prop.FrameFormatExact(frame.FormatRaw16),
			ExposureTime: prop.Duration(time.Millisecond),
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() { cam.Close() })
	return cam
}

func TestEnumerateDevices(t *testing.T) {
	id := registerSim(t, "enum-cam")

	var found *DeviceInfo
	for _, info := range EnumerateDevices() {
		if info.DeviceID == id {
			info := info
			found = &info
			break
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, "SimCam 1600MM", found.Model)
	assert.True(t, found.Sensor.Cooled)
	assert.Contains(t, found.Sensor.Bins, 2)
}

func TestOpenCameraNoMatch(t *testing.T) {
	registerSim(t, "nomatch-cam")

	_, err := OpenCamera(prop.MediaConstraints{
		VideoConstraints: prop.VideoConstraints{
			FrameFormat: prop.FrameFormatExact(frame.Format("MJPEG")),
		},
	})
	assert.Error(t, err)
}

func TestSnapshot(t *testing.T) {
	cam := openSim(t, "snapshot-cam")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	f, err := cam.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 640, f.Width)
	assert.Equal(t, 480, f.Height)
	assert.Equal(t, frame.FormatRaw16, f.Format)
	assert.NoError(t, f.Validate())

	// a second snapshot must work on the same session
	f2, err := cam.Snapshot(ctx)
	require.NoError(t, err)
	assert.Greater(t, f2.Seq, f.Seq)
}

func TestSequentialSnapshots(t *testing.T) {
	cam := openSim(t, "sequential-cam")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// every snapshot returns the driver to opened, so a long run of
	// back-to-back exposures must never hit a state error
	var last uint64
	for i := 0; i < 25; i++ {
		f, err := cam.Snapshot(ctx)
		require.NoErrorf(t, err, "snapshot %d", i)
		assert.Greater(t, f.Seq, last)
		last = f.Seq
	}
}

func TestControlsDuringSnapshots(t *testing.T) {
	cam := openSim(t, "busy-controls-cam")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			cam.SetControl(control.Gain, control.IntValue(int64(i%570)))
			cam.Control(control.SensorTemp)
		}
	}()

	for i := 0; i < 10; i++ {
		_, err := cam.Snapshot(ctx)
		require.NoErrorf(t, err, "snapshot %d", i)
	}
	<-done
}

func TestExposureZeroValueIsIdle(t *testing.T) {
	var exp Exposure
	assert.Equal(t, ExposureIdle, exp.Status())
	assert.Equal(t, "idle", exp.Status().String())
}

func TestExposureLifecycle(t *testing.T) {
	cam := openSim(t, "exposure-cam")

	exp, err := cam.StartExposure(context.Background())
	require.NoError(t, err)

	// a second exposure while one is in flight must be refused
	_, err = cam.StartExposure(context.Background())
	assert.Error(t, err)

	<-exp.Done()
	assert.Equal(t, ExposureSuccess, exp.Status())
	f, err := exp.Frame()
	require.NoError(t, err)
	assert.NotNil(t, f)
}

func TestExposureAbort(t *testing.T) {
	cam := openSim(t, "abort-cam")

	// an exposure that never completes on its own
	cam.mu.Lock()
	cam.selected.ExposureTime = time.Hour
	cam.mu.Unlock()

	exp, err := cam.StartExposure(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ExposureActive, exp.Status())

	exp.Abort()
	select {
	case <-exp.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("abort did not finish the exposure")
	}
	assert.Equal(t, ExposureAborted, exp.Status())
	_, err = exp.Frame()
	assert.Error(t, err)
}

func TestStreamFanOut(t *testing.T) {
	cam := openSim(t, "stream-cam")

	require.NoError(t, cam.Start())
	_, err := cam.NewReader(true)
	require.NoError(t, err)

	r, err := cam.NewReader(true)
	require.NoError(t, err)

	f, release, err := r.Read()
	require.NoError(t, err)
	assert.NoError(t, f.Validate())
	release()

	// starting an exposure while streaming must be refused
	_, err = cam.StartExposure(context.Background())
	assert.Error(t, err)

	require.NoError(t, cam.Stop())

	// reading after stop reports an error rather than blocking forever
	_, _, err = r.Read()
	assert.Error(t, err)
}

func TestROIAndBinning(t *testing.T) {
	cam := openSim(t, "roi-cam")

	require.NoError(t, cam.SetROI(16, 10, 320, 240))
	x, y, w, h := cam.ROI()
	assert.Equal(t, []int{16, 10, 320, 240}, []int{x, y, w, h})

	assert.Error(t, cam.SetROI(0, 0, 321, 240), "unaligned width")
	assert.Error(t, cam.SetROI(5000, 0, 320, 240), "out of bounds")

	require.NoError(t, cam.SetBinning(2))
	_, _, w, h = cam.ROI()
	assert.Equal(t, 968, w)
	assert.Equal(t, 548, h)

	assert.Error(t, cam.SetBinning(3))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	f, err := cam.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 968, f.Width)
}

func TestControlsThroughSession(t *testing.T) {
	cam := openSim(t, "controls-cam")

	descs := cam.Controls()
	assert.NotEmpty(t, descs)

	require.NoError(t, cam.SetControl(control.Gain, control.IntValue(300)))
	v, err := cam.Control(control.Gain)
	require.NoError(t, err)
	assert.Equal(t, int64(300), v.Int)

	err = cam.SetControl(control.Gain, control.IntValue(100000))
	assert.ErrorIs(t, err, control.ErrOutOfRange)
}

func TestSetFormat(t *testing.T) {
	cam := openSim(t, "format-cam")

	require.NoError(t, cam.SetFormat(frame.FormatRaw8))
	assert.Error(t, cam.SetFormat(frame.Format("NV21")))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	f, err := cam.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, frame.FormatRaw8, f.Format)
}
