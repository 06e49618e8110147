package capture

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/pion/camctl/pkg/frame"
)

func testFrame(t *testing.T, format frame.Format, w, h int) *frame.Raw {
	t.Helper()
	size, ok := frame.Size(format, w, h)
	require.True(t, ok)
	pix := make([]byte, size)
	for i := range pix {
		pix[i] = byte(i)
	}
	return &frame.Raw{
		Pix: pix, Width: w, Height: h, Format: format,
		Seq: 1, Timestamp: time.Now(),
	}
}

func TestWriterNaming(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)

	p1, err := w.WriteRaw(testFrame(t, frame.FormatRaw16, 8, 2))
	require.NoError(t, err)
	assert.Equal(t, "1_raw16_image_data.bin", filepath.Base(p1))

	p2, err := w.WriteRaw(testFrame(t, frame.FormatRaw8, 8, 2))
	require.NoError(t, err)
	assert.Equal(t, "2_raw8_image_data.bin", filepath.Base(p2))

	p3, err := w.WriteRaw(testFrame(t, frame.FormatY8, 8, 2))
	require.NoError(t, err)
	assert.Equal(t, "3_raw8_image_data.bin", filepath.Base(p3), "Y8 is 8 bit per pixel")

	assert.Equal(t, 3, w.Count())
}

func TestWriterDumpsExactBytes(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)

	f := testFrame(t, frame.FormatRaw16, 8, 2)
	path, err := w.WriteRaw(f)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, f.Pix, data, "dump must be headerless raw pixels")
}

func TestWriterRejectsInvalidFrame(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	f := testFrame(t, frame.FormatRaw16, 8, 2)
	f.Pix = f.Pix[:3]
	_, err = w.WriteRaw(f)
	assert.Error(t, err)
	assert.Equal(t, 0, w.Count(), "failed writes must not consume the counter")
}

func TestExportTIFFKeepsDepth(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)

	f := testFrame(t, frame.FormatRaw16, 8, 2)
	rawPath, err := w.WriteRaw(f)
	require.NoError(t, err)

	out, err := Export(rawPath, f, ExportTIFF)
	require.NoError(t, err)
	assert.Equal(t, ".tiff", filepath.Ext(out))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestParseExportKind(t *testing.T) {
	k, err := ParseExportKind("PNG")
	require.NoError(t, err)
	assert.Equal(t, ExportPNG, k)

	_, err = ParseExportKind("jpegxl")
	assert.Error(t, err)
}

// snapSource implements Source with canned frames.
type snapSource struct {
	n int
}

func (s *snapSource) Snapshot(ctx context.Context) (*frame.Raw, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.n++
	pix := make([]byte, 8*2)
	return &frame.Raw{
		Pix: pix, Width: 8, Height: 2, Format: frame.FormatRaw8,
		Seq: uint64(s.n), Timestamp: time.Now(),
	}, nil
}

func TestRunWritesManifest(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)

	m, err := Run(context.Background(), &snapSource{}, w, 3, ExportNone)
	require.NoError(t, err)
	require.Len(t, m.Entries, 3)
	assert.Equal(t, "1_raw8_image_data.bin", m.Entries[0].File)

	data, err := os.ReadFile(filepath.Join(dir, "manifest.yaml"))
	require.NoError(t, err)

	var onDisk Manifest
	require.NoError(t, yaml.Unmarshal(data, &onDisk))
	assert.Len(t, onDisk.Entries, 3)
	assert.Equal(t, 8, onDisk.Entries[2].Width)
}

// corruptingSource returns a frame with a truncated pixel buffer once n
// reaches failAt, so the write step fails mid-sequence.
type corruptingSource struct {
	snapSource
	failAt int
}

func (s *corruptingSource) Snapshot(ctx context.Context) (*frame.Raw, error) {
	f, err := s.snapSource.Snapshot(ctx)
	if err == nil && s.n >= s.failAt {
		f.Pix = f.Pix[:3]
	}
	return f, err
}

func TestRunWritesManifestWhenWriteFails(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)

	m, err := Run(context.Background(), &corruptingSource{failAt: 3}, w, 5, ExportNone)
	assert.Error(t, err)
	require.Len(t, m.Entries, 2)

	// the dumps that did land must stay interpretable
	data, err := os.ReadFile(filepath.Join(dir, "manifest.yaml"))
	require.NoError(t, err)
	var onDisk Manifest
	require.NoError(t, yaml.Unmarshal(data, &onDisk))
	assert.Len(t, onDisk.Entries, 2)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m, err := Run(ctx, &snapSource{}, w, 5, ExportNone)
	assert.Error(t, err)
	assert.Empty(t, m.Entries)
}

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
exposure_us: 250000
gain: 120
binning: 2
format: RAW16
roi:
  x: 16
  y: 10
  width: 320
  height: 240
count: 5
export: tiff
`), 0o644))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, p.Exposure())
	assert.Equal(t, 120, p.Gain)
	assert.Equal(t, 2, p.Binning)
	assert.Equal(t, 5, p.Count)
	assert.Equal(t, 320, p.ROI.Width)

	c := p.Constraints()
	if v, ok := c.Width.Value(); assert.True(t, ok) {
		assert.Equal(t, 320, v)
	}
}

func TestLoadProfileDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultProfile, *p)
}

func TestProfileValidate(t *testing.T) {
	bad := DefaultProfile
	bad.Format = "NV12"
	assert.Error(t, bad.Validate())

	bad = DefaultProfile
	bad.Count = 0
	assert.Error(t, bad.Validate())

	bad = DefaultProfile
	bad.ExposureUS = -1
	assert.Error(t, bad.Validate())
}
