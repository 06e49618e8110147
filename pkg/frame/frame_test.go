package frame

import (
	"image"
	"testing"
)

func TestSize(t *testing.T) {
	cases := []struct {
		format Format
		w, h   int
		size   int
		ok     bool
	}{
		{FormatRaw8, 640, 480, 640 * 480, true},
		{FormatY8, 640, 480, 640 * 480, true},
		{FormatRaw16, 640, 480, 2 * 640 * 480, true},
		{FormatRGB24, 640, 480, 3 * 640 * 480, true},
		{FormatRaw8, 0, 480, 0, false},
		{FormatRaw8, 640, -1, 0, false},
		{Format("NV12"), 640, 480, 0, false},
	}

	for _, c := range cases {
		size, ok := Size(c.format, c.w, c.h)
		if ok != c.ok || size != c.size {
			t.Errorf("Size(%s, %d, %d) = (%d, %t), expected (%d, %t)",
				c.format, c.w, c.h, size, ok, c.size, c.ok)
		}
	}
}

func TestDecodeGray16LittleEndian(t *testing.T) {
	// 2x1 frame, samples 0x0201 and 0x0403 in little endian
	buf := []byte{0x01, 0x02, 0x03, 0x04}
	decoder, err := NewDecoder(FormatRaw16)
	if err != nil {
		t.Fatal(err)
	}

	img, _, err := decoder.Decode(buf, 2, 1)
	if err != nil {
		t.Fatal(err)
	}

	gray, ok := img.(*image.Gray16)
	if !ok {
		t.Fatalf("expected *image.Gray16, got %T", img)
	}
	if got := gray.Gray16At(0, 0).Y; got != 0x0201 {
		t.Errorf("pixel (0,0): expected 0x0201, got 0x%04x", got)
	}
	if got := gray.Gray16At(1, 0).Y; got != 0x0403 {
		t.Errorf("pixel (1,0): expected 0x0403, got 0x%04x", got)
	}
}

func TestDecodeGray8(t *testing.T) {
	buf := []byte{10, 20, 30, 40, 50, 60}
	decoder, err := NewDecoder(FormatRaw8)
	if err != nil {
		t.Fatal(err)
	}

	img, _, err := decoder.Decode(buf, 3, 2)
	if err != nil {
		t.Fatal(err)
	}

	gray := img.(*image.Gray)
	if got := gray.GrayAt(2, 1).Y; got != 60 {
		t.Errorf("pixel (2,1): expected 60, got %d", got)
	}
}

func TestDecodeRGB24SwapsChannels(t *testing.T) {
	// one BGR pixel
	buf := []byte{1, 2, 3}
	decoder, err := NewDecoder(FormatRGB24)
	if err != nil {
		t.Fatal(err)
	}

	img, _, err := decoder.Decode(buf, 1, 1)
	if err != nil {
		t.Fatal(err)
	}

	rgba := img.(*image.RGBA)
	r, g, b, a := rgba.RGBAAt(0, 0).R, rgba.RGBAAt(0, 0).G, rgba.RGBAAt(0, 0).B, rgba.RGBAAt(0, 0).A
	if r != 3 || g != 2 || b != 1 || a != 0xFF {
		t.Errorf("expected RGBA(3,2,1,255), got (%d,%d,%d,%d)", r, g, b, a)
	}
}

func TestDecodeShortBuffer(t *testing.T) {
	decoder, err := NewDecoder(FormatRaw16)
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := decoder.Decode(make([]byte, 10), 640, 480); err == nil {
		t.Error("expected error for short buffer")
	}
}

func TestNewDecoderUnknownFormat(t *testing.T) {
	if _, err := NewDecoder(Format("MJPEG")); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestRawValidate(t *testing.T) {
	raw := Raw{
		Pix:    make([]byte, 2*4*2),
		Width:  4,
		Height: 2,
		Format: FormatRaw16,
	}
	if err := raw.Validate(); err != nil {
		t.Errorf("expected valid frame, got %v", err)
	}

	raw.Pix = raw.Pix[:5]
	if err := raw.Validate(); err == nil {
		t.Error("expected error for truncated buffer")
	}
}

func TestRawClone(t *testing.T) {
	raw := &Raw{
		Pix:    []byte{1, 2, 3, 4},
		Width:  2,
		Height: 2,
		Format: FormatRaw8,
		Seq:    7,
	}

	clone := raw.Clone()
	clone.Pix[0] = 99
	if raw.Pix[0] != 1 {
		t.Error("clone must not share the pixel buffer")
	}
	if clone.Seq != raw.Seq || clone.Width != raw.Width {
		t.Error("clone must copy metadata")
	}
}
