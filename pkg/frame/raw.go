package frame

import (
	"fmt"
	"image"
	"time"
)

// Raw is a single frame as delivered by a driver: the pixel buffer plus
// the metadata needed to interpret it. The buffer is externally sized by
// width * height * bytes-per-pixel; there is no header or padding.
type Raw struct {
	Pix       []byte
	Width     int
	Height    int
	Format    Format
	Seq       uint64
	Timestamp time.Time
}

// Validate checks that the buffer length matches the declared geometry.
func (r *Raw) Validate() error {
	size, ok := Size(r.Format, r.Width, r.Height)
	if !ok {
		return fmt.Errorf("invalid frame geometry: %dx%d %s", r.Width, r.Height, r.Format)
	}
	if len(r.Pix) != size {
		return fmt.Errorf("frame length (%d) not expected size (%d)", len(r.Pix), size)
	}
	return nil
}

// Clone returns a deep copy with its own pixel buffer. Consumers that hold
// a frame past release must clone it first.
func (r *Raw) Clone() *Raw {
	out := *r
	out.Pix = make([]byte, len(r.Pix))
	copy(out.Pix, r.Pix)
	return &out
}

// Image decodes the raw buffer into a standard image type.
func (r *Raw) Image() (image.Image, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	decoder, err := NewDecoder(r.Format)
	if err != nil {
		return nil, err
	}

	img, _, err := decoder.Decode(r.Pix, r.Width, r.Height)
	return img, err
}
