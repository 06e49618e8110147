package frame

import (
	"fmt"
	"image"
)

// decodeRGB24 expands interleaved BGR triplets into an RGBA image.
func decodeRGB24(frame []byte, width, height int) (image.Image, func(), error) {
	size := 3 * width * height
	if size > len(frame) {
		return nil, func() {}, fmt.Errorf("frame length (%d) less than expected (%d)", len(frame), size)
	}

	r := image.Rect(0, 0, width, height)
	img := image.NewRGBA(r)
	j := 0
	for i := 0; i < size; i += 3 {
		img.Pix[j+0] = frame[i+2]
		img.Pix[j+1] = frame[i+1]
		img.Pix[j+2] = frame[i+0]
		img.Pix[j+3] = 0xFF
		j += 4
	}
	return img, func() {}, nil
}
