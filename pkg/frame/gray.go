package frame

import (
	"fmt"
	"image"
)

func decodeGray8(frame []byte, width, height int) (image.Image, func(), error) {
	size := width * height
	if size > len(frame) {
		return nil, func() {}, fmt.Errorf("frame length (%d) less than expected (%d)", len(frame), size)
	}

	return &image.Gray{
		Pix:    frame[:size:size],
		Stride: width,
		Rect:   image.Rect(0, 0, width, height),
	}, func() {}, nil
}

// decodeGray16 reads 16 bit samples in little endian order, which is what
// both v4l2 Z16 and the astronomy camera SDKs produce. image.Gray16 stores
// big endian, so each sample is swapped during the copy.
func decodeGray16(frame []byte, width, height int) (image.Image, func(), error) {
	size := 2 * width * height
	if size > len(frame) {
		return nil, func() {}, fmt.Errorf("frame length (%d) less than expected (%d)", len(frame), size)
	}

	img := image.NewGray16(image.Rect(0, 0, width, height))
	for i := 0; i < size; i += 2 {
		img.Pix[i] = frame[i+1]
		img.Pix[i+1] = frame[i]
	}
	return img, func() {}, nil
}
