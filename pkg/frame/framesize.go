package frame

// Size returns the number of bytes a frame of the given format and
// dimensions occupies. All supported formats are uncompressed, so the size
// is always width * height * bytes-per-pixel. ok is false for unknown
// formats or non-positive dimensions.
func Size(f Format, width, height int) (size int, ok bool) {
	if width <= 0 || height <= 0 {
		return 0, false
	}

	bpp := BytesPerPixel(f)
	if bpp == 0 {
		return 0, false
	}

	return width * height * bpp, true
}
