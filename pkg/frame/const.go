package frame

// Format identifies the pixel layout of a raw sensor frame.
type Format string

const (
	// Raw formats. Monochrome or bayered sensor data straight from the ADC.

	// FormatRaw8 is 8 bit per pixel raw sensor data.
	FormatRaw8 Format = "RAW8"
	// FormatRaw16 is 16 bit per pixel raw sensor data, little endian.
	FormatRaw16 Format = "RAW16"

	// Debayered / luma formats.

	// FormatY8 is 8 bit luminance, produced by cameras that debayer on board.
	FormatY8 Format = "Y8"
	// FormatRGB24 is 8 bit per channel interleaved BGR, the byte order most
	// vendor SDKs hand back for their 24 bit mode.
	FormatRGB24 Format = "RGB24"
)

// BytesPerPixel returns the per-pixel storage size of f, or 0 when f is
// unknown.
func BytesPerPixel(f Format) int {
	switch f {
	case FormatRaw8, FormatY8:
		return 1
	case FormatRaw16:
		return 2
	case FormatRGB24:
		return 3
	default:
		return 0
	}
}
