package frame

import (
	"fmt"
)

func NewDecoder(f Format) (Decoder, error) {
	var decoder decoderFunc

	switch f {
	case FormatRaw8, FormatY8:
		decoder = decodeGray8
	case FormatRaw16:
		decoder = decodeGray16
	case FormatRGB24:
		decoder = decodeRGB24
	default:
		return nil, fmt.Errorf("%s is not supported", f)
	}

	return decoder, nil
}
