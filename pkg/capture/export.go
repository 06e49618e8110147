package capture

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/pion/camctl/pkg/frame"
)

// ExportKind selects the encoded output format of Export.
type ExportKind string

const (
	ExportNone ExportKind = ""
	ExportPNG  ExportKind = "png"
	// ExportTIFF keeps the full 16 bit depth of RAW16 frames.
	ExportTIFF ExportKind = "tiff"
	ExportBMP  ExportKind = "bmp"
)

// ParseExportKind reads an export kind from user input.
func ParseExportKind(s string) (ExportKind, error) {
	switch k := ExportKind(strings.ToLower(s)); k {
	case ExportNone, ExportPNG, ExportTIFF, ExportBMP:
		return k, nil
	default:
		return ExportNone, errors.Errorf("unknown export format %q (png, tiff, bmp)", s)
	}
}

// Export decodes the frame and writes it next to rawPath with the kind's
// extension, returning the written path.
func Export(rawPath string, f *frame.Raw, kind ExportKind) (string, error) {
	img, err := f.Image()
	if err != nil {
		return "", errors.Wrap(err, "decode frame")
	}

	path := strings.TrimSuffix(rawPath, filepath.Ext(rawPath)) + "." + string(kind)
	out, err := os.Create(path)
	if err != nil {
		return "", errors.Wrapf(err, "create %s", path)
	}
	defer out.Close()

	switch kind {
	case ExportPNG:
		err = png.Encode(out, img)
	case ExportTIFF:
		err = tiff.Encode(out, img, &tiff.Options{Compression: tiff.Deflate})
	case ExportBMP:
		err = bmp.Encode(out, img)
	default:
		err = errors.Errorf("unknown export kind %q", kind)
	}
	if err != nil {
		return "", errors.Wrapf(err, "encode %s", path)
	}
	return path, nil
}
