// Package capture persists frames: headerless raw dumps in the
// <counter>_raw8_image_data.bin naming scheme of the vendor example
// programs, and decoded image exports for quick inspection.
package capture

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/pion/camctl/internal/logging"
	"github.com/pion/camctl/pkg/frame"
)

var logger = logging.NewLogger("capture")

// Writer dumps raw frames into a directory, one file per frame, counting
// up from 1. Files carry no header; dimensions travel out of band, so the
// caller must record them (the Manifest helper does).
type Writer struct {
	dir     string
	counter int
}

// NewWriter creates the directory if needed and returns a writer starting
// at counter 1.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create capture dir")
	}
	return &Writer{dir: dir}, nil
}

// rawName builds the file name for a frame: the counter, then the pixel
// layout tag, exactly as the original example programs named their dumps.
func rawName(counter int, f frame.Format) (string, error) {
	var tag string
	switch frame.BytesPerPixel(f) {
	case 1:
		tag = "raw8"
	case 2:
		tag = "raw16"
	case 3:
		tag = "rgb24"
	default:
		return "", errors.Errorf("no raw dump naming for format %s", f)
	}
	return fmt.Sprintf("%d_%s_image_data.bin", counter, tag), nil
}

// WriteRaw persists one frame and returns the path it was written to.
func (w *Writer) WriteRaw(f *frame.Raw) (string, error) {
	if err := f.Validate(); err != nil {
		return "", errors.Wrap(err, "refusing to dump invalid frame")
	}

	w.counter++
	name, err := rawName(w.counter, f.Format)
	if err != nil {
		w.counter--
		return "", err
	}

	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, f.Pix, 0o644); err != nil {
		w.counter--
		return "", errors.Wrapf(err, "write %s", name)
	}

	logger.Debugf("wrote %s (%dx%d %s)", path, f.Width, f.Height, f.Format)
	return path, nil
}

// Count returns how many frames have been written.
func (w *Writer) Count() int {
	return w.counter
}
