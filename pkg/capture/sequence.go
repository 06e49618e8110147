package capture

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/pion/camctl/pkg/frame"
)

// Source is anything that can produce a single frame per request. The
// camctl Camera satisfies it.
type Source interface {
	Snapshot(ctx context.Context) (*frame.Raw, error)
}

// ManifestEntry records the out-of-band metadata of one raw dump; the
// dump itself is headerless.
type ManifestEntry struct {
	File      string    `yaml:"file"`
	Width     int       `yaml:"width"`
	Height    int       `yaml:"height"`
	Format    string    `yaml:"format"`
	Seq       uint64    `yaml:"seq"`
	Timestamp time.Time `yaml:"timestamp"`
}

// Manifest accompanies a capture run so the dumps stay interpretable.
type Manifest struct {
	Entries []ManifestEntry `yaml:"frames"`
}

// Run captures count frames from src through w, optionally exporting each
// one, and writes a manifest.yaml beside the dumps. It stops early when
// ctx is done, returning what it captured so far along with ctx's error.
func Run(ctx context.Context, src Source, w *Writer, count int, kind ExportKind) (*Manifest, error) {
	manifest := &Manifest{}

	for i := 0; i < count; i++ {
		f, err := src.Snapshot(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return manifest, writeManifestAnd(w, manifest, ctx.Err())
			}
			return manifest, writeManifestAnd(w, manifest, errors.Wrapf(err, "frame %d of %d", i+1, count))
		}

		path, err := w.WriteRaw(f)
		if err != nil {
			return manifest, writeManifestAnd(w, manifest, err)
		}
		if kind != ExportNone {
			if _, err := Export(path, f, kind); err != nil {
				return manifest, writeManifestAnd(w, manifest, err)
			}
		}

		manifest.Entries = append(manifest.Entries, ManifestEntry{
			File:      filepath.Base(path),
			Width:     f.Width,
			Height:    f.Height,
			Format:    string(f.Format),
			Seq:       f.Seq,
			Timestamp: f.Timestamp,
		})
	}

	return manifest, writeManifestAnd(w, manifest, nil)
}

func writeManifestAnd(w *Writer, m *Manifest, cause error) error {
	if len(m.Entries) == 0 {
		return cause
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "marshal manifest")
	}
	if err := os.WriteFile(filepath.Join(w.dir, "manifest.yaml"), data, 0o644); err != nil {
		return errors.Wrap(err, "write manifest")
	}
	return cause
}
