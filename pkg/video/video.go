// Package video provides raw frame pipelines: readers, transforms, and
// fan-out to multiple consumers.
package video

import (
	"time"

	"github.com/pion/camctl/pkg/frame"
)

// Reader delivers raw frames. release must be called when the caller is
// done with the frame; the buffer may be reused by the driver afterwards,
// so consumers that keep a frame must Clone it first.
type Reader interface {
	Read() (f *frame.Raw, release func(), err error)
}

// ReaderFunc is a proxy type for Reader
type ReaderFunc func() (f *frame.Raw, release func(), err error)

func (rf ReaderFunc) Read() (f *frame.Raw, release func(), err error) {
	f, release, err = rf()
	return
}

// TransformFunc produces a new Reader that will produce a transformed stream
type TransformFunc func(r Reader) Reader

// Merge merges transforms and produces a new TransformFunc that will execute
// transforms in order
func Merge(transforms ...TransformFunc) TransformFunc {
	return func(r Reader) Reader {
		for _, transform := range transforms {
			if transform == nil {
				continue
			}

			r = transform(r)
		}

		return r
	}
}

// Throttle returns a throttling transform. It drops some of the incoming
// frames to achieve the given rate in frames per second.
func Throttle(rate float32) TransformFunc {
	return func(r Reader) Reader {
		ticker := time.NewTicker(time.Duration(int64(float64(time.Second) / float64(rate))))
		return ReaderFunc(func() (*frame.Raw, func(), error) {
			for {
				f, release, err := r.Read()
				if err != nil {
					ticker.Stop()
					return nil, func() {}, err
				}
				select {
				case <-ticker.C:
					return f, release, nil
				default:
					release()
				}
			}
		})
	}
}
