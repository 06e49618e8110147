package camctl

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/pion/camctl/pkg/frame"
)

// ExposureStatus tracks a single exposure through its life. It mirrors the
// poll-ready flow of vendor SDKs, but callers never poll: they wait on
// Done or block in Frame.
type ExposureStatus int

const (
	// ExposureIdle is the zero value: a handle that has not been started.
	// StartExposure returns handles already in ExposureActive.
	ExposureIdle ExposureStatus = iota
	ExposureActive
	ExposureSuccess
	ExposureFailed
	ExposureAborted
)

func (s ExposureStatus) String() string {
	switch s {
	case ExposureIdle:
		return "idle"
	case ExposureActive:
		return "active"
	case ExposureSuccess:
		return "success"
	case ExposureFailed:
		return "failed"
	case ExposureAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Exposure is a handle on one in-flight exposure. The sensor integrates
// on a background goroutine; the handle owns the result.
type Exposure struct {
	mu     sync.Mutex
	status ExposureStatus
	frame  *frame.Raw
	err    error

	done  chan struct{}
	abort func()
}

// StartExposure begins a single exposure with the camera's current
// property and returns immediately. Cancelling ctx aborts the exposure.
// Only one exposure may be in flight, and the stream must be stopped.
func (c *Camera) StartExposure(ctx context.Context) (*Exposure, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.broadcaster != nil {
		return nil, errors.New("exposure: stream is running")
	}
	if c.exposure != nil {
		select {
		case <-c.exposure.done:
			// previous exposure finished, fine to start another
		default:
			return nil, errors.New("exposure: already in flight")
		}
	}

	r, err := c.d.Capture(c.selected)
	if err != nil {
		return nil, errors.Wrap(err, "start exposure")
	}

	ctx, cancel := context.WithCancel(ctx)
	exp := &Exposure{
		status: ExposureActive,
		done:   make(chan struct{}),
		abort:  cancel,
	}
	c.exposure = exp

	// stopOnce ends the driver capture exactly once, from whichever side
	// finishes first.
	var stopOnce sync.Once
	stop := func() {
		stopOnce.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.d.Stop()
		})
	}

	// aborter: a cancelled context stops the driver, which unblocks the
	// reader goroutine below.
	go func() {
		select {
		case <-ctx.Done():
			stop()
		case <-exp.done:
		}
	}()

	go func() {
		defer cancel()

		f, release, err := r.Read()
		if err == nil {
			f = f.Clone()
			release()
		}
		stop()

		exp.mu.Lock()
		switch {
		case err == nil:
			exp.status = ExposureSuccess
			exp.frame = f
		case ctx.Err() != nil:
			exp.status = ExposureAborted
			exp.err = errors.Wrap(ctx.Err(), "exposure aborted")
		default:
			exp.status = ExposureFailed
			exp.err = errors.Wrap(err, "exposure failed")
		}
		exp.mu.Unlock()
		close(exp.done)
	}()

	return exp, nil
}

// Done is closed when the exposure has finished, whatever the outcome.
func (e *Exposure) Done() <-chan struct{} {
	return e.done
}

// Status reports where the exposure currently stands.
func (e *Exposure) Status() ExposureStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Frame blocks until the exposure finishes and returns its result.
func (e *Exposure) Frame() (*frame.Raw, error) {
	<-e.done
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frame, e.err
}

// Abort cancels the exposure. It returns immediately; wait on Done for
// the goroutine to wind down.
func (e *Exposure) Abort() {
	e.abort()
}
