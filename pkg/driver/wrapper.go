package driver

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/pion/camctl/pkg/control"
	"github.com/pion/camctl/pkg/prop"
	"github.com/pion/camctl/pkg/video"
)

// adapterWrapper turns a bare Adapter into a Driver: it assigns the ID,
// carries the Info, and guards every call with the state machine so
// adapters never see out-of-order or concurrent calls.
type adapterWrapper struct {
	Adapter
	id   string
	info Info

	mu    sync.Mutex
	state State
}

func wrapAdapter(a Adapter, info Info) *adapterWrapper {
	return &adapterWrapper{
		Adapter: a,
		id:      uuid.NewString(),
		info:    info,
		state:   StateClosed,
	}
}

func (w *adapterWrapper) ID() string { return w.id }

func (w *adapterWrapper) Info() Info { return w.info }

func (w *adapterWrapper) Status() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *adapterWrapper) Open() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	// the opened transition also serves Stop, so reject re-opens here
	if w.state != StateClosed {
		return fmt.Errorf("invalid state: driver is already opened")
	}
	return w.state.Update(StateOpened, w.Adapter.Open)
}

func (w *adapterWrapper) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateRunning {
		if err := w.state.Update(StateOpened, w.Adapter.Stop); err != nil {
			return err
		}
	}
	return w.state.Update(StateClosed, w.Adapter.Close)
}

func (w *adapterWrapper) Capture(p prop.Media) (video.Reader, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var r video.Reader
	err := w.state.Update(StateRunning, func() error {
		var err error
		r, err = w.Adapter.Capture(p)
		return err
	})
	return r, err
}

func (w *adapterWrapper) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateRunning {
		return fmt.Errorf("invalid state: driver is not running")
	}
	return w.state.Update(StateOpened, w.Adapter.Stop)
}

func (w *adapterWrapper) Properties() []prop.Media {
	if w.Status() == StateClosed {
		return nil
	}
	return w.Adapter.Properties()
}

// Controller delegation. Adapters without controls still satisfy Driver;
// their control surface is empty.

func (w *adapterWrapper) Controls() []control.Desc {
	if c, ok := w.Adapter.(Controller); ok && w.Status() != StateClosed {
		return c.Controls()
	}
	return nil
}

func (w *adapterWrapper) Control(id string) (control.Value, error) {
	c, ok := w.Adapter.(Controller)
	if !ok {
		return control.Value{}, fmt.Errorf("%q: %w", id, control.ErrUnknown)
	}
	if w.Status() == StateClosed {
		return control.Value{}, fmt.Errorf("invalid state: driver is closed")
	}
	return c.Control(id)
}

func (w *adapterWrapper) SetControl(id string, v control.Value) error {
	c, ok := w.Adapter.(Controller)
	if !ok {
		return fmt.Errorf("%q: %w", id, control.ErrUnknown)
	}
	if w.Status() == StateClosed {
		return fmt.Errorf("invalid state: driver is closed")
	}
	return c.SetControl(id, v)
}
