package driver

import "fmt"

// State represents driver's state
type State string

const (
	// StateClosed means that the driver has not been opened. In this state,
	// all information related to the hardware are still unknown. For example,
	// the supported capture properties are still unknown.
	StateClosed State = "closed"
	// StateOpened means that the driver is already opened and information
	// about the hardware may be extracted from the driver.
	StateOpened State = "opened"
	// StateRunning means that the driver is capturing. The caller who
	// started the capture may read frames from the returned reader.
	StateRunning State = "running"
)

// Update updates current state, s, to next. If f fails to execute,
// s will stay unchanged. Otherwise, s will be updated to next
func (s *State) Update(next State, f func() error) error {
	m := map[State]func() error{
		StateOpened:  s.toOpened,
		StateClosed:  s.toClosed,
		StateRunning: s.toRunning,
	}

	if err := m[next](); err != nil {
		return err
	}

	err := f()
	if err == nil {
		*s = next
	}
	return err
}

// toOpened admits both Closed (Open) and Running (Stop).
func (s *State) toOpened() error {
	if *s == StateOpened {
		return fmt.Errorf("invalid state: driver is already opened")
	}
	return nil
}

func (s *State) toClosed() error {
	return nil
}

func (s *State) toRunning() error {
	if *s == StateClosed {
		return fmt.Errorf("invalid state: driver is closed")
	}

	if *s == StateRunning {
		return fmt.Errorf("invalid state: driver is already running")
	}

	return nil
}
