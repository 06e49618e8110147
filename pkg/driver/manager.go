package driver

import (
	"sync"
)

// FilterFn decides whether a driver should be included in a query result.
type FilterFn func(Driver) bool

// FilterAnd returns a filter that matches when all the given filters match.
func FilterAnd(filters ...FilterFn) FilterFn {
	return func(d Driver) bool {
		for _, f := range filters {
			if !f(d) {
				return false
			}
		}
		return true
	}
}

// FilterNot returns a filter that matches when the given filter doesn't.
func FilterNot(filter FilterFn) FilterFn {
	return func(d Driver) bool {
		return !filter(d)
	}
}

// FilterDeviceType matches drivers of the given device type.
func FilterDeviceType(t DeviceType) FilterFn {
	return func(d Driver) bool {
		return d.Info().DeviceType == t
	}
}

// FilterID matches the driver with the given ID.
func FilterID(id string) FilterFn {
	return func(d Driver) bool {
		return d.ID() == id
	}
}

// Manager keeps track of the registered drivers and their states.
type Manager struct {
	mu      sync.RWMutex
	drivers map[string]Driver
}

var defaultManager = &Manager{
	drivers: make(map[string]Driver),
}

// GetManager returns the singleton manager that adapters register to,
// usually from their package init.
func GetManager() *Manager {
	return defaultManager
}

// Register wraps a and adds it to the manager under a fresh ID.
func (m *Manager) Register(a Adapter, info Info) error {
	d := wrapAdapter(a, info)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[d.ID()] = d
	return nil
}

// Query returns the drivers matching all the given filters.
func (m *Manager) Query(filters ...FilterFn) []Driver {
	filter := FilterAnd(filters...)

	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]Driver, 0)
	for _, d := range m.drivers {
		if filter(d) {
			results = append(results, d)
		}
	}
	return results
}
