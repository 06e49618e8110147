// Package camctl is a machine-vision camera abstraction layer. Vendor
// SDKs plug in as drivers; callers enumerate devices, open one against a
// set of constraints, tune its controls, and read raw frames without
// touching the SDK or busy-waiting on ready flags.
package camctl

import (
	"fmt"
	"math"

	"github.com/pion/camctl/internal/logging"
	"github.com/pion/camctl/pkg/driver"
	"github.com/pion/camctl/pkg/prop"
)

var errNotFound = fmt.Errorf("failed to find the best driver that fits the constraints")

var logger = logging.NewLogger("camctl")

// OpenCamera selects the registered driver that best fits the constraints,
// opens it, and returns a Camera session. The negotiated property is the
// best-fitting advertised property merged with the constraints' concrete
// values.
func OpenCamera(constraints prop.MediaConstraints, opts ...CameraOption) (*Camera, error) {
	d, selected, err := selectBestDriver(constraints)
	if err != nil {
		return nil, err
	}

	return newCamera(d, selected, opts...)
}

// selectBestDriver finds the driver that best fits the constraints.
func selectBestDriver(constraints prop.MediaConstraints) (driver.Driver, prop.Media, error) {
	var bestDriver driver.Driver
	var bestProp prop.Media
	minFitnessDist := math.Inf(1)

	for _, d := range driver.GetManager().Query(driverOpenable) {
		if constraints.DeviceID != nil {
			if _, ok := constraints.DeviceID.Compare(d.ID()); !ok {
				continue
			}
		}

		props, err := advertisedProps(d)
		if err != nil {
			logger.Warnf("skipping %s: %v", d.Info().Label, err)
			continue
		}

		for _, p := range props {
			p.DeviceID = d.ID()
			fitnessDist, ok := constraints.FitnessDistance(p)
			if !ok {
				continue
			}
			if fitnessDist < minFitnessDist {
				minFitnessDist = fitnessDist
				bestDriver = d
				bestProp = p
			}
		}
	}

	if bestDriver == nil {
		return nil, prop.Media{}, errNotFound
	}

	logger.Debugf("selected %s (fitness distance %f)", bestDriver.Info().Label, minFitnessDist)

	selected := bestProp
	selected.MergeConstraints(constraints)
	selected.DeviceID = bestDriver.ID()
	return bestDriver, selected, nil
}

// advertisedProps opens the driver just long enough to read its property
// list when it is closed, since closed drivers don't advertise anything.
func advertisedProps(d driver.Driver) ([]prop.Media, error) {
	if d.Status() == driver.StateClosed {
		if err := d.Open(); err != nil {
			return nil, err
		}
		defer d.Close()
	}
	return d.Properties(), nil
}

// driverOpenable filters out drivers already claimed by another session.
func driverOpenable(d driver.Driver) bool {
	return d.Status() != driver.StateRunning
}
