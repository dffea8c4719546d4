// Package sensor declares the contracts of the collaborating processes that
// feed and consume the shared region: the lidar driver producing raw
// samples, the detector clustering them into circular obstacles, and the
// strategy layer driving the planner. Implementations live outside this
// module; the region and planner only depend on these shapes.
package sensor

import (
	"context"

	"go.viam.com/navcore/motionplan"
	"go.viam.com/navcore/shmem"
)

// Driver is a lidar or similar ranging sensor producing raw samples. A
// driver process writes each scan into the region's sensor table under the
// sensor-data lock and posts an update for registered consumers.
type Driver interface {
	// Start begins sampling.
	Start()
	// Stop halts sampling without releasing the device.
	Stop()
	// Scan returns the latest complete revolution of samples.
	Scan() ([]shmem.Sample, error)
	// Close releases the device.
	Close() error
}

// Detector clusters raw samples into circular obstacles. A detector process
// writes its result into the region's detector-obstacles list under that
// channel's lock.
type Detector interface {
	Detect(samples []shmem.Sample) []shmem.Circle
}

// Strategy is the decision layer that owns planners: it decides when to
// plan, reacts to recompute signals, and consumes published paths.
type Strategy interface {
	Run(ctx context.Context, planner motionplan.Planner) error
}
