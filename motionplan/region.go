package motionplan

import (
	"github.com/edaniels/golog"
	"github.com/golang/geo/r2"

	"go.viam.com/navcore/obstacle"
	"go.viam.com/navcore/shmem"
)

// RegionAvoidance is an Avoidance wired to a shared region: its borders come
// from the region's table limits, its dynamic obstacles can be refreshed
// from the detector list, and its paths can be published back for the
// strategy process.
type RegionAvoidance struct {
	*Avoidance
	region         *shmem.Region
	margin         float64
	circleVertices int
}

// NewAvoidanceFromRegion builds a planner whose borders are the region's
// table limits, read under the pose-order lock. margin is the clearance
// added around detected obstacles and circleVertices their polygon
// resolution when syncing from the region.
func NewAvoidanceFromRegion(
	region *shmem.Region,
	margin float64,
	circleVertices int,
	logger golog.Logger,
) (*RegionAvoidance, error) {
	lock := region.Lock(shmem.PoseOrder)
	lock.StartReading()
	limits := region.TableLimits()
	lock.FinishReading()

	borders, err := obstacle.NewPolygon([]r2.Point{
		{X: limits.XMin, Y: limits.YMin},
		{X: limits.XMax, Y: limits.YMin},
		{X: limits.XMax, Y: limits.YMax},
		{X: limits.XMin, Y: limits.YMax},
	}, 0)
	if err != nil {
		return nil, err
	}
	return &RegionAvoidance{
		Avoidance:      NewAvoidance(borders, logger),
		region:         region,
		margin:         margin,
		circleVertices: circleVertices,
	}, nil
}

// SyncDetectedObstacles replaces the dynamic obstacle set with the region's
// detector-sourced circle list, read under its channel lock.
func (ra *RegionAvoidance) SyncDetectedObstacles() {
	lock := ra.region.Lock(shmem.DetectorObstacles)
	lock.StartReading()
	circles := ra.region.DetectorObstacles().All()
	lock.FinishReading()

	ra.ClearDynamicObstacles()
	for _, c := range circles {
		ra.AddDynamicObstacle(obstacle.NewCircle(c.X, c.Y, c.Radius, ra.margin, ra.circleVertices))
	}
	ra.logger.Debugf("avoidance: synced %d detected obstacles", len(circles))
}

// PublishPath writes the last computed path and its availability into the
// region under the planner-obstacles lock, then wakes registered consumers.
// With no computed path it publishes emptiness, clearing the availability
// flag.
func (ra *RegionAvoidance) PublishPath() error {
	lock := ra.region.Lock(shmem.PlannerObstacles)
	lock.StartWriting()
	defer lock.PostUpdate()
	defer lock.FinishWriting()

	view := ra.region.Path()
	if ra.state != statePathFound {
		view.Clear()
		return nil
	}
	if err := view.Set(ra.path); err != nil {
		view.Clear()
		return err
	}
	view.SetAvailable(true)
	return nil
}
