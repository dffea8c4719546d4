// Package motionplan computes obstacle-avoiding paths across the table by
// building a visibility graph over obstacle bounding boxes and solving it
// with Dijkstra's algorithm.
package motionplan

import (
	"github.com/golang/geo/r2"

	"go.viam.com/navcore/obstacle"
)

// Planner is the planning surface consumed by the strategy layer. A planner
// references, never copies, the dynamic obstacles it is given; the caller
// keeps each obstacle alive and positionally stable while the planner may
// use it.
type Planner interface {
	// AddDynamicObstacle adds a reference to the dynamic obstacle set.
	AddDynamicObstacle(o obstacle.Obstacle)

	// ClearDynamicObstacles empties the dynamic obstacle set.
	ClearDynamicObstacles()

	// Avoidance computes the shortest obstacle-avoiding polyline from start
	// to finish, discarding any previously computed path. It returns false,
	// leaving the path empty, when the finish pose is invalid or no
	// collision-free route exists.
	Avoidance(start, finish r2.Point) bool

	// PathSize returns the number of poses in the last computed path.
	PathSize() int

	// PathPose returns the path pose at index, erroring when index is out
	// of range.
	PathPose(index int) (r2.Point, error)

	// CheckRecompute reports whether some in-border obstacle's true shape
	// crosses the straight segment from start to finish, signaling that
	// replanning is advisable. It does not replan.
	CheckRecompute(start, finish r2.Point) bool

	// IsPointInObstacles reports whether p is strictly inside any dynamic
	// obstacle, skipping excluded if non-nil.
	IsPointInObstacles(p r2.Point, excluded obstacle.Obstacle) bool
}
