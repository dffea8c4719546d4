package motionplan

import (
	"github.com/edaniels/golog"
	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/graph/simple"

	"go.viam.com/navcore/obstacle"
)

// Graph vertex indices reserved for the endpoints.
const (
	startIndex  = 0
	finishIndex = 1
)

type planState int

const (
	stateIdle planState = iota
	stateComputing
	statePathFound
	stateNoPath
)

// Avoidance plans shortest obstacle-avoiding polylines inside a border
// polygon. It implements Planner. Not safe for concurrent use; planning is
// synchronous and a new Avoidance call supersedes any prior state.
type Avoidance struct {
	borders          *obstacle.Polygon
	dynamicObstacles []obstacle.Obstacle
	validPoints      []r2.Point
	graph            *simple.WeightedUndirectedGraph
	path             []r2.Point
	state            planState
	logger           golog.Logger
}

// NewAvoidance returns a planner confined to the given border polygon.
func NewAvoidance(borders *obstacle.Polygon, logger golog.Logger) *Avoidance {
	return &Avoidance{
		borders: borders,
		state:   stateIdle,
		logger:  logger,
	}
}

// Borders returns the border polygon confining valid robot positions.
func (a *Avoidance) Borders() *obstacle.Polygon { return a.borders }

// SetBorders replaces the border polygon.
func (a *Avoidance) SetBorders(borders *obstacle.Polygon) { a.borders = borders }

// AddDynamicObstacle adds a reference to the dynamic obstacle set.
func (a *Avoidance) AddDynamicObstacle(o obstacle.Obstacle) {
	a.dynamicObstacles = append(a.dynamicObstacles, o)
}

// ClearDynamicObstacles empties the dynamic obstacle set.
func (a *Avoidance) ClearDynamicObstacles() {
	a.dynamicObstacles = nil
}

// Avoidance computes the shortest obstacle-avoiding polyline from start to
// finish. The previous path is discarded up front. A finish pose outside the
// borders or strictly inside a dynamic obstacle fails the computation; a
// start pose inside an obstacle is relocated to that obstacle's nearest
// boundary point before planning.
func (a *Avoidance) Avoidance(start, finish r2.Point) bool {
	a.logger.Debug("avoidance: starting computation")
	a.state = stateComputing
	a.path = nil

	if !a.borders.IsPointInside(finish) {
		a.logger.Error("avoidance: finish pose is outside the borders")
		a.state = stateNoPath
		return false
	}
	for _, o := range a.dynamicObstacles {
		if o.IsPointInside(finish) {
			a.logger.Error("avoidance: finish pose is inside an obstacle")
			a.state = stateNoPath
			return false
		}
		if o.IsPointInside(start) {
			start = o.NearestPoint(start)
			a.logger.Debugf("avoidance: start pose inside an obstacle, relocated to (%.2f, %.2f)", start.X, start.Y)
		}
	}

	a.validPoints = []r2.Point{start, finish}
	a.buildGraph()

	if !a.solve() {
		a.logger.Error("avoidance: failed to compute path")
		a.state = stateNoPath
		return false
	}
	a.logger.Debugf("avoidance: path computed with %d poses", len(a.path))
	a.state = statePathFound
	return true
}

// PathSize returns the number of poses in the last computed path.
func (a *Avoidance) PathSize() int { return len(a.path) }

// PathPose returns the path pose at index.
func (a *Avoidance) PathPose(index int) (r2.Point, error) {
	if index < 0 || index >= len(a.path) {
		return r2.Point{}, NewPathIndexError(index, len(a.path))
	}
	return a.path[index], nil
}

// CheckRecompute reports whether some in-border dynamic obstacle's true
// shape crosses the straight segment from start to finish.
func (a *Avoidance) CheckRecompute(start, finish r2.Point) bool {
	for _, o := range a.dynamicObstacles {
		if !a.borders.IsPointInside(o.Center()) {
			continue
		}
		if o.IsSegmentCrossing(start, finish) {
			return true
		}
	}
	return false
}

// IsPointInObstacles reports whether p is strictly inside any dynamic
// obstacle, skipping excluded if non-nil.
func (a *Avoidance) IsPointInObstacles(p r2.Point, excluded obstacle.Obstacle) bool {
	for _, o := range a.dynamicObstacles {
		if o == excluded {
			continue
		}
		if o.IsPointInside(p) {
			return true
		}
	}
	return false
}
