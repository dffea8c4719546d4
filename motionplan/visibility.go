package motionplan

import (
	"math"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/graph/simple"
)

// validateObstaclePoints admits waypoint candidates into the vertex set: for
// every dynamic obstacle centered within the borders, each bounding box
// vertex that is itself within the borders and not inside another obstacle.
// Coincident vertices from overlapping obstacles are kept as duplicates; the
// graphs stay small enough that deduplication buys nothing.
func (a *Avoidance) validateObstaclePoints() {
	for _, o := range a.dynamicObstacles {
		if !a.borders.IsPointInside(o.Center()) {
			continue
		}
		for _, p := range o.BoundingBox() {
			if !a.borders.IsPointInside(p) || a.IsPointInObstacles(p, nil) {
				continue
			}
			a.validPoints = append(a.validPoints, p)
		}
	}
	a.logger.Debugf("avoidance: %d valid points", len(a.validPoints))
}

// buildGraph connects every unordered pair of valid points whose straight
// segment crosses no dynamic obstacle, weighted by Euclidean distance.
// Vertex 0 is the start pose and vertex 1 the finish pose.
func (a *Avoidance) buildGraph() {
	a.validateObstaclePoints()

	a.graph = simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for i := range a.validPoints {
		a.graph.AddNode(simple.Node(i))
	}
	for i := 0; i < len(a.validPoints); i++ {
		for j := i + 1; j < len(a.validPoints); j++ {
			if a.segmentCrossesObstacles(a.validPoints[i], a.validPoints[j]) {
				continue
			}
			weight := a.validPoints[i].Sub(a.validPoints[j]).Norm()
			a.graph.SetWeightedEdge(a.graph.NewWeightedEdge(simple.Node(i), simple.Node(j), weight))
		}
	}
}

func (a *Avoidance) segmentCrossesObstacles(p, q r2.Point) bool {
	for _, o := range a.dynamicObstacles {
		if o.IsSegmentCrossing(p, q) {
			return true
		}
	}
	return false
}
