package motionplan

import (
	"testing"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r2"
	"go.viam.com/test"

	"go.viam.com/navcore/obstacle"
)

func tableBorders(t *testing.T) *obstacle.Polygon {
	t.Helper()
	borders, err := obstacle.NewPolygon([]r2.Point{
		{X: 0, Y: 0},
		{X: 1000, Y: 0},
		{X: 1000, Y: 1000},
		{X: 0, Y: 1000},
	}, 0)
	test.That(t, err, test.ShouldBeNil)
	return borders
}

func TestDirectPath(t *testing.T) {
	logger := golog.NewTestLogger(t)
	planner := NewAvoidance(tableBorders(t), logger)

	// With nothing in the way the path is exactly the two endpoints.
	start := r2.Point{X: 100, Y: 100}
	finish := r2.Point{X: 900, Y: 900}
	test.That(t, planner.Avoidance(start, finish), test.ShouldBeTrue)
	test.That(t, planner.PathSize(), test.ShouldEqual, 2)
	first, err := planner.PathPose(0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, first, test.ShouldResemble, start)
	last, err := planner.PathPose(1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, last, test.ShouldResemble, finish)

	// An obstacle off to the side changes nothing.
	planner.AddDynamicObstacle(obstacle.NewRectangle(200, 800, 0, 100, 100, 20))
	test.That(t, planner.Avoidance(start, finish), test.ShouldBeTrue)
	test.That(t, planner.PathSize(), test.ShouldEqual, 2)
}

func TestAvoidanceAroundObstacle(t *testing.T) {
	// Table: square [0,1000]x[0,1000].
	// Obstacle: square side 200 centered at (500,500), margin 20, so the
	// planner routes around a 220x220 inflated box.
	logger := golog.NewTestLogger(t)
	planner := NewAvoidance(tableBorders(t), logger)
	box := obstacle.NewRectangle(500, 500, 0, 200, 200, 20)
	planner.AddDynamicObstacle(box)

	start := r2.Point{X: 100, Y: 500}
	finish := r2.Point{X: 900, Y: 500}
	test.That(t, planner.Avoidance(start, finish), test.ShouldBeTrue)
	test.That(t, planner.PathSize(), test.ShouldBeGreaterThanOrEqualTo, 4)

	first, err := planner.PathPose(0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, first, test.ShouldResemble, start)
	last, err := planner.PathPose(planner.PathSize() - 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, last, test.ShouldResemble, finish)

	// Path soundness: no leg crosses the obstacle, nor cuts into the
	// inflated box.
	inflated, err := obstacle.NewPolygon(box.BoundingBox(), 0)
	test.That(t, err, test.ShouldBeNil)
	for i := 0; i+1 < planner.PathSize(); i++ {
		a, err := planner.PathPose(i)
		test.That(t, err, test.ShouldBeNil)
		b, err := planner.PathPose(i + 1)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, box.IsSegmentCrossing(a, b), test.ShouldBeFalse)
		mid := a.Add(b).Mul(0.5)
		test.That(t, inflated.IsPointInside(mid), test.ShouldBeFalse)
	}
}

func TestAvoidanceRejections(t *testing.T) {
	logger := golog.NewTestLogger(t)
	planner := NewAvoidance(tableBorders(t), logger)
	planner.AddDynamicObstacle(obstacle.NewRectangle(500, 500, 0, 200, 200, 20))

	t.Run("finish outside borders", func(t *testing.T) {
		test.That(t, planner.Avoidance(r2.Point{X: 100, Y: 500}, r2.Point{X: 1100, Y: 500}), test.ShouldBeFalse)
		test.That(t, planner.PathSize(), test.ShouldEqual, 0)
	})
	t.Run("finish inside obstacle", func(t *testing.T) {
		test.That(t, planner.Avoidance(r2.Point{X: 100, Y: 500}, r2.Point{X: 500, Y: 500}), test.ShouldBeFalse)
		test.That(t, planner.PathSize(), test.ShouldEqual, 0)
	})
	t.Run("unreachable finish", func(t *testing.T) {
		// Box the finish in completely: four walls just around it leave no
		// collision-free edge to the outside.
		walled := NewAvoidance(tableBorders(t), logger)
		walled.AddDynamicObstacle(obstacle.NewRectangle(800, 700, 0, 250, 40, 0))
		walled.AddDynamicObstacle(obstacle.NewRectangle(800, 900, 0, 250, 40, 0))
		walled.AddDynamicObstacle(obstacle.NewRectangle(700, 800, 90, 250, 40, 0))
		walled.AddDynamicObstacle(obstacle.NewRectangle(900, 800, 90, 250, 40, 0))
		test.That(t, walled.Avoidance(r2.Point{X: 100, Y: 500}, r2.Point{X: 800, Y: 800}), test.ShouldBeFalse)
		test.That(t, walled.PathSize(), test.ShouldEqual, 0)
	})
}

func TestStartInsideObstacleRelocates(t *testing.T) {
	logger := golog.NewTestLogger(t)
	planner := NewAvoidance(tableBorders(t), logger)
	box := obstacle.NewRectangle(500, 500, 0, 200, 200, 20)
	planner.AddDynamicObstacle(box)

	start := r2.Point{X: 510, Y: 510}
	test.That(t, planner.Avoidance(start, r2.Point{X: 900, Y: 500}), test.ShouldBeTrue)

	first, err := planner.PathPose(0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, first, test.ShouldNotResemble, start)
	test.That(t, first, test.ShouldResemble, box.NearestPoint(start))
	test.That(t, box.IsPointInside(first), test.ShouldBeFalse)
}

func TestPathPoseOutOfRange(t *testing.T) {
	logger := golog.NewTestLogger(t)
	planner := NewAvoidance(tableBorders(t), logger)
	test.That(t, planner.Avoidance(r2.Point{X: 100, Y: 100}, r2.Point{X: 200, Y: 200}), test.ShouldBeTrue)

	_, err := planner.PathPose(planner.PathSize())
	test.That(t, err, test.ShouldNotBeNil)
	_, err = planner.PathPose(-1)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestCheckRecompute(t *testing.T) {
	logger := golog.NewTestLogger(t)
	planner := NewAvoidance(tableBorders(t), logger)
	planner.AddDynamicObstacle(obstacle.NewRectangle(500, 500, 0, 200, 200, 20))

	test.That(t, planner.CheckRecompute(r2.Point{X: 100, Y: 500}, r2.Point{X: 900, Y: 500}), test.ShouldBeTrue)
	test.That(t, planner.CheckRecompute(r2.Point{X: 100, Y: 100}, r2.Point{X: 900, Y: 100}), test.ShouldBeFalse)

	// An obstacle centered outside the borders does not signal.
	outside := NewAvoidance(tableBorders(t), logger)
	outside.AddDynamicObstacle(obstacle.NewRectangle(1200, 500, 0, 200, 200, 20))
	test.That(t, outside.CheckRecompute(r2.Point{X: 100, Y: 500}, r2.Point{X: 900, Y: 500}), test.ShouldBeFalse)
}

func TestIsPointInObstacles(t *testing.T) {
	logger := golog.NewTestLogger(t)
	planner := NewAvoidance(tableBorders(t), logger)
	box := obstacle.NewRectangle(500, 500, 0, 200, 200, 20)
	planner.AddDynamicObstacle(box)

	test.That(t, planner.IsPointInObstacles(r2.Point{X: 500, Y: 500}, nil), test.ShouldBeTrue)
	test.That(t, planner.IsPointInObstacles(r2.Point{X: 100, Y: 100}, nil), test.ShouldBeFalse)
	test.That(t, planner.IsPointInObstacles(r2.Point{X: 500, Y: 500}, box), test.ShouldBeFalse)
}

func TestDeterminism(t *testing.T) {
	logger := golog.NewTestLogger(t)
	run := func() []r2.Point {
		planner := NewAvoidance(tableBorders(t), logger)
		planner.AddDynamicObstacle(obstacle.NewRectangle(400, 500, 0, 150, 150, 20))
		planner.AddDynamicObstacle(obstacle.NewCircle(650, 450, 80, 20, 6))
		test.That(t, planner.Avoidance(r2.Point{X: 100, Y: 500}, r2.Point{X: 900, Y: 500}), test.ShouldBeTrue)
		path := make([]r2.Point, 0, planner.PathSize())
		for i := 0; i < planner.PathSize(); i++ {
			p, err := planner.PathPose(i)
			test.That(t, err, test.ShouldBeNil)
			path = append(path, p)
		}
		return path
	}
	test.That(t, run(), test.ShouldResemble, run())
}

func TestGraphSymmetry(t *testing.T) {
	logger := golog.NewTestLogger(t)
	planner := NewAvoidance(tableBorders(t), logger)
	planner.AddDynamicObstacle(obstacle.NewRectangle(500, 500, 0, 200, 200, 20))
	test.That(t, planner.Avoidance(r2.Point{X: 100, Y: 500}, r2.Point{X: 900, Y: 500}), test.ShouldBeTrue)

	edges := planner.graph.WeightedEdges()
	count := 0
	for edges.Next() {
		e := edges.WeightedEdge()
		forward, ok := planner.graph.Weight(e.From().ID(), e.To().ID())
		test.That(t, ok, test.ShouldBeTrue)
		backward, ok := planner.graph.Weight(e.To().ID(), e.From().ID())
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, forward, test.ShouldEqual, backward)
		count++
	}
	test.That(t, count, test.ShouldBeGreaterThan, 0)
}
