package obstacle

import (
	"math"

	"github.com/golang/geo/r2"
)

// DefaultCircleVertexCount is the polygon approximation used for circles
// when a caller has no reason to pick another resolution.
const DefaultCircleVertexCount = 6

// Circle is a circular obstacle approximated by a regular polygon for
// waypoint generation while keeping exact circle geometry for the inside
// and crossing predicates.
type Circle struct {
	center      r2.Point
	radius      float64
	margin      float64
	vertices    []r2.Point
	boundingBox []r2.Point
}

// NewCircle builds a circle from its center and radius. The approximation
// and its bounding box use numVertices vertices; the bounding box is
// circumscribed around the circle and inflated by margin so its edges keep
// clearance from the true shape.
func NewCircle(x, y, radius, margin float64, numVertices int) *Circle {
	if numVertices < 3 {
		numVertices = DefaultCircleVertexCount
	}
	c := &Circle{
		center: r2.Point{X: x, Y: y},
		radius: radius,
		margin: margin,
	}
	c.vertices = circleVertices(c.center, radius, numVertices)
	c.boundingBox = circleVertices(c.center, radius/math.Cos(math.Pi/float64(numVertices))+margin, numVertices)
	return c
}

// Center returns the circle center.
func (c *Circle) Center() r2.Point { return c.center }

// Radius returns the true circle radius.
func (c *Circle) Radius() float64 { return c.radius }

// Vertices returns the polygon approximation of the circle.
func (c *Circle) Vertices() []r2.Point { return c.vertices }

// BoundingBox returns the margin-inflated circumscribed polygon.
func (c *Circle) BoundingBox() []r2.Point { return c.boundingBox }

// IsPointInside reports whether p is strictly inside the true circle.
func (c *Circle) IsPointInside(p r2.Point) bool {
	return p.Sub(c.center).Norm() < c.radius
}

// IsSegmentCrossing reports whether the segment ab cuts through the true
// circle: the supporting line passes closer than the radius and the circle
// center projects onto the segment, or an endpoint is inside.
func (c *Circle) IsSegmentCrossing(a, b r2.Point) bool {
	if !c.isLineCrossing(a, b) {
		return false
	}
	if c.IsPointInside(a) || c.IsPointInside(b) {
		return true
	}
	ab := b.Sub(a)
	return ab.Dot(c.center.Sub(a)) >= 0 && ab.Mul(-1).Dot(c.center.Sub(b)) >= 0
}

// NearestPoint projects p radially onto the margin-inflated circle, giving
// an escape point with clearance for a pose trapped inside.
func (c *Circle) NearestPoint(p r2.Point) r2.Point {
	dir := p.Sub(c.center)
	norm := dir.Norm()
	if norm == 0 {
		return c.center.Add(r2.Point{X: c.radius + c.margin})
	}
	return c.center.Add(dir.Mul((c.radius + c.margin) / norm))
}

// isLineCrossing reports whether the supporting line of ab passes within the
// circle radius of the center.
func (c *Circle) isLineCrossing(a, b r2.Point) bool {
	ab := b.Sub(a)
	return math.Abs(ab.Cross(c.center.Sub(a)))/ab.Norm() < c.radius
}

func circleVertices(center r2.Point, radius float64, n int) []r2.Point {
	vertices := make([]r2.Point, 0, n)
	for i := 0; i < n; i++ {
		angle := float64(i) * 2 * math.Pi / float64(n)
		vertices = append(vertices, r2.Point{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y + radius*math.Sin(angle),
		})
	}
	return vertices
}
