// Package obstacle provides the planar shapes the avoidance planner routes
// around, along with the point, segment, and clearance queries it needs.
package obstacle

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// Obstacle is a planar shape that may block the robot's straight-line motion.
type Obstacle interface {
	// Center returns the shape centroid.
	Center() r2.Point

	// Radius returns the circumscribed radius around the centroid.
	Radius() float64

	// Vertices returns the shape outline in counter-clockwise winding order.
	Vertices() []r2.Point

	// BoundingBox returns the margin-inflated outline whose vertices serve as
	// planner waypoints routing around the shape with clearance.
	BoundingBox() []r2.Point

	// IsPointInside reports whether p lies strictly inside the shape.
	IsPointInside(p r2.Point) bool

	// IsSegmentCrossing reports whether the segment ab cuts through the shape.
	IsSegmentCrossing(a, b r2.Point) bool

	// NearestPoint returns the point on or around the shape closest to p,
	// used to relocate a start pose trapped inside the shape.
	NearestPoint(p r2.Point) r2.Point
}

// NewTooFewVerticesError is returned when a polygon cannot be constructed.
func NewTooFewVerticesError(n int) error {
	return errors.Errorf("polygon needs at least 3 vertices, got %d", n)
}

// Polygon is a convex polygon with counter-clockwise vertex winding.
type Polygon struct {
	vertices    []r2.Point
	boundingBox []r2.Point
	center      r2.Point
	radius      float64
	margin      float64
}

// NewPolygon builds a polygon from at least three vertices given in
// counter-clockwise order. margin is the clearance added outward from the
// centroid when generating bounding box waypoints.
func NewPolygon(vertices []r2.Point, margin float64) (*Polygon, error) {
	if len(vertices) < 3 {
		return nil, NewTooFewVerticesError(len(vertices))
	}
	p := &Polygon{
		vertices: append([]r2.Point(nil), vertices...),
		margin:   margin,
	}
	p.center = polygonCentroid(p.vertices)
	for _, v := range p.vertices {
		p.radius = math.Max(p.radius, v.Sub(p.center).Norm())
	}
	p.updateBoundingBox()
	return p, nil
}

// Center returns the signed-area centroid of the polygon.
func (p *Polygon) Center() r2.Point { return p.center }

// Radius returns the largest centroid-to-vertex distance.
func (p *Polygon) Radius() float64 { return p.radius }

// Vertices returns the polygon outline.
func (p *Polygon) Vertices() []r2.Point { return p.vertices }

// BoundingBox returns the vertices pushed outward from the centroid by the
// polygon's margin.
func (p *Polygon) BoundingBox() []r2.Point { return p.boundingBox }

// IsPointInside reports whether p is strictly inside the polygon: every edge,
// walked in winding order, must see p strictly on its left.
func (p *Polygon) IsPointInside(pt r2.Point) bool {
	n := len(p.vertices)
	for i, a := range p.vertices {
		b := p.vertices[(i+1)%n]
		if b.Sub(a).Cross(pt.Sub(a)) <= 0 {
			return false
		}
	}
	return true
}

// IsSegmentCrossing reports whether the segment ab is blocked by the polygon:
// it properly crosses an edge, joins two non-adjacent polygon vertices
// through the interior, or passes exactly over a vertex.
func (p *Polygon) IsSegmentCrossing(a, b r2.Point) bool {
	n := len(p.vertices)
	ia := vertexIndex(p.vertices, a)
	ib := vertexIndex(p.vertices, b)
	if ia >= 0 && ib >= 0 && !adjacentVertices(ia, ib, n) {
		return true
	}
	for i, v := range p.vertices {
		next := p.vertices[(i+1)%n]
		if segmentCrossesSegment(a, b, v, next) {
			return true
		}
		if pointOnSegment(v, a, b) {
			return true
		}
	}
	return false
}

// NearestPoint returns the polygon vertex closest to p.
func (p *Polygon) NearestPoint(pt r2.Point) r2.Point {
	return nearestVertex(p.vertices, pt)
}

func (p *Polygon) updateBoundingBox() {
	p.boundingBox = make([]r2.Point, 0, len(p.vertices))
	for _, v := range p.vertices {
		dir := v.Sub(p.center)
		if norm := dir.Norm(); norm > 0 {
			v = v.Add(dir.Mul(p.margin / norm))
		}
		p.boundingBox = append(p.boundingBox, v)
	}
}

// polygonCentroid computes the area-weighted centroid of a simple polygon.
func polygonCentroid(vertices []r2.Point) r2.Point {
	var area, xSum, ySum float64
	n := len(vertices)
	for i, a := range vertices {
		b := vertices[(i+1)%n]
		cross := a.Cross(b)
		area += cross
		xSum += (a.X + b.X) * cross
		ySum += (a.Y + b.Y) * cross
	}
	area *= 0.5
	factor := 1 / (6 * math.Abs(area))
	return r2.Point{X: xSum * factor, Y: ySum * factor}
}

func nearestVertex(vertices []r2.Point, p r2.Point) r2.Point {
	minDist := math.Inf(1)
	closest := p
	for _, v := range vertices {
		if d := p.Sub(v).Norm(); d < minDist {
			minDist = d
			closest = v
		}
	}
	return closest
}

// vertexIndex returns the index of p among vertices, or -1. Comparison is
// exact; planner waypoints either are a shape's vertices or are nowhere near
// them.
func vertexIndex(vertices []r2.Point, p r2.Point) int {
	for i, v := range vertices {
		if v == p {
			return i
		}
	}
	return -1
}

func adjacentVertices(i, j, n int) bool {
	diff := i - j
	if diff < 0 {
		diff = -diff
	}
	return diff == 1 || diff == n-1
}

// segmentCrossesLine reports whether segment cd straddles the supporting
// line of ab.
func segmentCrossesLine(a, b, c, d r2.Point) bool {
	ab := b.Sub(a)
	return ab.Cross(d.Sub(a))*ab.Cross(c.Sub(a)) < 0
}

// segmentCrossesSegment reports a proper crossing: each segment straddles
// the other's supporting line.
func segmentCrossesSegment(a, b, c, d r2.Point) bool {
	return segmentCrossesLine(a, b, c, d) && segmentCrossesLine(c, d, a, b)
}

// pointOnSegment reports whether p lies exactly on the open segment ab,
// endpoints excluded.
func pointOnSegment(p, a, b r2.Point) bool {
	ab := b.Sub(a)
	if ab.Cross(p.Sub(a)) != 0 {
		return false
	}
	if math.Abs(ab.X) >= math.Abs(ab.Y) {
		return (a.X < p.X) == (p.X < b.X) && p.X != a.X && p.X != b.X
	}
	return (a.Y < p.Y) == (p.Y < b.Y) && p.Y != a.Y && p.Y != b.Y
}
