package obstacle

import (
	"math"

	"github.com/golang/geo/r2"
)

// Rectangle is an oriented rectangular obstacle.
type Rectangle struct {
	Polygon
	lengthX float64
	lengthY float64
	angle   float64
}

// NewRectangle builds a rectangle from its center, orientation in degrees,
// and side lengths. The bounding box is the same rectangle with each side
// length grown by margin.
func NewRectangle(x, y, angleDeg, lengthX, lengthY, margin float64) *Rectangle {
	rect := &Rectangle{
		lengthX: lengthX,
		lengthY: lengthY,
		angle:   angleDeg,
	}
	rect.center = r2.Point{X: x, Y: y}
	rect.margin = margin
	rect.radius = math.Hypot(lengthX, lengthY) / 2
	rect.vertices = rectangleVertices(rect.center, angleDeg, lengthX, lengthY)
	rect.boundingBox = rectangleVertices(rect.center, angleDeg, lengthX+margin, lengthY+margin)
	return rect
}

// rectangleVertices lists the rectangle corners counter-clockwise starting
// from the corner at (-lengthX/2, -lengthY/2) in the rectangle frame.
func rectangleVertices(center r2.Point, angleDeg, lengthX, lengthY float64) []r2.Point {
	cos := math.Cos(degToRad(angleDeg))
	sin := math.Sin(degToRad(angleDeg))
	halfX := lengthX / 2
	halfY := lengthY / 2
	return []r2.Point{
		{X: center.X - halfX*cos + halfY*sin, Y: center.Y - halfX*sin - halfY*cos},
		{X: center.X + halfX*cos + halfY*sin, Y: center.Y + halfX*sin - halfY*cos},
		{X: center.X + halfX*cos - halfY*sin, Y: center.Y + halfX*sin + halfY*cos},
		{X: center.X - halfX*cos - halfY*sin, Y: center.Y - halfX*sin + halfY*cos},
	}
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
