package model

import "math"

// Point represents a 2D point.
type Point struct {
	X, Y float64
}

// Distance calculates the Euclidean distance to another point.
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Rect is an axis-aligned rectangle given by two corners, (X0, Y0) at the
// top-left and (X1, Y1) at the bottom-right in top-down page coordinates.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// NewRect creates a rectangle from corner coordinates.
func NewRect(x0, y0, x1, y1 float64) Rect {
	return Rect{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// RectFromPoints returns the bounding rectangle of a set of points.
// An empty input yields the zero rectangle.
func RectFromPoints(points []Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	r := Rect{X0: points[0].X, Y0: points[0].Y, X1: points[0].X, Y1: points[0].Y}
	for _, p := range points[1:] {
		r.X0 = math.Min(r.X0, p.X)
		r.Y0 = math.Min(r.Y0, p.Y)
		r.X1 = math.Max(r.X1, p.X)
		r.Y1 = math.Max(r.Y1, p.Y)
	}
	return r
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 {
	return r.X1 - r.X0
}

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 {
	return r.Y1 - r.Y0
}

// Center returns the center point.
func (r Rect) Center() Point {
	return Point{
		X: (r.X0 + r.X1) / 2,
		Y: (r.Y0 + r.Y1) / 2,
	}
}

// Contains checks if a point is inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X0 && p.X <= r.X1 &&
		p.Y >= r.Y0 && p.Y <= r.Y1
}

// Intersects checks if two rectangles intersect.
func (r Rect) Intersects(other Rect) bool {
	return !(r.X1 < other.X0 ||
		r.X0 > other.X1 ||
		r.Y1 < other.Y0 ||
		r.Y0 > other.Y1)
}

// Union returns the smallest rectangle covering both r and other.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		X0: math.Min(r.X0, other.X0),
		Y0: math.Min(r.Y0, other.Y0),
		X1: math.Max(r.X1, other.X1),
		Y1: math.Max(r.Y1, other.Y1),
	}
}

// IsEmpty returns true if the rectangle has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// IsValid returns true if the corners are ordered and the rectangle has
// positive dimensions.
func (r Rect) IsValid() bool {
	return r.Width() > 0 && r.Height() > 0
}

// RGB is a device RGB color with components in [0, 1].
type RGB struct {
	R, G, B float64
}
