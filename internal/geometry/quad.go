package geometry

import (
	"image"
	"math"
)

// Rect is an axis-aligned rectangle in shape-local Cartesian coordinates.
// (X, Y) is the top-left corner; the rectangle spans [X, X+Width] horizontally
// and [Y-Height, Y] vertically.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// IsEmpty checks if the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Left, Right, Top and Bottom return the edge coordinates.
func (r Rect) Left() float64   { return r.X }
func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Bottom() float64 { return r.Y - r.Height }

// Center returns the center point of the rect.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y - r.Height/2}
}

// Corners returns the corners in the order top-left, bottom-left,
// bottom-right, top-right.
func (r Rect) Corners() [4]Point {
	return [4]Point{
		{X: r.X, Y: r.Y},
		{X: r.X, Y: r.Y - r.Height},
		{X: r.X + r.Width, Y: r.Y - r.Height},
		{X: r.X + r.Width, Y: r.Y},
	}
}

// Viewport returns r as an NDC reference viewport.
func (r Rect) Viewport() Viewport {
	return Viewport{MinX: r.X, MinY: r.Y - r.Height, MaxX: r.X + r.Width, MaxY: r.Y}
}

// Quad is a quadrilateral in screen coordinates.
type Quad [4]Point

// MapRect maps every corner of the local rect r through t into screen space.
func MapRect(canvasWidth, canvasHeight float64, r Rect, t Transform) Quad {
	var q Quad
	for i, c := range r.Corners() {
		q[i] = TransformAndMapToScreen(canvasWidth, canvasHeight, c, t)
	}
	return q
}

// ScreenRect returns the axis-aligned screen quad with top-left corner
// (x, y), in the same corner order as Rect.Corners.
func ScreenRect(x, y, width, height float64) Quad {
	return Quad{
		{X: x, Y: y},
		{X: x, Y: y + height},
		{X: x + width, Y: y + height},
		{X: x + width, Y: y},
	}
}

// Centroid returns the average of the four vertices.
func (q Quad) Centroid() Point {
	var c Point
	for _, p := range q {
		c.X += p.X
		c.Y += p.Y
	}
	return Point{X: c.X / 4, Y: c.Y / 4}
}

// Bounds returns the smallest integer rectangle containing the quad.
func (q Quad) Bounds() image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range q {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
}

// Points returns the vertices as a slice.
func (q Quad) Points() []Point {
	return q[:]
}
