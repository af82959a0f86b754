package geometry

import (
	"errors"
	"math"
)

// ErrDegenerateViewport is returned when an NDC mapping is requested for a
// viewport with zero width or height.
var ErrDegenerateViewport = errors.New("degenerate viewport")

// Point is a 2D point. Its coordinate system depends on context: screen space
// (origin top-left, y down), Cartesian space (origin at the canvas center,
// y up) or NDC.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Len returns the length of p as a vector.
func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// Viewport is an axis-aligned reference rectangle for NDC mapping.
type Viewport struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// Degenerate reports whether the viewport has zero extent on either axis.
func (v Viewport) Degenerate() bool {
	return v.MaxX == v.MinX || v.MaxY == v.MinY
}

// ScreenToCartesian converts a canvas-relative screen point to Cartesian
// coordinates centered on the canvas.
func ScreenToCartesian(canvasWidth, canvasHeight, sx, sy float64) Point {
	return Point{
		X: sx - canvasWidth/2,
		Y: canvasHeight/2 - sy,
	}
}

// CartesianToScreen is the inverse of ScreenToCartesian.
func CartesianToScreen(canvasWidth, canvasHeight, cx, cy float64) Point {
	return Point{
		X: cx + canvasWidth/2,
		Y: canvasHeight/2 - cy,
	}
}

// CartesianToNDC rescales p linearly so that the viewport maps to [-1,1]².
func CartesianToNDC(p Point, vp Viewport) (Point, error) {
	if vp.Degenerate() {
		return Point{}, ErrDegenerateViewport
	}
	return Point{
		X: (p.X-vp.MinX)/(vp.MaxX-vp.MinX)*2 - 1,
		Y: (p.Y-vp.MinY)/(vp.MaxY-vp.MinY)*2 - 1,
	}, nil
}

// NDCToCartesian is the inverse of CartesianToNDC.
func NDCToCartesian(p Point, vp Viewport) (Point, error) {
	if vp.Degenerate() {
		return Point{}, ErrDegenerateViewport
	}
	return Point{
		X: (p.X+1)/2*(vp.MaxX-vp.MinX) + vp.MinX,
		Y: (p.Y+1)/2*(vp.MaxY-vp.MinY) + vp.MinY,
	}, nil
}

// AngleDegrees returns the angle of the vector (x, y) from the positive
// x axis, in degrees normalised to [0, 360).
func AngleDegrees(x, y float64) float64 {
	deg := math.Atan2(y, x) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg -= 360
	}
	return deg
}
