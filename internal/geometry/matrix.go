package geometry

import (
	"errors"
	"math"
)

// ErrDegenerateTransform is returned when a transform cannot be inverted,
// which happens when one of its scale components is zero.
var ErrDegenerateTransform = errors.New("degenerate transform")

// Matrix is a 3x3 homogeneous 2D transform, row-major:
//
//	| m[0][0] m[0][1] m[0][2] |   | a c e |
//	| m[1][0] m[1][1] m[1][2] | = | b d f |
//	| m[2][0] m[2][1] m[2][2] |   | 0 0 1 |
//
// Points are column vectors (x, y, 1), so m.Multiply(n) applies n first.
type Matrix [3][3]float64

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// Translate returns a translation matrix.
func Translate(tx, ty float64) Matrix {
	return Matrix{
		{1, 0, tx},
		{0, 1, ty},
		{0, 0, 1},
	}
}

// Scale returns a scale matrix.
func Scale(sx, sy float64) Matrix {
	return Matrix{
		{sx, 0, 0},
		{0, sy, 0},
		{0, 0, 1},
	}
}

// Rotate returns a counter-clockwise rotation matrix (angle in radians).
func Rotate(radians float64) Matrix {
	cos := math.Cos(radians)
	sin := math.Sin(radians)
	return Matrix{
		{cos, -sin, 0},
		{sin, cos, 0},
		{0, 0, 1},
	}
}

// RotateDegrees returns a rotation matrix (angle in degrees).
func RotateDegrees(degrees float64) Matrix {
	return Rotate(DegreesToRadians(degrees))
}

// DegreesToRadians converts an angle in degrees to radians.
func DegreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Multiply returns m * other. The result applies other first, then m.
func (m Matrix) Multiply(other Matrix) Matrix {
	var r Matrix
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][0]*other[0][j] + m[i][1]*other[1][j] + m[i][2]*other[2][j]
		}
	}
	return r
}

// Apply multiplies the homogeneous point (p.X, p.Y, 1) by the matrix.
func (m Matrix) Apply(p Point) Point {
	x := m[0][0]*p.X + m[0][1]*p.Y + m[0][2]
	y := m[1][0]*p.X + m[1][1]*p.Y + m[1][2]
	w := m[2][0]*p.X + m[2][1]*p.Y + m[2][2]
	if w != 1 && w != 0 {
		x /= w
		y /= w
	}
	return Point{X: x, Y: y}
}

// Determinant returns the determinant of the full 3x3 matrix.
func (m Matrix) Determinant() float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Invert returns the inverse of the matrix using the adjugate.
// It fails with ErrDegenerateTransform when the matrix is singular.
func (m Matrix) Invert() (Matrix, error) {
	det := m.Determinant()
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return Matrix{}, ErrDegenerateTransform
	}

	invDet := 1.0 / det
	var r Matrix
	r[0][0] = (m[1][1]*m[2][2] - m[1][2]*m[2][1]) * invDet
	r[0][1] = (m[0][2]*m[2][1] - m[0][1]*m[2][2]) * invDet
	r[0][2] = (m[0][1]*m[1][2] - m[0][2]*m[1][1]) * invDet
	r[1][0] = (m[1][2]*m[2][0] - m[1][0]*m[2][2]) * invDet
	r[1][1] = (m[0][0]*m[2][2] - m[0][2]*m[2][0]) * invDet
	r[1][2] = (m[0][2]*m[1][0] - m[0][0]*m[1][2]) * invDet
	r[2][0] = (m[1][0]*m[2][1] - m[1][1]*m[2][0]) * invDet
	r[2][1] = (m[0][1]*m[2][0] - m[0][0]*m[2][1]) * invDet
	r[2][2] = (m[0][0]*m[1][1] - m[0][1]*m[1][0]) * invDet
	return r, nil
}

// ToSlice returns the affine part as [a, b, c, d, e, f], the argument order
// of CanvasRenderingContext2D.setTransform.
func (m Matrix) ToSlice() []float64 {
	return []float64{m[0][0], m[1][0], m[0][1], m[1][1], m[0][2], m[1][2]}
}

// IsIdentity checks if this is the identity matrix (within epsilon).
func (m Matrix) IsIdentity() bool {
	const eps = 1e-10
	id := Identity()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(m[i][j]-id[i][j]) >= eps {
				return false
			}
		}
	}
	return true
}
