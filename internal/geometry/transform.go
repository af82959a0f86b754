package geometry

import "fmt"

// Transform is the placement of a clip inside the viewport. It is applied
// to shape-local Cartesian coordinates as T(transX, transY) · S(scaleX,
// scaleY) · R(rotation): rotate first, then scale, then translate.
type Transform struct {
	Rotation float64 `json:"rotation"` // degrees, counter-clockwise
	ScaleX   float64 `json:"scaleX"`
	ScaleY   float64 `json:"scaleY"`
	TransX   float64 `json:"transX"`
	TransY   float64 `json:"transY"`
}

// IdentityTransform returns the transform that leaves points unchanged.
func IdentityTransform() Transform {
	return Transform{ScaleX: 1, ScaleY: 1}
}

// Validate reports ErrDegenerateTransform when a scale component is zero.
func (t Transform) Validate() error {
	if t.ScaleX == 0 || t.ScaleY == 0 {
		return fmt.Errorf("scale (%g, %g): %w", t.ScaleX, t.ScaleY, ErrDegenerateTransform)
	}
	return nil
}

// Matrix returns the composed homogeneous matrix of t.
func (t Transform) Matrix() Matrix {
	return ComposeTransform(t.Rotation, t.ScaleX, t.ScaleY, t.TransX, t.TransY)
}

// Inverse returns the inverse matrix of t.
func (t Transform) Inverse() (Matrix, error) {
	if err := t.Validate(); err != nil {
		return Matrix{}, err
	}
	return InvertTransform(t.Matrix())
}

// ComposeTransform builds M = T(transX, transY) · S(scaleX, scaleY) · R(rotationDeg).
// The order is fixed; every anchor position depends on it.
func ComposeTransform(rotationDeg, scaleX, scaleY, transX, transY float64) Matrix {
	return Translate(transX, transY).Multiply(Scale(scaleX, scaleY).Multiply(RotateDegrees(rotationDeg)))
}

// ApplyTransform maps p through m.
func ApplyTransform(p Point, m Matrix) Point {
	return m.Apply(p)
}

// InvertTransform returns m⁻¹.
func InvertTransform(m Matrix) (Matrix, error) {
	inv, err := m.Invert()
	if err != nil {
		return Matrix{}, fmt.Errorf("invert transform: %w", err)
	}
	return inv, nil
}

// RotatePoint rotates p about the origin by deg degrees.
func RotatePoint(p Point, deg float64) Point {
	return RotateDegrees(deg).Apply(p)
}

// TransformAndMapToScreen applies t to the shape-local point p and converts
// the result to canvas screen coordinates.
func TransformAndMapToScreen(canvasWidth, canvasHeight float64, p Point, t Transform) Point {
	c := t.Matrix().Apply(p)
	return CartesianToScreen(canvasWidth, canvasHeight, c.X, c.Y)
}

// TransformAndMapToCartesian is the inverse of TransformAndMapToScreen: it
// converts a screen point to Cartesian space and maps it back through t⁻¹
// into shape-local coordinates.
func TransformAndMapToCartesian(canvasWidth, canvasHeight float64, screen Point, t Transform) (Point, error) {
	inv, err := t.Inverse()
	if err != nil {
		return Point{}, err
	}
	c := ScreenToCartesian(canvasWidth, canvasHeight, screen.X, screen.Y)
	return inv.Apply(c), nil
}
