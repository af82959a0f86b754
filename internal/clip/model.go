package clip

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/inamate/clipcontrol/internal/geometry"
)

var ErrInvalidShape = errors.New("invalid shape")

// Shape is the manipulable clip rectangle. Position and size are measured
// in shape-local Cartesian units; (X, Y) is the top-left corner.
type Shape struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
	ScaleX   float64 `json:"scaleX"`
	ScaleY   float64 `json:"scaleY"`
	TransX   float64 `json:"transX"`
	TransY   float64 `json:"transY"`
}

// Props is the initial state pushed by the host.
type Props struct {
	Shape
	LiveWindowWidth  float64 `json:"liveWindowWidth"`
	LiveWindowHeight float64 `json:"liveWindowHeight"`
}

// Region is a crop result: the four corners of the crop rectangle in NDC
// relative to the uncropped clip. Corner 1 is top-left, 2 bottom-left,
// 3 bottom-right and 4 top-right.
type Region struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
	X3 float64 `json:"x3"`
	Y3 float64 `json:"y3"`
	X4 float64 `json:"x4"`
	Y4 float64 `json:"y4"`
}

// Points returns the region corners in order.
func (r Region) Points() [4]geometry.Point {
	return [4]geometry.Point{
		{X: r.X1, Y: r.Y1},
		{X: r.X2, Y: r.Y2},
		{X: r.X3, Y: r.Y3},
		{X: r.X4, Y: r.Y4},
	}
}

// RegionFromPoints builds a Region from corners in order.
func RegionFromPoints(p [4]geometry.Point) Region {
	return Region{
		X1: p[0].X, Y1: p[0].Y,
		X2: p[1].X, Y2: p[1].Y,
		X3: p[2].X, Y3: p[2].Y,
		X4: p[3].X, Y4: p[3].Y,
	}
}

// Validate checks the shape invariants: positive size, non-zero scale and
// finite values.
func (s Shape) Validate() error {
	for _, v := range []float64{s.X, s.Y, s.Width, s.Height, s.Rotation, s.ScaleX, s.ScaleY, s.TransX, s.TransY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite value %v: %w", v, ErrInvalidShape)
		}
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("size %gx%g: %w", s.Width, s.Height, ErrInvalidShape)
	}
	if err := s.Transform().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidShape, err)
	}
	return nil
}

// Transform returns the placement part of the shape.
func (s Shape) Transform() geometry.Transform {
	return geometry.Transform{
		Rotation: s.Rotation,
		ScaleX:   s.ScaleX,
		ScaleY:   s.ScaleY,
		TransX:   s.TransX,
		TransY:   s.TransY,
	}
}

// SetTransform replaces the placement part of the shape.
func (s *Shape) SetTransform(t geometry.Transform) {
	s.Rotation = t.Rotation
	s.ScaleX = t.ScaleX
	s.ScaleY = t.ScaleY
	s.TransX = t.TransX
	s.TransY = t.TransY
}

// Rect returns the unscaled local rectangle of the shape.
func (s Shape) Rect() geometry.Rect {
	return geometry.Rect{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height}
}

// SetRect replaces the position and size of the shape.
func (s *Shape) SetRect(r geometry.Rect) {
	s.X = r.X
	s.Y = r.Y
	s.Width = r.Width
	s.Height = r.Height
}

// Validate checks the shape and the live window size.
func (p Props) Validate() error {
	if err := p.Shape.Validate(); err != nil {
		return err
	}
	if p.LiveWindowWidth < 0 || p.LiveWindowHeight < 0 {
		return fmt.Errorf("live window %gx%g: %w", p.LiveWindowWidth, p.LiveWindowHeight, ErrInvalidShape)
	}
	return nil
}

// ParseProps decodes and validates host props from JSON.
func ParseProps(data []byte) (Props, error) {
	var p Props
	if err := json.Unmarshal(data, &p); err != nil {
		return Props{}, fmt.Errorf("decode props: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Props{}, err
	}
	return p, nil
}
