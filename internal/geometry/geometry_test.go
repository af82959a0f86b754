package geometry

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func nearPoint(p, q Point) bool {
	return near(p.X, q.X) && near(p.Y, q.Y)
}

func TestScreenCartesianRoundTrip(t *testing.T) {
	canvases := [][2]float64{{1280, 720}, {640, 480}, {1, 1}, {333, 777}}
	points := []Point{{0, 0}, {10, 20}, {-5, 1e4}, {639.5, 0.25}, {1e-7, -3}}
	for _, c := range canvases {
		for _, p := range points {
			t.Run(fmt.Sprintf("%vx%v/%v", c[0], c[1], p), func(t *testing.T) {
				cart := ScreenToCartesian(c[0], c[1], p.X, p.Y)
				back := CartesianToScreen(c[0], c[1], cart.X, cart.Y)
				if !nearPoint(back, p) {
					t.Errorf("round trip %v -> %v -> %v", p, cart, back)
				}
			})
		}
	}
}

func TestScreenToCartesian(t *testing.T) {
	got := ScreenToCartesian(1280, 720, 0, 0)
	if !nearPoint(got, Point{-640, 360}) {
		t.Errorf("top-left = %v, want (-640, 360)", got)
	}
	got = ScreenToCartesian(1280, 720, 640, 360)
	if !nearPoint(got, Point{0, 0}) {
		t.Errorf("center = %v, want origin", got)
	}
}

func TestNDC(t *testing.T) {
	vp := Viewport{MinX: -50, MinY: -50, MaxX: 50, MaxY: 50}
	tests := []struct {
		in, want Point
	}{
		{Point{-50, -50}, Point{-1, -1}},
		{Point{50, 50}, Point{1, 1}},
		{Point{0, 0}, Point{0, 0}},
		{Point{-25, 25}, Point{-0.5, 0.5}},
	}
	for _, tc := range tests {
		got, err := CartesianToNDC(tc.in, vp)
		if err != nil {
			t.Fatal(err)
		}
		if !nearPoint(got, tc.want) {
			t.Errorf("CartesianToNDC(%v) = %v, want %v", tc.in, got, tc.want)
		}
		back, err := NDCToCartesian(got, vp)
		if err != nil {
			t.Fatal(err)
		}
		if !nearPoint(back, tc.in) {
			t.Errorf("NDCToCartesian(%v) = %v, want %v", got, back, tc.in)
		}
	}
}

func TestNDCDegenerateViewport(t *testing.T) {
	vps := []Viewport{
		{MinX: 1, MinY: 0, MaxX: 1, MaxY: 10},
		{MinX: 0, MinY: 3, MaxX: 10, MaxY: 3},
	}
	for _, vp := range vps {
		if _, err := CartesianToNDC(Point{}, vp); !errors.Is(err, ErrDegenerateViewport) {
			t.Errorf("CartesianToNDC(%v) error = %v", vp, err)
		}
		if _, err := NDCToCartesian(Point{}, vp); !errors.Is(err, ErrDegenerateViewport) {
			t.Errorf("NDCToCartesian(%v) error = %v", vp, err)
		}
	}
}

func TestComposeIdentity(t *testing.T) {
	m := ComposeTransform(0, 1, 1, 0, 0)
	if !m.IsIdentity() {
		t.Fatalf("ComposeTransform(0,1,1,0,0) = %v", m)
	}
	for _, p := range []Point{{0, 0}, {1, 2}, {-300, 4.5}} {
		if got := ApplyTransform(p, m); !nearPoint(got, p) {
			t.Errorf("identity moved %v to %v", p, got)
		}
	}
}

func TestComposeOrder(t *testing.T) {
	// Rotate (1,0) by 90° to (0,1), scale y by 2 to (0,2), translate to (10,12).
	m := ComposeTransform(90, 3, 2, 10, 10)
	got := m.Apply(Point{1, 0})
	if !nearPoint(got, Point{10, 12}) {
		t.Errorf("T·S·R(1,0) = %v, want (10, 12)", got)
	}
}

func TestRotationComposition(t *testing.T) {
	angles := []float64{0, 15, 90, 135, 270, 359, -45, 720}
	p := Point{3, -7}
	for _, a := range angles {
		for _, b := range angles {
			twice := RotatePoint(RotatePoint(p, a), b)
			once := RotatePoint(p, math.Mod(a+b, 360))
			if math.Abs(twice.X-once.X) > 1e-9 || math.Abs(twice.Y-once.Y) > 1e-9 {
				t.Errorf("rotate %v then %v = %v, rotate %v = %v", a, b, twice, a+b, once)
			}
		}
	}
}

func TestInvert(t *testing.T) {
	transforms := []Transform{
		IdentityTransform(),
		{Rotation: 30, ScaleX: 2, ScaleY: 0.5, TransX: 100, TransY: -40},
		{Rotation: -123.4, ScaleX: -1, ScaleY: 1, TransX: 0.5, TransY: 7},
		{Rotation: 720, ScaleX: 0.25, ScaleY: -0.25, TransX: -480, TransY: 270},
	}
	for _, tr := range transforms {
		inv, err := tr.Inverse()
		if err != nil {
			t.Fatalf("%+v: %v", tr, err)
		}
		if prod := tr.Matrix().Multiply(inv); !prod.IsIdentity() {
			t.Errorf("%+v: M·M⁻¹ = %v", tr, prod)
		}
	}
}

func TestInvertDegenerate(t *testing.T) {
	for _, tr := range []Transform{
		{ScaleX: 0, ScaleY: 1},
		{ScaleX: 1, ScaleY: 0},
	} {
		if _, err := tr.Inverse(); !errors.Is(err, ErrDegenerateTransform) {
			t.Errorf("%+v: error = %v, want ErrDegenerateTransform", tr, err)
		}
		if _, err := InvertTransform(tr.Matrix()); !errors.Is(err, ErrDegenerateTransform) {
			t.Errorf("%+v: InvertTransform error = %v", tr, err)
		}
		if _, err := TransformAndMapToCartesian(100, 100, Point{}, tr); !errors.Is(err, ErrDegenerateTransform) {
			t.Errorf("%+v: TransformAndMapToCartesian error = %v", tr, err)
		}
	}
}

func TestTransformScreenRoundTrip(t *testing.T) {
	tr := Transform{Rotation: 47, ScaleX: 1.5, ScaleY: -0.75, TransX: -20, TransY: 33}
	for _, p := range []Point{{0, 0}, {-50, 50}, {123.25, -9}} {
		s := TransformAndMapToScreen(1280, 720, p, tr)
		back, err := TransformAndMapToCartesian(1280, 720, s, tr)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(back.X-p.X) > 1e-9 || math.Abs(back.Y-p.Y) > 1e-9 {
			t.Errorf("round trip %v -> %v -> %v", p, s, back)
		}
	}
}

func TestAngleDegrees(t *testing.T) {
	tests := []struct {
		x, y, want float64
	}{
		{1, 0, 0},
		{0, 1, 90},
		{-1, 0, 180},
		{0, -1, 270},
		{1, -1, 315},
	}
	for _, tc := range tests {
		if got := AngleDegrees(tc.x, tc.y); !near(got, tc.want) {
			t.Errorf("AngleDegrees(%v, %v) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestMapRect(t *testing.T) {
	r := Rect{X: -50, Y: 50, Width: 100, Height: 100}
	q := MapRect(200, 200, r, IdentityTransform())
	want := Quad{{50, 50}, {50, 150}, {150, 150}, {150, 50}}
	for i := range q {
		if !nearPoint(q[i], want[i]) {
			t.Errorf("corner %d = %v, want %v", i, q[i], want[i])
		}
	}
	if c := q.Centroid(); !nearPoint(c, Point{100, 100}) {
		t.Errorf("centroid = %v", c)
	}
	if b := q.Bounds(); b.Min.X != 50 || b.Min.Y != 50 || b.Max.X != 150 || b.Max.Y != 150 {
		t.Errorf("bounds = %v", b)
	}
}

func TestMatrixToSlice(t *testing.T) {
	m := Translate(5, 6).Multiply(Scale(2, 3))
	got := m.ToSlice()
	want := []float64{2, 0, 0, 3, 5, 6}
	for i := range want {
		if !near(got[i], want[i]) {
			t.Fatalf("ToSlice() = %v, want %v", got, want)
		}
	}
}
