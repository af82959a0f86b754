package engine

import (
	"encoding/json"
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/inamate/clipcontrol/internal/anchor"
	"github.com/inamate/clipcontrol/internal/clip"
	"github.com/inamate/clipcontrol/internal/geometry"
	"github.com/inamate/clipcontrol/internal/hittest"
)

const tol = 1e-6

type recorder struct {
	transforms  []geometry.Transform
	regions     []clip.Region
	cropClicked int
}

func (r *recorder) DoTransform(t geometry.Transform) { r.transforms = append(r.transforms, t) }
func (r *recorder) DoCrop(reg clip.Region)           { r.regions = append(r.regions, reg) }
func (r *recorder) OnCropClicked()                   { r.cropClicked++ }

func (r *recorder) last(t *testing.T) geometry.Transform {
	t.Helper()
	if len(r.transforms) == 0 {
		t.Fatal("DoTransform was never called")
	}
	return r.transforms[len(r.transforms)-1]
}

func props(s clip.Shape) clip.Props {
	return clip.Props{Shape: s, LiveWindowWidth: 400, LiveWindowHeight: 400}
}

func centred() clip.Shape {
	return clip.Shape{X: -50, Y: 50, Width: 100, Height: 100, ScaleX: 1, ScaleY: 1}
}

func newWidget(t *testing.T, s clip.Shape, opts ...Option) (*Widget, *recorder) {
	t.Helper()
	rec := &recorder{}
	opts = append([]Option{WithRand(rand.New(rand.NewPCG(7, 11))), WithID("clip_test")}, opts...)
	w, err := New(props(s), rec, opts...)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.UpdateCanvasInfo(400, 400, 0, 0); err != nil {
		t.Fatal(err)
	}
	return w, rec
}

func center(t *testing.T, w *Widget, id anchor.ID) geometry.Point {
	t.Helper()
	q, ok := w.AnchorQuad(id)
	if !ok {
		t.Fatalf("anchor %s not present in menu %s", id, w.MenuState())
	}
	return q.Centroid()
}

func pointer(t *testing.T, w *Widget, kind PointerKind, p geometry.Point) {
	t.Helper()
	if err := w.HandlePointer(PointerEvent{Kind: kind, ClientX: p.X, ClientY: p.Y}); err != nil {
		t.Fatalf("%s at %v: %v", kind, p, err)
	}
}

func drag(t *testing.T, w *Widget, from, to geometry.Point) {
	t.Helper()
	pointer(t, w, PointerDown, from)
	pointer(t, w, PointerMove, to)
	pointer(t, w, PointerUp, to)
}

func click(t *testing.T, w *Widget, id anchor.ID) {
	t.Helper()
	p := center(t, w, id)
	pointer(t, w, PointerDown, p)
	pointer(t, w, PointerUp, p)
	pointer(t, w, PointerClick, p)
}

func TestTranslateScenario(t *testing.T) {
	w, rec := newWidget(t, clip.Shape{X: 0, Y: 0, Width: 100, Height: 100, ScaleX: 1, ScaleY: 1})
	p := center(t, w, anchor.Translation)

	pointer(t, w, PointerDown, p)
	if w.State() != Translating {
		t.Fatalf("state after down = %s", w.State())
	}
	pointer(t, w, PointerMove, p.Add(geometry.Point{X: 30, Y: -20}))
	pointer(t, w, PointerUp, p.Add(geometry.Point{X: 30, Y: -20}))

	got := rec.last(t)
	if math.Abs(got.TransX-30) > tol || math.Abs(got.TransY-20) > tol {
		t.Errorf("DoTransform(%+v), want transX=30 transY=20", got)
	}
	if w.State() != Idle {
		t.Errorf("state after up = %s", w.State())
	}
}

func TestRotateScenario(t *testing.T) {
	w, rec := newWidget(t, clip.Shape{X: 0, Y: 0, Width: 100, Height: 100, ScaleX: 1, ScaleY: 1})
	h := center(t, w, anchor.Rotation)

	// Rotate the pointer 90° about the untranslated origin.
	c := geometry.ScreenToCartesian(400, 400, h.X, h.Y)
	c = geometry.RotatePoint(c, 90)
	to := geometry.CartesianToScreen(400, 400, c.X, c.Y)

	pointer(t, w, PointerDown, h)
	if w.State() != Rotating {
		t.Fatalf("state after down = %s", w.State())
	}
	pointer(t, w, PointerMove, to)
	pointer(t, w, PointerUp, to)

	if got := rec.last(t).Rotation; math.Abs(got-90) > tol {
		t.Errorf("rotation = %v, want 90", got)
	}
}

func TestRotateUnbounded(t *testing.T) {
	s := centred()
	s.Rotation = 350
	w, rec := newWidget(t, s)
	h := center(t, w, anchor.Rotation)
	c := geometry.RotatePoint(geometry.ScreenToCartesian(400, 400, h.X, h.Y), 30)
	drag(t, w, h, geometry.CartesianToScreen(400, 400, c.X, c.Y))

	if got := rec.last(t).Rotation; math.Abs(got-380) > tol {
		t.Errorf("rotation = %v, want 380", got)
	}
}

func TestRotateContinuousAcrossAxis(t *testing.T) {
	w, rec := newWidget(t, centred())
	h := center(t, w, anchor.Rotation)
	start := geometry.ScreenToCartesian(400, 400, h.X, h.Y)

	// Sweep clockwise from the top through the +x axis to the bottom.
	pointer(t, w, PointerDown, h)
	for k := 1; k <= 6; k++ {
		c := geometry.RotatePoint(start, -30*float64(k))
		pointer(t, w, PointerMove, geometry.CartesianToScreen(400, 400, c.X, c.Y))
	}
	pointer(t, w, PointerUp, h)

	prev := 0.0
	for i, tr := range rec.transforms {
		if d := tr.Rotation - prev; math.Abs(d+30) > 1e-6 {
			t.Errorf("move %d: rotation %v -> %v, want a -30 step", i+1, prev, tr.Rotation)
		}
		prev = tr.Rotation
	}
	if math.Abs(prev+180) > 1e-6 {
		t.Errorf("final rotation = %v, want -180", prev)
	}
}

func TestCanvasOffset(t *testing.T) {
	w, rec := newWidget(t, centred())
	if err := w.UpdateCanvasInfo(400, 400, 100, 50); err != nil {
		t.Fatal(err)
	}
	p := center(t, w, anchor.Translation).Add(geometry.Point{X: 100, Y: 50})
	drag(t, w, p, p.Add(geometry.Point{X: -10, Y: 10}))

	got := rec.last(t)
	if math.Abs(got.TransX+10) > tol || math.Abs(got.TransY+10) > tol {
		t.Errorf("DoTransform(%+v), want (-10, -10)", got)
	}
}

func TestScaleCorners(t *testing.T) {
	tests := []struct {
		corner         anchor.ID
		delta          geometry.Point
		wantSX, wantSY float64
	}{
		{anchor.RightBottom, geometry.Point{X: 10, Y: 10}, 1.2, 1.2},
		{anchor.LeftTop, geometry.Point{X: 10, Y: 10}, 0.8, 0.8},
		{anchor.RightTop, geometry.Point{X: 10, Y: -5}, 1.2, 1.1},
		{anchor.LeftBottom, geometry.Point{X: -5, Y: 0}, 1.1, 1},
	}
	for _, tc := range tests {
		t.Run(string(tc.corner), func(t *testing.T) {
			w, rec := newWidget(t, centred())
			p := center(t, w, tc.corner)
			pointer(t, w, PointerDown, p)
			if w.State() != Scaling {
				t.Fatalf("state after down = %s", w.State())
			}
			pointer(t, w, PointerMove, p.Add(tc.delta))
			pointer(t, w, PointerUp, p.Add(tc.delta))

			got := rec.last(t)
			if math.Abs(got.ScaleX-tc.wantSX) > tol || math.Abs(got.ScaleY-tc.wantSY) > tol {
				t.Errorf("scale = (%v, %v), want (%v, %v)", got.ScaleX, got.ScaleY, tc.wantSX, tc.wantSY)
			}
		})
	}
}

func TestScaleNeverZero(t *testing.T) {
	w, rec := newWidget(t, centred())
	p := center(t, w, anchor.RightBottom)
	drag(t, w, p, p.Add(geometry.Point{X: -1e6, Y: -1e6}))

	got := rec.last(t)
	if got.ScaleX <= 0 || got.ScaleY <= 0 {
		t.Fatalf("scale collapsed to (%v, %v)", got.ScaleX, got.ScaleY)
	}
	if _, err := got.Inverse(); err != nil {
		t.Errorf("degenerate transform after drag: %v", err)
	}
}

func TestScaleFlippedShape(t *testing.T) {
	s := centred()
	s.ScaleX = -1
	w, rec := newWidget(t, s)
	// With a horizontal flip the local right edge is drawn on the left.
	q, _ := w.AnchorQuad(anchor.RightBottom)
	p := q.Centroid()
	if p.X >= 200 {
		t.Fatalf("flipped rightBottom drawn at %v", p)
	}
	drag(t, w, p, p.Add(geometry.Point{X: -10, Y: 0}))
	if got := rec.last(t).ScaleX; math.Abs(got+1.2) > tol {
		t.Errorf("scaleX = %v, want -1.2", got)
	}
}

func TestScaleKeepAspect(t *testing.T) {
	w, rec := newWidget(t, centred())
	w.SetKeepAspectRatio(true)
	p := center(t, w, anchor.RightBottom)
	drag(t, w, p, p.Add(geometry.Point{X: 30, Y: 0}))

	got := rec.last(t)
	want := math.Hypot(160, 100) / math.Hypot(100, 100)
	if math.Abs(got.ScaleX-want) > tol || math.Abs(got.ScaleY-want) > tol {
		t.Errorf("scale = (%v, %v), want %v on both axes", got.ScaleX, got.ScaleY, want)
	}
}

func TestCropToNDCScenario(t *testing.T) {
	w, rec := newWidget(t, centred())

	click(t, w, anchor.Crop)
	if rec.cropClicked != 1 {
		t.Fatalf("OnCropClicked called %d times", rec.cropClicked)
	}
	if w.MenuState() != anchor.MenuLevel2Crop {
		t.Fatalf("menu = %s, want level2Crop", w.MenuState())
	}

	p := center(t, w, anchor.LeftTop)
	pointer(t, w, PointerDown, p)
	if w.State() != Cropping {
		t.Fatalf("state after down = %s", w.State())
	}
	pointer(t, w, PointerMove, p.Add(geometry.Point{X: 25, Y: 25}))
	pointer(t, w, PointerUp, p.Add(geometry.Point{X: 25, Y: 25}))

	p = center(t, w, anchor.RightBottom)
	drag(t, w, p, p.Add(geometry.Point{X: -25, Y: -25}))

	crop := w.CropRect()
	if math.Abs(crop.X+25) > tol || math.Abs(crop.Y-25) > tol || math.Abs(crop.Width-50) > tol || math.Abs(crop.Height-50) > tol {
		t.Fatalf("crop rect = %+v, want {-25 25 50 50}", crop)
	}
	if len(rec.transforms) != 0 {
		t.Errorf("crop drag called DoTransform %d times", len(rec.transforms))
	}

	click(t, w, anchor.Done)
	if len(rec.regions) != 1 {
		t.Fatalf("DoCrop called %d times", len(rec.regions))
	}
	want := [4]geometry.Point{{X: -0.5, Y: 0.5}, {X: -0.5, Y: -0.5}, {X: 0.5, Y: -0.5}, {X: 0.5, Y: 0.5}}
	for i, p := range rec.regions[0].Points() {
		if p.Sub(want[i]).Len() > tol {
			t.Errorf("corner %d = %v, want %v", i+1, p, want[i])
		}
	}
	if w.MenuState() != anchor.MenuLevel1 {
		t.Errorf("menu after done = %s", w.MenuState())
	}
	if s := w.Shape(); math.Abs(s.Width-50) > tol || math.Abs(s.X+25) > tol {
		t.Errorf("shape after done = %+v", s)
	}
}

func TestCropClamping(t *testing.T) {
	moves := []geometry.Point{
		{X: 1e6, Y: 1e6}, {X: -1e6, Y: -1e6}, {X: 1e6, Y: -1e6}, {X: -1e6, Y: 1e6},
		{X: 0, Y: 1e6}, {X: 1e6, Y: 0},
	}
	handles := []anchor.ID{
		anchor.LeftTop, anchor.LeftBottom, anchor.RightBottom, anchor.RightTop,
		anchor.TopCenter, anchor.BottomCenter, anchor.LeftCenter, anchor.RightCenter,
	}
	for _, h := range handles {
		for _, m := range moves {
			w, _ := newWidget(t, centred())
			click(t, w, anchor.Crop)
			p := center(t, w, h)
			drag(t, w, p, p.Add(m))

			c, bg := w.CropRect(), w.Background()
			if c.Width <= 0 || c.Width > bg.Width || c.Height <= 0 || c.Height > bg.Height {
				t.Errorf("%s by %v: crop %+v outside (0, %vx%v]", h, m, c, bg.Width, bg.Height)
			}
			if c.Left() < bg.Left() || c.Right() > bg.Right() || c.Top() > bg.Top() || c.Bottom() < bg.Bottom() {
				t.Errorf("%s by %v: crop %+v escapes background %+v", h, m, c, bg)
			}
		}
	}
}

func TestCropRotatedShape(t *testing.T) {
	s := centred()
	s.Rotation = 90
	w, _ := newWidget(t, s)
	click(t, w, anchor.Crop)

	// Rotated 90°, the local top edge faces left on screen.
	p := center(t, w, anchor.TopCenter)
	drag(t, w, p, p.Add(geometry.Point{X: 20, Y: 0}))

	c := w.CropRect()
	if math.Abs(c.Height-80) > tol || math.Abs(c.Width-100) > tol {
		t.Errorf("crop = %+v, want height 80", c)
	}
}

func TestCropBack(t *testing.T) {
	w, rec := newWidget(t, centred())
	click(t, w, anchor.Crop)
	p := center(t, w, anchor.LeftTop)
	drag(t, w, p, p.Add(geometry.Point{X: 30, Y: 30}))
	click(t, w, anchor.Back)

	if w.MenuState() != anchor.MenuLevel1 {
		t.Errorf("menu after back = %s", w.MenuState())
	}
	if w.CropRect() != w.Shape().Rect() {
		t.Errorf("crop after back = %+v, want %+v", w.CropRect(), w.Shape().Rect())
	}
	if len(rec.regions) != 0 {
		t.Error("back reported a crop")
	}
}

// cropInAndConfirm crops 30px off the left and top edges and confirms.
func cropInAndConfirm(t *testing.T, w *Widget) {
	t.Helper()
	click(t, w, anchor.Crop)
	p := center(t, w, anchor.LeftTop)
	drag(t, w, p, p.Add(geometry.Point{X: 30, Y: 30}))
	click(t, w, anchor.Done)
}

func TestCropBackAfterDone(t *testing.T) {
	w, rec := newWidget(t, centred())
	original := w.Background()
	cropInAndConfirm(t, w)
	if w.Shape().Rect() == original {
		t.Fatal("done did not crop the shape")
	}

	click(t, w, anchor.Crop)
	click(t, w, anchor.Back)

	if got := w.Shape().Rect(); got != original {
		t.Errorf("shape after back = %+v, want %+v", got, original)
	}
	if got := w.CropRect(); got != original {
		t.Errorf("crop after back = %+v, want %+v", got, original)
	}
	if w.Background() != original {
		t.Errorf("background changed to %+v", w.Background())
	}
	if len(rec.regions) != 1 {
		t.Errorf("reported %d crops, want 1", len(rec.regions))
	}
}

func TestPinpBackResetsCrop(t *testing.T) {
	w, _ := newWidget(t, centred())
	cropInAndConfirm(t, w)
	cropped := w.Shape().Rect()

	click(t, w, anchor.Pinp)
	click(t, w, anchor.Back)

	if w.MenuState() != anchor.MenuLevel1 {
		t.Errorf("menu after back = %s", w.MenuState())
	}
	if got := w.CropRect(); got != w.Background() {
		t.Errorf("crop after pinp back = %+v, want %+v", got, w.Background())
	}
	if got := w.Shape().Rect(); got != cropped {
		t.Errorf("shape after pinp back = %+v, want the confirmed crop %+v", got, cropped)
	}
}

func TestFlip(t *testing.T) {
	w, rec := newWidget(t, centred())
	click(t, w, anchor.FlipHorizontal)
	if got := rec.last(t); got.ScaleX != -1 || got.ScaleY != 1 {
		t.Errorf("after flipHorizontal = %+v", got)
	}
	click(t, w, anchor.FlipVertical)
	if got := rec.last(t); got.ScaleX != -1 || got.ScaleY != -1 {
		t.Errorf("after flipVertical = %+v", got)
	}
}

func TestPinp(t *testing.T) {
	tests := []struct {
		id     anchor.ID
		tx, ty float64
	}{
		{anchor.PinpLeftTop, -150, 150},
		{anchor.PinpRightTop, 150, 150},
		{anchor.PinpLeftBottom, -150, -150},
		{anchor.PinpRightBottom, 150, -150},
	}
	for _, tc := range tests {
		t.Run(string(tc.id), func(t *testing.T) {
			w, rec := newWidget(t, centred())
			click(t, w, anchor.Pinp)
			if w.MenuState() != anchor.MenuLevel2Pinp {
				t.Fatalf("menu = %s", w.MenuState())
			}
			click(t, w, tc.id)
			got := rec.last(t)
			if got.ScaleX != 0.25 || got.ScaleY != 0.25 || got.TransX != tc.tx || got.TransY != tc.ty {
				t.Errorf("DoTransform(%+v)", got)
			}
			click(t, w, anchor.Back)
			if w.MenuState() != anchor.MenuLevel1 {
				t.Errorf("menu after back = %s", w.MenuState())
			}
		})
	}
}

func TestPointerDownMiss(t *testing.T) {
	w, rec := newWidget(t, centred())
	pointer(t, w, PointerDown, geometry.Point{X: 1, Y: 1})
	pointer(t, w, PointerMove, geometry.Point{X: 50, Y: 50})
	pointer(t, w, PointerUp, geometry.Point{X: 50, Y: 50})
	if w.State() != Idle || len(rec.transforms) != 0 {
		t.Errorf("miss started a gesture: state %s, %d transforms", w.State(), len(rec.transforms))
	}
}

func TestMenuButtonStartsNoGesture(t *testing.T) {
	w, _ := newWidget(t, centred())
	pointer(t, w, PointerDown, center(t, w, anchor.Crop))
	if w.State() != Idle {
		t.Errorf("state = %s", w.State())
	}
	if w.MenuState() != anchor.MenuLevel1 {
		t.Errorf("pointer down changed menu to %s", w.MenuState())
	}
}

func TestHover(t *testing.T) {
	w, rec := newWidget(t, centred())
	pointer(t, w, PointerMove, center(t, w, anchor.Rotation))
	if w.Hover() != anchor.Rotation {
		t.Errorf("hover = %q", w.Hover())
	}
	if len(rec.transforms) != 0 {
		t.Error("hover changed the transform")
	}
}

func TestUpdateProps(t *testing.T) {
	w, _ := newWidget(t, centred())
	p := center(t, w, anchor.Translation)
	pointer(t, w, PointerDown, p)

	next := centred()
	next.TransX = 40
	if err := w.UpdateProps(props(next)); err != nil {
		t.Fatal(err)
	}
	if w.State() != Idle {
		t.Errorf("gesture survived UpdateProps: %s", w.State())
	}
	if w.Transform().TransX != 40 {
		t.Errorf("transform = %+v", w.Transform())
	}

	bad := centred()
	bad.ScaleY = 0
	if err := w.UpdateProps(props(bad)); !errors.Is(err, clip.ErrInvalidShape) {
		t.Errorf("UpdateProps(scaleY=0) = %v", err)
	}
}

func TestRegionWithRotation(t *testing.T) {
	s := centred()
	s.Rotation = 90
	w, _ := newWidget(t, s)

	plain, err := w.Region(false)
	if err != nil {
		t.Fatal(err)
	}
	if plain.X1 != -1 || plain.Y1 != 1 {
		t.Errorf("Region(false) corner 1 = (%v, %v)", plain.X1, plain.Y1)
	}
	rotated, err := w.Region(true)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(rotated.X1+1) > tol || math.Abs(rotated.Y1+1) > tol {
		t.Errorf("Region(true) corner 1 = (%v, %v), want (-1, -1)", rotated.X1, rotated.Y1)
	}
}

func TestColorExhaustion(t *testing.T) {
	_, err := New(props(centred()), nil, WithRand(constSource(42)))
	if !errors.Is(err, hittest.ErrColorExhausted) {
		t.Errorf("New() error = %v, want ErrColorExhausted", err)
	}
}

type constSource uint32

func (c constSource) Uint32() uint32 { return uint32(c) }

func TestDrawCommands(t *testing.T) {
	w, _ := newWidget(t, centred())
	ids := map[string]bool{}
	for _, c := range w.DrawCommands() {
		ids[c.ObjectID] = true
	}
	for _, id := range []string{OutlineID, "rotation", "leftTop", "crop", "flipVertical"} {
		if !ids[id] {
			t.Errorf("no draw command for %s", id)
		}
	}
	if ids[string(anchor.Translation)] {
		t.Error("translation rect should not be visible")
	}

	click(t, w, anchor.Crop)
	js, err := w.DrawCommandsJSON()
	if err != nil {
		t.Fatal(err)
	}
	var decoded []DrawCommand
	if err := json.Unmarshal([]byte(js), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded[0].ObjectID != CropMaskID || decoded[0].FillRule != "evenodd" {
		t.Errorf("first crop-mode command = %+v", decoded[0])
	}
}

func TestCanvasMatrix(t *testing.T) {
	s := centred()
	s.SetTransform(geometry.Transform{Rotation: 30, ScaleX: 2, ScaleY: 1, TransX: 5, TransY: -3})
	w, _ := newWidget(t, s)
	m := w.canvasMatrix()
	for _, p := range []geometry.Point{{X: 0, Y: 0}, {X: -50, Y: 50}, {X: 12, Y: -7}} {
		want := geometry.TransformAndMapToScreen(400, 400, p, s.Transform())
		if got := m.Apply(p); got.Sub(want).Len() > tol {
			t.Errorf("canvas matrix maps %v to %v, want %v", p, got, want)
		}
	}
}
