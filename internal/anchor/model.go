package anchor

import (
	"math"

	"github.com/inamate/clipcontrol/internal/clip"
	"github.com/inamate/clipcontrol/internal/geometry"
)

// TransformAnchors returns the handles used outside crop mode, in render
// order: translation rect, the four scale corners, then the rotation
// handle.
func TransformAnchors(s clip.Shape, l Layout) []Rect {
	ax, ay := math.Abs(s.ScaleX), math.Abs(s.ScaleY)

	gx, gy := l.TranslationGap/ax, l.TranslationGap/ay
	if s.Width <= 2*gx {
		gx = 0
	}
	if s.Height <= 2*gy {
		gy = 0
	}

	rects := make([]Rect, 0, 6)
	rects = append(rects, Rect{
		ID:     Translation,
		Frame:  FrameLocal,
		X:      s.X + gx,
		Y:      s.Y - gy,
		Width:  s.Width - 2*gx,
		Height: s.Height - 2*gy,
	})

	for i, c := range s.Rect().Corners() {
		rects = append(rects, screenSquare(Corners[i], c, l.AnchorSize))
	}

	// The handle sits above the top edge; dividing by |scaleY| keeps the
	// on-screen distance at RotateOffset and keeps it outside when flipped.
	pivot := geometry.Point{X: s.X + s.Width/2, Y: s.Y + l.RotateOffset/ay}
	rects = append(rects, screenSquare(Rotation, pivot, l.RotationAnchorSize))
	return rects
}

// CropAnchors returns the eight crop handles placed inside crop, sized so
// they appear AnchorSize pixels wide on screen.
func CropAnchors(crop geometry.Rect, s clip.Shape, l Layout) []Rect {
	w := math.Min(l.AnchorSize/math.Abs(s.ScaleX), crop.Width/3)
	h := math.Min(l.AnchorSize/math.Abs(s.ScaleY), crop.Height/3)

	left, right := crop.Left(), crop.Right()-w
	top, bottom := crop.Top(), crop.Bottom()+h
	c := crop.Center()
	midX, midY := c.X-w/2, c.Y+h/2

	at := func(id ID, x, y float64) Rect {
		return Rect{ID: id, Frame: FrameLocal, X: x, Y: y, Width: w, Height: h}
	}
	return []Rect{
		at(LeftTop, left, top),
		at(LeftBottom, left, bottom),
		at(RightBottom, right, bottom),
		at(RightTop, right, top),
		at(TopCenter, midX, top),
		at(BottomCenter, midX, bottom),
		at(LeftCenter, left, midY),
		at(RightCenter, right, midY),
	}
}

// MenuAnchors returns the buttons for state. They hang from a point left
// of the shape's top-left corner and stack downward on screen.
func MenuAnchors(state MenuState, s clip.Shape, l Layout) []Rect {
	items := MenuItems(state)
	if len(items) == 0 {
		return nil
	}
	pin := geometry.Point{X: s.X + l.MenuOffsetX/math.Abs(s.ScaleX), Y: s.Y}
	rects := make([]Rect, len(items))
	for i, id := range items {
		rects[i] = Rect{
			ID:      id,
			Frame:   FrameScreen,
			X:       pin.X,
			Y:       pin.Y,
			Width:   l.ButtonWidth,
			Height:  l.ButtonHeight,
			OffsetY: float64(i) * l.ButtonHeight,
		}
	}
	return rects
}

func screenSquare(id ID, center geometry.Point, size float64) Rect {
	return Rect{
		ID:      id,
		Frame:   FrameScreen,
		X:       center.X,
		Y:       center.Y,
		Width:   size,
		Height:  size,
		OffsetX: -size / 2,
		OffsetY: -size / 2,
	}
}
