package anchor

import (
	"github.com/inamate/clipcontrol/internal/geometry"
)

// ID names a handle or menu button. The set is closed.
type ID string

const (
	Translation ID = "translationRect"
	Background  ID = "backgroundRect"

	// Corners are shared by the scale and crop gestures; the menu state
	// decides which one applies.
	LeftTop     ID = "leftTop"
	LeftBottom  ID = "leftBottom"
	RightBottom ID = "rightBottom"
	RightTop    ID = "rightTop"

	TopCenter    ID = "topCenter"
	BottomCenter ID = "bottomCenter"
	LeftCenter   ID = "leftCenter"
	RightCenter  ID = "rightCenter"

	Rotation ID = "rotation"

	// Menu buttons
	Crop            ID = "crop"
	Pinp            ID = "pinp"
	FlipHorizontal  ID = "flipHorizontal"
	FlipVertical    ID = "flipVertical"
	Back            ID = "back"
	Done            ID = "done"
	PinpLeftTop     ID = "pinpLeftTop"
	PinpRightTop    ID = "pinpRightTop"
	PinpLeftBottom  ID = "pinpLeftBottom"
	PinpRightBottom ID = "pinpRightBottom"
)

// Corners lists the corner ids in index order 1..4.
var Corners = [4]ID{LeftTop, LeftBottom, RightBottom, RightTop}

// CornerIndex returns the 1-based index of a corner id, or 0.
func CornerIndex(id ID) int {
	for i, c := range Corners {
		if c == id {
			return i + 1
		}
	}
	return 0
}

// IsCropHandle reports whether id is one of the eight crop handles.
func IsCropHandle(id ID) bool {
	switch id {
	case LeftTop, LeftBottom, RightBottom, RightTop,
		TopCenter, BottomCenter, LeftCenter, RightCenter:
		return true
	}
	return false
}

// IsMenuButton reports whether id is a menu button.
func IsMenuButton(id ID) bool {
	switch id {
	case Crop, Pinp, FlipHorizontal, FlipVertical, Back, Done,
		PinpLeftTop, PinpRightTop, PinpLeftBottom, PinpRightBottom:
		return true
	}
	return false
}

// Frame tells how a Rect is positioned.
type Frame int

const (
	// FrameLocal rects are shape-local Cartesian rectangles with the
	// top-left corner at (X, Y). They rotate and scale with the shape.
	FrameLocal Frame = iota
	// FrameScreen rects are pinned to the shape-local point (X, Y) and
	// sized in screen pixels. OffsetX/OffsetY move the top-left corner
	// away from the pinned point in screen space.
	FrameScreen
)

// Rect is a named hit region.
type Rect struct {
	ID       ID      `json:"id"`
	Frame    Frame   `json:"frame"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	OffsetX  float64 `json:"offsetX,omitempty"`
	OffsetY  float64 `json:"offsetY,omitempty"`
	ColorKey string  `json:"colorKey,omitempty"`
}

// Local returns the local rectangle of a FrameLocal rect.
func (r Rect) Local() geometry.Rect {
	return geometry.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// ScreenQuad maps r to its screen quadrilateral on a canvas of the given
// size under t. Every anchor, visible or in the hit buffer, goes through
// this routine.
func ScreenQuad(r Rect, canvasWidth, canvasHeight float64, t geometry.Transform) geometry.Quad {
	if r.Frame == FrameScreen {
		p := geometry.TransformAndMapToScreen(canvasWidth, canvasHeight, geometry.Point{X: r.X, Y: r.Y}, t)
		return geometry.ScreenRect(p.X+r.OffsetX, p.Y+r.OffsetY, r.Width, r.Height)
	}
	return geometry.MapRect(canvasWidth, canvasHeight, r.Local(), t)
}

// Find returns the first rect with the given id.
func Find(rects []Rect, id ID) (Rect, bool) {
	for _, r := range rects {
		if r.ID == id {
			return r, true
		}
	}
	return Rect{}, false
}
