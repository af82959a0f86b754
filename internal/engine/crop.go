package engine

import (
	"math"

	"github.com/inamate/clipcontrol/internal/anchor"
	"github.com/inamate/clipcontrol/internal/geometry"
)

// cropEdges says which edges of the crop rect a handle drags.
type cropEdges struct {
	left, right, top, bottom bool
}

var cropHandles = map[anchor.ID]cropEdges{
	anchor.LeftTop:      {left: true, top: true},
	anchor.LeftBottom:   {left: true, bottom: true},
	anchor.RightBottom:  {right: true, bottom: true},
	anchor.RightTop:     {right: true, top: true},
	anchor.TopCenter:    {top: true},
	anchor.BottomCenter: {bottom: true},
	anchor.LeftCenter:   {left: true},
	anchor.RightCenter:  {right: true},
}

// cropDrag moves the dragged edges by the pointer delta measured in
// shape-local coordinates. The crop stays inside the background rect and
// its sides stay within [MinCropSize, background size].
func (w *Widget) cropDrag(s *session, p geometry.Point) error {
	local, err := w.local(p)
	if err != nil {
		return err
	}
	d := local.Sub(s.localOrigin)
	w.crop = clampCrop(s.crop, w.background, cropHandles[s.id], d, w.layout.MinCropSize)
	return nil
}

func clampCrop(origin, bg geometry.Rect, e cropEdges, d geometry.Point, minSize float64) geometry.Rect {
	minW := math.Min(minSize, bg.Width)
	minH := math.Min(minSize, bg.Height)

	left, right := origin.Left(), origin.Right()
	top, bottom := origin.Top(), origin.Bottom()

	if e.left {
		left = clamp(left+d.X, bg.Left(), right-minW)
	}
	if e.right {
		right = clamp(right+d.X, left+minW, bg.Right())
	}
	if e.top {
		top = clamp(top+d.Y, bottom+minH, bg.Top())
	}
	if e.bottom {
		bottom = clamp(bottom+d.Y, bg.Bottom(), top-minH)
	}

	// The fixed edges may come from a crop that was already outside the
	// background; pull them in too.
	left = math.Max(left, bg.Left())
	right = math.Min(right, bg.Right())
	top = math.Min(top, bg.Top())
	bottom = math.Max(bottom, bg.Bottom())
	if right-left < minW {
		right = math.Min(left+minW, bg.Right())
		left = right - minW
	}
	if top-bottom < minH {
		top = math.Min(bottom+minH, bg.Top())
		bottom = top - minH
	}

	return geometry.Rect{X: left, Y: top, Width: right - left, Height: top - bottom}
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return math.Min(math.Max(v, lo), hi)
}
