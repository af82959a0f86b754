package engine

import (
	"github.com/inamate/clipcontrol/internal/anchor"
)

// click runs the menu action under the pointer, if any.
func (w *Widget) click(ev PointerEvent) error {
	p := w.canvasPoint(ev)
	id, ok := w.picker.Pick(p.X, p.Y)
	if !ok || !anchor.IsMenuButton(id) {
		return nil
	}
	return w.MenuAction(id)
}

// MenuAction applies the button id as if it had been clicked. Buttons
// that are not part of the current menu are ignored.
func (w *Widget) MenuAction(id anchor.ID) error {
	if !w.menuHas(id) {
		return nil
	}
	w.log.Debug("menu action", "menu", w.menu, "button", id)

	switch w.menu {
	case anchor.MenuLevel1:
		return w.level1Action(id)
	case anchor.MenuLevel2Crop:
		return w.cropMenuAction(id)
	case anchor.MenuLevel2Pinp:
		return w.pinpMenuAction(id)
	}
	return nil
}

func (w *Widget) menuHas(id anchor.ID) bool {
	for _, item := range anchor.MenuItems(w.menu) {
		if item == id {
			return true
		}
	}
	return false
}

func (w *Widget) level1Action(id anchor.ID) error {
	switch id {
	case anchor.Crop:
		w.host.OnCropClicked()
		w.crop = w.props.Rect()
		w.menu = anchor.MenuLevel2Crop
		return w.Redraw()
	case anchor.Pinp:
		w.menu = anchor.MenuLevel2Pinp
		return w.Redraw()
	case anchor.FlipHorizontal:
		w.props.ScaleX = -w.props.ScaleX
		return w.commitTransform()
	case anchor.FlipVertical:
		w.props.ScaleY = -w.props.ScaleY
		return w.commitTransform()
	}
	return nil
}

func (w *Widget) cropMenuAction(id anchor.ID) error {
	switch id {
	case anchor.Back:
		// Undo every crop, including earlier ones confirmed with done.
		w.props.SetRect(w.background)
		w.crop = w.background
		w.menu = anchor.MenuLevel1
		return w.Redraw()
	case anchor.Done:
		region, err := w.regionOf(w.crop, false)
		if err != nil {
			return err
		}
		w.props.SetRect(w.crop)
		w.menu = anchor.MenuLevel1
		if err := w.Redraw(); err != nil {
			return err
		}
		w.host.DoCrop(region)
		return nil
	}
	return nil
}

// pinpCorners gives the live-window corner each preset moves to.
var pinpCorners = map[anchor.ID][2]float64{
	anchor.PinpLeftTop:     {-1, 1},
	anchor.PinpRightTop:    {1, 1},
	anchor.PinpLeftBottom:  {-1, -1},
	anchor.PinpRightBottom: {1, -1},
}

func (w *Widget) pinpMenuAction(id anchor.ID) error {
	if id == anchor.Back {
		// The pending crop resets; placements and confirmed crops stay.
		w.crop = w.background
		w.menu = anchor.MenuLevel1
		return w.Redraw()
	}
	corner, ok := pinpCorners[id]
	if !ok {
		return nil
	}
	ps := w.layout.PinpScale
	lw, lh := w.liveWindow()
	w.props.ScaleX = sign(w.props.ScaleX) * ps
	w.props.ScaleY = sign(w.props.ScaleY) * ps
	w.props.TransX = corner[0] * (lw/2 - lw*ps/2)
	w.props.TransY = corner[1] * (lh/2 - lh*ps/2)
	return w.commitTransform()
}

// liveWindow falls back to the canvas size when the host sent none.
func (w *Widget) liveWindow() (float64, float64) {
	lw, lh := w.props.LiveWindowWidth, w.props.LiveWindowHeight
	if lw <= 0 {
		lw = w.canvas.Width
	}
	if lh <= 0 {
		lh = w.canvas.Height
	}
	return lw, lh
}

func (w *Widget) commitTransform() error {
	if err := w.Redraw(); err != nil {
		return err
	}
	w.host.DoTransform(w.props.Transform())
	return nil
}
