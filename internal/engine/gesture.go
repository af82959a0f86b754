package engine

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/inamate/clipcontrol/internal/anchor"
	"github.com/inamate/clipcontrol/internal/clip"
	"github.com/inamate/clipcontrol/internal/geometry"
)

// State is the gesture state machine state.
type State int

const (
	Idle State = iota
	Translating
	Rotating
	Scaling
	Cropping
)

var stateNames = map[State]string{
	Idle:        "idle",
	Translating: "translating",
	Rotating:    "rotating",
	Scaling:     "scaling",
	Cropping:    "cropping",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *State) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for state, n := range stateNames {
		if n == name {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown gesture state %q", name)
}

// PointerKind is the kind of pointer event.
type PointerKind string

const (
	PointerDown  PointerKind = "down"
	PointerMove  PointerKind = "move"
	PointerUp    PointerKind = "up"
	PointerClick PointerKind = "click"
)

// PointerEvent is a raw pointer event in page coordinates.
type PointerEvent struct {
	Kind    PointerKind `json:"kind"`
	ClientX float64     `json:"clientX"`
	ClientY float64     `json:"clientY"`
}

// session is the per-drag state, alive between pointer down and up.
type session struct {
	id          anchor.ID
	origin      geometry.Point // client coordinates at pointer down
	shape       clip.Shape
	crop        geometry.Rect
	localOrigin geometry.Point // pointer in shape-local coordinates, crop only
	angle       float64        // pointer angle at the previous event, rotate only
}

// HandlePointer is the single entry point for pointer input. The event is
// routed by the current gesture state.
func (w *Widget) HandlePointer(ev PointerEvent) error {
	switch ev.Kind {
	case PointerDown:
		return w.pointerDown(ev)
	case PointerMove:
		return w.pointerMove(ev)
	case PointerUp:
		w.pointerUp()
		return nil
	case PointerClick:
		return w.click(ev)
	}
	return fmt.Errorf("unknown pointer event %q", ev.Kind)
}

// canvasPoint converts page coordinates to canvas-relative screen
// coordinates.
func (w *Widget) canvasPoint(ev PointerEvent) geometry.Point {
	return geometry.Point{X: ev.ClientX - w.canvas.OffsetX, Y: ev.ClientY - w.canvas.OffsetY}
}

func (w *Widget) pointerDown(ev PointerEvent) error {
	if w.state != Idle {
		w.endGesture()
	}
	p := w.canvasPoint(ev)
	id, ok := w.picker.Pick(p.X, p.Y)
	if !ok {
		return nil
	}

	next := w.gestureFor(id)
	if next == Idle {
		return nil
	}
	s := &session{
		id:     id,
		origin: geometry.Point{X: ev.ClientX, Y: ev.ClientY},
		shape:  w.props.Shape,
		crop:   w.crop,
	}
	switch next {
	case Rotating:
		c := w.cartesian(p)
		s.angle = geometry.AngleDegrees(c.X-s.shape.TransX, c.Y-s.shape.TransY)
	case Cropping:
		local, err := w.local(p)
		if err != nil {
			return err
		}
		s.localOrigin = local
	}
	w.session = s
	w.state = next
	w.log.Debug("gesture started", "state", next, "anchor", id)
	return nil
}

// gestureFor maps the anchor under the pointer to the gesture it starts.
// Menu buttons act on click and start nothing.
func (w *Widget) gestureFor(id anchor.ID) State {
	if w.menu == anchor.MenuLevel2Crop {
		if anchor.IsCropHandle(id) {
			return Cropping
		}
		return Idle
	}
	switch {
	case id == anchor.Translation:
		return Translating
	case id == anchor.Rotation:
		return Rotating
	case anchor.CornerIndex(id) > 0:
		return Scaling
	}
	return Idle
}

func (w *Widget) pointerMove(ev PointerEvent) error {
	p := w.canvasPoint(ev)
	if w.session == nil {
		w.hover, _ = w.picker.Pick(p.X, p.Y)
		return nil
	}

	s := w.session
	switch w.state {
	case Translating:
		w.translate(s, ev)
	case Rotating:
		w.rotate(s, p)
	case Scaling:
		w.scale(s, ev)
	case Cropping:
		if err := w.cropDrag(s, p); err != nil {
			return err
		}
	}

	if err := w.Redraw(); err != nil {
		return err
	}
	if w.state != Cropping {
		w.host.DoTransform(w.props.Transform())
	}
	return nil
}

func (w *Widget) pointerUp() {
	if w.session != nil {
		w.log.Debug("gesture ended", "state", w.state, "anchor", w.session.id)
	}
	w.endGesture()
}

func (w *Widget) endGesture() {
	w.session = nil
	w.state = Idle
}

func (w *Widget) cartesian(p geometry.Point) geometry.Point {
	return geometry.ScreenToCartesian(w.canvas.Width, w.canvas.Height, p.X, p.Y)
}

func (w *Widget) local(p geometry.Point) (geometry.Point, error) {
	return geometry.TransformAndMapToCartesian(w.canvas.Width, w.canvas.Height, p, w.props.Transform())
}

func (w *Widget) translate(s *session, ev PointerEvent) {
	w.props.TransX = s.shape.TransX + (ev.ClientX - s.origin.X)
	w.props.TransY = s.shape.TransY - (ev.ClientY - s.origin.Y)
}

// rotate accumulates the per-move angle change, wrapped to [-180, 180),
// so the rotation stays continuous and unbounded when the pointer crosses
// the +x axis.
func (w *Widget) rotate(s *session, p geometry.Point) {
	c := w.cartesian(p)
	angle := geometry.AngleDegrees(c.X-s.shape.TransX, c.Y-s.shape.TransY)
	w.props.Rotation += wrapDegrees(angle - s.angle)
	s.angle = angle
}

func wrapDegrees(d float64) float64 {
	return math.Mod(d+540, 360) - 180
}

// cornerSigns gives the outward direction of each corner along the local
// x and y axes.
var cornerSigns = map[anchor.ID][2]float64{
	anchor.LeftTop:     {-1, 1},
	anchor.LeftBottom:  {-1, -1},
	anchor.RightBottom: {1, -1},
	anchor.RightTop:    {1, 1},
}

// scale resizes the shape about its transform origin. The pointer movement
// is projected onto the rotated shape axes; moving a corner outward by d
// grows that extent by 2d.
func (w *Widget) scale(s *session, ev PointerEvent) {
	signs := cornerSigns[s.id]
	sx := signs[0] * sign(s.shape.ScaleX)
	sy := signs[1] * sign(s.shape.ScaleY)

	d := geometry.Point{X: ev.ClientX - s.origin.X, Y: -(ev.ClientY - s.origin.Y)}
	r := geometry.DegreesToRadians(s.shape.Rotation)
	along := d.Dot(geometry.Point{X: math.Cos(r), Y: math.Sin(r)})
	across := d.Dot(geometry.Point{X: -math.Sin(r), Y: math.Cos(r)})

	width := s.shape.Width * math.Abs(s.shape.ScaleX)
	height := s.shape.Height * math.Abs(s.shape.ScaleY)
	newWidth := math.Max(width+2*sx*along, 1)
	newHeight := math.Max(height+2*sy*across, 1)

	if w.layout.KeepAspectRatio {
		// Same ratio on both axes; the shorter side stays at least 1px.
		ratio := math.Hypot(newWidth, newHeight) / math.Hypot(width, height)
		ratio = math.Max(ratio, 1/math.Min(width, height))
		w.props.ScaleX = s.shape.ScaleX * ratio
		w.props.ScaleY = s.shape.ScaleY * ratio
		return
	}
	w.props.ScaleX = s.shape.ScaleX * newWidth / width
	w.props.ScaleY = s.shape.ScaleY * newHeight / height
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
