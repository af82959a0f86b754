package engine

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/inamate/clipcontrol/internal/anchor"
	"github.com/inamate/clipcontrol/internal/clip"
	"github.com/inamate/clipcontrol/internal/geometry"
	"github.com/inamate/clipcontrol/internal/hittest"
)

// Host receives the widget's outputs.
type Host interface {
	DoTransform(t geometry.Transform)
	DoCrop(r clip.Region)
	OnCropClicked()
}

// HostFuncs adapts plain functions to Host. Nil fields are no-ops.
type HostFuncs struct {
	Transform   func(geometry.Transform)
	Crop        func(clip.Region)
	CropClicked func()
}

func (h HostFuncs) DoTransform(t geometry.Transform) {
	if h.Transform != nil {
		h.Transform(t)
	}
}

func (h HostFuncs) DoCrop(r clip.Region) {
	if h.Crop != nil {
		h.Crop(r)
	}
}

func (h HostFuncs) OnCropClicked() {
	if h.CropClicked != nil {
		h.CropClicked()
	}
}

// CanvasInfo is the pixel size of the backing canvas and its page offset.
type CanvasInfo struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

// Widget is one clip control instance. It owns the shape, the hit buffer
// and the gesture state. A Widget is not safe for concurrent use.
type Widget struct {
	id     string
	log    *slog.Logger
	host   Host
	layout anchor.Layout

	// Shape state
	props      clip.Props
	background geometry.Rect // uncropped clip rect, NDC reference for crops
	crop       geometry.Rect

	canvas CanvasInfo
	menu   anchor.MenuState

	// Gesture state
	state   State
	session *session
	hover   anchor.ID

	// Derived, rebuilt on every redraw
	anchors  []anchor.Rect
	commands []DrawCommand

	surface hittest.Surface
	picker  *hittest.Picker
	src     hittest.Source
}

// Option configures a Widget.
type Option func(*Widget)

func WithLogger(l *slog.Logger) Option {
	return func(w *Widget) { w.log = l }
}

func WithLayout(l anchor.Layout) Option {
	return func(w *Widget) { w.layout = l }
}

// WithSurface replaces the software hit buffer.
func WithSurface(s hittest.Surface) Option {
	return func(w *Widget) { w.surface = s }
}

// WithRand sets the colour source of the hit buffer.
func WithRand(src hittest.Source) Option {
	return func(w *Widget) { w.src = src }
}

func WithID(id string) Option {
	return func(w *Widget) { w.id = id }
}

// New creates a widget for props and draws it once. host may be nil.
func New(props clip.Props, host Host, opts ...Option) (*Widget, error) {
	if err := props.Validate(); err != nil {
		return nil, err
	}
	w := &Widget{
		log:    slog.Default(),
		host:   host,
		layout: anchor.DefaultLayout(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.host == nil {
		w.host = HostFuncs{}
	}
	if err := w.layout.Validate(); err != nil {
		return nil, err
	}
	w.log = w.log.With("widget", w.id)

	if w.surface == nil {
		w.surface = hittest.NewRasterSurface(0, 0)
	}
	pickerOpts := []hittest.PickerOption{hittest.WithMaxRetries(w.layout.MaxColorRetries)}
	if w.src != nil {
		pickerOpts = append(pickerOpts, hittest.WithSource(w.src))
	}
	w.picker = hittest.NewPicker(w.surface, pickerOpts...)

	if w.layout.ShowMenu {
		w.menu = anchor.MenuLevel1
	}
	w.setProps(props)
	w.canvas = CanvasInfo{Width: props.LiveWindowWidth, Height: props.LiveWindowHeight}
	w.resizeSurface()

	if err := w.Redraw(); err != nil {
		return nil, err
	}
	return w, nil
}

// --- Commands (host → widget) ---

// UpdateCanvasInfo records the backing canvas size and page offset and
// redraws.
func (w *Widget) UpdateCanvasInfo(width, height, offsetX, offsetY float64) error {
	if width < 0 || height < 0 || math.IsNaN(width) || math.IsNaN(height) {
		return fmt.Errorf("canvas %gx%g: %w", width, height, geometry.ErrDegenerateViewport)
	}
	w.canvas = CanvasInfo{Width: width, Height: height, OffsetX: offsetX, OffsetY: offsetY}
	w.resizeSurface()
	return w.Redraw()
}

// UpdateProps replaces the shape wholesale, e.g. after a host-side undo.
// An active gesture is dropped.
func (w *Widget) UpdateProps(props clip.Props) error {
	if err := props.Validate(); err != nil {
		return err
	}
	w.endGesture()
	w.setProps(props)
	if w.menu == anchor.MenuLevel2Crop {
		w.menu = anchor.MenuLevel1
	}
	return w.Redraw()
}

// SetKeepAspectRatio toggles proportional corner scaling.
func (w *Widget) SetKeepAspectRatio(keep bool) {
	w.layout.KeepAspectRatio = keep
}

// Redraw recomputes anchors, rebuilds the hit buffer with fresh colours
// and compiles the visible draw commands.
func (w *Widget) Redraw() error {
	rects := w.currentAnchors()
	colored, err := w.picker.Rebuild(rects, w.screenQuad)
	if err != nil {
		return fmt.Errorf("redraw: %w", err)
	}
	w.anchors = colored
	w.commands = w.compileDrawCommands()
	return nil
}

// --- Queries (widget → host) ---

func (w *Widget) ID() string                  { return w.id }
func (w *Widget) State() State                { return w.state }
func (w *Widget) MenuState() anchor.MenuState { return w.menu }
func (w *Widget) Shape() clip.Shape           { return w.props.Shape }
func (w *Widget) Props() clip.Props           { return w.props }
func (w *Widget) Transform() geometry.Transform {
	return w.props.Transform()
}
func (w *Widget) CropRect() geometry.Rect   { return w.crop }
func (w *Widget) Background() geometry.Rect { return w.background }
func (w *Widget) Canvas() CanvasInfo        { return w.canvas }
func (w *Widget) Layout() anchor.Layout     { return w.layout }

// Hover returns the anchor last seen under the pointer outside a gesture.
func (w *Widget) Hover() anchor.ID { return w.hover }

// Anchors returns the anchors of the last redraw with their colour keys.
func (w *Widget) Anchors() []anchor.Rect {
	out := make([]anchor.Rect, len(w.anchors))
	copy(out, w.anchors)
	return out
}

// Pick resolves the anchor under a canvas-relative point.
func (w *Widget) Pick(x, y float64) (anchor.ID, bool) {
	return w.picker.Pick(x, y)
}

// AnchorQuad returns the screen quad of the anchor id from the last redraw.
func (w *Widget) AnchorQuad(id anchor.ID) (geometry.Quad, bool) {
	r, ok := anchor.Find(w.anchors, id)
	if !ok {
		return geometry.Quad{}, false
	}
	return w.screenQuad(r), true
}

// Region returns the crop rectangle as NDC corners relative to the
// uncropped clip. Outside crop mode it reports the current shape rect.
// With withRotation the corners are first rotated by the shape rotation.
func (w *Widget) Region(withRotation bool) (clip.Region, error) {
	r := w.props.Rect()
	if w.menu == anchor.MenuLevel2Crop {
		r = w.crop
	}
	return w.regionOf(r, withRotation)
}

// --- Internals ---

func (w *Widget) setProps(props clip.Props) {
	w.props = props
	w.background = props.Rect()
	w.crop = props.Rect()
}

func (w *Widget) resizeSurface() {
	w.surface.Resize(int(math.Ceil(w.canvas.Width)), int(math.Ceil(w.canvas.Height)))
}

// currentAnchors lists the anchors for the current menu state in render
// order.
func (w *Widget) currentAnchors() []anchor.Rect {
	s := w.props.Shape
	var rects []anchor.Rect
	if w.menu == anchor.MenuLevel2Crop {
		rects = anchor.CropAnchors(w.crop, s, w.layout)
	} else {
		rects = anchor.TransformAnchors(s, w.layout)
	}
	return append(rects, anchor.MenuAnchors(w.menu, s, w.layout)...)
}

func (w *Widget) screenQuad(r anchor.Rect) geometry.Quad {
	return anchor.ScreenQuad(r, w.canvas.Width, w.canvas.Height, w.props.Transform())
}

func (w *Widget) regionOf(r geometry.Rect, withRotation bool) (clip.Region, error) {
	rot := 0.0
	if withRotation {
		rot = w.props.Rotation
	}
	vp := w.background.Viewport()
	var pts [4]geometry.Point
	for i, c := range r.Corners() {
		p, err := geometry.CartesianToNDC(geometry.RotatePoint(c, rot), vp)
		if err != nil {
			return clip.Region{}, fmt.Errorf("crop region: %w", err)
		}
		pts[i] = p
	}
	return clip.RegionFromPoints(pts), nil
}
