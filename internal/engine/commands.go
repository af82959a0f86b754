package engine

import (
	"encoding/json"

	"github.com/inamate/clipcontrol/internal/anchor"
	"github.com/inamate/clipcontrol/internal/geometry"
)

// DrawCommand represents a single drawing operation for the host to execute
// on its visible canvas. Commands are in painter's order.
type DrawCommand struct {
	Op          string        `json:"op"`                    // "path", "save", "restore", "clip"
	ObjectID    string        `json:"objectId,omitempty"`    // anchor or overlay id
	Transform   []float64     `json:"transform,omitempty"`   // [a, b, c, d, e, f] affine matrix
	Path        []PathCommand `json:"path,omitempty"`        // path data
	Fill        string        `json:"fill,omitempty"`        // fill colour
	FillRule    string        `json:"fillRule,omitempty"`    // "nonzero" or "evenodd"
	Stroke      string        `json:"stroke,omitempty"`      // stroke colour
	StrokeWidth float64       `json:"strokeWidth,omitempty"` // stroke width
	Opacity     float64       `json:"opacity,omitempty"`     // global alpha
}

// PathCommand is a single path segment.
// Format matches Canvas2D: ["M", x, y], ["L", x, y], ["C", x1, y1, x2, y2, x, y], ["Z"].
type PathCommand []interface{}

// Overlay ids that are drawn but never hit-tested.
const (
	OutlineID  = "outline"
	CropMaskID = "cropMask"
	CropLineID = "cropOutline"
)

const (
	outlineColor = "#00a1ff"
	handleFill   = "#ffffff"
	handleStroke = "#00a1ff"
	buttonFill   = "#2b2b2b"
	cropMask     = "#00000050"
	cropStroke   = "#ffffff"
)

// DrawCommands returns the visible draw commands of the last redraw.
func (w *Widget) DrawCommands() []DrawCommand {
	out := make([]DrawCommand, len(w.commands))
	copy(out, w.commands)
	return out
}

// DrawCommandsJSON serializes the visible draw commands.
func (w *Widget) DrawCommandsJSON() (string, error) {
	return DrawCommandsToJSON(w.commands)
}

// canvasMatrix maps shape-local coordinates to canvas pixels.
func (w *Widget) canvasMatrix() geometry.Matrix {
	flip := geometry.Translate(w.canvas.Width/2, w.canvas.Height/2).Multiply(geometry.Scale(1, -1))
	return flip.Multiply(w.props.Transform().Matrix())
}

// compileDrawCommands builds the visible frame from the current anchors.
func (w *Widget) compileDrawCommands() []DrawCommand {
	m := w.canvasMatrix().ToSlice()
	var cmds []DrawCommand

	if w.menu == anchor.MenuLevel2Crop {
		cmds = append(cmds,
			DrawCommand{
				Op:        "path",
				ObjectID:  CropMaskID,
				Transform: m,
				Path:      append(rectPath(w.background), rectPath(w.crop)...),
				Fill:      cropMask,
				FillRule:  "evenodd",
			},
			DrawCommand{
				Op:          "path",
				ObjectID:    string(anchor.Background),
				Transform:   m,
				Path:        rectPath(w.background),
				Stroke:      outlineColor,
				StrokeWidth: 1,
			},
			DrawCommand{
				Op:          "path",
				ObjectID:    CropLineID,
				Transform:   m,
				Path:        rectPath(w.crop),
				Stroke:      cropStroke,
				StrokeWidth: 1,
			},
		)
	} else {
		cmds = append(cmds, DrawCommand{
			Op:          "path",
			ObjectID:    OutlineID,
			Transform:   m,
			Path:        rectPath(w.props.Rect()),
			Stroke:      outlineColor,
			StrokeWidth: 1,
		})
	}

	for _, r := range w.anchors {
		if cmd, ok := w.anchorCommand(r, m); ok {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

// anchorCommand draws one anchor. The translation rect is invisible; it
// only exists in the hit buffer.
func (w *Widget) anchorCommand(r anchor.Rect, m []float64) (DrawCommand, bool) {
	switch {
	case r.ID == anchor.Translation:
		return DrawCommand{}, false
	case anchor.IsMenuButton(r.ID):
		return DrawCommand{
			Op:       "path",
			ObjectID: string(r.ID),
			Path:     quadPath(w.screenQuad(r)),
			Fill:     buttonFill,
		}, true
	case r.Frame == anchor.FrameLocal:
		return DrawCommand{
			Op:        "path",
			ObjectID:  string(r.ID),
			Transform: m,
			Path:      rectPath(r.Local()),
			Fill:      handleFill,
		}, true
	}

	c := w.screenQuad(r).Centroid()
	radius := w.layout.CornerRadius
	if r.ID == anchor.Rotation {
		radius = w.layout.RotationAnchorSize / 2
	}
	return DrawCommand{
		Op:          "path",
		ObjectID:    string(r.ID),
		Path:        circlePath(c, radius),
		Fill:        handleFill,
		Stroke:      handleStroke,
		StrokeWidth: 1,
	}, true
}

// rectPath outlines a local rect in corner order.
func rectPath(r geometry.Rect) []PathCommand {
	c := r.Corners()
	return []PathCommand{
		{"M", c[0].X, c[0].Y},
		{"L", c[1].X, c[1].Y},
		{"L", c[2].X, c[2].Y},
		{"L", c[3].X, c[3].Y},
		{"Z"},
	}
}

func quadPath(q geometry.Quad) []PathCommand {
	return []PathCommand{
		{"M", q[0].X, q[0].Y},
		{"L", q[1].X, q[1].Y},
		{"L", q[2].X, q[2].Y},
		{"L", q[3].X, q[3].Y},
		{"Z"},
	}
}

// circlePath approximates a circle with four bezier curves.
func circlePath(c geometry.Point, r float64) []PathCommand {
	// k = 4 * (sqrt(2) - 1) / 3
	k := 0.5522847498 * r
	x, y := c.X, c.Y
	return []PathCommand{
		{"M", x + r, y},
		{"C", x + r, y + k, x + k, y + r, x, y + r},
		{"C", x - k, y + r, x - r, y + k, x - r, y},
		{"C", x - r, y - k, x - k, y - r, x, y - r},
		{"C", x + k, y - r, x + r, y - k, x + r, y},
		{"Z"},
	}
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
