package hittest

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/inamate/clipcontrol/internal/anchor"
	"github.com/inamate/clipcontrol/internal/geometry"
)

// ErrColorExhausted is returned when no unused colour was found within the
// retry budget.
var ErrColorExhausted = errors.New("hit colour space exhausted")

// DefaultMaxRetries bounds colour generation when no limit is configured.
const DefaultMaxRetries = 64

// Source produces random colour candidates. *rand.Rand satisfies it.
type Source interface {
	Uint32() uint32
}

// QuadFunc maps an anchor to its screen quadrilateral.
type QuadFunc func(anchor.Rect) geometry.Quad

// Picker owns the hit buffer and colour table of one widget.
type Picker struct {
	surface    Surface
	table      *ColorTable
	src        Source
	maxRetries int
}

// PickerOption configures a Picker.
type PickerOption func(*Picker)

// WithSource replaces the random source, e.g. with a seeded one in tests.
func WithSource(src Source) PickerOption {
	return func(p *Picker) { p.src = src }
}

// WithMaxRetries caps the attempts spent finding an unused colour.
func WithMaxRetries(n int) PickerOption {
	return func(p *Picker) {
		if n > 0 {
			p.maxRetries = n
		}
	}
}

// NewPicker creates a picker drawing into surface.
func NewPicker(surface Surface, opts ...PickerOption) *Picker {
	p := &Picker{
		surface:    surface,
		table:      NewColorTable(),
		src:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		maxRetries: DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Table returns the current colour table.
func (p *Picker) Table() *ColorTable {
	return p.table
}

// Rebuild assigns a fresh unique colour to every rect, then clears the
// hit buffer and paints the rects in order, so later rects end up on top.
// It returns the rects with ColorKey filled in. When colours run out the
// previous frame's buffer and table are left untouched.
func (p *Picker) Rebuild(rects []anchor.Rect, quad QuadFunc) ([]anchor.Rect, error) {
	table := NewColorTable()
	out := make([]anchor.Rect, len(rects))
	colors := make([]color.RGBA, len(rects))
	for i, r := range rects {
		c, key, err := p.nextColor(table)
		if err != nil {
			return nil, fmt.Errorf("assign colour to %s: %w", r.ID, err)
		}
		r.ColorKey = key
		table.Insert(key, r)
		out[i] = r
		colors[i] = c
	}

	p.surface.Clear()
	for i, r := range out {
		p.surface.FillQuad(quad(r), colors[i])
	}
	p.table = table
	return out, nil
}

// Pick resolves the anchor under the canvas-relative point (x, y).
func (p *Picker) Pick(x, y float64) (anchor.ID, bool) {
	if math.IsNaN(x) || math.IsNaN(y) {
		return "", false
	}
	c, ok := p.surface.Sample(int(math.Floor(x)), int(math.Floor(y)))
	if !ok || c.A == 0 {
		return "", false
	}
	r, ok := p.table.Lookup(ColorKey(c))
	if !ok {
		return "", false
	}
	return r.ID, true
}

func (p *Picker) nextColor(table *ColorTable) (color.RGBA, string, error) {
	for range p.maxRetries {
		v := p.src.Uint32()
		c := color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
		if c.R == 0 && c.G == 0 && c.B == 0 {
			continue
		}
		key := ColorKey(c)
		if table.Has(key) {
			continue
		}
		return c, key, nil
	}
	return color.RGBA{}, "", fmt.Errorf("%d attempts: %w", p.maxRetries, ErrColorExhausted)
}
