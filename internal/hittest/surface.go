package hittest

import (
	"image"
	"image/color"

	"golang.org/x/image/vector"

	"github.com/inamate/clipcontrol/internal/geometry"
)

// Surface is an off-screen drawing target used as the hit buffer.
type Surface interface {
	Resize(width, height int)
	Clear()
	FillQuad(q geometry.Quad, c color.RGBA)
	// Sample returns the pixel at (x, y); ok is false outside the surface.
	Sample(x, y int) (c color.RGBA, ok bool)
}

// RasterSurface is a software Surface backed by an image.RGBA.
//
// Quads are rasterised with coverage and then thresholded: a pixel takes
// the exact fill colour when at least half of it is covered and is left
// untouched otherwise. Keys never blend into colours that could alias
// another anchor.
type RasterSurface struct {
	img  *image.RGBA
	ras  *vector.Rasterizer
	mask *image.Alpha
}

// NewRasterSurface allocates a cleared surface.
func NewRasterSurface(width, height int) *RasterSurface {
	s := &RasterSurface{ras: vector.NewRasterizer(0, 0)}
	s.Resize(width, height)
	return s
}

// Resize reallocates the buffer when the size changes. Contents are
// cleared either way.
func (s *RasterSurface) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if s.img == nil || s.img.Rect.Dx() != width || s.img.Rect.Dy() != height {
		s.img = image.NewRGBA(image.Rect(0, 0, width, height))
		return
	}
	s.Clear()
}

// Clear resets every pixel to transparent.
func (s *RasterSurface) Clear() {
	clear(s.img.Pix)
}

// FillQuad paints q with c.
func (s *RasterSurface) FillQuad(q geometry.Quad, c color.RGBA) {
	b := q.Bounds().Intersect(s.img.Rect)
	if b.Empty() {
		return
	}
	w, h := b.Dx(), b.Dy()

	s.ras.Reset(w, h)
	ox, oy := float64(b.Min.X), float64(b.Min.Y)
	s.ras.MoveTo(float32(q[0].X-ox), float32(q[0].Y-oy))
	for _, p := range q[1:] {
		s.ras.LineTo(float32(p.X-ox), float32(p.Y-oy))
	}
	s.ras.ClosePath()

	s.resetMask(w, h)
	s.ras.Draw(s.mask, image.Rect(0, 0, w, h), image.Opaque, image.Point{})

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if s.mask.AlphaAt(x, y).A >= 0x80 {
				s.img.SetRGBA(b.Min.X+x, b.Min.Y+y, c)
			}
		}
	}
}

// Sample reads one pixel.
func (s *RasterSurface) Sample(x, y int) (color.RGBA, bool) {
	if !(image.Point{X: x, Y: y}).In(s.img.Rect) {
		return color.RGBA{}, false
	}
	return s.img.RGBAAt(x, y), true
}

// resetMask makes sure the coverage mask holds at least w x h pixels and
// clears it. The mask only grows.
func (s *RasterSurface) resetMask(w, h int) {
	if s.mask != nil && s.mask.Rect.Dx() >= w && s.mask.Rect.Dy() >= h {
		clear(s.mask.Pix)
		return
	}
	if s.mask != nil {
		w, h = max(w, s.mask.Rect.Dx()), max(h, s.mask.Rect.Dy())
	}
	s.mask = image.NewAlpha(image.Rect(0, 0, w, h))
}
