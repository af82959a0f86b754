package export

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/inamate/clipcontrol/internal/clip"
)

var ErrEmptyCrop = errors.New("empty crop")

// PixelRect is a crop rectangle in source pixels, origin top-left.
type PixelRect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// CropFromRegion converts an NDC crop region into the pixel rectangle of a
// width x height source. A rotated region is replaced by its bounding
// box. The result is clamped to the source and its sides are rounded down
// to even numbers, which yuv420p output requires.
func CropFromRegion(r clip.Region, width, height int) (PixelRect, error) {
	if width <= 0 || height <= 0 {
		return PixelRect{}, fmt.Errorf("source %dx%d: %w", width, height, ErrEmptyCrop)
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range r.Points() {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			return PixelRect{}, fmt.Errorf("region has NaN corner: %w", ErrEmptyCrop)
		}
		// NDC y points up, pixel rows go down.
		px := (p.X + 1) / 2 * float64(width)
		py := (1 - p.Y) / 2 * float64(height)
		minX, maxX = math.Min(minX, px), math.Max(maxX, px)
		minY, maxY = math.Min(minY, py), math.Max(maxY, py)
	}

	x0 := clampInt(int(math.Round(minX)), 0, width)
	y0 := clampInt(int(math.Round(minY)), 0, height)
	x1 := clampInt(int(math.Round(maxX)), 0, width)
	y1 := clampInt(int(math.Round(maxY)), 0, height)

	w := (x1 - x0) &^ 1
	h := (y1 - y0) &^ 1
	if w <= 0 || h <= 0 {
		return PixelRect{}, fmt.Errorf("crop %dx%d at (%d, %d): %w", x1-x0, y1-y0, x0, y0, ErrEmptyCrop)
	}
	return PixelRect{X: x0, Y: y0, Width: w, Height: h}, nil
}

// Filter returns the ffmpeg crop filter for r.
func (r PixelRect) Filter() string {
	return "crop=" + strconv.Itoa(r.Width) + ":" + strconv.Itoa(r.Height) + ":" +
		strconv.Itoa(r.X) + ":" + strconv.Itoa(r.Y)
}

// Args builds the ffmpeg arguments that crop input into an mp4 at output.
func Args(input, output string, r PixelRect) []string {
	return []string{
		"-y",
		"-i", input,
		"-vf", r.Filter(),
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-crf", "18",
		"-preset", "fast",
		"-movflags", "+faststart",
		output,
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
