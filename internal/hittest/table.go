package hittest

import (
	"fmt"
	"image/color"

	"github.com/inamate/clipcontrol/internal/anchor"
)

// ColorKey formats c the way the colour table keys it.
func ColorKey(c color.RGBA) string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// ColorTable maps colour keys to the anchor that owns them.
type ColorTable struct {
	entries map[string]anchor.Rect
}

func NewColorTable() *ColorTable {
	return &ColorTable{entries: make(map[string]anchor.Rect)}
}

// Insert stores r under key. An existing entry is replaced.
func (t *ColorTable) Insert(key string, r anchor.Rect) {
	t.entries[key] = r
}

func (t *ColorTable) Has(key string) bool {
	_, ok := t.entries[key]
	return ok
}

func (t *ColorTable) Lookup(key string) (anchor.Rect, bool) {
	r, ok := t.entries[key]
	return r, ok
}

func (t *ColorTable) Len() int {
	return len(t.entries)
}
