// Package gfx is the immediate-mode drawing surface shared by the clock renderer
// and the boot console.
package gfx

import (
	"image/color"

	"tinygo.org/x/tinyfont"
)

// Target is the draw-target capability: everything a renderer may do to the screen.
//
// Every method writes through to the panel before returning. A non-nil error means
// the panel may hold a partially drawn primitive.
type Target interface {
	Size() (width, height int16)
	Fill(c color.RGBA) error
	FillRect(x, y, width, height int16, c color.RGBA) error
	// DrawLine strokes a line of the given width (>= 1).
	DrawLine(x0, y0, x1, y1, width int16, c color.RGBA) error
	// DrawCircle strokes a circle outline of the given stroke width inward from r.
	DrawCircle(cx, cy, r, stroke int16, c color.RGBA) error
	FillCircle(cx, cy, r int16, c color.RGBA) error
	// DrawText draws s with its baseline at y and returns the pixels it may have touched.
	DrawText(x, y int16, font tinyfont.Fonter, s string, c color.RGBA) (Rect, error)
}

// Rect is an axis-aligned rectangle. The zero Rect is empty.
type Rect struct {
	X, Y, W, H int16
}

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Union returns the smallest rect covering r and o.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x0, y0 := min16(r.X, o.X), min16(r.Y, o.Y)
	x1, y1 := max16(r.X+r.W, o.X+o.W), max16(r.Y+r.H, o.Y+o.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Intersect returns the overlap of r and o, or the zero Rect.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max16(r.X, o.X), max16(r.Y, o.Y)
	x1, y1 := min16(r.X+r.W, o.X+o.W), min16(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// ContainsRow reports whether row y crosses r.
func (r Rect) ContainsRow(y int16) bool { return !r.Empty() && y >= r.Y && y < r.Y+r.H }

// TextBounds returns the rect covered by s drawn with its baseline at (x, y).
// It is exact for bitmap fonts: the union of every glyph's box.
func TextBounds(font tinyfont.Fonter, x, y int16, s string) Rect {
	var out Rect
	for _, r := range s {
		g := font.GetGlyph(r)
		info := g.Info()
		box := Rect{
			X: x + int16(info.XOffset),
			Y: y + int16(info.YOffset),
			W: int16(info.Width),
			H: int16(info.Height),
		}
		out = out.Union(box)
		x += int16(info.XAdvance)
	}
	return out
}

// TextWidth returns the horizontal advance of s.
func TextWidth(font tinyfont.Fonter, s string) int16 {
	_, outbox := tinyfont.LineWidth(font, s)
	return int16(outbox)
}

func min16(a, b int16) int16 {
	if a < b {
		return a
	}
	return b
}

func max16(a, b int16) int16 {
	if a > b {
		return a
	}
	return b
}
