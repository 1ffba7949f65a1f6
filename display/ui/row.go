package ui

import (
	"image/color"

	"clockface/display/gfx"
	"clockface/hal"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// Row is the drawing surface of one scanline. It is a drivers.Displayer that drops
// every pixel outside the row, so tinyfont can render into it unchanged.
type Row struct {
	buf  []Pixel
	y    int16
	x0   int16
	w, h int16
}

var _ drivers.Displayer = (*Row)(nil)

func (r *Row) Size() (int16, int16) { return r.w, r.h }

// Y returns the row being drawn.
func (r *Row) Y() int16 { return r.y }

func (r *Row) SetPixel(x, y int16, c color.RGBA) {
	if y != r.y {
		return
	}
	i := int(x) - int(r.x0)
	if i < 0 || i >= len(r.buf) {
		return
	}
	r.buf[i] = hal.RGB565(c.R, c.G, c.B)
}

func (r *Row) Display() error { return nil }

// FillRect paints the part of the rect that crosses this row.
func (r *Row) FillRect(rect gfx.Rect, c color.RGBA) {
	if !rect.ContainsRow(r.y) {
		return
	}
	p := hal.RGB565(c.R, c.G, c.B)
	lo := int(rect.X) - int(r.x0)
	hi := lo + int(rect.W)
	if lo < 0 {
		lo = 0
	}
	if hi > len(r.buf) {
		hi = len(r.buf)
	}
	for i := lo; i < hi; i++ {
		r.buf[i] = p
	}
}

// FillCircle paints the span of a filled circle on this row.
func (r *Row) FillCircle(cx, cy, radius int16, c color.RGBA) {
	dy := int(r.y) - int(cy)
	rr := int(radius)
	if dy < -rr || dy > rr {
		return
	}
	half := isqrt(rr*rr - dy*dy)
	r.FillRect(gfx.Rect{X: cx - int16(half), Y: r.y, W: int16(2*half + 1), H: 1}, c)
}

// Text draws s with its baseline at y, skipping all work when s misses this row.
func (r *Row) Text(x, y int16, font tinyfont.Fonter, s string, c color.RGBA) {
	if !gfx.TextBounds(font, x, y, s).ContainsRow(r.y) {
		return
	}
	tinyfont.WriteLine(r, font, x, y, s, c)
}

func isqrt(n int) int {
	if n <= 0 {
		return 0
	}
	x := n
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}
