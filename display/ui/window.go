// Package ui is a small retained-mode toolkit rendered one scanline at a time.
//
// A Window owns a stack of panels, a dirty region, timers and animations. It never
// touches the panel itself: DrawIfNeeded hands each dirty row to a line consumer.
package ui

import (
	"image/color"
	"time"

	"clockface/display/gfx"
	"clockface/hal"
)

// Pixel is one toolkit pixel, RGB565.
type Pixel = uint16

// RenderByLine consumes one dirty row: it must call render exactly once with a
// buffer of end-start pixels, then push that row out.
type RenderByLine func(line, start, end int, render func(buf []Pixel))

// Window is the frame window a surface is bound to.
type Window struct {
	w, h   int16
	bg     Pixel
	now    func() time.Duration
	panels []Panel

	dirty gfx.Rect
	gen   uint32

	timers []*Timer
	anims  []*animation
}

// NewWindow returns a window of the given size, fully dirty.
// now must be monotonic; it drives timers and animations.
func NewWindow(width, height int16, now func() time.Duration) *Window {
	w := &Window{w: width, h: height, now: now}
	w.Invalidate()
	return w
}

func (w *Window) Size() (int16, int16) { return w.w, w.h }

// SetBackground sets the colour under every panel.
func (w *Window) SetBackground(c color.RGBA) {
	w.bg = hal.RGB565(c.R, c.G, c.B)
	w.Invalidate()
}

// Add stacks p above the panels already added.
func (w *Window) Add(p Panel) {
	p.attach(w)
	w.panels = append(w.panels, p)
	if p.Visible() {
		w.InvalidateRect(p.Bounds())
	}
}

// Invalidate marks the whole window for repaint.
func (w *Window) Invalidate() {
	w.dirty = gfx.Rect{W: w.w, H: w.h}
}

// InvalidateRect adds r to the region repainted by the next DrawIfNeeded.
func (w *Window) InvalidateRect(r gfx.Rect) {
	r = r.Intersect(gfx.Rect{W: w.w, H: w.h})
	w.dirty = w.dirty.Union(r)
}

// Dirty reports the pending repaint region.
func (w *Window) Dirty() gfx.Rect { return w.dirty }

// Generation counts completed repaints. A change means toolkit pixels were pushed over
// whatever an immediate-mode renderer drew.
func (w *Window) Generation() uint32 { return w.gen }

// DrawIfNeeded repaints the dirty region row by row and reports whether it did.
func (w *Window) DrawIfNeeded(render RenderByLine) bool {
	r := w.dirty
	if r.Empty() {
		return false
	}
	w.dirty = gfx.Rect{}

	x0, x1 := int(r.X), int(r.X+r.W)
	var row Row
	for y := r.Y; y < r.Y+r.H; y++ {
		render(int(y), x0, x1, func(buf []Pixel) {
			for i := range buf {
				buf[i] = w.bg
			}
			row = Row{buf: buf, y: y, x0: r.X, w: w.w, h: w.h}
			for _, p := range w.panels {
				if p.Visible() && p.Bounds().ContainsRow(y) {
					p.DrawRow(&row)
				}
			}
		})
	}
	w.gen++
	return true
}
