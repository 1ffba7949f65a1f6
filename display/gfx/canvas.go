package gfx

import (
	"image/color"

	"clockface/hal"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinydraw"
	"tinygo.org/x/tinyfont"
)

// Canvas draws straight onto a Pixel Transport.
//
// It is a drivers.Displayer, so tinyfont, tinydraw and tinyterm can render on it.
// Single pixels are coalesced into horizontal runs of one colour, and each run is
// one WriteRect. Canvas is not safe for concurrent use.
type Canvas struct {
	t      hal.Transport
	format hal.PixelFormat
	w, h   int16
	row    []uint16

	runX, runY, runN int16
	runC             uint16

	err error
}

var _ drivers.Displayer = (*Canvas)(nil)
var _ Target = (*Canvas)(nil)

// NewCanvas returns a canvas covering the whole transport.
func NewCanvas(t hal.Transport) *Canvas {
	w, h := t.Size()
	return &Canvas{
		t:      t,
		format: t.Format(),
		w:      w,
		h:      h,
		row:    make([]uint16, w),
	}
}

func (c *Canvas) Size() (int16, int16) { return c.w, c.h }

// SetPixel queues one pixel. Errors surface from Display or the Target method in progress.
func (c *Canvas) SetPixel(x, y int16, col color.RGBA) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	p := c.native(col)
	if c.runN > 0 && y == c.runY && x == c.runX+c.runN && p == c.runC {
		c.runN++
		return
	}
	c.flush()
	c.runX, c.runY, c.runN, c.runC = x, y, 1, p
}

// Display flushes pending pixels and returns the first transport error since the last call.
func (c *Canvas) Display() error {
	return c.end()
}

// FillRectangle is the tinyterm/drivers fast path: one WriteRect per row.
func (c *Canvas) FillRectangle(x, y, width, height int16, col color.RGBA) error {
	c.fillRect(x, y, width, height, col)
	return c.end()
}

// SetScroll is a no-op: the panel is driven without hardware scrolling.
func (c *Canvas) SetScroll(line int16) {}

// SetRotation is a no-op: rotation is fixed when the panel is configured.
func (c *Canvas) SetRotation(rotation drivers.Rotation) error { return nil }

func (c *Canvas) Fill(col color.RGBA) error {
	c.fillRect(0, 0, c.w, c.h, col)
	return c.end()
}

func (c *Canvas) FillRect(x, y, width, height int16, col color.RGBA) error {
	c.fillRect(x, y, width, height, col)
	return c.end()
}

func (c *Canvas) DrawLine(x0, y0, x1, y1, width int16, col color.RGBA) error {
	if width < 1 {
		width = 1
	}
	dx, dy := x1-x0, y1-y0
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	// Thick lines are parallel 1px lines offset across the major axis.
	for off := -(width - 1) / 2; off <= width/2; off++ {
		if dx >= dy {
			tinydraw.Line(c, x0, y0+off, x1, y1+off, col)
		} else {
			tinydraw.Line(c, x0+off, y0, x1+off, y1, col)
		}
	}
	return c.end()
}

func (c *Canvas) DrawCircle(cx, cy, r, stroke int16, col color.RGBA) error {
	if stroke < 1 {
		stroke = 1
	}
	for i := int16(0); i < stroke && r-i >= 0; i++ {
		tinydraw.Circle(c, cx, cy, r-i, col)
	}
	return c.end()
}

func (c *Canvas) FillCircle(cx, cy, r int16, col color.RGBA) error {
	tinydraw.FilledCircle(c, cx, cy, r, col)
	return c.end()
}

func (c *Canvas) DrawText(x, y int16, font tinyfont.Fonter, s string, col color.RGBA) (Rect, error) {
	tinyfont.WriteLine(c, font, x, y, s, col)
	return TextBounds(font, x, y, s), c.end()
}

func (c *Canvas) native(col color.RGBA) uint16 {
	return hal.FromRGB565(hal.RGB565(col.R, col.G, col.B), c.format)
}

func (c *Canvas) fillRect(x, y, width, height int16, col color.RGBA) {
	r := Rect{X: x, Y: y, W: width, H: height}.Intersect(Rect{W: c.w, H: c.h})
	if r.Empty() {
		return
	}
	c.flush()
	p := c.native(col)
	row := c.row[:r.W]
	for i := range row {
		row[i] = p
	}
	for py := r.Y; py < r.Y+r.H; py++ {
		c.write(r.X, py, row)
	}
}

func (c *Canvas) flush() {
	if c.runN == 0 {
		return
	}
	row := c.row[:c.runN]
	for i := range row {
		row[i] = c.runC
	}
	c.runN = 0
	c.write(c.runX, c.runY, row)
}

// write sends one row, unless an earlier write in this primitive already failed.
func (c *Canvas) write(x, y int16, row []uint16) {
	if c.err != nil {
		return
	}
	c.err = c.t.WriteRect(x, y, int16(len(row)), 1, row)
}

func (c *Canvas) end() error {
	c.flush()
	err := c.err
	c.err = nil
	return err
}
