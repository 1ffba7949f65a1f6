package gfx

import (
	"image/color"

	"tinygo.org/x/drivers"
)

// Region is a canvas window with its own origin. Pixels outside it are dropped,
// so a terminal can own part of the screen.
type Region struct {
	c *Canvas
	r Rect
}

func NewRegion(c *Canvas, r Rect) *Region {
	return &Region{c: c, r: r.Intersect(Rect{W: c.w, H: c.h})}
}

func (g *Region) Size() (int16, int16) { return g.r.W, g.r.H }

func (g *Region) SetPixel(x, y int16, col color.RGBA) {
	if x < 0 || y < 0 || x >= g.r.W || y >= g.r.H {
		return
	}
	g.c.SetPixel(g.r.X+x, g.r.Y+y, col)
}

func (g *Region) Display() error { return g.c.Display() }

func (g *Region) FillRectangle(x, y, width, height int16, col color.RGBA) error {
	r := Rect{X: x, Y: y, W: width, H: height}.Intersect(Rect{W: g.r.W, H: g.r.H})
	if r.Empty() {
		return nil
	}
	return g.c.FillRectangle(g.r.X+r.X, g.r.Y+r.Y, r.W, r.H, col)
}

func (g *Region) SetScroll(line int16) {}

func (g *Region) SetRotation(rotation drivers.Rotation) error { return nil }
