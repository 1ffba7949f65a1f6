//go:build tinygo

package app

import (
	"clockface/display/clock"
	"clockface/display/gfx"
)

// drawSplash draws the logo with primitives; there is no SVG rasterizer on the MCU.
func drawSplash(c *gfx.Canvas, r gfx.Rect) error {
	cx, cy := r.X+r.W/2, r.Y+r.H/2
	rad := r.W/2 - 3
	if err := c.DrawCircle(cx, cy, rad, 3, gfx.ColorForeground); err != nil {
		return err
	}
	if err := c.FillCircle(cx, cy, 3, gfx.ColorForeground); err != nil {
		return err
	}
	x, y := clock.Polar(cx, cy, clock.HourAngle(0), rad-9)
	if err := c.DrawLine(cx, cy, x, y, 3, gfx.ColorHourHand); err != nil {
		return err
	}
	x, y = clock.Polar(cx, cy, clock.MinuteAngle(20), rad-6)
	return c.DrawLine(cx, cy, x, y, 2, gfx.ColorMinuteHand)
}
