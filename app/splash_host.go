//go:build !tinygo

package app

import (
	"bytes"
	_ "embed"
	"image"

	"clockface/display/gfx"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

//go:embed assets/logo.svg
var logoSVG []byte

// drawSplash rasterizes the embedded SVG logo into r.
func drawSplash(c *gfx.Canvas, r gfx.Rect) error {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(logoSVG))
	if err != nil {
		return err
	}
	w, h := int(r.W), int(r.H)
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := img.RGBAAt(x, y)
			if px.A == 0 {
				continue
			}
			c.SetPixel(r.X+int16(x), r.Y+int16(y), px)
		}
	}
	return c.Display()
}
