package app

import (
	"fmt"

	"clockface/display/gfx"
	"clockface/internal/buildinfo"

	"tinygo.org/x/tinyfont/proggy"
	"tinygo.org/x/tinyterm"
)

const splashSize = 64

// bootScreen paints the logo and a small console under it, and returns the console.
// The UI replaces it once the network is up or the boot hold expires.
func bootScreen(c *gfx.Canvas) (*tinyterm.Terminal, error) {
	w, h := c.Size()
	if err := c.Fill(gfx.ColorBackground); err != nil {
		return nil, fmt.Errorf("boot: clear: %w", err)
	}
	logo := gfx.Rect{X: (w - splashSize) / 2, Y: 8, W: splashSize, H: splashSize}
	if err := drawSplash(c, logo); err != nil {
		return nil, fmt.Errorf("boot: splash: %w", err)
	}

	top := logo.Y + logo.H + 6
	term := tinyterm.NewTerminal(gfx.NewRegion(c, gfx.Rect{X: 2, Y: top, W: w - 4, H: h - top}))
	term.Configure(&tinyterm.Config{
		Font:       &proggy.TinySZ8pt7b,
		FontHeight: 10,
		FontOffset: 7,
	})
	fmt.Fprintf(term, "clockface %s\r\n", buildinfo.Short())
	fmt.Fprintf(term, "Wait for network...\r\n")
	return term, nil
}
