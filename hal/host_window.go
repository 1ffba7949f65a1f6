//go:build !tinygo && cgo

package hal

import (
	"image"

	"clockface/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

const hostWindowScale = 3

// RunWindow starts a desktop window that displays the emulated panel and forwards
// arrow keys, Enter and Escape as key events. S and O hold the virtual select and ok
// buttons down. It blocks until the window closes.
func RunWindow(hc HostConfig, newApp func(HAL) func() error) error {
	h := newHostHAL(hc)
	step := newApp(h)

	g := &hostGame{h: h, step: step}
	ebiten.SetWindowTitle("clockface (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(int(h.panel.width)*hostWindowScale, int(h.panel.height)*hostWindowScale)
	ebiten.SetTPS(100)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h       *hostHAL
	img     *image.RGBA
	panel   *ebiten.Image
	scratch []uint16
	step    func() error
}

func (g *hostGame) Update() error {
	g.h.kbd.poll()
	// Buttons are active low.
	if g.h.btnSelect != nil {
		g.h.btnSelect.drive(!ebiten.IsKeyPressed(ebiten.KeyS))
	}
	if g.h.btnOK != nil {
		g.h.btnOK.drive(!ebiten.IsKeyPressed(ebiten.KeyO))
	}
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	p := g.h.panel
	w, ht := int(p.width), int(p.height)
	if g.img == nil {
		g.img = image.NewRGBA(image.Rect(0, 0, w, ht))
		g.scratch = make([]uint16, w*ht)
		g.panel = ebiten.NewImage(w, ht)
	}

	p.snapshotRGB565(g.scratch)

	dst := g.img.Pix
	for i, px := range g.scratch {
		r, gg, b := RGB888From565(px)
		j := i * 4
		dst[j+0] = r
		dst[j+1] = gg
		dst[j+2] = b
		dst[j+3] = 0xFF
	}

	g.panel.WritePixels(g.img.Pix)
	screen.DrawImage(g.panel, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(g.h.panel.width), int(g.h.panel.height)
}
