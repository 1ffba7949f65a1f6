//go:build !tinygo

package hal

import (
	"fmt"
	"sync"
)

// hostPanel emulates a 16bpp panel controller: RAM that only changes through WriteRect.
type hostPanel struct {
	mu     sync.Mutex
	width  int16
	height int16
	format PixelFormat
	pix    []uint16
	writes uint64
}

func newHostPanel(width, height int16, format PixelFormat) *hostPanel {
	return &hostPanel{
		width:  width,
		height: height,
		format: format,
		pix:    make([]uint16, int(width)*int(height)),
	}
}

func (p *hostPanel) Size() (int16, int16)  { return p.width, p.height }
func (p *hostPanel) Format() PixelFormat { return p.format }

func (p *hostPanel) WriteRect(x, y, width, height int16, pixels []uint16) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	if x < 0 || y < 0 || x+width > p.width || y+height > p.height {
		return fmt.Errorf("panel: rect %d,%d %dx%d out of bounds", x, y, width, height)
	}
	if len(pixels) < int(width)*int(height) {
		return fmt.Errorf("panel: %d pixels for %dx%d rect", len(pixels), width, height)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	i := 0
	for py := int(y); py < int(y+height); py++ {
		row := py * int(p.width)
		copy(p.pix[row+int(x):row+int(x+width)], pixels[i:i+int(width)])
		i += int(width)
	}
	p.writes++
	return nil
}

// snapshotRGB565 copies the panel RAM into dst converted to RGB565.
func (p *hostPanel) snapshotRGB565(dst []uint16) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := copy(dst, p.pix)
	for i := 0; i < n; i++ {
		dst[i] = ToRGB565(dst[i], p.format)
	}
}
