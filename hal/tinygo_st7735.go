//go:build tinygo && baremetal

package hal

import (
	"errors"
	"fmt"
	"machine"

	"tinygo.org/x/drivers/st7735"
)

// st7735Transport pushes rows to the panel through the tinygo st7735 driver.
type st7735Transport struct {
	dev st7735.Device
	buf []byte
}

func newST7735Transport() (*st7735Transport, error) {
	if machine.SPI0 == nil {
		return nil, errors.New("SPI0 unavailable")
	}
	if err := machine.SPI0.Configure(machine.SPIConfig{
		SCK:       machine.GP18,
		SDO:       machine.GP19,
		Frequency: 24_000_000,
	}); err != nil {
		return nil, fmt.Errorf("spi0: %w", err)
	}

	dev := st7735.New(machine.SPI0, machine.GP20, machine.GP21, machine.GP17, machine.GP22)
	dev.Configure(st7735.Config{
		Width:  PanelWidth,
		Height: PanelHeight,
		Model:  st7735.GREENTAB,
	})
	return &st7735Transport{
		dev: dev,
		buf: make([]byte, PanelWidth*2),
	}, nil
}

func (t *st7735Transport) Size() (int16, int16) { return PanelWidth, PanelHeight }

// Format is BGR565: the driver leaves MADCTL in RGB order and this panel has red and blue swapped.
func (t *st7735Transport) Format() PixelFormat { return PixelFormatBGR565 }

func (t *st7735Transport) WriteRect(x, y, width, height int16, pixels []uint16) error {
	n := int(width) * int(height)
	if n <= 0 {
		return nil
	}
	if len(pixels) < n {
		return fmt.Errorf("st7735: %d pixels for %dx%d rect", len(pixels), width, height)
	}
	if cap(t.buf) < n*2 {
		t.buf = make([]byte, n*2)
	}
	b := t.buf[:n*2]
	for i, p := range pixels[:n] {
		b[2*i] = byte(p >> 8)
		b[2*i+1] = byte(p)
	}
	return t.dev.DrawRGBBitmap8(x, y, b, width, height)
}
