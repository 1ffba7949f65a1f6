// Package st7735 drives an ST7735 TFT controller over a periph.io SPI port and
// exposes it as a hal.Transport.
//
// Only the 16bpp mode is used: every WriteRect sets an address window and streams
// big-endian pixels.
package st7735

import (
	"errors"
	"fmt"
	"time"

	"clockface/hal"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

const (
	cmdSWRESET = 0x01
	cmdSLPOUT  = 0x11
	cmdNORON   = 0x13
	cmdINVOFF  = 0x20
	cmdDISPOFF = 0x28
	cmdDISPON  = 0x29
	cmdCASET   = 0x2A
	cmdRASET   = 0x2B
	cmdRAMWR   = 0x2C
	cmdMADCTL  = 0x36
	cmdCOLMOD  = 0x3A

	madctlMY = 0x80
	madctlMX = 0x40
	madctlMV = 0x20

	defaultMaxTx = 4096
)

// Rotation selects the scan direction, in quarter turns.
type Rotation uint8

const (
	Rotation0 Rotation = iota
	Rotation90
	Rotation180
	Rotation270
)

// Opts is the panel configuration.
type Opts struct {
	W, H int16 // Default 128x128 (1.44" green tab)

	// ColOffset and RowOffset map the visible area into controller RAM.
	ColOffset, RowOffset int16

	Rotation Rotation

	// Format is the native pixel order. Zero means BGR565.
	Format hal.PixelFormat

	// Frequency of the SPI clock. Zero means 16MHz.
	Frequency physic.Frequency

	RST gpio.PinOut // optional
	BL  gpio.PinOut // optional backlight
}

// Dev is an ST7735 panel.
type Dev struct {
	c   conn.Conn
	dc  gpio.PinOut
	rst gpio.PinOut
	bl  gpio.PinOut

	w, h           int16
	colOff, rowOff int16
	format         hal.PixelFormat

	maxTx int
	buf   []byte
	win   [4]byte
}

var _ hal.Transport = (*Dev)(nil)

// NewSPI connects to the panel in SPI mode 0 and runs the init sequence.
func NewSPI(p spi.Port, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	if dc == nil {
		return nil, errors.New("st7735: dc pin is required")
	}
	if opts == nil {
		opts = &Opts{}
	}
	o := *opts
	if o.W == 0 && o.H == 0 {
		o.W, o.H = hal.PanelWidth, hal.PanelHeight
		o.ColOffset, o.RowOffset = 2, 3
	}
	if o.W <= 0 || o.H <= 0 || o.W > 162 || o.H > 162 {
		return nil, fmt.Errorf("st7735: invalid size %dx%d", o.W, o.H)
	}
	if o.Format == 0 {
		o.Format = hal.PixelFormatBGR565
	}
	if o.Frequency == 0 {
		o.Frequency = 16 * physic.MegaHertz
	}

	c, err := p.Connect(o.Frequency, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("st7735: connect: %w", err)
	}

	d := &Dev{
		c:      c,
		dc:     dc,
		rst:    o.RST,
		bl:     o.BL,
		w:      o.W,
		h:      o.H,
		colOff: o.ColOffset,
		rowOff: o.RowOffset,
		format: o.Format,
		maxTx:  defaultMaxTx,
	}
	if l, ok := c.(conn.Limits); ok && l.MaxTxSize() > 0 {
		d.maxTx = l.MaxTxSize()
	}
	if o.Rotation == Rotation90 || o.Rotation == Rotation270 {
		d.w, d.h = d.h, d.w
		d.colOff, d.rowOff = d.rowOff, d.colOff
	}
	d.buf = make([]byte, int(d.w)*2)

	if err := d.init(o.Rotation); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("st7735.Dev{%dx%d}", d.w, d.h)
}

func (d *Dev) Size() (int16, int16)    { return d.w, d.h }
func (d *Dev) Format() hal.PixelFormat { return d.format }

// init follows the controller's power-on sequence for the green tab panels.
func (d *Dev) init(rot Rotation) error {
	if d.rst != nil {
		if err := d.rst.Out(gpio.Low); err != nil {
			return fmt.Errorf("st7735: failed to pull RST low: %w", err)
		}
		time.Sleep(10 * time.Millisecond)
		if err := d.rst.Out(gpio.High); err != nil {
			return fmt.Errorf("st7735: failed to pull RST high: %w", err)
		}
		time.Sleep(120 * time.Millisecond)
	}

	steps := []struct {
		cmd   byte
		data  []byte
		delay time.Duration
	}{
		{cmdSWRESET, nil, 150 * time.Millisecond},
		{cmdSLPOUT, nil, 255 * time.Millisecond},
		{0xB1, []byte{0x01, 0x2C, 0x2D}, 0},                   // FRMCTR1
		{0xB2, []byte{0x01, 0x2C, 0x2D}, 0},                   // FRMCTR2
		{0xB3, []byte{0x01, 0x2C, 0x2D, 0x01, 0x2C, 0x2D}, 0}, // FRMCTR3
		{0xB4, []byte{0x07}, 0},                               // INVCTR
		{0xC0, []byte{0xA2, 0x02, 0x84}, 0},                   // PWCTR1
		{0xC1, []byte{0xC5}, 0},                               // PWCTR2
		{0xC2, []byte{0x0A, 0x00}, 0},                         // PWCTR3
		{0xC3, []byte{0x8A, 0x2A}, 0},                         // PWCTR4
		{0xC4, []byte{0x8A, 0xEE}, 0},                         // PWCTR5
		{0xC5, []byte{0x0E}, 0},                               // VMCTR1
		{cmdINVOFF, nil, 0},
		{cmdMADCTL, []byte{madctl(rot)}, 0},
		{cmdCOLMOD, []byte{0x05}, 0},
		{0xE0, []byte{0x02, 0x1C, 0x07, 0x12, 0x37, 0x32, 0x29, 0x2D, 0x29, 0x25, 0x2B, 0x39, 0x00, 0x01, 0x03, 0x10}, 0},
		{0xE1, []byte{0x03, 0x1D, 0x07, 0x06, 0x2E, 0x2C, 0x29, 0x2D, 0x2E, 0x2E, 0x37, 0x3F, 0x00, 0x00, 0x02, 0x10}, 0},
		{cmdNORON, nil, 10 * time.Millisecond},
		{cmdDISPON, nil, 100 * time.Millisecond},
	}
	for _, s := range steps {
		if err := d.sendCommand(s.cmd); err != nil {
			return fmt.Errorf("st7735: init %#02x: %w", s.cmd, err)
		}
		if len(s.data) > 0 {
			if err := d.sendData(s.data); err != nil {
				return fmt.Errorf("st7735: init %#02x: %w", s.cmd, err)
			}
		}
		if s.delay > 0 {
			time.Sleep(s.delay)
		}
	}
	if d.bl != nil {
		if err := d.bl.Out(gpio.High); err != nil {
			return fmt.Errorf("st7735: backlight: %w", err)
		}
	}
	return nil
}

func madctl(rot Rotation) byte {
	switch rot {
	case Rotation90:
		return madctlMY | madctlMV
	case Rotation180:
		return 0
	case Rotation270:
		return madctlMX | madctlMV
	default:
		return madctlMX | madctlMY
	}
}

// WriteRect writes width*height native pixels in row-major order.
func (d *Dev) WriteRect(x, y, width, height int16, pixels []uint16) error {
	n := int(width) * int(height)
	if n <= 0 {
		return nil
	}
	if x < 0 || y < 0 || x+width > d.w || y+height > d.h {
		return fmt.Errorf("st7735: rect %d,%d %dx%d out of bounds", x, y, width, height)
	}
	if len(pixels) < n {
		return fmt.Errorf("st7735: %d pixels for %dx%d rect", len(pixels), width, height)
	}
	if err := d.setWindow(x, y, width, height); err != nil {
		return err
	}
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}

	// Stream in chunks no larger than one transfer.
	chunk := d.maxTx / 2
	if chunk > len(d.buf)/2 {
		chunk = len(d.buf) / 2
	}
	if chunk < 1 {
		chunk = 1
	}
	for n > 0 {
		k := chunk
		if k > n {
			k = n
		}
		b := d.buf[:2*k]
		for i, p := range pixels[:k] {
			b[2*i] = byte(p >> 8)
			b[2*i+1] = byte(p)
		}
		if err := d.c.Tx(b, nil); err != nil {
			return fmt.Errorf("st7735: ramwr: %w", err)
		}
		pixels = pixels[k:]
		n -= k
	}
	return nil
}

func (d *Dev) setWindow(x, y, width, height int16) error {
	x0, x1 := uint16(x+d.colOff), uint16(x+width-1+d.colOff)
	y0, y1 := uint16(y+d.rowOff), uint16(y+height-1+d.rowOff)

	if err := d.sendCommand(cmdCASET); err != nil {
		return err
	}
	d.win = [4]byte{byte(x0 >> 8), byte(x0), byte(x1 >> 8), byte(x1)}
	if err := d.sendData(d.win[:]); err != nil {
		return err
	}
	if err := d.sendCommand(cmdRASET); err != nil {
		return err
	}
	d.win = [4]byte{byte(y0 >> 8), byte(y0), byte(y1 >> 8), byte(y1)}
	if err := d.sendData(d.win[:]); err != nil {
		return err
	}
	return d.sendCommand(cmdRAMWR)
}

// Halt turns the panel and backlight off.
func (d *Dev) Halt() error {
	if d.bl != nil {
		if err := d.bl.Out(gpio.Low); err != nil {
			return err
		}
	}
	return d.sendCommand(cmdDISPOFF)
}

func (d *Dev) sendCommand(cmd byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return err
	}
	return d.c.Tx([]byte{cmd}, nil)
}

func (d *Dev) sendData(data []byte) error {
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	return d.c.Tx(data, nil)
}
