//go:build !tinygo

package st7735

import (
	"fmt"
	"io"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// Pins names the panel's control lines in periph's registry, e.g. "GPIO24".
// RST and BL may be empty.
type Pins struct {
	DC, RST, BL string
}

// Open initializes the host drivers and opens the panel on the named SPI port
// ("" picks the first one). The returned closer releases the port.
func Open(port string, pins Pins, opts *Opts) (*Dev, io.Closer, error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, fmt.Errorf("st7735: host init: %w", err)
	}
	dc, err := outPin(pins.DC)
	if err != nil {
		return nil, nil, err
	}
	if dc == nil {
		return nil, nil, fmt.Errorf("st7735: dc pin is required")
	}
	o := Opts{}
	if opts != nil {
		o = *opts
	}
	if o.RST, err = outPin(pins.RST); err != nil {
		return nil, nil, err
	}
	if o.BL, err = outPin(pins.BL); err != nil {
		return nil, nil, err
	}

	p, err := spireg.Open(port)
	if err != nil {
		return nil, nil, fmt.Errorf("st7735: open spi %q: %w", port, err)
	}
	d, err := NewSPI(p, dc, &o)
	if err != nil {
		_ = p.Close()
		return nil, nil, err
	}
	return d, p, nil
}

func outPin(name string) (gpio.PinOut, error) {
	if name == "" {
		return nil, nil
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("st7735: gpio %s not found", name)
	}
	return p, nil
}
