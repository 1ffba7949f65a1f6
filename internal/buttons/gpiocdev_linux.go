//go:build linux && !tinygo

package buttons

import (
	"fmt"
	"sync"

	"clockface/hal"

	"github.com/warthog618/go-gpiocdev"
)

// ChipGPIO exposes character-device GPIO lines as hal pins.
type ChipGPIO struct {
	pins []*cdevPin
}

var _ hal.GPIO = (*ChipGPIO)(nil)

// OpenChip requests each named line offset on chip (e.g. "gpiochip0") as an input.
func OpenChip(chip string, lines map[string]int) (*ChipGPIO, error) {
	g := &ChipGPIO{}
	for name, offset := range lines {
		l, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsInput, gpiocdev.WithConsumer("clockface"))
		if err != nil {
			g.Close()
			return nil, fmt.Errorf("buttons: request %s line %d (%s): %w", chip, offset, name, err)
		}
		g.pins = append(g.pins, &cdevPin{name: name, line: l})
	}
	return g, nil
}

func (g *ChipGPIO) PinCount() int { return len(g.pins) }

func (g *ChipGPIO) Pin(id int) hal.GPIOPin {
	if id < 0 || id >= len(g.pins) {
		return nil
	}
	return g.pins[id]
}

// Close releases every requested line.
func (g *ChipGPIO) Close() error {
	var first error
	for _, p := range g.pins {
		if err := p.line.Close(); err != nil && first == nil {
			first = err
		}
	}
	g.pins = nil
	return first
}

type cdevPin struct {
	mu   sync.Mutex
	name string
	line *gpiocdev.Line
	out  bool
}

func (p *cdevPin) Name() string { return p.name }

func (p *cdevPin) Caps() hal.GPIOCaps {
	return hal.GPIOCapInput | hal.GPIOCapOutput | hal.GPIOCapPullUp | hal.GPIOCapPullDown
}

func (p *cdevPin) Configure(mode hal.GPIOMode, pull hal.GPIOPull) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var opts []gpiocdev.LineConfigOption
	switch mode {
	case hal.GPIOModeInput:
		opts = append(opts, gpiocdev.AsInput)
	case hal.GPIOModeOutput:
		opts = append(opts, gpiocdev.AsOutput(0))
	default:
		return fmt.Errorf("gpio: pin %s: invalid mode", p.name)
	}
	switch pull {
	case hal.GPIOPullUp:
		opts = append(opts, gpiocdev.WithPullUp)
	case hal.GPIOPullDown:
		opts = append(opts, gpiocdev.WithPullDown)
	}
	if err := p.line.Reconfigure(opts...); err != nil {
		return fmt.Errorf("gpio: pin %s: %w", p.name, err)
	}
	p.out = mode == hal.GPIOModeOutput
	return nil
}

func (p *cdevPin) Read() (bool, error) {
	v, err := p.line.Value()
	if err != nil {
		return false, fmt.Errorf("gpio: pin %s: %w", p.name, err)
	}
	return v != 0, nil
}

func (p *cdevPin) Write(level bool) error {
	p.mu.Lock()
	out := p.out
	p.mu.Unlock()
	if !out {
		return fmt.Errorf("gpio: pin %s: not in output mode", p.name)
	}
	v := 0
	if level {
		v = 1
	}
	return p.line.SetValue(v)
}
