package hal

import (
	"fmt"
	"sync"
)

// GPIOMode selects whether a pin is an input or output.
type GPIOMode uint8

const (
	GPIOModeInput GPIOMode = iota
	GPIOModeOutput
)

// GPIOPull selects the pull resistor configuration.
type GPIOPull uint8

const (
	GPIOPullNone GPIOPull = iota
	GPIOPullUp
	GPIOPullDown
)

// GPIOCaps declares what operations a pin supports.
type GPIOCaps uint8

const (
	GPIOCapInput GPIOCaps = 1 << iota
	GPIOCapOutput
	GPIOCapPullUp
	GPIOCapPullDown
)

// GPIO is a set of named digital pins. Buttons find theirs by name.
type GPIO interface {
	PinCount() int
	Pin(id int) GPIOPin
}

// GPIOPin is a single digital IO pin.
type GPIOPin interface {
	Name() string
	Caps() GPIOCaps
	Configure(mode GPIOMode, pull GPIOPull) error
	Read() (level bool, err error)
	Write(level bool) error
}

// checkConfig reports whether caps allow mode and pull.
func checkConfig(name string, caps GPIOCaps, mode GPIOMode, pull GPIOPull) error {
	var need GPIOCaps
	switch mode {
	case GPIOModeInput:
		need = GPIOCapInput
	case GPIOModeOutput:
		need = GPIOCapOutput
	default:
		return fmt.Errorf("gpio: %s: invalid mode %d", name, mode)
	}
	switch pull {
	case GPIOPullNone:
	case GPIOPullUp:
		need |= GPIOCapPullUp
	case GPIOPullDown:
		need |= GPIOCapPullDown
	default:
		return fmt.Errorf("gpio: %s: invalid pull %d", name, pull)
	}
	if caps&need != need {
		return fmt.Errorf("gpio: %s: mode %d pull %d unsupported", name, mode, pull)
	}
	return nil
}

// pinSet is a fixed list of pins. A nil pin is skipped.
type pinSet []GPIOPin

func newPinSet(pins ...GPIOPin) pinSet {
	s := make(pinSet, 0, len(pins))
	for _, p := range pins {
		if p != nil {
			s = append(s, p)
		}
	}
	return s
}

func (s pinSet) PinCount() int { return len(s) }

func (s pinSet) Pin(id int) GPIOPin {
	if id < 0 || id >= len(s) {
		return nil
	}
	return s[id]
}

// virtualPin holds a level in memory. Inputs idle at their pull level until driven.
type virtualPin struct {
	mu    sync.Mutex
	name  string
	caps  GPIOCaps
	out   bool
	level bool
}

func newVirtualPin(name string, caps GPIOCaps) *virtualPin {
	return &virtualPin{name: name, caps: caps}
}

func (p *virtualPin) Name() string   { return p.name }
func (p *virtualPin) Caps() GPIOCaps { return p.caps }

func (p *virtualPin) Configure(mode GPIOMode, pull GPIOPull) error {
	if err := checkConfig(p.name, p.caps, mode, pull); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.out = mode == GPIOModeOutput
	if !p.out {
		p.level = pull == GPIOPullUp
	}
	return nil
}

// drive sets the level an external source holds on the pin.
func (p *virtualPin) drive(level bool) {
	p.mu.Lock()
	p.level = level
	p.mu.Unlock()
}

func (p *virtualPin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level, nil
}

func (p *virtualPin) Write(level bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.out {
		return fmt.Errorf("gpio: %s: not an output", p.name)
	}
	p.level = level
	return nil
}

// ledPin exposes the status LED as an output pin.
type ledPin struct {
	virtualPin
	led LED
}

func newLEDPin(name string, led LED) GPIOPin {
	if led == nil {
		return nil
	}
	return &ledPin{virtualPin: virtualPin{name: name, caps: GPIOCapOutput, out: true}, led: led}
}

func (p *ledPin) Write(level bool) error {
	if err := p.virtualPin.Write(level); err != nil {
		return err
	}
	if level {
		p.led.High()
	} else {
		p.led.Low()
	}
	return nil
}
