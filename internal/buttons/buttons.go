// Package buttons turns raw button levels into click and double-click gestures.
package buttons

import (
	"fmt"
	"time"

	"clockface/hal"
)

// Gesture is what a button reported since the last poll.
type Gesture uint8

const (
	None Gesture = iota
	Click
	DoubleClick
)

func (g Gesture) String() string {
	switch g {
	case Click:
		return "click"
	case DoubleClick:
		return "double-click"
	default:
		return "none"
	}
}

const (
	DefaultDebounce    = 20 * time.Millisecond
	DefaultDoubleClick = 300 * time.Millisecond
)

// Detector recognises gestures from a stream of (pressed, time) samples.
//
// A click is reported once the double-click window after its release has passed
// without a second press, so a double click never also yields a click.
type Detector struct {
	Debounce    time.Duration
	DoubleClick time.Duration

	pressed    bool
	lastChange time.Time
	clicks     int
	releasedAt time.Time
}

// Update feeds one sample and returns the gesture it completed, if any.
func (d *Detector) Update(pressed bool, now time.Time) Gesture {
	debounce, window := d.Debounce, d.DoubleClick
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if window <= 0 {
		window = DefaultDoubleClick
	}

	// A pending click whose window has passed completes before this sample's edge,
	// so a late second press starts a new gesture.
	g := None
	if d.clicks == 1 && !d.pressed && now.Sub(d.releasedAt) >= window {
		d.clicks = 0
		g = Click
	}

	if pressed != d.pressed && now.Sub(d.lastChange) >= debounce {
		d.pressed = pressed
		d.lastChange = now
		if !pressed {
			d.clicks++
			d.releasedAt = now
			if d.clicks == 2 {
				d.clicks = 0
				return DoubleClick
			}
		}
	}
	return g
}

// Button samples one GPIO pin.
type Button struct {
	Name      string
	pin       hal.GPIOPin
	activeLow bool
	det       Detector
}

// NewButton configures pin as an input. Active-low buttons get the pull-up when the pin has one.
func NewButton(name string, pin hal.GPIOPin, activeLow bool) (*Button, error) {
	if pin == nil {
		return nil, fmt.Errorf("buttons: %s: no pin", name)
	}
	pull := hal.GPIOPullNone
	if activeLow && pin.Caps()&hal.GPIOCapPullUp != 0 {
		pull = hal.GPIOPullUp
	}
	if err := pin.Configure(hal.GPIOModeInput, pull); err != nil {
		return nil, fmt.Errorf("buttons: %s: %w", name, err)
	}
	return &Button{Name: name, pin: pin, activeLow: activeLow}, nil
}

// Poll reads the pin once.
func (b *Button) Poll(now time.Time) (Gesture, error) {
	level, err := b.pin.Read()
	if err != nil {
		return None, fmt.Errorf("buttons: %s: %w", b.Name, err)
	}
	return b.det.Update(level != b.activeLow, now), nil
}

// FindPin returns the first pin of g with the given name.
func FindPin(g hal.GPIO, name string) hal.GPIOPin {
	if g == nil {
		return nil
	}
	for i := 0; i < g.PinCount(); i++ {
		if p := g.Pin(i); p != nil && p.Name() == name {
			return p
		}
	}
	return nil
}
