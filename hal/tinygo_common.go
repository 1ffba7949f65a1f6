//go:build tinygo && baremetal

package hal

import (
	"fmt"
	"machine"
	"time"
)

type tinyGoDisplay struct {
	tr Transport
}

func (d tinyGoDisplay) Transport() Transport { return d.tr }

type tinyGoInput struct {
	kbd Keyboard
}

func (in tinyGoInput) Keyboard() Keyboard { return in.kbd }

// tinyGoClock reads the runtime wall clock, which the time-sync collaborator adjusts.
type tinyGoClock struct{}

func (tinyGoClock) Now() time.Time { return time.Now() }

// uartLogger writes CRLF-terminated lines to the debug UART.
type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) { l.WriteLineBytes([]byte(s)) }

func (l *uartLogger) WriteLineBytes(b []byte) {
	_, _ = l.uart.Write(b)
	_, _ = l.uart.Write(crlf)
}

var crlf = []byte{'\r', '\n'}

type pinLED struct {
	pin machine.Pin
}

func (l *pinLED) High() { l.pin.High() }
func (l *pinLED) Low()  { l.pin.Low() }

const machinePinCaps = GPIOCapInput | GPIOCapOutput | GPIOCapPullUp | GPIOCapPullDown

// machinePin exposes an MCU pin as a GPIOPin.
type machinePin struct {
	name string
	pin  machine.Pin
	out  bool
}

func (p *machinePin) Name() string   { return p.name }
func (p *machinePin) Caps() GPIOCaps { return machinePinCaps }

func (p *machinePin) Configure(mode GPIOMode, pull GPIOPull) error {
	if err := checkConfig(p.name, machinePinCaps, mode, pull); err != nil {
		return err
	}
	m := machine.PinInput
	switch {
	case mode == GPIOModeOutput:
		m = machine.PinOutput
	case pull == GPIOPullUp:
		m = machine.PinInputPullup
	case pull == GPIOPullDown:
		m = machine.PinInputPulldown
	}
	p.pin.Configure(machine.PinConfig{Mode: m})
	p.out = mode == GPIOModeOutput
	return nil
}

func (p *machinePin) Read() (bool, error) { return p.pin.Get(), nil }

func (p *machinePin) Write(level bool) error {
	if !p.out {
		return fmt.Errorf("gpio: %s: not an output", p.name)
	}
	p.pin.Set(level)
	return nil
}
