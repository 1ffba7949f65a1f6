//go:build tinygo && baremetal

package hal

import (
	"machine"
)

type tinyGoHAL struct {
	logger *uartLogger
	led    *pinLED
	gpio   GPIO
	panel  *st7735Transport
	kbd    *stubKeyboard
	clock  tinyGoClock
	flash  Flash
	net    Network
}

// New returns a Pico (RP2040/RP2350) HAL driving a 128x128 ST7735 panel.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
// Panel: SPI0 on GP18 (SCK) / GP19 (SDO), CS GP17, DC GP21, RST GP20, backlight GP22.
// Buttons: select GP14, ok GP15, active low with pull-ups.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})
	logger := &uartLogger{uart: uart}

	ledPin := machine.LED
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	led := &pinLED{pin: ledPin}

	panel, err := newST7735Transport()
	if err != nil {
		logger.WriteLineString("hal: panel: " + err.Error())
	}

	return &tinyGoHAL{
		logger: logger,
		led:    led,
		gpio: newPinSet(
			newLEDPin("LED", led),
			&machinePin{name: "BTN_SELECT", pin: machine.GP14},
			&machinePin{name: "BTN_OK", pin: machine.GP15},
		),
		panel: panel,
		kbd:   &stubKeyboard{},
		flash: newBoardFlash(),
		net:   nullNetwork{},
	}
}

func (h *tinyGoHAL) Logger() Logger { return h.logger }
func (h *tinyGoHAL) LED() LED       { return h.led }
func (h *tinyGoHAL) GPIO() GPIO     { return h.gpio }
func (h *tinyGoHAL) Display() Display {
	if h.panel == nil {
		return tinyGoDisplay{}
	}
	return tinyGoDisplay{tr: h.panel}
}
func (h *tinyGoHAL) Input() Input     { return tinyGoInput{kbd: h.kbd} }
func (h *tinyGoHAL) Flash() Flash     { return h.flash }
func (h *tinyGoHAL) Clock() Clock     { return h.clock }
func (h *tinyGoHAL) Network() Network { return h.net }

type stubKeyboard struct{}

func (stubKeyboard) Events() <-chan KeyEvent { return nil }
