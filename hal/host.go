//go:build !tinygo

package hal

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// HostConfig overrides parts of the host HAL, e.g. a real SPI panel on Linux.
type HostConfig struct {
	// Transport replaces the in-memory panel when set.
	Transport Transport
	// GPIO replaces the virtual pins when set.
	GPIO GPIO
	// FlashPath is the file backing the emulated data flash.
	// Empty means $CLOCKFACE_FLASH_PATH, then clockface.flash.
	FlashPath string
}

type hostHAL struct {
	logger *hostLogger
	led    *hostLED
	gpio   GPIO
	panel  *hostPanel
	tr     Transport
	kbd    *hostKeyboard
	clock  hostClock
	flash  Flash
	net    *hostNetwork

	// Virtual buttons, nil when GPIO was overridden. The window drives them from the keyboard.
	btnSelect, btnOK *virtualPin
}

// New returns a host HAL implementation.
func New() HAL {
	return NewHost(HostConfig{})
}

// NewHost returns a host HAL with the given overrides applied.
func NewHost(cfg HostConfig) HAL {
	return newHostHAL(cfg)
}

func newHostHAL(cfg HostConfig) *hostHAL {
	logger := &hostLogger{w: os.Stdout}
	led := &hostLED{logger: logger}
	var sel, ok *virtualPin
	gpio := cfg.GPIO
	if gpio == nil {
		sel = newVirtualPin("BTN_SELECT", GPIOCapInput|GPIOCapPullUp)
		ok = newVirtualPin("BTN_OK", GPIOCapInput|GPIOCapPullUp)
		gpio = newPinSet(newLEDPin("LED", led), sel, ok)
	}
	panel := newHostPanel(PanelWidth, PanelHeight, PixelFormatBGR565)
	var tr Transport = panel
	if cfg.Transport != nil {
		tr = cfg.Transport
	}
	return &hostHAL{
		logger: logger,
		led:    led,
		gpio:   gpio,
		panel:  panel,
		tr:     tr,
		kbd:    newHostKeyboard(),
		flash:  openHostFlash(cfg.FlashPath, logger),
		net:    newHostNetwork(),

		btnSelect: sel,
		btnOK:     ok,
	}
}

func openHostFlash(path string, log Logger) Flash {
	if path == "" {
		path = os.Getenv("CLOCKFACE_FLASH_PATH")
	}
	if path == "" {
		path = DefaultFlashFile
	}
	f, err := OpenFileFlash(path, DefaultFlashFileSize)
	if err != nil {
		log.WriteLineString(fmt.Sprintf("hal: no flash: %v", err))
		return nil
	}
	return f
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) LED() LED         { return h.led }
func (h *hostHAL) GPIO() GPIO       { return h.gpio }
func (h *hostHAL) Display() Display { return hostDisplay{tr: h.tr} }
func (h *hostHAL) Input() Input     { return hostInput{kbd: h.kbd} }
func (h *hostHAL) Flash() Flash     { return h.flash }
func (h *hostHAL) Clock() Clock     { return h.clock }
func (h *hostHAL) Network() Network { return h.net }

type hostDisplay struct {
	tr Transport
}

func (d hostDisplay) Transport() Transport { return d.tr }

type hostInput struct {
	kbd *hostKeyboard
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }

type hostClock struct{}

func (hostClock) Now() time.Time { return time.Now() }

type hostLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

type hostLED struct {
	mu     sync.Mutex
	on     bool
	logger *hostLogger
}

func (l *hostLED) High() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = true
	l.logger.WriteLineString("led: HIGH")
}

func (l *hostLED) Low() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = false
	l.logger.WriteLineString("led: LOW")
}
