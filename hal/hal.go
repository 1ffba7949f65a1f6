package hal

import (
	"errors"
	"fmt"
	"net/netip"
	"time"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is a minimal output pin abstraction.
type LED interface {
	High()
	Low()
}

var (
	ErrNotImplemented = errors.New("not implemented")

	// ErrTransportTimeout reports a pixel write that did not finish in time.
	ErrTransportTimeout = errors.New("transport: write timed out")

	// ErrTransportBusy reports a write attempted while a timed-out write is still on the bus.
	ErrTransportBusy = errors.New("transport: bus busy")
)

// PanelWidth and PanelHeight are the physical size of the 1.44" ST7735 panel.
const (
	PanelWidth  = 128
	PanelHeight = 128
)

// PixelFormat defines the native pixel encoding of a panel.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
	// PixelFormatBGR565 is 16bpp: bbbbbggggggrrrrr.
	PixelFormatBGR565
)

func (f PixelFormat) String() string {
	switch f {
	case PixelFormatRGB565:
		return "rgb565"
	case PixelFormatBGR565:
		return "bgr565"
	default:
		return "unknown"
	}
}

// Transport pushes pixel rows to a physical panel.
//
// WriteRect receives width*height native pixels in row-major order.
// It is synchronous and may block on the bus.
type Transport interface {
	Size() (width, height int16)
	Format() PixelFormat
	WriteRect(x, y, width, height int16, pixels []uint16) error
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyLeft
	KeyRight
	KeyEnter
	KeyEscape
)

func (k KeyCode) String() string {
	switch k {
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyEnter:
		return "enter"
	case KeyEscape:
		return "escape"
	default:
		return "unknown"
	}
}

// KeyEvent is a keyboard (or button) event.
type KeyEvent struct {
	Code  KeyCode
	Press bool
}

// Keyboard provides key events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// Display provides access to the panel transport (if available).
type Display interface {
	Transport() Transport
}

// Input provides access to input devices (if available).
type Input interface {
	Keyboard() Keyboard
}

// Flash provides raw access to non-volatile memory.
//
// It is intentionally low-level: addresses and erase blocks only.
type Flash interface {
	SizeBytes() uint32
	EraseBlockBytes() uint32
	ReadAt(p []byte, off uint32) (int, error)
	WriteAt(p []byte, off uint32) (int, error)
	Erase(off, size uint32) error
}

// Clock provides wall-clock time as set by the time-sync collaborator.
type Clock interface {
	Now() time.Time
}

// NetInfo describes the station interface once it is up.
type NetInfo struct {
	IP      netip.Addr
	Gateway netip.Addr
	Subnet  netip.Prefix
	DNS     netip.Addr
}

// MAC is a 48-bit hardware address.
type MAC [6]byte

func (m MAC) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", m[0], m[1], m[2], m[3], m[4], m[5])
}

// Network reports connectivity (optional).
type Network interface {
	// Info returns the current interface state, ok=false while down.
	Info() (NetInfo, bool)
	// HardwareAddr returns the device MAC, or the zero MAC when unknown.
	HardwareAddr() MAC
}

// HAL provides the only contact point between the firmware and the outside world.
type HAL interface {
	Logger() Logger
	LED() LED
	Display() Display
	Input() Input
	GPIO() GPIO
	Flash() Flash
	Clock() Clock
	Network() Network
}
