//go:build !tinygo && !cgo

package hal

// Without the window backend there are no keys; the nil channel tells consumers to stop.
type hostKeyboard struct{}

func newHostKeyboard() *hostKeyboard { return &hostKeyboard{} }

func (*hostKeyboard) Events() <-chan KeyEvent { return nil }

func (*hostKeyboard) poll() {}
