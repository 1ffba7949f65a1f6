package app

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"clockface/hal"
	"clockface/internal/buttons"
	"clockface/kernel"
)

// post sends ev without blocking. A full funnel drops ev and keeps the queued events.
func post(mb *kernel.Mailbox[AppEvent], log hal.Logger, ev AppEvent) bool {
	if mb.TrySend(ev) {
		return true
	}
	if log != nil {
		log.WriteLineString("app: event dropped, funnel full: " + ev.String())
	}
	return false
}

// every runs fn each period on the calling goroutine until ctx ends. fn also runs once up front.
func every(ctx context.Context, period time.Duration, fn func()) {
	tk := time.NewTicker(period)
	defer tk.Stop()
	for {
		fn()
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
		}
	}
}

// keyEvent maps a key press to an event. Releases map to nothing.
func keyEvent(k hal.KeyEvent) (AppEvent, bool) {
	if !k.Press {
		return AppEvent{}, false
	}
	switch k.Code {
	case hal.KeyLeft:
		return AppEvent{Kind: EventLeft}, true
	case hal.KeyRight:
		return AppEvent{Kind: EventRight}, true
	case hal.KeyEnter:
		return AppEvent{Kind: EventOK}, true
	case hal.KeyEscape:
		return AppEvent{Kind: EventExit}, true
	}
	return AppEvent{}, false
}

// pumpKeys forwards keyboard presses until the keyboard channel closes.
func pumpKeys(kb hal.Keyboard, mb *kernel.Mailbox[AppEvent], log hal.Logger) {
	if kb == nil {
		return
	}
	ch := kb.Events()
	if ch == nil {
		return
	}
	for k := range ch {
		if ev, ok := keyEvent(k); ok {
			post(mb, log, ev)
		}
	}
}

// ButtonPoller is the two-button producer: select clicks move through the carousel,
// ok confirms, and a double click on ok goes back.
type ButtonPoller struct {
	sel, ok *buttons.Button
	mb      *kernel.Mailbox[AppEvent]
	log     hal.Logger
	now     func() time.Time
	failed  bool
}

// Button pin names looked up on the HAL's GPIO.
const (
	PinSelect = "BTN_SELECT"
	PinOK     = "BTN_OK"
)

// NewButtonPoller finds the select and ok pins on g. Both buttons are active low.
func NewButtonPoller(g hal.GPIO, mb *kernel.Mailbox[AppEvent], log hal.Logger) (*ButtonPoller, error) {
	sel, err := buttons.NewButton("select", buttons.FindPin(g, PinSelect), true)
	if err != nil {
		return nil, err
	}
	ok, err := buttons.NewButton("ok", buttons.FindPin(g, PinOK), true)
	if err != nil {
		return nil, err
	}
	return &ButtonPoller{sel: sel, ok: ok, mb: mb, log: log, now: time.Now}, nil
}

// Run samples the buttons every period until ctx ends.
func (p *ButtonPoller) Run(ctx context.Context, period time.Duration) { every(ctx, period, p.Poll) }

// Poll samples both buttons once.
func (p *ButtonPoller) Poll() {
	now := p.now()
	p.poll(p.sel, now, AppEvent{Kind: EventRight}, AppEvent{Kind: EventLeft})
	p.poll(p.ok, now, AppEvent{Kind: EventOK}, AppEvent{Kind: EventExit})
}

func (p *ButtonPoller) poll(b *buttons.Button, now time.Time, click, double AppEvent) {
	g, err := b.Poll(now)
	if err != nil {
		// Report a broken line once, not every tick.
		if !p.failed && p.log != nil {
			p.log.WriteLineString(fmt.Sprintf("app: %v", err))
		}
		p.failed = true
		return
	}
	switch g {
	case buttons.Click:
		post(p.mb, p.log, click)
	case buttons.DoubleClick:
		post(p.mb, p.log, double)
	}
}

// NetWatcher reports network state changes as informational events.
type NetWatcher struct {
	net  hal.Network
	mb   *kernel.Mailbox[AppEvent]
	log  hal.Logger
	up   atomic.Bool
	info hal.NetInfo
	seen bool
}

func NewNetWatcher(n hal.Network, mb *kernel.Mailbox[AppEvent], log hal.Logger) *NetWatcher {
	return &NetWatcher{net: n, mb: mb, log: log}
}

// Up reports the last observed state. Safe from any goroutine.
func (w *NetWatcher) Up() bool { return w.up.Load() }

// Run polls every period until ctx ends.
func (w *NetWatcher) Run(ctx context.Context, period time.Duration) { every(ctx, period, w.Poll) }

// Poll checks the network once and posts a message when the state or address changed.
func (w *NetWatcher) Poll() {
	if w.net == nil {
		return
	}
	info, up := w.net.Info()
	if w.seen && up == w.up.Load() && info == w.info {
		return
	}
	w.seen = true
	w.info = info
	w.up.Store(up)

	var msg string
	if up {
		msg = "net up " + info.IP.String()
	} else {
		msg = "net down"
	}
	if w.log != nil {
		w.log.WriteLineString("app: " + msg)
	}
	post(w.mb, w.log, Message(msg))
}
