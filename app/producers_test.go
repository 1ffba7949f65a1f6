package app

import (
	"context"
	"errors"
	"net/netip"
	"testing"
	"time"

	"clockface/hal"
	"clockface/kernel"
)

func TestKeyEventMapsPresses(t *testing.T) {
	tests := []struct {
		code hal.KeyCode
		want EventKind
	}{
		{hal.KeyLeft, EventLeft},
		{hal.KeyRight, EventRight},
		{hal.KeyEnter, EventOK},
		{hal.KeyEscape, EventExit},
	}
	for _, tt := range tests {
		ev, ok := keyEvent(hal.KeyEvent{Code: tt.code, Press: true})
		if !ok || ev.Kind != tt.want {
			t.Errorf("press %v = %v, %v; want %v", tt.code, ev, ok, tt.want)
		}
		if _, ok := keyEvent(hal.KeyEvent{Code: tt.code}); ok {
			t.Errorf("release %v produced an event", tt.code)
		}
	}
}

func TestPostDropsNewestWhenFull(t *testing.T) {
	mb := kernel.New[AppEvent](2)
	log := &lineLog{}
	if !post(mb, log, AppEvent{Kind: EventLeft}) || !post(mb, log, AppEvent{Kind: EventRight}) {
		t.Fatal("post into free slots failed")
	}
	if post(mb, log, AppEvent{Kind: EventOK}) {
		t.Fatal("post into full mailbox succeeded")
	}
	if !log.contains("dropped") {
		t.Fatalf("drop not logged: %q", log.lines)
	}
	for _, want := range []EventKind{EventLeft, EventRight} {
		ev, ok := mb.TryRecv()
		if !ok || ev.Kind != want {
			t.Fatalf("recv = %v, %v; want %v", ev, ok, want)
		}
	}
	if _, ok := mb.TryRecv(); ok {
		t.Fatal("dropped event was queued")
	}
}

type chanKeyboard struct{ ch chan hal.KeyEvent }

func (k chanKeyboard) Events() <-chan hal.KeyEvent { return k.ch }

func TestPumpKeys(t *testing.T) {
	kb := chanKeyboard{ch: make(chan hal.KeyEvent, 4)}
	mb := kernel.New[AppEvent](4)
	kb.ch <- hal.KeyEvent{Code: hal.KeyRight, Press: true}
	kb.ch <- hal.KeyEvent{Code: hal.KeyRight}
	kb.ch <- hal.KeyEvent{Code: hal.KeyEscape, Press: true}
	close(kb.ch)

	pumpKeys(kb, mb, nil)
	if mb.Len() != 2 {
		t.Fatalf("queued = %d, want 2", mb.Len())
	}
	if ev, _ := mb.TryRecv(); ev.Kind != EventRight {
		t.Fatalf("first = %v", ev)
	}
	if ev, _ := mb.TryRecv(); ev.Kind != EventExit {
		t.Fatalf("second = %v", ev)
	}
}

type fakePin struct {
	name  string
	level bool
	err   error
}

func (p *fakePin) Name() string                               { return p.name }
func (p *fakePin) Caps() hal.GPIOCaps                         { return hal.GPIOCapInput | hal.GPIOCapPullUp }
func (p *fakePin) Configure(hal.GPIOMode, hal.GPIOPull) error { return nil }
func (p *fakePin) Read() (bool, error)                        { return p.level, p.err }
func (p *fakePin) Write(bool) error                           { return errors.New("input only") }

type fakeGPIO []hal.GPIOPin

func (g fakeGPIO) PinCount() int          { return len(g) }
func (g fakeGPIO) Pin(id int) hal.GPIOPin { return g[id] }

func TestButtonPollerGestures(t *testing.T) {
	sel := &fakePin{name: PinSelect, level: true}
	ok := &fakePin{name: PinOK, level: true}
	mb := kernel.New[AppEvent](8)
	p, err := NewButtonPoller(fakeGPIO{sel, ok}, mb, nil)
	if err != nil {
		t.Fatalf("NewButtonPoller: %v", err)
	}
	now := time.Unix(100, 0)
	p.now = func() time.Time { return now }
	step := func(d time.Duration) {
		now = now.Add(d)
		p.Poll()
	}

	// Single select click, then wait out the double-click window.
	sel.level = false
	step(10 * time.Millisecond)
	sel.level = true
	step(50 * time.Millisecond)
	step(400 * time.Millisecond)

	// Double click on ok.
	ok.level = false
	step(10 * time.Millisecond)
	ok.level = true
	step(50 * time.Millisecond)
	ok.level = false
	step(50 * time.Millisecond)
	ok.level = true
	step(50 * time.Millisecond)
	step(400 * time.Millisecond)

	var got []EventKind
	for {
		ev, ok := mb.TryRecv()
		if !ok {
			break
		}
		got = append(got, ev.Kind)
	}
	if len(got) != 2 || got[0] != EventRight || got[1] != EventExit {
		t.Fatalf("events = %v, want [Right Exit]", got)
	}
}

func TestButtonPollerMissingPin(t *testing.T) {
	mb := kernel.New[AppEvent](2)
	if _, err := NewButtonPoller(fakeGPIO{&fakePin{name: PinSelect}}, mb, nil); err == nil {
		t.Fatal("expected error without an ok pin")
	}
}

func TestButtonPollerReadFailureLoggedOnce(t *testing.T) {
	sel := &fakePin{name: PinSelect, level: true, err: errors.New("line closed")}
	ok := &fakePin{name: PinOK, level: true}
	log := &lineLog{}
	p, err := NewButtonPoller(fakeGPIO{sel, ok}, kernel.New[AppEvent](2), log)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		p.Poll()
	}
	if len(log.lines) != 1 {
		t.Fatalf("logged %d lines, want 1: %q", len(log.lines), log.lines)
	}
}

type fakeNetwork struct {
	info hal.NetInfo
	up   bool
	mac  hal.MAC
}

func (n *fakeNetwork) Info() (hal.NetInfo, bool) { return n.info, n.up }
func (n *fakeNetwork) HardwareAddr() hal.MAC     { return n.mac }

func TestNetWatcherPostsChanges(t *testing.T) {
	n := &fakeNetwork{}
	mb := kernel.New[AppEvent](8)
	w := NewNetWatcher(n, mb, nil)

	w.Poll()
	w.Poll()
	n.up = true
	n.info.IP = netip.MustParseAddr("192.168.1.20")
	w.Poll()
	w.Poll()
	if !w.Up() {
		t.Fatal("watcher should report up")
	}

	var got []string
	for {
		ev, ok := mb.TryRecv()
		if !ok {
			break
		}
		if ev.Kind != EventMessage {
			t.Fatalf("kind = %v", ev.Kind)
		}
		got = append(got, ev.Text)
	}
	if len(got) != 2 || got[0] != "net down" || got[1] != "net up 192.168.1.20" {
		t.Fatalf("messages = %q", got)
	}
}

func TestNetWatcherRunPollsUntilCancel(t *testing.T) {
	n := &fakeNetwork{up: true, info: hal.NetInfo{IP: netip.MustParseAddr("10.0.0.2")}}
	mb := kernel.New[AppEvent](4)
	w := NewNetWatcher(n, mb, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx, time.Millisecond)
		close(done)
	}()
	deadline := time.Now().Add(time.Second)
	for !w.Up() {
		if time.Now().After(deadline) {
			t.Fatal("watcher never polled")
		}
		time.Sleep(time.Millisecond)
	}
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if ev, ok := mb.TryRecv(); !ok || ev.Text != "net up 10.0.0.2" {
		t.Fatalf("first message = %v, %v", ev, ok)
	}
}
