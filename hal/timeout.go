package hal

import "time"

type writeReq struct {
	x, y, w, h int16
	pixels     []uint16
}

// timeoutTransport bounds WriteRect on a transport that can block indefinitely.
//
// Writes run on one worker goroutine. After a timeout the worker still owns the
// bus and the copy buffer, so later writes fail fast until it reports back.
// WriteRect must be called from a single goroutine.
type timeoutTransport struct {
	t     Transport
	d     time.Duration
	buf   []uint16
	req   chan writeReq
	res   chan error
	timer *time.Timer
	busy  bool
}

// WithTimeout wraps t so that a WriteRect taking longer than d returns
// ErrTransportTimeout. A non-positive d returns t unchanged.
func WithTimeout(t Transport, d time.Duration) Transport {
	if t == nil || d <= 0 {
		return t
	}
	w, _ := t.Size()
	tt := &timeoutTransport{
		t:   t,
		d:   d,
		buf: make([]uint16, int(w)),
		req: make(chan writeReq),
		res: make(chan error, 1),
	}
	go tt.worker()
	return tt
}

func (t *timeoutTransport) worker() {
	for r := range t.req {
		t.res <- t.t.WriteRect(r.x, r.y, r.w, r.h, r.pixels)
	}
}

func (t *timeoutTransport) Size() (int16, int16)  { return t.t.Size() }
func (t *timeoutTransport) Format() PixelFormat { return t.t.Format() }

func (t *timeoutTransport) WriteRect(x, y, width, height int16, pixels []uint16) error {
	if t.busy {
		select {
		case <-t.res:
			t.busy = false
		default:
			return ErrTransportBusy
		}
	}

	n := int(width) * int(height)
	if n < 0 {
		n = 0
	}
	if n > len(pixels) {
		n = len(pixels)
	}
	if cap(t.buf) < n {
		t.buf = make([]uint16, n)
	}
	buf := t.buf[:n]
	copy(buf, pixels)

	if t.timer == nil {
		t.timer = time.NewTimer(t.d)
	} else {
		t.timer.Reset(t.d)
	}

	t.req <- writeReq{x: x, y: y, w: width, h: height, pixels: buf}
	select {
	case err := <-t.res:
		if !t.timer.Stop() {
			<-t.timer.C
		}
		return err
	case <-t.timer.C:
		t.busy = true
		return ErrTransportTimeout
	}
}
