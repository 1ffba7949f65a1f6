package ui

import "time"

// Timer fires fn every period while running.
type Timer struct {
	period  time.Duration
	next    time.Duration
	fn      func()
	stopped bool
}

// Stop prevents further firings.
func (t *Timer) Stop() { t.stopped = true }

type animation struct {
	start, dur time.Duration
	step       func(progress float32)
}

// StartTimer runs fn every period from the next UpdateTimersAndAnimations on.
func (w *Window) StartTimer(period time.Duration, fn func()) *Timer {
	if period <= 0 {
		period = time.Millisecond
	}
	t := &Timer{period: period, next: w.now() + period, fn: fn}
	w.timers = append(w.timers, t)
	return t
}

// Animate calls step with progress in (0, 1] on each update until dur has passed.
// The final call always has progress 1.
func (w *Window) Animate(dur time.Duration, step func(progress float32)) {
	w.anims = append(w.anims, &animation{start: w.now(), dur: dur, step: step})
}

// HasActiveAnimations reports whether any animation is still running.
func (w *Window) HasActiveAnimations() bool { return len(w.anims) > 0 }

// UpdateTimersAndAnimations fires due timers (at most once each) and advances animations.
func (w *Window) UpdateTimersAndAnimations() {
	now := w.now()

	// Callbacks may start timers or animations; those join after this pass.
	timers := w.timers
	w.timers = nil
	live := timers[:0]
	for _, t := range timers {
		if t.stopped {
			continue
		}
		if now >= t.next {
			t.next += t.period
			if t.next <= now {
				// Fell behind; resync instead of firing a burst.
				t.next = now + t.period
			}
			t.fn()
		}
		if !t.stopped {
			live = append(live, t)
		}
	}
	w.timers = append(live, w.timers...)

	anims := w.anims
	w.anims = nil
	active := anims[:0]
	for _, a := range anims {
		elapsed := now - a.start
		if a.dur <= 0 || elapsed >= a.dur {
			a.step(1)
			continue
		}
		a.step(float32(elapsed) / float32(a.dur))
		active = append(active, a)
	}
	w.anims = append(active, w.anims...)
}
