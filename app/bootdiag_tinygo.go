//go:build tinygo && bootdebug

package app

import (
	"fmt"
	"machine"
	"sync"
	"time"

	"clockface/hal"
)

// Boot tracing for bring-up: every step is reported when it starts, and a step that
// takes longer than bootDiagStall is reported again until it finishes. Output goes to
// the HAL logger and to USB CDC, so a hang is visible without a UART adapter.

const bootDiagStall = time.Second

var bootDiag struct {
	mu    sync.Mutex
	log   hal.Logger
	start time.Time
	step  string
	since time.Time
}

func bootDiagSetStep(msg string) {
	bootDiag.mu.Lock()
	now := time.Now()
	bootDiag.step, bootDiag.since = msg, now
	line := bootDiagLine(now)
	bootDiag.mu.Unlock()
	bootDiagEmit(line)
}

func bootDiagStart(h hal.HAL) {
	if h == nil {
		return
	}
	bootDiag.mu.Lock()
	bootDiag.log = h.Logger()
	bootDiag.start = time.Now()
	bootDiag.mu.Unlock()

	go func() {
		for range time.Tick(bootDiagStall) {
			bootDiag.mu.Lock()
			now := time.Now()
			stalled := bootDiag.step != "" && now.Sub(bootDiag.since) >= bootDiagStall
			line := bootDiagLine(now)
			bootDiag.mu.Unlock()
			if stalled {
				bootDiagEmit(line + " (stalled)")
			}
		}
	}()
}

// bootDiagLine formats the current step. Callers hold bootDiag.mu.
func bootDiagLine(now time.Time) string {
	step := bootDiag.step
	if step == "" {
		step = "<empty>"
	}
	return fmt.Sprintf("bootdiag: +%dms %s", now.Sub(bootDiag.start).Milliseconds(), step)
}

func bootDiagEmit(line string) {
	bootDiag.mu.Lock()
	l := bootDiag.log
	bootDiag.mu.Unlock()
	if l != nil {
		l.WriteLineString(line)
	}
	if usb := machine.USBCDC; usb != nil {
		_, _ = usb.Write([]byte(line + "\r\n"))
	}
}
