//go:build tinygo

package app

import (
	"context"

	"clockface/hal"
)

// Run starts the firmware on the board and never returns.
func Run(h hal.HAL, opts Options) {
	bootDiagStart(h)
	a, err := New(h, opts)
	if err != nil {
		if l := h.Logger(); l != nil {
			l.WriteLineString(err.Error())
		}
		select {}
	}
	if err := a.Run(context.Background()); err != nil {
		if l := h.Logger(); l != nil {
			l.WriteLineString(err.Error())
		}
	}
	select {}
}
