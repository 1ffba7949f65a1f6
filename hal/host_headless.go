//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	// Hz is the step rate. Zero means 100, the render loop's own rate.
	Hz int
	// Ticks stops the run after that many steps. Zero runs until ctx ends.
	Ticks uint64
}

// RunHeadless runs the firmware without a window: the emulated panel still receives
// every row, so transports and timing behave as on the device.
// newApp is called once; its step runs at cfg.Hz until ctx ends, cfg.Ticks steps
// have run, or a step fails.
func RunHeadless(ctx context.Context, hc HostConfig, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 100
	}
	period := time.Second / time.Duration(cfg.Hz)
	if period <= 0 {
		return fmt.Errorf("hal: headless rate %d Hz too high", cfg.Hz)
	}

	h := newHostHAL(hc)
	step := newApp(h)
	if step == nil {
		return nil
	}
	start := time.Now()
	defer func() {
		h.logger.WriteLineString(fmt.Sprintf("hal: headless stopped after %v", time.Since(start).Round(time.Millisecond)))
	}()

	tk := time.NewTicker(period)
	defer tk.Stop()
	for n := uint64(1); ; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tk.C:
		}
		if err := step(); err != nil {
			return err
		}
		if cfg.Ticks > 0 && n >= cfg.Ticks {
			return nil
		}
	}
}
