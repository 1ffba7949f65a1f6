//go:build !tinygo

package hal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestRunHeadlessStopsAfterTicks(t *testing.T) {
	hc := HostConfig{FlashPath: filepath.Join(t.TempDir(), "flash.bin")}
	var calls int
	err := RunHeadless(context.Background(), hc, func(h HAL) func() error {
		if h.Display().Transport() == nil {
			t.Error("host HAL has no panel")
		}
		return func() error { calls++; return nil }
	}, HeadlessConfig{Hz: 1000, Ticks: 5})
	if err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if calls != 5 {
		t.Fatalf("steps = %d, want 5", calls)
	}
}

func TestRunHeadlessReturnsStepError(t *testing.T) {
	hc := HostConfig{FlashPath: filepath.Join(t.TempDir(), "flash.bin")}
	boom := errors.New("boom")
	err := RunHeadless(context.Background(), hc, func(HAL) func() error {
		return func() error { return boom }
	}, HeadlessConfig{Hz: 1000})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}

func TestRunHeadlessUsesTransportOverride(t *testing.T) {
	panel := newHostPanel(16, 8, PixelFormatRGB565)
	hc := HostConfig{Transport: panel, FlashPath: filepath.Join(t.TempDir(), "flash.bin")}
	ctx, cancel := context.WithCancel(context.Background())
	err := RunHeadless(ctx, hc, func(h HAL) func() error {
		return func() error {
			w, _ := h.Display().Transport().Size()
			if w != 16 {
				t.Errorf("width = %d, want override", w)
			}
			cancel()
			return nil
		}
	}, HeadlessConfig{Hz: 1000})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want canceled", err)
	}
}
