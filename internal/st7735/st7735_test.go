package st7735

import (
	"bytes"
	"testing"

	"clockface/hal"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/spi/spitest"
)

func newTestDev(t *testing.T, opts *Opts) (*Dev, *spitest.Record, *gpiotest.Pin) {
	t.Helper()
	port := &spitest.Record{}
	dc := &gpiotest.Pin{N: "DC"}
	d, err := NewSPI(port, dc, opts)
	if err != nil {
		t.Fatalf("NewSPI: %v", err)
	}
	return d, port, dc
}

func TestNewSPIDefaults(t *testing.T) {
	d, port, _ := newTestDev(t, nil)

	if w, h := d.Size(); w != 128 || h != 128 {
		t.Fatalf("Size()=%dx%d want 128x128", w, h)
	}
	if d.Format() != hal.PixelFormatBGR565 {
		t.Fatalf("Format()=%v", d.Format())
	}
	if got, want := d.String(), "st7735.Dev{128x128}"; got != want {
		t.Errorf("String()=%q want %q", got, want)
	}
	if len(port.Ops) == 0 || !bytes.Equal(port.Ops[0].W, []byte{cmdSWRESET}) {
		t.Fatalf("init did not start with SWRESET: %v", port.Ops)
	}
	last := port.Ops[len(port.Ops)-1]
	if !bytes.Equal(last.W, []byte{cmdDISPON}) {
		t.Fatalf("init did not end with DISPON: %x", last.W)
	}
}

func TestNewSPIValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    *Opts
		wantErr bool
	}{
		{"nil options (uses defaults)", nil, false},
		{"160x128", &Opts{W: 160, H: 128}, false},
		{"negative width", &Opts{W: -1, H: 128}, true},
		{"too tall", &Opts{W: 128, H: 200}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSPI(&spitest.Record{}, &gpiotest.Pin{N: "DC"}, tt.opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("err=%v wantErr=%v", err, tt.wantErr)
			}
		})
	}
	if _, err := NewSPI(&spitest.Record{}, nil, nil); err == nil {
		t.Error("missing dc pin accepted")
	}
}

func TestWriteRectAddressesWindowWithOffsets(t *testing.T) {
	d, port, dc := newTestDev(t, nil)
	port.Ops = nil

	if err := d.WriteRect(10, 20, 2, 1, []uint16{0xF800, 0x001F}); err != nil {
		t.Fatalf("WriteRect: %v", err)
	}

	want := [][]byte{
		{cmdCASET}, {0, 12, 0, 13},
		{cmdRASET}, {0, 23, 0, 23},
		{cmdRAMWR}, {0xF8, 0x00, 0x00, 0x1F},
	}
	if len(port.Ops) != len(want) {
		t.Fatalf("ops=%d want %d", len(port.Ops), len(want))
	}
	for i, w := range want {
		if !bytes.Equal(port.Ops[i].W, w) {
			t.Errorf("op %d = %x want %x", i, port.Ops[i].W, w)
		}
	}
	if dc.L != gpio.High {
		t.Errorf("dc left at %v, want High after pixel data", dc.L)
	}
}

func TestWriteRectRejectsBadInput(t *testing.T) {
	d, _, _ := newTestDev(t, nil)

	if err := d.WriteRect(127, 0, 2, 1, make([]uint16, 2)); err == nil {
		t.Error("out-of-bounds rect accepted")
	}
	if err := d.WriteRect(0, 0, 4, 1, make([]uint16, 3)); err == nil {
		t.Error("short pixel slice accepted")
	}
	if err := d.WriteRect(0, 0, 0, 1, nil); err != nil {
		t.Errorf("empty rect: %v", err)
	}
}

func TestWriteRectChunksLargeRects(t *testing.T) {
	d, port, _ := newTestDev(t, nil)
	port.Ops = nil

	// Rows are buffered one panel row at a time.
	if err := d.WriteRect(0, 0, 128, 3, make([]uint16, 128*3)); err != nil {
		t.Fatalf("WriteRect: %v", err)
	}
	data := port.Ops[5:]
	if len(data) != 3 {
		t.Fatalf("data transfers=%d want 3", len(data))
	}
	for i, op := range data {
		if len(op.W) != 256 {
			t.Fatalf("transfer %d len=%d want 256", i, len(op.W))
		}
	}
}

func TestRotationSwapsSize(t *testing.T) {
	d, _, _ := newTestDev(t, &Opts{W: 160, H: 128, Rotation: Rotation90})
	if w, h := d.Size(); w != 128 || h != 160 {
		t.Fatalf("Size()=%dx%d want 128x160", w, h)
	}
}
