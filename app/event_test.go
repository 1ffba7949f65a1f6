package app

import (
	"strings"
	"testing"
)

func TestAppEventString(t *testing.T) {
	tests := []struct {
		ev   AppEvent
		want string
	}{
		{AppEvent{Kind: EventLeft}, "Left"},
		{AppEvent{Kind: EventRight}, "Right"},
		{AppEvent{Kind: EventOK}, "Ok"},
		{AppEvent{Kind: EventExit}, "Exit"},
		{Message("net up"), "Message(net up)"},
		{AppEvent{}, "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.ev.String(); got != tt.want {
			t.Errorf("%+v.String() = %q, want %q", tt.ev, got, tt.want)
		}
	}
}

func TestWrapColumns(t *testing.T) {
	if got := WrapColumns("short", 26); got != "short" {
		t.Fatalf("short line changed: %q", got)
	}
	long := strings.Repeat("a", 30)
	got := WrapColumns(long, 26)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 || len(lines[0]) != 26 || len(lines[1]) != 4 {
		t.Fatalf("WrapColumns = %q", got)
	}
	got = WrapColumns("abc\ndefgh", 3)
	if got != "abc\ndef\ngh" {
		t.Fatalf("existing newline not kept: %q", got)
	}
}
