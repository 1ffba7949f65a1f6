package app

import (
	"strings"
	"unicode/utf8"
)

// EventKind tags an AppEvent.
type EventKind uint8

const (
	EventLeft EventKind = iota + 1
	EventRight
	EventOK
	EventExit
	// EventMessage carries informational text, e.g. a network status change.
	EventMessage
)

// AppEvent is one user or system event travelling through the funnel to the scheduler.
type AppEvent struct {
	Kind EventKind
	Text string
}

// Message returns an informational event.
func Message(text string) AppEvent { return AppEvent{Kind: EventMessage, Text: text} }

func (e AppEvent) String() string {
	switch e.Kind {
	case EventLeft:
		return "Left"
	case EventRight:
		return "Right"
	case EventOK:
		return "Ok"
	case EventExit:
		return "Exit"
	case EventMessage:
		return "Message(" + e.Text + ")"
	default:
		return "Unknown"
	}
}

// DebugColumns is how many characters fit on one debug log line.
const DebugColumns = 26

// WrapColumns breaks s into lines of at most cols runes. Existing newlines are kept.
func WrapColumns(s string, cols int) string {
	if cols <= 0 || utf8.RuneCountInString(s) <= cols {
		return s
	}
	var b strings.Builder
	n := 0
	for _, r := range s {
		if r == '\n' {
			n = 0
			b.WriteRune(r)
			continue
		}
		if n == cols {
			b.WriteByte('\n')
			n = 0
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}
