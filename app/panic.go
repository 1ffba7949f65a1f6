package app

import (
	"fmt"
	"image/color"
	"strings"
	"unicode/utf8"

	"clockface/display/gfx"
	"clockface/hal"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var panicBackground = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// reportPanic logs a recovered panic and paints it over the whole panel.
// Drawing is best effort: the transport may be what failed.
func reportPanic(log hal.Logger, c *gfx.Canvas, v any, stack []byte) {
	lines := []string{
		"clockface panic:",
		fmt.Sprintf("%v", v),
	}
	if len(stack) > 0 {
		lines = append(lines, "stack:")
		for _, line := range strings.Split(string(stack), "\n") {
			if line == "" {
				continue
			}
			lines = append(lines, strings.TrimSpace(line))
		}
	} else {
		lines = append(lines, "stack: unavailable")
	}

	if log != nil {
		for _, line := range lines {
			log.WriteLineString(line)
		}
	}
	if c == nil {
		return
	}
	drawPanic(c, lines)
}

func drawPanic(c *gfx.Canvas, lines []string) {
	// The panel may be what panicked.
	defer func() { _ = recover() }()

	font := &proggy.TinySZ8pt7b
	fontHeight := int16(font.GetYAdvance())
	_, outboxWidth := tinyfont.LineWidth(font, "0")
	fontWidth := int16(outboxWidth)
	if fontWidth <= 0 || fontHeight <= 0 {
		return
	}

	if err := c.Fill(panicBackground); err != nil {
		return
	}
	maxW, maxH := c.Size()
	cols := maxW / fontWidth
	if cols <= 0 {
		cols = 1
	}

	fg := color.RGBA{A: 255}
	y := int16(0)
	for _, line := range lines {
		for len(line) > 0 {
			if y+fontHeight > maxH {
				return
			}
			chunk, rest := takeRunes(line, cols)
			if _, err := c.DrawText(0, y+fontHeight-2, font, chunk, fg); err != nil {
				return
			}
			y += fontHeight
			line = strings.TrimLeft(rest, " ")
		}
	}
}

func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if int64(len(s)) <= int64(n) {
		return s, ""
	}
	var i int
	var count int16
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		if size <= 0 {
			break
		}
		i += size
		count++
	}
	if i >= len(s) {
		return s, ""
	}
	return s[:i], s[i:]
}
