package gfx

import (
	"image/color"

	"golang.org/x/image/colornames"
)

var (
	ColorBackground = colornames.Black
	ColorForeground = color.RGBA{R: 245, G: 152, B: 66, A: 0xff}

	ColorHourHand   = colornames.Red
	ColorMinuteHand = colornames.Lime
	ColorSecondHand = colornames.Blue

	ColorDim       = colornames.Dimgray
	ColorHighlight = colornames.White
)
