//go:build tinygo

package main

import (
	"clockface/app"
	"clockface/hal"
)

func main() {
	app.Run(hal.New(), app.Options{Buttons: true})
}
