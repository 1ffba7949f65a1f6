//go:build !linux && !tinygo

package buttons

import (
	"errors"

	"clockface/hal"
)

// ChipGPIO is only available on Linux.
type ChipGPIO struct{}

func OpenChip(chip string, lines map[string]int) (*ChipGPIO, error) {
	return nil, errors.New("buttons: gpio character devices require linux")
}

func (g *ChipGPIO) PinCount() int          { return 0 }
func (g *ChipGPIO) Pin(id int) hal.GPIOPin { return nil }
func (g *ChipGPIO) Close() error           { return nil }
