//go:build tinygo && baremetal && (rp2040 || rp2350)

package hal

import (
	"fmt"
	"machine"
)

// machineFlash is the data area TinyGo reserves after the firmware image.
type machineFlash struct{}

func newBoardFlash() Flash { return machineFlash{} }

func (machineFlash) SizeBytes() uint32       { return clamp32(machine.Flash.Size()) }
func (machineFlash) EraseBlockBytes() uint32 { return clamp32(machine.Flash.EraseBlockSize()) }

func (machineFlash) ReadAt(p []byte, off uint32) (int, error) {
	n, err := machine.Flash.ReadAt(p, int64(off))
	if err != nil {
		err = fmt.Errorf("flash: read at %d: %w", off, err)
	}
	return n, err
}

func (machineFlash) WriteAt(p []byte, off uint32) (int, error) {
	n, err := machine.Flash.WriteAt(p, int64(off))
	if err != nil {
		err = fmt.Errorf("flash: write at %d: %w", off, err)
	}
	return n, err
}

func (m machineFlash) Erase(off, size uint32) error {
	bs := m.EraseBlockBytes()
	if bs == 0 {
		return ErrNotImplemented
	}
	if off%bs != 0 || size%bs != 0 {
		return fmt.Errorf("flash: erase %d+%d not aligned to %d", off, size, bs)
	}
	if size == 0 {
		return nil
	}
	return machine.Flash.EraseBlocks(int64(off/bs), int64(size/bs))
}
