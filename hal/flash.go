package hal

import (
	"errors"
	"fmt"
)

// ErrFlashWriteRequiresErase is returned when a write would set a bit that is 0.
var ErrFlashWriteRequiresErase = errors.New("flash: write requires erase")

// ErrFlashRange is returned for accesses outside the device or partition.
var ErrFlashRange = errors.New("flash: out of range")

type partition struct {
	f         Flash
	off, size uint32
}

// Partition exposes size bytes of f starting at off as a device of its own.
// off and size must be multiples of the erase block.
func Partition(f Flash, off, size uint32) (Flash, error) {
	if f == nil {
		return nil, ErrNotImplemented
	}
	bs := f.EraseBlockBytes()
	if bs == 0 {
		return nil, ErrNotImplemented
	}
	if off%bs != 0 || size%bs != 0 || size == 0 {
		return nil, fmt.Errorf("flash: partition %d+%d not aligned to %d", off, size, bs)
	}
	if uint64(off)+uint64(size) > uint64(f.SizeBytes()) {
		return nil, fmt.Errorf("flash: partition %d+%d on %d byte device: %w", off, size, f.SizeBytes(), ErrFlashRange)
	}
	return &partition{f: f, off: off, size: size}, nil
}

func (p *partition) SizeBytes() uint32       { return p.size }
func (p *partition) EraseBlockBytes() uint32 { return p.f.EraseBlockBytes() }

func (p *partition) ReadAt(b []byte, off uint32) (int, error) {
	b, err := p.clip(b, off)
	if err != nil {
		return 0, err
	}
	return p.f.ReadAt(b, p.off+off)
}

func (p *partition) WriteAt(b []byte, off uint32) (int, error) {
	b, err := p.clip(b, off)
	if err != nil {
		return 0, err
	}
	return p.f.WriteAt(b, p.off+off)
}

func (p *partition) Erase(off, size uint32) error {
	if uint64(off)+uint64(size) > uint64(p.size) {
		return fmt.Errorf("flash: erase %d+%d: %w", off, size, ErrFlashRange)
	}
	return p.f.Erase(p.off+off, size)
}

func (p *partition) clip(b []byte, off uint32) ([]byte, error) {
	if off >= p.size {
		return nil, fmt.Errorf("flash: access at %d: %w", off, ErrFlashRange)
	}
	if rest := p.size - off; uint32(len(b)) > rest {
		b = b[:rest]
	}
	return b, nil
}

// clamp32 narrows a machine-reported size, treating negatives as absent.
func clamp32(n int64) uint32 {
	switch {
	case n <= 0:
		return 0
	case n > int64(^uint32(0)):
		return ^uint32(0)
	}
	return uint32(n)
}
