//go:build !tinygo

package hal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

const (
	// DefaultFlashFile backs the emulated data flash when nothing else is configured.
	DefaultFlashFile = "clockface.flash"
	// DefaultFlashFileSize is the size of a newly created image.
	DefaultFlashFileSize = 2 * 1024 * 1024
	// FlashFileEraseBlock is the erase granularity of file images.
	FlashFileEraseBlock = 4096
)

// FileFlash emulates NOR flash in a regular file: erase sets bytes to 0xFF and
// writes can only clear bits.
type FileFlash struct {
	mu     sync.Mutex
	f      *os.File
	size   uint32
	erased []byte
}

var _ Flash = (*FileFlash)(nil)

// OpenFileFlash opens an image. A missing or empty file becomes an erased image of size bytes;
// an existing image keeps its contents and size.
func OpenFileFlash(path string, size uint32) (*FileFlash, error) {
	if size == 0 || size%FlashFileEraseBlock != 0 {
		return nil, fmt.Errorf("flash: size %d is not a multiple of %d", size, FlashFileEraseBlock)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("flash: %w", err)
	}
	ff := &FileFlash{f: f, size: size, erased: bytes.Repeat([]byte{0xFF}, FlashFileEraseBlock)}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("flash: %w", err)
	}
	if n := st.Size(); n > 0 {
		if n%FlashFileEraseBlock != 0 || n > int64(^uint32(0)) {
			f.Close()
			return nil, fmt.Errorf("flash: %s: image size %d is not a multiple of %d", path, n, FlashFileEraseBlock)
		}
		ff.size = uint32(n)
		return ff, nil
	}
	if err := ff.Erase(0, size); err != nil {
		f.Close()
		return nil, err
	}
	return ff, nil
}

func (f *FileFlash) Close() error { return f.f.Close() }

func (f *FileFlash) SizeBytes() uint32       { return f.size }
func (f *FileFlash) EraseBlockBytes() uint32 { return FlashFileEraseBlock }

func (f *FileFlash) ReadAt(p []byte, off uint32) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, err := f.clip(p, off)
	if err != nil {
		return 0, err
	}
	return f.f.ReadAt(p, int64(off))
}

func (f *FileFlash) WriteAt(p []byte, off uint32) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, err := f.clip(p, off)
	if err != nil {
		return 0, err
	}
	cur := make([]byte, len(p))
	if _, err := f.f.ReadAt(cur, int64(off)); err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("flash: read before write at %d: %w", off, err)
	}
	for i := range p {
		if cur[i]&p[i] != p[i] {
			return 0, ErrFlashWriteRequiresErase
		}
	}
	return f.f.WriteAt(p, int64(off))
}

func (f *FileFlash) Erase(off, size uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if off%FlashFileEraseBlock != 0 || size%FlashFileEraseBlock != 0 {
		return fmt.Errorf("flash: erase %d+%d not block aligned", off, size)
	}
	if uint64(off)+uint64(size) > uint64(f.size) {
		return fmt.Errorf("flash: erase %d+%d: %w", off, size, ErrFlashRange)
	}
	for end := off + size; off < end; off += FlashFileEraseBlock {
		if _, err := f.f.WriteAt(f.erased, int64(off)); err != nil {
			return fmt.Errorf("flash: erase block at %d: %w", off, err)
		}
	}
	return nil
}

func (f *FileFlash) clip(p []byte, off uint32) ([]byte, error) {
	if off >= f.size {
		return nil, fmt.Errorf("flash: access at %d: %w", off, ErrFlashRange)
	}
	if rest := f.size - off; uint32(len(p)) > rest {
		p = p[:rest]
	}
	return p, nil
}
