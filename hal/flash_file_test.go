//go:build !tinygo

package hal

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestFileFlashStartsErased(t *testing.T) {
	f, err := OpenFileFlash(filepath.Join(t.TempDir(), "flash.bin"), 4*FlashFileEraseBlock)
	if err != nil {
		t.Fatalf("OpenFileFlash: %v", err)
	}
	defer f.Close()
	if f.SizeBytes() != 4*FlashFileEraseBlock {
		t.Fatalf("size = %d", f.SizeBytes())
	}
	buf := make([]byte, 16)
	if _, err := f.ReadAt(buf, FlashFileEraseBlock); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	for i, b := range buf {
		if b != 0xFF {
			t.Fatalf("byte %d = %#x, want erased", i, b)
		}
	}
}

func TestFileFlashWriteNeedsErase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flash.bin")
	f, err := OpenFileFlash(path, FlashFileEraseBlock)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteAt([]byte{0x0F}, 0); err != nil {
		t.Fatalf("WriteAt: %v", err)
	}
	if _, err := f.WriteAt([]byte{0xF0}, 0); !errors.Is(err, ErrFlashWriteRequiresErase) {
		t.Fatalf("err = %v, want ErrFlashWriteRequiresErase", err)
	}
	if err := f.Erase(0, FlashFileEraseBlock); err != nil {
		t.Fatalf("Erase: %v", err)
	}
	if _, err := f.WriteAt([]byte{0xF0}, 0); err != nil {
		t.Fatalf("WriteAt after erase: %v", err)
	}
	f.Close()

	g, err := OpenFileFlash(path, 8*FlashFileEraseBlock)
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()
	if g.SizeBytes() != FlashFileEraseBlock {
		t.Fatalf("reopened size = %d, want the existing image size", g.SizeBytes())
	}
	b := make([]byte, 1)
	if _, err := g.ReadAt(b, 0); err != nil || b[0] != 0xF0 {
		t.Fatalf("reopen read = %#x, %v", b[0], err)
	}
}

func TestFileFlashBounds(t *testing.T) {
	f, err := OpenFileFlash(filepath.Join(t.TempDir(), "flash.bin"), FlashFileEraseBlock)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := f.ReadAt(make([]byte, 1), FlashFileEraseBlock); !errors.Is(err, ErrFlashRange) {
		t.Fatalf("read past end: %v", err)
	}
	if err := f.Erase(1, FlashFileEraseBlock); err == nil {
		t.Fatal("unaligned erase accepted")
	}
	if _, err := OpenFileFlash(filepath.Join(t.TempDir(), "odd.bin"), 100); err == nil {
		t.Fatal("odd size accepted")
	}
}
