//go:build tinygo && baremetal && !rp2040 && !rp2350

package hal

// Boards without a data flash driver run on defaults.
func newBoardFlash() Flash { return nil }
