package hal

// RGB565 packs an 8-bit-per-channel colour into rrrrrggggggbbbbb.
func RGB565(r, g, b uint8) uint16 {
	rr := uint16(r>>3) & 0x1F
	gg := uint16(g>>2) & 0x3F
	bb := uint16(b>>3) & 0x1F
	return (rr << 11) | (gg << 5) | bb
}

// RGB888From565 expands an RGB565 pixel back to 8 bits per channel.
func RGB888From565(p uint16) (r, g, b uint8) {
	rr := (p >> 11) & 0x1F
	gg := (p >> 5) & 0x3F
	bb := p & 0x1F

	r = uint8((rr * 255) / 31)
	g = uint8((gg * 255) / 63)
	b = uint8((bb * 255) / 31)
	return r, g, b
}

// swapRB exchanges the 5-bit red and blue fields of a 565 pixel.
func swapRB(p uint16) uint16 {
	return (p&0x1F)<<11 | p&0x07E0 | (p>>11)&0x1F
}

// FromRGB565 converts an RGB565 pixel to the native encoding f.
func FromRGB565(p uint16, f PixelFormat) uint16 {
	if f == PixelFormatBGR565 {
		return swapRB(p)
	}
	return p
}

// ToRGB565 converts a pixel in native encoding f back to RGB565.
func ToRGB565(p uint16, f PixelFormat) uint16 {
	if f == PixelFormatBGR565 {
		return swapRB(p)
	}
	return p
}
