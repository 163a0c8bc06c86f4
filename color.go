package blp

// Palette entries are stored BGRA in file byte order: blue in the low
// byte of the little-endian word, alpha in the high byte. The entry's
// own alpha byte is ignored on decode; transparency comes only from
// the trailing alpha plane.

// paletteRGB unpacks the color channels of a packed palette entry.
func paletteRGB(e uint32) (r, g, b uint8) {
	b = uint8(e)
	g = uint8(e >> 8)
	r = uint8(e >> 16)
	return
}

// packPalette packs color channels into a palette entry. The alpha
// byte is written as zero, matching what classic exporters emit.
func packPalette(r, g, b uint8) uint32 {
	return uint32(b) | uint32(g)<<8 | uint32(r)<<16
}

// rgb565 expands a 16-bit RGB565 value to 8-bit channels, replicating
// the high bits into the low bits for full-range spread.
func rgb565(c uint16) (r, g, b uint8) {
	r = uint8((c >> 11) & 0x1F)
	g = uint8((c >> 5) & 0x3F)
	b = uint8(c & 0x1F)

	r = (r << 3) | (r >> 2)
	g = (g << 2) | (g >> 4)
	b = (b << 3) | (b >> 2)
	return
}

// packRGB565 quantizes 8-bit channels down to RGB565.
func packRGB565(r, g, b uint8) uint16 {
	return uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
}

// expandAlpha widens a 1-, 4- or 8-bit alpha sample to 8 bits:
// 1-bit maps to 0 or 255, 4-bit replicates the nibble into both
// halves of the byte, 8-bit is the identity.
func expandAlpha(v uint8, depth int) uint8 {
	switch depth {
	case 1:
		if v != 0 {
			return 0xFF
		}
		return 0
	case 4:
		return v<<4 | v
	default:
		return v
	}
}

// quantizeAlpha is the inverse of expandAlpha: it narrows an 8-bit
// alpha sample to the plane's bit depth.
func quantizeAlpha(a uint8, depth int) uint8 {
	switch depth {
	case 1:
		if a >= 0x80 {
			return 1
		}
		return 0
	case 4:
		return a >> 4
	default:
		return a
	}
}
