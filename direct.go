package blp

// Direct uncompressed pixel layouts: an index plane of one byte per
// pixel followed by an optional packed alpha plane (EncodingIndexed),
// or raw BGRA quads (EncodingRaw). The alpha plane packs LSB-first
// and is sized ceil(pixels*depth/8).

// alphaPlaneSize returns the byte size of a packed alpha plane for the
// given pixel count and bit depth.
func alphaPlaneSize(pixels, depth int) int {
	return (pixels*depth + 7) / 8
}

// indexedSize returns the exact byte size of an indexed level.
func indexedSize(pixels, depth int) int {
	return pixels + alphaPlaneSize(pixels, depth)
}

// decodeIndexed converts an index plane plus optional alpha plane into
// RGBA8. raw must be exactly indexedSize(w*h, depth) bytes; the caller
// has already reconciled the length against the level dimensions.
func decodeIndexed(raw []byte, pal *DirectPrologue, w, h, depth int) ([]byte, error) {
	pixels := w * h
	out := make([]byte, pixels*4)

	for i := 0; i < pixels; i++ {
		r, g, b := paletteRGB(pal.Palette[raw[i]])
		out[i*4+0] = r
		out[i*4+1] = g
		out[i*4+2] = b
		out[i*4+3] = 0xFF
	}

	if depth == 0 {
		return out, nil
	}

	br := newBitReader(raw[pixels:])
	for i := 0; i < pixels; i++ {
		v, err := br.readBits(uint(depth))
		if err != nil {
			return nil, err
		}
		out[i*4+3] = expandAlpha(v, depth)
	}
	return out, nil
}

// encodeIndexed is the inverse of decodeIndexed: it maps each RGBA
// pixel to its nearest palette entry and packs the alpha plane at the
// requested depth.
func encodeIndexed(pix []byte, pal *DirectPrologue, w, h, depth int) []byte {
	pixels := w * h
	lookup := newPaletteLookup(pal)

	out := make([]byte, pixels, indexedSize(pixels, depth))
	for i := 0; i < pixels; i++ {
		out[i] = lookup.nearest(pix[i*4], pix[i*4+1], pix[i*4+2])
	}

	if depth == 0 {
		return out
	}

	bw := newBitWriter()
	for i := 0; i < pixels; i++ {
		bw.writeBits(quantizeAlpha(pix[i*4+3], depth), uint(depth))
	}
	return append(out, bw.flush()...)
}

// decodeRaw converts uncompressed BGRA quads into RGBA8. raw must be
// exactly w*h*4 bytes.
func decodeRaw(raw []byte, w, h int) []byte {
	pixels := w * h
	out := make([]byte, pixels*4)
	for i := 0; i < pixels; i++ {
		out[i*4+0] = raw[i*4+2]
		out[i*4+1] = raw[i*4+1]
		out[i*4+2] = raw[i*4+0]
		out[i*4+3] = raw[i*4+3]
	}
	return out
}

// encodeRaw converts RGBA8 into the stored BGRA quad order.
func encodeRaw(pix []byte, w, h int) []byte {
	pixels := w * h
	out := make([]byte, pixels*4)
	for i := 0; i < pixels; i++ {
		out[i*4+0] = pix[i*4+2]
		out[i*4+1] = pix[i*4+1]
		out[i*4+2] = pix[i*4+0]
		out[i*4+3] = pix[i*4+3]
	}
	return out
}
