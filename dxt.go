package blp

import "encoding/binary"

// Block-compressed Direct data: 4x4 texel blocks in one of three
// layouts selected by the header's alpha type and depth. Each block
// decodes independently; partial blocks at the right/bottom edge are
// clipped against the level dimensions.

type dxtFlavor int

const (
	dxt1 dxtFlavor = iota // RGB + 1-bit cutout alpha, 8 bytes/block
	dxt3                  // RGB + explicit 4-bit alpha, 16 bytes/block
	dxt5                  // RGB + interpolated 8-bit alpha, 16 bytes/block
)

func (f dxtFlavor) blockSize() int {
	if f == dxt1 {
		return 8
	}
	return 16
}

// dxtFlavorFor selects the block layout from the header's alpha
// configuration: depth <= 1 is the cutout layout, deeper alpha picks
// the interpolated layout when the alpha type asks for it and the
// explicit 4-bit layout otherwise.
func dxtFlavorFor(h *Header) dxtFlavor {
	if h.alphaDepth() > 1 {
		if h.AlphaType == AlphaTypeInterpolated {
			return dxt5
		}
		return dxt3
	}
	return dxt1
}

// dxtSize returns the exact byte size of a block-compressed level.
func dxtSize(w, h int, f dxtFlavor) int {
	return ((w + 3) / 4) * ((h + 3) / 4) * f.blockSize()
}

// dxtColorTable builds the 4-entry color table shared by all three
// layouts. fourColor selects between two interpolated midpoints and
// the 3-color mode whose last entry is transparent black.
func dxtColorTable(c0, c1 uint16, fourColor bool) [4][4]uint8 {
	r0, g0, b0 := rgb565(c0)
	r1, g1, b1 := rgb565(c1)

	t := [4][4]uint8{
		{r0, g0, b0, 255},
		{r1, g1, b1, 255},
	}
	if fourColor {
		t[2] = [4]uint8{
			uint8((2*int(r0) + int(r1)) / 3),
			uint8((2*int(g0) + int(g1)) / 3),
			uint8((2*int(b0) + int(b1)) / 3),
			255,
		}
		t[3] = [4]uint8{
			uint8((int(r0) + 2*int(r1)) / 3),
			uint8((int(g0) + 2*int(g1)) / 3),
			uint8((int(b0) + 2*int(b1)) / 3),
			255,
		}
	} else {
		t[2] = [4]uint8{
			uint8((int(r0) + int(r1)) / 2),
			uint8((int(g0) + int(g1)) / 2),
			uint8((int(b0) + int(b1)) / 2),
			255,
		}
		t[3] = [4]uint8{0, 0, 0, 0}
	}
	return t
}

// dxtAlphaTable builds the 8-entry alpha table of the interpolated
// layout: 8-step interpolation when a0 > a1, otherwise 6-step with
// hard 0 and 255 endpoints.
func dxtAlphaTable(a0, a1 uint8) [8]uint8 {
	var p [8]uint8
	p[0], p[1] = a0, a1

	if a0 > a1 {
		for i := 2; i < 8; i++ {
			p[i] = uint8(((8-i)*int(a0) + (i-1)*int(a1)) / 7)
		}
	} else {
		for i := 2; i < 6; i++ {
			p[i] = uint8(((6-i)*int(a0) + (i-1)*int(a1)) / 5)
		}
		p[6] = 0
		p[7] = 255
	}
	return p
}

// decodeDXT converts block-compressed level data into RGBA8. raw must
// be exactly dxtSize(w, h, f) bytes; the caller has already reconciled
// the length against the level dimensions.
func decodeDXT(raw []byte, w, h int, f dxtFlavor) []byte {
	bw := (w + 3) / 4
	bh := (h + 3) / 4
	out := make([]byte, w*h*4)
	pos := 0

	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			block := raw[pos : pos+f.blockSize()]
			pos += f.blockSize()

			colorOff := 0
			if f != dxt1 {
				colorOff = 8
			}
			c0 := binary.LittleEndian.Uint16(block[colorOff:])
			c1 := binary.LittleEndian.Uint16(block[colorOff+2:])
			indices := binary.LittleEndian.Uint32(block[colorOff+4:])

			// The cutout layout switches to 3-color mode on the
			// endpoint ordering; the other layouts always use four
			// colors and carry alpha in their own half-block.
			colors := dxtColorTable(c0, c1, f != dxt1 || c0 > c1)

			var alphas [16]uint8
			switch f {
			case dxt3:
				for i := 0; i < 16; i++ {
					n := block[i/2] >> (uint(i%2) * 4) & 0x0F
					alphas[i] = n<<4 | n
				}
			case dxt5:
				table := dxtAlphaTable(block[0], block[1])
				var bits uint64
				for i := 0; i < 6; i++ {
					bits |= uint64(block[2+i]) << (8 * i)
				}
				for i := 0; i < 16; i++ {
					alphas[i] = table[(bits>>(3*i))&0x07]
				}
			}

			for py := 0; py < 4; py++ {
				for px := 0; px < 4; px++ {
					x := bx*4 + px
					y := by*4 + py
					if x >= w || y >= h {
						continue
					}
					p := py*4 + px
					c := colors[(indices>>(2*p))&0x03]
					a := c[3]
					if f != dxt1 {
						a = alphas[p]
					}
					o := (y*w + x) * 4
					out[o+0] = c[0]
					out[o+1] = c[1]
					out[o+2] = c[2]
					out[o+3] = a
				}
			}
		}
	}
	return out
}

// encodeDXT compresses RGBA8 into block data using a range fit: block
// endpoints are the per-channel extremes, each texel maps to the
// nearest table entry. Lossy, like every DXT compressor.
func encodeDXT(pix []byte, w, h int, f dxtFlavor) []byte {
	bw := (w + 3) / 4
	bh := (h + 3) / 4
	out := make([]byte, 0, bw*bh*f.blockSize())

	var texels [16][4]uint8
	for by := 0; by < bh; by++ {
		for bx := 0; bx < bw; bx++ {
			// Gather the block, clamping edge coordinates so partial
			// blocks replicate their border texels.
			for py := 0; py < 4; py++ {
				for px := 0; px < 4; px++ {
					x := min(bx*4+px, w-1)
					y := min(by*4+py, h-1)
					o := (y*w + x) * 4
					texels[py*4+px] = [4]uint8{pix[o], pix[o+1], pix[o+2], pix[o+3]}
				}
			}

			switch f {
			case dxt3:
				var ab [8]byte
				for i := 0; i < 16; i++ {
					n := texels[i][3] >> 4
					ab[i/2] |= n << (uint(i%2) * 4)
				}
				out = append(out, ab[:]...)
			case dxt5:
				out = appendDXT5Alpha(out, &texels)
			}
			out = appendDXTColor(out, &texels, f)
		}
	}
	return out
}

// appendDXTColor writes the 8-byte color half-block.
func appendDXTColor(out []byte, texels *[16][4]uint8, f dxtFlavor) []byte {
	cutout := false
	if f == dxt1 {
		for _, t := range texels {
			if t[3] < 0x80 {
				cutout = true
				break
			}
		}
	}

	// Range fit: endpoints are the channel-wise extremes of the block.
	minC := [3]uint8{255, 255, 255}
	var maxC [3]uint8
	for _, t := range texels {
		if f == dxt1 && cutout && t[3] < 0x80 {
			continue
		}
		for c := 0; c < 3; c++ {
			minC[c] = min(minC[c], t[c])
			maxC[c] = max(maxC[c], t[c])
		}
	}

	c0 := packRGB565(maxC[0], maxC[1], maxC[2])
	c1 := packRGB565(minC[0], minC[1], minC[2])

	// The decoder reads the mode off the endpoint ordering for the
	// cutout layout: 3-color mode needs c0 <= c1, opaque needs c0 > c1.
	if cutout {
		if c0 > c1 {
			c0, c1 = c1, c0
		}
	} else if c0 < c1 {
		c0, c1 = c1, c0
	}
	// Equal endpoints leave an opaque DXT1 block in 3-color mode; the
	// transparent entry is excluded from the nearest search below, so
	// the block still decodes to the endpoint color.
	fourColor := f != dxt1 || c0 > c1
	table := dxtColorTable(c0, c1, fourColor)
	limit := 4
	if !fourColor {
		limit = 3
	}

	var indices uint32
	for i, t := range texels {
		if cutout && t[3] < 0x80 {
			indices |= 3 << (2 * i)
			continue
		}
		best, bestDist := 0, 1<<30
		for j := 0; j < limit; j++ {
			d := colorDist(t, table[j])
			if d < bestDist {
				best, bestDist = j, d
			}
		}
		indices |= uint32(best) << (2 * i)
	}

	out = binary.LittleEndian.AppendUint16(out, c0)
	out = binary.LittleEndian.AppendUint16(out, c1)
	return binary.LittleEndian.AppendUint32(out, indices)
}

// appendDXT5Alpha writes the 8-byte interpolated-alpha half-block.
func appendDXT5Alpha(out []byte, texels *[16][4]uint8) []byte {
	a0, a1 := texels[0][3], texels[0][3]
	for _, t := range texels {
		a0 = max(a0, t[3])
		a1 = min(a1, t[3])
	}
	// a0 > a1 selects the 8-step table; equal endpoints fall into the
	// 6-step table where index 0 still reproduces the value exactly.
	table := dxtAlphaTable(a0, a1)

	var bits uint64
	for i, t := range texels {
		best, bestDist := 0, 1<<30
		for j, v := range table {
			d := int(t[3]) - int(v)
			if d < 0 {
				d = -d
			}
			if d < bestDist {
				best, bestDist = j, d
			}
		}
		bits |= uint64(best) << (3 * i)
	}

	out = append(out, a0, a1)
	for i := 0; i < 6; i++ {
		out = append(out, byte(bits>>(8*i)))
	}
	return out
}

func colorDist(a, b [4]uint8) int {
	dr := int(a[0]) - int(b[0])
	dg := int(a[1]) - int(b[1])
	db := int(a[2]) - int(b[2])
	return dr*dr + dg*dg + db*db
}
