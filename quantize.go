package blp

import "sort"

// Palette construction for the indexed encoder. The quantization
// strategy is not part of the wire contract: callers may hand the
// encoder a ready-made palette through EncodeOptions, and this
// median-cut builder is the fallback when they do not.

// buildPalette derives a 256-entry palette from RGBA8 pixel data.
// Images with at most 256 distinct colors get an exact palette;
// anything larger goes through a median cut over the color set.
func buildPalette(pix []byte) *DirectPrologue {
	type weighted struct {
		c [3]uint8
		n int
	}

	seen := make(map[uint32]int)
	for i := 0; i+3 < len(pix); i += 4 {
		seen[packPalette(pix[i], pix[i+1], pix[i+2])]++
	}

	keys := make([]uint32, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	p := &DirectPrologue{}
	if len(keys) <= PaletteSize {
		for i, k := range keys {
			p.Palette[i] = k
		}
		return p
	}

	colors := make([]weighted, len(keys))
	for i, k := range keys {
		r, g, b := paletteRGB(k)
		colors[i] = weighted{c: [3]uint8{r, g, b}, n: seen[k]}
	}

	boxes := [][]weighted{colors}
	for len(boxes) < PaletteSize {
		// Split the box with the widest channel spread at its median.
		bi, ch, spread := -1, 0, 0
		for i, box := range boxes {
			if len(box) < 2 {
				continue
			}
			lo := [3]uint8{255, 255, 255}
			var hi [3]uint8
			for _, c := range box {
				for k := 0; k < 3; k++ {
					lo[k] = min(lo[k], c.c[k])
					hi[k] = max(hi[k], c.c[k])
				}
			}
			for k := 0; k < 3; k++ {
				if d := int(hi[k]) - int(lo[k]); d > spread {
					bi, ch, spread = i, k, d
				}
			}
		}
		if bi < 0 {
			break
		}

		box := boxes[bi]
		sort.Slice(box, func(i, j int) bool { return box[i].c[ch] < box[j].c[ch] })
		mid := len(box) / 2
		boxes[bi] = box[:mid]
		boxes = append(boxes, box[mid:])
	}

	for i, box := range boxes {
		var sr, sg, sb, n int
		for _, c := range box {
			sr += int(c.c[0]) * c.n
			sg += int(c.c[1]) * c.n
			sb += int(c.c[2]) * c.n
			n += c.n
		}
		if n > 0 {
			p.Palette[i] = packPalette(uint8(sr/n), uint8(sg/n), uint8(sb/n))
		}
	}
	return p
}

// paletteLookup maps colors to palette indices: exact hits through a
// map, misses through a nearest-entry scan whose result is memoized.
type paletteLookup struct {
	pal   *DirectPrologue
	index map[uint32]uint8
}

func newPaletteLookup(p *DirectPrologue) *paletteLookup {
	l := &paletteLookup{pal: p, index: make(map[uint32]uint8, PaletteSize)}
	// Later duplicates must not shadow earlier entries, so indices win
	// first-come.
	for i := PaletteSize - 1; i >= 0; i-- {
		l.index[p.Palette[i]&0x00FFFFFF] = uint8(i)
	}
	return l
}

func (l *paletteLookup) nearest(r, g, b uint8) uint8 {
	key := packPalette(r, g, b)
	if i, ok := l.index[key]; ok {
		return i
	}

	want := [4]uint8{r, g, b, 0}
	best, bestDist := uint8(0), 1<<30
	for i, e := range l.pal.Palette {
		er, eg, eb := paletteRGB(e)
		if d := colorDist(want, [4]uint8{er, eg, eb, 0}); d < bestDist {
			best, bestDist = uint8(i), d
		}
	}
	l.index[key] = best
	return best
}
