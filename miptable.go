package blp

import "fmt"

// mipRange is one resolved mipmap slot: an absolute byte range into
// the source buffer, absent, or present-but-invalid. Present slots may
// appear in any offset order and may overlap each other; overlap only
// becomes an error when a range leaves the buffer.
type mipRange struct {
	offset int
	length int
	ok     bool  // slot holds data
	err    error // slot is populated but its range leaves the buffer
}

// slice returns the borrowed byte range out of the source buffer.
// The source is never written through this path.
func (r mipRange) slice(data []byte) []byte {
	return data[r.offset : r.offset+r.length]
}

// resolveMipTable maps the header's offset/length tables onto a source
// buffer of bufLen bytes. dataStart is the offset of the first byte
// after the variant payload; legacy-0 has no table at all and gets a
// single implicit level covering the remainder of the buffer.
//
// A slot with offset 0 or length 0 is absent, not an error.
func resolveMipTable(h *Header, dataStart, bufLen int) [MipSlots]mipRange {
	var out [MipSlots]mipRange

	if !headerLayouts[h.Version].mipTable {
		if dataStart < bufLen {
			out[0] = mipRange{offset: dataStart, length: bufLen - dataStart, ok: true}
		}
		return out
	}

	for i := 0; i < MipSlots; i++ {
		off := int(h.Offsets[i])
		ln := int(h.Lengths[i])
		if off == 0 || ln == 0 {
			continue
		}
		if off < 0 || ln < 0 || off+ln > bufLen {
			out[i] = mipRange{err: fmt.Errorf("%w: level %d: [%d, %d) in %d-byte buffer",
				ErrMipOutOfBounds, i, off, off+ln, bufLen)}
			continue
		}
		out[i] = mipRange{offset: off, length: ln, ok: true}
	}
	return out
}
