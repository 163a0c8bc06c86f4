package blp

import "encoding/binary"

// PaletteSize is the fixed entry count of the Direct-variant palette.
// The palette always has exactly 256 entries regardless of how many
// are referenced by indexed pixel data.
const PaletteSize = 256

// VariantPayload is the texture-type-specific prologue that follows
// the header. The two texture types are a closed set: dispatch on the
// concrete type is exhaustive, never a default branch.
type VariantPayload interface {
	// size returns the serialized byte size of the payload.
	size() int
	// appendTo serializes the payload.
	appendTo(buf []byte) []byte
}

// JPEGPrologue is the shared JPEG header chunk common to every
// JPEG-coded level. Each level's complete JPEG stream is Chunk
// followed by the level's own bytes.
type JPEGPrologue struct {
	Chunk []byte
}

func (p *JPEGPrologue) size() int { return 4 + len(p.Chunk) }

func (p *JPEGPrologue) appendTo(buf []byte) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(p.Chunk)))
	return append(buf, p.Chunk...)
}

// DirectPrologue is the 256-entry color palette for indexed Direct
// data. Entries keep the packed little-endian file value; channel
// unpacking lives in color.go.
type DirectPrologue struct {
	Palette [PaletteSize]uint32
}

func (p *DirectPrologue) size() int { return 4 * PaletteSize }

func (p *DirectPrologue) appendTo(buf []byte) []byte {
	for _, e := range p.Palette {
		buf = binary.LittleEndian.AppendUint32(buf, e)
	}
	return buf
}

// parseVariant reads the variant payload for the given texture type
// starting at data[off]. It returns the payload and the offset of the
// first byte after it.
func parseVariant(data []byte, tt TextureType, off int) (VariantPayload, int, error) {
	switch tt {
	case TypeJPEG:
		if off+4 > len(data) {
			return nil, 0, ErrTruncatedJPEGHeader
		}
		n := int(binary.LittleEndian.Uint32(data[off:]))
		off += 4
		if n < 0 || off+n > len(data) {
			return nil, 0, ErrTruncatedJPEGHeader
		}
		chunk := make([]byte, n)
		copy(chunk, data[off:off+n])
		return &JPEGPrologue{Chunk: chunk}, off + n, nil

	case TypeDirect:
		if off+4*PaletteSize > len(data) {
			return nil, 0, ErrTruncatedPalette
		}
		p := &DirectPrologue{}
		for i := 0; i < PaletteSize; i++ {
			p.Palette[i] = binary.LittleEndian.Uint32(data[off:])
			off += 4
		}
		return p, off, nil
	}
	return nil, 0, ErrUnknownTextureType
}
