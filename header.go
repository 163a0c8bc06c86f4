package blp

import (
	"encoding/binary"
	"fmt"
)

// Version identifies one of the three BLP format revisions. The value
// is the 4-byte magic tag read as a single big-endian word, the only
// big-endian field in the format; every other multi-byte field is
// little-endian.
type Version uint32

const (
	Version0 Version = 0x424C5030 // "BLP0" (Warcraft III beta)
	Version1 Version = 0x424C5031 // "BLP1" (Warcraft III)
	Version2 Version = 0x424C5032 // "BLP2" (World of Warcraft)
)

// String returns the magic tag for the version.
func (v Version) String() string {
	switch v {
	case Version0:
		return "BLP0"
	case Version1:
		return "BLP1"
	case Version2:
		return "BLP2"
	}
	return fmt.Sprintf("Version(%#08x)", uint32(v))
}

// TextureType selects the variant payload and the pixel codec path.
type TextureType uint32

const (
	TypeJPEG   TextureType = 0 // shared JPEG header chunk + per-level scan data
	TypeDirect TextureType = 1 // palette-indexed or block-compressed pixels
)

// Encoding is the current-version pixel layout selector stored in the
// first byte of the 4-byte alpha configuration. Legacy versions carry
// no encoding byte; legacy Direct data is always indexed.
type Encoding uint8

const (
	EncodingIndexed Encoding = 1 // palette index plane + optional trailing alpha plane
	EncodingDXT     Encoding = 2 // 4x4 block compression
	EncodingRaw     Encoding = 3 // uncompressed BGRA quads
)

// AlphaTypeInterpolated in combination with AlphaDepth > 1 selects the
// block layout with full interpolated 8-bit alpha (DXT5); other values
// with AlphaDepth > 1 select the 4-bit explicit layout (DXT3).
const AlphaTypeInterpolated = 7

// MipSlots is the fixed size of the mipmap offset/length tables.
const MipSlots = 16

// headerLayout describes the version-dependent header shape. All
// version gating in parse and serialize goes through this table so the
// three eras stay auditable in one place.
type headerLayout struct {
	alphaWord  bool // one u32 alpha-bits field instead of four bytes
	legacyTail bool // trailing extra / has_mipmaps pair
	mipTable   bool // 16-entry offset table followed by 16-entry length table
}

var headerLayouts = map[Version]headerLayout{
	Version0: {alphaWord: true, legacyTail: true, mipTable: false},
	Version1: {alphaWord: true, legacyTail: true, mipTable: true},
	Version2: {alphaWord: false, legacyTail: false, mipTable: true},
}

// Header is the fixed-size BLP file header. Version and Type are set
// at parse or construction time and never mutated afterwards.
type Header struct {
	Version Version
	Type    TextureType

	// Current-version alpha configuration: four bytes at offset 8.
	Encoding   Encoding
	AlphaDepth uint8 // bits per pixel of alpha: 0, 1, 4 or 8
	AlphaType  uint8 // block layout selector: 0, 1, 7 or 8
	HasMips    uint8 // mipmap-presence flag

	// Legacy alpha configuration: one u32 at offset 8.
	AlphaBits uint32

	// Pixel dimensions of mip level 0.
	Width  uint32
	Height uint32

	// Legacy-only trailing pair with no defined semantics beyond
	// presence; preserved verbatim for byte-identical round-trips.
	Extra      uint32
	HasMipmaps uint32

	// Absolute file offsets and byte lengths, slot i holding level i.
	// Present for Version1 and Version2; all zero for Version0.
	Offsets [MipSlots]uint32
	Lengths [MipSlots]uint32
}

// headerSize returns the serialized byte size of a header with the
// given layout.
func headerSize(lay headerLayout) int {
	n := 4 + 4 + 4 + 8 // magic, texture type, alpha config, width+height
	if lay.legacyTail {
		n += 8
	}
	if lay.mipTable {
		n += 2 * 4 * MipSlots
	}
	return n
}

// Size returns the serialized byte size of the header.
func (h *Header) Size() int {
	return headerSize(headerLayouts[h.Version])
}

// ParseHeader reads a version-dependent header from the start of data.
// It fails with ErrUnknownMagic, ErrUnknownTextureType or
// ErrTruncatedHeader; it never reads past len(data).
func ParseHeader(data []byte) (*Header, error) {
	if len(data) < 8 {
		return nil, ErrTruncatedHeader
	}

	v := Version(binary.BigEndian.Uint32(data[0:4]))
	lay, ok := headerLayouts[v]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMagic, string(data[0:4]))
	}
	if len(data) < headerSize(lay) {
		return nil, fmt.Errorf("%w: %s needs %d bytes, have %d",
			ErrTruncatedHeader, v, headerSize(lay), len(data))
	}

	tt := binary.LittleEndian.Uint32(data[4:8])
	if tt != uint32(TypeJPEG) && tt != uint32(TypeDirect) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTextureType, tt)
	}

	h := &Header{Version: v, Type: TextureType(tt)}
	o := 8

	if lay.alphaWord {
		h.AlphaBits = binary.LittleEndian.Uint32(data[o:])
	} else {
		h.Encoding = Encoding(data[o])
		h.AlphaDepth = data[o+1]
		h.AlphaType = data[o+2]
		h.HasMips = data[o+3]
	}
	o += 4

	h.Width = binary.LittleEndian.Uint32(data[o:])
	h.Height = binary.LittleEndian.Uint32(data[o+4:])
	o += 8

	if lay.legacyTail {
		h.Extra = binary.LittleEndian.Uint32(data[o:])
		h.HasMipmaps = binary.LittleEndian.Uint32(data[o+4:])
		o += 8
	}

	if lay.mipTable {
		for i := 0; i < MipSlots; i++ {
			h.Offsets[i] = binary.LittleEndian.Uint32(data[o:])
			o += 4
		}
		for i := 0; i < MipSlots; i++ {
			h.Lengths[i] = binary.LittleEndian.Uint32(data[o:])
			o += 4
		}
	}

	return h, nil
}

// MarshalBinary serializes the header. Parsing and re-serializing a
// well-formed header is byte-identical.
func (h *Header) MarshalBinary() ([]byte, error) {
	lay, ok := headerLayouts[h.Version]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMagic, h.Version)
	}

	buf := make([]byte, 0, headerSize(lay))
	buf = binary.BigEndian.AppendUint32(buf, uint32(h.Version))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(h.Type))

	if lay.alphaWord {
		buf = binary.LittleEndian.AppendUint32(buf, h.AlphaBits)
	} else {
		buf = append(buf, byte(h.Encoding), h.AlphaDepth, h.AlphaType, h.HasMips)
	}

	buf = binary.LittleEndian.AppendUint32(buf, h.Width)
	buf = binary.LittleEndian.AppendUint32(buf, h.Height)

	if lay.legacyTail {
		buf = binary.LittleEndian.AppendUint32(buf, h.Extra)
		buf = binary.LittleEndian.AppendUint32(buf, h.HasMipmaps)
	}

	if lay.mipTable {
		for _, off := range h.Offsets {
			buf = binary.LittleEndian.AppendUint32(buf, off)
		}
		for _, ln := range h.Lengths {
			buf = binary.LittleEndian.AppendUint32(buf, ln)
		}
	}

	return buf, nil
}

// MipDims returns the nominal dimensions of the given level:
// max(1, Width>>level) x max(1, Height>>level). The format does not
// persist per-level dimensions, so these are authoritative.
func (h *Header) MipDims(level int) (w, ht int) {
	return mipDim(int(h.Width), level), mipDim(int(h.Height), level)
}

func mipDim(d, level int) int {
	d >>= uint(level)
	if d < 1 {
		return 1
	}
	return d
}

// alphaDepth unifies the two alpha configuration shapes: the legacy
// 32-bit alpha-bits word and the current per-byte depth field.
func (h *Header) alphaDepth() int {
	if headerLayouts[h.Version].alphaWord {
		return int(h.AlphaBits)
	}
	return int(h.AlphaDepth)
}

// encoding unifies the encoding selector. Legacy versions have no
// encoding byte: legacy Direct data is always palette-indexed.
func (h *Header) encoding() Encoding {
	if headerLayouts[h.Version].alphaWord {
		return EncodingIndexed
	}
	return h.Encoding
}
