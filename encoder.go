package blp

import (
	"fmt"
	"image"
	"image/draw"
	"io"
)

// EncodeOptions controls texture construction and encoding. The zero
// value builds a Version2 JPEG-typed file (TypeJPEG is the format's
// zero wire value) with no alpha and a single level.
type EncodeOptions struct {
	// Version selects the container revision. Zero means Version2.
	Version Version

	// Type selects the texture variant; the zero value is TypeJPEG.
	Type TextureType

	// Encoding selects the Direct pixel layout for Version2. Zero
	// means EncodingIndexed. Legacy versions always encode indexed
	// data and reject other layouts.
	Encoding Encoding

	// AlphaDepth is the alpha bit depth: 0, 1, 4 or 8.
	AlphaDepth int

	// AlphaType is the block layout selector written to current-version
	// headers; AlphaTypeInterpolated with AlphaDepth > 1 selects
	// interpolated-alpha blocks.
	AlphaType uint8

	// Quality is passed to the JPEG collaborator; zero means the
	// collaborator's default.
	Quality int

	// GenerateMips populates levels 1..n by repeated 2x2 box-filter
	// downsampling until 1x1. Ignored for Version0, which has a single
	// implicit level.
	GenerateMips bool

	// Palette supplies a prebuilt 256-entry palette for indexed data.
	// Nil builds one from the full-resolution level.
	Palette *DirectPrologue

	// JPEG substitutes the JPEG collaborator. Nil uses StdJPEG.
	JPEG JPEGCodec
}

// NewTexture builds a texture document from an image according to
// opts. The resulting document can be encoded with EncodeBytes or
// inspected through the level accessors.
func NewTexture(img image.Image, opts *EncodeOptions) (*Texture, error) {
	if opts == nil {
		opts = &EncodeOptions{}
	}

	v := opts.Version
	if v == 0 {
		v = Version2
	}
	lay, ok := headerLayouts[v]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMagic, v)
	}
	if opts.Type != TypeJPEG && opts.Type != TypeDirect {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTextureType, uint32(opts.Type))
	}
	switch opts.AlphaDepth {
	case 0, 1, 4, 8:
	default:
		return nil, fmt.Errorf("%w: alpha depth %d", ErrUnsupportedEncoding, opts.AlphaDepth)
	}

	enc := opts.Encoding
	if enc == 0 {
		enc = EncodingIndexed
	}
	if lay.alphaWord && enc != EncodingIndexed {
		return nil, fmt.Errorf("%w: encoding %d needs %s", ErrUnsupportedEncoding, uint8(enc), Version2)
	}

	base := toRGBA(img)
	w := base.Rect.Dx()
	h := base.Rect.Dy()

	hdr := &Header{
		Version: v,
		Type:    opts.Type,
		Width:   uint32(w),
		Height:  uint32(h),
	}
	if lay.alphaWord {
		hdr.AlphaBits = uint32(opts.AlphaDepth)
	} else {
		hdr.Encoding = enc
		hdr.AlphaDepth = uint8(opts.AlphaDepth)
		hdr.AlphaType = opts.AlphaType
	}

	t := &Texture{Header: hdr}
	t.levels[0] = mipLevel{width: w, height: h, pix: base.Pix}

	if opts.GenerateMips && lay.mipTable {
		pix, lw, lh := base.Pix, w, h
		for i := 1; i < MipSlots && (lw > 1 || lh > 1); i++ {
			pix, lw, lh = downsampleRGBA(pix, lw, lh)
			t.levels[i] = mipLevel{width: lw, height: lh, pix: pix}
		}
		if lay.alphaWord {
			hdr.HasMipmaps = 1
		} else {
			hdr.HasMips = 1
		}
	}

	switch opts.Type {
	case TypeDirect:
		pal := opts.Palette
		if pal == nil {
			if enc == EncodingIndexed {
				pal = buildPalette(base.Pix)
			} else {
				pal = &DirectPrologue{}
			}
		}
		t.Payload = pal
	case TypeJPEG:
		// The shared chunk is factored out of the per-level streams at
		// encode time.
		t.Payload = &JPEGPrologue{}
	}

	return t, nil
}

// EncodeBytes serializes a texture document into a complete BLP byte
// buffer. All level payloads are encoded first, then the offset table
// is laid out, and the header is serialized last: offsets depend on
// final lengths, so this ordering is fixed.
func EncodeBytes(t *Texture, opts *EncodeOptions) ([]byte, error) {
	if opts == nil {
		opts = &EncodeOptions{}
	}

	hdr := *t.Header
	lay, ok := headerLayouts[hdr.Version]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMagic, hdr.Version)
	}

	maxLevels := MipSlots
	if !lay.mipTable {
		maxLevels = 1
	}

	var payloads [MipSlots][]byte
	var payload VariantPayload
	present := 0

	switch hdr.Type {
	case TypeJPEG:
		codec := opts.JPEG
		if codec == nil {
			codec = StdJPEG{}
		}
		var streams [][]byte
		var slots []int
		for i := 0; i < maxLevels; i++ {
			lv := &t.levels[i]
			if lv.pix == nil {
				continue
			}
			img := &image.RGBA{Pix: lv.pix, Stride: lv.width * 4, Rect: image.Rect(0, 0, lv.width, lv.height)}
			s, err := codec.Encode(img, opts.Quality)
			if err != nil {
				return nil, mipErr(i, err)
			}
			streams = append(streams, s)
			slots = append(slots, i)
		}
		if len(streams) == 0 {
			return nil, ErrNoLevels
		}
		chunk, rest := splitJPEGStreams(streams)
		payload = &JPEGPrologue{Chunk: chunk}
		for k, i := range slots {
			payloads[i] = rest[k]
		}
		present = len(slots)

	case TypeDirect:
		pal, _ := t.Payload.(*DirectPrologue)
		enc := hdr.encoding()
		depth := hdr.alphaDepth()
		if enc == EncodingIndexed {
			switch depth {
			case 0, 1, 4, 8:
			default:
				return nil, fmt.Errorf("%w: alpha depth %d", ErrUnsupportedEncoding, depth)
			}
			if pal == nil && t.levels[0].pix != nil {
				pal = buildPalette(t.levels[0].pix)
			}
		}
		if pal == nil {
			pal = &DirectPrologue{}
		}
		payload = pal

		for i := 0; i < maxLevels; i++ {
			lv := &t.levels[i]
			if lv.pix == nil {
				continue
			}
			switch enc {
			case EncodingIndexed:
				payloads[i] = encodeIndexed(lv.pix, pal, lv.width, lv.height, depth)
			case EncodingDXT:
				payloads[i] = encodeDXT(lv.pix, lv.width, lv.height, dxtFlavorFor(&hdr))
			case EncodingRaw:
				payloads[i] = encodeRaw(lv.pix, lv.width, lv.height)
			default:
				return nil, fmt.Errorf("%w: encoding %d", ErrUnsupportedEncoding, uint8(hdr.Encoding))
			}
			present++
		}
		if present == 0 {
			return nil, ErrNoLevels
		}

	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownTextureType, uint32(hdr.Type))
	}

	// Payload bytes are final: lay out the offset table, then write the
	// header in front of everything.
	hdr.Offsets = [MipSlots]uint32{}
	hdr.Lengths = [MipSlots]uint32{}
	off := headerSize(lay) + payload.size()
	for i, pl := range payloads {
		if pl == nil {
			continue
		}
		if lay.mipTable {
			hdr.Offsets[i] = uint32(off)
			hdr.Lengths[i] = uint32(len(pl))
		}
		off += len(pl)
	}

	hb, err := hdr.MarshalBinary()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, off)
	buf = append(buf, hb...)
	buf = payload.appendTo(buf)
	for _, pl := range payloads {
		if pl != nil {
			buf = append(buf, pl...)
		}
	}
	return buf, nil
}

// Encode builds a texture from img per opts and writes the complete
// BLP byte stream to w.
func Encode(w io.Writer, img image.Image, opts *EncodeOptions) error {
	t, err := NewTexture(img, opts)
	if err != nil {
		return err
	}
	buf, err := EncodeBytes(t, opts)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

// toRGBA converts an arbitrary image to RGBA8 with a zero origin.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// downsampleRGBA halves an RGBA8 buffer with a 2x2 box filter,
// flooring at one pixel per side. Odd edges replicate the border.
func downsampleRGBA(pix []byte, w, h int) ([]byte, int, int) {
	nw := max(1, w/2)
	nh := max(1, h/2)
	out := make([]byte, nw*nh*4)

	for y := 0; y < nh; y++ {
		for x := 0; x < nw; x++ {
			x0, y0 := x*2, y*2
			x1 := min(x0+1, w-1)
			y1 := min(y0+1, h-1)
			for c := 0; c < 4; c++ {
				s := int(pix[(y0*w+x0)*4+c]) +
					int(pix[(y0*w+x1)*4+c]) +
					int(pix[(y1*w+x0)*4+c]) +
					int(pix[(y1*w+x1)*4+c])
				out[(y*nw+x)*4+c] = uint8((s + 2) / 4)
			}
		}
	}
	return out, nw, nh
}
