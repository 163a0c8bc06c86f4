package blp

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"golang.org/x/sync/errgroup"
)

// DecodeOptions controls document decoding. The zero value decodes
// best-effort and serially with the standard library JPEG collaborator.
type DecodeOptions struct {
	// Strict fails the whole document on the first level error. The
	// default is best-effort: a failing level records its error and the
	// remaining levels still decode.
	Strict bool

	// Parallel decodes present levels concurrently. Each level reads
	// only the shared source buffer and writes only its own output, so
	// no locking is involved.
	Parallel bool

	// JPEG substitutes the JPEG collaborator. Nil uses StdJPEG.
	JPEG JPEGCodec
}

// DecodeBytes decodes a complete BLP document from a byte buffer.
// Header and variant-payload failures return no document; level
// failures behave per opts. The returned texture borrows level byte
// ranges from data, so data must stay immutable while the texture is
// in use.
func DecodeBytes(data []byte, opts *DecodeOptions) (*Texture, error) {
	if opts == nil {
		opts = &DecodeOptions{}
	}
	codec := opts.JPEG
	if codec == nil {
		codec = StdJPEG{}
	}

	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	payload, dataStart, err := parseVariant(data, h.Type, h.Size())
	if err != nil {
		return nil, err
	}

	ranges := resolveMipTable(h, dataStart, len(data))

	t := &Texture{Header: h, Payload: payload}
	for i := 0; i < MipSlots; i++ {
		t.levels[i].width, t.levels[i].height = h.MipDims(i)
	}

	decodeOne := func(i int) error {
		rng := ranges[i]
		lv := &t.levels[i]
		if rng.err != nil {
			lv.err = rng.err
			return rng.err
		}
		if !rng.ok {
			return nil
		}
		lv.raw = rng.slice(data)
		pix, err := decodeLevel(h, payload, codec, i, lv.raw)
		if err != nil {
			var de *DimensionError
			if !errors.As(err, &de) {
				err = mipErr(i, err)
			}
			lv.err = err
			return err
		}
		lv.pix = pix
		return nil
	}

	if opts.Parallel {
		var g errgroup.Group
		for i := 0; i < MipSlots; i++ {
			i := i
			g.Go(func() error {
				if err := decodeOne(i); err != nil && opts.Strict {
					return err
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := 0; i < MipSlots; i++ {
			if err := decodeOne(i); err != nil && opts.Strict {
				return nil, err
			}
		}
	}

	return t, nil
}

// decodeLevel converts one level's raw bytes into RGBA8, dispatching
// on texture type and, for Direct data, on the encoding selector. The
// byte length is reconciled against the level's nominal dimensions
// before any pixel work.
func decodeLevel(h *Header, payload VariantPayload, codec JPEGCodec, level int, raw []byte) ([]byte, error) {
	w, ht := h.MipDims(level)

	switch h.Type {
	case TypeJPEG:
		pro := payload.(*JPEGPrologue)
		return decodeJPEGLevel(codec, level, pro.Chunk, raw, w, ht)

	case TypeDirect:
		pro := payload.(*DirectPrologue)
		switch h.encoding() {
		case EncodingIndexed:
			depth := h.alphaDepth()
			switch depth {
			case 0, 1, 4, 8:
			default:
				return nil, fmt.Errorf("%w: alpha depth %d", ErrUnsupportedEncoding, depth)
			}
			if want := indexedSize(w*ht, depth); len(raw) != want {
				return nil, &DimensionError{Level: level, Expected: want, Actual: len(raw)}
			}
			return decodeIndexed(raw, pro, w, ht, depth)

		case EncodingDXT:
			f := dxtFlavorFor(h)
			if want := dxtSize(w, ht, f); len(raw) != want {
				return nil, &DimensionError{Level: level, Expected: want, Actual: len(raw)}
			}
			return decodeDXT(raw, w, ht, f), nil

		case EncodingRaw:
			if want := w * ht * 4; len(raw) != want {
				return nil, &DimensionError{Level: level, Expected: want, Actual: len(raw)}
			}
			return decodeRaw(raw, w, ht), nil

		default:
			return nil, fmt.Errorf("%w: encoding %d", ErrUnsupportedEncoding, uint8(h.Encoding))
		}
	}
	return nil, ErrUnknownTextureType
}

// Decode reads a BLP document from r and returns its full-resolution
// level. It decodes strictly; use DecodeBytes for level access and
// best-effort behavior.
func Decode(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	t, err := DecodeBytes(data, &DecodeOptions{Strict: true})
	if err != nil {
		return nil, err
	}
	return t.Image()
}

// DecodeConfig returns the dimensions and color model without decoding
// pixel data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return image.Config{}, err
	}
	h, err := ParseHeader(data)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		Width:      int(h.Width),
		Height:     int(h.Height),
		ColorModel: color.RGBAModel,
	}, nil
}

func init() {
	// All three version magics share the BLP prefix; the image package
	// matches '?' against any one byte.
	image.RegisterFormat("blp", "BLP?", Decode, DecodeConfig)
}
