package blp

import "image"

// mipLevel is one slot of the document's level sequence. Nominal
// dimensions come from halving the header dimensions, never from the
// stored payload; raw is a borrowed view into the source buffer.
type mipLevel struct {
	width  int
	height int
	raw    []byte // nil when the slot is absent
	pix    []byte // decoded RGBA8, nil when absent or failed
	err    error  // per-level decode failure
}

// Texture is a decoded BLP document: one header, one variant payload
// and up to 16 mipmap levels. Real files populate levels contiguously
// from slot 0, but decoded documents tolerate and expose gaps.
type Texture struct {
	Header  *Header
	Payload VariantPayload

	levels [MipSlots]mipLevel
}

// NumLevels returns the length of the contiguous run of present levels
// starting at 0. Slots that are populated but failed to decode count
// as present; use LevelError to tell them apart. Gaps past the run
// remain reachable through Level.
func (t *Texture) NumLevels() int {
	for i := 0; i < MipSlots; i++ {
		lv := &t.levels[i]
		if lv.pix == nil && lv.err == nil {
			return i
		}
	}
	return MipSlots
}

// Level returns the decoded RGBA image of the given level, or nil when
// the slot is absent or its decode failed. The image shares the
// decoded buffer; it is not a copy.
func (t *Texture) Level(i int) *image.RGBA {
	if i < 0 || i >= MipSlots || t.levels[i].pix == nil {
		return nil
	}
	lv := &t.levels[i]
	return &image.RGBA{
		Pix:    lv.pix,
		Stride: lv.width * 4,
		Rect:   image.Rect(0, 0, lv.width, lv.height),
	}
}

// LevelError returns the decode failure recorded for the given level
// in best-effort mode, or nil.
func (t *Texture) LevelError(i int) error {
	if i < 0 || i >= MipSlots {
		return nil
	}
	return t.levels[i].err
}

// LevelData returns the level's raw byte range out of the source
// buffer, or nil when the slot is absent. The slice is borrowed, not
// copied; callers must not write through it.
func (t *Texture) LevelData(i int) []byte {
	if i < 0 || i >= MipSlots {
		return nil
	}
	return t.levels[i].raw
}

// Dims returns the nominal dimensions of the given level.
func (t *Texture) Dims(i int) (w, h int) {
	return t.Header.MipDims(i)
}

// Image returns the full-resolution level as an image, or ErrNoLevels
// when level 0 is absent.
func (t *Texture) Image() (image.Image, error) {
	if img := t.Level(0); img != nil {
		return img, nil
	}
	if err := t.LevelError(0); err != nil {
		return nil, err
	}
	return nil, ErrNoLevels
}
