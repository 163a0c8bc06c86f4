package blp

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
)

// JPEGCodec is the external JPEG collaborator. The BLP container
// splits one logical JPEG stream per level into a shared header chunk
// and per-level scan data; this codec only ever sees complete,
// reassembled streams.
//
// Callers may substitute their own implementation through
// DecodeOptions and EncodeOptions.
type JPEGCodec interface {
	Decode(data []byte) (image.Image, error)
	Encode(img image.Image, quality int) ([]byte, error)
}

// StdJPEG is the default collaborator, backed by the standard
// library's image/jpeg.
type StdJPEG struct{}

func (StdJPEG) Decode(data []byte) (image.Image, error) {
	return jpeg.Decode(bytes.NewReader(data))
}

func (StdJPEG) Encode(img image.Image, quality int) ([]byte, error) {
	if quality <= 0 {
		quality = jpeg.DefaultQuality
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeJPEGLevel reassembles the level's standalone JPEG stream from
// the shared chunk plus the level bytes, hands it to the collaborator
// and converts the result to RGBA8.
//
// Alpha is always forced to full opacity: the legacy format documents
// JPEG alpha as absent/unused even when the header declares an alpha
// depth. That quirk is preserved, not fixed.
func decodeJPEGLevel(codec JPEGCodec, level int, chunk, raw []byte, w, h int) ([]byte, error) {
	stream := make([]byte, 0, len(chunk)+len(raw))
	stream = append(stream, chunk...)
	stream = append(stream, raw...)

	img, err := codec.Decode(stream)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedEncoding, err)
	}

	b := img.Bounds()
	if b.Dx() != w || b.Dy() != h {
		return nil, &DimensionError{
			Level:    level,
			Expected: w * h * 4,
			Actual:   b.Dx() * b.Dy() * 4,
		}
	}

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	for i := 3; i < len(rgba.Pix); i += 4 {
		rgba.Pix[i] = 0xFF
	}
	return rgba.Pix, nil
}

// splitJPEGStreams factors per-level JPEG streams into the shared
// header chunk and per-level remainders: the chunk is the longest
// common prefix of all streams, the exact inverse of the decode-side
// concatenation.
func splitJPEGStreams(streams [][]byte) (chunk []byte, rest [][]byte) {
	if len(streams) == 0 {
		return nil, nil
	}

	n := len(streams[0])
	for _, s := range streams[1:] {
		n = min(n, len(s))
	}
	prefix := 0
	for prefix < n {
		b := streams[0][prefix]
		same := true
		for _, s := range streams[1:] {
			if s[prefix] != b {
				same = false
				break
			}
		}
		if !same {
			break
		}
		prefix++
	}

	// A level whose remainder went empty would read back as an absent
	// slot (length 0), so every level keeps at least one byte.
	if prefix == n && n > 0 {
		prefix = n - 1
	}

	chunk = append([]byte(nil), streams[0][:prefix]...)
	rest = make([][]byte, len(streams))
	for i, s := range streams {
		rest[i] = s[prefix:]
	}
	return chunk, rest
}
