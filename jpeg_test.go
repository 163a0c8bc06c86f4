package blp

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"testing"
)

// stubJPEG records the streams handed to the collaborator and returns
// a fixed-size opaque image, or a forced failure.
type stubJPEG struct {
	w, h    int
	fail    bool
	gotLens []int
}

func (s *stubJPEG) Decode(data []byte) (image.Image, error) {
	s.gotLens = append(s.gotLens, len(data))
	if s.fail {
		return nil, errors.New("stub: refused")
	}
	return image.NewRGBA(image.Rect(0, 0, s.w, s.h)), nil
}

func (s *stubJPEG) Encode(img image.Image, quality int) ([]byte, error) {
	if s.fail {
		return nil, errors.New("stub: refused")
	}
	b := img.Bounds()
	out := []byte{'S', 'T', 'U', 'B'}
	return binary.LittleEndian.AppendUint32(out, uint32(b.Dx()<<16|b.Dy())), nil
}

// buildJPEGBLP1 assembles a minimal BLP1 JPEG document: a header, a
// chunk of chunkLen bytes and one level of levelLen bytes.
func buildJPEGBLP1(t *testing.T, w, h uint32, chunkLen, levelLen int) []byte {
	t.Helper()
	h1 := Header{Version: Version1, Type: TypeJPEG, AlphaBits: 0, Width: w, Height: h}
	levelOff := h1.Size() + 4 + chunkLen
	h1.Offsets[0] = uint32(levelOff)
	h1.Lengths[0] = uint32(levelLen)

	hb, err := h1.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	buf := append([]byte(nil), hb...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(chunkLen))
	buf = append(buf, bytes.Repeat([]byte{0xAB}, chunkLen)...)
	buf = append(buf, bytes.Repeat([]byte{0xCD}, levelLen)...)
	return buf
}

func TestJPEGLevelStreamReassembly(t *testing.T) {
	// A 20-byte shared chunk plus a 100-byte level must reach the
	// collaborator as one 120-byte stream.
	data := buildJPEGBLP1(t, 4, 4, 20, 100)
	stub := &stubJPEG{w: 4, h: 4}

	tex, err := DecodeBytes(data, &DecodeOptions{Strict: true, JPEG: stub})
	if err != nil {
		t.Fatal(err)
	}
	if len(stub.gotLens) != 1 || stub.gotLens[0] != 120 {
		t.Fatalf("collaborator saw streams %v, want [120]", stub.gotLens)
	}
	if tex.Level(0) == nil {
		t.Fatal("level 0 should decode")
	}
}

func TestJPEGAlphaForcedOpaque(t *testing.T) {
	// The header declares 8-bit alpha but JPEG levels are opaque by
	// definition; the quirk is preserved, not fixed.
	data := buildJPEGBLP1(t, 2, 2, 4, 10)
	data[8] = 8 // alpha bits

	semi := &stubJPEG{w: 2, h: 2}
	tex, err := DecodeBytes(data, &DecodeOptions{Strict: true, JPEG: semi})
	if err != nil {
		t.Fatal(err)
	}
	img := tex.Level(0)
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 255 {
			t.Fatalf("alpha byte %d = %d, want 255", i, img.Pix[i])
		}
	}
}

func TestJPEGCollaboratorFailure(t *testing.T) {
	data := buildJPEGBLP1(t, 4, 4, 20, 100)
	stub := &stubJPEG{w: 4, h: 4, fail: true}

	if _, err := DecodeBytes(data, &DecodeOptions{Strict: true, JPEG: stub}); !errors.Is(err, ErrUnsupportedEncoding) {
		t.Fatalf("strict decode err = %v, want ErrUnsupportedEncoding", err)
	}

	tex, err := DecodeBytes(data, &DecodeOptions{JPEG: stub})
	if err != nil {
		t.Fatalf("best-effort decode should not fail: %v", err)
	}
	if !errors.Is(tex.LevelError(0), ErrUnsupportedEncoding) {
		t.Fatalf("LevelError(0) = %v, want ErrUnsupportedEncoding", tex.LevelError(0))
	}
	if tex.Level(0) != nil {
		t.Fatal("failed level must not fabricate pixels")
	}
}

func TestJPEGDimensionMismatch(t *testing.T) {
	data := buildJPEGBLP1(t, 4, 4, 20, 100)
	stub := &stubJPEG{w: 8, h: 8} // collaborator disagrees about size

	_, err := DecodeBytes(data, &DecodeOptions{Strict: true, JPEG: stub})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("err = %v, want ErrDimensionMismatch", err)
	}
	var de *DimensionError
	if !errors.As(err, &de) || de.Level != 0 {
		t.Fatalf("err = %#v, want DimensionError for level 0", err)
	}
}

func TestTruncatedJPEGHeaderChunk(t *testing.T) {
	data := buildJPEGBLP1(t, 4, 4, 20, 100)
	// Declare a chunk longer than the remaining buffer.
	binary.LittleEndian.PutUint32(data[156:], 1<<20)

	if _, err := DecodeBytes(data, nil); !errors.Is(err, ErrTruncatedJPEGHeader) {
		t.Fatalf("err = %v, want ErrTruncatedJPEGHeader", err)
	}
}

func TestSplitJPEGStreams(t *testing.T) {
	streams := [][]byte{
		[]byte("HEADERaaaa"),
		[]byte("HEADERbb"),
		[]byte("HEADERcccccc"),
	}
	chunk, rest := splitJPEGStreams(streams)
	if string(chunk) != "HEADER" {
		t.Fatalf("chunk = %q, want HEADER", chunk)
	}
	for i, r := range rest {
		want := string(streams[i][6:])
		if string(r) != want {
			t.Errorf("rest[%d] = %q, want %q", i, r, want)
		}
	}
}

func TestSplitJPEGStreamsKeepsLevelsNonEmpty(t *testing.T) {
	// Identical streams: the factored chunk must leave at least one
	// byte per level, or the slot would read back as absent.
	streams := [][]byte{[]byte("SAME"), []byte("SAME")}
	chunk, rest := splitJPEGStreams(streams)
	if string(chunk) != "SAM" {
		t.Fatalf("chunk = %q, want SAM", chunk)
	}
	for i, r := range rest {
		if len(r) == 0 {
			t.Fatalf("rest[%d] is empty", i)
		}
	}
}
