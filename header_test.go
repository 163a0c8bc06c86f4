package blp

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func TestHeaderRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		h    Header
	}{
		{
			name: "BLP0 jpeg",
			h: Header{
				Version: Version0, Type: TypeJPEG,
				AlphaBits: 8, Width: 512, Height: 256,
				Extra: 5, HasMipmaps: 1,
			},
		},
		{
			name: "BLP1 direct",
			h: Header{
				Version: Version1, Type: TypeDirect,
				AlphaBits: 1, Width: 64, Height: 64,
				Extra: 4, HasMipmaps: 1,
				Offsets: [MipSlots]uint32{1: 1180, 2: 2000},
				Lengths: [MipSlots]uint32{1: 820, 2: 205},
			},
		},
		{
			name: "BLP2 dxt",
			h: Header{
				Version: Version2, Type: TypeDirect,
				Encoding: EncodingDXT, AlphaDepth: 8,
				AlphaType: AlphaTypeInterpolated, HasMips: 1,
				Width: 128, Height: 128,
				Offsets: [MipSlots]uint32{0: 1172},
				Lengths: [MipSlots]uint32{0: 16384},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			first, err := tc.h.MarshalBinary()
			if err != nil {
				t.Fatalf("MarshalBinary: %v", err)
			}
			if len(first) != tc.h.Size() {
				t.Fatalf("serialized %d bytes, Size() says %d", len(first), tc.h.Size())
			}

			parsed, err := ParseHeader(first)
			if err != nil {
				t.Fatalf("ParseHeader: %v", err)
			}
			if *parsed != tc.h {
				t.Fatalf("parsed header differs:\ngot  %+v\nwant %+v", *parsed, tc.h)
			}

			second, err := parsed.MarshalBinary()
			if err != nil {
				t.Fatalf("re-marshal: %v", err)
			}
			if !bytes.Equal(first, second) {
				t.Fatalf("re-serialization not byte-identical:\ngot  % x\nwant % x", second, first)
			}
		})
	}
}

func TestHeaderSizes(t *testing.T) {
	tests := []struct {
		v    Version
		want int
	}{
		{Version0, 28},
		{Version1, 156},
		{Version2, 148},
	}
	for _, tc := range tests {
		h := Header{Version: tc.v}
		if got := h.Size(); got != tc.want {
			t.Errorf("%s: Size() = %d, want %d", tc.v, got, tc.want)
		}
	}
}

func TestParseHeaderMagicIsBigEndian(t *testing.T) {
	// The magic is the one big-endian field: the tag must appear in
	// the buffer in reading order, "BLP2" not "2PLB".
	h := Header{Version: Version2, Type: TypeDirect, Width: 1, Height: 1}
	buf, err := h.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	if string(buf[:4]) != "BLP2" {
		t.Fatalf("magic bytes = %q, want %q", buf[:4], "BLP2")
	}
	if w := binary.LittleEndian.Uint32(buf[8:12]); w != 1 {
		t.Fatalf("width stored big-endian? got %d", w)
	}
}

func TestParseHeaderErrors(t *testing.T) {
	valid, _ := (&Header{Version: Version2, Type: TypeDirect, Width: 4, Height: 4}).MarshalBinary()

	badMagic := append([]byte(nil), valid...)
	copy(badMagic, "BLP9")

	badType := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint32(badType[4:], 7)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrTruncatedHeader},
		{"short magic", []byte("BL"), ErrTruncatedHeader},
		{"truncated body", valid[:40], ErrTruncatedHeader},
		{"unknown magic", badMagic, ErrUnknownMagic},
		{"unknown texture type", badType, ErrUnknownTextureType},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseHeader(tc.data)
			if !errors.Is(err, tc.want) {
				t.Fatalf("ParseHeader error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestMipDims(t *testing.T) {
	h := Header{Version: Version2, Width: 500, Height: 32}
	for k := 0; k < MipSlots; k++ {
		wantW := 500 >> k
		if wantW < 1 {
			wantW = 1
		}
		wantH := 32 >> k
		if wantH < 1 {
			wantH = 1
		}
		w, ht := h.MipDims(k)
		if w != wantW || ht != wantH {
			t.Errorf("level %d: dims %dx%d, want %dx%d", k, w, ht, wantW, wantH)
		}
	}
}

func TestMipDimsZeroSize(t *testing.T) {
	// Zero dimensions are malformed but must not panic; the nominal
	// dimension floors at 1.
	h := Header{Version: Version2}
	if w, ht := h.MipDims(0); w != 1 || ht != 1 {
		t.Fatalf("dims %dx%d, want 1x1", w, ht)
	}
}
