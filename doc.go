// Package blp implements a pure Go codec for the BLP texture
// container used by the classic Warcraft III and World of Warcraft
// engines.
//
// All three format revisions are supported: BLP0, BLP1 and BLP2. A
// file holds either JPEG-backed levels (a shared JPEG header chunk
// plus per-level scan data) or Direct pixel data (palette-indexed,
// 4x4 block-compressed, or raw BGRA), with up to 16 mipmap levels
// addressed by an offset/length table. Malformed input never panics:
// absent slots, out-of-range offsets and size mismatches surface as
// errors or, in best-effort mode, as per-level failures.
//
// Decoding a document:
//
//	tex, err := blp.DecodeBytes(data, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	img := tex.Level(0)
//
// Encoding:
//
//	err := blp.Encode(w, img, &blp.EncodeOptions{
//	    Type:       blp.TypeDirect,
//	    AlphaDepth: 8,
//	})
//
// The package registers itself with the image package for automatic
// format detection:
//
//	import _ "github.com/WarRaft/BLP"
//	img, _, err := image.Decode(reader)
package blp
