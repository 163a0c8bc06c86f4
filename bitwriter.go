package blp

// bitWriter assembles an LSB-first bit stream, the inverse of
// bitReader. flush pads the final partial byte with zero bits.
type bitWriter struct {
	buf     []byte
	curByte uint8
	bitPos  uint // bits written into curByte (0-7)
}

func newBitWriter() *bitWriter {
	return &bitWriter{}
}

// writeBits writes the low n bits of v (n <= 8), LSB first.
func (w *bitWriter) writeBits(v uint8, n uint) {
	for i := uint(0); i < n; i++ {
		if (v>>i)&1 != 0 {
			w.curByte |= 1 << w.bitPos
		}
		w.bitPos++
		if w.bitPos == 8 {
			w.buf = append(w.buf, w.curByte)
			w.curByte = 0
			w.bitPos = 0
		}
	}
}

// flush completes any partial byte and returns the assembled stream.
func (w *bitWriter) flush() []byte {
	if w.bitPos != 0 {
		w.buf = append(w.buf, w.curByte)
		w.curByte = 0
		w.bitPos = 0
	}
	return w.buf
}
