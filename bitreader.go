package blp

// bitReader provides bit-level reading from a byte buffer in LSB-first
// order: bit 0 of byte 0 is the first bit read. BLP alpha planes pack
// sub-byte samples starting at the low bit, so a 4-bit read yields the
// low nibble first.
type bitReader struct {
	data   []byte
	pos    int  // byte position
	bitPos uint // bits consumed in the current byte (0-7)
}

func newBitReader(data []byte) *bitReader {
	return &bitReader{data: data}
}

// readBit reads a single bit. It fails with errShortPlane once the
// buffer is exhausted.
func (r *bitReader) readBit() (uint8, error) {
	if r.pos >= len(r.data) {
		return 0, errShortPlane
	}
	bit := (r.data[r.pos] >> r.bitPos) & 1
	r.bitPos++
	if r.bitPos == 8 {
		r.bitPos = 0
		r.pos++
	}
	return bit, nil
}

// readBits reads n bits (n <= 8), LSB first, and returns them packed
// into the low bits of the result.
func (r *bitReader) readBits(n uint) (uint8, error) {
	var v uint8
	for i := uint(0); i < n; i++ {
		bit, err := r.readBit()
		if err != nil {
			return 0, err
		}
		v |= bit << i
	}
	return v, nil
}
