package bitstream

import "fmt"

// A Writer appends bit-fields to a byte slice. Unused bits of the final octet
// are always zero, so that [Writer.Bytes] is a complete PER encoding once the
// caller has written all fields.
//
// The zero value is an empty Writer without a size limit.
type Writer struct {
	buf   []byte
	nbits int64 // number of bits written
	limit int   // maximum number of octets, 0 means unlimited
}

// NewWriter creates a new Writer that appends to buf[:0]. If limit is positive,
// the Writer never grows beyond limit octets.
func NewWriter(buf []byte, limit int) *Writer {
	w := &Writer{}
	w.Reset(buf)
	w.limit = limit
	return w
}

// Reset discards all written data and reuses the storage of buf. The size limit
// is left unchanged.
func (w *Writer) Reset(buf []byte) {
	w.buf = buf[:0]
	w.nbits = 0
}

// SetLimit changes the size limit of w. A limit of 0 removes the limit. Data
// already written is not affected.
func (w *Writer) SetLimit(limit int) {
	w.limit = limit
}

// BitLen returns the number of bits written so far.
func (w *Writer) BitLen() int64 {
	return w.nbits
}

// Len returns the number of octets used so far, including a partially written
// last octet.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Aligned reports whether the next bit is written at the beginning of an octet.
func (w *Writer) Aligned() bool {
	return w.nbits%8 == 0
}

// Bytes returns the written data. The slice is valid until the next write or
// reset.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// grow checks whether n more bits fit into the limit of w.
func (w *Writer) grow(n int64) error {
	if w.limit > 0 && Octets(w.nbits+n) > int64(w.limit) {
		return ErrLimit
	}
	return nil
}

// WriteBits writes the n least significant bits of v, most significant bit
// first. n must not exceed [MaxBits].
func (w *Writer) WriteBits(n int, v uint64) error {
	if n < 0 || n > MaxBits {
		panic(fmt.Sprintf("bitstream: invalid bit-field width %d", n))
	}
	if err := w.grow(int64(n)); err != nil {
		return err
	}
	for n > 0 {
		off := int(w.nbits % 8)
		if off == 0 {
			w.buf = append(w.buf, 0)
		}
		free := 8 - off
		k := min(free, n)
		chunk := byte((v >> (n - k)) & (uint64(1)<<k - 1))
		w.buf[len(w.buf)-1] |= chunk << (free - k)
		n -= k
		w.nbits += int64(k)
	}
	return nil
}

// WriteBit writes a single bit.
func (w *Writer) WriteBit(b bool) error {
	if b {
		return w.WriteBits(1, 1)
	}
	return w.WriteBits(1, 0)
}

// WriteBytes writes all octets of p. If w is not aligned, the octets straddle
// octet boundaries.
func (w *Writer) WriteBytes(p []byte) error {
	if err := w.grow(int64(len(p)) * 8); err != nil {
		return err
	}
	if w.Aligned() {
		w.buf = append(w.buf, p...)
		w.nbits += int64(len(p)) * 8
		return nil
	}
	for _, b := range p {
		if err := w.WriteBits(8, uint64(b)); err != nil {
			return err
		}
	}
	return nil
}

// Align advances w to the next octet boundary. The padding bits are zero.
func (w *Writer) Align() {
	if off := w.nbits % 8; off != 0 {
		w.nbits += 8 - off
	}
}
