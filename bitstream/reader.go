package bitstream

import "fmt"

// A Reader reads bit-fields from a byte slice. A Reader never modifies its
// input. Failed reads do not advance the Reader.
type Reader struct {
	data []byte
	pos  int64 // bit offset of the next read
}

// NewReader creates a Reader positioned at the first bit of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Reset positions r at the first bit of data.
func (r *Reader) Reset(data []byte) {
	r.data = data
	r.pos = 0
}

// BitOffset returns the offset of the next bit to be read.
func (r *Reader) BitOffset() int64 {
	return r.pos
}

// ByteOffset returns the offset of the octet containing the next bit.
func (r *Reader) ByteOffset() int64 {
	return r.pos / 8
}

// Remaining returns the number of unread bits.
func (r *Reader) Remaining() int64 {
	return int64(len(r.data))*8 - r.pos
}

// Aligned reports whether the next bit is the first bit of an octet.
func (r *Reader) Aligned() bool {
	return r.pos%8 == 0
}

// ReadBits reads an n-bit field and returns it as the least significant bits
// of the result. n must not exceed [MaxBits].
func (r *Reader) ReadBits(n int) (uint64, error) {
	if n < 0 || n > MaxBits {
		panic(fmt.Sprintf("bitstream: invalid bit-field width %d", n))
	}
	if int64(n) > r.Remaining() {
		return 0, ErrTruncated
	}
	var v uint64
	for n > 0 {
		off := int(r.pos % 8)
		avail := 8 - off
		k := min(avail, n)
		b := r.data[r.pos/8] >> (avail - k)
		v = v<<k | uint64(b)&(uint64(1)<<k-1)
		n -= k
		r.pos += int64(k)
	}
	return v, nil
}

// ReadBit reads a single bit.
func (r *Reader) ReadBit() (bool, error) {
	v, err := r.ReadBits(1)
	return v == 1, err
}

// ReadBytes reads n octets into a newly allocated slice. If r is not aligned,
// the octets straddle octet boundaries of the input.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || int64(n)*8 > r.Remaining() {
		return nil, ErrTruncated
	}
	p := make([]byte, n)
	if r.Aligned() {
		copy(p, r.data[r.pos/8:])
		r.pos += int64(n) * 8
		return p, nil
	}
	for i := range p {
		b, _ := r.ReadBits(8)
		p[i] = byte(b)
	}
	return p, nil
}

// Align advances r to the next octet boundary. Padding bits are skipped
// without inspection.
func (r *Reader) Align() {
	if off := r.pos % 8; off != 0 {
		r.pos += 8 - off
	}
}
