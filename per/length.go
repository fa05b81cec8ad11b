// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package per

// Length determinants as specified in X.691 clause 11.9. A length is encoded
// as a constrained whole number if its upper bound is less than 64K. Otherwise
// it is octet-aligned and takes one of three forms:
//
//	0xxxxxxx            lengths up to 127
//	10xxxxxx xxxxxxxx   lengths up to 16383
//	11000mmm            a fragment of m*16K items (1 <= m <= 4), followed by
//	                    another length determinant
//
// The items counted by a fragmented length are interleaved with the length
// octets, so the functions in this file take a callback that processes the
// items of each part.

// bounds describe the permitted number of items counted by a length
// determinant.
type bounds struct {
	lb, ub int
	hasUB  bool
}

// constrained reports whether the length is encoded as a constrained whole
// number.
func (b bounds) constrained() bool {
	return b.hasUB && b.ub < bound64K
}

// unbounded is used for open types, whole numbers and values outside of an
// extensible size constraint.
var unbounded = bounds{}

// writeShortLength writes n < 16K in the octet-aligned form.
func (e *Encoder) writeShortLength(n int) error {
	e.w.Align()
	if n < 128 {
		return e.w.WriteBits(8, uint64(n))
	}
	return e.w.WriteBits(16, 0x8000|uint64(n))
}

// writeCounted writes a length determinant for n items followed by the items.
// The items in [from, to) are written by calling items.
func (e *Encoder) writeCounted(n int, b bounds, items func(from, to int) error) error {
	if b.constrained() {
		if err := e.writeConstrained(uint64(b.ub-b.lb), uint64(n-b.lb)); err != nil {
			return err
		}
		return items(0, n)
	}
	from := 0
	for {
		rem := n - from
		if rem < fragment {
			if err := e.writeShortLength(rem); err != nil {
				return err
			}
			return items(from, n)
		}
		m := min(rem/fragment, 4)
		e.w.Align()
		if err := e.w.WriteBits(8, 0xc0|uint64(m)); err != nil {
			return err
		}
		if err := items(from, from+m*fragment); err != nil {
			return err
		}
		from += m * fragment
	}
}

// readCounted reads a length determinant and the items it counts. The items
// callback is invoked once per fragment with the number of items in that
// fragment. The total number of items is returned.
func (d *Decoder) readCounted(b bounds, items func(n int) error) (int, error) {
	if b.constrained() {
		v, err := d.readConstrained(uint64(b.ub - b.lb))
		if err != nil {
			return 0, err
		}
		n := b.lb + int(v)
		if n > b.ub || n > d.limits.MaxLength {
			return 0, ErrLength
		}
		return n, items(n)
	}
	total := 0
	for {
		d.r.Align()
		h, err := d.r.ReadBits(8)
		if err != nil {
			return 0, err
		}
		var n int
		more := false
		switch {
		case h&0x80 == 0:
			n = int(h)
		case h&0xc0 == 0x80:
			lo, err := d.r.ReadBits(8)
			if err != nil {
				return 0, err
			}
			n = int(h&0x3f)<<8 | int(lo)
		default:
			m := int(h & 0x3f)
			if m < 1 || m > 4 {
				return 0, ErrLength
			}
			n, more = m*fragment, true
		}
		total += n
		if total > d.limits.MaxLength {
			return 0, ErrLength
		}
		if err = items(n); err != nil {
			return 0, err
		}
		if !more {
			break
		}
	}
	if total < b.lb || (b.hasUB && total > b.ub) {
		return 0, ErrLength
	}
	return total, nil
}
