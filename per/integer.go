// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package per

import (
	"codello.dev/e2ap/asn1"
	"codello.dev/e2ap/internal/wholenum"
)

// Thresholds of the aligned variant, see X.691 clauses 11.5.7 and 11.9.
const (
	octetRange = 255   // span of a one-octet constrained whole number
	twoOctets  = 65535 // largest span of a two-octet constrained whole number
	bound64K   = 65536 // 64K
	fragment   = 16384 // 16K, the fragment unit of length determinants
	maxSmall   = 63    // largest single-field normally small number
)

//region Encoding

// writeConstrained writes val as a constrained whole number with the given
// span (ub-lb). The caller must ensure val <= span.
func (e *Encoder) writeConstrained(span, val uint64) error {
	switch {
	case span == 0:
		return nil
	case span < octetRange:
		return e.w.WriteBits(wholenum.BitWidth(span), val)
	case span == octetRange:
		e.w.Align()
		return e.w.WriteBits(8, val)
	case span <= twoOctets:
		e.w.Align()
		return e.w.WriteBits(16, val)
	}
	// indefinite-length case: the number of octets is itself a constrained
	// whole number in the range 1..octets(span)
	n := wholenum.Octets(val)
	if err := e.writeConstrained(uint64(wholenum.Octets(span)-1), uint64(n-1)); err != nil {
		return err
	}
	e.w.Align()
	return e.w.WriteBytes(wholenum.AppendUnsigned(nil, val, n))
}

// writeSemiConstrained writes val as a semi-constrained whole number.
func (e *Encoder) writeSemiConstrained(val uint64) error {
	n := wholenum.Octets(val)
	if err := e.writeShortLength(n); err != nil {
		return err
	}
	return e.w.WriteBytes(wholenum.AppendUnsigned(nil, val, n))
}

// writeUnconstrained writes v as an unconstrained whole number.
func (e *Encoder) writeUnconstrained(v int64) error {
	b := wholenum.AppendSigned(nil, v)
	if err := e.writeShortLength(len(b)); err != nil {
		return err
	}
	return e.w.WriteBytes(b)
}

// writeNormallySmall writes n as a normally small non-negative whole number.
func (e *Encoder) writeNormallySmall(n uint64) error {
	if n <= maxSmall {
		return e.w.WriteBits(7, n)
	}
	if err := e.w.WriteBit(true); err != nil {
		return err
	}
	return e.writeSemiConstrained(n)
}

func (e *Encoder) encodeInteger(t *asn1.Type, v asn1.Value) error {
	i, ok := v.(asn1.Integer)
	if !ok {
		return e.mismatch(t, v, "%s value for %s type", kindOf(v), t.Kind)
	}
	r := t.Range
	inRoot := r.Contains(int64(i))
	if !inRoot && !r.Extensible {
		return e.mismatch(t, v, "%d out of range", i)
	}
	if r.Extensible {
		if err := e.w.WriteBit(!inRoot); err != nil {
			return err
		}
		if !inRoot {
			return e.writeUnconstrained(int64(i))
		}
	}
	switch {
	case r.Constrained():
		return e.writeConstrained(r.Span(), uint64(i)-uint64(r.Lower))
	case r.HasLower:
		return e.writeSemiConstrained(uint64(i) - uint64(r.Lower))
	}
	return e.writeUnconstrained(int64(i))
}

func (e *Encoder) encodeEnumerated(t *asn1.Type, v asn1.Value) error {
	x, ok := v.(asn1.Enumerated)
	if !ok {
		return e.mismatch(t, v, "%s value for %s type", kindOf(v), t.Kind)
	}
	i, n := int(x), len(t.Values)
	if i < 0 || (i >= n && !t.Extensible) {
		return e.mismatch(t, v, "unknown enumeration index %d", i)
	}
	if t.Extensible {
		if err := e.w.WriteBit(i >= n); err != nil {
			return err
		}
		if i >= n {
			return e.writeNormallySmall(uint64(i - n))
		}
	}
	return e.writeConstrained(uint64(n-1), uint64(i))
}

//endregion

//region Decoding

// readConstrained reads a constrained whole number with the given span. The
// result is not checked against span.
func (d *Decoder) readConstrained(span uint64) (uint64, error) {
	switch {
	case span == 0:
		return 0, nil
	case span < octetRange:
		return d.r.ReadBits(wholenum.BitWidth(span))
	case span == octetRange:
		d.r.Align()
		return d.r.ReadBits(8)
	case span <= twoOctets:
		d.r.Align()
		return d.r.ReadBits(16)
	}
	n, err := d.readConstrained(uint64(wholenum.Octets(span) - 1))
	if err != nil {
		return 0, err
	}
	d.r.Align()
	b, err := d.r.ReadBytes(int(n) + 1)
	if err != nil {
		return 0, err
	}
	return wholenum.ParseUnsigned(b)
}

// readOctets reads a length determinant in the unconstrained form followed by
// that many octets. It is used for whole numbers and is limited to 8 octets.
func (d *Decoder) readOctets() ([]byte, error) {
	d.r.Align()
	n, err := d.r.ReadBits(8)
	if err != nil {
		return nil, err
	}
	if n == 0 || n > 8 {
		return nil, ErrLength
	}
	return d.r.ReadBytes(int(n))
}

func (d *Decoder) readSemiConstrained() (uint64, error) {
	b, err := d.readOctets()
	if err != nil {
		return 0, err
	}
	return wholenum.ParseUnsigned(b)
}

func (d *Decoder) readUnconstrained() (int64, error) {
	b, err := d.readOctets()
	if err != nil {
		return 0, err
	}
	return wholenum.ParseSigned(b)
}

func (d *Decoder) readNormallySmall() (uint64, error) {
	large, err := d.r.ReadBit()
	if err != nil {
		return 0, err
	}
	if !large {
		return d.r.ReadBits(6)
	}
	return d.readSemiConstrained()
}

func (d *Decoder) decodeInteger(t *asn1.Type) (asn1.Value, error) {
	r := t.Range
	if r.Extensible {
		ext, err := d.r.ReadBit()
		if err != nil {
			return nil, err
		}
		if ext {
			v, err := d.readUnconstrained()
			return asn1.Integer(v), err
		}
	}
	switch {
	case r.Constrained():
		val, err := d.readConstrained(r.Span())
		if err != nil {
			return nil, err
		}
		if val > r.Span() {
			return nil, ErrOutOfRange
		}
		return asn1.Integer(int64(uint64(r.Lower) + val)), nil
	case r.HasLower:
		val, err := d.readSemiConstrained()
		if err != nil {
			return nil, err
		}
		v := int64(uint64(r.Lower) + val)
		if v < r.Lower {
			return nil, ErrOutOfRange
		}
		return asn1.Integer(v), nil
	}
	v, err := d.readUnconstrained()
	if err != nil {
		return nil, err
	}
	if !r.Contains(v) {
		return nil, ErrOutOfRange
	}
	return asn1.Integer(v), nil
}

func (d *Decoder) decodeEnumerated(t *asn1.Type) (asn1.Value, error) {
	n := len(t.Values)
	if t.Extensible {
		ext, err := d.r.ReadBit()
		if err != nil {
			return nil, err
		}
		if ext {
			k, err := d.readNormallySmall()
			if err != nil {
				return nil, err
			}
			if k > uint64(d.limits.MaxLength) {
				return nil, ErrOutOfRange
			}
			return asn1.Enumerated(n + int(k)), nil
		}
	}
	i, err := d.readConstrained(uint64(n - 1))
	if err != nil {
		return nil, err
	}
	if i >= uint64(n) {
		return nil, ErrOutOfRange
	}
	return asn1.Enumerated(i), nil
}

//endregion
