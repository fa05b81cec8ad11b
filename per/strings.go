// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package per

import (
	"codello.dev/e2ap/asn1"
)

// sizeBounds converts a size constraint into length determinant bounds.
func sizeBounds(s asn1.Size) bounds {
	return bounds{lb: s.Lower, ub: s.Upper, hasUB: s.HasUpper}
}

// writeSizeExtension writes the extension bit of an extensible size constraint
// and reports whether n is outside of the root.
func (e *Encoder) writeSizeExtension(s asn1.Size, n int) (bool, error) {
	if !s.Extensible {
		return false, nil
	}
	ext := !s.Contains(n)
	return ext, e.w.WriteBit(ext)
}

func (d *Decoder) readSizeExtension(s asn1.Size) (bool, error) {
	if !s.Extensible {
		return false, nil
	}
	return d.r.ReadBit()
}

//region BOOLEAN and NULL

func (e *Encoder) encodeBoolean(t *asn1.Type, v asn1.Value) error {
	b, ok := v.(asn1.Boolean)
	if !ok {
		return e.mismatch(t, v, "%s value for %s type", kindOf(v), t.Kind)
	}
	return e.w.WriteBit(bool(b))
}

func (e *Encoder) encodeNull(t *asn1.Type, v asn1.Value) error {
	if _, ok := v.(asn1.Null); !ok {
		return e.mismatch(t, v, "%s value for %s type", kindOf(v), t.Kind)
	}
	return nil
}

func (d *Decoder) decodeBoolean() (asn1.Value, error) {
	b, err := d.r.ReadBit()
	return asn1.Boolean(b), err
}

//endregion

//region OCTET STRING

func (e *Encoder) encodeOctetString(t *asn1.Type, v asn1.Value) error {
	str, ok := v.(asn1.OctetString)
	if !ok {
		return e.mismatch(t, v, "%s value for %s type", kindOf(v), t.Kind)
	}
	s, n := t.Size, len(str)
	if !s.Extensible && !s.Contains(n) {
		return e.mismatch(t, v, "%d octets violate %s", n, s)
	}
	ext, err := e.writeSizeExtension(s, n)
	if err != nil {
		return err
	}
	octets := func(from, to int) error {
		if to > from {
			e.w.Align()
		}
		return e.w.WriteBytes(str[from:to])
	}
	switch {
	case ext:
		return e.writeCounted(n, unbounded, octets)
	case s.HasUpper && s.Upper == 0:
		return nil
	case s.Fixed() && s.Upper <= 2:
		return e.w.WriteBytes(str)
	case s.Fixed() && s.Upper < bound64K:
		return octets(0, n)
	}
	return e.writeCounted(n, sizeBounds(s), octets)
}

func (d *Decoder) decodeOctetString(t *asn1.Type) (asn1.Value, error) {
	s := t.Size
	ext, err := d.readSizeExtension(s)
	if err != nil {
		return nil, err
	}
	var str []byte
	octets := func(n int) error {
		if n > 0 {
			d.r.Align()
		}
		p, err := d.r.ReadBytes(n)
		str = append(str, p...)
		return err
	}
	switch {
	case ext:
		_, err = d.readCounted(unbounded, octets)
	case s.HasUpper && s.Upper == 0:
		str = []byte{}
	case s.Fixed() && s.Upper <= 2:
		str, err = d.r.ReadBytes(s.Upper)
	case s.Fixed() && s.Upper < bound64K:
		err = octets(s.Upper)
	default:
		_, err = d.readCounted(sizeBounds(s), octets)
	}
	if err != nil {
		return nil, err
	}
	if str == nil {
		str = []byte{}
	}
	return asn1.OctetString(str), nil
}

//endregion

//region BIT STRING

// writeBitRange writes bits [from, to) of s. from must be a multiple of 8.
func (e *Encoder) writeBitRange(s asn1.BitString, from, to int) error {
	if err := e.w.WriteBytes(s.Bytes[from/8 : to/8]); err != nil {
		return err
	}
	if rem := (to - from) % 8; rem > 0 {
		return e.w.WriteBits(rem, uint64(s.Bytes[to/8]>>(8-rem)))
	}
	return nil
}

func (e *Encoder) encodeBitString(t *asn1.Type, v asn1.Value) error {
	str, ok := v.(asn1.BitString)
	if !ok {
		return e.mismatch(t, v, "%s value for %s type", kindOf(v), t.Kind)
	}
	if !str.IsValid() {
		return e.mismatch(t, v, "%d bits in %d bytes", str.BitLength, len(str.Bytes))
	}
	s, n := t.Size, str.BitLength
	if !s.Extensible && !s.Contains(n) {
		return e.mismatch(t, v, "%d bits violate %s", n, s)
	}
	ext, err := e.writeSizeExtension(s, n)
	if err != nil {
		return err
	}
	bits := func(from, to int) error {
		if to > from {
			e.w.Align()
		}
		return e.writeBitRange(str, from, to)
	}
	switch {
	case ext:
		return e.writeCounted(n, unbounded, bits)
	case s.HasUpper && s.Upper == 0:
		return nil
	case s.Fixed() && s.Upper <= 16:
		return e.writeBitRange(str, 0, n)
	case s.Fixed() && s.Upper < bound64K:
		return bits(0, n)
	}
	return e.writeCounted(n, sizeBounds(s), bits)
}

func (d *Decoder) decodeBitString(t *asn1.Type) (asn1.Value, error) {
	s := t.Size
	ext, err := d.readSizeExtension(s)
	if err != nil {
		return nil, err
	}
	var str asn1.BitString
	// readBits appends n bits to str. Fragments always contain a multiple of
	// 8 bits, so str.BitLength is octet-aligned whenever more bits follow.
	readBits := func(n int) error {
		p, err := d.r.ReadBytes(n / 8)
		if err != nil {
			return err
		}
		str.Bytes = append(str.Bytes, p...)
		if rem := n % 8; rem > 0 {
			b, err := d.r.ReadBits(rem)
			if err != nil {
				return err
			}
			str.Bytes = append(str.Bytes, byte(b<<(8-rem)))
		}
		str.BitLength += n
		return nil
	}
	aligned := func(n int) error {
		if n > 0 {
			d.r.Align()
		}
		return readBits(n)
	}
	switch {
	case ext:
		_, err = d.readCounted(unbounded, aligned)
	case s.HasUpper && s.Upper == 0:
	case s.Fixed() && s.Upper <= 16:
		err = readBits(s.Upper)
	case s.Fixed() && s.Upper < bound64K:
		err = aligned(s.Upper)
	default:
		_, err = d.readCounted(sizeBounds(s), aligned)
	}
	if err != nil {
		return nil, err
	}
	if str.Bytes == nil {
		str.Bytes = []byte{}
	}
	return str, nil
}

//endregion
