// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package per

import (
	"errors"
	"strconv"

	"codello.dev/e2ap/asn1"
	"codello.dev/e2ap/bitstream"
)

// A Decoder decodes aligned PER encodings. A Decoder can be reused for
// multiple inputs but must not be used concurrently. Decoding never modifies
// the input and decoded values do not share memory with it.
type Decoder struct {
	limits Limits
	r      bitstream.Reader
	state  state

	// base is the bit offset of the data of r within the original input.
	// It is non-zero while the content of an open type is decoded.
	base int64
}

// NewDecoder creates a Decoder bounded by l.
func NewDecoder(l Limits) *Decoder {
	return &Decoder{limits: l.withDefaults()}
}

// Decode decodes a value of type t from the beginning of data and returns the
// value and the number of octets consumed. On error no value is returned and
// the error is a [*SyntaxError].
func (d *Decoder) Decode(t *asn1.Type, data []byte) (asn1.Value, int, error) {
	d.r.Reset(data)
	d.base = 0
	d.state.reset(d.limits.MaxDepth)
	v, err := d.decodeNamed(t.String(), t)
	if err != nil {
		return nil, 0, err
	}
	n := int(bitstream.Octets(d.r.BitOffset()))
	if n == 0 && len(data) > 0 {
		// the single octet of an empty encoding
		n = 1
	}
	return v, n, nil
}

// wrap converts err into a *SyntaxError at the current position unless it
// already is one.
func (d *Decoder) wrap(err error) error {
	var synErr *SyntaxError
	if errors.As(err, &synErr) {
		return err
	}
	pos := d.base + d.r.BitOffset()
	return &SyntaxError{Path: d.state.String(), ByteOffset: pos / 8, BitOffset: pos, Err: err}
}

// decodeNamed decodes the component name of type t.
func (d *Decoder) decodeNamed(name string, t *asn1.Type) (asn1.Value, error) {
	if err := d.state.push(name); err != nil {
		return nil, d.wrap(err)
	}
	v, err := d.decodeValue(t)
	if err != nil {
		err = d.wrap(err)
	}
	d.state.pop()
	return v, err
}

// decodeValue dispatches on the kind of t.
func (d *Decoder) decodeValue(t *asn1.Type) (asn1.Value, error) {
	switch t.Kind {
	case asn1.KindBoolean:
		return d.decodeBoolean()
	case asn1.KindInteger:
		return d.decodeInteger(t)
	case asn1.KindEnumerated:
		return d.decodeEnumerated(t)
	case asn1.KindBitString:
		return d.decodeBitString(t)
	case asn1.KindOctetString:
		return d.decodeOctetString(t)
	case asn1.KindNull:
		return asn1.Null{}, nil
	case asn1.KindSequence:
		return d.decodeSequence(t)
	case asn1.KindSequenceOf:
		return d.decodeSequenceOf(t)
	case asn1.KindChoice:
		return d.decodeChoice(t)
	case asn1.KindOpenType:
		return d.decodeOpen(nil)
	}
	return nil, errors.New("unsupported kind " + t.Kind.String())
}

//region Open Types

// readOpen reads the content octets of an open type.
func (d *Decoder) readOpen() ([]byte, int64, error) {
	var b []byte
	var start int64 = -1
	_, err := d.readCounted(unbounded, func(n int) error {
		if start < 0 {
			start = d.base + d.r.BitOffset()
		}
		p, err := d.r.ReadBytes(n)
		b = append(b, p...)
		return err
	})
	if b == nil {
		b = []byte{}
	}
	return b, start, err
}

// decodeOpen decodes an open type. If inner is nil the content is returned as
// an [asn1.RawValue], otherwise it is decoded as a complete encoding of inner.
func (d *Decoder) decodeOpen(inner *asn1.Type) (asn1.Value, error) {
	b, start, err := d.readOpen()
	if err != nil {
		return nil, err
	}
	if inner == nil {
		return asn1.RawValue{Bytes: b}, nil
	}
	outer, base := d.r, d.base
	d.r.Reset(b)
	d.base = start
	v, err := d.decodeValue(inner)
	if err == nil && max(bitstream.Octets(d.r.BitOffset()), 1) < int64(len(b)) {
		v, err = nil, ErrTrailingData
	}
	if err != nil {
		err = d.wrap(err)
	}
	d.r, d.base = outer, base
	return v, err
}

//endregion

//region SEQUENCE

func (d *Decoder) decodeSequence(t *asn1.Type) (asn1.Value, error) {
	s := asn1.NewSequence(t)
	ext := false
	if t.Extensible {
		var err error
		if ext, err = d.r.ReadBit(); err != nil {
			return nil, err
		}
	}
	root := t.RootCount()
	present := make([]bool, root)
	for i, f := range t.Fields[:root] {
		present[i] = f.Mandatory()
		if f.InPreamble() {
			bit, err := d.r.ReadBit()
			if err != nil {
				return nil, err
			}
			present[i] = bit
		}
	}
	for i := range t.Fields[:root] {
		if !present[i] {
			continue
		}
		v, err := d.decodeField(t, s, i)
		if err != nil {
			return nil, err
		}
		s.Fields[i] = v
	}
	if !ext {
		return s, nil
	}

	n, err := d.readNormallySmall()
	if err != nil {
		return nil, err
	}
	if n >= uint64(d.limits.MaxLength) {
		return nil, ErrLength
	}
	bitmap := make([]bool, n+1)
	if len(bitmap) != len(t.Fields)-root {
		s.Additions = len(bitmap)
	}
	for j := range bitmap {
		if bitmap[j], err = d.r.ReadBit(); err != nil {
			return nil, err
		}
	}
	for j, ok := range bitmap {
		if !ok {
			continue
		}
		if i := root + j; i < len(t.Fields) {
			v, err := d.decodeField(t, s, i)
			if err != nil {
				return nil, err
			}
			s.Fields[i] = v
			continue
		}
		b, _, err := d.readOpen()
		if err != nil {
			return nil, err
		}
		s.Unknown = append(s.Unknown, asn1.Extension{Index: j, Bytes: b})
	}
	return s, nil
}

// decodeField decodes component i of t. Components decoded before i are
// available in s for the resolution of open types.
func (d *Decoder) decodeField(t *asn1.Type, s *asn1.Sequence, i int) (asn1.Value, error) {
	f := t.Fields[i]
	if err := d.state.push(f.Name); err != nil {
		return nil, d.wrap(err)
	}
	var v asn1.Value
	var err error
	switch {
	case f.Type.Kind == asn1.KindOpenType:
		v, err = d.decodeOpen(t.OpenTypeOf(i, s))
	case f.Extension:
		v, err = d.decodeOpen(f.Type)
	default:
		v, err = d.decodeValue(f.Type)
	}
	if err != nil {
		err = d.wrap(err)
	}
	d.state.pop()
	return v, err
}

//endregion

//region SEQUENCE OF

func (d *Decoder) decodeSequenceOf(t *asn1.Type) (asn1.Value, error) {
	s := t.Size
	ext, err := d.readSizeExtension(s)
	if err != nil {
		return nil, err
	}
	l := &asn1.SequenceOf{}
	elems := func(n int) error {
		// do not trust n for preallocation, every element takes at least one
		// bit unless it is empty
		l.Elems = growElems(l.Elems, min(int64(n), d.r.Remaining()))
		for range n {
			v, err := d.decodeNamed("["+strconv.Itoa(len(l.Elems))+"]", t.Elem)
			if err != nil {
				return err
			}
			l.Elems = append(l.Elems, v)
		}
		return nil
	}
	switch {
	case ext:
		_, err = d.readCounted(unbounded, elems)
	case s.Fixed() && s.Upper < bound64K:
		err = elems(s.Upper)
	default:
		_, err = d.readCounted(sizeBounds(s), elems)
	}
	if err != nil {
		return nil, err
	}
	if l.Elems == nil {
		l.Elems = []asn1.Value{}
	}
	return l, nil
}

func growElems(s []asn1.Value, n int64) []asn1.Value {
	if n <= 0 {
		return s
	}
	if s == nil {
		return make([]asn1.Value, 0, n)
	}
	return append(s, make([]asn1.Value, n)...)[:len(s)]
}

//endregion

//region CHOICE

func (d *Decoder) decodeChoice(t *asn1.Type) (asn1.Value, error) {
	root := t.RootCount()
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
			if k >= uint64(d.limits.MaxLength) {
				return nil, ErrOutOfRange
			}
			i := root + int(k)
			if i >= len(t.Fields) {
				v, err := d.decodeOpen(nil)
				if err != nil {
					return nil, err
				}
				return asn1.NewChoice(i, v), nil
			}
			f := t.Fields[i]
			if err := d.state.push(f.Name); err != nil {
				return nil, err
			}
			v, err := d.decodeOpen(f.Type)
			if err != nil {
				err = d.wrap(err)
			}
			d.state.pop()
			if err != nil {
				return nil, err
			}
			return asn1.NewChoice(i, v), nil
		}
	}
	if root == 0 {
		return nil, ErrOutOfRange
	}
	i, err := d.readConstrained(uint64(root - 1))
	if err != nil {
		return nil, err
	}
	if i >= uint64(root) {
		return nil, ErrOutOfRange
	}
	f := t.Fields[i]
	v, err := d.decodeNamed(f.Name, f.Type)
	if err != nil {
		return nil, err
	}
	return asn1.NewChoice(int(i), v), nil
}

//endregion
