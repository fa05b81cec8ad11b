// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package per

import (
	"errors"
	"fmt"
	"strconv"

	"codello.dev/e2ap/asn1"
	"codello.dev/e2ap/bitstream"
)

// An Encoder produces aligned PER encodings. An Encoder can be reused for
// multiple values but must not be used concurrently.
type Encoder struct {
	limits Limits
	w      bitstream.Writer
	state  state

	limit    int   // size limit of the current encoding in octets
	limitErr error // reported when the limit is reached
}

// NewEncoder creates an Encoder bounded by l.
func NewEncoder(l Limits) *Encoder {
	return &Encoder{limits: l.withDefaults()}
}

// Encode returns the complete encoding of v as a value of type t. The
// encoding is at least one octet long.
func (e *Encoder) Encode(t *asn1.Type, v asn1.Value) ([]byte, error) {
	e.limit, e.limitErr = e.limits.MaxSize, ErrSizeLimit
	e.w.Reset(nil)
	e.w.SetLimit(e.limit)
	if err := e.encodeTop(t, v); err != nil {
		return nil, err
	}
	return e.w.Bytes(), nil
}

// EncodeInto writes the complete encoding of v as a value of type t into buf
// and returns the number of octets written. EncodeInto never writes beyond
// len(buf). If the encoding does not fit, [ErrBufferTooSmall] is returned and
// the contents of buf are unspecified.
func (e *Encoder) EncodeInto(buf []byte, t *asn1.Type, v asn1.Value) (int, error) {
	limit := len(buf)
	if e.limits.MaxSize > 0 && e.limits.MaxSize < limit {
		limit = e.limits.MaxSize
	}
	if limit == 0 {
		return 0, &EncodeError{Path: t.String(), Type: t, Err: ErrBufferTooSmall}
	}
	e.limit, e.limitErr = limit, ErrBufferTooSmall
	if limit < len(buf) {
		e.limitErr = ErrSizeLimit
	}
	e.w.Reset(buf[:0:limit])
	e.w.SetLimit(limit)
	if err := e.encodeTop(t, v); err != nil {
		return 0, err
	}
	return e.w.Len(), nil
}

// encodeTop encodes v and completes the encoding to whole octets.
func (e *Encoder) encodeTop(t *asn1.Type, v asn1.Value) error {
	e.state.reset(e.limits.MaxDepth)
	if err := e.encodeNamed(t.String(), t, v); err != nil {
		return err
	}
	e.w.Align()
	if e.w.Len() == 0 {
		// an empty encoding is replaced by a single zero octet
		if err := e.w.WriteBits(8, 0); err != nil {
			return e.wrap(t, err)
		}
	}
	return nil
}

// wrap converts err into an *EncodeError at the current path unless it
// already is one.
func (e *Encoder) wrap(t *asn1.Type, err error) error {
	var encErr *EncodeError
	if errors.As(err, &encErr) {
		return err
	}
	if errors.Is(err, bitstream.ErrLimit) {
		err = e.limitErr
	}
	return &EncodeError{Path: e.state.String(), Type: t, Err: err}
}

// mismatch returns an error reporting that v is not a valid value of t.
func (e *Encoder) mismatch(t *asn1.Type, v asn1.Value, format string, args ...any) error {
	path := e.state.String()
	return &EncodeError{Path: path, Type: t, Err: &asn1.MismatchError{
		Path: path, Type: t, Value: v, Reason: fmt.Sprintf(format, args...),
	}}
}

func kindOf(v asn1.Value) string {
	if v == nil {
		return "absent"
	}
	return v.Kind().String()
}

// encodeNamed encodes v as the component name.
func (e *Encoder) encodeNamed(name string, t *asn1.Type, v asn1.Value) error {
	if err := e.state.push(name); err != nil {
		return e.wrap(t, err)
	}
	err := e.encodeValue(t, v)
	if err != nil {
		err = e.wrap(t, err)
	}
	e.state.pop()
	return err
}

// encodeValue dispatches on the kind of t.
func (e *Encoder) encodeValue(t *asn1.Type, v asn1.Value) error {
	if v == nil {
		return e.mismatch(t, v, "value is absent")
	}
	switch t.Kind {
	case asn1.KindBoolean:
		return e.encodeBoolean(t, v)
	case asn1.KindInteger:
		return e.encodeInteger(t, v)
	case asn1.KindEnumerated:
		return e.encodeEnumerated(t, v)
	case asn1.KindBitString:
		return e.encodeBitString(t, v)
	case asn1.KindOctetString:
		return e.encodeOctetString(t, v)
	case asn1.KindNull:
		return e.encodeNull(t, v)
	case asn1.KindSequence:
		return e.encodeSequence(t, v)
	case asn1.KindSequenceOf:
		return e.encodeSequenceOf(t, v)
	case asn1.KindChoice:
		return e.encodeChoice(t, v)
	case asn1.KindOpenType:
		return e.encodeOpen(t, nil, v)
	}
	return e.mismatch(t, v, "unsupported kind %s", t.Kind)
}

//region Open Types

// subEncoding encodes v as a complete encoding using a scratch writer and
// returns the octets. The state of e is preserved.
func (e *Encoder) subEncoding(t *asn1.Type, v asn1.Value) ([]byte, error) {
	outer := e.w
	e.w = bitstream.Writer{}
	e.w.SetLimit(e.limit)
	err := e.encodeValue(t, v)
	e.w.Align()
	b := e.w.Bytes()
	e.w = outer
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		b = []byte{0}
	}
	return b, nil
}

// writeOpen writes b as the content of an open type.
func (e *Encoder) writeOpen(b []byte) error {
	return e.writeCounted(len(b), unbounded, func(from, to int) error {
		return e.w.WriteBytes(b[from:to])
	})
}

// encodeOpen encodes v as an open type. If inner is nil, v must be an
// [asn1.RawValue].
func (e *Encoder) encodeOpen(t *asn1.Type, inner *asn1.Type, v asn1.Value) error {
	if raw, ok := v.(asn1.RawValue); ok {
		b := raw.Bytes
		if len(b) == 0 {
			b = []byte{0}
		}
		return e.writeOpen(b)
	}
	if inner == nil {
		return e.mismatch(t, v, "content of unresolved open type must be a raw value")
	}
	b, err := e.subEncoding(inner, v)
	if err != nil {
		return err
	}
	return e.writeOpen(b)
}

//endregion

//region SEQUENCE

func (e *Encoder) encodeSequence(t *asn1.Type, v asn1.Value) error {
	s, ok := v.(*asn1.Sequence)
	if !ok || s == nil {
		return e.mismatch(t, v, "%s value for %s type", kindOf(v), t.Kind)
	}
	if len(s.Fields) != len(t.Fields) {
		return e.mismatch(t, v, "%d components, want %d", len(s.Fields), len(t.Fields))
	}
	if len(s.Unknown) > 0 && !t.Extensible {
		return e.mismatch(t, v, "extension additions in non-extensible type")
	}

	// used is the bitmap position after the last present extension addition
	root := t.RootCount()
	used := 0
	for i := root; i < len(t.Fields); i++ {
		if s.Fields[i] != nil {
			used = i - root + 1
		}
	}
	for _, x := range s.Unknown {
		if x.Index < len(t.Fields)-root || x.Index < used {
			return e.mismatch(t, v, "unknown extension addition %d out of order", x.Index)
		}
		used = x.Index + 1
	}
	// X.691 clause 19.8: one bit per addition of the type, unless the value
	// was decoded from a bitmap of a different length
	additions := len(t.Fields) - root
	if s.Additions > 0 {
		additions = s.Additions
	}
	additions = max(additions, used)

	if t.Extensible {
		if err := e.w.WriteBit(used > 0); err != nil {
			return err
		}
	}
	for i, f := range t.Fields[:root] {
		if f.InPreamble() {
			if err := e.w.WriteBit(s.Fields[i] != nil); err != nil {
				return err
			}
		}
	}
	for i, f := range t.Fields[:root] {
		fv := s.Fields[i]
		if fv == nil {
			if f.Mandatory() {
				if err := e.state.push(f.Name); err != nil {
					return err
				}
				err := e.mismatch(f.Type, nil, "mandatory component is absent")
				e.state.pop()
				return err
			}
			continue
		}
		if err := e.encodeField(t, s, i); err != nil {
			return err
		}
	}
	if used == 0 {
		return nil
	}

	// normally small length of the bitmap, the bitmap and each addition as an
	// open type
	if err := e.writeNormallySmall(uint64(additions - 1)); err != nil {
		return err
	}
	present := make([][]byte, additions)
	for i := root; i < len(t.Fields); i++ {
		if s.Fields[i] != nil {
			present[i-root] = []byte{}
		}
	}
	for _, x := range s.Unknown {
		present[x.Index] = x.Bytes
		if x.Bytes == nil {
			present[x.Index] = []byte{}
		}
	}
	for _, p := range present {
		if err := e.w.WriteBit(p != nil); err != nil {
			return err
		}
	}
	for j, p := range present {
		switch {
		case p == nil:
		case root+j < len(t.Fields):
			if err := e.encodeField(t, s, root+j); err != nil {
				return err
			}
		default:
			if err := e.encodeOpen(t, nil, asn1.RawValue{Bytes: p}); err != nil {
				return err
			}
		}
	}
	return nil
}

// encodeField encodes component i of s. Extension additions are wrapped in an
// open type. Open type components are resolved through their table.
func (e *Encoder) encodeField(t *asn1.Type, s *asn1.Sequence, i int) error {
	f := t.Fields[i]
	if err := e.state.push(f.Name); err != nil {
		return e.wrap(f.Type, err)
	}
	var err error
	switch {
	case f.Type.Kind == asn1.KindOpenType:
		err = e.encodeOpen(f.Type, t.OpenTypeOf(i, s), s.Fields[i])
	case f.Extension:
		err = e.encodeOpen(f.Type, f.Type, s.Fields[i])
	default:
		err = e.encodeValue(f.Type, s.Fields[i])
	}
	if err != nil {
		err = e.wrap(f.Type, err)
	}
	e.state.pop()
	return err
}

//endregion

//region SEQUENCE OF

func (e *Encoder) encodeSequenceOf(t *asn1.Type, v asn1.Value) error {
	l, ok := v.(*asn1.SequenceOf)
	if !ok || l == nil {
		return e.mismatch(t, v, "%s value for %s type", kindOf(v), t.Kind)
	}
	s, n := t.Size, len(l.Elems)
	if !s.Extensible && !s.Contains(n) {
		return e.mismatch(t, v, "%d elements violate %s", n, s)
	}
	ext, err := e.writeSizeExtension(s, n)
	if err != nil {
		return err
	}
	elems := func(from, to int) error {
		for i := from; i < to; i++ {
			if err := e.encodeNamed("["+strconv.Itoa(i)+"]", t.Elem, l.Elems[i]); err != nil {
				return err
			}
		}
		return nil
	}
	switch {
	case ext:
		return e.writeCounted(n, unbounded, elems)
	case s.Fixed() && s.Upper < bound64K:
		return elems(0, n)
	}
	return e.writeCounted(n, sizeBounds(s), elems)
}

//endregion

//region CHOICE

func (e *Encoder) encodeChoice(t *asn1.Type, v asn1.Value) error {
	c, ok := v.(*asn1.Choice)
	if !ok || c == nil {
		return e.mismatch(t, v, "%s value for %s type", kindOf(v), t.Kind)
	}
	root := t.RootCount()
	if c.Index < 0 || (c.Index >= root && !t.Extensible) {
		return e.mismatch(t, v, "unknown alternative %d", c.Index)
	}
	if t.Extensible {
		if err := e.w.WriteBit(c.Index >= root); err != nil {
			return err
		}
	}
	if c.Index < root {
		if err := e.writeConstrained(uint64(root-1), uint64(c.Index)); err != nil {
			return err
		}
		f := t.Fields[c.Index]
		return e.encodeNamed(f.Name, f.Type, c.Value)
	}
	if err := e.writeNormallySmall(uint64(c.Index - root)); err != nil {
		return err
	}
	if c.Index < len(t.Fields) {
		f := t.Fields[c.Index]
		if err := e.state.push(f.Name); err != nil {
			return err
		}
		err := e.encodeOpen(f.Type, f.Type, c.Value)
		if err != nil {
			err = e.wrap(f.Type, err)
		}
		e.state.pop()
		return err
	}
	if _, ok := c.Value.(asn1.RawValue); !ok {
		return e.mismatch(t, v, "unknown alternative %d must hold a raw value", c.Index)
	}
	return e.encodeOpen(t, nil, c.Value)
}

//endregion
