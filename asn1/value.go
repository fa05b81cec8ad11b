// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"encoding/hex"
	"strings"
)

// Value is an ASN.1 value. The set of implementations is closed: every [Kind]
// corresponds to exactly one Go type defined in this package.
type Value interface {
	// Kind returns the kind of ASN.1 type the value belongs to.
	Kind() Kind

	value()
}

//region BOOLEAN

// Boolean represents a value of the ASN.1 BOOLEAN type.
type Boolean bool

func (Boolean) Kind() Kind { return KindBoolean }
func (Boolean) value()     {}

//endregion

//region INTEGER

// Integer represents a value of the ASN.1 INTEGER type. Values are limited to
// 64 bits.
type Integer int64

func (Integer) Kind() Kind { return KindInteger }
func (Integer) value()     {}

//endregion

//region ENUMERATED

// Enumerated represents a value of an ASN.1 ENUMERATED type by its index.
// Root values are numbered from 0 in order of definition. Extension values
// continue the numbering after the last root value. Decoders preserve the index
// of extension values that are not known to the type.
//
// See also section 20 of Rec. ITU-T X.680.
type Enumerated int

func (Enumerated) Kind() Kind { return KindEnumerated }
func (Enumerated) value()     {}

//endregion

//region BIT STRING

// BitString implements the ASN.1 BIT STRING type. A bit string is padded up to
// the nearest byte in memory and the number of valid bits is recorded. Padding
// bits will be encoded and decoded as zero bits.
//
// See also section 22 of Rec. ITU-T X.680.
type BitString struct {
	Bytes     []byte // bits packed into bytes.
	BitLength int    // length in bits.
}

func (BitString) Kind() Kind { return KindBitString }
func (BitString) value()     {}

// IsValid reports whether there are enough bytes in s for the indicated
// BitLength.
func (s BitString) IsValid() bool {
	return s.BitLength >= 0 && len(s.Bytes) >= (s.BitLength+8-1)/8
}

// Len returns the number of bits in s.
func (s BitString) Len() int {
	return s.BitLength
}

// At returns the bit at the given index. If the index is out of range At panics.
func (s BitString) At(i int) int {
	if i < 0 || i >= s.BitLength {
		panic("index out of range")
	}
	x := i / 8
	y := 7 - uint(i%8)
	return int(s.Bytes[x]>>y) & 1
}

// String formats s as a binary string of BitLength digits.
func (s BitString) String() string {
	var sb strings.Builder
	sb.Grow(s.BitLength)
	for i := range s.BitLength {
		sb.WriteByte('0' + byte(s.At(i)))
	}
	return sb.String()
}

//endregion

//region OCTET STRING

// OctetString represents a value of the ASN.1 OCTET STRING type.
type OctetString []byte

func (OctetString) Kind() Kind { return KindOctetString }
func (OctetString) value()     {}

//endregion

//region NULL

// Null represents the value of the ASN.1 NULL type.
//
// See also section 24 of Rec. ITU-T X.680.
type Null struct{}

func (Null) Kind() Kind { return KindNull }
func (Null) value()     {}

//endregion

//region SEQUENCE

// Sequence represents a value of an ASN.1 SEQUENCE type. Fields holds one entry
// per component of the type, in order of definition. Absent OPTIONAL, DEFAULT
// and extension components are nil. A DEFAULT component that is present is
// always encoded, even if it equals the default value.
type Sequence struct {
	Fields []Value

	// Unknown holds extension additions that are present in an encoding but
	// not described by the type. They are re-encoded unchanged.
	Unknown []Extension

	// Additions is the length of the extension addition bitmap of the
	// encoding the value was decoded from, if it differs from the number of
	// additions the type defines. Zero otherwise.
	Additions int
}

// Extension is an extension addition of a SEQUENCE that is not known to the
// type it was decoded with.
type Extension struct {
	Index int    // position in the extension addition bitmap
	Bytes []byte // complete encoding of the addition
}

// NewSequence returns an empty value for the SEQUENCE type t. All components are
// absent.
func NewSequence(t *Type) *Sequence {
	return &Sequence{Fields: make([]Value, len(t.Fields))}
}

func (*Sequence) Kind() Kind { return KindSequence }
func (*Sequence) value()     {}

// Get returns component i or nil if it is absent.
func (s *Sequence) Get(i int) Value {
	if i < 0 || i >= len(s.Fields) {
		return nil
	}
	return s.Fields[i]
}

// Set sets component i to v. Passing nil marks the component as absent.
func (s *Sequence) Set(i int, v Value) {
	s.Fields[i] = v
}

//endregion

//region SEQUENCE OF

// SequenceOf represents a value of an ASN.1 SEQUENCE OF type.
type SequenceOf struct {
	Elems []Value
}

// NewSequenceOf returns a SequenceOf holding elems.
func NewSequenceOf(elems ...Value) *SequenceOf {
	return &SequenceOf{Elems: elems}
}

func (*SequenceOf) Kind() Kind { return KindSequenceOf }
func (*SequenceOf) value()     {}

// Len returns the number of elements in s.
func (s *SequenceOf) Len() int {
	return len(s.Elems)
}

//endregion

//region CHOICE

// Choice represents a value of an ASN.1 CHOICE type. Index is the position of
// the chosen alternative in the type's list of alternatives. An Index beyond
// the alternatives known to the type denotes an unknown extension alternative
// whose Value is a [RawValue].
type Choice struct {
	Index int
	Value Value
}

// NewChoice returns a Choice of alternative i holding v.
func NewChoice(i int, v Value) *Choice {
	return &Choice{Index: i, Value: v}
}

func (*Choice) Kind() Kind { return KindChoice }
func (*Choice) value()     {}

//endregion

//region Open Types

// RawValue holds the complete encoding of a value whose type is not known, such
// as the content of an open type without a matching table entry. Encoders emit
// the bytes unchanged.
type RawValue struct {
	Bytes []byte
}

func (RawValue) Kind() Kind { return KindOpenType }
func (RawValue) value()     {}

// String returns the hexadecimal encoding of v.
func (v RawValue) String() string {
	return strings.ToUpper(hex.EncodeToString(v.Bytes))
}

//endregion
