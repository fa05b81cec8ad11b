// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asn1 implements a runtime model of ASN.1 types as defined in
// [Rec. ITU-T X.680] together with a generic representation of their values.
// Encoding and decoding of values using specific encoding rules is implemented
// in subpackages such as [codello.dev/e2ap/per].
//
// # Type Descriptors
//
// An ASN.1 type is described by a [Type] value. Types are plain data: they are
// built once (usually at package initialization) with the constructor
// functions of this package, validated with [Type.Validate], and then shared
// read-only between any number of encoders and decoders. Descriptors may be
// recursive.
//
// A SEQUENCE or CHOICE lists its components as [Field] values. Components can
// be declared with [F] which accepts a parameter string similar to a struct
// tag:
//
//	optional    marks the component as ASN.1 OPTIONAL
//	ext         marks the component as an extension addition
//	default:x   specifies the ASN.1 DEFAULT value (an integer, a boolean or
//	            the name of an enumeration value)
//
// Take the following example:
//
//	RICrequestID ::= SEQUENCE {
//		ricRequestorID  INTEGER (0..65535),
//		ricInstanceID   INTEGER (0..65535),
//		...
//	}
//
// This could be described as follows:
//
//	var RICrequestID = asn1.SequenceType("RICrequestID", true,
//		asn1.F("ricRequestorID", asn1.IntegerType("", asn1.Bounded(0, 65535)), ""),
//		asn1.F("ricInstanceID", asn1.IntegerType("", asn1.Bounded(0, 65535)), ""),
//	)
//
// Open types (the value of a class field such as &Value in an information
// object set) are described with [OpenType]. The [Table] of an open type maps
// the value of a sibling INTEGER component to the concrete type of the
// content.
//
// # Values
//
// Values are represented by the [Value] interface. Each [Kind] has exactly one
// Go type implementing [Value]: [Boolean], [Integer], [Enumerated],
// [BitString], [OctetString], [Null], [*Sequence], [*SequenceOf], [*Choice].
// Content that is not described by a known type (an open type without a
// matching table entry, an unknown CHOICE alternative) is kept as a
// [RawValue] holding the complete inner encoding.
//
// Use [Check] to verify that a value is a valid instance of a type.
//
// [Rec. ITU-T X.680]: https://www.itu.int/rec/T-REC-X.680
package asn1

// Kind identifies the ASN.1 type a [Type] describes.
//
//go:generate stringer -type=Kind -trimprefix=Kind
type Kind uint8

// IsValid reports whether k is a defined Kind other than KindInvalid.
func (k Kind) IsValid() bool {
	return k > KindInvalid && k <= KindOpenType
}

// Predefined [Kind] constants.
const (
	KindInvalid Kind = iota
	KindBoolean
	KindInteger
	KindEnumerated
	KindBitString
	KindOctetString
	KindNull
	KindSequence
	KindSequenceOf
	KindChoice
	KindOpenType
)

// Constructed reports whether values of kind k contain other values.
func (k Kind) Constructed() bool {
	return k == KindSequence || k == KindSequenceOf || k == KindChoice
}
