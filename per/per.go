// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package per implements the aligned variant of the Packed Encoding Rules
// (PER) as specified in [Rec. ITU-T X.691].
//
// Encoding and decoding is driven by an [asn1.Type] descriptor. Values are
// represented by the generic [asn1.Value] types. The package supports the
// ASN.1 features needed by protocols such as E2AP, NGAP and S1AP: constrained
// and extensible INTEGER and ENUMERATED types, BOOLEAN, NULL, BIT STRING and
// OCTET STRING with size constraints, SEQUENCE with OPTIONAL and DEFAULT
// components and extension additions, SEQUENCE OF, CHOICE and open types
// resolved through information object tables.
//
// # Limits
//
// Decoding untrusted input is bounded by [Limits]. A decoder refuses values
// nested deeper than MaxDepth and length determinants above MaxLength. An
// encoder never produces more than MaxSize octets. [Encoder.EncodeInto]
// additionally never writes beyond the buffer it is given.
//
// # Unknown Content
//
// Content that the decoder cannot interpret with the given type is preserved:
// open types without a matching table entry and unknown CHOICE alternatives
// decode to an [asn1.RawValue], unknown SEQUENCE extension additions are
// recorded in [asn1.Sequence.Unknown] and unknown ENUMERATED extension values
// keep their index. Encoding such a value reproduces the original octets.
//
// # Concurrency
//
// An [Encoder] or [Decoder] must not be used concurrently. [Marshal] and
// [Unmarshal] use fresh instances and can be called from multiple goroutines.
// Type descriptors are only read and can be shared freely.
//
// [Rec. ITU-T X.691]: https://www.itu.int/rec/T-REC-X.691
package per

import "codello.dev/e2ap/asn1"

// Default limits used for zero fields of [Limits].
const (
	DefaultMaxDepth  = 64
	DefaultMaxLength = 1 << 20
)

// Limits bound the resources used by an [Encoder] or [Decoder]. A zero field
// selects the default.
type Limits struct {
	// MaxDepth is the maximum nesting depth of components.
	MaxDepth int

	// MaxSize is the maximum size of an encoding in octets. Zero means
	// unlimited.
	MaxSize int

	// MaxLength is the maximum value of a length determinant accepted by a
	// decoder (in elements, octets or bits).
	MaxLength int
}

func (l Limits) withDefaults() Limits {
	if l.MaxDepth <= 0 {
		l.MaxDepth = DefaultMaxDepth
	}
	if l.MaxLength <= 0 {
		l.MaxLength = DefaultMaxLength
	}
	if l.MaxSize < 0 {
		l.MaxSize = 0
	}
	return l
}

// Marshal returns the aligned PER encoding of v as a value of type t.
func Marshal(t *asn1.Type, v asn1.Value) ([]byte, error) {
	return MarshalWithLimits(t, v, Limits{})
}

// MarshalWithLimits is like [Marshal] but bounded by l.
func MarshalWithLimits(t *asn1.Type, v asn1.Value, l Limits) ([]byte, error) {
	return NewEncoder(l).Encode(t, v)
}

// Unmarshal decodes data as a complete aligned PER encoding of a value of type
// t. Data following the encoding is an error.
func Unmarshal(t *asn1.Type, data []byte) (asn1.Value, error) {
	return UnmarshalWithLimits(t, data, Limits{})
}

// UnmarshalWithLimits is like [Unmarshal] but bounded by l.
func UnmarshalWithLimits(t *asn1.Type, data []byte, l Limits) (asn1.Value, error) {
	v, n, err := NewDecoder(l).Decode(t, data)
	if err != nil {
		return nil, err
	}
	if n < len(data) {
		return nil, &SyntaxError{Path: t.String(), ByteOffset: int64(n), BitOffset: int64(n) * 8, Err: ErrTrailingData}
	}
	return v, nil
}
