// Package bitstream implements the bit-level syntactic layer used by the
// Packed Encoding Rules (PER) as specified in [Rec. ITU-T X.691].
//
// The [Writer] and [Reader] types write and read bit-fields of arbitrary width
// in most-significant-bit-first order. Both track their position as a bit
// offset so that callers can reproduce the octet alignment points required by
// the aligned variant of PER. This package deals with the syntactic layer only.
// The semantic layer (how ASN.1 values map to bit-fields) is implemented by
// [codello.dev/e2ap/per].
//
// [Rec. ITU-T X.691]: https://www.itu.int/rec/T-REC-X.691
package bitstream

import "errors"

var (
	// ErrTruncated indicates that a Reader reached the end of its data before
	// the requested number of bits could be read.
	ErrTruncated = errors.New("bitstream: unexpected end of data")

	// ErrLimit indicates that a write would have grown a Writer beyond its
	// configured limit.
	ErrLimit = errors.New("bitstream: size limit exceeded")
)

// MaxBits is the largest width of a single bit-field.
const MaxBits = 64

// Octets returns the number of octets needed to hold n bits.
func Octets(n int64) int64 {
	return (n + 7) / 8
}
