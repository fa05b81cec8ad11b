// Package wholenum implements the sizing arithmetic for whole numbers as used
// by the Packed Encoding Rules. A whole number is encoded either as a bit-field
// of fixed width (constrained numbers) or as a minimal sequence of octets
// (non-negative binary or two's complement). This package computes those widths
// and converts between integers and their octet representations.
package wholenum

import (
	"errors"
	"math/bits"
)

var (
	errOverflow = errors.New("whole number too large for 64 bits")
	errEmpty    = errors.New("whole number has no octets")
)

// Unsigned is the set of types that can hold the span of a constraint.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// BitWidth returns the number of bits needed to represent every value in the
// range 0..n. BitWidth(0) is 0.
func BitWidth[T Unsigned](n T) int {
	return bits.Len64(uint64(n))
}

// Octets returns the number of octets in the minimal non-negative binary
// representation of n. The result is at least 1.
func Octets[T Unsigned](n T) int {
	if n == 0 {
		return 1
	}
	return (bits.Len64(uint64(n)) + 7) / 8
}

// SignedOctets returns the number of octets in the minimal two's complement
// representation of v. The result is at least 1.
func SignedOctets(v int64) int {
	if v < 0 {
		v = ^v
	}
	// one extra bit for the sign
	return bits.Len64(uint64(v))/8 + 1
}

// AppendUnsigned appends the n least significant octets of v to dst in
// big-endian order.
func AppendUnsigned(dst []byte, v uint64, n int) []byte {
	for i := n - 1; i >= 0; i-- {
		if i >= 8 {
			dst = append(dst, 0)
			continue
		}
		dst = append(dst, byte(v>>(8*i)))
	}
	return dst
}

// AppendSigned appends the minimal two's complement representation of v to
// dst.
func AppendSigned(dst []byte, v int64) []byte {
	return AppendUnsigned(dst, uint64(v), SignedOctets(v))
}

// ParseUnsigned parses b as a big-endian non-negative binary number. Leading
// zero octets are allowed.
func ParseUnsigned(b []byte) (uint64, error) {
	if len(b) == 0 {
		return 0, errEmpty
	}
	var v uint64
	for _, c := range b {
		if v>>56 != 0 {
			return 0, errOverflow
		}
		v = v<<8 | uint64(c)
	}
	return v, nil
}

// ParseSigned parses b as a big-endian two's complement number.
func ParseSigned(b []byte) (int64, error) {
	if len(b) == 0 {
		return 0, errEmpty
	}
	if len(b) > 8 {
		return 0, errOverflow
	}
	var v int64
	if b[0]&0x80 != 0 {
		v = -1
	}
	for _, c := range b {
		v = v<<8 | int64(c)
	}
	return v, nil
}
