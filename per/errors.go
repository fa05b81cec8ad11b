// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package per

import (
	"errors"
	"strconv"
	"strings"

	"codello.dev/e2ap/asn1"
	"codello.dev/e2ap/bitstream"
)

var (
	// ErrTruncated indicates that the input ended before a value was complete.
	ErrTruncated = bitstream.ErrTruncated

	// ErrOutOfRange indicates an INTEGER, ENUMERATED or CHOICE index outside of
	// its constraint.
	ErrOutOfRange = errors.New("value out of range")

	// ErrLength indicates an invalid length determinant.
	ErrLength = errors.New("invalid length")

	// ErrRecursionLimit indicates that a value is nested deeper than
	// [Limits.MaxDepth].
	ErrRecursionLimit = errors.New("recursion limit exceeded")

	// ErrTrailingData indicates that data remained after a complete encoding.
	ErrTrailingData = errors.New("trailing data after encoding")

	// ErrSizeLimit indicates that an encoding would exceed [Limits.MaxSize].
	ErrSizeLimit = errors.New("encoding exceeds size limit")

	// ErrBufferTooSmall indicates that an encoding does not fit into the buffer
	// passed to [Encoder.EncodeInto].
	ErrBufferTooSmall = errors.New("buffer too small")
)

// A SyntaxError reports malformed PER data. The error records where in the
// input and where in the value the error was detected. Any decoding error
// returned by this package is a SyntaxError.
type SyntaxError struct {
	// Path identifies the component being decoded, e.g.
	// "E2AP-PDU.initiatingMessage.value.protocolIEs[0]".
	Path string

	// ByteOffset and BitOffset locate the error within the input.
	ByteOffset int64
	BitOffset  int64

	Err error // underlying error
}

func (e *SyntaxError) Unwrap() error { return e.Err }
func (e *SyntaxError) Error() string {
	var s strings.Builder
	s.WriteString("per: syntax error")
	if e.Path != "" {
		s.WriteString(" decoding ")
		s.WriteString(e.Path)
	}
	s.WriteString(" at offset ")
	s.WriteString(strconv.FormatInt(e.ByteOffset, 10))
	if bit := e.BitOffset % 8; bit != 0 {
		s.WriteByte('.')
		s.WriteString(strconv.FormatInt(bit, 10))
	}
	if e.Err != nil {
		s.WriteString(": ")
		s.WriteString(e.Err.Error())
	}
	return s.String()
}

// An EncodeError reports a failure to encode a value. If the value is not a
// valid instance of its type, Err is an [*asn1.MismatchError].
type EncodeError struct {
	Path string
	Type *asn1.Type
	Err  error
}

func (e *EncodeError) Unwrap() error { return e.Err }
func (e *EncodeError) Error() string {
	var s strings.Builder
	s.WriteString("per: cannot encode")
	if e.Path != "" {
		s.WriteByte(' ')
		s.WriteString(e.Path)
	}
	if e.Type != nil {
		s.WriteString(" of type ")
		s.WriteString(e.Type.String())
	}
	if e.Err != nil {
		s.WriteString(": ")
		s.WriteString(e.Err.Error())
	}
	return s.String()
}
