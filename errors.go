// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package e2ap

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrNotFound indicates that a message does not contain a requested IE or
	// component. It is an expected outcome when probing optional content.
	ErrNotFound = errors.New("e2ap: not found")

	// ErrNotScalar indicates that a requested component is not an INTEGER or
	// ENUMERATED value.
	ErrNotScalar = errors.New("e2ap: not a scalar")

	// ErrUnknownMessage indicates a PDU whose procedure code or outcome has no
	// message type in the schema.
	ErrUnknownMessage = errors.New("e2ap: unknown message")
)

// A NotFoundError reports that the IE with identifier ID, or the component at
// Path within its value, does not exist. It matches [ErrNotFound].
type NotFoundError struct {
	ID   int64
	Path []string
}

func (e *NotFoundError) Error() string {
	var s strings.Builder
	s.WriteString("e2ap: ")
	if len(e.Path) > 0 {
		s.WriteString(strings.Join(e.Path, "."))
		s.WriteString(" of ")
	}
	s.WriteString("IE ")
	s.WriteString(strconv.FormatInt(e.ID, 10))
	s.WriteString(" not found")
	return s.String()
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
