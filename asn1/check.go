// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"fmt"
	"strconv"
	"strings"
)

// MismatchError reports that a value is not a valid instance of a type.
type MismatchError struct {
	Path   string // location of the mismatch within the checked value
	Type   *Type
	Value  Value
	Reason string
}

func (e *MismatchError) Error() string {
	var s strings.Builder
	s.WriteString("asn1: value")
	if e.Path != "" {
		s.WriteString(" at ")
		s.WriteString(e.Path)
	}
	s.WriteString(" does not match ")
	s.WriteString(e.Type.String())
	if e.Reason != "" {
		s.WriteString(": ")
		s.WriteString(e.Reason)
	}
	return s.String()
}

// Check reports whether v is a valid instance of t. Values outside of the root
// of an extensible constraint are accepted. The content of an open type
// component is checked against the type its table resolves to; a [RawValue] is
// accepted for any open type. The returned error is a [*MismatchError].
func Check(t *Type, v Value) error {
	return check(t, v, "")
}

func mismatch(path string, t *Type, v Value, format string, args ...any) error {
	return &MismatchError{Path: path, Type: t, Value: v, Reason: fmt.Sprintf(format, args...)}
}

func check(t *Type, v Value, path string) error {
	if v == nil {
		return mismatch(path, t, v, "value is absent")
	}
	if raw, ok := v.(RawValue); ok {
		if t.Kind != KindOpenType {
			return mismatch(path, t, raw, "raw value for %s type", t.Kind)
		}
		return nil
	}
	if t.Kind != KindOpenType && v.Kind() != t.Kind {
		return mismatch(path, t, v, "%s value for %s type", v.Kind(), t.Kind)
	}

	switch t.Kind {
	case KindInteger:
		if i := int64(v.(Integer)); !t.Range.Extensible && !t.Range.Contains(i) {
			return mismatch(path, t, v, "%d out of range", i)
		}
	case KindEnumerated:
		i := int(v.(Enumerated))
		if i < 0 || (!t.Extensible && i >= len(t.Values)) {
			return mismatch(path, t, v, "unknown enumeration index %d", i)
		}
	case KindBitString:
		bs := v.(BitString)
		if !bs.IsValid() {
			return mismatch(path, t, v, "%d bits in %d bytes", bs.BitLength, len(bs.Bytes))
		}
		if !t.Size.Extensible && !t.Size.Contains(bs.BitLength) {
			return mismatch(path, t, v, "%d bits violate %s", bs.BitLength, t.Size)
		}
	case KindOctetString:
		if n := len(v.(OctetString)); !t.Size.Extensible && !t.Size.Contains(n) {
			return mismatch(path, t, v, "%d octets violate %s", n, t.Size)
		}
	case KindSequence:
		return checkSequence(t, v.(*Sequence), path)
	case KindSequenceOf:
		l := v.(*SequenceOf)
		if l == nil {
			return mismatch(path, t, v, "nil value")
		}
		if !t.Size.Extensible && !t.Size.Contains(len(l.Elems)) {
			return mismatch(path, t, v, "%d elements violate %s", len(l.Elems), t.Size)
		}
		for i, e := range l.Elems {
			if err := check(t.Elem, e, path+"["+strconv.Itoa(i)+"]"); err != nil {
				return err
			}
		}
	case KindChoice:
		c := v.(*Choice)
		switch {
		case c == nil:
			return mismatch(path, t, v, "nil value")
		case c.Index < 0:
			return mismatch(path, t, v, "negative alternative %d", c.Index)
		case c.Index < len(t.Fields):
			f := t.Fields[c.Index]
			return check(f.Type, c.Value, join(path, f.Name))
		case !t.Extensible:
			return mismatch(path, t, v, "unknown alternative %d", c.Index)
		}
		if _, ok := c.Value.(RawValue); !ok {
			return mismatch(path, t, v, "unknown alternative %d must hold a raw value", c.Index)
		}
	}
	return nil
}

func checkSequence(t *Type, s *Sequence, path string) error {
	if s == nil {
		return mismatch(path, t, s, "nil value")
	}
	if len(s.Fields) != len(t.Fields) {
		return mismatch(path, t, s, "%d components, want %d", len(s.Fields), len(t.Fields))
	}
	for i, f := range t.Fields {
		fv := s.Fields[i]
		if fv == nil {
			if f.Mandatory() {
				return mismatch(join(path, f.Name), f.Type, nil, "mandatory component is absent")
			}
			continue
		}
		if f.Type.Kind == KindOpenType {
			if _, ok := fv.(RawValue); ok {
				continue
			}
			inner := t.OpenTypeOf(i, s)
			if inner == nil {
				return mismatch(join(path, f.Name), f.Type, fv, "content of unresolved open type must be a raw value")
			}
			if err := check(inner, fv, join(path, f.Name)); err != nil {
				return err
			}
			continue
		}
		if err := check(f.Type, fv, join(path, f.Name)); err != nil {
			return err
		}
	}
	if len(s.Unknown) > 0 && !t.Extensible {
		return mismatch(path, t, s, "extension additions in non-extensible type")
	}
	known := len(t.Fields) - t.RootCount()
	prev := known - 1
	for _, e := range s.Unknown {
		if e.Index <= prev {
			return mismatch(path, t, s, "unknown extension addition %d out of order", e.Index)
		}
		prev = e.Index
	}
	return nil
}

// join appends a component name to a path.
func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
