// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import "slices"

// Clone returns a deep copy of v. The copy shares no memory with v.
func Clone(v Value) Value {
	switch v := v.(type) {
	case nil:
		return nil
	case BitString:
		return BitString{Bytes: slices.Clone(v.Bytes), BitLength: v.BitLength}
	case OctetString:
		return OctetString(slices.Clone([]byte(v)))
	case RawValue:
		return RawValue{Bytes: slices.Clone(v.Bytes)}
	case *Sequence:
		if v == nil {
			return v
		}
		s := &Sequence{Fields: make([]Value, len(v.Fields)), Additions: v.Additions}
		for i, f := range v.Fields {
			s.Fields[i] = Clone(f)
		}
		for _, e := range v.Unknown {
			s.Unknown = append(s.Unknown, Extension{Index: e.Index, Bytes: slices.Clone(e.Bytes)})
		}
		return s
	case *SequenceOf:
		if v == nil {
			return v
		}
		l := &SequenceOf{Elems: make([]Value, len(v.Elems))}
		for i, e := range v.Elems {
			l.Elems[i] = Clone(e)
		}
		return l
	case *Choice:
		if v == nil {
			return v
		}
		return &Choice{Index: v.Index, Value: Clone(v.Value)}
	}
	// Boolean, Integer, Enumerated and Null are immutable
	return v
}
