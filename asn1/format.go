// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"encoding/hex"
	"io"
	"strconv"
	"strings"
)

// Format writes v in ASN.1 value notation to w. Nested values are indented by
// tabs. Open type content is printed using the type its table resolves to, or
// as hexadecimal octets if it is a [RawValue].
func Format(w io.Writer, t *Type, v Value) error {
	var p printer
	p.value(t, v)
	p.WriteByte('\n')
	_, err := io.WriteString(w, p.String())
	return err
}

// Sprint returns v in ASN.1 value notation.
func Sprint(t *Type, v Value) string {
	var p printer
	p.value(t, v)
	return p.String()
}

type printer struct {
	strings.Builder
	depth int
}

func (p *printer) newline() {
	p.WriteByte('\n')
	for range p.depth {
		p.WriteByte('\t')
	}
}

func (p *printer) value(t *Type, v Value) {
	switch v := v.(type) {
	case nil:
		p.WriteString("<absent>")
	case Boolean:
		if v {
			p.WriteString("TRUE")
		} else {
			p.WriteString("FALSE")
		}
	case Integer:
		p.WriteString(strconv.FormatInt(int64(v), 10))
	case Enumerated:
		if name := t.EnumName(int(v)); name != "" && t.Kind == KindEnumerated {
			p.WriteString(name)
		} else {
			p.WriteString(strconv.Itoa(int(v)))
		}
	case BitString:
		p.WriteString("'" + v.String() + "'B")
	case OctetString:
		p.WriteString("'" + strings.ToUpper(hex.EncodeToString(v)) + "'H")
	case Null:
		p.WriteString("NULL")
	case RawValue:
		p.WriteString("<raw '" + v.String() + "'H>")
	case *Sequence:
		p.sequence(t, v)
	case *SequenceOf:
		p.WriteByte('{')
		p.depth++
		for i, e := range v.Elems {
			if i > 0 {
				p.WriteByte(',')
			}
			p.newline()
			p.value(t.Elem, e)
		}
		p.depth--
		if len(v.Elems) > 0 {
			p.newline()
		}
		p.WriteByte('}')
	case *Choice:
		if v.Index >= 0 && v.Index < len(t.Fields) {
			p.WriteString(t.Fields[v.Index].Name + " : ")
			p.value(t.Fields[v.Index].Type, v.Value)
		} else {
			p.WriteString("<alternative " + strconv.Itoa(v.Index) + "> : ")
			p.value(t, v.Value)
		}
	}
}

func (p *printer) sequence(t *Type, s *Sequence) {
	p.WriteByte('{')
	p.depth++
	first := true
	for i, fv := range s.Fields {
		if fv == nil || i >= len(t.Fields) {
			continue
		}
		if !first {
			p.WriteByte(',')
		}
		first = false
		p.newline()
		f := t.Fields[i]
		p.WriteString(f.Name + " ")
		ft := f.Type
		if inner := t.OpenTypeOf(i, s); inner != nil {
			ft = inner
		}
		p.value(ft, fv)
	}
	for _, e := range s.Unknown {
		if !first {
			p.WriteByte(',')
		}
		first = false
		p.newline()
		p.WriteString("<extension " + strconv.Itoa(e.Index) + "> '" + strings.ToUpper(hex.EncodeToString(e.Bytes)) + "'H")
	}
	p.depth--
	if !first {
		p.newline()
	}
	p.WriteByte('}')
}
