// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"codello.dev/e2ap/internal/params"
)

//region Constraints

// Range is a value range constraint of an INTEGER type. A bound that is not
// present is treated as MIN or MAX respectively. An extensible range allows
// values outside of the root range.
//
// See also section 51.5 of Rec. ITU-T X.680.
type Range struct {
	Lower, Upper       int64
	HasLower, HasUpper bool
	Extensible         bool
}

// Bounded returns the constraint (lb..ub).
func Bounded(lb, ub int64) Range {
	return Range{Lower: lb, Upper: ub, HasLower: true, HasUpper: true}
}

// SemiBounded returns the constraint (lb..MAX).
func SemiBounded(lb int64) Range {
	return Range{Lower: lb, HasLower: true}
}

// Unbounded returns the absence of a constraint.
func Unbounded() Range {
	return Range{}
}

// Ext returns a copy of r with an extension marker.
func (r Range) Ext() Range {
	r.Extensible = true
	return r
}

// Constrained reports whether r has both bounds.
func (r Range) Constrained() bool {
	return r.HasLower && r.HasUpper
}

// Span returns Upper-Lower as an unsigned number. Span is only meaningful if r
// is constrained.
func (r Range) Span() uint64 {
	return uint64(r.Upper) - uint64(r.Lower)
}

// Contains reports whether v lies within the root range of r.
func (r Range) Contains(v int64) bool {
	return (!r.HasLower || v >= r.Lower) && (!r.HasUpper || v <= r.Upper)
}

// String returns r in ASN.1 notation, e.g. "(0..255,...)".
func (r Range) String() string {
	if !r.HasLower && !r.HasUpper {
		return ""
	}
	lb, ub := "MIN", "MAX"
	if r.HasLower {
		lb = strconv.FormatInt(r.Lower, 10)
	}
	if r.HasUpper {
		ub = strconv.FormatInt(r.Upper, 10)
	}
	s := "(" + lb + ".." + ub
	if r.Constrained() && r.Lower == r.Upper {
		s = "(" + lb
	}
	if r.Extensible {
		s += ",..."
	}
	return s + ")"
}

// Size is a size constraint of a BIT STRING, OCTET STRING or SEQUENCE OF type.
// Sizes are counted in bits, octets or elements respectively.
//
// See also section 51.5 of Rec. ITU-T X.680.
type Size struct {
	Lower, Upper int
	HasUpper     bool
	Extensible   bool
}

// FixedSize returns the constraint SIZE(n).
func FixedSize(n int) Size {
	return Size{Lower: n, Upper: n, HasUpper: true}
}

// SizeRange returns the constraint SIZE(lb..ub).
func SizeRange(lb, ub int) Size {
	return Size{Lower: lb, Upper: ub, HasUpper: true}
}

// Unsized returns the absence of a size constraint.
func Unsized() Size {
	return Size{}
}

// Ext returns a copy of s with an extension marker.
func (s Size) Ext() Size {
	s.Extensible = true
	return s
}

// Fixed reports whether s permits exactly one size.
func (s Size) Fixed() bool {
	return s.HasUpper && s.Lower == s.Upper
}

// Contains reports whether n is within the root of s.
func (s Size) Contains(n int) bool {
	return n >= s.Lower && (!s.HasUpper || n <= s.Upper)
}

// String returns s in ASN.1 notation, e.g. "SIZE(1..16)".
func (s Size) String() string {
	if s.Lower == 0 && !s.HasUpper {
		return ""
	}
	var str string
	switch {
	case s.Fixed():
		str = "SIZE(" + strconv.Itoa(s.Lower)
	case s.HasUpper:
		str = "SIZE(" + strconv.Itoa(s.Lower) + ".." + strconv.Itoa(s.Upper)
	default:
		str = "SIZE(" + strconv.Itoa(s.Lower) + "..MAX"
	}
	if s.Extensible {
		str += ",..."
	}
	return str + ")"
}

//endregion

//region Components

// Field is a component of a SEQUENCE or an alternative of a CHOICE.
type Field struct {
	Name      string
	Type      *Type
	Optional  bool  // OPTIONAL
	Extension bool  // extension addition
	Default   Value // DEFAULT value, nil if none
}

// Mandatory reports whether f must be present in every value.
func (f Field) Mandatory() bool {
	return !f.Optional && f.Default == nil && !f.Extension
}

// InPreamble reports whether the presence of f is indicated by a bit in the
// preamble of a SEQUENCE encoding.
func (f Field) InPreamble() bool {
	return !f.Extension && (f.Optional || f.Default != nil)
}

// F declares a component named name of type t. The params string is a comma
// separated list of parameters as described in the package documentation. F
// panics if params is malformed.
func F(name string, t *Type, str string) Field {
	p, err := params.Parse(str)
	if err != nil {
		panic(fmt.Sprintf("asn1: component %s: %v", name, err))
	}
	f := Field{Name: name, Type: t, Optional: p.Optional, Extension: p.Extension}
	if p.HasDefault {
		v, err := parseValue(t, p.Default)
		if err != nil {
			panic(fmt.Sprintf("asn1: component %s: %v", name, err))
		}
		f.Default = v
	}
	return f
}

// parseValue parses s in ASN.1 value notation for simple types.
func parseValue(t *Type, s string) (Value, error) {
	switch t.Kind {
	case KindBoolean:
		switch s {
		case "TRUE", "true":
			return Boolean(true), nil
		case "FALSE", "false":
			return Boolean(false), nil
		}
	case KindInteger:
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Integer(i), nil
		}
	case KindEnumerated:
		if i, ok := t.EnumIndex(s); ok {
			return Enumerated(i), nil
		}
	}
	return nil, fmt.Errorf("invalid %s value %q", t.Kind, s)
}

//endregion

// Table is an information object table that resolves the type of an open type
// value. Key names an INTEGER component of the surrounding SEQUENCE that
// precedes the open type. Types maps each known value of that component to the
// type of the open type content.
type Table struct {
	Key   string
	Types map[int64]*Type
}

// Lookup returns the type registered for key, or nil.
func (t *Table) Lookup(key int64) *Type {
	if t == nil {
		return nil
	}
	return t.Types[key]
}

// Type describes an ASN.1 type. Which fields are relevant depends on Kind:
//
//   - KindInteger uses Range.
//   - KindEnumerated uses Values, ExtValues and Extensible.
//   - KindBitString and KindOctetString use Size.
//   - KindSequence uses Fields and Extensible.
//   - KindSequenceOf uses Elem and Size.
//   - KindChoice uses Fields (the alternatives) and Extensible.
//   - KindOpenType uses Table (may be nil).
//
// A Type must not be modified once it is in use.
type Type struct {
	Name       string
	Kind       Kind
	Range      Range
	Size       Size
	Values     []string // root enumeration
	ExtValues  []string // enumeration additions
	Extensible bool
	Fields     []Field
	Elem       *Type
	Table      *Table
}

//region Constructors

// BooleanType returns a BOOLEAN type.
func BooleanType(name string) *Type {
	return &Type{Name: name, Kind: KindBoolean}
}

// NullType returns a NULL type.
func NullType(name string) *Type {
	return &Type{Name: name, Kind: KindNull}
}

// IntegerType returns an INTEGER type constrained by r.
func IntegerType(name string, r Range) *Type {
	return &Type{Name: name, Kind: KindInteger, Range: r}
}

// EnumeratedType returns an ENUMERATED type. If ext is true, the enumeration
// has an extension marker followed by extValues.
func EnumeratedType(name string, values []string, ext bool, extValues ...string) *Type {
	return &Type{Name: name, Kind: KindEnumerated, Values: values, Extensible: ext, ExtValues: extValues}
}

// BitStringType returns a BIT STRING type constrained by s.
func BitStringType(name string, s Size) *Type {
	return &Type{Name: name, Kind: KindBitString, Size: s}
}

// OctetStringType returns an OCTET STRING type constrained by s.
func OctetStringType(name string, s Size) *Type {
	return &Type{Name: name, Kind: KindOctetString, Size: s}
}

// SequenceType returns a SEQUENCE type. If ext is true, the sequence has an
// extension marker. Extension additions must follow all root components.
func SequenceType(name string, ext bool, fields ...Field) *Type {
	return &Type{Name: name, Kind: KindSequence, Extensible: ext, Fields: fields}
}

// SequenceOfType returns a SEQUENCE OF type.
func SequenceOfType(name string, elem *Type, s Size) *Type {
	return &Type{Name: name, Kind: KindSequenceOf, Elem: elem, Size: s}
}

// ChoiceType returns a CHOICE type. If ext is true, the choice has an extension
// marker. Extension alternatives must follow all root alternatives.
func ChoiceType(name string, ext bool, alts ...Field) *Type {
	return &Type{Name: name, Kind: KindChoice, Extensible: ext, Fields: alts}
}

// OpenType returns an open type whose content is resolved through table.
func OpenType(name string, table *Table) *Type {
	return &Type{Name: name, Kind: KindOpenType, Table: table}
}

//endregion

// String returns the name of t or, for anonymous types, its ASN.1 notation.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	if t.Name != "" {
		return t.Name
	}
	switch t.Kind {
	case KindBoolean:
		return "BOOLEAN"
	case KindInteger:
		return strings.TrimSpace("INTEGER " + t.Range.String())
	case KindEnumerated:
		return "ENUMERATED"
	case KindBitString:
		return strings.TrimSpace("BIT STRING " + t.Size.String())
	case KindOctetString:
		return strings.TrimSpace("OCTET STRING " + t.Size.String())
	case KindNull:
		return "NULL"
	case KindSequence:
		return "SEQUENCE"
	case KindSequenceOf:
		return strings.TrimSpace("SEQUENCE "+t.Size.String()) + " OF " + t.Elem.String()
	case KindChoice:
		return "CHOICE"
	case KindOpenType:
		return "OPEN TYPE"
	}
	return t.Kind.String()
}

// FieldIndex returns the index of the component with the given name, or -1.
func (t *Type) FieldIndex(name string) int {
	return slices.IndexFunc(t.Fields, func(f Field) bool { return f.Name == name })
}

// RootCount returns the number of root components (or root alternatives) of t.
func (t *Type) RootCount() int {
	n := 0
	for _, f := range t.Fields {
		if !f.Extension {
			n++
		}
	}
	return n
}

// PreambleCount returns the number of bits in the preamble of a SEQUENCE
// encoding of t.
func (t *Type) PreambleCount() int {
	n := 0
	for _, f := range t.Fields {
		if f.InPreamble() {
			n++
		}
	}
	return n
}

// EnumIndex returns the index of the enumeration value with the given name.
// Extension values are numbered after the root values.
func (t *Type) EnumIndex(name string) (int, bool) {
	if i := slices.Index(t.Values, name); i >= 0 {
		return i, true
	}
	if i := slices.Index(t.ExtValues, name); i >= 0 {
		return len(t.Values) + i, true
	}
	return 0, false
}

// EnumName returns the name of the enumeration value at index i, or the empty
// string if i is unknown.
func (t *Type) EnumName(i int) string {
	switch {
	case i < 0:
		return ""
	case i < len(t.Values):
		return t.Values[i]
	case i-len(t.Values) < len(t.ExtValues):
		return t.ExtValues[i-len(t.Values)]
	}
	return ""
}

// OpenTypeOf resolves the type of the open type component i of t within the
// sequence value s. It returns nil if the component is not an open type, if it
// has no table, or if the table has no entry for the key.
func (t *Type) OpenTypeOf(i int, s *Sequence) *Type {
	ft := t.Fields[i].Type
	if ft.Kind != KindOpenType || ft.Table == nil || s == nil {
		return nil
	}
	k := t.FieldIndex(ft.Table.Key)
	if k < 0 || k >= len(s.Fields) {
		return nil
	}
	key, ok := s.Fields[k].(Integer)
	if !ok {
		return nil
	}
	return ft.Table.Lookup(int64(key))
}

//region Validation

// Validate reports whether t and all types reachable from it are well-formed.
// Recursive types are supported.
func (t *Type) Validate() error {
	var errs []error
	t.validate(t.String(), make(map[*Type]bool), &errs)
	return errors.Join(errs...)
}

func (t *Type) validate(path string, seen map[*Type]bool, errs *[]error) {
	fail := func(format string, args ...any) {
		*errs = append(*errs, fmt.Errorf("asn1: invalid type %s: "+format, append([]any{path}, args...)...))
	}
	if t == nil {
		fail("nil type")
		return
	}
	if seen[t] {
		return
	}
	seen[t] = true

	switch t.Kind {
	case KindBoolean, KindNull:
	case KindInteger:
		if t.Range.Constrained() && t.Range.Lower > t.Range.Upper {
			fail("empty range %s", t.Range)
		}
	case KindEnumerated:
		if len(t.Values) == 0 {
			fail("enumeration without root values")
		}
		if len(t.ExtValues) > 0 && !t.Extensible {
			fail("enumeration additions without extension marker")
		}
		names := slices.Concat(t.Values, t.ExtValues)
		slices.Sort(names)
		if len(slices.Compact(names)) != len(t.Values)+len(t.ExtValues) {
			fail("duplicate enumeration value")
		}
	case KindBitString, KindOctetString:
		t.validateSize(fail)
	case KindSequenceOf:
		t.validateSize(fail)
		t.Elem.validate(path+"[]", seen, errs)
	case KindSequence, KindChoice:
		if t.Kind == KindChoice && len(t.Fields) == 0 {
			fail("choice without alternatives")
		} else if t.Kind == KindChoice && t.RootCount() == 0 {
			fail("choice without root alternatives")
		}
		names := make(map[string]bool, len(t.Fields))
		inExt := false
		for i, f := range t.Fields {
			switch {
			case f.Name == "":
				fail("component %d has no name", i)
			case names[f.Name]:
				fail("duplicate component %s", f.Name)
			case f.Extension && !t.Extensible:
				fail("extension component %s without extension marker", f.Name)
			case !f.Extension && inExt:
				fail("root component %s after extension additions", f.Name)
			case t.Kind == KindChoice && (f.Optional || f.Default != nil):
				fail("alternative %s cannot be optional", f.Name)
			}
			names[f.Name] = true
			inExt = inExt || f.Extension
			if f.Type == nil {
				fail("component %s has no type", f.Name)
				continue
			}
			if f.Default != nil {
				if err := Check(f.Type, f.Default); err != nil {
					fail("default of %s: %v", f.Name, err)
				}
			}
			if f.Type.Kind == KindOpenType && f.Type.Table != nil && t.Kind == KindSequence {
				k := t.FieldIndex(f.Type.Table.Key)
				if k < 0 || k >= i || t.Fields[k].Type.Kind != KindInteger {
					fail("open type %s is not keyed by a preceding INTEGER component", f.Name)
				}
			}
			f.Type.validate(path+"."+f.Name, seen, errs)
		}
	case KindOpenType:
		if t.Table != nil {
			keys := make([]int64, 0, len(t.Table.Types))
			for k := range t.Table.Types {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			for _, k := range keys {
				t.Table.Types[k].validate(path+"<"+strconv.FormatInt(k, 10)+">", seen, errs)
			}
		}
	default:
		fail("unknown kind %s", t.Kind)
	}
}

func (t *Type) validateSize(fail func(string, ...any)) {
	if t.Size.Lower < 0 {
		fail("negative size %s", t.Size)
	}
	if t.Size.HasUpper && t.Size.Lower > t.Size.Upper {
		fail("empty size %s", t.Size)
	}
}

//endregion
