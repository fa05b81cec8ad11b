// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBitString_String(t *testing.T) {
	tests := map[string]struct {
		s    BitString
		want string
	}{
		"Empty":   {BitString{}, ""},
		"Partial": {BitString{[]byte{0b1010_0000}, 3}, "101"},
		"Full":    {BitString{[]byte{0xff, 0x00}, 16}, "1111111100000000"},
		"Padding": {BitString{[]byte{0xff, 0x80}, 9}, "111111111"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tt.s.String(); got != tt.want {
				t.Errorf("BitString.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBitString_IsValid(t *testing.T) {
	if !(BitString{[]byte{0x00}, 8}).IsValid() {
		t.Errorf("IsValid() = false for 8 bits in 1 byte")
	}
	if (BitString{[]byte{0x00}, 9}).IsValid() {
		t.Errorf("IsValid() = true for 9 bits in 1 byte")
	}
}

var (
	testRequestID = SequenceType("RICrequestID", true,
		F("ricRequestorID", IntegerType("", Bounded(0, 65535)), ""),
		F("ricInstanceID", IntegerType("", Bounded(0, 65535)), ""),
	)
	testAction = SequenceType("Action", true,
		F("ricActionID", IntegerType("", Bounded(0, 255)), ""),
		F("ricActionType", EnumeratedType("", []string{"report", "insert", "policy"}, true), ""),
		F("ricActionDefinition", OctetStringType("", Unsized()), "optional"),
	)
	testField = SequenceType("Field", false,
		F("id", IntegerType("", Bounded(0, 65535)), ""),
		F("value", OpenType("", &Table{Key: "id", Types: map[int64]*Type{29: testRequestID}}), ""),
	)
	testChoice = ChoiceType("Cause", true,
		F("ricRequest", EnumeratedType("", []string{"a", "b"}, true), ""),
		F("misc", EnumeratedType("", []string{"c"}, true), ""),
	)
)

func TestCheck(t *testing.T) {
	tests := map[string]struct {
		t       *Type
		v       Value
		wantErr string
	}{
		"Valid":           {testRequestID, &Sequence{Fields: []Value{Integer(123), Integer(1)}}, ""},
		"OutOfRange":      {testRequestID, &Sequence{Fields: []Value{Integer(123), Integer(70000)}}, "ricInstanceID"},
		"WrongKind":       {testRequestID, Integer(5), "Integer value for Sequence type"},
		"FieldCount":      {testRequestID, &Sequence{Fields: []Value{Integer(1)}}, "1 components, want 2"},
		"MissingField":    {testRequestID, &Sequence{Fields: []Value{Integer(1), nil}}, "mandatory component is absent"},
		"OptionalAbsent":  {testAction, &Sequence{Fields: []Value{Integer(1), Enumerated(0), nil}}, ""},
		"UnknownEnumExt":  {testAction, &Sequence{Fields: []Value{Integer(1), Enumerated(7), nil}}, ""},
		"NegativeEnum":    {testAction, &Sequence{Fields: []Value{Integer(1), Enumerated(-1), nil}}, "unknown enumeration index"},
		"OpenResolved":    {testField, &Sequence{Fields: []Value{Integer(29), &Sequence{Fields: []Value{Integer(1), Integer(2)}}}}, ""},
		"OpenMismatch":    {testField, &Sequence{Fields: []Value{Integer(29), Integer(2)}}, "value"},
		"OpenRaw":         {testField, &Sequence{Fields: []Value{Integer(30), RawValue{[]byte{0x01}}}}, ""},
		"OpenUnresolved":  {testField, &Sequence{Fields: []Value{Integer(30), Integer(1)}}, "unresolved open type"},
		"RawForInteger":   {IntegerType("", Unbounded()), RawValue{}, "raw value"},
		"ChoiceKnown":     {testChoice, NewChoice(1, Enumerated(0)), ""},
		"ChoiceUnknown":   {testChoice, NewChoice(6, RawValue{[]byte{0x00}}), ""},
		"ChoiceNotRaw":    {testChoice, NewChoice(6, Enumerated(0)), "must hold a raw value"},
		"SizeViolation":   {SequenceOfType("L", BooleanType(""), SizeRange(1, 2)), NewSequenceOf(), "0 elements"},
		"ElementMismatch": {SequenceOfType("L", BooleanType(""), Unsized()), NewSequenceOf(Boolean(true), Null{}), "[1]"},
		"UnknownOrder": {testRequestID, &Sequence{Fields: []Value{Integer(1), Integer(2)},
			Unknown: []Extension{{Index: 3}, {Index: 1}}}, "out of order"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := Check(tt.t, tt.v)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Check() error = %v", err)
				}
				return
			}
			var mErr *MismatchError
			if !errors.As(err, &mErr) {
				t.Fatalf("Check() error = %v, want *MismatchError", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Check() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestClone(t *testing.T) {
	orig := &Sequence{
		Fields: []Value{
			Integer(29),
			NewSequenceOf(OctetString{0x01, 0x02}, BitString{[]byte{0xf0}, 4}),
			NewChoice(0, RawValue{[]byte{0xaa}}),
		},
		Unknown: []Extension{{Index: 2, Bytes: []byte{0x00}}},
	}
	c := Clone(orig).(*Sequence)
	if diff := cmp.Diff(orig, c); diff != "" {
		t.Fatalf("Clone() mismatch (-want +got):\n%s", diff)
	}
	c.Fields[1].(*SequenceOf).Elems[0].(OctetString)[0] = 0xff
	c.Fields[2].(*Choice).Value.(RawValue).Bytes[0] = 0xff
	c.Unknown[0].Bytes[0] = 0xff
	if orig.Fields[1].(*SequenceOf).Elems[0].(OctetString)[0] != 0x01 ||
		orig.Fields[2].(*Choice).Value.(RawValue).Bytes[0] != 0xaa ||
		orig.Unknown[0].Bytes[0] != 0x00 {
		t.Errorf("Clone() shares memory with the original")
	}
}

func TestSprint(t *testing.T) {
	v := &Sequence{Fields: []Value{Integer(29), &Sequence{Fields: []Value{Integer(123), Integer(1)}}}}
	got := Sprint(testField, v)
	for _, want := range []string{"id 29", "value {", "ricInstanceID 1"} {
		if !strings.Contains(got, want) {
			t.Errorf("Sprint() = %q, want it to contain %q", got, want)
		}
	}
	got = Sprint(testChoice, NewChoice(0, Enumerated(1)))
	if got != "ricRequest : b" {
		t.Errorf("Sprint() = %q, want %q", got, "ricRequest : b")
	}
}
