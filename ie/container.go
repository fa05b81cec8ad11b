// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ie provides access to the protocol information elements of a decoded
// message.
//
// A protocol IE container is a SEQUENCE OF ProtocolIE-Field where each field
// carries an identifier, a criticality and a value whose type is selected by the
// identifier:
//
//	ProtocolIE-Field ::= SEQUENCE {
//		id          ProtocolIE-ID,
//		criticality Criticality,
//		value       OPEN TYPE -- resolved by id
//	}
//
// A [Container] is a view over such a list. It operates on the decoded value
// in place: changes made through the container are visible in the message that
// holds the list and are emitted when the message is encoded again. The order
// of the elements is never changed except by [Container.Append] and
// [Container.Remove].
//
// The protocol does not forbid duplicate identifiers within a container.
// [Container.Find], [Container.Replace] and [Container.CriticalityOf] operate
// on the first element with a matching identifier. [Container.FindAll] returns
// every match.
package ie

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"

	"codello.dev/e2ap/asn1"
)

// Component names of a ProtocolIE-Field.
const (
	IDField          = "id"
	CriticalityField = "criticality"
	ValueField       = "value"
)

// An IE is a single protocol information element.
type IE struct {
	ID          int64
	Criticality Criticality
	Value       asn1.Value
}

// A StructuralError indicates that a type or value does not have the shape of
// a protocol IE container or field.
type StructuralError struct {
	Type *asn1.Type
	Err  error
}

func (e *StructuralError) Error() string {
	var s strings.Builder
	s.WriteString("ie: ")
	s.WriteString(e.Type.String())
	s.WriteString(" is not a protocol IE type")
	if e.Err != nil {
		s.WriteString(": ")
		s.WriteString(e.Err.Error())
	}
	return s.String()
}

func (e *StructuralError) Unwrap() error {
	return e.Err
}

// ErrSize indicates that an element cannot be added to a container because of
// its size constraint.
var ErrSize = errors.New("ie: container is full")

// layout holds the component indexes of a ProtocolIE-Field type.
type layout struct {
	t               *asn1.Type
	id, crit, value int
}

func fieldLayout(t *asn1.Type) (layout, error) {
	l := layout{t: t}
	if t == nil || t.Kind != asn1.KindSequence {
		return l, &StructuralError{t, errors.New("field type is not a SEQUENCE")}
	}
	l.id, l.crit, l.value = t.FieldIndex(IDField), t.FieldIndex(CriticalityField), t.FieldIndex(ValueField)
	switch {
	case l.id < 0 || t.Fields[l.id].Type.Kind != asn1.KindInteger:
		return l, &StructuralError{t, fmt.Errorf("missing INTEGER component %q", IDField)}
	case l.crit < 0 || t.Fields[l.crit].Type.Kind != asn1.KindEnumerated:
		return l, &StructuralError{t, fmt.Errorf("missing ENUMERATED component %q", CriticalityField)}
	case l.value < 0 || t.Fields[l.value].Type.Kind != asn1.KindOpenType:
		return l, &StructuralError{t, fmt.Errorf("missing open type component %q", ValueField)}
	}
	if tab := t.Fields[l.value].Type.Table; tab == nil || tab.Key != IDField {
		return l, &StructuralError{t, fmt.Errorf("component %q is not keyed by %q", ValueField, IDField)}
	}
	return l, nil
}

// typeOf returns the type of values with the given identifier, or nil.
func (l layout) typeOf(id int64) *asn1.Type {
	return l.t.Fields[l.value].Type.Table.Lookup(id)
}

// unpack converts a decoded field into an IE.
func (l layout) unpack(v asn1.Value) IE {
	s := v.(*asn1.Sequence)
	e := IE{Value: s.Fields[l.value]}
	if id, ok := s.Fields[l.id].(asn1.Integer); ok {
		e.ID = int64(id)
	}
	if c, ok := s.Fields[l.crit].(asn1.Enumerated); ok {
		e.Criticality = Criticality(c)
	}
	return e
}

// pack converts e into a field value and checks it against the field type.
func (l layout) pack(e IE) (*asn1.Sequence, error) {
	s := asn1.NewSequence(l.t)
	s.Fields[l.id] = asn1.Integer(e.ID)
	s.Fields[l.crit] = asn1.Enumerated(e.Criticality)
	s.Fields[l.value] = e.Value
	if err := asn1.Check(l.t, s); err != nil {
		return nil, err
	}
	return s, nil
}

// A Container is a view over the elements of a decoded protocol IE container.
// A Container is not safe for concurrent use.
type Container struct {
	t    *asn1.Type
	f    layout
	list *asn1.SequenceOf
}

// New returns a view over list, a value of the protocol IE container type t.
// Every element of list must be a ProtocolIE-Field as produced by the decoder.
func New(t *asn1.Type, list *asn1.SequenceOf) (*Container, error) {
	if t == nil || t.Kind != asn1.KindSequenceOf {
		return nil, &StructuralError{t, errors.New("container type is not a SEQUENCE OF")}
	}
	f, err := fieldLayout(t.Elem)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, &StructuralError{t, errors.New("nil list")}
	}
	for i, v := range list.Elems {
		s, ok := v.(*asn1.Sequence)
		if !ok || s == nil || len(s.Fields) != len(f.t.Fields) {
			return nil, &StructuralError{t, fmt.Errorf("element %d is not a %s value", i, f.t)}
		}
	}
	return &Container{t: t, f: f, list: list}, nil
}

// Type returns the container type.
func (c *Container) Type() *asn1.Type {
	return c.t
}

// List returns the underlying list value.
func (c *Container) List() *asn1.SequenceOf {
	return c.list
}

// Len returns the number of elements in c.
func (c *Container) Len() int {
	return len(c.list.Elems)
}

// At returns the element at index i.
func (c *Container) At(i int) IE {
	return c.f.unpack(c.list.Elems[i])
}

// All returns an iterator over the index and element pairs of c in wire order.
func (c *Container) All() iter.Seq2[int, IE] {
	return func(yield func(int, IE) bool) {
		for i, v := range c.list.Elems {
			if !yield(i, c.f.unpack(v)) {
				return
			}
		}
	}
}

// IDs returns the identifiers of all elements in wire order.
func (c *Container) IDs() []int64 {
	ids := make([]int64, len(c.list.Elems))
	for i := range c.list.Elems {
		ids[i] = c.At(i).ID
	}
	return ids
}

// Index returns the index of the first element with the given identifier, or -1.
func (c *Container) Index(id int64) int {
	return slices.IndexFunc(c.list.Elems, func(v asn1.Value) bool {
		return c.f.unpack(v).ID == id
	})
}

// Find returns the value of the first element with the given identifier.
func (c *Container) Find(id int64) (asn1.Value, bool) {
	i := c.Index(id)
	if i < 0 {
		return nil, false
	}
	return c.At(i).Value, true
}

// FindAll returns the values of all elements with the given identifier in wire
// order.
func (c *Container) FindAll(id int64) []asn1.Value {
	var vs []asn1.Value
	for _, e := range c.All() {
		if e.ID == id {
			vs = append(vs, e.Value)
		}
	}
	return vs
}

// CriticalityOf returns the criticality of the first element with the given
// identifier.
func (c *Container) CriticalityOf(id int64) (Criticality, bool) {
	i := c.Index(id)
	if i < 0 {
		return 0, false
	}
	return c.At(i).Criticality, true
}

// TypeOf returns the type of values with the given identifier, or nil if the
// identifier is unknown. Values of unknown identifiers are [asn1.RawValue]s.
func (c *Container) TypeOf(id int64) *asn1.Type {
	return c.f.typeOf(id)
}

// Replace sets the value of the first element with the given identifier to v.
// It reports false if no such element exists. If v is not a valid value for
// the identifier the error is a [*asn1.MismatchError]. In both cases c is left
// unchanged.
func (c *Container) Replace(id int64, v asn1.Value) (bool, error) {
	i := c.Index(id)
	if i < 0 {
		return false, nil
	}
	old := c.At(i)
	s, err := c.f.pack(IE{ID: id, Criticality: old.Criticality, Value: v})
	if err != nil {
		return false, err
	}
	c.list.Elems[i] = s
	return true, nil
}

// Append adds e to the end of c. The value of e is checked against the type
// of its identifier.
func (c *Container) Append(e IE) error {
	if !c.t.Size.Extensible && c.t.Size.HasUpper && len(c.list.Elems) >= c.t.Size.Upper {
		return ErrSize
	}
	if !e.Criticality.IsValid() {
		return fmt.Errorf("ie: invalid criticality %d", uint8(e.Criticality))
	}
	s, err := c.f.pack(e)
	if err != nil {
		return err
	}
	c.list.Elems = append(c.list.Elems, s)
	return nil
}

// Remove deletes the first element with the given identifier. It reports
// whether an element was removed.
func (c *Container) Remove(id int64) bool {
	i := c.Index(id)
	if i < 0 {
		return false
	}
	c.list.Elems = slices.Delete(c.list.Elems, i, i+1)
	return true
}

// Single returns the element held by v, a value of the single container type t.
// A single container is a ProtocolIE-Field used on its own, for example as the
// item type of a list.
func Single(t *asn1.Type, v asn1.Value) (IE, error) {
	f, err := fieldLayout(t)
	if err != nil {
		return IE{}, err
	}
	s, ok := v.(*asn1.Sequence)
	if !ok || s == nil || len(s.Fields) != len(t.Fields) {
		return IE{}, &StructuralError{t, fmt.Errorf("%T is not a %s value", v, t)}
	}
	return f.unpack(s), nil
}

// NewSingle returns a value of the single container type t holding e.
func NewSingle(t *asn1.Type, e IE) (*asn1.Sequence, error) {
	f, err := fieldLayout(t)
	if err != nil {
		return nil, err
	}
	return f.pack(e)
}
