// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package e2ap

import (
	"fmt"
	"strconv"
	"strings"

	"codello.dev/e2ap/asn1"
	"codello.dev/e2ap/ie"
)

// A Message is a decoded E2AP-PDU.
//
// PDU holds the complete value. IEs is a view over the protocol IE container
// inside PDU: changes made through IEs are part of the next encoding of the
// message. The remaining fields describe the PDU and are not consulted when
// the message is encoded.
//
// A Message is owned by the caller that decoded or created it. It must not be
// modified concurrently.
type Message struct {
	Name          string
	Outcome       Outcome
	ProcedureCode int64
	Criticality   ie.Criticality
	IEs           *ie.Container
	PDU           *asn1.Choice

	schema *Schema
}

// message interprets a decoded E2AP-PDU value.
func (s *Schema) message(v asn1.Value) (*Message, error) {
	pdu, ok := v.(*asn1.Choice)
	if !ok || pdu.Index >= len(outcomes) {
		return nil, fmt.Errorf("%w: unknown PDU alternative", ErrUnknownMessage)
	}
	o := Outcome(pdu.Index)
	outer := pdu.Value.(*asn1.Sequence)
	code := int64(outer.Fields[0].(asn1.Integer))
	d := s.lookup(o, code)
	body, ok := outer.Fields[2].(*asn1.Sequence)
	if d == nil || !ok {
		return nil, fmt.Errorf("%w: procedure code %d (%s)", ErrUnknownMessage, code, o)
	}
	list, _ := body.Fields[0].(*asn1.SequenceOf)
	ies, err := ie.New(d.container, list)
	if err != nil {
		return nil, err
	}
	return &Message{
		Name:          d.name,
		Outcome:       o,
		ProcedureCode: code,
		Criticality:   ie.Criticality(outer.Fields[1].(asn1.Enumerated)),
		IEs:           ies,
		PDU:           pdu,
		schema:        s,
	}, nil
}

// newMessage returns an empty message of type d.
func (s *Schema) newMessage(d *messageDesc) *Message {
	list := &asn1.SequenceOf{}
	body := asn1.NewSequence(d.t)
	body.Fields[0] = list
	outer := &asn1.Sequence{Fields: []asn1.Value{
		asn1.Integer(d.procedure.Code),
		asn1.Enumerated(d.procedure.Criticality),
		body,
	}}
	// the container type always matches
	ies, _ := ie.New(d.container, list)
	return &Message{
		Name:          d.name,
		Outcome:       d.outcome,
		ProcedureCode: d.procedure.Code,
		Criticality:   d.procedure.Criticality,
		IEs:           ies,
		PDU:           asn1.NewChoice(int(d.outcome), outer),
		schema:        s,
	}
}

// String returns the PDU in ASN.1 value notation.
func (m *Message) String() string {
	return asn1.Sprint(m.schema.pdu, m.PDU)
}

// Get returns the value of the named IE.
func (m *Message) Get(name string) (asn1.Value, bool) {
	id, ok := m.schema.catalog.IEID(name)
	if !ok {
		return nil, false
	}
	return m.IEs.Find(id)
}

// Set sets the value of the named IE. If m does not contain the IE yet, it is
// appended with the criticality the catalog assigns to it within the message.
func (m *Message) Set(name string, v asn1.Value) error {
	id, ok := m.schema.catalog.IEID(name)
	if !ok {
		return fmt.Errorf("e2ap: unknown IE %s", name)
	}
	if ok, err := m.IEs.Replace(id, v); ok || err != nil {
		return err
	}
	e, ok := m.schema.messageIE(m.Name, name)
	if !ok {
		return fmt.Errorf("e2ap: %s does not carry IE %s", m.Name, name)
	}
	return m.IEs.Append(ie.IE{ID: id, Criticality: e.Criticality, Value: v})
}

// ScalarField returns the value of the first IE with the given identifier.
// If path is not empty, it names the component within the IE value: a
// component of a SEQUENCE, the selected alternative of a CHOICE or a decimal
// index into a SEQUENCE OF. The value must be an INTEGER or ENUMERATED value.
//
// If the IE or component does not exist, the error matches [ErrNotFound].
func (m *Message) ScalarField(id int64, path ...string) (int64, error) {
	v, ok := m.IEs.Find(id)
	if !ok {
		return 0, &NotFoundError{ID: id}
	}
	s, err := locate(id, m.IEs.TypeOf(id), &v, path)
	if err != nil {
		return 0, err
	}
	switch x := s.v.(type) {
	case asn1.Integer:
		return int64(x), nil
	case asn1.Enumerated:
		return int64(x), nil
	}
	return 0, notScalar(id, path, s.v)
}

// SetScalarField sets the value located as by [Message.ScalarField] to x. The
// new value is checked against its type before m is modified. If the check
// fails, the error is a [*asn1.MismatchError] and m is left unchanged.
func (m *Message) SetScalarField(id int64, x int64, path ...string) error {
	v, ok := m.IEs.Find(id)
	if !ok {
		return &NotFoundError{ID: id}
	}
	root := asn1.Clone(v)
	s, err := locate(id, m.IEs.TypeOf(id), &root, path)
	if err != nil {
		return err
	}
	switch s.v.(type) {
	case asn1.Integer:
		s.set(asn1.Integer(x))
	case asn1.Enumerated:
		s.set(asn1.Enumerated(x))
	default:
		return notScalar(id, path, s.v)
	}
	_, err = m.IEs.Replace(id, root)
	return err
}

// slot is a located component value together with its type.
type slot struct {
	t   *asn1.Type
	v   asn1.Value
	set func(asn1.Value)
}

// locate follows path from *root, the value of IE id of type t.
func locate(id int64, t *asn1.Type, root *asn1.Value, path []string) (slot, error) {
	cur := slot{t: t, v: *root, set: func(x asn1.Value) { *root = x }}
	for i, name := range path {
		notFound := &NotFoundError{ID: id, Path: path[:i+1]}
		if cur.t == nil {
			return slot{}, notFound
		}
		switch v := cur.v.(type) {
		case *asn1.Sequence:
			k := cur.t.FieldIndex(name)
			if k < 0 || v.Fields[k] == nil {
				return slot{}, notFound
			}
			ft := cur.t.Fields[k].Type
			if ft.Kind == asn1.KindOpenType {
				ft = cur.t.OpenTypeOf(k, v)
			}
			cur = slot{t: ft, v: v.Fields[k], set: func(x asn1.Value) { v.Fields[k] = x }}
		case *asn1.Choice:
			if v.Index >= len(cur.t.Fields) || cur.t.Fields[v.Index].Name != name {
				return slot{}, notFound
			}
			cur = slot{t: cur.t.Fields[v.Index].Type, v: v.Value, set: func(x asn1.Value) { v.Value = x }}
		case *asn1.SequenceOf:
			k, err := strconv.Atoi(name)
			if err != nil || k < 0 || k >= len(v.Elems) {
				return slot{}, notFound
			}
			cur = slot{t: cur.t.Elem, v: v.Elems[k], set: func(x asn1.Value) { v.Elems[k] = x }}
		default:
			return slot{}, notFound
		}
	}
	return cur, nil
}

func notScalar(id int64, path []string, v asn1.Value) error {
	what := "value"
	if len(path) > 0 {
		what = strings.Join(path, ".")
	}
	kind := "absent"
	if v != nil {
		kind = v.Kind().String()
	}
	return fmt.Errorf("%w: %s of IE %d is %s", ErrNotScalar, what, id, kind)
}
