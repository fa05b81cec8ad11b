// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package e2ap

import (
	"fmt"
	"maps"
	"slices"

	"codello.dev/e2ap/asn1"
)

// Outcome selects an alternative of the E2AP-PDU.
type Outcome uint8

const (
	InitiatingMessage Outcome = iota
	SuccessfulOutcome
	UnsuccessfulOutcome
)

var outcomes = [...]Outcome{InitiatingMessage, SuccessfulOutcome, UnsuccessfulOutcome}

// String returns the name of the PDU alternative of o.
func (o Outcome) String() string {
	switch o {
	case InitiatingMessage:
		return "initiatingMessage"
	case SuccessfulOutcome:
		return "successfulOutcome"
	case UnsuccessfulOutcome:
		return "unsuccessfulOutcome"
	}
	return fmt.Sprintf("Outcome(%d)", uint8(o))
}

// outcomeNames are the type names of the PDU alternatives.
var outcomeNames = [...]string{"InitiatingMessage", "SuccessfulOutcome", "UnsuccessfulOutcome"}

// messageDesc describes a message type of the schema.
type messageDesc struct {
	name      string
	outcome   Outcome
	procedure Procedure
	t         *asn1.Type // message body
	container *asn1.Type // protocol IE container of the body
}

// A Schema binds the identifiers of a [Catalog] to the E2AP type descriptors.
// A Schema is immutable and can be shared between goroutines.
type Schema struct {
	catalog  *Catalog
	pdu      *asn1.Type
	types    map[string]*asn1.Type
	messages map[string]*messageDesc
}

// NewSchema builds the E2AP descriptor set for the assignments in cat. Every
// IE a message of cat lists must have a known value type.
func NewSchema(cat *Catalog) (*Schema, error) {
	types, err := valueTypes(cat)
	if err != nil {
		return nil, err
	}
	s := &Schema{catalog: cat, types: types, messages: make(map[string]*messageDesc)}

	var tables [len(outcomes)]map[int64]*asn1.Type
	for o := range tables {
		tables[o] = make(map[int64]*asn1.Type)
	}
	for _, p := range cat.Procedures {
		for _, o := range outcomes {
			name := p.message(o)
			if name == "" {
				continue
			}
			if _, ok := s.messages[name]; ok {
				return nil, fmt.Errorf("e2ap: message %s is used by more than one procedure outcome", name)
			}
			info, _ := cat.Message(name)
			container, err := s.container(info)
			if err != nil {
				return nil, err
			}
			d := &messageDesc{
				name:      name,
				outcome:   o,
				procedure: p,
				t:         messageType(name, container),
				container: container,
			}
			s.messages[name] = d
			tables[o][p.Code] = d.t
		}
	}

	alts := make([]asn1.Field, len(outcomes))
	for _, o := range outcomes {
		alts[o] = asn1.F(o.String(), outcomeType(outcomeNames[o], tables[o]), "")
	}
	s.pdu = asn1.ChoiceType("E2AP-PDU", true, alts...)
	if err = s.pdu.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// container returns the protocol IE container type of the message m.
func (s *Schema) container(m MessageInfo) (*asn1.Type, error) {
	types := make(map[int64]*asn1.Type, len(m.IEs))
	for _, e := range m.IEs {
		info, _ := s.catalog.IE(e.IE)
		t, ok := s.types[info.Type]
		if !ok {
			return nil, fmt.Errorf("e2ap: message %s: no type %s for IE %s", m.Name, info.Type, e.IE)
		}
		types[info.ID] = t
	}
	field := protocolIEField("ProtocolIE-Field", types)
	return asn1.SequenceOfType("ProtocolIE-Container", field, asn1.SizeRange(0, maxProtocolIEs)), nil
}

// Catalog returns the catalog s was built from.
func (s *Schema) Catalog() *Catalog {
	return s.catalog
}

// PDU returns the E2AP-PDU type.
func (s *Schema) PDU() *asn1.Type {
	return s.pdu
}

// MessageType returns the body type of the named message, or nil.
func (s *Schema) MessageType(name string) *asn1.Type {
	if d, ok := s.messages[name]; ok {
		return d.t
	}
	return nil
}

// IEType returns the value type of the named IE, or nil.
func (s *Schema) IEType(name string) *asn1.Type {
	info, ok := s.catalog.IE(name)
	if !ok {
		return nil
	}
	return s.types[info.Type]
}

// Messages returns the names of all messages in s in sorted order.
func (s *Schema) Messages() []string {
	return slices.Sorted(maps.Keys(s.messages))
}

// lookup returns the message carried by the given outcome of a procedure.
func (s *Schema) lookup(o Outcome, code int64) *messageDesc {
	p, ok := s.catalog.ProcedureByCode(code)
	if !ok {
		return nil
	}
	d := s.messages[p.message(o)]
	if d == nil || d.outcome != o {
		return nil
	}
	return d
}

// messageIE returns the catalog entry of the named IE within message m.
func (s *Schema) messageIE(m, name string) (MessageIE, bool) {
	info, _ := s.catalog.Message(m)
	i := slices.IndexFunc(info.IEs, func(e MessageIE) bool { return e.IE == name })
	if i < 0 {
		return MessageIE{}, false
	}
	return info.IEs[i], true
}
