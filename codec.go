// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package e2ap encodes and decodes messages of the O-RAN E2 Application
// Protocol (E2AP) in the aligned Packed Encoding Rules.
//
// A [Schema] binds the identifier assignments of a [Catalog] to the E2AP type
// descriptors. A [Codec] uses a schema to convert between encoded PDUs and
// [Message] values. A message exposes its protocol IEs as an [ie.Container].
//
// Most applications only need to read or rewrite a single number in an
// otherwise opaque message. [Codec.GetScalarField] and [Codec.SetScalarField]
// do so in one step:
//
//	c := e2ap.NewCodec(schema)
//	out, err := c.SetScalarField(data, id, 42, "ricInstanceID")
//
// The encoding produced after a change differs from the original only in the
// octets of the changed value and the length determinants enclosing it.
package e2ap

import (
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"codello.dev/e2ap/asn1"
	"codello.dev/e2ap/per"
)

// A Codec decodes and encodes E2AP messages. A Codec is safe for concurrent
// use. Messages returned by a Codec are not.
type Codec struct {
	schema  *Schema
	limits  per.Limits
	log     logr.Logger
	metrics *Metrics
}

// An Option configures a [Codec].
type Option func(*Codec)

// WithLimits bounds the resources used by each operation of the codec.
func WithLimits(l per.Limits) Option {
	return func(c *Codec) { c.limits = l }
}

// WithLogger sets the logger of the codec. Failed operations are logged as
// errors, details about each message at verbosity 1.
func WithLogger(l logr.Logger) Option {
	return func(c *Codec) { c.log = l }
}

// WithMetrics makes the codec record its operations in m.
func WithMetrics(m *Metrics) Option {
	return func(c *Codec) { c.metrics = m }
}

// NewCodec returns a codec for the messages of s.
func NewCodec(s *Schema, opts ...Option) *Codec {
	c := &Codec{schema: s, log: logr.Discard()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Schema returns the schema of c.
func (c *Codec) Schema() *Schema {
	return c.schema
}

// DecodeMessage decodes a complete E2AP-PDU. If data is not a valid encoding
// the error is a [*per.SyntaxError]. A valid PDU of a procedure or outcome the
// schema does not know yields an error matching [ErrUnknownMessage].
func (c *Codec) DecodeMessage(data []byte) (*Message, error) {
	m, err := c.decode(data)
	c.metrics.observe(opDecode, len(data), err)
	if err != nil {
		c.log.Error(err, "Failed to decode message", "size", len(data))
		return nil, err
	}
	c.log.V(1).Info("Decoded message", "message", m.Name, "procedureCode", m.ProcedureCode,
		"ies", m.IEs.IDs(), "size", len(data))
	return m, nil
}

func (c *Codec) decode(data []byte) (*Message, error) {
	v, err := per.UnmarshalWithLimits(c.schema.pdu, data, c.limits)
	if err != nil {
		return nil, err
	}
	return c.schema.message(v)
}

// EncodeMessage returns the encoding of m in a new buffer.
func (c *Codec) EncodeMessage(m *Message) ([]byte, error) {
	if m == nil || m.PDU == nil {
		return nil, errors.New("e2ap: encode of empty message")
	}
	data, err := per.MarshalWithLimits(c.schema.pdu, m.PDU, c.limits)
	c.encoded(m, len(data), err)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// EncodeMessageInto writes the encoding of m into buf and returns the number
// of octets written. It never writes beyond len(buf). If the encoding does not
// fit, the error matches [per.ErrBufferTooSmall].
func (c *Codec) EncodeMessageInto(buf []byte, m *Message) (int, error) {
	if m == nil || m.PDU == nil {
		return 0, errors.New("e2ap: encode of empty message")
	}
	n, err := per.NewEncoder(c.limits).EncodeInto(buf, c.schema.pdu, m.PDU)
	c.encoded(m, n, err)
	return n, err
}

func (c *Codec) encoded(m *Message, n int, err error) {
	c.metrics.observe(opEncode, n, err)
	if err != nil {
		c.log.Error(err, "Failed to encode message", "message", m.Name)
		return
	}
	c.log.V(1).Info("Encoded message", "message", m.Name, "procedureCode", m.ProcedureCode,
		"ies", m.IEs.IDs(), "size", n)
}

// NewMessage returns a message of the named type without any IEs.
func (c *Codec) NewMessage(name string) (*Message, error) {
	d, ok := c.schema.messages[name]
	if !ok {
		return nil, errors.New("e2ap: unknown message " + name)
	}
	return c.schema.newMessage(d), nil
}

// GetScalarField decodes data and returns the value located as by
// [Message.ScalarField].
func (c *Codec) GetScalarField(data []byte, id int64, path ...string) (int64, error) {
	m, err := c.DecodeMessage(data)
	if err != nil {
		return 0, err
	}
	x, err := m.ScalarField(id, path...)
	c.metrics.observe(opGetField, len(data), err)
	return x, err
}

// SetScalarField decodes data, sets the value located as by
// [Message.ScalarField] to x and returns the new encoding. data is never
// modified. If the IE or component does not exist the error matches
// [ErrNotFound] and no encoding is returned.
func (c *Codec) SetScalarField(data []byte, id int64, x int64, path ...string) ([]byte, error) {
	out, err := c.setScalarField(data, id, x, path)
	c.metrics.observe(opSetField, len(out), err)
	if err != nil {
		c.log.V(1).Info("Field not set", "id", id, "path", path, "error", err.Error())
		return nil, err
	}
	return out, nil
}

func (c *Codec) setScalarField(data []byte, id int64, x int64, path []string) ([]byte, error) {
	m, err := c.DecodeMessage(data)
	if err != nil {
		return nil, err
	}
	if err = m.SetScalarField(id, x, path...); err != nil {
		return nil, err
	}
	return c.EncodeMessage(m)
}

// Component names of the RICrequestID type.
const (
	RICRequestorID = "ricRequestorID"
	RICInstanceID  = "ricInstanceID"
)

// NewRequestID returns a RICrequestID value.
func NewRequestID(requestor, instance int64) *asn1.Sequence {
	return &asn1.Sequence{Fields: []asn1.Value{asn1.Integer(requestor), asn1.Integer(instance)}}
}

// requestID returns the identifier of the RICrequestID IE.
func (c *Codec) requestID() (int64, error) {
	id, ok := c.schema.catalog.IEID("RICrequestID")
	if !ok {
		return 0, fmt.Errorf("%w: catalog has no RICrequestID", ErrNotFound)
	}
	return id, nil
}

// SequenceNumber returns the RIC instance ID of the RICrequestID IE of the
// message in data. Subscriptions and their indications use it as a sequence
// number.
func (c *Codec) SequenceNumber(data []byte) (int64, error) {
	id, err := c.requestID()
	if err != nil {
		return 0, err
	}
	return c.GetScalarField(data, id, RICInstanceID)
}

// SetSequenceNumber returns a copy of the message in data with the RIC
// instance ID of its RICrequestID IE set to n.
func (c *Codec) SetSequenceNumber(data []byte, n int64) ([]byte, error) {
	id, err := c.requestID()
	if err != nil {
		return nil, err
	}
	return c.SetScalarField(data, id, n, RICInstanceID)
}

// Format returns the decoded value of data in ASN.1 value notation.
func (c *Codec) Format(data []byte) (string, error) {
	v, err := per.UnmarshalWithLimits(c.schema.pdu, data, c.limits)
	if err != nil {
		return "", err
	}
	return asn1.Sprint(c.schema.pdu, v), nil
}
