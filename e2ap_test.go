// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package e2ap_test

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/go-logr/logr/funcr"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"codello.dev/e2ap"
	"codello.dev/e2ap/asn1"
	"codello.dev/e2ap/ie"
	"codello.dev/e2ap/per"
)

const (
	idCause                  = 1
	idRANfunctionID          = 5
	idRICrequestID           = 29
	idRICsubscriptionDetails = 30
)

// subscriptionRequest is a RICsubscriptionRequest with RIC request ID
// {123, 7}, RAN function 1, event trigger 01 02 and a single report action 1.
// The PDU header (initiatingMessage, RICsubscription, reject) and the IE count
// are followed by the RICrequestID, RANfunctionID and RICsubscriptionDetails
// IEs.
const subscriptionRequest = "00 08 00 22 00 00 03" +
	"00 1D 00 05 00 00 7B 00 07" +
	"00 05 00 02 00 01" +
	"00 1E 00 0C 00 02 01 02 00 00 13 40 03 00 01 00"

func h(s string) []byte {
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		panic(err)
	}
	return b
}

func newCodec(t testing.TB, opts ...e2ap.Option) *e2ap.Codec {
	t.Helper()
	s, err := e2ap.NewSchema(e2ap.DefaultCatalog())
	require.NoError(t, err)
	return e2ap.NewCodec(s, opts...)
}

func subscriptionDetails(t *testing.T, c *e2ap.Codec) asn1.Value {
	t.Helper()
	details := c.Schema().IEType("RICsubscriptionDetails")
	require.NotNil(t, details)
	list := details.Fields[1].Type
	item := asn1.NewSequence(c.Schema().IEType("RICaction-ToBeSetup-Item"))
	item.Fields[0] = asn1.Integer(1)
	item.Fields[1] = asn1.Enumerated(0)
	single, err := ie.NewSingle(list.Elem, ie.IE{ID: 19, Criticality: ie.Ignore, Value: item})
	require.NoError(t, err)
	return &asn1.Sequence{Fields: []asn1.Value{
		asn1.OctetString{0x01, 0x02},
		asn1.NewSequenceOf(single),
	}}
}

func TestCodec_EncodeMessage(t *testing.T) {
	c := newCodec(t)
	m, err := c.NewMessage("RICsubscriptionRequest")
	require.NoError(t, err)
	assert.Equal(t, e2ap.InitiatingMessage, m.Outcome)
	assert.EqualValues(t, 8, m.ProcedureCode)
	assert.Equal(t, ie.Reject, m.Criticality)
	assert.Zero(t, m.IEs.Len())

	require.NoError(t, m.Set("RICrequestID", e2ap.NewRequestID(123, 7)))
	require.NoError(t, m.Set("RANfunctionID", asn1.Integer(1)))
	require.NoError(t, m.Set("RICsubscriptionDetails", subscriptionDetails(t, c)))
	assert.Error(t, m.Set("Cause", asn1.NewChoice(0, asn1.Enumerated(0))), "IE not carried by message")
	assert.Error(t, m.Set("NoSuchIE", asn1.Integer(0)))

	data, err := c.EncodeMessage(m)
	require.NoError(t, err)
	assert.Equal(t, h(subscriptionRequest), data)

	buf := make([]byte, 64)
	n, err := c.EncodeMessageInto(buf, m)
	require.NoError(t, err)
	assert.Equal(t, data, buf[:n])

	_, err = c.EncodeMessageInto(make([]byte, 10), m)
	assert.ErrorIs(t, err, per.ErrBufferTooSmall)

	_, err = c.NewMessage("E2setupRequest")
	assert.Error(t, err)
}

func TestCodec_DecodeMessage(t *testing.T) {
	c := newCodec(t)
	m, err := c.DecodeMessage(h(subscriptionRequest))
	require.NoError(t, err)

	assert.Equal(t, "RICsubscriptionRequest", m.Name)
	assert.Equal(t, e2ap.InitiatingMessage, m.Outcome)
	assert.EqualValues(t, 8, m.ProcedureCode)
	assert.Equal(t, []int64{idRICrequestID, idRANfunctionID, idRICsubscriptionDetails}, m.IEs.IDs())

	v, ok := m.Get("RICrequestID")
	require.True(t, ok)
	if diff := cmp.Diff(asn1.Value(e2ap.NewRequestID(123, 7)), v); diff != "" {
		t.Errorf("RICrequestID mismatch (-want +got):\n%s", diff)
	}
	v, ok = m.Get("RICsubscriptionDetails")
	require.True(t, ok)
	if diff := cmp.Diff(subscriptionDetails(t, c), v); diff != "" {
		t.Errorf("RICsubscriptionDetails mismatch (-want +got):\n%s", diff)
	}
	_, ok = m.Get("Cause")
	assert.False(t, ok)

	out, err := c.EncodeMessage(m)
	require.NoError(t, err)
	assert.Equal(t, h(subscriptionRequest), out)
	assert.Contains(t, m.String(), "ricInstanceID 7")
}

func TestCodec_DecodeMessage_Errors(t *testing.T) {
	c := newCodec(t)
	data := h(subscriptionRequest)

	_, err := c.DecodeMessage(data[:20])
	var synErr *per.SyntaxError
	assert.ErrorAs(t, err, &synErr)

	_, err = c.DecodeMessage(append(data, 0x00))
	assert.ErrorIs(t, err, per.ErrTrailingData)

	// E2setup request: the default schema has no type for it.
	_, err = c.DecodeMessage(h("00 01 00 01 00"))
	assert.ErrorIs(t, err, e2ap.ErrUnknownMessage)

	_, err = c.DecodeMessage(nil)
	assert.Error(t, err)
}

func TestCodec_ScalarField(t *testing.T) {
	c := newCodec(t)
	data := h(subscriptionRequest)

	tests := map[string]struct {
		id   int64
		path []string
		want int64
	}{
		"RequestorID":  {idRICrequestID, []string{e2ap.RICRequestorID}, 123},
		"InstanceID":   {idRICrequestID, []string{e2ap.RICInstanceID}, 7},
		"RANfunction":  {idRANfunctionID, nil, 1},
		"NestedAction": {idRICsubscriptionDetails, []string{"ricAction-ToBeSetup-List", "0", "value", "ricActionID"}, 1},
		"ActionType":   {idRICsubscriptionDetails, []string{"ricAction-ToBeSetup-List", "0", "value", "ricActionType"}, 0},
		"SingleID":     {idRICsubscriptionDetails, []string{"ricAction-ToBeSetup-List", "0", "id"}, 19},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := c.GetScalarField(data, tt.id, tt.path...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	notFound := map[string]struct {
		id   int64
		path []string
	}{
		"MissingIE":        {idCause, nil},
		"MissingComponent": {idRICrequestID, []string{"ricRequestorID", "x"}},
		"UnknownComponent": {idRICrequestID, []string{"sequenceNumber"}},
		"IndexOutOfRange":  {idRICsubscriptionDetails, []string{"ricAction-ToBeSetup-List", "1"}},
		"BadIndex":         {idRICsubscriptionDetails, []string{"ricAction-ToBeSetup-List", "first"}},
		"AbsentOptional":   {idRICsubscriptionDetails, []string{"ricAction-ToBeSetup-List", "0", "value", "ricSubsequentAction"}},
	}
	for name, tt := range notFound {
		t.Run(name, func(t *testing.T) {
			_, err := c.GetScalarField(data, tt.id, tt.path...)
			assert.ErrorIs(t, err, e2ap.ErrNotFound)
			var nf *e2ap.NotFoundError
			require.ErrorAs(t, err, &nf)
			assert.Equal(t, tt.id, nf.ID)
		})
	}

	_, err := c.GetScalarField(data, idRICrequestID)
	assert.ErrorIs(t, err, e2ap.ErrNotScalar)
}

// Setting the sequence number changes only the octets of the number.
func TestCodec_SetSequenceNumber(t *testing.T) {
	c := newCodec(t)
	data := h(subscriptionRequest)
	orig := bytes.Clone(data)

	n, err := c.SequenceNumber(data)
	require.NoError(t, err)
	assert.EqualValues(t, 7, n)

	out, err := c.SetSequenceNumber(data, 42)
	require.NoError(t, err)
	assert.Equal(t, orig, data, "input modified")

	want := bytes.Clone(orig)
	want[15] = 0x2A
	assert.Equal(t, want, out)

	n, err = c.SequenceNumber(out)
	require.NoError(t, err)
	assert.EqualValues(t, 42, n)

	// the remaining IEs are unchanged
	m1, err := c.DecodeMessage(data)
	require.NoError(t, err)
	m2, err := c.DecodeMessage(out)
	require.NoError(t, err)
	for _, id := range []int64{idRANfunctionID, idRICsubscriptionDetails} {
		v1, _ := m1.IEs.Find(id)
		v2, _ := m2.IEs.Find(id)
		assert.Empty(t, cmp.Diff(v1, v2), "IE %d", id)
	}
}

func TestCodec_SetScalarField_Errors(t *testing.T) {
	c := newCodec(t)
	data := h(subscriptionRequest)
	orig := bytes.Clone(data)

	out, err := c.SetScalarField(data, idCause, 1)
	assert.ErrorIs(t, err, e2ap.ErrNotFound)
	assert.Nil(t, out)

	out, err = c.SetSequenceNumber(data, 70000)
	var merr *asn1.MismatchError
	assert.ErrorAs(t, err, &merr)
	assert.Nil(t, out)

	_, err = c.SetScalarField(data, idRICrequestID, 1)
	assert.ErrorIs(t, err, e2ap.ErrNotScalar)

	assert.Equal(t, orig, data)

	m, err := c.DecodeMessage(data)
	require.NoError(t, err)
	require.Error(t, m.SetScalarField(idRANfunctionID, 5000))
	x, err := m.ScalarField(idRANfunctionID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, x)
}

func TestCodec_Cause(t *testing.T) {
	c := newCodec(t)
	m, err := c.NewMessage("RICsubscriptionFailure")
	require.NoError(t, err)
	assert.Equal(t, e2ap.UnsuccessfulOutcome, m.Outcome)
	require.NoError(t, m.Set("RICrequestID", e2ap.NewRequestID(1, 2)))
	require.NoError(t, m.Set("RANfunctionID", asn1.Integer(3)))
	// request-id-unknown
	require.NoError(t, m.Set("Cause", asn1.NewChoice(0, asn1.Enumerated(6))))

	data, err := c.EncodeMessage(m)
	require.NoError(t, err)

	x, err := c.GetScalarField(data, idCause, "ricRequest")
	require.NoError(t, err)
	assert.EqualValues(t, 6, x)
	_, err = c.GetScalarField(data, idCause, "misc")
	assert.ErrorIs(t, err, e2ap.ErrNotFound)

	out, err := c.SetScalarField(data, idCause, 13, "ricRequest")
	require.NoError(t, err)
	x, err = c.GetScalarField(out, idCause, "ricRequest")
	require.NoError(t, err)
	assert.EqualValues(t, 13, x)

	crit, ok := m.IEs.CriticalityOf(idCause)
	require.True(t, ok)
	assert.Equal(t, ie.Reject, crit)
}

// IEs the schema does not know survive a decode and encode cycle.
func TestCodec_UnknownIE(t *testing.T) {
	c := newCodec(t)
	m, err := c.DecodeMessage(h(subscriptionRequest))
	require.NoError(t, err)
	require.NoError(t, m.IEs.Append(ie.IE{ID: 999, Criticality: ie.Ignore, Value: asn1.RawValue{Bytes: []byte{0xAB, 0xCD}}}))

	data, err := c.EncodeMessage(m)
	require.NoError(t, err)
	assert.True(t, bytes.HasSuffix(data, h("03 E7 40 02 AB CD")), "% X", data)

	m, err = c.DecodeMessage(data)
	require.NoError(t, err)
	v, ok := m.IEs.Find(999)
	require.True(t, ok)
	assert.Equal(t, asn1.RawValue{Bytes: []byte{0xAB, 0xCD}}, v)

	out, err := c.EncodeMessage(m)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestCodec_Limits(t *testing.T) {
	c := newCodec(t, e2ap.WithLimits(per.Limits{MaxSize: 16}))
	m, err := c.DecodeMessage(h(subscriptionRequest))
	require.NoError(t, err)
	_, err = c.EncodeMessage(m)
	assert.ErrorIs(t, err, per.ErrSizeLimit)

	c = newCodec(t, e2ap.WithLimits(per.Limits{MaxDepth: 3}))
	_, err = c.DecodeMessage(h(subscriptionRequest))
	assert.ErrorIs(t, err, per.ErrRecursionLimit)
}

func TestCodec_Logger(t *testing.T) {
	var logs []string
	log := funcr.New(func(prefix, args string) {
		logs = append(logs, args)
	}, funcr.Options{Verbosity: 1})
	c := newCodec(t, e2ap.WithLogger(log))

	_, err := c.DecodeMessage(h(subscriptionRequest))
	require.NoError(t, err)
	_, err = c.DecodeMessage(h("00"))
	require.Error(t, err)

	require.Len(t, logs, 2)
	assert.Contains(t, logs[0], `"msg"="Decoded message"`)
	assert.Contains(t, logs[0], `"message"="RICsubscriptionRequest"`)
	assert.Contains(t, logs[1], `"msg"="Failed to decode message"`)
}

// A codec can be used from multiple goroutines as long as every goroutine
// works on its own messages.
func TestCodec_Concurrent(t *testing.T) {
	c := newCodec(t)
	data := h(subscriptionRequest)
	g, _ := errgroup.WithContext(context.Background())
	for i := range 16 {
		g.Go(func() error {
			for j := range 50 {
				want := int64(i*100 + j)
				out, err := c.SetSequenceNumber(data, want)
				if err != nil {
					return err
				}
				got, err := c.SequenceNumber(out)
				if err != nil {
					return err
				}
				if got != want {
					return fmt.Errorf("SequenceNumber() = %d, want %d", got, want)
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func ExampleCodec_SetSequenceNumber() {
	s, err := e2ap.NewSchema(e2ap.DefaultCatalog())
	if err != nil {
		panic(err)
	}
	c := e2ap.NewCodec(s)
	out, err := c.SetSequenceNumber(h(subscriptionRequest), 42)
	if err != nil {
		panic(err)
	}
	n, _ := c.SequenceNumber(out)
	fmt.Println(n)

	_, err = c.SetScalarField(out, idCause, 1)
	fmt.Println(errors.Is(err, e2ap.ErrNotFound))
	// Output:
	// 42
	// true
}
