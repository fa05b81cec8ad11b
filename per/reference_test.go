// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package per_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/free5gc/aper"
	"golang.org/x/sync/errgroup"

	"codello.dev/e2ap/asn1"
	"codello.dev/e2ap/per"
)

var requestID = asn1.SequenceType("RICrequestID", true,
	asn1.F("ricRequestorID", asn1.IntegerType("", asn1.Bounded(0, 65535)), ""),
	asn1.F("ricInstanceID", asn1.IntegerType("", asn1.Bounded(0, 65535)), ""),
)

// The encodings produced by this package must match an independent APER
// implementation bit for bit.
func TestMarshal_ReferenceEncoder(t *testing.T) {
	type ricRequestID struct {
		RICRequestorID int64 `aper:"valueLB:0,valueUB:65535"`
		RICInstanceID  int64 `aper:"valueLB:0,valueUB:65535"`
	}
	type actionItem struct {
		ActionID   int64            `aper:"valueLB:0,valueUB:255"`
		Definition aper.OctetString `aper:""`
	}
	action := asn1.SequenceType("Action", false,
		asn1.F("ricActionID", asn1.IntegerType("", asn1.Bounded(0, 255)), ""),
		asn1.F("ricActionDefinition", asn1.OctetStringType("", asn1.Unsized()), ""),
	)

	tests := map[string]struct {
		ref    any
		params string
		t      *asn1.Type
		v      asn1.Value
	}{
		"RICrequestID": {ricRequestID{123, 1}, "valueExt", requestID,
			&asn1.Sequence{Fields: []asn1.Value{asn1.Integer(123), asn1.Integer(1)}}},
		"RICrequestIDMax": {ricRequestID{65535, 65535}, "valueExt", requestID,
			&asn1.Sequence{Fields: []asn1.Value{asn1.Integer(65535), asn1.Integer(65535)}}},
		"Action": {actionItem{7, aper.OctetString{0xde, 0xad, 0xbe, 0xef}}, "", action,
			&asn1.Sequence{Fields: []asn1.Value{asn1.Integer(7), asn1.OctetString{0xde, 0xad, 0xbe, 0xef}}}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			want, err := aper.MarshalWithParams(tt.ref, tt.params)
			if err != nil {
				t.Fatalf("aper.MarshalWithParams() error = %v", err)
			}
			got, err := per.Marshal(tt.t, tt.v)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if !bytes.Equal(got, want) {
				t.Errorf("Marshal() = % X, reference encoder = % X", got, want)
			}
		})
	}
}

// Type descriptors are shared read-only, so independent calls may run in
// parallel.
func TestMarshal_Concurrent(t *testing.T) {
	g, _ := errgroup.WithContext(context.Background())
	for i := range 32 {
		g.Go(func() error {
			v := &asn1.Sequence{Fields: []asn1.Value{asn1.Integer(i), asn1.Integer(1000 + i)}}
			for range 100 {
				data, err := per.Marshal(requestID, v)
				if err != nil {
					return err
				}
				got, err := per.Unmarshal(requestID, data)
				if err != nil {
					return err
				}
				if got.(*asn1.Sequence).Fields[1] != asn1.Integer(1000+i) {
					return fmt.Errorf("worker %d: decoded %v", i, got)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}

func ExampleMarshal() {
	v := &asn1.Sequence{Fields: []asn1.Value{asn1.Integer(123), asn1.Integer(1)}}
	data, err := per.Marshal(requestID, v)
	if err != nil {
		panic(err)
	}
	fmt.Printf("% X\n", data)
	// Output: 00 00 7B 00 01
}
