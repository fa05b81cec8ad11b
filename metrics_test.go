// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package e2ap

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codello.dev/e2ap/asn1"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)
	s, err := NewSchema(DefaultCatalog())
	require.NoError(t, err)
	c := NewCodec(s, WithMetrics(m))

	msg, err := c.NewMessage("RICsubscriptionDeleteRequest")
	require.NoError(t, err)
	require.NoError(t, msg.Set("RICrequestID", NewRequestID(1, 2)))
	require.NoError(t, msg.Set("RANfunctionID", asn1.Integer(3)))
	data, err := c.EncodeMessage(msg)
	require.NoError(t, err)

	_, err = c.DecodeMessage(data)
	require.NoError(t, err)
	_, err = c.DecodeMessage(data[:3])
	require.Error(t, err)
	_, err = c.GetScalarField(data, 1)
	require.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues(opEncode, "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues(opDecode, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues(opDecode, "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues(opGetField, "not_found")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.size))

	err = testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP e2ap_codec_operations_total Number of messages decoded or encoded by result.
# TYPE e2ap_codec_operations_total counter
e2ap_codec_operations_total{operation="decode",result="error"} 1
e2ap_codec_operations_total{operation="decode",result="ok"} 2
e2ap_codec_operations_total{operation="encode",result="ok"} 1
e2ap_codec_operations_total{operation="get_field",result="not_found"} 1
`), "e2ap_codec_operations_total")
	assert.NoError(t, err)

	_, err = NewMetrics(reg)
	assert.Error(t, err, "duplicate registration")
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.observe(opDecode, 10, nil) })

	m, err := NewMetrics(nil)
	require.NoError(t, err)
	m.observe(opEncode, 10, nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues(opEncode, "ok")))
}
