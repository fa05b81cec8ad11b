// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package e2ap

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation labels of the codec metrics.
const (
	opDecode   = "decode"
	opEncode   = "encode"
	opGetField = "get_field"
	opSetField = "set_field"
)

// Metrics collects statistics about codec operations. A nil *Metrics discards
// all observations.
type Metrics struct {
	operations *prometheus.CounterVec
	size       *prometheus.HistogramVec
}

// NewMetrics creates the codec metrics and registers them with reg. If reg is
// nil the metrics are not registered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "e2ap",
				Subsystem: "codec",
				Name:      "operations_total",
				Help:      "Number of messages decoded or encoded by result.",
			},
			[]string{"operation", "result"},
		),
		size: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "e2ap",
				Subsystem: "codec",
				Name:      "message_bytes",
				Help:      "Size of successfully decoded or encoded messages in bytes.",
				Buckets:   prometheus.ExponentialBuckets(16, 4, 8),
			},
			[]string{"operation"},
		),
	}
	if reg != nil {
		if err := errors.Join(reg.Register(m.operations), reg.Register(m.size)); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// observe records the result of an operation on a message of n bytes.
func (m *Metrics) observe(op string, n int, err error) {
	if m == nil {
		return
	}
	result := "ok"
	switch {
	case errors.Is(err, ErrNotFound):
		result = "not_found"
	case err != nil:
		result = "error"
	}
	m.operations.WithLabelValues(op, result).Inc()
	if err == nil {
		m.size.WithLabelValues(op).Observe(float64(n))
	}
}
