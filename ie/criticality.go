// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ie

import "fmt"

//go:generate stringer -type=Criticality -linecomment

// Criticality tells a receiver how to react to an information element it does
// not comprehend. Deciding on the reaction is up to the caller.
type Criticality uint8

const (
	Reject Criticality = iota // reject
	Ignore                    // ignore
	Notify                    // notify
)

// CriticalityValues lists the enumeration values of the Criticality type in
// wire order.
var CriticalityValues = []string{"reject", "ignore", "notify"}

// IsValid reports whether c is one of the defined criticalities.
func (c Criticality) IsValid() bool {
	return c <= Notify
}

// ParseCriticality parses the ASN.1 name of a criticality.
func ParseCriticality(s string) (Criticality, error) {
	for i, name := range CriticalityValues {
		if s == name {
			return Criticality(i), nil
		}
	}
	return 0, fmt.Errorf("ie: invalid criticality %q", s)
}

// MarshalText implements [encoding.TextMarshaler].
func (c Criticality) MarshalText() ([]byte, error) {
	if !c.IsValid() {
		return nil, fmt.Errorf("ie: invalid criticality %d", uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (c *Criticality) UnmarshalText(text []byte) error {
	v, err := ParseCriticality(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
