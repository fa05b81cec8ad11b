// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package params parses the component parameter strings used when declaring
// SEQUENCE and CHOICE components.
package params

import (
	"fmt"
	"strings"
)

// FieldParameters is the parsed representation of a component parameter
// string.
type FieldParameters struct {
	Optional   bool   // true iff the component is OPTIONAL
	Extension  bool   // true iff the component is an extension addition
	HasDefault bool   // true iff a DEFAULT value is given
	Default    string // the DEFAULT value in ASN.1 value notation
}

// Parse parses a comma separated parameter string. Empty parts are ignored.
// Unlike struct tags, parameter strings are written by hand next to the type
// they describe, so unknown parts are reported as an error.
func Parse(str string) (ret FieldParameters, err error) {
	for part := range strings.SplitSeq(str, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "":
		case part == "optional":
			ret.Optional = true
		case part == "ext":
			ret.Extension = true
		case strings.HasPrefix(part, "default:"):
			ret.Default = part[len("default:"):]
			if ret.Default == "" {
				return ret, fmt.Errorf("params: empty default in %q", str)
			}
			ret.HasDefault = true
		default:
			return ret, fmt.Errorf("params: unknown parameter %q in %q", part, str)
		}
	}
	if ret.Optional && ret.HasDefault {
		return ret, fmt.Errorf("params: %q is both optional and default", str)
	}
	return ret, nil
}
