// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package params

import "testing"

func TestParse(t *testing.T) {
	tests := map[string]struct {
		str     string
		want    FieldParameters
		wantErr bool
	}{
		"Empty":          {"", FieldParameters{}, false},
		"Optional":       {"optional", FieldParameters{Optional: true}, false},
		"Extension":      {"optional,ext", FieldParameters{Optional: true, Extension: true}, false},
		"Spaces":         {" ext , optional ", FieldParameters{Optional: true, Extension: true}, false},
		"DefaultInteger": {"default:5", FieldParameters{HasDefault: true, Default: "5"}, false},
		"DefaultName":    {"ext,default:continue", FieldParameters{Extension: true, HasDefault: true, Default: "continue"}, false},
		"EmptyDefault":   {"default:", FieldParameters{}, true},
		"Unknown":        {"explicit", FieldParameters{}, true},
		"OptionalAndDef": {"optional,default:1", FieldParameters{}, true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := Parse(tt.str)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.str, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.str, got, tt.want)
			}
		})
	}
}
