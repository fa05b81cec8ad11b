// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// readMessage reads an encoded message from the named file or, for "-", from
// standard input.
func (a *app) readMessage(name string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(a.stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, err
	}
	if !a.hex {
		return data, nil
	}
	text := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, string(data))
	data, err = hex.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid hex input: %w", name, err)
	}
	return data, nil
}

// writeMessage writes an encoded message to w.
func (a *app) writeMessage(w io.Writer, data []byte) error {
	if !a.hex {
		_, err := w.Write(data)
		return err
	}
	_, err := fmt.Fprintln(w, strings.ToUpper(hex.EncodeToString(data)))
	return err
}

// writeOutput writes an encoded message to the named file or, if name is
// empty, to w.
func (a *app) writeOutput(w io.Writer, name string, data []byte) error {
	if name == "" {
		return a.writeMessage(w, data)
	}
	var buf bytes.Buffer
	if err := a.writeMessage(&buf, data); err != nil {
		return err
	}
	return os.WriteFile(name, buf.Bytes(), 0o644)
}

// ieID resolves an IE name or a numeric identifier.
func (a *app) ieID(s string) (int64, error) {
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, nil
	}
	if id, ok := a.codec.Schema().Catalog().IEID(s); ok {
		return id, nil
	}
	return 0, fmt.Errorf("unknown IE %q", s)
}
