// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package e2ap_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codello.dev/e2ap"
	"codello.dev/e2ap/per"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "e2ap.toml", `
[limits]
max_depth = 32
max_size = 1024

[log]
level = "debug"
development = true
`)
	cfg, err := e2ap.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, e2ap.LimitsConfig{MaxDepth: 32, MaxSize: 1024, MaxLength: per.DefaultMaxLength}, cfg.Limits)
	assert.Equal(t, e2ap.LogConfig{Level: "debug", Development: true}, cfg.Log)
	assert.Empty(t, cfg.Catalog)
	assert.Equal(t, per.Limits{MaxDepth: 32, MaxSize: 1024, MaxLength: per.DefaultMaxLength}, cfg.Limits.PER())

	s, err := cfg.LoadSchema()
	require.NoError(t, err)
	assert.NotNil(t, s.MessageType("RICindication"))
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := map[string]string{
		"Syntax":       `[limits`,
		"UnknownKey":   "[limits]\nmax_nesting = 3\n",
		"Negative":     "[limits]\nmax_size = -1\n",
		"BadLevel":     "[log]\nlevel = \"verbose\"\n",
		"WrongType":    "[limits]\nmax_depth = \"deep\"\n",
		"CatalogValue": "catalog = 3\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := e2ap.LoadConfig(writeFile(t, "e2ap.toml", content))
			assert.Error(t, err)
		})
	}

	_, err := e2ap.LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefaultConfig(t *testing.T) {
	cfg := e2ap.DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, e2ap.DefaultMaxSize, cfg.Limits.MaxSize)
	assert.Equal(t, per.DefaultMaxDepth, cfg.Limits.MaxDepth)
	assert.Equal(t, e2ap.DefaultLogLevel, cfg.Log.Level)
}

func TestConfig_LoadSchema(t *testing.T) {
	cfg := e2ap.DefaultConfig()
	cfg.Catalog = writeFile(t, "catalog.yaml", `
version: test
procedures:
  - {name: RICsubscriptionDelete, code: 9, criticality: reject, initiating: RICsubscriptionDeleteRequest}
ies:
  - {name: RICrequestID, id: 29}
  - {name: RANfunctionID, id: 5}
  - {name: RICaction-ToBeSetup-Item, id: 19}
  - {name: RICaction-Admitted-Item, id: 14}
  - {name: RICaction-NotAdmitted-Item, id: 16}
messages:
  - name: RICsubscriptionDeleteRequest
    ies:
      - {ie: RICrequestID, criticality: reject, presence: mandatory}
      - {ie: RANfunctionID, criticality: reject, presence: mandatory}
`)
	s, err := cfg.LoadSchema()
	require.NoError(t, err)
	assert.Equal(t, []string{"RICsubscriptionDeleteRequest"}, s.Messages())
	assert.Equal(t, "test", s.Catalog().Version)

	cfg.Catalog = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = cfg.LoadSchema()
	assert.Error(t, err)
}
