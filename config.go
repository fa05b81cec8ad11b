// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package e2ap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"codello.dev/e2ap/per"
)

// Config configures a [Codec] and the tools built on it.
type Config struct {
	// Catalog is the path of a catalog file. If empty, [DefaultCatalog] is
	// used.
	Catalog string `toml:"catalog"`

	Limits LimitsConfig `toml:"limits"`
	Log    LogConfig    `toml:"log"`
}

// LimitsConfig bounds the resources used by a codec. See [per.Limits].
type LimitsConfig struct {
	MaxDepth  int `toml:"max_depth"`
	MaxSize   int `toml:"max_size"`
	MaxLength int `toml:"max_length"`
}

// LogConfig configures logging of command line tools.
type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// Default configuration values.
const (
	DefaultMaxSize  = 65536
	DefaultLogLevel = "info"
)

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	var cfg Config
	cfg.applyDefaults()
	return cfg
}

// LoadConfig reads a TOML configuration file. Missing values are set to their
// defaults and the result is validated.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("e2ap: config load failed (%s): %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("e2ap: config load failed (%s): unknown keys %s", path, strings.Join(keys, ", "))
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("e2ap: invalid config (%s): %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Limits.MaxDepth == 0 {
		c.Limits.MaxDepth = per.DefaultMaxDepth
	}
	if c.Limits.MaxLength == 0 {
		c.Limits.MaxLength = per.DefaultMaxLength
	}
	if c.Limits.MaxSize == 0 {
		c.Limits.MaxSize = DefaultMaxSize
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

// Validate reports whether c is usable.
func (c Config) Validate() error {
	var errs []error
	if c.Limits.MaxDepth < 0 {
		errs = append(errs, errors.New("limits.max_depth must not be negative"))
	}
	if c.Limits.MaxSize < 0 {
		errs = append(errs, errors.New("limits.max_size must not be negative"))
	}
	if c.Limits.MaxLength < 0 {
		errs = append(errs, errors.New("limits.max_length must not be negative"))
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	return errors.Join(errs...)
}

// PER returns the codec limits of c.
func (c LimitsConfig) PER() per.Limits {
	return per.Limits{MaxDepth: c.MaxDepth, MaxSize: c.MaxSize, MaxLength: c.MaxLength}
}

// LoadSchema returns the schema for the catalog named by c.
func (c Config) LoadSchema() (*Schema, error) {
	cat := DefaultCatalog()
	if c.Catalog != "" {
		var err error
		if cat, err = LoadCatalog(c.Catalog); err != nil {
			return nil, err
		}
	}
	return NewSchema(cat)
}
