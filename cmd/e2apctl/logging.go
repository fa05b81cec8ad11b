// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"codello.dev/e2ap"
)

// newZapLogger builds a zap logger for cfg. Each level of verbosity lowers the
// minimum level by one so that logr V-levels become visible.
func newZapLogger(cfg e2ap.LogConfig, verbosity int) (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	if cfg.Development {
		zapConfig = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	level -= zapcore.Level(verbosity)
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	zapConfig.DisableStacktrace = !cfg.Development
	zapConfig.InitialFields = map[string]any{"app": "e2apctl"}

	l, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build zap logger: %w", err)
	}
	return l, nil
}

func newLogger(l *zap.Logger) logr.Logger {
	return zapr.NewLogger(l)
}
