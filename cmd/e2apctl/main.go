// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command e2apctl inspects and rewrites encoded E2AP messages.
//
// Usage:
//
//	e2apctl [flags] decode FILE
//	e2apctl [flags] get FILE IE [COMPONENT...]
//	e2apctl [flags] set FILE IE VALUE [COMPONENT...]
//	e2apctl [flags] verify FILE...
//	e2apctl [flags] catalog
//
// FILE holds a single aligned PER encoded E2AP-PDU, either in binary or, with
// --hex, as hexadecimal text. A FILE of "-" reads from standard input. IE is
// an IE name from the catalog or a numeric identifier.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"codello.dev/e2ap"
)

// app holds the state shared by all commands.
type app struct {
	configPath string
	hex        bool
	verbosity  int

	cfg   e2ap.Config
	zap   *zap.Logger
	log   logr.Logger
	codec *e2ap.Codec
	stdin io.Reader
}

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdin: stdin}
	root := &cobra.Command{
		Use:          "e2apctl",
		Short:        "Inspect and rewrite encoded E2AP messages",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.zap != nil {
				_ = a.zap.Sync()
			}
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "TOML configuration file")
	root.PersistentFlags().BoolVar(&a.hex, "hex", false, "read and write hexadecimal text instead of binary")
	root.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", "increase log verbosity")

	root.AddCommand(
		a.decodeCmd(),
		a.getCmd(),
		a.setCmd(),
		a.verifyCmd(),
		a.catalogCmd(),
	)
	return root
}

// init loads the configuration and builds the logger and codec.
func (a *app) init() error {
	a.cfg = e2ap.DefaultConfig()
	if a.configPath != "" {
		cfg, err := e2ap.LoadConfig(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	var err error
	if a.zap, err = newZapLogger(a.cfg.Log, a.verbosity); err != nil {
		return err
	}
	a.log = newLogger(a.zap)

	schema, err := a.cfg.LoadSchema()
	if err != nil {
		return fmt.Errorf("loading schema: %w", err)
	}
	a.codec = e2ap.NewCodec(schema,
		e2ap.WithLimits(a.cfg.Limits.PER()),
		e2ap.WithLogger(a.log.WithName("codec")),
	)
	a.log.V(1).Info("Initialized codec", "catalog", schema.Catalog().Version, "limits", a.cfg.Limits)
	return nil
}
