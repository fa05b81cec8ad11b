// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func (a *app) decodeCmd() *cobra.Command {
	var brief bool
	cmd := &cobra.Command{
		Use:   "decode FILE",
		Short: "Print a message in ASN.1 value notation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.readMessage(args[0])
			if err != nil {
				return err
			}
			m, err := a.codec.DecodeMessage(data)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s, procedure %d, %s)\n", m.Name, m.Outcome, m.ProcedureCode, m.Criticality)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			cat := a.codec.Schema().Catalog()
			for _, e := range m.IEs.All() {
				name, ok := cat.IEName(e.ID)
				if !ok {
					name = "?"
				}
				fmt.Fprintf(tw, "  %d\t%s\t%s\n", e.ID, name, e.Criticality)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if !brief {
				fmt.Fprintln(out, m.String())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&brief, "brief", false, "only list the IEs")
	return cmd
}

func (a *app) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get FILE IE [COMPONENT...]",
		Short: "Print an INTEGER or ENUMERATED value of a message",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.readMessage(args[0])
			if err != nil {
				return err
			}
			id, err := a.ieID(args[1])
			if err != nil {
				return err
			}
			x, err := a.codec.GetScalarField(data, id, args[2:]...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), x)
			return nil
		},
	}
}

func (a *app) setCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "set FILE IE VALUE [COMPONENT...]",
		Short: "Replace an INTEGER or ENUMERATED value and write the new encoding",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.readMessage(args[0])
			if err != nil {
				return err
			}
			id, err := a.ieID(args[1])
			if err != nil {
				return err
			}
			x, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[2], err)
			}
			out, err := a.codec.SetScalarField(data, id, x, args[3:]...)
			if err != nil {
				return err
			}
			return a.writeOutput(cmd.OutOrStdout(), output, out)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the encoding to a file instead of standard output")
	return cmd
}

// verifyResult is the outcome of verifying a single file.
type verifyResult struct {
	name    string
	message string
	err     error
}

func (a *app) verifyCmd() *cobra.Command {
	var jobs int
	cmd := &cobra.Command{
		Use:   "verify FILE...",
		Short: "Check that messages decode and encode to identical octets",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]verifyResult, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(jobs)
			var mu sync.Mutex
			failed := 0
			for i, name := range args {
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					results[i] = a.verify(name)
					if results[i].err != nil {
						mu.Lock()
						failed++
						mu.Unlock()
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, r := range results {
				if r.err != nil {
					fmt.Fprintf(out, "FAIL %s: %v\n", r.name, r.err)
				} else {
					fmt.Fprintf(out, "ok   %s (%s)\n", r.name, r.message)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d messages failed verification", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.GOMAXPROCS(0), "number of files verified in parallel")
	return cmd
}

// errMismatch indicates that a re-encoded message differs from its input.
var errMismatch = errors.New("encoding differs from input")

func (a *app) verify(name string) verifyResult {
	r := verifyResult{name: name}
	data, err := a.readMessage(name)
	if err != nil {
		r.err = err
		return r
	}
	m, err := a.codec.DecodeMessage(data)
	if err != nil {
		r.err = err
		return r
	}
	r.message = m.Name
	out, err := a.codec.EncodeMessage(m)
	if err != nil {
		r.err = err
		return r
	}
	if !bytes.Equal(out, data) {
		r.err = fmt.Errorf("%w: % X", errMismatch, out)
	}
	return r
}

func (a *app) catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the messages of the schema and their IEs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.codec.Schema()
			cat := s.Catalog()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "E2AP %s\n", cat.Version)
			for _, name := range s.Messages() {
				fmt.Fprintf(tw, "%s\n", name)
				info, _ := cat.Message(name)
				for _, e := range info.IEs {
					id, _ := cat.IEID(e.IE)
					fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\n", id, e.IE, e.Criticality, e.Presence)
				}
			}
			return tw.Flush()
		},
	}
}
