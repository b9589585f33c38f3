// Copyright © 2020 The Pea Authors under an MIT-style license.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/eaburns/bound/arch"
	"github.com/eaburns/bound/ast"
	"github.com/eaburns/bound/mod"
	"github.com/eaburns/bound/types"
	"github.com/eaburns/peggy/peg"
	"github.com/spf13/cobra"
)

type options struct {
	root     string
	archFile string
	envFiles []string
	trace    bool
	color    string
	failTree bool

	nodeCost        int64
	distributedCost int64
	limit           int64
}

// errFailed is returned by a command that already printed its diagnostics.
var errFailed = errors.New("failed")

func newRootCommand() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:   "boundc",
		Short: "boundc checks Bound programs and bounds their cost",
		Long: `boundc type checks Bound programs and proves a static upper bound
on the cost of running them against an architecture.
A program whose bound exceeds the architecture's ceiling is rejected.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	fs := root.PersistentFlags()
	fs.StringVarP(&o.root, "root", "r", ".", "root directory of imported units")
	fs.StringVarP(&o.archFile, "arch", "a", "", "YAML architecture file")
	fs.StringSliceVar(&o.envFiles, "env", nil, ".env files to load (default .env if present)")
	fs.BoolVar(&o.trace, "trace", false, "trace the checker passes to stderr")
	fs.StringVar(&o.color, "color", "auto", "color diagnostics: auto, always, or never")
	fs.BoolVar(&o.failTree, "fail-tree", false, "print the parser's failure tree on syntax errors")
	fs.Int64Var(&o.nodeCost, "node-cost", 0, "override the default node cost")
	fs.Int64Var(&o.distributedCost, "distributed-cost", 0, "override the distributed plugin cost")
	fs.Int64Var(&o.limit, "limit", 0, "override the cost upper limit")

	root.AddCommand(newCheckCommand(o), newCostCommand(o), newDumpCommand(o), newListCommand(o))
	return root
}

// architecture returns the configured architecture.
func (o *options) architecture(cmd *cobra.Command) (arch.Architecture, error) {
	if err := arch.LoadEnv(o.envFiles...); err != nil {
		return arch.Architecture{}, err
	}
	a := arch.Default
	if o.archFile != "" {
		var err error
		if a, err = arch.Load(o.archFile); err != nil {
			return arch.Architecture{}, err
		}
	}
	a, err := arch.FromEnv(a, os.LookupEnv)
	if err != nil {
		return arch.Architecture{}, err
	}
	fs := cmd.Flags()
	if fs.Changed("node-cost") {
		a.DefaultNodeCost = o.nodeCost
	}
	if fs.Changed("distributed-cost") {
		a.DistributedPluginCost = o.distributedCost
	}
	if fs.Changed("limit") {
		a.CostUpperLimit = o.limit
	}
	if err := a.Validate(); err != nil {
		return arch.Architecture{}, err
	}
	return a, nil
}

// load loads a unit given either as a dotted import path
// or as a path to a source file.
func (o *options) load(cmd *cobra.Command, arg string) ([]*mod.Unit, error) {
	src := mod.Dir{Root: o.root}
	var units []*mod.Unit
	var err error
	if strings.HasSuffix(arg, mod.Ext) {
		units, err = mod.LoadFile(src, arg)
	} else {
		units, err = mod.Load(src, mod.ParsePath(arg))
	}
	if err != nil {
		if tree := ast.FailTree(err); tree != nil && o.failTree {
			peg.PrettyWrite(cmd.ErrOrStderr(), tree)
			fmt.Fprintln(cmd.ErrOrStderr())
		}
		return nil, err
	}
	return units, nil
}

// compile loads and checks a unit.
// Diagnostics are printed to the command's output,
// and errFailed is returned if there were any.
func (o *options) compile(cmd *cobra.Command, arg string) (*types.Program, error) {
	a, err := o.architecture(cmd)
	if err != nil {
		return nil, err
	}
	units, err := o.load(cmd, arg)
	if err != nil {
		return nil, err
	}
	cfg := types.Config{Arch: a, Trace: o.trace, TraceOut: cmd.ErrOrStderr()}
	prog, errs := types.Check(units, cfg)
	if len(errs) > 0 {
		printDiagnostics(o.newPrinter(cmd.OutOrStdout()), errs)
		return nil, errFailed
	}
	return prog, nil
}

func (o *options) newPrinter(w io.Writer) *printer {
	var useColor bool
	switch o.color {
	case "always":
		useColor = true
	case "never":
		useColor = false
	default:
		useColor = isTerminal(w)
	}
	return newPrinter(w, useColor)
}
