// Copyright © 2020 The Pea Authors under an MIT-style license.

package main

import (
	"fmt"

	"github.com/eaburns/bound/ast"
	"github.com/eaburns/bound/mod"
	"github.com/eaburns/bound/types"
	"github.com/eaburns/pretty"
	"github.com/spf13/cobra"
)

func newDumpCommand(o *options) *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "dump <unit or file.bnd>",
		Short: "Print the syntax tree of a program",
		Long: `The dump command parses a program and prints each top-level statement
of the entry unit with its location.
With --check, the program is also checked, and each statement
is followed by its type and cost.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var units []*mod.Unit
			var info *types.Info
			if check {
				prog, err := o.compile(cmd, args[0])
				if err != nil {
					return err
				}
				units, info = prog.Units, prog.Info
			} else {
				var err error
				if units, err = o.load(cmd, args[0]); err != nil {
					return err
				}
			}
			p := o.newPrinter(cmd.OutOrStdout())
			file := units[len(units)-1].File
			for _, s := range file.Stmts {
				p.loc.Fprintln(p.w, file.Loc(s))
				fmt.Fprintln(p.w, pretty.String(s))
				if info != nil {
					printStmtInfo(p, info, s)
				}
				fmt.Fprintln(p.w)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "check the program and print types and costs")
	return cmd
}

func printStmtInfo(p *printer, info *types.Info, s ast.Stmt) {
	var e ast.Expr
	switch s := s.(type) {
	case *ast.Val:
		e = s.Expr
	case *ast.Assign:
		e = s.Expr
	case ast.Expr:
		e = s
	default:
		return
	}
	if t, ok := info.Types[e]; ok {
		p.kind.Fprintf(p.w, "type: %s\n", t)
	}
	if c, ok := info.Costs[e]; ok {
		p.kind.Fprintf(p.w, "cost: %s\n", c)
	}
}
