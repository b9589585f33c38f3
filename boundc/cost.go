// Copyright © 2020 The Pea Authors under an MIT-style license.

package main

import (
	"fmt"
	"sort"

	"github.com/eaburns/bound/types"
	"github.com/spf13/cobra"
)

func newCostCommand(o *options) *cobra.Command {
	var funs bool
	cmd := &cobra.Command{
		Use:   "cost <unit or file.bnd>",
		Short: "Print the cost bound of a program",
		Long: `The cost command checks a program and prints its cost expression,
the expression's magnitude under the architecture, and optionally
the cost of each function.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := o.compile(cmd, args[0])
			if err != nil {
				return err
			}
			p := o.newPrinter(cmd.OutOrStdout())
			fmt.Fprintf(p.w, "cost: %s\n", prog.Cost)
			fmt.Fprintf(p.w, "magnitude: %d\n", prog.Magnitude)
			fmt.Fprintf(p.w, "limit: %d\n", prog.Arch.CostUpperLimit)
			if funs {
				printFunCosts(p, prog.Info)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&funs, "funs", false, "print the cost of each function")
	return cmd
}

// printFunCosts prints the functions sorted by name.
// Ground functions print their magnitude;
// others print their cost in terms of their Fin parameters.
func printFunCosts(p *printer, info *types.Info) {
	seen := make(map[*types.Fun]bool)
	var fs []*types.Fun
	for _, sym := range info.Defs {
		if f, ok := sym.(*types.Fun); ok && !seen[f] {
			seen[f] = true
			fs = append(fs, f)
		}
	}
	sort.Slice(fs, func(i, j int) bool { return fs[i].String() < fs[j].String() })
	for _, f := range fs {
		p.em.Fprint(p.w, f.String())
		if n, ok := info.FunCosts[f]; ok {
			fmt.Fprintf(p.w, ": %d\n", n)
		} else {
			fmt.Fprintf(p.w, ": %s\n", f.Cost)
		}
	}
}
