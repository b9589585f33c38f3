// Copyright © 2020 The Pea Authors under an MIT-style license.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCommand(o *options) *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "check <unit or file.bnd>...",
		Short: "Check programs and their cost bounds",
		Long: `The check command type checks each program and its imports
and admits it if its cost bound is within the architecture's ceiling.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var failed bool
			for _, arg := range args {
				prog, err := o.compile(cmd, arg)
				switch {
				case err == errFailed:
					failed = true
					continue
				case err != nil:
					return err
				}
				if quiet {
					continue
				}
				p := o.newPrinter(cmd.OutOrStdout())
				p.ok.Fprint(p.w, "ok")
				p.em.Fprintf(p.w, " %s", arg)
				fmt.Fprintf(p.w, " cost %d of %d (%s)\n", prog.Magnitude, prog.Arch.CostUpperLimit, prog.ID)
			}
			if failed {
				return errFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only diagnostics")
	return cmd
}
