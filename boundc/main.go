// Copyright © 2020 The Pea Authors under an MIT-style license.

// Boundc checks Bound programs and reports their static cost.
//
// Usage:
//
//	boundc check [flags] <unit or file.bnd>...
//	boundc cost [flags] <unit or file.bnd>
//	boundc dump [flags] <unit or file.bnd>
//	boundc list [flags]
//
// Units are dotted import paths resolved under --root.
// The architecture is read from --arch, then overridden by
// BOUND_* environment variables (optionally from --env files),
// then by the --node-cost, --distributed-cost, and --limit flags.
package main

import (
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if err != errFailed {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
		}
		os.Exit(1)
	}
}
