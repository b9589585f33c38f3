// Copyright © 2020 The Pea Authors under an MIT-style license.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/eaburns/bound/types"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

type printer struct {
	w                      io.Writer
	loc, err, kind, ok, em *color.Color
}

func newPrinter(w io.Writer, useColor bool) *printer {
	p := &printer{
		w:    w,
		loc:  color.New(color.Bold),
		err:  color.New(color.FgRed, color.Bold),
		kind: color.New(color.Faint),
		ok:   color.New(color.FgGreen, color.Bold),
		em:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.loc, p.err, p.kind, p.ok, p.em} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// printDiagnostics prints errors one per paragraph:
// the location, the message, the kind, and indented notes.
func printDiagnostics(p *printer, errs []error) {
	for _, err := range errs {
		e, ok := err.(*types.Error)
		if !ok {
			p.err.Fprint(p.w, "error: ")
			fmt.Fprintln(p.w, err)
			continue
		}
		if !e.Loc.IsZero() {
			p.loc.Fprintf(p.w, "%s: ", e.Loc)
		}
		p.err.Fprint(p.w, "error: ")
		fmt.Fprint(p.w, e.Msg)
		p.kind.Fprintf(p.w, " [%s]\n", e.Kind)
		for _, n := range e.Notes {
			fmt.Fprintf(p.w, "\t%s\n", n)
		}
	}
	if len(errs) == 1 {
		fmt.Fprintln(p.w, "1 error")
	} else {
		fmt.Fprintf(p.w, "%d errors\n", len(errs))
	}
}
