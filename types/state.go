// Copyright © 2020 The Pea Authors under an MIT-style license.

package types

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/eaburns/bound/arch"
	"github.com/eaburns/bound/ast"
	"github.com/eaburns/bound/loc"
)

type state struct {
	cfg    Config
	arch   arch.Architecture
	scopes *Scopes
	info   *Info

	prelude ScopeID
	builtin struct {
		Int, Bool, Char, String, Unit *BasicType

		List, Set, Dictionary                      *Builtin
		MutableList, MutableSet, MutableDictionary *Builtin
		Pair                                       *Builtin
	}

	// file is the file currently being checked.
	file *ast.File
	// fileScopes maps each file to its scope.
	fileScopes map[*ast.File]ScopeID
	// defFiles maps each user definition to its file.
	defFiles map[Symbol]*ast.File
	// defs are the user function, record, and enum definitions
	// in definition order.
	defs []Symbol

	trace  io.Writer
	indent string
}

func newState(cfg Config) *state {
	x := &state{
		cfg:        cfg,
		arch:       cfg.Arch,
		scopes:     NewScopes(),
		info:       newInfo(),
		fileScopes: make(map[*ast.File]ScopeID),
		defFiles:   make(map[Symbol]*ast.File),
		trace:      cfg.TraceOut,
	}
	if x.arch == (arch.Architecture{}) {
		x.arch = arch.Default
	}
	if x.trace == nil {
		x.trace = os.Stdout
	}
	return x
}

func (x *state) loc(n ast.Node) loc.Loc {
	if x.file == nil || n == nil || reflect.ValueOf(n).IsNil() {
		return loc.Loc{}
	}
	return x.file.Loc(n)
}

// inFile sets the current file to that of a definition
// and returns a function restoring the previous file.
func (x *state) inFile(def Symbol) func() {
	prev := x.file
	if f, ok := x.defFiles[def]; ok {
		x.file = f
	}
	return func() { x.file = prev }
}

// The argument to the returned function,
// if non-empty, only the first element of vs is used.
// It must be a either pointer to a slice of types convertable to error,
// or a pointer to a type convertable to error.
func (x *state) tr(f string, vs ...interface{}) func(...interface{}) {
	if !x.cfg.Trace {
		return func(...interface{}) {}
	}
	x.log(f, vs...)
	olddent := x.indent
	x.indent += "---"
	return func(errs ...interface{}) {
		defer func() { x.indent = olddent }()
		if len(errs) == 0 {
			return
		}
		v := reflect.ValueOf(errs[0])
		if v.IsNil() || v.Elem().Kind() == reflect.Slice && v.Elem().Len() == 0 {
			return
		}
		x.log("%v", v.Elem().Interface())
	}
}

func (x *state) log(f string, vs ...interface{}) {
	if !x.cfg.Trace {
		return
	}
	msg := fmt.Sprintf(f, vs...)
	msg = strings.Replace(msg, "\n", "\n"+x.indent, -1)
	fmt.Fprintf(x.trace, "%s%s\n", x.indent, msg)
}
