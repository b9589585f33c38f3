// Copyright © 2020 The Pea Authors under an MIT-style license.

// Package types checks Bound programs and proves their cost bounds.
//
// Checking runs a fixed pipeline of passes over all units of a program:
// bind, parameter scan, signature scan, type propagation, feature bans,
// dependency ordering, multiplier propagation, cost evaluation,
// and linearization.
// A program is admitted only if every pass succeeds
// and its evaluated cost does not exceed the architecture's ceiling.
package types

import (
	"fmt"
	"io"

	"github.com/eaburns/bound/arch"
	"github.com/eaburns/bound/ast"
	"github.com/eaburns/bound/mod"
	"github.com/google/uuid"
)

// Config are configuration parameters for the checker.
type Config struct {
	// Arch gives the constants of the cost model.
	// The zero Architecture means arch.Default.
	Arch arch.Architecture
	// Plugins are additional plugins made available in the prelude.
	Plugins []PluginDef
	// Trace is whether to enable debug tracing.
	Trace bool
	// TraceOut is where trace output is written (default os.Stdout).
	TraceOut io.Writer
}

// Info holds the results of checking, keyed by AST node.
type Info struct {
	// Types maps expressions to their types.
	Types map[ast.Expr]Type
	// Uses maps identifiers, selections, and type names to the symbols they refer to.
	Uses map[ast.Node]Symbol
	// Defs maps definitions, parameters, fields, vals, loops, and cases
	// to the symbols they define.
	Defs map[ast.Node]Symbol
	// Calls maps applications and operators to their resolved callees.
	Calls map[ast.Expr]*Call
	// Scopes maps files, definitions, blocks, lambdas, loops, and cases to their scopes.
	Scopes map[ast.Node]ScopeID
	// Costs maps expressions, function bodies, and files to their costs.
	Costs map[ast.Node]CostExpr
	// Linear maps expressions to the symbols reachable from their types.
	Linear map[ast.Expr][]Symbol
	// FunCosts are the evaluated costs of ground functions.
	FunCosts map[*Fun]int64
}

func newInfo() *Info {
	return &Info{
		Types:    make(map[ast.Expr]Type),
		Uses:     make(map[ast.Node]Symbol),
		Defs:     make(map[ast.Node]Symbol),
		Calls:    make(map[ast.Expr]*Call),
		Scopes:   make(map[ast.Node]ScopeID),
		Costs:    make(map[ast.Node]CostExpr),
		Linear:   make(map[ast.Expr][]Symbol),
		FunCosts: make(map[*Fun]int64),
	}
}

// CallKind is the kind of callee of a Call.
type CallKind int

const (
	// FunCall calls a user function.
	FunCall CallKind = iota
	// ParmCall invokes a function-typed formal parameter.
	ParmCall
	// RecordCall constructs a record.
	RecordCall
	// BuiltinCall constructs a built-in collection.
	BuiltinCall
	// PluginCall calls a plugin, including operators.
	PluginCall
)

// A Call is a resolved application.
type Call struct {
	Kind CallKind
	// Callee is the *Fun, *FormalParm, *Record, *Builtin, or *Plugin.
	Callee Symbol
	// Sub is the instantiation of the callee's type parameters, or nil.
	Sub *Sub
	// Recv is the receiver of a member plugin call, or nil.
	Recv ast.Expr
	// Args are the arguments, not including the receiver.
	Args []ast.Expr
}

// A Program is a checked program admitted for execution.
type Program struct {
	// ID identifies this compilation.
	ID    uuid.UUID
	Units []*mod.Unit
	Info  *Info
	// Scopes is the scope arena referenced by Info.Scopes.
	Scopes *Scopes
	// Cost is the cost expression of the entry unit.
	Cost CostExpr
	// Magnitude is the evaluated Cost.
	Magnitude int64
	// Arch is the architecture the cost was evaluated against.
	Arch arch.Architecture
}

// Compile loads the entry unit and its imports from src and checks them.
func Compile(entry []string, src mod.Source, cfg Config) (*Program, []error) {
	units, err := mod.Load(src, entry)
	if err != nil {
		return nil, []error{err}
	}
	return Check(units, cfg)
}

// Check checks units given in dependency order, with the entry unit last,
// and returns the admitted program or the errors.
func Check(units []*mod.Unit, cfg Config) (*Program, []error) {
	if len(units) == 0 {
		return nil, []error{fmt.Errorf("no units")}
	}
	x := newState(cfg)
	if err := x.arch.Validate(); err != nil {
		return nil, []error{archError(err)}
	}
	prog, errs := check(x, units)
	if len(errs) > 0 {
		if errs := convertErrors(errs); len(errs) > 0 {
			return nil, errs
		}
	}
	return prog, nil
}

func check(x *state, units []*mod.Unit) (_ *Program, errs []*Error) {
	defer x.tr("check(%d units)", len(units))(&errs)

	if errs = newPrelude(x); len(errs) > 0 {
		return nil, errs
	}
	errs = append(errs, bindFiles(x, units)...)
	errs = append(errs, scanTypeParms(x)...)
	errs = append(errs, scanSignatures(x)...)
	errs = append(errs, propagateFiles(x, units)...)
	errs = append(errs, checkBans(x, units)...)
	order, es := sortDefs(x)
	errs = append(errs, es...)
	if len(convertErrors(errs)) > 0 {
		return nil, errs
	}

	propagateMultipliers(x, order)
	entry := units[len(units)-1].File
	cost := costFiles(x, order, units)
	linearizeFiles(x)

	x.file = entry
	mag, err := x.evaluateProgram(entry, cost)
	if err != nil {
		return nil, append(errs, err)
	}
	return &Program{
		ID:        uuid.New(),
		Units:     units,
		Info:      x.info,
		Scopes:    x.scopes,
		Cost:      cost,
		Magnitude: mag,
		Arch:      x.arch,
	}, errs
}

// evaluateProgram evaluates the program cost and checks it against the ceiling.
func (x *state) evaluateProgram(entry *ast.File, cost CostExpr) (int64, *Error) {
	if err := ValidateCost(cost); err != nil {
		return 0, x.locate(err, entry)
	}
	mag, err := Evaluate(cost, x.arch)
	if err != nil {
		return 0, x.locate(err, entry)
	}
	x.log("program cost %s = %d", cost, mag)
	if mag > x.arch.CostUpperLimit {
		err := x.err(entry, CostOverLimit, "program cost exceeds the limit of %d", x.arch.CostUpperLimit)
		note(err, "cost is at least %d", mag)
		return 0, err
	}
	return mag, nil
}
