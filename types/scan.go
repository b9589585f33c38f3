// Copyright © 2020 The Pea Authors under an MIT-style license.

package types

import (
	"strconv"

	"github.com/eaburns/bound/ast"
)

// scanSignatures resolves the types of function parameters,
// function results, and record fields.
// Type parameters must already be scanned.
func scanSignatures(x *state) (errs []*Error) {
	defer x.tr("scanSignatures()")(&errs)
	for _, def := range x.defs {
		switch def := def.(type) {
		case *Fun:
			errs = append(errs, scanFun(x, def)...)
		case *Record:
			errs = append(errs, scanRecord(x, def)...)
		}
	}
	return errs
}

func scanFun(x *state, f *Fun) (errs []*Error) {
	defer x.inFile(f)()
	defer x.tr("scanFun(%s)", f.Name)(&errs)

	f.Parms = make([]*FormalParm, 0, len(f.AST.Parms))
	for i, p := range f.AST.Parms {
		t, es := resolveValueType(x, f.Scope, p.Type, 0, "parameter")
		errs = append(errs, es...)
		fp := &FormalParm{AST: p, Name: p.Name, Type: t, Index: i, Fun: f}
		if err := x.scopes.Define(f.Scope, p.Name, fp); err != nil {
			errs = append(errs, x.locate(err, p))
		}
		x.info.Defs[p] = fp
		f.Parms = append(f.Parms, fp)
	}
	ret, es := resolveValueType(x, f.Scope, f.AST.Ret, ReturnTypeSupport, "return")
	errs = append(errs, es...)
	f.Ret = ret
	return errs
}

func scanRecord(x *state, r *Record) (errs []*Error) {
	defer x.inFile(r)()
	defer x.tr("scanRecord(%s)", r.Name)(&errs)

	r.Fields = make([]*Field, 0, len(r.AST.Fields))
	for _, f := range r.AST.Fields {
		t, es := resolveValueType(x, r.Scope, f.Type, FieldTypeSupport, "field")
		errs = append(errs, es...)
		field := &Field{AST: f, Name: f.Name, Type: t, Mutable: f.Mutable, Record: r}
		if err := x.scopes.Define(r.Scope, f.Name, field); err != nil {
			errs = append(errs, x.locate(err, f))
			continue
		}
		x.info.Defs[f] = field
		r.Fields = append(r.Fields, field)
	}
	return errs
}

// resolveValueType resolves a type that must be the type of a value,
// usable in the positions given by support.
// Function types are exempt from the support check;
// where they may appear is enforced by the feature bans.
func resolveValueType(x *state, sc ScopeID, n ast.TypeNode, support Support, what string) (Type, []*Error) {
	t, errs := resolveType(x, sc, n)
	if len(errs) > 0 || IsError(t) {
		return errSym, errs
	}
	if !isValueType(t) {
		err := x.err(n, InvalidType, "%s %s is not a value type", t.kind(), t)
		err.Symbols = []Symbol{t}
		return errSym, append(errs, err)
	}
	if _, ok := t.(*FunType); !ok && supportOf(t)&support != support {
		err := x.err(n, UnsupportedFeature, "%s cannot be used as a %s type", t, what)
		err.Symbols = []Symbol{t}
		return errSym, append(errs, err)
	}
	return t, nil
}

// resolveType resolves a type signifier in a scope.
// On error, the returned type is the error sentinel.
func resolveType(x *state, sc ScopeID, n ast.TypeNode) (_ Type, errs []*Error) {
	switch n := n.(type) {
	case nil:
		return x.builtin.Unit, nil
	case *ast.FinLit:
		v, err := strconv.ParseInt(n.Text, 10, 64)
		if err != nil {
			return errSym, []*Error{x.err(n, IntRange, "magnitude %s is out of range", n.Text)}
		}
		if v <= 0 {
			return errSym, []*Error{x.err(n, NonPositiveFin, "magnitude %s is not positive", n.Text)}
		}
		return &FinConst{N: v}, nil
	case *ast.FunType:
		ft := &FunType{}
		for _, p := range n.Parms {
			t, es := resolveValueType(x, sc, p, 0, "parameter")
			errs = append(errs, es...)
			ft.Parms = append(ft.Parms, t)
		}
		ret, es := resolveValueType(x, sc, n.Ret, 0, "return")
		errs = append(errs, es...)
		ft.Ret = ret
		if len(errs) > 0 {
			return errSym, errs
		}
		return ft, nil
	case *ast.TypeName:
		return resolveTypeName(x, sc, n)
	default:
		panic("impossible type node")
	}
}

func resolveTypeName(x *state, sc ScopeID, n *ast.TypeName) (_ Type, errs []*Error) {
	sym, err := x.scopes.Fetch(sc, n.Path)
	if err != nil {
		return errSym, []*Error{x.locate(err, n)}
	}
	x.info.Uses[n] = sym

	var args []Type
	for _, a := range n.Args {
		t, es := resolveType(x, sc, a)
		errs = append(errs, es...)
		args = append(args, t)
	}
	if len(errs) > 0 {
		return errSym, errs
	}

	switch sym := sym.(type) {
	case *CostOp:
		if len(args) == 0 {
			return errSym, []*Error{x.err(n, TypeArgCountMismatch, "%s requires at least one argument", sym.Name)}
		}
		cs := make([]CostExpr, len(args))
		for i, a := range args {
			if !isCostValue(a) {
				err := x.err(n.Args[i], InvalidFinTypeSub, "%s argument %s is not a cost", sym.Name, a)
				err.Symbols = []Symbol{a}
				return errSym, []*Error{err}
			}
			cs[i] = a.(CostExpr)
		}
		switch sym.Name {
		case "Sum":
			return &Sum{Args: cs}, nil
		case "Mul":
			return &Product{Args: cs}, nil
		default:
			return &Max{Args: cs}, nil
		}
	case Generic:
		parms := sym.typeParms()
		if _, ok := sym.(*Fun); ok {
			return errSym, []*Error{x.err(n, InvalidType, "function %s is not a type", sym)}
		}
		if _, ok := sym.(*Plugin); ok {
			return errSym, []*Error{x.err(n, InvalidType, "plugin %s is not a type", sym)}
		}
		switch {
		case len(parms) == 0 && len(args) > 0:
			return errSym, []*Error{x.err(n, TypeArgCountMismatch, "%s %s has no type parameters", sym.kind(), sym)}
		case len(parms) == 0:
			return sym.(Type), nil
		case len(args) == 0:
			err := x.err(n, RawGenericUse, "%s %s requires type arguments", sym.kind(), sym)
			return errSym, []*Error{err}
		}
		if es := validateSub(sym, args); len(es) > 0 {
			for _, e := range es {
				x.locate(e, n)
			}
			return errSym, es
		}
		x.log("instantiate %s%s", defName(sym), NewSub(parms, args))
		return &Inst{Def: sym, Args: args}, nil
	case *TypeParm, *BasicType, *Object, *ErrorSym:
		if len(args) > 0 {
			return errSym, []*Error{x.err(n, TypeArgCountMismatch, "%s %s has no type parameters", sym.kind(), sym)}
		}
		return sym.(Type), nil
	default:
		err := x.err(n, InvalidType, "%s %s is not a type", sym.kind(), sym)
		return errSym, []*Error{err}
	}
}
