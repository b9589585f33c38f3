// Copyright © 2020 The Pea Authors under an MIT-style license.

package types

import (
	"github.com/eaburns/bound/ast"
	"github.com/eaburns/bound/mod"
)

// checkBans enforces the language restrictions
// that are not ordinary typing rules.
//
// Function values are first class only one level deep:
// function types may not take or return function types,
// may not be stored or returned,
// and function references and lambdas may only be called
// or passed directly as arguments.
// Function-typed parameters may only be invoked.
// Lambda bodies may not contain applications or loops.
// Definitions may not be nested, except records and objects in an enum.
func checkBans(x *state, units []*mod.Unit) (errs []*Error) {
	defer x.tr("checkBans()")(&errs)

	for _, def := range x.defs {
		errs = append(errs, banSignature(x, def)...)
	}
	for _, u := range units {
		x.file = u.File
		errs = append(errs, banNode(x, u.File)...)
	}
	return errs
}

func banSignature(x *state, def Symbol) (errs []*Error) {
	defer x.inFile(def)()
	switch def := def.(type) {
	case *Fun:
		for _, p := range def.Parms {
			if ft, ok := p.Type.(*FunType); ok && isSecondDegree(ft) {
				errs = append(errs, x.err(p.AST, SecondDegreeBan, "parameter %s has second-degree function type %s", p.Name, ft))
			}
		}
		if _, ok := def.Ret.(*FunType); ok {
			errs = append(errs, x.err(def.AST.Ret, FunctionValueBan, "function %s cannot return a function value", def.Name))
		}
	case *Record:
		for _, f := range def.Fields {
			if _, ok := f.Type.(*FunType); ok {
				errs = append(errs, x.err(f.AST, FunctionValueBan, "field %s cannot hold a function value", f.Name))
			}
		}
	}
	return errs
}

func isSecondDegree(ft *FunType) bool {
	for _, p := range ft.Parms {
		if _, ok := p.(*FunType); ok {
			return true
		}
	}
	_, ok := ft.Ret.(*FunType)
	return ok
}

// banNode checks the feature bans in the tree rooted at root.
func banNode(x *state, root ast.Node) (errs []*Error) {
	// Callees and direct arguments may be function values.
	callee := make(map[ast.Node]bool)
	argument := make(map[ast.Node]bool)
	ast.Walk(root, func(n ast.Node) bool {
		if a, ok := n.(*ast.Apply); ok {
			callee[a.Fun] = true
			for _, arg := range a.Args {
				argument[arg] = true
			}
		}
		return true
	})

	nested := make(map[ast.Node]bool)
	ast.Walk(root, func(n ast.Node) bool {
		if nested[n] {
			return false
		}
		switch n := n.(type) {
		case *ast.Enum:
			for _, m := range n.Members {
				switch m.(type) {
				case *ast.Record, *ast.Object:
				default:
					errs = append(errs, x.err(m, NestedDefBan, "%s cannot be defined in enum %s", m.DefName(), n.Name))
				}
			}
		case *ast.Block:
			for _, s := range n.Stmts {
				if d, ok := s.(ast.Def); ok {
					nested[d] = true
					errs = append(errs, x.err(d, NestedDefBan, "%s cannot be defined in a block", d.DefName()))
				}
			}
		case *ast.Ident, *ast.Dot:
			errs = append(errs, banReference(x, n.(ast.Expr), callee[n], argument[n])...)
		case *ast.Lambda:
			if !argument[n] {
				errs = append(errs, x.err(n, FunctionValueBan, "lambda may only be passed as an argument"))
			}
			for _, p := range n.Parms {
				fp, ok := x.info.Defs[p].(*FormalParm)
				if !ok {
					continue
				}
				if ft, ok := fp.Type.(*FunType); ok {
					errs = append(errs, x.err(p, SecondDegreeBan, "lambda parameter %s has function type %s", p.Name, ft))
				}
			}
			errs = append(errs, banLambdaBody(x, n)...)
		}
		return true
	})
	return errs
}

func banReference(x *state, n ast.Expr, callee, argument bool) []*Error {
	switch sym := x.info.Uses[n].(type) {
	case *Fun:
		if !callee && !argument {
			return []*Error{x.err(n, FunctionValueBan, "function %s may only be called or passed as an argument", sym.Name)}
		}
	case *FormalParm:
		if _, ok := sym.Type.(*FunType); ok && !callee {
			return []*Error{x.err(n, FunParmValueBan, "function parameter %s may only be called", sym.Name)}
		}
	}
	return nil
}

func banLambdaBody(x *state, n *ast.Lambda) (errs []*Error) {
	ast.Walk(n.Body, func(m ast.Node) bool {
		switch m := m.(type) {
		case *ast.Apply:
			errs = append(errs, x.err(m, LambdaBodyBan, "lambda body cannot contain a call"))
		case *ast.For:
			errs = append(errs, x.err(m, LambdaBodyBan, "lambda body cannot contain a loop"))
		}
		return true
	})
	return errs
}
