// Copyright © 2020 The Pea Authors under an MIT-style license.

package types

import (
	"github.com/eaburns/bound/ast"
	"github.com/eaburns/bound/mod"
)

// costFiles computes the cost of every function in dependency order,
// then the cost of every file,
// and returns the cost of the entry file, the last unit.
//
// Function costs are in terms of their Fin type parameters;
// they are replayed at each call site.
func costFiles(x *state, order []Symbol, units []*mod.Unit) CostExpr {
	defer x.tr("costFiles()")()

	for _, def := range order {
		if f, ok := def.(*Fun); ok {
			costFun(x, f)
		}
	}
	var entry CostExpr
	for _, u := range units {
		x.file = u.File
		var cs []CostExpr
		for _, s := range u.File.Stmts {
			if _, ok := s.(ast.Def); ok {
				continue
			}
			cs = append(cs, costStmt(x, s))
		}
		entry = sumCost(append(cs, constantFin)...)
		x.info.Costs[u.File] = entry
		x.log("%s cost %s", u.File.Path, entry)
	}
	return entry
}

func costFun(x *state, f *Fun) {
	defer x.inFile(f)()

	f.Cost = costExpr(x, f.AST.Body)
	x.log("%s cost %s", f.Name, f.Cost)
	if !CanEvaluate(f.Cost) {
		return
	}
	if n, err := Evaluate(f.Cost, x.arch); err == nil {
		x.info.FunCosts[f] = n
	}
}

func costStmt(x *state, s ast.Stmt) CostExpr {
	switch s := s.(type) {
	case *ast.Val:
		return sumCost(costExpr(x, s.Expr), constantFin)
	case *ast.Assign:
		return sumCost(costExpr(x, s.Target.X), costExpr(x, s.Expr), constantFin)
	case ast.Expr:
		return costExpr(x, s)
	}
	return nil
}

// costExpr returns the cost of an expression and records it in Info.Costs.
func costExpr(x *state, e ast.Expr) CostExpr {
	c := costExpr1(x, e)
	x.info.Costs[e] = c
	return c
}

func costExpr1(x *state, e ast.Expr) CostExpr {
	switch e := e.(type) {
	case *ast.Int, *ast.Char, *ast.String, *ast.Bool, *ast.Ident:
		return constantFin
	case *ast.Block:
		var cs []CostExpr
		for _, s := range e.Stmts {
			cs = append(cs, costStmt(x, s))
		}
		return sumCost(append(cs, constantFin)...)
	case *ast.Dot:
		if _, ok := x.info.Types[e.X]; !ok {
			// A namespace path.
			return constantFin
		}
		return sumCost(costExpr(x, e.X), constantFin)
	case *ast.Apply:
		return costCall(x, e)
	case *ast.Binary, *ast.Unary:
		return costCall(x, e)
	case *ast.If:
		cond := costExpr(x, e.Cond)
		then := costExpr(x, e.Then)
		if e.Else == nil {
			return sumCost(cond, then)
		}
		return sumCost(cond, &Max{Args: []CostExpr{then, costExpr(x, e.Else)}})
	case *ast.For:
		src := costExpr(x, e.Source)
		body := costExpr(x, e.Body)
		_, bound, ok := x.elemAndBound(x.info.Types[e.Source])
		if !ok {
			bound = errSym
		}
		return sumCost(src, productCost(bound, body))
	case *ast.Switch:
		src := costExpr(x, e.Source)
		cases := make([]CostExpr, len(e.Cases))
		for i, c := range e.Cases {
			cases[i] = costExpr(x, c.Body)
		}
		if len(cases) == 0 {
			return src
		}
		return sumCost(src, &Max{Args: cases})
	case *ast.Lambda:
		costExpr(x, e.Body)
		return constantFin
	case *ast.As:
		return sumCost(costExpr(x, e.X), constantFin)
	case *ast.Is:
		return sumCost(costExpr(x, e.X), constantFin)
	default:
		panic("impossible expression type")
	}
}

// costCall returns the cost of an application or operator.
func costCall(x *state, e ast.Expr) CostExpr {
	call, ok := x.info.Calls[e]
	if !ok {
		return errSym
	}
	var cs []CostExpr
	switch callee := call.Callee.(type) {
	case *Fun:
		cs = append(cs, constantFin, call.Sub.ReplayCost(callee.Cost))
		cs = append(cs, costArgs(x, call)...)
		cs = append(cs, multiplied(x, call, callee.Multipliers)...)
	case *Plugin:
		cs = append(cs, call.Sub.ReplayCost(callee.Cost))
		if callee.Distributed {
			cs = append(cs, distributedFin)
		}
		if call.Recv != nil {
			cs = append(cs, costExpr(x, call.Recv))
		}
		cs = append(cs, costArgs(x, call)...)
		cs = append(cs, multiplied(x, call, callee.Multipliers)...)
	default:
		cs = append(cs, constantFin)
		cs = append(cs, costArgs(x, call)...)
	}
	return sumCost(cs...)
}

func costArgs(x *state, call *Call) []CostExpr {
	cs := make([]CostExpr, len(call.Args))
	for i, a := range call.Args {
		cs[i] = costExpr(x, a)
	}
	return cs
}

// multiplied returns, for each function argument,
// the cost of its body times the callee's multiplier for the parameter.
// Arguments must already be costed.
func multiplied(x *state, call *Call, mults []CostExpr) []CostExpr {
	var cs []CostExpr
	for i, a := range call.Args {
		if i >= len(mults) || mults[i] == nil {
			continue
		}
		body := argBodyCost(x, a)
		if body == nil {
			continue
		}
		cs = append(cs, productCost(call.Sub.ReplayCost(mults[i]), body))
	}
	return cs
}

// argBodyCost returns the cost of invoking a function argument once:
// the cost of a lambda's body or of a referenced function.
func argBodyCost(x *state, a ast.Expr) CostExpr {
	if l, ok := a.(*ast.Lambda); ok {
		return x.info.Costs[l.Body]
	}
	if f, ok := x.info.Uses[a].(*Fun); ok {
		return f.Cost
	}
	return nil
}
