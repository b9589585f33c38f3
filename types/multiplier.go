// Copyright © 2020 The Pea Authors under an MIT-style license.

package types

import "github.com/eaburns/bound/ast"

// propagateMultipliers computes, for each function-typed parameter
// of each function, how many times the body may invoke it.
//
// An invocation counts once, times the bound of each enclosing loop.
// Both branches of an if and every case of a switch are counted.
// Function-typed parameters can only be invoked,
// so the invocations in the body are the only ones.
func propagateMultipliers(x *state, order []Symbol) {
	defer x.tr("propagateMultipliers()")()

	for _, def := range order {
		f, ok := def.(*Fun)
		if !ok {
			continue
		}
		counts := make(map[*FormalParm][]CostExpr)
		countParmCalls(x, f.AST.Body, nil, counts)
		f.Multipliers = make([]CostExpr, len(f.Parms))
		for i, p := range f.Parms {
			if _, ok := p.Type.(*FunType); !ok {
				continue
			}
			if cs := counts[p]; len(cs) > 0 {
				f.Multipliers[i] = sumCost(cs...)
				x.log("%s.%s multiplier %s", f.Name, p.Name, f.Multipliers[i])
			}
		}
	}
}

// countParmCalls appends, for each invocation of a parameter under n,
// the product of the loop bounds enclosing the invocation.
func countParmCalls(x *state, n ast.Node, bounds []CostExpr, counts map[*FormalParm][]CostExpr) {
	ast.Walk(n, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.For:
			countParmCalls(x, n.Source, bounds, counts)
			_, bound, ok := x.elemAndBound(x.info.Types[n.Source])
			if !ok {
				bound = errSym
			}
			inner := append(bounds[:len(bounds):len(bounds)], bound)
			countParmCalls(x, n.Body, inner, counts)
			return false
		case *ast.Apply:
			call, ok := x.info.Calls[n]
			if !ok || call.Kind != ParmCall {
				break
			}
			p := call.Callee.(*FormalParm)
			if len(bounds) == 0 {
				counts[p] = append(counts[p], &FinConst{N: 1})
			} else {
				counts[p] = append(counts[p], productCost(bounds...))
			}
		}
		return true
	})
}
