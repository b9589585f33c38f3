// Copyright © 2020 The Pea Authors under an MIT-style license.

package types

import (
	"strings"

	"github.com/eaburns/bound/ast"
)

// TopoSort sorts nodes so that each node follows every node it depends on.
//
// It is Kahn's algorithm: nodes with no remaining dependencies are removed
// repeatedly, in the order of nodes.
// Nodes left when no more can be removed are on a cycle
// or depend on one; the cycles are returned as the strongly connected
// components of the remaining nodes that contain a cycle,
// each in the order of nodes.
func TopoSort(nodes []Symbol, deps map[Symbol][]Symbol) (sorted []Symbol, cycles [][]Symbol) {
	index := make(map[Symbol]int, len(nodes))
	for i, n := range nodes {
		index[n] = i
	}
	count := make(map[Symbol]int, len(nodes))
	users := make(map[Symbol][]Symbol, len(nodes))
	for _, n := range nodes {
		seen := make(map[Symbol]bool)
		for _, d := range deps[n] {
			if _, ok := index[d]; !ok || seen[d] {
				continue
			}
			seen[d] = true
			count[n]++
			users[d] = append(users[d], n)
		}
	}
	var queue []Symbol
	for _, n := range nodes {
		if count[n] == 0 {
			queue = append(queue, n)
		}
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		sorted = append(sorted, n)
		for _, u := range users[n] {
			if count[u]--; count[u] == 0 {
				queue = append(queue, u)
			}
		}
	}
	if len(sorted) == len(nodes) {
		return sorted, nil
	}

	var rest []Symbol
	for _, n := range nodes {
		if count[n] > 0 {
			rest = append(rest, n)
		}
	}
	return sorted, findCycles(rest, deps, index)
}

// findCycles returns the strongly connected components of the nodes
// that contain a cycle, using Tarjan's algorithm.
func findCycles(nodes []Symbol, deps map[Symbol][]Symbol, order map[Symbol]int) [][]Symbol {
	in := make(map[Symbol]bool, len(nodes))
	for _, n := range nodes {
		in[n] = true
	}
	var (
		next    int
		index   = make(map[Symbol]int)
		low     = make(map[Symbol]int)
		onStack = make(map[Symbol]bool)
		stack   []Symbol
		cycles  [][]Symbol
	)
	var visit func(Symbol)
	visit = func(n Symbol) {
		index[n], low[n] = next, next
		next++
		stack = append(stack, n)
		onStack[n] = true
		for _, d := range deps[n] {
			if !in[d] {
				continue
			}
			if _, ok := index[d]; !ok {
				visit(d)
				if low[d] < low[n] {
					low[n] = low[d]
				}
			} else if onStack[d] && index[d] < low[n] {
				low[n] = index[d]
			}
		}
		if low[n] != index[n] {
			return
		}
		var scc []Symbol
		for {
			m := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[m] = false
			scc = append(scc, m)
			if m == n {
				break
			}
		}
		if len(scc) > 1 || dependsOn(deps, n, n) {
			sortByOrder(scc, order)
			cycles = append(cycles, scc)
		}
	}
	for _, n := range nodes {
		if _, ok := index[n]; !ok {
			visit(n)
		}
	}
	sortCycles(cycles, order)
	return cycles
}

func dependsOn(deps map[Symbol][]Symbol, n, d Symbol) bool {
	for _, m := range deps[n] {
		if m == d {
			return true
		}
	}
	return false
}

func sortByOrder(syms []Symbol, order map[Symbol]int) {
	for i := 1; i < len(syms); i++ {
		for j := i; j > 0 && order[syms[j]] < order[syms[j-1]]; j-- {
			syms[j], syms[j-1] = syms[j-1], syms[j]
		}
	}
}

func sortCycles(cycles [][]Symbol, order map[Symbol]int) {
	for i := 1; i < len(cycles); i++ {
		for j := i; j > 0 && order[cycles[j][0]] < order[cycles[j-1][0]]; j-- {
			cycles[j], cycles[j-1] = cycles[j-1], cycles[j]
		}
	}
}

// sortDefs orders the user definitions so that each function
// follows the functions it calls or references,
// and each record and enum follows the records and enums
// its fields and members refer to.
// Cycles are reported as recursion errors.
func sortDefs(x *state) (_ []Symbol, errs []*Error) {
	defer x.tr("sortDefs()")(&errs)

	deps := make(map[Symbol][]Symbol)
	for _, def := range x.defs {
		switch def := def.(type) {
		case *Fun:
			ast.Walk(def.AST.Body, func(n ast.Node) bool {
				if f, ok := x.info.Uses[n].(*Fun); ok {
					deps[def] = append(deps[def], f)
				}
				return true
			})
		case *Record:
			for _, f := range def.Fields {
				deps[def] = append(deps[def], typeDeps(f.Type, nil)...)
			}
		case *Enum:
			deps[def] = append(deps[def], def.Members...)
		}
	}
	sorted, cycles := TopoSort(x.defs, deps)
	for _, cycle := range cycles {
		errs = append(errs, recursionError(x, cycle, deps))
	}
	for _, s := range sorted {
		x.log("%s", s)
	}
	return sorted, errs
}

// typeDeps returns the records and enums a type refers to.
func typeDeps(t Type, deps []Symbol) []Symbol {
	switch t := t.(type) {
	case *Record:
		return append(deps, t)
	case *Enum:
		return append(deps, t)
	case *Inst:
		switch t.Def.(type) {
		case *Record, *Enum:
			deps = append(deps, t.Def)
		}
		for _, a := range t.Args {
			deps = typeDeps(a, deps)
		}
	case *FunType:
		for _, p := range t.Parms {
			deps = typeDeps(p, deps)
		}
		return typeDeps(t.Ret, deps)
	}
	return deps
}

func recursionError(x *state, cycle []Symbol, deps map[Symbol][]Symbol) *Error {
	defer x.inFile(cycle[0])()
	names := make([]string, len(cycle))
	for i, s := range cycle {
		names[i] = defName(s.(Generic))
	}
	kind, what := RecursiveRecord, "recursive record"
	if _, ok := cycle[0].(*Fun); ok {
		kind, what = RecursiveFunction, "recursive function"
	}
	err := x.err(defNode(cycle[0]), kind, "%s: %s", what, strings.Join(names, ", "))
	for _, s := range cycle {
		for _, d := range deps[s] {
			if inCycle(cycle, d) {
				note(err, "%s refers to %s", defName(s.(Generic)), defName(d.(Generic)))
				break
			}
		}
	}
	return err
}

func inCycle(cycle []Symbol, s Symbol) bool {
	for _, c := range cycle {
		if c == s {
			return true
		}
	}
	return false
}

func defNode(s Symbol) ast.Node {
	switch s := s.(type) {
	case *Fun:
		return s.AST
	case *Record:
		return s.AST
	case *Enum:
		return s.AST
	}
	return nil
}
