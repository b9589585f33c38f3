// Copyright © 2020 The Pea Authors under an MIT-style license.

package ast

// Walk traverses the tree rooted at n in depth-first order.
// It calls f(n); if f returns true, Walk recurs on each child of n,
// then calls f(nil).
// Type signifiers are not visited.
func Walk(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	switch n := n.(type) {
	case *File:
		for _, s := range n.Stmts {
			Walk(s, f)
		}
	case *Fun:
		Walk(n.Body, f)
	case *Enum:
		for _, m := range n.Members {
			Walk(m, f)
		}
	case *Namespace:
		for _, d := range n.Defs {
			Walk(d, f)
		}
	case *Val:
		Walk(n.Expr, f)
	case *Assign:
		Walk(n.Target, f)
		Walk(n.Expr, f)
	case *Block:
		for _, s := range n.Stmts {
			Walk(s, f)
		}
	case *Dot:
		Walk(n.X, f)
	case *Apply:
		Walk(n.Fun, f)
		for _, a := range n.Args {
			Walk(a, f)
		}
	case *Binary:
		Walk(n.X, f)
		Walk(n.Y, f)
	case *Unary:
		Walk(n.X, f)
	case *If:
		Walk(n.Cond, f)
		Walk(n.Then, f)
		if n.Else != nil {
			Walk(n.Else, f)
		}
	case *For:
		Walk(n.Source, f)
		Walk(n.Body, f)
	case *Switch:
		Walk(n.Source, f)
		for _, c := range n.Cases {
			Walk(c.Body, f)
		}
	case *Lambda:
		Walk(n.Body, f)
	case *As:
		Walk(n.X, f)
	case *Is:
		Walk(n.X, f)
	}
	f(nil)
}
