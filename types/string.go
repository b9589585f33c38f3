// Copyright © 2020 The Pea Authors under an MIT-style license.

package types

import (
	"strconv"
	"strings"
)

func (*ErrorSym) String() string { return "<error>" }
func (n *Namespace) String() string { return n.Name }
func (*Block) String() string { return "<block>" }
func (n *LocalVar) String() string { return n.Name }
func (n *FormalParm) String() string { return n.Name }
func (n *Field) String() string { return n.Name }
func (n *PlatformField) String() string { return n.Name }
func (n *TypeParm) String() string { return n.Name }
func (n *FinConst) String() string { return strconv.FormatInt(n.N, 10) }
func (*ConstantFin) String() string { return "$default" }
func (*DistributedFin) String() string { return "$distributed" }
func (n *CostOp) String() string { return n.Name }
func (n *BasicType) String() string { return n.Name }
func (n *Object) String() string { return n.Name }

func (n *Sum) String() string {
	var s strings.Builder
	buildCostString("Sum", n.Args, &s)
	return s.String()
}

func (n *Product) String() string {
	var s strings.Builder
	buildCostString("Mul", n.Args, &s)
	return s.String()
}

func (n *Max) String() string {
	var s strings.Builder
	buildCostString("Max", n.Args, &s)
	return s.String()
}

func (n *FunType) String() string {
	var s strings.Builder
	buildTypeString(n, &s)
	return s.String()
}

func (n *Inst) String() string {
	var s strings.Builder
	buildTypeString(n, &s)
	return s.String()
}

func (n *Record) String() string {
	var s strings.Builder
	s.WriteString(n.Name)
	buildTypeParmsString(n.TypeParms, &s)
	return s.String()
}

func (n *Enum) String() string {
	var s strings.Builder
	s.WriteString(n.Name)
	buildTypeParmsString(n.TypeParms, &s)
	return s.String()
}

func (n *Builtin) String() string {
	var s strings.Builder
	s.WriteString(n.Name)
	buildTypeParmsString(n.TypeParms, &s)
	return s.String()
}

func (n *Fun) String() string {
	var s strings.Builder
	s.WriteString(n.Name)
	buildTypeParmsString(n.TypeParms, &s)
	s.WriteRune('(')
	for i, p := range n.Parms {
		if i > 0 {
			s.WriteString(", ")
		}
		s.WriteString(p.Name)
		s.WriteString(": ")
		buildTypeString(p.Type, &s)
	}
	s.WriteRune(')')
	if n.Ret != nil {
		s.WriteString(": ")
		buildTypeString(n.Ret, &s)
	}
	return s.String()
}

func (n *Plugin) String() string {
	var s strings.Builder
	if n.Owner != nil {
		s.WriteString(n.Owner.String())
		s.WriteRune('.')
	}
	s.WriteString(n.Name)
	buildTypeParmsString(n.TypeParms, &s)
	s.WriteRune('(')
	for i, p := range n.Parms {
		if i > 0 {
			s.WriteString(", ")
		}
		buildTypeString(p, &s)
	}
	s.WriteString("): ")
	buildTypeString(n.Ret, &s)
	return s.String()
}

func buildTypeParmsString(parms []*TypeParm, s *strings.Builder) {
	if len(parms) == 0 {
		return
	}
	s.WriteRune('<')
	for i, p := range parms {
		if i > 0 {
			s.WriteString(", ")
		}
		s.WriteString(p.Name)
	}
	s.WriteRune('>')
}

func buildCostString(op string, args []CostExpr, s *strings.Builder) {
	s.WriteString(op)
	s.WriteRune('<')
	for i, a := range args {
		if i > 0 {
			s.WriteString(", ")
		}
		buildTypeString(a, s)
	}
	s.WriteRune('>')
}

func buildTypeString(t Type, s *strings.Builder) {
	switch t := t.(type) {
	case nil:
		s.WriteString("<nil>")
	case *Inst:
		s.WriteString(defName(t.Def))
		s.WriteRune('<')
		for i, a := range t.Args {
			if i > 0 {
				s.WriteString(", ")
			}
			buildTypeString(a, s)
		}
		s.WriteRune('>')
	case *FunType:
		s.WriteRune('(')
		for i, p := range t.Parms {
			if i > 0 {
				s.WriteString(", ")
			}
			buildTypeString(p, s)
		}
		s.WriteString(") -> ")
		buildTypeString(t.Ret, s)
	case *Record:
		s.WriteString(t.Name)
	case *Enum:
		s.WriteString(t.Name)
	case *Builtin:
		s.WriteString(t.Name)
	default:
		s.WriteString(t.String())
	}
}

func defName(g Generic) string {
	switch g := g.(type) {
	case *Fun:
		return g.Name
	case *Record:
		return g.Name
	case *Enum:
		return g.Name
	case *Builtin:
		return g.Name
	case *Plugin:
		return g.Name
	default:
		return g.String()
	}
}
