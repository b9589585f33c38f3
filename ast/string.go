// Copyright © 2020 The Pea Authors under an MIT-style license.

package ast

import "strings"

func (n *TypeName) String() string {
	var s strings.Builder
	buildTypeString(n, &s)
	return s.String()
}

func (n *FunType) String() string {
	var s strings.Builder
	buildTypeString(n, &s)
	return s.String()
}

func (n *FinLit) String() string { return n.Text }

func (n *Fun) String() string {
	var s strings.Builder
	s.WriteString("fun ")
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

func (n *Record) String() string {
	var s strings.Builder
	s.WriteString("record ")
	s.WriteString(n.Name)
	buildTypeParmsString(n.TypeParms, &s)
	s.WriteRune('(')
	for i, f := range n.Fields {
		if i > 0 {
			s.WriteString(", ")
		}
		if f.Mutable {
			s.WriteString("var ")
		}
		s.WriteString(f.Name)
		s.WriteString(": ")
		buildTypeString(f.Type, &s)
	}
	s.WriteRune(')')
	return s.String()
}

func (n *Enum) String() string {
	var s strings.Builder
	s.WriteString("enum ")
	s.WriteString(n.Name)
	buildTypeParmsString(n.TypeParms, &s)
	return s.String()
}

func (n *Object) String() string { return "object " + n.Name }

func (n *Namespace) String() string { return "namespace " + n.Name }

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

func buildTypeString(n TypeNode, s *strings.Builder) {
	switch n := n.(type) {
	case nil:
		s.WriteString("Unit")
	case *FinLit:
		s.WriteString(n.Text)
	case *TypeName:
		s.WriteString(PathString(n.Path))
		if len(n.Args) == 0 {
			return
		}
		s.WriteRune('<')
		for i, a := range n.Args {
			if i > 0 {
				s.WriteString(", ")
			}
			buildTypeString(a, s)
		}
		s.WriteRune('>')
	case *FunType:
		s.WriteRune('(')
		for i, p := range n.Parms {
			if i > 0 {
				s.WriteString(", ")
			}
			buildTypeString(p, s)
		}
		s.WriteString(") -> ")
		buildTypeString(n.Ret, s)
	}
}
