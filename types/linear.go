// Copyright © 2020 The Pea Authors under an MIT-style license.

package types

// Linearize returns the symbols reachable from a type, in depth-first order
// with the type itself first and without duplicates.
//
// An instantiation contributes itself, its definition,
// and the symbols of its non-cost arguments
// and of its fields or members under its substitution.
// Cost arguments are skipped.
func Linearize(t Type) []Symbol {
	var syms []Symbol
	seen := make(map[string]bool)
	var visit func(Type, *Sub)
	visit = func(t Type, sub *Sub) {
		t = sub.Replay(t)
		if t == nil {
			return
		}
		if _, ok := t.(CostExpr); ok {
			if _, ok := t.(*TypeParm); !ok {
				return
			}
		}
		key := t.kind() + " " + t.String()
		if seen[key] {
			return
		}
		seen[key] = true
		syms = append(syms, t)

		switch t := t.(type) {
		case *Inst:
			if def, ok := t.Def.(Type); ok {
				if k := def.kind() + " " + def.String(); !seen[k] {
					seen[k] = true
					syms = append(syms, def)
				}
			}
			for _, a := range t.Args {
				visit(a, nil)
			}
			s := NewSub(t.Def.typeParms(), t.Args)
			switch def := t.Def.(type) {
			case *Record:
				for _, f := range def.Fields {
					visit(f.Type, s)
				}
			case *Enum:
				for _, m := range def.Members {
					visit(memberType(m, s), nil)
				}
			}
		case *Record:
			for _, f := range t.Fields {
				visit(f.Type, nil)
			}
		case *Enum:
			for _, m := range t.Members {
				visit(memberType(m, nil), nil)
			}
		case *FunType:
			for _, p := range t.Parms {
				visit(p, nil)
			}
			visit(t.Ret, nil)
		}
	}
	visit(t, nil)
	return syms
}

// linearizeFiles records the linearization of every typed expression.
func linearizeFiles(x *state) {
	defer x.tr("linearizeFiles()")()
	for e, t := range x.info.Types {
		x.info.Linear[e] = Linearize(t)
	}
}
