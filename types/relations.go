// Copyright © 2020 The Pea Authors under an MIT-style license.

package types

// sameType returns whether two types are identical.
func sameType(a, b Type) bool {
	if a == b {
		return true
	}
	switch a := a.(type) {
	case *Inst:
		b, ok := b.(*Inst)
		return ok && a.Def == b.Def && sameTypes(a.Args, b.Args)
	case *FunType:
		b, ok := b.(*FunType)
		return ok && sameTypes(a.Parms, b.Parms) && sameType(a.Ret, b.Ret)
	case *FinConst:
		b, ok := b.(*FinConst)
		return ok && a.N == b.N
	case *Sum:
		b, ok := b.(*Sum)
		return ok && sameCosts(a.Args, b.Args)
	case *Product:
		b, ok := b.(*Product)
		return ok && sameCosts(a.Args, b.Args)
	case *Max:
		b, ok := b.(*Max)
		return ok && sameCosts(a.Args, b.Args)
	}
	return false
}

func sameTypes(as, bs []Type) bool {
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !sameType(as[i], bs[i]) {
			return false
		}
	}
	return true
}

func sameCosts(as, bs []CostExpr) bool {
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !sameType(as[i], bs[i]) {
			return false
		}
	}
	return true
}

// assignable returns whether a value of type src can be used as type dst.
//
// Besides identical types, a member of an enum is assignable to the enum,
// and an instance is assignable to another instance of the same definition
// if its immutable Fin arguments are no larger.
func assignable(dst, src Type) bool {
	if IsError(dst) || IsError(src) || sameType(dst, src) {
		return true
	}
	if e := enumTypeOf(src); e != nil && e != src && sameType(dst, e) {
		return true
	}
	d, ok0 := dst.(*Inst)
	s, ok1 := src.(*Inst)
	if !ok0 || !ok1 || d.Def != s.Def || len(d.Args) != len(s.Args) {
		return false
	}
	for i, p := range d.Def.typeParms() {
		switch p.Kind {
		case Standard, MutableFin:
			if !sameType(d.Args[i], s.Args[i]) {
				return false
			}
		case ImmutableFin:
			dc, ok0 := d.Args[i].(CostExpr)
			sc, ok1 := s.Args[i].(CostExpr)
			if !ok0 || !ok1 || !costLE(sc, dc) {
				return false
			}
		}
	}
	return true
}

// costLE returns whether a is provably no larger than b.
func costLE(a, b CostExpr) bool {
	if sameType(a, b) {
		return true
	}
	if an, ok := a.(*FinConst); ok {
		if bn, ok := b.(*FinConst); ok {
			return an.N <= bn.N
		}
	}
	if m, ok := b.(*Max); ok {
		for _, arg := range m.Args {
			if costLE(a, arg) {
				return true
			}
		}
	}
	return false
}

// maxCost returns the larger of two costs,
// folding concrete magnitudes.
func maxCost(a, b CostExpr) CostExpr {
	switch {
	case IsError(a):
		return b
	case IsError(b), costLE(b, a):
		return a
	case costLE(a, b):
		return b
	}
	return &Max{Args: []CostExpr{a, b}}
}

// commonType returns the best common type of a and b, or nil if there is none.
//
// The common type of identical types is the type itself.
// Instances of the same definition combine element-wise,
// with Fin arguments combined by maximum.
// Members of the same enum combine to the enum.
func commonType(a, b Type) Type {
	switch {
	case IsError(a):
		return b
	case IsError(b), sameType(a, b):
		return a
	}
	if ai, ok := a.(*Inst); ok {
		if bi, ok := b.(*Inst); ok && ai.Def == bi.Def && len(ai.Args) == len(bi.Args) {
			if c := commonInst(ai, bi); c != nil {
				return c
			}
		}
	}
	ae, be := enumTypeOf(a), enumTypeOf(b)
	if ae != nil && be != nil && sameType(ae, be) {
		return ae
	}
	return nil
}

func commonInst(a, b *Inst) Type {
	args := make([]Type, len(a.Args))
	for i, p := range a.Def.typeParms() {
		switch p.Kind {
		case Standard:
			if args[i] = commonType(a.Args[i], b.Args[i]); args[i] == nil {
				return nil
			}
		case ImmutableFin:
			ac, ok0 := a.Args[i].(CostExpr)
			bc, ok1 := b.Args[i].(CostExpr)
			if !ok0 || !ok1 {
				return nil
			}
			args[i] = maxCost(ac, bc)
		case MutableFin:
			if !sameType(a.Args[i], b.Args[i]) {
				return nil
			}
			args[i] = a.Args[i]
		}
	}
	return &Inst{Def: a.Def, Args: args}
}

// enumTypeOf returns the enum type of an enum or enum member type, or nil.
// Members of a parameterized enum declare the enum's parameters,
// so a member instance maps to the enum instance with the same arguments.
func enumTypeOf(t Type) Type {
	switch t := t.(type) {
	case *Enum:
		return t
	case *Object:
		if t.Enum != nil {
			return t.Enum
		}
	case *Record:
		if t.Enum != nil {
			return t.Enum
		}
	case *Inst:
		switch d := t.Def.(type) {
		case *Enum:
			return t
		case *Record:
			if d.Enum != nil && len(d.Enum.TypeParms) == len(t.Args) {
				return &Inst{Def: d.Enum, Args: t.Args}
			}
		}
	}
	return nil
}

// elemAndBound returns the element type and the size bound
// of a collection type.
// Dictionaries iterate over Pairs of their keys and values.
func (x *state) elemAndBound(t Type) (Type, CostExpr, bool) {
	inst, ok := t.(*Inst)
	if !ok {
		return nil, nil, false
	}
	b := x.builtin
	switch inst.Def {
	case b.List, b.Set, b.MutableList, b.MutableSet:
		n, ok := inst.Args[1].(CostExpr)
		return inst.Args[0], n, ok
	case b.Dictionary, b.MutableDictionary:
		n, ok := inst.Args[2].(CostExpr)
		pair := &Inst{Def: b.Pair, Args: []Type{inst.Args[0], inst.Args[1]}}
		return pair, n, ok
	}
	return nil, nil, false
}

// enumOf returns the enum of a switch source type
// and the substitution of the enum's type parameters.
func enumOf(t Type) (*Enum, *Sub) {
	switch t := enumTypeOf(t).(type) {
	case *Enum:
		return t, nil
	case *Inst:
		e := t.Def.(*Enum)
		return e, NewSub(e.TypeParms, t.Args)
	}
	return nil, nil
}
