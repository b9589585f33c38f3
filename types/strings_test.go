// Copyright © 2020 The Pea Authors under an MIT-style license.

package types

import "testing"

func TestString(t *testing.T) {
	t.Parallel()
	T := &TypeParm{Name: "T"}
	N := &TypeParm{Name: "#N", Kind: ImmutableFin}
	intType := &BasicType{Name: "Int"}
	list := &Builtin{Name: "List", TypeParms: []*TypeParm{T, N}}
	box := &Record{Name: "Box", TypeParms: []*TypeParm{T}}
	option := &Enum{Name: "Option", TypeParms: []*TypeParm{T}}
	fun := &Fun{
		Name:      "count",
		TypeParms: []*TypeParm{T, N},
		Parms:     []*FormalParm{{Name: "xs", Type: &Inst{Def: list, Args: []Type{T, N}}}},
		Ret:       intType,
	}

	tests := []struct {
		sym  Symbol
		want string
	}{
		{errSym, "<error>"},
		{intType, "Int"},
		{&FinConst{N: 42}, "42"},
		{constantFin, "$default"},
		{distributedFin, "$distributed"},
		{&Sum{Args: []CostExpr{N, constantFin}}, "Sum<#N, $default>"},
		{&Product{Args: []CostExpr{N, &Max{Args: []CostExpr{N, &FinConst{N: 2}}}}}, "Mul<#N, Max<#N, 2>>"},
		{list, "List<T, #N>"},
		{box, "Box<T>"},
		{&Record{Name: "Point"}, "Point"},
		{option, "Option<T>"},
		{&Inst{Def: list, Args: []Type{&Inst{Def: box, Args: []Type{intType}}, &FinConst{N: 3}}}, "List<Box<Int>, 3>"},
		{&Inst{Def: option, Args: []Type{list}}, "Option<List>"},
		{&FunType{Ret: intType}, "() -> Int"},
		{&FunType{Parms: []Type{intType, T}, Ret: &FunType{Parms: []Type{T}, Ret: T}}, "(Int, T) -> (T) -> T"},
		{fun, "count<T, #N>(xs: List<T, #N>): Int"},
		{&Fun{Name: "f"}, "f()"},
		{&Plugin{Name: "abs", Parms: []Type{intType}, Ret: intType}, "abs(Int): Int"},
		{&Plugin{Name: "size", Owner: list, Ret: intType}, "List<T, #N>.size(): Int"},
		{&Object{Name: "Red"}, "Red"},
		{&CostOp{Name: "Mul"}, "Mul"},
	}
	for _, test := range tests {
		if got := test.sym.String(); got != test.want {
			t.Errorf("got %q, want %q", got, test.want)
		}
	}
}

func TestParmKindString(t *testing.T) {
	t.Parallel()
	for k, want := range map[ParmKind]string{
		Standard:     "standard",
		ImmutableFin: "Fin",
		MutableFin:   "mutable Fin",
		ParmKind(9):  "unknown",
	} {
		if got := k.String(); got != want {
			t.Errorf("%d: got %q, want %q", int(k), got, want)
		}
	}
}

func TestErrorKindString(t *testing.T) {
	t.Parallel()
	if got := RecursiveFunction.String(); got != "RecursiveFunction" {
		t.Errorf("got %q, want RecursiveFunction", got)
	}
	if got := ErrorKind(-1).String(); got != "ErrorKind(-1)" {
		t.Errorf("got %q, want ErrorKind(-1)", got)
	}
	for k := ParseError; k <= InvalidCostUpperLimit; k++ {
		if k.String() == "" {
			t.Errorf("ErrorKind %d has no name", int(k))
		}
	}
}
