// Copyright © 2020 The Pea Authors under an MIT-style license.

package types

import (
	"strings"
	"testing"
)

func TestReplayNested(t *testing.T) {
	t.Parallel()
	T := &TypeParm{Name: "T"}
	box := &Record{Name: "Box", TypeParms: []*TypeParm{T}}

	var typ Type = T
	for i := 0; i < 7; i++ {
		typ = &Inst{Def: box, Args: []Type{typ}}
	}
	sub := NewSub([]*TypeParm{T}, []Type{&BasicType{Name: "Int"}})
	got := sub.Replay(typ).String()
	want := strings.Repeat("Box<", 7) + "Int" + strings.Repeat(">", 7)
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
	if typ.String() != strings.Repeat("Box<", 7)+"T"+strings.Repeat(">", 7) {
		t.Errorf("replay modified its argument: %s", typ)
	}
}

// Replaying through two substitutions in turn
// is the same as replaying through their composition.
func TestReplayComposes(t *testing.T) {
	t.Parallel()
	T := &TypeParm{Name: "T"}
	U := &TypeParm{Name: "U"}
	N := &TypeParm{Name: "#N", Kind: ImmutableFin}
	M := &TypeParm{Name: "#M", Kind: ImmutableFin}
	list := &Builtin{Name: "List", TypeParms: []*TypeParm{T, N}}
	pair := &Builtin{Name: "Pair", TypeParms: []*TypeParm{T, U}}

	typ := &Inst{Def: pair, Args: []Type{
		&Inst{Def: list, Args: []Type{T, &Sum{Args: []CostExpr{N, &FinConst{N: 1}}}}},
		&FunType{Parms: []Type{U}, Ret: &Inst{Def: list, Args: []Type{U, &Max{Args: []CostExpr{N, M}}}}},
	}}
	s1 := NewSub([]*TypeParm{T, N}, []Type{U, &Product{Args: []CostExpr{M, &FinConst{N: 2}}}})
	s2 := NewSub([]*TypeParm{U, M}, []Type{&BasicType{Name: "Int"}, &FinConst{N: 3}})

	twice := s2.Replay(s1.Replay(typ))
	composed := NewSub([]*TypeParm{T, N}, []Type{s2.Replay(U), s2.Replay(s1.Args[1])}).Extend(s2)
	once := composed.Replay(typ)
	if !sameType(twice, once) {
		t.Errorf("s2(s1(t))=%s, (s2∘s1)(t)=%s", twice, once)
	}
	want := "Pair<List<Int, Sum<Mul<3, 2>, 1>>, (Int) -> List<Int, Max<Mul<3, 2>, 3>>>"
	if twice.String() != want {
		t.Errorf("got %s, want %s", twice, want)
	}
}

func TestReplayCost(t *testing.T) {
	t.Parallel()
	N := &TypeParm{Name: "#N", Kind: ImmutableFin}
	T := &TypeParm{Name: "T"}
	var s *Sub
	if got := s.ReplayCost(N); got != N {
		t.Errorf("nil substitution replayed %s to %s", N, got)
	}
	s = NewSub([]*TypeParm{N}, []Type{&FinConst{N: 4}})
	if got := s.ReplayCost(&Product{Args: []CostExpr{N, N}}); got.String() != "Mul<4, 4>" {
		t.Errorf("got %s, want Mul<4, 4>", got)
	}
	s = NewSub([]*TypeParm{T}, []Type{&BasicType{Name: "Int"}})
	s = s.Extend(NewSub([]*TypeParm{N}, []Type{T}))
	if got := NewSub([]*TypeParm{N}, []Type{&BasicType{Name: "Int"}}).ReplayCost(N); !IsError(got) {
		t.Errorf("got %s, want the error sentinel", got)
	}
	if got := s.String(); got != "[T=Int, #N=T]" {
		t.Errorf("got %s, want [T=Int, #N=T]", got)
	}
}

func TestValidateSub(t *testing.T) {
	t.Parallel()
	T := &TypeParm{Name: "T"}
	N := &TypeParm{Name: "#N", Kind: ImmutableFin}
	MN := &TypeParm{Name: "#N", Kind: MutableFin}
	F := &TypeParm{Name: "#F", Kind: ImmutableFin}
	list := &Builtin{Name: "List", TypeParms: []*TypeParm{T, N}, Support: FullSupport}
	mlist := &Builtin{Name: "MutableList", TypeParms: []*TypeParm{T, MN}}
	intType := &BasicType{Name: "Int"}
	mutInst := &Inst{Def: mlist, Args: []Type{intType, &FinConst{N: 2}}}

	tests := []struct {
		name string
		def  Generic
		args []Type
		// kind is the expected error kind, or -1 for no error.
		kind ErrorKind
	}{
		{"ground", list, []Type{intType, &FinConst{N: 5}}, -1},
		{"symbolic immutable Fin", list, []Type{intType, F}, -1},
		{"cost expression", list, []Type{intType, &Sum{Args: []CostExpr{F, &FinConst{N: 1}}}}, -1},
		{"count", list, []Type{intType}, TypeArgCountMismatch},
		{"type for Fin", list, []Type{intType, intType}, InvalidFinTypeSub},
		{"Fin for type", list, []Type{&FinConst{N: 1}, &FinConst{N: 1}}, InvalidStandardTypeSub},
		{"standard parameter for Fin", list, []Type{intType, T}, InvalidFinTypeSub},
		{"unsupported type argument", list, []Type{mutInst, &FinConst{N: 1}}, InvalidStandardTypeSub},
		{"concrete mutable Fin", mlist, []Type{intType, &FinConst{N: 3}}, -1},
		{"symbolic mutable Fin", mlist, []Type{intType, F}, InvalidFinTypeSub},
		{"cost mutable Fin", mlist, []Type{intType, &Max{Args: []CostExpr{&FinConst{N: 1}, &FinConst{N: 2}}}}, InvalidFinTypeSub},
		{"error argument", mlist, []Type{errSym, errSym}, -1},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateSub(test.def, test.args)
			switch {
			case test.kind < 0 && err != nil:
				t.Errorf("got %v, want nil", err)
			case test.kind >= 0 && err == nil:
				t.Errorf("got nil, want %s", test.kind)
			case test.kind >= 0 && err.(*Error).Kind != test.kind:
				t.Errorf("got %s (%v), want %s", err.(*Error).Kind, err, test.kind)
			}
		})
	}
}

func TestInferSub(t *testing.T) {
	t.Parallel()
	T := &TypeParm{Name: "T"}
	U := &TypeParm{Name: "U"}
	N := &TypeParm{Name: "#N", Kind: ImmutableFin}
	LT := &TypeParm{Name: "T"}
	LN := &TypeParm{Name: "#N", Kind: ImmutableFin}
	list := &Builtin{Name: "List", TypeParms: []*TypeParm{LT, LN}}
	intType := &BasicType{Name: "Int"}
	listOf := func(t Type, n CostExpr) *Inst { return &Inst{Def: list, Args: []Type{t, n}} }

	tests := []struct {
		name    string
		parms   []*TypeParm
		pats    []Type
		args    []Type
		want    string
		missing string
	}{
		{
			name:  "direct",
			parms: []*TypeParm{T},
			pats:  []Type{T},
			args:  []Type{intType},
			want:  "[T=Int]",
		},
		{
			name:  "through an instance",
			parms: []*TypeParm{T, N},
			pats:  []Type{listOf(T, N)},
			args:  []Type{listOf(intType, &FinConst{N: 3})},
			want:  "[T=Int, #N=3]",
		},
		{
			name:  "Fin takes the larger",
			parms: []*TypeParm{T, N},
			pats:  []Type{listOf(T, N), listOf(T, N)},
			args:  []Type{listOf(intType, &FinConst{N: 3}), listOf(intType, &FinConst{N: 7})},
			want:  "[T=Int, #N=7]",
		},
		{
			name:  "through a function type",
			parms: []*TypeParm{T, U},
			pats:  []Type{&FunType{Parms: []Type{T}, Ret: U}},
			args:  []Type{&FunType{Parms: []Type{intType}, Ret: listOf(intType, &FinConst{N: 1})}},
			want:  "[T=Int, U=List<Int, 1>]",
		},
		{
			name:    "missing",
			parms:   []*TypeParm{T, U},
			pats:    []Type{T},
			args:    []Type{intType},
			want:    "[T=Int, U=<error>]",
			missing: "U",
		},
		{
			name:  "error arguments bind nothing",
			parms: []*TypeParm{T},
			pats:  []Type{T, T},
			args:  []Type{errSym, intType},
			want:  "[T=Int]",
		},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			sub, missing := inferSub(test.parms, test.pats, test.args)
			if got := sub.String(); got != test.want {
				t.Errorf("got %s, want %s", got, test.want)
			}
			if got := strings.Join(missing, ", "); got != test.missing {
				t.Errorf("got missing %q, want %q", got, test.missing)
			}
		})
	}
}

func TestAssignable(t *testing.T) {
	t.Parallel()
	T := &TypeParm{Name: "T"}
	N := &TypeParm{Name: "#N", Kind: ImmutableFin}
	F := &TypeParm{Name: "#F", Kind: ImmutableFin}
	list := &Builtin{Name: "List", TypeParms: []*TypeParm{T, N}}
	intType := &BasicType{Name: "Int"}
	listOf := func(n CostExpr) *Inst { return &Inst{Def: list, Args: []Type{intType, n}} }
	color := &Enum{Name: "Color"}
	red := &Object{Name: "Red", Enum: color}
	color.Members = []Symbol{red}

	tests := []struct {
		name     string
		dst, src Type
		want     bool
	}{
		{"same", intType, intType, true},
		{"error", intType, errSym, true},
		{"smaller bound", listOf(&FinConst{N: 5}), listOf(&FinConst{N: 3}), true},
		{"larger bound", listOf(&FinConst{N: 3}), listOf(&FinConst{N: 5}), false},
		{"bound under max", listOf(&Max{Args: []CostExpr{F, &FinConst{N: 2}}}), listOf(F), true},
		{"symbolic bounds", listOf(F), listOf(&FinConst{N: 1}), false},
		{"member to enum", color, red, true},
		{"enum to member", red, color, false},
		{"function types", &FunType{Parms: []Type{intType}, Ret: intType}, &FunType{Parms: []Type{intType}, Ret: intType}, true},
	}
	for _, test := range tests {
		if got := assignable(test.dst, test.src); got != test.want {
			t.Errorf("%s: assignable(%s, %s)=%v, want %v", test.name, test.dst, test.src, got, test.want)
		}
	}
}
