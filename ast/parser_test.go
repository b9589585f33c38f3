// Copyright © 2020 The Pea Authors under an MIT-style license.

package ast

import (
	"regexp"
	"strings"
	"testing"

	"github.com/eaburns/bound/loc"
	"github.com/eaburns/pretty"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var ignoreRanges = cmpopts.IgnoreTypes(loc.Range{})

func TestParseStmts(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		want []Stmt
	}{
		{
			name: "val with type",
			src:  "val x: Int = 5",
			want: []Stmt{
				&Val{Name: "x", Type: &TypeName{Path: []string{"Int"}}, Expr: &Int{Text: "5"}},
			},
		},
		{
			name: "precedence",
			src:  "1 + 2 * 3 == 7 && !b",
			want: []Stmt{
				&Binary{
					Op: "&&",
					X: &Binary{
						Op: "==",
						X: &Binary{
							Op: "+",
							X:  &Int{Text: "1"},
							Y:  &Binary{Op: "*", X: &Int{Text: "2"}, Y: &Int{Text: "3"}},
						},
						Y: &Int{Text: "7"},
					},
					Y: &Unary{Op: "!", X: &Ident{Name: "b"}},
				},
			},
		},
		{
			name: "less than is not a type argument list",
			src:  "a < b",
			want: []Stmt{
				&Binary{Op: "<", X: &Ident{Name: "a"}, Y: &Ident{Name: "b"}},
			},
		},
		{
			name: "explicit type arguments",
			src:  "f<Int, 5>(x)",
			want: []Stmt{
				&Apply{
					Fun:      &Ident{Name: "f"},
					TypeArgs: []TypeNode{&TypeName{Path: []string{"Int"}}, &FinLit{Text: "5"}},
					Args:     []Expr{&Ident{Name: "x"}},
				},
			},
		},
		{
			name: "member call",
			src:  "xs.get(0)",
			want: []Stmt{
				&Apply{
					Fun:  &Dot{X: &Ident{Name: "xs"}, Name: "get"},
					Args: []Expr{&Int{Text: "0"}},
				},
			},
		},
		{
			name: "field assignment",
			src:  "p.y = 3",
			want: []Stmt{
				&Assign{Target: &Dot{X: &Ident{Name: "p"}, Name: "y"}, Expr: &Int{Text: "3"}},
			},
		},
		{
			name: "for loop",
			src:  "for (x in xs) { x }",
			want: []Stmt{
				&For{
					Var:    "x",
					Source: &Ident{Name: "xs"},
					Body:   &Block{Stmts: []Stmt{&Ident{Name: "x"}}},
				},
			},
		},
		{
			name: "if else if",
			src:  "if (a) { 1 } else if (b) { 2 } else { 3 }",
			want: []Stmt{
				&If{
					Cond: &Ident{Name: "a"},
					Then: &Block{Stmts: []Stmt{&Int{Text: "1"}}},
					Else: &If{
						Cond: &Ident{Name: "b"},
						Then: &Block{Stmts: []Stmt{&Int{Text: "2"}}},
						Else: &Block{Stmts: []Stmt{&Int{Text: "3"}}},
					},
				},
			},
		},
		{
			name: "switch",
			src:  "switch (o) { case Some { 1 } case None { 0 } }",
			want: []Stmt{
				&Switch{
					Source: &Ident{Name: "o"},
					Cases: []*Case{
						{Name: "Some", Body: &Block{Stmts: []Stmt{&Int{Text: "1"}}}},
						{Name: "None", Body: &Block{Stmts: []Stmt{&Int{Text: "0"}}}},
					},
				},
			},
		},
		{
			name: "lambda",
			src:  "lambda (x: Int) -> x + 1",
			want: []Stmt{
				&Lambda{
					Parms: []*Parm{{Name: "x", Type: &TypeName{Path: []string{"Int"}}}},
					Body:  &Binary{Op: "+", X: &Ident{Name: "x"}, Y: &Int{Text: "1"}},
				},
			},
		},
		{
			name: "as and is",
			src:  "o as Option<Int> is Some<Int>",
			want: []Stmt{
				&Is{
					X: &As{
						X: &Ident{Name: "o"},
						Type: &TypeName{
							Path: []string{"Option"},
							Args: []TypeNode{&TypeName{Path: []string{"Int"}}},
						},
					},
					Type: &TypeName{
						Path: []string{"Some"},
						Args: []TypeNode{&TypeName{Path: []string{"Int"}}},
					},
				},
			},
		},
		{
			name: "literals",
			src:  `'a'; "b\n"; true; false`,
			want: []Stmt{
				&Char{Text: "'a'", Rune: 'a'},
				&String{Text: `"b\n"`, Data: "b\n"},
				&Bool{Val: true},
				&Bool{Val: false},
			},
		},
		{
			name: "fun definition",
			src:  "fun f<T, #N>(xs: List<T, #N>, g: (T) -> Int): Int { 1 }",
			want: []Stmt{
				&Fun{
					Name:      "f",
					TypeParms: []*TypeParm{{Name: "T"}, {Name: "#N"}},
					Parms: []*Parm{
						{
							Name: "xs",
							Type: &TypeName{
								Path: []string{"List"},
								Args: []TypeNode{
									&TypeName{Path: []string{"T"}},
									&TypeName{Path: []string{"#N"}},
								},
							},
						},
						{
							Name: "g",
							Type: &FunType{
								Parms: []TypeNode{&TypeName{Path: []string{"T"}}},
								Ret:   &TypeName{Path: []string{"Int"}},
							},
						},
					},
					Ret:  &TypeName{Path: []string{"Int"}},
					Body: &Block{Stmts: []Stmt{&Int{Text: "1"}}},
				},
			},
		},
		{
			name: "enum and namespace",
			src: `
				namespace geo {
					record Point(x: Int, var y: Int)
					enum Shape { record Circle(r: Int) object Empty }
				}
			`,
			want: []Stmt{
				&Namespace{
					Name: "geo",
					Defs: []Def{
						&Record{
							Name: "Point",
							Fields: []*Field{
								{Name: "x", Type: &TypeName{Path: []string{"Int"}}},
								{Name: "y", Type: &TypeName{Path: []string{"Int"}}, Mutable: true},
							},
						},
						&Enum{
							Name: "Shape",
							Members: []Def{
								&Record{
									Name:   "Circle",
									Fields: []*Field{{Name: "r", Type: &TypeName{Path: []string{"Int"}}}},
								},
								&Object{Name: "Empty"},
							},
						},
					},
				},
			},
		},
		{
			name: "qualified reference",
			src:  "geo.Point(1, 2)",
			want: []Stmt{
				&Apply{
					Fun:  &Dot{X: &Ident{Name: "geo"}, Name: "Point"},
					Args: []Expr{&Int{Text: "1"}, &Int{Text: "2"}},
				},
			},
		},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			f, err := Parse("", strings.NewReader(test.src))
			if err != nil {
				t.Fatalf("Parse(%q) failed: %s", test.src, err)
			}
			if diff := cmp.Diff(test.want, f.Stmts, ignoreRanges); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s\ngot:\n%s",
					test.src, diff, pretty.String(f.Stmts))
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		src string
		// pos is the byte offset of the failure.
		pos int
		err string
	}{
		{src: "val = 5", pos: 4, err: "identifier"},
		{src: "fun f(x Int) {}", pos: 8, err: `":"`},
		{src: "1 +", pos: 3, err: "expression"},
		{src: `"abc`, pos: 4, err: `"\\""`},
		{src: "x @ y", pos: 2, err: "token"},
		{src: "record R(x: Int", pos: 15, err: `"\)"`},
	}
	for _, test := range tests {
		_, err := Parse("test.bnd", strings.NewReader(test.src))
		if err == nil {
			t.Errorf("Parse(%q) succeeded, want error", test.src)
			continue
		}
		fail := FailTree(err)
		if fail == nil {
			t.Errorf("Parse(%q) error has no failure tree: %v", test.src, err)
			continue
		}
		var wants []string
		for _, k := range fail.Kids {
			if k.Pos != test.pos {
				t.Errorf("Parse(%q) failure at %d, want %d", test.src, k.Pos, test.pos)
			}
			wants = append(wants, k.Want)
		}
		if !regexp.MustCompile(test.err).MatchString(strings.Join(wants, " ")) {
			t.Errorf("Parse(%q) wants %v, want match for %q", test.src, wants, test.err)
		}
	}
}

func TestSharedLocs(t *testing.T) {
	p := NewParser()
	if _, err := p.Parse("a.bnd", strings.NewReader("val a = 1\n")); err != nil {
		t.Fatalf("Parse failed: %s", err)
	}
	f, err := p.Parse("b.bnd", strings.NewReader("\n  val b = 2"))
	if err != nil {
		t.Fatalf("Parse failed: %s", err)
	}
	got := f.Loc(f.Stmts[0])
	want := loc.Loc{Path: "b.bnd", Line: [2]int{2, 2}, Col: [2]int{3, 12}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Loc mismatch (-want +got):\n%s", diff)
	}
}

func TestReadImports(t *testing.T) {
	src := `
		import util.geo
		import std2
		val x = 1
	`
	got, err := ReadImports("", strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadImports failed: %s", err)
	}
	want := [][]string{{"util", "geo"}, {"std2"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadImports mismatch (-want +got):\n%s", diff)
	}
}

func TestTypeString(t *testing.T) {
	tests := []string{
		"Int",
		"List<T, #N>",
		"Dictionary<String, List<Int, 3>, Max<#N, #M>>",
		"(Int, Bool) -> Unit",
		"() -> geo.Point",
	}
	for _, src := range tests {
		typ, err := ParseType(src)
		if err != nil {
			t.Errorf("ParseType(%q) failed: %s", src, err)
			continue
		}
		var s strings.Builder
		buildTypeString(typ, &s)
		if s.String() != src {
			t.Errorf("ParseType(%q).String()=%q", src, s.String())
		}
	}
}

func TestDefString(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"fun f() {}", "fun f()"},
		{"fun f<T>(x: T): T { x }", "fun f<T>(x: T): T"},
		{"record R<#N>(var xs: List<Int, #N>)", "record R<#N>(var xs: List<Int, #N>)"},
		{"enum E<T> { record A<T>(t: T) }", "enum E<T>"},
		{"object O", "object O"},
	}
	for _, test := range tests {
		f, err := Parse("", strings.NewReader(test.src))
		if err != nil {
			t.Errorf("Parse(%q) failed: %s", test.src, err)
			continue
		}
		s, ok := f.Stmts[0].(interface{ String() string })
		if !ok {
			t.Errorf("%T has no String method", f.Stmts[0])
			continue
		}
		if got := s.String(); got != test.want {
			t.Errorf("(%q).String()=%q, want %q", test.src, got, test.want)
		}
	}
}

func TestWalk(t *testing.T) {
	f, err := Parse("", strings.NewReader("fun f() { val x = g(1, h(2)); if (x) { 3 } }"))
	if err != nil {
		t.Fatalf("Parse failed: %s", err)
	}
	var apps, ints int
	Walk(f, func(n Node) bool {
		switch n.(type) {
		case *Apply:
			apps++
		case *Int:
			ints++
		}
		return true
	})
	if apps != 2 || ints != 3 {
		t.Errorf("Walk saw %d applies and %d ints, want 2 and 3", apps, ints)
	}
}
