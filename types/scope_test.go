// Copyright © 2020 The Pea Authors under an MIT-style license.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopesDefine(t *testing.T) {
	t.Parallel()
	s := NewScopes()
	prelude := s.New(NoScope, PreludeScope, nil)
	file := s.New(prelude, FileScope, nil)

	a := &Object{Name: "a"}
	require.Nil(t, s.Define(file, "a", a))
	assert.True(t, s.ExistsHere(file, "a"))
	assert.False(t, s.ExistsHere(prelude, "a"))

	err := s.Define(file, "a", &Object{Name: "a"})
	require.NotNil(t, err)
	assert.Equal(t, AlreadyExists, err.Kind)
	assert.Equal(t, "a redefined", err.Msg)

	require.Nil(t, s.Define(file, "b", &Object{Name: "b"}))
	assert.Equal(t, []string{"a", "b"}, s.Names(file))
}

func TestScopesMergeNamespaces(t *testing.T) {
	t.Parallel()
	s := NewScopes()
	file := s.New(NoScope, FileScope, nil)
	newNS := func(defs ...Symbol) *Namespace {
		ns := &Namespace{Name: "n"}
		ns.Scope = s.New(file, NamespaceScope, ns)
		for _, d := range defs {
			require.Nil(t, s.Define(ns.Scope, d.String(), d))
		}
		return ns
	}

	a, b := &Object{Name: "a"}, &Object{Name: "b"}
	ns1 := newNS(a)
	ns2 := newNS(b)
	require.Nil(t, s.Define(file, "n", ns1))
	require.Nil(t, s.Define(file, "n", ns2))
	assert.Equal(t, ns1.Scope, ns2.Scope)

	got, err := s.Fetch(file, []string{"n", "a"})
	require.Nil(t, err)
	assert.Same(t, a, got)
	got, err = s.Fetch(file, []string{"n", "b"})
	require.Nil(t, err)
	assert.Same(t, b, got)
	assert.Equal(t, []string{"a", "b"}, s.Names(ns1.Scope))

	err = s.Define(file, "n", newNS(&Object{Name: "a"}))
	require.NotNil(t, err)
	assert.Equal(t, AlreadyExists, err.Kind)
	assert.Equal(t, "a redefined", err.Msg)

	err = s.Define(file, "n", &Object{Name: "n"})
	require.NotNil(t, err)
	assert.Equal(t, AlreadyExists, err.Kind)
}

func TestScopesReserved(t *testing.T) {
	t.Parallel()
	s := NewScopes()
	prelude := s.New(NoScope, PreludeScope, nil)
	s.Reserve("std")
	std := &Namespace{Name: "std"}
	std.Scope = s.New(prelude, NamespaceScope, std)
	require.Nil(t, s.Define(prelude, "std", std))
	require.Nil(t, s.Define(std.Scope, "abs", &Object{Name: "abs"}))

	file := s.New(prelude, FileScope, nil)
	err := s.Define(file, "std", &Namespace{Name: "std", Scope: s.New(file, NamespaceScope, nil)})
	require.NotNil(t, err)
	assert.Equal(t, ReservedNamespace, err.Kind)

	ns := &Namespace{Name: "user"}
	ns.Scope = s.New(file, NamespaceScope, ns)
	require.Nil(t, s.Define(file, "user", ns))
	err = s.Define(ns.Scope, "std", &Object{Name: "std"})
	require.NotNil(t, err)
	assert.Equal(t, ReservedNamespace, err.Kind)

	assert.True(t, s.Exists(file, []string{"std", "abs"}))
}

func TestScopesFetch(t *testing.T) {
	t.Parallel()
	s := NewScopes()
	prelude := s.New(NoScope, PreludeScope, nil)
	lib1 := s.New(prelude, FileScope, nil)
	lib2 := s.New(prelude, FileScope, nil)
	file := s.New(prelude, FileScope, nil)
	s.Import(file, lib1)
	s.Import(file, lib2)
	s.Import(file, lib1)
	block := s.New(file, BlockScope, nil)

	intType := &BasicType{Name: "Int"}
	require.Nil(t, s.Define(prelude, "Int", intType))

	shared := &Object{Name: "shared"}
	x1, x2 := &Object{Name: "x"}, &Object{Name: "x"}
	require.Nil(t, s.Define(lib1, "x", x1))
	require.Nil(t, s.Define(lib2, "x", x2))
	require.Nil(t, s.Define(lib1, "shared", shared))
	require.Nil(t, s.Define(lib2, "shared", shared))
	only := &Object{Name: "only"}
	require.Nil(t, s.Define(lib2, "only", only))

	ns := &Namespace{Name: "n"}
	ns.Scope = s.New(file, NamespaceScope, ns)
	require.Nil(t, s.Define(file, "n", ns))
	inner := &Namespace{Name: "m"}
	inner.Scope = s.New(ns.Scope, NamespaceScope, inner)
	require.Nil(t, s.Define(ns.Scope, "m", inner))
	deep := &Object{Name: "deep"}
	require.Nil(t, s.Define(inner.Scope, "deep", deep))

	// A local n that is not a namespace does not hide the namespace n
	// from a dotted path.
	local := &Object{Name: "n"}
	require.Nil(t, s.Define(block, "n", local))

	tests := []struct {
		name string
		from ScopeID
		path []string
		want Symbol
		kind ErrorKind
		msg  string
	}{
		{name: "prelude", from: block, path: []string{"Int"}, want: intType},
		{name: "import", from: block, path: []string{"only"}, want: only},
		{name: "same symbol imported twice", from: file, path: []string{"shared"}, want: shared},
		{name: "ambiguous", from: block, path: []string{"x"}, kind: Ambiguous, msg: "x is ambiguous"},
		{name: "local", from: block, path: []string{"n"}, want: local},
		{name: "through a local", from: block, path: []string{"n", "m", "deep"}, want: deep},
		{name: "missing", from: block, path: []string{"nope"}, kind: NotFound, msg: "nope not found"},
		{name: "missing in namespace", from: file, path: []string{"n", "nope"}, kind: NotFound, msg: "n.nope not found"},
		{name: "not a namespace", from: file, path: []string{"n", "m", "deep", "x"}, kind: NotFound, msg: "m.deep.x not found"},
		{name: "imports are not inherited", from: lib1, path: []string{"only"}, kind: NotFound, msg: "only not found"},
	}
	for _, test := range tests {
		got, err := s.Fetch(test.from, test.path)
		if test.want != nil {
			if assert.Nil(t, err, test.name) {
				assert.Same(t, test.want, got, test.name)
			}
			continue
		}
		if assert.NotNil(t, err, test.name) {
			assert.Equal(t, test.kind, err.Kind, test.name)
			assert.Equal(t, test.msg, err.Msg, test.name)
		}
	}

	_, err := s.Fetch(file, []string{"x"})
	require.NotNil(t, err)
	assert.Equal(t, []string{"object x is imported", "object x is imported"}, err.Notes)
}

func TestScopesEnclosing(t *testing.T) {
	t.Parallel()
	s := NewScopes()
	prelude := s.New(NoScope, PreludeScope, nil)
	file := s.New(prelude, FileScope, nil)
	fun := s.New(file, FunScope, nil)
	block := s.New(fun, BlockScope, nil)
	lambda := s.New(block, LambdaScope, nil)

	assert.Equal(t, fun, s.enclosing(lambda, FunScope))
	assert.Equal(t, lambda, s.enclosing(lambda, LambdaScope, FunScope))
	assert.Equal(t, NoScope, s.enclosing(block, RecordScope))
	assert.True(t, s.isAncestor(file, lambda))
	assert.True(t, s.isAncestor(lambda, lambda))
	assert.False(t, s.isAncestor(lambda, file))
	assert.Equal(t, fun, s.Parent(block))
	assert.Equal(t, LambdaScope, s.Kind(lambda))
}
