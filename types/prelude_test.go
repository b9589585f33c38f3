// Copyright © 2020 The Pea Authors under an MIT-style license.

package types

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPrelude(t *testing.T, plugins ...PluginDef) (*state, []*Error) {
	t.Helper()
	x := newState(Config{Plugins: plugins})
	return x, newPrelude(x)
}

func TestPreludeDefinitions(t *testing.T) {
	t.Parallel()
	x, errs := newTestPrelude(t)
	require.Empty(t, errs)

	for _, name := range []string{"Int", "Bool", "Char", "String", "Unit", "Sum", "Mul", "Max", "List", "Pair"} {
		assert.True(t, x.scopes.ExistsHere(x.prelude, name), name)
	}
	assert.Equal(t, "List<T, #N>", x.builtin.List.String())
	assert.Equal(t, FullSupport, x.builtin.List.Support)
	assert.Equal(t, Support(0), x.builtin.MutableList.Support)
	assert.Equal(t, ImmutableFin, x.builtin.Dictionary.TypeParms[2].Kind)
	assert.Equal(t, MutableFin, x.builtin.MutableDictionary.TypeParms[2].Kind)

	mp, ok := x.builtin.List.Members["map"].(*Plugin)
	require.True(t, ok)
	assert.Equal(t, "List<T, #N>.map<R>((T) -> R): List<R, #N>", mp.String())
	assert.Equal(t, "#N", mp.Cost.String())
	require.Len(t, mp.Multipliers, 1)
	assert.Same(t, x.builtin.List.TypeParms[1], mp.Multipliers[0])

	size, ok := x.builtin.String.Members["size"].(*PlatformField)
	require.True(t, ok)
	assert.Same(t, x.builtin.Int, size.Type)

	hash, err := x.scopes.Fetch(x.prelude, []string{"std", "hash"})
	require.Nil(t, err)
	assert.True(t, hash.(*Plugin).Distributed)

	plus := x.builtin.Int.Members["plus"].(*Plugin)
	assert.Same(t, constantFin, plus.Cost)
	assert.Same(t, x.builtin.Int, plus.Owner)
}

func TestPreludeImpls(t *testing.T) {
	t.Parallel()
	x, errs := newTestPrelude(t)
	require.Empty(t, errs)

	call := func(owner Symbol, name string, args ...interface{}) (interface{}, error) {
		var impl PluginFunc
		switch o := owner.(type) {
		case *BasicType:
			switch m := o.Members[name].(type) {
			case *Plugin:
				impl = m.Impl
			case *PlatformField:
				impl = m.Impl
			}
		case *Namespace:
			sym, err := x.scopes.FetchHere(o.Scope, name)
			require.Nil(t, err)
			impl = sym.(*Plugin).Impl
		}
		require.NotNil(t, impl, name)
		return impl(args)
	}
	std, err := x.scopes.FetchHere(x.prelude, "std")
	require.Nil(t, err)

	tests := []struct {
		owner Symbol
		name  string
		args  []interface{}
		want  interface{}
	}{
		{x.builtin.Int, "plus", []interface{}{int64(2), int64(3)}, int64(5)},
		{x.builtin.Int, "minus", []interface{}{int64(2), int64(3)}, int64(-1)},
		{x.builtin.Int, "times", []interface{}{int64(4), int64(3)}, int64(12)},
		{x.builtin.Int, "div", []interface{}{int64(7), int64(2)}, int64(3)},
		{x.builtin.Int, "mod", []interface{}{int64(7), int64(2)}, int64(1)},
		{x.builtin.Int, "negate", []interface{}{int64(7)}, int64(-7)},
		{x.builtin.Int, "lessThan", []interface{}{int64(1), int64(2)}, true},
		{x.builtin.Int, "greaterThanOrEquals", []interface{}{int64(1), int64(2)}, false},
		{x.builtin.Int, "equals", []interface{}{int64(2), int64(2)}, true},
		{x.builtin.Bool, "and", []interface{}{true, false}, false},
		{x.builtin.Bool, "or", []interface{}{true, false}, true},
		{x.builtin.Bool, "not", []interface{}{true}, false},
		{x.builtin.String, "plus", []interface{}{"a", "b"}, "ab"},
		{x.builtin.String, "notEquals", []interface{}{"a", "b"}, true},
		{std, "abs", []interface{}{int64(-4)}, int64(4)},
		{std, "max", []interface{}{int64(3), int64(9)}, int64(9)},
		{x.builtin.Char, "lessThan", []interface{}{'a', 'b'}, true},
		{x.builtin.Char, "greaterThan", []interface{}{'a', 'b'}, false},
		{x.builtin.String, "size", []interface{}{"héllo"}, int64(5)},
	}
	for _, test := range tests {
		got, err := call(test.owner, test.name, test.args...)
		if assert.NoError(t, err, test.name) {
			assert.Equal(t, test.want, got, "%s%v", test.name, test.args)
		}
	}

	for _, name := range []string{"div", "mod"} {
		_, err := call(x.builtin.Int, name, int64(1), int64(0))
		assert.True(t, errors.Is(err, ErrDivideByZero), name)
	}

	h1, hashErr := call(std, "hash", "abc")
	require.NoError(t, hashErr)
	h2, hashErr := call(std, "hash", "abc")
	require.NoError(t, hashErr)
	h3, hashErr := call(std, "hash", int64(7))
	require.NoError(t, hashErr)
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.GreaterOrEqual(t, h1.(int64), int64(0))

	for _, b := range []*BasicType{x.builtin.Int, x.builtin.Bool, x.builtin.Char, x.builtin.String} {
		for name, m := range b.Members {
			switch m := m.(type) {
			case *Plugin:
				assert.NotNil(t, m.Impl, "%s.%s", b, name)
			case *PlatformField:
				assert.NotNil(t, m.Impl, "%s.%s", b, name)
			}
		}
	}
}

func TestInvalidPlugins(t *testing.T) {
	t.Parallel()
	tests := []struct {
		def  PluginDef
		want string
	}{
		{PluginDef{Owner: "Int"}, "plugin Int.: missing name"},
		{PluginDef{Owner: "Int", Namespace: "std", Name: "f"}, "plugin Int.f: a plugin cannot have both an owner and a namespace"},
		{PluginDef{Owner: "Nope", Name: "f"}, "plugin Nope.f: Nope not found"},
		{PluginDef{Owner: "Sum", Name: "f"}, "plugin Sum.f: cost combinator Sum cannot have members"},
		{PluginDef{Owner: "Int", Name: "plus"}, "plugin Int.plus: Int already has a member plus"},
		{PluginDef{Name: "f"}, "plugin .f: a static plugin must have a namespace"},
		{PluginDef{Namespace: "Int", Name: "f"}, "plugin Int.f: Int is a type, not a namespace"},
		{PluginDef{Namespace: "std", Name: "abs"}, "plugin std.abs: abs already exists"},
		{PluginDef{Owner: "Int", Name: "f", Parms: []string{"Nope"}}, "plugin Int.f: Nope not found"},
		{PluginDef{Owner: "Int", Name: "f", Parms: []string{"Sum<1, 2>"}}, "plugin Int.f: Sum<1, 2> is not a value type"},
		{PluginDef{Owner: "Int", Name: "f", Ret: "List"}, "plugin Int.f: type List<T, #N> requires type arguments"},
		{PluginDef{Owner: "Int", Name: "f", Cost: "Int"}, "plugin Int.f: Int is not a cost"},
		{PluginDef{Owner: "Int", Name: "f", Cost: "0"}, "plugin Int.f: magnitude 0 is not positive"},
		{PluginDef{Owner: "Int", Name: "f", Multipliers: []string{"1"}}, "plugin Int.f: 1 multipliers for 0 parameters"},
		{PluginDef{Owner: "Int", Name: "f", Parms: []string{"Int"}, Multipliers: []string{"2"}}, "plugin Int.f: multiplier for parameter 0 of non-function type Int"},
		{PluginDef{Owner: "Int", Name: "f", Parms: []string{"Int"}, Field: true}, "plugin Int.f: a field must be a member without parameters"},
		{PluginDef{Namespace: "net", Name: "f", Field: true}, "plugin net.f: a field must be a member without parameters"},
	}
	for _, test := range tests {
		_, errs := newTestPrelude(t, test.def)
		if !assert.Len(t, errs, 1, test.want) {
			continue
		}
		assert.Equal(t, InvalidPlugin, errs[0].Kind, test.want)
		assert.Equal(t, test.want, errs[0].Msg)
	}
}

func TestConfiguredPlugins(t *testing.T) {
	t.Parallel()
	x, errs := newTestPrelude(t,
		PluginDef{Namespace: "net.http", Name: "get", Parms: []string{"String"}, Ret: "String", Cost: "10", Distributed: true},
		PluginDef{Owner: "List", Name: "fold", TypeParms: []string{"A"}, Parms: []string{"A", "(A, T) -> A"}, Ret: "A", Cost: "#N", Multipliers: []string{"", "#N"}},
		PluginDef{Owner: "Int", Name: "bits", Ret: "Int", Field: true},
	)
	require.Empty(t, errs)

	get, err := x.scopes.Fetch(x.prelude, []string{"net", "http", "get"})
	require.Nil(t, err)
	p := get.(*Plugin)
	assert.Equal(t, "10", p.Cost.String())
	assert.True(t, p.Distributed)
	assert.Nil(t, p.Owner)

	fold := x.builtin.List.Members["fold"].(*Plugin)
	require.Len(t, fold.Multipliers, 2)
	assert.Nil(t, fold.Multipliers[0])
	assert.Equal(t, "#N", fold.Multipliers[1].String())
	assert.True(t, strings.HasPrefix(fold.String(), "List<T, #N>.fold<A>(A, (A, T) -> A)"))

	_, ok := x.builtin.Int.Members["bits"].(*PlatformField)
	assert.True(t, ok)
}
