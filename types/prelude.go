// Copyright © 2020 The Pea Authors under an MIT-style license.

package types

import (
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"unicode/utf8"

	"github.com/eaburns/bound/ast"
)

// A PluginDef declares a plugin in source-text form.
// Type signatures and costs are written as type signifiers,
// and are resolved in a scope where the owner's type parameters
// and the plugin's own type parameters are visible.
type PluginDef struct {
	// Owner is the name of the basic or built-in type
	// of which the plugin is a member, or "" for a static plugin.
	Owner string
	// Namespace is the dotted namespace of a static plugin.
	// Namespaces that do not exist are created in the prelude.
	Namespace string
	Name      string
	// TypeParms are the plugin's own type parameters.
	TypeParms []string
	// Parms are the parameter types, not including the receiver.
	Parms []string
	// Ret is the return type; "" is Unit.
	Ret string
	// Cost is the cost of the plugin itself; "" is the default node cost.
	Cost string
	// Multipliers are the number of times
	// each function-typed parameter is invoked.
	// They may be nil or shorter than Parms.
	Multipliers []string
	// Distributed plugins are additionally charged
	// the architecture's distributed plugin cost.
	Distributed bool
	// Field makes a member a platform field
	// of type Ret, read without a call.
	Field bool
	// Impl is the native implementation.
	// It is nil for the members of collection types:
	// the evaluator picks their representation from the
	// linearized type and implements their members itself.
	Impl PluginFunc
}

var basicTypes = []string{"Int", "Bool", "Char", "String", "Unit"}

var costOps = []string{"Sum", "Mul", "Max"}

type builtinDef struct {
	name    string
	parms   []string
	mutable bool
	slot    func(x *state) **Builtin
}

var builtinDefs = []builtinDef{
	{"List", []string{"T", "#N"}, false, func(x *state) **Builtin { return &x.builtin.List }},
	{"Set", []string{"T", "#N"}, false, func(x *state) **Builtin { return &x.builtin.Set }},
	{"Dictionary", []string{"K", "V", "#N"}, false, func(x *state) **Builtin { return &x.builtin.Dictionary }},
	{"MutableList", []string{"T", "#N"}, true, func(x *state) **Builtin { return &x.builtin.MutableList }},
	{"MutableSet", []string{"T", "#N"}, true, func(x *state) **Builtin { return &x.builtin.MutableSet }},
	{"MutableDictionary", []string{"K", "V", "#N"}, true, func(x *state) **Builtin { return &x.builtin.MutableDictionary }},
	{"Pair", []string{"A", "B"}, false, func(x *state) **Builtin { return &x.builtin.Pair }},
}

// preludePlugins are the built-in plugins.
var preludePlugins = []PluginDef{
	{Owner: "Int", Name: "plus", Parms: []string{"Int"}, Ret: "Int", Impl: intOp(func(a, b int64) int64 { return a + b })},
	{Owner: "Int", Name: "minus", Parms: []string{"Int"}, Ret: "Int", Impl: intOp(func(a, b int64) int64 { return a - b })},
	{Owner: "Int", Name: "times", Parms: []string{"Int"}, Ret: "Int", Impl: intOp(func(a, b int64) int64 { return a * b })},
	{Owner: "Int", Name: "div", Parms: []string{"Int"}, Ret: "Int", Impl: intDiv(func(a, b int64) int64 { return a / b })},
	{Owner: "Int", Name: "mod", Parms: []string{"Int"}, Ret: "Int", Impl: intDiv(func(a, b int64) int64 { return a % b })},
	{Owner: "Int", Name: "negate", Ret: "Int", Impl: func(args []interface{}) (interface{}, error) { return -args[0].(int64), nil }},
	{Owner: "Int", Name: "lessThan", Parms: []string{"Int"}, Ret: "Bool", Impl: intCmp(func(a, b int64) bool { return a < b })},
	{Owner: "Int", Name: "lessThanOrEquals", Parms: []string{"Int"}, Ret: "Bool", Impl: intCmp(func(a, b int64) bool { return a <= b })},
	{Owner: "Int", Name: "greaterThan", Parms: []string{"Int"}, Ret: "Bool", Impl: intCmp(func(a, b int64) bool { return a > b })},
	{Owner: "Int", Name: "greaterThanOrEquals", Parms: []string{"Int"}, Ret: "Bool", Impl: intCmp(func(a, b int64) bool { return a >= b })},
	{Owner: "Int", Name: "equals", Parms: []string{"Int"}, Ret: "Bool", Impl: equals},
	{Owner: "Int", Name: "notEquals", Parms: []string{"Int"}, Ret: "Bool", Impl: notEquals},

	{Owner: "Bool", Name: "and", Parms: []string{"Bool"}, Ret: "Bool", Impl: func(args []interface{}) (interface{}, error) { return args[0].(bool) && args[1].(bool), nil }},
	{Owner: "Bool", Name: "or", Parms: []string{"Bool"}, Ret: "Bool", Impl: func(args []interface{}) (interface{}, error) { return args[0].(bool) || args[1].(bool), nil }},
	{Owner: "Bool", Name: "not", Ret: "Bool", Impl: func(args []interface{}) (interface{}, error) { return !args[0].(bool), nil }},
	{Owner: "Bool", Name: "equals", Parms: []string{"Bool"}, Ret: "Bool", Impl: equals},
	{Owner: "Bool", Name: "notEquals", Parms: []string{"Bool"}, Ret: "Bool", Impl: notEquals},

	{Owner: "Char", Name: "equals", Parms: []string{"Char"}, Ret: "Bool", Impl: equals},
	{Owner: "Char", Name: "notEquals", Parms: []string{"Char"}, Ret: "Bool", Impl: notEquals},
	{Owner: "Char", Name: "lessThan", Parms: []string{"Char"}, Ret: "Bool", Impl: charCmp(func(a, b rune) bool { return a < b })},
	{Owner: "Char", Name: "greaterThan", Parms: []string{"Char"}, Ret: "Bool", Impl: charCmp(func(a, b rune) bool { return a > b })},

	{Owner: "String", Name: "size", Ret: "Int", Field: true, Impl: func(args []interface{}) (interface{}, error) { return int64(utf8.RuneCountInString(args[0].(string))), nil }},
	{Owner: "String", Name: "plus", Parms: []string{"String"}, Ret: "String", Impl: func(args []interface{}) (interface{}, error) { return args[0].(string) + args[1].(string), nil }},
	{Owner: "String", Name: "equals", Parms: []string{"String"}, Ret: "Bool", Impl: equals},
	{Owner: "String", Name: "notEquals", Parms: []string{"String"}, Ret: "Bool", Impl: notEquals},

	{Owner: "List", Name: "size", Ret: "Int", Field: true},
	{Owner: "List", Name: "get", Parms: []string{"Int"}, Ret: "T"},
	{Owner: "List", Name: "contains", Parms: []string{"T"}, Ret: "Bool", Cost: "#N"},
	{Owner: "List", Name: "toSet", Ret: "Set<T, #N>", Cost: "#N"},
	{Owner: "List", Name: "map", TypeParms: []string{"R"}, Parms: []string{"(T) -> R"}, Ret: "List<R, #N>", Cost: "#N", Multipliers: []string{"#N"}},
	{Owner: "List", Name: "filter", Parms: []string{"(T) -> Bool"}, Ret: "List<T, #N>", Cost: "#N", Multipliers: []string{"#N"}},

	{Owner: "Set", Name: "size", Ret: "Int", Field: true},
	{Owner: "Set", Name: "contains", Parms: []string{"T"}, Ret: "Bool"},
	{Owner: "Set", Name: "toList", Ret: "List<T, #N>", Cost: "#N"},
	{Owner: "Set", Name: "map", TypeParms: []string{"R"}, Parms: []string{"(T) -> R"}, Ret: "Set<R, #N>", Cost: "#N", Multipliers: []string{"#N"}},
	{Owner: "Set", Name: "filter", Parms: []string{"(T) -> Bool"}, Ret: "Set<T, #N>", Cost: "#N", Multipliers: []string{"#N"}},

	{Owner: "Dictionary", Name: "size", Ret: "Int", Field: true},
	{Owner: "Dictionary", Name: "get", Parms: []string{"K"}, Ret: "V"},
	{Owner: "Dictionary", Name: "contains", Parms: []string{"K"}, Ret: "Bool"},
	{Owner: "Dictionary", Name: "toList", Ret: "List<Pair<K, V>, #N>", Cost: "#N"},

	{Owner: "MutableList", Name: "size", Ret: "Int", Field: true},
	{Owner: "MutableList", Name: "get", Parms: []string{"Int"}, Ret: "T"},
	{Owner: "MutableList", Name: "add", Parms: []string{"T"}},
	{Owner: "MutableList", Name: "set", Parms: []string{"Int", "T"}},
	{Owner: "MutableList", Name: "contains", Parms: []string{"T"}, Ret: "Bool", Cost: "#N"},
	{Owner: "MutableList", Name: "toList", Ret: "List<T, #N>", Cost: "#N"},

	{Owner: "MutableSet", Name: "size", Ret: "Int", Field: true},
	{Owner: "MutableSet", Name: "add", Parms: []string{"T"}},
	{Owner: "MutableSet", Name: "remove", Parms: []string{"T"}},
	{Owner: "MutableSet", Name: "contains", Parms: []string{"T"}, Ret: "Bool"},
	{Owner: "MutableSet", Name: "toSet", Ret: "Set<T, #N>", Cost: "#N"},

	{Owner: "MutableDictionary", Name: "size", Ret: "Int", Field: true},
	{Owner: "MutableDictionary", Name: "get", Parms: []string{"K"}, Ret: "V"},
	{Owner: "MutableDictionary", Name: "set", Parms: []string{"K", "V"}},
	{Owner: "MutableDictionary", Name: "remove", Parms: []string{"K"}},
	{Owner: "MutableDictionary", Name: "contains", Parms: []string{"K"}, Ret: "Bool"},
	{Owner: "MutableDictionary", Name: "toDictionary", Ret: "Dictionary<K, V, #N>", Cost: "#N"},

	{Owner: "Pair", Name: "first", Ret: "A", Field: true},
	{Owner: "Pair", Name: "second", Ret: "B", Field: true},

	{Namespace: "std", Name: "abs", Parms: []string{"Int"}, Ret: "Int", Impl: func(args []interface{}) (interface{}, error) {
		if n := args[0].(int64); n < 0 {
			return -n, nil
		}
		return args[0], nil
	}},
	{Namespace: "std", Name: "max", Parms: []string{"Int", "Int"}, Ret: "Int", Impl: func(args []interface{}) (interface{}, error) {
		if a, b := args[0].(int64), args[1].(int64); b > a {
			return b, nil
		}
		return args[0], nil
	}},
	{Namespace: "std", Name: "hash", TypeParms: []string{"T"}, Parms: []string{"T"}, Ret: "Int", Distributed: true, Impl: hash},
}

// reservedNamespaces may not be defined by user code.
var reservedNamespaces = []string{"std"}

// ErrDivideByZero is returned by the Int div and mod plugins.
var ErrDivideByZero = errors.New("divide by zero")

func intOp(f func(a, b int64) int64) PluginFunc {
	return func(args []interface{}) (interface{}, error) {
		return f(args[0].(int64), args[1].(int64)), nil
	}
}

func intDiv(f func(a, b int64) int64) PluginFunc {
	return func(args []interface{}) (interface{}, error) {
		if args[1].(int64) == 0 {
			return nil, ErrDivideByZero
		}
		return f(args[0].(int64), args[1].(int64)), nil
	}
}

func intCmp(f func(a, b int64) bool) PluginFunc {
	return func(args []interface{}) (interface{}, error) {
		return f(args[0].(int64), args[1].(int64)), nil
	}
}

func charCmp(f func(a, b rune) bool) PluginFunc {
	return func(args []interface{}) (interface{}, error) {
		return f(args[0].(rune), args[1].(rune)), nil
	}
}

// hash hashes the printed form of a value.
func hash(args []interface{}) (interface{}, error) {
	h := fnv.New64a()
	fmt.Fprintf(h, "%T:%v", args[0], args[0])
	return int64(h.Sum64() >> 1), nil
}

func equals(args []interface{}) (interface{}, error)    { return args[0] == args[1], nil }
func notEquals(args []interface{}) (interface{}, error) { return args[0] != args[1], nil }

// newPrelude creates the prelude scope holding the built-in definitions
// and the plugins of the configuration.
// Errors are only possible from configured plugins.
func newPrelude(x *state) (errs []*Error) {
	defer x.tr("newPrelude()")(&errs)

	x.prelude = x.scopes.New(NoScope, PreludeScope, nil)
	for _, name := range reservedNamespaces {
		x.scopes.Reserve(name)
	}
	for _, name := range basicTypes {
		t := &BasicType{Name: name, Members: make(map[string]Symbol)}
		mustDefine(x.scopes, x.prelude, name, t)
		switch name {
		case "Int":
			x.builtin.Int = t
		case "Bool":
			x.builtin.Bool = t
		case "Char":
			x.builtin.Char = t
		case "String":
			x.builtin.String = t
		case "Unit":
			x.builtin.Unit = t
		}
	}
	for _, name := range costOps {
		mustDefine(x.scopes, x.prelude, name, &CostOp{Name: name})
	}
	for _, def := range builtinDefs {
		b := &Builtin{Name: def.name, Support: FullSupport, Members: make(map[string]Symbol)}
		if def.mutable {
			b.Support = 0
		}
		b.Scope = x.scopes.New(x.prelude, BuiltinScope, b)
		for i, name := range def.parms {
			kind := Standard
			switch {
			case ast.IsFinName(name) && def.mutable:
				kind = MutableFin
			case ast.IsFinName(name):
				kind = ImmutableFin
			}
			p := &TypeParm{Name: name, Kind: kind, Def: b}
			b.TypeParms = append(b.TypeParms, p)
			mustDefine(x.scopes, b.Scope, def.parms[i], p)
		}
		mustDefine(x.scopes, x.prelude, def.name, b)
		*def.slot(x) = b
	}
	for i := range preludePlugins {
		if err := addPlugin(x, &preludePlugins[i]); err != nil {
			panic(fmt.Sprintf("impossible: bad prelude plugin: %s", err))
		}
	}
	for i := range x.cfg.Plugins {
		if err := addPlugin(x, &x.cfg.Plugins[i]); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func mustDefine(s *Scopes, id ScopeID, name string, sym Symbol) {
	if err := s.Define(id, name, sym); err != nil {
		panic("impossible: " + err.Error())
	}
}

// addPlugin resolves a plugin definition and adds it
// to its owner's members or its namespace.
func addPlugin(x *state, def *PluginDef) (err *Error) {
	defer x.tr("addPlugin(%s.%s)", def.Owner+def.Namespace, def.Name)(&err)

	invalid := func(f string, vs ...interface{}) *Error {
		owner := def.Owner
		if owner == "" {
			owner = def.Namespace
		}
		return &Error{
			Kind: InvalidPlugin,
			Msg:  fmt.Sprintf("plugin %s.%s: %s", owner, def.Name, fmt.Sprintf(f, vs...)),
		}
	}
	if def.Name == "" {
		return invalid("missing name")
	}

	p := &Plugin{Name: def.Name, Distributed: def.Distributed, Impl: def.Impl}
	var members map[string]Symbol
	parent := x.prelude
	switch {
	case def.Owner != "" && def.Namespace != "":
		return invalid("a plugin cannot have both an owner and a namespace")
	case def.Owner != "":
		sym, err := x.scopes.FetchHere(x.prelude, def.Owner)
		if err != nil {
			return invalid("%s", err.Msg)
		}
		switch o := sym.(type) {
		case *BasicType:
			members = o.Members
		case *Builtin:
			members = o.Members
			parent = o.Scope
		default:
			return invalid("%s %s cannot have members", o.kind(), o)
		}
		p.Owner = sym
	default:
		ns, err := preludeNamespace(x, def.Namespace)
		if err != nil {
			return invalid("%s", err.Msg)
		}
		parent = ns.Scope
	}
	if members != nil {
		if _, ok := members[def.Name]; ok {
			return invalid("%s already has a member %s", p.Owner, def.Name)
		}
	} else if x.scopes.ExistsHere(parent, def.Name) {
		return invalid("%s already exists", def.Name)
	}

	p.Scope = x.scopes.New(parent, PluginScope, p)
	for _, name := range def.TypeParms {
		kind := Standard
		if ast.IsFinName(name) {
			kind = ImmutableFin
		}
		tp := &TypeParm{Name: name, Kind: kind, Def: p}
		if err := x.scopes.Define(p.Scope, name, tp); err != nil {
			return invalid("%s", err.Msg)
		}
		p.TypeParms = append(p.TypeParms, tp)
	}
	resolve := func(src string) (Type, *Error) {
		n, err := ast.ParseType(src)
		if err != nil {
			return nil, invalid("%s", err)
		}
		t, errs := resolveType(x, p.Scope, n)
		if len(errs) > 0 {
			return nil, invalid("%s", errs[0].Msg)
		}
		return t, nil
	}
	for _, src := range def.Parms {
		t, err := resolve(src)
		if err != nil {
			return err
		}
		if !isValueType(t) {
			return invalid("%s is not a value type", t)
		}
		p.Parms = append(p.Parms, t)
	}
	p.Ret = x.builtin.Unit
	if def.Ret != "" {
		t, err := resolve(def.Ret)
		if err != nil {
			return err
		}
		p.Ret = t
	}
	if !isValueType(p.Ret) {
		return invalid("%s is not a value type", p.Ret)
	}
	p.Cost = constantFin
	if def.Cost != "" {
		t, err := resolve(def.Cost)
		if err != nil {
			return err
		}
		if !isCostValue(t) {
			return invalid("%s is not a cost", t)
		}
		p.Cost = t.(CostExpr)
	}
	if len(def.Multipliers) > len(p.Parms) {
		return invalid("%d multipliers for %d parameters", len(def.Multipliers), len(p.Parms))
	}
	p.Multipliers = make([]CostExpr, len(p.Parms))
	for i, src := range def.Multipliers {
		if src == "" {
			continue
		}
		if _, ok := p.Parms[i].(*FunType); !ok {
			return invalid("multiplier for parameter %d of non-function type %s", i, p.Parms[i])
		}
		t, err := resolve(src)
		if err != nil {
			return err
		}
		if !isCostValue(t) {
			return invalid("%s is not a cost", t)
		}
		p.Multipliers[i] = t.(CostExpr)
	}

	var sym Symbol = p
	if def.Field {
		if len(p.Parms) > 0 || len(p.TypeParms) > 0 || members == nil {
			return invalid("a field must be a member without parameters")
		}
		sym = &PlatformField{Name: def.Name, Type: p.Ret, Owner: p.Owner, Impl: def.Impl}
	}
	if members != nil {
		members[def.Name] = sym
		return nil
	}
	if err := x.scopes.Define(parent, def.Name, sym); err != nil {
		return invalid("%s", err.Msg)
	}
	return nil
}

// preludeNamespace returns the prelude namespace with a dotted path,
// creating it if needed.
func preludeNamespace(x *state, path string) (*Namespace, *Error) {
	if path == "" {
		return nil, &Error{Kind: InvalidPlugin, Msg: "a static plugin must have a namespace"}
	}
	parent := x.prelude
	var ns *Namespace
	for _, name := range strings.Split(path, ".") {
		if sym, err := x.scopes.FetchHere(parent, name); err == nil {
			n, ok := sym.(*Namespace)
			if !ok {
				return nil, &Error{Kind: InvalidPlugin, Msg: fmt.Sprintf("%s is a %s, not a namespace", name, sym.kind())}
			}
			ns = n
		} else {
			ns = &Namespace{Name: name}
			ns.Scope = x.scopes.New(parent, NamespaceScope, ns)
			if err := x.scopes.Define(parent, name, ns); err != nil {
				return nil, err
			}
		}
		parent = ns.Scope
	}
	return ns, nil
}
