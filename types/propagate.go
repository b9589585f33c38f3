// Copyright © 2020 The Pea Authors under an MIT-style license.

package types

import (
	"sort"
	"strconv"
	"strings"

	"github.com/eaburns/bound/ast"
	"github.com/eaburns/bound/mod"
)

// propagateFiles types the top-level statements of every file,
// then the body of every function.
func propagateFiles(x *state, units []*mod.Unit) (errs []*Error) {
	defer x.tr("propagateFiles()")(&errs)

	for _, u := range units {
		x.file = u.File
		sc := x.fileScopes[u.File]
		for _, s := range u.File.Stmts {
			if _, ok := s.(ast.Def); ok {
				continue
			}
			_, es := stmt(x, sc, s)
			errs = append(errs, es...)
		}
	}
	for _, def := range x.defs {
		if f, ok := def.(*Fun); ok {
			errs = append(errs, propagateFun(x, f)...)
		}
	}
	return errs
}

func propagateFun(x *state, f *Fun) (errs []*Error) {
	defer x.inFile(f)()
	defer x.tr("propagateFun(%s)", f.Name)(&errs)

	t, errs := expr(x, f.Scope, f.AST.Body)
	if f.Ret != Type(x.builtin.Unit) && !assignable(f.Ret, t) {
		err := x.err(f.AST.Body, TypeMismatch, "%s returns %s, want %s", f.Name, t, f.Ret)
		err.Symbols = []Symbol{t, f.Ret}
		errs = append(errs, err)
	}
	return errs
}

// stmt types a statement and returns its type;
// the type of a non-expression statement is Unit.
func stmt(x *state, sc ScopeID, s ast.Stmt) (Type, []*Error) {
	switch s := s.(type) {
	case *ast.Val:
		return x.builtin.Unit, val(x, sc, s)
	case *ast.Assign:
		return x.builtin.Unit, assign(x, sc, s)
	case ast.Def:
		// Nested definitions are reported by the feature bans.
		return x.builtin.Unit, nil
	case ast.Expr:
		return expr(x, sc, s)
	default:
		panic("impossible stmt type")
	}
}

func val(x *state, sc ScopeID, n *ast.Val) (errs []*Error) {
	defer x.tr("val(%s)", n.Name)(&errs)

	t, errs := expr(x, sc, n.Expr)
	if n.Type != nil {
		want, es := resolveValueType(x, sc, n.Type, 0, "value")
		errs = append(errs, es...)
		if !assignable(want, t) {
			err := x.err(n.Expr, TypeMismatch, "cannot use %s as %s", t, want)
			err.Symbols = []Symbol{t}
			errs = append(errs, err)
		}
		t = want
	}
	lv := &LocalVar{AST: n, Name: n.Name, Type: t, Scope: sc}
	if err := x.scopes.Define(sc, n.Name, lv); err != nil {
		errs = append(errs, x.locate(err, n))
	}
	x.info.Defs[n] = lv
	return errs
}

func assign(x *state, sc ScopeID, n *ast.Assign) (errs []*Error) {
	defer x.tr("assign(%s)", n.Target.Name)(&errs)

	rt, errs := expr(x, sc, n.Target.X)
	vt, es := expr(x, sc, n.Expr)
	errs = append(errs, es...)
	x.info.Types[n.Target] = errSym
	if IsError(rt) {
		return errs
	}
	m, sub, ok := member(rt, n.Target.Name)
	if !ok {
		return append(errs, noSuchMember(x, n.Target, rt))
	}
	x.info.Uses[n.Target] = m
	f, ok := m.(*Field)
	if !ok || !f.Mutable {
		return append(errs, x.err(n.Target, ImmutableAssign, "cannot assign to immutable field %s of %s", n.Target.Name, rt))
	}
	ft := sub.Replay(f.Type)
	x.info.Types[n.Target] = ft
	if !assignable(ft, vt) {
		err := x.err(n.Expr, TypeMismatch, "cannot assign %s to field %s of type %s", vt, f.Name, ft)
		err.Symbols = []Symbol{vt}
		errs = append(errs, err)
	}
	return errs
}

// expr types an expression, records its type, and returns it.
// The type is the error sentinel if it could not be determined.
func expr(x *state, sc ScopeID, e ast.Expr) (Type, []*Error) {
	t, errs := expr1(x, sc, e)
	if t == nil {
		t = errSym
	}
	x.info.Types[e] = t
	return t, errs
}

func expr1(x *state, sc ScopeID, e ast.Expr) (Type, []*Error) {
	switch e := e.(type) {
	case *ast.Int:
		if _, err := strconv.ParseInt(e.Text, 10, 64); err != nil {
			return x.builtin.Int, []*Error{x.err(e, IntRange, "integer %s is out of range", e.Text)}
		}
		return x.builtin.Int, nil
	case *ast.Char:
		return x.builtin.Char, nil
	case *ast.String:
		return x.builtin.String, nil
	case *ast.Bool:
		return x.builtin.Bool, nil
	case *ast.Block:
		return block(x, sc, e)
	case *ast.Ident:
		sym, err := x.scopes.Fetch(sc, []string{e.Name})
		if err != nil {
			return errSym, []*Error{x.locate(err, e)}
		}
		return valueOf(x, sc, e, sym)
	case *ast.Dot:
		return dot(x, sc, e)
	case *ast.Apply:
		return apply(x, sc, e)
	case *ast.Binary:
		return binary(x, sc, e)
	case *ast.Unary:
		return unary(x, sc, e)
	case *ast.If:
		return ifExpr(x, sc, e)
	case *ast.For:
		return forExpr(x, sc, e)
	case *ast.Switch:
		return switchExpr(x, sc, e)
	case *ast.Lambda:
		return lambda(x, sc, e)
	case *ast.As:
		return as(x, sc, e)
	case *ast.Is:
		return is(x, sc, e)
	default:
		panic("impossible expr type")
	}
}

func exprs(x *state, sc ScopeID, es []ast.Expr) ([]Type, []*Error) {
	var errs []*Error
	ts := make([]Type, len(es))
	for i, e := range es {
		t, es := expr(x, sc, e)
		errs = append(errs, es...)
		ts[i] = t
	}
	return ts, errs
}

// newBlock returns a new scope for a block, loop, case, or lambda.
func newBlock(x *state, sc ScopeID, kind ScopeKind, n ast.Node) ScopeID {
	b := &Block{AST: n}
	b.Scope = x.scopes.New(sc, kind, b)
	x.info.Scopes[n] = b.Scope
	return b.Scope
}

func block(x *state, sc ScopeID, n *ast.Block) (_ Type, errs []*Error) {
	bs := newBlock(x, sc, BlockScope, n)
	var t Type = x.builtin.Unit
	for _, s := range n.Stmts {
		var es []*Error
		t, es = stmt(x, bs, s)
		errs = append(errs, es...)
	}
	return t, errs
}

// valueOf returns the type of a reference to a symbol as a value.
func valueOf(x *state, sc ScopeID, n ast.Expr, sym Symbol) (Type, []*Error) {
	x.info.Uses[n] = sym
	switch sym := sym.(type) {
	case *LocalVar:
		if x.scopes.Kind(sym.Scope) == FileScope && x.scopes.enclosing(sc, FunScope) != NoScope {
			err := x.err(n, CaptureBan, "function cannot capture file-level value %s", sym.Name)
			err.Symbols = []Symbol{sym.Type}
			return errSym, []*Error{err}
		}
		return sym.Type, nil
	case *FormalParm:
		return sym.Type, nil
	case *Object:
		return sym, nil
	case *Fun:
		if len(sym.TypeParms) > 0 {
			return errSym, []*Error{x.err(n, CannotInfer, "cannot infer the type arguments of %s used as a value", sym.Name)}
		}
		ft := &FunType{Ret: sym.Ret}
		for _, p := range sym.Parms {
			ft.Parms = append(ft.Parms, p.Type)
		}
		return ft, nil
	case *ErrorSym:
		return errSym, nil
	default:
		return errSym, []*Error{x.err(n, NotAValue, "%s %s is not a value", sym.kind(), sym)}
	}
}

// resolvePath resolves a selector chain beginning with a namespace.
// It returns false if e is not such a chain.
func resolvePath(x *state, sc ScopeID, e ast.Expr) (Symbol, bool, *Error) {
	path, ok := selectorPath(e)
	if !ok || len(path) < 2 {
		return nil, false, nil
	}
	head, err := x.scopes.Fetch(sc, path[:1])
	if err != nil {
		return nil, false, nil
	}
	if _, ok := head.(*Namespace); !ok {
		return nil, false, nil
	}
	sym, err := x.scopes.Fetch(sc, path)
	if err != nil {
		return nil, true, x.locate(err, e)
	}
	return sym, true, nil
}

func selectorPath(e ast.Expr) ([]string, bool) {
	switch e := e.(type) {
	case *ast.Ident:
		return []string{e.Name}, true
	case *ast.Dot:
		p, ok := selectorPath(e.X)
		return append(p, e.Name), ok
	}
	return nil, false
}

// member returns the member of a type with the given name,
// and the substitution of the type's parameters.
func member(t Type, name string) (Symbol, *Sub, bool) {
	switch t := t.(type) {
	case *Record:
		return recordField(t, name, nil)
	case *BasicType:
		m, ok := t.Members[name]
		return m, nil, ok
	case *Inst:
		switch d := t.Def.(type) {
		case *Record:
			return recordField(d, name, NewSub(d.TypeParms, t.Args))
		case *Builtin:
			m, ok := d.Members[name]
			return m, NewSub(d.TypeParms, t.Args), ok
		}
	}
	return nil, nil, false
}

func recordField(r *Record, name string, sub *Sub) (Symbol, *Sub, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, sub, true
		}
	}
	return nil, nil, false
}

func noSuchMember(x *state, n *ast.Dot, t Type) *Error {
	err := x.err(n, NoSuchMember, "%s has no member %s", t, n.Name)
	err.Symbols = []Symbol{t}
	return err
}

func dot(x *state, sc ScopeID, n *ast.Dot) (Type, []*Error) {
	if sym, ok, err := resolvePath(x, sc, n); ok {
		if err != nil {
			return errSym, []*Error{err}
		}
		return valueOf(x, sc, n, sym)
	}
	xt, errs := expr(x, sc, n.X)
	if IsError(xt) {
		return errSym, errs
	}
	m, sub, ok := member(xt, n.Name)
	if !ok {
		return errSym, append(errs, noSuchMember(x, n, xt))
	}
	x.info.Uses[n] = m
	switch m := m.(type) {
	case *Field:
		return sub.Replay(m.Type), errs
	case *PlatformField:
		return sub.Replay(m.Type), errs
	default:
		return errSym, append(errs, x.err(n, NotAValue, "%s %s must be called", m.kind(), n.Name))
	}
}

func apply(x *state, sc ScopeID, n *ast.Apply) (_ Type, errs []*Error) {
	defer x.tr("apply(%s)", calleeName(n.Fun))(&errs)

	var sym Symbol
	switch fun := n.Fun.(type) {
	case *ast.Ident:
		s, err := x.scopes.Fetch(sc, []string{fun.Name})
		if err != nil {
			errs = append(errs, x.locate(err, fun))
			s = errSym
		}
		sym = s
	case *ast.Dot:
		s, ok, err := resolvePath(x, sc, fun)
		if !ok {
			return methodCall(x, sc, n, fun)
		}
		if err != nil {
			errs = append(errs, err)
			s = errSym
		}
		sym = s
	default:
		t, es := expr(x, sc, fun)
		errs = append(errs, es...)
		_, es = exprs(x, sc, n.Args)
		errs = append(errs, es...)
		if !IsError(t) {
			err := x.err(fun, NotCallable, "%s is not callable", t)
			errs = append(errs, err)
		}
		return errSym, errs
	}
	x.info.Uses[n.Fun] = sym

	ats, es := exprs(x, sc, n.Args)
	errs = append(errs, es...)
	switch sym := sym.(type) {
	case *Fun:
		pats := make([]Type, len(sym.Parms))
		for i, p := range sym.Parms {
			pats[i] = p.Type
		}
		sub, ok, es := instCall(x, sc, n, sym.Name, sym, pats, ats, nil)
		x.info.Calls[n] = &Call{Kind: FunCall, Callee: sym, Sub: sub, Args: n.Args}
		if !ok {
			return errSym, append(errs, es...)
		}
		return sub.Replay(sym.Ret), append(errs, es...)
	case *FormalParm:
		ft, ok := sym.Type.(*FunType)
		if !ok {
			if IsError(sym.Type) {
				return errSym, errs
			}
			return errSym, append(errs, x.err(n.Fun, NotCallable, "parameter %s of type %s is not callable", sym.Name, sym.Type))
		}
		_, _, es := instCall(x, sc, n, sym.Name, nil, ft.Parms, ats, nil)
		x.info.Calls[n] = &Call{Kind: ParmCall, Callee: sym, Args: n.Args}
		return ft.Ret, append(errs, es...)
	case *Record:
		pats := make([]Type, len(sym.Fields))
		for i, f := range sym.Fields {
			pats[i] = f.Type
		}
		sub, ok, es := instCall(x, sc, n, sym.Name, sym, pats, ats, nil)
		x.info.Calls[n] = &Call{Kind: RecordCall, Callee: sym, Sub: sub, Args: n.Args}
		if !ok {
			return errSym, append(errs, es...)
		}
		if len(sym.TypeParms) == 0 {
			return sym, append(errs, es...)
		}
		return sub.Replay(&Inst{Def: sym, Args: parmTypes(sym.TypeParms)}), append(errs, es...)
	case *Builtin:
		t, es := construct(x, sc, n, sym, ats)
		return t, append(errs, es...)
	case *Plugin:
		t, es := callPlugin(x, sc, n, sym, nil, nil, ats)
		return t, append(errs, es...)
	case *ErrorSym:
		return errSym, errs
	default:
		err := x.err(n.Fun, NotCallable, "%s %s is not callable", sym.kind(), sym)
		return errSym, append(errs, err)
	}
}

func calleeName(e ast.Expr) string {
	if p, ok := selectorPath(e); ok {
		return strings.Join(p, ".")
	}
	return "<expr>"
}

func parmTypes(parms []*TypeParm) []Type {
	ts := make([]Type, len(parms))
	for i, p := range parms {
		ts[i] = p
	}
	return ts
}

func methodCall(x *state, sc ScopeID, n *ast.Apply, d *ast.Dot) (_ Type, errs []*Error) {
	rt, errs := expr(x, sc, d.X)
	ats, es := exprs(x, sc, n.Args)
	errs = append(errs, es...)
	if IsError(rt) {
		return errSym, errs
	}
	m, sub, ok := member(rt, d.Name)
	if !ok {
		return errSym, append(errs, noSuchMember(x, d, rt))
	}
	x.info.Uses[d] = m
	p, ok := m.(*Plugin)
	if !ok {
		return errSym, append(errs, x.err(d, NotCallable, "%s %s of %s is not callable", m.kind(), d.Name, rt))
	}
	t, es := callPlugin(x, sc, n, p, d.X, sub, ats)
	return t, append(errs, es...)
}

func callPlugin(x *state, sc ScopeID, n *ast.Apply, p *Plugin, recv ast.Expr, recvSub *Sub, ats []Type) (Type, []*Error) {
	sub, ok, errs := instCall(x, sc, n, p.Name, p, p.Parms, ats, recvSub)
	x.info.Calls[n] = &Call{Kind: PluginCall, Callee: p, Sub: sub, Recv: recv, Args: n.Args}
	if !ok {
		return errSym, errs
	}
	return sub.Replay(p.Ret), errs
}

// instCall instantiates the type parameters of a callee,
// from explicit type arguments or by inference from the argument types,
// and checks the arguments against the instantiated parameter types.
// The returned substitution extends base, which binds the type parameters
// of a member's receiver type.
// If the type parameters could not be instantiated,
// the returned bool is false and the substitution is nil.
func instCall(x *state, sc ScopeID, n *ast.Apply, name string, g Generic, pats, ats []Type, base *Sub) (*Sub, bool, []*Error) {
	var errs []*Error
	var parms []*TypeParm
	if g != nil {
		parms = g.typeParms()
	}
	if len(n.Args) != len(pats) {
		err := x.err(n, ArgCountMismatch, "%s expects %d arguments, got %d", name, len(pats), len(n.Args))
		errs = append(errs, err)
	}

	var sub *Sub
	switch {
	case len(parms) == 0 && len(n.TypeArgs) > 0:
		errs = append(errs, x.err(n, TypeArgCountMismatch, "%s has no type parameters", name))
	case len(parms) == 0:
		break
	case len(n.TypeArgs) > 0:
		targs := make([]Type, len(n.TypeArgs))
		var failed bool
		for i, a := range n.TypeArgs {
			t, es := resolveType(x, sc, a)
			errs = append(errs, es...)
			failed = failed || len(es) > 0
			targs[i] = t
		}
		if failed {
			return nil, false, errs
		}
		if es := validateSub(g, targs); len(es) > 0 {
			for _, e := range es {
				errs = append(errs, x.locate(e, n))
			}
			return nil, false, errs
		}
		sub = NewSub(parms, targs)
	default:
		rpats := make([]Type, len(pats))
		for i, p := range pats {
			rpats[i] = base.Replay(p)
		}
		var missing []string
		sub, missing = inferSub(parms, rpats, ats)
		if len(missing) > 0 {
			err := x.err(n, CannotInfer, "cannot infer %s of %s", strings.Join(missing, ", "), name)
			for _, t := range ats {
				if containsError(t) {
					err.Symbols = []Symbol{errSym}
				}
			}
			return nil, false, append(errs, err)
		}
		if es := validateSub(g, sub.Args); len(es) > 0 {
			for _, e := range es {
				errs = append(errs, x.locate(e, n))
			}
			return nil, false, errs
		}
	}

	full := base.Extend(sub)
	if len(n.Args) == len(pats) {
		for i, p := range pats {
			want := full.Replay(p)
			if !assignable(want, ats[i]) {
				err := x.err(n.Args[i], TypeMismatch, "cannot use %s as %s in argument %d of %s", ats[i], want, i+1, name)
				err.Symbols = []Symbol{ats[i]}
				errs = append(errs, err)
			}
		}
	}
	return full, true, errs
}

// containsError returns whether the error sentinel occurs in a type.
func containsError(t Type) bool {
	switch t := t.(type) {
	case *ErrorSym:
		return true
	case *Inst:
		for _, a := range t.Args {
			if containsError(a) {
				return true
			}
		}
	case *FunType:
		for _, p := range t.Parms {
			if containsError(p) {
				return true
			}
		}
		return containsError(t.Ret)
	}
	return false
}

// construct types a built-in collection constructor.
// Without explicit type arguments, the element type is the best
// common type of the elements and the bound is the element count.
func construct(x *state, sc ScopeID, n *ast.Apply, b *Builtin, ats []Type) (_ Type, errs []*Error) {
	defer x.tr("construct(%s)", b.Name)(&errs)

	if b == x.builtin.Pair {
		pats := parmTypes(b.TypeParms)
		sub, ok, es := instCall(x, sc, n, b.Name, b, pats, ats, nil)
		x.info.Calls[n] = &Call{Kind: BuiltinCall, Callee: b, Sub: sub, Args: n.Args}
		if !ok {
			return errSym, es
		}
		return sub.Replay(&Inst{Def: b, Args: pats}), es
	}

	dict := b == x.builtin.Dictionary || b == x.builtin.MutableDictionary
	var targs []Type
	switch {
	case len(n.TypeArgs) > 0:
		for _, a := range n.TypeArgs {
			t, es := resolveType(x, sc, a)
			errs = append(errs, es...)
			targs = append(targs, t)
		}
		if len(errs) > 0 {
			return errSym, errs
		}
	case b.Support == 0:
		return errSym, []*Error{x.err(n, CannotInfer, "%s requires explicit type arguments", b.Name)}
	case len(ats) == 0:
		return errSym, []*Error{x.err(n, CannotInfer, "cannot infer the element type of an empty %s", b.Name)}
	case dict:
		var k, v Type
		for i, t := range ats {
			p, ok := t.(*Inst)
			if IsError(t) {
				continue
			}
			if !ok || p.Def != x.builtin.Pair {
				err := x.err(n.Args[i], TypeMismatch, "%s element must be a Pair, got %s", b.Name, t)
				return errSym, []*Error{err}
			}
			if k = commonElem(k, p.Args[0]); k == nil {
				return errSym, []*Error{x.err(n, TypeMismatch, "keys of %s have no common type", b.Name)}
			}
			if v = commonElem(v, p.Args[1]); v == nil {
				return errSym, []*Error{x.err(n, TypeMismatch, "values of %s have no common type", b.Name)}
			}
		}
		if k == nil {
			return errSym, nil
		}
		targs = []Type{k, v, &FinConst{N: int64(len(ats))}}
	default:
		var elem Type
		for _, t := range ats {
			if elem = commonElem(elem, t); elem == nil {
				err := x.err(n, TypeMismatch, "elements of %s have no common type", b.Name)
				return errSym, []*Error{err}
			}
		}
		targs = []Type{elem, &FinConst{N: int64(len(ats))}}
	}
	if es := validateSub(b, targs); len(es) > 0 {
		for _, e := range es {
			errs = append(errs, x.locate(e, n))
		}
		return errSym, errs
	}

	var elem Type = targs[0]
	if dict {
		elem = &Inst{Def: x.builtin.Pair, Args: targs[:2]}
	}
	for i, t := range ats {
		if !assignable(elem, t) {
			err := x.err(n.Args[i], TypeMismatch, "cannot use %s as %s element %s", t, b.Name, elem)
			err.Symbols = []Symbol{t}
			errs = append(errs, err)
		}
	}
	if c, ok := targs[len(targs)-1].(*FinConst); ok && int64(len(ats)) > c.N {
		errs = append(errs, x.err(n, TooManyElements, "%d elements exceed the bound %d of %s", len(ats), c.N, b.Name))
	}
	sub := NewSub(b.TypeParms, targs)
	x.info.Calls[n] = &Call{Kind: BuiltinCall, Callee: b, Sub: sub, Args: n.Args}
	return &Inst{Def: b, Args: targs}, errs
}

func commonElem(acc, t Type) Type {
	if acc == nil {
		return t
	}
	return commonType(acc, t)
}

var binaryPlugins = map[string]string{
	"+":  "plus",
	"-":  "minus",
	"*":  "times",
	"/":  "div",
	"%":  "mod",
	"==": "equals",
	"!=": "notEquals",
	"<":  "lessThan",
	"<=": "lessThanOrEquals",
	">":  "greaterThan",
	">=": "greaterThanOrEquals",
	"&&": "and",
	"||": "or",
}

var unaryPlugins = map[string]string{
	"!": "not",
	"-": "negate",
}

func binary(x *state, sc ScopeID, n *ast.Binary) (Type, []*Error) {
	xt, errs := expr(x, sc, n.X)
	yt, es := expr(x, sc, n.Y)
	errs = append(errs, es...)
	t, es := operator(x, n, n.Op, binaryPlugins[n.Op], n.X, xt, []ast.Expr{n.Y}, []Type{yt})
	return t, append(errs, es...)
}

func unary(x *state, sc ScopeID, n *ast.Unary) (Type, []*Error) {
	xt, errs := expr(x, sc, n.X)
	t, es := operator(x, n, n.Op, unaryPlugins[n.Op], n.X, xt, nil, nil)
	return t, append(errs, es...)
}

// operator resolves an operator to the member plugin of its left operand.
func operator(x *state, n ast.Expr, op, name string, recv ast.Expr, rt Type, args []ast.Expr, ats []Type) (Type, []*Error) {
	if IsError(rt) {
		return errSym, nil
	}
	for _, t := range ats {
		if IsError(t) {
			return errSym, nil
		}
	}
	m, sub, _ := member(rt, name)
	p, ok := m.(*Plugin)
	if !ok || len(p.Parms) != len(args) {
		err := x.err(n, NoSuchMember, "operator %s is not defined for %s", op, rt)
		err.Symbols = []Symbol{rt}
		return errSym, []*Error{err}
	}
	if len(p.TypeParms) > 0 {
		own, missing := inferSub(p.TypeParms, p.Parms, ats)
		if len(missing) > 0 {
			return errSym, []*Error{x.err(n, CannotInfer, "cannot infer %s of operator %s", strings.Join(missing, ", "), op)}
		}
		sub = sub.Extend(own)
	}
	var errs []*Error
	for i, pt := range p.Parms {
		if want := sub.Replay(pt); !assignable(want, ats[i]) {
			err := x.err(args[i], TypeMismatch, "operator %s: cannot use %s as %s", op, ats[i], want)
			err.Symbols = []Symbol{ats[i]}
			errs = append(errs, err)
		}
	}
	x.info.Calls[n] = &Call{Kind: PluginCall, Callee: p, Sub: sub, Recv: recv, Args: args}
	return sub.Replay(p.Ret), errs
}

func ifExpr(x *state, sc ScopeID, n *ast.If) (Type, []*Error) {
	ct, errs := expr(x, sc, n.Cond)
	if !assignable(x.builtin.Bool, ct) {
		err := x.err(n.Cond, TypeMismatch, "condition must be Bool, got %s", ct)
		err.Symbols = []Symbol{ct}
		errs = append(errs, err)
	}
	tt, es := expr(x, sc, n.Then)
	errs = append(errs, es...)
	if n.Else == nil {
		return x.builtin.Unit, errs
	}
	et, es := expr(x, sc, n.Else)
	errs = append(errs, es...)
	if c := commonType(tt, et); c != nil {
		return c, errs
	}
	return x.builtin.Unit, errs
}

func forExpr(x *state, sc ScopeID, n *ast.For) (Type, []*Error) {
	st, errs := expr(x, sc, n.Source)
	elem, _, ok := x.elemAndBound(st)
	if !ok {
		if !IsError(st) {
			err := x.err(n.Source, InvalidLoopSource, "cannot loop over %s", st)
			err.Symbols = []Symbol{st}
			errs = append(errs, err)
		}
		elem = errSym
	}
	bs := newBlock(x, sc, BlockScope, n)
	lv := &LocalVar{AST: n, Name: n.Var, Type: elem, Scope: bs}
	if err := x.scopes.Define(bs, n.Var, lv); err != nil {
		errs = append(errs, x.locate(err, n))
	}
	x.info.Defs[n] = lv
	_, es := expr(x, bs, n.Body)
	return x.builtin.Unit, append(errs, es...)
}

func switchExpr(x *state, sc ScopeID, n *ast.Switch) (Type, []*Error) {
	st, errs := expr(x, sc, n.Source)
	e, sub := enumOf(st)
	if e == nil && !IsError(st) {
		err := x.err(n.Source, InvalidSwitchSource, "cannot switch on %s", st)
		err.Symbols = []Symbol{st}
		errs = append(errs, err)
	}
	id, rebind := n.Source.(*ast.Ident)
	seen := make(map[string]bool)
	var result Type
	for i, c := range n.Cases {
		cs := newBlock(x, sc, BlockScope, c)
		var mt Type = errSym
		if e != nil {
			switch m := enumMember(e, c.Name); {
			case m == nil:
				errs = append(errs, x.err(c, NotFound, "%s is not a member of %s", c.Name, e))
			case seen[c.Name]:
				errs = append(errs, x.err(c, DuplicateCase, "duplicate case %s", c.Name))
			default:
				seen[c.Name] = true
				mt = memberType(m, sub)
			}
		}
		if rebind {
			lv := &LocalVar{AST: c, Name: id.Name, Type: mt, Scope: cs}
			if err := x.scopes.Define(cs, id.Name, lv); err == nil {
				x.info.Defs[c] = lv
			}
		}
		t, es := expr(x, cs, c.Body)
		errs = append(errs, es...)
		switch {
		case i == 0:
			result = t
		case result != nil:
			result = commonType(result, t)
		}
	}
	if e != nil {
		var missing []string
		for _, m := range e.Members {
			if name := memberName(m); !seen[name] {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			errs = append(errs, x.err(n, MissingCase, "switch on %s is missing cases: %s", e, strings.Join(missing, ", ")))
		}
	}
	if result == nil {
		return x.builtin.Unit, errs
	}
	return result, errs
}

func enumMember(e *Enum, name string) Symbol {
	for _, m := range e.Members {
		if memberName(m) == name {
			return m
		}
	}
	return nil
}

func memberName(m Symbol) string {
	switch m := m.(type) {
	case *Record:
		return m.Name
	case *Object:
		return m.Name
	}
	return m.String()
}

// memberType returns the type of an enum member
// given the substitution of the enum's type parameters.
func memberType(m Symbol, sub *Sub) Type {
	switch m := m.(type) {
	case *Record:
		if len(m.TypeParms) == 0 {
			return m
		}
		if sub == nil || len(sub.Args) != len(m.TypeParms) {
			return errSym
		}
		return &Inst{Def: m, Args: sub.Args}
	case *Object:
		return m
	}
	return errSym
}

func lambda(x *state, sc ScopeID, n *ast.Lambda) (_ Type, errs []*Error) {
	ls := newBlock(x, sc, LambdaScope, n)
	ft := &FunType{}
	for i, p := range n.Parms {
		t, es := resolveValueType(x, ls, p.Type, 0, "parameter")
		errs = append(errs, es...)
		fp := &FormalParm{AST: p, Name: p.Name, Type: t, Index: i}
		if err := x.scopes.Define(ls, p.Name, fp); err != nil {
			errs = append(errs, x.locate(err, p))
		}
		x.info.Defs[p] = fp
		ft.Parms = append(ft.Parms, t)
	}
	rt, es := expr(x, ls, n.Body)
	ft.Ret = rt
	return ft, append(errs, es...)
}

func as(x *state, sc ScopeID, n *ast.As) (Type, []*Error) {
	xt, errs := expr(x, sc, n.X)
	t, es := resolveValueType(x, sc, n.Type, 0, "conversion")
	errs = append(errs, es...)
	if IsError(xt) || IsError(t) {
		return t, errs
	}
	if !assignable(t, xt) && !assignable(xt, t) {
		err := x.err(n, TypeMismatch, "cannot convert %s to %s", xt, t)
		errs = append(errs, err)
	}
	return t, errs
}

func is(x *state, sc ScopeID, n *ast.Is) (Type, []*Error) {
	xt, errs := expr(x, sc, n.X)
	t, es := resolveValueType(x, sc, n.Type, 0, "test")
	errs = append(errs, es...)
	if IsError(xt) || IsError(t) {
		return x.builtin.Bool, errs
	}
	if !assignable(t, xt) && !assignable(xt, t) {
		errs = append(errs, x.err(n, TypeMismatch, "%s can never be %s", xt, t))
	}
	return x.builtin.Bool, errs
}
