// Copyright © 2020 The Pea Authors under an MIT-style license.

package types

import (
	"github.com/eaburns/bound/ast"
	"github.com/eaburns/bound/mod"
)

// bindFiles creates the symbols and scopes of every definition
// and wires file scopes to the scopes of their imports.
func bindFiles(x *state, units []*mod.Unit) (errs []*Error) {
	defer x.tr("bindFiles(%d)", len(units))(&errs)

	for _, u := range units {
		x.file = u.File
		sc := x.scopes.New(x.prelude, FileScope, nil)
		x.fileScopes[u.File] = sc
		x.info.Scopes[u.File] = sc
		for _, s := range u.File.Stmts {
			if def, ok := s.(ast.Def); ok {
				errs = append(errs, bindDef(x, sc, def, nil)...)
			}
		}
	}
	byPath := make(map[string]*mod.Unit, len(units))
	for _, u := range units {
		byPath[mod.PathString(u.Path)] = u
	}
	for _, u := range units {
		x.file = u.File
		for _, imp := range u.File.Imports {
			dep, ok := byPath[mod.PathString(imp.Path)]
			if !ok {
				errs = append(errs, x.err(imp, ImportError, "unit %s is not loaded", mod.PathString(imp.Path)))
				continue
			}
			x.scopes.Import(x.fileScopes[u.File], x.fileScopes[dep.File])
		}
	}
	return errs
}

func bindDef(x *state, sc ScopeID, def ast.Def, enum *Enum) (errs []*Error) {
	defer x.tr("bindDef(%s)", def.DefName())(&errs)

	var sym Symbol
	switch def := def.(type) {
	case *ast.Namespace:
		ns := &Namespace{AST: def, Name: def.Name}
		ns.Scope = x.scopes.New(sc, NamespaceScope, ns)
		if err := x.scopes.Define(sc, def.Name, ns); err != nil {
			return append(errs, x.locate(err, def))
		}
		x.info.Defs[def] = ns
		x.info.Scopes[def] = ns.Scope
		for _, d := range def.Defs {
			errs = append(errs, bindDef(x, ns.Scope, d, nil)...)
		}
		return errs
	case *ast.Fun:
		f := &Fun{AST: def, Name: def.Name}
		f.Scope = x.scopes.New(sc, FunScope, f)
		errs = append(errs, maskingParms(x, def.Name, def.TypeParms)...)
		x.info.Scopes[def] = f.Scope
		sym = f
	case *ast.Record:
		r := &Record{AST: def, Name: def.Name, Enum: enum}
		parent := sc
		if enum != nil {
			parent = enum.Scope
			enum.Members = append(enum.Members, r)
		}
		r.Scope = x.scopes.New(parent, RecordScope, r)
		errs = append(errs, maskingParms(x, def.Name, def.TypeParms)...)
		x.info.Scopes[def] = r.Scope
		sym = r
	case *ast.Object:
		o := &Object{AST: def, Name: def.Name, Enum: enum}
		if enum != nil {
			enum.Members = append(enum.Members, o)
		}
		sym = o
	case *ast.Enum:
		e := &Enum{AST: def, Name: def.Name}
		e.Scope = x.scopes.New(sc, EnumScope, e)
		errs = append(errs, maskingParms(x, def.Name, def.TypeParms)...)
		x.info.Scopes[def] = e.Scope
		sym = e
	default:
		panic("impossible def type")
	}

	x.info.Defs[def] = sym
	x.defFiles[sym] = x.file
	switch sym.(type) {
	case *Fun, *Record, *Enum:
		x.defs = append(x.defs, sym)
	}
	if err := x.scopes.Define(sc, def.DefName(), sym); err != nil {
		errs = append(errs, x.locate(err, def))
	}
	if d, ok := def.(*ast.Enum); ok {
		e := sym.(*Enum)
		for _, m := range d.Members {
			switch m.(type) {
			case *ast.Record, *ast.Object:
				errs = append(errs, bindDef(x, sc, m, e)...)
			}
		}
	}
	return errs
}

// maskingParms reports type parameters named the same as their definition.
func maskingParms(x *state, name string, parms []*ast.TypeParm) []*Error {
	var errs []*Error
	for _, p := range parms {
		if p.Name == name {
			errs = append(errs, x.err(p, MaskingTypeParameter, "type parameter %s masks its definition", p.Name))
		}
	}
	return errs
}

// scanTypeParms creates the type parameters of each generic definition.
// Names with the Fin prefix declare immutable Fin parameters.
func scanTypeParms(x *state) (errs []*Error) {
	defer x.tr("scanTypeParms()")(&errs)
	for _, def := range x.defs {
		errs = append(errs, scanDefTypeParms(x, def)...)
	}
	return errs
}

func scanDefTypeParms(x *state, def Symbol) (errs []*Error) {
	defer x.inFile(def)()

	var sc ScopeID
	var astParms []*ast.TypeParm
	var parms *[]*TypeParm
	switch def := def.(type) {
	case *Fun:
		sc, astParms, parms = def.Scope, def.AST.TypeParms, &def.TypeParms
	case *Record:
		sc, astParms, parms = def.Scope, def.AST.TypeParms, &def.TypeParms
	case *Enum:
		sc, astParms, parms = def.Scope, def.AST.TypeParms, &def.TypeParms
	}
	for _, p := range astParms {
		kind := Standard
		if p.IsFin() {
			kind = ImmutableFin
		}
		tp := &TypeParm{AST: p, Name: p.Name, Kind: kind, Def: def}
		if x.scopes.ExistsHere(sc, p.Name) {
			errs = append(errs, x.err(p, DuplicateTypeParameter, "duplicate type parameter %s", p.Name))
			continue
		}
		mustDefine(x.scopes, sc, p.Name, tp)
		x.info.Defs[p] = tp
		*parms = append(*parms, tp)
	}
	if e, ok := def.(*Enum); ok {
		errs = append(errs, checkEnumShape(x, e)...)
	}
	return errs
}

// checkEnumShape checks that members of a parameterized enum
// redeclare exactly the enum's type parameters,
// and that objects only appear in ground enums.
func checkEnumShape(x *state, e *Enum) (errs []*Error) {
	for _, m := range e.Members {
		switch m := m.(type) {
		case *Object:
			if len(e.AST.TypeParms) > 0 {
				errs = append(errs, x.err(m.AST, EnumShapeMismatch,
					"object %s cannot be a member of parameterized enum %s", m.Name, e))
			}
		case *Record:
			if !sameParmNames(e.AST.TypeParms, m.AST.TypeParms) {
				err := x.err(m.AST, EnumShapeMismatch,
					"record %s must have the type parameters of enum %s", m, e)
				errs = append(errs, err)
			}
		}
	}
	return errs
}

func sameParmNames(a, b []*ast.TypeParm) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name {
			return false
		}
	}
	return true
}
