// Copyright © 2020 The Pea Authors under an MIT-style license.

package types

import (
	"fmt"
	"strings"
)

// A ScopeID identifies a scope in a Scopes arena.
type ScopeID int32

// NoScope is the parent of the root scope.
const NoScope ScopeID = -1

// ScopeKind is the kind of construct that owns a scope.
type ScopeKind int

const (
	PreludeScope ScopeKind = iota
	FileScope
	NamespaceScope
	FunScope
	RecordScope
	EnumScope
	BuiltinScope
	PluginScope
	BlockScope
	LambdaScope
)

// Scopes is an arena of lexical scopes linked by parent IDs.
//
// Each scope maps names to symbols.
// File scopes additionally list the file scopes of their imports,
// which are searched after the file's own definitions
// and before the parent.
type Scopes struct {
	scopes   []scope
	reserved map[string]bool
}

type scope struct {
	parent  ScopeID
	kind    ScopeKind
	owner   Symbol
	names   []string
	table   map[string]Symbol
	imports []ScopeID
}

// NewScopes returns an empty arena.
func NewScopes() *Scopes {
	return &Scopes{reserved: make(map[string]bool)}
}

// New adds a new scope and returns its ID.
func (s *Scopes) New(parent ScopeID, kind ScopeKind, owner Symbol) ScopeID {
	s.scopes = append(s.scopes, scope{
		parent: parent,
		kind:   kind,
		owner:  owner,
		table:  make(map[string]Symbol),
	})
	return ScopeID(len(s.scopes) - 1)
}

// Parent returns the parent of a scope.
func (s *Scopes) Parent(id ScopeID) ScopeID { return s.scopes[id].parent }

// Kind returns the kind of a scope.
func (s *Scopes) Kind(id ScopeID) ScopeKind { return s.scopes[id].kind }

// Owner returns the symbol owning a scope, or nil.
func (s *Scopes) Owner(id ScopeID) Symbol { return s.scopes[id].owner }

// Names returns the names defined directly in a scope, in definition order.
func (s *Scopes) Names(id ScopeID) []string { return s.scopes[id].names }

// Reserve marks a name as reserved for system namespaces.
// Definitions of the name outside of the prelude are rejected.
func (s *Scopes) Reserve(name string) { s.reserved[name] = true }

// Import makes the definitions of scope from visible in scope id.
func (s *Scopes) Import(id, from ScopeID) {
	for _, imp := range s.scopes[id].imports {
		if imp == from {
			return
		}
	}
	s.scopes[id].imports = append(s.scopes[id].imports, from)
}

// Define defines a symbol in a scope.
//
// Defining a Namespace where a Namespace of the same name exists
// merges them: the new namespace's entries are moved into the existing one,
// and the new namespace's Scope is redirected to the existing scope.
func (s *Scopes) Define(id ScopeID, name string, sym Symbol) *Error {
	if s.reserved[name] && s.scopes[id].kind != PreludeScope && !s.inPrelude(id) {
		return &Error{Kind: ReservedNamespace, Msg: fmt.Sprintf("%s is a reserved name", name)}
	}
	prev, ok := s.scopes[id].table[name]
	if !ok {
		s.scopes[id].table[name] = sym
		s.scopes[id].names = append(s.scopes[id].names, name)
		return nil
	}
	prevNS, ok0 := prev.(*Namespace)
	ns, ok1 := sym.(*Namespace)
	if !ok0 || !ok1 {
		err := &Error{Kind: AlreadyExists, Msg: fmt.Sprintf("%s redefined", name)}
		err.Symbols = []Symbol{sym}
		return err
	}
	if ns == prevNS || ns.Scope == prevNS.Scope {
		return nil
	}
	from := ns.Scope
	ns.Scope = prevNS.Scope
	var errs []string
	for _, n := range s.scopes[from].names {
		if err := s.Define(prevNS.Scope, n, s.scopes[from].table[n]); err != nil {
			errs = append(errs, err.Msg)
		}
	}
	s.scopes[from].table = make(map[string]Symbol)
	s.scopes[from].names = nil
	if len(errs) > 0 {
		return &Error{Kind: AlreadyExists, Msg: strings.Join(errs, "; ")}
	}
	return nil
}

func (s *Scopes) inPrelude(id ScopeID) bool {
	for ; id != NoScope; id = s.scopes[id].parent {
		if s.scopes[id].kind == FileScope {
			return false
		}
	}
	return true
}

// ExistsHere returns whether a name is defined directly in a scope.
func (s *Scopes) ExistsHere(id ScopeID, name string) bool {
	_, ok := s.scopes[id].table[name]
	return ok
}

// Exists returns whether a path resolves from a scope.
func (s *Scopes) Exists(id ScopeID, path []string) bool {
	_, err := s.Fetch(id, path)
	return err == nil
}

// FetchHere returns the symbol defined directly in a scope.
func (s *Scopes) FetchHere(id ScopeID, name string) (Symbol, *Error) {
	if sym, ok := s.scopes[id].table[name]; ok {
		return sym, nil
	}
	return nil, notFound(name)
}

// Fetch resolves a path from a scope.
//
// The first segment is searched for in the scope,
// then the scope's imports, then its ancestors.
// If a match is a Namespace, the remaining segments
// are resolved within it; otherwise the search for
// a namespace continues in the parent.
func (s *Scopes) Fetch(id ScopeID, path []string) (Symbol, *Error) {
	if len(path) == 0 {
		panic("impossible")
	}
	name := path[0]
	for cur := id; cur != NoScope; cur = s.scopes[cur].parent {
		sym, err := s.fetchLevel(cur, name)
		if err != nil {
			return nil, err
		}
		if sym == nil {
			continue
		}
		if len(path) == 1 {
			return sym, nil
		}
		if ns, ok := sym.(*Namespace); ok {
			return s.fetchIn(ns, path[1:])
		}
	}
	return nil, notFound(strings.Join(path, "."))
}

// fetchLevel looks a name up in a scope and its imports.
// It returns nil, nil if the name is not found.
func (s *Scopes) fetchLevel(id ScopeID, name string) (Symbol, *Error) {
	if sym, ok := s.scopes[id].table[name]; ok {
		return sym, nil
	}
	var found []Symbol
	for _, imp := range s.scopes[id].imports {
		sym, ok := s.scopes[imp].table[name]
		if !ok || containsSym(found, sym) {
			continue
		}
		found = append(found, sym)
	}
	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return found[0], nil
	default:
		err := &Error{
			Kind:    Ambiguous,
			Msg:     fmt.Sprintf("%s is ambiguous", name),
			Symbols: []Symbol{found[0]},
		}
		for _, f := range found {
			note(err, "%s %s is imported", f.kind(), f)
		}
		return nil, err
	}
}

func (s *Scopes) fetchIn(ns *Namespace, path []string) (Symbol, *Error) {
	sym, ok := s.scopes[ns.Scope].table[path[0]]
	if !ok {
		return nil, notFound(ns.Name + "." + strings.Join(path, "."))
	}
	if len(path) == 1 {
		return sym, nil
	}
	inner, ok := sym.(*Namespace)
	if !ok {
		return nil, notFound(ns.Name + "." + strings.Join(path, "."))
	}
	return s.fetchIn(inner, path[1:])
}

func containsSym(syms []Symbol, sym Symbol) bool {
	for _, s := range syms {
		if s == sym {
			return true
		}
	}
	return false
}

func notFound(name string) *Error {
	return &Error{Kind: NotFound, Msg: fmt.Sprintf("%s not found", name)}
}

// enclosing returns the nearest scope of one of the given kinds
// starting from id itself, or NoScope.
func (s *Scopes) enclosing(id ScopeID, kinds ...ScopeKind) ScopeID {
	for ; id != NoScope; id = s.scopes[id].parent {
		for _, k := range kinds {
			if s.scopes[id].kind == k {
				return id
			}
		}
	}
	return NoScope
}

// isAncestor returns whether a is id or one of its ancestors.
func (s *Scopes) isAncestor(a, id ScopeID) bool {
	for ; id != NoScope; id = s.scopes[id].parent {
		if id == a {
			return true
		}
	}
	return false
}
