// Copyright © 2020 The Pea Authors under an MIT-style license.

package types

import (
	"fmt"
	"strings"
)

// A Sub is a substitution of type arguments for type parameters.
// A nil *Sub is the empty substitution.
type Sub struct {
	Parms []*TypeParm
	Args  []Type
}

// NewSub returns a substitution mapping parms to args positionally.
// It panics if the lengths differ.
func NewSub(parms []*TypeParm, args []Type) *Sub {
	if len(parms) != len(args) {
		panic(fmt.Sprintf("impossible: %d parameters, %d arguments", len(parms), len(args)))
	}
	return &Sub{Parms: parms, Args: args}
}

// Lookup returns the argument bound to a parameter.
func (s *Sub) Lookup(p *TypeParm) (Type, bool) {
	if s == nil {
		return nil, false
	}
	for i, q := range s.Parms {
		if q == p {
			return s.Args[i], true
		}
	}
	return nil, false
}

// Extend returns a substitution binding the parameters of both s and o.
func (s *Sub) Extend(o *Sub) *Sub {
	switch {
	case s == nil:
		return o
	case o == nil:
		return s
	}
	return &Sub{
		Parms: append(append([]*TypeParm{}, s.Parms...), o.Parms...),
		Args:  append(append([]Type{}, s.Args...), o.Args...),
	}
}

// Replay returns t with every bound parameter replaced by its argument.
// Unbound parameters and ground types are returned unchanged.
// Replaying with s1 then s2 is the same as replaying with
// s1 with s2 replayed into its arguments.
func (s *Sub) Replay(t Type) Type {
	if s == nil || t == nil {
		return t
	}
	switch t := t.(type) {
	case *TypeParm:
		if a, ok := s.Lookup(t); ok {
			return a
		}
		return t
	case *Inst:
		args, changed := s.replayList(t.Args)
		if !changed {
			return t
		}
		return &Inst{Def: t.Def, Args: args}
	case *FunType:
		parms, changed := s.replayList(t.Parms)
		ret := s.Replay(t.Ret)
		if !changed && ret == t.Ret {
			return t
		}
		return &FunType{Parms: parms, Ret: ret}
	case *Sum:
		return &Sum{Args: s.replayCosts(t.Args)}
	case *Product:
		return &Product{Args: s.replayCosts(t.Args)}
	case *Max:
		return &Max{Args: s.replayCosts(t.Args)}
	default:
		return t
	}
}

// ReplayCost replays a cost expression.
// A parameter replaced by a non-cost type yields the error sentinel.
func (s *Sub) ReplayCost(c CostExpr) CostExpr {
	if c == nil {
		return nil
	}
	if r, ok := s.Replay(c).(CostExpr); ok {
		return r
	}
	return errSym
}

func (s *Sub) replayList(ts []Type) ([]Type, bool) {
	var changed bool
	res := make([]Type, len(ts))
	for i, t := range ts {
		res[i] = s.Replay(t)
		changed = changed || res[i] != t
	}
	return res, changed
}

func (s *Sub) replayCosts(cs []CostExpr) []CostExpr {
	res := make([]CostExpr, len(cs))
	for i, c := range cs {
		res[i] = s.ReplayCost(c)
	}
	return res
}

func (s *Sub) String() string {
	if s == nil {
		return "[]"
	}
	var b strings.Builder
	b.WriteRune('[')
	for i, p := range s.Parms {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
		b.WriteString("=")
		buildTypeString(s.Args[i], &b)
	}
	b.WriteRune(']')
	return b.String()
}
