// Copyright © 2020 The Pea Authors under an MIT-style license.

package types

import "fmt"

// ValidateSub returns an error if args cannot be substituted
// for the type parameters of def.
//
// A Standard parameter accepts any value type usable as a type argument.
// An immutable Fin parameter accepts any cost expression.
// A mutable Fin parameter accepts only a concrete magnitude.
func ValidateSub(def Generic, args []Type) error {
	if errs := validateSub(def, args); len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func validateSub(def Generic, args []Type) []*Error {
	parms := def.typeParms()
	if len(parms) != len(args) {
		return []*Error{{
			Kind: TypeArgCountMismatch,
			Msg:  fmt.Sprintf("%s expects %d type arguments, got %d", defName(def), len(parms), len(args)),
		}}
	}
	var errs []*Error
	for i, p := range parms {
		if err := validateArg(def, p, args[i]); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func validateArg(def Generic, p *TypeParm, arg Type) *Error {
	if IsError(arg) {
		return nil
	}
	switch p.Kind {
	case Standard:
		if !isValueType(arg) {
			return &Error{
				Kind:    InvalidStandardTypeSub,
				Msg:     fmt.Sprintf("%s is not a valid argument for %s of %s", arg, p.Name, defName(def)),
				Symbols: []Symbol{arg},
			}
		}
		if supportOf(arg)&TypeArgSupport == 0 {
			return &Error{
				Kind:    InvalidStandardTypeSub,
				Msg:     fmt.Sprintf("%s cannot be used as a type argument", arg),
				Symbols: []Symbol{arg},
			}
		}
	case ImmutableFin:
		if !isCostValue(arg) {
			return &Error{
				Kind:    InvalidFinTypeSub,
				Msg:     fmt.Sprintf("%s is not a cost, as required for %s of %s", arg, p.Name, defName(def)),
				Symbols: []Symbol{arg},
			}
		}
	case MutableFin:
		if _, ok := arg.(*FinConst); !ok {
			err := &Error{
				Kind:    InvalidFinTypeSub,
				Msg:     fmt.Sprintf("%s is not a concrete magnitude, as required for %s of %s", arg, p.Name, defName(def)),
				Symbols: []Symbol{arg},
			}
			if tp, ok := arg.(*TypeParm); ok && tp.IsFin() {
				note(err, "%s is only known when %s is instantiated", tp.Name, tp.Def)
			}
			return err
		}
	}
	return nil
}

// unify binds the type parameters of parms occurring in pat
// so that pat matches typ.
// Bindings of a parameter from multiple occurrences are combined:
// Standard parameters take the common type, if any;
// Fin parameters take the larger cost.
func unify(pat, typ Type, parms []*TypeParm, bind map[*TypeParm]Type) {
	if pat == nil || typ == nil || IsError(typ) {
		return
	}
	switch pat := pat.(type) {
	case *TypeParm:
		if !containsParm(parms, pat) {
			return
		}
		prev, ok := bind[pat]
		switch {
		case !ok:
			bind[pat] = typ
		case pat.IsFin():
			pc, ok0 := prev.(CostExpr)
			tc, ok1 := typ.(CostExpr)
			if ok0 && ok1 {
				bind[pat] = maxCost(pc, tc)
			}
		default:
			if c := commonType(prev, typ); c != nil {
				bind[pat] = c
			}
		}
	case *Inst:
		t, ok := typ.(*Inst)
		if !ok || t.Def != pat.Def || len(t.Args) != len(pat.Args) {
			return
		}
		for i := range pat.Args {
			unify(pat.Args[i], t.Args[i], parms, bind)
		}
	case *FunType:
		t, ok := typ.(*FunType)
		if !ok || len(t.Parms) != len(pat.Parms) {
			return
		}
		for i := range pat.Parms {
			unify(pat.Parms[i], t.Parms[i], parms, bind)
		}
		unify(pat.Ret, t.Ret, parms, bind)
	}
}

func containsParm(parms []*TypeParm, p *TypeParm) bool {
	for _, q := range parms {
		if q == p {
			return true
		}
	}
	return false
}

// inferSub infers a substitution for parms
// from matching the parameter types pats against the argument types.
// It returns the names of parameters that could not be inferred.
func inferSub(parms []*TypeParm, pats, args []Type) (*Sub, []string) {
	bind := make(map[*TypeParm]Type)
	for i := range pats {
		if i < len(args) {
			unify(pats[i], args[i], parms, bind)
		}
	}
	var missing []string
	vals := make([]Type, len(parms))
	for i, p := range parms {
		t, ok := bind[p]
		if !ok {
			missing = append(missing, p.Name)
			t = errSym
		}
		vals[i] = t
	}
	return NewSub(parms, vals), missing
}
