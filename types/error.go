// Copyright © 2020 The Pea Authors under an MIT-style license.

package types

import (
	"fmt"
	"sort"
	"strings"

	"github.com/eaburns/bound/ast"
	"github.com/eaburns/bound/loc"
)

// ErrorKind classifies an Error.
type ErrorKind int

const (
	ParseError ErrorKind = iota
	ImportError
	InvalidPlugin

	// Lookup errors.
	NotFound
	Ambiguous
	NoSuchMember

	// Definition errors.
	AlreadyExists
	ReservedNamespace
	MaskingTypeParameter
	DuplicateTypeParameter
	EnumShapeMismatch

	// Type errors.
	TypeMismatch
	ArgCountMismatch
	TypeArgCountMismatch
	CannotInfer
	RawGenericUse
	InvalidStandardTypeSub
	InvalidFinTypeSub
	InvalidType
	NotAValue
	NotCallable
	ImmutableAssign
	UnsupportedFeature
	TooManyElements
	CaptureBan
	IntRange

	// Structural errors.
	InvalidLoopSource
	InvalidSwitchSource
	MissingCase
	DuplicateCase
	RecursiveRecord
	RecursiveFunction

	// Feature bans.
	FunctionValueBan
	SecondDegreeBan
	NestedDefBan
	LambdaBodyBan
	FunParmValueBan

	// Cost errors.
	NonPositiveFin
	CostNotConcrete
	CostOverLimit
	InvalidCostUpperLimit
)

var errorKindNames = [...]string{
	ParseError:             "ParseError",
	ImportError:            "ImportError",
	InvalidPlugin:          "InvalidPlugin",
	NotFound:               "NotFound",
	Ambiguous:              "Ambiguous",
	NoSuchMember:           "NoSuchMember",
	AlreadyExists:          "AlreadyExists",
	ReservedNamespace:      "ReservedNamespace",
	MaskingTypeParameter:   "MaskingTypeParameter",
	DuplicateTypeParameter: "DuplicateTypeParameter",
	EnumShapeMismatch:      "EnumShapeMismatch",
	TypeMismatch:           "TypeMismatch",
	ArgCountMismatch:       "ArgCountMismatch",
	TypeArgCountMismatch:   "TypeArgCountMismatch",
	CannotInfer:            "CannotInfer",
	RawGenericUse:          "RawGenericUse",
	InvalidStandardTypeSub: "InvalidStandardTypeSub",
	InvalidFinTypeSub:      "InvalidFinTypeSub",
	InvalidType:            "InvalidType",
	NotAValue:              "NotAValue",
	NotCallable:            "NotCallable",
	ImmutableAssign:        "ImmutableAssign",
	UnsupportedFeature:     "UnsupportedFeature",
	TooManyElements:        "TooManyElements",
	CaptureBan:             "CaptureBan",
	IntRange:               "IntRange",
	InvalidLoopSource:      "InvalidLoopSource",
	InvalidSwitchSource:    "InvalidSwitchSource",
	MissingCase:            "MissingCase",
	DuplicateCase:          "DuplicateCase",
	RecursiveRecord:        "RecursiveRecord",
	RecursiveFunction:      "RecursiveFunction",
	FunctionValueBan:       "FunctionValueBan",
	SecondDegreeBan:        "SecondDegreeBan",
	NestedDefBan:           "NestedDefBan",
	LambdaBodyBan:          "LambdaBodyBan",
	FunParmValueBan:        "FunParmValueBan",
	NonPositiveFin:         "NonPositiveFin",
	CostNotConcrete:        "CostNotConcrete",
	CostOverLimit:          "CostOverLimit",
	InvalidCostUpperLimit:  "InvalidCostUpperLimit",
}

func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(errorKindNames) {
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
	return errorKindNames[k]
}

// An Error is a diagnostic reported by the checker.
type Error struct {
	Loc   loc.Loc
	Kind  ErrorKind
	Msg   string
	Notes []string
	// Symbols are the symbols the error is about.
	// An error all of whose Symbols are the error sentinel
	// is a consequence of an earlier error and is not reported.
	Symbols []Symbol
}

func note(err *Error, f string, vs ...interface{}) {
	err.Notes = append(err.Notes, fmt.Sprintf(f, vs...))
}

func (err *Error) Error() string {
	var s strings.Builder
	s.WriteString(err.Loc.String())
	s.WriteString(": ")
	s.WriteString(err.Msg)
	for _, n := range err.Notes {
		s.WriteString("\n\t")
		s.WriteString(n)
	}
	return s.String()
}

func (err *Error) suppressed() bool {
	if len(err.Symbols) == 0 {
		return false
	}
	for _, s := range err.Symbols {
		if !IsError(s) {
			return false
		}
	}
	return true
}

// err returns a new error located at a node of the current file.
func (x *state) err(n ast.Node, kind ErrorKind, f string, vs ...interface{}) *Error {
	return &Error{Loc: x.loc(n), Kind: kind, Msg: fmt.Sprintf(f, vs...)}
}

// locate fills in the location of an error that has none
// from the node it was reported for.
func (x *state) locate(err *Error, n ast.Node) *Error {
	if err.Loc.IsZero() {
		err.Loc = x.loc(n)
	}
	return err
}

// convertErrors filters suppressed errors,
// sorts the rest by location, and removes duplicates.
func convertErrors(errs []*Error) []error {
	var keep []*Error
	for _, e := range errs {
		if !e.suppressed() {
			keep = append(keep, e)
		}
	}
	sort.SliceStable(keep, func(i, j int) bool {
		return keep[i].Loc.Less(keep[j].Loc)
	})
	type key struct {
		loc  loc.Loc
		kind ErrorKind
		msg  string
	}
	var res []error
	seen := make(map[key]bool)
	for _, e := range keep {
		k := key{e.Loc, e.Kind, e.Msg}
		if seen[k] {
			continue
		}
		seen[k] = true
		res = append(res, e)
	}
	return res
}
