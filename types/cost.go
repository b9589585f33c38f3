// Copyright © 2020 The Pea Authors under an MIT-style license.

package types

import (
	"errors"
	"fmt"

	"github.com/eaburns/bound/arch"
)

// CanEvaluate returns whether a cost has no symbolic leaves,
// and so can be evaluated.
func CanEvaluate(c CostExpr) bool {
	switch c := c.(type) {
	case *FinConst, *ConstantFin, *DistributedFin:
		return true
	case *Sum:
		return canEvaluateAll(c.Args)
	case *Product:
		return canEvaluateAll(c.Args)
	case *Max:
		return canEvaluateAll(c.Args)
	}
	return false
}

func canEvaluateAll(cs []CostExpr) bool {
	for _, c := range cs {
		if !CanEvaluate(c) {
			return false
		}
	}
	return true
}

// ValidateCost returns an error if a cost
// contains a type parameter leaf.
func ValidateCost(c CostExpr) *Error {
	var bad Symbol
	walkCost(c, func(c CostExpr) {
		if bad != nil {
			return
		}
		switch c.(type) {
		case *TypeParm, *ErrorSym:
			bad = c
		}
	})
	if bad == nil {
		return nil
	}
	return &Error{
		Kind:    CostNotConcrete,
		Msg:     fmt.Sprintf("cost %s is not concrete: %s is unknown", c, bad),
		Symbols: []Symbol{bad},
	}
}

func walkCost(c CostExpr, f func(CostExpr)) {
	f(c)
	var args []CostExpr
	switch c := c.(type) {
	case *Sum:
		args = c.Args
	case *Product:
		args = c.Args
	case *Max:
		args = c.Args
	}
	for _, a := range args {
		walkCost(a, f)
	}
}

// Evaluate returns the magnitude of a concrete cost.
//
// Evaluation saturates: any operand or intermediate result
// exceeding a.CostUpperLimit is replaced by a.CostUpperLimit+1
// before it is combined, so the result never overflows
// and is over the limit if and only if the true magnitude is.
func Evaluate(c CostExpr, a arch.Architecture) (int64, *Error) {
	if err := a.Validate(); err != nil {
		return 0, archError(err)
	}
	return evaluate(c, a)
}

// archError converts an Architecture validation error.
func archError(err error) *Error {
	if errors.Is(err, arch.ErrInvalidNodeCost) {
		return &Error{Kind: NonPositiveFin, Msg: err.Error()}
	}
	return &Error{Kind: InvalidCostUpperLimit, Msg: err.Error()}
}

func positive(name string, v int64) *Error {
	if v <= 0 {
		return &Error{Kind: NonPositiveFin, Msg: fmt.Sprintf("%s %d is not positive", name, v)}
	}
	return nil
}

func evaluate(c CostExpr, a arch.Architecture) (int64, *Error) {
	sat := a.CostUpperLimit + 1
	clamp := func(v int64) int64 {
		if v > sat {
			return sat
		}
		return v
	}
	switch c := c.(type) {
	case *FinConst:
		if c.N <= 0 {
			return 0, &Error{Kind: NonPositiveFin, Msg: fmt.Sprintf("cost magnitude %d is not positive", c.N)}
		}
		return clamp(c.N), nil
	case *ConstantFin:
		if err := positive("default node cost", a.DefaultNodeCost); err != nil {
			return 0, err
		}
		return clamp(a.DefaultNodeCost), nil
	case *DistributedFin:
		if err := positive("distributed plugin cost", a.DistributedPluginCost); err != nil {
			return 0, err
		}
		return clamp(a.DistributedPluginCost), nil
	case *Sum:
		vs, err := evaluateArgs("Sum", c.Args, a)
		if err != nil {
			return 0, err
		}
		var acc int64
		for _, v := range vs {
			acc = clamp(acc + v)
		}
		return acc, nil
	case *Product:
		vs, err := evaluateArgs("Mul", c.Args, a)
		if err != nil {
			return 0, err
		}
		acc := int64(1)
		for _, v := range vs {
			if acc > sat/v {
				acc = sat
				continue
			}
			acc = clamp(acc * v)
		}
		return acc, nil
	case *Max:
		vs, err := evaluateArgs("Max", c.Args, a)
		if err != nil {
			return 0, err
		}
		acc := vs[0]
		for _, v := range vs[1:] {
			if v > acc {
				acc = v
			}
		}
		return acc, nil
	case *ErrorSym, *TypeParm:
		return 0, ValidateCost(c)
	case nil:
		return 0, &Error{Kind: CostNotConcrete, Msg: "missing cost"}
	default:
		panic(fmt.Sprintf("impossible cost type: %T", c))
	}
}

// evaluateArgs evaluates the operands of a combinator;
// each result is already clamped to the limit plus one.
func evaluateArgs(op string, args []CostExpr, a arch.Architecture) ([]int64, *Error) {
	if len(args) == 0 {
		return nil, &Error{Kind: NonPositiveFin, Msg: fmt.Sprintf("%s has no operands", op)}
	}
	vs := make([]int64, len(args))
	for i, arg := range args {
		v, err := evaluate(arg, a)
		if err != nil {
			return nil, err
		}
		vs[i] = v
	}
	return vs, nil
}

func sumCost(cs ...CostExpr) CostExpr {
	var args []CostExpr
	for _, c := range cs {
		if c != nil {
			args = append(args, c)
		}
	}
	if len(args) == 1 {
		return args[0]
	}
	return &Sum{Args: args}
}

func productCost(cs ...CostExpr) CostExpr {
	if len(cs) == 1 {
		return cs[0]
	}
	return &Product{Args: cs}
}
