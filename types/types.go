// Copyright © 2020 The Pea Authors under an MIT-style license.

package types

import "github.com/eaburns/bound/ast"

// A Symbol is an entity that a name or an expression can refer to.
type Symbol interface {
	// kind returns a description of the kind of symbol
	// for use in error messages.
	kind() string

	// String returns a human-readable representation of the symbol.
	String() string
}

// A Type is a Symbol that can appear in type position.
//
// Whether a particular Type is valid in a particular position
// (for example a parameterized Record without arguments,
// or a cost expression used as a value type)
// is checked when the type is resolved.
type Type interface {
	Symbol
	isType()
}

// A CostExpr is a Type that denotes a cost:
// a FinConst, ConstantFin, DistributedFin, Sum, Product, Max,
// a Fin TypeParm, or the ErrorSym.
type CostExpr interface {
	Type
	isCost()
}

// A Generic is a definition that may have type parameters.
type Generic interface {
	Symbol
	typeParms() []*TypeParm
}

// ErrorSym is the result of a resolution or an operation that already failed.
// Operations given an ErrorSym operand return the ErrorSym without reporting.
type ErrorSym struct{}

var errSym = &ErrorSym{}

// IsError returns whether the symbol is the error sentinel.
func IsError(s Symbol) bool {
	_, ok := s.(*ErrorSym)
	return ok
}

// A Namespace is a named group of definitions.
// Namespaces with the same name in the same scope share one Scope.
type Namespace struct {
	// AST is the first definition of the namespace;
	// it is nil for prelude namespaces.
	AST   *ast.Namespace
	Name  string
	Scope ScopeID
}

// A Block is a block, lambda, loop, or case body scope owner.
type Block struct {
	AST   ast.Node
	Scope ScopeID
}

// A LocalVar is a value bound by val, by a loop, or by a switch case.
type LocalVar struct {
	// AST is the *ast.Val, *ast.For, or *ast.Case that binds the variable.
	AST   ast.Node
	Name  string
	Type  Type
	Scope ScopeID
}

// A FormalParm is a parameter of a function, a lambda, or a plugin.
type FormalParm struct {
	AST   *ast.Parm
	Name  string
	Type  Type
	Index int
	// Fun is the function defining the parameter, or nil for lambda parameters.
	Fun *Fun
}

// A Field is a record field.
type Field struct {
	AST     *ast.Field
	Name    string
	Type    Type
	Mutable bool
	Record  *Record
}

// A PlatformField is a field of a built-in type, such as size.
type PlatformField struct {
	Name  string
	Type  Type
	Owner Symbol
	// Impl reads the field from its receiver, args[0].
	// Like Plugin.Impl, it is nil for collection types.
	Impl PluginFunc
}

// ParmKind is the kind of a type parameter.
type ParmKind int

const (
	// Standard parameters range over value types.
	Standard ParmKind = iota
	// ImmutableFin parameters range over cost expressions.
	ImmutableFin
	// MutableFin parameters range over concrete magnitudes.
	MutableFin
)

func (k ParmKind) String() string {
	switch k {
	case Standard:
		return "standard"
	case ImmutableFin:
		return "Fin"
	case MutableFin:
		return "mutable Fin"
	default:
		return "unknown"
	}
}

// A TypeParm is a type parameter.
type TypeParm struct {
	// AST is nil for prelude parameters.
	AST  *ast.TypeParm
	Name string
	Kind ParmKind
	// Def is the definition that declares the parameter.
	Def Symbol
}

// IsFin returns whether the parameter ranges over costs.
func (n *TypeParm) IsFin() bool { return n.Kind != Standard }

// A FinConst is a concrete positive magnitude.
type FinConst struct {
	N int64
}

// ConstantFin stands for the architecture's default node cost.
type ConstantFin struct{}

var constantFin = &ConstantFin{}

// DistributedFin stands for the architecture's distributed plugin surcharge.
type DistributedFin struct{}

var distributedFin = &DistributedFin{}

// A Sum is the sum of costs.
type Sum struct {
	Args []CostExpr
}

// A Product is the product of costs.
type Product struct {
	Args []CostExpr
}

// A Max is the maximum of costs.
type Max struct {
	Args []CostExpr
}

// A CostOp names a cost combinator usable in type-argument position:
// Sum, Mul, or Max.
type CostOp struct {
	Name string
}

// A BasicType is a ground built-in type: Int, Bool, Char, String, or Unit.
type BasicType struct {
	Name    string
	Members map[string]Symbol
}

// A FunType is the type of a function value.
type FunType struct {
	Parms []Type
	Ret   Type
}

// A Fun is a function definition.
type Fun struct {
	AST       *ast.Fun
	Name      string
	Scope     ScopeID
	TypeParms []*TypeParm

	// Parms and Ret are nil until the scan pass.
	Parms []*FormalParm
	Ret   Type

	// Multipliers has one entry per parameter.
	// The entry of a function-typed parameter is the number of times
	// the body invokes it; other entries are nil.
	// Multipliers is nil until the multiplier pass.
	Multipliers []CostExpr

	// Cost is the cost of the body in terms of the Fin type parameters.
	// It is nil until the cost pass.
	Cost CostExpr
}

// A Record is a record definition.
type Record struct {
	AST       *ast.Record
	Name      string
	Scope     ScopeID
	TypeParms []*TypeParm
	// Fields is nil until the scan pass.
	Fields []*Field
	// Enum is the enclosing enum, or nil.
	Enum *Enum
}

// An Object is a singleton definition.
type Object struct {
	AST  *ast.Object
	Name string
	// Enum is the enclosing enum, or nil.
	Enum *Enum
}

// An Enum is a closed sum of records and objects.
type Enum struct {
	AST       *ast.Enum
	Name      string
	Scope     ScopeID
	TypeParms []*TypeParm
	// Members are *Record and *Object symbols in definition order.
	Members []Symbol
}

// Support is the set of positions in which a type may be used.
type Support uint8

const (
	// ReturnTypeSupport allows use as a function return type.
	ReturnTypeSupport Support = 1 << iota
	// FieldTypeSupport allows use as a record field type.
	FieldTypeSupport
	// TypeArgSupport allows use as a type argument.
	TypeArgSupport

	// FullSupport allows use in any position.
	FullSupport = ReturnTypeSupport | FieldTypeSupport | TypeArgSupport
)

// A Builtin is a parameterized built-in type, such as List.
type Builtin struct {
	Name      string
	Scope     ScopeID
	TypeParms []*TypeParm
	Support   Support
	// Members are the *Plugin and *PlatformField members.
	Members map[string]Symbol
}

// An Inst is an instantiation of a Generic with type arguments.
type Inst struct {
	Def  Generic
	Args []Type
}

// A Plugin is a built-in operation implemented by the host.
//
// A plugin is a ground member of a BasicType,
// a parameterized member of a Builtin whose signature
// refers to the Builtin's type parameters,
// or a static plugin in a namespace.
// Member and static plugins may declare type parameters of their own.
type Plugin struct {
	Name string
	// Owner is the *BasicType or *Builtin, or nil for a static plugin.
	Owner     Symbol
	Scope     ScopeID
	TypeParms []*TypeParm
	Parms     []Type
	Ret       Type
	Cost      CostExpr
	// Multipliers has one entry per parameter;
	// entries of function-typed parameters say how many times
	// the plugin invokes the argument.
	Multipliers []CostExpr
	Distributed bool
	// Impl is nil for members of collection types,
	// which are implemented by the evaluator.
	Impl PluginFunc
}

// PluginFunc is the host implementation of a plugin.
type PluginFunc func(args []interface{}) (interface{}, error)

func (*ErrorSym) kind() string { return "error" }
func (*Namespace) kind() string { return "namespace" }
func (*Block) kind() string { return "block" }
func (*LocalVar) kind() string { return "local" }
func (*FormalParm) kind() string { return "parameter" }
func (*Field) kind() string { return "field" }
func (*PlatformField) kind() string { return "field" }
func (*TypeParm) kind() string { return "type parameter" }
func (*FinConst) kind() string { return "magnitude" }
func (*ConstantFin) kind() string { return "cost" }
func (*DistributedFin) kind() string { return "cost" }
func (*Sum) kind() string { return "cost" }
func (*Product) kind() string { return "cost" }
func (*Max) kind() string { return "cost" }
func (*CostOp) kind() string { return "cost combinator" }
func (*BasicType) kind() string { return "type" }
func (*FunType) kind() string { return "function type" }
func (*Fun) kind() string { return "function" }
func (*Record) kind() string { return "record" }
func (*Object) kind() string { return "object" }
func (*Enum) kind() string { return "enum" }
func (*Builtin) kind() string { return "type" }
func (*Inst) kind() string { return "type" }
func (*Plugin) kind() string { return "plugin" }

func (*ErrorSym) isType() {}
func (*TypeParm) isType() {}
func (*FinConst) isType() {}
func (*ConstantFin) isType() {}
func (*DistributedFin) isType() {}
func (*Sum) isType() {}
func (*Product) isType() {}
func (*Max) isType() {}
func (*BasicType) isType() {}
func (*FunType) isType() {}
func (*Record) isType() {}
func (*Object) isType() {}
func (*Enum) isType() {}
func (*Builtin) isType() {}
func (*Inst) isType() {}

func (*ErrorSym) isCost() {}
func (*TypeParm) isCost() {}
func (*FinConst) isCost() {}
func (*ConstantFin) isCost() {}
func (*DistributedFin) isCost() {}
func (*Sum) isCost() {}
func (*Product) isCost() {}
func (*Max) isCost() {}

func (n *Fun) typeParms() []*TypeParm { return n.TypeParms }
func (n *Record) typeParms() []*TypeParm { return n.TypeParms }
func (n *Enum) typeParms() []*TypeParm { return n.TypeParms }
func (n *Builtin) typeParms() []*TypeParm { return n.TypeParms }
func (n *Plugin) typeParms() []*TypeParm { return n.TypeParms }

// isValueType returns whether a type can be the type of a value.
// Cost expressions, Fin parameters, and uninstantiated
// parameterized definitions cannot.
func isValueType(t Type) bool {
	switch t := t.(type) {
	case *ErrorSym, *BasicType, *FunType, *Object:
		return true
	case *TypeParm:
		return t.Kind == Standard
	case *Record:
		return len(t.TypeParms) == 0
	case *Enum:
		return len(t.TypeParms) == 0
	case *Inst:
		switch t.Def.(type) {
		case *Record, *Enum, *Builtin:
			return true
		}
	}
	return false
}

// isCostValue returns whether a type is a valid argument for an immutable Fin parameter.
func isCostValue(t Type) bool {
	switch t := t.(type) {
	case *ErrorSym, *FinConst, *Sum, *Product, *Max:
		return true
	case *TypeParm:
		return t.IsFin()
	}
	return false
}

// supportOf returns the positions in which a type may be used.
func supportOf(t Type) Support {
	switch t := t.(type) {
	case *Inst:
		if b, ok := t.Def.(*Builtin); ok {
			return b.Support
		}
	case *Builtin:
		return t.Support
	case *FunType:
		return 0
	}
	return FullSupport
}
