// Copyright © 2020 The Pea Authors under an MIT-style license.

// Package ast defines the syntax tree of Bound source units
// and a parser that builds it.
package ast

import "github.com/eaburns/bound/loc"

// A File is a single source unit.
type File struct {
	loc.Range
	// Path is the file path, or "" if unspecified.
	Path    string
	Imports []*Import
	Stmts   []Stmt
	// Locs maps node ranges of this file,
	// and of any other file parsed by the same Parser,
	// to source locations.
	Locs *loc.Files
}

// Loc returns the source location of a node in the file.
func (f *File) Loc(n Node) loc.Loc {
	if f == nil || f.Locs == nil || n == nil {
		return loc.Loc{}
	}
	return f.Locs.Loc(n.GetRange())
}

// A Node is a node of the AST with location information.
type Node interface {
	GetRange() loc.Range
}

// A Stmt is a statement: a definition, a val, an assignment, or an expression.
type Stmt interface {
	Node
	isStmt()
}

// A Def is a named definition: a Fun, Record, Object, Enum, or Namespace.
type Def interface {
	Stmt
	DefName() string
}

// An Expr is an expression.
type Expr interface {
	Stmt
	isExpr()
}

// A TypeNode is a type signifier:
// a TypeName, a FunType, or a FinLit.
type TypeNode interface {
	Node
	isTypeNode()
}

// An Import is an import statement.
type Import struct {
	loc.Range
	Path []string
}

// A Fun is a function definition.
type Fun struct {
	loc.Range
	Name      string
	TypeParms []*TypeParm
	Parms     []*Parm
	// Ret is nil if the return type is elided,
	// which means the Unit type.
	Ret  TypeNode
	Body *Block
}

// A TypeParm is a type parameter declaration.
// Names beginning with # declare Fin parameters.
type TypeParm struct {
	loc.Range
	Name string
}

// IsFin returns whether the parameter is a Fin parameter.
func (n *TypeParm) IsFin() bool { return IsFinName(n.Name) }

// IsFinName returns whether the name uses the Fin parameter prefix.
func IsFinName(name string) bool { return len(name) > 1 && name[0] == '#' }

// A Parm is a formal parameter of a function or lambda.
type Parm struct {
	loc.Range
	Name string
	Type TypeNode
}

// A Record is a record definition.
type Record struct {
	loc.Range
	Name      string
	TypeParms []*TypeParm
	Fields    []*Field
}

// A Field is a record field declaration.
type Field struct {
	loc.Range
	Name    string
	Type    TypeNode
	Mutable bool
}

// An Object is a singleton definition.
type Object struct {
	loc.Range
	Name string
}

// An Enum is a closed sum of records and objects.
type Enum struct {
	loc.Range
	Name      string
	TypeParms []*TypeParm
	Members   []Def
}

// A Namespace groups definitions under a name.
type Namespace struct {
	loc.Range
	Name string
	Defs []Def
}

// A Val is a local value definition.
type Val struct {
	loc.Range
	Name string
	// Type is nil if the type is inferred.
	Type TypeNode
	Expr Expr
}

// An Assign assigns to a mutable record field.
type Assign struct {
	loc.Range
	Target *Dot
	Expr   Expr
}

// A Block is a braced sequence of statements.
// Its value is the value of its last statement
// if that statement is an expression, or Unit otherwise.
type Block struct {
	loc.Range
	Stmts []Stmt
}

// An Int is an integer literal.
type Int struct {
	loc.Range
	Text string
}

// A Char is a character literal.
type Char struct {
	loc.Range
	Text string
	Rune rune
}

// A String is a string literal.
type String struct {
	loc.Range
	// Text is the literal including quotes and escapes.
	Text string
	// Data is the unescaped contents.
	Data string
}

// A Bool is the literal true or false.
type Bool struct {
	loc.Range
	Val bool
}

// An Ident is an identifier reference.
type Ident struct {
	loc.Range
	Name string
}

// A Dot is a member or namespace selection: X.Name.
type Dot struct {
	loc.Range
	X    Expr
	Name string
}

// An Apply is an application: Fun<TypeArgs>(Args).
type Apply struct {
	loc.Range
	Fun      Expr
	TypeArgs []TypeNode
	Args     []Expr
}

// A Binary is an infix operator application.
type Binary struct {
	loc.Range
	Op string
	X  Expr
	Y  Expr
}

// A Unary is a prefix operator application.
type Unary struct {
	loc.Range
	Op string
	X  Expr
}

// An If is a conditional.
type If struct {
	loc.Range
	Cond Expr
	Then *Block
	// Else is nil, a *Block, or an *If.
	Else Expr
}

// A For is a bounded loop over a collection.
type For struct {
	loc.Range
	Var    string
	Source Expr
	Body   *Block
}

// A Switch selects a case by the member of an enum value.
type Switch struct {
	loc.Range
	Source Expr
	Cases  []*Case
}

// A Case is a single case of a Switch.
type Case struct {
	loc.Range
	Name string
	Body *Block
}

// A Lambda is an anonymous function literal.
type Lambda struct {
	loc.Range
	Parms []*Parm
	Body  Expr
}

// An As is a conversion to a member or super type.
type As struct {
	loc.Range
	X    Expr
	Type TypeNode
}

// An Is tests whether a value is of a type.
type Is struct {
	loc.Range
	X    Expr
	Type TypeNode
}

// A TypeName names a type, possibly with arguments.
type TypeName struct {
	loc.Range
	Path []string
	Args []TypeNode
}

// A FunType is a function type signifier.
type FunType struct {
	loc.Range
	Parms []TypeNode
	Ret   TypeNode
}

// A FinLit is a literal Fin magnitude in a type argument.
type FinLit struct {
	loc.Range
	Text string
}

func (n *Fun) DefName() string { return n.Name }
func (n *Record) DefName() string { return n.Name }
func (n *Object) DefName() string { return n.Name }
func (n *Enum) DefName() string { return n.Name }
func (n *Namespace) DefName() string { return n.Name }
func (*Fun) isStmt() {}
func (*Record) isStmt() {}
func (*Object) isStmt() {}
func (*Enum) isStmt() {}
func (*Namespace) isStmt() {}
func (*Val) isStmt() {}
func (*Assign) isStmt() {}
func (*Block) isStmt() {}
func (*Int) isStmt() {}
func (*Char) isStmt() {}
func (*String) isStmt() {}
func (*Bool) isStmt() {}
func (*Ident) isStmt() {}
func (*Dot) isStmt() {}
func (*Apply) isStmt() {}
func (*Binary) isStmt() {}
func (*Unary) isStmt() {}
func (*If) isStmt() {}
func (*For) isStmt() {}
func (*Switch) isStmt() {}
func (*Lambda) isStmt() {}
func (*As) isStmt() {}
func (*Is) isStmt() {}
func (*Block) isExpr() {}
func (*Int) isExpr() {}
func (*Char) isExpr() {}
func (*String) isExpr() {}
func (*Bool) isExpr() {}
func (*Ident) isExpr() {}
func (*Dot) isExpr() {}
func (*Apply) isExpr() {}
func (*Binary) isExpr() {}
func (*Unary) isExpr() {}
func (*If) isExpr() {}
func (*For) isExpr() {}
func (*Switch) isExpr() {}
func (*Lambda) isExpr() {}
func (*As) isExpr() {}
func (*Is) isExpr() {}
func (*TypeName) isTypeNode() {}
func (*FunType) isTypeNode() {}
func (*FinLit) isTypeNode() {}
