// Copyright © 2020 The Pea Authors under an MIT-style license.

package ast

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/eaburns/bound/loc"
	"github.com/eaburns/peggy/peg"
)

// A Parser parses source code files
// with the grammar in grammar.peggy.
// Files parsed by the same Parser share a loc.Files,
// so their node ranges never overlap.
type Parser struct {
	locs *loc.Files
}

// NewParser returns a new parser.
func NewParser() *Parser {
	return &Parser{locs: new(loc.Files)}
}

// NewParserWithLocs returns a new parser
// that appends file location information to the given loc.Files.
func NewParserWithLocs(locs *loc.Files) *Parser {
	if locs == nil {
		locs = new(loc.Files)
	}
	return &Parser{locs: locs}
}

// Locs returns the location information of all files parsed so far.
func (p *Parser) Locs() *loc.Files { return p.locs }

// Parse parses a *File from an io.Reader.
// The first argument is the file path or "" if unspecified.
func (p *Parser) Parse(path string, r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	text := string(data)
	base := p.locs.Len()
	if base > 0 {
		base++
	}
	file, err := parseFile(path, text, base)
	if err != nil {
		return nil, err
	}
	p.locs.Add(path, text)
	file.Locs = p.locs
	return file, nil
}

// ParseFile parses the source in the file specified by a path.
func (p *Parser) ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return p.Parse(path, f)
}

// Parse parses a single file with a fresh Parser.
func Parse(path string, r io.Reader) (*File, error) {
	return NewParser().Parse(path, r)
}

// ParseType parses a type signifier from a string.
// The ranges of the returned nodes are offsets into the string.
func ParseType(str string) (TypeNode, error) {
	x, err := newParser("", str, 0)
	if err != nil {
		return nil, err
	}
	var typ TypeNode
	if err := x.run(func() {
		typ = x.parseType()
		x.expectEOF()
	}); err != nil {
		return nil, err
	}
	return typ, nil
}

type parseError struct {
	path string
	loc  int
	text string
	fail *peg.Fail
}

// Tree returns the peggy failure tree of the error.
func (err parseError) Tree() *peg.Fail { return err.fail }

func (err parseError) Error() string {
	e := peg.SimpleError(err.text, err.fail)
	e.FilePath = err.path
	return e.Error()
}

// FailTree returns the failure tree of a parse error,
// or nil if err is not a parse error.
func FailTree(err error) *peg.Fail {
	if perr, ok := err.(parseError); ok {
		return perr.fail
	}
	return nil
}

// bailout is panicked to unwind the parser on the first error.
type bailout struct{}

type parser struct {
	path string
	text string
	base int
	toks []token
	i    int

	// failPos and wants record the furthest position
	// at which the parser expected something it did not find.
	failPos int
	wants   []string
}

func newParser(path, text string, base int) (*parser, error) {
	toks, lerr := lex(text)
	if lerr != nil {
		return nil, parseError{
			path: path,
			loc:  lerr.pos,
			text: text,
			fail: &peg.Fail{
				Name: "File",
				Pos:  0,
				Kids: []*peg.Fail{{Pos: lerr.pos, Want: lerr.want}},
			},
		}
	}
	return &parser{path: path, text: text, base: base, toks: toks, failPos: -1}, nil
}

func parseFile(path, text string, base int) (*File, error) {
	x, err := newParser(path, text, base)
	if err != nil {
		return nil, err
	}
	file := &File{Path: path}
	err = x.run(func() {
		for x.at("import") {
			file.Imports = append(file.Imports, x.parseImport())
		}
		for !x.atEOF() {
			file.Stmts = append(file.Stmts, x.parseStmt())
			x.accept(";")
		}
	})
	if err != nil {
		return nil, err
	}
	file.Range = loc.Range{base, base + len(text)}
	return file, nil
}

func (x *parser) run(f func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, ok := r.(bailout); !ok {
			panic(r)
		}
		err = x.error()
	}()
	f()
	return nil
}

func (x *parser) error() error {
	fail := &peg.Fail{Name: "File", Pos: 0}
	seen := make(map[string]bool)
	for _, w := range x.wants {
		if seen[w] {
			continue
		}
		seen[w] = true
		fail.Kids = append(fail.Kids, &peg.Fail{Pos: x.failPos, Want: w})
	}
	return parseError{path: x.path, loc: x.failPos, text: x.text, fail: fail}
}

func (x *parser) tok() token { return x.toks[x.i] }

func (x *parser) advance() token {
	t := x.toks[x.i]
	if t.kind != tokEOF {
		x.i++
	}
	return t
}

func (x *parser) want(w string) {
	pos := x.tok().start
	switch {
	case pos > x.failPos:
		x.failPos = pos
		x.wants = []string{w}
	case pos == x.failPos:
		x.wants = append(x.wants, w)
	}
}

func (x *parser) fail() { panic(bailout{}) }

// at returns whether the current token is the given keyword or punctuation.
func (x *parser) at(text string) bool {
	t := x.tok()
	if (t.kind == tokPunct || t.kind == tokIdent) && t.text == text {
		return true
	}
	x.want(strconv.Quote(text))
	return false
}

func (x *parser) atEOF() bool {
	if x.tok().kind == tokEOF {
		return true
	}
	x.want("end of file")
	return false
}

func (x *parser) accept(text string) bool {
	if x.at(text) {
		x.advance()
		return true
	}
	return false
}

func (x *parser) expect(text string) token {
	if !x.at(text) {
		x.fail()
	}
	return x.advance()
}

func (x *parser) expectEOF() {
	if !x.atEOF() {
		x.fail()
	}
}

func (x *parser) ident() string {
	t := x.tok()
	if t.kind != tokIdent || keywords[t.text] {
		x.want("identifier")
		x.fail()
	}
	x.advance()
	return t.text
}

// rng returns the range from the start of token i to the end of the last consumed token.
func (x *parser) rng(i int) loc.Range {
	end := x.toks[i].start
	if x.i > i {
		end = x.toks[x.i-1].end
	}
	return loc.Range{x.base + x.toks[i].start, x.base + end}
}

func (x *parser) parseImport() *Import {
	start := x.i
	x.expect("import")
	path := []string{x.ident()}
	for x.accept(".") {
		path = append(path, x.ident())
	}
	x.accept(";")
	return &Import{Range: x.rng(start), Path: path}
}

func (x *parser) atDef() bool {
	// Evaluate all alternatives so that each is recorded as wanted.
	fun, rec, obj, enum, ns := x.at("fun"), x.at("record"), x.at("object"), x.at("enum"), x.at("namespace")
	return fun || rec || obj || enum || ns
}

func (x *parser) parseStmt() Stmt {
	switch {
	case x.atDef():
		return x.parseDef()
	case x.at("val"):
		return x.parseVal()
	}
	start := x.i
	e := x.parseExpr()
	if dot, ok := e.(*Dot); ok && x.accept("=") {
		rhs := x.parseExpr()
		return &Assign{Range: x.rng(start), Target: dot, Expr: rhs}
	}
	return e
}

func (x *parser) parseDef() Def {
	start := x.i
	switch {
	case x.accept("fun"):
		n := &Fun{Name: x.ident()}
		n.TypeParms = x.parseTypeParms()
		n.Parms = x.parseParms()
		if x.accept(":") {
			n.Ret = x.parseType()
		}
		n.Body = x.parseBlock()
		n.Range = x.rng(start)
		return n
	case x.accept("record"):
		n := &Record{Name: x.ident()}
		n.TypeParms = x.parseTypeParms()
		x.expect("(")
		if !x.at(")") {
			n.Fields = append(n.Fields, x.parseField())
			for x.accept(",") {
				n.Fields = append(n.Fields, x.parseField())
			}
		}
		x.expect(")")
		n.Range = x.rng(start)
		return n
	case x.accept("object"):
		n := &Object{Name: x.ident()}
		n.Range = x.rng(start)
		return n
	case x.accept("enum"):
		n := &Enum{Name: x.ident()}
		n.TypeParms = x.parseTypeParms()
		n.Members = x.parseDefs()
		n.Range = x.rng(start)
		return n
	case x.accept("namespace"):
		n := &Namespace{Name: x.ident()}
		n.Defs = x.parseDefs()
		n.Range = x.rng(start)
		return n
	}
	x.fail()
	panic("impossible")
}

func (x *parser) parseDefs() []Def {
	var defs []Def
	x.expect("{")
	for !x.at("}") {
		if !x.atDef() {
			x.fail()
		}
		defs = append(defs, x.parseDef())
		x.accept(";")
	}
	x.expect("}")
	return defs
}

func (x *parser) parseTypeParms() []*TypeParm {
	if !x.accept("<") {
		return nil
	}
	var parms []*TypeParm
	for {
		start := x.i
		var name string
		if t := x.tok(); t.kind == tokFinIdent {
			x.advance()
			name = t.text
		} else {
			name = x.ident()
		}
		parms = append(parms, &TypeParm{Range: x.rng(start), Name: name})
		if !x.accept(",") {
			break
		}
	}
	x.expect(">")
	return parms
}

func (x *parser) parseParms() []*Parm {
	var parms []*Parm
	x.expect("(")
	if !x.at(")") {
		parms = append(parms, x.parseParm())
		for x.accept(",") {
			parms = append(parms, x.parseParm())
		}
	}
	x.expect(")")
	return parms
}

func (x *parser) parseParm() *Parm {
	start := x.i
	name := x.ident()
	x.expect(":")
	typ := x.parseType()
	return &Parm{Range: x.rng(start), Name: name, Type: typ}
}

func (x *parser) parseField() *Field {
	start := x.i
	var mutable bool
	switch {
	case x.accept("var"):
		mutable = true
	case x.accept("val"):
	}
	name := x.ident()
	x.expect(":")
	typ := x.parseType()
	return &Field{Range: x.rng(start), Name: name, Type: typ, Mutable: mutable}
}

func (x *parser) parseVal() *Val {
	start := x.i
	x.expect("val")
	n := &Val{Name: x.ident()}
	if x.accept(":") {
		n.Type = x.parseType()
	}
	x.expect("=")
	n.Expr = x.parseExpr()
	n.Range = x.rng(start)
	return n
}

func (x *parser) parseType() TypeNode {
	start := x.i
	switch t := x.tok(); {
	case t.kind == tokInt:
		x.advance()
		return &FinLit{Range: x.rng(start), Text: t.text}
	case t.kind == tokFinIdent:
		x.advance()
		return &TypeName{Range: x.rng(start), Path: []string{t.text}}
	case x.accept("("):
		n := &FunType{}
		if !x.at(")") {
			n.Parms = append(n.Parms, x.parseType())
			for x.accept(",") {
				n.Parms = append(n.Parms, x.parseType())
			}
		}
		x.expect(")")
		x.expect("->")
		n.Ret = x.parseType()
		n.Range = x.rng(start)
		return n
	}
	x.want("type")
	n := &TypeName{Path: []string{x.ident()}}
	for x.accept(".") {
		n.Path = append(n.Path, x.ident())
	}
	if x.accept("<") {
		n.Args = x.parseTypeArgList()
	}
	n.Range = x.rng(start)
	return n
}

// parseTypeArgList parses type arguments after the opening <.
func (x *parser) parseTypeArgList() []TypeNode {
	args := []TypeNode{x.parseType()}
	for x.accept(",") {
		args = append(args, x.parseType())
	}
	x.expect(">")
	return args
}

func (x *parser) parseExpr() Expr {
	start := x.i
	switch {
	case x.accept("if"):
		return x.parseIf(start)
	case x.accept("for"):
		n := &For{}
		x.expect("(")
		n.Var = x.ident()
		x.expect("in")
		n.Source = x.parseExpr()
		x.expect(")")
		n.Body = x.parseBlock()
		n.Range = x.rng(start)
		return n
	case x.accept("switch"):
		n := &Switch{}
		x.expect("(")
		n.Source = x.parseExpr()
		x.expect(")")
		x.expect("{")
		for !x.at("}") {
			cstart := x.i
			x.expect("case")
			c := &Case{Name: x.ident()}
			c.Body = x.parseBlock()
			c.Range = x.rng(cstart)
			n.Cases = append(n.Cases, c)
		}
		x.expect("}")
		n.Range = x.rng(start)
		return n
	case x.accept("lambda"):
		n := &Lambda{Parms: x.parseParms()}
		x.expect("->")
		n.Body = x.parseExpr()
		n.Range = x.rng(start)
		return n
	}
	return x.parseBinary(0)
}

func (x *parser) parseIf(start int) *If {
	n := &If{}
	x.expect("(")
	n.Cond = x.parseExpr()
	x.expect(")")
	n.Then = x.parseBlock()
	if x.accept("else") {
		estart := x.i
		if x.accept("if") {
			n.Else = x.parseIf(estart)
		} else {
			n.Else = x.parseBlock()
		}
	}
	n.Range = x.rng(start)
	return n
}

var binaryOps = [][]string{
	{"||"},
	{"&&"},
	{"==", "!=", "<=", ">=", "<", ">"},
	{"+", "-"},
	{"*", "/", "%"},
}

func (x *parser) parseBinary(level int) Expr {
	if level == len(binaryOps) {
		return x.parseUnary()
	}
	start := x.i
	e := x.parseBinary(level + 1)
	for {
		var op string
		for _, o := range binaryOps[level] {
			if x.accept(o) {
				op = o
				break
			}
		}
		if op == "" {
			return e
		}
		y := x.parseBinary(level + 1)
		e = &Binary{Range: x.rng(start), Op: op, X: e, Y: y}
	}
}

func (x *parser) parseUnary() Expr {
	start := x.i
	for _, op := range []string{"!", "-"} {
		if x.accept(op) {
			e := x.parseUnary()
			return &Unary{Range: x.rng(start), Op: op, X: e}
		}
	}
	e := x.parsePostfix()
	for {
		switch {
		case x.accept("as"):
			e = &As{X: e, Type: x.parseType(), Range: x.rng(start)}
		case x.accept("is"):
			e = &Is{X: e, Type: x.parseType(), Range: x.rng(start)}
		default:
			return e
		}
	}
}

func (x *parser) parsePostfix() Expr {
	start := x.i
	e := x.parsePrimary()
	for {
		switch {
		case x.accept("."):
			e = &Dot{X: e, Name: x.ident(), Range: x.rng(start)}
		case x.at("("):
			args := x.parseArgs()
			e = &Apply{Fun: e, Args: args, Range: x.rng(start)}
		case isCallee(e) && x.at("<"):
			targs, ok := x.tryTypeArgs()
			if !ok {
				return e
			}
			args := x.parseArgs()
			e = &Apply{Fun: e, TypeArgs: targs, Args: args, Range: x.rng(start)}
		default:
			return e
		}
	}
}

func isCallee(e Expr) bool {
	switch e.(type) {
	case *Ident, *Dot:
		return true
	}
	return false
}

// tryTypeArgs speculatively parses <TypeArgs> followed by (.
// On failure, the parser state is restored and false is returned,
// so that the < is parsed as an operator.
func (x *parser) tryTypeArgs() (targs []TypeNode, ok bool) {
	i, failPos, wants := x.i, x.failPos, append([]string{}, x.wants...)
	defer func() {
		if ok {
			return
		}
		if r := recover(); r != nil {
			if _, isBail := r.(bailout); !isBail {
				panic(r)
			}
		}
		x.i, x.failPos, x.wants = i, failPos, wants
	}()
	x.expect("<")
	targs = x.parseTypeArgList()
	if x.tok().kind != tokPunct || x.tok().text != "(" {
		return nil, false
	}
	return targs, true
}

func (x *parser) parseArgs() []Expr {
	var args []Expr
	x.expect("(")
	if !x.at(")") {
		args = append(args, x.parseExpr())
		for x.accept(",") {
			args = append(args, x.parseExpr())
		}
	}
	x.expect(")")
	return args
}

func (x *parser) parsePrimary() Expr {
	start := x.i
	switch t := x.tok(); {
	case t.kind == tokInt:
		x.advance()
		return &Int{Range: x.rng(start), Text: t.text}
	case t.kind == tokChar:
		s, ok := unquote(t.text)
		if !ok || len([]rune(s)) != 1 {
			x.want("character")
			x.fail()
		}
		x.advance()
		return &Char{Range: x.rng(start), Text: t.text, Rune: []rune(s)[0]}
	case t.kind == tokString:
		s, ok := unquote(t.text)
		if !ok {
			x.want("string")
			x.fail()
		}
		x.advance()
		return &String{Range: x.rng(start), Text: t.text, Data: s}
	case x.accept("true"):
		return &Bool{Range: x.rng(start), Val: true}
	case x.accept("false"):
		return &Bool{Range: x.rng(start), Val: false}
	case x.accept("("):
		e := x.parseExpr()
		x.expect(")")
		return e
	case x.at("{"):
		return x.parseBlock()
	case t.kind == tokIdent && !keywords[t.text]:
		x.advance()
		return &Ident{Range: x.rng(start), Name: t.text}
	}
	x.want("expression")
	x.fail()
	panic("impossible")
}

func (x *parser) parseBlock() *Block {
	start := x.i
	n := &Block{}
	x.expect("{")
	for !x.at("}") {
		n.Stmts = append(n.Stmts, x.parseStmt())
		x.accept(";")
	}
	x.expect("}")
	n.Range = x.rng(start)
	return n
}

// PathString returns the dotted form of a path.
func PathString(path []string) string { return strings.Join(path, ".") }
