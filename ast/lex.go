// Copyright © 2020 The Pea Authors under an MIT-style license.

package ast

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/eaburns/peggy/peg"
)

type tokKind int

const (
	tokEOF tokKind = iota
	tokIdent
	tokFinIdent
	tokInt
	tokChar
	tokString
	tokPunct
)

func (k tokKind) String() string {
	switch k {
	case tokEOF:
		return "end of file"
	case tokIdent:
		return "identifier"
	case tokFinIdent:
		return "Fin identifier"
	case tokInt:
		return "integer"
	case tokChar:
		return "character"
	case tokString:
		return "string"
	default:
		return "punctuation"
	}
}

type token struct {
	kind tokKind
	text string
	// start and end are byte offsets into the source text.
	start, end int
}

var keywords = map[string]bool{
	"import":    true,
	"namespace": true,
	"fun":       true,
	"record":    true,
	"object":    true,
	"enum":      true,
	"val":       true,
	"var":       true,
	"if":        true,
	"else":      true,
	"for":       true,
	"in":        true,
	"switch":    true,
	"case":      true,
	"lambda":    true,
	"as":        true,
	"is":        true,
	"true":      true,
	"false":     true,
}

// Longest first, so that the lexer matches greedily.
var puncts = []string{
	"->", "==", "!=", "<=", ">=", "&&", "||",
	"(", ")", "{", "}", "<", ">", ",", ":", ";", ".", "=",
	"+", "-", "*", "/", "%", "!",
}

// lexError is a lexical error at a byte offset.
type lexError struct {
	pos  int
	want string
}

func lex(text string) ([]token, *lexError) {
	var toks []token
	pos := 0
	for {
		pos = skipSpace(text, pos)
		if pos >= len(text) {
			toks = append(toks, token{kind: tokEOF, start: pos, end: pos})
			return toks, nil
		}
		r, w := peg.DecodeRuneInString(text[pos:])
		start := pos
		switch {
		case r == '_' || unicode.IsLetter(r):
			pos = scanIdent(text, pos)
			toks = append(toks, token{kind: tokIdent, text: text[start:pos], start: start, end: pos})
		case r == '#':
			pos += w
			end := scanIdent(text, pos)
			if end == pos {
				return nil, &lexError{pos: pos, want: "identifier"}
			}
			pos = end
			toks = append(toks, token{kind: tokFinIdent, text: text[start:pos], start: start, end: pos})
		case unicode.IsDigit(r):
			for pos < len(text) && text[pos] >= '0' && text[pos] <= '9' {
				pos++
			}
			toks = append(toks, token{kind: tokInt, text: text[start:pos], start: start, end: pos})
		case r == '\'' || r == '"':
			end, err := scanQuoted(text, pos, byte(r))
			if err != nil {
				return nil, err
			}
			pos = end
			kind := tokString
			if r == '\'' {
				kind = tokChar
			}
			toks = append(toks, token{kind: kind, text: text[start:pos], start: start, end: pos})
		default:
			var p string
			for _, q := range puncts {
				if strings.HasPrefix(text[pos:], q) {
					p = q
					break
				}
			}
			if p == "" {
				return nil, &lexError{pos: pos, want: "token"}
			}
			pos += len(p)
			toks = append(toks, token{kind: tokPunct, text: p, start: start, end: pos})
		}
	}
}

func skipSpace(text string, pos int) int {
	for pos < len(text) {
		switch {
		case strings.HasPrefix(text[pos:], "//"):
			for pos < len(text) && text[pos] != '\n' {
				pos++
			}
		case text[pos] == ' ' || text[pos] == '\t' || text[pos] == '\n' || text[pos] == '\r':
			pos++
		default:
			return pos
		}
	}
	return pos
}

func scanIdent(text string, pos int) int {
	for pos < len(text) {
		r, w := peg.DecodeRuneInString(text[pos:])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		pos += w
	}
	return pos
}

func scanQuoted(text string, pos int, q byte) (int, *lexError) {
	pos++
	for pos < len(text) {
		switch text[pos] {
		case '\\':
			pos += 2
		case '\n':
			return 0, &lexError{pos: pos, want: strconv.Quote(string(q))}
		case q:
			return pos + 1, nil
		default:
			pos++
		}
	}
	return 0, &lexError{pos: len(text), want: strconv.Quote(string(q))}
}

// unquote interprets the escapes of a quoted literal.
func unquote(text string) (string, bool) {
	if len(text) < 2 {
		return "", false
	}
	var s strings.Builder
	body := text[1 : len(text)-1]
	for i := 0; i < len(body); i++ {
		if body[i] != '\\' {
			s.WriteByte(body[i])
			continue
		}
		i++
		if i >= len(body) {
			return "", false
		}
		switch body[i] {
		case 'n':
			s.WriteByte('\n')
		case 't':
			s.WriteByte('\t')
		case '\\', '\'', '"':
			s.WriteByte(body[i])
		default:
			return "", false
		}
	}
	return s.String(), true
}
