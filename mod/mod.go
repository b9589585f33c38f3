// Copyright © 2020 The Pea Authors under an MIT-style license.

// Package mod loads source units along with the units they import.
package mod

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/eaburns/bound/ast"
)

// Ext is the file extension of source units.
const Ext = ".bnd"

// A Source provides the text of source units by import path.
type Source interface {
	// Read returns the file name and text of the unit at path.
	// It returns an error wrapping ErrNotFound if there is no such unit.
	Read(path []string) (name, text string, err error)
}

// ErrNotFound is returned by a Source for a missing unit.
var ErrNotFound = errors.New("unit not found")

// Dir is a Source reading units from a directory tree.
// The unit a.b.c is read from Root/a/b/c.bnd.
type Dir struct {
	Root string
}

// Read implements Source.
func (d Dir) Read(path []string) (string, string, error) {
	name := filepath.Join(append([]string{d.Root}, path...)...) + Ext
	data, err := os.ReadFile(name)
	if os.IsNotExist(err) {
		return "", "", fmt.Errorf("%s: %w", PathString(path), ErrNotFound)
	}
	if err != nil {
		return "", "", err
	}
	return name, string(data), nil
}

// Map is an in-memory Source keyed by dotted import path.
type Map map[string]string

// Read implements Source.
func (m Map) Read(path []string) (string, string, error) {
	p := PathString(path)
	text, ok := m[p]
	if !ok {
		return "", "", fmt.Errorf("%s: %w", p, ErrNotFound)
	}
	return p + Ext, text, nil
}

// A Unit is a single parsed source unit.
type Unit struct {
	// Path is the import path of the unit.
	Path []string
	File *ast.File
	// Deps are the imported units in import order.
	Deps []*Unit
}

// PathString returns the dotted form of an import path.
func PathString(path []string) string { return strings.Join(path, ".") }

// ParsePath splits a dotted import path.
func ParsePath(s string) []string { return strings.Split(s, ".") }

// A CycleError is an import cycle.
type CycleError struct {
	// Cycle is the sequence of paths, starting and ending with the same path.
	Cycle [][]string
}

func (err *CycleError) Error() string {
	var s strings.Builder
	s.WriteString("import cycle: ")
	for i, p := range err.Cycle {
		if i > 0 {
			s.WriteString(" -> ")
		}
		s.WriteString(PathString(p))
	}
	return s.String()
}

// Load loads the entry unit and, transitively, all units it imports.
// The units are returned in topological order,
// with dependencies before their dependants
// and the entry unit last.
func Load(src Source, entry []string) ([]*Unit, error) {
	l := &loader{
		src:    src,
		parser: ast.NewParser(),
		units:  make(map[string]*Unit),
		state:  make(map[string]int),
	}
	root, err := l.load(entry, nil)
	if err != nil {
		return nil, err
	}
	return TopologicalDeps(root), nil
}

// LoadFile loads a unit from a file, with imports read from src.
// The unit's import path is the base name of the file without the extension.
func LoadFile(src Source, file string) ([]*Unit, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(file), Ext)
	return Load(overlay{Source: src, path: name, name: file, text: string(data)}, []string{name})
}

type overlay struct {
	Source
	path, name, text string
}

func (o overlay) Read(path []string) (string, string, error) {
	if PathString(path) == o.path {
		return o.name, o.text, nil
	}
	return o.Source.Read(path)
}

const (
	unvisited = iota
	visiting
	visited
)

type loader struct {
	src    Source
	parser *ast.Parser
	units  map[string]*Unit
	state  map[string]int
}

func (l *loader) load(path []string, stack [][]string) (*Unit, error) {
	key := PathString(path)
	switch l.state[key] {
	case visited:
		return l.units[key], nil
	case visiting:
		var cycle [][]string
		for i, p := range stack {
			if PathString(p) == key {
				cycle = append(cycle, stack[i:]...)
				break
			}
		}
		return nil, &CycleError{Cycle: append(cycle, path)}
	}
	l.state[key] = visiting
	stack = append(stack, path)

	name, text, err := l.src.Read(path)
	if err != nil {
		return nil, err
	}
	file, err := l.parser.Parse(name, strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	u := &Unit{Path: path, File: file}
	for _, imp := range file.Imports {
		d, err := l.load(imp.Path, stack)
		if err != nil {
			return nil, err
		}
		u.Deps = append(u.Deps, d)
	}
	l.state[key] = visited
	l.units[key] = u
	return u, nil
}

// TopologicalDeps returns root and its dependencies
// in topologically sorted order, with dependencies
// before their dependants.
func TopologicalDeps(root *Unit) []*Unit {
	var sorted []*Unit
	seen := make(map[*Unit]bool)
	var add func(*Unit)
	add = func(u *Unit) {
		if seen[u] {
			return
		}
		seen[u] = true
		for _, d := range u.Deps {
			add(d)
		}
		sorted = append(sorted, u)
	}
	add(root)
	return sorted
}
