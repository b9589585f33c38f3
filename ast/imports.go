// Copyright © 2020 The Pea Authors under an MIT-style license.

package ast

import "io"

// ReadImports returns the import paths of the source given by an io.Reader.
func ReadImports(path string, r io.Reader) ([][]string, error) {
	// TODO: stop lexing after the last import.
	// Imports always come first, so only a prefix of the file is needed.
	f, err := NewParser().Parse(path, r)
	if err != nil {
		return nil, err
	}
	var paths [][]string
	for _, imp := range f.Imports {
		paths = append(paths, imp.Path)
	}
	return paths, nil
}
