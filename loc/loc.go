// Copyright © 2020 The Pea Authors under an MIT-style license.

// Package loc tracks source locations across the units of a program.
package loc

import "fmt"

// A Range is a start and end byte offset.
// Offsets are global across all files added to a Files.
type Range [2]int

// GetRange returns itself.
// Range is embedded in AST nodes so that they implement
// interface{GetRange() Range}.
func (r Range) GetRange() Range { return r }

// Start returns the start offset.
func (r Range) Start() int { return r[0] }

// End returns the end offset.
func (r Range) End() int { return r[1] }

// Join returns the smallest range containing both r and o.
func (r Range) Join(o Range) Range {
	if o[0] < r[0] {
		r[0] = o[0]
	}
	if o[1] > r[1] {
		r[1] = o[1]
	}
	return r
}

// A Loc describes a file location.
type Loc struct {
	Path string
	Line [2]int
	Col  [2]int
}

// IsZero returns whether the Loc is unset.
func (l Loc) IsZero() bool { return l == Loc{} }

// Less returns whether l sorts before o: by path, then line, then column.
func (l Loc) Less(o Loc) bool {
	switch {
	case l.Path != o.Path:
		return l.Path < o.Path
	case l.Line[0] != o.Line[0]:
		return l.Line[0] < o.Line[0]
	default:
		return l.Col[0] < o.Col[0]
	}
}

func (l Loc) String() string {
	switch {
	case l.IsZero():
		return "<unknown>"
	case l.Line[0] == l.Line[1] && l.Col[0] == l.Col[1]:
		return fmt.Sprintf("%s:%d.%d", l.Path, l.Line[0], l.Col[0])
	default:
		return fmt.Sprintf("%s:%d.%d-%d.%d", l.Path, l.Line[0], l.Col[0], l.Line[1], l.Col[1])
	}
}

// Files tracks locations within a set of files.
type Files []File

// A File is a single file in a Files.
type File struct {
	Path  string
	Offs  int
	Len   int
	Lines []int
}

// Len returns the total length of all files.
func (fs Files) Len() int {
	if len(fs) == 0 {
		return 0
	}
	last := fs[len(fs)-1]
	return last.Offs + last.Len
}

// Add adds a new file to the set given its path and text.
// It returns the offset of the first byte of the file.
//
// Each file is followed by one byte of padding,
// so that the end offset of a file's last token
// never coincides with the start of the next file.
func (fs *Files) Add(path, text string) int {
	var lines []int
	offs := fs.Len()
	if offs > 0 {
		offs++
	}
	for i, r := range text {
		if r == '\n' {
			lines = append(lines, offs+i)
		}
	}
	*fs = append(*fs, File{
		Path:  path,
		Offs:  offs,
		Len:   len(text),
		Lines: lines,
	})
	return offs
}

// Loc returns the Loc of a range.
// If the range does not lie within the Files, the zero Loc is returned.
func (fs Files) Loc(r Range) Loc {
	if len(fs) == 0 || r[0] < 0 || r[1] > fs.Len() || r[1] < r[0] {
		return Loc{}
	}
	var l Loc
	var epath string
	l.Path, l.Line[0], l.Col[0] = fs.loc1(r[0])
	epath, l.Line[1], l.Col[1] = fs.loc1(r[1])
	if l.Path != epath {
		// The range spans files; clamp it to the first.
		l.Line[1], l.Col[1] = l.Line[0], l.Col[0]
	}
	return l
}

func (fs Files) loc1(p int) (string, int, int) {
	file := fs[0]
	for _, f := range fs {
		if f.Offs > p {
			break
		}
		file = f
	}
	line, col1 := 1, file.Offs-1
	for _, nl := range file.Lines {
		if nl >= p {
			break
		}
		col1 = nl
		line++
	}
	return file.Path, line, p - col1
}
