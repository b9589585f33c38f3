// Copyright © 2020 The Pea Authors under an MIT-style license.

package loc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoc(t *testing.T) {
	var fs Files
	a := fs.Add("a.bnd", "val x = 1\nval y = 2\n")
	b := fs.Add("b.bnd", "abc\ndef")

	tests := []struct {
		name string
		r    Range
		want Loc
	}{
		{
			name: "first byte",
			r:    Range{a, a},
			want: Loc{Path: "a.bnd", Line: [2]int{1, 1}, Col: [2]int{1, 1}},
		},
		{
			name: "second line",
			r:    Range{a + 14, a + 15},
			want: Loc{Path: "a.bnd", Line: [2]int{2, 2}, Col: [2]int{5, 6}},
		},
		{
			name: "second file",
			r:    Range{b + 4, b + 7},
			want: Loc{Path: "b.bnd", Line: [2]int{2, 2}, Col: [2]int{1, 4}},
		},
		{
			name: "out of range",
			r:    Range{-1, 3},
			want: Loc{},
		},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			got := fs.Loc(test.r)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("fs.Loc(%v) mismatch (-want +got):\n%s", test.r, diff)
			}
		})
	}
}

func TestLocString(t *testing.T) {
	tests := []struct {
		loc  Loc
		want string
	}{
		{Loc{}, "<unknown>"},
		{Loc{Path: "x.bnd", Line: [2]int{3, 3}, Col: [2]int{4, 4}}, "x.bnd:3.4"},
		{Loc{Path: "x.bnd", Line: [2]int{3, 4}, Col: [2]int{4, 1}}, "x.bnd:3.4-4.1"},
	}
	for _, test := range tests {
		if got := test.loc.String(); got != test.want {
			t.Errorf("(%#v).String()=%q, want %q", test.loc, got, test.want)
		}
	}
}

func TestLocLess(t *testing.T) {
	a1 := Loc{Path: "a", Line: [2]int{1, 1}, Col: [2]int{5, 5}}
	a2 := Loc{Path: "a", Line: [2]int{2, 2}, Col: [2]int{1, 1}}
	b1 := Loc{Path: "b", Line: [2]int{1, 1}, Col: [2]int{1, 1}}
	if !a1.Less(a2) || a2.Less(a1) {
		t.Errorf("line order is wrong")
	}
	if !a2.Less(b1) || b1.Less(a2) {
		t.Errorf("path order is wrong")
	}
}

func TestRangeJoin(t *testing.T) {
	if got := (Range{4, 6}).Join(Range{1, 5}); got != (Range{1, 6}) {
		t.Errorf("Join=%v, want [1 6]", got)
	}
}
