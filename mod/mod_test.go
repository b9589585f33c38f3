// Copyright © 2020 The Pea Authors under an MIT-style license.

package mod

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadSingleUnit(t *testing.T) {
	units, err := Load(Map{"main": "val x = 1"}, []string{"main"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(units) != 1 {
		t.Fatalf("len(units)=%d, want 1", len(units))
	}
	if units[0].File.Path != "main.bnd" {
		t.Errorf("units[0].File.Path=%q, want main.bnd", units[0].File.Path)
	}
}

func TestLoadTopologicalOrder(t *testing.T) {
	src := Map{
		"main":      "import util.geo\nimport util.list\nval x = 1",
		"util.geo":  "import util.base\nrecord Point(x: Int, y: Int)",
		"util.list": "import util.base\nfun f() {}",
		"util.base": "object Base",
	}
	units, err := Load(src, []string{"main"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	var got []string
	for _, u := range units {
		got = append(got, PathString(u.Path))
	}
	want := []string{"util.base", "util.geo", "util.list", "main"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load order mismatch (-want +got):\n%s", diff)
	}

	// Units share one location table, so their ranges do not overlap.
	geo, list := units[1].File, units[2].File
	if geo.Range[1] >= list.Range[0] {
		t.Errorf("ranges overlap: %v, %v", geo.Range, list.Range)
	}
	if geo.Locs != list.Locs {
		t.Errorf("units do not share location information")
	}
}

func TestLoadMissingDep(t *testing.T) {
	_, err := Load(Map{"main": "import nothing\n"}, []string{"main"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Load()=%v, want ErrNotFound", err)
	}
}

func TestLoadMalformedUnit(t *testing.T) {
	_, err := Load(Map{"main": "import a\n", "a": "val = "}, []string{"main"})
	if err == nil {
		t.Errorf("Load() succeeded, want a parse error")
	}
}

func TestLoadImportCycle(t *testing.T) {
	src := Map{
		"main": "import a\n",
		"a":    "import b\n",
		"b":    "import a\n",
	}
	_, err := Load(src, []string{"main"})
	var cerr *CycleError
	if !errors.As(err, &cerr) {
		t.Fatalf("Load()=%v, want a *CycleError", err)
	}
	want := [][]string{{"a"}, {"b"}, {"a"}}
	if diff := cmp.Diff(want, cerr.Cycle); diff != "" {
		t.Errorf("cycle mismatch (-want +got):\n%s", diff)
	}
	if cerr.Error() != "import cycle: a -> b -> a" {
		t.Errorf("cerr.Error()=%q", cerr.Error())
	}
}

func TestDirSource(t *testing.T) {
	root, err := newFS([]file{
		{path: "main.bnd", body: "import util.geo\nval p = 1"},
		{path: "util/geo.bnd", body: "record Point(x: Int)"},
		{path: "util/notes.txt", body: "not a unit"},
	})
	if err != nil {
		t.Fatalf("newFS failed: %v", err)
	}
	defer os.RemoveAll(root)

	units, err := LoadFile(Dir{Root: root}, filepath.Join(root, "main.bnd"))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if len(units) != 2 {
		t.Fatalf("len(units)=%d, want 2", len(units))
	}
	if want := filepath.Join(root, "util", "geo.bnd"); units[0].File.Path != want {
		t.Errorf("units[0].File.Path=%q, want %q", units[0].File.Path, want)
	}
	if got := PathString(units[1].Path); got != "main" {
		t.Errorf("entry path=%q, want main", got)
	}

	_, _, err = Dir{Root: root}.Read([]string{"util", "notes"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Read(util.notes)=%v, want ErrNotFound", err)
	}
}

type file struct {
	path string
	body string
}

func newFS(files []file) (root string, err error) {
	if root, err = os.MkdirTemp("", "bound_mod_test"); err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(root)
		}
	}()
	for _, file := range files {
		path := filepath.Join(root, file.path)
		if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
			return "", err
		}
		if err := os.WriteFile(path, []byte(file.body), 0644); err != nil {
			return "", err
		}
	}
	return root, nil
}
