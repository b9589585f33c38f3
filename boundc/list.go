// Copyright © 2020 The Pea Authors under an MIT-style license.

package main

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/eaburns/bound/mod"
	"github.com/spf13/cobra"
)

func newListCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the units under the root in dependency order",
		Long: `The list command prints the import path of every unit under --root
in topological order, dependencies first.
Ties are broken alphabetically.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := unitPaths(o.root)
			if err != nil {
				return err
			}
			src := mod.Dir{Root: o.root}
			seen := make(map[string]bool)
			for _, path := range paths {
				units, err := mod.Load(src, mod.ParsePath(path))
				if err != nil {
					return err
				}
				for _, u := range units {
					p := mod.PathString(u.Path)
					if seen[p] {
						continue
					}
					seen[p] = true
					fmt.Fprintln(cmd.OutOrStdout(), p)
				}
			}
			return nil
		},
	}
}

// unitPaths returns the sorted import paths of the source files under root.
func unitPaths(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, mod.Ext) {
			return nil
		}
		rel, err := filepath.Rel(root, strings.TrimSuffix(path, mod.Ext))
		if err != nil {
			return err
		}
		paths = append(paths, strings.Join(strings.Split(rel, string(filepath.Separator)), "."))
		return nil
	})
	sort.Strings(paths)
	return paths, err
}
