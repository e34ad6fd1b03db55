// Package category routes source files to documentation categories.
//
// Routing is a pure function of the file path: the segment after the anchor
// directory is looked up in a closed table, with Other as the fallback.
package category

import (
	"path/filepath"
	"slices"
	"strings"
)

// Category is the documentation grouping a generated document is filed under.
// It doubles as the output sub-directory name.
type Category string

const (
	Comparison Category = "comparison"
	Equality   Category = "equality"
	Callable   Category = "callable"
	Strings    Category = "strings"
	Types      Category = "types"
	Other      Category = "other"
)

// AnchorDir is the path segment whose child folder selects the category.
const AnchorDir = "operations"

// folderTable maps a source folder (the segment after AnchorDir) to its category.
var folderTable = map[string]Category{
	"comparison": Comparison,
	"equality":   Equality,
	"exception":  Callable,
	"memory":     Callable,
	"string":     Strings,
	"type":       Types,
	AnchorDir:    Other,
}

// Route returns the category for path. It never fails: paths without the
// anchor segment, files directly under the anchor and unknown folders all map
// to Other.
func Route(path string) Category {
	parts := strings.Split(filepath.ToSlash(path), "/")
	idx := slices.Index(parts, AnchorDir)
	// The anchor needs both a folder and a file below it.
	if idx < 0 || idx >= len(parts)-2 {
		return Other
	}
	if c, ok := folderTable[parts[idx+1]]; ok {
		return c
	}
	return Other
}

// Lookup returns the category for a source folder name and whether the folder
// is listed in the table.
func Lookup(folder string) (Category, bool) {
	c, ok := folderTable[folder]
	return c, ok
}

// All returns every category that Route can produce, sorted by name.
func All() []Category {
	seen := map[Category]struct{}{Other: {}}
	for _, c := range folderTable {
		seen[c] = struct{}{}
	}
	out := make([]Category, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

func (c Category) String() string { return string(c) }
