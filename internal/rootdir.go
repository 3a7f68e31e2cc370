package internal

import (
	"strings"

	"github.com/nguyengg/arcnav/archive"
)

// FindRootDir returns the common root directory of the given archive entries.
//
// Given these three entries (archive paths are always relative and use `/` as separator):
//
//	test/a.txt
//	test/path/b.txt
//	test/another/path/c.txt
//
// The common root directory of those files is `test`. The returned value is empty if the given entries have no common
// root directory, including when there is a file at the top level.
func FindRootDir(entries []archive.Entry) (rootDir string) {
	fn := NewRootDirFinder()

	var ok bool
	for _, e := range entries {
		if rootDir, ok = fn(e.Path, e.IsDir); !ok {
			break
		}
	}

	return
}

// NewRootDirFinder returns a function that can be passed the archive paths one by one to compute the common root.
//
// NewRootDirFinder is a functional variant of FindRootDir. It returns the current root dir and a boolean indicating
// whether there is a common root so far. As soon as the returned boolean value is false, the search can stop since
// there is no common root and subsequent calls will keep returning `"", false`.
func NewRootDirFinder() func(path string, isDir bool) (rootDir string, hasRoot bool) {
	noRoot, root := false, ""

	return func(path string, isDir bool) (string, bool) {
		if noRoot {
			return "", false
		}

		first, _, nested := strings.Cut(strings.Trim(path, "/"), "/")
		if !nested && !isDir {
			// this is a file at top level so there is no root for sure.
			noRoot = true
			return "", false
		}

		switch root {
		case first:
		case "":
			root = first
		default:
			noRoot = true
			return "", false
		}

		return root, true
	}
}
