package browser

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/nguyengg/arcnav/archive"
)

// Node is one row of the projection of the archive at a directory.
type Node struct {
	// Name is the display name, ".." for the parent link.
	Name string
	// Path is the archive path that the node represents. For the parent link, this is the path of the parent
	// directory, "" being the root.
	Path         string
	IsDir        bool
	IsParentLink bool

	// Size, CompressedSize and CompressionRatio are copied from the representative entry and are zero for
	// directories.
	Size             int64
	CompressedSize   int64
	CompressionRatio float64
	LastModified     time.Time

	IsSelected bool
}

// ParentLinkName is the name of the parent link node.
const ParentLinkName = ".."

// group collects the entries that share the same first path segment under the current directory.
type group struct {
	segment string
	// rep is the index of the representative entry.
	rep int
	// repIsDir is true if the representative is flagged as directory.
	repIsDir bool
	// deep is true if at least one entry in the group is below the immediate child level.
	deep bool
}

// Project returns the immediate children of dir in the given entries.
//
// If dir is not the root, the first node is the parent link. Directories come before files, and each are sorted by
// name byte-wise. Directories that have no entry of their own but are implied by deeper paths are synthesized.
// Matching of dir against entry paths is case-insensitive.
func Project(entries []archive.Entry, dir string) []Node {
	dir = normalizePath(dir)

	var (
		prefix string
		nodes  []Node
	)
	if dir != "" {
		prefix = dir + "/"
		nodes = append(nodes, Node{Name: ParentLinkName, Path: parentOf(dir), IsDir: true, IsParentLink: true})
	}

	groups := make(map[string]*group)
	order := make([]*group, 0)

	for i, e := range entries {
		p := normalizePath(e.Path)
		if p == "" || !hasPrefixFold(p, prefix) || len(p) == len(prefix) {
			continue
		}

		rest := p[len(prefix):]
		segment, _, deep := strings.Cut(rest, "/")

		g, ok := groups[segment]
		if !ok {
			g = &group{segment: segment, rep: i, repIsDir: e.IsDir && !deep}
			groups[segment] = g
			order = append(order, g)
		} else if !g.repIsDir && e.IsDir && !deep {
			// a directory marker for the segment itself replaces whatever entry was picked first.
			g.rep, g.repIsDir = i, true
		}

		g.deep = g.deep || deep
	}

	children := make([]Node, 0, len(order))
	for _, g := range order {
		e := entries[g.rep]

		n := Node{
			Name:         g.segment,
			Path:         prefix + g.segment,
			IsDir:        g.repIsDir || g.deep,
			LastModified: e.LastModified,
		}
		if !n.IsDir {
			n.Size = e.Size
			n.CompressedSize = e.CompressedSize
			n.CompressionRatio = e.CompressionRatio
		}

		children = append(children, n)
	}

	slices.SortStableFunc(children, func(a, b Node) int {
		switch {
		case a.IsDir && !b.IsDir:
			return -1
		case !a.IsDir && b.IsDir:
			return 1
		default:
			return cmp.Compare(a.Name, b.Name)
		}
	})

	return append(nodes, children...)
}

// parentOf returns the parent of the given normalised directory path, "" being the root.
func parentOf(dir string) string {
	if i := strings.LastIndexByte(dir, '/'); i >= 0 {
		return dir[:i]
	}

	return ""
}
