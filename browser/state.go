package browser

import (
	"sync"
)

// State tracks the current directory and the selection of the visible nodes.
//
// There are only two states: at the root (Dir returns "") or in a directory. There is no history; navigating
// replaces the state outright. The zero value is ready for use and shows nothing until Reset is called.
//
// State is safe for concurrent use.
type State struct {
	mu    sync.Mutex
	snap  *Snapshot
	dir   string
	nodes []Node
}

// Dir returns the current directory, "" being the root.
func (s *State) Dir() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dir
}

// Nodes returns a copy of the visible nodes.
func (s *State) Nodes() []Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Node(nil), s.nodes...)
}

// Selected returns the paths of the selected nodes in display order.
func (s *State) Selected() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := make([]string, 0)
	for _, n := range s.nodes {
		if n.IsSelected {
			paths = append(paths, n.Path)
		}
	}

	return paths
}

// Navigate moves into the directory represented by the given node.
//
// Returns false without changing anything if the node is a file.
func (s *State) Navigate(n Node) bool {
	if !n.IsDir && !n.IsParentLink {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.project(n.Path)
	return true
}

// NavigateTo moves into the given directory.
//
// If the directory does not exist in the archive, the state falls back to the root and false is returned.
func (s *State) NavigateTo(dir string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir = normalizePath(dir); !s.snap.HasDir(dir) {
		s.project("")
		return false
	}

	s.project(dir)
	return true
}

// Reset replaces the snapshot and moves to the root.
func (s *State) Reset(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	s.project("")
}

// Refresh replaces the snapshot while staying in the current directory if it still exists.
//
// Returns false if the current directory no longer exists and the state has fallen back to the root.
func (s *State) Refresh(snap *Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap

	if !snap.HasDir(s.dir) {
		s.project("")
		return false
	}

	s.project(s.dir)
	return true
}

// Toggle flips the selection of the visible node with the given path.
//
// Returns false if no such node is visible or if it is the parent link.
func (s *State) Toggle(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.index(path); i >= 0 {
		s.nodes[i].IsSelected = !s.nodes[i].IsSelected
		return true
	}

	return false
}

// SetSelected sets the selection of the visible node with the given path.
//
// Returns true only if the selection changed.
func (s *State) SetSelected(path string, selected bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.index(path); i >= 0 && s.nodes[i].IsSelected != selected {
		s.nodes[i].IsSelected = selected
		return true
	}

	return false
}

// SelectAll selects every visible node except the parent link.
//
// Returns true if the selection changed.
func (s *State) SelectAll() bool {
	return s.selectAll(true)
}

// SelectNone clears the selection.
//
// Returns true if the selection changed.
func (s *State) SelectNone() bool {
	return s.selectAll(false)
}

func (s *State) selectAll(selected bool) (changed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.nodes {
		if n := &s.nodes[i]; !n.IsParentLink && n.IsSelected != selected {
			n.IsSelected = selected
			changed = true
		}
	}

	return
}

// index returns the index of the visible non-parent-link node with the given path, -1 if none.
func (s *State) index(path string) int {
	for i, n := range s.nodes {
		if !n.IsParentLink && n.Path == path {
			return i
		}
	}

	return -1
}

// project must be called with mu held. The selection is always cleared.
func (s *State) project(dir string) {
	s.dir = normalizePath(dir)
	if s.snap == nil {
		s.nodes = nil
		return
	}

	s.nodes = Project(s.snap.Entries, s.dir)
}
