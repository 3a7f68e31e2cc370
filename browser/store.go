package browser

import (
	"strings"
	"sync"

	"github.com/nguyengg/arcnav/archive"
)

// Aggregate contains statistics computed over every entry of the archive, not just the visible ones.
type Aggregate struct {
	// TotalSize is the sum of the uncompressed sizes of all files.
	TotalSize int64
	// TotalCompressedSize is the sum of the compressed sizes of all files.
	TotalCompressedSize int64
	// FileCount is the number of non-directory entries.
	FileCount int
	// FolderCount is the number of entries flagged as directory in the listing.
	//
	// Directories that are only implied by deeper paths are not counted.
	FolderCount int
}

// ComputeAggregate computes the Aggregate of the given entries.
func ComputeAggregate(entries []archive.Entry) (a Aggregate) {
	for _, e := range entries {
		if e.IsDir {
			a.FolderCount++
			continue
		}

		a.FileCount++
		a.TotalSize += e.Size
		a.TotalCompressedSize += e.CompressedSize
	}

	return
}

// Snapshot is the immutable result of loading an archive.
//
// A new Snapshot is created for every load or reload; the slices must not be modified after creation.
type Snapshot struct {
	// Path is the local path of the archive.
	Path         string
	Entries      []archive.Entry
	Aggregate    Aggregate
	Capabilities archive.Capabilities
}

// NewSnapshot creates a Snapshot and computes its Aggregate.
func NewSnapshot(path string, entries []archive.Entry, caps archive.Capabilities) *Snapshot {
	return &Snapshot{
		Path:         path,
		Entries:      entries,
		Aggregate:    ComputeAggregate(entries),
		Capabilities: caps,
	}
}

// HasDir returns true if dir is the root, or if there is an entry flagged as directory with that path, or if there is
// at least one entry under that path.
//
// Paths are compared case-insensitively.
func (s *Snapshot) HasDir(dir string) bool {
	if dir = normalizePath(dir); dir == "" {
		return true
	}
	if s == nil {
		return false
	}

	prefix := dir + "/"
	for _, e := range s.Entries {
		p := normalizePath(e.Path)
		if e.IsDir && strings.EqualFold(p, dir) || hasPrefixFold(p, prefix) {
			return true
		}
	}

	return false
}

// store holds the current Snapshot.
//
// Readers always see either the old or the new snapshot in its entirety.
type store struct {
	mu   sync.RWMutex
	snap *Snapshot
}

func (s *store) load() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *store) swap(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
}

// normalizePath strips leading and trailing `/`.
func normalizePath(p string) string {
	return strings.Trim(p, "/")
}

// hasPrefixFold is the ASCII case-insensitive variant of strings.HasPrefix.
func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
