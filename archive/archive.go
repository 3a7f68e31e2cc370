// Package archive lists, extracts, tests and mutates archives on the local file system.
//
// The Service interface is what the browser package consumes; Archiver is the implementation backed by archive/zip,
// archive/tar (with the codec package for .tar.gz, .tar.xz and .tar.zst), github.com/bodgit/sevenzip and
// github.com/mholt/archives (RAR).
package archive

import (
	"context"
	"time"
)

// Service is the contract between the archive engine and the codec that reads and writes archive bytes.
//
// Every method that may block accepts a context.Context which is polled once per archive entry; an entry that is
// being written when the context is cancelled will be written in its entirety. Cancellation is reported by returning
// the context's error.
type Service interface {
	// IsArchive returns true if the named file is an archive in one of the supported formats.
	IsArchive(ctx context.Context, path string) (bool, error)

	// Capabilities returns the mutations that the named archive's format supports.
	Capabilities(ctx context.Context, path string) (Capabilities, error)

	// ListEntries returns all entries in the archive, in the order they appear in the container.
	//
	// If the file is rejected before any entry can be read, the returned error wraps ErrInvalidFormat.
	ListEntries(ctx context.Context, path string) ([]Entry, error)

	// ExtractAll extracts every entry to the destination directory.
	ExtractAll(ctx context.Context, path, destination string, progress ProgressFunc) error

	// ExtractEntries extracts only the named entries to the destination directory.
	//
	// A path naming a directory also selects all of its descendants unless Options.NoExpandDirectories is true.
	ExtractEntries(ctx context.Context, path string, entryPaths []string, destination string, progress ProgressFunc) error

	// AddToArchive adds the given local files and directories (recursively) to the root of the archive.
	//
	// Returns an error wrapping ErrUnsupportedOperation if the format has no incremental write support.
	AddToArchive(ctx context.Context, path string, sourcePaths []string, progress ProgressFunc) error

	// DeleteEntries removes the named entries (and descendants of named directories) from the archive.
	//
	// Returns an error wrapping ErrUnsupportedOperation if the format cannot be rewritten.
	DeleteEntries(ctx context.Context, path string, entryPaths []string) error

	// TestArchive reads every entry to verify the archive's integrity.
	//
	// A corrupt archive is reported as (false, nil); the error return value is reserved for cancellation and failures
	// to open the file in the first place.
	TestArchive(ctx context.Context, path string) (bool, error)
}

// Entry describes one item in an archive as reported by the container.
type Entry struct {
	// Path is the archive-relative path using `/` as separator, without leading or trailing `/`.
	Path string
	// Name is the last segment of Path.
	Name  string
	IsDir bool
	// Size is the uncompressed size in bytes; meaningless for directories.
	Size int64
	// CompressedSize is the number of bytes the entry occupies in the container, 0 if unknown.
	CompressedSize int64
	// LastModified is the zero value if the container does not record modification times.
	LastModified time.Time
	IsEncrypted  bool
	// CompressionRatio is CompressedSize divided by Size, 0 if either is unknown.
	CompressionRatio float64
}

// Progress is passed to ProgressFunc during long-running operations.
type Progress struct {
	// CurrentEntry is the archive path (or the local path for AddToArchive) of the entry being processed.
	CurrentEntry string
	// Percentage is between 0 and 100 and never decreases within one operation.
	Percentage float64
}

// ProgressFunc receives progress reports. It is called on the goroutine running the operation.
type ProgressFunc func(Progress)

// Capabilities describes the mutations a format supports.
type Capabilities struct {
	Format Format
	Add    bool
	Delete bool
}

// Options customises Archiver.
type Options struct {
	// NoExpandDirectories disables the recursive expansion of directory paths given to ExtractEntries and
	// DeleteEntries; only entries whose path matches exactly are selected.
	NoExpandDirectories bool

	// NoOverwrite will skip entries whose destination file already exists.
	//
	// By default, extraction overwrites existing files.
	NoOverwrite bool

	// BufferSize is the length of the buffer being used for copying contents.
	//
	// Default to DefaultBufferSize.
	BufferSize int

	// CompressionLevel is the deflate level used for files added to ZIP archives.
	//
	// Default to flate.DefaultCompression.
	CompressionLevel int

	// Password is used to open encrypted 7z and RAR archives.
	Password string
}

const (
	// DefaultBufferSize is the default value for Options.BufferSize, which is 32 KiB.
	DefaultBufferSize = 32 * 1024
)

// Archiver implements Service for archives on the local file system.
type Archiver struct {
	opts Options
}

var _ Service = &Archiver{}

// New returns a new Archiver with customisation options.
func New(optFns ...func(*Options)) *Archiver {
	opts := Options{
		BufferSize:       DefaultBufferSize,
		CompressionLevel: -1,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.BufferSize <= 0 {
		opts.BufferSize = DefaultBufferSize
	}

	return &Archiver{opts: opts}
}
