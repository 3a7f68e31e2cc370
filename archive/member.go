package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"path"
	"strings"
	"time"
)

// member is a file in an archive as yielded by Archiver.members.
type member interface {
	entry() Entry
	// regular is true for regular files; directories and links are not regular.
	regular() bool
	mode() fs.FileMode
	// Open is only valid until the iterator advances to the next member.
	Open() (io.ReadCloser, error)
}

// members produces an iterator returning the members of the named archive in container order.
//
// The archive is opened when iteration starts and closed when it stops.
func (a *Archiver) members(ctx context.Context, name string, f Format) iter.Seq2[member, error] {
	switch f {
	case FormatZip:
		return a.zipMembers(name)
	case FormatTar, FormatTarGz, FormatTarXz, FormatTarZst:
		return a.tarMembers(name, f)
	case Format7z:
		return a.sevenZipMembers(name)
	case FormatRar:
		return a.rarMembers(ctx, name)
	default:
		return func(yield func(member, error) bool) {
			yield(nil, fmt.Errorf(`"%s" is not an archive: %w`, name, ErrInvalidFormat))
		}
	}
}

// detect is a variant of DetectFormat that returns an error wrapping ErrInvalidFormat for unknown formats.
func (a *Archiver) detect(ctx context.Context, name string) (Format, error) {
	f, err := DetectFormat(ctx, name)
	if err == nil && f == FormatUnknown {
		err = fmt.Errorf(`"%s" is not an archive: %w`, name, ErrInvalidFormat)
	}

	return f, err
}

// newEntry normalises the raw name from the container and computes the derived fields.
func newEntry(name string, isDir bool, size, compressedSize int64, modTime time.Time, encrypted bool) Entry {
	p, dirSuffix := normalizeName(name)

	e := Entry{
		Path:           p,
		Name:           path.Base(p),
		IsDir:          isDir || dirSuffix,
		Size:           size,
		CompressedSize: compressedSize,
		LastModified:   modTime,
		IsEncrypted:    encrypted,
	}
	if e.IsDir {
		e.Size, e.CompressedSize = 0, 0
	}
	if e.Size > 0 && e.CompressedSize > 0 {
		e.CompressionRatio = float64(e.CompressedSize) / float64(e.Size)
	}

	return e
}

// normalizeName converts the raw name to use `/` as separator and strips leading `./` and `/` as well as trailing `/`.
//
// The second return value is true if the name had a trailing separator, which marks a directory in most formats.
func normalizeName(name string) (string, bool) {
	name = strings.ReplaceAll(name, `\`, "/")
	for {
		switch {
		case strings.HasPrefix(name, "./"):
			name = name[2:]
		case strings.HasPrefix(name, "/"):
			name = name[1:]
		default:
			trimmed := strings.TrimRight(name, "/")
			return trimmed, len(trimmed) != len(name)
		}
	}
}

// matcher returns a function that reports whether an archive path is selected by the given paths.
//
// Matching is case-insensitive. Unless Options.NoExpandDirectories is true, a selected path also selects all of its
// descendants.
func (a *Archiver) matcher(paths []string) func(string) bool {
	wanted := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if p, _ = normalizeName(p); p != "" {
			wanted[strings.ToLower(p)] = struct{}{}
		}
	}

	return func(name string) bool {
		p, _ := normalizeName(name)
		p = strings.ToLower(p)

		for p != "" {
			if _, ok := wanted[p]; ok {
				return true
			}
			if a.opts.NoExpandDirectories {
				return false
			}

			i := strings.LastIndexByte(p, '/')
			if i < 0 {
				return false
			}
			p = p[:i]
		}

		return false
	}
}

// isFatal returns true for errors that are not caused by the contents of the archive: cancellation and file system
// errors.
func isFatal(err error) bool {
	var pathErr *fs.PathError
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.As(err, &pathErr)
}
