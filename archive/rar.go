package archive

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"iter"

	"github.com/mholt/archives"
	"github.com/nwaples/rardecode/v2"
)

func (a *Archiver) rarMembers(ctx context.Context, name string) iter.Seq2[member, error] {
	return func(yield func(member, error) bool) {
		stopped := false

		// with Name given, the archive (and its subsequent volumes) are opened from the file system so the stream
		// argument is ignored.
		err := archives.Rar{Name: name, Password: a.opts.Password}.Extract(ctx, nil, func(_ context.Context, f archives.FileInfo) error {
			if !yield(&rarMember{f}, nil) {
				stopped = true
				return fs.SkipAll
			}

			return nil
		})
		if err != nil && !stopped {
			yield(nil, fmt.Errorf(`open rar file "%s" error: %w`, name, err))
		}
	}
}

type rarMember struct {
	f archives.FileInfo
}

var _ member = &rarMember{}

func (m *rarMember) entry() Entry {
	var (
		packed    int64
		encrypted bool
	)
	if hdr, ok := m.f.Header.(*rardecode.FileHeader); ok {
		packed, encrypted = hdr.PackedSize, hdr.Encrypted
	}

	return newEntry(m.f.NameInArchive, m.f.IsDir(), m.f.Size(), packed, m.f.ModTime(), encrypted)
}

func (m *rarMember) regular() bool {
	return m.f.Mode().IsRegular()
}

func (m *rarMember) mode() fs.FileMode {
	return m.f.Mode()
}

func (m *rarMember) Open() (io.ReadCloser, error) {
	return m.f.Open()
}
