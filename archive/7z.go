package archive

import (
	"fmt"
	"io/fs"
	"iter"

	"github.com/bodgit/sevenzip"
)

func (a *Archiver) sevenZipMembers(name string) iter.Seq2[member, error] {
	return func(yield func(member, error) bool) {
		zr, err := sevenzip.OpenReaderWithPassword(name, a.opts.Password)
		if err != nil {
			yield(nil, fmt.Errorf(`open 7z file "%s" error: %w`, name, err))
			return
		}
		defer zr.Close()

		for _, f := range zr.File {
			if !yield(&sevenZipMember{f}, nil) {
				return
			}
		}
	}
}

type sevenZipMember struct {
	*sevenzip.File
}

var _ member = &sevenZipMember{}

func (m *sevenZipMember) entry() Entry {
	// 7z compresses files together in solid blocks so there is no per-file compressed size. Encryption is only
	// surfaced by sevenzip as a ReadError when a member is opened.
	return newEntry(m.Name, m.FileInfo().IsDir(), int64(m.UncompressedSize), 0, m.Modified, false)
}

func (m *sevenZipMember) regular() bool {
	return m.FileInfo().Mode().IsRegular()
}

func (m *sevenZipMember) mode() fs.FileMode {
	return m.FileInfo().Mode()
}
