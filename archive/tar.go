package archive

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"strings"
)

func (a *Archiver) tarMembers(name string, f Format) iter.Seq2[member, error] {
	return func(yield func(member, error) bool) {
		src, err := os.Open(name)
		if err != nil {
			yield(nil, fmt.Errorf(`open file "%s" error: %w`, name, err))
			return
		}
		defer src.Close()

		var r io.Reader = src
		if c := f.codec(); c != nil {
			dec, err := c.NewDecoder(src)
			if err != nil {
				yield(nil, fmt.Errorf("create %s decoder error: %w", c.Ext(), err))
				return
			}
			defer dec.Close()

			r = dec
		}

		tr := tar.NewReader(r)
		for {
			hdr, err := tr.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(nil, fmt.Errorf("read next tar entry error: %w", err))
				return
			}

			if hdr.Typeflag == tar.TypeXGlobalHeader {
				continue
			}

			if !yield(&tarMember{hdr: hdr, r: tr}, nil) {
				return
			}
		}
	}
}

type tarMember struct {
	hdr *tar.Header
	r   *tar.Reader
}

var _ member = &tarMember{}

func (m *tarMember) entry() Entry {
	isDir := m.hdr.Typeflag == tar.TypeDir || strings.HasSuffix(m.hdr.Name, "/")

	// tar has no per-member compression so compressed size is the same as size.
	return newEntry(m.hdr.Name, isDir, m.hdr.Size, m.hdr.Size, m.hdr.ModTime, false)
}

func (m *tarMember) regular() bool {
	return m.hdr.FileInfo().Mode().IsRegular()
}

func (m *tarMember) mode() fs.FileMode {
	return m.hdr.FileInfo().Mode()
}

func (m *tarMember) Open() (io.ReadCloser, error) {
	return io.NopCloser(m.r), nil
}

// rewriteTar replaces the named tarball with a copy that retains only the entries for which keep returns true.
//
// Unlike ZIP, a compressed tarball is a single stream so the whole archive is decompressed and compressed again.
func (a *Archiver) rewriteTar(ctx context.Context, name string, f Format, keep func(string) bool) error {
	src, err := os.Open(name)
	if err != nil {
		return fmt.Errorf(`open file "%s" error: %w`, name, err)
	}
	defer src.Close()

	var (
		r io.Reader = src
		c           = f.codec()
	)
	if c != nil {
		dec, err := c.NewDecoder(src)
		if err != nil {
			return fmt.Errorf("create %s decoder error: %w", c.Ext(), err)
		}
		defer dec.Close()

		r = dec
	}

	return replaceFile(name, func(dst io.Writer) error {
		var enc io.WriteCloser = writeNopCloser{dst}
		if c != nil {
			var err error
			if enc, err = c.NewEncoder(dst); err != nil {
				return fmt.Errorf("create %s encoder error: %w", c.Ext(), err)
			}
		}

		tr, tw := tar.NewReader(r), tar.NewWriter(enc)
		buf := make([]byte, a.opts.BufferSize)

		for {
			hdr, err := tr.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return fmt.Errorf("read next tar entry error: %w", err)
			}

			if err = ctx.Err(); err != nil {
				return err
			}

			if !keep(hdr.Name) {
				continue
			}

			if err = tw.WriteHeader(hdr); err != nil {
				return &EntryError{Op: "copy", Path: hdr.Name, Err: err}
			}
			if _, err = copyBufferWithContext(ctx, tw, tr, buf); err != nil {
				return &EntryError{Op: "copy", Path: hdr.Name, Err: err}
			}
		}

		if err := tw.Close(); err != nil {
			return fmt.Errorf("close tar writer error: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("close encoder error: %w", err)
		}

		// must close the source before the original file can be replaced on Windows.
		return src.Close()
	})
}
