package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/flate"
)

func (a *Archiver) zipMembers(name string) iter.Seq2[member, error] {
	return func(yield func(member, error) bool) {
		zr, err := zip.OpenReader(name)
		if err != nil {
			yield(nil, fmt.Errorf(`open zip file "%s" error: %w`, name, err))
			return
		}
		defer zr.Close()

		for _, zf := range zr.File {
			if !yield(&zipMember{zf}, nil) {
				return
			}
		}
	}
}

type zipMember struct {
	*zip.File
}

var _ member = &zipMember{}

func (m *zipMember) entry() Entry {
	// bit 0 of the general purpose flag indicates that the file is encrypted.
	return newEntry(m.Name, m.FileInfo().IsDir(), int64(m.UncompressedSize64), int64(m.CompressedSize64), m.Modified, m.Flags&0x1 != 0)
}

func (m *zipMember) regular() bool {
	return m.Mode().IsRegular()
}

func (m *zipMember) mode() fs.FileMode {
	return m.Mode()
}

// rewriteZip replaces the named ZIP archive with a copy that retains only the entries for which keep returns true and
// then calls add (if non-nil) to append new entries.
//
// Retained entries are copied without recompression. The new archive is written to a temporary file in the same
// directory and renamed over the original only if everything succeeds, so a cancelled or failed rewrite leaves the
// original untouched.
func (a *Archiver) rewriteZip(ctx context.Context, name string, keep func(string) bool, add func(*zip.Writer) error) error {
	zr, err := zip.OpenReader(name)
	if err != nil {
		return fmt.Errorf(`open zip file "%s" error: %w`, name, err)
	}
	defer zr.Close()

	return replaceFile(name, func(dst io.Writer) error {
		zw := zip.NewWriter(dst)
		zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(w, a.opts.CompressionLevel)
		})
		if err := zw.SetComment(zr.Comment); err != nil {
			return err
		}

		for _, zf := range zr.File {
			if err := ctx.Err(); err != nil {
				return err
			}

			if !keep(zf.Name) {
				continue
			}

			if err := zw.Copy(zf); err != nil {
				return &EntryError{Op: "copy", Path: zf.Name, Err: err}
			}
		}

		if add != nil {
			if err := add(zw); err != nil {
				return err
			}
		}

		if err := zw.Close(); err != nil {
			return fmt.Errorf("close zip writer error: %w", err)
		}

		// must close the reader before the original file can be replaced on Windows.
		return zr.Close()
	})
}

// addZipFile creates a new entry in the ZIP archive from the local file.
func (a *Archiver) addZipFile(ctx context.Context, zw *zip.Writer, s source, buf []byte) error {
	fh, err := zip.FileInfoHeader(s.fi)
	if err != nil {
		return err
	}

	fh.Name = s.name
	if s.fi.IsDir() {
		fh.Name += "/"
		fh.Method = zip.Store
	} else {
		fh.Method = zip.Deflate
	}

	w, err := zw.CreateHeader(fh)
	if err != nil || s.fi.IsDir() {
		return err
	}

	f, err := os.Open(s.local)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = copyBufferWithContext(ctx, w, f, buf)
	return err
}

// replaceFile calls write with a temporary file in the same directory as name, then renames the temporary file over
// name if write succeeds. The permission bits of the original file are retained.
func replaceFile(name string, write func(dst io.Writer) error) (err error) {
	fi, err := os.Stat(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(name), filepath.Base(name)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temporary file error: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf(`close file "%s" error: %w`, tmp.Name(), err)
	}

	if err = os.Chmod(tmp.Name(), fi.Mode().Perm()); err != nil {
		return fmt.Errorf(`chmod file "%s" error: %w`, tmp.Name(), err)
	}

	if err = os.Rename(tmp.Name(), name); err != nil {
		return fmt.Errorf(`rename "%s" to "%s" error: %w`, tmp.Name(), name, err)
	}

	return nil
}
