package archive

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nguyengg/arcnav/codec"
	"github.com/stretchr/testify/require"
)

// testFile describes an entry to be written to a test archive. Names ending with "/" are directories.
type testFile struct {
	name    string
	content string
}

var modTime = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

// sampleFiles is the layout used by most tests:
//
//	a/
//	a/b.txt
//	a/c/d.txt
//	e.txt
var sampleFiles = []testFile{
	{name: "a/"},
	{name: "a/b.txt", content: strings.Repeat("b", 100)},
	{name: "a/c/d.txt", content: strings.Repeat("d", 300)},
	{name: "e.txt", content: "hello, world!"},
}

// writeZip creates a ZIP archive in a temporary directory and returns its path.
func writeZip(t *testing.T, name string, files []testFile) string {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		fh := &zip.FileHeader{Name: f.name, Method: zip.Deflate, Modified: modTime}
		if strings.HasSuffix(f.name, "/") {
			fh.Method = zip.Store
			fh.SetMode(os.ModeDir | 0755)
		} else {
			fh.SetMode(0644)
		}

		w, err := zw.CreateHeader(fh)
		require.NoError(t, err)
		_, err = w.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

// writeTar creates a tarball in a temporary directory, compressed with the given codec if non-nil.
func writeTar(t *testing.T, name string, c codec.Codec, files []testFile) string {
	t.Helper()

	var (
		buf bytes.Buffer
		enc io.WriteCloser = writeNopCloser{&buf}
		err error
	)
	if c != nil {
		enc, err = c.NewEncoder(&buf)
		require.NoError(t, err)
	}

	tw := tar.NewWriter(enc)
	for _, f := range files {
		hdr := &tar.Header{Name: f.name, Mode: 0644, Size: int64(len(f.content)), ModTime: modTime, Typeflag: tar.TypeReg}
		if strings.HasSuffix(f.name, "/") {
			hdr.Typeflag, hdr.Mode = tar.TypeDir, 0755
		}

		require.NoError(t, tw.WriteHeader(hdr))
		_, err := tw.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, enc.Close())

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

// listNames returns the paths of all entries in the archive.
func listNames(t *testing.T, a *Archiver, path string) []string {
	t.Helper()

	entries, err := a.ListEntries(t.Context(), path)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Path)
	}

	return names
}

// walkFiles returns the slash-separated relative paths of all regular files under dir.
func walkFiles(t *testing.T, dir string) []string {
	t.Helper()

	names := make([]string, 0)
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		rel, err := filepath.Rel(dir, path)
		names = append(names, filepath.ToSlash(rel))
		return err
	})
	require.NoError(t, err)

	return names
}
