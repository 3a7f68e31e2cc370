package archive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nguyengg/arcnav/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	plain := filepath.Join(t.TempDir(), "hello.txt")
	require.NoError(t, os.WriteFile(plain, []byte("hello, world!"), 0644))

	single := filepath.Join(t.TempDir(), "hello.gz")
	w, err := os.Create(single)
	require.NoError(t, err)
	enc, err := codec.Gzip{}.NewEncoder(w)
	require.NoError(t, err)
	_, err = enc.Write([]byte("hello, world!"))
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	require.NoError(t, w.Close())

	tests := []struct {
		name string
		path string
		want Format
	}{
		{name: "zip", path: writeZip(t, "test.zip", sampleFiles), want: FormatZip},
		{name: "tar", path: writeTar(t, "test.tar", nil, sampleFiles), want: FormatTar},
		{name: "tar.gz", path: writeTar(t, "test.tar.gz", codec.Gzip{}, sampleFiles), want: FormatTarGz},
		{name: "tar.xz", path: writeTar(t, "test.tar.xz", codec.Xz{}, sampleFiles), want: FormatTarXz},
		{name: "tar.zst", path: writeTar(t, "test.tar.zst", codec.Zstd{}, sampleFiles), want: FormatTarZst},
		{name: "zip without extension", path: writeZip(t, "test", sampleFiles), want: FormatZip},
		{name: "plain text", path: plain, want: FormatUnknown},
		{name: "single gzip file", path: single, want: FormatUnknown},
		{name: "directory", path: t.TempDir(), want: FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(t.Context(), tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormat_NotFound(t *testing.T) {
	_, err := DetectFormat(t.Context(), filepath.Join(t.TempDir(), "missing.zip"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFormatFromName(t *testing.T) {
	tests := []struct {
		name string
		want Format
	}{
		{name: "test.zip", want: FormatZip},
		{name: "TEST.ZIP", want: FormatZip},
		{name: "path/to/test.tar", want: FormatTar},
		{name: "test.tar.gz", want: FormatTarGz},
		{name: "test.tgz", want: FormatTarGz},
		{name: "test.tar.xz", want: FormatTarXz},
		{name: "test.txz", want: FormatTarXz},
		{name: "test.tar.zst", want: FormatTarZst},
		{name: "test.7z", want: Format7z},
		{name: "test.rar", want: FormatRar},
		{name: "test.gz", want: FormatUnknown},
		{name: "test.txt", want: FormatUnknown},
		{name: "test", want: FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFromName(tt.name))
		})
	}
}

func TestFormat_Capabilities(t *testing.T) {
	tests := []struct {
		format      Format
		add, delete bool
	}{
		{format: FormatZip, add: true, delete: true},
		{format: FormatTar, delete: true},
		{format: FormatTarGz, delete: true},
		{format: FormatTarXz, delete: true},
		{format: FormatTarZst, delete: true},
		{format: Format7z},
		{format: FormatRar},
		{format: FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			got := tt.format.Capabilities()
			assert.Equal(t, tt.format, got.Format)
			assert.Equal(t, tt.add, got.Add)
			assert.Equal(t, tt.delete, got.Delete)
		})
	}
}

func TestStemAndExt(t *testing.T) {
	tests := []struct {
		path     string
		wantStem string
		wantExt  string
	}{
		{path: "test.zip", wantStem: "test", wantExt: ".zip"},
		{path: "path/to/test.tar.gz", wantStem: "test", wantExt: ".tar.gz"},
		{path: `path\to\test.tar.zst`, wantStem: "test", wantExt: ".tar.zst"},
		{path: "my.archive.zip", wantStem: "my.archive", wantExt: ".zip"},
		{path: "test", wantStem: "test", wantExt: ""},
		{path: "verylongextension.abcdefghij", wantStem: "verylongextension.abcdefghij", wantExt: ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			stem, ext := StemAndExt(tt.path)
			assert.Equal(t, tt.wantStem, stem)
			assert.Equal(t, tt.wantExt, ext)
		})
	}
}
