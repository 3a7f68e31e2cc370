package archive

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/nguyengg/arcnav/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiver_TestArchive(t *testing.T) {
	garbage := filepath.Join(t.TempDir(), "garbage.zip")
	require.NoError(t, os.WriteFile(garbage, []byte("this is not a zip file"), 0644))

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "zip", path: writeZip(t, "test.zip", sampleFiles), want: true},
		{name: "tar.gz", path: writeTar(t, "test.tar.gz", codec.Gzip{}, sampleFiles), want: true},
		{name: "tar.xz", path: writeTar(t, "test.tar.xz", codec.Xz{}, sampleFiles), want: true},
		{name: "corrupted zip", path: writeCorruptedZip(t), want: false},
		{name: "not an archive", path: garbage, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New().TestArchive(t.Context(), tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestArchiver_TestArchive_NotFound(t *testing.T) {
	_, err := New().TestArchive(t.Context(), filepath.Join(t.TempDir(), "missing.zip"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// writeCorruptedZip creates a ZIP archive with a stored (uncompressed) entry whose content no longer matches its CRC-32.
func writeCorruptedZip(t *testing.T) string {
	t.Helper()

	const content = "0123456789abcdef"

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.CreateHeader(&zip.FileHeader{Name: "data.bin", Method: zip.Store})
	require.NoError(t, err)
	_, err = w.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	data := buf.Bytes()
	i := bytes.Index(data, []byte(content))
	require.GreaterOrEqual(t, i, 0)
	data[i] ^= 0xff

	path := filepath.Join(t.TempDir(), "corrupted.zip")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}
