package browser

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/nguyengg/arcnav/archive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinator_WithArchiver(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.zip")

	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, content := range map[string]string{"a/b.txt": "0123456789", "c.txt": "01234567890123456789"} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	c := New(archive.New())
	t.Cleanup(func() {
		_ = c.Close()
	})

	require.NoError(t, c.Load(t.Context(), path).Wait().Err)
	assert.Equal(t, []string{"a", "c.txt"}, names(c.Nodes()))
	assert.Equal(t, int64(30), c.Aggregate().TotalSize)
	assert.Equal(t, 2, c.Aggregate().FileCount)
	assert.Equal(t, 0, c.Aggregate().FolderCount)
	assert.Equal(t, archive.Capabilities{Format: archive.FormatZip, Add: true, Delete: true}, c.Snapshot().Capabilities)

	// add a file while inside a/.
	require.True(t, c.NavigateTo("a"))
	src := filepath.Join(t.TempDir(), "d.txt")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0644))
	require.NoError(t, c.AddFiles(t.Context(), []string{src}).Wait().Err)
	assert.Equal(t, "a", c.Dir())
	assert.Equal(t, 3, c.Aggregate().FileCount)

	// deleting the only file in a/ moves back to root.
	require.True(t, c.Toggle("a/b.txt"))
	require.NoError(t, c.DeleteSelected(t.Context()).Wait().Err)
	assert.Equal(t, "", c.Dir())
	assert.Equal(t, []string{"c.txt", "d.txt"}, names(c.Nodes()))

	res := c.Test(t.Context()).Wait()
	require.NoError(t, res.Err)
	assert.True(t, res.OK)

	out := t.TempDir()
	require.NoError(t, c.ExtractAll(t.Context(), out).Wait().Err)
	data, err := os.ReadFile(filepath.Join(out, "d.txt"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
	assert.Equal(t, float64(100), c.Status().Percentage)

	// not an archive.
	res = c.Load(t.Context(), src).Wait()
	assert.Equal(t, InvalidFormat, Classify(res.Err))
	assert.Equal(t, path, c.Snapshot().Path)
}
