package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/nguyengg/arcnav/archive"
	"github.com/nguyengg/arcnav/browser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "y\n", want: true},
		{input: "YES\n", want: true},
		{input: "  yes  \n", want: true},
		{input: "n\n", want: false},
		{input: "\n", want: false},
		{input: "", want: false},
		{input: "yess\n", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := confirm(strings.NewReader(tt.input), "delete?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckArgs(t *testing.T) {
	assert.NoError(t, checkArgs(nil))
	assert.ErrorContains(t, checkArgs([]string{"a", "b"}), "a b")
}

func TestExtract_destination(t *testing.T) {
	modTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rooted := browser.NewSnapshot("test.zip", []archive.Entry{
		{Path: "test", Name: "test", IsDir: true, LastModified: modTime},
		{Path: "test/a.txt", Size: 1, LastModified: modTime},
	}, archive.Capabilities{})
	flat := browser.NewSnapshot("test.zip", []archive.Entry{
		{Path: "a.txt", Size: 1, LastModified: modTime},
		{Path: "b.txt", Size: 1, LastModified: modTime},
	}, archive.Capabilities{})

	t.Run("flag", func(t *testing.T) {
		c := &Extract{Dir: "out"}
		dir, err := c.destination("test.zip", flat)
		require.NoError(t, err)
		assert.Equal(t, "out", dir)
	})

	t.Run("common root", func(t *testing.T) {
		c := &Extract{}
		dir, err := c.destination("test.zip", rooted)
		require.NoError(t, err)
		assert.Equal(t, ".", dir)
	})

	t.Run("no common root", func(t *testing.T) {
		t.Chdir(t.TempDir())

		c := &Extract{}
		dir, err := c.destination("path/to/test.tar.gz", flat)
		require.NoError(t, err)
		assert.Equal(t, "test", filepath.Base(dir))
		assert.DirExists(t, dir)

		// a second extraction must not reuse the same directory.
		again, err := c.destination("path/to/test.tar.gz", flat)
		require.NoError(t, err)
		assert.NotEqual(t, dir, again)
		assert.DirExists(t, again)
	})

	t.Run("paths always get a new directory", func(t *testing.T) {
		t.Chdir(t.TempDir())

		c := &Extract{}
		c.Args.Paths = []string{"test/a.txt"}
		dir, err := c.destination("test.zip", rooted)
		require.NoError(t, err)
		assert.NotEqual(t, ".", dir)

		_, err = os.Stat(dir)
		assert.NoError(t, err)
	})
}

func TestTestError(t *testing.T) {
	tests := []struct {
		name      string
		corrupted int
		failed    int
		wantErr   string
	}{
		{name: "all ok"},
		{name: "corrupted", corrupted: 2, wantErr: "found 2 corrupted archives"},
		{name: "failed", failed: 1, wantErr: "1 archives could not be tested"},
		{name: "both", corrupted: 1, failed: 3, wantErr: "found 1 corrupted archives and 3 archives that could not be tested"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := testError(tt.corrupted, tt.failed)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestTest_Execute_OpenFailure(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	garbage := filepath.Join(dir, "bad.zip")
	require.NoError(t, os.WriteFile(garbage, []byte("this is not a zip file"), 0644))

	c := &Test{}
	c.Args.Archives = []flags.Filename{flags.Filename(garbage), flags.Filename(filepath.Join(dir, "missing.zip"))}
	assert.EqualError(t, c.Execute(nil), "2 archives could not be tested")
}
