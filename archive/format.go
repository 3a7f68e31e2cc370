package archive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"
	"github.com/nguyengg/arcnav/codec"
)

// Format identifies the container format of an archive.
type Format int

const (
	FormatUnknown Format = iota
	FormatZip
	FormatTar
	FormatTarGz
	FormatTarXz
	FormatTarZst
	Format7z
	FormatRar
)

func (f Format) String() string {
	switch f {
	case FormatZip:
		return "zip"
	case FormatTar:
		return "tar"
	case FormatTarGz:
		return "tar.gz"
	case FormatTarXz:
		return "tar.xz"
	case FormatTarZst:
		return "tar.zst"
	case Format7z:
		return "7z"
	case FormatRar:
		return "rar"
	default:
		return "unknown"
	}
}

// Ext returns the canonical file name extension of the format.
func (f Format) Ext() string {
	if f == FormatUnknown {
		return ""
	}

	return "." + f.String()
}

// Capabilities returns the mutations supported by the format.
//
// Only ZIP supports adding entries in place. The tar family can be rewritten without the deleted entries, while 7z and
// RAR are read-only.
func (f Format) Capabilities() Capabilities {
	switch f {
	case FormatZip:
		return Capabilities{Format: f, Add: true, Delete: true}
	case FormatTar, FormatTarGz, FormatTarXz, FormatTarZst:
		return Capabilities{Format: f, Delete: true}
	default:
		return Capabilities{Format: f}
	}
}

// codec returns the stream codec of the tar family, nil for plain tar.
func (f Format) codec() codec.Codec {
	switch f {
	case FormatTarGz:
		return codec.Gzip{}
	case FormatTarXz:
		return codec.Xz{}
	case FormatTarZst:
		return codec.Zstd{}
	default:
		return nil
	}
}

// DetectFormat sniffs the contents of the named file to determine its format.
//
// The detection is delegated to archives.Identify which matches on both the file's header bytes and its name. If the
// file is not an archive (for example a plain .gz file), FormatUnknown is returned without error. The error return
// value is reserved for failures to open or read the file.
func DetectFormat(ctx context.Context, name string) (Format, error) {
	f, err := os.Open(name)
	if err != nil {
		return FormatUnknown, fmt.Errorf(`open file "%s" error: %w`, name, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return FormatUnknown, fmt.Errorf(`stat file "%s" error: %w`, name, err)
	}
	if fi.IsDir() {
		return FormatUnknown, nil
	}

	format, _, err := archives.Identify(ctx, filepath.Base(name), f)
	switch {
	case errors.Is(err, archives.NoMatch):
		return FormatUnknown, nil
	case err != nil:
		return FormatUnknown, fmt.Errorf(`identify file "%s" error: %w`, name, err)
	}

	return formatFromExt(format.Extension()), nil
}

// FormatFromName uses only the extension of the file's name to determine its format.
func FormatFromName(name string) Format {
	_, ext := StemAndExt(name)
	return formatFromExt(ext)
}

func formatFromExt(ext string) Format {
	switch ext = strings.ToLower(ext); ext {
	case ".zip":
		return FormatZip
	case ".tar":
		return FormatTar
	case ".7z":
		return Format7z
	case ".rar":
		return FormatRar
	}

	c, ok := codec.FromExt(ext)
	if !ok || !strings.HasPrefix(ext, ".t") {
		return FormatUnknown
	}

	switch c.(type) {
	case codec.Gzip:
		return FormatTarGz
	case codec.Xz:
		return FormatTarXz
	case codec.Zstd:
		return FormatTarZst
	default:
		return FormatUnknown
	}
}

// StemAndExt is a variant of filepath.Ext that allows extended extension such as ".tar.gz" to be detected while also
// returning the stem.
//
// Only extensions of up to 6 characters per segment are considered, so "my.archive.zip" has stem "my.archive".
func StemAndExt(path string) (stem, ext string) {
	n := len(path) - 1
	for i, j := n, max(0, n-6); i >= j; i-- {
		switch path[i] {
		case '\\', '/':
			stem = path[i+1:]
			return
		case '.':
			if ext != "" && !strings.EqualFold(path[i:], ".tar") {
				stem = filepath.Base(path)
				return
			}

			ext = path[i:] + ext
			path = path[:i]
			n = len(path) - 1
			i, j = n+1, max(0, n-6)
		}
	}

	stem = filepath.Base(path)
	return
}
