package codec

import (
	"io"
	"strings"
)

// Codec has methods to create compressor/encoder and decompressor/decoder.
//
// A Codec wraps a single stream (.gz, .xz, .zst) which is how tarballs are compressed; it knows nothing about archive
// members.
type Codec interface {
	// NewDecoder creates a decoder to decompress contents from the given io.Reader.
	NewDecoder(src io.Reader) (io.ReadCloser, error)
	// NewEncoder creates an encoder to compress contents to the given io.Writer.
	//
	// The encoder must be closed to flush its contents, but closing it does not close dst.
	NewEncoder(dst io.Writer) (io.WriteCloser, error)
	// Ext returns the file name extension of streams compressed with this codec, such as ".gz".
	Ext() string
}

// FromExt returns the Codec whose Ext matches the suffix of the given extension.
//
// Both ".gz" and ".tar.gz" will return the gzip codec; ".tgz" is also recognised.
func FromExt(ext string) (Codec, bool) {
	switch ext = strings.ToLower(ext); {
	case strings.HasSuffix(ext, ".gz"), ext == ".tgz":
		return Gzip{}, true
	case strings.HasSuffix(ext, ".xz"), ext == ".txz":
		return Xz{}, true
	case strings.HasSuffix(ext, ".zst"), ext == ".tzst":
		return Zstd{}, true
	default:
		return nil, false
	}
}
